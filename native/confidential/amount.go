// Package confidential holds the placeholder confidential-value primitives the
// lending core consumes. Balances are wrapped in an opaque Amount so the
// arithmetic backend can be swapped for a real homomorphic scheme later
// without touching call sites; internally the reference behaviour stores the
// plaintext value.
package confidential

// Amount is an opaque wrapper around an unsigned balance. The zero value is a
// zero balance.
type Amount struct {
	value uint64
}

// NewAmount wraps a plaintext quantity. Only state codecs and tests should
// need this constructor; engines receive Amounts already stored in ledger
// records.
func NewAmount(value uint64) Amount {
	return Amount{value: value}
}

// Add returns the amount increased by delta. The addition is checked: when it
// would wrap, the original amount is returned unchanged, mirroring the
// reference behaviour of leaving the balance untouched on overflow.
func (a Amount) Add(delta uint64) Amount {
	sum := a.value + delta
	if sum < a.value {
		return a
	}
	return Amount{value: sum}
}

// Sub returns the amount decreased by delta, saturating at zero. A balance can
// never go negative.
func (a Amount) Sub(delta uint64) Amount {
	if delta >= a.value {
		return Amount{}
	}
	return Amount{value: a.value - delta}
}

// AtLeast reports whether the hidden balance covers the plain threshold.
func (a Amount) AtLeast(threshold uint64) bool {
	return a.value >= threshold
}

// IsZero reports whether the hidden balance is exactly zero.
func (a Amount) IsZero() bool {
	return a.value == 0
}

// Reveal extracts the plaintext value. Restricted to the protocol core and
// its state codec; the gateway never exposes it.
func (a Amount) Reveal() uint64 {
	return a.value
}
