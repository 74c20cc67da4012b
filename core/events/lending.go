package events

import (
	"zklend/core/types"
	"zklend/crypto"
)

const (
	TypeCollateralStaked     = "lending.collateralStaked"
	TypeCollateralRebalanced = "lending.collateralRebalanced"
	TypeLoanOpened           = "lending.loanOpened"
	TypeLoanRepaid           = "lending.loanRepaid"
	TypeCollateralLiquidated = "lending.collateralLiquidated"
)

// CollateralStaked is emitted when a borrower locks collateral into a pool.
type CollateralStaked struct {
	Borrower crypto.Address
	Pool     crypto.Address
	Amount   uint64
}

func (CollateralStaked) EventType() string { return TypeCollateralStaked }

func (e CollateralStaked) Event() *types.Event {
	return &types.Event{
		Type: TypeCollateralStaked,
		Attributes: map[string]string{
			"borrower": e.Borrower.String(),
			"pool":     e.Pool.String(),
			"amount":   uintToString(e.Amount),
		},
	}
}

// CollateralRebalanced is emitted when a borrower adjusts collateral already
// held inside the pool.
type CollateralRebalanced struct {
	Borrower crypto.Address
	Delta    uint64
}

func (CollateralRebalanced) EventType() string { return TypeCollateralRebalanced }

func (e CollateralRebalanced) Event() *types.Event {
	return &types.Event{
		Type: TypeCollateralRebalanced,
		Attributes: map[string]string{
			"borrower": e.Borrower.String(),
			"delta":    uintToString(e.Delta),
		},
	}
}

// LoanOpened is emitted on every successful borrow regardless of the
// authorization policy that admitted it.
type LoanOpened struct {
	Borrower  crypto.Address
	Policy    string
	Principal uint64
	Fee       uint64
	Timestamp int64
}

func (LoanOpened) EventType() string { return TypeLoanOpened }

func (e LoanOpened) Event() *types.Event {
	return &types.Event{
		Type: TypeLoanOpened,
		Attributes: map[string]string{
			"borrower":  e.Borrower.String(),
			"policy":    e.Policy,
			"principal": uintToString(e.Principal),
			"fee":       uintToString(e.Fee),
			"timestamp": intToString(e.Timestamp),
		},
	}
}

// LoanRepaid is emitted when a borrower closes their position in full.
type LoanRepaid struct {
	Borrower  crypto.Address
	Principal uint64
	Interest  uint64
	Amount    uint64
}

func (LoanRepaid) EventType() string { return TypeLoanRepaid }

func (e LoanRepaid) Event() *types.Event {
	return &types.Event{
		Type: TypeLoanRepaid,
		Attributes: map[string]string{
			"borrower":  e.Borrower.String(),
			"principal": uintToString(e.Principal),
			"interest":  uintToString(e.Interest),
			"amount":    uintToString(e.Amount),
		},
	}
}

// CollateralLiquidated is emitted when a partial seizure executes against a
// borrower position.
type CollateralLiquidated struct {
	Borrower crypto.Address
	Pool     crypto.Address
	Seized   uint64
}

func (CollateralLiquidated) EventType() string { return TypeCollateralLiquidated }

func (e CollateralLiquidated) Event() *types.Event {
	return &types.Event{
		Type: TypeCollateralLiquidated,
		Attributes: map[string]string{
			"borrower": e.Borrower.String(),
			"pool":     e.Pool.String(),
			"seized":   uintToString(e.Seized),
		},
	}
}
