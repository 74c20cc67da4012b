package lending

import "zklend/crypto"

// PolicyKind tags the authorization policy admitting a borrow. All three
// paths funnel into the same ledger-update algorithm so the accounting can
// never drift between variants.
type PolicyKind uint8

const (
	// PolicyOpen admits any signer with sufficient collateral.
	PolicyOpen PolicyKind = iota
	// PolicyInstitutional requires the signer to appear in an institutional
	// pool whitelist.
	PolicyInstitutional
	// PolicyDelegated requires a credit-line capability naming the signer as
	// delegate, bounded by the line's ceiling.
	PolicyDelegated
)

// String implements fmt.Stringer for events and logs.
func (k PolicyKind) String() string {
	switch k {
	case PolicyInstitutional:
		return "institutional"
	case PolicyDelegated:
		return "delegated"
	default:
		return "open"
	}
}

// BorrowPolicy carries the policy tag plus the records backing the
// policy-specific authorization check.
type BorrowPolicy struct {
	kind       PolicyKind
	pool       *InstitutionalLendingPool
	delegation *DelegatedBorrower
}

// OpenPolicy admits any sufficiently collateralized signer.
func OpenPolicy() BorrowPolicy {
	return BorrowPolicy{kind: PolicyOpen}
}

// InstitutionalPolicy gates the borrow behind the pool whitelist.
func InstitutionalPolicy(pool *InstitutionalLendingPool) BorrowPolicy {
	return BorrowPolicy{kind: PolicyInstitutional, pool: pool}
}

// DelegatedPolicy gates the borrow behind a delegated credit line.
func DelegatedPolicy(delegation *DelegatedBorrower) BorrowPolicy {
	return BorrowPolicy{kind: PolicyDelegated, delegation: delegation}
}

// Kind returns the policy tag.
func (p BorrowPolicy) Kind() PolicyKind { return p.kind }

// authorize runs the policy-specific admission check for the borrower and
// requested principal.
func (p BorrowPolicy) authorize(borrower crypto.Address, amount uint64) error {
	switch p.kind {
	case PolicyInstitutional:
		if !p.pool.IsWhitelisted(borrower) {
			return ErrUnauthorizedBorrower
		}
	case PolicyDelegated:
		if p.delegation == nil || !p.delegation.Delegate.Equal(borrower) {
			return ErrUnauthorizedBorrower
		}
		if amount > p.delegation.MaxBorrowAmount {
			return ErrBorrowLimitExceeded
		}
	}
	return nil
}
