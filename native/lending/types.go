package lending

import (
	"zklend/crypto"
	"zklend/native/confidential"
)

// ProtocolState is the global accounting singleton mutated by every
// borrow/repay operation. Quantities are uint64 protocol units; all mutations
// go through checked arithmetic.
type ProtocolState struct {
	// TotalCollateral aggregates staked collateral across every pool.
	TotalCollateral uint64 `json:"totalCollateral"`
	// TotalLoans tracks outstanding principal across all borrowers.
	TotalLoans uint64 `json:"totalLoans"`
	// TotalLiquidity is the liquidity currently available to be borrowed.
	TotalLiquidity uint64 `json:"totalLiquidity"`
	// BaseInterestRate is the simple annual rate in percent.
	BaseInterestRate uint64 `json:"baseInterestRate"`
	// UtilizationRate is the derived percentage of liquidity lent out. It is
	// an unclamped floor division and exceeds 100 when loans outgrow
	// liquidity.
	UtilizationRate uint64 `json:"utilizationRate"`
	// MinCollateralLockTime is the flash-loan dwell time in seconds enforced
	// between successive borrows on one position.
	MinCollateralLockTime int64 `json:"minCollateralLockTime"`
}

// Clone returns a deep copy of the protocol state.
func (s *ProtocolState) Clone() *ProtocolState {
	if s == nil {
		return nil
	}
	clone := *s
	return &clone
}

// ProtocolTreasury accumulates the borrow fees skimmed on every borrow
// variant plus the governance fund reserve.
type ProtocolTreasury struct {
	TotalFeesCollected uint64 `json:"totalFeesCollected"`
	GovernanceFund     uint64 `json:"governanceFund"`
}

// Clone returns a deep copy of the treasury record.
func (t *ProtocolTreasury) Clone() *ProtocolTreasury {
	if t == nil {
		return nil
	}
	clone := *t
	return &clone
}

// LendingPool aggregates the liquidity available to one borrowing market and
// the 1% lender reward skim accrued on repayments.
type LendingPool struct {
	PoolAuthority    crypto.Address `json:"poolAuthority"`
	TotalLiquidity   uint64         `json:"totalLiquidity"`
	BaseInterestRate uint64         `json:"baseInterestRate"`
	UtilizationRate  uint64         `json:"utilizationRate"`
	LenderRewards    uint64         `json:"lenderRewards"`
}

// CollateralPool tracks the aggregate holding of one accepted collateral
// asset. Mutated on stake and on liquidation seizure.
type CollateralPool struct {
	AssetMint       crypto.Address `json:"assetMint"`
	TotalCollateral uint64         `json:"totalCollateral"`
}

// InstitutionalLendingPool gates the institutional borrow path and vote
// eligibility behind an owner-managed whitelist. Read-only for the engine.
type InstitutionalLendingPool struct {
	PoolOwner         crypto.Address   `json:"poolOwner"`
	TotalLiquidity    uint64           `json:"totalLiquidity"`
	FixedInterestRate uint64           `json:"fixedInterestRate"`
	Whitelist         []crypto.Address `json:"whitelist"`
}

// IsWhitelisted reports whether addr may use the institutional borrow path or
// vote on governance proposals.
func (p *InstitutionalLendingPool) IsWhitelisted(addr crypto.Address) bool {
	if p == nil {
		return false
	}
	for _, member := range p.Whitelist {
		if member.Equal(addr) {
			return true
		}
	}
	return false
}

// BorrowerAccount is the per-participant position: confidential collateral
// and debt balances plus the flash-loan lock timestamp. The timestamp resets
// to zero when the position closes in full.
type BorrowerAccount struct {
	Owner           crypto.Address      `json:"owner"`
	Collateral      confidential.Amount `json:"collateral"`
	Borrowed        confidential.Amount `json:"borrowed"`
	BorrowTimestamp int64               `json:"borrowTimestamp"`
}

// Clone returns a deep copy of the borrower position.
func (b *BorrowerAccount) Clone() *BorrowerAccount {
	if b == nil {
		return nil
	}
	clone := *b
	return &clone
}

// DelegatedBorrower is a capability record granting Delegate the right to
// draw against Delegator's credit line up to MaxBorrowAmount. Immutable after
// creation.
type DelegatedBorrower struct {
	Delegator       crypto.Address `json:"delegator"`
	Delegate        crypto.Address `json:"delegate"`
	MaxBorrowAmount uint64         `json:"maxBorrowAmount"`
}

// BorrowerReputation tracks a participant's score. No transition consumes it
// yet; the record is persisted as an extension point for reputation-weighted
// borrowing terms.
type BorrowerReputation struct {
	Borrower crypto.Address `json:"borrower"`
	Score    uint64         `json:"score"`
}
