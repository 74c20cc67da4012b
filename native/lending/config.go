package lending

// Params carries the governance-controlled protocol parameters applied when
// the ledger is initialised.
type Params struct {
	// BaseInterestRate is the simple annual borrow rate in percent.
	BaseInterestRate uint64 `toml:"BaseInterestRate"`
	// MinCollateralLockTime is the flash-loan dwell time in seconds.
	MinCollateralLockTime int64 `toml:"MinCollateralLockTime"`
}

// DefaultParams returns the genesis defaults: 5% per annum and a ten minute
// collateral lock.
func DefaultParams() Params {
	return Params{
		BaseInterestRate:      5,
		MinCollateralLockTime: 600,
	}
}

// EnsureDefaults backfills zero-valued fields with the genesis defaults so a
// partially specified TOML section stays usable.
func (p *Params) EnsureDefaults() {
	defaults := DefaultParams()
	if p.BaseInterestRate == 0 {
		p.BaseInterestRate = defaults.BaseInterestRate
	}
	if p.MinCollateralLockTime == 0 {
		p.MinCollateralLockTime = defaults.MinCollateralLockTime
	}
}
