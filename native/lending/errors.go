package lending

import "errors"

// Operation failure taxonomy. Every arithmetic step uses checked operations
// and the first failing check aborts the whole operation with no partial
// write; callers match with errors.Is and resubmit with corrected inputs.
var (
	// ErrInvalidProof marks a proof the verifier capability rejected.
	ErrInvalidProof = errors.New("lending engine: invalid zero-knowledge proof")
	// ErrMathOverflow marks a checked arithmetic step that over- or
	// underflowed. A liquidity underflow during borrow surfaces here as well:
	// it signals upstream pool insolvency and must not be tolerated silently.
	ErrMathOverflow = errors.New("lending engine: arithmetic overflow")
	// ErrInsufficientCollateral rejects borrows not covered by staked
	// collateral.
	ErrInsufficientCollateral = errors.New("lending engine: insufficient collateral")
	// ErrInsufficientLiquidity rejects draws against an empty pool escrow.
	ErrInsufficientLiquidity = errors.New("lending engine: insufficient liquidity")
	// ErrRepayExceedsBorrow rejects repayments below principal plus accrued
	// interest; partial repayment is not supported.
	ErrRepayExceedsBorrow = errors.New("lending engine: repayment below amount due")
	// ErrLiquidationNotAllowed rejects liquidation while the insufficiency
	// probe has not fired.
	ErrLiquidationNotAllowed = errors.New("lending engine: liquidation conditions not met")
	// ErrCollateralSufficient is the positive-probe twin of
	// ErrLiquidationNotAllowed kept for API compatibility.
	ErrCollateralSufficient = errors.New("lending engine: collateral still sufficient")
	// ErrCollateralLockTimeNotMet enforces the flash-loan dwell time between
	// successive borrows on one position.
	ErrCollateralLockTimeNotMet = errors.New("lending engine: collateral lock time not met")
	// ErrUnauthorizedBorrower rejects signers failing the policy check of the
	// institutional or delegated borrow paths.
	ErrUnauthorizedBorrower = errors.New("lending engine: unauthorized borrower")
	// ErrBorrowLimitExceeded rejects delegated borrows above the credit line
	// ceiling.
	ErrBorrowLimitExceeded = errors.New("lending engine: delegated credit limit exceeded")
)

var (
	errNilState         = errors.New("lending engine: state not configured")
	errNilTransfer      = errors.New("lending engine: token transfer not configured")
	errNilProtocolState = errors.New("lending engine: protocol not initialised")
	errNilPool          = errors.New("lending engine: pool not initialised")
	errPoolNotSet       = errors.New("lending engine: pool identifier not configured")
)
