package lending

import (
	"strings"
	"time"

	"zklend/core/events"
	"zklend/crypto"
	"zklend/native/confidential"
	nativecommon "zklend/native/common"
)

const moduleName = "lending"

// Borrow fees and lender rewards are both a fixed 1% floor division.
const (
	borrowFeeDivisor    = 100
	lenderRewardDivisor = 100
)

// engineState is the persistence contract the engine runs against. Every
// operation reads, validates, and writes a statically known set of these
// records; the hosting runtime serialises operations with overlapping sets.
type engineState interface {
	ProtocolState() (*ProtocolState, error)
	PutProtocolState(state *ProtocolState) error
	Treasury() (*ProtocolTreasury, error)
	PutTreasury(treasury *ProtocolTreasury) error
	LendingPool(poolID string) (*LendingPool, error)
	PutLendingPool(poolID string, pool *LendingPool) error
	CollateralPool(asset crypto.Address) (*CollateralPool, error)
	PutCollateralPool(asset crypto.Address, pool *CollateralPool) error
	BorrowerAccount(addr crypto.Address) (*BorrowerAccount, error)
	PutBorrowerAccount(account *BorrowerAccount) error
}

// TokenTransfer is the capability that physically moves fungible tokens
// between custodial accounts. A failed move aborts the enclosing operation.
type TokenTransfer interface {
	Move(from, to crypto.Address, amount uint64) error
}

// Engine orchestrates the ledger state transitions for the lending module:
// collateral staking, the three borrow paths, interest-bearing repayment, and
// partial liquidation.
type Engine struct {
	state            engineState
	verifier         confidential.ProofVerifier
	transfer         TokenTransfer
	emitter          events.Emitter
	pauses           nativecommon.PauseView
	nowFn            func() int64
	params           Params
	poolID           string
	collateralAsset  crypto.Address
	lendingEscrow    crypto.Address
	collateralEscrow crypto.Address
}

// NewEngine constructs a lending engine bound to the module escrow addresses
// and protocol parameters. State, transfer, and verifier are wired separately
// so tests can substitute mocks.
func NewEngine(lendingEscrow, collateralEscrow crypto.Address, params Params) *Engine {
	return &Engine{
		verifier:         confidential.StubVerifier{},
		emitter:          events.NoopEmitter{},
		nowFn:            func() int64 { return time.Now().Unix() },
		params:           params,
		lendingEscrow:    lendingEscrow,
		collateralEscrow: collateralEscrow,
	}
}

// SetState wires the engine to the external persistence layer.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetTransfer wires the custodial token movement capability.
func (e *Engine) SetTransfer(transfer TokenTransfer) {
	if e == nil {
		return
	}
	e.transfer = transfer
}

// SetVerifier overrides the proof verification capability. Passing nil
// restores the always-accepting stub.
func (e *Engine) SetVerifier(verifier confidential.ProofVerifier) {
	if e == nil {
		return
	}
	if verifier == nil {
		e.verifier = confidential.StubVerifier{}
		return
	}
	e.verifier = verifier
}

// SetEmitter configures the event emitter. Passing nil resets to a no-op.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if e == nil {
		return
	}
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetPauses wires the module pause switches consulted on every mutation.
func (e *Engine) SetPauses(p nativecommon.PauseView) {
	if e == nil {
		return
	}
	e.pauses = p
}

// SetNowFunc overrides the clock capability. Nil restores the wall clock.
// Lock-time and interest math read this per call; the engine never schedules
// anything itself.
func (e *Engine) SetNowFunc(now func() int64) {
	if e == nil {
		return
	}
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

// SetPoolID assigns the lending pool identifier subsequent operations will
// operate against.
func (e *Engine) SetPoolID(poolID string) {
	if e == nil {
		return
	}
	e.poolID = strings.TrimSpace(poolID)
}

// PoolID returns the currently configured pool identifier.
func (e *Engine) PoolID() string {
	if e == nil {
		return ""
	}
	return e.poolID
}

// SetCollateralAsset selects the collateral pool subsequent stake and
// liquidation operations will operate against.
func (e *Engine) SetCollateralAsset(asset crypto.Address) {
	if e == nil {
		return
	}
	e.collateralAsset = asset
}

func (e *Engine) now() int64 {
	if e == nil || e.nowFn == nil {
		return time.Now().Unix()
	}
	return e.nowFn()
}

// Initialize creates the ProtocolState and ProtocolTreasury singletons with
// zeroed counters and the configured genesis parameters. Calling it twice
// overwrites the singletons; single-creation is the hosting runtime's
// responsibility.
func (e *Engine) Initialize() (*ProtocolState, *ProtocolTreasury, error) {
	if e == nil || e.state == nil {
		return nil, nil, errNilState
	}
	params := e.params
	params.EnsureDefaults()

	state := &ProtocolState{
		BaseInterestRate:      params.BaseInterestRate,
		MinCollateralLockTime: params.MinCollateralLockTime,
	}
	treasury := &ProtocolTreasury{}

	if err := e.state.PutProtocolState(state); err != nil {
		return nil, nil, err
	}
	if err := e.state.PutTreasury(treasury); err != nil {
		return nil, nil, err
	}
	return state.Clone(), treasury.Clone(), nil
}

// StakeCollateral locks amount into the configured collateral pool after
// proof verification, crediting the borrower's confidential collateral
// balance and the pool aggregate.
func (e *Engine) StakeCollateral(borrower crypto.Address, amount uint64, proof []byte) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if e.transfer == nil {
		return errNilTransfer
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return err
	}
	if !e.verifier.Verify(proof) {
		return ErrInvalidProof
	}

	account, err := e.ensureBorrowerAccount(borrower)
	if err != nil {
		return err
	}
	pool, err := e.ensureCollateralPool()
	if err != nil {
		return err
	}

	newTotal, err := checkedAdd(pool.TotalCollateral, amount)
	if err != nil {
		return err
	}

	if err := e.transfer.Move(borrower, e.collateralEscrow, amount); err != nil {
		return err
	}

	account.Collateral = account.Collateral.Add(amount)
	pool.TotalCollateral = newTotal

	if err := e.state.PutBorrowerAccount(account); err != nil {
		return err
	}
	if err := e.state.PutCollateralPool(e.collateralAsset, pool); err != nil {
		return err
	}

	e.emit(events.CollateralStaked{Borrower: borrower, Pool: e.collateralEscrow, Amount: amount})
	return nil
}

// RebalanceCollateral adjusts the borrower's confidential collateral balance
// by delta after proof verification. The pool aggregate is deliberately left
// untouched: rebalanced value never leaves pool custody.
func (e *Engine) RebalanceCollateral(borrower crypto.Address, delta uint64, proof []byte) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return err
	}
	if !e.verifier.Verify(proof) {
		return ErrInvalidProof
	}

	account, err := e.ensureBorrowerAccount(borrower)
	if err != nil {
		return err
	}
	account.Collateral = account.Collateral.Add(delta)
	if err := e.state.PutBorrowerAccount(account); err != nil {
		return err
	}

	e.emit(events.CollateralRebalanced{Borrower: borrower, Delta: delta})
	return nil
}

// Borrow releases funds against staked collateral under the supplied
// authorization policy. All three borrow paths share this algorithm; the
// returned value is the 1% fee routed to the treasury.
//
// The steps run in a fixed order: proof verification, policy authorization,
// flash-loan lock, timestamp write, collateral sufficiency, fee split, escrow
// release, treasury accrual, debt accrual (full principal), ledger update,
// utilization recompute. Every check precedes the first write so a failing
// borrow leaves no partial mutation.
func (e *Engine) Borrow(borrower crypto.Address, amount uint64, proof []byte, policy BorrowPolicy) (uint64, error) {
	if e == nil || e.state == nil {
		return 0, errNilState
	}
	if e.transfer == nil {
		return 0, errNilTransfer
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return 0, err
	}
	if !e.verifier.Verify(proof) {
		return 0, ErrInvalidProof
	}
	if err := policy.authorize(borrower, amount); err != nil {
		return 0, err
	}

	state, err := e.protocolState()
	if err != nil {
		return 0, err
	}
	account, err := e.ensureBorrowerAccount(borrower)
	if err != nil {
		return 0, err
	}

	now := e.now()
	if account.BorrowTimestamp > 0 {
		if now-account.BorrowTimestamp < state.MinCollateralLockTime {
			return 0, ErrCollateralLockTimeNotMet
		}
	}
	// Recorded unconditionally, first-ever borrows included.
	account.BorrowTimestamp = now

	if !account.Collateral.AtLeast(amount) {
		return 0, ErrInsufficientCollateral
	}

	fee := amount / borrowFeeDivisor
	netAmount, err := checkedSub(amount, fee)
	if err != nil {
		return 0, err
	}

	treasury, err := e.treasury()
	if err != nil {
		return 0, err
	}
	newFees, err := checkedAdd(treasury.TotalFeesCollected, fee)
	if err != nil {
		return 0, err
	}
	newLoans, err := checkedAdd(state.TotalLoans, amount)
	if err != nil {
		return 0, err
	}
	// Liquidity underflow is a hard failure: it means the pool was already
	// insolvent upstream.
	newLiquidity, err := checkedSub(state.TotalLiquidity, amount)
	if err != nil {
		return 0, err
	}

	if err := e.transfer.Move(e.lendingEscrow, borrower, netAmount); err != nil {
		return 0, err
	}

	treasury.TotalFeesCollected = newFees
	// The fee is funded out of pool liquidity: recorded debt is the full
	// principal, not the net delivery.
	account.Borrowed = account.Borrowed.Add(amount)
	state.TotalLoans = newLoans
	state.TotalLiquidity = newLiquidity
	state.UtilizationRate = utilization(state.TotalLoans, state.TotalLiquidity)

	if err := e.state.PutBorrowerAccount(account); err != nil {
		return 0, err
	}
	if err := e.state.PutTreasury(treasury); err != nil {
		return 0, err
	}
	if err := e.state.PutProtocolState(state); err != nil {
		return 0, err
	}

	e.emit(events.LoanOpened{
		Borrower:  borrower,
		Policy:    policy.Kind().String(),
		Principal: amount,
		Fee:       fee,
		Timestamp: now,
	})
	return fee, nil
}

// Repay closes the borrower's position in full. The payment must cover
// principal plus simple interest accrued since the borrow timestamp; partial
// repayment is not supported. The repaid principal and the interest charged
// are returned.
func (e *Engine) Repay(borrower crypto.Address, amount uint64) (uint64, uint64, error) {
	if e == nil || e.state == nil {
		return 0, 0, errNilState
	}
	if e.transfer == nil {
		return 0, 0, errNilTransfer
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return 0, 0, err
	}

	state, err := e.protocolState()
	if err != nil {
		return 0, 0, err
	}
	pool, err := e.lendingPool()
	if err != nil {
		return 0, 0, err
	}
	account, err := e.ensureBorrowerAccount(borrower)
	if err != nil {
		return 0, 0, err
	}

	now := e.now()
	var elapsed int64
	if account.BorrowTimestamp > 0 && now > account.BorrowTimestamp {
		elapsed = now - account.BorrowTimestamp
	}

	principal := account.Borrowed.Reveal()
	interest, err := interestDue(principal, state.BaseInterestRate, elapsed)
	if err != nil {
		return 0, 0, err
	}
	totalDue, err := checkedAdd(principal, interest)
	if err != nil {
		return 0, 0, err
	}
	if amount < totalDue {
		return 0, 0, ErrRepayExceedsBorrow
	}

	reward := amount / lenderRewardDivisor
	newRewards, err := checkedAdd(pool.LenderRewards, reward)
	if err != nil {
		return 0, 0, err
	}
	newLoans, err := checkedSub(state.TotalLoans, principal)
	if err != nil {
		return 0, 0, err
	}
	newLiquidity, err := checkedAdd(state.TotalLiquidity, amount)
	if err != nil {
		return 0, 0, err
	}

	if err := e.transfer.Move(borrower, e.lendingEscrow, amount); err != nil {
		return 0, 0, err
	}

	pool.LenderRewards = newRewards
	account.Borrowed = confidential.NewAmount(0)
	account.BorrowTimestamp = 0
	state.TotalLoans = newLoans
	state.TotalLiquidity = newLiquidity
	state.UtilizationRate = utilization(state.TotalLoans, state.TotalLiquidity)

	if err := e.state.PutBorrowerAccount(account); err != nil {
		return 0, 0, err
	}
	if err := e.state.PutLendingPool(e.poolID, pool); err != nil {
		return 0, 0, err
	}
	if err := e.state.PutProtocolState(state); err != nil {
		return 0, 0, err
	}

	e.emit(events.LoanRepaid{
		Borrower:  borrower,
		Principal: principal,
		Interest:  interest,
		Amount:    amount,
	})
	return principal, interest, nil
}

// Liquidate seizes half of the borrower's collateral once the insufficiency
// probe fires. The probe is a zero-threshold check: it only passes when the
// confidential collateral balance is already exhausted, so the seizure is a
// boundary no-op in practice. Debt is not touched. The seized amount is
// returned.
func (e *Engine) Liquidate(borrower crypto.Address, proof []byte) (uint64, error) {
	if e == nil || e.state == nil {
		return 0, errNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return 0, err
	}
	if !e.verifier.Verify(proof) {
		return 0, ErrInvalidProof
	}

	account, err := e.ensureBorrowerAccount(borrower)
	if err != nil {
		return 0, err
	}
	if !account.Collateral.IsZero() {
		return 0, ErrLiquidationNotAllowed
	}
	pool, err := e.ensureCollateralPool()
	if err != nil {
		return 0, err
	}

	seized := account.Collateral.Reveal() / 2
	newTotal, err := checkedSub(pool.TotalCollateral, seized)
	if err != nil {
		return 0, err
	}

	account.Collateral = account.Collateral.Sub(seized)
	pool.TotalCollateral = newTotal

	if err := e.state.PutBorrowerAccount(account); err != nil {
		return 0, err
	}
	if err := e.state.PutCollateralPool(e.collateralAsset, pool); err != nil {
		return 0, err
	}

	e.emit(events.CollateralLiquidated{Borrower: borrower, Pool: e.collateralEscrow, Seized: seized})
	return seized, nil
}

func (e *Engine) protocolState() (*ProtocolState, error) {
	state, err := e.state.ProtocolState()
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, errNilProtocolState
	}
	return state, nil
}

func (e *Engine) treasury() (*ProtocolTreasury, error) {
	treasury, err := e.state.Treasury()
	if err != nil {
		return nil, err
	}
	if treasury == nil {
		return nil, errNilProtocolState
	}
	return treasury, nil
}

func (e *Engine) lendingPool() (*LendingPool, error) {
	if strings.TrimSpace(e.poolID) == "" {
		return nil, errPoolNotSet
	}
	pool, err := e.state.LendingPool(e.poolID)
	if err != nil {
		return nil, err
	}
	if pool == nil {
		return nil, errNilPool
	}
	return pool, nil
}

func (e *Engine) ensureCollateralPool() (*CollateralPool, error) {
	pool, err := e.state.CollateralPool(e.collateralAsset)
	if err != nil {
		return nil, err
	}
	if pool == nil {
		pool = &CollateralPool{AssetMint: e.collateralAsset}
	}
	return pool, nil
}

func (e *Engine) ensureBorrowerAccount(addr crypto.Address) (*BorrowerAccount, error) {
	account, err := e.state.BorrowerAccount(addr)
	if err != nil {
		return nil, err
	}
	if account == nil {
		account = &BorrowerAccount{Owner: addr}
	}
	return account, nil
}

func (e *Engine) emit(payload events.Payload) {
	if e == nil || e.emitter == nil {
		return
	}
	e.emitter.Emit(payload)
}
