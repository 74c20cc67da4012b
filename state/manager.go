// Package state persists ledger records as JSON values under prefixed keys
// and exposes the record accessors the module engines run against.
package state

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"zklend/core/types"
	"zklend/crypto"
	"zklend/native/governance"
	"zklend/native/lending"
	"zklend/storage"
)

var (
	keyProtocolState  = []byte("lending/state")
	keyTreasury       = []byte("lending/treasury")
	keyGovernanceSlot = []byte("gov/slot")
)

func lendingPoolKey(poolID string) []byte {
	return []byte("lending/pool/" + poolID)
}

func collateralPoolKey(asset crypto.Address) []byte {
	return []byte("lending/collateral/" + hex.EncodeToString(asset.Bytes()))
}

func institutionalPoolKey(poolID string) []byte {
	return []byte("lending/institutional/" + poolID)
}

func borrowerKey(addr crypto.Address) []byte {
	return []byte("lending/borrower/" + hex.EncodeToString(addr.Bytes()))
}

func delegationKey(delegate crypto.Address) []byte {
	return []byte("lending/delegation/" + hex.EncodeToString(delegate.Bytes()))
}

func reputationKey(addr crypto.Address) []byte {
	return []byte("lending/reputation/" + hex.EncodeToString(addr.Bytes()))
}

func accountKey(addr crypto.Address) []byte {
	return []byte("accounts/" + string(addr.Prefix()) + "/" + hex.EncodeToString(addr.Bytes()))
}

var errInsufficientFunds = errors.New("state: insufficient balance for transfer")

// Manager wraps a key-value store with typed accessors for every persisted
// record. It satisfies the lending and governance engine state contracts and
// the TokenTransfer capability.
type Manager struct {
	db storage.Database
}

// NewManager binds a manager to the given store.
func NewManager(db storage.Database) *Manager {
	return &Manager{db: db}
}

func (m *Manager) getJSON(key []byte, out any) (bool, error) {
	raw, err := m.db.Get(key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("state: decode %s: %w", key, err)
	}
	return true, nil
}

func (m *Manager) putJSON(key []byte, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("state: encode %s: %w", key, err)
	}
	return m.db.Put(key, raw)
}

// ProtocolState loads the global accounting singleton, or nil before
// initialization.
func (m *Manager) ProtocolState() (*lending.ProtocolState, error) {
	var record lending.ProtocolState
	ok, err := m.getJSON(keyProtocolState, &record)
	if err != nil || !ok {
		return nil, err
	}
	return &record, nil
}

func (m *Manager) PutProtocolState(state *lending.ProtocolState) error {
	return m.putJSON(keyProtocolState, state)
}

// Treasury loads the fee treasury singleton, or nil before initialization.
func (m *Manager) Treasury() (*lending.ProtocolTreasury, error) {
	var record lending.ProtocolTreasury
	ok, err := m.getJSON(keyTreasury, &record)
	if err != nil || !ok {
		return nil, err
	}
	return &record, nil
}

func (m *Manager) PutTreasury(treasury *lending.ProtocolTreasury) error {
	return m.putJSON(keyTreasury, treasury)
}

// LendingPool loads a market record by identifier, or nil when absent.
func (m *Manager) LendingPool(poolID string) (*lending.LendingPool, error) {
	var record lending.LendingPool
	ok, err := m.getJSON(lendingPoolKey(poolID), &record)
	if err != nil || !ok {
		return nil, err
	}
	return &record, nil
}

func (m *Manager) PutLendingPool(poolID string, pool *lending.LendingPool) error {
	return m.putJSON(lendingPoolKey(poolID), pool)
}

// CollateralPool loads the aggregate record for one collateral asset, or nil
// when absent.
func (m *Manager) CollateralPool(asset crypto.Address) (*lending.CollateralPool, error) {
	var record lending.CollateralPool
	ok, err := m.getJSON(collateralPoolKey(asset), &record)
	if err != nil || !ok {
		return nil, err
	}
	return &record, nil
}

func (m *Manager) PutCollateralPool(asset crypto.Address, pool *lending.CollateralPool) error {
	return m.putJSON(collateralPoolKey(asset), pool)
}

// InstitutionalPool loads a whitelist-gated pool by identifier, or nil when
// absent.
func (m *Manager) InstitutionalPool(poolID string) (*lending.InstitutionalLendingPool, error) {
	var record lending.InstitutionalLendingPool
	ok, err := m.getJSON(institutionalPoolKey(poolID), &record)
	if err != nil || !ok {
		return nil, err
	}
	return &record, nil
}

func (m *Manager) PutInstitutionalPool(poolID string, pool *lending.InstitutionalLendingPool) error {
	return m.putJSON(institutionalPoolKey(poolID), pool)
}

// BorrowerAccount loads a participant position, or nil when the participant
// has never staked.
func (m *Manager) BorrowerAccount(addr crypto.Address) (*lending.BorrowerAccount, error) {
	var record lending.BorrowerAccount
	ok, err := m.getJSON(borrowerKey(addr), &record)
	if err != nil || !ok {
		return nil, err
	}
	return &record, nil
}

func (m *Manager) PutBorrowerAccount(account *lending.BorrowerAccount) error {
	if account == nil {
		return errors.New("state: nil borrower account")
	}
	return m.putJSON(borrowerKey(account.Owner), account)
}

// Delegation loads the credit line naming delegate, or nil when none exists.
func (m *Manager) Delegation(delegate crypto.Address) (*lending.DelegatedBorrower, error) {
	var record lending.DelegatedBorrower
	ok, err := m.getJSON(delegationKey(delegate), &record)
	if err != nil || !ok {
		return nil, err
	}
	return &record, nil
}

func (m *Manager) PutDelegation(record *lending.DelegatedBorrower) error {
	if record == nil {
		return errors.New("state: nil delegation")
	}
	return m.putJSON(delegationKey(record.Delegate), record)
}

// Reputation loads a participant's score record, or nil when none exists.
func (m *Manager) Reputation(addr crypto.Address) (*lending.BorrowerReputation, error) {
	var record lending.BorrowerReputation
	ok, err := m.getJSON(reputationKey(addr), &record)
	if err != nil || !ok {
		return nil, err
	}
	return &record, nil
}

func (m *Manager) PutReputation(record *lending.BorrowerReputation) error {
	if record == nil {
		return errors.New("state: nil reputation")
	}
	return m.putJSON(reputationKey(record.Borrower), record)
}

// GovernanceSlot loads the single proposal record, or nil before the first
// proposal.
func (m *Manager) GovernanceSlot() (*governance.Governance, error) {
	var record governance.Governance
	ok, err := m.getJSON(keyGovernanceSlot, &record)
	if err != nil || !ok {
		return nil, err
	}
	return &record, nil
}

func (m *Manager) PutGovernanceSlot(slot *governance.Governance) error {
	return m.putJSON(keyGovernanceSlot, slot)
}

// InstitutionalRoster adapts the named institutional pool's whitelist to the
// governance voter roster. The pool record is re-read on every check so
// whitelist updates take effect immediately.
func (m *Manager) InstitutionalRoster(poolID string) governance.VoterRoster {
	return rosterView{manager: m, poolID: poolID}
}

type rosterView struct {
	manager *Manager
	poolID  string
}

func (r rosterView) IsWhitelisted(addr crypto.Address) bool {
	pool, err := r.manager.InstitutionalPool(r.poolID)
	if err != nil || pool == nil {
		return false
	}
	return pool.IsWhitelisted(addr)
}

// Account loads the custodial token account for an address. Absent accounts
// materialize with a zero balance.
func (m *Manager) Account(addr crypto.Address) (*types.Account, error) {
	record := types.NewAccount()
	ok, err := m.getJSON(accountKey(addr), record)
	if err != nil {
		return nil, err
	}
	if !ok {
		return types.NewAccount(), nil
	}
	record.EnsureDefaults()
	return record, nil
}

func (m *Manager) PutAccount(addr crypto.Address, account *types.Account) error {
	if account == nil {
		return errors.New("state: nil account")
	}
	account.EnsureDefaults()
	return m.putJSON(accountKey(addr), account)
}

// Mint credits amount to an address, creating the account if needed. Used by
// genesis seeding and test fixtures only; regular operations move value, they
// never create it.
func (m *Manager) Mint(addr crypto.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return errors.New("state: mint amount must be positive")
	}
	account, err := m.Account(addr)
	if err != nil {
		return err
	}
	account.Balance = new(big.Int).Add(account.Balance, amount)
	return m.PutAccount(addr, account)
}

// Balance reports the custodial token balance for an address.
func (m *Manager) Balance(addr crypto.Address) (*big.Int, error) {
	account, err := m.Account(addr)
	if err != nil {
		return nil, err
	}
	return account.Balance, nil
}

// Move transfers amount between custodial accounts. A pool escrow that cannot
// cover the draw reports insufficient liquidity; an underfunded participant
// wallet reports insufficient balance.
func (m *Manager) Move(from, to crypto.Address, amount uint64) error {
	value := new(big.Int).SetUint64(amount)
	source, err := m.Account(from)
	if err != nil {
		return err
	}
	if source.Balance.Cmp(value) < 0 {
		if from.Prefix() == crypto.PoolPrefix {
			return lending.ErrInsufficientLiquidity
		}
		return errInsufficientFunds
	}
	if from.Equal(to) || amount == 0 {
		return nil
	}
	dest, err := m.Account(to)
	if err != nil {
		return err
	}
	source.Balance = new(big.Int).Sub(source.Balance, value)
	dest.Balance = new(big.Int).Add(dest.Balance, value)
	if err := m.PutAccount(from, source); err != nil {
		return err
	}
	return m.PutAccount(to, dest)
}
