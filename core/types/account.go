package types

import "math/big"

// Account holds the custodial token balance for a ledger address. Participant
// wallets and module escrow accounts (lending pool, collateral pool) share the
// same shape; the protocol core only touches them through the TokenTransfer
// capability.
type Account struct {
	Nonce   uint64   `json:"nonce"`
	Balance *big.Int `json:"balance"`
}

// NewAccount returns an account with a zeroed balance.
func NewAccount() *Account {
	return &Account{Balance: big.NewInt(0)}
}

// EnsureDefaults populates nil big.Int fields so JSON handling is safe.
func (a *Account) EnsureDefaults() {
	if a.Balance == nil {
		a.Balance = big.NewInt(0)
	}
}
