package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/fastprodman/redpacket/internal/repos/transactions"
	"github.com/fastprodman/redpacket/internal/repos/wallets"
)

var (
	_ Transferer = (*Vault)(nil)
	_ Funder     = (*Vault)(nil)
	_ Reversible = (*Vault)(nil)
	_ Refunder   = (*Vault)(nil)
)

// Vault is an in-memory wallet book. It pays out claims, funds packets and
// takes idempotent deposits.
type Vault struct {
	mu        sync.Mutex
	balances  map[string]int64
	rejecting map[string]bool
	seenTx    map[string]struct{}
}

func NewVault() *Vault {
	return &Vault{
		balances:  make(map[string]int64),
		rejecting: make(map[string]bool),
		seenTx:    make(map[string]struct{}),
	}
}

// Reject makes every future payout to identity fail.
func (v *Vault) Reject(identity string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.rejecting[identity] = true
}

// Transfer credits amount to the wallet of to, opening it if needed.
func (v *Vault) Transfer(_ context.Context, to string, amount int64) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.rejecting[to] {
		return fmt.Errorf("wallet %q: %w", to, wallets.ErrRecipientRejected)
	}

	v.balances[to] += amount

	return nil
}

func (v *Vault) Reverse(_ context.Context, to string, amount int64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.balances[to] -= amount
}

func (v *Vault) Withdraw(_ context.Context, from string, amount int64) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	balance, ok := v.balances[from]
	if !ok {
		return fmt.Errorf("wallet %q: %w", from, wallets.ErrWalletNotFound)
	}

	if balance < amount {
		return fmt.Errorf("wallet %q: %w", from, wallets.ErrInsufficientFunds)
	}

	v.balances[from] = balance - amount

	return nil
}

func (v *Vault) Refund(_ context.Context, to string, amount int64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.balances[to] += amount
}

// Deposit credits a wallet once per transactionID.
func (v *Vault) Deposit(_ context.Context, transactionID, wallet string, amount int64) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, ok := v.seenTx[transactionID]; ok {
		return transactions.ErrDuplicateTransaction
	}

	v.seenTx[transactionID] = struct{}{}
	v.balances[wallet] += amount

	return nil
}

func (v *Vault) GetBalance(_ context.Context, wallet string) (int64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	balance, ok := v.balances[wallet]
	if !ok {
		return 0, wallets.ErrWalletNotFound
	}

	return balance, nil
}
