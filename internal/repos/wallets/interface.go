package wallets

import (
	"context"
	"database/sql"
	"errors"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrWalletNotFound    = errors.New("wallet not found")
	ErrRecipientRejected = errors.New("wallet does not accept payouts")
)

type Wallets interface {
	Exists(tx *sql.Tx, walletID string) error
	Ensure(tx *sql.Tx, walletID string) error
	GetBalance(ctx context.Context, walletID string) (int64, error)
	LockAndGetBalance(tx *sql.Tx, walletID string) (int64, error)
	IncreaseBalance(tx *sql.Tx, walletID string, amount int64) error
	DecreaseBalance(tx *sql.Tx, walletID string, amount int64) error
	Payout(tx *sql.Tx, walletID string, amount int64) error
}
