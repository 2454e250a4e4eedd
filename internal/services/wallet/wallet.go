package wallet

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fastprodman/redpacket/internal/infra/pgutils"
	"github.com/fastprodman/redpacket/internal/repos/transactions"
	pgtransactions "github.com/fastprodman/redpacket/internal/repos/transactions/postgres"
	"github.com/fastprodman/redpacket/internal/repos/wallets"
	pgwallets "github.com/fastprodman/redpacket/internal/repos/wallets/postgres"
)

// Service funds wallets so their owners can create packets.
type Service struct {
	db      *sql.DB
	wallets wallets.Wallets
	txns    transactions.Transactions
}

func New(dbx *sql.DB) *Service {
	return &Service{
		db:      dbx,
		wallets: pgwallets.New(dbx),
		txns:    pgtransactions.New(dbx),
	}
}

// Deposit runs the full flow in a single DB transaction:
//
// 1) Open the wallet if it is new.
// 2) Lock the wallet row (FOR UPDATE).
// 3) Credit the amount.
// 4) Insert the idempotency row (unique-violation -> ErrDuplicateTransaction).
func (s *Service) Deposit(ctx context.Context, transactionID, walletID string, amountMinor int64) error {
	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		err := s.wallets.Ensure(tx, walletID)
		if err != nil {
			return fmt.Errorf("ensure wallet: %w", err)
		}

		_, err = s.wallets.LockAndGetBalance(tx, walletID)
		if err != nil {
			return fmt.Errorf("lock and get balance: %w", err)
		}

		err = s.wallets.IncreaseBalance(tx, walletID, amountMinor)
		if err != nil {
			return fmt.Errorf("increase balance: %w", err)
		}

		err = s.txns.Insert(tx, transactionID, walletID, amountMinor)
		if err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("deposit: %w", err)
	}

	return nil
}

// GetBalance returns the wallet's balance (no locks).
func (s *Service) GetBalance(ctx context.Context, walletID string) (int64, error) {
	balance, err := s.wallets.GetBalance(ctx, walletID)
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}

	return balance, nil
}
