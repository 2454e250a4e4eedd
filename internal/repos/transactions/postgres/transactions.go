package transactions

import (
	"database/sql"
	"fmt"

	"github.com/fastprodman/redpacket/internal/infra/pgutils"
	"github.com/fastprodman/redpacket/internal/repos/transactions"
)

var _ transactions.Transactions = (*transactionsRepo)(nil)

type transactionsRepo struct{ db *sql.DB }

func New(db *sql.DB) *transactionsRepo {
	return &transactionsRepo{db: db}
}

func (r *transactionsRepo) Insert(tx *sql.Tx, txid, walletID string, amount int64) error {
	_, err := tx.Exec(`
		INSERT INTO transactions (transaction_id, wallet_id, amount)
		VALUES ($1, $2, $3)
	`, txid, walletID, amount)
	if err != nil {
		if pgutils.IsUniqueViolation(err) {
			return transactions.ErrDuplicateTransaction
		}

		return fmt.Errorf("insert transaction: %w", err)
	}

	return nil
}
