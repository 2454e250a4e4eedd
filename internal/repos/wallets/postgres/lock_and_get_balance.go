package wallets

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/redpacket/internal/repos/wallets"
)

func (r *walletsRepo) LockAndGetBalance(tx *sql.Tx, walletID string) (int64, error) {
	var balance int64

	err := tx.QueryRow(`
		SELECT balance
		FROM wallets
		WHERE id = $1
		FOR UPDATE
	`, walletID).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, wallets.ErrWalletNotFound
		}

		return 0, fmt.Errorf("lock/get balance: %w", err)
	}

	return balance, nil
}
