package wallets

import (
	"database/sql"
	"fmt"
)

func (r *walletsRepo) IncreaseBalance(tx *sql.Tx, walletID string, amount int64) error {
	_, err := tx.Exec(`
		UPDATE wallets
		SET balance = balance + $2
		WHERE id = $1
	`, walletID, amount)
	if err != nil {
		return fmt.Errorf("increase balance: %w", err)
	}

	return nil
}
