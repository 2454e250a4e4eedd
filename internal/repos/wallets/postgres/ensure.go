package wallets

import (
	"database/sql"
	"fmt"
)

// Ensure opens an empty wallet unless it already exists.
func (r *walletsRepo) Ensure(tx *sql.Tx, walletID string) error {
	_, err := tx.Exec(`
		INSERT INTO wallets (id, balance)
		VALUES ($1, 0)
		ON CONFLICT (id) DO NOTHING
	`, walletID)
	if err != nil {
		return fmt.Errorf("ensure wallet: %w", err)
	}

	return nil
}
