package wallets

import (
	"database/sql"
	"fmt"

	"github.com/fastprodman/redpacket/internal/repos/wallets"
)

func (r *walletsRepo) Exists(tx *sql.Tx, walletID string) error {
	var exists bool

	err := tx.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM wallets WHERE id = $1)
	`, walletID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}

	if !exists {
		return wallets.ErrWalletNotFound
	}

	return nil
}
