package wallets

import (
	"database/sql"
	"fmt"

	"github.com/fastprodman/redpacket/internal/repos/wallets"
)

// Payout credits a packet share. Unlike IncreaseBalance it fails when the
// wallet is missing or closed for payouts.
func (r *walletsRepo) Payout(tx *sql.Tx, walletID string, amount int64) error {
	res, err := tx.Exec(`
		UPDATE wallets
		SET balance = balance + $2
		WHERE id = $1
		  AND accepts_payouts
	`, walletID, amount)
	if err != nil {
		return fmt.Errorf("payout: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected > 0 {
		return nil
	}

	err = r.Exists(tx, walletID)
	if err != nil {
		return err
	}

	return wallets.ErrRecipientRejected
}
