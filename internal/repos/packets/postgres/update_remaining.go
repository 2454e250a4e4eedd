package packets

import (
	"database/sql"
	"fmt"

	"github.com/fastprodman/redpacket/internal/redpacket"
)

// UpdateRemaining writes the remainder and finished flag of a locked packet.
func (r *packetsRepo) UpdateRemaining(tx *sql.Tx, p *redpacket.Packet) error {
	res, err := tx.Exec(`
		UPDATE packets
		SET remaining_amount = $2,
		    remaining_count = $3,
		    finished = $4
		WHERE id = $1
		  AND NOT finished
	`, p.ID, p.RemainingAmount, p.RemainingCount, p.Finished)
	if err != nil {
		return fmt.Errorf("update remaining: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return redpacket.ErrAlreadyFinished
	}

	return nil
}
