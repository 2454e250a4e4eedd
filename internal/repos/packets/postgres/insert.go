package packets

import (
	"database/sql"
	"fmt"

	"github.com/fastprodman/redpacket/internal/redpacket"
)

func (r *packetsRepo) Insert(tx *sql.Tx, p *redpacket.Packet) error {
	_, err := tx.Exec(`
		INSERT INTO packets (id, creator, total_amount, total_count, remaining_amount, remaining_count, finished)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, p.ID, p.Creator, p.TotalAmount, p.TotalCount, p.RemainingAmount, p.RemainingCount, p.Finished)
	if err != nil {
		return fmt.Errorf("insert packet: %w", err)
	}

	return nil
}
