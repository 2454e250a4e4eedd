package packets

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/redpacket/internal/redpacket"
)

func (r *packetsRepo) LockAndGet(tx *sql.Tx, id uint64) (*redpacket.Packet, error) {
	p := &redpacket.Packet{ID: id}

	err := tx.QueryRow(`
		SELECT creator, total_amount, total_count, remaining_amount, remaining_count, finished
		FROM packets
		WHERE id = $1
		FOR UPDATE
	`, id).Scan(&p.Creator, &p.TotalAmount, &p.TotalCount, &p.RemainingAmount, &p.RemainingCount, &p.Finished)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, redpacket.ErrNotFound
		}

		return nil, fmt.Errorf("lock/get packet: %w", err)
	}

	return p, nil
}
