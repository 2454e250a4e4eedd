package packets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/redpacket/internal/redpacket"
)

func (r *packetsRepo) Get(ctx context.Context, id uint64) (redpacket.Snapshot, error) {
	s := redpacket.Snapshot{ID: id}

	err := r.db.QueryRowContext(ctx, `
		SELECT creator, total_amount, total_count, remaining_amount, remaining_count, finished
		FROM packets
		WHERE id = $1
	`, id).Scan(&s.Creator, &s.TotalAmount, &s.TotalCount, &s.RemainingAmount, &s.RemainingCount, &s.Finished)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return redpacket.Snapshot{}, redpacket.ErrNotFound
		}

		return redpacket.Snapshot{}, fmt.Errorf("get packet: %w", err)
	}

	return s, nil
}
