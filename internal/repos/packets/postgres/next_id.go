package packets

import (
	"database/sql"
	"fmt"
)

// NextID bumps the packet counter. The counter row stays locked until tx
// ends, so concurrent creates are handed consecutive ids.
func (r *packetsRepo) NextID(tx *sql.Tx) (uint64, error) {
	var id uint64

	err := tx.QueryRow(`
		UPDATE packet_ids
		SET last_id = last_id + 1
		WHERE singleton
		RETURNING last_id
	`).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("next packet id: %w", err)
	}

	return id, nil
}
