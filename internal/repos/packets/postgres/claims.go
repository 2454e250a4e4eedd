package packets

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fastprodman/redpacket/internal/infra/pgutils"
	"github.com/fastprodman/redpacket/internal/redpacket"
)

func (r *packetsRepo) ClaimExists(tx *sql.Tx, id uint64, claimant string) (bool, error) {
	var exists bool

	err := tx.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM packet_claims WHERE packet_id = $1 AND claimant = $2)
	`, id, claimant).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check claim: %w", err)
	}

	return exists, nil
}

func (r *packetsRepo) InsertClaim(tx *sql.Tx, id uint64, claimant string, amount int64) error {
	_, err := tx.Exec(`
		INSERT INTO packet_claims (packet_id, claimant, amount)
		VALUES ($1, $2, $3)
	`, id, claimant, amount)
	if err != nil {
		if pgutils.IsUniqueViolation(err) {
			return redpacket.ErrAlreadyClaimed
		}

		return fmt.Errorf("insert claim: %w", err)
	}

	return nil
}

// HasClaimed reports claim membership; an unknown packet is ErrNotFound.
func (r *packetsRepo) HasClaimed(ctx context.Context, id uint64, identity string) (bool, error) {
	var packetExists, claimed bool

	err := r.db.QueryRowContext(ctx, `
		SELECT
			EXISTS(SELECT 1 FROM packets WHERE id = $1),
			EXISTS(SELECT 1 FROM packet_claims WHERE packet_id = $1 AND claimant = $2)
	`, id, identity).Scan(&packetExists, &claimed)
	if err != nil {
		return false, fmt.Errorf("has claimed: %w", err)
	}

	if !packetExists {
		return false, redpacket.ErrNotFound
	}

	return claimed, nil
}
