package packets

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fastprodman/redpacket/internal/redpacket"
)

func (r *packetsRepo) InsertEvent(tx *sql.Tx, ev redpacket.Event) error {
	_, err := tx.Exec(`
		INSERT INTO packet_events (id, packet_id, kind, actor, amount, count, at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, ev.ID, ev.PacketID, string(ev.Kind), ev.Actor, ev.Amount, ev.Count, ev.At)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	return nil
}

// ListEvents returns the trail of packet id in insertion order. An unknown
// packet is ErrNotFound.
func (r *packetsRepo) ListEvents(ctx context.Context, id uint64) ([]redpacket.Event, error) {
	_, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, kind, actor, amount, count, at
		FROM packet_events
		WHERE packet_id = $1
		ORDER BY seq
	`, id)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []redpacket.Event

	for rows.Next() {
		ev := redpacket.Event{PacketID: id}

		var kind string

		err = rows.Scan(&ev.ID, &kind, &ev.Actor, &ev.Amount, &ev.Count, &ev.At)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}

		ev.Kind = redpacket.EventKind(kind)
		events = append(events, ev)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return events, nil
}
