package packets

import (
	"context"
	"database/sql"

	"github.com/fastprodman/redpacket/internal/redpacket"
)

// Packets persists packets, their claims and their event trail.
//
// Missing packets are reported as redpacket.ErrNotFound and duplicate
// claims as redpacket.ErrAlreadyClaimed. Packets returned by LockAndGet
// carry no Claims map; use ClaimExists for membership.
type Packets interface {
	NextID(tx *sql.Tx) (uint64, error)
	Insert(tx *sql.Tx, p *redpacket.Packet) error
	LockAndGet(tx *sql.Tx, id uint64) (*redpacket.Packet, error)
	UpdateRemaining(tx *sql.Tx, p *redpacket.Packet) error
	Get(ctx context.Context, id uint64) (redpacket.Snapshot, error)

	ClaimExists(tx *sql.Tx, id uint64, claimant string) (bool, error)
	InsertClaim(tx *sql.Tx, id uint64, claimant string, amount int64) error
	HasClaimed(ctx context.Context, id uint64, identity string) (bool, error)

	InsertEvent(tx *sql.Tx, ev redpacket.Event) error
	ListEvents(ctx context.Context, id uint64) ([]redpacket.Event, error)
}
