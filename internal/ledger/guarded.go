package ledger

import (
	"context"
	"sync"

	"github.com/fastprodman/redpacket/internal/redpacket"
)

var _ redpacket.Ledger = (*Guarded)(nil)

// Guarded serializes calls into a Ledger. Transfer hooks that re-enter
// must use the wrapped *Ledger, not the Guarded, or they deadlock.
type Guarded struct {
	mu sync.Mutex
	l  *Ledger
}

func NewGuarded(l *Ledger) *Guarded {
	return &Guarded{l: l}
}

func (g *Guarded) Create(ctx context.Context, creator string, count, amount int64) (uint64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.l.Create(ctx, creator, count, amount)
}

func (g *Guarded) Claim(ctx context.Context, id uint64, claimant string) (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.l.Claim(ctx, id, claimant)
}

func (g *Guarded) Query(ctx context.Context, id uint64) (redpacket.Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.l.Query(ctx, id)
}

func (g *Guarded) HasClaimed(ctx context.Context, id uint64, identity string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.l.HasClaimed(ctx, id, identity)
}
