package ledger

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/fastprodman/redpacket/internal/events"
	"github.com/fastprodman/redpacket/internal/redpacket"
)

func TestGuarded_ConcurrentClaims(t *testing.T) {
	t.Parallel()

	const (
		count    = 50
		amount   = 10_000
		claimers = 200
	)

	vault := NewVault()
	rec := events.NewRecorder()
	inner := New(WithTransferer(vault), WithSink(rec))
	g := NewGuarded(inner)
	ctx := t.Context()

	id, err := g.Create(ctx, "owner", count, amount)
	require.NoError(t, err)

	var (
		won      atomic.Int64
		finished atomic.Int64
		eg       errgroup.Group
	)

	for i := range claimers {
		who := fmt.Sprintf("user-%d", i%(claimers/2))

		eg.Go(func() error {
			got, err := g.Claim(ctx, id, who)

			switch {
			case err == nil:
				won.Add(got)
			case errorsIsAny(err, redpacket.ErrAlreadyClaimed, redpacket.ErrAlreadyFinished):
				if errorsIsAny(err, redpacket.ErrAlreadyFinished) {
					finished.Add(1)
				}
			default:
				return err
			}

			return nil
		})
	}

	require.NoError(t, eg.Wait())

	snap, err := g.Query(ctx, id)
	require.NoError(t, err)
	require.True(t, snap.Finished)
	require.Zero(t, snap.RemainingAmount)
	require.Equal(t, int64(amount), won.Load())
	require.Positive(t, finished.Load())

	require.Equal(t, count, rec.Count(id, redpacket.EventClaimed))
	require.Equal(t, 1, rec.Count(id, redpacket.EventFinished))

	var paid int64

	for i := range claimers / 2 {
		who := fmt.Sprintf("user-%d", i)

		ok, err := g.HasClaimed(ctx, id, who)
		require.NoError(t, err)

		if !ok {
			continue
		}

		bal, err := vault.GetBalance(ctx, who)
		require.NoError(t, err)

		got, _ := inner.ClaimOf(id, who)
		require.Equal(t, got, bal)

		paid += bal
	}

	require.Equal(t, int64(amount), paid)
}

func TestGuarded_ConcurrentCreates_SequentialIDs(t *testing.T) {
	t.Parallel()

	g := NewGuarded(New())
	ctx := t.Context()

	const n = 64

	ids := make([]uint64, n)

	var eg errgroup.Group

	for i := range n {
		eg.Go(func() error {
			id, err := g.Create(ctx, "owner", 1, 1)
			ids[i] = id

			return err
		})
	}

	require.NoError(t, eg.Wait())

	seen := make(map[uint64]bool, n)
	for _, id := range ids {
		require.GreaterOrEqual(t, id, uint64(1))
		require.LessOrEqual(t, id, uint64(n))
		require.False(t, seen[id], "id %d issued twice", id)
		seen[id] = true
	}
}

func errorsIsAny(err error, targets ...error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
