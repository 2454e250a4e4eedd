// Package events fans committed ledger events out to watchers.
package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/fastprodman/redpacket/internal/redpacket"
)

var (
	_ redpacket.Sink     = (*Bus)(nil)
	_ redpacket.Sink     = (*Recorder)(nil)
	_ redpacket.EventLog = (*Recorder)(nil)
)

// Bus publishes every event to each of its sinks in order.
type Bus struct {
	sinks []redpacket.Sink
}

func NewBus(sinks ...redpacket.Sink) *Bus {
	return &Bus{sinks: sinks}
}

func (b *Bus) Publish(ctx context.Context, ev redpacket.Event) {
	for _, s := range b.sinks {
		s.Publish(ctx, ev)
	}
}

// Recorder keeps every event in memory, indexed by packet.
type Recorder struct {
	mu       sync.RWMutex
	all      []redpacket.Event
	byPacket map[uint64][]redpacket.Event
}

func NewRecorder() *Recorder {
	return &Recorder{byPacket: make(map[uint64][]redpacket.Event)}
}

func (r *Recorder) Publish(_ context.Context, ev redpacket.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.all = append(r.all, ev)
	r.byPacket[ev.PacketID] = append(r.byPacket[ev.PacketID], ev)
}

// Events returns the events of packet id. A packet with no events is
// unknown to the ledger, hence ErrNotFound.
func (r *Recorder) Events(_ context.Context, id uint64) ([]redpacket.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	evs, ok := r.byPacket[id]
	if !ok {
		return nil, fmt.Errorf("events of packet %d: %w", id, redpacket.ErrNotFound)
	}

	return append([]redpacket.Event(nil), evs...), nil
}

// All returns every recorded event in publish order.
func (r *Recorder) All() []redpacket.Event {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]redpacket.Event(nil), r.all...)
}

// Count returns how many events of kind were recorded for packet id.
func (r *Recorder) Count(id uint64, kind redpacket.EventKind) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0

	for _, ev := range r.byPacket[id] {
		if ev.Kind == kind {
			n++
		}
	}

	return n
}

// LogSink writes each event as a structured log line.
type LogSink struct {
	Log *slog.Logger
}

func (s LogSink) Publish(ctx context.Context, ev redpacket.Event) {
	s.Log.InfoContext(ctx, "packet event",
		"event_id", ev.ID,
		"kind", string(ev.Kind),
		"packet_id", ev.PacketID,
		"actor", ev.Actor,
		"amount", ev.Amount,
		"count", ev.Count,
	)
}
