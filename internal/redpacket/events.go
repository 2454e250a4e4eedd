package redpacket

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

// EventKind names a ledger notification.
type EventKind string

const (
	EventCreated  EventKind = "created"
	EventClaimed  EventKind = "claimed"
	EventFinished EventKind = "finished"
)

// Event is a committed ledger notification. Watchers must treat events as
// the only signal that something happened.
//
//	created:  Actor = creator,  Amount = deposit, Count = totalCount
//	claimed:  Actor = claimant, Amount = share
//	finished: no Actor, Amount or Count
type Event struct {
	ID       string    `json:"id"`
	Kind     EventKind `json:"kind"`
	PacketID uint64    `json:"packetId"`
	Actor    string    `json:"actor,omitempty"`
	Amount   int64     `json:"amount,omitempty"`
	Count    int64     `json:"count,omitempty"`
	At       time.Time `json:"at"`
}

// Sink receives events after the call that raised them commits.
type Sink interface {
	Publish(ctx context.Context, ev Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, ev Event)

func (f SinkFunc) Publish(ctx context.Context, ev Event) { f(ctx, ev) }

// Discard drops every event.
var Discard Sink = SinkFunc(func(context.Context, Event) {})

func Created(id uint64, creator string, amount, count int64, at time.Time) Event {
	return Event{ID: NewEventID(at), Kind: EventCreated, PacketID: id, Actor: creator, Amount: amount, Count: count, At: at}
}

func Claimed(id uint64, claimant string, amount int64, at time.Time) Event {
	return Event{ID: NewEventID(at), Kind: EventClaimed, PacketID: id, Actor: claimant, Amount: amount, At: at}
}

func Finished(id uint64, at time.Time) Event {
	return Event{ID: NewEventID(at), Kind: EventFinished, PacketID: id, At: at}
}

// NewEventID returns a ULID so ids sort by creation time.
func NewEventID(at time.Time) string {
	return ulid.MustNew(ulid.Timestamp(at), ulid.DefaultEntropy()).String()
}
