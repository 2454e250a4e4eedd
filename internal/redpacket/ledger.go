// Package redpacket holds the lucky-money domain: packets, the split
// algorithm, entropy, events and the ledger contract both engines satisfy.
package redpacket

import "context"

// Ledger is the distribution ledger surface used by the API and the CLI.
//
// Errors are the sentinels of this package, possibly wrapped. Every failed
// call leaves the ledger exactly as it was before the call.
type Ledger interface {
	Create(ctx context.Context, creator string, count, amount int64) (uint64, error)
	Claim(ctx context.Context, id uint64, claimant string) (int64, error)
	Query(ctx context.Context, id uint64) (Snapshot, error)
	HasClaimed(ctx context.Context, id uint64, identity string) (bool, error)
}

// EventLog lists the committed events of a packet, oldest first.
type EventLog interface {
	Events(ctx context.Context, id uint64) ([]Event, error)
}
