// Package packets is the durable distribution ledger: the same contract as
// the in-memory engine, with every call run as one Postgres transaction.
//
// A claim locks its packet row, so claims on one packet are serialized
// while distinct packets never contend. The claim row and the new
// remainder are written before the payout; a failed payout rolls the whole
// transaction back.
package packets

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/fastprodman/redpacket/internal/infra/pgutils"
	"github.com/fastprodman/redpacket/internal/infra/tracing"
	"github.com/fastprodman/redpacket/internal/redpacket"
	"github.com/fastprodman/redpacket/internal/repos/packets"
	pgpackets "github.com/fastprodman/redpacket/internal/repos/packets/postgres"
	"github.com/fastprodman/redpacket/internal/repos/wallets"
	pgwallets "github.com/fastprodman/redpacket/internal/repos/wallets/postgres"
)

var (
	_ redpacket.Ledger   = (*Service)(nil)
	_ redpacket.EventLog = (*Service)(nil)
)

type Service struct {
	db      *sql.DB
	packets packets.Packets
	wallets wallets.Wallets

	entropy  redpacket.Entropy
	sink     redpacket.Sink
	log      *slog.Logger
	tracer   trace.Tracer
	now      func() time.Time
	maxCount int64
}

type Option func(*Service)

func WithEntropy(e redpacket.Entropy) Option { return func(s *Service) { s.entropy = e } }

func WithSink(sink redpacket.Sink) Option { return func(s *Service) { s.sink = sink } }

func WithLogger(log *slog.Logger) Option { return func(s *Service) { s.log = log } }

func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

func WithMaxCount(n int64) Option { return func(s *Service) { s.maxCount = n } }

func New(dbx *sql.DB, opts ...Option) *Service {
	s := &Service{
		db:      dbx,
		packets: pgpackets.New(dbx),
		wallets: pgwallets.New(dbx),
		entropy: redpacket.CryptoNonce{},
		sink:    redpacket.Discard,
		log:     slog.Default(),
		tracer:  tracing.Tracer(),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Create runs in a single DB transaction:
//
// 1) Check and debit the creator's wallet.
// 2) Allocate the next packet id.
// 3) Insert the packet and its created event.
func (s *Service) Create(ctx context.Context, creator string, count, amount int64) (id uint64, err error) {
	ctx, span := s.tracer.Start(ctx, "packets.Create", trace.WithAttributes(
		attribute.String("creator", creator),
		attribute.Int64("count", count),
		attribute.Int64("amount", amount),
	))
	defer func() { tracing.End(span, err) }()

	err = redpacket.ValidateCreate(count, amount, s.maxCount)
	if err != nil {
		return 0, fmt.Errorf("create packet: %w", err)
	}

	var events []redpacket.Event

	err = pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		err := s.wallets.Exists(tx, creator)
		if err != nil {
			return fmt.Errorf("check creator wallet: %w", err)
		}

		err = s.wallets.DecreaseBalance(tx, creator, amount)
		if err != nil {
			return fmt.Errorf("withdraw deposit: %w", err)
		}

		id, err = s.packets.NextID(tx)
		if err != nil {
			return fmt.Errorf("allocate id: %w", err)
		}

		err = s.packets.Insert(tx, redpacket.NewPacket(id, creator, count, amount))
		if err != nil {
			return fmt.Errorf("insert packet: %w", err)
		}

		events = append(events, redpacket.Created(id, creator, amount, count, s.now()))

		return s.insertEvents(tx, events)
	})
	if err != nil {
		return 0, fmt.Errorf("create packet: %w", err)
	}

	s.publish(ctx, events)

	return id, nil
}

// Claim runs in a single DB transaction:
//
// 1) Lock the packet row (FOR UPDATE).
// 2) Reject finished packets and repeat claimants.
// 3) Record the claim, the new remainder and the events.
// 4) Pay the share out to the claimant's wallet.
func (s *Service) Claim(ctx context.Context, id uint64, claimant string) (amount int64, err error) {
	ctx, span := s.tracer.Start(ctx, "packets.Claim", trace.WithAttributes(
		attribute.Int64("packet_id", int64(id)),
		attribute.String("claimant", claimant),
	))
	defer func() { tracing.End(span, err) }()

	var events []redpacket.Event

	err = pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		p, err := s.packets.LockAndGet(tx, id)
		if err != nil {
			return fmt.Errorf("lock packet: %w", err)
		}

		if p.Finished {
			return redpacket.ErrAlreadyFinished
		}

		claimed, err := s.packets.ClaimExists(tx, id, claimant)
		if err != nil {
			return fmt.Errorf("check claim: %w", err)
		}

		if claimed {
			return redpacket.ErrAlreadyClaimed
		}

		nonce, err := s.entropy.Nonce()
		if err != nil {
			return fmt.Errorf("nonce: %w", err)
		}

		amount = redpacket.Split(p.RemainingAmount, p.RemainingCount,
			redpacket.Seed(nonce, id, claimant, p.RemainingAmount, p.RemainingCount))

		err = s.packets.InsertClaim(tx, id, claimant, amount)
		if err != nil {
			return fmt.Errorf("insert claim: %w", err)
		}

		p.RemainingAmount -= amount
		p.RemainingCount--
		p.Finished = p.RemainingCount == 0

		err = s.packets.UpdateRemaining(tx, p)
		if err != nil {
			return fmt.Errorf("update remaining: %w", err)
		}

		at := s.now()
		events = append(events, redpacket.Claimed(id, claimant, amount, at))

		if p.Finished {
			events = append(events, redpacket.Finished(id, at))
		}

		err = s.insertEvents(tx, events)
		if err != nil {
			return err
		}

		err = s.wallets.Payout(tx, claimant, amount)
		if err != nil {
			s.log.WarnContext(ctx, "payout failed, claim rolled back",
				"packet_id", id, "claimant", claimant, "amount", amount, "error", err)

			return fmt.Errorf("%w: %w", redpacket.ErrTransferFailed, err)
		}

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("claim packet %d: %w", id, err)
	}

	s.publish(ctx, events)

	return amount, nil
}

func (s *Service) Query(ctx context.Context, id uint64) (redpacket.Snapshot, error) {
	snap, err := s.packets.Get(ctx, id)
	if err != nil {
		return redpacket.Snapshot{}, fmt.Errorf("query packet %d: %w", id, err)
	}

	return snap, nil
}

func (s *Service) HasClaimed(ctx context.Context, id uint64, identity string) (bool, error) {
	claimed, err := s.packets.HasClaimed(ctx, id, identity)
	if err != nil {
		return false, fmt.Errorf("has claimed packet %d: %w", id, err)
	}

	return claimed, nil
}

// Events returns the audit trail of packet id.
func (s *Service) Events(ctx context.Context, id uint64) ([]redpacket.Event, error) {
	events, err := s.packets.ListEvents(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("events of packet %d: %w", id, err)
	}

	return events, nil
}

func (s *Service) insertEvents(tx *sql.Tx, events []redpacket.Event) error {
	for _, ev := range events {
		err := s.packets.InsertEvent(tx, ev)
		if err != nil {
			return fmt.Errorf("insert %s event: %w", ev.Kind, err)
		}
	}

	return nil
}

func (s *Service) publish(ctx context.Context, events []redpacket.Event) {
	for _, ev := range events {
		s.sink.Publish(ctx, ev)
	}
}
