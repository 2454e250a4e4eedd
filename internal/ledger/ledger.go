// Package ledger is the in-memory distribution ledger.
//
// A Ledger is not safe for concurrent use: the host must serialize calls,
// as a transaction-ordering VM would. Guarded does that with a mutex for
// ordinary multi-goroutine hosts.
//
// Every mutation is recorded in an undo journal. A failing call reverts the
// journal to the point where it started, which also undoes whatever nested
// calls made from inside its transfer step. Events raised during a call tree
// are buffered and published only when the outermost call succeeds.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/fastprodman/redpacket/internal/infra/tracing"
	"github.com/fastprodman/redpacket/internal/redpacket"
)

var _ redpacket.Ledger = (*Ledger)(nil)

type Ledger struct {
	packets map[uint64]*redpacket.Packet
	lastID  uint64

	transfer Transferer
	funds    Funder
	entropy  redpacket.Entropy
	sink     redpacket.Sink
	log      *slog.Logger
	tracer   trace.Tracer
	now      func() time.Time
	maxCount int64

	depth   int
	journal []func()
	pending []redpacket.Event
}

type Option func(*Ledger)

func WithTransferer(t Transferer) Option { return func(l *Ledger) { l.transfer = t } }

func WithFunder(f Funder) Option { return func(l *Ledger) { l.funds = f } }

func WithEntropy(e redpacket.Entropy) Option { return func(l *Ledger) { l.entropy = e } }

func WithSink(s redpacket.Sink) Option { return func(l *Ledger) { l.sink = s } }

func WithLogger(log *slog.Logger) Option { return func(l *Ledger) { l.log = log } }

func WithClock(now func() time.Time) Option { return func(l *Ledger) { l.now = now } }

// WithMaxCount caps the number of claims per packet. n <= 0 means no cap.
func WithMaxCount(n int64) Option { return func(l *Ledger) { l.maxCount = n } }

func New(opts ...Option) *Ledger {
	l := &Ledger{
		packets:  make(map[uint64]*redpacket.Packet),
		transfer: noopTransfer{},
		entropy:  redpacket.CryptoNonce{},
		sink:     redpacket.Discard,
		log:      slog.Default(),
		tracer:   tracing.Tracer(),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Create funds a new packet and returns its id. Ids start at 1 and are
// never reused.
func (l *Ledger) Create(ctx context.Context, creator string, count, amount int64) (id uint64, err error) {
	ctx, span := l.tracer.Start(ctx, "ledger.Create", trace.WithAttributes(
		attribute.String("creator", creator),
		attribute.Int64("count", count),
		attribute.Int64("amount", amount),
	))
	defer func() { tracing.End(span, err) }()

	err = redpacket.ValidateCreate(count, amount, l.maxCount)
	if err != nil {
		return 0, fmt.Errorf("create packet: %w", err)
	}

	mark := l.begin()
	defer func() { l.finish(ctx, mark, err, recover()) }()

	if l.funds != nil {
		err = guard(func() error { return l.funds.Withdraw(ctx, creator, amount) })
		if err != nil {
			return 0, fmt.Errorf("withdraw deposit: %w", err)
		}

		if r, ok := l.funds.(Refunder); ok {
			l.record(func() { r.Refund(ctx, creator, amount) })
		}
	}

	l.lastID++
	id = l.lastID
	l.record(func() { l.lastID-- })

	l.packets[id] = redpacket.NewPacket(id, creator, count, amount)
	l.record(func() { delete(l.packets, id) })

	l.emit(redpacket.Created(id, creator, amount, count, l.now()))

	return id, nil
}

// Claim takes the claimant's share of packet id and transfers it.
//
// Checks run in order: packet exists, not finished, not yet claimed by
// claimant. The claim is recorded and the remainder reduced before the
// transfer, so a transfer re-entering Claim for the same claimant fails
// with ErrAlreadyClaimed.
func (l *Ledger) Claim(ctx context.Context, id uint64, claimant string) (amount int64, err error) {
	ctx, span := l.tracer.Start(ctx, "ledger.Claim", trace.WithAttributes(
		attribute.Int64("packet_id", int64(id)),
		attribute.String("claimant", claimant),
	))
	defer func() { tracing.End(span, err) }()

	mark := l.begin()
	defer func() { l.finish(ctx, mark, err, recover()) }()

	p, ok := l.packets[id]
	if !ok {
		return 0, fmt.Errorf("claim packet %d: %w", id, redpacket.ErrNotFound)
	}

	if p.Finished {
		return 0, fmt.Errorf("claim packet %d: %w", id, redpacket.ErrAlreadyFinished)
	}

	if p.HasClaimed(claimant) {
		return 0, fmt.Errorf("claim packet %d: %w", id, redpacket.ErrAlreadyClaimed)
	}

	nonce, err := l.entropy.Nonce()
	if err != nil {
		return 0, fmt.Errorf("claim packet %d: %w", id, err)
	}

	amount = redpacket.Split(p.RemainingAmount, p.RemainingCount,
		redpacket.Seed(nonce, id, claimant, p.RemainingAmount, p.RemainingCount))

	l.applyClaim(p, claimant, amount)

	at := l.now()
	l.emit(redpacket.Claimed(id, claimant, amount, at))

	if p.Finished {
		l.emit(redpacket.Finished(id, at))
	}

	err = guard(func() error { return l.transfer.Transfer(ctx, claimant, amount) })
	if err != nil {
		l.log.WarnContext(ctx, "transfer failed, claim reverted",
			"packet_id", id, "claimant", claimant, "amount", amount, "error", err)

		return 0, fmt.Errorf("claim packet %d: %w: %w", id, redpacket.ErrTransferFailed, err)
	}

	if r, ok := l.transfer.(Reversible); ok {
		l.record(func() { r.Reverse(ctx, claimant, amount) })
	}

	return amount, nil
}

// Query returns the latest committed state of packet id.
func (l *Ledger) Query(_ context.Context, id uint64) (redpacket.Snapshot, error) {
	p, ok := l.packets[id]
	if !ok {
		return redpacket.Snapshot{}, fmt.Errorf("query packet %d: %w", id, redpacket.ErrNotFound)
	}

	return p.Snapshot(), nil
}

func (l *Ledger) HasClaimed(_ context.Context, id uint64, identity string) (bool, error) {
	p, ok := l.packets[id]
	if !ok {
		return false, fmt.Errorf("has claimed packet %d: %w", id, redpacket.ErrNotFound)
	}

	return p.HasClaimed(identity), nil
}

// ClaimOf returns the amount identity received from packet id.
func (l *Ledger) ClaimOf(id uint64, identity string) (int64, bool) {
	p, ok := l.packets[id]
	if !ok {
		return 0, false
	}

	amount, ok := p.Claims[identity]

	return amount, ok
}

func (l *Ledger) applyClaim(p *redpacket.Packet, claimant string, amount int64) {
	prevAmount, prevCount, prevFinished := p.RemainingAmount, p.RemainingCount, p.Finished

	p.Claims[claimant] = amount
	p.RemainingAmount -= amount
	p.RemainingCount--
	p.Finished = p.RemainingCount == 0

	l.record(func() {
		delete(p.Claims, claimant)
		p.RemainingAmount = prevAmount
		p.RemainingCount = prevCount
		p.Finished = prevFinished
	})
}
