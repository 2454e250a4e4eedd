package ledger

import (
	"context"
	"fmt"

	"github.com/fastprodman/redpacket/internal/redpacket"
)

type checkpoint struct {
	journal int
	events  int
}

func (l *Ledger) begin() checkpoint {
	l.depth++

	return checkpoint{journal: len(l.journal), events: len(l.pending)}
}

// end closes a call. On error it reverts to cp. The outermost call
// publishes the buffered events and drops the journal.
func (l *Ledger) end(ctx context.Context, cp checkpoint, err error) {
	l.depth--

	if err != nil {
		l.revert(cp)
	}

	if l.depth > 0 {
		return
	}

	events := l.pending
	l.pending = nil
	l.journal = nil

	for _, ev := range events {
		l.sink.Publish(ctx, ev)
	}
}

// finish is the deferred end of a call. A recovered panic reverts the call
// like an error and is then re-raised.
func (l *Ledger) finish(ctx context.Context, cp checkpoint, err error, panicked any) {
	if panicked == nil {
		l.end(ctx, cp, err)
		return
	}

	l.depth--
	l.revert(cp)

	if l.depth == 0 {
		l.pending = nil
		l.journal = nil
	}

	panic(panicked)
}

// guard runs an external effect, turning a panic into an error so the
// caller reverts through its normal error path.
func guard(effect func() error) (err error) {
	defer func() {
		r := recover()
		if r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	return effect()
}

func (l *Ledger) revert(cp checkpoint) {
	for i := len(l.journal) - 1; i >= cp.journal; i-- {
		l.journal[i]()
	}

	l.journal = l.journal[:cp.journal]
	l.pending = l.pending[:cp.events]
}

func (l *Ledger) record(undo func()) {
	l.journal = append(l.journal, undo)
}

func (l *Ledger) emit(ev redpacket.Event) {
	l.pending = append(l.pending, ev)
}
