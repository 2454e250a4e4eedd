package ledger

import "context"

// Transferer delivers a claimed share to the claimant.
//
// Transfer runs after the claim's effects are applied and may call back
// into the same Ledger. A non-nil error reverts the claim and everything
// done inside the transfer.
type Transferer interface {
	Transfer(ctx context.Context, to string, amount int64) error
}

// TransferFunc adapts a function to Transferer.
type TransferFunc func(ctx context.Context, to string, amount int64) error

func (f TransferFunc) Transfer(ctx context.Context, to string, amount int64) error {
	return f(ctx, to, amount)
}

// Funder pulls the deposit from the creator before a packet is created.
type Funder interface {
	Withdraw(ctx context.Context, from string, amount int64) error
}

type noopTransfer struct{}

func (noopTransfer) Transfer(context.Context, string, int64) error { return nil }

// Reversible is implemented by a Transferer whose payouts can be taken back
// when an enclosing call reverts after the payout succeeded.
type Reversible interface {
	Reverse(ctx context.Context, to string, amount int64)
}

// Refunder is implemented by a Funder whose withdrawals can be returned
// when an enclosing call reverts.
type Refunder interface {
	Refund(ctx context.Context, to string, amount int64)
}
