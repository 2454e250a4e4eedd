package ledger

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fastprodman/redpacket/internal/repos/transactions"
	"github.com/fastprodman/redpacket/internal/repos/wallets"
)

func TestVault(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	v := NewVault()

	_, err := v.GetBalance(ctx, "alice")
	require.ErrorIs(t, err, wallets.ErrWalletNotFound)

	require.NoError(t, v.Deposit(ctx, "tx-1", "alice", 500))
	require.ErrorIs(t, v.Deposit(ctx, "tx-1", "alice", 500), transactions.ErrDuplicateTransaction)

	bal, err := v.GetBalance(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, int64(500), bal)

	require.ErrorIs(t, v.Withdraw(ctx, "alice", 501), wallets.ErrInsufficientFunds)
	require.ErrorIs(t, v.Withdraw(ctx, "bob", 1), wallets.ErrWalletNotFound)
	require.NoError(t, v.Withdraw(ctx, "alice", 200))

	v.Refund(ctx, "alice", 50)

	bal, err = v.GetBalance(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, int64(350), bal)

	require.NoError(t, v.Transfer(ctx, "bob", 7))
	v.Reverse(ctx, "bob", 7)

	bal, err = v.GetBalance(ctx, "bob")
	require.NoError(t, err)
	require.Zero(t, bal)

	v.Reject("mallory")
	require.ErrorIs(t, v.Transfer(ctx, "mallory", 1), wallets.ErrRecipientRejected)

	_, err = v.GetBalance(ctx, "mallory")
	require.ErrorIs(t, err, wallets.ErrWalletNotFound)
}
