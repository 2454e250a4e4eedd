package wallets

import (
	"testing"

	"github.com/fastprodman/redpacket/internal/infra/pgtestutil"
)

func TestWallets_IncreaseBalance_Basic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		start       int64
		amount      int64
		wantBalance int64
	}{
		{name: "increase_from_zero", start: 0, amount: 250, wantBalance: 250},
		{name: "increase_from_positive", start: 1_000, amount: 500, wantBalance: 1_500},
		{name: "increase_large_balance", start: 900_000_000_000_000, amount: 123, wantBalance: 900_000_000_000_123},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db, cleanup := pgtestutil.NewTestDB(t)
			defer cleanup()

			seedWallet(t, db, "w", tt.start, true)

			repo := New(db)
			tx, ctx := beginTx(t, db)

			err := repo.IncreaseBalance(tx, "w", tt.amount)
			if err != nil {
				t.Fatalf("increase balance: %v", err)
			}

			err = tx.Commit()
			if err != nil {
				t.Fatalf("commit: %v", err)
			}

			got, err := repo.GetBalance(ctx, "w")
			if err != nil {
				t.Fatalf("get balance: %v", err)
			}

			if got != tt.wantBalance {
				t.Fatalf("balance mismatch: want %d, got %d", tt.wantBalance, got)
			}
		})
	}
}
