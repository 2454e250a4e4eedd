package wallets

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/fastprodman/redpacket/internal/infra/pgtestutil"
	"github.com/fastprodman/redpacket/internal/repos/wallets"
)

func TestWallets_Payout_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		seed        func(t *testing.T, db *sql.DB)
		walletID    string
		amount      int64
		wantErr     error
		wantBalance int64
	}{
		{
			name:        "credits_open_wallet",
			seed:        func(t *testing.T, db *sql.DB) { seedWallet(t, db, "open", 10, true) },
			walletID:    "open",
			amount:      40,
			wantBalance: 50,
		},
		{
			name:        "closed_wallet_rejected",
			seed:        func(t *testing.T, db *sql.DB) { seedWallet(t, db, "closed", 10, false) },
			walletID:    "closed",
			amount:      40,
			wantErr:     wallets.ErrRecipientRejected,
			wantBalance: 10,
		},
		{
			name:     "missing_wallet",
			seed:     func(*testing.T, *sql.DB) {},
			walletID: "ghost",
			amount:   40,
			wantErr:  wallets.ErrWalletNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db, cleanup := pgtestutil.NewTestDB(t)
			defer cleanup()

			tt.seed(t, db)

			repo := New(db)
			tx, ctx := beginTx(t, db)

			err := repo.Payout(tx, tt.walletID, tt.amount)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("payout: want %v, got %v", tt.wantErr, err)
			}

			if errors.Is(tt.wantErr, wallets.ErrWalletNotFound) {
				return
			}

			err = tx.Commit()
			if err != nil {
				t.Fatalf("commit: %v", err)
			}

			got, err := repo.GetBalance(ctx, tt.walletID)
			if err != nil {
				t.Fatalf("get balance: %v", err)
			}

			if got != tt.wantBalance {
				t.Fatalf("balance: want %d, got %d", tt.wantBalance, got)
			}
		})
	}
}
