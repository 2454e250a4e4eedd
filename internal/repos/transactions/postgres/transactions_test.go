package transactions

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fastprodman/redpacket/internal/infra/pgtestutil"
	"github.com/fastprodman/redpacket/internal/repos/transactions"
)

func TestTransactions_Insert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		seed     func(t *testing.T, db *sql.DB)
		txid     string
		walletID string
		wantErr  error
	}{
		{
			name: "ok_insert",
			seed: func(t *testing.T, db *sql.DB) {
				_, err := db.Exec(`INSERT INTO wallets (id, balance) VALUES ($1, $2)`, "alice", 100)
				if err != nil {
					t.Fatalf("seed wallet: %v", err)
				}
			},
			txid:     "tx_123",
			walletID: "alice",
		},
		{
			name: "duplicate_transaction",
			seed: func(t *testing.T, db *sql.DB) {
				_, err := db.Exec(`INSERT INTO wallets (id, balance) VALUES ($1, $2)`, "bob", 100)
				if err != nil {
					t.Fatalf("seed wallet: %v", err)
				}

				_, err = db.Exec(`INSERT INTO transactions (transaction_id, wallet_id, amount) VALUES ($1, $2, $3)`, "tx_dup", "bob", 5)
				if err != nil {
					t.Fatalf("seed tx: %v", err)
				}
			},
			txid:     "tx_dup",
			walletID: "bob",
			wantErr:  transactions.ErrDuplicateTransaction,
		},
		{
			name:     "wallet_not_exist_fk_violation",
			seed:     func(*testing.T, *sql.DB) {},
			txid:     "tx_fk",
			walletID: "ghost",
			wantErr:  &pgconn.PgError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db, cleanup := pgtestutil.NewTestDB(t)
			defer cleanup()

			tt.seed(t, db)

			repo := New(db)

			tx, err := db.BeginTx(t.Context(), nil)
			if err != nil {
				t.Fatalf("begin tx: %v", err)
			}
			defer func() { _ = tx.Rollback() }()

			err = repo.Insert(tx, tt.txid, tt.walletID, 5)

			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}

				return
			}

			var pgErr *pgconn.PgError
			if errors.As(tt.wantErr, &pgErr) {
				if !errors.As(err, &pgErr) {
					t.Fatalf("expected pg error, got %v", err)
				}

				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("unexpected error: got %v, want %v", err, tt.wantErr)
			}
		})
	}
}
