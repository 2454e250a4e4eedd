package wallets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fastprodman/redpacket/internal/infra/pgtestutil"
	"github.com/fastprodman/redpacket/internal/repos/wallets"
)

func TestWallets_LockAndGetBalance_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		seedBalance int64
		seed        bool
		wantBalance int64
		wantErr     error
	}{
		{name: "ok_zero", seed: true, seedBalance: 0, wantBalance: 0},
		{name: "ok_large", seed: true, seedBalance: 900_000_000_000_000, wantBalance: 900_000_000_000_000},
		{name: "missing_wallet", seed: false, wantErr: wallets.ErrWalletNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db, cleanup := pgtestutil.NewTestDB(t)
			defer cleanup()

			if tt.seed {
				seedWallet(t, db, "w", tt.seedBalance, true)
			}

			repo := New(db)
			tx, _ := beginTx(t, db)

			bal, err := repo.LockAndGetBalance(tx, "w")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("want %v, got %v (balance=%d)", tt.wantErr, err, bal)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if bal != tt.wantBalance {
				t.Fatalf("balance mismatch: want %d, got %d", tt.wantBalance, bal)
			}
		})
	}
}

// A second FOR UPDATE on the same wallet blocks until the first tx ends.
func TestWallets_LockAndGetBalance_LocksRow(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	seedWallet(t, db, "locked", 200, true)

	repo := New(db)

	tx1, _ := beginTx(t, db)

	_, err := repo.LockAndGetBalance(tx1, "locked")
	if err != nil {
		t.Fatalf("tx1 lock/get: %v", err)
	}

	doneCh := make(chan error, 1)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		tx2, e := db.BeginTx(ctx, nil)
		if e != nil {
			doneCh <- e
			return
		}
		defer func() { _ = tx2.Rollback() }()

		_, e = repo.LockAndGetBalance(tx2, "locked")
		doneCh <- e
	}()

	select {
	case e := <-doneCh:
		t.Fatalf("tx2 acquired the lock while tx1 held it (err=%v)", e)
	case <-time.After(300 * time.Millisecond):
	}

	err = tx1.Commit()
	if err != nil {
		t.Fatalf("tx1 commit: %v", err)
	}

	select {
	case e := <-doneCh:
		if e != nil {
			t.Fatalf("tx2 lock/get: %v", e)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("tx2 still blocked after tx1 commit")
	}
}
