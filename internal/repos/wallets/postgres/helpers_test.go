package wallets

import (
	"context"
	"database/sql"
	"testing"
	"time"
)

func seedWallet(t *testing.T, db *sql.DB, id string, balance int64, acceptsPayouts bool) {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO wallets (id, balance, accepts_payouts) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET balance = EXCLUDED.balance, accepts_payouts = EXCLUDED.accepts_payouts
	`, id, balance, acceptsPayouts)
	if err != nil {
		t.Fatalf("seed wallet(%s): %v", id, err)
	}
}

func beginTx(t *testing.T, db *sql.DB) (*sql.Tx, context.Context) {
	t.Helper()

	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	t.Cleanup(cancel)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}

	t.Cleanup(func() { _ = tx.Rollback() })

	return tx, ctx
}
