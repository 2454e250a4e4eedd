package transactions

import (
	"database/sql"
	"errors"
)

var ErrDuplicateTransaction = errors.New("duplicate transaction")

// Transactions stores idempotency keys of wallet deposits.
type Transactions interface {
	Insert(tx *sql.Tx, txid, walletID string, amount int64) error
}
