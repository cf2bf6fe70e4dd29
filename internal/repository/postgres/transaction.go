package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// inTx runs fn inside a transaction and commits when fn returns nil.
func (db *DB) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return errFailedStartTransaction(err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return errFailedCommitTransaction(err)
	}

	return nil
}
