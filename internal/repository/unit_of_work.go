package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// WithinTx runs fn inside a single database transaction. A non-nil error from
// fn rolls everything back, so a crash or failure mid-checkout leaves no
// visible order rows and no stock decrement. The context deadline bounds lock
// waits; cancellation before commit rolls back.
func (r *Repository) WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("rollback after %w: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
