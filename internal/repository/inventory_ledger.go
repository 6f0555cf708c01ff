package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var ErrProductNotFound = errors.New("product not found")

// InsufficientStockError reports a reservation that would drive stock below
// zero. It aborts the whole checkout; there are no partial orders.
type InsufficientStockError struct {
	ProductID int64
	Requested int32
	Available int32
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// ReserveStock decrements available stock for one product inside the caller's
// transaction. The row lock taken by FOR UPDATE serializes concurrent
// checkouts contending on the same product; callers must reserve lines in
// ascending product id order so two checkouts on overlapping products cannot
// deadlock. Returns the quantity remaining after the decrement.
func (r *Repository) ReserveStock(ctx context.Context, tx *sql.Tx, productID int64, quantity int32) (int32, error) {
	var available int32
	err := tx.QueryRowContext(ctx,
		`SELECT stock FROM productos WHERE id = $1 FOR UPDATE`,
		productID).Scan(&available)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrProductNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("lock product %d: %w", productID, err)
	}

	if available < quantity {
		return 0, &InsufficientStockError{
			ProductID: productID,
			Requested: quantity,
			Available: available,
		}
	}

	remaining := available - quantity
	if _, err := tx.ExecContext(ctx,
		`UPDATE productos SET stock = $1 WHERE id = $2`,
		remaining, productID); err != nil {
		return 0, fmt.Errorf("decrement stock for product %d: %w", productID, err)
	}

	return remaining, nil
}
