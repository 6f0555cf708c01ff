// Package cart reads the authenticated user's current cart with live product
// prices and clears it after a successful checkout.
package cart

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/SamuelCev/KicksBackend-sub000/internal/domain"
)

type Gateway struct {
	db     *sql.DB
	cache  Cache
	logger zerolog.Logger
}

func NewGateway(db *sql.DB, cache Cache, logger zerolog.Logger) *Gateway {
	return &Gateway{db: db, cache: cache, logger: logger}
}

// GetCartLines loads the user's cart joined with live product data. It always
// reads the database so checkout prices against current values, then writes
// the result through to the cache for display reads. Cache failures are
// logged and ignored.
func (g *Gateway) GetCartLines(ctx context.Context, userID int64) ([]domain.CartLine, error) {
	query := `SELECT c.producto_id, p.nombre, p.categoria, c.cantidad,
	                 p.precio, p.descuento, p.tiene_descuento
	          FROM carrito c
	          JOIN productos p ON p.id = c.producto_id
	          WHERE c.usuario_id = $1
	          ORDER BY c.producto_id`

	rows, err := g.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query cart lines: %w", err)
	}
	defer rows.Close()

	var lines []domain.CartLine
	for rows.Next() {
		var line domain.CartLine
		if err := rows.Scan(
			&line.ProductID,
			&line.ProductName,
			&line.Category,
			&line.Quantity,
			&line.UnitPrice,
			&line.DiscountFraction,
			&line.HasDiscount,
		); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	if err := g.cache.Set(ctx, userID, lines); err != nil {
		g.logger.Warn().Err(err).Int64("user_id", userID).Msg("failed to refresh cart cache")
	}

	return lines, nil
}

// ClearCart removes every line of the user's cart. Idempotent: clearing an
// already empty cart is a no-op.
func (g *Gateway) ClearCart(ctx context.Context, userID int64) error {
	if _, err := g.db.ExecContext(ctx,
		`DELETE FROM carrito WHERE usuario_id = $1`, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	if err := g.cache.Invalidate(ctx, userID); err != nil {
		g.logger.Warn().Err(err).Int64("user_id", userID).Msg("failed to invalidate cart cache")
	}

	return nil
}
