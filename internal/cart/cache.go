package cart

import (
	"context"
	"errors"

	"github.com/SamuelCev/KicksBackend-sub000/internal/domain"
)

var ErrCacheMiss = errors.New("cart not found in cache")

// Cache holds a short-lived copy of a user's cart lines for display reads.
// Checkout always prices against the database; the cache is refreshed on
// every read-through and dropped when the cart is cleared.
type Cache interface {
	Get(ctx context.Context, userID int64) ([]domain.CartLine, error)
	Set(ctx context.Context, userID int64, lines []domain.CartLine) error
	Invalidate(ctx context.Context, userID int64) error
}
