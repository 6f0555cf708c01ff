package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/SamuelCev/KicksBackend-sub000/internal/domain"
	"github.com/SamuelCev/KicksBackend-sub000/internal/repository"
)

// fakeCache implements Cache in memory so tests do not need Redis.
type fakeCache struct {
	lines       map[int64][]domain.CartLine
	setCalls    int
	invalidated int
	failSet     bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{lines: make(map[int64][]domain.CartLine)}
}

func (c *fakeCache) Get(_ context.Context, userID int64) ([]domain.CartLine, error) {
	lines, ok := c.lines[userID]
	if !ok {
		return nil, ErrCacheMiss
	}
	return lines, nil
}

func (c *fakeCache) Set(_ context.Context, userID int64, lines []domain.CartLine) error {
	c.setCalls++
	if c.failSet {
		return errors.New("cache write failed")
	}
	c.lines[userID] = lines
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, userID int64) error {
	c.invalidated++
	delete(c.lines, userID)
	return nil
}

func setupTestDB(t *testing.T) *repository.Repository {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)

	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	creds := &repository.Credentials{
		Host:              host,
		Port:              port.Int(),
		User:              "testuser",
		Password:          "testpass",
		DBName:            "testdb",
		MigrationsDirPath: "../../migrations",
	}

	repo, err := repository.NewRepository(creds)
	require.NoError(t, err)
	require.NoError(t, repo.RunMigrations(creds))

	t.Cleanup(func() {
		repo.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	return repo
}

func seedCart(t *testing.T, repo *repository.Repository, userID int64) {
	t.Helper()
	_, err := repo.DB().Exec(
		`INSERT INTO productos (id, nombre, categoria, precio, descuento, tiene_descuento, stock)
		 VALUES (1, 'Runner', 'tenis', 1000.00, 0, FALSE, 10),
		        (2, 'Bota', 'botas', 800.00, 0.25, TRUE, 5)`)
	require.NoError(t, err)

	_, err = repo.DB().Exec(
		`INSERT INTO carrito (usuario_id, producto_id, cantidad) VALUES ($1, 1, 2), ($1, 2, 1)`,
		userID)
	require.NoError(t, err)
}

func TestGetCartLines_LivePricesAndDiscounts(t *testing.T) {
	repo := setupTestDB(t)
	seedCart(t, repo, 1)
	cache := newFakeCache()
	gateway := NewGateway(repo.DB(), cache, zerolog.Nop())

	lines, err := gateway.GetCartLines(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, lines, 2)
	// ascending product id
	assert.Equal(t, int64(1), lines[0].ProductID)
	assert.Equal(t, int64(2), lines[1].ProductID)
	assert.Equal(t, "1000", lines[0].UnitPrice.String())
	assert.False(t, lines[0].HasDiscount)
	assert.True(t, lines[1].HasDiscount)
	assert.Equal(t, "600", lines[1].EffectiveUnitPrice().String())
	// read-through refreshed the cache
	assert.Equal(t, 1, cache.setCalls)
}

func TestGetCartLines_EmptyCart(t *testing.T) {
	repo := setupTestDB(t)
	gateway := NewGateway(repo.DB(), newFakeCache(), zerolog.Nop())

	lines, err := gateway.GetCartLines(context.Background(), 999)

	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestGetCartLines_CacheFailureIsNotFatal(t *testing.T) {
	repo := setupTestDB(t)
	seedCart(t, repo, 1)
	cache := newFakeCache()
	cache.failSet = true
	gateway := NewGateway(repo.DB(), cache, zerolog.Nop())

	lines, err := gateway.GetCartLines(context.Background(), 1)

	require.NoError(t, err)
	assert.Len(t, lines, 2)
}

func TestClearCart_Idempotent(t *testing.T) {
	repo := setupTestDB(t)
	seedCart(t, repo, 1)
	cache := newFakeCache()
	gateway := NewGateway(repo.DB(), cache, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, gateway.ClearCart(ctx, 1))

	lines, err := gateway.GetCartLines(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, lines)

	// second clear is a no-op
	require.NoError(t, gateway.ClearCart(ctx, 1))
	assert.Equal(t, 2, cache.invalidated)
}
