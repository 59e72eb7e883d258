package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/itsGurdevSingh/UrbanPocket/pkg/errors"
	"github.com/itsGurdevSingh/UrbanPocket/services/cart/internal/domain"
)

func setupTestRedis(t *testing.T) (*CartRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	repo := NewCartRepository(client, 24*time.Hour)
	return repo, mr
}

func sampleCart() *domain.Cart {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &domain.Cart{
		UserID: "user-001",
		Items: []domain.CartItem{
			{VariantID: "var-1", Name: "Widget", SKU: "WDG-1", UnitPrice: 1990, Quantity: 2},
		},
		Currency:  "INR",
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(24 * time.Hour),
	}
}

func TestCartRepositoryGet(t *testing.T) {
	repo, mr := setupTestRedis(t)

	cart := sampleCart()
	data, err := json.Marshal(cart)
	require.NoError(t, err)
	require.NoError(t, mr.Set("cart:"+cart.UserID, string(data)))

	got, err := repo.Get(context.Background(), cart.UserID)

	require.NoError(t, err)
	assert.Equal(t, cart.UserID, got.UserID)
	assert.Equal(t, cart.Version, got.Version)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "var-1", got.Items[0].VariantID)
	assert.Equal(t, int64(1990), got.Items[0].UnitPrice)
}

func TestCartRepositoryGetNotFound(t *testing.T) {
	repo, _ := setupTestRedis(t)

	_, err := repo.Get(context.Background(), "nobody")

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "CART_NOT_FOUND", appErr.Code)
}

func TestCartRepositorySaveIfVersionNewCart(t *testing.T) {
	repo, mr := setupTestRedis(t)

	cart := sampleCart()
	cart.Version = 0
	ok, err := repo.SaveIfVersion(context.Background(), cart, 0)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, cart.Version)
	assert.True(t, mr.Exists("cart:"+cart.UserID))

	got, err := repo.Get(context.Background(), cart.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Version)
}

func TestCartRepositorySaveIfVersionIncrements(t *testing.T) {
	repo, _ := setupTestRedis(t)
	cart := sampleCart()
	cart.Version = 0
	ok, err := repo.SaveIfVersion(context.Background(), cart, 0)
	require.NoError(t, err)
	require.True(t, ok)

	cart.Items[0].Quantity = 5
	ok, err = repo.SaveIfVersion(context.Background(), cart, 1)

	require.NoError(t, err)
	assert.True(t, ok)
	got, err := repo.Get(context.Background(), cart.UserID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Version)
	assert.Equal(t, 5, got.Items[0].Quantity)
}

func TestCartRepositorySaveIfVersionStaleWriteRejected(t *testing.T) {
	repo, _ := setupTestRedis(t)
	cart := sampleCart()
	cart.Version = 0
	ok, err := repo.SaveIfVersion(context.Background(), cart, 0)
	require.NoError(t, err)
	require.True(t, ok)

	// A second writer based on the pre-save version must lose.
	stale := sampleCart()
	stale.Items[0].Quantity = 99
	ok, err = repo.SaveIfVersion(context.Background(), stale, 0)

	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.Get(context.Background(), cart.UserID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Items[0].Quantity, "stale write must not land")
}

func TestCartRepositorySaveSetsTTL(t *testing.T) {
	repo, mr := setupTestRedis(t)

	cart := sampleCart()
	cart.Version = 0
	ok, err := repo.SaveIfVersion(context.Background(), cart, 0)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(25 * time.Hour)
	assert.False(t, mr.Exists("cart:"+cart.UserID))
}

func TestCartRepositoryDelete(t *testing.T) {
	repo, mr := setupTestRedis(t)
	cart := sampleCart()
	cart.Version = 0
	ok, err := repo.SaveIfVersion(context.Background(), cart, 0)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, repo.Delete(context.Background(), cart.UserID))
	assert.False(t, mr.Exists("cart:"+cart.UserID))

	// Deleting again is not an error.
	require.NoError(t, repo.Delete(context.Background(), cart.UserID))
}
