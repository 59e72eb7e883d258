// Package repository defines the persistence contract for the cart
// service.
package repository

import (
	"context"

	"github.com/itsGurdevSingh/UrbanPocket/services/cart/internal/domain"
)

// CartRepository persists carts.
type CartRepository interface {
	// Get retrieves a cart by user ID.
	Get(ctx context.Context, userID string) (*domain.Cart, error)

	// SaveIfVersion persists the cart only when the stored version still
	// equals expectedVersion, incrementing the version on success. It
	// reports false when a concurrent write won.
	SaveIfVersion(ctx context.Context, cart *domain.Cart, expectedVersion int) (bool, error)

	// Delete removes the user's cart. Deleting a missing cart is not an
	// error.
	Delete(ctx context.Context, userID string) error
}
