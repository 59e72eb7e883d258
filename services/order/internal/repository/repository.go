// Package repository defines the persistence contracts for the order
// service.
package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/itsGurdevSingh/UrbanPocket/pkg/pagination"
	"github.com/itsGurdevSingh/UrbanPocket/services/order/internal/domain"
)

// OrderRepository persists orders.
type OrderRepository interface {
	// Create inserts a new order and assigns its ID.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order by its ID.
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Order, error)

	// ListByUser returns the user's orders, newest first, with the total
	// count before pagination.
	ListByUser(ctx context.Context, userID primitive.ObjectID, page pagination.Params) ([]domain.Order, int64, error)

	// UpdateStatus sets the order status.
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.OrderStatus) (*domain.Order, error)
}
