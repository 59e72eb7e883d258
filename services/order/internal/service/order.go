// Package service implements the order business logic. Orders are created
// from explicit item snapshots; only the owner (or an admin) can read one,
// and only pending orders can be cancelled.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/itsGurdevSingh/UrbanPocket/pkg/errors"
	"github.com/itsGurdevSingh/UrbanPocket/pkg/middleware"
	"github.com/itsGurdevSingh/UrbanPocket/pkg/pagination"
	"github.com/itsGurdevSingh/UrbanPocket/services/order/internal/domain"
	"github.com/itsGurdevSingh/UrbanPocket/services/order/internal/repository"
)

// Order creation bounds.
const (
	// MaxItemsPerOrder is the maximum number of distinct lines in an order.
	MaxItemsPerOrder = 50
	// MaxQuantityPerItem is the maximum quantity allowed for a single line.
	MaxQuantityPerItem = 100
)

// OrderService implements the business logic for order operations.
type OrderService struct {
	orders repository.OrderRepository
	logger *slog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(orders repository.OrderRepository, logger *slog.Logger) *OrderService {
	return &OrderService{orders: orders, logger: logger}
}

// OrderItemInput is one line of a new order.
type OrderItemInput struct {
	VariantID string
	Name      string
	Quantity  int
	UnitPrice int64
}

// CreateOrderInput holds the parameters for placing an order.
type CreateOrderInput struct {
	Items    []OrderItemInput
	Currency string
}

func requireActor(ctx context.Context) (*middleware.Actor, primitive.ObjectID, error) {
	actor, err := middleware.RequireActor(ctx)
	if err != nil {
		return nil, primitive.NilObjectID, err
	}
	id, err := primitive.ObjectIDFromHex(actor.ID)
	if err != nil {
		return nil, primitive.NilObjectID, apperrors.Unauthorized("invalid token subject")
	}
	return actor, id, nil
}

func parseID(raw, field string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, apperrors.Validation(fmt.Sprintf("invalid %s", field),
			apperrors.FieldError{Field: field, Message: "must be a valid object id"})
	}
	return id, nil
}

// CreateOrder places a new pending order for the actor. The amount is
// computed from the lines server-side.
func (s *OrderService) CreateOrder(ctx context.Context, input *CreateOrderInput) (*domain.Order, error) {
	actor, actorID, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateItems(input.Items); err != nil {
		return nil, err
	}

	items := make([]domain.OrderItem, 0, len(input.Items))
	for _, in := range input.Items {
		items = append(items, domain.OrderItem{
			VariantID: in.VariantID,
			Name:      in.Name,
			Quantity:  in.Quantity,
			UnitPrice: in.UnitPrice,
		})
	}

	order := &domain.Order{
		UserID:   actorID,
		Items:    items,
		Currency: input.Currency,
		Status:   domain.StatusPending,
	}
	order.Amount = order.TotalAmount()

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "order created",
		slog.String("order_id", order.ID.Hex()),
		slog.String("user_id", actor.ID),
		slog.Int64("amount", order.Amount),
		slog.Int("lines", len(order.Items)),
	)
	return order, nil
}

// GetOrder returns an order visible to the actor. Admins can read any
// order; everyone else only their own.
func (s *OrderService) GetOrder(ctx context.Context, rawID string) (*domain.Order, error) {
	actor, actorID, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parseID(rawID, "orderId")
	if err != nil {
		return nil, err
	}

	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != middleware.RoleAdmin && order.UserID != actorID {
		return nil, apperrors.Forbidden("FORBIDDEN_NOT_OWNER", "you do not own this order")
	}
	return order, nil
}

// ListOrders returns the actor's orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, page pagination.Params) ([]domain.Order, int64, error) {
	_, actorID, err := requireActor(ctx)
	if err != nil {
		return nil, 0, err
	}
	return s.orders.ListByUser(ctx, actorID, page)
}

// CancelOrder cancels a pending order owned by the actor (admins can
// cancel any pending order).
func (s *OrderService) CancelOrder(ctx context.Context, rawID string) (*domain.Order, error) {
	actor, actorID, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parseID(rawID, "orderId")
	if err != nil {
		return nil, err
	}

	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != middleware.RoleAdmin && order.UserID != actorID {
		return nil, apperrors.Forbidden("FORBIDDEN_NOT_OWNER", "you do not own this order")
	}
	if order.Status != domain.StatusPending {
		return nil, apperrors.Conflict("ORDER_NOT_CANCELLABLE",
			fmt.Sprintf("only pending orders can be cancelled, order is %s", order.Status))
	}

	updated, err := s.orders.UpdateStatus(ctx, id, domain.StatusCancelled)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "order cancelled",
		slog.String("order_id", id.Hex()),
		slog.String("user_id", actor.ID),
	)
	return updated, nil
}

func validateItems(items []OrderItemInput) error {
	var fields []apperrors.FieldError

	if len(items) == 0 {
		fields = append(fields, apperrors.FieldError{Field: "items", Message: "must not be empty"})
	}
	if len(items) > MaxItemsPerOrder {
		fields = append(fields, apperrors.FieldError{Field: "items",
			Message: fmt.Sprintf("must not contain more than %d lines", MaxItemsPerOrder)})
	}

	seen := make(map[string]struct{}, len(items))
	for i, item := range items {
		prefix := fmt.Sprintf("items[%d]", i)
		if item.VariantID == "" {
			fields = append(fields, apperrors.FieldError{Field: prefix + ".variant_id", Message: "must not be empty"})
		}
		if _, dup := seen[item.VariantID]; dup {
			fields = append(fields, apperrors.FieldError{Field: prefix + ".variant_id", Message: "duplicate variant line"})
		}
		seen[item.VariantID] = struct{}{}
		if item.Quantity < 1 || item.Quantity > MaxQuantityPerItem {
			fields = append(fields, apperrors.FieldError{Field: prefix + ".quantity",
				Message: fmt.Sprintf("must be between 1 and %d", MaxQuantityPerItem)})
		}
		if item.UnitPrice < 0 {
			fields = append(fields, apperrors.FieldError{Field: prefix + ".unit_price", Message: "must not be negative"})
		}
	}

	if len(fields) > 0 {
		return apperrors.Validation("invalid order", fields...)
	}
	return nil
}
