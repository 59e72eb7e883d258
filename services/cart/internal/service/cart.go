// Package service implements the cart business logic. Carts are scoped to
// the authenticated actor; concurrent modifications are resolved with
// optimistic versioning in the repository.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	apperrors "github.com/itsGurdevSingh/UrbanPocket/pkg/errors"
	"github.com/itsGurdevSingh/UrbanPocket/pkg/middleware"
	"github.com/itsGurdevSingh/UrbanPocket/services/cart/internal/domain"
	"github.com/itsGurdevSingh/UrbanPocket/services/cart/internal/repository"
)

// Cart operation upper bounds.
const (
	// MaxQuantityPerItem is the maximum quantity allowed for a single line.
	MaxQuantityPerItem = 100
	// MaxItemsPerCart is the maximum number of distinct lines in a cart.
	MaxItemsPerCart = 50
)

// CartService implements the business logic for cart operations.
type CartService struct {
	repo    repository.CartRepository
	logger  *slog.Logger
	cartTTL time.Duration
}

// NewCartService creates a new cart service.
func NewCartService(repo repository.CartRepository, logger *slog.Logger, cartTTL time.Duration) *CartService {
	return &CartService{repo: repo, logger: logger, cartTTL: cartTTL}
}

// AddItemInput holds the parameters for adding an item to the cart.
type AddItemInput struct {
	VariantID string
	Name      string
	SKU       string
	UnitPrice int64
	Currency  string
	Quantity  int
}

// GetCart returns the actor's cart. A missing cart reads as an empty one.
func (s *CartService) GetCart(ctx context.Context) (*domain.Cart, error) {
	actor, err := middleware.RequireActor(ctx)
	if err != nil {
		return nil, err
	}

	cart, err := s.repo.Get(ctx, actor.ID)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == "CART_NOT_FOUND" {
			return s.emptyCart(actor.ID), nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return cart, nil
}

// AddItem adds a variant line to the actor's cart; an existing line for
// the same variant merges by quantity and refreshes its snapshot.
func (s *CartService) AddItem(ctx context.Context, input *AddItemInput) (*domain.Cart, error) {
	actor, err := middleware.RequireActor(ctx)
	if err != nil {
		return nil, err
	}
	if input.Quantity < 1 || input.Quantity > MaxQuantityPerItem {
		return nil, apperrors.Validation(fmt.Sprintf("quantity must be between 1 and %d", MaxQuantityPerItem),
			apperrors.FieldError{Field: "quantity", Message: "out of range"})
	}
	if input.UnitPrice < 0 {
		return nil, apperrors.Validation("unit price must not be negative",
			apperrors.FieldError{Field: "unit_price", Message: "must not be negative"})
	}

	cart, err := s.GetCart(ctx)
	if err != nil {
		return nil, err
	}
	expectedVersion := cart.Version

	if cart.Currency == "" {
		cart.Currency = input.Currency
	} else if input.Currency != "" && input.Currency != cart.Currency {
		return nil, apperrors.Validation("cart items must share a currency",
			apperrors.FieldError{Field: "currency", Message: "does not match the cart currency"})
	}

	if i := cart.FindItemIndex(input.VariantID); i >= 0 {
		newQty := cart.Items[i].Quantity + input.Quantity
		if newQty > MaxQuantityPerItem {
			return nil, apperrors.Validation(fmt.Sprintf("combined quantity must not exceed %d", MaxQuantityPerItem),
				apperrors.FieldError{Field: "quantity", Message: "combined quantity too large"})
		}
		cart.Items[i].Quantity = newQty
		cart.Items[i].UnitPrice = input.UnitPrice
		cart.Items[i].Name = input.Name
		cart.Items[i].SKU = input.SKU
	} else {
		if len(cart.Items) >= MaxItemsPerCart {
			return nil, apperrors.Validation(fmt.Sprintf("cart must not contain more than %d items", MaxItemsPerCart),
				apperrors.FieldError{Field: "variant_id", Message: "cart is full"})
		}
		cart.Items = append(cart.Items, domain.CartItem{
			VariantID: input.VariantID,
			Name:      input.Name,
			SKU:       input.SKU,
			UnitPrice: input.UnitPrice,
			Quantity:  input.Quantity,
		})
	}

	if err := s.save(ctx, cart, expectedVersion); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("user_id", actor.ID),
		slog.String("variant_id", input.VariantID),
		slog.Int("quantity", input.Quantity),
	)
	return cart, nil
}

// UpdateItemQuantity sets a line's quantity. Zero removes the line.
func (s *CartService) UpdateItemQuantity(ctx context.Context, variantID string, quantity int) (*domain.Cart, error) {
	actor, err := middleware.RequireActor(ctx)
	if err != nil {
		return nil, err
	}
	if quantity < 0 || quantity > MaxQuantityPerItem {
		return nil, apperrors.Validation(fmt.Sprintf("quantity must be between 0 and %d", MaxQuantityPerItem),
			apperrors.FieldError{Field: "quantity", Message: "out of range"})
	}

	cart, err := s.repo.Get(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	expectedVersion := cart.Version

	i := cart.FindItemIndex(variantID)
	if i < 0 {
		return nil, apperrors.NotFound("CART_ITEM_NOT_FOUND", "cart item", variantID)
	}

	if quantity == 0 {
		cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
	} else {
		cart.Items[i].Quantity = quantity
	}

	if err := s.save(ctx, cart, expectedVersion); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "cart item quantity updated",
		slog.String("user_id", actor.ID),
		slog.String("variant_id", variantID),
		slog.Int("quantity", quantity),
	)
	return cart, nil
}

// RemoveItem deletes a line from the actor's cart.
func (s *CartService) RemoveItem(ctx context.Context, variantID string) (*domain.Cart, error) {
	return s.UpdateItemQuantity(ctx, variantID, 0)
}

// ClearCart removes the actor's cart entirely.
func (s *CartService) ClearCart(ctx context.Context) error {
	actor, err := middleware.RequireActor(ctx)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, actor.ID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	s.logger.InfoContext(ctx, "cart cleared", slog.String("user_id", actor.ID))
	return nil
}

func (s *CartService) save(ctx context.Context, cart *domain.Cart, expectedVersion int) error {
	now := time.Now().UTC()
	cart.UpdatedAt = now
	cart.ExpiresAt = now.Add(s.cartTTL)

	ok, err := s.repo.SaveIfVersion(ctx, cart, expectedVersion)
	if err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	if !ok {
		return apperrors.Conflict("CART_CONFLICT", "cart was modified concurrently, please retry")
	}
	return nil
}

func (s *CartService) emptyCart(userID string) *domain.Cart {
	now := time.Now().UTC()
	return &domain.Cart{
		UserID:    userID,
		Items:     []domain.CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(s.cartTTL),
	}
}
