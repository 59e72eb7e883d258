package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/itsGurdevSingh/UrbanPocket/pkg/errors"
	"github.com/itsGurdevSingh/UrbanPocket/pkg/middleware"
	"github.com/itsGurdevSingh/UrbanPocket/services/inventory/internal/domain"
	"github.com/itsGurdevSingh/UrbanPocket/services/inventory/internal/repository"
)

// ItemService implements inventory item operations.
type ItemService struct {
	items   repository.ItemRepository
	catalog repository.CatalogReader
	logger  *slog.Logger
}

// NewItemService creates a new inventory item service.
func NewItemService(
	items repository.ItemRepository,
	catalog repository.CatalogReader,
	logger *slog.Logger,
) *ItemService {
	return &ItemService{
		items:   items,
		catalog: catalog,
		logger:  logger,
	}
}

// CreateItemInput holds the parameters for creating an inventory item.
type CreateItemInput struct {
	VariantID        string
	BatchNumber      string
	StockInBaseUnits int64
	PricePerBaseUnit domain.Money
	Status           string
	MfgDate          time.Time
	ExpDate          time.Time
	HSNCode          string
	GSTPercentage    float64
}

// UpdateItemInput holds the parameters for updating an item. Nil fields
// are left unchanged.
type UpdateItemInput struct {
	BatchNumber      *string
	StockInBaseUnits *int64
	PricePerBaseUnit *domain.Money
	Status           *string
	MfgDate          *time.Time
	ExpDate          *time.Time
	HSNCode          *string
	GSTPercentage    *float64
}

// SearchItemsInput is the search request as the HTTP layer hands it over.
// Identifier filters arrive as raw strings and are parsed here so a
// malformed id fails validation instead of silently matching nothing.
type SearchItemsInput struct {
	VariantID      *string
	BatchNumber    *string
	IsActive       *bool
	InStock        *bool
	MinPrice       *int64
	MaxPrice       *int64
	MinStock       *int64
	MaxStock       *int64
	MfgDateFrom    *time.Time
	MfgDateTo      *time.Time
	ExpDateFrom    *time.Time
	ExpDateTo      *time.Time
	ExcludeExpired bool

	ProductName *string
	SKU         *string
	SellerID    *string

	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

// CreateItem creates a stock batch under an owned, active variant.
func (s *ItemService) CreateItem(ctx context.Context, input *CreateItemInput) (*domain.InventoryItem, error) {
	actor, actorID, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	variantID, err := parseID(input.VariantID, "variantId")
	if err != nil {
		return nil, err
	}

	if err := validateDetails(domain.Status(input.Status), input.StockInBaseUnits, input.GSTPercentage, input.MfgDate, input.ExpDate); err != nil {
		return nil, err
	}

	if _, err := s.guardVariant(ctx, actor, actorID, variantID); err != nil {
		return nil, err
	}

	if input.BatchNumber != "" {
		exists, err := s.items.ExistsBatch(ctx, variantID, input.BatchNumber)
		if err != nil {
			return nil, fmt.Errorf("check batch number: %w", err)
		}
		if exists {
			return nil, apperrors.Conflict("DUPLICATE_BATCH_NUMBER", "this variant already has an inventory item for this batch")
		}
	}

	now := time.Now().UTC()
	item := &domain.InventoryItem{
		ID:               primitive.NewObjectID(),
		VariantID:        variantID,
		BatchNumber:      input.BatchNumber,
		StockInBaseUnits: input.StockInBaseUnits,
		PricePerBaseUnit: input.PricePerBaseUnit,
		Status:           domain.Status(input.Status),
		ManufacturingDetails: domain.ManufacturingDetails{
			MfgDate: input.MfgDate,
			ExpDate: input.ExpDate,
		},
		HSNCode:       input.HSNCode,
		GSTPercentage: input.GSTPercentage,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "inventory item created",
		slog.String("item_id", item.ID.Hex()),
		slog.String("variant_id", variantID.Hex()),
		slog.String("batch_number", item.BatchNumber),
	)
	return item, nil
}

// GetItem retrieves an item by id.
func (s *ItemService) GetItem(ctx context.Context, id string) (*domain.InventoryItem, error) {
	oid, err := parseID(id, "id")
	if err != nil {
		return nil, err
	}
	return s.items.GetByID(ctx, oid)
}

// SearchItems runs the enriched inventory search.
func (s *ItemService) SearchItems(ctx context.Context, input SearchItemsInput) ([]domain.EnrichedItem, int64, error) {
	variantID, err := parseOptionalID(input.VariantID, "variantId")
	if err != nil {
		return nil, 0, err
	}
	sellerID, err := parseOptionalID(input.SellerID, "sellerId")
	if err != nil {
		return nil, 0, err
	}

	result, err := s.items.Search(ctx, repository.SearchInput{
		Filters: repository.SearchFilters{
			VariantID:      variantID,
			BatchNumber:    input.BatchNumber,
			IsActive:       input.IsActive,
			InStock:        input.InStock,
			MinPrice:       input.MinPrice,
			MaxPrice:       input.MaxPrice,
			MinStock:       input.MinStock,
			MaxStock:       input.MaxStock,
			MfgDateFrom:    input.MfgDateFrom,
			MfgDateTo:      input.MfgDateTo,
			ExpDateFrom:    input.ExpDateFrom,
			ExpDateTo:      input.ExpDateTo,
			ExcludeExpired: input.ExcludeExpired,
			ProductName:    input.ProductName,
			SKU:            input.SKU,
			SellerID:       sellerID,
		},
		SortBy:    input.SortBy,
		SortOrder: input.SortOrder,
		Page:      input.Page,
		Limit:     input.Limit,
	})
	if err != nil {
		return nil, 0, err
	}
	return result.Items, result.Total, nil
}

// UpdateItem applies a partial update after walking the parent chain.
func (s *ItemService) UpdateItem(ctx context.Context, id string, input *UpdateItemInput) (*domain.InventoryItem, error) {
	item, err := s.guardItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.BatchNumber != nil && *input.BatchNumber != item.BatchNumber {
		if *input.BatchNumber != "" {
			exists, err := s.items.ExistsBatch(ctx, item.VariantID, *input.BatchNumber)
			if err != nil {
				return nil, fmt.Errorf("check batch number: %w", err)
			}
			if exists {
				return nil, apperrors.Conflict("DUPLICATE_BATCH_NUMBER", "this variant already has an inventory item for this batch")
			}
		}
		item.BatchNumber = *input.BatchNumber
	}
	if input.StockInBaseUnits != nil {
		item.StockInBaseUnits = *input.StockInBaseUnits
	}
	if input.PricePerBaseUnit != nil {
		item.PricePerBaseUnit = *input.PricePerBaseUnit
	}
	if input.Status != nil {
		item.Status = domain.Status(*input.Status)
	}
	if input.MfgDate != nil {
		item.ManufacturingDetails.MfgDate = *input.MfgDate
	}
	if input.ExpDate != nil {
		item.ManufacturingDetails.ExpDate = *input.ExpDate
	}
	if input.HSNCode != nil {
		item.HSNCode = *input.HSNCode
	}
	if input.GSTPercentage != nil {
		item.GSTPercentage = *input.GSTPercentage
	}

	if err := validateDetails(item.Status, item.StockInBaseUnits, item.GSTPercentage,
		item.ManufacturingDetails.MfgDate, item.ManufacturingDetails.ExpDate); err != nil {
		return nil, err
	}
	item.UpdatedAt = time.Now().UTC()

	if err := s.items.Update(ctx, item); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "inventory item updated", slog.String("item_id", item.ID.Hex()))
	return item, nil
}

// DeleteItem removes the item after walking the parent chain.
func (s *ItemService) DeleteItem(ctx context.Context, id string) error {
	item, err := s.guardItem(ctx, id)
	if err != nil {
		return err
	}

	if err := s.items.Delete(ctx, item.ID); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "inventory item deleted", slog.String("item_id", item.ID.Hex()))
	return nil
}

// SetItemActive soft-disables or re-enables an item. Idempotent.
func (s *ItemService) SetItemActive(ctx context.Context, id string, active bool) (*domain.InventoryItem, error) {
	item, err := s.guardItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.IsActive == active {
		return item, nil
	}

	updated, err := s.items.SetActive(ctx, item.ID, active)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "inventory item active flag changed",
		slog.String("item_id", item.ID.Hex()),
		slog.Bool("is_active", active),
	)
	return updated, nil
}

// guardItem loads the item and walks its catalog parent chain with the
// standard guards.
func (s *ItemService) guardItem(ctx context.Context, id string) (*domain.InventoryItem, error) {
	actor, actorID, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	oid, err := parseID(id, "id")
	if err != nil {
		return nil, err
	}

	item, err := s.items.GetByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if _, err := s.guardVariant(ctx, actor, actorID, item.VariantID); err != nil {
		return nil, err
	}
	return item, nil
}

// guardVariant resolves the variant and its product, enforcing ownership
// and active gating on each link.
func (s *ItemService) guardVariant(ctx context.Context, actor *middleware.Actor, actorID, variantID primitive.ObjectID) (*repository.VariantRef, error) {
	variant, err := s.catalog.GetVariant(ctx, variantID)
	if err != nil {
		return nil, err
	}
	product, err := s.catalog.GetProduct(ctx, variant.ProductID)
	if err != nil {
		return nil, err
	}
	if actor.Role != middleware.RoleAdmin && product.SellerID != actorID {
		return nil, apperrors.Forbidden("FORBIDDEN_NOT_OWNER", "you do not own this product")
	}
	if !product.IsActive {
		return nil, apperrors.Conflict("PRODUCT_INACTIVE", "product is disabled")
	}
	if !variant.IsActive {
		return nil, apperrors.Conflict("VARIANT_INACTIVE", "variant is disabled")
	}
	return variant, nil
}

// validateDetails checks the entity rules shared by create and update.
func validateDetails(status domain.Status, stock int64, gst float64, mfg, exp time.Time) error {
	var fields []apperrors.FieldError
	if !status.Valid() {
		fields = append(fields, apperrors.FieldError{Field: "status", Message: "must be Sealed or Unsealed"})
	}
	if stock < 0 {
		fields = append(fields, apperrors.FieldError{Field: "stockInBaseUnits", Message: "must not be negative"})
	}
	if gst < 0 || gst > 100 {
		fields = append(fields, apperrors.FieldError{Field: "gstPercentage", Message: "must be between 0 and 100"})
	}
	if !mfg.IsZero() && !exp.IsZero() && !exp.After(mfg) {
		fields = append(fields, apperrors.FieldError{Field: "expDate", Message: "must be after mfgDate"})
	}
	if len(fields) > 0 {
		return apperrors.Validation("invalid inventory item", fields...)
	}
	return nil
}
