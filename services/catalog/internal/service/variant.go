package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/itsGurdevSingh/UrbanPocket/pkg/errors"
	"github.com/itsGurdevSingh/UrbanPocket/pkg/middleware"
	"github.com/itsGurdevSingh/UrbanPocket/services/catalog/internal/domain"
	"github.com/itsGurdevSingh/UrbanPocket/services/catalog/internal/media"
	"github.com/itsGurdevSingh/UrbanPocket/services/catalog/internal/repository"
)

// VariantService implements variant operations. Every mutation walks the
// variant's parent product: missing product fails not-found, a non-owning
// seller fails forbidden, an inactive product blocks changes.
type VariantService struct {
	variants repository.VariantRepository
	products repository.ProductRepository
	uploader *media.Uploader
	logger   *slog.Logger
}

// NewVariantService creates a new variant service.
func NewVariantService(
	variants repository.VariantRepository,
	products repository.ProductRepository,
	uploader *media.Uploader,
	logger *slog.Logger,
) *VariantService {
	return &VariantService{
		variants: variants,
		products: products,
		uploader: uploader,
		logger:   logger,
	}
}

// CreateVariantInput holds the parameters for creating a variant.
type CreateVariantInput struct {
	ProductID string
	SKU       string
	Options   map[string]string
	BaseUnit  string
	Price     domain.Money
	Images    []media.File
}

// UpdateVariantInput holds the parameters for updating a variant. Nil
// fields are left unchanged; a non-nil Images slice replaces the image set.
type UpdateVariantInput struct {
	Options  map[string]string
	BaseUnit *string
	Price    *domain.Money
	Images   []media.File
}

// ListVariantsInput narrows the variant listing.
type ListVariantsInput struct {
	Page     int
	Limit    int
	Product  *string
	SKU      *string
	IsActive *bool
}

// CreateVariant creates a variant under an owned, active product.
func (s *VariantService) CreateVariant(ctx context.Context, input *CreateVariantInput) (*domain.Variant, error) {
	actor, actorID, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	productID, err := parseID(input.ProductID, "productId")
	if err != nil {
		return nil, err
	}

	product, err := s.guardProduct(ctx, actor, actorID, productID)
	if err != nil {
		return nil, err
	}

	exists, err := s.variants.ExistsSKU(ctx, product.ID, input.SKU)
	if err != nil {
		return nil, fmt.Errorf("check variant sku: %w", err)
	}
	if exists {
		return nil, apperrors.Conflict("DUPLICATE_VARIANT_SKU", "this product already has a variant with this sku")
	}

	assets, err := s.uploader.UploadAll(ctx, input.Images)
	if err != nil {
		return nil, fmt.Errorf("upload variant images: %w", err)
	}

	now := time.Now().UTC()
	variant := &domain.Variant{
		ID:            primitive.NewObjectID(),
		ProductID:     product.ID,
		SKU:           input.SKU,
		Options:       input.Options,
		BaseUnit:      input.BaseUnit,
		Price:         input.Price,
		VariantImages: toImages(assets),
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.uploader.WithRollback(ctx, assets, func() error {
		return s.variants.Create(ctx, variant)
	})
	if err != nil {
		return nil, fmt.Errorf("create variant: %w", err)
	}

	s.logger.InfoContext(ctx, "variant created",
		slog.String("variant_id", variant.ID.Hex()),
		slog.String("product_id", product.ID.Hex()),
		slog.String("sku", variant.SKU),
	)
	return variant, nil
}

// GetVariant retrieves a variant by id.
func (s *VariantService) GetVariant(ctx context.Context, id string) (*domain.Variant, error) {
	oid, err := parseID(id, "id")
	if err != nil {
		return nil, err
	}
	return s.variants.GetByID(ctx, oid)
}

// ListVariants returns a page of variants matching the filter.
func (s *VariantService) ListVariants(ctx context.Context, input ListVariantsInput) ([]domain.Variant, int64, error) {
	productID, err := parseOptionalID(input.Product, "productId")
	if err != nil {
		return nil, 0, err
	}

	return s.variants.List(ctx, repository.VariantFilter{
		Page:      input.Page,
		Limit:     input.Limit,
		ProductID: productID,
		SKU:       input.SKU,
		IsActive:  input.IsActive,
	})
}

// UpdateVariant applies a partial update after walking the parent chain.
func (s *VariantService) UpdateVariant(ctx context.Context, id string, input *UpdateVariantInput) (*domain.Variant, error) {
	variant, err := s.guardVariant(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Options != nil {
		variant.Options = input.Options
	}
	if input.BaseUnit != nil {
		variant.BaseUnit = *input.BaseUnit
	}
	if input.Price != nil {
		variant.Price = *input.Price
	}

	var replaced []media.Asset
	var assets []media.Asset
	if input.Images != nil {
		assets, err = s.uploader.UploadAll(ctx, input.Images)
		if err != nil {
			return nil, fmt.Errorf("upload variant images: %w", err)
		}
		replaced = fromImages(variant.VariantImages)
		variant.VariantImages = toImages(assets)
	}
	variant.UpdatedAt = time.Now().UTC()

	err = s.uploader.WithRollback(ctx, assets, func() error {
		return s.variants.Update(ctx, variant)
	})
	if err != nil {
		return nil, fmt.Errorf("update variant: %w", err)
	}
	s.uploader.DeleteAll(ctx, replaced)

	s.logger.InfoContext(ctx, "variant updated", slog.String("variant_id", variant.ID.Hex()))
	return variant, nil
}

// DeleteVariant removes the variant, then deletes its images best-effort.
func (s *VariantService) DeleteVariant(ctx context.Context, id string) error {
	variant, err := s.guardVariant(ctx, id)
	if err != nil {
		return err
	}

	if err := s.variants.Delete(ctx, variant.ID); err != nil {
		return fmt.Errorf("delete variant: %w", err)
	}
	s.uploader.DeleteAll(ctx, fromImages(variant.VariantImages))

	s.logger.InfoContext(ctx, "variant deleted", slog.String("variant_id", variant.ID.Hex()))
	return nil
}

// SetVariantActive soft-disables or re-enables a variant. Idempotent.
func (s *VariantService) SetVariantActive(ctx context.Context, id string, active bool) (*domain.Variant, error) {
	variant, err := s.guardVariant(ctx, id)
	if err != nil {
		return nil, err
	}
	if variant.IsActive == active {
		return variant, nil
	}

	updated, err := s.variants.SetActive(ctx, variant.ID, active)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "variant active flag changed",
		slog.String("variant_id", variant.ID.Hex()),
		slog.Bool("is_active", active),
	)
	return updated, nil
}

// guardVariant loads the variant and walks its parent chain with the
// standard guards.
func (s *VariantService) guardVariant(ctx context.Context, id string) (*domain.Variant, error) {
	actor, actorID, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	oid, err := parseID(id, "id")
	if err != nil {
		return nil, err
	}

	variant, err := s.variants.GetByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if _, err := s.guardProduct(ctx, actor, actorID, variant.ProductID); err != nil {
		return nil, err
	}
	return variant, nil
}

func (s *VariantService) guardProduct(ctx context.Context, actor *middleware.Actor, actorID, productID primitive.ObjectID) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := requireProductOwner(actor, actorID, product); err != nil {
		return nil, err
	}
	if err := requireActiveProduct(product); err != nil {
		return nil, err
	}
	return product, nil
}
