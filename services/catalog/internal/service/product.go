package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/itsGurdevSingh/UrbanPocket/pkg/errors"
	"github.com/itsGurdevSingh/UrbanPocket/pkg/slug"
	"github.com/itsGurdevSingh/UrbanPocket/services/catalog/internal/domain"
	"github.com/itsGurdevSingh/UrbanPocket/services/catalog/internal/media"
	"github.com/itsGurdevSingh/UrbanPocket/services/catalog/internal/repository"
)

// ProductService implements product operations.
type ProductService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	uploader   *media.Uploader
	logger     *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	uploader *media.Uploader,
	logger *slog.Logger,
) *ProductService {
	return &ProductService{
		products:   products,
		categories: categories,
		uploader:   uploader,
		logger:     logger,
	}
}

// CreateProductInput holds the parameters for creating a product.
type CreateProductInput struct {
	Name        string
	Description string
	Brand       string
	CategoryID  *string
	Attributes  []string
	Images      []media.File
}

// UpdateProductInput holds the parameters for updating a product. Nil
// fields are left unchanged. A non-nil Images slice replaces the product's
// image set.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Brand       *string
	CategoryID  *string
	Attributes  []string
	Images      []media.File
}

// ListProductsInput narrows the product listing.
type ListProductsInput struct {
	Page     int
	Limit    int
	Search   *string
	Category *string
	Seller   *string
	IsActive *bool
}

// CreateProduct creates a product for the authenticated seller, uploading
// any attached images first. A persistence failure rolls the uploads back.
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*domain.Product, error) {
	_, actorID, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	categoryID, err := s.resolveCategory(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}

	exists, err := s.products.ExistsByName(ctx, actorID, input.Name)
	if err != nil {
		return nil, fmt.Errorf("check product name: %w", err)
	}
	if exists {
		return nil, apperrors.Conflict("DUPLICATE_PRODUCT_NAME", "you already have a product with this name")
	}

	assets, err := s.uploader.UploadAll(ctx, input.Images)
	if err != nil {
		return nil, fmt.Errorf("upload product images: %w", err)
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:          primitive.NewObjectID(),
		Name:        input.Name,
		Slug:        slug.Generate(input.Name),
		Description: input.Description,
		Brand:       input.Brand,
		SellerID:    actorID,
		CategoryID:  categoryID,
		Attributes:  input.Attributes,
		BaseImages:  toImages(assets),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.uploader.WithRollback(ctx, assets, func() error {
		return s.products.Create(ctx, product)
	})
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID.Hex()),
		slog.String("seller_id", actorID.Hex()),
		slog.Int("images", len(assets)),
	)
	return product, nil
}

// GetProduct retrieves a product by id.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	oid, err := parseID(id, "id")
	if err != nil {
		return nil, err
	}
	return s.products.GetByID(ctx, oid)
}

// ListProducts returns a page of products matching the filter.
func (s *ProductService) ListProducts(ctx context.Context, input ListProductsInput) ([]domain.Product, int64, error) {
	categoryID, err := parseOptionalID(input.Category, "category")
	if err != nil {
		return nil, 0, err
	}
	sellerID, err := parseOptionalID(input.Seller, "seller")
	if err != nil {
		return nil, 0, err
	}

	return s.products.List(ctx, repository.ProductFilter{
		Page:       input.Page,
		Limit:      input.Limit,
		Search:     input.Search,
		CategoryID: categoryID,
		SellerID:   sellerID,
		IsActive:   input.IsActive,
	})
}

// UpdateProduct applies a partial update. A non-nil image set replaces the
// existing images: new files are uploaded first, rolled back on a failed
// write, and the replaced files are deleted best-effort after the write
// lands.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, input *UpdateProductInput) (*domain.Product, error) {
	actor, actorID, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	oid, err := parseID(id, "id")
	if err != nil {
		return nil, err
	}

	product, err := s.products.GetByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if err := requireProductOwner(actor, actorID, product); err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != product.Name {
		exists, err := s.products.ExistsByName(ctx, product.SellerID, *input.Name)
		if err != nil {
			return nil, fmt.Errorf("check product name: %w", err)
		}
		if exists {
			return nil, apperrors.Conflict("DUPLICATE_PRODUCT_NAME", "you already have a product with this name")
		}
		product.Name = *input.Name
		product.Slug = slug.Generate(*input.Name)
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Brand != nil {
		product.Brand = *input.Brand
	}
	if input.CategoryID != nil {
		categoryID, err := s.resolveCategory(ctx, input.CategoryID)
		if err != nil {
			return nil, err
		}
		product.CategoryID = categoryID
	}
	if input.Attributes != nil {
		product.Attributes = input.Attributes
	}

	var replaced []media.Asset
	var assets []media.Asset
	if input.Images != nil {
		assets, err = s.uploader.UploadAll(ctx, input.Images)
		if err != nil {
			return nil, fmt.Errorf("upload product images: %w", err)
		}
		replaced = fromImages(product.BaseImages)
		product.BaseImages = toImages(assets)
	}
	product.UpdatedAt = time.Now().UTC()

	err = s.uploader.WithRollback(ctx, assets, func() error {
		return s.products.Update(ctx, product)
	})
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	s.uploader.DeleteAll(ctx, replaced)

	s.logger.InfoContext(ctx, "product updated", slog.String("product_id", product.ID.Hex()))
	return product, nil
}

// DeleteProduct removes the product document, then deletes its images
// best-effort.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	actor, actorID, err := requireActor(ctx)
	if err != nil {
		return err
	}
	oid, err := parseID(id, "id")
	if err != nil {
		return err
	}

	product, err := s.products.GetByID(ctx, oid)
	if err != nil {
		return err
	}
	if err := requireProductOwner(actor, actorID, product); err != nil {
		return err
	}

	if err := s.products.Delete(ctx, oid); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	s.uploader.DeleteAll(ctx, fromImages(product.BaseImages))

	s.logger.InfoContext(ctx, "product deleted", slog.String("product_id", oid.Hex()))
	return nil
}

// SetProductActive soft-disables or re-enables a product. Repeating the
// same transition is a no-op.
func (s *ProductService) SetProductActive(ctx context.Context, id string, active bool) (*domain.Product, error) {
	actor, actorID, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	oid, err := parseID(id, "id")
	if err != nil {
		return nil, err
	}

	product, err := s.products.GetByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if err := requireProductOwner(actor, actorID, product); err != nil {
		return nil, err
	}
	if product.IsActive == active {
		return product, nil
	}

	updated, err := s.products.SetActive(ctx, oid, active)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "product active flag changed",
		slog.String("product_id", oid.Hex()),
		slog.Bool("is_active", active),
	)
	return updated, nil
}

// resolveCategory validates an optional category reference.
func (s *ProductService) resolveCategory(ctx context.Context, raw *string) (*primitive.ObjectID, error) {
	id, err := parseOptionalID(raw, "categoryId")
	if err != nil || id == nil {
		return nil, err
	}
	category, err := s.categories.GetByID(ctx, *id)
	if err != nil {
		return nil, err
	}
	if !category.IsActive {
		return nil, apperrors.Conflict("CATEGORY_INACTIVE", "category is disabled")
	}
	return id, nil
}

func toImages(assets []media.Asset) []domain.Image {
	images := make([]domain.Image, len(assets))
	for i, a := range assets {
		images[i] = domain.Image{FileID: a.FileID, URL: a.URL, AltText: a.Label}
	}
	return images
}

func fromImages(images []domain.Image) []media.Asset {
	assets := make([]media.Asset, len(images))
	for i, img := range images {
		assets[i] = media.Asset{FileID: img.FileID, URL: img.URL, Label: img.AltText}
	}
	return assets
}
