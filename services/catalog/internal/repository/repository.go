// Package repository defines the persistence contracts for the catalog
// entities. Implementations live in the mongodb subpackage; services depend
// only on these interfaces so tests can substitute mocks.
package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/itsGurdevSingh/UrbanPocket/services/catalog/internal/domain"
)

// ProductFilter narrows product listings. Nil fields are omitted.
type ProductFilter struct {
	Page       int
	Limit      int
	Search     *string // matches the text index over name/brand/description
	CategoryID *primitive.ObjectID
	SellerID   *primitive.ObjectID
	IsActive   *bool
}

// ProductRepository persists products.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int64, error)
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	SetActive(ctx context.Context, id primitive.ObjectID, active bool) (*domain.Product, error)

	// SetRating writes the denormalized review aggregate. Only the review
	// flow calls this.
	SetRating(ctx context.Context, id primitive.ObjectID, rating domain.Rating) error

	// ExistsByName reports whether the seller already has a product with
	// this name. The unique index is the safety net for the
	// check-then-insert race.
	ExistsByName(ctx context.Context, sellerID primitive.ObjectID, name string) (bool, error)
}

// VariantFilter narrows variant listings.
type VariantFilter struct {
	Page      int
	Limit     int
	ProductID *primitive.ObjectID
	SKU       *string // case-insensitive substring
	IsActive  *bool
}

// VariantRepository persists variants.
type VariantRepository interface {
	Create(ctx context.Context, v *domain.Variant) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Variant, error)
	List(ctx context.Context, filter VariantFilter) ([]domain.Variant, int64, error)
	Update(ctx context.Context, v *domain.Variant) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	SetActive(ctx context.Context, id primitive.ObjectID, active bool) (*domain.Variant, error)
	ExistsSKU(ctx context.Context, productID primitive.ObjectID, sku string) (bool, error)
}

// CategoryFilter narrows category listings.
type CategoryFilter struct {
	Page     int
	Limit    int
	Parent   *primitive.ObjectID
	IsActive *bool
}

// CategoryRepository persists the category tree.
type CategoryRepository interface {
	Create(ctx context.Context, c *domain.Category) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Category, error)
	List(ctx context.Context, filter CategoryFilter) ([]domain.Category, int64, error)
	Update(ctx context.Context, c *domain.Category) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	SetActive(ctx context.Context, id primitive.ObjectID, active bool) (*domain.Category, error)
	ExistsByName(ctx context.Context, name string) (bool, error)

	// ListDescendants returns every category whose ancestors contain id.
	ListDescendants(ctx context.Context, id primitive.ObjectID) ([]domain.Category, error)
}

// ReviewRepository persists reviews.
type ReviewRepository interface {
	Create(ctx context.Context, r *domain.Review) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Review, error)
	ListByProduct(ctx context.Context, productID primitive.ObjectID, page, limit int) ([]domain.Review, int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	ExistsForUser(ctx context.Context, productID, userID primitive.ObjectID) (bool, error)

	// AggregateRating computes {average, count} over the product's reviews.
	// An empty result set yields the zero Rating.
	AggregateRating(ctx context.Context, productID primitive.ObjectID) (domain.Rating, error)
}
