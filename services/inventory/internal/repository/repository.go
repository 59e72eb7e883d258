// Package repository defines the persistence contracts for the inventory
// service. Filters arrive typed and pre-coerced: the HTTP layer rejects
// malformed values before they reach a query.
package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/itsGurdevSingh/UrbanPocket/services/inventory/internal/domain"
)

// Sort keys accepted by Search. Anything else falls back to the default
// created_at descending.
const (
	SortByPrice     = "price"
	SortByStock     = "stock"
	SortByCreatedAt = "createdAt"
	SortByUpdatedAt = "updatedAt"
	SortByExpDate   = "expDate"
	SortByMfgDate   = "mfgDate"
)

// SearchFilters narrows the inventory search. Nil fields are omitted from
// the pipeline.
type SearchFilters struct {
	// Pre-join: InventoryItem's own fields.
	VariantID      *primitive.ObjectID
	BatchNumber    *string // case-insensitive substring
	IsActive       *bool
	InStock        *bool // true → stock > 0, false → stock <= 0
	MinPrice       *int64
	MaxPrice       *int64
	MinStock       *int64
	MaxStock       *int64
	MfgDateFrom    *time.Time
	MfgDateTo      *time.Time
	ExpDateFrom    *time.Time
	ExpDateTo      *time.Time
	ExcludeExpired bool

	// Post-join: fields that only exist after joining variant and product.
	ProductName *string // case-insensitive substring on product.name
	SKU         *string // case-insensitive substring on variant.sku
	SellerID    *primitive.ObjectID
}

// SearchInput is the full search request.
type SearchInput struct {
	Filters   SearchFilters
	SortBy    string
	SortOrder string // "asc" or "desc"
	Page      int
	Limit     int
}

// SearchResult is a page of enriched items plus the filter-wide total.
type SearchResult struct {
	Items []domain.EnrichedItem
	Total int64
}

// ItemRepository persists inventory items.
type ItemRepository interface {
	Create(ctx context.Context, item *domain.InventoryItem) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.InventoryItem, error)
	Update(ctx context.Context, item *domain.InventoryItem) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	SetActive(ctx context.Context, id primitive.ObjectID, active bool) (*domain.InventoryItem, error)
	ExistsBatch(ctx context.Context, variantID primitive.ObjectID, batchNumber string) (bool, error)

	// Search runs the join-and-filter aggregation. Total counts every match
	// regardless of pagination.
	Search(ctx context.Context, input SearchInput) (*SearchResult, error)
}

// VariantRef is the slice of a catalog variant the guard chain needs.
type VariantRef struct {
	ID        primitive.ObjectID `bson:"_id"`
	ProductID primitive.ObjectID `bson:"product_id"`
	IsActive  bool               `bson:"is_active"`
}

// ProductRef is the slice of a catalog product the guard chain needs.
type ProductRef struct {
	ID       primitive.ObjectID `bson:"_id"`
	SellerID primitive.ObjectID `bson:"seller_id"`
	IsActive bool               `bson:"is_active"`
}

// CatalogReader loads the variant→product parent chain from the shared
// catalog collections.
type CatalogReader interface {
	GetVariant(ctx context.Context, id primitive.ObjectID) (*VariantRef, error)
	GetProduct(ctx context.Context, id primitive.ObjectID) (*ProductRef, error)
}
