package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	apperrors "github.com/itsGurdevSingh/UrbanPocket/pkg/errors"
	"github.com/itsGurdevSingh/UrbanPocket/services/inventory/internal/repository"
)

// CatalogReader implements repository.CatalogReader over the catalog's
// collections in the shared database.
type CatalogReader struct {
	variants *mongo.Collection
	products *mongo.Collection
}

// NewCatalogReader binds a reader to the catalog collections.
func NewCatalogReader(db *mongo.Database) *CatalogReader {
	return &CatalogReader{
		variants: db.Collection(collVariants),
		products: db.Collection(collProducts),
	}
}

// GetVariant loads the variant slice the guard chain needs.
func (r *CatalogReader) GetVariant(ctx context.Context, id primitive.ObjectID) (*repository.VariantRef, error) {
	var v repository.VariantRef
	err := r.variants.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&v)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.NotFound("VARIANT_NOT_FOUND", "variant", id.Hex())
		}
		return nil, fmt.Errorf("find variant: %w", err)
	}
	return &v, nil
}

// GetProduct loads the product slice the guard chain needs.
func (r *CatalogReader) GetProduct(ctx context.Context, id primitive.ObjectID) (*repository.ProductRef, error) {
	var p repository.ProductRef
	err := r.products.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&p)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.NotFound("PRODUCT_NOT_FOUND", "product", id.Hex())
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return &p, nil
}
