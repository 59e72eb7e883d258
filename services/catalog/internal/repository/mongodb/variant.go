package mongodb

import (
	"context"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "github.com/itsGurdevSingh/UrbanPocket/pkg/errors"
	"github.com/itsGurdevSingh/UrbanPocket/services/catalog/internal/domain"
	"github.com/itsGurdevSingh/UrbanPocket/services/catalog/internal/repository"
)

// VariantRepository implements repository.VariantRepository on MongoDB.
type VariantRepository struct {
	coll *mongo.Collection
}

// NewVariantRepository creates a variant repository bound to the variants
// collection.
func NewVariantRepository(db *mongo.Database) *VariantRepository {
	return &VariantRepository{coll: db.Collection(collVariants)}
}

// Create inserts the variant and assigns its generated ID.
func (r *VariantRepository) Create(ctx context.Context, v *domain.Variant) error {
	res, err := r.coll.InsertOne(ctx, v)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.Conflict("DUPLICATE_VARIANT_SKU",
				fmt.Sprintf("product already has a variant with sku %q", v.SKU))
		}
		return fmt.Errorf("insert variant: %w", err)
	}
	v.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// GetByID fetches one variant.
func (r *VariantRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Variant, error) {
	var v domain.Variant
	err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&v)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.NotFound("VARIANT_NOT_FOUND", "variant", id.Hex())
		}
		return nil, fmt.Errorf("find variant: %w", err)
	}
	return &v, nil
}

// List returns a page of variants matching the filter plus the unpaginated
// total.
func (r *VariantRepository) List(ctx context.Context, filter repository.VariantFilter) ([]domain.Variant, int64, error) {
	query := bson.D{}
	if filter.ProductID != nil {
		query = append(query, bson.E{Key: "product_id", Value: *filter.ProductID})
	}
	if filter.SKU != nil {
		query = append(query, bson.E{Key: "sku", Value: bson.D{
			{Key: "$regex", Value: regexp.QuoteMeta(*filter.SKU)},
			{Key: "$options", Value: "i"},
		}})
	}
	if filter.IsActive != nil {
		query = append(query, bson.E{Key: "is_active", Value: *filter.IsActive})
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count variants: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find variants: %w", err)
	}

	var variants []domain.Variant
	if err := cursor.All(ctx, &variants); err != nil {
		return nil, 0, fmt.Errorf("decode variants: %w", err)
	}

	return variants, total, nil
}

// Update replaces the mutable fields of an existing variant.
func (r *VariantRepository) Update(ctx context.Context, v *domain.Variant) error {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "sku", Value: v.SKU},
		{Key: "options", Value: v.Options},
		{Key: "base_unit", Value: v.BaseUnit},
		{Key: "price", Value: v.Price},
		{Key: "variant_images", Value: v.VariantImages},
		{Key: "updated_at", Value: v.UpdatedAt},
	}}}

	res, err := r.coll.UpdateByID(ctx, v.ID, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.Conflict("DUPLICATE_VARIANT_SKU",
				fmt.Sprintf("product already has a variant with sku %q", v.SKU))
		}
		return fmt.Errorf("update variant: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("VARIANT_NOT_FOUND", "variant", v.ID.Hex())
	}
	return nil
}

// Delete removes the variant document.
func (r *VariantRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("delete variant: %w", err)
	}
	if res.DeletedCount == 0 {
		return apperrors.NotFound("VARIANT_NOT_FOUND", "variant", id.Hex())
	}
	return nil
}

// SetActive toggles the soft-delete flag and returns the updated document.
func (r *VariantRepository) SetActive(ctx context.Context, id primitive.ObjectID, active bool) (*domain.Variant, error) {
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "is_active", Value: active}}}, {Key: "$currentDate", Value: bson.D{{Key: "updated_at", Value: true}}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var v domain.Variant
	err := r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id}}, update, opts).Decode(&v)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.NotFound("VARIANT_NOT_FOUND", "variant", id.Hex())
		}
		return nil, fmt.Errorf("set variant active: %w", err)
	}
	return &v, nil
}

// ExistsSKU reports whether the product already has a variant with this SKU.
func (r *VariantRepository) ExistsSKU(ctx context.Context, productID primitive.ObjectID, sku string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{
		{Key: "product_id", Value: productID},
		{Key: "sku", Value: sku},
	}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count variants by sku: %w", err)
	}
	return n > 0, nil
}
