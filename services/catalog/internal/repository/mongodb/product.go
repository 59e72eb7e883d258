package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "github.com/itsGurdevSingh/UrbanPocket/pkg/errors"
	"github.com/itsGurdevSingh/UrbanPocket/services/catalog/internal/domain"
	"github.com/itsGurdevSingh/UrbanPocket/services/catalog/internal/repository"
)

// ProductRepository implements repository.ProductRepository on MongoDB.
type ProductRepository struct {
	coll *mongo.Collection
}

// NewProductRepository creates a product repository bound to the products
// collection.
func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{coll: db.Collection(collProducts)}
}

// Create inserts the product and assigns its generated ID.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	res, err := r.coll.InsertOne(ctx, p)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.Conflict("DUPLICATE_PRODUCT_NAME",
				fmt.Sprintf("seller already has a product named %q", p.Name))
		}
		return fmt.Errorf("insert product: %w", err)
	}
	p.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// GetByID fetches one product.
func (r *ProductRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	var p domain.Product
	err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&p)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.NotFound("PRODUCT_NOT_FOUND", "product", id.Hex())
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return &p, nil
}

// List returns a page of products matching the filter plus the unpaginated
// total.
func (r *ProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int64, error) {
	query := bson.D{}
	if filter.Search != nil {
		query = append(query, bson.E{Key: "$text", Value: bson.D{{Key: "$search", Value: *filter.Search}}})
	}
	if filter.CategoryID != nil {
		query = append(query, bson.E{Key: "category_id", Value: *filter.CategoryID})
	}
	if filter.SellerID != nil {
		query = append(query, bson.E{Key: "seller_id", Value: *filter.SellerID})
	}
	if filter.IsActive != nil {
		query = append(query, bson.E{Key: "is_active", Value: *filter.IsActive})
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find products: %w", err)
	}

	var products []domain.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, fmt.Errorf("decode products: %w", err)
	}

	return products, total, nil
}

// Update replaces the mutable fields of an existing product.
func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: p.Name},
		{Key: "slug", Value: p.Slug},
		{Key: "description", Value: p.Description},
		{Key: "brand", Value: p.Brand},
		{Key: "category_id", Value: p.CategoryID},
		{Key: "attributes", Value: p.Attributes},
		{Key: "base_images", Value: p.BaseImages},
		{Key: "updated_at", Value: p.UpdatedAt},
	}}}

	res, err := r.coll.UpdateByID(ctx, p.ID, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.Conflict("DUPLICATE_PRODUCT_NAME",
				fmt.Sprintf("seller already has a product named %q", p.Name))
		}
		return fmt.Errorf("update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("PRODUCT_NOT_FOUND", "product", p.ID.Hex())
	}
	return nil
}

// Delete removes the product document.
func (r *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return apperrors.NotFound("PRODUCT_NOT_FOUND", "product", id.Hex())
	}
	return nil
}

// SetActive toggles the soft-delete flag and returns the updated document.
func (r *ProductRepository) SetActive(ctx context.Context, id primitive.ObjectID, active bool) (*domain.Product, error) {
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "is_active", Value: active}}}, {Key: "$currentDate", Value: bson.D{{Key: "updated_at", Value: true}}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var p domain.Product
	err := r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id}}, update, opts).Decode(&p)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.NotFound("PRODUCT_NOT_FOUND", "product", id.Hex())
		}
		return nil, fmt.Errorf("set product active: %w", err)
	}
	return &p, nil
}

// SetRating writes the denormalized review aggregate.
func (r *ProductRepository) SetRating(ctx context.Context, id primitive.ObjectID, rating domain.Rating) error {
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "rating", Value: rating}}}}
	res, err := r.coll.UpdateByID(ctx, id, update)
	if err != nil {
		return fmt.Errorf("set product rating: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("PRODUCT_NOT_FOUND", "product", id.Hex())
	}
	return nil
}

// ExistsByName reports whether the seller already owns a product with the
// given name.
func (r *ProductRepository) ExistsByName(ctx context.Context, sellerID primitive.ObjectID, name string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{
		{Key: "seller_id", Value: sellerID},
		{Key: "name", Value: name},
	}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count products by name: %w", err)
	}
	return n > 0, nil
}
