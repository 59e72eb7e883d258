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

// CategoryRepository implements repository.CategoryRepository on MongoDB.
type CategoryRepository struct {
	coll *mongo.Collection
}

// NewCategoryRepository creates a category repository bound to the
// categories collection.
func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{coll: db.Collection(collCategories)}
}

// Create inserts the category and assigns its generated ID.
func (r *CategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	res, err := r.coll.InsertOne(ctx, c)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.Conflict("DUPLICATE_CATEGORY_NAME",
				fmt.Sprintf("category %q already exists", c.Name))
		}
		return fmt.Errorf("insert category: %w", err)
	}
	c.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// GetByID fetches one category.
func (r *CategoryRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Category, error) {
	var c domain.Category
	err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&c)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.NotFound("CATEGORY_NOT_FOUND", "category", id.Hex())
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	return &c, nil
}

// List returns a page of categories matching the filter plus the unpaginated
// total.
func (r *CategoryRepository) List(ctx context.Context, filter repository.CategoryFilter) ([]domain.Category, int64, error) {
	query := bson.D{}
	if filter.Parent != nil {
		query = append(query, bson.E{Key: "parent_category", Value: *filter.Parent})
	}
	if filter.IsActive != nil {
		query = append(query, bson.E{Key: "is_active", Value: *filter.IsActive})
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count categories: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find categories: %w", err)
	}

	var categories []domain.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, 0, fmt.Errorf("decode categories: %w", err)
	}

	return categories, total, nil
}

// Update replaces the mutable fields of an existing category. The parent
// reference and ancestors are immutable after create; re-parenting a subtree
// is not supported.
func (r *CategoryRepository) Update(ctx context.Context, c *domain.Category) error {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: c.Name},
		{Key: "slug", Value: c.Slug},
		{Key: "description", Value: c.Description},
		{Key: "updated_at", Value: c.UpdatedAt},
	}}}

	res, err := r.coll.UpdateByID(ctx, c.ID, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.Conflict("DUPLICATE_CATEGORY_NAME",
				fmt.Sprintf("category %q already exists", c.Name))
		}
		return fmt.Errorf("update category: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("CATEGORY_NOT_FOUND", "category", c.ID.Hex())
	}
	return nil
}

// Delete removes the category document only. Children are left in place
// pointing at the vanished parent.
func (r *CategoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if res.DeletedCount == 0 {
		return apperrors.NotFound("CATEGORY_NOT_FOUND", "category", id.Hex())
	}
	return nil
}

// SetActive toggles the soft-delete flag and returns the updated document.
func (r *CategoryRepository) SetActive(ctx context.Context, id primitive.ObjectID, active bool) (*domain.Category, error) {
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "is_active", Value: active}}}, {Key: "$currentDate", Value: bson.D{{Key: "updated_at", Value: true}}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var c domain.Category
	err := r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id}}, update, opts).Decode(&c)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.NotFound("CATEGORY_NOT_FOUND", "category", id.Hex())
		}
		return nil, fmt.Errorf("set category active: %w", err)
	}
	return &c, nil
}

// ExistsByName reports whether a category with this name exists anywhere in
// the tree.
func (r *CategoryRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{{Key: "name", Value: name}}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count categories by name: %w", err)
	}
	return n > 0, nil
}

// ListDescendants returns every category that has id among its ancestors,
// ordered so parents come before their children.
func (r *CategoryRepository) ListDescendants(ctx context.Context, id primitive.ObjectID) ([]domain.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "ancestors", Value: 1}, {Key: "name", Value: 1}})

	cursor, err := r.coll.Find(ctx, bson.D{{Key: "ancestors", Value: id}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find descendants: %w", err)
	}

	var categories []domain.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("decode descendants: %w", err)
	}

	return categories, nil
}
