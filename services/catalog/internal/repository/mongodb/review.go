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
)

// ReviewRepository implements repository.ReviewRepository on MongoDB.
type ReviewRepository struct {
	coll *mongo.Collection
}

// NewReviewRepository creates a review repository bound to the reviews
// collection.
func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{coll: db.Collection(collReviews)}
}

// Create inserts the review and assigns its generated ID.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	res, err := r.coll.InsertOne(ctx, review)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.Conflict("DUPLICATE_REVIEW", "user has already reviewed this product")
		}
		return fmt.Errorf("insert review: %w", err)
	}
	review.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// GetByID fetches one review.
func (r *ReviewRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Review, error) {
	var review domain.Review
	err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&review)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.NotFound("REVIEW_NOT_FOUND", "review", id.Hex())
		}
		return nil, fmt.Errorf("find review: %w", err)
	}
	return &review, nil
}

// ListByProduct returns a page of the product's reviews newest-first plus
// the unpaginated total.
func (r *ReviewRepository) ListByProduct(ctx context.Context, productID primitive.ObjectID, page, limit int) ([]domain.Review, int64, error) {
	query := bson.D{{Key: "product_id", Value: productID}}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find reviews: %w", err)
	}

	var reviews []domain.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, 0, fmt.Errorf("decode reviews: %w", err)
	}

	return reviews, total, nil
}

// Delete removes the review document.
func (r *ReviewRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if res.DeletedCount == 0 {
		return apperrors.NotFound("REVIEW_NOT_FOUND", "review", id.Hex())
	}
	return nil
}

// ExistsForUser reports whether the user already reviewed the product.
func (r *ReviewRepository) ExistsForUser(ctx context.Context, productID, userID primitive.ObjectID) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{
		{Key: "product_id", Value: productID},
		{Key: "user_id", Value: userID},
	}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count reviews for user: %w", err)
	}
	return n > 0, nil
}

// AggregateRating computes the review aggregate for a product. No reviews
// yields the zero Rating so the caller resets the product to {0, 0}.
func (r *ReviewRepository) AggregateRating(ctx context.Context, productID primitive.ObjectID) (domain.Rating, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "product_id", Value: productID}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "average", Value: bson.D{{Key: "$avg", Value: "$rating"}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return domain.Rating{}, fmt.Errorf("aggregate rating: %w", err)
	}

	var results []domain.Rating
	if err := cursor.All(ctx, &results); err != nil {
		return domain.Rating{}, fmt.Errorf("decode rating aggregate: %w", err)
	}

	if len(results) == 0 {
		return domain.Rating{}, nil
	}
	return results[0], nil
}
