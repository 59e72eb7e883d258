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
	"github.com/itsGurdevSingh/UrbanPocket/services/catalog/internal/repository"
)

// ReviewService implements review operations. Creating or deleting a review
// synchronously recomputes the parent product's rating aggregate; a failed
// recompute fails the operation.
type ReviewService struct {
	reviews  repository.ReviewRepository
	products repository.ProductRepository
	logger   *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(reviews repository.ReviewRepository, products repository.ProductRepository, logger *slog.Logger) *ReviewService {
	return &ReviewService{reviews: reviews, products: products, logger: logger}
}

// CreateReviewInput holds the parameters for creating a review.
type CreateReviewInput struct {
	ProductID string
	Rating    int
	Comment   string
}

// CreateReview creates a review for an active product. One review per user
// per product.
func (s *ReviewService) CreateReview(ctx context.Context, input *CreateReviewInput) (*domain.Review, error) {
	_, actorID, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	productID, err := parseID(input.ProductID, "productId")
	if err != nil {
		return nil, err
	}

	if input.Rating < 1 || input.Rating > 5 {
		return nil, apperrors.Validation("rating must be between 1 and 5",
			apperrors.FieldError{Field: "rating", Message: "must be between 1 and 5"})
	}
	if len([]rune(input.Comment)) > domain.MaxReviewCommentLength {
		return nil, apperrors.Validation("comment is too long",
			apperrors.FieldError{Field: "comment", Message: fmt.Sprintf("must be at most %d characters", domain.MaxReviewCommentLength)})
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := requireActiveProduct(product); err != nil {
		return nil, err
	}

	exists, err := s.reviews.ExistsForUser(ctx, productID, actorID)
	if err != nil {
		return nil, fmt.Errorf("check existing review: %w", err)
	}
	if exists {
		return nil, apperrors.Conflict("DUPLICATE_REVIEW", "you have already reviewed this product")
	}

	now := time.Now().UTC()
	review := &domain.Review{
		ID:        primitive.NewObjectID(),
		ProductID: productID,
		UserID:    actorID,
		Rating:    input.Rating,
		Comment:   input.Comment,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	if err := s.recomputeRating(ctx, productID); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "review created",
		slog.String("review_id", review.ID.Hex()),
		slog.String("product_id", productID.Hex()),
		slog.Int("rating", input.Rating),
	)
	return review, nil
}

// GetReview retrieves a review by id.
func (s *ReviewService) GetReview(ctx context.Context, id string) (*domain.Review, error) {
	oid, err := parseID(id, "id")
	if err != nil {
		return nil, err
	}
	return s.reviews.GetByID(ctx, oid)
}

// ListReviews returns a page of a product's reviews, newest first.
func (s *ReviewService) ListReviews(ctx context.Context, productID string, page, limit int) ([]domain.Review, int64, error) {
	oid, err := parseID(productID, "productId")
	if err != nil {
		return nil, 0, err
	}
	return s.reviews.ListByProduct(ctx, oid, page, limit)
}

// DeleteReview removes a review. Only the author or an admin may delete;
// the product rating is recomputed afterwards and an empty set resets it
// to zero.
func (s *ReviewService) DeleteReview(ctx context.Context, id string) error {
	actor, actorID, err := requireActor(ctx)
	if err != nil {
		return err
	}
	oid, err := parseID(id, "id")
	if err != nil {
		return err
	}

	review, err := s.reviews.GetByID(ctx, oid)
	if err != nil {
		return err
	}
	if actor.Role != middleware.RoleAdmin && review.UserID != actorID {
		return apperrors.Forbidden("FORBIDDEN_NOT_OWNER", "you can only delete your own review")
	}

	if err := s.reviews.Delete(ctx, oid); err != nil {
		return err
	}
	if err := s.recomputeRating(ctx, review.ProductID); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "review deleted",
		slog.String("review_id", oid.Hex()),
		slog.String("product_id", review.ProductID.Hex()),
	)
	return nil
}

// recomputeRating aggregates the product's reviews and writes the
// denormalized {average, count} back onto the product.
func (s *ReviewService) recomputeRating(ctx context.Context, productID primitive.ObjectID) error {
	rating, err := s.reviews.AggregateRating(ctx, productID)
	if err != nil {
		return fmt.Errorf("aggregate product rating: %w", err)
	}
	if err := s.products.SetRating(ctx, productID, rating); err != nil {
		return fmt.Errorf("write product rating: %w", err)
	}
	return nil
}
