package service

import (
	"context"
	"log/slog"
	"os"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/itsGurdevSingh/UrbanPocket/pkg/middleware"
	"github.com/itsGurdevSingh/UrbanPocket/services/catalog/internal/domain"
	"github.com/itsGurdevSingh/UrbanPocket/services/catalog/internal/repository"
)

// --- Mock Repositories ---

type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) Create(ctx context.Context, p *domain.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockProductRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Product), args.Get(1).(int64), args.Error(2)
}

func (m *mockProductRepository) Update(ctx context.Context, p *domain.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockProductRepository) SetActive(ctx context.Context, id primitive.ObjectID, active bool) (*domain.Product, error) {
	args := m.Called(ctx, id, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepository) SetRating(ctx context.Context, id primitive.ObjectID, rating domain.Rating) error {
	args := m.Called(ctx, id, rating)
	return args.Error(0)
}

func (m *mockProductRepository) ExistsByName(ctx context.Context, sellerID primitive.ObjectID, name string) (bool, error) {
	args := m.Called(ctx, sellerID, name)
	return args.Bool(0), args.Error(1)
}

type mockVariantRepository struct {
	mock.Mock
}

func (m *mockVariantRepository) Create(ctx context.Context, v *domain.Variant) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *mockVariantRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Variant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Variant), args.Error(1)
}

func (m *mockVariantRepository) List(ctx context.Context, filter repository.VariantFilter) ([]domain.Variant, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Variant), args.Get(1).(int64), args.Error(2)
}

func (m *mockVariantRepository) Update(ctx context.Context, v *domain.Variant) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *mockVariantRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockVariantRepository) SetActive(ctx context.Context, id primitive.ObjectID, active bool) (*domain.Variant, error) {
	args := m.Called(ctx, id, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Variant), args.Error(1)
}

func (m *mockVariantRepository) ExistsSKU(ctx context.Context, productID primitive.ObjectID, sku string) (bool, error) {
	args := m.Called(ctx, productID, sku)
	return args.Bool(0), args.Error(1)
}

type mockCategoryRepository struct {
	mock.Mock
}

func (m *mockCategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *mockCategoryRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *mockCategoryRepository) List(ctx context.Context, filter repository.CategoryFilter) ([]domain.Category, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Category), args.Get(1).(int64), args.Error(2)
}

func (m *mockCategoryRepository) Update(ctx context.Context, c *domain.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockCategoryRepository) SetActive(ctx context.Context, id primitive.ObjectID, active bool) (*domain.Category, error) {
	args := m.Called(ctx, id, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *mockCategoryRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *mockCategoryRepository) ListDescendants(ctx context.Context, id primitive.ObjectID) ([]domain.Category, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]domain.Category), args.Error(1)
}

type mockReviewRepository struct {
	mock.Mock
}

func (m *mockReviewRepository) Create(ctx context.Context, r *domain.Review) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *mockReviewRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *mockReviewRepository) ListByProduct(ctx context.Context, productID primitive.ObjectID, page, limit int) ([]domain.Review, int64, error) {
	args := m.Called(ctx, productID, page, limit)
	return args.Get(0).([]domain.Review), args.Get(1).(int64), args.Error(2)
}

func (m *mockReviewRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockReviewRepository) ExistsForUser(ctx context.Context, productID, userID primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, productID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockReviewRepository) AggregateRating(ctx context.Context, productID primitive.ObjectID) (domain.Rating, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(domain.Rating), args.Error(1)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// actorContext returns a context carrying an authenticated actor.
func actorContext(id primitive.ObjectID, role string) context.Context {
	return middleware.WithActor(context.Background(), &middleware.Actor{
		ID:   id.Hex(),
		Role: role,
	})
}

func strPtr(s string) *string {
	return &s
}
