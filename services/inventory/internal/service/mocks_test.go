package service

import (
	"context"
	"log/slog"
	"os"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/itsGurdevSingh/UrbanPocket/pkg/middleware"
	"github.com/itsGurdevSingh/UrbanPocket/services/inventory/internal/domain"
	"github.com/itsGurdevSingh/UrbanPocket/services/inventory/internal/repository"
)

// --- Mock Repositories ---

type mockItemRepository struct {
	mock.Mock
}

func (m *mockItemRepository) Create(ctx context.Context, item *domain.InventoryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *mockItemRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.InventoryItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventoryItem), args.Error(1)
}

func (m *mockItemRepository) Update(ctx context.Context, item *domain.InventoryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *mockItemRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockItemRepository) SetActive(ctx context.Context, id primitive.ObjectID, active bool) (*domain.InventoryItem, error) {
	args := m.Called(ctx, id, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventoryItem), args.Error(1)
}

func (m *mockItemRepository) ExistsBatch(ctx context.Context, variantID primitive.ObjectID, batchNumber string) (bool, error) {
	args := m.Called(ctx, variantID, batchNumber)
	return args.Bool(0), args.Error(1)
}

func (m *mockItemRepository) Search(ctx context.Context, input repository.SearchInput) (*repository.SearchResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.SearchResult), args.Error(1)
}

type mockCatalogReader struct {
	mock.Mock
}

func (m *mockCatalogReader) GetVariant(ctx context.Context, id primitive.ObjectID) (*repository.VariantRef, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.VariantRef), args.Error(1)
}

func (m *mockCatalogReader) GetProduct(ctx context.Context, id primitive.ObjectID) (*repository.ProductRef, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ProductRef), args.Error(1)
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
