package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/itsGurdevSingh/UrbanPocket/pkg/errors"
	"github.com/itsGurdevSingh/UrbanPocket/pkg/middleware"
	"github.com/itsGurdevSingh/UrbanPocket/services/inventory/internal/domain"
	"github.com/itsGurdevSingh/UrbanPocket/services/inventory/internal/repository"
)

func newItemService(items *mockItemRepository, catalog *mockCatalogReader) *ItemService {
	return NewItemService(items, catalog, newTestLogger())
}

// chainFixture wires an owned, active variant/product pair into the
// catalog mock.
type chainFixture struct {
	sellerID  primitive.ObjectID
	productID primitive.ObjectID
	variantID primitive.ObjectID
}

func newChain(catalog *mockCatalogReader) chainFixture {
	f := chainFixture{
		sellerID:  primitive.NewObjectID(),
		productID: primitive.NewObjectID(),
		variantID: primitive.NewObjectID(),
	}
	catalog.On("GetVariant", mock.Anything, f.variantID).
		Return(&repository.VariantRef{ID: f.variantID, ProductID: f.productID, IsActive: true}, nil)
	catalog.On("GetProduct", mock.Anything, f.productID).
		Return(&repository.ProductRef{ID: f.productID, SellerID: f.sellerID, IsActive: true}, nil)
	return f
}

func validCreateInput(variantID primitive.ObjectID) *CreateItemInput {
	return &CreateItemInput{
		VariantID:        variantID.Hex(),
		BatchNumber:      "B-2026-01",
		StockInBaseUnits: 500,
		PricePerBaseUnit: domain.Money{Amount: 1999, Currency: "INR"},
		Status:           "Sealed",
		MfgDate:          time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		ExpDate:          time.Date(2027, 1, 10, 0, 0, 0, 0, time.UTC),
		HSNCode:          "0402",
		GSTPercentage:    5,
	}
}

func TestCreateItemRequiresAuthentication(t *testing.T) {
	svc := newItemService(new(mockItemRepository), new(mockCatalogReader))

	_, err := svc.CreateItem(context.Background(), validCreateInput(primitive.NewObjectID()))

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "UNAUTHORIZED", appErr.Code)
}

func TestCreateItemPersistsWithDefaults(t *testing.T) {
	items := new(mockItemRepository)
	catalog := new(mockCatalogReader)
	chain := newChain(catalog)
	items.On("ExistsBatch", mock.Anything, chain.variantID, "B-2026-01").Return(false, nil)
	items.On("Create", mock.Anything, mock.AnythingOfType("*domain.InventoryItem")).Return(nil)
	svc := newItemService(items, catalog)

	item, err := svc.CreateItem(actorContext(chain.sellerID, middleware.RoleSeller), validCreateInput(chain.variantID))

	require.NoError(t, err)
	assert.Equal(t, chain.variantID, item.VariantID)
	assert.Equal(t, domain.StatusSealed, item.Status)
	assert.True(t, item.IsActive)
	assert.False(t, item.CreatedAt.IsZero())
	items.AssertExpectations(t)
	catalog.AssertExpectations(t)
}

func TestCreateItemVariantMissing(t *testing.T) {
	variantID := primitive.NewObjectID()
	catalog := new(mockCatalogReader)
	catalog.On("GetVariant", mock.Anything, variantID).
		Return(nil, apperrors.NotFound("VARIANT_NOT_FOUND", "variant", variantID.Hex()))
	svc := newItemService(new(mockItemRepository), catalog)

	_, err := svc.CreateItem(actorContext(primitive.NewObjectID(), middleware.RoleSeller), validCreateInput(variantID))

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VARIANT_NOT_FOUND", appErr.Code)
}

func TestCreateItemProductMissing(t *testing.T) {
	variantID := primitive.NewObjectID()
	productID := primitive.NewObjectID()
	catalog := new(mockCatalogReader)
	catalog.On("GetVariant", mock.Anything, variantID).
		Return(&repository.VariantRef{ID: variantID, ProductID: productID, IsActive: true}, nil)
	catalog.On("GetProduct", mock.Anything, productID).
		Return(nil, apperrors.NotFound("PRODUCT_NOT_FOUND", "product", productID.Hex()))
	svc := newItemService(new(mockItemRepository), catalog)

	_, err := svc.CreateItem(actorContext(primitive.NewObjectID(), middleware.RoleSeller), validCreateInput(variantID))

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "PRODUCT_NOT_FOUND", appErr.Code)
}

func TestCreateItemForbiddenForOtherSeller(t *testing.T) {
	catalog := new(mockCatalogReader)
	chain := newChain(catalog)
	svc := newItemService(new(mockItemRepository), catalog)

	_, err := svc.CreateItem(actorContext(primitive.NewObjectID(), middleware.RoleSeller), validCreateInput(chain.variantID))

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "FORBIDDEN_NOT_OWNER", appErr.Code)
}

func TestCreateItemAdminBypassesOwnership(t *testing.T) {
	items := new(mockItemRepository)
	catalog := new(mockCatalogReader)
	chain := newChain(catalog)
	items.On("ExistsBatch", mock.Anything, chain.variantID, "B-2026-01").Return(false, nil)
	items.On("Create", mock.Anything, mock.AnythingOfType("*domain.InventoryItem")).Return(nil)
	svc := newItemService(items, catalog)

	_, err := svc.CreateItem(actorContext(primitive.NewObjectID(), middleware.RoleAdmin), validCreateInput(chain.variantID))

	require.NoError(t, err)
	items.AssertExpectations(t)
}

func TestCreateItemInactiveVariantBlocked(t *testing.T) {
	sellerID := primitive.NewObjectID()
	productID := primitive.NewObjectID()
	variantID := primitive.NewObjectID()
	catalog := new(mockCatalogReader)
	catalog.On("GetVariant", mock.Anything, variantID).
		Return(&repository.VariantRef{ID: variantID, ProductID: productID, IsActive: false}, nil)
	catalog.On("GetProduct", mock.Anything, productID).
		Return(&repository.ProductRef{ID: productID, SellerID: sellerID, IsActive: true}, nil)
	svc := newItemService(new(mockItemRepository), catalog)

	_, err := svc.CreateItem(actorContext(sellerID, middleware.RoleSeller), validCreateInput(variantID))

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VARIANT_INACTIVE", appErr.Code)
}

func TestCreateItemInactiveProductBlocked(t *testing.T) {
	sellerID := primitive.NewObjectID()
	productID := primitive.NewObjectID()
	variantID := primitive.NewObjectID()
	catalog := new(mockCatalogReader)
	catalog.On("GetVariant", mock.Anything, variantID).
		Return(&repository.VariantRef{ID: variantID, ProductID: productID, IsActive: true}, nil)
	catalog.On("GetProduct", mock.Anything, productID).
		Return(&repository.ProductRef{ID: productID, SellerID: sellerID, IsActive: false}, nil)
	svc := newItemService(new(mockItemRepository), catalog)

	_, err := svc.CreateItem(actorContext(sellerID, middleware.RoleSeller), validCreateInput(variantID))

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "PRODUCT_INACTIVE", appErr.Code)
}

func TestCreateItemDuplicateBatch(t *testing.T) {
	items := new(mockItemRepository)
	catalog := new(mockCatalogReader)
	chain := newChain(catalog)
	items.On("ExistsBatch", mock.Anything, chain.variantID, "B-2026-01").Return(true, nil)
	svc := newItemService(items, catalog)

	_, err := svc.CreateItem(actorContext(chain.sellerID, middleware.RoleSeller), validCreateInput(chain.variantID))

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "DUPLICATE_BATCH_NUMBER", appErr.Code)
	items.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateItemEmptyBatchSkipsUniqueness(t *testing.T) {
	items := new(mockItemRepository)
	catalog := new(mockCatalogReader)
	chain := newChain(catalog)
	items.On("Create", mock.Anything, mock.AnythingOfType("*domain.InventoryItem")).Return(nil)
	svc := newItemService(items, catalog)

	input := validCreateInput(chain.variantID)
	input.BatchNumber = ""
	_, err := svc.CreateItem(actorContext(chain.sellerID, middleware.RoleSeller), input)

	require.NoError(t, err)
	items.AssertNotCalled(t, "ExistsBatch", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateItemRejectsInvalidDetails(t *testing.T) {
	catalog := new(mockCatalogReader)
	chain := newChain(catalog)
	svc := newItemService(new(mockItemRepository), catalog)
	ctx := actorContext(chain.sellerID, middleware.RoleSeller)

	mutations := map[string]func(*CreateItemInput){
		"unknown status":     func(in *CreateItemInput) { in.Status = "Opened" },
		"negative stock":     func(in *CreateItemInput) { in.StockInBaseUnits = -1 },
		"gst over 100":       func(in *CreateItemInput) { in.GSTPercentage = 101 },
		"expiry before mfg":  func(in *CreateItemInput) { in.ExpDate = in.MfgDate.Add(-time.Hour) },
	}
	for name, mutate := range mutations {
		input := validCreateInput(chain.variantID)
		mutate(input)

		_, err := svc.CreateItem(ctx, input)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr, name)
		assert.Equal(t, "VALIDATION_ERROR", appErr.Code, name)
	}
}

func TestCreateItemMalformedVariantID(t *testing.T) {
	svc := newItemService(new(mockItemRepository), new(mockCatalogReader))

	input := validCreateInput(primitive.NewObjectID())
	input.VariantID = "not-an-id"
	_, err := svc.CreateItem(actorContext(primitive.NewObjectID(), middleware.RoleSeller), input)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func existingItem(variantID primitive.ObjectID) *domain.InventoryItem {
	return &domain.InventoryItem{
		ID:               primitive.NewObjectID(),
		VariantID:        variantID,
		BatchNumber:      "B-2026-01",
		StockInBaseUnits: 500,
		PricePerBaseUnit: domain.Money{Amount: 1999, Currency: "INR"},
		Status:           domain.StatusSealed,
		ManufacturingDetails: domain.ManufacturingDetails{
			MfgDate: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
			ExpDate: time.Date(2027, 1, 10, 0, 0, 0, 0, time.UTC),
		},
		IsActive:  true,
		CreatedAt: time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC),
	}
}

func TestUpdateItemWalksParentChain(t *testing.T) {
	items := new(mockItemRepository)
	catalog := new(mockCatalogReader)
	chain := newChain(catalog)
	item := existingItem(chain.variantID)
	items.On("GetByID", mock.Anything, item.ID).Return(item, nil)
	items.On("Update", mock.Anything, item).Return(nil)
	svc := newItemService(items, catalog)

	newStock := int64(250)
	updated, err := svc.UpdateItem(actorContext(chain.sellerID, middleware.RoleSeller), item.ID.Hex(),
		&UpdateItemInput{StockInBaseUnits: &newStock})

	require.NoError(t, err)
	assert.Equal(t, int64(250), updated.StockInBaseUnits)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))
	catalog.AssertExpectations(t)
}

func TestUpdateItemBatchChangeChecksUniqueness(t *testing.T) {
	items := new(mockItemRepository)
	catalog := new(mockCatalogReader)
	chain := newChain(catalog)
	item := existingItem(chain.variantID)
	items.On("GetByID", mock.Anything, item.ID).Return(item, nil)
	items.On("ExistsBatch", mock.Anything, chain.variantID, "B-2026-02").Return(true, nil)
	svc := newItemService(items, catalog)

	_, err := svc.UpdateItem(actorContext(chain.sellerID, middleware.RoleSeller), item.ID.Hex(),
		&UpdateItemInput{BatchNumber: strPtr("B-2026-02")})

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "DUPLICATE_BATCH_NUMBER", appErr.Code)
	items.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateItemSameBatchSkipsUniqueness(t *testing.T) {
	items := new(mockItemRepository)
	catalog := new(mockCatalogReader)
	chain := newChain(catalog)
	item := existingItem(chain.variantID)
	items.On("GetByID", mock.Anything, item.ID).Return(item, nil)
	items.On("Update", mock.Anything, item).Return(nil)
	svc := newItemService(items, catalog)

	_, err := svc.UpdateItem(actorContext(chain.sellerID, middleware.RoleSeller), item.ID.Hex(),
		&UpdateItemInput{BatchNumber: strPtr("B-2026-01")})

	require.NoError(t, err)
	items.AssertNotCalled(t, "ExistsBatch", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateItemForbiddenForOtherSeller(t *testing.T) {
	items := new(mockItemRepository)
	catalog := new(mockCatalogReader)
	chain := newChain(catalog)
	item := existingItem(chain.variantID)
	items.On("GetByID", mock.Anything, item.ID).Return(item, nil)
	svc := newItemService(items, catalog)

	newStock := int64(1)
	_, err := svc.UpdateItem(actorContext(primitive.NewObjectID(), middleware.RoleSeller), item.ID.Hex(),
		&UpdateItemInput{StockInBaseUnits: &newStock})

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "FORBIDDEN_NOT_OWNER", appErr.Code)
}

func TestDeleteItemWalksParentChain(t *testing.T) {
	items := new(mockItemRepository)
	catalog := new(mockCatalogReader)
	chain := newChain(catalog)
	item := existingItem(chain.variantID)
	items.On("GetByID", mock.Anything, item.ID).Return(item, nil)
	items.On("Delete", mock.Anything, item.ID).Return(nil)
	svc := newItemService(items, catalog)

	err := svc.DeleteItem(actorContext(chain.sellerID, middleware.RoleSeller), item.ID.Hex())

	require.NoError(t, err)
	items.AssertExpectations(t)
	catalog.AssertExpectations(t)
}

func TestSetItemActiveIdempotent(t *testing.T) {
	items := new(mockItemRepository)
	catalog := new(mockCatalogReader)
	chain := newChain(catalog)
	item := existingItem(chain.variantID)
	items.On("GetByID", mock.Anything, item.ID).Return(item, nil)
	svc := newItemService(items, catalog)

	got, err := svc.SetItemActive(actorContext(chain.sellerID, middleware.RoleSeller), item.ID.Hex(), true)

	require.NoError(t, err)
	assert.True(t, got.IsActive)
	items.AssertNotCalled(t, "SetActive", mock.Anything, mock.Anything, mock.Anything)
}

func TestSetItemActiveDisables(t *testing.T) {
	items := new(mockItemRepository)
	catalog := new(mockCatalogReader)
	chain := newChain(catalog)
	item := existingItem(chain.variantID)
	disabled := *item
	disabled.IsActive = false
	items.On("GetByID", mock.Anything, item.ID).Return(item, nil)
	items.On("SetActive", mock.Anything, item.ID, false).Return(&disabled, nil)
	svc := newItemService(items, catalog)

	got, err := svc.SetItemActive(actorContext(chain.sellerID, middleware.RoleSeller), item.ID.Hex(), false)

	require.NoError(t, err)
	assert.False(t, got.IsActive)
	items.AssertExpectations(t)
}

func TestSearchItemsPassesTypedFilters(t *testing.T) {
	variantID := primitive.NewObjectID()
	items := new(mockItemRepository)
	minStock := int64(1)
	items.On("Search", mock.Anything, mock.MatchedBy(func(input repository.SearchInput) bool {
		return input.Filters.VariantID != nil && *input.Filters.VariantID == variantID &&
			input.Filters.MinStock != nil && *input.Filters.MinStock == 1 &&
			input.SortBy == repository.SortByPrice && input.Page == 2
	})).Return(&repository.SearchResult{Items: []domain.EnrichedItem{}, Total: 7}, nil)
	svc := newItemService(items, new(mockCatalogReader))

	hex := variantID.Hex()
	results, total, err := svc.SearchItems(context.Background(), SearchItemsInput{
		VariantID: &hex,
		MinStock:  &minStock,
		SortBy:    repository.SortByPrice,
		SortOrder: "asc",
		Page:      2,
		Limit:     10,
	})

	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Equal(t, int64(7), total)
	items.AssertExpectations(t)
}

func TestSearchItemsMalformedVariantID(t *testing.T) {
	svc := newItemService(new(mockItemRepository), new(mockCatalogReader))

	bad := "zz"
	_, _, err := svc.SearchItems(context.Background(), SearchItemsInput{VariantID: &bad, Page: 1, Limit: 10})

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestGetItemMalformedID(t *testing.T) {
	svc := newItemService(new(mockItemRepository), new(mockCatalogReader))

	_, err := svc.GetItem(context.Background(), "nope")

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}
