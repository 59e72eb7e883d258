package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/itsGurdevSingh/UrbanPocket/pkg/errors"
	"github.com/itsGurdevSingh/UrbanPocket/pkg/middleware"
	"github.com/itsGurdevSingh/UrbanPocket/services/catalog/internal/domain"
	"github.com/itsGurdevSingh/UrbanPocket/services/catalog/internal/media"
	"github.com/itsGurdevSingh/UrbanPocket/services/catalog/internal/media/memory"
)

func newVariantService(variants *mockVariantRepository, products *mockProductRepository, host *memory.Host) *VariantService {
	return NewVariantService(variants, products, media.NewUploader(host, newTestLogger(), 4), newTestLogger())
}

func TestCreateVariantMissingProduct(t *testing.T) {
	sellerID := primitive.NewObjectID()
	productID := primitive.NewObjectID()
	products := new(mockProductRepository)
	products.On("GetByID", mock.Anything, productID).
		Return(nil, apperrors.NotFound("PRODUCT_NOT_FOUND", "product", productID.Hex()))
	svc := newVariantService(new(mockVariantRepository), products, memory.NewHost())

	_, err := svc.CreateVariant(actorContext(sellerID, middleware.RoleSeller), &CreateVariantInput{
		ProductID: productID.Hex(), SKU: "MUG-RED",
	})

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "PRODUCT_NOT_FOUND", appErr.Code)
}

func TestCreateVariantBlockedByInactiveProduct(t *testing.T) {
	sellerID := primitive.NewObjectID()
	productID := primitive.NewObjectID()
	products := new(mockProductRepository)
	products.On("GetByID", mock.Anything, productID).
		Return(&domain.Product{ID: productID, SellerID: sellerID, IsActive: false}, nil)
	svc := newVariantService(new(mockVariantRepository), products, memory.NewHost())

	_, err := svc.CreateVariant(actorContext(sellerID, middleware.RoleSeller), &CreateVariantInput{
		ProductID: productID.Hex(), SKU: "MUG-RED",
	})

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "PRODUCT_INACTIVE", appErr.Code)
}

func TestCreateVariantForbiddenForNonOwner(t *testing.T) {
	owner := primitive.NewObjectID()
	intruder := primitive.NewObjectID()
	productID := primitive.NewObjectID()
	products := new(mockProductRepository)
	products.On("GetByID", mock.Anything, productID).
		Return(&domain.Product{ID: productID, SellerID: owner, IsActive: true}, nil)
	svc := newVariantService(new(mockVariantRepository), products, memory.NewHost())

	_, err := svc.CreateVariant(actorContext(intruder, middleware.RoleSeller), &CreateVariantInput{
		ProductID: productID.Hex(), SKU: "MUG-RED",
	})

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "FORBIDDEN_NOT_OWNER", appErr.Code)
}

func TestCreateVariantDuplicateSKU(t *testing.T) {
	sellerID := primitive.NewObjectID()
	productID := primitive.NewObjectID()
	products := new(mockProductRepository)
	products.On("GetByID", mock.Anything, productID).
		Return(&domain.Product{ID: productID, SellerID: sellerID, IsActive: true}, nil)
	variants := new(mockVariantRepository)
	variants.On("ExistsSKU", mock.Anything, productID, "MUG-RED").Return(true, nil)
	svc := newVariantService(variants, products, memory.NewHost())

	_, err := svc.CreateVariant(actorContext(sellerID, middleware.RoleSeller), &CreateVariantInput{
		ProductID: productID.Hex(), SKU: "MUG-RED",
	})

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "DUPLICATE_VARIANT_SKU", appErr.Code)
}

func TestCreateVariantSucceedsWithImages(t *testing.T) {
	sellerID := primitive.NewObjectID()
	productID := primitive.NewObjectID()
	host := memory.NewHost()
	products := new(mockProductRepository)
	products.On("GetByID", mock.Anything, productID).
		Return(&domain.Product{ID: productID, SellerID: sellerID, IsActive: true}, nil)
	variants := new(mockVariantRepository)
	variants.On("ExistsSKU", mock.Anything, productID, "MUG-RED").Return(false, nil)
	variants.On("Create", mock.Anything, mock.AnythingOfType("*domain.Variant")).Return(nil)
	svc := newVariantService(variants, products, host)

	variant, err := svc.CreateVariant(actorContext(sellerID, middleware.RoleSeller), &CreateVariantInput{
		ProductID: productID.Hex(),
		SKU:       "MUG-RED",
		Options:   map[string]string{"color": "red"},
		BaseUnit:  "piece",
		Price:     domain.Money{Amount: 1299, Currency: "USD"},
		Images:    []media.File{{Name: "red.jpg", Data: strings.NewReader("img")}},
	})

	require.NoError(t, err)
	assert.Equal(t, productID, variant.ProductID)
	assert.True(t, variant.IsActive)
	require.Len(t, variant.VariantImages, 1)
	assert.Equal(t, 1, host.Len())
	variants.AssertExpectations(t)
}

func TestDeleteVariantWalksParentChain(t *testing.T) {
	owner := primitive.NewObjectID()
	productID := primitive.NewObjectID()
	variantID := primitive.NewObjectID()
	variants := new(mockVariantRepository)
	variants.On("GetByID", mock.Anything, variantID).
		Return(&domain.Variant{ID: variantID, ProductID: productID}, nil)
	products := new(mockProductRepository)
	products.On("GetByID", mock.Anything, productID).
		Return(&domain.Product{ID: productID, SellerID: owner, IsActive: true}, nil)
	variants.On("Delete", mock.Anything, variantID).Return(nil)
	svc := newVariantService(variants, products, memory.NewHost())

	err := svc.DeleteVariant(actorContext(owner, middleware.RoleSeller), variantID.Hex())

	require.NoError(t, err)
	variants.AssertExpectations(t)
	products.AssertExpectations(t)
}

func TestSetVariantActiveIdempotent(t *testing.T) {
	owner := primitive.NewObjectID()
	productID := primitive.NewObjectID()
	variantID := primitive.NewObjectID()
	variants := new(mockVariantRepository)
	variants.On("GetByID", mock.Anything, variantID).
		Return(&domain.Variant{ID: variantID, ProductID: productID, IsActive: true}, nil)
	products := new(mockProductRepository)
	products.On("GetByID", mock.Anything, productID).
		Return(&domain.Product{ID: productID, SellerID: owner, IsActive: true}, nil)
	svc := newVariantService(variants, products, memory.NewHost())

	variant, err := svc.SetVariantActive(actorContext(owner, middleware.RoleSeller), variantID.Hex(), true)

	require.NoError(t, err)
	assert.True(t, variant.IsActive)
	variants.AssertNotCalled(t, "SetActive", mock.Anything, mock.Anything, mock.Anything)
}
