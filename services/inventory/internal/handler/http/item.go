package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/itsGurdevSingh/UrbanPocket/pkg/httputil"
	"github.com/itsGurdevSingh/UrbanPocket/pkg/pagination"
	"github.com/itsGurdevSingh/UrbanPocket/pkg/validator"
	"github.com/itsGurdevSingh/UrbanPocket/services/inventory/internal/domain"
	"github.com/itsGurdevSingh/UrbanPocket/services/inventory/internal/service"
)

// ItemHandler handles HTTP requests for inventory item endpoints.
type ItemHandler struct {
	service *service.ItemService
	logger  *slog.Logger
}

// NewItemHandler creates a new inventory item HTTP handler.
func NewItemHandler(svc *service.ItemService, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{service: svc, logger: logger}
}

// PriceRequest is a money value as it appears in request bodies.
type PriceRequest struct {
	Amount   int64  `json:"amount" validate:"gte=0"`
	Currency string `json:"currency" validate:"required,len=3"`
}

// ManufacturingDetailsRequest carries the batch provenance dates.
type ManufacturingDetailsRequest struct {
	MfgDate time.Time `json:"mfgDate" validate:"required"`
	ExpDate time.Time `json:"expDate" validate:"required"`
}

// CreateItemRequest is the request body for creating an inventory item.
type CreateItemRequest struct {
	VariantID            string                      `json:"variantId" validate:"required"`
	BatchNumber          string                      `json:"batchNumber" validate:"max=100"`
	StockInBaseUnits     int64                       `json:"stockInBaseUnits" validate:"gte=0"`
	PricePerBaseUnit     PriceRequest                `json:"pricePerBaseUnit" validate:"required"`
	Status               string                      `json:"status" validate:"required"`
	ManufacturingDetails ManufacturingDetailsRequest `json:"manufacturingDetails" validate:"required"`
	HSNCode              string                      `json:"hsnCode" validate:"max=20"`
	GSTPercentage        float64                     `json:"gstPercentage" validate:"gte=0,lte=100"`
}

// UpdateItemRequest is the request body for a partial item update. Absent
// fields are left unchanged.
type UpdateItemRequest struct {
	BatchNumber      *string       `json:"batchNumber" validate:"omitempty,max=100"`
	StockInBaseUnits *int64        `json:"stockInBaseUnits" validate:"omitempty,gte=0"`
	PricePerBaseUnit *PriceRequest `json:"pricePerBaseUnit"`
	Status           *string       `json:"status"`
	MfgDate          *time.Time    `json:"mfgDate"`
	ExpDate          *time.Time    `json:"expDate"`
	HSNCode          *string       `json:"hsnCode" validate:"omitempty,max=20"`
	GSTPercentage    *float64      `json:"gstPercentage" validate:"omitempty,gte=0,lte=100"`
}

// CreateItem handles POST /api/inventory-item/create.
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req CreateItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	item, err := h.service.CreateItem(r.Context(), &service.CreateItemInput{
		VariantID:        req.VariantID,
		BatchNumber:      req.BatchNumber,
		StockInBaseUnits: req.StockInBaseUnits,
		PricePerBaseUnit: domain.Money{Amount: req.PricePerBaseUnit.Amount, Currency: req.PricePerBaseUnit.Currency},
		Status:           req.Status,
		MfgDate:          req.ManufacturingDetails.MfgDate,
		ExpDate:          req.ManufacturingDetails.ExpDate,
		HSNCode:          req.HSNCode,
		GSTPercentage:    req.GSTPercentage,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteSuccess(w, http.StatusCreated, "inventory item created", item)
}

// SearchItems handles GET /api/inventory-item/getAll. Every filter is
// optional; malformed values fail instead of matching nothing.
func (h *ItemHandler) SearchItems(w http.ResponseWriter, r *http.Request) {
	input, err := searchInput(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	items, total, err := h.service.SearchItems(r.Context(), *input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "inventory items fetched",
		httputil.NewPage(items, total, input.Page, input.Limit))
}

func searchInput(r *http.Request) (*service.SearchItemsInput, error) {
	params, err := pagination.FromRequest(r)
	if err != nil {
		return nil, err
	}

	input := &service.SearchItemsInput{
		VariantID:   optionalQuery(r, "variantId"),
		BatchNumber: optionalQuery(r, "batchNumber"),
		ProductName: optionalQuery(r, "productName"),
		SKU:         optionalQuery(r, "sku"),
		SellerID:    optionalQuery(r, "sellerId"),
		SortBy:      r.URL.Query().Get("sortBy"),
		SortOrder:   r.URL.Query().Get("sortOrder"),
		Page:        params.Page,
		Limit:       params.Limit,
	}

	if input.IsActive, err = parseBoolQuery(r, "isActive"); err != nil {
		return nil, err
	}
	if input.InStock, err = parseBoolQuery(r, "inStock"); err != nil {
		return nil, err
	}
	excludeExpired, err := parseBoolQuery(r, "excludeExpired")
	if err != nil {
		return nil, err
	}
	input.ExcludeExpired = excludeExpired != nil && *excludeExpired

	if input.MinPrice, err = parseInt64Query(r, "minPrice"); err != nil {
		return nil, err
	}
	if input.MaxPrice, err = parseInt64Query(r, "maxPrice"); err != nil {
		return nil, err
	}
	if input.MinStock, err = parseInt64Query(r, "minStock"); err != nil {
		return nil, err
	}
	if input.MaxStock, err = parseInt64Query(r, "maxStock"); err != nil {
		return nil, err
	}

	if input.MfgDateFrom, err = parseDateQuery(r, "mfgDateFrom"); err != nil {
		return nil, err
	}
	if input.MfgDateTo, err = parseDateQuery(r, "mfgDateTo"); err != nil {
		return nil, err
	}
	if input.ExpDateFrom, err = parseDateQuery(r, "expDateFrom"); err != nil {
		return nil, err
	}
	if input.ExpDateTo, err = parseDateQuery(r, "expDateTo"); err != nil {
		return nil, err
	}

	return input, nil
}

// GetItem handles GET /api/inventory-item/{id}.
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.GetItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "inventory item fetched", item)
}

// UpdateItem handles PUT /api/inventory-item/{id}.
func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req UpdateItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	input := &service.UpdateItemInput{
		BatchNumber:      req.BatchNumber,
		StockInBaseUnits: req.StockInBaseUnits,
		Status:           req.Status,
		MfgDate:          req.MfgDate,
		ExpDate:          req.ExpDate,
		HSNCode:          req.HSNCode,
		GSTPercentage:    req.GSTPercentage,
	}
	if req.PricePerBaseUnit != nil {
		input.PricePerBaseUnit = &domain.Money{
			Amount:   req.PricePerBaseUnit.Amount,
			Currency: req.PricePerBaseUnit.Currency,
		}
	}

	item, err := h.service.UpdateItem(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "inventory item updated", item)
}

// DeleteItem handles DELETE /api/inventory-item/{id}.
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "inventory item deleted", nil)
}

// DisableItem handles PATCH /api/inventory-item/{id}/disable.
func (h *ItemHandler) DisableItem(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false, "inventory item disabled")
}

// EnableItem handles PATCH /api/inventory-item/{id}/enable.
func (h *ItemHandler) EnableItem(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true, "inventory item enabled")
}

func (h *ItemHandler) setActive(w http.ResponseWriter, r *http.Request, active bool, message string) {
	item, err := h.service.SetItemActive(r.Context(), chi.URLParam(r, "id"), active)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, message, item)
}
