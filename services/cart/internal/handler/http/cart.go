package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/itsGurdevSingh/UrbanPocket/pkg/errors"
	"github.com/itsGurdevSingh/UrbanPocket/pkg/httputil"
	"github.com/itsGurdevSingh/UrbanPocket/pkg/validator"
	"github.com/itsGurdevSingh/UrbanPocket/services/cart/internal/service"
)

// CartHandler exposes the cart operations over HTTP.
type CartHandler struct {
	service *service.CartService
	logger  *slog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(svc *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{service: svc, logger: logger}
}

// AddItemRequest is the payload for adding a variant line to the cart.
type AddItemRequest struct {
	VariantID string `json:"variant_id" validate:"required"`
	Name      string `json:"name" validate:"required,max=200"`
	SKU       string `json:"sku" validate:"required,max=100"`
	UnitPrice int64  `json:"unit_price" validate:"gte=0"`
	Currency  string `json:"currency" validate:"required,len=3"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// UpdateItemRequest is the payload for setting a line's quantity.
type UpdateItemRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

// GetCart handles GET /api/cart.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.GetCart(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "cart fetched", cart)
}

// AddItem handles POST /api/cart/items.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	cart, err := h.service.AddItem(r.Context(), &service.AddItemInput{
		VariantID: req.VariantID,
		Name:      req.Name,
		SKU:       req.SKU,
		UnitPrice: req.UnitPrice,
		Currency:  req.Currency,
		Quantity:  req.Quantity,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "item added to cart", cart)
}

// UpdateItem handles PUT /api/cart/items/{variantId}.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	variantID := chi.URLParam(r, "variantId")
	if variantID == "" {
		httputil.WriteError(w, r, apperrors.Validation("variantId is required",
			apperrors.FieldError{Field: "variantId", Message: "must not be empty"}), h.logger)
		return
	}

	var req UpdateItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	cart, err := h.service.UpdateItemQuantity(r.Context(), variantID, req.Quantity)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "cart item updated", cart)
}

// RemoveItem handles DELETE /api/cart/items/{variantId}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	variantID := chi.URLParam(r, "variantId")

	cart, err := h.service.RemoveItem(r.Context(), variantID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "item removed from cart", cart)
}

// ClearCart handles DELETE /api/cart.
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearCart(r.Context()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "cart cleared", nil)
}
