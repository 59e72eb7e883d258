package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/itsGurdevSingh/UrbanPocket/pkg/errors"
	"github.com/itsGurdevSingh/UrbanPocket/pkg/httputil"
	"github.com/itsGurdevSingh/UrbanPocket/pkg/pagination"
	"github.com/itsGurdevSingh/UrbanPocket/pkg/validator"
	"github.com/itsGurdevSingh/UrbanPocket/services/catalog/internal/domain"
	"github.com/itsGurdevSingh/UrbanPocket/services/catalog/internal/media"
	"github.com/itsGurdevSingh/UrbanPocket/services/catalog/internal/service"
)

// VariantHandler handles HTTP requests for variant endpoints.
type VariantHandler struct {
	service *service.VariantService
	logger  *slog.Logger
}

// NewVariantHandler creates a new variant HTTP handler.
func NewVariantHandler(svc *service.VariantService, logger *slog.Logger) *VariantHandler {
	return &VariantHandler{service: svc, logger: logger}
}

// CreateVariantRequest is the request body for creating a variant. In
// multipart form the options and price fields arrive as JSON strings.
type CreateVariantRequest struct {
	ProductID string            `json:"productId" validate:"required"`
	SKU       string            `json:"sku" validate:"required,min=1,max=100"`
	Options   map[string]string `json:"options"`
	BaseUnit  string            `json:"baseUnit" validate:"required,max=50"`
	Price     PriceRequest      `json:"price"`
}

// PriceRequest is the money shape accepted on the wire.
type PriceRequest struct {
	Amount   int64  `json:"amount" validate:"gte=0"`
	Currency string `json:"currency" validate:"required,len=3"`
}

// UpdateVariantRequest is the request body for updating a variant.
type UpdateVariantRequest struct {
	Options  map[string]string `json:"options"`
	BaseUnit *string           `json:"baseUnit" validate:"omitempty,max=50"`
	Price    *PriceRequest     `json:"price"`
}

// CreateVariant handles POST /api/variant/create.
func (h *VariantHandler) CreateVariant(w http.ResponseWriter, r *http.Request) {
	var req CreateVariantRequest
	var files []media.File

	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
		form := r.MultipartForm
		req = CreateVariantRequest{
			ProductID: formValue(form, "productId"),
			SKU:       formValue(form, "sku"),
			BaseUnit:  formValue(form, "baseUnit"),
		}
		if raw := formValue(form, "options"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &req.Options); err != nil {
				httputil.WriteError(w, r, apperrors.Validation("options must be a JSON object"), h.logger)
				return
			}
		}
		if raw := formValue(form, "price"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &req.Price); err != nil {
				httputil.WriteError(w, r, apperrors.Validation("price must be a JSON object"), h.logger)
				return
			}
		}
		if err := validator.Validate(&req); err != nil {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
		var closeFiles func()
		var err error
		files, closeFiles, err = formFiles(form)
		if err != nil {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
		defer closeFiles()
	} else {
		if err := validator.DecodeAndValidate(r, &req); err != nil {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
	}

	variant, err := h.service.CreateVariant(r.Context(), &service.CreateVariantInput{
		ProductID: req.ProductID,
		SKU:       req.SKU,
		Options:   req.Options,
		BaseUnit:  req.BaseUnit,
		Price:     domain.Money{Amount: req.Price.Amount, Currency: req.Price.Currency},
		Images:    files,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteSuccess(w, http.StatusCreated, "variant created", variant)
}

// ListVariants handles GET /api/variant/getAll.
func (h *VariantHandler) ListVariants(w http.ResponseWriter, r *http.Request) {
	params, err := pagination.FromRequest(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	isActive, err := parseBoolQuery(r, "isActive")
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	variants, total, err := h.service.ListVariants(r.Context(), service.ListVariantsInput{
		Page:     params.Page,
		Limit:    params.Limit,
		Product:  optionalQuery(r, "product"),
		SKU:      optionalQuery(r, "sku"),
		IsActive: isActive,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "variants fetched",
		httputil.NewPage(variants, total, params.Page, params.Limit))
}

// GetVariant handles GET /api/variant/{id}.
func (h *VariantHandler) GetVariant(w http.ResponseWriter, r *http.Request) {
	variant, err := h.service.GetVariant(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "variant fetched", variant)
}

// UpdateVariant handles PUT /api/variant/{id}.
func (h *VariantHandler) UpdateVariant(w http.ResponseWriter, r *http.Request) {
	var req UpdateVariantRequest
	var files []media.File
	replaceImages := false

	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
		form := r.MultipartForm
		req.BaseUnit = optionalFormValue(form, "baseUnit")
		if raw := formValue(form, "options"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &req.Options); err != nil {
				httputil.WriteError(w, r, apperrors.Validation("options must be a JSON object"), h.logger)
				return
			}
		}
		if raw := formValue(form, "price"); raw != "" {
			req.Price = new(PriceRequest)
			if err := json.Unmarshal([]byte(raw), req.Price); err != nil {
				httputil.WriteError(w, r, apperrors.Validation("price must be a JSON object"), h.logger)
				return
			}
		}
		if err := validator.Validate(&req); err != nil {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
		if len(form.File[imagesFormField]) > 0 {
			var closeFiles func()
			var err error
			files, closeFiles, err = formFiles(form)
			if err != nil {
				httputil.WriteError(w, r, err, h.logger)
				return
			}
			defer closeFiles()
			replaceImages = true
		}
	} else {
		if err := validator.DecodeAndValidate(r, &req); err != nil {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
	}

	input := &service.UpdateVariantInput{
		Options:  req.Options,
		BaseUnit: req.BaseUnit,
	}
	if req.Price != nil {
		input.Price = &domain.Money{Amount: req.Price.Amount, Currency: req.Price.Currency}
	}
	if replaceImages {
		input.Images = files
	}

	variant, err := h.service.UpdateVariant(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "variant updated", variant)
}

// DeleteVariant handles DELETE /api/variant/{id}.
func (h *VariantHandler) DeleteVariant(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteVariant(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "variant deleted", nil)
}

// DisableVariant handles PATCH /api/variant/{id}/disable.
func (h *VariantHandler) DisableVariant(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false, "variant disabled")
}

// EnableVariant handles PATCH /api/variant/{id}/enable.
func (h *VariantHandler) EnableVariant(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true, "variant enabled")
}

func (h *VariantHandler) setActive(w http.ResponseWriter, r *http.Request, active bool, message string) {
	variant, err := h.service.SetVariantActive(r.Context(), chi.URLParam(r, "id"), active)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, message, variant)
}
