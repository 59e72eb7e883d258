package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/itsGurdevSingh/UrbanPocket/pkg/httputil"
	"github.com/itsGurdevSingh/UrbanPocket/pkg/pagination"
	"github.com/itsGurdevSingh/UrbanPocket/pkg/validator"
	"github.com/itsGurdevSingh/UrbanPocket/services/catalog/internal/media"
	"github.com/itsGurdevSingh/UrbanPocket/services/catalog/internal/service"
)

// ProductHandler handles HTTP requests for product endpoints.
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(svc *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{service: svc, logger: logger}
}

// CreateProductRequest is the request body for creating a product. Images
// arrive as multipart file parts alongside these fields.
type CreateProductRequest struct {
	Name        string   `json:"name" validate:"required,min=1,max=500"`
	Description string   `json:"description"`
	Brand       string   `json:"brand" validate:"max=200"`
	CategoryID  *string  `json:"categoryId"`
	Attributes  []string `json:"attributes"`
}

// UpdateProductRequest is the request body for updating a product.
type UpdateProductRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=500"`
	Description *string  `json:"description"`
	Brand       *string  `json:"brand" validate:"omitempty,max=200"`
	CategoryID  *string  `json:"categoryId"`
	Attributes  []string `json:"attributes"`
}

// CreateProduct handles POST /api/product/create.
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	var files []media.File

	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
		form := r.MultipartForm
		req = CreateProductRequest{
			Name:        formValue(form, "name"),
			Description: formValue(form, "description"),
			Brand:       formValue(form, "brand"),
			CategoryID:  optionalFormValue(form, "categoryId"),
			Attributes:  formValues(form, "attributes"),
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

	product, err := h.service.CreateProduct(r.Context(), &service.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Brand:       req.Brand,
		CategoryID:  req.CategoryID,
		Attributes:  req.Attributes,
		Images:      files,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteSuccess(w, http.StatusCreated, "product created", product)
}

// ListProducts handles GET /api/product/getAll.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
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

	products, total, err := h.service.ListProducts(r.Context(), service.ListProductsInput{
		Page:     params.Page,
		Limit:    params.Limit,
		Search:   optionalQuery(r, "search"),
		Category: optionalQuery(r, "category"),
		Seller:   optionalQuery(r, "seller"),
		IsActive: isActive,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "products fetched",
		httputil.NewPage(products, total, params.Page, params.Limit))
}

// GetProduct handles GET /api/product/{id}.
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "product fetched", product)
}

// UpdateProduct handles PUT /api/product/{id}.
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req UpdateProductRequest
	var files []media.File
	replaceImages := false

	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
		form := r.MultipartForm
		req = UpdateProductRequest{
			Name:        optionalFormValue(form, "name"),
			Description: optionalFormValue(form, "description"),
			Brand:       optionalFormValue(form, "brand"),
			CategoryID:  optionalFormValue(form, "categoryId"),
			Attributes:  formValues(form, "attributes"),
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

	input := &service.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Brand:       req.Brand,
		CategoryID:  req.CategoryID,
		Attributes:  req.Attributes,
	}
	if replaceImages {
		input.Images = files
	}

	product, err := h.service.UpdateProduct(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "product updated", product)
}

// DeleteProduct handles DELETE /api/product/{id}.
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "product deleted", nil)
}

// DisableProduct handles PATCH /api/product/{id}/disable.
func (h *ProductHandler) DisableProduct(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false, "product disabled")
}

// EnableProduct handles PATCH /api/product/{id}/enable.
func (h *ProductHandler) EnableProduct(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true, "product enabled")
}

func (h *ProductHandler) setActive(w http.ResponseWriter, r *http.Request, active bool, message string) {
	product, err := h.service.SetProductActive(r.Context(), chi.URLParam(r, "id"), active)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, message, product)
}
