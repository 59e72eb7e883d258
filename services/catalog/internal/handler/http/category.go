package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/itsGurdevSingh/UrbanPocket/pkg/httputil"
	"github.com/itsGurdevSingh/UrbanPocket/pkg/pagination"
	"github.com/itsGurdevSingh/UrbanPocket/pkg/validator"
	"github.com/itsGurdevSingh/UrbanPocket/services/catalog/internal/service"
)

// CategoryHandler handles HTTP requests for category endpoints.
type CategoryHandler struct {
	service *service.CategoryService
	logger  *slog.Logger
}

// NewCategoryHandler creates a new category HTTP handler.
func NewCategoryHandler(svc *service.CategoryService, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{service: svc, logger: logger}
}

// CreateCategoryRequest is the request body for creating a category.
type CreateCategoryRequest struct {
	Name           string  `json:"name" validate:"required,min=1,max=200"`
	Description    string  `json:"description"`
	ParentCategory *string `json:"parentCategory"`
}

// UpdateCategoryRequest is the request body for updating a category.
type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
}

// CreateCategory handles POST /api/category/create.
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	category, err := h.service.CreateCategory(r.Context(), &service.CreateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
		Parent:      req.ParentCategory,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteSuccess(w, http.StatusCreated, "category created", category)
}

// ListCategories handles GET /api/category/getAll.
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
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

	categories, total, err := h.service.ListCategories(r.Context(), service.ListCategoriesInput{
		Page:     params.Page,
		Limit:    params.Limit,
		Parent:   optionalQuery(r, "parent"),
		IsActive: isActive,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "categories fetched",
		httputil.NewPage(categories, total, params.Page, params.Limit))
}

// GetCategory handles GET /api/category/{id}.
func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	category, err := h.service.GetCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "category fetched", category)
}

// GetCategoryTree handles GET /api/category/{id}/tree.
func (h *CategoryHandler) GetCategoryTree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.service.GetCategoryTree(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "category tree fetched", tree)
}

// UpdateCategory handles PUT /api/category/{id}.
func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req UpdateCategoryRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	category, err := h.service.UpdateCategory(r.Context(), chi.URLParam(r, "id"), &service.UpdateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "category updated", category)
}

// DeleteCategory handles DELETE /api/category/{id}.
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "category deleted", nil)
}

// DisableCategory handles PATCH /api/category/{id}/disable.
func (h *CategoryHandler) DisableCategory(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false, "category disabled")
}

// EnableCategory handles PATCH /api/category/{id}/enable.
func (h *CategoryHandler) EnableCategory(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true, "category enabled")
}

func (h *CategoryHandler) setActive(w http.ResponseWriter, r *http.Request, active bool, message string) {
	category, err := h.service.SetCategoryActive(r.Context(), chi.URLParam(r, "id"), active)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, message, category)
}
