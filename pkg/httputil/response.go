// Package httputil implements the JSON response envelope shared by every
// service: {success, message, data} on success and
// {success:false, error:{code, message, details?}} on failure.
package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"

	apperrors "github.com/itsGurdevSingh/UrbanPocket/pkg/errors"
	"github.com/itsGurdevSingh/UrbanPocket/pkg/logger"
)

// Response is the uniform envelope.
type Response struct {
	Success bool       `json:"success"`
	Message string     `json:"message,omitempty"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// ErrorBody carries the stable error code plus optional field details.
type ErrorBody struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   []apperrors.FieldError `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
}

// WriteJSON writes v with the given status. Encoding failures are ignored:
// headers are already on the wire.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteSuccess writes a success envelope with the given message and payload.
func WriteSuccess(w http.ResponseWriter, status int, message string, data any) {
	WriteJSON(w, status, Response{Success: true, Message: message, Data: data})
}

// WriteError classifies err and writes the failure envelope. Controllers
// never re-interpret error kinds; every error funnels through here.
// Unclassified errors become INTERNAL_ERROR and are logged with the
// request-scoped logger when one is mounted, else with fallback.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	appErr := apperrors.Classify(err)

	if appErr.Status == http.StatusInternalServerError {
		l := logger.FromContext(r.Context())
		if l == slog.Default() {
			l = fallback
		}
		l.ErrorContext(r.Context(), "internal error",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	WriteJSON(w, appErr.Status, Response{
		Success: false,
		Error: &ErrorBody{
			Code:      appErr.Code,
			Message:   appErr.Message,
			Details:   appErr.Details,
			RequestID: logger.RequestIDFromContext(r.Context()),
		},
	})
}

// Page is the payload shape for paginated list endpoints. Total counts every
// match regardless of page/limit.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	PageNumber int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// NewPage builds a Page, normalizing a nil item slice to an empty one.
func NewPage[T any](items []T, total int64, page, limit int) Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := int(total) / limit
	if int(total)%limit > 0 {
		totalPages++
	}
	return Page[T]{
		Items:      items,
		Total:      total,
		PageNumber: page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}
