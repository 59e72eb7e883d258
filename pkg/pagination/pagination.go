package pagination

import (
	"net/http"
	"strconv"

	apperrors "github.com/itsGurdevSingh/UrbanPocket/pkg/errors"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params holds validated pagination parameters.
type Params struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Skip  int `json:"-"`
}

// Default returns page 1 with the default limit.
func Default() Params {
	return Params{Page: DefaultPage, Limit: DefaultLimit}
}

// FromRequest parses page and limit from the query string. Absent parameters
// take defaults; present-but-invalid ones are rejected with VALIDATION_ERROR
// rather than silently coerced (page=0 must yield a 400).
func FromRequest(r *http.Request) (Params, error) {
	p := Default()

	if raw := r.URL.Query().Get("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return Params{}, apperrors.Validation("invalid pagination",
				apperrors.FieldError{Field: "page", Message: "must be an integer >= 1"})
		}
		p.Page = v
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > MaxLimit {
			return Params{}, apperrors.Validation("invalid pagination",
				apperrors.FieldError{Field: "limit", Message: "must be an integer between 1 and 100"})
		}
		p.Limit = v
	}

	p.Skip = (p.Page - 1) * p.Limit
	return p, nil
}
