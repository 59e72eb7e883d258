// Package http wires the inventory HTTP endpoints. Handlers decode and
// validate input, delegate to the service layer, and write the shared
// response envelope; they never interpret error kinds themselves.
package http

import (
	"net/http"
	"strconv"
	"time"

	apperrors "github.com/itsGurdevSingh/UrbanPocket/pkg/errors"
)

// dateFormats accepted by date query parameters, tried in order.
var dateFormats = []string{time.RFC3339, "2006-01-02"}

// parseBoolQuery reads an optional boolean query parameter. Anything other
// than "true"/"false" is a 400.
func parseBoolQuery(r *http.Request, name string) (*bool, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	switch v {
	case "true":
		b := true
		return &b, nil
	case "false":
		b := false
		return &b, nil
	default:
		return nil, apperrors.Validation(name+" must be true or false",
			apperrors.FieldError{Field: name, Message: "must be true or false"})
	}
}

// parseInt64Query reads an optional integer query parameter.
func parseInt64Query(r *http.Request, name string) (*int64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, apperrors.Validation(name+" must be an integer",
			apperrors.FieldError{Field: name, Message: "must be an integer"})
	}
	return &n, nil
}

// parseDateQuery reads an optional date query parameter, accepting RFC3339
// timestamps or plain dates.
func parseDateQuery(r *http.Request, name string) (*time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, v); err == nil {
			return &t, nil
		}
	}
	return nil, apperrors.Validation(name+" must be a valid date",
		apperrors.FieldError{Field: name, Message: "must be RFC3339 or YYYY-MM-DD"})
}

// optionalQuery reads an optional string query parameter.
func optionalQuery(r *http.Request, name string) *string {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil
	}
	return &v
}
