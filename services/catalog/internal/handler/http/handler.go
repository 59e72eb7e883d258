// Package http wires the catalog HTTP endpoints. Handlers decode and
// validate input, delegate to the service layer, and write the shared
// response envelope; they never interpret error kinds themselves.
package http

import (
	"mime/multipart"
	"net/http"
	"strings"

	apperrors "github.com/itsGurdevSingh/UrbanPocket/pkg/errors"
	"github.com/itsGurdevSingh/UrbanPocket/services/catalog/internal/media"
)

// maxUploadMemory bounds the in-memory portion of multipart parsing;
// larger files spill to disk.
const maxUploadMemory = 32 << 20

// imagesFormField is the multipart field carrying image files.
const imagesFormField = "images"

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

// optionalQuery reads an optional string query parameter.
func optionalQuery(r *http.Request, name string) *string {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil
	}
	return &v
}

// isMultipart reports whether the request carries multipart form data.
func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// formFiles converts the uploaded image parts into media files. The
// returned closer releases the underlying readers once the service call
// finished.
func formFiles(form *multipart.Form) ([]media.File, func(), error) {
	headers := form.File[imagesFormField]
	files := make([]media.File, 0, len(headers))
	var opened []multipart.File

	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}

	for _, hdr := range headers {
		f, err := hdr.Open()
		if err != nil {
			closeAll()
			return nil, nil, apperrors.Validation("could not read uploaded file " + hdr.Filename)
		}
		opened = append(opened, f)
		files = append(files, media.File{
			Name:        hdr.Filename,
			ContentType: hdr.Header.Get("Content-Type"),
			Size:        hdr.Size,
			Data:        f,
		})
	}
	return files, closeAll, nil
}

// formValues splits a multipart field that may arrive either repeated or
// comma-separated.
func formValues(form *multipart.Form, name string) []string {
	raw := form.Value[name]
	if len(raw) == 1 && strings.Contains(raw[0], ",") {
		raw = strings.Split(raw[0], ",")
	}
	var out []string
	for _, v := range raw {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// formValue returns the first value of a multipart field.
func formValue(form *multipart.Form, name string) string {
	if vs := form.Value[name]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// optionalFormValue returns a pointer to the field value when the field was
// present at all, distinguishing "absent" from "set to empty".
func optionalFormValue(form *multipart.Form, name string) *string {
	vs, ok := form.Value[name]
	if !ok || len(vs) == 0 {
		return nil
	}
	return &vs[0]
}
