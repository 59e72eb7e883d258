// Package media coordinates image uploads against the external media host
// and guarantees that a batch either fully succeeds or is fully reverted:
// no persisted document ever references an orphaned upload, though orphaned
// remote files after a failed best-effort rollback are an accepted residual.
package media

import (
	"context"
	"io"
	"strings"
)

// MaxLabelLength bounds the user-visible label derived from a filename.
const MaxLabelLength = 150

// File is one binary payload to upload.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Data        io.Reader

	// Label is the user-visible alt text. Empty means derive it from Name.
	Label string
}

// Asset is a successfully uploaded file on the media host.
type Asset struct {
	FileID string `json:"file_id"`
	URL    string `json:"url"`
	Label  string `json:"label"`
}

// Host is the external media service. Uploads and deletes are
// non-idempotent remote calls: one attempt per file per operation, never
// retried.
type Host interface {
	Upload(ctx context.Context, file File) (*Asset, error)
	Delete(ctx context.Context, fileID string) error
}

// defaultLabel derives a label from the original filename: the first path
// segment, truncated to MaxLabelLength runes.
func defaultLabel(name string) string {
	segment, _, _ := strings.Cut(name, "/")
	runes := []rune(segment)
	if len(runes) > MaxLabelLength {
		return string(runes[:MaxLabelLength])
	}
	return segment
}
