// Package memory implements an in-memory media host for tests.
package memory

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/itsGurdevSingh/UrbanPocket/services/catalog/internal/media"
)

// Host stores uploads in memory. FailUploads and FailDeletes make specific
// filenames or file ids fail on demand.
type Host struct {
	mu          sync.Mutex
	files       map[string][]byte
	uploads     int
	deletes     int
	FailUploads map[string]error
	FailDeletes map[string]error
}

// NewHost returns an empty in-memory host.
func NewHost() *Host {
	return &Host{
		files:       make(map[string][]byte),
		FailUploads: make(map[string]error),
		FailDeletes: make(map[string]error),
	}
}

func (h *Host) Upload(ctx context.Context, file media.File) (*media.Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(file.Data)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.uploads++
	if err, ok := h.FailUploads[file.Name]; ok {
		return nil, err
	}
	id := uuid.NewString()
	h.files[id] = data
	return &media.Asset{
		FileID: id,
		URL:    fmt.Sprintf("https://media.test/files/%s", id),
	}, nil
}

func (h *Host) Delete(ctx context.Context, fileID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.deletes++
	if err, ok := h.FailDeletes[fileID]; ok {
		return err
	}
	delete(h.files, fileID)
	return nil
}

// Len reports how many files are currently stored.
func (h *Host) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.files)
}

// Has reports whether fileID is stored.
func (h *Host) Has(fileID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.files[fileID]
	return ok
}

// Uploads reports how many upload attempts were made.
func (h *Host) Uploads() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.uploads
}

// Deletes reports how many delete attempts were made.
func (h *Host) Deletes() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.deletes
}
