package media

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Uploader runs batched uploads with compensation. A batch is all-or-nothing
// from the caller's point of view: on any failure, files already uploaded in
// the same batch are deleted best-effort and the first upload error is
// returned.
type Uploader struct {
	host        Host
	logger      *slog.Logger
	concurrency int
}

// NewUploader builds an Uploader over host. concurrency bounds in-flight
// uploads per batch; values below 1 mean unbounded.
func NewUploader(host Host, logger *slog.Logger, concurrency int) *Uploader {
	return &Uploader{host: host, logger: logger, concurrency: concurrency}
}

// UploadAll uploads every file concurrently and returns assets in input
// order. If any upload fails, assets already uploaded in this batch are
// deleted best-effort and the original upload error is returned. An empty
// batch returns an empty slice and never touches the host.
func (u *Uploader) UploadAll(ctx context.Context, files []File) ([]Asset, error) {
	if len(files) == 0 {
		return []Asset{}, nil
	}

	results := make([]*Asset, len(files))
	g, gctx := errgroup.WithContext(ctx)
	if u.concurrency > 0 {
		g.SetLimit(u.concurrency)
	}
	for i, f := range files {
		g.Go(func() error {
			if f.Label == "" {
				f.Label = defaultLabel(f.Name)
			}
			asset, err := u.host.Upload(gctx, f)
			if err != nil {
				return err
			}
			asset.Label = f.Label
			results[i] = asset
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		uploaded := make([]Asset, 0, len(results))
		for _, a := range results {
			if a != nil {
				uploaded = append(uploaded, *a)
			}
		}
		// Compensation must not be cancelled along with the batch.
		u.DeleteAll(context.WithoutCancel(ctx), uploaded)
		return nil, err
	}

	assets := make([]Asset, len(results))
	for i, a := range results {
		assets[i] = *a
	}
	return assets, nil
}

// WithRollback runs action and, if it fails, deletes every asset
// best-effort before returning action's error unchanged. Deletion failures
// are logged, never surfaced.
func (u *Uploader) WithRollback(ctx context.Context, assets []Asset, action func() error) error {
	err := action()
	if err == nil {
		return nil
	}
	u.DeleteAll(context.WithoutCancel(ctx), assets)
	return err
}

// DeleteAll deletes every asset best-effort and returns the file ids that
// could not be deleted. Failures are logged per file; a non-empty return is
// the hook for a future orphan sweeper.
func (u *Uploader) DeleteAll(ctx context.Context, assets []Asset) []string {
	var failed []string
	for _, a := range assets {
		if err := u.host.Delete(ctx, a.FileID); err != nil {
			u.logger.Error("media rollback delete failed",
				slog.String("file_id", a.FileID),
				slog.Any("error", err),
			)
			failed = append(failed, a.FileID)
		}
	}
	return failed
}
