package media

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/itsGurdevSingh/UrbanPocket/pkg/httpclient"
)

// HTTPHost talks to the remote media host over HTTP. Every call is attempted
// exactly once: uploads and deletes are not idempotent, so the underlying
// client is built with retries disabled.
type HTTPHost struct {
	baseURL string
	apiKey  string
	client  *httpclient.BreakerClient
}

// HTTPHostConfig configures the media host client.
type HTTPHostConfig struct {
	BaseURL string
	APIKey  string
	Client  httpclient.Config
	Breaker httpclient.BreakerConfig
}

// NewHTTPHost builds an HTTPHost. cfg.Client.MaxRetries is forced to zero.
func NewHTTPHost(cfg HTTPHostConfig, l *slog.Logger) *HTTPHost {
	cfg.Client.MaxRetries = 0
	return &HTTPHost{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  httpclient.NewBreakerClient(httpclient.New(cfg.Client), cfg.Breaker, l),
	}
}

type uploadResponse struct {
	FileID string `json:"fileId"`
	URL    string `json:"url"`
}

type hostError struct {
	Message string `json:"message"`
}

// Upload streams file as multipart form data to the host and returns the
// stored asset.
func (h *HTTPHost) Upload(ctx context.Context, file File) (*Asset, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="file"; filename=%q`, file.Name))
		if file.ContentType != "" {
			header.Set("Content-Type", file.ContentType)
		}
		part, err := mw.CreatePart(header)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, file.Data); err != nil {
			pw.CloseWithError(err)
			return
		}
		if err := mw.WriteField("fileName", file.Name); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/files/upload", pr)
	if err != nil {
		return nil, fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	h.authorize(req)

	resp, err := h.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("upload %q: %w", file.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("upload %q: %s", file.Name, readHostError(resp))
	}

	var body uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	if body.FileID == "" || body.URL == "" {
		return nil, fmt.Errorf("upload %q: host returned incomplete asset", file.Name)
	}
	return &Asset{FileID: body.FileID, URL: body.URL}, nil
}

// Delete removes a stored file by id. Deleting an already-deleted file is
// treated as success.
func (h *HTTPHost) Delete(ctx context.Context, fileID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, h.baseURL+"/files/"+fileID, nil)
	if err != nil {
		return fmt.Errorf("create delete request: %w", err)
	}
	h.authorize(req)

	resp, err := h.client.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("delete file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		return nil
	default:
		return fmt.Errorf("delete file %s: %s", fileID, readHostError(resp))
	}
}

func (h *HTTPHost) authorize(req *http.Request) {
	if h.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.apiKey)
	}
}

func readHostError(resp *http.Response) string {
	var body hostError
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body); err == nil && body.Message != "" {
		return fmt.Sprintf("status %d: %s", resp.StatusCode, body.Message)
	}
	return fmt.Sprintf("status %d", resp.StatusCode)
}
