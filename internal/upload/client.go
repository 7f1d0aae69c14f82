// Package upload sends finished recordings to put.io and remembers what was sent.
package upload

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
)

// DefaultUploadURL is the put.io upload endpoint.
const DefaultUploadURL = "https://upload.put.io/v2/files/upload"

var (
	// ErrEmptyFile is returned for zero-byte files, which put.io rejects.
	ErrEmptyFile = errors.New("empty file")

	// ErrUploadFailed is returned when put.io does not accept an upload.
	ErrUploadFailed = errors.New("upload failed")
)

// Client uploads files to put.io.
type Client struct {
	uploadURL  string
	token      string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a put.io client. Empty uploadURL uses DefaultUploadURL.
// Uploads are not bounded by a client timeout; cancel through the context.
func NewClient(token, uploadURL string, log *slog.Logger) *Client {
	if uploadURL == "" {
		uploadURL = DefaultUploadURL
	}
	return &Client{
		uploadURL:  uploadURL,
		token:      token,
		httpClient: &http.Client{},
		log:        log.With("component", "putio"),
	}
}

// Upload sends the file at path into the put.io folder parentID (0 is the root).
func (c *Client) Upload(ctx context.Context, path string, parentID int64) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("%s: %w", path, ErrEmptyFile)
	}
	name := filepath.Base(path)
	c.log.Info("uploading", "file", name, "size_mb", fmt.Sprintf("%.2f", float64(info.Size())/(1024*1024)))

	// Streamed: recordings are often several GB.
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		_ = pw.CloseWithError(writeForm(mw, c.token, parentID, name, f))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, pr)
	if err != nil {
		_ = pr.Close()
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		_ = pr.CloseWithError(err)
		return fmt.Errorf("upload %s: %w", name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s: HTTP %d", ErrUploadFailed, name, resp.StatusCode)
	}

	var result struct {
		Status string `json:"status"`
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("%w: %s: decode response: %v", ErrUploadFailed, name, err)
	}
	if result.Status != "OK" {
		return fmt.Errorf("%w: %s: %s", ErrUploadFailed, name, body)
	}

	c.log.Info("uploaded", "file", name)
	return nil
}

func writeForm(mw *multipart.Writer, token string, parentID int64, name string, r io.Reader) error {
	if err := mw.WriteField("oauth_token", token); err != nil {
		return err
	}
	if err := mw.WriteField("parent_id", strconv.FormatInt(parentID, 10)); err != nil {
		return err
	}
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, r); err != nil {
		return err
	}
	return mw.Close()
}
