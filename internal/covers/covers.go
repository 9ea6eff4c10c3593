// Package covers re-hosts remote cover images on a durable image store.
// The store is optional: with no endpoint configured the original URL is
// kept, and any upload failure degrades to "no re-hosting" so a book write
// never fails because of its cover.
package covers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Uploader re-hosts a remote image and returns its durable URL.
type Uploader interface {
	Upload(ctx context.Context, imageURL string) (string, error)
}

// Client posts remote image URLs to an HTTP image store.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// New returns a Client for the given store endpoint. An empty endpoint
// disables re-hosting: Upload then returns the input URL unchanged.
func New(endpoint string, logger *slog.Logger) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

type uploadRequest struct {
	URL    string `json:"url"`
	Folder string `json:"folder"`
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
}

// Upload sends imageURL to the store and returns the durable URL it answers
// with. Callers are expected to treat an error as "no image".
func (c *Client) Upload(ctx context.Context, imageURL string) (string, error) {
	if imageURL == "" {
		return "", nil
	}
	if c.endpoint == "" {
		return imageURL, nil
	}

	body, err := json.Marshal(uploadRequest{URL: imageURL, Folder: "media-library"})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("covers: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var uploaded uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return "", err
	}
	if uploaded.SecureURL == "" {
		return "", fmt.Errorf("covers: store returned no URL")
	}
	return uploaded.SecureURL, nil
}
