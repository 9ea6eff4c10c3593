package googlebooks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// batchSize is the provider's maximum page size; batchCount pages are
	// fetched per search to work around the provider's geo-limited result
	// windows (up to 400 raw items per query).
	batchSize  = 40
	batchCount = 10

	// maxRetries transport retries per request, with linearly increasing
	// backoff between attempts.
	maxRetries     = 2
	requestTimeout = 25 * time.Second
)

var (
	// isbnPrefixes are the hyphen-stripped ISBN-13 prefixes of Spanish
	// editions (978-84 and 979-13).
	isbnPrefixes = []string{"97884", "97913"}

	// allowedLanguages are the accepted volume language codes.
	allowedLanguages = []string{"es", "ca"}
)

// ErrNoResults is returned by Lookup when the provider has no volume for an
// ISBN. The caller maps it to a not-found rather than an upstream failure.
var ErrNoResults = errors.New("googlebooks: no results")

// Doer is the subset of *http.Client the package needs. Tests substitute a
// fake to exercise the retry path without a network.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a Google Books volumes API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient Doer
	logger     *slog.Logger
}

// New returns a client rooted at baseURL (normally
// https://www.googleapis.com/books/v1). The API key is optional.
func New(baseURL, apiKey string, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
	}
}

// WithHTTPClient swaps the underlying HTTP client. Used by tests.
func (c *Client) WithHTTPClient(doer Doer) *Client {
	c.httpClient = doer
	return c
}

// statusError marks a non-2xx provider response. Not retried: the provider
// answered, it just didn't like the request.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("googlebooks: unexpected status %d: %s", e.code, e.body)
}

// getJSON performs one GET with bounded retries. Transport failures are
// retried with a linearly increasing delay (1s, 2s, ...); HTTP-level errors
// are returned immediately.
func (c *Client) getJSON(ctx context.Context, endpoint string, target any) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(attempt) * time.Second):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err := c.doJSONRequest(ctx, endpoint, target)
		if err == nil {
			return nil
		}
		lastErr = err

		var se *statusError
		if errors.As(err, &se) {
			return err
		}
		c.logger.Warn("google books request failed", "attempt", attempt+1, "error", err)
	}
	return lastErr
}

func (c *Client) doJSONRequest(ctx context.Context, endpoint string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(body))}
	}

	return json.NewDecoder(resp.Body).Decode(target)
}

// volumesURL builds a /volumes query URL.
func (c *Client) volumesURL(query string, startIndex, maxResults int) string {
	params := url.Values{}
	params.Set("q", strings.TrimSpace(query))
	params.Set("startIndex", strconv.Itoa(startIndex))
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("printType", "books")
	params.Set("orderBy", "relevance")
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}
	return c.baseURL + "/volumes?" + params.Encode()
}

// NormalizeISBN strips hyphens and spaces from an ISBN.
func NormalizeISBN(isbn string) string {
	isbn = strings.ReplaceAll(isbn, "-", "")
	return strings.ReplaceAll(isbn, " ", "")
}

// Lookup fetches the best-matching volume for a single ISBN. Unlike Search,
// errors here are surfaced to the caller (502 territory) instead of being
// degraded to empty results.
func (c *Client) Lookup(ctx context.Context, isbn string) (*Record, error) {
	clean := NormalizeISBN(isbn)

	params := url.Values{}
	params.Set("q", "isbn:"+clean)
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	var resp volumesResponse
	err := c.getJSON(ctx, c.baseURL+"/volumes?"+params.Encode(), &resp)
	if err != nil {
		return nil, err
	}

	if resp.TotalItems == 0 || len(resp.Items) == 0 {
		return nil, ErrNoResults
	}

	record := mapVolume(resp.Items[0])
	return &record, nil
}
