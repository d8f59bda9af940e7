package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// BaseURL is the Todoist unified API v1 base URL.
	BaseURL = "https://api.todoist.com/api/v1"

	// DefaultTimeout is the default HTTP client timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRequestsPerMinute keeps a single user under Todoist's
	// limit of 450 requests per 15 minutes.
	DefaultRequestsPerMinute = 30
)

// Options tunes a Client. Zero values select the defaults.
type Options struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerMinute int
}

// Client is the Todoist API client.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
	limiter     *rate.Limiter
}

// NewClient creates a new Todoist API client with the given access token.
// An empty token yields a client whose every call fails with ErrNotInitialized.
func NewClient(accessToken string) *Client {
	return NewClientWithOptions(accessToken, Options{})
}

// NewClientWithOptions creates a client with custom base URL, timeout and throttle.
func NewClientWithOptions(accessToken string, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = BaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.RequestsPerMinute <= 0 {
		opts.RequestsPerMinute = DefaultRequestsPerMinute
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		accessToken: strings.TrimSpace(accessToken),
		limiter:     rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), opts.RequestsPerMinute),
	}
}

// SetHTTPClient allows overriding the default HTTP client (useful for testing).
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// Initialized reports whether the client has a token to authenticate with.
func (c *Client) Initialized() bool {
	return c != nil && c.accessToken != ""
}

// do performs a JSON request and decodes the JSON response into result.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var bodyReader io.Reader
	contentType := ""
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
		contentType = "application/json"
	}

	respBody, err := c.send(ctx, method, c.baseURL+path, contentType, bodyReader)
	if err != nil {
		return err
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// doForm posts url-encoded form data, as the Sync endpoints expect.
func (c *Client) doForm(ctx context.Context, path string, form url.Values, result interface{}) error {
	respBody, err := c.send(ctx, http.MethodPost, c.baseURL+path, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// send executes one authenticated request and returns the raw body.
// Status codes >= 400 are returned as *APIError.
func (c *Client) send(ctx context.Context, method, reqURL, contentType string, body io.Reader) ([]byte, error) {
	if !c.Initialized() {
		return nil, ErrNotInitialized
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(respBody)),
		}
	}

	return respBody, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, result interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

// GetWithQuery performs a GET request with query parameters.
func (c *Client) GetWithQuery(ctx context.Context, path string, query url.Values, result interface{}) error {
	if len(query) > 0 {
		path = path + "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, path, nil, result)
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, body interface{}, result interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, result)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// getAll follows next_cursor until the collection is exhausted.
func getAll[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	if query == nil {
		query = url.Values{}
	}
	all := make([]T, 0)

	for {
		var page Page[T]
		if err := c.GetWithQuery(ctx, path, query, &page); err != nil {
			return nil, err
		}

		all = append(all, page.Results...)

		if page.NextCursor == nil || *page.NextCursor == "" {
			break
		}
		query.Set("cursor", *page.NextCursor)
	}

	return all, nil
}

// buildFilterQuery builds query parameters for task listing.
func buildFilterQuery(filter TaskFilter) url.Values {
	query := url.Values{}

	if filter.ProjectID != "" {
		query.Set("project_id", filter.ProjectID)
	}
	if filter.Label != "" {
		query.Set("label", filter.Label)
	}
	if len(filter.IDs) > 0 {
		query.Set("ids", strings.Join(filter.IDs, ","))
	}

	return query
}
