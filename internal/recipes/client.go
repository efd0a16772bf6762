package recipes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Fetcher defines the read operations the browser needs.
// This interface is implemented by *Client and can be replaced in tests.
type Fetcher interface {
	List(ctx context.Context, page, limit int) (ListResponse, error)
	Search(ctx context.Context, filters Filters) ([]Recipe, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// Client talks to the recipe HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	logger    *zap.Logger
}

const (
	// DefaultBaseURL matches the development server port of the recipe API.
	DefaultBaseURL   = "http://localhost:5678/api"
	defaultUserAgent = "galley/0.1"
	defaultTimeout   = 5 * time.Second
	apiPathPrefix    = "/api"
	requestIDHeader  = "X-Request-ID"
)

// Option customizes a Client.
type Option func(*Client)

// WithTimeout bounds each request. Zero or negative values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger attaches a logger for request tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient builds a Client for the given API base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		userAgent: defaultUserAgent,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized API base, e.g. http://localhost:5678/api.
func (c *Client) BaseURL() string {
	return strings.TrimSuffix(c.baseURL.String(), "/")
}

// List retrieves one server-paginated page of recipes.
func (c *Client) List(ctx context.Context, page, limit int) (ListResponse, error) {
	if c == nil {
		return ListResponse{}, fmt.Errorf("client is nil")
	}
	var payload ListResponse
	if err := c.get(ctx, "US_recipes", pageValues(page, limit), &payload); err != nil {
		return ListResponse{}, err
	}
	return payload, nil
}

// Search retrieves every recipe matching filters. Empty filters are omitted
// from the query, so an all-empty Filters asks for the whole collection.
func (c *Client) Search(ctx context.Context, filters Filters) ([]Recipe, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload SearchResponse
	if err := c.get(ctx, "US_recipes/search", filters.Values(), &payload); err != nil {
		return nil, err
	}
	return payload.Data, nil
}

// Health checks that the API answers its liveness probe.
func (c *Client) Health(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	var payload healthResponse
	if err := c.get(ctx, "health", nil, &payload); err != nil {
		return err
	}
	if !strings.EqualFold(strings.TrimSpace(payload.Status), "ok") {
		return &RequestError{
			Kind: ErrNetwork,
			Path: "health",
			Err:  fmt.Errorf("unexpected status %q", payload.Status),
		}
	}
	return nil
}

// EndpointURL resolves a relative endpoint path against the base URL.
func (c *Client) EndpointURL(path string, values url.Values) string {
	rel := &url.URL{Path: strings.TrimPrefix(path, "/")}
	if len(values) > 0 {
		rel.RawQuery = values.Encode()
	}
	return c.baseURL.ResolveReference(rel).String()
}

func (c *Client) get(ctx context.Context, path string, values url.Values, dest any) error {
	reqURL := c.EndpointURL(path, values)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(requestIDHeader, requestID)

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err))
		return &RequestError{Kind: ErrNetwork, Path: path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("request finished",
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RequestError{Kind: ErrNetwork, Path: path, Status: resp.StatusCode}
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &RequestError{Kind: ErrDecode, Path: path, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", raw)
	}
	path := strings.TrimRight(u.Path, "/")
	if path == "" {
		path = apiPathPrefix
	}
	// Trailing slash so ResolveReference appends instead of replacing the last segment.
	u.Path = path + "/"
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
