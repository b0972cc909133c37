package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aretw0/venuebot/internal/logging"
	"github.com/aretw0/venuebot/pkg/domain"
	"github.com/aretw0/venuebot/pkg/observability"
)

const (
	// DefaultBaseURL is where the catalog API lives when nothing else is configured.
	DefaultBaseURL = "http://localhost:8000/api/"
	// DefaultTimeout bounds every catalog request.
	DefaultTimeout = 10 * time.Second

	maxResponseSize = 4 << 20
)

// Endpoint names, also used as metric labels.
const (
	EndpointCities        = "cities"
	EndpointCategories    = "categories"
	EndpointOrganizations = "organizations"
)

var endpointPaths = map[string]string{
	EndpointCities:        "places/cities",
	EndpointCategories:    "places/categories",
	EndpointOrganizations: "organizations/query",
}

// Query is the body of an organization search.
type Query struct {
	CityID   domain.CityID `json:"cityId"`
	Type     string        `json:"type"`
	Criteria string        `json:"criteria"`
	To       int           `json:"to"`
}

// Client is an HTTP client for the catalog API.
type Client struct {
	base     *url.URL
	http     *http.Client
	defaults Defaults
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithDefaults replaces the default-value policy for missing venue fields.
func WithDefaults(d Defaults) Option {
	return func(c *Client) {
		c.defaults = d
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics records every request in the given collectors.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a client for the catalog rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid catalog base url %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		base:     base,
		http:     &http.Client{Timeout: DefaultTimeout},
		defaults: DefaultVenueDefaults,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Cities fetches the city list. Records without a name are dropped.
func (c *Client) Cities(ctx context.Context) ([]domain.CityRecord, error) {
	items, err := c.fetch(ctx, EndpointCities, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	records := decodeCities(items)
	if dropped := len(items) - len(records); dropped > 0 {
		c.logger.Warn("dropped city records without a name", "dropped", dropped)
	}
	return records, nil
}

// Categories fetches the catalog's category list. It is informational only.
func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	items, err := c.fetch(ctx, EndpointCategories, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	return decodeCategories(items)
}

// SearchOrganizations runs an organization query.
func (c *Client) SearchOrganizations(ctx context.Context, q Query) ([]domain.Venue, error) {
	body, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}
	items, err := c.fetch(ctx, EndpointOrganizations, http.MethodPost, body)
	if err != nil {
		return nil, err
	}
	venues, skipped := decodeVenues(items, c.defaults)
	if skipped > 0 {
		c.logger.Warn("skipped malformed venues", "skipped", skipped, "city_id", q.CityID, "type", q.Type)
	}
	return venues, nil
}

// fetch performs a request and decodes a top-level JSON array.
func (c *Client) fetch(ctx context.Context, endpoint, method string, body []byte) ([]any, error) {
	start := time.Now()
	target := c.base.ResolveReference(&url.URL{Path: endpointPaths[endpoint]})

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(endpoint, observability.OutcomeTransportErr, time.Since(start))
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrTransport, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))
		c.observe(endpoint, observability.OutcomeUpstreamErr, time.Since(start))
		return nil, fmt.Errorf("%w: %s: status %d", domain.ErrUpstream, endpoint, resp.StatusCode)
	}

	var items []any
	dec := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize))
	dec.UseNumber()
	if err := dec.Decode(&items); err != nil {
		outcome := observability.OutcomeDecodeErr
		if isTransportError(err) {
			outcome = observability.OutcomeTransportErr
			err = fmt.Errorf("%w: %s: %v", domain.ErrTransport, endpoint, err)
		} else {
			err = fmt.Errorf("%w: %s: %v", domain.ErrDecode, endpoint, err)
		}
		c.observe(endpoint, outcome, time.Since(start))
		return nil, err
	}

	outcome := observability.OutcomeOK
	if len(items) == 0 {
		outcome = observability.OutcomeEmpty
	}
	c.observe(endpoint, outcome, time.Since(start))
	return items, nil
}

func (c *Client) observe(endpoint, outcome string, d time.Duration) {
	c.metrics.ObserveCatalog(endpoint, outcome, d)
}

// isTransportError reports whether a body read failed because of the connection
// rather than the payload.
func isTransportError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
