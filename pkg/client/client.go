// Package client provides the core billing API client: credential
// injection, XML request/response handling, typed error mapping, and one
// method per remote operation.
package client

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Sternrassler/recurly-billing-client/pkg/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for billing client operations.
var (
	billingRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "billing_requests_total",
		Help: "Total billing API requests by endpoint and status",
	}, []string{"endpoint", "status"})

	billingRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "billing_request_duration_seconds",
		Help:    "Billing API request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	billingErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "billing_errors_total",
		Help: "Total billing API errors by class",
	}, []string{"class"})
)

// Defaults applied by New when the corresponding Config field is unset.
const (
	// DefaultBaseURL is the production billing API endpoint.
	DefaultBaseURL = "https://api.recurly.com/v2"

	// DefaultPageSize is the page size sent on list requests when none is
	// configured.
	DefaultPageSize = 20

	// DefaultTimeout bounds a single round trip.
	DefaultTimeout = 30 * time.Second
)

// Client is the billing API client. A Client is safe for concurrent use; it
// owns an HTTP connection pool that is released by Close.
type Client struct {
	httpClient  *http.Client
	config      Config
	rateLimiter *ratelimit.Tracker
	logger      zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// APIKey is the private API key, sent as the basic-auth username on
	// every request (REQUIRED).
	APIKey string

	// BaseURL overrides the API endpoint, e.g. to point at a sandbox or a
	// test server. Defaults to DefaultBaseURL.
	BaseURL string

	// PageSize is the number of records requested per list page.
	// Defaults to DefaultPageSize.
	PageSize int

	// Timeout bounds a single round trip. Defaults to DefaultTimeout.
	Timeout time.Duration

	// UserAgent header sent on every request.
	UserAgent string

	// Redis enables quota tracking shared across client instances. When
	// nil, no rate-limit gating is performed.
	Redis *redis.Client
}

// DefaultConfig returns a safe default configuration for the given API key.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:    apiKey,
		BaseURL:   DefaultBaseURL,
		PageSize:  DefaultPageSize,
		Timeout:   DefaultTimeout,
		UserAgent: "recurly-billing-client/1.0",
	}
}

// New creates a new billing API client.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}

	if cfg.PageSize < 0 {
		return nil, fmt.Errorf("page size must be >= 1 (got %d)", cfg.PageSize)
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = DefaultPageSize
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	logger := log.With().Str("component", "billing-client").Logger()

	var rateLimiter *ratelimit.Tracker
	if cfg.Redis != nil {
		rateLimiter = ratelimit.NewTracker(cfg.Redis, logger)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		config:      cfg,
		rateLimiter: rateLimiter,
		logger:      logger,
	}, nil
}

// PageSize returns the effective list page size.
func (c *Client) PageSize() int {
	return c.config.PageSize
}

// PageSizeParam returns the page-size query parameter string sent on list
// requests, e.g. "per_page=20".
func (c *Client) PageSizeParam() string {
	return fmt.Sprintf("per_page=%d", c.config.PageSize)
}

// Close releases the idle connections held by the client's pool.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// url joins a resource path onto the configured base URL.
func (c *Client) url(path string) string {
	return c.config.BaseURL + path
}

// listURL joins a resource path onto the base URL and appends the page-size
// parameter.
func (c *Client) listURL(path string) string {
	return c.url(path) + "?" + c.PageSizeParam()
}

// doXML performs one round trip and returns the raw response body plus the
// response headers. Non-2xx responses are mapped to typed errors; transport
// failures are surfaced to the caller with wrapping only. There are no
// retries: failure semantics belong to the remote service or to the caller.
func (c *Client) doXML(ctx context.Context, method, rawURL string, body any) ([]byte, http.Header, error) {
	endpoint := endpointLabel(rawURL)

	startTime := time.Now()
	defer func() {
		billingRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	if c.rateLimiter != nil {
		allowed, err := c.rateLimiter.ShouldAllowRequest(ctx)
		if err != nil {
			c.logger.Error().Err(err).Msg("Rate limit check failed")
			return nil, nil, fmt.Errorf("rate limit check: %w", err)
		}
		if !allowed {
			c.logger.Warn().
				Str("endpoint", endpoint).
				Msg("Request blocked by rate limiter")
			billingRequestsTotal.WithLabelValues(endpoint, "rate_limited").Inc()
			return nil, nil, fmt.Errorf("request blocked: rate limit critical")
		}
	}

	var reqBody io.Reader
	if body != nil {
		data, err := xml.Marshal(body)
		if err != nil {
			return nil, nil, fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(append([]byte(xml.Header), data...))
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
	if err != nil {
		return nil, nil, fmt.Errorf("create request: %w", err)
	}

	req.SetBasicAuth(c.config.APIKey, "")
	req.Header.Set("Accept", "application/xml")
	req.Header.Set("Content-Type", "application/xml; charset=utf-8")
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("method", method).
		Msg("Executing billing request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("HTTP request failed")
		billingErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		billingRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		return nil, nil, fmt.Errorf("billing request: %w", err)
	}
	defer resp.Body.Close()

	if c.rateLimiter != nil {
		if err := c.rateLimiter.UpdateFromHeaders(ctx, resp.Header); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to update rate limit from headers")
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		billingErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		return nil, resp.Header, fmt.Errorf("read response body: %w", err)
	}

	billingRequestsTotal.WithLabelValues(endpoint, fmt.Sprintf("%d", resp.StatusCode)).Inc()

	if resp.StatusCode >= 400 {
		errClass := classifyStatus(resp.StatusCode)
		billingErrorsTotal.WithLabelValues(string(errClass)).Inc()

		c.logger.Warn().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Str("error_class", string(errClass)).
			Msg("Billing request error")

		return nil, resp.Header, c.errorFromResponse(endpoint, resp.StatusCode, data)
	}

	return data, resp.Header, nil
}

// do performs one round trip, marshalling body (when non-nil) and decoding
// the XML response into out (when non-nil).
func (c *Client) do(ctx context.Context, method, rawURL string, body, out any) error {
	data, _, err := c.doXML(ctx, method, rawURL, body)
	if err != nil {
		return err
	}

	if out != nil && len(data) > 0 {
		if err := xml.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}

// PageXML performs a GET against a fully qualified URL and returns the raw
// body and headers. It implements pagination.Doer so that pages can follow
// their prev/next links through the client.
func (c *Client) PageXML(ctx context.Context, rawURL string) ([]byte, http.Header, error) {
	return c.doXML(ctx, http.MethodGet, rawURL, nil)
}

// endpointLabel reduces a request URL to its path for use as a metric label.
func endpointLabel(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Path
}
