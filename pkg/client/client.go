// Package client provides the SWAPI HTTP client: a cache-checked GET
// primitive and next-link pagination following on top of it.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/swapi-export/pkg/cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Defaults for Config.
const (
	DefaultBaseURL   = "https://swapi.dev/api"
	DefaultUserAgent = "swapi-export/0.1.0"
	DefaultTimeout   = 30 * time.Second
)

// Prometheus metrics for SWAPI client operations.
var (
	swapiRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "swapi_requests_total",
		Help: "Total SWAPI requests by status",
	}, []string{"status"})

	swapiRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "swapi_request_duration_seconds",
		Help:    "SWAPI network request duration in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	})

	swapiErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "swapi_errors_total",
		Help: "Total SWAPI errors by class",
	}, []string{"class"})

	swapiPagesFetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "swapi_pages_fetched_total",
		Help: "Total number of collection pages read, cached or not",
	})
)

// Client is the SWAPI client.
type Client struct {
	httpClient *http.Client
	store      cache.Store
	baseURL    string
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL is prepended to endpoint paths (e.g. "https://swapi.dev/api")
	BaseURL string

	// User-Agent header sent with every request
	UserAgent string

	// Timeout for a single HTTP round trip
	Timeout time.Duration

	// Store is the response cache. Its lifetime is owned by the caller.
	Store cache.Store
}

// DefaultConfig returns a default configuration around the given store.
func DefaultConfig(store cache.Store) Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		UserAgent: DefaultUserAgent,
		Timeout:   DefaultTimeout,
		Store:     store,
	}
}

// New creates a new SWAPI client.
func New(cfg Config) (*Client, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("cache store is required")
	}

	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}

	if u, err := url.Parse(cfg.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q is not an absolute url", cfg.BaseURL)
	}

	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		store:   cfg.Store,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		config:  cfg,
		logger:  log.With().Str("component", "swapi-client").Logger(),
	}, nil
}

// EndpointURL joins the configured base URL and an endpoint path.
func (c *Client) EndpointURL(endpoint string) string {
	return c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
}

// Get performs a cache-checked GET of rawURL.
//
// On a cache hit the stored body is returned without network I/O. On a miss
// the body is fetched, checked to be JSON, stored verbatim and returned.
func (c *Client) Get(ctx context.Context, rawURL string) (json.RawMessage, error) {
	entry, err := c.store.Get(ctx, rawURL)
	switch {
	case err == nil:
		c.logger.Debug().Str("url", rawURL).Bool("cache_hit", true).Msg("Cache hit")
		swapiRequestsTotal.WithLabelValues("cache_hit").Inc()
		return json.RawMessage(entry.Data), nil
	case errors.Is(err, cache.ErrCacheMiss):
		c.logger.Debug().Str("url", rawURL).Bool("cache_hit", false).Msg("Cache miss")
	default:
		c.logger.Warn().Err(err).Str("url", rawURL).Msg("Cache get error")
	}

	entry, err = c.fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	if err := c.store.Set(ctx, rawURL, entry); err != nil {
		c.logger.Warn().Err(err).Str("url", rawURL).Msg("Failed to cache response")
	}

	return json.RawMessage(entry.Data), nil
}

// fetch performs the network round trip for a cache miss.
func (c *Client) fetch(ctx context.Context, rawURL string) (*cache.Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("url", rawURL).Str("method", req.Method).Msg("Executing SWAPI request")

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	swapiRequestDuration.Observe(time.Since(startTime).Seconds())
	if err != nil {
		c.logger.Error().Err(err).Str("url", rawURL).Msg("HTTP request failed")
		swapiErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		swapiRequestsTotal.WithLabelValues("network_error").Inc()
		return nil, &TransportError{
			URL:        rawURL,
			ErrorClass: ErrorClassNetwork,
			Message:    "request failed",
			Err:        err,
		}
	}
	defer resp.Body.Close()

	swapiRequestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errClass := ClassifyStatus(resp.StatusCode)
		swapiErrorsTotal.WithLabelValues(string(errClass)).Inc()

		c.logger.Warn().
			Str("url", rawURL).
			Int("status_code", resp.StatusCode).
			Str("error_class", string(errClass)).
			Msg("SWAPI request error")

		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)

		return nil, &TransportError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			ErrorClass: errClass,
			Message:    resp.Status,
		}
	}

	entry, err := cache.ResponseToEntry(resp)
	if err != nil {
		swapiErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		return nil, &TransportError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			ErrorClass: ErrorClassNetwork,
			Message:    "read body",
			Err:        err,
		}
	}
	entry.URL = rawURL

	if !json.Valid(entry.Data) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidJSON, rawURL)
	}

	return entry, nil
}

// page is the envelope of a SWAPI collection response.
type page struct {
	Results []json.RawMessage `json:"results"`
	Next    *string           `json:"next"`
}

// FetchAll reads every page of endpoint, following next links until none
// remains. Items are returned in page order, then in-page order.
func (c *Client) FetchAll(ctx context.Context, endpoint string) ([]json.RawMessage, error) {
	next := c.EndpointURL(endpoint)
	seen := make(map[string]struct{})
	var items []json.RawMessage

	for next != "" {
		if _, ok := seen[next]; ok {
			return nil, fmt.Errorf("%w: %s", ErrPaginationLoop, next)
		}
		seen[next] = struct{}{}

		c.logger.Debug().Str("url", next).Int("page", len(seen)).Msg("Getting page")

		body, err := c.Get(ctx, next)
		if err != nil {
			return nil, err
		}

		var p page
		if err := json.Unmarshal(body, &p); err != nil {
			return nil, fmt.Errorf("decode page %s: %w", next, err)
		}
		swapiPagesFetched.Inc()

		items = append(items, p.Results...)

		next = ""
		if p.Next != nil {
			next = *p.Next
		}
	}

	c.logger.Info().
		Str("endpoint", endpoint).
		Int("pages", len(seen)).
		Int("items", len(items)).
		Msg("Fetch complete")

	return items, nil
}

// FetchOne reads a single resource. No pagination is followed.
func (c *Client) FetchOne(ctx context.Context, rawURL string) (json.RawMessage, error) {
	return c.Get(ctx, rawURL)
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// Store returns the cache store (for testing).
func (c *Client) Store() cache.Store {
	return c.store
}
