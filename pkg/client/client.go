// Package client provides the YouTube Data API v3 HTTP client with response
// caching, quota accounting, and error classification.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/yt-harvest/pkg/cache"
	"github.com/Sternrassler/yt-harvest/pkg/pagination"
	"github.com/Sternrassler/yt-harvest/pkg/quota"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the YouTube Data API v3 root.
const DefaultBaseURL = "https://www.googleapis.com/youtube/v3"

// MaxPageSize is the largest maxResults most list endpoints accept.
const MaxPageSize = 50

// Prometheus metrics for API requests.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "youtube_requests_total",
		Help: "Total YouTube API requests by resource and status",
	}, []string{"resource", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "youtube_request_duration_seconds",
		Help:    "YouTube API request duration in seconds by resource",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"resource"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "youtube_errors_total",
		Help: "Total YouTube API errors by class",
	}, []string{"class"})
)

// Client is the YouTube Data API client.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	cache      *cache.Manager
	quota      *quota.Tracker
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// APIKey is the Data API key (REQUIRED).
	APIKey string

	// BaseURL of the API (default DefaultBaseURL).
	BaseURL string

	// UserAgent header sent with every request.
	UserAgent string

	// Timeout per HTTP request.
	Timeout time.Duration

	// MaxResults is the page size for list calls (1..50).
	MaxResults int

	// Redis enables the response cache and quota accounting. Optional.
	Redis *redis.Client

	// CacheRetention is how long responses stay cached for revalidation.
	CacheRetention time.Duration

	// DailyQuota is the project's daily unit budget, used for reporting only.
	DailyQuota int64
}

// DefaultConfig returns a default configuration for apiKey.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:         apiKey,
		BaseURL:        DefaultBaseURL,
		UserAgent:      "yt-harvest/0.1.0",
		Timeout:        30 * time.Second,
		MaxResults:     MaxPageSize,
		CacheRetention: cache.DefaultRetention,
		DailyQuota:     quota.DefaultDailyLimit,
	}
}

// New creates a new YouTube client.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrAPIKeyRequired
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	baseURL, err := url.Parse(cfg.BaseURL)
	if err != nil || baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, cfg.BaseURL)
	}

	if cfg.MaxResults < 1 || cfg.MaxResults > MaxPageSize {
		return nil, fmt.Errorf("%w: must be between 1 and %d (got %d)", ErrInvalidMaxResults, MaxPageSize, cfg.MaxResults)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	logger := log.With().Str("component", "youtube-client").Logger()

	c := &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: baseURL,
		config:  cfg,
		logger:  logger,
	}

	if cfg.Redis != nil {
		c.cache = cache.NewManager(cfg.Redis, cfg.CacheRetention)
		c.quota = quota.NewTracker(cfg.Redis, cfg.APIKey, cfg.DailyQuota, logger)
	}

	return c, nil
}

// Do performs an HTTP request with caching, quota accounting, and error handling.
// Any response other than 200 or a 304 answered from cache is returned as *APIError.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	resource := path.Base(req.URL.Path)

	startTime := time.Now()
	defer func() {
		requestDuration.WithLabelValues(resource).Observe(time.Since(startTime).Seconds())
	}()

	// Look up a cached response to revalidate
	cacheKey := cache.Key{Resource: resource, Query: req.URL.Query()}
	var cached *cache.Entry
	if c.cache != nil {
		entry, err := c.cache.Get(ctx, cacheKey)
		if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
			c.logger.Warn().Err(err).Str("resource", resource).Msg("Cache get error")
		}
		if cache.ShouldRevalidate(entry) {
			cached = entry
			cache.AddConditionalHeaders(req, entry)
			c.logger.Debug().
				Str("resource", resource).
				Str("etag", entry.ETag).
				Msg("Making conditional request")
		}
	}

	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("resource", resource).
		Str("method", req.Method).
		Msg("Executing YouTube request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("resource", resource).Msg("HTTP request failed")
		errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		requestsTotal.WithLabelValues(resource, "network_error").Inc()
		return nil, &APIError{Class: ErrorClassNetwork, Message: "request " + resource, Err: err}
	}

	requestsTotal.WithLabelValues(resource, strconv.Itoa(resp.StatusCode)).Inc()

	if c.quota != nil {
		if _, err := c.quota.Record(ctx, resource); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to record quota usage")
		}
	}

	// 304 Not Modified: serve the cached body
	if resp.StatusCode == http.StatusNotModified && cached != nil {
		resp.Body.Close()
		cache.NotModifiedResponses.Inc()
		if err := c.cache.Touch(ctx, cacheKey); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to refresh cache entry")
		}
		c.logger.Debug().Str("resource", resource).Msg("304 Not Modified - using cache")
		return cache.EntryToResponse(cached, req), nil
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		apiErr := parseErrorBody(resp.StatusCode, body)
		errorsTotal.WithLabelValues(string(apiErr.Class)).Inc()

		c.logger.Warn().
			Str("resource", resource).
			Int("status", resp.StatusCode).
			Str("error_class", string(apiErr.Class)).
			Str("reason", apiErr.Reason).
			Msg("YouTube request error")

		return nil, apiErr
	}

	if c.cache != nil && resp.Header.Get("ETag") != "" {
		entry, err := cache.ResponseToEntry(resp)
		if err != nil {
			c.logger.Warn().Err(err).Msg("Failed to create cache entry")
		} else if err := c.cache.Set(ctx, cacheKey, entry); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to cache response")
		} else {
			c.logger.Debug().
				Str("resource", resource).
				Str("etag", entry.ETag).
				Msg("Cached response")
		}
	}

	return resp, nil
}

// Get performs a GET request on resource with params and returns the body.
// The API key is added to params.
func (c *Client) Get(ctx context.Context, resource string, params url.Values) ([]byte, error) {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + resource

	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("key", c.config.APIKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", resource, err)
	}
	return body, nil
}

// list performs a GET request on a list resource and decodes the page.
func (c *Client) list(ctx context.Context, resource string, params url.Values) (pagination.Page, error) {
	body, err := c.Get(ctx, resource, params)
	if err != nil {
		return pagination.Page{}, err
	}
	return pagination.DecodePage(body)
}

// Close releases idle connections. The Redis client belongs to the caller.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// GetCache returns the cache manager, nil when caching is disabled.
func (c *Client) GetCache() *cache.Manager {
	return c.cache
}

// Quota returns today's recorded quota usage. Without Redis it reports an
// empty usage.
func (c *Client) Quota(ctx context.Context) (quota.Usage, error) {
	if c.quota == nil {
		return quota.Usage{Limit: c.config.DailyQuota}, nil
	}
	return c.quota.Usage(ctx)
}
