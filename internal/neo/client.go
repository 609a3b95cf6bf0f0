// Package neo is a client for the NASA NeoWs feed. It fetches one day of
// near-Earth objects and flattens each record into an Asteroid.
package neo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/star/neodash/internal/metrics"
)

const (
	DefaultBaseURL      = "https://api.nasa.gov/neo/rest/v1/feed"
	DefaultTimeout      = 30 * time.Second
	DefaultMaxBodyBytes = 10 << 20
)

// ClientConfig holds feed client settings.
type ClientConfig struct {
	BaseURL      string        // Feed endpoint (default: DefaultBaseURL)
	Timeout      time.Duration // Whole round trip (default: DefaultTimeout)
	MaxBodyBytes int64         // Response size cap (default: 10 MiB)
}

// Client retrieves and normalizes feed data.
type Client struct {
	baseURL      string
	maxBodyBytes int64
	httpClient   *http.Client
	logger       *slog.Logger
}

// NewClient creates a Client. Zero-valued config fields fall back to defaults.
func NewClient(cfg ClientConfig, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return &Client{
		baseURL:      cfg.BaseURL,
		maxBodyBytes: cfg.MaxBodyBytes,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.With("component", "neo"),
	}
}

// BaseURL returns the configured feed endpoint.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// BuildURL returns the feed URL for a single-day window with the key as a
// query credential. The date is not validated.
func BuildURL(base, date, apiKey string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing feed url: %w", err)
	}
	q := u.Query()
	q.Set("start_date", date)
	q.Set("end_date", date)
	q.Set("api_key", apiKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// FetchDate performs one GET for date and returns its normalized records.
// A non-2xx response yields *UpstreamError. A missing date key in the body
// yields an empty list. The caller is expected to have validated date.
func (c *Client) FetchDate(ctx context.Context, date, apiKey string) ([]Asteroid, error) {
	feedURL, err := BuildURL(c.baseURL, date, apiKey)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveUpstream(0, time.Since(start))
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = redactKey(urlErr.URL)
		}
		return nil, fmt.Errorf("fetching feed for %s: %w", date, err)
	}
	defer resp.Body.Close()
	metrics.ObserveUpstream(resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("feed returned non-success status", "date", date, "status", resp.StatusCode)
		return nil, newUpstreamError(resp.StatusCode)
	}

	// Read one extra byte so an oversized body is detectable.
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if int64(len(body)) > c.maxBodyBytes {
		return nil, fmt.Errorf("feed response exceeds %d byte limit", c.maxBodyBytes)
	}

	var parsed feedResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decoding feed response: %w", err)
	}

	asteroids := NormalizeAll(parsed.NearEarthObjects[date])
	c.logger.Debug("feed fetched", "date", date, "count", len(asteroids), "duration_ms", time.Since(start).Milliseconds())
	return asteroids, nil
}

// redactKey masks the api_key query value so errors can be logged.
func redactKey(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	if q.Has("api_key") {
		q.Set("api_key", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
