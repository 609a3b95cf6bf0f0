package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"golang.org/x/text/language"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.HTTP.Addr == "" {
		return errors.New("http.addr is required")
	}

	u, err := url.Parse(c.Feed.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("feed.base_url must be an absolute http(s) URL, got %q", c.Feed.BaseURL)
	}
	if c.Feed.APIKey == "" {
		return errors.New("feed.api_key is required")
	}
	if c.Feed.Timeout <= 0 {
		return errors.New("feed.timeout must be > 0")
	}
	if c.Feed.MaxBodyBytes < 1 {
		return errors.New("feed.max_body_bytes must be >= 1")
	}

	if c.Cache.TTL <= 0 {
		return errors.New("cache.ttl must be > 0")
	}
	if c.Cache.SweepInterval < 0 {
		return errors.New("cache.sweep_interval must be >= 0")
	}
	if c.Cache.MaxEntries < 0 {
		return errors.New("cache.max_entries must be >= 0")
	}

	if _, err := language.Parse(c.Dashboard.Locale); err != nil {
		return fmt.Errorf("dashboard.locale %q is not a valid language tag: %w", c.Dashboard.Locale, err)
	}
	if _, err := time.Parse(time.DateOnly, c.Dashboard.DefaultDate); err != nil {
		return fmt.Errorf("dashboard.default_date must be YYYY-MM-DD, got %q", c.Dashboard.DefaultDate)
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}

	return nil
}

// SlogLevel parses Level ("debug", "info", "warn", "error").
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level %q is invalid: %w", l.Level, err)
	}
	return level, nil
}
