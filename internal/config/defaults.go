package config

import "time"

// DefaultAPIKey is NASA's shared demonstration key. It works without sign-up
// but is rate limited far more tightly than a personal key.
const DefaultAPIKey = "DEMO_KEY"

// Default values for optional configuration fields.
const (
	DefaultAddr          = ":3001"
	DefaultFeedURL       = "https://api.nasa.gov/neo/rest/v1/feed"
	DefaultFeedTimeout   = 30 * time.Second
	DefaultMaxBodyBytes  = 10 << 20
	DefaultCacheTTL      = 5 * time.Minute
	DefaultSweepInterval = 10 * time.Minute
	DefaultLocale        = "en-US"
	DefaultDashboardDate = "2025-01-01"
	DefaultLogLevel      = "info"
)

// Default returns a Config with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.Cache.SweepInterval = DefaultSweepInterval
	return cfg
}

func (c *Config) applyDefaults() {
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = DefaultAddr
	}

	if c.Feed.BaseURL == "" {
		c.Feed.BaseURL = DefaultFeedURL
	}
	if c.Feed.APIKey == "" {
		c.Feed.APIKey = DefaultAPIKey
	}
	if c.Feed.Timeout == 0 {
		c.Feed.Timeout = DefaultFeedTimeout
	}
	if c.Feed.MaxBodyBytes == 0 {
		c.Feed.MaxBodyBytes = DefaultMaxBodyBytes
	}

	if c.Cache.TTL == 0 {
		c.Cache.TTL = DefaultCacheTTL
	}

	if c.Dashboard.Locale == "" {
		c.Dashboard.Locale = DefaultLocale
	}
	if c.Dashboard.DefaultDate == "" {
		c.Dashboard.DefaultDate = DefaultDashboardDate
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}
