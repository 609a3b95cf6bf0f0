// Package config loads neodash settings from an optional YAML file, an
// optional .env file and environment variables, in that order of precedence
// (environment wins).
package config

import "time"

// Config is the root configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Feed      FeedConfig      `yaml:"feed"`
	Cache     CacheConfig     `yaml:"cache"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Log       LogConfig       `yaml:"log"`
}

// HTTPConfig holds listener settings.
type HTTPConfig struct {
	Addr       string `yaml:"addr"`
	TrustProxy bool   `yaml:"trust_proxy"` // honor X-Forwarded-For / X-Real-IP in logs
}

// FeedConfig holds NeoWs client settings.
type FeedConfig struct {
	BaseURL      string        `yaml:"base_url"`
	APIKey       string        `yaml:"api_key"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
}

// CacheConfig holds feed cache settings.
type CacheConfig struct {
	TTL           time.Duration `yaml:"ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"` // 0 disables the sweeper
	MaxEntries    int           `yaml:"max_entries"`    // 0 means unbounded
}

// DashboardConfig holds settings for the HTML table.
type DashboardConfig struct {
	Locale      string `yaml:"locale"`
	DefaultDate string `yaml:"default_date"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `yaml:"level"`
}
