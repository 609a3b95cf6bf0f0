package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Load reads a YAML config file, expanding ${VAR} references, on top of the
// defaults. Keys absent from the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}
	cfg.applyDefaults()

	return cfg, nil
}

// LoadFromEnvironment builds the runtime configuration: .env (if present),
// then the YAML file named by NEODASH_CONFIG (if set), then environment
// overrides, then validation.
func LoadFromEnvironment(logger *slog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("could not load .env file", "error", err)
	}

	cfg := Default()
	if path := os.Getenv("NEODASH_CONFIG"); path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
		logger.Info("loaded config file", "path", path)
	}

	cfg.applyEnv(logger)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// applyEnv overrides fields from environment variables. Invalid values are
// logged and ignored.
func (c *Config) applyEnv(logger *slog.Logger) {
	if v := os.Getenv("NEODASH_HTTP_ADDR"); v != "" {
		c.HTTP.Addr = v
	}

	if v := os.Getenv("NEODASH_TRUST_PROXY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			logger.Warn("invalid NEODASH_TRUST_PROXY value, keeping current", "value", v, "current", c.HTTP.TrustProxy)
		} else {
			c.HTTP.TrustProxy = b
		}
	}

	if v := os.Getenv("NEODASH_FEED_URL"); v != "" {
		c.Feed.BaseURL = v
	}

	if v := os.Getenv("NASA_API_KEY"); v != "" {
		c.Feed.APIKey = v
	}

	c.Feed.Timeout = envSeconds(logger, "NEODASH_FEED_TIMEOUT", c.Feed.Timeout, 1)
	c.Cache.TTL = envSeconds(logger, "NEODASH_CACHE_TTL", c.Cache.TTL, 1)
	c.Cache.SweepInterval = envSeconds(logger, "NEODASH_CACHE_SWEEP_INTERVAL", c.Cache.SweepInterval, 0)

	if v := os.Getenv("NEODASH_CACHE_MAX_ENTRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			logger.Warn("invalid NEODASH_CACHE_MAX_ENTRIES value, keeping current", "value", v, "current", c.Cache.MaxEntries)
		} else {
			c.Cache.MaxEntries = n
		}
	}

	if v := os.Getenv("NEODASH_LOCALE"); v != "" {
		c.Dashboard.Locale = v
	}

	if v := os.Getenv("NEODASH_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// envSeconds reads a whole number of seconds no smaller than floor.
func envSeconds(logger *slog.Logger, name string, current time.Duration, floor int) time.Duration {
	v := os.Getenv(name)
	if v == "" {
		return current
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < floor {
		logger.Warn("invalid "+name+" value, keeping current", "value", v, "current_seconds", current.Seconds())
		return current
	}
	return time.Duration(n) * time.Second
}
