// Package cache provides the in-memory feed cache keyed by request date.
//
// Entries are fresh until their expiry and are never served afterwards. By
// default stale entries stay in memory until the same date is fetched again;
// a background sweeper and an entry cap can be enabled to bound growth.
package cache

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/star/neodash/internal/metrics"
	"github.com/star/neodash/internal/neo"
)

// DefaultTTL is how long a fetched feed is served from memory.
const DefaultTTL = 5 * time.Minute

// Config holds cache configuration.
type Config struct {
	TTL           time.Duration // Entry lifetime (default: 5m)
	SweepInterval time.Duration // How often Start removes expired entries; 0 disables
	MaxEntries    int           // Cap on stored dates; 0 means unbounded
}

// CacheEntry holds one date's payload and its absolute expiry.
type CacheEntry struct {
	Feed      *neo.Feed
	ExpiresAt time.Time
}

// fresh reports whether the entry may still be served at now.
func (e *CacheEntry) fresh(now time.Time) bool {
	return e.ExpiresAt.After(now)
}

// FeedCache is an in-memory cache of feed payloads keyed by date string.
// Safe for concurrent use by multiple goroutines.
type FeedCache struct {
	mu      sync.RWMutex
	entries map[string]*CacheEntry

	config Config
	logger *slog.Logger
	now    func() time.Time

	// Counters (lock-free).
	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// NewFeedCache creates an empty cache.
func NewFeedCache(config Config, logger *slog.Logger) *FeedCache {
	if config.TTL <= 0 {
		config.TTL = DefaultTTL
	}

	logger = logger.With("component", "cache")
	logger.Info("cache initialized",
		"ttl_seconds", config.TTL.Seconds(),
		"sweep_interval_seconds", config.SweepInterval.Seconds(),
		"max_entries", config.MaxEntries,
	)

	return &FeedCache{
		entries: make(map[string]*CacheEntry),
		config:  config,
		logger:  logger,
		now:     time.Now,
	}
}

// TTL returns the configured entry lifetime.
func (c *FeedCache) TTL() time.Duration {
	return c.config.TTL
}

// Get returns the payload stored for date if its expiry is strictly after the
// current time. Expired entries are left in place.
func (c *FeedCache) Get(date string) (*neo.Feed, bool) {
	feed, ok := c.lookup(date)
	if ok {
		c.hits.Add(1)
		metrics.IncCacheHits()
		return feed, true
	}

	c.misses.Add(1)
	metrics.IncCacheMisses()
	return nil, false
}

// Peek is Get without touching the hit and miss counters.
func (c *FeedCache) Peek(date string) (*neo.Feed, bool) {
	return c.lookup(date)
}

func (c *FeedCache) lookup(date string) (*neo.Feed, bool) {
	now := c.now()

	c.mu.RLock()
	entry, ok := c.entries[date]
	c.mu.RUnlock()

	if ok && entry.fresh(now) {
		return entry.Feed, true
	}
	return nil, false
}

// Put stores feed under date with expiry now+TTL, replacing any previous entry.
func (c *FeedCache) Put(date string, feed *neo.Feed) {
	now := c.now()
	entry := &CacheEntry{
		Feed:      feed,
		ExpiresAt: now.Add(c.config.TTL),
	}

	var evicted int
	c.mu.Lock()
	if _, exists := c.entries[date]; !exists && c.config.MaxEntries > 0 {
		for len(c.entries) >= c.config.MaxEntries {
			c.evictEarliestLocked()
			evicted++
		}
	}
	c.entries[date] = entry
	count := len(c.entries)
	c.mu.Unlock()

	if evicted > 0 {
		c.evictions.Add(int64(evicted))
		metrics.AddCacheEvictions(evicted)
		c.logger.Debug("cache at capacity, evicted oldest", "entries_removed", evicted)
	}
	metrics.SetCacheEntries(count)
}

// evictEarliestLocked removes the entry closest to (or furthest past) expiry.
// Caller must hold mu for writing.
func (c *FeedCache) evictEarliestLocked() {
	var victim string
	var earliest time.Time
	for date, e := range c.entries {
		if earliest.IsZero() || e.ExpiresAt.Before(earliest) {
			victim = date
			earliest = e.ExpiresAt
		}
	}
	delete(c.entries, victim)
}

// Stats returns current cache statistics.
func (c *FeedCache) Stats() Stats {
	c.mu.RLock()
	count := len(c.entries)

	var oldest, newest time.Time
	for _, e := range c.entries {
		if oldest.IsZero() || e.ExpiresAt.Before(oldest) {
			oldest = e.ExpiresAt
		}
		if newest.IsZero() || e.ExpiresAt.After(newest) {
			newest = e.ExpiresAt
		}
	}
	c.mu.RUnlock()

	return Stats{
		Entries:         count,
		OldestExpiresAt: oldest,
		NewestExpiresAt: newest,
		Hits:            c.hits.Load(),
		Misses:          c.misses.Load(),
		Evictions:       c.evictions.Load(),
	}
}

// Stats holds cache statistics.
type Stats struct {
	Entries         int
	OldestExpiresAt time.Time
	NewestExpiresAt time.Time
	Hits            int64
	Misses          int64
	Evictions       int64
}
