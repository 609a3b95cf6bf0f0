package cache

import (
	"context"
	"time"

	"github.com/star/neodash/internal/metrics"
)

// evictExpired removes entries whose expiry is not after now.
func (c *FeedCache) evictExpired() int {
	now := c.now()
	var removed int

	c.mu.Lock()
	for date, e := range c.entries {
		if !e.fresh(now) {
			delete(c.entries, date)
			removed++
		}
	}
	count := len(c.entries)
	c.mu.Unlock()

	if removed > 0 {
		c.evictions.Add(int64(removed))
		metrics.AddCacheEvictions(removed)
		metrics.SetCacheEntries(count)
		c.logger.Debug("cache eviction", "entries_removed", removed)
	}

	return removed
}

// Start runs the expiry sweeper until ctx is cancelled. It returns at once
// when SweepInterval is zero.
func (c *FeedCache) Start(ctx context.Context) {
	if c.config.SweepInterval <= 0 {
		return
	}

	ticker := time.NewTicker(c.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("cache sweeper stopped")
			return
		case <-ticker.C:
			c.evictExpired()
		}
	}
}
