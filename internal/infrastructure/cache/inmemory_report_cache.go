package cache

import (
	"context"
	"sync"
	"time"

	"github.com/bookstore/backend/internal/domain/analytics"
)

// InMemoryReportCache implements the report cache with in-process storage.
// Suitable for single-instance deployments and testing; entries are not
// shared across processes.
type InMemoryReportCache struct {
	mu      sync.RWMutex
	entries map[string]reportEntry
	ttl     time.Duration
}

type reportEntry struct {
	points    []analytics.RevenuePoint
	expiresAt time.Time
}

// NewInMemoryReportCache creates a new in-memory report cache.
// A non-positive TTL disables caching entirely.
func NewInMemoryReportCache(ttl time.Duration) *InMemoryReportCache {
	return &InMemoryReportCache{
		entries: make(map[string]reportEntry),
		ttl:     ttl,
	}
}

// Get retrieves a cached series, reporting a miss for expired entries
func (c *InMemoryReportCache) Get(ctx context.Context, key string) ([]analytics.RevenuePoint, bool) {
	if c.ttl <= 0 {
		return nil, false
	}

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return entry.points, true
}

// Set stores a series under the given key
func (c *InMemoryReportCache) Set(ctx context.Context, key string, points []analytics.RevenuePoint) {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	c.entries[key] = reportEntry{
		points:    points,
		expiresAt: time.Now().Add(c.ttl),
	}
	c.mu.Unlock()
}
