package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"campstation/internal/app/policies"
)

// sweepInterval spaces out full scans for expired entries.
const sweepInterval = time.Minute

type quoteEntry struct {
	payload   []byte
	expiresAt time.Time
}

func (e quoteEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// QuoteCache keeps encoded quotes in process memory with a per-entry TTL.
// Expired entries are dropped on read and by a sweep that runs on writes.
type QuoteCache struct {
	mu          sync.RWMutex
	entries     map[string]quoteEntry
	generations map[int64]int64
	nextSweep   time.Time
	now         func() time.Time
}

func NewQuoteCache() *QuoteCache {
	return &QuoteCache{
		entries:     make(map[string]quoteEntry),
		generations: make(map[int64]int64),
		now:         time.Now,
	}
}

func (c *QuoteCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if entry.expired(c.now()) {
		c.mu.Lock()
		if cur, still := c.entries[key]; still && cur.expired(c.now()) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}
	return entry.payload, true, nil
}

func (c *QuoteCache) Generation(_ context.Context, siteID int64) (int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generations[siteID], nil
}

// Set stores payload when siteID is still at generation. A non-positive ttl
// keeps the entry until invalidated.
func (c *QuoteCache) Set(_ context.Context, siteID, generation int64, key string, payload []byte, ttl time.Duration) (bool, error) {
	now := c.now()
	entry := quoteEntry{payload: append([]byte(nil), payload...)}
	if ttl > 0 {
		entry.expiresAt = now.Add(ttl)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweepLocked(now)
	if c.generations[siteID] != generation {
		return false, nil
	}
	c.entries[key] = entry
	return true, nil
}

func (c *QuoteCache) InvalidateSite(_ context.Context, siteID int64) (int, error) {
	prefix := policies.QuoteKeyPrefix(siteID)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[siteID]++
	removed := 0
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed, nil
}

func (c *QuoteCache) sweepLocked(now time.Time) {
	if now.Before(c.nextSweep) {
		return
	}
	for key, entry := range c.entries {
		if entry.expired(now) {
			delete(c.entries, key)
		}
	}
	c.nextSweep = now.Add(sweepInterval)
}

var _ policies.QuoteCache = (*QuoteCache)(nil)
