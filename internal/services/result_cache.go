package services

import (
	"sync"
	"time"

	"github.com/lankalotto/ticket-validator/internal/metrics"
	"github.com/lankalotto/ticket-validator/internal/models"
	"golang.org/x/exp/slog"
)

// DefaultResultTTL is how long a verdict stays retrievable
const DefaultResultTTL = 300 * time.Second

type cacheEntry struct {
	verdict   models.Verdict
	createdAt time.Time
}

// ResultCache holds finished verdicts for a fixed time. Expired entries are
// swept whenever the cache is touched; there is no background sweeper.
type ResultCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
	closed  bool
	nowFn   func() time.Time
}

// NewResultCache creates a new ResultCache
func NewResultCache(ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = DefaultResultTTL
	}
	return &ResultCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		nowFn:   time.Now,
	}
}

// Store caches a verdict under id, replacing any earlier one.
func (c *ResultCache) Store(id string, verdict models.Verdict) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	now := c.nowFn()
	c.sweepLocked(now)
	c.entries[id] = cacheEntry{verdict: verdict, createdAt: now}
	metrics.SetCachedVerdicts(len(c.entries))
	slog.Info("Stored verdict", "id", id, "state", models.StateCached)
}

// Get returns the verdict stored under id if it has not expired.
func (c *ResultCache) Get(id string) (models.Verdict, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return models.Verdict{}, false
	}

	c.sweepLocked(c.nowFn())
	entry, ok := c.entries[id]
	if !ok {
		slog.Info("No verdict found", "id", id)
		return models.Verdict{}, false
	}
	return entry.verdict, true
}

// Len returns the number of entries held, including any not yet swept.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close drops every entry. Afterwards Store does nothing and Get reports
// not found.
func (c *ResultCache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.entries = make(map[string]cacheEntry)
	metrics.SetCachedVerdicts(0)
}

func (c *ResultCache) sweepLocked(now time.Time) {
	expired := 0
	for id, entry := range c.entries {
		if now.Sub(entry.createdAt) >= c.ttl {
			delete(c.entries, id)
			expired++
			slog.Debug("Verdict expired", "id", id, "state", models.StateExpired)
		}
	}
	if expired > 0 {
		metrics.SetCachedVerdicts(len(c.entries))
		slog.Info("Cleaned up expired verdicts", "count", expired)
	}
}
