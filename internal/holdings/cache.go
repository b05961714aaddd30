package holdings

import (
	"context"
	"sync"
	"time"

	"github.com/zhenwei/fundlens/pkg/logger"
)

// DefaultTTL is the freshness window for cached holdings. Disclosed
// holdings only change quarterly; five minutes just keeps repeated
// estimate calls from hammering the provider.
const DefaultTTL = 5 * time.Minute

// Cache is a read-through cache of per-fund top holdings
// ⭐ SSOT: 基金持仓缓存只在这里
type Cache struct {
	mu       sync.RWMutex
	entries  map[string]*Entry
	ttl      time.Duration
	provider Provider
	logger   *logger.Logger

	now func() time.Time // injectable clock for tests
}

// NewCache creates a holdings cache backed by the given provider
func NewCache(provider Provider, ttl time.Duration, log *logger.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		entries:  make(map[string]*Entry),
		ttl:      ttl,
		provider: provider,
		logger:   log,
		now:      time.Now,
	}
}

// TopHoldings returns the fund's top holdings, at most topN entries,
// descending by weight. A fresh cache entry is served without touching
// the provider. On provider "no data" a stale entry is still served
// (availability over freshness); with no entry at all the result is
// empty. Only transport failures return an error.
func (c *Cache) TopHoldings(ctx context.Context, fundCode string, topN int) ([]HoldingWeight, error) {
	if cached, ok := c.fresh(fundCode); ok {
		return truncate(cached.Holdings, topN), nil
	}

	quarter, fetched, err := c.provider.FetchTopHoldings(ctx, fundCode)
	if err != nil {
		return nil, err
	}

	if len(fetched) == 0 {
		// Serve stale data over nothing
		if stale, ok := c.any(fundCode); ok {
			c.logger.WithFields(map[string]interface{}{
				"fund_code": fundCode,
				"quarter":   stale.Quarter,
			}).Warn("Provider returned no holdings, serving stale entry")
			return truncate(stale.Holdings, topN), nil
		}
		return []HoldingWeight{}, nil
	}

	entry := &Entry{
		FundCode:  fundCode,
		Quarter:   quarter,
		Holdings:  fetched,
		FetchedAt: c.now(),
	}

	c.mu.Lock()
	c.entries[fundCode] = entry
	c.mu.Unlock()

	c.logger.WithFields(map[string]interface{}{
		"fund_code": fundCode,
		"quarter":   quarter,
		"count":     len(fetched),
	}).Debug("Refreshed holdings cache")

	return truncate(entry.Holdings, topN), nil
}

// Entry returns the current cache entry for a fund, fresh or stale
func (c *Cache) Entry(fundCode string) (*Entry, bool) {
	return c.any(fundCode)
}

// Invalidate drops the cache entry for a fund
func (c *Cache) Invalidate(fundCode string) {
	c.mu.Lock()
	delete(c.entries, fundCode)
	c.mu.Unlock()
}

// Len returns the number of cached funds
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// fresh returns the entry for a fund only if it is within the TTL
func (c *Cache) fresh(fundCode string) (*Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[fundCode]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.FetchedAt) >= c.ttl {
		return nil, false
	}
	return entry, true
}

// any returns the entry for a fund regardless of freshness
func (c *Cache) any(fundCode string) (*Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[fundCode]
	return entry, ok
}

func truncate(hs []HoldingWeight, topN int) []HoldingWeight {
	if topN <= 0 || topN >= len(hs) {
		out := make([]HoldingWeight, len(hs))
		copy(out, hs)
		return out
	}
	out := make([]HoldingWeight, topN)
	copy(out, hs[:topN])
	return out
}
