package pricefeed

import (
	"sync"
	"time"

	"github.com/mtlprog/zakat/internal/domain"
)

type cacheEntry struct {
	table     domain.PriceTable
	fetchedAt time.Time
	expiresAt time.Time
}

// tableCache keeps the last good table per key. Entries past their TTL are
// still returned, marked stale, so callers can fall back to them.
type tableCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry
}

func newTableCache(ttl time.Duration) *tableCache {
	return &tableCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

// get returns the table cached for key and whether it is still within its TTL.
func (c *tableCache) get(key string) (entry cacheEntry, fresh, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok = c.entries[key]
	if !ok {
		return cacheEntry{}, false, false
	}
	return entry, !time.Now().After(entry.expiresAt), true
}

func (c *tableCache) set(key string, table domain.PriceTable, fetchedAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		table:     table,
		fetchedAt: fetchedAt,
		expiresAt: time.Now().Add(c.ttl),
	}
}
