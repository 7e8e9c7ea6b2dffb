package api

import (
	"sync"
	"time"

	"lostark-market/internal/widetable"
)

// tableCache keeps recently loaded wide tables for a short window so rapid
// repeated interactions do not re-read unchanged files. It is a convenience,
// not a correctness mechanism; entries simply expire.
type tableCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
}

type cacheEntry struct {
	table    *widetable.Table
	loadedAt time.Time
}

func newTableCache(ttl time.Duration) *tableCache {
	return &tableCache{ttl: ttl, entries: make(map[string]cacheEntry)}
}

func (c *tableCache) get(key string, load func() (*widetable.Table, error)) (*widetable.Table, error) {
	c.mu.Lock()
	entry, ok := c.entries[key]
	c.mu.Unlock()
	if ok && time.Since(entry.loadedAt) < c.ttl {
		return entry.table, nil
	}

	t, err := load()
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.entries[key] = cacheEntry{table: t, loadedAt: time.Now()}
	c.mu.Unlock()
	return t, nil
}

// invalidate drops one category's entry; the file watcher calls this when a
// collection run rewrites the table.
func (c *tableCache) invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}
