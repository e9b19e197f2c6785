package core

import (
	"context"
	"sync"
	"time"
)

// FetchFunc reconstructs the full historic event table from storage.
type FetchFunc func(ctx context.Context) (EventTable, error)

// CorpusCache memoizes the reconstructed historic corpus for a bounded
// staleness window so analytics requests do not re-scan the object store
// every time. It owns all of its state; callers invalidate it synchronously
// after every successful write so the next read sees fresh data.
type CorpusCache struct {
	mu        sync.Mutex
	ttl       time.Duration
	table     EventTable
	fetchedAt time.Time
	valid     bool
}

// NewCorpusCache creates a cache with the given staleness window.
func NewCorpusCache(ttl time.Duration) *CorpusCache {
	return &CorpusCache{ttl: ttl}
}

// GetOrRefresh returns the cached table if it is still within the staleness
// window relative to now, otherwise calls fetch and caches the result.
// A failed fetch leaves the cache untouched and returns the error.
func (c *CorpusCache) GetOrRefresh(ctx context.Context, now time.Time, fetch FetchFunc) (EventTable, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.valid && now.Sub(c.fetchedAt) < c.ttl {
		return c.table, nil
	}

	table, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.table = table
	c.fetchedAt = now
	c.valid = true
	return table, nil
}

// Invalidate drops the cached table. The next GetOrRefresh will fetch.
func (c *CorpusCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
	c.table = nil
}

// Age reports how old the cached table is, and whether one is cached.
func (c *CorpusCache) Age(now time.Time) (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.valid {
		return 0, false
	}
	return now.Sub(c.fetchedAt), true
}
