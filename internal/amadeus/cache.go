package amadeus

import (
	"context"
	"sync"
	"time"

	"github.com/Kiran-230202/Otelier-Explorer/internal/models"
)

type cacheEntry struct {
	recs    []Record
	expiry  time.Time
	ready   bool
	waiters []chan recordsOrErr
}

type recordsOrErr struct {
	recs []Record
	err  error
}

// OffersCache sits in front of a Client and collapses concurrent identical
// queries into one upstream call. Errors are delivered to all waiters but
// never cached.
type OffersCache struct {
	mu     sync.Mutex
	ttl    time.Duration
	items  map[string]*cacheEntry
	source func(ctx context.Context, q models.SearchQuery) ([]Record, error)
	onHit  func()
}

func NewOffersCache(ttl time.Duration, source func(ctx context.Context, q models.SearchQuery) ([]Record, error)) *OffersCache {
	return &OffersCache{ttl: ttl, items: make(map[string]*cacheEntry), source: source}
}

// OnHit registers a hook invoked on every cache hit.
func (c *OffersCache) OnHit(fn func()) { c.onHit = fn }

func (c *OffersCache) FetchOffers(ctx context.Context, q models.SearchQuery) ([]Record, error) {
	key := q.CacheKey()

	c.mu.Lock()
	entry, found := c.items[key]
	now := time.Now()

	if found && entry.ready && now.Before(entry.expiry) {
		recs := entry.recs
		c.mu.Unlock()
		if c.onHit != nil {
			c.onHit()
		}
		return recs, nil
	}

	// Collapse: if a computation is in flight, join its waiters.
	if found && !entry.ready {
		ch := make(chan recordsOrErr, 1)
		entry.waiters = append(entry.waiters, ch)
		c.mu.Unlock()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case r := <-ch:
			return r.recs, r.err
		}
	}

	entry = &cacheEntry{}
	c.items[key] = entry
	c.mu.Unlock()

	recs, err := c.source(ctx, q)

	c.mu.Lock()
	if err != nil {
		// Failed lookups are not cached; drop the entry so the next
		// call retries.
		delete(c.items, key)
	} else {
		entry.recs = recs
		entry.expiry = now.Add(c.ttl)
		entry.ready = true
	}
	waiters := entry.waiters
	entry.waiters = nil
	c.mu.Unlock()

	result := recordsOrErr{recs: recs, err: err}
	for _, w := range waiters {
		w <- result
		close(w)
	}

	return recs, err
}
