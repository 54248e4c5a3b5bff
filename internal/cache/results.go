package cache

import (
	"context"
	"time"

	"github.com/TemirB/order-enrichment/internal/domain"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type memoryItem struct {
	entry     domain.CacheEntry
	expiresAt time.Time
}

// Results is the in-process ResultCache. The LRU purges expired items in
// the background; Get also checks the deadline itself so an entry is never
// served past its TTL.
type Results struct {
	lru *expirable.LRU[string, memoryItem]
	ttl time.Duration
	now func() time.Time
}

type Option func(*Results)

// WithClock replaces time.Now for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(r *Results) { r.now = now }
}

func NewResults(size int, ttl time.Duration, opts ...Option) *Results {
	r := &Results{
		lru: expirable.NewLRU[string, memoryItem](size, nil, ttl),
		ttl: ttl,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Results) Set(_ context.Context, entry domain.CacheEntry) error {
	r.lru.Add(entry.Key(), memoryItem{
		entry:     entry,
		expiresAt: r.now().Add(r.ttl),
	})
	return nil
}

func (r *Results) Get(_ context.Context, id domain.OrderID) (domain.CacheEntry, bool, error) {
	key := domain.CacheKey(id)
	item, ok := r.lru.Get(key)
	if !ok {
		return domain.CacheEntry{}, false, nil
	}
	if !r.now().Before(item.expiresAt) {
		r.lru.Remove(key)
		return domain.CacheEntry{}, false, nil
	}
	return item.entry, true, nil
}

func (r *Results) Len() int { return r.lru.Len() }
