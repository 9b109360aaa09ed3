package media

import (
	"context"
	"sync"
	"time"

	"sareeadmin.GO/core/cache"
)

// DefaultReferenceTTL bounds how long a reference set is served without recomputing.
const DefaultReferenceTTL = 30 * time.Second

const (
	referenceSetKey = "media:reference-set"
	// CacheTag groups every media cache entry.
	CacheTag = "media"
)

type referenceEntry struct {
	set URLSet
	at  time.Time
}

// ReconciliationCache memoizes the reference set for a short TTL.
// Only this type writes its slot in the backing store.
type ReconciliationCache struct {
	index ReferenceComputer
	store *cache.Cache
	ttl   time.Duration
	now   func() time.Time

	mu         sync.Mutex
	generation uint64
}

type CacheOption func(*ReconciliationCache)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) CacheOption {
	return func(c *ReconciliationCache) {
		c.now = now
	}
}

func NewReconciliationCache(index ReferenceComputer, store *cache.Cache, ttl time.Duration, opts ...CacheOption) *ReconciliationCache {
	if ttl <= 0 {
		ttl = DefaultReferenceTTL
	}
	if store == nil {
		store = cache.NewCache()
	}
	c := &ReconciliationCache{index: index, store: store, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *ReconciliationCache) TTL() time.Duration { return c.ttl }

// Get returns the cached set while it is younger than the TTL, otherwise recomputes it.
// forceRefresh always recomputes.
func (c *ReconciliationCache) Get(ctx context.Context, forceRefresh bool) (URLSet, error) {
	if !forceRefresh {
		if e, ok := c.load(); ok && c.now().Sub(e.at) < c.ttl {
			return e.set, nil
		}
	}

	c.mu.Lock()
	gen := c.generation
	c.mu.Unlock()

	set, err := c.index.ComputeReferenceSet(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	// An Invalidate that happened while computing wins; the result still goes to this caller.
	if gen == c.generation {
		c.store.Set(referenceSetKey, referenceEntry{set: set, at: c.now()}, c.ttl, []string{CacheTag})
	}
	c.mu.Unlock()
	return set, nil
}

// Invalidate clears the slot so the next Get recomputes.
func (c *ReconciliationCache) Invalidate() {
	c.mu.Lock()
	c.generation++
	c.store.Delete(referenceSetKey)
	c.mu.Unlock()
}

// CachedAt reports when the current set was computed.
func (c *ReconciliationCache) CachedAt() (time.Time, bool) {
	e, ok := c.load()
	if !ok {
		return time.Time{}, false
	}
	return e.at, true
}

func (c *ReconciliationCache) load() (referenceEntry, bool) {
	v, ok := c.store.Get(referenceSetKey)
	if !ok {
		return referenceEntry{}, false
	}
	e, ok := v.(referenceEntry)
	return e, ok
}
