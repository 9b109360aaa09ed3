package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"sareeadmin.GO/core/log"
)

// Cache is a thread-safe key-value store with per-entry TTL and tag based invalidation.
type Cache struct {
	m sync.Map
	// tagIndex maps tag string to a set of keys (*sync.Map of key -> struct{})
	tagIndex sync.Map
	now      func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces time.Now, used by tests to move time forward.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// NewCache creates a new Cache instance.
func NewCache(opts ...Option) *Cache {
	c := &Cache{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type cacheItem struct {
	Value     interface{}
	ExpiresAt time.Time // zero means no expiration
}

func (i cacheItem) expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && !now.Before(i.ExpiresAt)
}

// Set stores a value for a key. A ttl of 0 means the value does not expire.
func (c *Cache) Set(key, value interface{}, ttl time.Duration, tags []string) {
	item := cacheItem{Value: value}
	if ttl > 0 {
		item.ExpiresAt = c.now().Add(ttl)
	}
	c.m.Store(key, item)
	if len(tags) > 0 {
		c.TagKey(key, tags)
	}
}

// Get returns (value, true) if the key is present and not expired.
func (c *Cache) Get(key interface{}) (interface{}, bool) {
	v, ok := c.m.Load(key)
	if !ok {
		return nil, false
	}
	item := v.(cacheItem)
	if item.expired(c.now()) {
		c.m.Delete(key)
		return nil, false
	}
	return item.Value, true
}

// Delete removes a key from the cache and from every tag it carries.
func (c *Cache) Delete(key interface{}) {
	c.m.Delete(key)
	c.tagIndex.Range(func(_, val interface{}) bool {
		val.(*sync.Map).Delete(key)
		return true
	})
}

func makeCompositeKey(keys ...interface{}) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%v", k)
	}
	return strings.Join(parts, "|")
}

// SetN stores a value under a composite key.
func (c *Cache) SetN(keys []interface{}, value interface{}, ttl time.Duration, tags []string) {
	c.Set(makeCompositeKey(keys...), value, ttl, tags)
}

// GetN retrieves a value for a composite key.
func (c *Cache) GetN(keys ...interface{}) (interface{}, bool) {
	return c.Get(makeCompositeKey(keys...))
}

// TagKey assigns one or more tags to a cache key.
func (c *Cache) TagKey(key interface{}, tags []string) {
	for _, tag := range tags {
		val, _ := c.tagIndex.LoadOrStore(tag, &sync.Map{})
		val.(*sync.Map).Store(key, struct{}{})
	}
}

// DeleteByTag deletes all cache entries assigned to a tag.
func (c *Cache) DeleteByTag(tag string) {
	val, ok := c.tagIndex.LoadAndDelete(tag)
	if !ok {
		return
	}
	val.(*sync.Map).Range(func(key, _ interface{}) bool {
		c.m.Delete(key)
		return true
	})
}

// PurgeExpired drops every expired entry and returns how many were removed.
func (c *Cache) PurgeExpired() int {
	now := c.now()
	removed := 0
	c.m.Range(func(key, v interface{}) bool {
		if v.(cacheItem).expired(now) {
			c.Delete(key)
			removed++
		}
		return true
	})
	return removed
}

// Janitor calls PurgeExpired every interval until ctx ends. Entries are otherwise only
// dropped when read, so long-running processes should run one.
func (c *Cache) Janitor(ctx context.Context, every time.Duration) {
	if every <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := c.PurgeExpired(); n > 0 {
				log.Debug().Int("removed", n).Msg("cache: purged expired entries")
			}
		}
	}
}
