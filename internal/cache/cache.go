package cache

import (
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/golang/groupcache/singleflight"
)

// Cache is a TTL cache whose loads are collapsed per key. A zero ttl turns
// it into a pass-through that still deduplicates concurrent loads.
type Cache[K string, V any] struct {
	cache *ristretto.Cache[K, V]
	group singleflight.Group
	ttl   time.Duration
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	if c.disabled() {
		var zero V
		return zero, false
	}
	return c.cache.Get(key)
}

func (c *Cache[K, V]) SetWithTTL(key K, value V, ttl time.Duration) bool {
	ok := c.cache.SetWithTTL(key, value, 1, ttl)
	c.cache.Wait()
	return ok
}

func (c *Cache[K, V]) ComputeIfAbsent(key K, f func() (V, error)) (*V, error) {
	if v, ok := c.Get(key); ok {
		return &v, nil
	}
	cv, err := c.group.Do(string(key), func() (any, error) {
		r, err := f()
		if err != nil {
			return nil, err
		}
		return r, nil
	})
	if err != nil {
		return nil, err
	}
	r := cv.(V)
	if !c.disabled() {
		c.SetWithTTL(key, r, c.ttl)
	}
	return &r, nil
}

func (c *Cache[K, V]) Delete(key K) {
	c.cache.Del(key)
}

func (c *Cache[K, V]) EvictAll() {
	c.cache.Clear()
}

func (c *Cache[K, V]) Close() {
	c.cache.Close()
}

func (c *Cache[K, V]) disabled() bool {
	return c.ttl <= 0
}

func NewCache[K string, V any](ttl time.Duration) *Cache[K, V] {
	cache, _ := ristretto.NewCache(&ristretto.Config[K, V]{
		NumCounters: 500,
		MaxCost:     500,
		BufferItems: 64,
	})
	return &Cache[K, V]{
		cache: cache,
		group: singleflight.Group{},
		ttl:   ttl,
	}
}
