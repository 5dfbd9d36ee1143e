// Package cache wraps ristretto as a typed in-process L1 cache.
package cache

import (
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// Cache stores values of type V under string keys. Every entry costs 1,
// so maxEntries bounds the number of cached keys.
type Cache[V any] struct {
	c   *ristretto.Cache[string, V]
	ttl time.Duration
}

func New[V any](maxEntries int64, ttl time.Duration) (*Cache[V], error) {
	c, err := ristretto.NewCache(&ristretto.Config[string, V]{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Cache[V]{c: c, ttl: ttl}, nil
}

func (c *Cache[V]) Get(key string) (V, bool) {
	return c.c.Get(key)
}

// Set is asynchronous; call Wait when a subsequent Get must observe it.
func (c *Cache[V]) Set(key string, value V) bool {
	return c.c.SetWithTTL(key, value, 1, c.ttl)
}

func (c *Cache[V]) Delete(key string) {
	c.c.Del(key)
}

func (c *Cache[V]) Wait() {
	c.c.Wait()
}

func (c *Cache[V]) Close() {
	c.c.Close()
}
