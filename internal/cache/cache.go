// Package cache memoizes expensive lookups per key. Concurrent misses for
// the same key share one call, and a stale entry is served while it is
// refreshed in the background.
package cache

import (
	"time"

	"github.com/puzpuzpuz/xsync/v4"
	"golang.org/x/sync/singleflight"
)

const DefaultTTL = 3 * time.Second

type entry[T any] struct {
	value     T
	fetchedAt time.Time
}

type Cache[T any] struct {
	entries *xsync.Map[string, entry[T]]
	group   singleflight.Group
	ttl     time.Duration
	now     func() time.Time
}

func New[T any](ttl time.Duration) *Cache[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache[T]{
		entries: xsync.NewMap[string, entry[T]](),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *Cache[T]) Get(key string, fetch func() (T, error)) (T, error) {
	if e, ok := c.entries.Load(key); ok {
		if c.now().Sub(e.fetchedAt) > c.ttl {
			go c.refresh(key, fetch)
		}
		return e.value, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		if e, ok := c.entries.Load(key); ok {
			return e, nil
		}
		return c.fetch(key, fetch)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(entry[T]).value, nil
}

func (c *Cache[T]) Invalidate(key string) {
	c.entries.Delete(key)
}

func (c *Cache[T]) refresh(key string, fetch func() (T, error)) {
	c.group.Do(key, func() (any, error) {
		return c.fetch(key, fetch)
	})
}

func (c *Cache[T]) fetch(key string, fetch func() (T, error)) (entry[T], error) {
	v, err := fetch()
	if err != nil {
		return entry[T]{}, err
	}
	e := entry[T]{value: v, fetchedAt: c.now()}
	c.entries.Store(key, e)
	return e, nil
}
