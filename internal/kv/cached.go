package kv

import (
	"context"
	"sync"

	"github.com/coocood/freecache"
)

// Cached is a read-through, write-through cache in front of another Store.
// Entries never expire on their own; every Set through this wrapper refreshes
// or evicts them. Writers that bypass the wrapper are not seen until the
// entry is evicted for space.
type Cached struct {
	next  Store
	cache *freecache.Cache

	// mu serializes writes and guards gen. gen advances on every Set so a
	// read-through fill that started before the write is discarded instead
	// of caching the value it read.
	mu  sync.Mutex
	gen uint64
}

// NewCached wraps next with a freecache of sizeMB megabytes. sizeMB <= 0
// returns next unchanged.
func NewCached(next Store, sizeMB int) Store {
	if sizeMB <= 0 {
		return next
	}
	return &Cached{next: next, cache: freecache.NewCache(sizeMB * 1024 * 1024)}
}

func (c *Cached) Get(ctx context.Context, key string) (string, bool, error) {
	if v, err := c.cache.Get([]byte(key)); err == nil {
		return string(v), true, nil
	}

	c.mu.Lock()
	gen := c.gen
	c.mu.Unlock()

	v, ok, err := c.next.Get(ctx, key)
	if err != nil || !ok {
		return v, ok, err
	}

	c.mu.Lock()
	if c.gen == gen {
		// A value larger than the cache can hold is simply not cached.
		_ = c.cache.Set([]byte(key), []byte(v), 0)
	}
	c.mu.Unlock()
	return v, true, nil
}

func (c *Cached) Set(ctx context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++

	if err := c.next.Set(ctx, key, value); err != nil {
		c.cache.Del([]byte(key))
		return err
	}
	if err := c.cache.Set([]byte(key), []byte(value), 0); err != nil {
		c.cache.Del([]byte(key))
	}
	return nil
}
