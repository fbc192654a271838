package storage

import (
	"context"
	"encoding/json"

	"financetracker/internal/cache"
)

// Cached serves repeated reads from an in-process cache. Writes go through to
// the wrapped slot and refresh the cached value. Only safe when this process
// is the sole writer of the underlying store.
type Cached struct {
	Slot
	cache cache.Cache[json.RawMessage]
}

func NewCached(inner Slot, c cache.Cache[json.RawMessage]) *Cached {
	return &Cached{Slot: inner, cache: c}
}

func (c *Cached) Get(ctx context.Context, key string) (json.RawMessage, error) {
	if v, ok := c.cache.Get(key); ok {
		return clone(v), nil
	}
	v, err := c.Slot.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, clone(v))
	return v, nil
}

func (c *Cached) Set(ctx context.Context, key string, value json.RawMessage) error {
	if err := c.Slot.Set(ctx, key, value); err != nil {
		c.cache.Delete(key)
		return err
	}
	c.cache.Set(key, clone(value))
	return nil
}

// Invalidate drops any cached value for key, e.g. after another process wrote it.
func (c *Cached) Invalidate(key string) {
	c.cache.Delete(key)
}

// CleanExpired drops expired entries when the underlying cache supports it.
func (c *Cached) CleanExpired() int {
	if cl, ok := c.cache.(cache.Cleaner); ok {
		return cl.CleanExpired()
	}
	return 0
}

func (c *Cached) Close() error {
	if s, ok := c.Slot.(Store); ok {
		return s.Close()
	}
	return nil
}
