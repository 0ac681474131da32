package driver

import (
	"context"

	"goflare.io/ember"
)

// Cache is the read-through cache the lookup services use.
type Cache interface {
	Get(ctx context.Context, key string, value any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}

type emberCache struct {
	cache *ember.MultiCache
}

func NewCache(cache *ember.MultiCache) Cache {
	return &emberCache{cache: cache}
}

func (c *emberCache) Get(ctx context.Context, key string, value any) (bool, error) {
	return c.cache.Get(ctx, key, value)
}

func (c *emberCache) Set(ctx context.Context, key string, value any) error {
	return c.cache.Set(ctx, key, value)
}

func (c *emberCache) Delete(ctx context.Context, key string) error {
	return c.cache.Delete(ctx, key)
}

// NopCache never hits; used when no redis is configured.
type NopCache struct{}

func (NopCache) Get(context.Context, string, any) (bool, error) { return false, nil }
func (NopCache) Set(context.Context, string, any) error         { return nil }
func (NopCache) Delete(context.Context, string) error           { return nil }
