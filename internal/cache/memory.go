package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is the in-process tier. Entries with a zero TTL stay for the
// life of the process.
type MemoryCache struct {
	cache *gocache.Cache
}

func NewMemoryCache(defaultTTL, cleanupInterval time.Duration) *MemoryCache {
	if defaultTTL == 0 {
		defaultTTL = gocache.NoExpiration
	}
	return &MemoryCache{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

func (c *MemoryCache) Get(key string) ([]byte, bool) {
	if val, found := c.cache.Get(key); found {
		return val.([]byte), true
	}
	return nil, false
}

func (c *MemoryCache) Set(key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = gocache.NoExpiration
	}
	c.cache.Set(key, value, ttl)
	return nil
}

func (c *MemoryCache) Delete(key string) error {
	c.cache.Delete(key)
	return nil
}

func (c *MemoryCache) Clear() error {
	c.cache.Flush()
	return nil
}
