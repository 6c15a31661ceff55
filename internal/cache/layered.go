package cache

import "time"

// LayeredCache fronts the disk tier with a memory tier. Reads promote disk
// hits into memory.
type LayeredCache struct {
	memory Cache
	disk   Cache
}

func NewLayeredCache(memoryTTL time.Duration, diskDir string, diskTTL time.Duration) *LayeredCache {
	return &LayeredCache{
		memory: NewMemoryCache(memoryTTL, 10*time.Minute),
		disk:   NewDiskCache(diskDir, diskTTL),
	}
}

func (c *LayeredCache) Get(key string) ([]byte, bool) {
	if val, found := c.memory.Get(key); found {
		return val, true
	}
	if val, found := c.disk.Get(key); found {
		c.memory.Set(key, val, 0)
		return val, true
	}
	return nil, false
}

func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	if err := c.memory.Set(key, value, ttl); err != nil {
		return err
	}
	if err := c.disk.Set(key, value, ttl); err != nil {
		return err
	}
	return nil
}

func (c *LayeredCache) Delete(key string) error {
	c.memory.Delete(key)
	c.disk.Delete(key)
	return nil
}

func (c *LayeredCache) Clear() error {
	c.memory.Clear()
	c.disk.Clear()
	return nil
}
