package cache

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"time"
)

// MemoryCache is an in-process Cache used by tests that exercise
// invalidation and TTL behavior without a Redis instance.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value    []byte
	expireAt time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry)}
}

func (c *MemoryCache) Get(_ context.Context, key string, dest any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return false
	}
	if time.Now().After(entry.expireAt) {
		delete(c.entries, key)
		return false
	}
	if err := json.Unmarshal(entry.value, dest); err != nil {
		return false
	}
	return true
}

func (c *MemoryCache) Set(_ context.Context, key string, value any, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{value: raw, expireAt: time.Now().Add(ttl)}
}

func (c *MemoryCache) Invalidate(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func (c *MemoryCache) InvalidatePattern(_ context.Context, pattern string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if matched, _ := filepath.Match(pattern, key); matched {
			delete(c.entries, key)
		}
	}
}
