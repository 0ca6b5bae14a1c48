package cache

import (
	"context"
	"sync"
	"time"

	id "padoca/pkg/domain"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache is the in-process snapshot cache used in dev mode and tests.
type MemoryCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry
	byOwner map[string][]string
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		entries: make(map[string]entry),
		byOwner: make(map[string][]string),
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false, nil
	}
	return e.value, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		owner := ownerFromKey(key)
		c.byOwner[owner] = append(c.byOwner[owner], key)
	}
	c.entries[key] = entry{value: value, expiresAt: time.Now().Add(c.ttl)}
	return nil
}

func (c *MemoryCache) Invalidate(_ context.Context, clientID id.ClientID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, owner := range []string{ownerOf(clientID), fleetOwner} {
		for _, key := range c.byOwner[owner] {
			delete(c.entries, key)
		}
		delete(c.byOwner, owner)
	}
	return nil
}
