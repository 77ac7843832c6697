package access

import (
	"sync"
	"time"

	"github.com/riskibarqy/courtside/internal/domain/league"
	"github.com/riskibarqy/courtside/internal/domain/user"
)

type ttlCache[V any] struct {
	mu         sync.RWMutex
	entries    map[string]ttlEntry[V]
	ttl        time.Duration
	maxEntries int
}

type ttlEntry[V any] struct {
	value     V
	expiresAt time.Time
}

func newTTLCache[V any](ttl time.Duration, maxEntries int) *ttlCache[V] {
	return &ttlCache[V]{
		entries:    make(map[string]ttlEntry[V]),
		ttl:        ttl,
		maxEntries: maxEntries,
	}
}

func (c *ttlCache[V]) Get(key string) (V, bool) {
	var zero V
	now := time.Now()

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return zero, false
	}
	if !entry.expiresAt.After(now) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return zero, false
	}

	return entry.value, true
}

func (c *ttlCache[V]) Set(key string, value V) {
	if c.ttl <= 0 {
		return
	}

	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		c.evictExpired(now)
		if len(c.entries) >= c.maxEntries {
			c.evictOne()
		}
	}

	c.entries[key] = ttlEntry[V]{
		value:     value,
		expiresAt: now.Add(c.ttl),
	}
}

func (c *ttlCache[V]) evictExpired(now time.Time) {
	for key, entry := range c.entries {
		if !entry.expiresAt.After(now) {
			delete(c.entries, key)
		}
	}
}

func (c *ttlCache[V]) evictOne() {
	for key := range c.entries {
		delete(c.entries, key)
		return
	}
}

type principalCache = ttlCache[user.Principal]

func newPrincipalCache(ttl time.Duration, maxEntries int) *principalCache {
	return newTTLCache[user.Principal](ttl, maxEntries)
}

type roleCache = ttlCache[league.Role]

func newRoleCache(ttl time.Duration, maxEntries int) *roleCache {
	return newTTLCache[league.Role](ttl, maxEntries)
}
