// Package cache provides a small bounded, TTL-based string cache used for
// memoizing LLM responses keyed by a content hash of the input text.
package cache

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"
)

const (
	DefaultMaxEntries = 1024
	DefaultTTL        = 24 * time.Hour
)

type entry struct {
	key       string
	value     string
	expiresAt time.Time
}

// Cache is a capacity-bounded key-value cache with per-entry TTL.
// When full, the oldest entry is evicted first. Safe for concurrent use.
type Cache struct {
	mu         sync.RWMutex
	entries    map[string]*list.Element
	order      *list.List // front = oldest
	maxEntries int
	ttl        time.Duration
	now        func() time.Time
}

// New creates a Cache. Non-positive maxEntries or ttl fall back to the defaults.
func New(maxEntries int, ttl time.Duration) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		entries:    make(map[string]*list.Element),
		order:      list.New(),
		maxEntries: maxEntries,
		ttl:        ttl,
		now:        time.Now,
	}
}

// Get returns the cached value for key, if present and not expired.
func (c *Cache) Get(key string) (string, bool) {
	// Copy the fields under the read lock; Set mutates entries in place.
	c.mu.RLock()
	elem, ok := c.entries[key]
	var value string
	var expiresAt time.Time
	if ok {
		e := elem.Value.(*entry)
		value = e.value
		expiresAt = e.expiresAt
	}
	c.mu.RUnlock()
	if !ok {
		return "", false
	}

	if c.now().After(expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; another goroutine may have refreshed it.
		if elem, ok := c.entries[key]; ok && c.now().After(elem.Value.(*entry).expiresAt) {
			c.order.Remove(elem)
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return "", false
	}

	return value, true
}

// Set stores value under key, evicting the oldest entry when at capacity.
func (c *Cache) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		e := elem.Value.(*entry)
		e.value = value
		e.expiresAt = c.now().Add(c.ttl)
		c.order.MoveToBack(elem)
		return
	}

	for c.order.Len() >= c.maxEntries {
		oldest := c.order.Front()
		if oldest == nil {
			break
		}
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*entry).key)
	}

	elem := c.order.PushBack(&entry{
		key:       key,
		value:     value,
		expiresAt: c.now().Add(c.ttl),
	})
	c.entries[key] = elem
}

// Len reports the number of entries currently held, including expired ones
// that have not been read since expiring.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.order.Len()
}

// Key hashes text into a stable cache key. The text is trimmed first, so
// questions differing only in surrounding whitespace share an entry.
func Key(text string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(text)))
	return hex.EncodeToString(sum[:])
}
