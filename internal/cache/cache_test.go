package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestGetSet(t *testing.T) {
	c := New(10, time.Hour)

	if _, ok := c.Get("missing"); ok {
		t.Error("Expected miss for unknown key")
	}

	c.Set("a", "value-a")
	got, ok := c.Get("a")
	if !ok {
		t.Fatal("Expected hit for key 'a'")
	}
	if got != "value-a" {
		t.Errorf("Expected 'value-a', got '%s'", got)
	}

	// Overwrite keeps a single entry
	c.Set("a", "value-a2")
	got, _ = c.Get("a")
	if got != "value-a2" {
		t.Errorf("Expected 'value-a2', got '%s'", got)
	}
	if c.Len() != 1 {
		t.Errorf("Expected 1 entry after overwrite, got %d", c.Len())
	}
}

func TestTTLExpiry(t *testing.T) {
	c := New(10, time.Minute)

	// Control the clock
	current := time.Now()
	c.now = func() time.Time { return current }

	c.Set("a", "value-a")

	if _, ok := c.Get("a"); !ok {
		t.Fatal("Expected hit before expiry")
	}

	current = current.Add(2 * time.Minute)

	if _, ok := c.Get("a"); ok {
		t.Error("Expected miss after TTL elapsed")
	}
	if c.Len() != 0 {
		t.Errorf("Expected expired entry to be removed, got %d entries", c.Len())
	}
}

func TestCapacityEviction(t *testing.T) {
	c := New(3, time.Hour)

	for i := 0; i < 3; i++ {
		c.Set(fmt.Sprintf("k%d", i), fmt.Sprintf("v%d", i))
	}
	c.Set("k3", "v3")

	if c.Len() != 3 {
		t.Errorf("Expected 3 entries at capacity, got %d", c.Len())
	}

	// Oldest entry evicted
	if _, ok := c.Get("k0"); ok {
		t.Error("Expected oldest entry k0 to be evicted")
	}
	for _, key := range []string{"k1", "k2", "k3"} {
		if _, ok := c.Get(key); !ok {
			t.Errorf("Expected %s to survive eviction", key)
		}
	}
}

func TestConcurrentGetSet(t *testing.T) {
	c := New(8, time.Minute)
	key := Key("shared question")

	// Readers and writers hammering one key; run with -race
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				c.Set(key, fmt.Sprintf("answer-%d-%d", n, j))
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if value, ok := c.Get(key); ok && value == "" {
					t.Error("Got empty value for a present key")
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestDefaults(t *testing.T) {
	c := New(0, 0)
	if c.maxEntries != DefaultMaxEntries {
		t.Errorf("Expected default max entries %d, got %d", DefaultMaxEntries, c.maxEntries)
	}
	if c.ttl != DefaultTTL {
		t.Errorf("Expected default TTL %v, got %v", DefaultTTL, c.ttl)
	}
}

func TestKey(t *testing.T) {
	// Trimming means whitespace variants share a key
	if Key("hello") != Key("  hello  ") {
		t.Error("Expected trimmed variants to share a key")
	}
	if Key("hello") == Key("Hello") {
		t.Error("Expected case-different texts to have different keys")
	}
	if len(Key("x")) != 64 {
		t.Errorf("Expected 64-char hex key, got %d chars", len(Key("x")))
	}
}
