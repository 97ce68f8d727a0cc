package cache

import (
	"testing"
	"time"
)

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache[string](time.Minute, time.Minute)

	c.Set("a", "alpha", DefaultTTL)

	got, ok := c.Get("a")
	if !ok || got != "alpha" {
		t.Errorf("Expected 'alpha', got %q (found=%v)", got, ok)
	}

	if _, ok := c.Get("missing"); ok {
		t.Error("Expected miss for unknown key")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache[int](time.Minute, time.Minute)

	c.Set("short", 1, 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	if _, ok := c.Get("short"); ok {
		t.Error("Expected entry to expire")
	}
}

func TestMemoryCache_DeleteAndClear(t *testing.T) {
	c := NewMemoryCache[int](time.Minute, time.Minute)
	c.Set("a", 1, DefaultTTL)
	c.Set("b", 2, DefaultTTL)

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("Expected 'a' to be deleted")
	}
	if c.Len() != 1 {
		t.Errorf("Expected 1 item, got %d", c.Len())
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Expected empty cache, got %d items", c.Len())
	}
}

func TestKey(t *testing.T) {
	if got := Key("robots", "Example.COM"); got != "entity-scanner:robots:example.com" {
		t.Errorf("Unexpected key: %s", got)
	}
}
