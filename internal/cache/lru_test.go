package cache

import (
	"fmt"
	"testing"
	"time"
)

func TestGetSetDelete(t *testing.T) {
	c := NewLRUCache[string](10, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Fatal("empty cache returned a value")
	}

	c.Set("k", "v")
	got, ok := c.Get("k")
	if !ok || got != "v" {
		t.Fatalf("Get = %q, %v", got, ok)
	}

	c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Fatal("value survived Delete")
	}
}

func TestTTLExpiry(t *testing.T) {
	c := NewLRUCache[int](10, 20*time.Millisecond)
	c.Set("k", 1)
	time.Sleep(40 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Fatal("expired value still returned")
	}
	if c.Size() != 0 {
		t.Fatalf("size = %d after expiry read, want 0", c.Size())
	}
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[int](3, time.Minute)
	for i := range 3 {
		c.Set(fmt.Sprintf("k%d", i), i)
	}
	// Touch k0 so k1 becomes the eviction candidate.
	if _, ok := c.Get("k0"); !ok {
		t.Fatal("k0 missing")
	}
	c.Set("k3", 3)

	if _, ok := c.Get("k1"); ok {
		t.Fatal("k1 should have been evicted")
	}
	for _, key := range []string{"k0", "k2", "k3"} {
		if _, ok := c.Get(key); !ok {
			t.Fatalf("%s should still be cached", key)
		}
	}
}

func TestClear(t *testing.T) {
	c := NewLRUCache[int](10, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Clear()
	if c.Size() != 0 {
		t.Fatalf("size = %d after Clear", c.Size())
	}
	if _, ok := c.Get("a"); ok {
		t.Fatal("value survived Clear")
	}
	// Cache stays usable after Clear.
	c.Set("c", 3)
	if v, ok := c.Get("c"); !ok || v != 3 {
		t.Fatalf("Get after Clear = %d, %v", v, ok)
	}
}

func TestCleanExpired(t *testing.T) {
	c := NewLRUCache[int](10, 20*time.Millisecond)
	c.Set("a", 1)
	c.Set("b", 2)
	time.Sleep(40 * time.Millisecond)
	c.Set("c", 3)

	if n := c.CleanExpired(); n != 2 {
		t.Fatalf("CleanExpired = %d, want 2", n)
	}
	if c.Size() != 1 {
		t.Fatalf("size = %d, want 1", c.Size())
	}
}
