package cache

import (
	"context"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestCache(size int, ttl time.Duration) (*LRUCache[string], *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewLRUCache[string](size, ttl)
	c.now = clock.now
	return c, clock
}

func TestLRUCache_GetSet(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)

	c.Set("a", "1")
	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Fatalf("Get(a) = %q, %v", v, ok)
	}
	c.Set("a", "2")
	if v, _ := c.Get("a"); v != "2" {
		t.Fatalf("overwrite: Get(a) = %q", v)
	}
	if _, ok := c.Get("missing"); ok {
		t.Fatal("Get(missing) reported a hit")
	}

	st := c.Stats()
	if st.Hits != 2 || st.Misses != 1 || st.Size != 1 {
		t.Fatalf("Stats = %+v", st)
	}
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)

	c.Set("a", "1")
	c.Set("b", "2")
	c.Get("a")
	c.Set("c", "3")

	if _, ok := c.Get("b"); ok {
		t.Fatal("b should have been evicted")
	}
	for _, k := range []string{"a", "c"} {
		if _, ok := c.Get(k); !ok {
			t.Fatalf("%s should still be cached", k)
		}
	}
}

func TestLRUCache_Expiry(t *testing.T) {
	c, clock := newTestCache(4, time.Minute)

	c.Set("a", "1")
	c.Set("b", "2")
	clock.advance(30 * time.Second)
	c.Set("b", "3")
	clock.advance(45 * time.Second)

	if _, ok := c.Get("a"); ok {
		t.Fatal("a should have expired")
	}
	if n := c.CleanExpired(); n != 0 {
		t.Fatalf("CleanExpired() = %d, want 0 after lazy removal", n)
	}
	if v, ok := c.Get("b"); !ok || v != "3" {
		t.Fatalf("Get(b) = %q, %v", v, ok)
	}

	clock.advance(time.Minute)
	if n := c.CleanExpired(); n != 1 {
		t.Fatalf("CleanExpired() = %d, want 1", n)
	}
	if c.Size() != 0 {
		t.Fatalf("Size() = %d, want 0", c.Size())
	}
}

func TestLRUCache_DeletePurge(t *testing.T) {
	c, _ := newTestCache(4, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Fatal("a should be deleted")
	}
	c.Purge()
	if c.Size() != 0 {
		t.Fatalf("Size() after Purge = %d", c.Size())
	}
	c.Set("c", "3")
	if c.Size() != 1 {
		t.Fatalf("cache unusable after Purge, size %d", c.Size())
	}
}

func TestManager_StartStop(t *testing.T) {
	c, clock := newTestCache(4, time.Millisecond)
	c.Set("a", "1")
	clock.advance(time.Second)

	m := NewManager(nil)
	m.Register(c)
	if n := m.Sweep(); n != 1 {
		t.Fatalf("Sweep() = %d, want 1", n)
	}

	m.Start(context.Background(), time.Millisecond)
	m.Stop()
	m.Stop()
}
