package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func TestMemory_PutIfAbsent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(8, time.Hour)

	ok, err := m.Put(ctx, "k", []byte("a"), time.Minute)
	if err != nil || !ok {
		t.Fatalf("first put: %v %v", ok, err)
	}

	ok, err = m.Put(ctx, "k", []byte("b"), time.Minute)
	if err != nil || ok {
		t.Fatalf("second put should lose: %v %v", ok, err)
	}

	v, ok, err := m.Get(ctx, "k")
	if err != nil || !ok || string(v) != "a" {
		t.Fatalf("get: %q %v %v", v, ok, err)
	}
}

func TestMemory_TakeOnce(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(8, time.Hour)
	_, _ = m.Put(ctx, "k", []byte("a"), time.Minute)

	v, ok, _ := m.Take(ctx, "k")
	if !ok || string(v) != "a" {
		t.Fatalf("first take: %q %v", v, ok)
	}

	if _, ok, _ = m.Take(ctx, "k"); ok {
		t.Fatal("second take should miss")
	}
	if _, ok, _ = m.Get(ctx, "k"); ok {
		t.Fatal("taken key still readable")
	}
}

func TestMemory_EntryExpiryUsesClock(t *testing.T) {
	ctx := context.Background()
	clk := &fakeClock{t: time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)}
	m := NewMemory(8, time.Hour, WithClock(clk.Now))

	_, _ = m.Put(ctx, "k", []byte("a"), 5*time.Minute)
	clk.Advance(5*time.Minute - time.Second)
	if _, ok, _ := m.Get(ctx, "k"); !ok {
		t.Fatal("entry gone before its ttl")
	}

	clk.Advance(time.Second)
	if _, ok, _ := m.Get(ctx, "k"); ok {
		t.Fatal("expiry is inclusive")
	}

	if ok, _ := m.Put(ctx, "k", []byte("b"), time.Minute); !ok {
		t.Fatal("expired key can be reused")
	}
}

func TestMemory_Delete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(8, time.Hour)
	_, _ = m.Put(ctx, "k", []byte("a"), time.Minute)

	if ok, _ := m.Delete(ctx, "k"); !ok {
		t.Fatal("first delete should report presence")
	}
	if ok, _ := m.Delete(ctx, "k"); ok {
		t.Fatal("second delete should report absence")
	}
}

func TestMemory_CapacityEvicts(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(2, time.Hour)
	for _, k := range []string{"a", "b", "c"} {
		_, _ = m.Put(ctx, k, []byte(k), time.Minute)
	}
	if m.Len() != 2 {
		t.Fatalf("len %d want 2", m.Len())
	}
	if _, ok, _ := m.Get(ctx, "a"); ok {
		t.Fatal("oldest key should have been evicted")
	}
}

func TestMemory_ConcurrentTakeSingleWinner(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(8, time.Hour)
	_, _ = m.Put(ctx, "k", []byte("a"), time.Minute)

	var wins atomic.Int32
	var g errgroup.Group
	for range 100 {
		g.Go(func() error {
			_, ok, err := m.Take(ctx, "k")
			if ok {
				wins.Add(1)
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("take: %v", err)
	}
	if n := wins.Load(); n != 1 {
		t.Fatalf("%d winners want 1", n)
	}
}

func TestMemory_CountsLiveEvictionsOnly(t *testing.T) {
	ctx := context.Background()
	clk := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := NewMemory(2, time.Hour, WithClock(clk.Now))

	for _, k := range []string{"a", "b"} {
		if _, err := m.Put(ctx, k, []byte(k), time.Minute); err != nil {
			t.Fatalf("put %s: %v", k, err)
		}
	}
	_, _, _ = m.Take(ctx, "a")
	_, _ = m.Delete(ctx, "b")
	if n := m.Evicted(); n != 0 {
		t.Fatalf("explicit removals counted as %d evictions", n)
	}

	for _, k := range []string{"c", "d", "e"} {
		if _, err := m.Put(ctx, k, []byte(k), time.Minute); err != nil {
			t.Fatalf("put %s: %v", k, err)
		}
	}
	if n := m.Evicted(); n != 1 {
		t.Fatalf("evicted %d want 1", n)
	}
	if _, ok, _ := m.Get(ctx, "c"); ok {
		t.Fatal("oldest live entry should have been pushed out")
	}

	clk.Advance(2 * time.Minute)
	if _, err := m.Put(ctx, "f", []byte("f"), time.Minute); err != nil {
		t.Fatalf("put f: %v", err)
	}
	if n := m.Evicted(); n != 1 {
		t.Fatalf("expired entries pushed out were counted: %d", n)
	}
}
