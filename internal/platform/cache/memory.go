package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"assistify/internal/platform/logger"
)

const (
	defaultCapacity = 10_000
	defaultMaxTTL   = time.Hour
)

type entry struct {
	val []byte
	exp time.Time
}

// Memory is an in-process Cache backed by an expirable LRU
// Entries carry their own expiry; the LRU ttl only bounds how long garbage lingers.
// At capacity the least recently used entry is evicted even if it is still live;
// each such eviction is logged and counted by Evicted.
type Memory struct {
	mu       sync.Mutex
	lru      *expirable.LRU[string, entry]
	now      func() time.Time
	capacity int

	removing atomic.Bool
	evicted  atomic.Int64
}

// MemoryOption configures Memory
type MemoryOption func(*Memory)

// WithClock overrides the clock used for per-entry expiry
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMemory builds a Memory cache; capacity <= 0 uses the default
func NewMemory(capacity int, maxTTL time.Duration, opts ...MemoryOption) *Memory {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	if maxTTL <= 0 {
		maxTTL = defaultMaxTTL
	}
	m := &Memory{now: time.Now, capacity: capacity}
	for _, o := range opts {
		o(m)
	}
	m.lru = expirable.NewLRU[string, entry](capacity, m.onEvict, maxTTL)
	return m
}

// onEvict sees every removal; only live entries pushed out by the LRU are reported
func (m *Memory) onEvict(_ string, e entry) {
	if m.removing.Load() {
		return
	}
	if !e.exp.IsZero() && !m.now().Before(e.exp) {
		return
	}
	m.evicted.Add(1)
	logger.Named("cache").Warn().
		Int("capacity", m.capacity).
		Time("expires_at", e.exp).
		Msg("memory cache full, live entry evicted")
}

// remove deletes key without reporting it as an eviction; caller holds mu
func (m *Memory) remove(key string) {
	m.removing.Store(true)
	m.lru.Remove(key)
	m.removing.Store(false)
}

// Evicted reports how many live entries were pushed out because the cache was full
func (m *Memory) Evicted() int64 { return m.evicted.Load() }

// live returns the entry when present and not expired, evicting stale ones; caller holds mu
func (m *Memory) live(key string) (entry, bool) {
	e, ok := m.lru.Peek(key)
	if !ok {
		return entry{}, false
	}
	if !e.exp.IsZero() && !m.now().Before(e.exp) {
		m.remove(key)
		return entry{}, false
	}
	return e, true
}

// Put implements Cache
func (m *Memory) Put(_ context.Context, key string, val []byte, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.live(key); ok {
		return false, nil
	}
	e := entry{val: append([]byte(nil), val...)}
	if ttl > 0 {
		e.exp = m.now().Add(ttl)
	}
	m.lru.Add(key, e)
	return true, nil
}

// Get implements Cache
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.live(key)
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), e.val...), true, nil
}

// Take implements Cache
func (m *Memory) Take(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.live(key)
	if !ok {
		return nil, false, nil
	}
	m.remove(key)
	return e.val, true, nil
}

// Delete implements Cache
func (m *Memory) Delete(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.live(key)
	m.remove(key)
	return ok, nil
}

// Len reports the number of stored entries, including ones not yet swept
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lru.Len()
}
