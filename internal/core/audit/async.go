package audit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"assistify/internal/platform/logger"
)

const (
	defaultBuffer  = 256
	defaultTimeout = 5 * time.Second
)

// Async records events on a background worker so callers never block on or fail from auditing
type Async struct {
	next    Sink
	ch      chan Event
	timeout time.Duration
	log     logger.Logger

	dropped atomic.Int64
	failed  atomic.Int64
	onDrop  func()
	onFail  func()

	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
	done      chan struct{}
}

// AsyncOption configures an Async
type AsyncOption func(*Async)

// OnDrop is called for every event that never reaches the sink
func OnDrop(fn func()) AsyncOption { return func(a *Async) { a.onDrop = fn } }

// OnFail is called for every event the sink rejects
func OnFail(fn func()) AsyncOption { return func(a *Async) { a.onFail = fn } }

// NewAsync starts the worker; buffer <= 0 uses the default
func NewAsync(next Sink, buffer int, opts ...AsyncOption) *Async {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	a := &Async{
		next:    next,
		ch:      make(chan Event, buffer),
		timeout: defaultTimeout,
		log:     *logger.Named("audit"),
		done:    make(chan struct{}),
		onDrop:  func() {},
		onFail:  func() {},
	}
	for _, o := range opts {
		o(a)
	}
	go a.run()
	return a
}

func (a *Async) run() {
	defer close(a.done)
	for e := range a.ch {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		if err := a.next.Record(ctx, e); err != nil {
			a.failed.Add(1)
			a.onFail()
			a.log.Debug().Err(err).Str("kind", string(e.Kind)).Str("ability", e.AbilityID).Msg("audit sink failed")
		}
		cancel()
	}
}

// Record enqueues e and never returns an error; events are dropped when the buffer is full or after Close
func (a *Async) Record(_ context.Context, e Event) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		a.drop()
		return nil
	}
	select {
	case a.ch <- e:
	default:
		a.drop()
		a.log.Debug().Str("kind", string(e.Kind)).Msg("audit buffer full, event dropped")
	}
	return nil
}

func (a *Async) drop() {
	a.dropped.Add(1)
	a.onDrop()
}

// Close stops accepting events and waits for the worker to drain or ctx to end
func (a *Async) Close(ctx context.Context) error {
	a.closeOnce.Do(func() {
		a.mu.Lock()
		a.closed = true
		close(a.ch)
		a.mu.Unlock()
	})
	select {
	case <-a.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dropped reports how many events never reached the sink because of back pressure or shutdown
func (a *Async) Dropped() int64 { return a.dropped.Load() }

// Failed reports how many events the sink rejected
func (a *Async) Failed() int64 { return a.failed.Load() }
