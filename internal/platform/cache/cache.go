// Package cache provides a small key/value cache with put-if-absent and atomic take
package cache

import (
	"context"
	"time"
)

// Cache stores opaque values under string keys with a per-entry ttl
type Cache interface {
	// Put stores val only when key is absent and reports whether it was stored
	Put(ctx context.Context, key string, val []byte, ttl time.Duration) (bool, error)
	// Get returns the live value for key
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Take removes and returns the value; at most one concurrent caller observes it
	Take(ctx context.Context, key string) ([]byte, bool, error)
	// Delete removes key and reports whether something was removed
	Delete(ctx context.Context, key string) (bool, error)
}
