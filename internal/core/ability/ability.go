// Package ability is the registry of callable store operations
package ability

import (
	"context"
	"sort"
	"strings"
	"sync"

	perr "assistify/internal/platform/errors"
)

// Meta describes an ability to humans and to the confirmation workflow
type Meta struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Category    string `json:"category"`
	Destructive bool   `json:"is_destructive"`
	ReadOnly    bool   `json:"read_only"`
}

// Registry executes abilities by id
type Registry interface {
	Execute(ctx context.Context, id string, params map[string]any) (any, error)
	Describe(id string) (Meta, bool)
}

// Func is a local ability implementation
type Func func(ctx context.Context, params map[string]any) (any, error)

// Executor runs abilities that have no local implementation, typically over the network
type Executor interface {
	Run(ctx context.Context, meta Meta, params map[string]any) (any, error)
}

// ErrNotImplemented is returned when an ability is known but nothing can run it
var ErrNotImplemented = perr.New(perr.ErrorCodeUnavailable, "ability backend not configured")

// Catalog is an in-memory Registry; local funcs take precedence over the executor
type Catalog struct {
	mu    sync.RWMutex
	metas map[string]Meta
	funcs map[string]Func
	exec  Executor
}

// CatalogOption configures a Catalog
type CatalogOption func(*Catalog)

// WithExecutor sets the fallback executor for abilities without a local func
func WithExecutor(e Executor) CatalogOption {
	return func(c *Catalog) { c.exec = e }
}

// WithMetas registers metadata without local implementations
func WithMetas(ms ...Meta) CatalogOption {
	return func(c *Catalog) {
		for _, m := range ms {
			c.metas[m.ID] = m
		}
	}
}

// NewCatalog constructs an empty Catalog
func NewCatalog(opts ...CatalogOption) *Catalog {
	c := &Catalog{
		metas: make(map[string]Meta),
		funcs: make(map[string]Func),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Register adds or replaces an ability; fn may be nil to rely on the executor
func (c *Catalog) Register(meta Meta, fn Func) error {
	meta.ID = strings.TrimSpace(meta.ID)
	if meta.ID == "" {
		return perr.InvalidArgf("ability id is required")
	}
	if meta.Label == "" {
		meta.Label = meta.ID
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metas[meta.ID] = meta
	if fn != nil {
		c.funcs[meta.ID] = fn
	} else {
		delete(c.funcs, meta.ID)
	}
	return nil
}

// Describe implements Registry
func (c *Catalog) Describe(id string) (Meta, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.metas[id]
	return m, ok
}

// Execute implements Registry
func (c *Catalog) Execute(ctx context.Context, id string, params map[string]any) (any, error) {
	c.mu.RLock()
	meta, known := c.metas[id]
	fn := c.funcs[id]
	exec := c.exec
	c.mu.RUnlock()

	if !known {
		return nil, perr.NotFoundf("unknown ability %s", id)
	}
	if params == nil {
		params = map[string]any{}
	}
	if fn != nil {
		return fn(ctx, params)
	}
	if exec != nil {
		return exec.Run(ctx, meta, params)
	}
	return nil, ErrNotImplemented
}

// List returns all metadata sorted by category then id
func (c *Catalog) List() []Meta {
	c.mu.RLock()
	out := make([]Meta, 0, len(c.metas))
	for _, m := range c.metas {
		out = append(out, m)
	}
	c.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].ID < out[j].ID
	})
	return out
}
