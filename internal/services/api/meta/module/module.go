// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"context"
	"net/http"
	"time"

	"assistify/internal/core/version"
	modkit "assistify/internal/modkit"
	"assistify/internal/modkit/httpkit"
	str "assistify/internal/platform/strings"

	metahttp "assistify/internal/services/api/meta/http"
)

// Module implements the modkit.Module interface
type Module struct {
	deps     modkit.Deps
	name     string
	prefix   string
	mws      []func(http.Handler) http.Handler
	register func(httpkit.Router)

	startedAt time.Time
}

// New constructs a meta module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		startedAt: time.Now(),
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		d := metahttp.Deps{
			ServiceName: version.Info().Service,
			StartedAt:   m.startedAt,
			Probes: []metahttp.Probe{
				{Name: "pg", Ping: pingOf(deps.PG)},
				{Name: "ch", Ping: pingOf(deps.CH)},
				{Name: "redis"},
			},
		}
		if rds := deps.RDS; rds != nil {
			d.Probes[2].Ping = func(ctx context.Context) error { return rds.Ping(ctx).Err() }
		}
		metahttp.Register(r, d)
		if external != nil {
			external(r)
		}
	}

	return m
}

// pingOf returns the store's Ping method, nil when absent or not pingable
func pingOf(store any) func(context.Context) error {
	if p, ok := store.(interface{ Ping(context.Context) error }); ok && p != nil {
		return p.Ping
	}
	return nil
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		m.register(rr)
	})
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.MustString(m.name, "meta") }

// Prefix implements the modkit.Module interface
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares implements the modkit.Module interface
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
