// Package http serves the meta endpoints: liveness, readiness, build info and catalogue digest
package http

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"assistify/internal/core/confirm"
	"assistify/internal/core/intent"
	"assistify/internal/core/version"
	"assistify/internal/modkit/httpkit"
)

const readyTimeout = 2 * time.Second

// Probe is one readiness dependency; a nil Ping reports the dependency as skipped
type Probe struct {
	Name string
	Ping func(context.Context) error
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Probes      []Probe
}

type handlers struct{ Deps }

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	h := handlers{d}
	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
	httpkit.Get(r, "/catalog", h.catalog)
}

// HealthResponse is the liveness payload
type HealthResponse struct {
	OK      bool   `json:"ok"      example:"true"`
	Service string `json:"service" example:"assistify-api"`
	Started string `json:"started" example:"2025-09-03T13:00:00Z"`
	Now     string `json:"now"     example:"2025-09-03T13:05:00Z"`
}

// ReadyCheck is the outcome of one probe: ok, fail or skipped
type ReadyCheck struct {
	Name   string `json:"name"            example:"redis"`
	Status string `json:"status"          example:"ok"`
	Error  string `json:"error,omitempty" example:"connection refused"`
}

// ReadyResponse is ok unless a configured store failed its ping
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"`
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2025-09-03T13:05:00Z"`
}

// ServiceResponse carries the service name and uptime in seconds
type ServiceResponse struct {
	Name    string `json:"name"    example:"assistify-api"`
	Started string `json:"started" example:"2025-09-03T13:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"300"`
}

// CatalogResponse identifies the intent catalogue compiled into the binary
type CatalogResponse struct {
	Digest    string            `json:"digest"    example:"5f2c9a0d41be"`
	Intents   int               `json:"intents"   example:"58"`
	Abilities int               `json:"abilities" example:"49"`
	Confirmed int               `json:"confirmed" example:"14"`
	Build     version.BuildInfo `json:"build"`
}

func stamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

// @Summary Liveness
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /meta/health [get]
func (h handlers) health(*http.Request) (any, error) {
	return HealthResponse{OK: true, Service: h.ServiceName, Started: stamp(h.StartedAt), Now: stamp(time.Now())}, nil
}

// @Summary Readiness with a ping per configured store
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse
// @Router /meta/ready [get]
func (h handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	checks := make([]ReadyCheck, len(h.Probes))
	var g errgroup.Group
	for i, p := range h.Probes {
		checks[i] = ReadyCheck{Name: p.Name, Status: "skipped"}
		if p.Ping == nil {
			continue
		}
		g.Go(func() error {
			if err := p.Ping(ctx); err != nil {
				checks[i].Status, checks[i].Error = "fail", err.Error()
			} else {
				checks[i].Status = "ok"
			}
			return nil
		})
	}
	_ = g.Wait()

	out := ReadyResponse{Status: "ok", Checks: checks, Now: stamp(time.Now())}
	for _, c := range checks {
		if c.Status == "fail" {
			out.Status = "fail"
		}
	}
	return out, nil
}

// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo
// @Router /meta/version [get]
func (handlers) version(*http.Request) (any, error) { return version.Info(), nil }

// @Summary Service name and uptime
// @Tags Meta
// @Produce json
// @Success 200 {object} ServiceResponse
// @Router /meta/service [get]
func (h handlers) service(*http.Request) (any, error) {
	return ServiceResponse{
		Name:    h.ServiceName,
		Started: stamp(h.StartedAt),
		Uptime:  int64(time.Since(h.StartedAt) / time.Second),
	}, nil
}

// @Summary Intent catalogue digest and counts
// @Tags Meta
// @Produce json
// @Success 200 {object} CatalogResponse
// @Router /meta/catalog [get]
func (handlers) catalog(*http.Request) (any, error) {
	t, err := intent.Load(nil)
	if err != nil {
		return nil, err
	}
	ids := t.Abilities()
	policy := confirm.DefaultPolicy()
	confirmed := 0
	for _, id := range ids {
		if policy.Level(id) != confirm.LevelNone {
			confirmed++
		}
	}
	sum := sha256.Sum256(intent.Builtin())
	return CatalogResponse{
		Digest:    hex.EncodeToString(sum[:6]),
		Intents:   t.Len(),
		Abilities: len(ids),
		Confirmed: confirmed,
		Build:     version.Info(),
	}, nil
}
