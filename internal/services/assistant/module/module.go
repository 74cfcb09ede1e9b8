// Package module wires the assistant into the API using modkit
package module

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"assistify/internal/adapters/abilities"
	"assistify/internal/core/ability"
	"assistify/internal/core/audit"
	"assistify/internal/core/confirm"
	"assistify/internal/core/intent"
	modkit "assistify/internal/modkit"
	"assistify/internal/modkit/httpkit"
	"assistify/internal/modkit/repokit"
	"assistify/internal/platform/cache"
	"assistify/internal/platform/logger"
	"assistify/internal/platform/metrics"
	str "assistify/internal/platform/strings"

	ahttp "assistify/internal/services/assistant/http"
	arepo "assistify/internal/services/assistant/repo"
	asvc "assistify/internal/services/assistant/service"
)

// redisPrefix namespaces pending keys in a shared redis
const redisPrefix = "assistify:"

// Module implements the assistant API module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws      []func(http.Handler) http.Handler
	ports    any
	register func(httpkit.Router)

	svc   asvc.Service
	audit *audit.Async

	stop     context.CancelFunc
	sweeping sync.WaitGroup
}

// Ports are optional collaborators injected with modkit.WithPorts, mostly for tests
type Ports struct {
	// Registry replaces the builtin catalogue backed by the platform client
	Registry ability.Registry
	// Pending replaces the configured backend
	Pending confirm.Store
	// Audit is added to the configured sinks
	Audit audit.Sink
	// Metrics defaults to the process registry
	Metrics prometheus.Registerer
	// Clock defaults to time.Now
	Clock func() time.Time
}

// New constructs the assistant module (config-driven, parity with other API modules)
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("assistant"),
		modkit.WithPrefix("/assistant"),
	}, opts...)...)

	cfg := FromConfig(deps.Cfg)
	log := logger.Named("assistant")

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	now := injected.Clock
	if now == nil {
		now = time.Now
	}

	if cfg.AutoMigrate {
		migrate(deps, cfg)
	}

	registry := injected.Registry
	if registry == nil {
		registry = newRegistry(cfg)
	}

	m := &Module{
		deps:   deps,
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
	}

	pending := injected.Pending
	if pending == nil {
		pending = m.newPending(deps, cfg)
	}

	sinks, reader := newSinks(deps, cfg)
	if injected.Audit != nil {
		sinks = append(sinks, injected.Audit)
	}
	reg := injected.Metrics
	if reg == nil {
		reg = metrics.Default()
	}
	mx := asvc.NewMetrics(reg)
	m.audit = audit.NewAsync(sinks, cfg.AuditBuffer, audit.OnDrop(mx.AuditDropped), audit.OnFail(mx.AuditFailed))

	flow := confirm.NewWorkflow(pending, registry,
		confirm.WithAudit(m.audit),
		confirm.WithObserver(mx.ObserveConfirmation),
		confirm.WithClock(now),
	)

	m.svc = asvc.New(asvc.Options{
		Table:          intent.MustLoad(intent.Clock(now)),
		Registry:       registry,
		Workflow:       flow,
		Audit:          reader,
		Metrics:        mx,
		AdminRole:      cfg.AdminRole,
		AllowAnonAdmin: cfg.AllowAnonAdmin,
	})
	m.ports = adaptAssistantPort{svc: m.svc}

	log.Info().
		Str("pending", cfg.PendingBackend).
		Strs("audit", cfg.AuditSinks).
		Bool("remote_abilities", cfg.PlatformURL != "").
		Msg("assistant module ready")

	external := b.Register
	m.register = func(r httpkit.Router) {
		ahttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.Prefix(), func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		m.register(rr)
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "assistant") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Close stops the pending sweeper and drains queued audit events
func (m *Module) Close(ctx context.Context) error {
	if m.stop != nil {
		m.stop()
		m.sweeping.Wait()
	}
	return m.audit.Close(ctx)
}

func newRegistry(cfg Options) ability.Registry {
	var exec ability.Executor
	if cfg.PlatformURL != "" {
		c, err := abilities.NewClient(abilities.Options{
			BaseURL:    cfg.PlatformURL,
			Token:      cfg.PlatformToken,
			UserAgent:  "assistify",
			Timeout:    cfg.PlatformTimeout,
			MaxRetries: cfg.PlatformRetries,
		})
		if err != nil {
			panic("assistant: " + err.Error())
		}
		exec = c
	}
	return ability.NewBuiltinCatalog(exec)
}

func (m *Module) newPending(deps modkit.Deps, cfg Options) confirm.Store {
	switch strings.ToLower(cfg.PendingBackend) {
	case BackendRedis:
		if deps.RDS == nil {
			panic("assistant: pending backend redis requires a redis client")
		}
		return confirm.NewCacheStore(cache.NewRedis(deps.RDS, redisPrefix))

	case BackendPostgres:
		if deps.PG == nil {
			panic("assistant: pending backend postgres requires postgres")
		}
		if cfg.PurgeInterval > 0 {
			ctx, cancel := context.WithCancel(context.Background())
			m.stop = cancel
			sw := asvc.NewSweeper(deps.PG, cfg.PurgeInterval)
			m.sweeping.Add(1)
			go func() {
				defer m.sweeping.Done()
				_ = sw.Run(ctx)
			}()
		}
		return repokit.MustBind(arepo.NewPendingPG(), deps.PG)

	default:
		return confirm.NewCacheStore(cache.NewMemory(cfg.PendingCapacity, confirm.DefaultTTL))
	}
}

func newSinks(deps modkit.Deps, cfg Options) (audit.Multi, arepo.AuditRepo) {
	var (
		sinks  audit.Multi
		reader arepo.AuditRepo
	)
	for _, name := range cfg.AuditSinks {
		switch strings.ToLower(name) {
		case SinkLog:
			sinks = append(sinks, audit.NewLogSink())
		case SinkPostgres:
			if deps.PG == nil {
				panic("assistant: audit sink postgres requires postgres")
			}
			reader = repokit.MustBind(arepo.NewAuditPG(), deps.PG)
			sinks = append(sinks, reader)
		case SinkClickhouse:
			if deps.CH == nil {
				panic("assistant: audit sink clickhouse requires clickhouse")
			}
			sinks = append(sinks, arepo.NewAuditCH(deps.CH))
		default:
			panic("assistant: unknown audit sink " + name)
		}
	}
	return sinks, reader
}

func migrate(deps modkit.Deps, cfg Options) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if deps.PG != nil && (strings.EqualFold(cfg.PendingBackend, BackendPostgres) || has(cfg.AuditSinks, SinkPostgres)) {
		err := repokit.WithTx(ctx, deps.PG, func(q repokit.Queryer) error { return arepo.EnsureSchema(ctx, q) })
		if err != nil {
			panic("assistant: " + err.Error())
		}
	}
	if deps.CH != nil && has(cfg.AuditSinks, SinkClickhouse) {
		if err := arepo.EnsureSchemaCH(ctx, deps.CH); err != nil {
			panic("assistant: " + err.Error())
		}
	}
}

func has(list []string, v string) bool {
	for _, s := range list {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}
