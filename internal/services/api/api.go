// Package api provides the HTTP API for the application
package api

import (
	"context"
	"errors"

	"assistify/internal/platform/config"
	"assistify/internal/platform/logger"
	"assistify/internal/platform/metrics"
	phttp "assistify/internal/platform/net/http"
	"assistify/internal/platform/net/middleware"
	"assistify/internal/platform/store"

	"assistify/internal/modkit"
	"assistify/internal/modkit/httpkit"
	"assistify/internal/modkit/module"
	"assistify/internal/modkit/swaggerkit"

	metamod "assistify/internal/services/api/meta/module"
	assistantmod "assistify/internal/services/assistant/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	Auth           middleware.AuthPort
	EnableSwagger  bool
	EnableProfiler bool
	EnableMetrics  bool
}

// Closer releases module resources on shutdown
type Closer func(ctx context.Context) error

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) Closer {
	// shared deps for modules
	deps := modkit.Deps{Cfg: opt.Config}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}
	if opt.Store != nil {
		deps.PG = opt.Store.PG
		deps.CH = opt.Store.CH
		deps.RDS = opt.Store.RDS
	}

	// shoppers may chat anonymously, tokens only add identity and role
	mods := []module.Module{
		metamod.New(deps),
		assistantmod.New(deps, modkit.WithMiddlewares(httpkit.OptionalAuth(opt.Auth))),
	}

	// versioned API with a common middleware stack
	cors := middleware.CORSOptions{
		AllowedOrigins: opt.Config.Prefix("CORS_").MayCSV("ALLOWED_ORIGINS", nil),
		MaxAge:         opt.Config.Prefix("CORS_").MayInt("MAX_AGE", 300),
	}
	httpkit.MountAPIV1(r, httpkit.CommonStack(cors), func(api httpkit.Router) {
		// Swagger + profiler + metrics
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)
		if opt.EnableMetrics {
			r.Handle("/metrics", metrics.Handler(metrics.Default()))
		}

		for _, m := range mods {
			m.MountRoutes(api)
		}
	})

	return func(ctx context.Context) error {
		var errs []error
		for _, m := range mods {
			if c, ok := m.(interface{ Close(context.Context) error }); ok {
				errs = append(errs, c.Close(ctx))
			}
		}
		return errors.Join(errs...)
	}
}
