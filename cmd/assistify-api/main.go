// @title         Assistify API
// @version       0.3.0
// @description   Conversational command layer for store admins and shoppers
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"assistify/internal/core/version"
	"assistify/internal/modkit/httpkit"
	"assistify/internal/platform/config"
	"assistify/internal/platform/logger"
	phttp "assistify/internal/platform/net/http"
	"assistify/internal/platform/store"

	"assistify/internal/services/api"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	pgCfg := root.Prefix("SERVICE_PGSQL_")      // pgCfg lives under SERVICE_PGSQL_*
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_") // chCfg lives under SERVICE_CLICKHOUSE_*
	rdsCfg := root.Prefix("SERVICE_REDIS_")     // rdsCfg lives under SERVICE_REDIS_*

	// bring up logging early (LOG_LEVEL, LOG_FORMAT, ...)
	logOpt := logger.FromEnv()
	if logOpt.Service == "" {
		logOpt.Service = version.Info().Service
	}
	logger.Init(logOpt)
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// every backend is optional; the assistant falls back to memory and log sinks
	pgURL := pgCfg.MayString("DBURL", "")
	chURL := chCfg.MayString("DBURL", "")
	rdsAddr := rdsCfg.MayString("ADDR", "")

	st, err := store.Open(ctx,
		store.Config{
			AppName: "assistify",
			PG: store.PGConfig{
				Enabled:     pgURL != "",
				URL:         pgURL,
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", false),
			},
			CH: store.CHConfig{
				Enabled: chURL != "",
				URL:     chURL,
			},
			RDS: store.RedisConfig{
				Enabled:  rdsAddr != "",
				Addr:     rdsAddr,
				Password: rdsCfg.MayString("PASSWORD", ""),
				DB:       rdsCfg.MayInt("DB", 0),
			},
		},
		store.WithLogger(*logger.Get()),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// bearer tokens as token:user_id[:role], comma separated
	tokens, err := httpkit.StaticTokens(apiCfg.MayString("TOKENS", ""))
	if err != nil {
		l.Panic().Err(err).Msg("invalid CORE_API_TOKENS")
	}

	// http server (reads CORE_API_PORT / CORE_API_ADDR)
	srv := phttp.NewServer(apiCfg)

	// mount our API
	closeModules := api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Store:          st,
			Logger:         l,
			Auth:           httpkit.NewPortFunc(tokens),
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
			EnableMetrics:  apiCfg.MayBool("METRICS", true),
		},
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })
	g.Go(func() error {
		<-gctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutCtx); err != nil {
			return err
		}
		return closeModules(shutCtx)
	})

	// run
	if err := g.Wait(); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
	l.Info().Msg("bye")
}
