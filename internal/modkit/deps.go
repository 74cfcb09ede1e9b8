// Package modkit provides module wiring and core deps
package modkit

import (
	"github.com/redis/go-redis/v9"

	"assistify/internal/modkit/repokit"
	"assistify/internal/platform/config"
	"assistify/internal/platform/logger"
	"assistify/internal/platform/store"
)

// Deps holds core dependencies passed to modules; any store may be nil
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse
	RDS redis.UniversalClient
}
