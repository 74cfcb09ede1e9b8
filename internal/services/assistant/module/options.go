package module

import (
	"time"

	"assistify/internal/platform/config"
)

// Pending store backends
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Audit sink names
const (
	SinkLog        = "log"
	SinkPostgres   = "postgres"
	SinkClickhouse = "clickhouse"
)

// Options controls assistant wiring
type Options struct {
	PendingBackend  string        // memory | redis | postgres
	PendingCapacity int           // memory backend only
	PurgeInterval   time.Duration // postgres backend only; 0 disables the sweeper

	AuditSinks  []string // any of log, postgres, clickhouse
	AuditBuffer int

	// remote ability executor; empty URL leaves only local abilities
	PlatformURL     string
	PlatformToken   string
	PlatformTimeout time.Duration
	PlatformRetries int

	AdminRole      string
	AllowAnonAdmin bool
	AutoMigrate    bool
}

// FromConfig reads ASSISTANT_* values from process config/env
func FromConfig(cfg config.Conf) Options {
	ac := cfg.Prefix("ASSISTANT_")
	return Options{
		PendingBackend:  ac.MayEnum("PENDING_BACKEND", BackendMemory, BackendMemory, BackendRedis, BackendPostgres),
		PendingCapacity: ac.MayInt("PENDING_CAPACITY", 10000),
		PurgeInterval:   ac.MayDuration("PENDING_PURGE_INTERVAL", time.Minute),
		AuditSinks:      ac.MayCSV("AUDIT_SINKS", []string{SinkLog}),
		AuditBuffer:     ac.MayInt("AUDIT_BUFFER", 256),
		PlatformURL:     ac.MayURL("PLATFORM_URL"),
		PlatformToken:   ac.MayString("PLATFORM_TOKEN", ""),
		PlatformTimeout: ac.MayDuration("PLATFORM_TIMEOUT", 15*time.Second),
		PlatformRetries: ac.MayInt("PLATFORM_RETRIES", 3),
		AdminRole:       ac.MayString("ADMIN_ROLE", "admin"),
		AllowAnonAdmin:  ac.MayBool("ALLOW_ANON_ADMIN", false),
		AutoMigrate:     ac.MayBool("AUTO_MIGRATE", true),
	}
}
