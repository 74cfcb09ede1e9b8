// Package repo provides postgres and clickhouse persistence for the assistant
package repo

import (
	"context"
	_ "embed"
	"strings"

	"assistify/internal/modkit/repokit"
	perr "assistify/internal/platform/errors"
	"assistify/internal/platform/store"
)

//go:embed schema.sql
var schemaPG string

//go:embed schema_ch.sql
var schemaCH string

// EnsureSchema creates the postgres tables when missing
func EnsureSchema(ctx context.Context, q repokit.Queryer) error {
	for _, stmt := range statements(schemaPG) {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return perr.FromPostgres(err, "assistant schema")
		}
	}
	return nil
}

// EnsureSchemaCH creates the clickhouse audit table when missing
func EnsureSchemaCH(ctx context.Context, ch store.Clickhouse) error {
	for _, stmt := range statements(schemaCH) {
		if err := ch.Exec(ctx, stmt); err != nil {
			return perr.Wrap(err, perr.ErrorCodeDB, "assistant clickhouse schema")
		}
	}
	return nil
}

func statements(src string) []string {
	var out []string
	for _, s := range strings.Split(src, ";") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
