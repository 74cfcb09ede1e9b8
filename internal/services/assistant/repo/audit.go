package repo

import (
	"context"
	"encoding/json"

	"assistify/internal/core/audit"
	"assistify/internal/modkit/repokit"
	perr "assistify/internal/platform/errors"
	"assistify/internal/platform/store"
	ptime "assistify/internal/platform/time"
	"assistify/internal/services/assistant/domain"
)

// AuditRepo stores audit events and reads them back
type AuditRepo interface {
	audit.Sink
	domain.AuditReader
}

type (
	// AuditPG is the postgres implementation of AuditRepo
	AuditPG      struct{}
	auditQueries struct{ q repokit.Queryer }
)

// NewAuditPG returns a binder for the postgres audit repo
func NewAuditPG() repokit.Binder[AuditRepo] { return AuditPG{} }

// Bind attaches a Queryer to the postgres audit repo
func (AuditPG) Bind(q repokit.Queryer) AuditRepo { return &auditQueries{q: q} }

// Record appends one event
func (r *auditQueries) Record(ctx context.Context, e audit.Event) error {
	params, err := encodeParams(e.Params)
	if err != nil {
		return err
	}
	const sql = `
		INSERT INTO assistant_audit (at, kind, token, ability_id, level, user_id, session_id, params, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9)
	`
	_, err = r.q.Exec(ctx, sql,
		e.At.UTC(), string(e.Kind), e.Token, e.AbilityID, e.Level,
		e.UserID, e.SessionID, params, e.Error,
	)
	return perr.FromPostgres(err, "audit insert")
}

// Recent returns the newest events first, filtered by ability, user and start time
func (r *auditQueries) Recent(ctx context.Context, in domain.AuditQuery) ([]domain.AuditRow, error) {
	since := ptime.Ptr(in.Since.UTC())
	const sql = `
		SELECT at, kind, token, ability_id, level, user_id, session_id, params, error
		FROM assistant_audit
		WHERE ($1 = '' OR ability_id = $1)
		  AND ($2 = '' OR user_id = $2)
		  AND ($3::timestamptz IS NULL OR at >= $3)
		ORDER BY at DESC, id DESC
		LIMIT $4
	`
	rows, err := store.StructsByName[domain.AuditRow](ctx, r.q, sql, in.AbilityID, in.UserID, since, in.Limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "audit list")
	}
	return rows, nil
}

// AuditCH writes events into an append-only clickhouse table
type AuditCH struct {
	ch    store.Clickhouse
	table string
}

// NewAuditCH returns a clickhouse sink writing to assistant_audit
func NewAuditCH(ch store.Clickhouse) *AuditCH {
	if ch == nil {
		panic("assistant: clickhouse audit sink requires a non nil client")
	}
	return &AuditCH{ch: ch, table: "assistant_audit"}
}

// Record appends one event as a single row batch
func (a *AuditCH) Record(ctx context.Context, e audit.Event) error {
	params, err := encodeParams(e.Params)
	if err != nil {
		return err
	}
	row := []any{
		e.At.UTC(), string(e.Kind), e.Token, e.AbilityID, e.Level,
		e.UserID, e.SessionID, string(params), e.Error,
	}
	if err := a.ch.Insert(ctx, a.table, [][]any{row}); err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "audit clickhouse insert")
	}
	return nil
}

func encodeParams(p map[string]any) ([]byte, error) {
	if p == nil {
		return []byte("{}"), nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "audit params")
	}
	return b, nil
}
