package repo

import (
	"context"
	"errors"
	"time"

	"assistify/internal/core/confirm"
	"assistify/internal/modkit/repokit"
	perr "assistify/internal/platform/errors"
	"assistify/internal/platform/store"
)

type (
	// PendingPG is the postgres implementation of confirm.Store
	PendingPG struct{}
	pending   struct{ q repokit.Queryer }
)

// NewPendingPG returns a binder for the postgres pending store
func NewPendingPG() repokit.Binder[confirm.Store] { return PendingPG{} }

// Bind attaches a Queryer to the postgres pending store
func (PendingPG) Bind(q repokit.Queryer) confirm.Store { return &pending{q: q} }

const pendingCols = `token, ability_id, params, level, code, preview, user_id, session_id, created_at, expires_at`

// Put inserts p unless the token already exists; expiry is carried by p.ExpiresAt
func (r *pending) Put(ctx context.Context, p confirm.Pending, _ time.Duration) (bool, error) {
	params, err := confirm.EncodeParams(p.Params)
	if err != nil {
		return false, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "pending params")
	}
	const sql = `
		INSERT INTO assistant_pending (` + pendingCols + `)
		VALUES ($1, $2, $3::jsonb, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (token) DO NOTHING
	`
	tag, err := r.q.Exec(ctx, sql,
		p.Token, p.AbilityID, params, p.Level.String(), p.Code, p.Preview,
		p.UserID, p.SessionID, p.CreatedAt.UTC(), p.ExpiresAt.UTC(),
	)
	if err != nil {
		return false, perr.FromPostgres(err, "pending put")
	}
	return tag.RowsAffected() == 1, nil
}

// Get reads a pending row without consuming it
func (r *pending) Get(ctx context.Context, token string) (confirm.Pending, bool, error) {
	const sql = `SELECT ` + pendingCols + ` FROM assistant_pending WHERE token = $1`
	return found(store.One(ctx, r.q, scanPending, sql, token))
}

// Take deletes and returns the row in one statement; concurrent callers see at most one row
func (r *pending) Take(ctx context.Context, token string) (confirm.Pending, bool, error) {
	const sql = `DELETE FROM assistant_pending WHERE token = $1 RETURNING ` + pendingCols
	return found(store.One(ctx, r.q, scanPending, sql, token))
}

// Delete removes a row, reporting whether one existed
func (r *pending) Delete(ctx context.Context, token string) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM assistant_pending WHERE token = $1`, token)
	if err != nil {
		return false, perr.FromPostgres(err, "pending delete")
	}
	return tag.RowsAffected() > 0, nil
}

// PurgeExpired deletes rows whose expiry is at or before now and returns how many went
func PurgeExpired(ctx context.Context, q repokit.Queryer, now time.Time) (int64, error) {
	tag, err := q.Exec(ctx, `DELETE FROM assistant_pending WHERE expires_at <= $1`, now.UTC())
	if err != nil {
		return 0, perr.FromPostgres(err, "pending purge")
	}
	return tag.RowsAffected(), nil
}

func scanPending(row store.Row) (confirm.Pending, error) {
	var (
		p      confirm.Pending
		params []byte
		level  string
	)
	if err := row.Scan(
		&p.Token, &p.AbilityID, &params, &level, &p.Code, &p.Preview,
		&p.UserID, &p.SessionID, &p.CreatedAt, &p.ExpiresAt,
	); err != nil {
		return confirm.Pending{}, err
	}
	if err := p.Level.UnmarshalText([]byte(level)); err != nil {
		return confirm.Pending{}, err
	}
	decoded, err := confirm.DecodeParams(params)
	if err != nil {
		return confirm.Pending{}, err
	}
	p.Params = decoded
	return p, nil
}

func found(p confirm.Pending, err error) (confirm.Pending, bool, error) {
	if errors.Is(err, perr.ErrNotFound) {
		return confirm.Pending{}, false, nil
	}
	if err != nil {
		return confirm.Pending{}, false, perr.FromPostgres(err, "pending read")
	}
	return p, true, nil
}
