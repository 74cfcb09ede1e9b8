package store

import (
	"context"

	"assistify/internal/platform/store/ch"
)

// chConn is the part of *ch.CH the adapter needs
type chConn interface {
	Insert(ctx context.Context, table string, rows [][]any) error
	Exec(ctx context.Context, sql string, args ...any) error
	Query(ctx context.Context, sql string, args ...any) (ch.Rows, error)
	Ping(ctx context.Context) error
	Close() error
}

// chAdapter narrows ch.Rows to the store Rows shape; every other call passes through
type chAdapter struct{ chConn }

var _ Clickhouse = chAdapter{}

func (a chAdapter) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	r, err := a.chConn.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return chRows{r}, nil
}

// chRows drops the Close error, which the driver also reports through Err
type chRows struct{ ch.Rows }

func (r chRows) Close() { _ = r.Rows.Close() }
