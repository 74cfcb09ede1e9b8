// Package store opens the optional postgres, clickhouse and redis backends behind small seams
package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"assistify/internal/platform/logger"
)

// Row is a single result row
type Row interface {
	Scan(dest ...any) error
}

// Rows is a result set; Close must be called when iteration stops early
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
	Columns() []string
}

// CommandTag reports what a statement did
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier is what SQL repositories run statements against
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner is a RowQuerier that can also open a transaction
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Clickhouse is the columnar seam; Insert takes rows with values in table column order
type Clickhouse interface {
	Insert(ctx context.Context, table string, rows [][]any) error
	Exec(ctx context.Context, sql string, args ...any) error
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	Ping(ctx context.Context) error
	Close() error
}

// Store holds whichever backends Open enabled; the others stay nil
type Store struct {
	Log logger.Logger
	PG  TxRunner
	CH  Clickhouse
	RDS redis.UniversalClient

	closers []func() error
}

// Option configures Open
type Option func(*Store)

// WithLogger sets the logger backends trace and retry through
func WithLogger(log logger.Logger) Option { return func(s *Store) { s.Log = log } }

// Open connects the enabled backends in order pg, ch, redis
// a failure closes whatever already opened
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{Log: zerolog.Nop()}
	for _, o := range opts {
		o(s)
	}

	if cfg.PG.Enabled {
		pg, err := openPG(ctx, cfg, s)
		if err != nil {
			return nil, err
		}
		s.PG = pg
		if c, ok := pg.(interface{ Close() error }); ok {
			s.closers = append(s.closers, c.Close)
		}
	}
	if cfg.CH.Enabled {
		c, err := openCH(ctx, cfg, s)
		if err != nil {
			return nil, errors.Join(err, s.Close(ctx))
		}
		s.CH = c
		s.closers = append(s.closers, c.Close)
	}
	if cfg.RDS.Enabled {
		rdb, err := openRDS(ctx, cfg, s)
		if err != nil {
			return nil, errors.Join(err, s.Close(ctx))
		}
		s.RDS = rdb
		s.closers = append(s.closers, rdb.Close)
	}
	return s, nil
}

// Close releases the opened backends in reverse order
func (s *Store) Close(context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	s.closers = nil
	return errors.Join(errs...)
}
