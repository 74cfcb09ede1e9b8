// Package repokit is the seam between SQL repositories and the store layer
package repokit

import (
	"context"

	perr "assistify/internal/platform/errors"
	"assistify/internal/platform/store"
)

// Queryer is what a bound repository issues statements against: a pool or an open tx
type Queryer = store.RowQuerier

// TxRunner opens transactions
type TxRunner = store.TxRunner

// Binder produces a repository bound to a Queryer
type Binder[T any] interface {
	Bind(Queryer) T
}

// MustBind binds b to q and panics on a nil q, which is a wiring bug
func MustBind[T any](b Binder[T], q Queryer) T {
	if q == nil {
		panic("repokit: bind on nil Queryer")
	}
	return b.Bind(q)
}

// WithTx runs fn in one transaction; a nil runner means postgres is not configured
func WithTx(ctx context.Context, tx TxRunner, fn func(q Queryer) error) error {
	if tx == nil {
		return perr.Unavailablef("postgres not configured")
	}
	return tx.Tx(ctx, fn)
}
