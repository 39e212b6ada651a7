// Package repokit holds the seams repos are written against: store aliases, binders
// that attach a repo to the pool or a tx, and tx begin hooks
package repokit

import (
	"context"

	"trendscope/internal/platform/store"
)

type (
	// Queryer is the read and write surface a bound repo uses
	Queryer = store.RowQuerier

	// TxRunner runs a function inside a transaction
	TxRunner = store.TxRunner

	// Rows is a result set
	Rows = store.Rows

	// Row is a single row
	Row = store.Row

	// CommandTag reports what a write touched
	CommandTag = store.CommandTag
)

// Binder attaches a repo to a Queryer, either the pool or a tx
type Binder[T any] interface {
	Bind(Queryer) T
}

// BindFunc adapts a constructor to a Binder
type BindFunc[T any] func(Queryer) T

// Bind calls f
func (f BindFunc[T]) Bind(q Queryer) T { return f(q) }

// MustBind binds b to q; a nil q is a wiring bug
func MustBind[T any](b Binder[T], q Queryer) T {
	if q == nil {
		panic("repokit: nil Queryer")
	}
	return b.Bind(q)
}

// WithTx runs fn inside a transaction on tx
func WithTx(ctx context.Context, tx TxRunner, fn func(q Queryer) error) error {
	return tx.Tx(ctx, fn)
}

// InTx binds b to a fresh transaction and hands the repo to fn
func InTx[T any](ctx context.Context, tx TxRunner, b Binder[T], fn func(T) error) error {
	return tx.Tx(ctx, func(q Queryer) error { return fn(MustBind(b, q)) })
}
