// Package tx carries an open *sql.Tx through context so store methods called
// inside a RunInTx block join the same database transaction. The role
// services rely on this to make the demote-then-promote pair atomic.
package tx

import (
	"context"
	"database/sql"
)

type ctxKey struct{}

var txKey = ctxKey{}

// WithTx returns a context carrying the transaction. A nil transaction
// leaves the context untouched.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey, tx)
}

// From returns the transaction carried by the context, if any. Stores fall
// back to their plain connection when none is present.
func From(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey).(*sql.Tx)
	return tx, ok
}
