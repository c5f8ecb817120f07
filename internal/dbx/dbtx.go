// Package dbx holds the small database/sql helpers shared by the local
// sqlite store and the Postgres row store: the DBTX handle and transaction
// runners.
package dbx

import (
	"context"
	"database/sql"
	"fmt"
)

// ClaimSubject is the Postgres setting row-level security policies read the
// caller's user id from (auth.uid() on Supabase).
const ClaimSubject = "request.jwt.claim.sub"

// DBTX is the subset of database/sql used by the repositories.
// Both *sql.DB and *sql.Tx satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs fn inside a transaction. It commits when fn returns nil and
// rolls back on error or panic; panics are rethrown.
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	return fn(ctx, tx)
}

// WithClaimTx is WithTx on Postgres with ClaimSubject set to subject for
// the lifetime of the transaction only.
func WithClaimTx(ctx context.Context, db *sql.DB, subject string, fn func(ctx context.Context, tx DBTX) error) error {
	return WithTx(ctx, db, nil, func(ctx context.Context, tx DBTX) error {
		if _, err := tx.ExecContext(ctx, `SELECT set_config($1, $2, true)`, ClaimSubject, subject); err != nil {
			return fmt.Errorf("set %s: %w", ClaimSubject, err)
		}
		return fn(ctx, tx)
	})
}
