package postgres

import (
	"context"
	"fmt"

	"github.com/allkinds24/allkinds-backend/internal/repository"
	"github.com/jmoiron/sqlx"
)

type txKey struct{}

type transactor struct {
	db *sqlx.DB
}

func NewTransactor(db *sqlx.DB) repository.Transactor {
	return &transactor{db: db}
}

// WithinTx begins a transaction, binds it to the context passed to fn, and
// commits when fn returns nil. Repositories in this package pick the
// transaction up through ext.
func (t *transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// ext returns the transaction bound to ctx, or the base connection pool.
func ext(ctx context.Context, db *sqlx.DB) sqlx.ExtContext {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return db
}
