package repository

import (
	"context"
	"fmt"
	"time"

	"hospital-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type Transactor interface {
	// WithinTransaction commits when fn returns nil and rolls back otherwise.
	// The repositories handed to fn must not escape it.
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx *Repository) error) error
}

type pgTransactor struct {
	db          database.PgxIface
	log         *zap.Logger
	lockTimeout time.Duration
}

func (t *pgTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx *Repository) error) error {
	return database.WithTransaction(ctx, t.db, func(tx pgx.Tx) error {
		if t.lockTimeout > 0 {
			// SET does not take bind parameters
			stmt := fmt.Sprintf("SET LOCAL lock_timeout = %d", t.lockTimeout.Milliseconds())
			if _, err := tx.Exec(ctx, stmt); err != nil {
				t.log.Error("Failed to set lock timeout",
					zap.Error(err),
					zap.Duration("lock_timeout", t.lockTimeout),
				)
				return fmt.Errorf("set lock timeout: %w", err)
			}
		}

		txRepo := newRepository(tx, t.log)
		txRepo.Tx = joinedTransactor{repo: txRepo}
		return fn(ctx, txRepo)
	})
}

// joinedTransactor runs nested units of work inside the enclosing transaction.
type joinedTransactor struct {
	repo *Repository
}

func (j joinedTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx *Repository) error) error {
	return fn(ctx, j.repo)
}
