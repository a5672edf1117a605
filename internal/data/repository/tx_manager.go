package repository

import (
	"context"
	"fmt"

	"hospitality-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// TxManager runs a function as one atomic unit. Repository calls made with
// the context passed to fn join that unit.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type txManager struct {
	db            database.PgxIface
	lockTimeoutMs int64
	log           *zap.Logger
}

func NewTxManager(db database.PgxIface, lockTimeoutMillis int64, log *zap.Logger) TxManager {
	return &txManager{
		db:            db,
		lockTimeoutMs: lockTimeoutMillis,
		log:           log.With(zap.String("repository", "tx")),
	}
}

func (m *txManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	opts := pgx.TxOptions{IsoLevel: pgx.ReadCommitted}
	err := database.WithTx(ctx, m.db, opts, func(ctx context.Context) error {
		if m.lockTimeoutMs > 0 {
			// SET does not take bind parameters
			stmt := fmt.Sprintf("SET LOCAL lock_timeout = %d", m.lockTimeoutMs)
			if _, err := database.Conn(ctx, m.db).Exec(ctx, stmt); err != nil {
				return fmt.Errorf("set lock timeout: %w", err)
			}
		}
		return fn(ctx)
	})
	if err != nil && database.IsLockTimeout(err) {
		m.log.Warn("Transaction lost lock race", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrLockTimeout, err)
	}
	return err
}
