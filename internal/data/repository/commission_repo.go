package repository

import (
	"context"
	"fmt"

	"hospitality-booking/internal/data/entity"
	"hospitality-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type CommissionRepository interface {
	FindActive(ctx context.Context) (*entity.CommissionConfig, error)
	// Activate deactivates the current active row and inserts config as the
	// new active one. Must run inside a transaction.
	Activate(ctx context.Context, config *entity.CommissionConfig) error
}

type commissionRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCommissionRepository(db database.PgxIface, log *zap.Logger) CommissionRepository {
	return &commissionRepository{
		db:  db,
		log: log.With(zap.String("repository", "commission")),
	}
}

func (r *commissionRepository) FindActive(ctx context.Context) (*entity.CommissionConfig, error) {
	query := `
		SELECT id, rate, is_active, created_at, updated_at
		FROM commission_configs
		WHERE is_active
		LIMIT 1
	`

	var (
		config  entity.CommissionConfig
		percent float64
	)
	err := database.Conn(ctx, r.db).QueryRow(ctx, query).Scan(
		&config.ID,
		&percent,
		&config.IsActive,
		&config.CreatedAt,
		&config.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find active commission config", zap.Error(err))
		return nil, fmt.Errorf("find active commission config: %w", err)
	}

	config.Rate = entity.RateFromPercent(percent)
	return &config, nil
}

func (r *commissionRepository) Activate(ctx context.Context, config *entity.CommissionConfig) error {
	if !database.InTx(ctx) {
		return fmt.Errorf("activate commission config: no transaction in context")
	}
	conn := database.Conn(ctx, r.db)

	if _, err := conn.Exec(ctx,
		`UPDATE commission_configs SET is_active = FALSE, updated_at = $1 WHERE is_active`,
		config.UpdatedAt,
	); err != nil {
		r.log.Error("Failed to deactivate commission configs", zap.Error(err))
		return fmt.Errorf("deactivate commission configs: %w", err)
	}

	_, err := conn.Exec(ctx, `
		INSERT INTO commission_configs (id, rate, is_active, created_at, updated_at)
		VALUES ($1, $2, TRUE, $3, $4)`,
		config.ID,
		config.Rate.Percent(),
		config.CreatedAt,
		config.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to insert commission config",
			zap.Error(err),
			zap.Float64("rate", config.Rate.Percent()),
		)
		return fmt.Errorf("insert commission config: %w", err)
	}

	config.IsActive = true
	r.log.Info("Commission config activated",
		zap.String("config_id", config.ID.String()),
		zap.Float64("rate", config.Rate.Percent()),
	)
	return nil
}
