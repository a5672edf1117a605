package usecase

import (
	"context"
	"fmt"
	"time"

	"hospitality-booking/internal/data/entity"
	"hospitality-booking/internal/data/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CommissionService interface {
	// ActiveRate returns the configured rate, or the default when no row is active.
	ActiveRate(ctx context.Context) (entity.Rate, error)
	SetActiveRate(ctx context.Context, percent float64) (*entity.CommissionConfig, error)
}

type commissionService struct {
	repo        *repository.Repository
	defaultRate entity.Rate
	now         func() time.Time
	log         *zap.Logger
}

func NewCommissionService(repo *repository.Repository, defaultPercent float64, log *zap.Logger) CommissionService {
	return &commissionService{
		repo:        repo,
		defaultRate: entity.RateFromPercent(defaultPercent),
		now:         time.Now,
		log:         log.With(zap.String("service", "commission")),
	}
}

func (s *commissionService) ActiveRate(ctx context.Context) (entity.Rate, error) {
	config, err := s.repo.Commission.FindActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("find active commission: %w", err)
	}
	if config == nil {
		return s.defaultRate, nil
	}
	return config.Rate, nil
}

func (s *commissionService) SetActiveRate(ctx context.Context, percent float64) (*entity.CommissionConfig, error) {
	rate := entity.RateFromPercent(percent)
	if percent < 0 || percent > 100 || !rate.IsValid() {
		return nil, validationError("commission rate must be between 0 and 100 percent")
	}

	now := s.now()
	config := &entity.CommissionConfig{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Rate:     rate,
		IsActive: true,
	}

	err := s.repo.Tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.repo.Commission.Activate(ctx, config)
	})
	if err != nil {
		s.log.Error("Failed to activate commission rate", zap.Float64("percent", percent), zap.Error(err))
		return nil, fmt.Errorf("activate commission rate: %w", err)
	}

	s.log.Info("Commission rate changed", zap.Float64("percent", rate.Percent()))
	return config, nil
}
