package usecase

import (
	"hospitality-booking/internal/data/repository"
	"hospitality-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Availability AvailabilityService
	Booking      BookingService
	Commission   CommissionService
	Pricing      *PricingCalculator
}

func NewService(repo *repository.Repository, config *utils.Config, events EventPublisher, log *zap.Logger) *Service {
	pricing := NewPricingCalculator(config.Pricing, config.App.Location)
	commission := NewCommissionService(repo, config.Commission.DefaultPercent, log)

	return &Service{
		Availability: NewAvailabilityService(repo, config.App.Location, log),
		Booking:      NewBookingService(repo, pricing, commission, events, config.Booking, log),
		Commission:   commission,
		Pricing:      pricing,
	}
}
