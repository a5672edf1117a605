package wire

import (
	"hospitality-booking/internal/adaptor"
	"hospitality-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCommission(r chi.Router, commissionHandler *adaptor.CommissionHandler, log *zap.Logger) {
	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/commission", func(r chi.Router) {
		r.Use(middleware.Admin(log))

		r.Get("/", commissionHandler.GetCommission)
		r.Put("/", commissionHandler.SetCommission)
	})
}
