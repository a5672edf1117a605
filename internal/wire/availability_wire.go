package wire

import (
	"hospitality-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAvailability(r chi.Router, availabilityHandler *adaptor.AvailabilityHandler) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/availability", availabilityHandler.CheckAvailability)

	// GET /api/venues/{kind}/{id}/sub-resources/available - free tables/areas for a window
	r.Get("/api/venues/{kind}/{id}/sub-resources/available", availabilityHandler.ListAvailableSubResources)

	r.Route("/api/resources/{kind}/{id}", func(r chi.Router) {
		r.Get("/next-available", availabilityHandler.NextAvailableDate)
		r.Get("/unavailable-windows", availabilityHandler.UnavailableWindows)
	})
}
