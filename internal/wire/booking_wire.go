package wire

import (
	"hospitality-booking/internal/adaptor"
	"hospitality-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler, callbackSecret string, log *zap.Logger) {
	// ==================== PUBLIC ROUTES ====================
	// POST /api/bookings/quote - price breakdown without booking
	r.Post("/api/bookings/quote", bookingHandler.QuoteBooking)

	// ==================== GATEWAY ROUTES (signed body) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.PaymentSignature(callbackSecret, log))

		// POST /api/payments/callback - payment gateway status report
		r.Post("/api/payments/callback", bookingHandler.PaymentCallback)
	})

	// ==================== PROTECTED ROUTES (require identity) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser)

		r.Post("/api/bookings", bookingHandler.CreateBooking)
		r.Get("/api/bookings/{id}", bookingHandler.GetBooking)
		r.Put("/api/bookings/{id}/confirm", bookingHandler.ConfirmBooking)
		r.Put("/api/bookings/{id}/cancel", bookingHandler.CancelBooking)

		// GET /api/user/bookings - the caller's own bookings, paginated
		r.Get("/api/user/bookings", bookingHandler.GetUserBookings)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/bookings", func(r chi.Router) {
		r.Use(middleware.Admin(log))

		r.Post("/complete-due", bookingHandler.CompleteDueBookings)
		r.Put("/{id}/complete", bookingHandler.CompleteBooking)
		r.Put("/{id}/no-show", bookingHandler.MarkNoShow)
		r.Delete("/{id}", bookingHandler.DeleteBooking)
	})
}
