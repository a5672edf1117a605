package wire

import (
	"net/http"

	"hospitality-booking/internal/adaptor"
	"hospitality-booking/internal/data/repository"
	"hospitality-booking/internal/usecase"
	"hospitality-booking/pkg/middleware"
	"hospitality-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// App menyimpan semua dependencies
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds the services and the HTTP router on top of the repositories.
func Wiring(repo *repository.Repository, config *utils.Config, events usecase.EventPublisher, logger *zap.Logger) *App {
	service := usecase.NewService(repo, config, events, logger)
	handler := adaptor.NewHandler(service, logger)

	return &App{
		Router:  NewRouter(handler, config, logger),
		Service: service,
	}
}

// NewRouter konfigurasi Chi router
func NewRouter(handler *adaptor.Handler, config *utils.Config, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.Tracing(config.App.Name))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.HeaderUserID, middleware.HeaderUserRole, middleware.HeaderPaymentSignature, "traceparent"},
		MaxAge:         300,
	}))
	r.Use(middleware.Identity(logger))

	wireAvailability(r, handler.Availability)
	wireBooking(r, handler.Booking, config.Payment.CallbackSecret, logger)
	wireCommission(r, handler.Commission, logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseSuccess(w, "OK", nil)
	})

	return r
}
