// internal/wire/wire.go
package wire

import (
	"hospital-booking/internal/adaptor"
	"hospital-booking/internal/data/repository"
	"hospital-booking/internal/usecase"
	"hospital-booking/pkg/cache"
	"hospital-booking/pkg/middleware"
	"hospital-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the assembled HTTP application
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds services, handlers and routes
func Wiring(repo *repository.Repository, slots cache.SlotCache, health *adaptor.HealthHandler, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(repo, slots, config, logger)
	handler := adaptor.NewHandler(service, health, logger)

	router := setupRouter(handler, repo, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

// setupRouter configures the chi router
func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))

	// Apply routes
	wireBooking(r, handler.Booking, repo, config, logger)
	wireAvailability(r, handler.Availability, repo, config, logger)
	wireAppointment(r, handler.Appointment, repo, config, logger)

	r.Get("/health/live", handler.Health.Live)
	r.Get("/health/ready", handler.Health.Ready)

	return r
}
