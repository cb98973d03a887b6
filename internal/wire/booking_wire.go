package wire

import (
	"hospital-booking/internal/adaptor"
	"hospital-booking/internal/data/repository"
	"hospital-booking/pkg/middleware"
	"hospital-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PATIENT ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(config.RateLimit, log))
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.RequireRole(log, utils.RolePatient))

		// POST /api/appointments/book - Claim a slot and record payment
		r.Post("/api/appointments/book", bookingHandler.BookAppointment)
	})
}
