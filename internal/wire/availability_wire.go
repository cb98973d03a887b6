package wire

import (
	"hospital-booking/internal/adaptor"
	"hospital-booking/internal/data/repository"
	"hospital-booking/pkg/middleware"
	"hospital-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAvailability(
	r chi.Router,
	availabilityHandler *adaptor.AvailabilityHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/appointments/available-times?doctorId= - Open future slots
	r.Get("/api/appointments/available-times", availabilityHandler.ListAvailableTimes)

	// ==================== DOCTOR ROUTES ====================
	// Doctors manage their own schedule, admins any schedule
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.DoctorSelfOrAdmin("id", log))

		r.Get("/api/doctors/{id}/availability", availabilityHandler.ListDoctorSlots)
		r.Post("/api/doctors/{id}/availability", availabilityHandler.CreateSlots)
		r.Post("/api/doctors/{id}/availability/plan", availabilityHandler.PlanAvailability)
		r.Patch("/api/doctors/{id}/availability/{slotId}", availabilityHandler.UpdateSlotStatus)
		r.Get("/api/doctors/{id}/availability/{slotId}/active", availabilityHandler.HasActiveAppointment)
	})
}
