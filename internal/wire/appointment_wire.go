package wire

import (
	"hospital-booking/internal/adaptor"
	"hospital-booking/internal/data/repository"
	"hospital-booking/pkg/middleware"
	"hospital-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAppointment(
	r chi.Router,
	appointmentHandler *adaptor.AppointmentHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== AUTHENTICATED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		// GET /api/appointments/me - Patient's own appointments
		r.With(middleware.RequireRole(log, utils.RolePatient)).
			Get("/api/appointments/me", appointmentHandler.ListMine)

		// GET /api/appointments/{id} - Visible to its patient, its doctor and admins
		r.Get("/api/appointments/{id}", appointmentHandler.GetAppointment)
	})

	// ==================== DOCTOR ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.DoctorSelfOrAdmin("id", log))

		r.Get("/api/doctors/{id}/appointments", appointmentHandler.ListForDoctor)
		r.Patch("/api/doctors/{id}/appointments/{appointmentId}/status", appointmentHandler.UpdateStatus)
	})

	// ==================== ADMIN ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.Admin(log))

		// PUT /api/admin/appointments/{id}/cancel - Cancel any appointment
		r.Put("/api/admin/appointments/{id}/cancel", appointmentHandler.Cancel)
	})
}
