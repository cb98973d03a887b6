package adaptor

import (
	"hospital-booking/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Booking      *BookingHandler
	Availability *AvailabilityHandler
	Appointment  *AppointmentHandler
	Health       *HealthHandler
}

func NewHandler(service *usecase.Service, health *HealthHandler, log *zap.Logger) *Handler {
	return &Handler{
		Booking:      NewBookingHandler(service.Booking, log),
		Availability: NewAvailabilityHandler(service.Availability, log),
		Appointment:  NewAppointmentHandler(service.Appointment, log),
		Health:       health,
	}
}
