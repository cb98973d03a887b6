package usecase

import (
	"time"

	"hospital-booking/internal/data/entity"
	"hospital-booking/internal/data/repository"
	"hospital-booking/pkg/cache"
	"hospital-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service struct {
	Booking      BookingService
	Availability AvailabilityService
	Appointment  AppointmentService
}

func NewService(repo *repository.Repository, slots cache.SlotCache, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Booking:      NewBookingService(repo, slots, config, log),
		Availability: NewAvailabilityService(repo, slots, config, log),
		Appointment:  NewAppointmentService(repo, slots, config, log),
	}
}

// Caller is the authenticated user behind a request.
type Caller struct {
	UserID uuid.UUID
	Role   string
}

// CanView allows admins, the booking patient and the assigned doctor.
func (c Caller) CanView(a *entity.Appointment) bool {
	switch c.Role {
	case utils.RoleAdmin:
		return true
	case utils.RolePatient:
		return a.PatientID == c.UserID
	case utils.RoleDoctor:
		return a.DoctorID == c.UserID
	default:
		return false
	}
}

// civilDate is midnight UTC of the calendar day t falls on in loc,
// the form DATE columns are compared against.
func civilDate(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
