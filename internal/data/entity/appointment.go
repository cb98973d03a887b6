package entity

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// IsActive reports whether the appointment still holds its slot.
func (s AppointmentStatus) IsActive() bool {
	return s == AppointmentStatusPending || s == AppointmentStatusConfirmed
}

// CanTransitionTo encodes pending -> confirmed -> completed, and
// pending|confirmed -> cancelled.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	switch s {
	case AppointmentStatusPending:
		return next == AppointmentStatusConfirmed || next == AppointmentStatusCancelled
	case AppointmentStatusConfirmed:
		return next == AppointmentStatusCompleted || next == AppointmentStatusCancelled
	default:
		return false
	}
}

type Appointment struct {
	ID              uuid.UUID         `db:"appointment_id"`
	PatientID       uuid.UUID         `db:"patient_id"`
	DoctorID        uuid.UUID         `db:"doctor_id"`
	AvailableTimeID uuid.UUID         `db:"available_time_id"`
	Status          AppointmentStatus `db:"status"`
	Notes           *string           `db:"notes"`
	IdempotencyKey  *string           `db:"idempotency_key"`
	RequestHash     *string           `db:"request_hash"`
	CreatedAt       time.Time         `db:"created_at"`
	UpdatedAt       time.Time         `db:"updated_at"`
}

// AppointmentDetail is the read projection joined with slot, doctor and payment.
type AppointmentDetail struct {
	Appointment
	DoctorName     string
	Specialization string
	ScheduleDate   time.Time
	StartTime      string
	EndTime        string
	Payment        *Payment
}

type AppointmentScope string

const (
	AppointmentScopeUpcoming AppointmentScope = "upcoming"
	AppointmentScopePast     AppointmentScope = "past"
	AppointmentScopeAll      AppointmentScope = "all"
)

// AppointmentFilter narrows appointment listings. Today splits upcoming from past.
type AppointmentFilter struct {
	Scope  AppointmentScope
	Today  time.Time
	Limit  int
	Offset int
}
