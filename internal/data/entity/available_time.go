package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AvailableTime is one bookable (doctor, date, start, end) interval.
// StartTime and EndTime are wall-clock "HH:MM" values.
type AvailableTime struct {
	ID           uuid.UUID `db:"available_time_id"`
	DoctorID     uuid.UUID `db:"doctor_id"`
	ScheduleDate time.Time `db:"schedule_date"`
	DayOfWeek    string    `db:"day_of_week"`
	StartTime    string    `db:"start_time"`
	EndTime      string    `db:"end_time"`
	IsAvailable  bool      `db:"is_available"`
	CreatedAt    time.Time `db:"created_at"`
}

// SameInterval reports whether both slots cover the same date and times.
func (a *AvailableTime) SameInterval(other *AvailableTime) bool {
	return a.ScheduleDate.Format("2006-01-02") == other.ScheduleDate.Format("2006-01-02") &&
		a.StartTime == other.StartTime &&
		a.EndTime == other.EndTime
}

// BookableSlot is a locked open slot together with its doctor's fee.
type BookableSlot struct {
	AvailableTime
	ConsultationFee decimal.Decimal `db:"consultation_fee"`
}
