package repository

import (
	"time"

	"hospital-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Doctor        DoctorRepository
	AvailableTime AvailableTimeRepository
	Appointment   AppointmentRepository
	Payment       PaymentRepository
	Session       SessionRepository

	// Tx runs a unit of work against repositories bound to one transaction.
	Tx Transactor
}

func NewRepository(db database.PgxIface, log *zap.Logger, lockTimeout time.Duration) *Repository {
	repo := newRepository(db, log)
	repo.Tx = &pgTransactor{
		db:          db,
		log:         log,
		lockTimeout: lockTimeout,
	}
	return repo
}

func newRepository(q database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		Doctor:        NewDoctorRepository(q, log),
		AvailableTime: NewAvailableTimeRepository(q, log),
		Appointment:   NewAppointmentRepository(q, log),
		Payment:       NewPaymentRepository(q, log),
		Session:       NewSessionRepository(q, log),
	}
}
