package repository

import (
	"context"
	"fmt"
	"time"

	"hospital-booking/internal/data/entity"
	"hospital-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type AvailableTimeRepository interface {
	CreateBatch(ctx context.Context, slots []*entity.AvailableTime) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.AvailableTime, error)

	// Locking reads, only meaningful inside a transaction
	LockAvailableForBooking(ctx context.Context, id uuid.UUID) (*entity.BookableSlot, error)
	LockByID(ctx context.Context, id uuid.UUID) (*entity.AvailableTime, error)

	MarkUnavailable(ctx context.Context, id uuid.UUID) (int64, error)
	UpdateStatus(ctx context.Context, id, doctorID uuid.UUID, isAvailable bool) (int64, error)

	// Listings from a given date onwards
	FindAvailableByDoctor(ctx context.Context, doctorID uuid.UUID, from time.Time) ([]*entity.AvailableTime, error)
	FindUpcomingByDoctor(ctx context.Context, doctorID uuid.UUID, from time.Time) ([]*entity.AvailableTime, error)
}

type availableTimeRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewAvailableTimeRepository(db database.Querier, log *zap.Logger) AvailableTimeRepository {
	return &availableTimeRepository{
		db:  db,
		log: log.With(zap.String("repository", "available_time")),
	}
}

const availableTimeColumns = `
	at.available_time_id, at.doctor_id, at.schedule_date, at.day_of_week,
	to_char(at.start_time, 'HH24:MI'), to_char(at.end_time, 'HH24:MI'),
	at.is_available, at.created_at`

func scanAvailableTime(row pgx.Row, dest *entity.AvailableTime, extra ...any) error {
	targets := []any{
		&dest.ID,
		&dest.DoctorID,
		&dest.ScheduleDate,
		&dest.DayOfWeek,
		&dest.StartTime,
		&dest.EndTime,
		&dest.IsAvailable,
		&dest.CreatedAt,
	}
	return row.Scan(append(targets, extra...)...)
}

func (r *availableTimeRepository) CreateBatch(ctx context.Context, slots []*entity.AvailableTime) error {
	if len(slots) == 0 {
		return nil
	}

	query := `
		INSERT INTO available_time (available_time_id, doctor_id, schedule_date, day_of_week,
		                            start_time, end_time, is_available, created_at)
		VALUES ($1, $2, $3, $4, $5::time, $6::time, $7, $8)
	`

	for _, slot := range slots {
		_, err := r.db.Exec(ctx, query,
			slot.ID,
			slot.DoctorID,
			slot.ScheduleDate,
			slot.DayOfWeek,
			slot.StartTime,
			slot.EndTime,
			slot.IsAvailable,
			slot.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to create available time",
				zap.Error(err),
				zap.String("doctor_id", slot.DoctorID.String()),
				zap.String("date", slot.ScheduleDate.Format("2006-01-02")),
				zap.String("start_time", slot.StartTime),
			)
			return fmt.Errorf("create available time for doctor %s: %w", slot.DoctorID.String(), err)
		}
	}

	return nil
}

func (r *availableTimeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.AvailableTime, error) {
	query := `SELECT` + availableTimeColumns + `
		FROM available_time at
		WHERE at.available_time_id = $1
	`

	var slot entity.AvailableTime
	err := scanAvailableTime(r.db.QueryRow(ctx, query, id), &slot)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find available time by ID",
			zap.Error(err),
			zap.String("available_time_id", id.String()),
		)
		return nil, fmt.Errorf("find available time %s: %w", id.String(), err)
	}

	return &slot, nil
}

// LockAvailableForBooking takes the row lock on an open slot and reads its
// doctor's fee. Concurrent callers queue on the lock; once the holder commits
// the predicate is re-checked, so losers see no row instead of a stale one.
// Only the slot row is locked, the doctor row stays shared.
func (r *availableTimeRepository) LockAvailableForBooking(ctx context.Context, id uuid.UUID) (*entity.BookableSlot, error) {
	query := `SELECT` + availableTimeColumns + `, d.consultation_fee
		FROM available_time at
		JOIN doctors d ON d.id = at.doctor_id
		WHERE at.available_time_id = $1
		  AND at.is_available = true
		FOR UPDATE OF at
	`

	var slot entity.BookableSlot
	err := scanAvailableTime(r.db.QueryRow(ctx, query, id), &slot.AvailableTime, &slot.ConsultationFee)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to lock available time for booking",
			zap.Error(err),
			zap.String("available_time_id", id.String()),
		)
		return nil, fmt.Errorf("lock available time %s: %w", id.String(), err)
	}

	return &slot, nil
}

func (r *availableTimeRepository) LockByID(ctx context.Context, id uuid.UUID) (*entity.AvailableTime, error) {
	query := `SELECT` + availableTimeColumns + `
		FROM available_time at
		WHERE at.available_time_id = $1
		FOR UPDATE
	`

	var slot entity.AvailableTime
	err := scanAvailableTime(r.db.QueryRow(ctx, query, id), &slot)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to lock available time",
			zap.Error(err),
			zap.String("available_time_id", id.String()),
		)
		return nil, fmt.Errorf("lock available time %s: %w", id.String(), err)
	}

	return &slot, nil
}

func (r *availableTimeRepository) MarkUnavailable(ctx context.Context, id uuid.UUID) (int64, error) {
	query := `
		UPDATE available_time
		SET is_available = false
		WHERE available_time_id = $1 AND is_available = true
	`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to mark available time unavailable",
			zap.Error(err),
			zap.String("available_time_id", id.String()),
		)
		return 0, fmt.Errorf("mark available time %s unavailable: %w", id.String(), err)
	}

	return result.RowsAffected(), nil
}

// UpdateStatus is scoped to the owning doctor; 0 rows means not found or not owned.
func (r *availableTimeRepository) UpdateStatus(ctx context.Context, id, doctorID uuid.UUID, isAvailable bool) (int64, error) {
	query := `
		UPDATE available_time
		SET is_available = $3
		WHERE available_time_id = $1 AND doctor_id = $2
	`

	result, err := r.db.Exec(ctx, query, id, doctorID, isAvailable)
	if err != nil {
		r.log.Error("Failed to update available time status",
			zap.Error(err),
			zap.String("available_time_id", id.String()),
			zap.String("doctor_id", doctorID.String()),
			zap.Bool("is_available", isAvailable),
		)
		return 0, fmt.Errorf("update available time %s status: %w", id.String(), err)
	}

	return result.RowsAffected(), nil
}

func (r *availableTimeRepository) FindAvailableByDoctor(ctx context.Context, doctorID uuid.UUID, from time.Time) ([]*entity.AvailableTime, error) {
	query := `SELECT` + availableTimeColumns + `
		FROM available_time at
		WHERE at.doctor_id = $1
		  AND at.is_available = true
		  AND at.schedule_date >= $2
		ORDER BY at.schedule_date, at.start_time
	`

	return r.list(ctx, "find available times by doctor", query, doctorID, from)
}

func (r *availableTimeRepository) FindUpcomingByDoctor(ctx context.Context, doctorID uuid.UUID, from time.Time) ([]*entity.AvailableTime, error) {
	query := `SELECT` + availableTimeColumns + `
		FROM available_time at
		WHERE at.doctor_id = $1
		  AND at.schedule_date >= $2
		ORDER BY at.schedule_date, at.start_time
	`

	return r.list(ctx, "find upcoming times by doctor", query, doctorID, from)
}

func (r *availableTimeRepository) list(ctx context.Context, op, query string, doctorID uuid.UUID, from time.Time) ([]*entity.AvailableTime, error) {
	rows, err := r.db.Query(ctx, query, doctorID, from)
	if err != nil {
		r.log.Error("Failed to "+op,
			zap.Error(err),
			zap.String("doctor_id", doctorID.String()),
		)
		return nil, fmt.Errorf("%s %s: %w", op, doctorID.String(), err)
	}
	defer rows.Close()

	var slots []*entity.AvailableTime
	for rows.Next() {
		var slot entity.AvailableTime
		if err := scanAvailableTime(rows, &slot); err != nil {
			r.log.Error("Failed to scan available time row", zap.Error(err))
			return nil, fmt.Errorf("scan available time row: %w", err)
		}
		slots = append(slots, &slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s %s: %w", op, doctorID.String(), err)
	}

	return slots, nil
}
