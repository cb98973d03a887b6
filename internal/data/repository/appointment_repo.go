package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hospital-booking/internal/data/entity"
	"hospital-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AppointmentIdempotencyIndex guards (patient_id, idempotency_key).
const AppointmentIdempotencyIndex = "appointments_patient_idempotency_key_uniq"

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *entity.Appointment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)
	LockByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)
	FindByIdempotencyKey(ctx context.Context, patientID uuid.UUID, key string) (*entity.Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.AppointmentStatus) (int64, error)

	// Business queries
	HasActiveForSlot(ctx context.Context, availableTimeID uuid.UUID) (bool, error)
	FindDetailByID(ctx context.Context, id uuid.UUID) (*entity.AppointmentDetail, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, filter entity.AppointmentFilter) ([]*entity.AppointmentDetail, error)
	CountByPatient(ctx context.Context, patientID uuid.UUID, filter entity.AppointmentFilter) (int64, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, filter entity.AppointmentFilter) ([]*entity.AppointmentDetail, error)
	CountByDoctor(ctx context.Context, doctorID uuid.UUID, filter entity.AppointmentFilter) (int64, error)
}

type appointmentRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewAppointmentRepository(db database.Querier, log *zap.Logger) AppointmentRepository {
	return &appointmentRepository{
		db:  db,
		log: log.With(zap.String("repository", "appointment")),
	}
}

const appointmentColumns = `
	a.appointment_id, a.patient_id, a.doctor_id, a.available_time_id, a.status,
	a.notes, a.idempotency_key, a.request_hash, a.created_at, a.updated_at`

func scanAppointment(row pgx.Row, dest *entity.Appointment) error {
	return row.Scan(
		&dest.ID,
		&dest.PatientID,
		&dest.DoctorID,
		&dest.AvailableTimeID,
		&dest.Status,
		&dest.Notes,
		&dest.IdempotencyKey,
		&dest.RequestHash,
		&dest.CreatedAt,
		&dest.UpdatedAt,
	)
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *entity.Appointment) error {
	query := `
		INSERT INTO appointments (appointment_id, patient_id, doctor_id, available_time_id, status,
		                          notes, idempotency_key, request_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		appointment.ID,
		appointment.PatientID,
		appointment.DoctorID,
		appointment.AvailableTimeID,
		appointment.Status,
		appointment.Notes,
		appointment.IdempotencyKey,
		appointment.RequestHash,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create appointment",
			zap.Error(err),
			zap.String("patient_id", appointment.PatientID.String()),
			zap.String("available_time_id", appointment.AvailableTimeID.String()),
		)
		return fmt.Errorf("create appointment for slot %s: %w", appointment.AvailableTimeID.String(), err)
	}

	return nil
}

func (r *appointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	query := `SELECT` + appointmentColumns + `
		FROM appointments a
		WHERE a.appointment_id = $1
	`
	return r.findOne(ctx, "find appointment", query, id)
}

func (r *appointmentRepository) LockByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	query := `SELECT` + appointmentColumns + `
		FROM appointments a
		WHERE a.appointment_id = $1
		FOR UPDATE
	`
	return r.findOne(ctx, "lock appointment", query, id)
}

func (r *appointmentRepository) FindByIdempotencyKey(ctx context.Context, patientID uuid.UUID, key string) (*entity.Appointment, error) {
	query := `SELECT` + appointmentColumns + `
		FROM appointments a
		WHERE a.patient_id = $1 AND a.idempotency_key = $2
	`
	return r.findOne(ctx, "find appointment by idempotency key", query, patientID, key)
}

func (r *appointmentRepository) findOne(ctx context.Context, op, query string, args ...any) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := scanAppointment(r.db.QueryRow(ctx, query, args...), &appointment)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to "+op, zap.Error(err), zap.Any("args", args))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &appointment, nil
}

// UpdateStatus is a compare-and-set on the current status.
func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.AppointmentStatus) (int64, error) {
	query := `
		UPDATE appointments
		SET status = $3, updated_at = NOW()
		WHERE appointment_id = $1 AND status = $2
	`

	result, err := r.db.Exec(ctx, query, id, from, to)
	if err != nil {
		r.log.Error("Failed to update appointment status",
			zap.Error(err),
			zap.String("appointment_id", id.String()),
			zap.String("from", string(from)),
			zap.String("to", string(to)),
		)
		return 0, fmt.Errorf("update appointment %s status: %w", id.String(), err)
	}

	return result.RowsAffected(), nil
}

func (r *appointmentRepository) HasActiveForSlot(ctx context.Context, availableTimeID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE available_time_id = $1
			  AND status IN ('pending', 'confirmed')
		)
	`

	var exists bool
	if err := r.db.QueryRow(ctx, query, availableTimeID).Scan(&exists); err != nil {
		r.log.Error("Failed to check active appointment for slot",
			zap.Error(err),
			zap.String("available_time_id", availableTimeID.String()),
		)
		return false, fmt.Errorf("check active appointment for slot %s: %w", availableTimeID.String(), err)
	}

	return exists, nil
}

const appointmentDetailSelect = `SELECT` + appointmentColumns + `,
		d.full_name, d.specialization,
		at.schedule_date, to_char(at.start_time, 'HH24:MI'), to_char(at.end_time, 'HH24:MI'),
		p.payment_id, p.amount, p.currency, p.method, p.status, p.transaction_reference, p.paid_at
	FROM appointments a
	JOIN doctors d ON d.id = a.doctor_id
	JOIN available_time at ON at.available_time_id = a.available_time_id
	LEFT JOIN payments p ON p.appointment_id = a.appointment_id`

const appointmentDetailFrom = `
	FROM appointments a
	JOIN available_time at ON at.available_time_id = a.available_time_id`

func scanAppointmentDetail(row pgx.Row) (*entity.AppointmentDetail, error) {
	var (
		detail    entity.AppointmentDetail
		paymentID *uuid.UUID
		amount    decimal.NullDecimal
		currency  *string
		method    *string
		status    *string
		reference *string
		paidAt    *time.Time
	)

	a := &detail.Appointment
	err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.DoctorID,
		&a.AvailableTimeID,
		&a.Status,
		&a.Notes,
		&a.IdempotencyKey,
		&a.RequestHash,
		&a.CreatedAt,
		&a.UpdatedAt,
		&detail.DoctorName,
		&detail.Specialization,
		&detail.ScheduleDate,
		&detail.StartTime,
		&detail.EndTime,
		&paymentID,
		&amount,
		&currency,
		&method,
		&status,
		&reference,
		&paidAt,
	)
	if err != nil {
		return nil, err
	}

	if paymentID != nil {
		detail.Payment = &entity.Payment{
			ID:                   *paymentID,
			AppointmentID:        a.ID,
			Amount:               amount.Decimal,
			Currency:             deref(currency),
			Method:               entity.PaymentMethod(deref(method)),
			Status:               entity.PaymentStatus(deref(status)),
			TransactionReference: reference,
		}
		if paidAt != nil {
			detail.Payment.PaidAt = *paidAt
		}
	}

	return &detail, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (r *appointmentRepository) FindDetailByID(ctx context.Context, id uuid.UUID) (*entity.AppointmentDetail, error) {
	query := appointmentDetailSelect + `
		WHERE a.appointment_id = $1
	`

	detail, err := scanAppointmentDetail(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find appointment detail",
			zap.Error(err),
			zap.String("appointment_id", id.String()),
		)
		return nil, fmt.Errorf("find appointment detail %s: %w", id.String(), err)
	}

	return detail, nil
}

func (r *appointmentRepository) ListByPatient(ctx context.Context, patientID uuid.UUID, filter entity.AppointmentFilter) ([]*entity.AppointmentDetail, error) {
	return r.listDetails(ctx, "a.patient_id", patientID, filter)
}

func (r *appointmentRepository) CountByPatient(ctx context.Context, patientID uuid.UUID, filter entity.AppointmentFilter) (int64, error) {
	return r.count(ctx, "a.patient_id", patientID, filter)
}

func (r *appointmentRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID, filter entity.AppointmentFilter) ([]*entity.AppointmentDetail, error) {
	return r.listDetails(ctx, "a.doctor_id", doctorID, filter)
}

func (r *appointmentRepository) CountByDoctor(ctx context.Context, doctorID uuid.UUID, filter entity.AppointmentFilter) (int64, error) {
	return r.count(ctx, "a.doctor_id", doctorID, filter)
}

// buildAppointmentWhere only emits placeholders for arguments it actually
// binds, pgx rejects unused parameters.
func buildAppointmentWhere(ownerColumn string, ownerID uuid.UUID, filter entity.AppointmentFilter) (string, []any) {
	conditions := []string{ownerColumn + " = $1"}
	args := []any{ownerID}

	switch filter.Scope {
	case entity.AppointmentScopeUpcoming:
		args = append(args, filter.Today)
		conditions = append(conditions, fmt.Sprintf("at.schedule_date >= $%d", len(args)))
	case entity.AppointmentScopePast:
		args = append(args, filter.Today)
		conditions = append(conditions, fmt.Sprintf("at.schedule_date < $%d", len(args)))
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}

func appointmentOrder(scope entity.AppointmentScope) string {
	if scope == entity.AppointmentScopeUpcoming {
		return " ORDER BY at.schedule_date ASC, at.start_time ASC"
	}
	return " ORDER BY at.schedule_date DESC, at.start_time DESC"
}

func (r *appointmentRepository) listDetails(ctx context.Context, ownerColumn string, ownerID uuid.UUID, filter entity.AppointmentFilter) ([]*entity.AppointmentDetail, error) {
	where, args := buildAppointmentWhere(ownerColumn, ownerID, filter)
	query := appointmentDetailSelect + where + appointmentOrder(filter.Scope)

	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list appointments",
			zap.Error(err),
			zap.String("owner", ownerColumn),
			zap.String("owner_id", ownerID.String()),
			zap.String("scope", string(filter.Scope)),
		)
		return nil, fmt.Errorf("list appointments by %s: %w", ownerColumn, err)
	}
	defer rows.Close()

	var details []*entity.AppointmentDetail
	for rows.Next() {
		detail, err := scanAppointmentDetail(rows)
		if err != nil {
			r.log.Error("Failed to scan appointment row", zap.Error(err))
			return nil, fmt.Errorf("scan appointment row: %w", err)
		}
		details = append(details, detail)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list appointments by %s: %w", ownerColumn, err)
	}

	return details, nil
}

func (r *appointmentRepository) count(ctx context.Context, ownerColumn string, ownerID uuid.UUID, filter entity.AppointmentFilter) (int64, error) {
	where, args := buildAppointmentWhere(ownerColumn, ownerID, filter)
	query := `SELECT COUNT(*)` + appointmentDetailFrom + where

	var count int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		r.log.Error("Failed to count appointments",
			zap.Error(err),
			zap.String("owner", ownerColumn),
			zap.String("owner_id", ownerID.String()),
		)
		return 0, fmt.Errorf("count appointments by %s: %w", ownerColumn, err)
	}

	return count, nil
}
