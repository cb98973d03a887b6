package repository

import (
	"context"
	"fmt"

	"hospital-booking/internal/data/entity"
	"hospital-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	FindByAppointmentID(ctx context.Context, appointmentID uuid.UUID) (*entity.Payment, error)
	UpdateStatusByAppointmentID(ctx context.Context, appointmentID uuid.UUID, status entity.PaymentStatus) (int64, error)
}

type paymentRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewPaymentRepository(db database.Querier, log *zap.Logger) PaymentRepository {
	return &paymentRepository{
		db:  db,
		log: log.With(zap.String("repository", "payment")),
	}
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	query := `
		INSERT INTO payments (payment_id, appointment_id, amount, currency, method,
		                      status, transaction_reference, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		payment.ID,
		payment.AppointmentID,
		payment.Amount,
		payment.Currency,
		payment.Method,
		payment.Status,
		payment.TransactionReference,
		payment.PaidAt,
	)
	if err != nil {
		r.log.Error("Failed to create payment",
			zap.Error(err),
			zap.String("appointment_id", payment.AppointmentID.String()),
			zap.String("method", string(payment.Method)),
		)
		return fmt.Errorf("create payment for appointment %s: %w", payment.AppointmentID.String(), err)
	}

	return nil
}

func (r *paymentRepository) FindByAppointmentID(ctx context.Context, appointmentID uuid.UUID) (*entity.Payment, error) {
	query := `
		SELECT payment_id, appointment_id, amount, currency, method,
		       status, transaction_reference, paid_at
		FROM payments
		WHERE appointment_id = $1
	`

	var payment entity.Payment
	err := r.db.QueryRow(ctx, query, appointmentID).Scan(
		&payment.ID,
		&payment.AppointmentID,
		&payment.Amount,
		&payment.Currency,
		&payment.Method,
		&payment.Status,
		&payment.TransactionReference,
		&payment.PaidAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find payment by appointment ID",
			zap.Error(err),
			zap.String("appointment_id", appointmentID.String()),
		)
		return nil, fmt.Errorf("find payment by appointment %s: %w", appointmentID.String(), err)
	}

	return &payment, nil
}

func (r *paymentRepository) UpdateStatusByAppointmentID(ctx context.Context, appointmentID uuid.UUID, status entity.PaymentStatus) (int64, error) {
	query := `UPDATE payments SET status = $2 WHERE appointment_id = $1`

	result, err := r.db.Exec(ctx, query, appointmentID, status)
	if err != nil {
		r.log.Error("Failed to update payment status",
			zap.Error(err),
			zap.String("appointment_id", appointmentID.String()),
			zap.String("status", string(status)),
		)
		return 0, fmt.Errorf("update payment of appointment %s to %s: %w", appointmentID.String(), string(status), err)
	}

	return result.RowsAffected(), nil
}
