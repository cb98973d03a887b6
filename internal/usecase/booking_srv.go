package usecase

import (
	"context"
	"time"

	"hospital-booking/internal/data/entity"
	"hospital-booking/internal/data/repository"
	"hospital-booking/internal/dto/request"
	"hospital-booking/internal/dto/response"
	"hospital-booking/pkg/cache"
	"hospital-booking/pkg/database"
	"hospital-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	// BookAppointment claims a slot for the patient and records the payment
	// in one transaction. idempotencyKey is optional.
	BookAppointment(ctx context.Context, patientID uuid.UUID, idempotencyKey string, req *request.BookAppointmentRequest) (*response.BookingResponse, error)
}

type bookingService struct {
	repo     *repository.Repository
	slots    cache.SlotCache
	currency string
	now      func() time.Time
	log      *zap.Logger
}

func NewBookingService(repo *repository.Repository, slots cache.SlotCache, config *utils.Config, log *zap.Logger) BookingService {
	return &bookingService{
		repo:     repo,
		slots:    slots,
		currency: config.Booking.Currency,
		now:      time.Now,
		log:      log.With(zap.String("service", "booking")),
	}
}

// bookingAttempt carries one call through the transaction.
type bookingAttempt struct {
	patientID uuid.UUID
	slotID    uuid.UUID
	req       *request.BookAppointmentRequest
	key       *string
	hash      *string
}

func (s *bookingService) BookAppointment(ctx context.Context, patientID uuid.UUID, idempotencyKey string, req *request.BookAppointmentRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Book appointment validation failed", zap.Any("errors", errs))
		return nil, validationError(errs)
	}
	if err := validateIdempotencyKey(idempotencyKey); err != nil {
		return nil, err
	}

	slotID, err := uuid.Parse(req.AvailableTimeID)
	if err != nil {
		return nil, validationError(map[string]string{"availableTimeID": "Must be a valid UUID"})
	}

	attempt := &bookingAttempt{patientID: patientID, slotID: slotID, req: req}
	if idempotencyKey != "" {
		hash := requestHash(slotID, req.Payment, s.currency)
		attempt.key = &idempotencyKey
		attempt.hash = &hash
	}

	var result *response.BookingResponse
	err = s.repo.Tx.WithinTransaction(ctx, func(ctx context.Context, tx *repository.Repository) error {
		if attempt.key != nil {
			replay, err := s.findReplay(ctx, tx, attempt)
			if err != nil {
				return err
			}
			if replay != nil {
				result = replay
				return nil
			}
		}

		booked, err := s.claim(ctx, tx, attempt)
		if err != nil {
			return err
		}
		result = booked
		return nil
	})

	if err != nil {
		// a concurrent retry with the same key may have won the slot
		if attempt.key != nil && (KindOf(err) == KindSlotUnavailable ||
			database.IsUniqueViolation(err, repository.AppointmentIdempotencyIndex)) {
			replay, replayErr := s.findReplay(ctx, s.repo, attempt)
			if replayErr != nil {
				return nil, classify(replayErr, "failed to book appointment")
			}
			if replay != nil {
				return replay, nil
			}
		}

		s.logFailure(err, attempt)
		return nil, classify(err, "failed to book appointment")
	}

	if result.Replayed {
		s.log.Info("Booking replayed",
			zap.String("appointment_id", result.AppointmentID),
			zap.String("patient_id", patientID.String()),
		)
		return result, nil
	}

	doctorID, _ := uuid.Parse(result.DoctorID)
	s.slots.Invalidate(ctx, doctorID)

	s.log.Info("Appointment booked",
		zap.String("appointment_id", result.AppointmentID),
		zap.String("patient_id", patientID.String()),
		zap.String("available_time_id", slotID.String()),
		zap.String("method", string(result.Payment.Method)),
		zap.Float64("amount", result.Payment.Amount),
	)

	return result, nil
}

// findReplay returns the stored result of an earlier attempt with the same key.
// The same key with a different request is a conflict.
func (s *bookingService) findReplay(ctx context.Context, repo *repository.Repository, attempt *bookingAttempt) (*response.BookingResponse, error) {
	existing, err := repo.Appointment.FindByIdempotencyKey(ctx, attempt.patientID, *attempt.key)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	if existing.RequestHash == nil || *existing.RequestHash != *attempt.hash {
		return nil, newError(KindConflict, "idempotency key reused with a different request")
	}

	detail, err := repo.Appointment.FindDetailByID(ctx, existing.ID)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, &Error{Kind: KindFatal, Message: "failed to book appointment"}
	}

	return response.BookingToResponse(detail, true), nil
}

// claim runs the locked read, the payment checks and the three writes.
func (s *bookingService) claim(ctx context.Context, tx *repository.Repository, attempt *bookingAttempt) (*response.BookingResponse, error) {
	slot, err := tx.AvailableTime.LockAvailableForBooking(ctx, attempt.slotID)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, newError(KindSlotUnavailable, "time slot is no longer available")
	}

	payment, err := NormalizePayment(attempt.req.Payment, s.currency)
	if err != nil {
		return nil, err
	}
	if err := CheckFee(payment.Amount, slot.ConsultationFee); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	appointment := &entity.Appointment{
		ID:              uuid.New(),
		PatientID:       attempt.patientID,
		DoctorID:        slot.DoctorID,
		AvailableTimeID: slot.ID,
		Status:          entity.AppointmentStatusPending,
		Notes:           attempt.req.Notes,
		IdempotencyKey:  attempt.key,
		RequestHash:     attempt.hash,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := tx.Appointment.Create(ctx, appointment); err != nil {
		return nil, err
	}

	rows, err := tx.AvailableTime.MarkUnavailable(ctx, slot.ID)
	if err != nil {
		return nil, err
	}
	if rows != 1 {
		// the row lock is held, nobody else can have flipped it
		s.log.Error("Slot claim affected unexpected row count",
			zap.String("available_time_id", slot.ID.String()),
			zap.Int64("rows", rows),
		)
		return nil, &Error{Kind: KindFatal, Message: "failed to book appointment"}
	}

	record := &entity.Payment{
		ID:                   uuid.New(),
		AppointmentID:        appointment.ID,
		Amount:               payment.Amount,
		Currency:             payment.Currency,
		Method:               payment.Method,
		Status:               entity.PaymentStatusPaid,
		TransactionReference: payment.Reference,
		PaidAt:               now,
	}
	if err := tx.Payment.Create(ctx, record); err != nil {
		return nil, err
	}

	return response.BookingToResponse(&entity.AppointmentDetail{
		Appointment:  *appointment,
		ScheduleDate: slot.ScheduleDate,
		StartTime:    slot.StartTime,
		EndTime:      slot.EndTime,
		Payment:      record,
	}, false), nil
}

func (s *bookingService) logFailure(err error, attempt *bookingAttempt) {
	fields := []zap.Field{
		zap.Error(err),
		zap.String("patient_id", attempt.patientID.String()),
		zap.String("available_time_id", attempt.slotID.String()),
	}

	switch KindOf(err) {
	case KindSlotUnavailable, KindInvalidPayment, KindFeeMismatch, KindConflict:
		s.log.Warn("Booking rejected", fields...)
	default:
		if database.IsTransient(err) {
			s.log.Warn("Booking aborted by transient failure", fields...)
			return
		}
		s.log.Error("Booking failed", fields...)
	}
}
