package usecase

import (
	"context"
	"time"

	"hospital-booking/internal/data/entity"
	"hospital-booking/internal/data/repository"
	"hospital-booking/internal/dto/request"
	"hospital-booking/internal/dto/response"
	"hospital-booking/pkg/cache"
	"hospital-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AppointmentService interface {
	// Listings
	ListPatientAppointments(ctx context.Context, patientID uuid.UUID, req *request.ListAppointmentsRequest) (*response.PaginatedResponse[response.AppointmentResponse], error)
	ListDoctorAppointments(ctx context.Context, doctorID uuid.UUID, req *request.ListAppointmentsRequest) (*response.PaginatedResponse[response.AppointmentResponse], error)
	GetAppointment(ctx context.Context, caller Caller, appointmentID uuid.UUID) (*response.AppointmentResponse, error)

	// Status transitions
	UpdateAppointmentStatus(ctx context.Context, doctorID, appointmentID uuid.UUID, req *request.UpdateAppointmentStatusRequest) (*response.AppointmentResponse, error)
	CancelAppointment(ctx context.Context, appointmentID uuid.UUID) (*response.AppointmentResponse, error)
}

type appointmentService struct {
	repo  *repository.Repository
	slots cache.SlotCache
	loc   *time.Location
	now   func() time.Time
	log   *zap.Logger
}

func NewAppointmentService(repo *repository.Repository, slots cache.SlotCache, config *utils.Config, log *zap.Logger) AppointmentService {
	return &appointmentService{
		repo:  repo,
		slots: slots,
		loc:   config.App.Location(),
		now:   time.Now,
		log:   log.With(zap.String("service", "appointment")),
	}
}

func (s *appointmentService) ListPatientAppointments(ctx context.Context, patientID uuid.UUID, req *request.ListAppointmentsRequest) (*response.PaginatedResponse[response.AppointmentResponse], error) {
	return s.list(ctx, req, patientID, s.repo.Appointment.ListByPatient, s.repo.Appointment.CountByPatient)
}

func (s *appointmentService) ListDoctorAppointments(ctx context.Context, doctorID uuid.UUID, req *request.ListAppointmentsRequest) (*response.PaginatedResponse[response.AppointmentResponse], error) {
	return s.list(ctx, req, doctorID, s.repo.Appointment.ListByDoctor, s.repo.Appointment.CountByDoctor)
}

type (
	listFunc  func(ctx context.Context, ownerID uuid.UUID, filter entity.AppointmentFilter) ([]*entity.AppointmentDetail, error)
	countFunc func(ctx context.Context, ownerID uuid.UUID, filter entity.AppointmentFilter) (int64, error)
)

func (s *appointmentService) list(ctx context.Context, req *request.ListAppointmentsRequest, ownerID uuid.UUID, list listFunc, count countFunc) (*response.PaginatedResponse[response.AppointmentResponse], error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	scope := entity.AppointmentScope(req.Scope)
	if scope == "" {
		scope = entity.AppointmentScopeUpcoming
	}

	filter := entity.AppointmentFilter{
		Scope:  scope,
		Today:  civilDate(s.now(), s.loc),
		Limit:  req.Limit(),
		Offset: req.Offset(),
	}

	details, err := list(ctx, ownerID, filter)
	if err != nil {
		return nil, classify(err, "failed to list appointments")
	}

	total, err := count(ctx, ownerID, filter)
	if err != nil {
		return nil, classify(err, "failed to count appointments")
	}

	return response.NewPaginatedResponse(response.AppointmentsToResponse(details), req.CurrentPage(), req.Limit(), total), nil
}

func (s *appointmentService) GetAppointment(ctx context.Context, caller Caller, appointmentID uuid.UUID) (*response.AppointmentResponse, error) {
	detail, err := s.repo.Appointment.FindDetailByID(ctx, appointmentID)
	if err != nil {
		return nil, classify(err, "failed to get appointment")
	}
	if detail == nil {
		return nil, newError(KindNotFound, "appointment %s not found", appointmentID.String())
	}

	if !caller.CanView(&detail.Appointment) {
		s.log.Warn("Appointment access denied",
			zap.String("appointment_id", appointmentID.String()),
			zap.String("user_id", caller.UserID.String()),
			zap.String("role", caller.Role),
		)
		return nil, newError(KindForbidden, "not allowed to view this appointment")
	}

	res := response.AppointmentToResponse(detail)
	return &res, nil
}

func (s *appointmentService) UpdateAppointmentStatus(ctx context.Context, doctorID, appointmentID uuid.UUID, req *request.UpdateAppointmentStatusRequest) (*response.AppointmentResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	next := entity.AppointmentStatus(req.Status)
	return s.transition(ctx, appointmentID, next, func(a *entity.Appointment) bool {
		return a.DoctorID == doctorID
	})
}

// CancelAppointment is the administrative path; ownership is not checked.
func (s *appointmentService) CancelAppointment(ctx context.Context, appointmentID uuid.UUID) (*response.AppointmentResponse, error) {
	return s.transition(ctx, appointmentID, entity.AppointmentStatusCancelled, func(*entity.Appointment) bool {
		return true
	})
}

// transition moves one appointment to next under a row lock. Cancelling also
// refunds the payment and reopens the slot in the same transaction.
func (s *appointmentService) transition(ctx context.Context, appointmentID uuid.UUID, next entity.AppointmentStatus, owns func(*entity.Appointment) bool) (*response.AppointmentResponse, error) {
	var (
		detail   *entity.AppointmentDetail
		previous entity.AppointmentStatus
	)

	err := s.repo.Tx.WithinTransaction(ctx, func(ctx context.Context, tx *repository.Repository) error {
		appointment, err := tx.Appointment.LockByID(ctx, appointmentID)
		if err != nil {
			return err
		}
		if appointment == nil || !owns(appointment) {
			return newError(KindNotFound, "appointment %s not found", appointmentID.String())
		}

		previous = appointment.Status
		if !previous.CanTransitionTo(next) {
			return newError(KindConflict, "cannot change appointment from %s to %s", previous, next)
		}

		if next == entity.AppointmentStatusCancelled {
			if err := cancelLocked(ctx, tx, appointment); err != nil {
				return err
			}
		} else {
			rows, err := tx.Appointment.UpdateStatus(ctx, appointment.ID, previous, next)
			if err != nil {
				return err
			}
			if rows != 1 {
				return &Error{Kind: KindFatal, Message: "failed to update appointment"}
			}
		}

		detail, err = tx.Appointment.FindDetailByID(ctx, appointment.ID)
		return err
	})
	if err != nil {
		switch KindOf(err) {
		case KindNotFound, KindConflict:
			s.log.Warn("Appointment transition refused",
				zap.String("appointment_id", appointmentID.String()),
				zap.String("to", string(next)),
				zap.Error(err),
			)
		}
		return nil, classify(err, "failed to update appointment")
	}
	if detail == nil {
		return nil, &Error{Kind: KindFatal, Message: "failed to update appointment"}
	}

	if next == entity.AppointmentStatusCancelled {
		s.slots.Invalidate(ctx, detail.DoctorID)
	}

	s.log.Info("Appointment status changed",
		zap.String("appointment_id", appointmentID.String()),
		zap.String("from", string(previous)),
		zap.String("to", string(next)),
	)

	res := response.AppointmentToResponse(detail)
	return &res, nil
}

func cancelLocked(ctx context.Context, tx *repository.Repository, appointment *entity.Appointment) error {
	slot, err := tx.AvailableTime.LockByID(ctx, appointment.AvailableTimeID)
	if err != nil {
		return err
	}
	if slot == nil {
		return &Error{Kind: KindFatal, Message: "failed to cancel appointment"}
	}

	rows, err := tx.Appointment.UpdateStatus(ctx, appointment.ID, appointment.Status, entity.AppointmentStatusCancelled)
	if err != nil {
		return err
	}
	if rows != 1 {
		return &Error{Kind: KindFatal, Message: "failed to cancel appointment"}
	}

	if _, err := tx.Payment.UpdateStatusByAppointmentID(ctx, appointment.ID, entity.PaymentStatusRefunded); err != nil {
		return err
	}

	_, err = tx.AvailableTime.UpdateStatus(ctx, slot.ID, slot.DoctorID, true)
	return err
}
