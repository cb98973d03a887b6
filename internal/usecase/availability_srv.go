package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
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

// maxPlanDays bounds one PlanAvailability call.
const maxPlanDays = 92

type AvailabilityService interface {
	// Doctor management
	CreateAvailabilitySlots(ctx context.Context, doctorID uuid.UUID, req *request.CreateSlotsRequest) ([]response.SlotResponse, error)
	UpdateAvailabilitySlotStatus(ctx context.Context, slotID, doctorID uuid.UUID, isAvailable bool) (int64, error)
	HasActiveAppointmentForSlot(ctx context.Context, slotID uuid.UUID) (bool, error)
	PlanAvailability(ctx context.Context, doctorID uuid.UUID, req *request.PlanAvailabilityRequest) (*response.PlanAvailabilityResponse, error)

	// Listings
	ListAvailableTimes(ctx context.Context, doctorID uuid.UUID) ([]response.SlotResponse, error)
	ListDoctorSlots(ctx context.Context, doctorID uuid.UUID) ([]response.SlotResponse, error)
}

type availabilityService struct {
	repo  *repository.Repository
	slots cache.SlotCache
	loc   *time.Location
	now   func() time.Time
	log   *zap.Logger
}

func NewAvailabilityService(repo *repository.Repository, slots cache.SlotCache, config *utils.Config, log *zap.Logger) AvailabilityService {
	return &availabilityService{
		repo:  repo,
		slots: slots,
		loc:   config.App.Location(),
		now:   time.Now,
		log:   log.With(zap.String("service", "availability")),
	}
}

func (s *availabilityService) CreateAvailabilitySlots(ctx context.Context, doctorID uuid.UUID, req *request.CreateSlotsRequest) ([]response.SlotResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create slots validation failed", zap.Any("errors", errs))
		return nil, validationError(errs)
	}

	slots := make([]*entity.AvailableTime, 0, len(req.Slots))
	errs := make(map[string]string)
	now := s.now().UTC()

	for i, item := range req.Slots {
		slot, msg := newSlot(doctorID, item.Date, item.StartTime, item.EndTime, now)
		if msg != "" {
			errs[fmt.Sprintf("slots[%d].endTime", i)] = msg
			continue
		}
		slots = append(slots, slot)
	}
	if len(errs) > 0 {
		return nil, validationError(errs)
	}

	err := s.repo.Tx.WithinTransaction(ctx, func(ctx context.Context, tx *repository.Repository) error {
		if err := ensureDoctor(ctx, tx, doctorID); err != nil {
			return err
		}
		return tx.AvailableTime.CreateBatch(ctx, slots)
	})
	if err != nil {
		return nil, classify(err, "failed to create availability slots")
	}

	s.slots.Invalidate(ctx, doctorID)

	s.log.Info("Availability slots created",
		zap.String("doctor_id", doctorID.String()),
		zap.Int("count", len(slots)),
	)

	return response.SlotsToResponse(slots), nil
}

// UpdateAvailabilitySlotStatus returns 0 when the slot does not exist or
// belongs to another doctor. A slot referenced by a pending or confirmed
// appointment cannot be toggled in either direction.
func (s *availabilityService) UpdateAvailabilitySlotStatus(ctx context.Context, slotID, doctorID uuid.UUID, isAvailable bool) (int64, error) {
	var rows int64
	err := s.repo.Tx.WithinTransaction(ctx, func(ctx context.Context, tx *repository.Repository) error {
		slot, err := tx.AvailableTime.LockByID(ctx, slotID)
		if err != nil {
			return err
		}
		if slot == nil || slot.DoctorID != doctorID {
			return nil
		}

		active, err := tx.Appointment.HasActiveForSlot(ctx, slotID)
		if err != nil {
			return err
		}
		if active {
			return newError(KindConflict, "slot has an active appointment")
		}

		rows, err = tx.AvailableTime.UpdateStatus(ctx, slotID, doctorID, isAvailable)
		return err
	})
	if err != nil {
		if KindOf(err) == KindConflict {
			s.log.Warn("Slot toggle refused",
				zap.String("available_time_id", slotID.String()),
				zap.Bool("is_available", isAvailable),
			)
		}
		return 0, classify(err, "failed to update slot status")
	}

	if rows > 0 {
		s.slots.Invalidate(ctx, doctorID)
		s.log.Info("Slot status updated",
			zap.String("available_time_id", slotID.String()),
			zap.String("doctor_id", doctorID.String()),
			zap.Bool("is_available", isAvailable),
		)
	}

	return rows, nil
}

func (s *availabilityService) HasActiveAppointmentForSlot(ctx context.Context, slotID uuid.UUID) (bool, error) {
	active, err := s.repo.Appointment.HasActiveForSlot(ctx, slotID)
	if err != nil {
		return false, classify(err, "failed to check slot appointments")
	}
	return active, nil
}

// PlanAvailability expands a weekly template and creates only the slots the
// doctor does not already have for the same date and times.
func (s *availabilityService) PlanAvailability(ctx context.Context, doctorID uuid.UUID, req *request.PlanAvailabilityRequest) (*response.PlanAvailabilityResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Plan availability validation failed", zap.Any("errors", errs))
		return nil, validationError(errs)
	}

	from, _ := time.Parse(utils.DateLayout, req.FromDate)
	to, _ := time.Parse(utils.DateLayout, req.ToDate)
	dayStart, _ := time.Parse(utils.ClockTimeLayout, req.DayStart)
	dayEnd, _ := time.Parse(utils.ClockTimeLayout, req.DayEnd)
	today := civilDate(s.now(), s.loc)

	switch {
	case from.Before(today):
		return nil, validationError(map[string]string{"fromDate": "Must not be in the past"})
	case to.Before(from):
		return nil, validationError(map[string]string{"toDate": "Must not be before fromDate"})
	case int(to.Sub(from).Hours()/24) >= maxPlanDays:
		return nil, validationError(map[string]string{"toDate": fmt.Sprintf("Range is limited to %d days", maxPlanDays)})
	case !dayStart.Before(dayEnd):
		return nil, validationError(map[string]string{"dayEnd": "Must be after dayStart"})
	case dayStart.Add(time.Duration(req.SlotMinutes) * time.Minute).After(dayEnd):
		return nil, validationError(map[string]string{"slotMinutes": "Does not fit between dayStart and dayEnd"})
	}

	now := s.now().UTC()
	planned := expandPlan(doctorID, from, to, weekdaySet(req.Weekdays), dayStart, dayEnd,
		time.Duration(req.SlotMinutes)*time.Minute, now)

	var missing []*entity.AvailableTime
	err := s.repo.Tx.WithinTransaction(ctx, func(ctx context.Context, tx *repository.Repository) error {
		if err := ensureDoctor(ctx, tx, doctorID); err != nil {
			return err
		}

		existing, err := tx.AvailableTime.FindUpcomingByDoctor(ctx, doctorID, from)
		if err != nil {
			return err
		}

		missing = missingSlots(planned, existing)
		return tx.AvailableTime.CreateBatch(ctx, missing)
	})
	if err != nil {
		return nil, classify(err, "failed to plan availability")
	}

	if len(missing) > 0 {
		s.slots.Invalidate(ctx, doctorID)
	}

	s.log.Info("Availability planned",
		zap.String("doctor_id", doctorID.String()),
		zap.String("from", req.FromDate),
		zap.String("to", req.ToDate),
		zap.Int("requested", len(planned)),
		zap.Int("created", len(missing)),
	)

	return &response.PlanAvailabilityResponse{
		Requested: len(planned),
		Created:   len(missing),
		Skipped:   len(planned) - len(missing),
		Slots:     response.SlotsToResponse(missing),
	}, nil
}

func (s *availabilityService) ListAvailableTimes(ctx context.Context, doctorID uuid.UUID) ([]response.SlotResponse, error) {
	cached, gen, ok := s.slots.GetAvailable(ctx, doctorID)
	if ok {
		var result []response.SlotResponse
		if err := json.Unmarshal(cached, &result); err == nil {
			return result, nil
		}
		s.log.Warn("Discarding unreadable slot cache entry", zap.String("doctor_id", doctorID.String()))
	}

	today := civilDate(s.now(), s.loc)
	slots, err := s.repo.AvailableTime.FindAvailableByDoctor(ctx, doctorID, today)
	if err != nil {
		return nil, classify(err, "failed to list available times")
	}

	result := response.SlotsToResponse(slots)
	if payload, err := json.Marshal(result); err == nil {
		s.slots.SetAvailable(ctx, doctorID, gen, payload)
	}

	return result, nil
}

func (s *availabilityService) ListDoctorSlots(ctx context.Context, doctorID uuid.UUID) ([]response.SlotResponse, error) {
	today := civilDate(s.now(), s.loc)
	slots, err := s.repo.AvailableTime.FindUpcomingByDoctor(ctx, doctorID, today)
	if err != nil {
		return nil, classify(err, "failed to list doctor slots")
	}

	return response.SlotsToResponse(slots), nil
}

func ensureDoctor(ctx context.Context, repo *repository.Repository, doctorID uuid.UUID) error {
	doctor, err := repo.Doctor.FindByID(ctx, doctorID)
	if err != nil {
		return err
	}
	if doctor == nil {
		return newError(KindNotFound, "doctor %s not found", doctorID.String())
	}
	return nil
}

// newSlot builds an open slot from validated strings. A non-empty message
// means the interval is empty or inverted.
func newSlot(doctorID uuid.UUID, date, start, end string, now time.Time) (*entity.AvailableTime, string) {
	day, _ := time.Parse(utils.DateLayout, date)
	startAt, _ := time.Parse(utils.ClockTimeLayout, start)
	endAt, _ := time.Parse(utils.ClockTimeLayout, end)
	if !startAt.Before(endAt) {
		return nil, "Must be after startTime"
	}

	return &entity.AvailableTime{
		ID:           uuid.New(),
		DoctorID:     doctorID,
		ScheduleDate: day,
		DayOfWeek:    day.Weekday().String(),
		StartTime:    startAt.Format(utils.ClockTimeLayout),
		EndTime:      endAt.Format(utils.ClockTimeLayout),
		IsAvailable:  true,
		CreatedAt:    now,
	}, ""
}

func weekdaySet(names []string) map[time.Weekday]bool {
	set := make(map[time.Weekday]bool, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		if len(names) == 0 {
			set[d] = true
			continue
		}
		for _, name := range names {
			if strings.EqualFold(name, d.String()) {
				set[d] = true
			}
		}
	}
	return set
}

func expandPlan(doctorID uuid.UUID, from, to time.Time, days map[time.Weekday]bool, dayStart, dayEnd time.Time, step time.Duration, now time.Time) []*entity.AvailableTime {
	var planned []*entity.AvailableTime
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if !days[day.Weekday()] {
			continue
		}
		for start := dayStart; !start.Add(step).After(dayEnd); start = start.Add(step) {
			slot, _ := newSlot(doctorID, day.Format(utils.DateLayout),
				start.Format(utils.ClockTimeLayout), start.Add(step).Format(utils.ClockTimeLayout), now)
			planned = append(planned, slot)
		}
	}
	return planned
}

func missingSlots(planned, existing []*entity.AvailableTime) []*entity.AvailableTime {
	var missing []*entity.AvailableTime
	for _, slot := range planned {
		found := false
		for _, other := range existing {
			if slot.SameInterval(other) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, slot)
		}
	}
	return missing
}
