package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"hospital-booking/internal/data/entity"
	"hospital-booking/internal/data/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// memStore is an in-memory stand-in for Postgres. Row locks are held until
// the owning transaction ends and every write records an undo step, so
// rollback restores the exact prior state.
type memStore struct {
	mu           sync.Mutex
	doctors      map[uuid.UUID]entity.Doctor
	slots        map[uuid.UUID]entity.AvailableTime
	appointments map[uuid.UUID]entity.Appointment
	payments     map[uuid.UUID]entity.Payment // keyed by appointment ID

	locksMu sync.Mutex
	locks   map[uuid.UUID]chan struct{}

	// faults maps an operation name such as "payment.create" to the error it returns
	faults map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		doctors:      make(map[uuid.UUID]entity.Doctor),
		slots:        make(map[uuid.UUID]entity.AvailableTime),
		appointments: make(map[uuid.UUID]entity.Appointment),
		payments:     make(map[uuid.UUID]entity.Payment),
		locks:        make(map[uuid.UUID]chan struct{}),
		faults:       make(map[string]error),
	}
}

func (s *memStore) failOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[op] = err
}

// fault must be called with s.mu held
func (s *memStore) fault(op string) error {
	return s.faults[op]
}

func (s *memStore) rowLock(id uuid.UUID) chan struct{} {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = make(chan struct{}, 1)
		s.locks[id] = l
	}
	return l
}

func (s *memStore) counts() (slotsOpen, appointments, payments int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, slot := range s.slots {
		if slot.IsAvailable {
			slotsOpen++
		}
	}
	return slotsOpen, len(s.appointments), len(s.payments)
}

func (s *memStore) slot(id uuid.UUID) entity.AvailableTime {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slots[id]
}

func (s *memStore) addDoctor(fee string) entity.Doctor {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := entity.Doctor{
		BaseNoDelete:    entity.BaseNoDelete{ID: uuid.New()},
		FullName:        "Dr. Rahman",
		Specialization:  "Cardiology",
		ConsultationFee: mustDecimal(fee),
	}
	s.doctors[d.ID] = d
	return d
}

func (s *memStore) addSlot(doctorID uuid.UUID, date, start, end string, open bool) entity.AvailableTime {
	s.mu.Lock()
	defer s.mu.Unlock()
	day, _ := time.Parse("2006-01-02", date)
	slot := entity.AvailableTime{
		ID:           uuid.New(),
		DoctorID:     doctorID,
		ScheduleDate: day,
		DayOfWeek:    day.Weekday().String(),
		StartTime:    start,
		EndTime:      end,
		IsAvailable:  open,
	}
	s.slots[slot.ID] = slot
	return slot
}

// repository returns repositories bound to tx; a nil tx means autocommit.
func (s *memStore) repository(tx *memTx) *repository.Repository {
	repo := &repository.Repository{
		Doctor:        &memDoctors{s: s, tx: tx},
		AvailableTime: &memSlots{s: s, tx: tx},
		Appointment:   &memAppointments{s: s, tx: tx},
		Payment:       &memPayments{s: s, tx: tx},
	}
	if tx == nil {
		repo.Tx = &memTransactor{s: s}
	} else {
		repo.Tx = joinedMemTransactor{repo: repo}
	}
	return repo
}

type memTx struct {
	s    *memStore
	undo []func()
	held []uuid.UUID
}

func (tx *memTx) record(undo func()) {
	if tx != nil {
		tx.undo = append(tx.undo, undo)
	}
}

func (tx *memTx) lock(ctx context.Context, id uuid.UUID) error {
	if tx == nil {
		return nil
	}
	for _, h := range tx.held {
		if h == id {
			return nil
		}
	}
	select {
	case tx.s.rowLock(id) <- struct{}{}:
		tx.held = append(tx.held, id)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (tx *memTx) release() {
	for _, id := range tx.held {
		<-tx.s.rowLock(id)
	}
	tx.held = nil
}

func (tx *memTx) rollback() {
	tx.s.mu.Lock()
	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i]()
	}
	tx.undo = nil
	tx.s.mu.Unlock()
	tx.release()
}

type memTransactor struct {
	s *memStore
}

func (t *memTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx *repository.Repository) error) (err error) {
	tx := &memTx{s: t.s}
	defer func() {
		if p := recover(); p != nil {
			tx.rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, t.s.repository(tx)); err != nil {
		tx.rollback()
		return err
	}

	tx.release()
	return nil
}

type joinedMemTransactor struct {
	repo *repository.Repository
}

func (j joinedMemTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx *repository.Repository) error) error {
	return fn(ctx, j.repo)
}

// ==================== doctors ====================

type memDoctors struct {
	s  *memStore
	tx *memTx
}

func (r *memDoctors) Create(_ context.Context, doctor *entity.Doctor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.doctors[doctor.ID] = *doctor
	id := doctor.ID
	r.tx.record(func() { delete(r.s.doctors, id) })
	return nil
}

func (r *memDoctors) FindByID(_ context.Context, id uuid.UUID) (*entity.Doctor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault("doctor.find"); err != nil {
		return nil, err
	}
	d, ok := r.s.doctors[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

// ==================== slots ====================

type memSlots struct {
	s  *memStore
	tx *memTx
}

func (r *memSlots) CreateBatch(_ context.Context, slots []*entity.AvailableTime) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault("slot.create"); err != nil {
		return err
	}
	for _, slot := range slots {
		r.s.slots[slot.ID] = *slot
		id := slot.ID
		r.tx.record(func() { delete(r.s.slots, id) })
	}
	return nil
}

func (r *memSlots) FindByID(_ context.Context, id uuid.UUID) (*entity.AvailableTime, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	slot, ok := r.s.slots[id]
	if !ok {
		return nil, nil
	}
	return &slot, nil
}

func (r *memSlots) LockAvailableForBooking(ctx context.Context, id uuid.UUID) (*entity.BookableSlot, error) {
	if err := r.tx.lock(ctx, id); err != nil {
		return nil, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault("slot.lock"); err != nil {
		return nil, err
	}
	slot, ok := r.s.slots[id]
	if !ok || !slot.IsAvailable {
		return nil, nil
	}
	doctor, ok := r.s.doctors[slot.DoctorID]
	if !ok {
		return nil, nil
	}
	return &entity.BookableSlot{AvailableTime: slot, ConsultationFee: doctor.ConsultationFee}, nil
}

func (r *memSlots) LockByID(ctx context.Context, id uuid.UUID) (*entity.AvailableTime, error) {
	if err := r.tx.lock(ctx, id); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *memSlots) setAvailable(id uuid.UUID, doctorID *uuid.UUID, onlyIfOpen, value bool) int64 {
	slot, ok := r.s.slots[id]
	if !ok || (doctorID != nil && slot.DoctorID != *doctorID) || (onlyIfOpen && !slot.IsAvailable) {
		return 0
	}
	prev := slot.IsAvailable
	slot.IsAvailable = value
	r.s.slots[id] = slot
	r.tx.record(func() {
		s := r.s.slots[id]
		s.IsAvailable = prev
		r.s.slots[id] = s
	})
	return 1
}

func (r *memSlots) MarkUnavailable(_ context.Context, id uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault("slot.mark"); err != nil {
		return 0, err
	}
	return r.setAvailable(id, nil, true, false), nil
}

func (r *memSlots) UpdateStatus(_ context.Context, id, doctorID uuid.UUID, isAvailable bool) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.setAvailable(id, &doctorID, false, isAvailable), nil
}

func (r *memSlots) list(doctorID uuid.UUID, from time.Time, onlyOpen bool) []*entity.AvailableTime {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []*entity.AvailableTime
	for _, slot := range r.s.slots {
		if slot.DoctorID != doctorID || slot.ScheduleDate.Before(from) || (onlyOpen && !slot.IsAvailable) {
			continue
		}
		slot := slot
		result = append(result, &slot)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].ScheduleDate.Equal(result[j].ScheduleDate) {
			return result[i].ScheduleDate.Before(result[j].ScheduleDate)
		}
		return result[i].StartTime < result[j].StartTime
	})
	return result
}

func (r *memSlots) FindAvailableByDoctor(_ context.Context, doctorID uuid.UUID, from time.Time) ([]*entity.AvailableTime, error) {
	return r.list(doctorID, from, true), nil
}

func (r *memSlots) FindUpcomingByDoctor(_ context.Context, doctorID uuid.UUID, from time.Time) ([]*entity.AvailableTime, error) {
	return r.list(doctorID, from, false), nil
}

// ==================== appointments ====================

type memAppointments struct {
	s  *memStore
	tx *memTx
}

func (r *memAppointments) Create(_ context.Context, a *entity.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault("appointment.create"); err != nil {
		return err
	}
	if a.IdempotencyKey != nil {
		for _, other := range r.s.appointments {
			if other.PatientID == a.PatientID && other.IdempotencyKey != nil && *other.IdempotencyKey == *a.IdempotencyKey {
				return &pgconn.PgError{Code: "23505", ConstraintName: repository.AppointmentIdempotencyIndex}
			}
		}
	}
	r.s.appointments[a.ID] = *a
	id := a.ID
	r.tx.record(func() { delete(r.s.appointments, id) })
	return nil
}

func (r *memAppointments) FindByID(_ context.Context, id uuid.UUID) (*entity.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.appointments[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *memAppointments) LockByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	if err := r.tx.lock(ctx, id); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *memAppointments) FindByIdempotencyKey(_ context.Context, patientID uuid.UUID, key string) (*entity.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.appointments {
		if a.PatientID == patientID && a.IdempotencyKey != nil && *a.IdempotencyKey == key {
			return &a, nil
		}
	}
	return nil, nil
}

func (r *memAppointments) UpdateStatus(_ context.Context, id uuid.UUID, from, to entity.AppointmentStatus) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.appointments[id]
	if !ok || a.Status != from {
		return 0, nil
	}
	a.Status = to
	r.s.appointments[id] = a
	r.tx.record(func() {
		a := r.s.appointments[id]
		a.Status = from
		r.s.appointments[id] = a
	})
	return 1, nil
}

func (r *memAppointments) HasActiveForSlot(_ context.Context, slotID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.appointments {
		if a.AvailableTimeID == slotID && a.Status.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

// detail must be called with s.mu held
func (r *memAppointments) detail(a entity.Appointment) *entity.AppointmentDetail {
	slot := r.s.slots[a.AvailableTimeID]
	doctor := r.s.doctors[a.DoctorID]
	d := &entity.AppointmentDetail{
		Appointment:    a,
		DoctorName:     doctor.FullName,
		Specialization: doctor.Specialization,
		ScheduleDate:   slot.ScheduleDate,
		StartTime:      slot.StartTime,
		EndTime:        slot.EndTime,
	}
	if p, ok := r.s.payments[a.ID]; ok {
		d.Payment = &p
	}
	return d
}

func (r *memAppointments) FindDetailByID(_ context.Context, id uuid.UUID) (*entity.AppointmentDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.appointments[id]
	if !ok {
		return nil, nil
	}
	return r.detail(a), nil
}

func (r *memAppointments) filter(owner func(entity.Appointment) bool, f entity.AppointmentFilter) []*entity.AppointmentDetail {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []*entity.AppointmentDetail
	for _, a := range r.s.appointments {
		if !owner(a) {
			continue
		}
		d := r.detail(a)
		switch f.Scope {
		case entity.AppointmentScopeUpcoming:
			if d.ScheduleDate.Before(f.Today) {
				continue
			}
		case entity.AppointmentScopePast:
			if !d.ScheduleDate.Before(f.Today) {
				continue
			}
		}
		result = append(result, d)
	}
	sort.Slice(result, func(i, j int) bool {
		if f.Scope == entity.AppointmentScopeUpcoming {
			return result[i].ScheduleDate.Before(result[j].ScheduleDate)
		}
		return result[i].ScheduleDate.After(result[j].ScheduleDate)
	})
	return result
}

func page(details []*entity.AppointmentDetail, f entity.AppointmentFilter) []*entity.AppointmentDetail {
	if f.Offset >= len(details) {
		return nil
	}
	details = details[f.Offset:]
	if f.Limit > 0 && f.Limit < len(details) {
		details = details[:f.Limit]
	}
	return details
}

func (r *memAppointments) ListByPatient(_ context.Context, patientID uuid.UUID, f entity.AppointmentFilter) ([]*entity.AppointmentDetail, error) {
	return page(r.filter(func(a entity.Appointment) bool { return a.PatientID == patientID }, f), f), nil
}

func (r *memAppointments) CountByPatient(_ context.Context, patientID uuid.UUID, f entity.AppointmentFilter) (int64, error) {
	return int64(len(r.filter(func(a entity.Appointment) bool { return a.PatientID == patientID }, f))), nil
}

func (r *memAppointments) ListByDoctor(_ context.Context, doctorID uuid.UUID, f entity.AppointmentFilter) ([]*entity.AppointmentDetail, error) {
	return page(r.filter(func(a entity.Appointment) bool { return a.DoctorID == doctorID }, f), f), nil
}

func (r *memAppointments) CountByDoctor(_ context.Context, doctorID uuid.UUID, f entity.AppointmentFilter) (int64, error) {
	return int64(len(r.filter(func(a entity.Appointment) bool { return a.DoctorID == doctorID }, f))), nil
}

// ==================== payments ====================

type memPayments struct {
	s  *memStore
	tx *memTx
}

func (r *memPayments) Create(_ context.Context, p *entity.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault("payment.create"); err != nil {
		return err
	}
	r.s.payments[p.AppointmentID] = *p
	id := p.AppointmentID
	r.tx.record(func() { delete(r.s.payments, id) })
	return nil
}

func (r *memPayments) FindByAppointmentID(_ context.Context, appointmentID uuid.UUID) (*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.payments[appointmentID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *memPayments) UpdateStatusByAppointmentID(_ context.Context, appointmentID uuid.UUID, status entity.PaymentStatus) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.payments[appointmentID]
	if !ok {
		return 0, nil
	}
	prev := p.Status
	p.Status = status
	r.s.payments[appointmentID] = p
	r.tx.record(func() {
		p := r.s.payments[appointmentID]
		p.Status = prev
		r.s.payments[appointmentID] = p
	})
	return 1, nil
}
