package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"hospital-booking/internal/dto/request"
	"hospital-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptrFloat(f float64) *float64 { return &f }

func ptrString(s string) *string { return &s }

// recordingCache remembers invalidations and serves what was stored,
// versioned per doctor like the Redis cache.
type recordingCache struct {
	mu          sync.Mutex
	entries     map[uuid.UUID][]byte
	generations map[uuid.UUID]int64
	invalidated []uuid.UUID
}

func newRecordingCache() *recordingCache {
	return &recordingCache{
		entries:     make(map[uuid.UUID][]byte),
		generations: make(map[uuid.UUID]int64),
	}
}

func (c *recordingCache) GetAvailable(_ context.Context, doctorID uuid.UUID) ([]byte, int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[doctorID]
	return data, c.generations[doctorID], ok
}

func (c *recordingCache) SetAvailable(_ context.Context, doctorID uuid.UUID, gen int64, payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[doctorID] != gen {
		return
	}
	c.entries[doctorID] = payload
}

func (c *recordingCache) Invalidate(_ context.Context, doctorID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[doctorID]++
	delete(c.entries, doctorID)
	c.invalidated = append(c.invalidated, doctorID)
}

func (c *recordingCache) invalidations() []uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]uuid.UUID(nil), c.invalidated...)
}

type testEnv struct {
	store        *memStore
	cache        *recordingCache
	booking      *bookingService
	availability *availabilityService
	appointment  *appointmentService
}

// newTestEnv wires the services over an in-memory store with the clock frozen at now.
func newTestEnv(t *testing.T, now time.Time) *testEnv {
	t.Helper()

	store := newMemStore()
	slotCache := newRecordingCache()
	repo := store.repository(nil)
	config := &utils.Config{
		App:     utils.AppConfig{Timezone: "UTC"},
		Booking: utils.BookingConfig{Currency: "BDT"},
	}
	log := zap.NewNop()
	clock := func() time.Time { return now }

	booking := NewBookingService(repo, slotCache, config, log).(*bookingService)
	booking.now = clock
	availability := NewAvailabilityService(repo, slotCache, config, log).(*availabilityService)
	availability.now = clock
	appointment := NewAppointmentService(repo, slotCache, config, log).(*appointmentService)
	appointment.now = clock

	return &testEnv{
		store:        store,
		cache:        slotCache,
		booking:      booking,
		availability: availability,
		appointment:  appointment,
	}
}

func bookRequest(slotID uuid.UUID, method string, amount float64, reference string) *request.BookAppointmentRequest {
	return &request.BookAppointmentRequest{
		AvailableTimeID: slotID.String(),
		Payment: &request.PaymentRequest{
			Method:    method,
			Amount:    ptrFloat(amount),
			Reference: reference,
		},
	}
}

func expectKind(t *testing.T, err error, want Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	if got := KindOf(err); got != want {
		t.Fatalf("expected %s error, got %s (%v)", want, got, err)
	}
}

func expectCounts(t *testing.T, store *memStore, open, appointments, payments int) {
	t.Helper()
	gotOpen, gotAppointments, gotPayments := store.counts()
	if gotOpen != open || gotAppointments != appointments || gotPayments != payments {
		t.Fatalf("expected open=%d appointments=%d payments=%d, got open=%d appointments=%d payments=%d",
			open, appointments, payments, gotOpen, gotAppointments, gotPayments)
	}
}
