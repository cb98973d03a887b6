package adaptor

import (
	"encoding/json"
	"net/http"
	"strings"

	"hospital-booking/internal/dto/request"
	"hospital-booking/internal/usecase"
	"hospital-booking/pkg/utils"

	"go.uber.org/zap"
)

// IdempotencyKeyHeader lets a patient retry a booking after an ambiguous outcome
const IdempotencyKeyHeader = "Idempotency-Key"

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// BookAppointment handles POST /api/appointments/book (patient)
func (h *BookingHandler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	patientID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.BookAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	key := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))

	booking, err := h.service.BookAppointment(r.Context(), patientID, key, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "book appointment")
		return
	}

	if booking.Replayed {
		utils.ResponseSuccess(w, "Appointment already booked", booking)
		return
	}
	utils.ResponseCreated(w, "Appointment booked", booking)
}
