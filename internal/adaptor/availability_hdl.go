package adaptor

import (
	"encoding/json"
	"net/http"

	"hospital-booking/internal/dto/request"
	"hospital-booking/internal/dto/response"
	"hospital-booking/internal/usecase"
	"hospital-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AvailabilityHandler struct {
	service usecase.AvailabilityService
	log     *zap.Logger
}

func NewAvailabilityHandler(service usecase.AvailabilityService, log *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log.With(zap.String("handler", "availability")),
	}
}

// ListAvailableTimes handles GET /api/appointments/available-times?doctorId= (public)
func (h *AvailabilityHandler) ListAvailableTimes(w http.ResponseWriter, r *http.Request) {
	doctorID, err := uuid.Parse(r.URL.Query().Get("doctorId"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid doctorId", map[string]string{"doctorId": "Must be a valid UUID"})
		return
	}

	slots, err := h.service.ListAvailableTimes(r.Context(), doctorID)
	if err != nil {
		handleServiceError(w, h.log, err, "list available times")
		return
	}

	utils.ResponseSuccess(w, "success", slots)
}

// ListDoctorSlots handles GET /api/doctors/{id}/availability
func (h *AvailabilityHandler) ListDoctorSlots(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	slots, err := h.service.ListDoctorSlots(r.Context(), doctorID)
	if err != nil {
		handleServiceError(w, h.log, err, "list doctor slots")
		return
	}

	utils.ResponseSuccess(w, "success", slots)
}

// CreateSlots handles POST /api/doctors/{id}/availability
func (h *AvailabilityHandler) CreateSlots(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var req request.CreateSlotsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	slots, err := h.service.CreateAvailabilitySlots(r.Context(), doctorID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create availability slots")
		return
	}

	utils.ResponseCreated(w, "Availability slots created", slots)
}

// PlanAvailability handles POST /api/doctors/{id}/availability/plan
func (h *AvailabilityHandler) PlanAvailability(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var req request.PlanAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	plan, err := h.service.PlanAvailability(r.Context(), doctorID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "plan availability")
		return
	}

	utils.ResponseCreated(w, "Availability planned", plan)
}

// UpdateSlotStatus handles PATCH /api/doctors/{id}/availability/{slotId}
func (h *AvailabilityHandler) UpdateSlotStatus(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	slotID, ok := uuidParam(w, r, "slotId")
	if !ok {
		return
	}

	var req request.UpdateSlotStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	rows, err := h.service.UpdateAvailabilitySlotStatus(r.Context(), slotID, doctorID, *req.IsAvailable)
	if err != nil {
		handleServiceError(w, h.log, err, "update slot status")
		return
	}

	// 0 rows is a normal outcome: the slot is missing or owned by someone else
	if rows == 0 {
		utils.ResponseNotFound(w, "Slot not found for this doctor")
		return
	}

	utils.ResponseSuccess(w, "Slot status updated", response.SlotStatusResponse{
		AvailableTimeID: slotID.String(),
		IsAvailable:     *req.IsAvailable,
		RowsAffected:    rows,
	})
}

// HasActiveAppointment handles GET /api/doctors/{id}/availability/{slotId}/active
func (h *AvailabilityHandler) HasActiveAppointment(w http.ResponseWriter, r *http.Request) {
	slotID, ok := uuidParam(w, r, "slotId")
	if !ok {
		return
	}

	active, err := h.service.HasActiveAppointmentForSlot(r.Context(), slotID)
	if err != nil {
		handleServiceError(w, h.log, err, "check active appointment")
		return
	}

	utils.ResponseSuccess(w, "success", response.ActiveAppointmentResponse{
		AvailableTimeID:      slotID.String(),
		HasActiveAppointment: active,
	})
}
