package adaptor

import (
	"encoding/json"
	"net/http"

	"hospital-booking/internal/dto/request"
	"hospital-booking/internal/usecase"
	"hospital-booking/pkg/utils"

	"go.uber.org/zap"
)

type AppointmentHandler struct {
	service usecase.AppointmentService
	log     *zap.Logger
}

func NewAppointmentHandler(service usecase.AppointmentService, log *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{
		service: service,
		log:     log.With(zap.String("handler", "appointment")),
	}
}

func listRequest(r *http.Request) *request.ListAppointmentsRequest {
	query := r.URL.Query()
	return &request.ListAppointmentsRequest{
		PaginatedRequest: request.PaginatedRequest{
			Page:    utils.ParseInt(query.Get("page"), 1),
			PerPage: utils.ParseInt(query.Get("per_page"), 10),
		},
		Scope: query.Get("scope"),
	}
}

// ListMine handles GET /api/appointments/me (patient)
func (h *AppointmentHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	patientID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	appointments, err := h.service.ListPatientAppointments(r.Context(), patientID, listRequest(r))
	if err != nil {
		handleServiceError(w, h.log, err, "list patient appointments")
		return
	}

	utils.ResponseSuccess(w, "success", appointments)
}

// ListForDoctor handles GET /api/doctors/{id}/appointments
func (h *AppointmentHandler) ListForDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	appointments, err := h.service.ListDoctorAppointments(r.Context(), doctorID, listRequest(r))
	if err != nil {
		handleServiceError(w, h.log, err, "list doctor appointments")
		return
	}

	utils.ResponseSuccess(w, "success", appointments)
}

// GetAppointment handles GET /api/appointments/{id}
func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}
	role, _ := utils.GetRoleFromContext(r.Context())

	appointmentID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	appointment, err := h.service.GetAppointment(r.Context(), usecase.Caller{UserID: userID, Role: role}, appointmentID)
	if err != nil {
		handleServiceError(w, h.log, err, "get appointment")
		return
	}

	utils.ResponseSuccess(w, "success", appointment)
}

// UpdateStatus handles PATCH /api/doctors/{id}/appointments/{appointmentId}/status
func (h *AppointmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	appointmentID, ok := uuidParam(w, r, "appointmentId")
	if !ok {
		return
	}

	var req request.UpdateAppointmentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	appointment, err := h.service.UpdateAppointmentStatus(r.Context(), doctorID, appointmentID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update appointment status")
		return
	}

	utils.ResponseSuccess(w, "Appointment status updated", appointment)
}

// Cancel handles PUT /api/admin/appointments/{id}/cancel (admin only)
func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	appointment, err := h.service.CancelAppointment(r.Context(), appointmentID)
	if err != nil {
		handleServiceError(w, h.log, err, "cancel appointment")
		return
	}

	utils.ResponseSuccess(w, "Appointment cancelled", appointment)
}
