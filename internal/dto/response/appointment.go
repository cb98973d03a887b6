package response

import (
	"time"

	"hospital-booking/internal/data/entity"
)

type PaymentResponse struct {
	PaymentID string               `json:"paymentID"`
	Method    entity.PaymentMethod `json:"method"`
	Amount    float64              `json:"amount"`
	Currency  string               `json:"currency"`
	Status    entity.PaymentStatus `json:"status"`
	Reference *string              `json:"reference,omitempty"`
	PaidAt    time.Time            `json:"paidAt"`
}

// BookingResponse echoes the claimed slot and the recorded payment.
// Replayed is set when an Idempotency-Key matched an earlier booking.
type BookingResponse struct {
	AppointmentID string                   `json:"appointmentID"`
	DoctorID      string                   `json:"doctorID"`
	ScheduleDate  string                   `json:"scheduleDate"`
	StartTime     string                   `json:"startTime"`
	EndTime       string                   `json:"endTime"`
	Status        entity.AppointmentStatus `json:"status"`
	Notes         *string                  `json:"notes,omitempty"`
	Payment       PaymentResponse          `json:"payment"`
	Replayed      bool                     `json:"replayed"`
}

type AppointmentResponse struct {
	AppointmentID   string                   `json:"appointmentID"`
	PatientID       string                   `json:"patientID"`
	DoctorID        string                   `json:"doctorID"`
	DoctorName      string                   `json:"doctorName"`
	Specialization  string                   `json:"specialization"`
	AvailableTimeID string                   `json:"availableTimeID"`
	ScheduleDate    string                   `json:"scheduleDate"`
	StartTime       string                   `json:"startTime"`
	EndTime         string                   `json:"endTime"`
	Status          entity.AppointmentStatus `json:"status"`
	Notes           *string                  `json:"notes,omitempty"`
	Payment         *PaymentResponse         `json:"payment,omitempty"`
	CreatedAt       time.Time                `json:"createdAt"`
	UpdatedAt       time.Time                `json:"updatedAt"`
}

// Helper converters
func PaymentToResponse(payment *entity.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID: payment.ID.String(),
		Method:    payment.Method,
		Amount:    payment.Amount.InexactFloat64(),
		Currency:  payment.Currency,
		Status:    payment.Status,
		Reference: payment.TransactionReference,
		PaidAt:    payment.PaidAt,
	}
}

func BookingToResponse(detail *entity.AppointmentDetail, replayed bool) *BookingResponse {
	res := &BookingResponse{
		AppointmentID: detail.ID.String(),
		DoctorID:      detail.DoctorID.String(),
		ScheduleDate:  detail.ScheduleDate.Format("2006-01-02"),
		StartTime:     detail.StartTime,
		EndTime:       detail.EndTime,
		Status:        detail.Status,
		Notes:         detail.Notes,
		Replayed:      replayed,
	}
	if detail.Payment != nil {
		res.Payment = PaymentToResponse(detail.Payment)
	}
	return res
}

func AppointmentToResponse(detail *entity.AppointmentDetail) AppointmentResponse {
	res := AppointmentResponse{
		AppointmentID:   detail.ID.String(),
		PatientID:       detail.PatientID.String(),
		DoctorID:        detail.DoctorID.String(),
		DoctorName:      detail.DoctorName,
		Specialization:  detail.Specialization,
		AvailableTimeID: detail.AvailableTimeID.String(),
		ScheduleDate:    detail.ScheduleDate.Format("2006-01-02"),
		StartTime:       detail.StartTime,
		EndTime:         detail.EndTime,
		Status:          detail.Status,
		Notes:           detail.Notes,
		CreatedAt:       detail.CreatedAt,
		UpdatedAt:       detail.UpdatedAt,
	}
	if detail.Payment != nil {
		payment := PaymentToResponse(detail.Payment)
		res.Payment = &payment
	}
	return res
}

func AppointmentsToResponse(details []*entity.AppointmentDetail) []AppointmentResponse {
	result := make([]AppointmentResponse, 0, len(details))
	for _, detail := range details {
		result = append(result, AppointmentToResponse(detail))
	}
	return result
}
