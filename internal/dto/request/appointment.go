package request

// PaymentRequest is checked by the booking engine, not by struct tags:
// every problem with it is reported as an invalid payment.
type PaymentRequest struct {
	Method    string   `json:"method"`
	Amount    *float64 `json:"amount"`
	Currency  string   `json:"currency,omitempty"`
	Reference string   `json:"reference,omitempty"`
}

type BookAppointmentRequest struct {
	AvailableTimeID string          `json:"availableTimeID" validate:"required,uuid"`
	Notes           *string         `json:"notes,omitempty" validate:"omitempty,max=1000"`
	Payment         *PaymentRequest `json:"payment"`
}

type ListAppointmentsRequest struct {
	PaginatedRequest
	Scope string `json:"scope" validate:"omitempty,oneof=upcoming past all"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed completed cancelled"`
}
