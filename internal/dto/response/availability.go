package response

import (
	"hospital-booking/internal/data/entity"
)

type SlotResponse struct {
	AvailableTimeID string `json:"availableTimeID"`
	DoctorID        string `json:"doctorID"`
	Date            string `json:"date"`
	DayOfWeek       string `json:"dayOfWeek"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	IsAvailable     bool   `json:"isAvailable"`
}

type SlotStatusResponse struct {
	AvailableTimeID string `json:"availableTimeID"`
	IsAvailable     bool   `json:"isAvailable"`
	RowsAffected    int64  `json:"rowsAffected"`
}

type ActiveAppointmentResponse struct {
	AvailableTimeID      string `json:"availableTimeID"`
	HasActiveAppointment bool   `json:"hasActiveAppointment"`
}

type PlanAvailabilityResponse struct {
	Requested int            `json:"requested"`
	Created   int            `json:"created"`
	Skipped   int            `json:"skipped"`
	Slots     []SlotResponse `json:"slots"`
}

func SlotToResponse(slot *entity.AvailableTime) SlotResponse {
	return SlotResponse{
		AvailableTimeID: slot.ID.String(),
		DoctorID:        slot.DoctorID.String(),
		Date:            slot.ScheduleDate.Format("2006-01-02"),
		DayOfWeek:       slot.DayOfWeek,
		StartTime:       slot.StartTime,
		EndTime:         slot.EndTime,
		IsAvailable:     slot.IsAvailable,
	}
}

func SlotsToResponse(slots []*entity.AvailableTime) []SlotResponse {
	result := make([]SlotResponse, 0, len(slots))
	for _, slot := range slots {
		result = append(result, SlotToResponse(slot))
	}
	return result
}
