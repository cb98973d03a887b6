package request

type SlotRequest struct {
	Date      string `json:"date" validate:"required,isodate"`
	StartTime string `json:"startTime" validate:"required,clocktime"`
	EndTime   string `json:"endTime" validate:"required,clocktime"`
}

type CreateSlotsRequest struct {
	Slots []SlotRequest `json:"slots" validate:"required,min=1,max=500,dive"`
}

type UpdateSlotStatusRequest struct {
	IsAvailable *bool `json:"isAvailable" validate:"required"`
}

// PlanAvailabilityRequest describes a weekly template expanded over a date range.
// An empty Weekdays list means every day.
type PlanAvailabilityRequest struct {
	FromDate    string   `json:"fromDate" validate:"required,isodate"`
	ToDate      string   `json:"toDate" validate:"required,isodate"`
	Weekdays    []string `json:"weekdays" validate:"omitempty,dive,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	DayStart    string   `json:"dayStart" validate:"required,clocktime"`
	DayEnd      string   `json:"dayEnd" validate:"required,clocktime"`
	SlotMinutes int      `json:"slotMinutes" validate:"required,min=5,max=480"`
}
