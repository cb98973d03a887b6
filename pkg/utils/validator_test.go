package utils

import "testing"

type slotInput struct {
	Date  string `json:"date" validate:"required,isodate"`
	Start string `json:"startTime" validate:"required,clocktime"`
}

type batchInput struct {
	Slots []slotInput `json:"slots" validate:"required,min=1,dive"`
	Scope string      `json:"scope" validate:"omitempty,oneof=upcoming past all"`
}

func TestValidateStruct(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		errs := ValidateStruct(batchInput{Slots: []slotInput{{Date: "2024-06-01", Start: "09:30"}}})
		if len(errs) != 0 {
			t.Fatalf("expected no errors, got %v", errs)
		}
	})

	t.Run("ReportsJSONPaths", func(t *testing.T) {
		errs := ValidateStruct(batchInput{
			Slots: []slotInput{{Date: "2024-06-01", Start: "09:30"}, {Date: "2024-13-40", Start: "25:00"}},
			Scope: "later",
		})

		want := map[string]string{
			"slots[1].date":      "Must be a date in YYYY-MM-DD format",
			"slots[1].startTime": "Must be a time in HH:MM format",
			"scope":              "Must be one of: upcoming, past, all",
		}
		for field, msg := range want {
			if errs[field] != msg {
				t.Errorf("%s: expected %q, got %q", field, msg, errs[field])
			}
		}
		if len(errs) != len(want) {
			t.Errorf("expected %d errors, got %v", len(want), errs)
		}
	})

	t.Run("RequiredSlice", func(t *testing.T) {
		errs := ValidateStruct(batchInput{})
		if errs["slots"] != "This field is required" {
			t.Fatalf("expected required error on slots, got %v", errs)
		}
	})
}

func TestFormatValidationErrors(t *testing.T) {
	got := FormatValidationErrors(map[string]string{
		"toDate":   "Must not be before fromDate",
		"fromDate": "Must not be in the past",
	})
	want := "fromDate: Must not be in the past; toDate: Must not be before fromDate"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestPagination(t *testing.T) {
	tests := []struct {
		name                  string
		page, perPage         int
		wantPage, wantPerPage int
		wantOffset            int
	}{
		{"Defaults", 0, 0, 1, DefaultPerPage, 0},
		{"ThirdPage", 3, 20, 3, 20, 40},
		{"OversizedPage", 2, 500, 2, MaxPerPage, MaxPerPage},
		{"NegativeInputs", -4, -1, 1, DefaultPerPage, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, perPage := ClampPage(tt.page, tt.perPage)
			if page != tt.wantPage || perPage != tt.wantPerPage {
				t.Fatalf("ClampPage(%d, %d) = %d, %d, want %d, %d", tt.page, tt.perPage, page, perPage, tt.wantPage, tt.wantPerPage)
			}
			if got := PageOffset(tt.page, tt.perPage); got != tt.wantOffset {
				t.Fatalf("PageOffset(%d, %d) = %d, want %d", tt.page, tt.perPage, got, tt.wantOffset)
			}
		})
	}

	if got := TotalPages(21, 10); got != 3 {
		t.Errorf("TotalPages(21, 10) = %d, want 3", got)
	}
	if got := TotalPages(0, 10); got != 0 {
		t.Errorf("TotalPages(0, 10) = %d, want 0", got)
	}
}
