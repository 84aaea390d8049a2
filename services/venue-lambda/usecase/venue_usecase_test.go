package usecase

import (
	"testing"

	apperrors "github.com/mm-booking-services/common/errors"
	"github.com/mm-booking-services/services/venue-lambda/models"
)

func TestValidateVenueFields(t *testing.T) {
	validDays := map[string]int{"confirmationDay": 1, "invoiceDay": 14, "bookingListDay": 28, "calendarDay": 0}

	tests := []struct {
		name     string
		email    string
		state    string
		zip      string
		days     map[string]int
		slots    []models.TimeSlot
		wantCode apperrors.ErrorCode
	}{
		{name: "all valid", email: "venue@example.com", state: "AL", zip: "35203", days: validDays},
		{name: "disabled day allowed", email: "venue@example.com", days: map[string]int{"calendarDay": 0}},
		{name: "day 29 rejected", email: "venue@example.com", days: map[string]int{"invoiceDay": 29}, wantCode: apperrors.ErrCodeInvalidSendDay},
		{name: "negative day rejected", email: "venue@example.com", days: map[string]int{"invoiceDay": -1}, wantCode: apperrors.ErrCodeInvalidSendDay},
		{name: "bad email", email: "not-an-email", days: validDays, wantCode: apperrors.ErrCodeInvalidEmail},
		{name: "bad state", email: "venue@example.com", state: "Alabama", days: validDays, wantCode: apperrors.ErrCodeInvalidInput},
		{name: "bad zip", email: "venue@example.com", zip: "352", days: validDays, wantCode: apperrors.ErrCodeInvalidInput},
		{
			name: "valid time slots", email: "venue@example.com", days: validDays,
			slots: []models.TimeSlot{{Start: "19:00", End: "22:00"}, {Start: "22:30", End: "23:45"}},
		},
		{
			name: "slot with bad start rejected", email: "venue@example.com", days: validDays,
			slots:    []models.TimeSlot{{Start: "7 PM", End: "22:00"}},
			wantCode: apperrors.ErrCodeInvalidTimeSlot,
		},
		{
			name: "slot with missing end rejected", email: "venue@example.com", days: validDays,
			slots:    []models.TimeSlot{{Start: "19:00"}},
			wantCode: apperrors.ErrCodeInvalidTimeSlot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateVenueFields(tt.email, tt.state, tt.zip, tt.days, tt.slots)
			if tt.wantCode == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			appErr, ok := apperrors.AsAppError(err)
			if !ok || appErr.Code != tt.wantCode {
				t.Errorf("expected code %s, got %v", tt.wantCode, err)
			}
		})
	}
}
