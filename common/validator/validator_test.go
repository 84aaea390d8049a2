package validator

import (
	"testing"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		expected bool
	}{
		{"Valid email", "band@example.com", true},
		{"Valid with +", "bookings+march@gmail.com", true},
		{"Invalid - no @", "bandexample.com", false},
		{"Invalid - no domain", "band@", false},
		{"Empty string", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsValidEmail(tt.email)
			if got != tt.expected {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.expected)
			}
		})
	}
}

func TestIsValidSendOutDay(t *testing.T) {
	tests := []struct {
		name     string
		day      int
		expected bool
	}{
		{"First of month", 1, true},
		{"Mid month", 15, true},
		{"Last safe day", 28, true},
		{"Does not exist in February", 29, false},
		{"Zero", 0, false},
		{"Negative", -3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsValidSendOutDay(tt.day)
			if got != tt.expected {
				t.Errorf("IsValidSendOutDay(%d) = %v, want %v", tt.day, got, tt.expected)
			}
		})
	}
}

func TestIsValidTimeOfDay(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected bool
	}{
		{"Evening slot", "19:30", true},
		{"Midnight", "00:00", true},
		{"Last minute", "23:59", true},
		{"Hour out of range", "24:00", false},
		{"Minute out of range", "19:60", false},
		{"Missing minutes", "19", false},
		{"Empty string", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsValidTimeOfDay(tt.value)
			if got != tt.expected {
				t.Errorf("IsValidTimeOfDay(%q) = %v, want %v", tt.value, got, tt.expected)
			}
		})
	}
}

func TestIsValidDate(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected bool
	}{
		{"Valid date", "2026-03-14", true},
		{"Month 13", "2026-13-01", false},
		{"Day 32", "2026-01-32", false},
		{"US format", "03/14/2026", false},
		{"Empty string", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsValidDate(tt.value)
			if got != tt.expected {
				t.Errorf("IsValidDate(%q) = %v, want %v", tt.value, got, tt.expected)
			}
		})
	}
}

func TestIsValidZipAndState(t *testing.T) {
	if !IsValidZip("36830") {
		t.Error("expected 36830 to be a valid zip")
	}
	if IsValidZip("3683") {
		t.Error("expected 4-digit zip to be invalid")
	}
	if !IsValidState("AL") {
		t.Error("expected AL to be a valid state")
	}
	if IsValidState("Alabama") {
		t.Error("expected full state name to be invalid")
	}
}

func TestGetTimeSlotError(t *testing.T) {
	if msg := GetTimeSlotError("19:00", "23:00"); msg != "" {
		t.Errorf("valid slot returned error %q", msg)
	}
	if msg := GetTimeSlotError("7pm", "23:00"); msg == "" {
		t.Error("expected error for non-HH:MM start")
	}
	if msg := GetTimeSlotError("19:00", ""); msg == "" {
		t.Error("expected error for empty end")
	}
}

func TestGetPerformersError(t *testing.T) {
	if msg := GetPerformersError([]string{"Sarah Jennings"}); msg != "" {
		t.Errorf("valid performer list returned error %q", msg)
	}
	if msg := GetPerformersError(nil); msg == "" {
		t.Error("expected error for empty performer list")
	}
	if msg := GetPerformersError([]string{"Sarah Jennings", "  "}); msg == "" {
		t.Error("expected error for blank performer name")
	}
}
