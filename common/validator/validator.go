package validator

import (
	"regexp"
	"strings"
)

// Regex patterns
var (
	// Email pattern - RFC 5322 simplified
	EmailPattern = regexp.MustCompile(`^[a-zA-Z0-9_+&*-]+(?:\.[a-zA-Z0-9_+&*-]+)*@(?:[a-zA-Z0-9-]+\.)+[a-zA-Z]{2,7}$`)

	// Time-of-day pattern: HH:MM, 24-hour
	TimeOfDayPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

	// Date pattern: YYYY-MM-DD
	DatePattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])-(0[1-9]|[12]\d|3[01])$`)

	// US state: 2-letter notation (AL, GA, ...)
	StatePattern = regexp.MustCompile(`^[A-Z]{2}$`)

	// Zip: 5-digit notation
	ZipPattern = regexp.MustCompile(`^\d{5}$`)
)

// IsValidEmail validates email format
func IsValidEmail(email string) bool {
	if email == "" {
		return false
	}
	return EmailPattern.MatchString(strings.TrimSpace(email))
}

// IsValidSendOutDay validates a venue send-out-day threshold.
// Days must stay within [1,28] so the threshold exists in every month.
func IsValidSendOutDay(day int) bool {
	return day >= 1 && day <= 28
}

// IsValidTimeOfDay validates an HH:MM time string
func IsValidTimeOfDay(t string) bool {
	if t == "" {
		return false
	}
	return TimeOfDayPattern.MatchString(strings.TrimSpace(t))
}

// IsValidDate validates a YYYY-MM-DD date string
func IsValidDate(d string) bool {
	if d == "" {
		return false
	}
	return DatePattern.MatchString(strings.TrimSpace(d))
}

// IsValidState validates a 2-letter US state abbreviation
func IsValidState(state string) bool {
	return StatePattern.MatchString(strings.TrimSpace(state))
}

// IsValidZip validates a 5-digit zip code
func IsValidZip(zip string) bool {
	return ZipPattern.MatchString(strings.TrimSpace(zip))
}

// GetEmailError returns a user-friendly error message for email
func GetEmailError(email string) string {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return "Email must not be empty"
	}
	if !IsValidEmail(trimmed) {
		return "Email is invalid. Example: band@example.com"
	}
	return ""
}

// GetPerformersError validates a client's performer name list. A
// valid client always lists at least one performer.
func GetPerformersError(performers []string) string {
	if len(performers) == 0 {
		return "At least one performer name is required"
	}
	for _, name := range performers {
		if strings.TrimSpace(name) == "" {
			return "Performer names must not be blank"
		}
	}
	return ""
}

// GetTimeSlotError validates a preset time slot pair
func GetTimeSlotError(start, end string) string {
	if !IsValidTimeOfDay(start) {
		return "Slot start must be HH:MM"
	}
	if !IsValidTimeOfDay(end) {
		return "Slot end must be HH:MM"
	}
	return ""
}
