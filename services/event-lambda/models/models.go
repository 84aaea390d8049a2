package models

import (
	"database/sql"
	"time"
)

// Event represents a booked performance
// Maps to MySQL table: Event
type Event struct {
	EventID   int       `json:"eventId" db:"event_id"`
	ClientID  int       `json:"clientId" db:"client_id"`
	VenueID   int       `json:"venueId" db:"venue_id"`
	Date      time.Time `json:"date" db:"event_date"`
	MonthKey  string    `json:"monthKey" db:"month_key"`
	StartTime string    `json:"startTime" db:"start_time"` // h:mm AM/PM
	EndTime   string    `json:"endTime" db:"end_time"`
	// EndsNextDay flags performances that run past midnight, so the
	// end time lands on the day after Date.
	EndsNextDay bool    `json:"endsNextDay" db:"ends_next_day"`
	Rate        float64 `json:"rate" db:"rate"`

	ClientName sql.NullString `json:"clientName,omitempty" db:"client_name"`

	ConfirmationSent sql.NullTime `json:"confirmationSent,omitempty" db:"confirmation_sent"`
	InvoiceSent      sql.NullTime `json:"invoiceSent,omitempty" db:"invoice_sent"`
	CreatedAt        time.Time    `json:"createdAt" db:"created_at"`
}

// CreateEventRequest is the body of POST /api/events.
// Times are 24-hour "HH:MM"; an end time earlier than the start time
// means the performance runs past midnight.
type CreateEventRequest struct {
	ClientID  int     `json:"clientId"`
	VenueID   int     `json:"venueId"`
	Date      string  `json:"date"` // YYYY-MM-DD
	StartTime string  `json:"startTime"`
	EndTime   string  `json:"endTime"`
	Rate      float64 `json:"rate"`
}

// UpdateEventRequest is the body of PUT /api/events.
type UpdateEventRequest struct {
	EventID   int     `json:"eventId"`
	ClientID  int     `json:"clientId"`
	VenueID   int     `json:"venueId"`
	Date      string  `json:"date"`
	StartTime string  `json:"startTime"`
	EndTime   string  `json:"endTime"`
	Rate      float64 `json:"rate"`
}
