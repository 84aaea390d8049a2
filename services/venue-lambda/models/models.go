package models

import (
	"database/sql"
	"time"
)

// TimeSlot is one preset start/end pair a venue books events in.
// Times are HH:MM, 24-hour.
type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Venue represents a booking venue
// Maps to MySQL table: Venue
type Venue struct {
	VenueID      int            `json:"venueId" db:"venue_id"`
	VenueName    string         `json:"venueName" db:"venue_name"`
	Address      string         `json:"address" db:"address"`
	City         string         `json:"city" db:"city"`
	State        string         `json:"state" db:"state"`
	Zip          string         `json:"zip" db:"zip"`
	ContactEmail string         `json:"contactEmail" db:"contact_email"`
	EmailList    sql.NullString `json:"emailList,omitempty" db:"email_list"`

	// Stored as a JSON array in the time_slots column.
	TimeSlots []TimeSlot `json:"timeSlots" db:"time_slots"`

	// Day of month (1-28) each document type goes out, 0 = disabled.
	ConfirmationDay int `json:"confirmationDay" db:"confirmation_day"`
	InvoiceDay      int `json:"invoiceDay" db:"invoice_day"`
	BookingListDay  int `json:"bookingListDay" db:"booking_list_day"`
	CalendarDay     int `json:"calendarDay" db:"calendar_day"`

	// Last-sent stamps. The confirmation and invoice stamps track the
	// venue-wide bulk send, not individual events.
	AllConfirmationsSent sql.NullTime `json:"allConfirmationsSent,omitempty" db:"all_confirmations_sent"`
	AllInvoicesSent      sql.NullTime `json:"allInvoicesSent,omitempty" db:"all_invoices_sent"`
	BookingListSent      sql.NullTime `json:"bookingListSent,omitempty" db:"booking_list_sent"`
	CalendarSent         sql.NullTime `json:"calendarSent,omitempty" db:"calendar_sent"`
	CreatedAt            time.Time    `json:"createdAt" db:"created_at"`
}

// CreateVenueRequest is the body of POST /api/venues.
type CreateVenueRequest struct {
	VenueName    string     `json:"venueName"`
	Address      string     `json:"address"`
	City         string     `json:"city"`
	State        string     `json:"state"`
	Zip          string     `json:"zip"`
	ContactEmail string     `json:"contactEmail"`
	EmailList    string     `json:"emailList,omitempty"`
	TimeSlots    []TimeSlot `json:"timeSlots,omitempty"`

	ConfirmationDay int `json:"confirmationDay"`
	InvoiceDay      int `json:"invoiceDay"`
	BookingListDay  int `json:"bookingListDay"`
	CalendarDay     int `json:"calendarDay"`
}

// UpdateVenueRequest is the body of PUT /api/venues.
type UpdateVenueRequest struct {
	VenueID      int        `json:"venueId"`
	VenueName    string     `json:"venueName"`
	Address      string     `json:"address"`
	City         string     `json:"city"`
	State        string     `json:"state"`
	Zip          string     `json:"zip"`
	ContactEmail string     `json:"contactEmail"`
	EmailList    string     `json:"emailList,omitempty"`
	TimeSlots    []TimeSlot `json:"timeSlots,omitempty"`

	ConfirmationDay int `json:"confirmationDay"`
	InvoiceDay      int `json:"invoiceDay"`
	BookingListDay  int `json:"bookingListDay"`
	CalendarDay     int `json:"calendarDay"`
}

// SendOutDays collects the four thresholds of a request for
// validation.
func (r *CreateVenueRequest) SendOutDays() map[string]int {
	return map[string]int{
		"confirmationDay": r.ConfirmationDay,
		"invoiceDay":      r.InvoiceDay,
		"bookingListDay":  r.BookingListDay,
		"calendarDay":     r.CalendarDay,
	}
}

// SendOutDays collects the four thresholds of a request for
// validation.
func (r *UpdateVenueRequest) SendOutDays() map[string]int {
	return map[string]int{
		"confirmationDay": r.ConfirmationDay,
		"invoiceDay":      r.InvoiceDay,
		"bookingListDay":  r.BookingListDay,
		"calendarDay":     r.CalendarDay,
	}
}
