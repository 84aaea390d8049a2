package models

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/mm-booking-services/common/errors"
)

// DocType identifies one of the four generated document types.
type DocType string

const (
	DocTypeConfirmation DocType = "artist_confirmation"
	DocTypeInvoice      DocType = "invoice"
	DocTypeBookingList  DocType = "booking_list"
	DocTypeCalendar     DocType = "calendar"
)

// ParseDocType validates a raw document type string.
func ParseDocType(raw string) (DocType, error) {
	if raw == "" {
		return "", apperrors.MissingDocumentType()
	}
	switch DocType(raw) {
	case DocTypeConfirmation, DocTypeInvoice, DocTypeBookingList, DocTypeCalendar:
		return DocType(raw), nil
	}
	return "", apperrors.InvalidDocumentType(raw)
}

// PerEvent reports whether the type produces one document per booked
// event rather than one per venue per month.
func (t DocType) PerEvent() bool {
	return t == DocTypeConfirmation || t == DocTypeInvoice
}

// Client represents a booked artist
// Maps to MySQL table: Client
type Client struct {
	ClientID  int            `json:"clientId" db:"client_id"`
	FullName  string         `json:"fullName" db:"full_name"`
	StageName sql.NullString `json:"stageName,omitempty" db:"stage_name"`
	Email     string         `json:"email" db:"email"`
	Phone     sql.NullString `json:"phone,omitempty" db:"phone"`
	CreatedAt time.Time      `json:"createdAt" db:"created_at"`
}

// Label is the name a client performs under.
func (c *Client) Label() string {
	if c.StageName.Valid && c.StageName.String != "" {
		return c.StageName.String
	}
	return c.FullName
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

// ContactEmails returns the primary contact plus any auxiliary
// addresses from the venue's email list.
func (v *Venue) ContactEmails() []string {
	var emails []string
	if v.ContactEmail != "" {
		emails = append(emails, v.ContactEmail)
	}
	if v.EmailList.Valid {
		for _, addr := range strings.Split(v.EmailList.String, ",") {
			addr = strings.TrimSpace(addr)
			if addr != "" {
				emails = append(emails, addr)
			}
		}
	}
	return emails
}

// SendOutDay returns the configured day of month for a document type,
// 0 when the venue does not receive that type.
func (v *Venue) SendOutDay(t DocType) int {
	switch t {
	case DocTypeConfirmation:
		return v.ConfirmationDay
	case DocTypeInvoice:
		return v.InvoiceDay
	case DocTypeBookingList:
		return v.BookingListDay
	case DocTypeCalendar:
		return v.CalendarDay
	}
	return 0
}

// Event represents a booked performance
// Maps to MySQL table: Event
type Event struct {
	EventID  int       `json:"eventId" db:"event_id"`
	ClientID int       `json:"clientId" db:"client_id"`
	VenueID  int       `json:"venueId" db:"venue_id"`
	Date     time.Time `json:"date" db:"event_date"`
	// MonthKey is always "YYYY-MM" with a zero padded month.
	MonthKey  string  `json:"monthKey" db:"month_key"`
	StartTime string  `json:"startTime" db:"start_time"` // h:mm AM/PM
	EndTime   string  `json:"endTime" db:"end_time"`
	Rate      float64 `json:"rate" db:"rate"`

	// Preserved display name for events whose client was removed.
	ClientName sql.NullString `json:"clientName,omitempty" db:"client_name"`

	ConfirmationSent sql.NullTime `json:"confirmationSent,omitempty" db:"confirmation_sent"`
	InvoiceSent      sql.NullTime `json:"invoiceSent,omitempty" db:"invoice_sent"`
	CreatedAt        time.Time    `json:"createdAt" db:"created_at"`
}

// PerformerLabel resolves the display name for an event. A nil client
// falls back to the name preserved on the event itself.
func (e *Event) PerformerLabel(client *Client) string {
	if client != nil {
		return client.Label()
	}
	if e.ClientName.Valid && e.ClientName.String != "" {
		return e.ClientName.String
	}
	return "Unknown Artist"
}

// RateString formats the event rate as a dollar amount.
func (e *Event) RateString() string {
	return fmt.Sprintf("$%.2f", e.Rate)
}

// MonthKey formats a year and month as the canonical "YYYY-MM" key.
func MonthKey(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

// NextMonth gives the year and month immediately following now,
// normalized across December.
func NextMonth(now time.Time) (int, time.Month) {
	next := time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, now.Location())
	return next.Year(), next.Month()
}

// JobRequest describes one document generation job.
type JobRequest struct {
	Type    DocType
	EventID int // per-event types
	VenueID int // monthly types
	Year    int
	Month   time.Month
}

// SendOneRequest is the body of POST /api/documents/send-one.
type SendOneRequest struct {
	Type    string `json:"type"`
	EventID int    `json:"eventId,omitempty"`
	VenueID int    `json:"venueId,omitempty"`
	Year    int    `json:"year,omitempty"`
	Month   int    `json:"month,omitempty"` // 1-12
}

// SendAllRequest is the body of POST /api/documents/send-all. Bulk
// sends are scoped to one venue and cover per-event types only.
type SendAllRequest struct {
	Type    string `json:"type"`
	VenueID int    `json:"venueId"`
	Year    int    `json:"year,omitempty"`
	Month   int    `json:"month,omitempty"`
}
