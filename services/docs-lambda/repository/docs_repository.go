package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mm-booking-services/common/db"
	"github.com/mm-booking-services/services/docs-lambda/models"
)

type DocsRepository struct {
	db *sql.DB
}

func NewDocsRepository() *DocsRepository {
	return &DocsRepository{
		db: db.GetDB(),
	}
}

const eventColumns = `event_id, client_id, venue_id, event_date, month_key,
	start_time, end_time, rate, client_name, confirmation_sent, invoice_sent, created_at`

func scanEvent(scanner interface{ Scan(...interface{}) error }) (*models.Event, error) {
	var event models.Event
	err := scanner.Scan(
		&event.EventID, &event.ClientID, &event.VenueID, &event.Date, &event.MonthKey,
		&event.StartTime, &event.EndTime, &event.Rate, &event.ClientName,
		&event.ConfirmationSent, &event.InvoiceSent, &event.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// GetEventByID loads a single event. Returns nil when no row matches.
func (r *DocsRepository) GetEventByID(ctx context.Context, eventID int) (*models.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM Event WHERE event_id = ?`, eventColumns)

	event, err := scanEvent(r.db.QueryRowContext(ctx, query, eventID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query event: %w", err)
	}
	return event, nil
}

// GetEventsByVenueMonth loads a venue's events for one month, ordered
// by date then start time.
func (r *DocsRepository) GetEventsByVenueMonth(ctx context.Context, venueID int, monthKey string) ([]models.Event, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM Event WHERE venue_id = ? AND month_key = ? ORDER BY event_date, start_time`,
		eventColumns)

	rows, err := r.db.QueryContext(ctx, query, venueID, monthKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, *event)
	}
	return events, rows.Err()
}

// GetVenueByID loads a single venue. Returns nil when no row matches.
func (r *DocsRepository) GetVenueByID(ctx context.Context, venueID int) (*models.Venue, error) {
	query := `SELECT venue_id, venue_name, address, city, state, zip, contact_email, email_list,
		confirmation_day, invoice_day, booking_list_day, calendar_day,
		all_confirmations_sent, all_invoices_sent, booking_list_sent, calendar_sent, created_at
		FROM Venue WHERE venue_id = ?`

	var venue models.Venue
	err := r.db.QueryRowContext(ctx, query, venueID).Scan(
		&venue.VenueID, &venue.VenueName, &venue.Address, &venue.City, &venue.State,
		&venue.Zip, &venue.ContactEmail, &venue.EmailList,
		&venue.ConfirmationDay, &venue.InvoiceDay, &venue.BookingListDay, &venue.CalendarDay,
		&venue.AllConfirmationsSent, &venue.AllInvoicesSent,
		&venue.BookingListSent, &venue.CalendarSent, &venue.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query venue: %w", err)
	}
	return &venue, nil
}

// GetAllVenues loads every venue ordered by name.
func (r *DocsRepository) GetAllVenues(ctx context.Context) ([]models.Venue, error) {
	query := `SELECT venue_id, venue_name, address, city, state, zip, contact_email, email_list,
		confirmation_day, invoice_day, booking_list_day, calendar_day,
		all_confirmations_sent, all_invoices_sent, booking_list_sent, calendar_sent, created_at
		FROM Venue ORDER BY venue_name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query venues: %w", err)
	}
	defer rows.Close()

	var venues []models.Venue
	for rows.Next() {
		var venue models.Venue
		err := rows.Scan(
			&venue.VenueID, &venue.VenueName, &venue.Address, &venue.City, &venue.State,
			&venue.Zip, &venue.ContactEmail, &venue.EmailList,
			&venue.ConfirmationDay, &venue.InvoiceDay, &venue.BookingListDay, &venue.CalendarDay,
			&venue.AllConfirmationsSent, &venue.AllInvoicesSent,
			&venue.BookingListSent, &venue.CalendarSent, &venue.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan venue: %w", err)
		}
		venues = append(venues, venue)
	}
	return venues, rows.Err()
}

// GetClientByID loads a single client. Returns nil when no row
// matches, which callers treat as a removed client.
func (r *DocsRepository) GetClientByID(ctx context.Context, clientID int) (*models.Client, error) {
	query := `SELECT client_id, full_name, stage_name, email, phone, created_at
		FROM Client WHERE client_id = ?`

	var client models.Client
	err := r.db.QueryRowContext(ctx, query, clientID).Scan(
		&client.ClientID, &client.FullName, &client.StageName,
		&client.Email, &client.Phone, &client.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query client: %w", err)
	}
	return &client, nil
}

// StampEventSent records when a per-event document last went out.
func (r *DocsRepository) StampEventSent(ctx context.Context, eventID int, docType models.DocType, sentAt time.Time) error {
	var column string
	switch docType {
	case models.DocTypeConfirmation:
		column = "confirmation_sent"
	case models.DocTypeInvoice:
		column = "invoice_sent"
	default:
		return fmt.Errorf("document type %s is not stamped on events", docType)
	}

	query := fmt.Sprintf(`UPDATE Event SET %s = ? WHERE event_id = ?`, column)
	if _, err := r.db.ExecContext(ctx, query, sentAt, eventID); err != nil {
		return fmt.Errorf("failed to stamp event: %w", err)
	}
	return nil
}

// StampVenueSent records when a document type last went out for a
// venue. For confirmation and invoice this is the venue-wide bulk
// stamp; the per-event stamps live on Event.
func (r *DocsRepository) StampVenueSent(ctx context.Context, venueID int, docType models.DocType, sentAt time.Time) error {
	var column string
	switch docType {
	case models.DocTypeConfirmation:
		column = "all_confirmations_sent"
	case models.DocTypeInvoice:
		column = "all_invoices_sent"
	case models.DocTypeBookingList:
		column = "booking_list_sent"
	case models.DocTypeCalendar:
		column = "calendar_sent"
	default:
		return fmt.Errorf("unknown document type %s", docType)
	}

	query := fmt.Sprintf(`UPDATE Venue SET %s = ? WHERE venue_id = ?`, column)
	if _, err := r.db.ExecContext(ctx, query, sentAt, venueID); err != nil {
		return fmt.Errorf("failed to stamp venue: %w", err)
	}
	return nil
}
