package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mm-booking-services/common/db"
	"github.com/mm-booking-services/services/venue-lambda/models"
)

type VenueRepository struct {
	db *sql.DB
}

func NewVenueRepository() *VenueRepository {
	return &VenueRepository{
		db: db.GetDB(),
	}
}

const venueColumns = `venue_id, venue_name, address, city, state, zip, contact_email, email_list,
	time_slots, confirmation_day, invoice_day, booking_list_day, calendar_day,
	all_confirmations_sent, all_invoices_sent, booking_list_sent, calendar_sent, created_at`

func scanVenue(scanner interface{ Scan(...interface{}) error }) (*models.Venue, error) {
	var venue models.Venue
	var slotsJSON []byte
	err := scanner.Scan(
		&venue.VenueID, &venue.VenueName, &venue.Address, &venue.City, &venue.State,
		&venue.Zip, &venue.ContactEmail, &venue.EmailList,
		&slotsJSON, &venue.ConfirmationDay, &venue.InvoiceDay, &venue.BookingListDay, &venue.CalendarDay,
		&venue.AllConfirmationsSent, &venue.AllInvoicesSent,
		&venue.BookingListSent, &venue.CalendarSent, &venue.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(slotsJSON) > 0 {
		if err := json.Unmarshal(slotsJSON, &venue.TimeSlots); err != nil {
			return nil, fmt.Errorf("failed to decode time slots: %w", err)
		}
	}
	return &venue, nil
}

// GetAllVenues loads every venue ordered by name.
func (r *VenueRepository) GetAllVenues(ctx context.Context) ([]models.Venue, error) {
	query := fmt.Sprintf(`SELECT %s FROM Venue ORDER BY venue_name`, venueColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query venues: %w", err)
	}
	defer rows.Close()

	var venues []models.Venue
	for rows.Next() {
		venue, err := scanVenue(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan venue: %w", err)
		}
		venues = append(venues, *venue)
	}
	return venues, rows.Err()
}

// GetVenueByID loads a single venue. Returns nil when no row matches.
func (r *VenueRepository) GetVenueByID(ctx context.Context, venueID int) (*models.Venue, error) {
	query := fmt.Sprintf(`SELECT %s FROM Venue WHERE venue_id = ?`, venueColumns)

	venue, err := scanVenue(r.db.QueryRowContext(ctx, query, venueID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query venue: %w", err)
	}
	return venue, nil
}

// CreateVenue inserts a new venue and returns its ID.
func (r *VenueRepository) CreateVenue(ctx context.Context, req models.CreateVenueRequest) (int64, error) {
	slots, err := json.Marshal(req.TimeSlots)
	if err != nil {
		return 0, fmt.Errorf("failed to encode time slots: %w", err)
	}

	query := `INSERT INTO Venue (venue_name, address, city, state, zip, contact_email, email_list,
		time_slots, confirmation_day, invoice_day, booking_list_day, calendar_day)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		req.VenueName, req.Address, req.City, req.State, req.Zip,
		req.ContactEmail, nullable(req.EmailList), slots,
		req.ConfirmationDay, req.InvoiceDay, req.BookingListDay, req.CalendarDay)
	if err != nil {
		return 0, fmt.Errorf("failed to create venue: %w", err)
	}
	return result.LastInsertId()
}

// UpdateVenue rewrites an existing venue. The sent stamps are
// deliberately untouched.
func (r *VenueRepository) UpdateVenue(ctx context.Context, req models.UpdateVenueRequest) error {
	slots, err := json.Marshal(req.TimeSlots)
	if err != nil {
		return fmt.Errorf("failed to encode time slots: %w", err)
	}

	query := `UPDATE Venue SET venue_name = ?, address = ?, city = ?, state = ?, zip = ?,
		contact_email = ?, email_list = ?, time_slots = ?,
		confirmation_day = ?, invoice_day = ?, booking_list_day = ?, calendar_day = ?
		WHERE venue_id = ?`

	result, err := r.db.ExecContext(ctx, query,
		req.VenueName, req.Address, req.City, req.State, req.Zip,
		req.ContactEmail, nullable(req.EmailList), slots,
		req.ConfirmationDay, req.InvoiceDay, req.BookingListDay, req.CalendarDay,
		req.VenueID)
	if err != nil {
		return fmt.Errorf("failed to update venue: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteVenue removes a venue and every event booked there, in one
// transaction.
func (r *VenueRepository) DeleteVenue(ctx context.Context, venueID int) error {
	return db.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM Event WHERE venue_id = ?`, venueID); err != nil {
			return fmt.Errorf("failed to delete venue events: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM Venue WHERE venue_id = ?`, venueID); err != nil {
			return fmt.Errorf("failed to delete venue: %w", err)
		}
		return nil
	})
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
