package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mm-booking-services/common/db"
	"github.com/mm-booking-services/services/event-lambda/models"
)

type EventRepository struct {
	db *sql.DB
}

func NewEventRepository() *EventRepository {
	return &EventRepository{
		db: db.GetDB(),
	}
}

const eventColumns = `event_id, client_id, venue_id, event_date, month_key,
	start_time, end_time, ends_next_day, rate, client_name, confirmation_sent, invoice_sent, created_at`

func scanEvent(scanner interface{ Scan(...interface{}) error }) (*models.Event, error) {
	var event models.Event
	err := scanner.Scan(
		&event.EventID, &event.ClientID, &event.VenueID, &event.Date, &event.MonthKey,
		&event.StartTime, &event.EndTime, &event.EndsNextDay, &event.Rate, &event.ClientName,
		&event.ConfirmationSent, &event.InvoiceSent, &event.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// GetEventByID loads a single event. Returns nil when no row matches.
func (r *EventRepository) GetEventByID(ctx context.Context, eventID int) (*models.Event, error) {
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

// GetEventsByMonth loads every event in one month across all venues.
func (r *EventRepository) GetEventsByMonth(ctx context.Context, monthKey string) ([]models.Event, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM Event WHERE month_key = ? ORDER BY event_date, start_time`, eventColumns)
	return r.queryEvents(ctx, query, monthKey)
}

// GetEventsByVenue loads a venue's events in date order.
func (r *EventRepository) GetEventsByVenue(ctx context.Context, venueID int) ([]models.Event, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM Event WHERE venue_id = ? ORDER BY event_date, start_time`, eventColumns)
	return r.queryEvents(ctx, query, venueID)
}

func (r *EventRepository) queryEvents(ctx context.Context, query string, args ...interface{}) ([]models.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
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

// CreateEvent inserts a new event and returns its ID.
func (r *EventRepository) CreateEvent(ctx context.Context, event models.Event) (int64, error) {
	query := `INSERT INTO Event (client_id, venue_id, event_date, month_key, start_time, end_time, ends_next_day, rate)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		event.ClientID, event.VenueID, event.Date, event.MonthKey,
		event.StartTime, event.EndTime, event.EndsNextDay, event.Rate)
	if err != nil {
		return 0, fmt.Errorf("failed to create event: %w", err)
	}
	return result.LastInsertId()
}

// UpdateEvent rewrites the booking fields of an existing event. The
// sent timestamps are deliberately untouched.
func (r *EventRepository) UpdateEvent(ctx context.Context, event models.Event) error {
	query := `UPDATE Event SET client_id = ?, venue_id = ?, event_date = ?, month_key = ?,
		start_time = ?, end_time = ?, ends_next_day = ?, rate = ? WHERE event_id = ?`

	result, err := r.db.ExecContext(ctx, query,
		event.ClientID, event.VenueID, event.Date, event.MonthKey,
		event.StartTime, event.EndTime, event.EndsNextDay, event.Rate, event.EventID)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
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

// DeleteEvent removes an event.
func (r *EventRepository) DeleteEvent(ctx context.Context, eventID int) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM Event WHERE event_id = ?`, eventID); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}
