package usecase

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/mm-booking-services/common/errors"
	"github.com/mm-booking-services/common/validator"
	"github.com/mm-booking-services/services/event-lambda/models"
	"github.com/mm-booking-services/services/event-lambda/repository"
)

type EventUseCase struct {
	eventRepo *repository.EventRepository
}

func NewEventUseCase() *EventUseCase {
	return &EventUseCase{
		eventRepo: repository.NewEventRepository(),
	}
}

// DerivedTimes is what CreateEventRequest fields normalize into.
type DerivedTimes struct {
	Date      time.Time
	MonthKey  string
	StartTime string // display form, h:mm AM/PM
	EndTime   string
	// RollsOver is set when the end time lands on the following day.
	RollsOver bool
}

// DeriveEventTimes validates and normalizes the date and time fields
// of an event request. The month key is always derived from the start
// date, even for performances running past midnight.
func DeriveEventTimes(dateStr, startStr, endStr string) (*DerivedTimes, error) {
	if !validator.IsValidDate(dateStr) {
		return nil, apperrors.InvalidInput("date", "date must be YYYY-MM-DD")
	}
	if msg := validator.GetTimeSlotError(startStr, endStr); msg != "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidTimeSlot, msg)
	}

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return nil, apperrors.InvalidInput("date", "date must be YYYY-MM-DD")
	}
	start, _ := time.Parse("15:04", startStr)
	end, _ := time.Parse("15:04", endStr)

	return &DerivedTimes{
		Date:      date,
		MonthKey:  fmt.Sprintf("%04d-%02d", date.Year(), int(date.Month())),
		StartTime: start.Format("3:04 PM"),
		EndTime:   end.Format("3:04 PM"),
		RollsOver: !end.After(start),
	}, nil
}

func (uc *EventUseCase) GetEventByID(ctx context.Context, eventID int) (*models.Event, error) {
	return uc.eventRepo.GetEventByID(ctx, eventID)
}

func (uc *EventUseCase) GetEventsByMonth(ctx context.Context, monthKey string) ([]models.Event, error) {
	return uc.eventRepo.GetEventsByMonth(ctx, monthKey)
}

func (uc *EventUseCase) GetEventsByVenue(ctx context.Context, venueID int) ([]models.Event, error) {
	return uc.eventRepo.GetEventsByVenue(ctx, venueID)
}

// newEventRecord maps request fields and the derived times onto the
// stored row.
func newEventRecord(clientID, venueID int, rate float64, derived *DerivedTimes) models.Event {
	return models.Event{
		ClientID:    clientID,
		VenueID:     venueID,
		Date:        derived.Date,
		MonthKey:    derived.MonthKey,
		StartTime:   derived.StartTime,
		EndTime:     derived.EndTime,
		EndsNextDay: derived.RollsOver,
		Rate:        rate,
	}
}

// CreateEvent validates, derives the stored time fields, and inserts.
func (uc *EventUseCase) CreateEvent(ctx context.Context, req models.CreateEventRequest) (int64, error) {
	derived, err := DeriveEventTimes(req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return 0, err
	}
	return uc.eventRepo.CreateEvent(ctx, newEventRecord(req.ClientID, req.VenueID, req.Rate, derived))
}

// UpdateEvent re-derives the time fields and rewrites the row.
func (uc *EventUseCase) UpdateEvent(ctx context.Context, req models.UpdateEventRequest) error {
	derived, err := DeriveEventTimes(req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return err
	}

	event := newEventRecord(req.ClientID, req.VenueID, req.Rate, derived)
	event.EventID = req.EventID
	return uc.eventRepo.UpdateEvent(ctx, event)
}

func (uc *EventUseCase) DeleteEvent(ctx context.Context, eventID int) error {
	return uc.eventRepo.DeleteEvent(ctx, eventID)
}
