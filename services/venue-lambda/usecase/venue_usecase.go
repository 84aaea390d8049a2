package usecase

import (
	"context"

	apperrors "github.com/mm-booking-services/common/errors"
	"github.com/mm-booking-services/common/validator"
	"github.com/mm-booking-services/services/venue-lambda/models"
	"github.com/mm-booking-services/services/venue-lambda/repository"
)

type VenueUseCase struct {
	venueRepo *repository.VenueRepository
}

func NewVenueUseCase() *VenueUseCase {
	return &VenueUseCase{
		venueRepo: repository.NewVenueRepository(),
	}
}

func (uc *VenueUseCase) GetAllVenues(ctx context.Context) ([]models.Venue, error) {
	return uc.venueRepo.GetAllVenues(ctx)
}

func (uc *VenueUseCase) GetVenueByID(ctx context.Context, venueID int) (*models.Venue, error) {
	return uc.venueRepo.GetVenueByID(ctx, venueID)
}

func (uc *VenueUseCase) CreateVenue(ctx context.Context, req models.CreateVenueRequest) (int64, error) {
	if err := validateVenueFields(req.ContactEmail, req.State, req.Zip, req.SendOutDays(), req.TimeSlots); err != nil {
		return 0, err
	}
	return uc.venueRepo.CreateVenue(ctx, req)
}

func (uc *VenueUseCase) UpdateVenue(ctx context.Context, req models.UpdateVenueRequest) error {
	if err := validateVenueFields(req.ContactEmail, req.State, req.Zip, req.SendOutDays(), req.TimeSlots); err != nil {
		return err
	}
	return uc.venueRepo.UpdateVenue(ctx, req)
}

// DeleteVenue removes a venue and, with it, every event booked there.
func (uc *VenueUseCase) DeleteVenue(ctx context.Context, venueID int) error {
	venue, err := uc.venueRepo.GetVenueByID(ctx, venueID)
	if err != nil {
		return err
	}
	if venue == nil {
		return apperrors.NotFound("venue")
	}
	return uc.venueRepo.DeleteVenue(ctx, venueID)
}

// validateVenueFields checks the shared fields of create and update
// requests. A send-out day of 0 disables that document type for the
// venue; anything else must land on days 1-28 so every month has the
// day.
func validateVenueFields(email, state, zip string, days map[string]int, slots []models.TimeSlot) error {
	if msg := validator.GetEmailError(email); msg != "" {
		return apperrors.New(apperrors.ErrCodeInvalidEmail, msg)
	}
	if state != "" && !validator.IsValidState(state) {
		return apperrors.InvalidInput("state", "state must be a two letter code")
	}
	if zip != "" && !validator.IsValidZip(zip) {
		return apperrors.InvalidInput("zip", "zip must be 5 digits")
	}

	for field, day := range days {
		if day == 0 {
			continue
		}
		if !validator.IsValidSendOutDay(day) {
			return apperrors.InvalidSendOutDay(day).WithField("field", field)
		}
	}

	for _, slot := range slots {
		if msg := validator.GetTimeSlotError(slot.Start, slot.End); msg != "" {
			return apperrors.New(apperrors.ErrCodeInvalidTimeSlot, msg)
		}
	}
	return nil
}
