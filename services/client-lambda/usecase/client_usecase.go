package usecase

import (
	"context"

	apperrors "github.com/mm-booking-services/common/errors"
	"github.com/mm-booking-services/common/validator"
	"github.com/mm-booking-services/services/client-lambda/models"
	"github.com/mm-booking-services/services/client-lambda/repository"
)

type ClientUseCase struct {
	clientRepo *repository.ClientRepository
}

func NewClientUseCase() *ClientUseCase {
	return &ClientUseCase{
		clientRepo: repository.NewClientRepository(),
	}
}

func (uc *ClientUseCase) GetAllClients(ctx context.Context) ([]models.Client, error) {
	return uc.clientRepo.GetAllClients(ctx)
}

func (uc *ClientUseCase) GetClientByID(ctx context.Context, clientID int) (*models.Client, error) {
	return uc.clientRepo.GetClientByID(ctx, clientID)
}

func (uc *ClientUseCase) CreateClient(ctx context.Context, req models.CreateClientRequest) (int64, error) {
	if msg := validator.GetEmailError(req.Email); msg != "" {
		return 0, apperrors.New(apperrors.ErrCodeInvalidEmail, msg)
	}
	if msg := validator.GetPerformersError(req.Performers); msg != "" {
		return 0, apperrors.ValidationError(msg)
	}
	return uc.clientRepo.CreateClient(ctx, req)
}

func (uc *ClientUseCase) UpdateClient(ctx context.Context, req models.UpdateClientRequest) error {
	if msg := validator.GetEmailError(req.Email); msg != "" {
		return apperrors.New(apperrors.ErrCodeInvalidEmail, msg)
	}
	if msg := validator.GetPerformersError(req.Performers); msg != "" {
		return apperrors.ValidationError(msg)
	}
	return uc.clientRepo.UpdateClient(ctx, req)
}

// DeleteClient removes a client after stamping their performing name
// onto their booked events, so documents for those events still show
// who plays.
func (uc *ClientUseCase) DeleteClient(ctx context.Context, clientID int) error {
	client, err := uc.clientRepo.GetClientByID(ctx, clientID)
	if err != nil {
		return err
	}
	if client == nil {
		return apperrors.NotFound("client")
	}
	return uc.clientRepo.DeleteClient(ctx, clientID, client.Label())
}
