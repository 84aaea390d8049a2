package usecase

import (
	"context"

	apperrors "github.com/mm-booking-services/common/errors"
	"github.com/mm-booking-services/common/hash"
	"github.com/mm-booking-services/common/jwt"
	"github.com/mm-booking-services/services/auth-lambda/models"
	"github.com/mm-booking-services/services/auth-lambda/repository"
)

// AuthUseCase handles operator authentication
type AuthUseCase struct {
	repo *repository.OperatorRepository
}

// NewAuthUseCase creates a new auth use case
func NewAuthUseCase() *AuthUseCase {
	return &AuthUseCase{repo: repository.NewOperatorRepository()}
}

// Login verifies the credentials and mints a signed token. Unknown email
// and wrong password produce the same error so the response does not leak
// which accounts exist.
func (uc *AuthUseCase) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, apperrors.MissingField("email and password")
	}

	op, err := uc.repo.GetOperatorByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	if op == nil || !hash.VerifyPassword(req.Password, op.Password) {
		return nil, apperrors.Unauthorized("invalid email or password")
	}

	token, err := jwt.GenerateToken(op.Email, op.Role)
	if err != nil {
		return nil, apperrors.Internal("could not sign token")
	}

	return &models.LoginResponse{
		Token: token,
		Email: op.Email,
		Role:  op.Role,
	}, nil
}
