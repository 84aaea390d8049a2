package repository

import (
	"context"
	"database/sql"

	"github.com/mm-booking-services/common/db"
	"github.com/mm-booking-services/services/auth-lambda/models"
)

// OperatorRepository handles operator account queries
type OperatorRepository struct {
	db *sql.DB
}

// NewOperatorRepository creates a new operator repository
func NewOperatorRepository() *OperatorRepository {
	return &OperatorRepository{db: db.GetDB()}
}

// GetOperatorByEmail returns the operator with the given email, or nil if
// no such account exists.
func (r *OperatorRepository) GetOperatorByEmail(ctx context.Context, email string) (*models.Operator, error) {
	query := `
		SELECT operator_id, email, password, role, created_at
		FROM Operator
		WHERE email = ?
	`

	var op models.Operator
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&op.OperatorID,
		&op.Email,
		&op.Password,
		&op.Role,
		&op.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &op, nil
}
