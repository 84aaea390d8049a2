package models

import "time"

// Operator is a back-office account. In practice there is one ADMIN
// operator (the booking agent), but the table supports more.
type Operator struct {
	OperatorID int       `json:"operatorId" db:"operator_id"`
	Email      string    `json:"email" db:"email"`
	Password   string    `json:"-" db:"password"`
	Role       string    `json:"role" db:"role"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// LoginRequest represents a login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the signed token back to the UI
type LoginResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
