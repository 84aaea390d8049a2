package models

import (
	"database/sql"
	"time"
)

// Client represents a booked artist
// Maps to MySQL table: Client
type Client struct {
	ClientID  int            `json:"clientId" db:"client_id"`
	FullName  string         `json:"fullName" db:"full_name"`
	StageName sql.NullString `json:"stageName,omitempty" db:"stage_name"`
	Email     string         `json:"email" db:"email"`
	Phone     sql.NullString `json:"phone,omitempty" db:"phone"`

	// Performers are the individual names behind the stage name,
	// stored as a JSON array in the performers column.
	Performers []string       `json:"performers" db:"performers"`
	Bio        sql.NullString `json:"bio,omitempty" db:"bio"`
	SplitCheck bool           `json:"splitCheck" db:"split_check"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Label is the name the client performs under.
func (c *Client) Label() string {
	if c.StageName.Valid && c.StageName.String != "" {
		return c.StageName.String
	}
	return c.FullName
}

// CreateClientRequest is the body of POST /api/clients.
type CreateClientRequest struct {
	FullName   string   `json:"fullName"`
	StageName  string   `json:"stageName,omitempty"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone,omitempty"`
	Performers []string `json:"performers"`
	Bio        string   `json:"bio,omitempty"`
	SplitCheck bool     `json:"splitCheck,omitempty"`
}

// UpdateClientRequest is the body of PUT /api/clients.
type UpdateClientRequest struct {
	ClientID   int      `json:"clientId"`
	FullName   string   `json:"fullName"`
	StageName  string   `json:"stageName,omitempty"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone,omitempty"`
	Performers []string `json:"performers"`
	Bio        string   `json:"bio,omitempty"`
	SplitCheck bool     `json:"splitCheck,omitempty"`
}
