package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mm-booking-services/common/db"
	"github.com/mm-booking-services/services/client-lambda/models"
)

type ClientRepository struct {
	db *sql.DB
}

func NewClientRepository() *ClientRepository {
	return &ClientRepository{
		db: db.GetDB(),
	}
}

const clientColumns = `client_id, full_name, stage_name, email, phone,
	performers, bio, split_check, created_at`

func scanClient(scanner interface{ Scan(...interface{}) error }) (*models.Client, error) {
	var client models.Client
	var performersJSON []byte
	err := scanner.Scan(
		&client.ClientID, &client.FullName, &client.StageName,
		&client.Email, &client.Phone,
		&performersJSON, &client.Bio, &client.SplitCheck, &client.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(performersJSON) > 0 {
		if err := json.Unmarshal(performersJSON, &client.Performers); err != nil {
			return nil, fmt.Errorf("failed to decode performers: %w", err)
		}
	}
	return &client, nil
}

// GetAllClients loads every client ordered by name.
func (r *ClientRepository) GetAllClients(ctx context.Context) ([]models.Client, error) {
	query := fmt.Sprintf(`SELECT %s FROM Client ORDER BY full_name`, clientColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer rows.Close()

	var clients []models.Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, *client)
	}
	return clients, rows.Err()
}

// GetClientByID loads a single client. Returns nil when no row matches.
func (r *ClientRepository) GetClientByID(ctx context.Context, clientID int) (*models.Client, error) {
	query := fmt.Sprintf(`SELECT %s FROM Client WHERE client_id = ?`, clientColumns)

	client, err := scanClient(r.db.QueryRowContext(ctx, query, clientID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query client: %w", err)
	}
	return client, nil
}

// CreateClient inserts a new client and returns its ID.
func (r *ClientRepository) CreateClient(ctx context.Context, req models.CreateClientRequest) (int64, error) {
	performers, err := json.Marshal(req.Performers)
	if err != nil {
		return 0, fmt.Errorf("failed to encode performers: %w", err)
	}

	query := `INSERT INTO Client (full_name, stage_name, email, phone, performers, bio, split_check)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		req.FullName, nullable(req.StageName), req.Email, nullable(req.Phone),
		performers, nullable(req.Bio), req.SplitCheck)
	if err != nil {
		return 0, fmt.Errorf("failed to create client: %w", err)
	}
	return result.LastInsertId()
}

// UpdateClient rewrites an existing client.
func (r *ClientRepository) UpdateClient(ctx context.Context, req models.UpdateClientRequest) error {
	performers, err := json.Marshal(req.Performers)
	if err != nil {
		return fmt.Errorf("failed to encode performers: %w", err)
	}

	query := `UPDATE Client SET full_name = ?, stage_name = ?, email = ?, phone = ?,
		performers = ?, bio = ?, split_check = ?
		WHERE client_id = ?`

	result, err := r.db.ExecContext(ctx, query,
		req.FullName, nullable(req.StageName), req.Email, nullable(req.Phone),
		performers, nullable(req.Bio), req.SplitCheck, req.ClientID)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
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

// DeleteClient removes a client. Their performing name is first
// written onto every one of their events so already-booked shows keep
// a usable display name.
func (r *ClientRepository) DeleteClient(ctx context.Context, clientID int, label string) error {
	return db.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`UPDATE Event SET client_name = ? WHERE client_id = ?`, label, clientID)
		if err != nil {
			return fmt.Errorf("failed to preserve client name on events: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM Client WHERE client_id = ?`, clientID); err != nil {
			return fmt.Errorf("failed to delete client: %w", err)
		}
		return nil
	})
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
