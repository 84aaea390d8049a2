package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mm-booking-services/common/db"
	"github.com/mm-booking-services/services/games-lambda/models"
)

type GameRepository struct {
	db *sql.DB
}

func NewGameRepository() *GameRepository {
	return &GameRepository{
		db: db.GetDB(),
	}
}

// ReplaceTeamGames swaps a team's schedule for a freshly scraped one
// inside a single transaction, so readers never see a half-written
// schedule.
func (r *GameRepository) ReplaceTeamGames(ctx context.Context, team models.Team, games []models.FootballGame) error {
	return db.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM Football_Game WHERE team = ?`, string(team)); err != nil {
			return fmt.Errorf("failed to clear old schedule: %w", err)
		}

		insert := `INSERT INTO Football_Game (team, opponent, game_date, kickoff, home)
			VALUES (?, ?, ?, ?, ?)`
		for _, game := range games {
			_, err := tx.ExecContext(ctx, insert,
				string(game.Team), game.Opponent, game.Date, game.Kickoff, game.Home)
			if err != nil {
				return fmt.Errorf("failed to insert game: %w", err)
			}
		}
		return nil
	})
}

// GetGamesByTeam loads a team's schedule in date order.
func (r *GameRepository) GetGamesByTeam(ctx context.Context, team models.Team) ([]models.FootballGame, error) {
	query := `SELECT game_id, team, opponent, game_date, kickoff, home, created_at
		FROM Football_Game WHERE team = ? ORDER BY game_date`

	rows, err := r.db.QueryContext(ctx, query, string(team))
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()

	var games []models.FootballGame
	for rows.Next() {
		var game models.FootballGame
		err := rows.Scan(&game.GameID, &game.Team, &game.Opponent,
			&game.Date, &game.Kickoff, &game.Home, &game.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, game)
	}
	return games, rows.Err()
}

// GetGamesInMonth loads all games for any followed team in one month.
func (r *GameRepository) GetGamesInMonth(ctx context.Context, year int, month int) ([]models.FootballGame, error) {
	query := `SELECT game_id, team, opponent, game_date, kickoff, home, created_at
		FROM Football_Game WHERE YEAR(game_date) = ? AND MONTH(game_date) = ? ORDER BY game_date`

	rows, err := r.db.QueryContext(ctx, query, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()

	var games []models.FootballGame
	for rows.Next() {
		var game models.FootballGame
		err := rows.Scan(&game.GameID, &game.Team, &game.Opponent,
			&game.Date, &game.Kickoff, &game.Home, &game.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, game)
	}
	return games, rows.Err()
}
