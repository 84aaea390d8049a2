package models

import "time"

// Team is a followed college football program.
type Team string

const (
	TeamAuburn  Team = "auburn"
	TeamAlabama Team = "alabama"
)

// Teams lists every followed program.
func Teams() []Team {
	return []Team{TeamAuburn, TeamAlabama}
}

// FootballGame is one scheduled game
// Maps to MySQL table: Football_Game
type FootballGame struct {
	GameID   int       `json:"gameId" db:"game_id"`
	Team     Team      `json:"team" db:"team"`
	Opponent string    `json:"opponent" db:"opponent"`
	Date     time.Time `json:"date" db:"game_date"`
	// Kickoff is "h:mm AM/PM", or "TBD" when not yet announced, or
	// empty for games already played.
	Kickoff   string    `json:"kickoff" db:"kickoff"`
	Home      bool      `json:"home" db:"home"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
