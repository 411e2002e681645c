package models

import (
	"time"
)

// Pick is a user's OVER/UNDER choice against a board projection, independent
// of custom bets. Resolved picks feed the same win/loss counters.
type Pick struct {
	ID             string    `db:"id"`
	UserID         string    `db:"user_id"`
	ProjectionID   string    `db:"projection_id"`
	PickType       PickType  `db:"pick_type"`
	PlayerName     string    `db:"player_name"`
	PlayerImageURL *string   `db:"player_image_url"`
	StatType       string    `db:"stat_type"`
	LineScore      float64   `db:"line_score"`
	Outcome        *Outcome  `db:"outcome"`
	IsResolved     bool      `db:"is_resolved"`
	CreatedAt      time.Time `db:"created_at"`
}

// ResolvedResult is one decided WIN/LOSS entry in a user's history, used to
// walk streaks across standalone picks and custom-bet participations.
type ResolvedResult struct {
	Outcome   Outcome
	DecidedAt time.Time
}
