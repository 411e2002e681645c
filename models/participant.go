package models

import (
	"time"
)

// Participant records one user's side and personal outcome for a custom bet.
// At most one row exists per (bet, user) pair, enforced by a uniqueness
// constraint. A bet that has reached ACCEPTED or COMPLETED always has exactly
// two rows with opposite pick types.
type Participant struct {
	ID       string    `db:"id"`
	BetID    string    `db:"bet_id"`
	UserID   string    `db:"user_id"`
	Username string    `db:"-"` // joined from users on read paths
	PickType PickType  `db:"pick_type"`
	Outcome  *Outcome  `db:"outcome"`
	JoinedAt time.Time `db:"joined_at"`
}
