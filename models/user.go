package models

import (
	"time"
)

// User represents a registered user with denormalized win/loss counters.
// Wins and Losses are only ever incremented, and only by the bet lifecycle
// and pick resolution services.
type User struct {
	ID           string    `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Wins         int       `db:"wins"`
	Losses       int       `db:"losses"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// TotalPicks returns the number of decided picks on the user's record
func (u *User) TotalPicks() int {
	return u.Wins + u.Losses
}

// WinRate returns the win percentage 0-100, or 0 when the user has no
// decided picks
func (u *User) WinRate() float64 {
	total := u.TotalPicks()
	if total == 0 {
		return 0
	}
	return float64(u.Wins) / float64(total) * 100
}
