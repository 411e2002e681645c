package testutil

import (
	"fmt"

	"propbets/models"
)

// CreateTestUserFields returns registration fields for a test user. The
// password hash is a throwaway bcrypt digest of "password".
func CreateTestUserFields(n int) (username, email, passwordHash string) {
	username = fmt.Sprintf("user%d", n)
	email = fmt.Sprintf("user%d@example.com", n)
	passwordHash = "$2a$04$C6UzMDM.H6dfI/f/IKcEeO5XfKq0yWc6ndLabsNBKq2cpHp0a8R3e"
	return
}

// CreateTestBet creates a bet proposal with default values
func CreateTestBet(creatorID string) *models.CustomBet {
	return &models.CustomBet{
		CreatorID:       creatorID,
		Player:          "Stephen Curry",
		Stat:            "3-PT Made",
		Line:            4.5,
		CreatorPickType: models.PickTypeOver,
	}
}

// CreateTestPick creates a standalone pick with default values
func CreateTestPick(userID, projectionID string) *models.Pick {
	return &models.Pick{
		UserID:       userID,
		ProjectionID: projectionID,
		PickType:     models.PickTypeOver,
		PlayerName:   "Stephen Curry",
		StatType:     "Points",
		LineScore:    28.5,
	}
}
