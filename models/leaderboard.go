package models

// LeaderboardSort selects the primary ordering key for the leaderboard.
type LeaderboardSort string

const (
	SortByWinRate    LeaderboardSort = "win_rate"
	SortByStreak     LeaderboardSort = "streak"
	SortByTotalPicks LeaderboardSort = "total_picks"
	SortByTotalWins  LeaderboardSort = "total_wins"
)

// ParseLeaderboardSort maps a raw query value onto a sort key, defaulting to
// win rate for unknown values.
func ParseLeaderboardSort(s string) LeaderboardSort {
	switch LeaderboardSort(s) {
	case SortByStreak, SortByTotalPicks, SortByTotalWins:
		return LeaderboardSort(s)
	default:
		return SortByWinRate
	}
}

// LeaderboardEntry represents a user's row in the leaderboard
type LeaderboardEntry struct {
	Rank       int     `json:"rank"`
	UserID     string  `json:"id"`
	Username   string  `json:"username"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	TotalPicks int     `json:"totalPicks"`
	WinRate    float64 `json:"winRate"` // percentage 0-100
	Streak     int     `json:"streak"`
}
