package models

// Projection is a third-party-sourced player statistic line that users pick
// OVER/UNDER on. Projections are never persisted; they live in the
// read-through board cache.
type Projection struct {
	ID             string    `json:"id"`
	PlayerID       string    `json:"playerId"`
	PlayerName     string    `json:"playerName"`
	PlayerImageURL *string   `json:"playerImageUrl"`
	StatType       string    `json:"statType"`
	LineScore      float64   `json:"lineScore"`
	Pick           *PickType `json:"pick,omitempty"` // requesting user's existing pick
}
