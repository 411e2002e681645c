package models

// JoinResult is the immediate result of joining a bet: the joiner's assigned
// side and the outcome of the synchronous resolution that follows.
type JoinResult struct {
	Bet         *CustomBet
	YourPick    PickType
	CreatorPick PickType
	Outcome     Outcome
	YourResult  Outcome
}

// ResolveResult is the result of an explicit resolve call on an ACCEPTED bet
type ResolveResult struct {
	Outcome           Outcome
	ParticipantsCount int
}

// ResolveAllResult summarizes a batch resolution over a user's open picks
type ResolveAllResult struct {
	Processed int
	Wins      int
	Losses    int
}
