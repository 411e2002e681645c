package models

import (
	"time"
)

// BetStatus represents the lifecycle state of a custom bet
type BetStatus string

const (
	BetStatusPending   BetStatus = "PENDING"
	BetStatusAccepted  BetStatus = "ACCEPTED"
	BetStatusDeclined  BetStatus = "DECLINED"
	BetStatusCompleted BetStatus = "COMPLETED"
)

// CustomBet represents a head-to-head proposition challenge between a creator
// and exactly one joiner. CreatorPickType never changes after creation.
type CustomBet struct {
	ID              string    `db:"id"`
	CreatorID       string    `db:"creator_id"`
	Player          string    `db:"player"`
	Stat            string    `db:"stat"`
	Line            float64   `db:"line"`
	CreatorPickType PickType  `db:"creator_pick_type"`
	Status          BetStatus `db:"status"`
	Outcome         *Outcome  `db:"outcome"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// CanBeJoined checks if the bet is still open for a second participant
func (b *CustomBet) CanBeJoined() bool {
	return b.Status == BetStatusPending
}

// CanBeDeclined checks if the bet can still be declined
func (b *CustomBet) CanBeDeclined() bool {
	return b.Status == BetStatusPending
}

// CanBeResolved checks if the bet is awaiting an outcome roll
func (b *CustomBet) CanBeResolved() bool {
	return b.Status == BetStatusAccepted
}

// IsTerminal checks if the bet can never change state again
func (b *CustomBet) IsTerminal() bool {
	return b.Status == BetStatusDeclined || b.Status == BetStatusCompleted
}

// BetDetail is a custom bet annotated with its creator's username and the
// full participant list, as returned by the read paths.
type BetDetail struct {
	CustomBet
	CreatorUsername string
	Participants    []*Participant
}

// UserBetView is a BetDetail annotated for one requesting user: whether they
// created the bet and their own side/outcome, derived from the participant
// rows rather than stored redundantly.
type UserBetView struct {
	BetDetail
	IsCreator   bool
	YourPick    *PickType
	YourOutcome *Outcome
}

// Annotate derives the per-user fields of a UserBetView from the participant
// list. The creator's participant row may not exist yet for PENDING bets, in
// which case the creator's side comes from the bet itself.
func (d *BetDetail) Annotate(userID string) *UserBetView {
	view := &UserBetView{
		BetDetail: *d,
		IsCreator: d.CreatorID == userID,
	}
	for _, p := range d.Participants {
		if p.UserID == userID {
			pick := p.PickType
			view.YourPick = &pick
			view.YourOutcome = p.Outcome
			return view
		}
	}
	if view.IsCreator {
		pick := d.CreatorPickType
		view.YourPick = &pick
	}
	return view
}
