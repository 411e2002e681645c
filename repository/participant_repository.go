package repository

import (
	"context"
	"fmt"

	"propbets/database"
	"propbets/models"
	"propbets/service"
)

// ParticipantRepository implements the service.ParticipantRepository interface
type ParticipantRepository struct {
	q Queryable
}

// NewParticipantRepository creates a new participant repository
func NewParticipantRepository(db *database.DB) *ParticipantRepository {
	return &ParticipantRepository{q: db.Pool}
}

// newParticipantRepositoryWithTx creates a new participant repository with a transaction
func newParticipantRepositoryWithTx(tx Queryable) *ParticipantRepository {
	return &ParticipantRepository{q: tx}
}

// Create inserts a participant row. The UNIQUE(bet_id, user_id) constraint is
// what prevents a user joining twice, so a duplicate surfaces as ConflictError.
func (r *ParticipantRepository) Create(ctx context.Context, participant *models.Participant) error {
	query := `
		INSERT INTO custom_bet_participants (bet_id, user_id, pick_type, outcome)
		VALUES ($1, $2, $3, $4)
		RETURNING id, joined_at
	`

	err := r.q.QueryRow(ctx, query,
		participant.BetID,
		participant.UserID,
		participant.PickType,
		participant.Outcome,
	).Scan(&participant.ID, &participant.JoinedAt)

	if isUniqueViolation(err) {
		return service.NewConflictError("user already participates in this bet")
	}
	if err != nil {
		return fmt.Errorf("failed to create participant: %w", err)
	}

	return nil
}

// Exists checks whether a participant row exists for the (bet, user) pair
func (r *ParticipantRepository) Exists(ctx context.Context, betID, userID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM custom_bet_participants
			WHERE bet_id = $1 AND user_id = $2
		)
	`

	var exists bool
	if err := r.q.QueryRow(ctx, query, betID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check participant existence: %w", err)
	}

	return exists, nil
}

// ListByBet returns all participants of a bet with usernames
func (r *ParticipantRepository) ListByBet(ctx context.Context, betID string) ([]*models.Participant, error) {
	query := `
		SELECT cbp.id, cbp.bet_id, cbp.user_id, u.username, cbp.pick_type, cbp.outcome, cbp.joined_at
		FROM custom_bet_participants cbp
		JOIN users u ON cbp.user_id = u.id
		WHERE cbp.bet_id = $1
		ORDER BY cbp.joined_at
	`

	rows, err := r.q.Query(ctx, query, betID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants for bet %s: %w", betID, err)
	}
	defer rows.Close()

	var participants []*models.Participant
	for rows.Next() {
		var p models.Participant
		err := rows.Scan(&p.ID, &p.BetID, &p.UserID, &p.Username, &p.PickType, &p.Outcome, &p.JoinedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}

	return participants, nil
}

// UpdateOutcome sets one participant's personal outcome
func (r *ParticipantRepository) UpdateOutcome(ctx context.Context, id string, outcome models.Outcome) error {
	query := `
		UPDATE custom_bet_participants
		SET outcome = $1
		WHERE id = $2
	`

	result, err := r.q.Exec(ctx, query, outcome, id)
	if err != nil {
		return fmt.Errorf("failed to update participant outcome: %w", err)
	}

	if result.RowsAffected() == 0 {
		return &service.NotFoundError{Entity: "participant", ID: id}
	}

	return nil
}

// SetOutcomeForBet sets every participant of a bet to the same outcome,
// used for the TBD path where nobody's record changes
func (r *ParticipantRepository) SetOutcomeForBet(ctx context.Context, betID string, outcome models.Outcome) error {
	query := `
		UPDATE custom_bet_participants
		SET outcome = $1
		WHERE bet_id = $2
	`

	if _, err := r.q.Exec(ctx, query, outcome, betID); err != nil {
		return fmt.Errorf("failed to set outcome for bet %s participants: %w", betID, err)
	}

	return nil
}

// ResolvedResultsByUser returns the user's decided custom-bet outcomes,
// newest first, for streak derivation
func (r *ParticipantRepository) ResolvedResultsByUser(ctx context.Context, userID string) ([]*models.ResolvedResult, error) {
	query := `
		SELECT cbp.outcome, cb.created_at
		FROM custom_bet_participants cbp
		JOIN custom_bets cb ON cbp.bet_id = cb.id
		WHERE cbp.user_id = $1 AND cbp.outcome IN ($2, $3)
		ORDER BY cb.created_at DESC
	`

	rows, err := r.q.Query(ctx, query, userID, models.OutcomeWin, models.OutcomeLoss)
	if err != nil {
		return nil, fmt.Errorf("failed to get resolved results for user %s: %w", userID, err)
	}
	defer rows.Close()

	var results []*models.ResolvedResult
	for rows.Next() {
		var res models.ResolvedResult
		if err := rows.Scan(&res.Outcome, &res.DecidedAt); err != nil {
			return nil, fmt.Errorf("failed to scan resolved result: %w", err)
		}
		results = append(results, &res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate resolved results: %w", err)
	}

	return results, nil
}
