package repository

import (
	"context"
	"fmt"

	"propbets/database"
	"propbets/models"
	"propbets/service"

	"github.com/jackc/pgx/v5"
)

// CustomBetRepository implements the service.CustomBetRepository interface
type CustomBetRepository struct {
	q Queryable
}

// NewCustomBetRepository creates a new custom bet repository
func NewCustomBetRepository(db *database.DB) *CustomBetRepository {
	return &CustomBetRepository{q: db.Pool}
}

// newCustomBetRepositoryWithTx creates a new custom bet repository with a transaction
func newCustomBetRepositoryWithTx(tx Queryable) *CustomBetRepository {
	return &CustomBetRepository{q: tx}
}

const betColumns = `id, creator_id, player, stat, line, creator_pick_type, status, outcome, created_at, updated_at`

func scanBet(row pgx.Row) (*models.CustomBet, error) {
	var bet models.CustomBet
	err := row.Scan(
		&bet.ID,
		&bet.CreatorID,
		&bet.Player,
		&bet.Stat,
		&bet.Line,
		&bet.CreatorPickType,
		&bet.Status,
		&bet.Outcome,
		&bet.CreatedAt,
		&bet.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &bet, nil
}

// Create creates a new bet in PENDING state
func (r *CustomBetRepository) Create(ctx context.Context, bet *models.CustomBet) error {
	query := `
		INSERT INTO custom_bets (creator_id, player, stat, line, creator_pick_type, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, status, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		bet.CreatorID,
		bet.Player,
		bet.Stat,
		bet.Line,
		bet.CreatorPickType,
		models.BetStatusPending,
	).Scan(&bet.ID, &bet.Status, &bet.CreatedAt, &bet.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create custom bet: %w", err)
	}

	return nil
}

// GetByID retrieves a bet by its ID
func (r *CustomBetRepository) GetByID(ctx context.Context, id string) (*models.CustomBet, error) {
	query := `SELECT ` + betColumns + ` FROM custom_bets WHERE id = $1`

	bet, err := scanBet(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get custom bet %s: %w", id, err)
	}

	return bet, nil
}

// GetDetailByID retrieves a bet with creator username and participants
func (r *CustomBetRepository) GetDetailByID(ctx context.Context, id string) (*models.BetDetail, error) {
	query := `
		SELECT cb.id, cb.creator_id, cb.player, cb.stat, cb.line,
		       cb.creator_pick_type, cb.status, cb.outcome, cb.created_at, cb.updated_at,
		       u.username
		FROM custom_bets cb
		JOIN users u ON cb.creator_id = u.id
		WHERE cb.id = $1
	`

	var detail models.BetDetail
	err := r.q.QueryRow(ctx, query, id).Scan(
		&detail.ID,
		&detail.CreatorID,
		&detail.Player,
		&detail.Stat,
		&detail.Line,
		&detail.CreatorPickType,
		&detail.Status,
		&detail.Outcome,
		&detail.CreatedAt,
		&detail.UpdatedAt,
		&detail.CreatorUsername,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get custom bet detail %s: %w", id, err)
	}

	participants, err := r.participantsForBet(ctx, id)
	if err != nil {
		return nil, err
	}
	detail.Participants = participants

	return &detail, nil
}

// ListByUser returns all bets the user created or participates in, newest first
func (r *CustomBetRepository) ListByUser(ctx context.Context, userID string) ([]*models.BetDetail, error) {
	query := `
		SELECT DISTINCT cb.id, cb.creator_id, cb.player, cb.stat, cb.line,
		       cb.creator_pick_type, cb.status, cb.outcome, cb.created_at, cb.updated_at,
		       u.username
		FROM custom_bets cb
		JOIN users u ON cb.creator_id = u.id
		LEFT JOIN custom_bet_participants cbp ON cb.id = cbp.bet_id
		WHERE cb.creator_id = $1 OR cbp.user_id = $1
		ORDER BY cb.created_at DESC
	`

	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list custom bets for user %s: %w", userID, err)
	}
	defer rows.Close()

	var details []*models.BetDetail
	for rows.Next() {
		var detail models.BetDetail
		err := rows.Scan(
			&detail.ID,
			&detail.CreatorID,
			&detail.Player,
			&detail.Stat,
			&detail.Line,
			&detail.CreatorPickType,
			&detail.Status,
			&detail.Outcome,
			&detail.CreatedAt,
			&detail.UpdatedAt,
			&detail.CreatorUsername,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan custom bet: %w", err)
		}
		details = append(details, &detail)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate custom bets: %w", err)
	}

	for _, detail := range details {
		participants, err := r.participantsForBet(ctx, detail.ID)
		if err != nil {
			return nil, err
		}
		detail.Participants = participants
	}

	return details, nil
}

// TransitionStatus moves a bet from one status to another, conditioned on the
// current status. This conditional update is the concurrency gate: of two
// simultaneous joins on the same PENDING bet, exactly one sees a row updated.
func (r *CustomBetRepository) TransitionStatus(ctx context.Context, id string, from, to models.BetStatus) error {
	query := `
		UPDATE custom_bets
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`

	result, err := r.q.Exec(ctx, query, to, id, from)
	if err != nil {
		return fmt.Errorf("failed to transition bet %s to %s: %w", id, to, err)
	}

	if result.RowsAffected() == 0 {
		return service.NewConflictError("bet is no longer %s", from)
	}

	return nil
}

// SetOutcome records the bet-level outcome together with its new status
func (r *CustomBetRepository) SetOutcome(ctx context.Context, id string, status models.BetStatus, outcome models.Outcome) error {
	query := `
		UPDATE custom_bets
		SET status = $1, outcome = $2, updated_at = NOW()
		WHERE id = $3
	`

	result, err := r.q.Exec(ctx, query, status, outcome, id)
	if err != nil {
		return fmt.Errorf("failed to set outcome for bet %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return &service.NotFoundError{Entity: "bet", ID: id}
	}

	return nil
}

// ListMissingCreatorParticipant returns ACCEPTED/COMPLETED bets whose creator
// has no participant row, for the retrofit repair pass
func (r *CustomBetRepository) ListMissingCreatorParticipant(ctx context.Context) ([]*models.CustomBet, error) {
	query := `
		SELECT ` + betColumns + `
		FROM custom_bets cb
		WHERE cb.status IN ($1, $2)
		AND NOT EXISTS (
			SELECT 1 FROM custom_bet_participants cbp
			WHERE cbp.bet_id = cb.id AND cbp.user_id = cb.creator_id
		)
	`

	rows, err := r.q.Query(ctx, query, models.BetStatusAccepted, models.BetStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to list bets missing creator participant: %w", err)
	}
	defer rows.Close()

	var bets []*models.CustomBet
	for rows.Next() {
		bet, err := scanBet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan custom bet: %w", err)
		}
		bets = append(bets, bet)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate custom bets: %w", err)
	}

	return bets, nil
}

func (r *CustomBetRepository) participantsForBet(ctx context.Context, betID string) ([]*models.Participant, error) {
	query := `
		SELECT cbp.id, cbp.bet_id, cbp.user_id, u.username, cbp.pick_type, cbp.outcome, cbp.joined_at
		FROM custom_bet_participants cbp
		JOIN users u ON cbp.user_id = u.id
		WHERE cbp.bet_id = $1
		ORDER BY cbp.joined_at
	`

	rows, err := r.q.Query(ctx, query, betID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants for bet %s: %w", betID, err)
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
