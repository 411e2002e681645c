package repository

import (
	"context"
	"fmt"

	"propbets/database"
	"propbets/models"
	"propbets/service"

	"github.com/jackc/pgx/v5"
)

// PickRepository implements the service.PickRepository interface
type PickRepository struct {
	q Queryable
}

// NewPickRepository creates a new pick repository
func NewPickRepository(db *database.DB) *PickRepository {
	return &PickRepository{q: db.Pool}
}

// newPickRepositoryWithTx creates a new pick repository with a transaction
func newPickRepositoryWithTx(tx Queryable) *PickRepository {
	return &PickRepository{q: tx}
}

const pickColumns = `id, user_id, projection_id, pick_type, player_name, player_image_url, stat_type, line_score, outcome, is_resolved, created_at`

func scanPick(row pgx.Row) (*models.Pick, error) {
	var pick models.Pick
	err := row.Scan(
		&pick.ID,
		&pick.UserID,
		&pick.ProjectionID,
		&pick.PickType,
		&pick.PlayerName,
		&pick.PlayerImageURL,
		&pick.StatType,
		&pick.LineScore,
		&pick.Outcome,
		&pick.IsResolved,
		&pick.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &pick, nil
}

// Upsert creates a pick or replaces the user's existing pick on the same
// projection while it is still unresolved
func (r *PickRepository) Upsert(ctx context.Context, pick *models.Pick) error {
	query := `
		INSERT INTO picks (user_id, projection_id, pick_type, player_name, player_image_url, stat_type, line_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, projection_id)
		DO UPDATE SET
			pick_type = EXCLUDED.pick_type,
			player_name = EXCLUDED.player_name,
			player_image_url = EXCLUDED.player_image_url,
			stat_type = EXCLUDED.stat_type,
			line_score = EXCLUDED.line_score
		WHERE picks.is_resolved = FALSE
		RETURNING ` + pickColumns

	upserted, err := scanPick(r.q.QueryRow(ctx, query,
		pick.UserID,
		pick.ProjectionID,
		pick.PickType,
		pick.PlayerName,
		pick.PlayerImageURL,
		pick.StatType,
		pick.LineScore,
	))
	if err == pgx.ErrNoRows {
		// Conflict row exists but is already resolved
		return service.NewValidationError("pick for this projection is already resolved")
	}
	if err != nil {
		return fmt.Errorf("failed to upsert pick: %w", err)
	}

	*pick = *upserted
	return nil
}

// GetByIDForUser retrieves a pick owned by the user
func (r *PickRepository) GetByIDForUser(ctx context.Context, id, userID string) (*models.Pick, error) {
	query := `SELECT ` + pickColumns + ` FROM picks WHERE id = $1 AND user_id = $2`

	pick, err := scanPick(r.q.QueryRow(ctx, query, id, userID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pick %s: %w", id, err)
	}

	return pick, nil
}

// ListByUser returns all of a user's picks, newest first
func (r *PickRepository) ListByUser(ctx context.Context, userID string) ([]*models.Pick, error) {
	query := `SELECT ` + pickColumns + ` FROM picks WHERE user_id = $1 ORDER BY created_at DESC`
	return r.listPicks(ctx, query, userID)
}

// ListUnresolvedByUser returns the user's unresolved picks
func (r *PickRepository) ListUnresolvedByUser(ctx context.Context, userID string) ([]*models.Pick, error) {
	query := `SELECT ` + pickColumns + ` FROM picks WHERE user_id = $1 AND is_resolved = FALSE ORDER BY created_at DESC`
	return r.listPicks(ctx, query, userID)
}

func (r *PickRepository) listPicks(ctx context.Context, query string, args ...any) ([]*models.Pick, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list picks: %w", err)
	}
	defer rows.Close()

	var picks []*models.Pick
	for rows.Next() {
		pick, err := scanPick(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pick: %w", err)
		}
		picks = append(picks, pick)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate picks: %w", err)
	}

	return picks, nil
}

// Resolve records a decided outcome and marks the pick resolved
func (r *PickRepository) Resolve(ctx context.Context, id string, outcome models.Outcome) error {
	query := `
		UPDATE picks
		SET outcome = $1, is_resolved = TRUE
		WHERE id = $2 AND is_resolved = FALSE
	`

	result, err := r.q.Exec(ctx, query, outcome, id)
	if err != nil {
		return fmt.Errorf("failed to resolve pick %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return service.NewConflictError("pick is already resolved")
	}

	return nil
}

// PickedProjections maps projection IDs the user has picked to the side they took
func (r *PickRepository) PickedProjections(ctx context.Context, userID string, projectionIDs []string) (map[string]models.PickType, error) {
	if len(projectionIDs) == 0 {
		return map[string]models.PickType{}, nil
	}

	query := `
		SELECT projection_id, pick_type
		FROM picks
		WHERE user_id = $1 AND projection_id = ANY($2)
	`

	rows, err := r.q.Query(ctx, query, userID, projectionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get picked projections: %w", err)
	}
	defer rows.Close()

	picked := make(map[string]models.PickType)
	for rows.Next() {
		var projectionID string
		var pickType models.PickType
		if err := rows.Scan(&projectionID, &pickType); err != nil {
			return nil, fmt.Errorf("failed to scan picked projection: %w", err)
		}
		picked[projectionID] = pickType
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate picked projections: %w", err)
	}

	return picked, nil
}

// ResolvedResultsByUser returns the user's decided pick outcomes, newest
// first, for streak derivation
func (r *PickRepository) ResolvedResultsByUser(ctx context.Context, userID string) ([]*models.ResolvedResult, error) {
	query := `
		SELECT outcome, created_at
		FROM picks
		WHERE user_id = $1 AND is_resolved = TRUE AND outcome IN ($2, $3)
		ORDER BY created_at DESC
	`

	rows, err := r.q.Query(ctx, query, userID, models.OutcomeWin, models.OutcomeLoss)
	if err != nil {
		return nil, fmt.Errorf("failed to get resolved pick results for user %s: %w", userID, err)
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
