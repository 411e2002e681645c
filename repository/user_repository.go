package repository

import (
	"context"
	"fmt"

	"propbets/database"
	"propbets/models"
	"propbets/service"

	"github.com/jackc/pgx/v5"
)

// UserRepository implements the service.UserRepository interface
type UserRepository struct {
	q Queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

// newUserRepositoryWithTx creates a new user repository with a transaction
func newUserRepositoryWithTx(tx Queryable) *UserRepository {
	return &UserRepository{q: tx}
}

const userColumns = `id, username, email, password_hash, wins, losses, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Wins,
		&user.Losses,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}

	return user, nil
}

// GetByLogin retrieves a user by username or email
func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 OR email = $1`

	user, err := scanUser(r.q.QueryRow(ctx, query, login))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by login: %w", err)
	}

	return user, nil
}

// Create creates a new user with zeroed win/loss counters.
// A taken username or email surfaces as a ConflictError.
func (r *UserRepository) Create(ctx context.Context, username, email, passwordHash string) (*models.User, error) {
	query := `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns

	user, err := scanUser(r.q.QueryRow(ctx, query, username, email, passwordHash))
	if isUniqueViolation(err) {
		return nil, service.NewConflictError("user with this email or username already exists")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user %s: %w", username, err)
	}

	return user, nil
}

// GetAll returns all users
func (r *UserRepository) GetAll(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

// IncrementWins adds n to a user's win counter in place
func (r *UserRepository) IncrementWins(ctx context.Context, id string, n int) error {
	return r.increment(ctx, id, "wins", n)
}

// IncrementLosses adds n to a user's loss counter in place
func (r *UserRepository) IncrementLosses(ctx context.Context, id string, n int) error {
	return r.increment(ctx, id, "losses", n)
}

func (r *UserRepository) increment(ctx context.Context, id, column string, n int) error {
	if n <= 0 {
		return fmt.Errorf("increment must be positive")
	}

	// Increment in place so concurrent resolutions touching the same user
	// never lose updates to a read-modify-write race.
	query := fmt.Sprintf(`
		UPDATE users
		SET %s = %s + $1, updated_at = NOW()
		WHERE id = $2
	`, column, column)

	result, err := r.q.Exec(ctx, query, n, id)
	if err != nil {
		return fmt.Errorf("failed to increment %s for user %s: %w", column, id, err)
	}

	if result.RowsAffected() == 0 {
		return &service.NotFoundError{Entity: "user", ID: id}
	}

	return nil
}
