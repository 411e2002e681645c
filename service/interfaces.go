package service

import (
	"context"

	"propbets/events"
	"propbets/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// GetByID retrieves a user by ID, returning nil when absent
	GetByID(ctx context.Context, id string) (*models.User, error)

	// GetByLogin retrieves a user by username or email, returning nil when absent
	GetByLogin(ctx context.Context, login string) (*models.User, error)

	// Create creates a new user with zeroed win/loss counters
	Create(ctx context.Context, username, email, passwordHash string) (*models.User, error)

	// GetAll returns all users
	GetAll(ctx context.Context) ([]*models.User, error)

	// IncrementWins adds n to a user's win counter in place
	IncrementWins(ctx context.Context, id string, n int) error

	// IncrementLosses adds n to a user's loss counter in place
	IncrementLosses(ctx context.Context, id string, n int) error
}

// CustomBetRepository defines the interface for custom bet data access
type CustomBetRepository interface {
	// Create creates a new bet in PENDING state
	Create(ctx context.Context, bet *models.CustomBet) error

	// GetByID retrieves a bet by its ID, returning nil when absent
	GetByID(ctx context.Context, id string) (*models.CustomBet, error)

	// GetDetailByID retrieves a bet with creator username and participants
	GetDetailByID(ctx context.Context, id string) (*models.BetDetail, error)

	// ListByUser returns all bets the user created or participates in,
	// newest first
	ListByUser(ctx context.Context, userID string) ([]*models.BetDetail, error)

	// TransitionStatus moves a bet from one status to another, conditioned
	// on the current status. A lost race surfaces as a ConflictError.
	TransitionStatus(ctx context.Context, id string, from, to models.BetStatus) error

	// SetOutcome records the bet-level outcome together with its new status
	SetOutcome(ctx context.Context, id string, status models.BetStatus, outcome models.Outcome) error

	// ListMissingCreatorParticipant returns ACCEPTED/COMPLETED bets whose
	// creator has no participant row
	ListMissingCreatorParticipant(ctx context.Context) ([]*models.CustomBet, error)
}

// ParticipantRepository defines the interface for bet participant data access
type ParticipantRepository interface {
	// Create inserts a participant row. A duplicate (bet, user) pair
	// surfaces as a ConflictError via the uniqueness constraint.
	Create(ctx context.Context, participant *models.Participant) error

	// Exists checks whether a participant row exists for the pair
	Exists(ctx context.Context, betID, userID string) (bool, error)

	// ListByBet returns all participants of a bet with usernames
	ListByBet(ctx context.Context, betID string) ([]*models.Participant, error)

	// UpdateOutcome sets one participant's personal outcome
	UpdateOutcome(ctx context.Context, id string, outcome models.Outcome) error

	// SetOutcomeForBet sets every participant of a bet to the same outcome
	SetOutcomeForBet(ctx context.Context, betID string, outcome models.Outcome) error

	// ResolvedResultsByUser returns the user's decided custom-bet outcomes,
	// newest first
	ResolvedResultsByUser(ctx context.Context, userID string) ([]*models.ResolvedResult, error)
}

// PickRepository defines the interface for standalone pick data access
type PickRepository interface {
	// Upsert creates a pick or replaces the user's existing pick on the
	// same projection
	Upsert(ctx context.Context, pick *models.Pick) error

	// GetByIDForUser retrieves a pick owned by the user, nil when absent
	GetByIDForUser(ctx context.Context, id, userID string) (*models.Pick, error)

	// ListByUser returns all of a user's picks, newest first
	ListByUser(ctx context.Context, userID string) ([]*models.Pick, error)

	// ListUnresolvedByUser returns the user's unresolved picks
	ListUnresolvedByUser(ctx context.Context, userID string) ([]*models.Pick, error)

	// Resolve records a decided outcome and marks the pick resolved
	Resolve(ctx context.Context, id string, outcome models.Outcome) error

	// PickedProjections maps projection IDs the user has picked to the side
	// they took
	PickedProjections(ctx context.Context, userID string, projectionIDs []string) (map[string]models.PickType, error)

	// ResolvedResultsByUser returns the user's decided pick outcomes,
	// newest first
	ResolvedResultsByUser(ctx context.Context, userID string) ([]*models.ResolvedResult, error)
}

// EventPublisher allows publishing events within a transaction context
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork provides transactional access to repositories
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction (no-op after commit)
	Rollback() error

	// UserRepository returns the user repository bound to this transaction
	UserRepository() UserRepository

	// CustomBetRepository returns the bet repository bound to this transaction
	CustomBetRepository() CustomBetRepository

	// ParticipantRepository returns the participant repository bound to this transaction
	ParticipantRepository() ParticipantRepository

	// PickRepository returns the pick repository bound to this transaction
	PickRepository() PickRepository

	// EventBus returns the transactional event bus for this unit of work
	EventBus() EventPublisher
}

// UnitOfWorkFactory creates new UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// OutcomeGenerator produces ternary resolution results. Both the custom-bet
// path and the standalone pick path draw from the same generator so the
// WIN/LOSS/TBD distribution is identical everywhere.
type OutcomeGenerator interface {
	Generate() models.Outcome
}

// CustomBetService defines the custom bet lifecycle operations
type CustomBetService interface {
	// Create validates input and stores a new PENDING bet
	Create(ctx context.Context, creatorID, player, stat string, line float64, pickType models.PickType) (*models.CustomBet, error)

	// GetDetail returns a bet with participants for the public read path
	GetDetail(ctx context.Context, betID string) (*models.BetDetail, error)

	// ListForUser returns the user's bets annotated with their own pick/outcome
	ListForUser(ctx context.Context, userID string) ([]*models.UserBetView, error)

	// Join adds the caller as the second participant on the opposite side
	// and immediately resolves the bet
	Join(ctx context.Context, betID, userID string) (*models.JoinResult, error)

	// Decline declines a PENDING bet; terminal, no counters touched
	Decline(ctx context.Context, betID, userID string) error

	// Resolve re-rolls the outcome of an ACCEPTED bet still at TBD
	Resolve(ctx context.Context, betID string) (*models.ResolveResult, error)

	// RetrofitCreatorParticipants backfills creator participant rows for
	// legacy bets, returning the number repaired
	RetrofitCreatorParticipants(ctx context.Context) (int, error)
}

// CreatePickInput carries the fields of a new standalone pick
type CreatePickInput struct {
	ProjectionID   string
	PickType       models.PickType
	PlayerName     string
	PlayerImageURL *string
	StatType       string
	LineScore      float64
}

// PickService defines standalone pick operations
type PickService interface {
	// Create records or replaces the user's pick on a projection
	Create(ctx context.Context, userID string, input CreatePickInput) (*models.Pick, error)

	// ListForUser returns all of the user's picks
	ListForUser(ctx context.Context, userID string) ([]*models.Pick, error)

	// Resolve rolls an outcome for one pick; TBD leaves it unresolved
	Resolve(ctx context.Context, pickID, userID string) (*models.Pick, error)

	// ResolveAll rolls outcomes for every unresolved pick of the user
	ResolveAll(ctx context.Context, userID string) (*models.ResolveAllResult, error)

	// PickedProjections maps projection IDs the user has picked to the side
	// they took, for annotating the projection board
	PickedProjections(ctx context.Context, userID string, projectionIDs []string) (map[string]models.PickType, error)
}

// LeaderboardService derives rankings from persisted counters and history
type LeaderboardService interface {
	// Leaderboard returns ranked entries for users with at least one
	// decided pick
	Leaderboard(ctx context.Context, sort models.LeaderboardSort, limit, offset int) ([]*models.LeaderboardEntry, error)

	// UserRank returns one user's entry ranked against the full user set
	UserRank(ctx context.Context, userID string) (*models.LeaderboardEntry, error)

	// Streak returns the signed length of the user's current run of
	// identical decided outcomes
	Streak(ctx context.Context, userID string) (int, error)
}

// UserService defines account operations
type UserService interface {
	// Register creates a new account with a hashed password
	Register(ctx context.Context, username, email, password string) (*models.User, error)

	// Authenticate verifies credentials by username or email
	Authenticate(ctx context.Context, login, password string) (*models.User, error)

	// GetOrCreateGuest returns the guest account for a username, creating
	// it on first use
	GetOrCreateGuest(ctx context.Context, username string) (*models.User, error)

	// GetProfile returns a user by ID
	GetProfile(ctx context.Context, userID string) (*models.User, error)
}
