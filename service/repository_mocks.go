package service

import (
	"context"

	"propbets/events"
	"propbets/models"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	args := m.Called(ctx, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, username, email, passwordHash string) (*models.User, error) {
	args := m.Called(ctx, username, email, passwordHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetAll(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) IncrementWins(ctx context.Context, id string, n int) error {
	args := m.Called(ctx, id, n)
	return args.Error(0)
}

func (m *MockUserRepository) IncrementLosses(ctx context.Context, id string, n int) error {
	args := m.Called(ctx, id, n)
	return args.Error(0)
}

// MockCustomBetRepository is a mock implementation of CustomBetRepository
type MockCustomBetRepository struct {
	mock.Mock
}

func (m *MockCustomBetRepository) Create(ctx context.Context, bet *models.CustomBet) error {
	args := m.Called(ctx, bet)
	return args.Error(0)
}

func (m *MockCustomBetRepository) GetByID(ctx context.Context, id string) (*models.CustomBet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CustomBet), args.Error(1)
}

func (m *MockCustomBetRepository) GetDetailByID(ctx context.Context, id string) (*models.BetDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BetDetail), args.Error(1)
}

func (m *MockCustomBetRepository) ListByUser(ctx context.Context, userID string) ([]*models.BetDetail, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BetDetail), args.Error(1)
}

func (m *MockCustomBetRepository) TransitionStatus(ctx context.Context, id string, from, to models.BetStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

func (m *MockCustomBetRepository) SetOutcome(ctx context.Context, id string, status models.BetStatus, outcome models.Outcome) error {
	args := m.Called(ctx, id, status, outcome)
	return args.Error(0)
}

func (m *MockCustomBetRepository) ListMissingCreatorParticipant(ctx context.Context) ([]*models.CustomBet, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CustomBet), args.Error(1)
}

// MockParticipantRepository is a mock implementation of ParticipantRepository
type MockParticipantRepository struct {
	mock.Mock
}

func (m *MockParticipantRepository) Create(ctx context.Context, participant *models.Participant) error {
	args := m.Called(ctx, participant)
	return args.Error(0)
}

func (m *MockParticipantRepository) Exists(ctx context.Context, betID, userID string) (bool, error) {
	args := m.Called(ctx, betID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockParticipantRepository) ListByBet(ctx context.Context, betID string) ([]*models.Participant, error) {
	args := m.Called(ctx, betID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Participant), args.Error(1)
}

func (m *MockParticipantRepository) UpdateOutcome(ctx context.Context, id string, outcome models.Outcome) error {
	args := m.Called(ctx, id, outcome)
	return args.Error(0)
}

func (m *MockParticipantRepository) SetOutcomeForBet(ctx context.Context, betID string, outcome models.Outcome) error {
	args := m.Called(ctx, betID, outcome)
	return args.Error(0)
}

func (m *MockParticipantRepository) ResolvedResultsByUser(ctx context.Context, userID string) ([]*models.ResolvedResult, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ResolvedResult), args.Error(1)
}

// MockPickRepository is a mock implementation of PickRepository
type MockPickRepository struct {
	mock.Mock
}

func (m *MockPickRepository) Upsert(ctx context.Context, pick *models.Pick) error {
	args := m.Called(ctx, pick)
	return args.Error(0)
}

func (m *MockPickRepository) GetByIDForUser(ctx context.Context, id, userID string) (*models.Pick, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Pick), args.Error(1)
}

func (m *MockPickRepository) ListByUser(ctx context.Context, userID string) ([]*models.Pick, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Pick), args.Error(1)
}

func (m *MockPickRepository) ListUnresolvedByUser(ctx context.Context, userID string) ([]*models.Pick, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Pick), args.Error(1)
}

func (m *MockPickRepository) Resolve(ctx context.Context, id string, outcome models.Outcome) error {
	args := m.Called(ctx, id, outcome)
	return args.Error(0)
}

func (m *MockPickRepository) PickedProjections(ctx context.Context, userID string, projectionIDs []string) (map[string]models.PickType, error) {
	args := m.Called(ctx, userID, projectionIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]models.PickType), args.Error(1)
}

func (m *MockPickRepository) ResolvedResultsByUser(ctx context.Context, userID string) ([]*models.ResolvedResult, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ResolvedResult), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// recordingPublisher captures published events without mock expectations, for
// tests that only care about repository behavior.
type recordingPublisher struct {
	published []events.Event
}

func (p *recordingPublisher) Publish(event events.Event) {
	p.published = append(p.published, event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repository accessors
// return whatever SetRepositories installed rather than going through
// expectations, matching how services call them many times per transaction.
type MockUnitOfWork struct {
	mock.Mock
	userRepo        UserRepository
	customBetRepo   CustomBetRepository
	participantRepo ParticipantRepository
	pickRepo        PickRepository
	eventBus        EventPublisher
}

// SetRepositories installs the repositories the accessors return. A nil
// eventBus falls back to a recording publisher.
func (m *MockUnitOfWork) SetRepositories(user UserRepository, bet CustomBetRepository, participant ParticipantRepository, pick PickRepository) {
	m.userRepo = user
	m.customBetRepo = bet
	m.participantRepo = participant
	m.pickRepo = pick
	if m.eventBus == nil {
		m.eventBus = &recordingPublisher{}
	}
}

// SetEventBus overrides the default recording publisher
func (m *MockUnitOfWork) SetEventBus(bus EventPublisher) {
	m.eventBus = bus
}

// PublishedEvents returns events captured by the default recording publisher
func (m *MockUnitOfWork) PublishedEvents() []events.Event {
	if rec, ok := m.eventBus.(*recordingPublisher); ok {
		return rec.published
	}
	return nil
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) UserRepository() UserRepository {
	return m.userRepo
}

func (m *MockUnitOfWork) CustomBetRepository() CustomBetRepository {
	return m.customBetRepo
}

func (m *MockUnitOfWork) ParticipantRepository() ParticipantRepository {
	return m.participantRepo
}

func (m *MockUnitOfWork) PickRepository() PickRepository {
	return m.pickRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
