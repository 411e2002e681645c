package service

import (
	"context"
	"testing"

	"propbets/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// stubOutcomeGenerator returns a fixed sequence of outcomes, repeating the
// last one when exhausted.
type stubOutcomeGenerator struct {
	outcomes []models.Outcome
	next     int
}

func (g *stubOutcomeGenerator) Generate() models.Outcome {
	o := g.outcomes[g.next]
	if g.next < len(g.outcomes)-1 {
		g.next++
	}
	return o
}

func createTestCustomBetService(outcome models.Outcome) (CustomBetService, *MockUnitOfWorkFactory, *MockUnitOfWork, *MockUserRepository, *MockCustomBetRepository, *MockParticipantRepository) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)
	mockBetRepo := new(MockCustomBetRepository)
	mockParticipantRepo := new(MockParticipantRepository)

	mockUoW.SetRepositories(mockUserRepo, mockBetRepo, mockParticipantRepo, nil)

	service := NewCustomBetService(mockFactory, &stubOutcomeGenerator{outcomes: []models.Outcome{outcome}})
	return service, mockFactory, mockUoW, mockUserRepo, mockBetRepo, mockParticipantRepo
}

func pendingBet() *models.CustomBet {
	return &models.CustomBet{
		ID:              "bet-1",
		CreatorID:       "creator-1",
		Player:          "LeBron James",
		Stat:            "Points",
		Line:            27.5,
		CreatorPickType: models.PickTypeOver,
		Status:          models.BetStatusPending,
	}
}

func TestCustomBetService_Create(t *testing.T) {
	ctx := context.Background()
	service, mockFactory, mockUoW, mockUserRepo, mockBetRepo, _ := createTestCustomBetService(models.OutcomeWin)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockUserRepo.On("GetByID", ctx, "creator-1").Return(&models.User{ID: "creator-1", Username: "alice"}, nil)
	mockBetRepo.On("Create", ctx, mock.MatchedBy(func(b *models.CustomBet) bool {
		return b.CreatorID == "creator-1" &&
			b.Player == "LeBron James" &&
			b.Stat == "Points" &&
			b.Line == 27.5 &&
			b.CreatorPickType == models.PickTypeOver
	})).Return(nil).Run(func(args mock.Arguments) {
		bet := args.Get(1).(*models.CustomBet)
		bet.ID = "bet-1"
		bet.Status = models.BetStatusPending
	})

	bet, err := service.Create(ctx, "creator-1", "LeBron James", "Points", 27.5, models.PickTypeOver)

	assert.NoError(t, err)
	assert.Equal(t, "bet-1", bet.ID)
	assert.Equal(t, models.BetStatusPending, bet.Status)

	mockBetRepo.AssertExpectations(t)
}

func TestCustomBetService_Create_BlankFields(t *testing.T) {
	ctx := context.Background()
	service, _, _, _, _, _ := createTestCustomBetService(models.OutcomeWin)

	_, err := service.Create(ctx, "creator-1", "  ", "Points", 27.5, models.PickTypeOver)
	assert.True(t, IsValidation(err))

	_, err = service.Create(ctx, "creator-1", "LeBron James", "Points", 27.5, models.PickType("SIDEWAYS"))
	assert.True(t, IsValidation(err))
}

func TestCustomBetService_Join_Win(t *testing.T) {
	ctx := context.Background()
	service, mockFactory, mockUoW, mockUserRepo, mockBetRepo, mockParticipantRepo := createTestCustomBetService(models.OutcomeWin)

	bet := pendingBet()

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockBetRepo.On("GetByID", ctx, "bet-1").Return(bet, nil)
	mockParticipantRepo.On("Exists", ctx, "bet-1", "joiner-1").Return(false, nil)
	mockParticipantRepo.On("Exists", ctx, "bet-1", "creator-1").Return(false, nil)

	// The creator's row is backfilled with their own side, the joiner gets
	// the opposite side.
	mockParticipantRepo.On("Create", ctx, mock.MatchedBy(func(p *models.Participant) bool {
		return p.UserID == "creator-1" && p.PickType == models.PickTypeOver
	})).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Participant).ID = "part-creator"
	})
	mockParticipantRepo.On("Create", ctx, mock.MatchedBy(func(p *models.Participant) bool {
		return p.UserID == "joiner-1" && p.PickType == models.PickTypeUnder
	})).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Participant).ID = "part-joiner"
	})

	mockBetRepo.On("TransitionStatus", ctx, "bet-1", models.BetStatusPending, models.BetStatusAccepted).Return(nil)
	mockBetRepo.On("SetOutcome", ctx, "bet-1", models.BetStatusCompleted, models.OutcomeWin).Return(nil)

	mockParticipantRepo.On("ListByBet", ctx, "bet-1").Return([]*models.Participant{
		{ID: "part-creator", BetID: "bet-1", UserID: "creator-1", PickType: models.PickTypeOver},
		{ID: "part-joiner", BetID: "bet-1", UserID: "joiner-1", PickType: models.PickTypeUnder},
	}, nil)

	// WIN means the OVER side was right: creator wins, joiner loses.
	mockParticipantRepo.On("UpdateOutcome", ctx, "part-creator", models.OutcomeWin).Return(nil)
	mockParticipantRepo.On("UpdateOutcome", ctx, "part-joiner", models.OutcomeLoss).Return(nil)
	mockUserRepo.On("IncrementWins", ctx, "creator-1", 1).Return(nil)
	mockUserRepo.On("IncrementLosses", ctx, "joiner-1", 1).Return(nil)

	result, err := service.Join(ctx, "bet-1", "joiner-1")

	assert.NoError(t, err)
	assert.Equal(t, models.PickTypeUnder, result.YourPick)
	assert.Equal(t, models.PickTypeOver, result.CreatorPick)
	assert.Equal(t, models.OutcomeWin, result.Outcome)
	assert.Equal(t, models.OutcomeLoss, result.YourResult)
	assert.Equal(t, models.BetStatusCompleted, result.Bet.Status)

	mockBetRepo.AssertExpectations(t)
	mockParticipantRepo.AssertExpectations(t)
	mockUserRepo.AssertExpectations(t)
}

func TestCustomBetService_Join_TBD(t *testing.T) {
	ctx := context.Background()
	service, mockFactory, mockUoW, mockUserRepo, mockBetRepo, mockParticipantRepo := createTestCustomBetService(models.OutcomeTBD)

	bet := pendingBet()

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockBetRepo.On("GetByID", ctx, "bet-1").Return(bet, nil)
	mockParticipantRepo.On("Exists", ctx, "bet-1", "joiner-1").Return(false, nil)
	mockParticipantRepo.On("Exists", ctx, "bet-1", "creator-1").Return(true, nil)
	mockParticipantRepo.On("Create", ctx, mock.AnythingOfType("*models.Participant")).Return(nil)
	mockBetRepo.On("TransitionStatus", ctx, "bet-1", models.BetStatusPending, models.BetStatusAccepted).Return(nil)

	// A TBD roll parks the bet at ACCEPTED and touches no counters.
	mockBetRepo.On("SetOutcome", ctx, "bet-1", models.BetStatusAccepted, models.OutcomeTBD).Return(nil)
	mockParticipantRepo.On("SetOutcomeForBet", ctx, "bet-1", models.OutcomeTBD).Return(nil)

	result, err := service.Join(ctx, "bet-1", "joiner-1")

	assert.NoError(t, err)
	assert.Equal(t, models.OutcomeTBD, result.Outcome)
	assert.Equal(t, models.OutcomeTBD, result.YourResult)
	assert.Equal(t, models.BetStatusAccepted, result.Bet.Status)

	mockUserRepo.AssertNotCalled(t, "IncrementWins", mock.Anything, mock.Anything, mock.Anything)
	mockUserRepo.AssertNotCalled(t, "IncrementLosses", mock.Anything, mock.Anything, mock.Anything)
	mockBetRepo.AssertExpectations(t)
	mockParticipantRepo.AssertExpectations(t)
}

func TestCustomBetService_Join_OwnBet(t *testing.T) {
	ctx := context.Background()
	service, mockFactory, mockUoW, _, mockBetRepo, _ := createTestCustomBetService(models.OutcomeWin)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockBetRepo.On("GetByID", ctx, "bet-1").Return(pendingBet(), nil)

	_, err := service.Join(ctx, "bet-1", "creator-1")

	assert.True(t, IsAuthorization(err))
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestCustomBetService_Join_NotPending(t *testing.T) {
	ctx := context.Background()
	service, mockFactory, mockUoW, _, mockBetRepo, _ := createTestCustomBetService(models.OutcomeWin)

	bet := pendingBet()
	bet.Status = models.BetStatusCompleted

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockBetRepo.On("GetByID", ctx, "bet-1").Return(bet, nil)

	_, err := service.Join(ctx, "bet-1", "joiner-1")

	assert.True(t, IsValidation(err))
}

func TestCustomBetService_Join_AlreadyJoined(t *testing.T) {
	ctx := context.Background()
	service, mockFactory, mockUoW, _, mockBetRepo, mockParticipantRepo := createTestCustomBetService(models.OutcomeWin)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockBetRepo.On("GetByID", ctx, "bet-1").Return(pendingBet(), nil)
	mockParticipantRepo.On("Exists", ctx, "bet-1", "joiner-1").Return(true, nil)

	_, err := service.Join(ctx, "bet-1", "joiner-1")

	assert.True(t, IsConflict(err))
}

func TestCustomBetService_Join_NotFound(t *testing.T) {
	ctx := context.Background()
	service, mockFactory, mockUoW, _, mockBetRepo, _ := createTestCustomBetService(models.OutcomeWin)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockBetRepo.On("GetByID", ctx, "missing").Return(nil, nil)

	_, err := service.Join(ctx, "missing", "joiner-1")

	assert.True(t, IsNotFound(err))
}

func TestCustomBetService_Join_LostRace(t *testing.T) {
	ctx := context.Background()
	service, mockFactory, mockUoW, _, mockBetRepo, mockParticipantRepo := createTestCustomBetService(models.OutcomeWin)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockBetRepo.On("GetByID", ctx, "bet-1").Return(pendingBet(), nil)
	mockParticipantRepo.On("Exists", ctx, "bet-1", "joiner-1").Return(false, nil)
	mockParticipantRepo.On("Exists", ctx, "bet-1", "creator-1").Return(true, nil)
	mockParticipantRepo.On("Create", ctx, mock.AnythingOfType("*models.Participant")).Return(nil)

	// Another joiner committed first: the conditional transition repairs
	// nothing and the whole transaction rolls back.
	mockBetRepo.On("TransitionStatus", ctx, "bet-1", models.BetStatusPending, models.BetStatusAccepted).
		Return(NewConflictError("bet is no longer PENDING"))

	_, err := service.Join(ctx, "bet-1", "joiner-1")

	assert.True(t, IsConflict(err))
	mockUoW.AssertNotCalled(t, "Commit")
	mockBetRepo.AssertNotCalled(t, "SetOutcome", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCustomBetService_Decline(t *testing.T) {
	ctx := context.Background()
	service, mockFactory, mockUoW, _, mockBetRepo, _ := createTestCustomBetService(models.OutcomeWin)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockBetRepo.On("GetByID", ctx, "bet-1").Return(pendingBet(), nil)
	mockBetRepo.On("TransitionStatus", ctx, "bet-1", models.BetStatusPending, models.BetStatusDeclined).Return(nil)

	err := service.Decline(ctx, "bet-1", "joiner-1")

	assert.NoError(t, err)
	mockBetRepo.AssertExpectations(t)
}

func TestCustomBetService_Decline_NotPending(t *testing.T) {
	ctx := context.Background()
	service, mockFactory, mockUoW, _, mockBetRepo, _ := createTestCustomBetService(models.OutcomeWin)

	bet := pendingBet()
	bet.Status = models.BetStatusDeclined

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockBetRepo.On("GetByID", ctx, "bet-1").Return(bet, nil)

	err := service.Decline(ctx, "bet-1", "joiner-1")

	assert.True(t, IsValidation(err))
}

func TestCustomBetService_Resolve_Loss(t *testing.T) {
	ctx := context.Background()
	service, mockFactory, mockUoW, mockUserRepo, mockBetRepo, mockParticipantRepo := createTestCustomBetService(models.OutcomeLoss)

	bet := pendingBet()
	bet.Status = models.BetStatusAccepted
	tbd := models.OutcomeTBD
	bet.Outcome = &tbd

	participants := []*models.Participant{
		{ID: "part-creator", BetID: "bet-1", UserID: "creator-1", PickType: models.PickTypeOver},
		{ID: "part-joiner", BetID: "bet-1", UserID: "joiner-1", PickType: models.PickTypeUnder},
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockBetRepo.On("GetByID", ctx, "bet-1").Return(bet, nil)
	mockParticipantRepo.On("ListByBet", ctx, "bet-1").Return(participants, nil)
	mockBetRepo.On("SetOutcome", ctx, "bet-1", models.BetStatusCompleted, models.OutcomeLoss).Return(nil)

	// LOSS means the UNDER side was right.
	mockParticipantRepo.On("UpdateOutcome", ctx, "part-creator", models.OutcomeLoss).Return(nil)
	mockParticipantRepo.On("UpdateOutcome", ctx, "part-joiner", models.OutcomeWin).Return(nil)
	mockUserRepo.On("IncrementLosses", ctx, "creator-1", 1).Return(nil)
	mockUserRepo.On("IncrementWins", ctx, "joiner-1", 1).Return(nil)

	result, err := service.Resolve(ctx, "bet-1")

	assert.NoError(t, err)
	assert.Equal(t, models.OutcomeLoss, result.Outcome)
	assert.Equal(t, 2, result.ParticipantsCount)

	mockBetRepo.AssertExpectations(t)
	mockParticipantRepo.AssertExpectations(t)
	mockUserRepo.AssertExpectations(t)
}

func TestCustomBetService_Resolve_NotAccepted(t *testing.T) {
	ctx := context.Background()
	service, mockFactory, mockUoW, _, mockBetRepo, _ := createTestCustomBetService(models.OutcomeWin)

	bet := pendingBet()
	bet.Status = models.BetStatusCompleted

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockBetRepo.On("GetByID", ctx, "bet-1").Return(bet, nil)

	_, err := service.Resolve(ctx, "bet-1")

	assert.True(t, IsValidation(err))
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestCustomBetService_Retrofit(t *testing.T) {
	ctx := context.Background()
	service, mockFactory, mockUoW, _, mockBetRepo, mockParticipantRepo := createTestCustomBetService(models.OutcomeWin)

	win := models.OutcomeWin
	legacy := &models.CustomBet{
		ID:              "bet-legacy",
		CreatorID:       "creator-1",
		CreatorPickType: models.PickTypeUnder,
		Status:          models.BetStatusCompleted,
		Outcome:         &win,
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockBetRepo.On("ListMissingCreatorParticipant", ctx).Return([]*models.CustomBet{legacy}, nil)

	// Bet outcome WIN with a creator on UNDER back-derives to a personal LOSS.
	mockParticipantRepo.On("Create", ctx, mock.MatchedBy(func(p *models.Participant) bool {
		return p.BetID == "bet-legacy" &&
			p.UserID == "creator-1" &&
			p.PickType == models.PickTypeUnder &&
			p.Outcome != nil && *p.Outcome == models.OutcomeLoss
	})).Return(nil)

	count, err := service.RetrofitCreatorParticipants(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 1, count)
	mockParticipantRepo.AssertExpectations(t)
}

func TestCustomBetService_Retrofit_NothingToRepair(t *testing.T) {
	ctx := context.Background()
	service, mockFactory, mockUoW, _, mockBetRepo, mockParticipantRepo := createTestCustomBetService(models.OutcomeWin)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockBetRepo.On("ListMissingCreatorParticipant", ctx).Return([]*models.CustomBet{}, nil)

	count, err := service.RetrofitCreatorParticipants(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 0, count)
	mockParticipantRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
