package service

import (
	"context"
	"testing"

	"propbets/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func createTestPickService(outcomes ...models.Outcome) (PickService, *MockUnitOfWorkFactory, *MockUnitOfWork, *MockUserRepository, *MockPickRepository) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)
	mockPickRepo := new(MockPickRepository)

	mockUoW.SetRepositories(mockUserRepo, nil, nil, mockPickRepo)

	service := NewPickService(mockFactory, &stubOutcomeGenerator{outcomes: outcomes})
	return service, mockFactory, mockUoW, mockUserRepo, mockPickRepo
}

func TestPickService_Create(t *testing.T) {
	ctx := context.Background()
	service, mockFactory, mockUoW, _, mockPickRepo := createTestPickService(models.OutcomeWin)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockPickRepo.On("Upsert", ctx, mock.MatchedBy(func(p *models.Pick) bool {
		return p.UserID == "user-1" &&
			p.ProjectionID == "proj-1" &&
			p.PickType == models.PickTypeOver &&
			p.PlayerName == "Nikola Jokic" &&
			p.StatType == "Rebounds" &&
			p.LineScore == 12.5
	})).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Pick).ID = "pick-1"
	})

	pick, err := service.Create(ctx, "user-1", CreatePickInput{
		ProjectionID: "proj-1",
		PickType:     models.PickTypeOver,
		PlayerName:   "Nikola Jokic",
		StatType:     "Rebounds",
		LineScore:    12.5,
	})

	assert.NoError(t, err)
	assert.Equal(t, "pick-1", pick.ID)
	mockPickRepo.AssertExpectations(t)
}

func TestPickService_Create_Invalid(t *testing.T) {
	ctx := context.Background()
	service, _, _, _, _ := createTestPickService(models.OutcomeWin)

	_, err := service.Create(ctx, "user-1", CreatePickInput{
		ProjectionID: "",
		PickType:     models.PickTypeOver,
		PlayerName:   "Nikola Jokic",
		StatType:     "Rebounds",
	})
	assert.True(t, IsValidation(err))

	_, err = service.Create(ctx, "user-1", CreatePickInput{
		ProjectionID: "proj-1",
		PickType:     models.PickType("BOTH"),
		PlayerName:   "Nikola Jokic",
		StatType:     "Rebounds",
	})
	assert.True(t, IsValidation(err))
}

func TestPickService_Resolve_Win(t *testing.T) {
	ctx := context.Background()
	service, mockFactory, mockUoW, mockUserRepo, mockPickRepo := createTestPickService(models.OutcomeWin)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockPickRepo.On("GetByIDForUser", ctx, "pick-1", "user-1").Return(&models.Pick{
		ID:       "pick-1",
		UserID:   "user-1",
		PickType: models.PickTypeOver,
	}, nil)
	mockPickRepo.On("Resolve", ctx, "pick-1", models.OutcomeWin).Return(nil)
	mockUserRepo.On("IncrementWins", ctx, "user-1", 1).Return(nil)

	pick, err := service.Resolve(ctx, "pick-1", "user-1")

	assert.NoError(t, err)
	assert.True(t, pick.IsResolved)
	assert.Equal(t, models.OutcomeWin, *pick.Outcome)
	mockPickRepo.AssertExpectations(t)
	mockUserRepo.AssertExpectations(t)
}

func TestPickService_Resolve_TBDLeavesUnresolved(t *testing.T) {
	ctx := context.Background()
	service, mockFactory, mockUoW, mockUserRepo, mockPickRepo := createTestPickService(models.OutcomeTBD)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockPickRepo.On("GetByIDForUser", ctx, "pick-1", "user-1").Return(&models.Pick{
		ID:       "pick-1",
		UserID:   "user-1",
		PickType: models.PickTypeUnder,
	}, nil)

	pick, err := service.Resolve(ctx, "pick-1", "user-1")

	assert.NoError(t, err)
	assert.False(t, pick.IsResolved)
	assert.Equal(t, models.OutcomeTBD, *pick.Outcome)

	mockPickRepo.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything, mock.Anything)
	mockUserRepo.AssertNotCalled(t, "IncrementWins", mock.Anything, mock.Anything, mock.Anything)
	mockUserRepo.AssertNotCalled(t, "IncrementLosses", mock.Anything, mock.Anything, mock.Anything)
}

func TestPickService_Resolve_AlreadyResolved(t *testing.T) {
	ctx := context.Background()
	service, mockFactory, mockUoW, _, mockPickRepo := createTestPickService(models.OutcomeWin)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	win := models.OutcomeWin
	mockPickRepo.On("GetByIDForUser", ctx, "pick-1", "user-1").Return(&models.Pick{
		ID:         "pick-1",
		UserID:     "user-1",
		IsResolved: true,
		Outcome:    &win,
	}, nil)

	_, err := service.Resolve(ctx, "pick-1", "user-1")

	assert.True(t, IsValidation(err))
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestPickService_Resolve_NotFound(t *testing.T) {
	ctx := context.Background()
	service, mockFactory, mockUoW, _, mockPickRepo := createTestPickService(models.OutcomeWin)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockPickRepo.On("GetByIDForUser", ctx, "missing", "user-1").Return(nil, nil)

	_, err := service.Resolve(ctx, "missing", "user-1")

	assert.True(t, IsNotFound(err))
}

func TestPickService_ResolveAll(t *testing.T) {
	ctx := context.Background()

	// Three unresolved picks rolling WIN, TBD, LOSS: two processed, the TBD
	// one skipped, counters incremented once per side.
	service, mockFactory, mockUoW, mockUserRepo, mockPickRepo := createTestPickService(
		models.OutcomeWin, models.OutcomeTBD, models.OutcomeLoss)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockPickRepo.On("ListUnresolvedByUser", ctx, "user-1").Return([]*models.Pick{
		{ID: "pick-1", UserID: "user-1"},
		{ID: "pick-2", UserID: "user-1"},
		{ID: "pick-3", UserID: "user-1"},
	}, nil)

	mockPickRepo.On("Resolve", ctx, "pick-1", models.OutcomeWin).Return(nil)
	mockPickRepo.On("Resolve", ctx, "pick-3", models.OutcomeLoss).Return(nil)
	mockUserRepo.On("IncrementWins", ctx, "user-1", 1).Return(nil)
	mockUserRepo.On("IncrementLosses", ctx, "user-1", 1).Return(nil)

	result, err := service.ResolveAll(ctx, "user-1")

	assert.NoError(t, err)
	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 1, result.Wins)
	assert.Equal(t, 1, result.Losses)

	mockPickRepo.AssertNotCalled(t, "Resolve", ctx, "pick-2", mock.Anything)
	mockPickRepo.AssertExpectations(t)
	mockUserRepo.AssertExpectations(t)
}

func TestPickService_ResolveAll_Empty(t *testing.T) {
	ctx := context.Background()
	service, mockFactory, mockUoW, mockUserRepo, mockPickRepo := createTestPickService(models.OutcomeWin)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockPickRepo.On("ListUnresolvedByUser", ctx, "user-1").Return([]*models.Pick{}, nil)

	result, err := service.ResolveAll(ctx, "user-1")

	assert.NoError(t, err)
	assert.Equal(t, 0, result.Processed)
	mockUserRepo.AssertNotCalled(t, "IncrementWins", mock.Anything, mock.Anything, mock.Anything)
	mockUserRepo.AssertNotCalled(t, "IncrementLosses", mock.Anything, mock.Anything, mock.Anything)
}
