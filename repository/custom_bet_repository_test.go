package repository

import (
	"context"
	"testing"

	"propbets/models"
	"propbets/repository/testutil"
	"propbets/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomBetRepository_Lifecycle(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	userRepo := NewUserRepository(testDB.DB)
	betRepo := NewCustomBetRepository(testDB.DB)
	ctx := context.Background()

	cname, cemail, chash := testutil.CreateTestUserFields(1)
	creator, err := userRepo.Create(ctx, cname, cemail, chash)
	require.NoError(t, err)

	t.Run("create defaults to pending", func(t *testing.T) {
		bet := testutil.CreateTestBet(creator.ID)
		err := betRepo.Create(ctx, bet)
		require.NoError(t, err)
		require.NotEmpty(t, bet.ID)
		assert.Equal(t, models.BetStatusPending, bet.Status)
		assert.False(t, bet.CreatedAt.IsZero())
	})

	t.Run("missing bet returns nil", func(t *testing.T) {
		bet, err := betRepo.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
		require.NoError(t, err)
		assert.Nil(t, bet)
	})

	t.Run("detail includes creator username", func(t *testing.T) {
		bet := testutil.CreateTestBet(creator.ID)
		require.NoError(t, betRepo.Create(ctx, bet))

		detail, err := betRepo.GetDetailByID(ctx, bet.ID)
		require.NoError(t, err)
		require.NotNil(t, detail)
		assert.Equal(t, creator.Username, detail.CreatorUsername)
		assert.Empty(t, detail.Participants)
	})

	t.Run("conditional transition", func(t *testing.T) {
		bet := testutil.CreateTestBet(creator.ID)
		require.NoError(t, betRepo.Create(ctx, bet))

		err := betRepo.TransitionStatus(ctx, bet.ID, models.BetStatusPending, models.BetStatusAccepted)
		require.NoError(t, err)

		// A second transition from PENDING finds no matching row.
		err = betRepo.TransitionStatus(ctx, bet.ID, models.BetStatusPending, models.BetStatusAccepted)
		assert.True(t, service.IsConflict(err))

		updated, err := betRepo.GetByID(ctx, bet.ID)
		require.NoError(t, err)
		assert.Equal(t, models.BetStatusAccepted, updated.Status)
	})

	t.Run("set outcome", func(t *testing.T) {
		bet := testutil.CreateTestBet(creator.ID)
		require.NoError(t, betRepo.Create(ctx, bet))

		err := betRepo.SetOutcome(ctx, bet.ID, models.BetStatusCompleted, models.OutcomeWin)
		require.NoError(t, err)

		updated, err := betRepo.GetByID(ctx, bet.ID)
		require.NoError(t, err)
		assert.Equal(t, models.BetStatusCompleted, updated.Status)
		require.NotNil(t, updated.Outcome)
		assert.Equal(t, models.OutcomeWin, *updated.Outcome)
	})
}

func TestCustomBetRepository_Participants(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	userRepo := NewUserRepository(testDB.DB)
	betRepo := NewCustomBetRepository(testDB.DB)
	participantRepo := NewParticipantRepository(testDB.DB)
	ctx := context.Background()

	cname, cemail, chash := testutil.CreateTestUserFields(1)
	creator, err := userRepo.Create(ctx, cname, cemail, chash)
	require.NoError(t, err)
	jname, jemail, jhash := testutil.CreateTestUserFields(2)
	joiner, err := userRepo.Create(ctx, jname, jemail, jhash)
	require.NoError(t, err)

	bet := testutil.CreateTestBet(creator.ID)
	require.NoError(t, betRepo.Create(ctx, bet))

	t.Run("create and list", func(t *testing.T) {
		require.NoError(t, participantRepo.Create(ctx, &models.Participant{
			BetID:    bet.ID,
			UserID:   creator.ID,
			PickType: models.PickTypeOver,
		}))
		require.NoError(t, participantRepo.Create(ctx, &models.Participant{
			BetID:    bet.ID,
			UserID:   joiner.ID,
			PickType: models.PickTypeUnder,
		}))

		participants, err := participantRepo.ListByBet(ctx, bet.ID)
		require.NoError(t, err)
		require.Len(t, participants, 2)
		assert.Equal(t, creator.Username, participants[0].Username)
	})

	t.Run("duplicate participant conflicts", func(t *testing.T) {
		err := participantRepo.Create(ctx, &models.Participant{
			BetID:    bet.ID,
			UserID:   joiner.ID,
			PickType: models.PickTypeUnder,
		})
		assert.True(t, service.IsConflict(err))
	})

	t.Run("exists", func(t *testing.T) {
		exists, err := participantRepo.Exists(ctx, bet.ID, joiner.ID)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = participantRepo.Exists(ctx, bet.ID, "00000000-0000-0000-0000-000000000000")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("set outcome for whole bet", func(t *testing.T) {
		require.NoError(t, participantRepo.SetOutcomeForBet(ctx, bet.ID, models.OutcomeTBD))

		participants, err := participantRepo.ListByBet(ctx, bet.ID)
		require.NoError(t, err)
		for _, p := range participants {
			require.NotNil(t, p.Outcome)
			assert.Equal(t, models.OutcomeTBD, *p.Outcome)
		}
	})
}

func TestCustomBetRepository_MissingCreatorParticipant(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	userRepo := NewUserRepository(testDB.DB)
	betRepo := NewCustomBetRepository(testDB.DB)
	participantRepo := NewParticipantRepository(testDB.DB)
	ctx := context.Background()

	cname, cemail, chash := testutil.CreateTestUserFields(1)
	creator, err := userRepo.Create(ctx, cname, cemail, chash)
	require.NoError(t, err)

	// A completed bet without a creator row needs the retrofit; a pending one
	// and a repaired one do not.
	legacy := testutil.CreateTestBet(creator.ID)
	require.NoError(t, betRepo.Create(ctx, legacy))
	require.NoError(t, betRepo.SetOutcome(ctx, legacy.ID, models.BetStatusCompleted, models.OutcomeWin))

	pending := testutil.CreateTestBet(creator.ID)
	require.NoError(t, betRepo.Create(ctx, pending))

	repaired := testutil.CreateTestBet(creator.ID)
	require.NoError(t, betRepo.Create(ctx, repaired))
	require.NoError(t, betRepo.SetOutcome(ctx, repaired.ID, models.BetStatusCompleted, models.OutcomeLoss))
	require.NoError(t, participantRepo.Create(ctx, &models.Participant{
		BetID:    repaired.ID,
		UserID:   creator.ID,
		PickType: models.PickTypeOver,
	}))

	bets, err := betRepo.ListMissingCreatorParticipant(ctx)
	require.NoError(t, err)
	require.Len(t, bets, 1)
	assert.Equal(t, legacy.ID, bets[0].ID)
}

