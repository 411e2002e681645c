package service

import (
	"context"
	"fmt"
	"strings"

	"propbets/events"
	"propbets/models"

	log "github.com/sirupsen/logrus"
)

type pickService struct {
	uowFactory UnitOfWorkFactory
	outcomes   OutcomeGenerator
}

// NewPickService creates a new standalone pick service
func NewPickService(uowFactory UnitOfWorkFactory, outcomes OutcomeGenerator) PickService {
	return &pickService{
		uowFactory: uowFactory,
		outcomes:   outcomes,
	}
}

// Create records a pick against a projection, replacing any unresolved pick
// the user already holds on that projection.
func (s *pickService) Create(ctx context.Context, userID string, input CreatePickInput) (*models.Pick, error) {
	if strings.TrimSpace(input.ProjectionID) == "" || strings.TrimSpace(input.PlayerName) == "" || strings.TrimSpace(input.StatType) == "" {
		return nil, NewValidationError("projection, player, and stat are required")
	}
	pickType, err := models.ParsePickType(string(input.PickType))
	if err != nil {
		return nil, NewValidationError("pick type must be OVER or UNDER")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	pick := &models.Pick{
		UserID:         userID,
		ProjectionID:   input.ProjectionID,
		PickType:       pickType,
		PlayerName:     input.PlayerName,
		PlayerImageURL: input.PlayerImageURL,
		StatType:       input.StatType,
		LineScore:      input.LineScore,
	}

	if err := uow.PickRepository().Upsert(ctx, pick); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return pick, nil
}

// ListForUser returns all of the user's picks, newest first
func (s *pickService) ListForUser(ctx context.Context, userID string) ([]*models.Pick, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	picks, err := uow.PickRepository().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list picks: %w", err)
	}

	return picks, nil
}

// Resolve rolls an outcome for a single unresolved pick. A TBD roll leaves
// the pick unresolved so it can be rolled again later.
func (s *pickService) Resolve(ctx context.Context, pickID, userID string) (*models.Pick, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	pick, err := uow.PickRepository().GetByIDForUser(ctx, pickID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pick: %w", err)
	}
	if pick == nil {
		return nil, &NotFoundError{Entity: "pick", ID: pickID}
	}
	if pick.IsResolved {
		return nil, NewValidationError("pick is already resolved")
	}

	outcome := s.outcomes.Generate()
	if outcome == models.OutcomeTBD {
		if err := uow.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}
		tbd := models.OutcomeTBD
		pick.Outcome = &tbd
		return pick, nil
	}

	if err := uow.PickRepository().Resolve(ctx, pickID, outcome); err != nil {
		return nil, err
	}

	if outcome == models.OutcomeWin {
		err = uow.UserRepository().IncrementWins(ctx, userID, 1)
	} else {
		err = uow.UserRepository().IncrementLosses(ctx, userID, 1)
	}
	if err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.PickResolvedEvent{
		PickID:  pickID,
		UserID:  userID,
		Outcome: outcome,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	pick.IsResolved = true
	decided := outcome
	pick.Outcome = &decided

	return pick, nil
}

// PickedProjections maps projection IDs the user has picked to the side they
// took
func (s *pickService) PickedProjections(ctx context.Context, userID string, projectionIDs []string) (map[string]models.PickType, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.PickRepository().PickedProjections(ctx, userID, projectionIDs)
}

// ResolveAll rolls outcomes for every unresolved pick the user holds,
// accumulating counter deltas into two increments instead of one per pick.
// TBD rolls are skipped and stay unresolved.
func (s *pickService) ResolveAll(ctx context.Context, userID string) (*models.ResolveAllResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	picks, err := uow.PickRepository().ListUnresolvedByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list unresolved picks: %w", err)
	}

	result := &models.ResolveAllResult{}
	for _, pick := range picks {
		outcome := s.outcomes.Generate()
		if outcome == models.OutcomeTBD {
			continue
		}

		if err := uow.PickRepository().Resolve(ctx, pick.ID, outcome); err != nil {
			return nil, err
		}

		result.Processed++
		if outcome == models.OutcomeWin {
			result.Wins++
		} else {
			result.Losses++
		}

		uow.EventBus().Publish(events.PickResolvedEvent{
			PickID:  pick.ID,
			UserID:  userID,
			Outcome: outcome,
		})
	}

	if result.Wins > 0 {
		if err := uow.UserRepository().IncrementWins(ctx, userID, result.Wins); err != nil {
			return nil, err
		}
	}
	if result.Losses > 0 {
		if err := uow.UserRepository().IncrementLosses(ctx, userID, result.Losses); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"userId":    userID,
		"processed": result.Processed,
		"wins":      result.Wins,
		"losses":    result.Losses,
	}).Info("Resolved picks in bulk")

	return result, nil
}
