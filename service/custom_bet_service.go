package service

import (
	"context"
	"fmt"
	"strings"

	"propbets/events"
	"propbets/models"

	log "github.com/sirupsen/logrus"
)

type customBetService struct {
	uowFactory UnitOfWorkFactory
	outcomes   OutcomeGenerator
}

// NewCustomBetService creates a new custom bet lifecycle service
func NewCustomBetService(uowFactory UnitOfWorkFactory, outcomes OutcomeGenerator) CustomBetService {
	return &customBetService{
		uowFactory: uowFactory,
		outcomes:   outcomes,
	}
}

// Create validates input and stores a new PENDING bet
func (s *customBetService) Create(ctx context.Context, creatorID, player, stat string, line float64, pickType models.PickType) (*models.CustomBet, error) {
	if strings.TrimSpace(player) == "" || strings.TrimSpace(stat) == "" {
		return nil, NewValidationError("player, stat, line, and pick type are required")
	}
	if _, err := models.ParsePickType(string(pickType)); err != nil {
		return nil, NewValidationError("pick type must be OVER or UNDER")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	creator, err := uow.UserRepository().GetByID(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get creator: %w", err)
	}
	if creator == nil {
		return nil, &NotFoundError{Entity: "user", ID: creatorID}
	}

	bet := &models.CustomBet{
		CreatorID:       creatorID,
		Player:          player,
		Stat:            stat,
		Line:            line,
		CreatorPickType: pickType,
	}

	if err := uow.CustomBetRepository().Create(ctx, bet); err != nil {
		return nil, fmt.Errorf("failed to create bet: %w", err)
	}

	uow.EventBus().Publish(events.BetCreatedEvent{
		BetID:     bet.ID,
		CreatorID: creatorID,
		Player:    player,
		Stat:      stat,
		Line:      line,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return bet, nil
}

// GetDetail returns a bet with participants for the public read path
func (s *customBetService) GetDetail(ctx context.Context, betID string) (*models.BetDetail, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	detail, err := uow.CustomBetRepository().GetDetailByID(ctx, betID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bet: %w", err)
	}
	if detail == nil {
		return nil, &NotFoundError{Entity: "bet", ID: betID}
	}

	return detail, nil
}

// ListForUser returns the user's bets annotated with their own pick/outcome
func (s *customBetService) ListForUser(ctx context.Context, userID string) ([]*models.UserBetView, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	details, err := uow.CustomBetRepository().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bets: %w", err)
	}

	views := make([]*models.UserBetView, 0, len(details))
	for _, detail := range details {
		views = append(views, detail.Annotate(userID))
	}

	return views, nil
}

// Join adds the caller as the second participant on the opposite side of the
// creator's pick and immediately resolves the bet. All mutations happen in
// one transaction; the PENDING->ACCEPTED conditional transition is the gate
// that makes a second concurrent join fail cleanly instead of double-resolving.
func (s *customBetService) Join(ctx context.Context, betID, userID string) (*models.JoinResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	bet, err := uow.CustomBetRepository().GetByID(ctx, betID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bet: %w", err)
	}
	if bet == nil {
		return nil, &NotFoundError{Entity: "bet", ID: betID}
	}

	if !bet.CanBeJoined() {
		return nil, NewValidationError("bet is no longer available to join")
	}
	if bet.CreatorID == userID {
		return nil, NewAuthorizationError("cannot join your own bet")
	}

	alreadyJoined, err := uow.ParticipantRepository().Exists(ctx, betID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing participation: %w", err)
	}
	if alreadyJoined {
		return nil, NewConflictError("you have already joined this bet")
	}

	// Back-fill the creator's participant row for bets created before it was
	// written at creation time.
	if err := s.ensureCreatorParticipant(ctx, uow, bet); err != nil {
		return nil, err
	}

	joinerPick := bet.CreatorPickType.Opposite()
	joiner := &models.Participant{
		BetID:    betID,
		UserID:   userID,
		PickType: joinerPick,
	}
	if err := uow.ParticipantRepository().Create(ctx, joiner); err != nil {
		return nil, err
	}

	if err := uow.CustomBetRepository().TransitionStatus(ctx, betID, models.BetStatusPending, models.BetStatusAccepted); err != nil {
		return nil, err
	}
	bet.Status = models.BetStatusAccepted

	// Joining resolves the bet synchronously; results are instant by design.
	outcome := s.outcomes.Generate()
	if err := s.applyOutcome(ctx, uow, bet, outcome); err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.BetJoinedEvent{
		BetID:      betID,
		JoinerID:   userID,
		JoinerPick: joinerPick,
	})
	uow.EventBus().Publish(events.BetResolvedEvent{
		BetID:   betID,
		Outcome: outcome,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	yourResult := models.OutcomeTBD
	if outcome.IsDecided() {
		yourResult = DerivePersonalOutcome(outcome, joinerPick)
	}

	return &models.JoinResult{
		Bet:         bet,
		YourPick:    joinerPick,
		CreatorPick: bet.CreatorPickType,
		Outcome:     outcome,
		YourResult:  yourResult,
	}, nil
}

// Decline declines a PENDING bet; terminal, no counters touched
func (s *customBetService) Decline(ctx context.Context, betID, userID string) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	bet, err := uow.CustomBetRepository().GetByID(ctx, betID)
	if err != nil {
		return fmt.Errorf("failed to get bet: %w", err)
	}
	if bet == nil {
		return &NotFoundError{Entity: "bet", ID: betID}
	}

	if !bet.CanBeDeclined() {
		return NewValidationError("bet is no longer pending")
	}

	if err := uow.CustomBetRepository().TransitionStatus(ctx, betID, models.BetStatusPending, models.BetStatusDeclined); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Resolve re-rolls the outcome of an ACCEPTED bet still at TBD. Bets already
// COMPLETED are rejected, which makes resolution exactly-once.
func (s *customBetService) Resolve(ctx context.Context, betID string) (*models.ResolveResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	bet, err := uow.CustomBetRepository().GetByID(ctx, betID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bet: %w", err)
	}
	if bet == nil {
		return nil, &NotFoundError{Entity: "bet", ID: betID}
	}

	if !bet.CanBeResolved() {
		return nil, NewValidationError("bet must be accepted to resolve")
	}

	participants, err := uow.ParticipantRepository().ListByBet(ctx, betID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}

	outcome := s.outcomes.Generate()
	if err := s.applyOutcome(ctx, uow, bet, outcome); err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.BetResolvedEvent{
		BetID:   betID,
		Outcome: outcome,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.ResolveResult{
		Outcome:           outcome,
		ParticipantsCount: len(participants),
	}, nil
}

// applyOutcome records a rolled outcome on the bet and its participants,
// incrementing user counters for decided outcomes. Called within a
// transaction from both the join path and the explicit resolve path.
func (s *customBetService) applyOutcome(ctx context.Context, uow UnitOfWork, bet *models.CustomBet, outcome models.Outcome) error {
	if outcome == models.OutcomeTBD {
		// Resolution deferred: the bet stays ACCEPTED and nobody's record
		// changes.
		if err := uow.CustomBetRepository().SetOutcome(ctx, bet.ID, models.BetStatusAccepted, models.OutcomeTBD); err != nil {
			return err
		}
		if err := uow.ParticipantRepository().SetOutcomeForBet(ctx, bet.ID, models.OutcomeTBD); err != nil {
			return err
		}
		bet.Status = models.BetStatusAccepted
		tbd := models.OutcomeTBD
		bet.Outcome = &tbd
		return nil
	}

	if err := uow.CustomBetRepository().SetOutcome(ctx, bet.ID, models.BetStatusCompleted, outcome); err != nil {
		return err
	}
	bet.Status = models.BetStatusCompleted
	decided := outcome
	bet.Outcome = &decided

	participants, err := uow.ParticipantRepository().ListByBet(ctx, bet.ID)
	if err != nil {
		return fmt.Errorf("failed to get participants: %w", err)
	}

	for _, p := range participants {
		personal := DerivePersonalOutcome(outcome, p.PickType)
		if err := uow.ParticipantRepository().UpdateOutcome(ctx, p.ID, personal); err != nil {
			return err
		}

		if personal == models.OutcomeWin {
			err = uow.UserRepository().IncrementWins(ctx, p.UserID, 1)
		} else {
			err = uow.UserRepository().IncrementLosses(ctx, p.UserID, 1)
		}
		if err != nil {
			return err
		}
	}

	return nil
}

// ensureCreatorParticipant back-fills the creator's participant row if it is
// missing. Bets created before rows were written at creation time only get
// one on first join.
func (s *customBetService) ensureCreatorParticipant(ctx context.Context, uow UnitOfWork, bet *models.CustomBet) error {
	exists, err := uow.ParticipantRepository().Exists(ctx, bet.ID, bet.CreatorID)
	if err != nil {
		return fmt.Errorf("failed to check creator participation: %w", err)
	}
	if exists {
		return nil
	}

	creator := &models.Participant{
		BetID:    bet.ID,
		UserID:   bet.CreatorID,
		PickType: bet.CreatorPickType,
	}
	if err := uow.ParticipantRepository().Create(ctx, creator); err != nil {
		return err
	}

	return nil
}

// RetrofitCreatorParticipants backfills creator participant rows for legacy
// ACCEPTED/COMPLETED bets, back-deriving the creator's personal outcome from
// the bet-level outcome already on record. Idempotent: bets that already have
// the row are not selected, so a second run repairs zero.
func (s *customBetService) RetrofitCreatorParticipants(ctx context.Context) (int, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	bets, err := uow.CustomBetRepository().ListMissingCreatorParticipant(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to scan for bets needing retrofit: %w", err)
	}

	log.WithField("count", len(bets)).Info("Found bets needing creator participant retrofit")

	for _, bet := range bets {
		var outcome *models.Outcome
		if bet.Outcome != nil {
			derived := *bet.Outcome
			if derived.IsDecided() {
				derived = DerivePersonalOutcome(*bet.Outcome, bet.CreatorPickType)
			}
			outcome = &derived
		}

		creator := &models.Participant{
			BetID:    bet.ID,
			UserID:   bet.CreatorID,
			PickType: bet.CreatorPickType,
			Outcome:  outcome,
		}
		if err := uow.ParticipantRepository().Create(ctx, creator); err != nil {
			return 0, fmt.Errorf("failed to retrofit bet %s: %w", bet.ID, err)
		}
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithField("count", len(bets)).Info("Retrofitted creator participants")

	return len(bets), nil
}
