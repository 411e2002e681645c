package service

import (
	"context"
	"fmt"
	"sort"

	"propbets/models"
)

type leaderboardService struct {
	uowFactory UnitOfWorkFactory
}

// NewLeaderboardService creates a service that derives rankings on read from
// the persisted counters and resolution history.
func NewLeaderboardService(uowFactory UnitOfWorkFactory) LeaderboardService {
	return &leaderboardService{uowFactory: uowFactory}
}

// Leaderboard builds ranked entries for every user with at least one decided
// result, ordered by the requested key with win rate as tie-break.
func (s *leaderboardService) Leaderboard(ctx context.Context, sortBy models.LeaderboardSort, limit, offset int) ([]*models.LeaderboardEntry, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	users, err := uow.UserRepository().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	entries := make([]*models.LeaderboardEntry, 0, len(users))
	for _, user := range users {
		if user.TotalPicks() == 0 {
			continue
		}

		streak, err := s.streakFor(ctx, uow, user.ID)
		if err != nil {
			return nil, err
		}

		entries = append(entries, &models.LeaderboardEntry{
			UserID:     user.ID,
			Username:   user.Username,
			Wins:       user.Wins,
			Losses:     user.Losses,
			TotalPicks: user.TotalPicks(),
			WinRate:    user.WinRate(),
			Streak:     streak,
		})
	}

	sortEntries(entries, sortBy)
	for i, entry := range entries {
		entry.Rank = i + 1
	}

	if offset >= len(entries) {
		return []*models.LeaderboardEntry{}, nil
	}
	entries = entries[offset:]
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}

	return entries, nil
}

// UserRank returns a single user's entry with its rank computed against the
// full win-rate ordering, including users the public board filters out.
func (s *leaderboardService) UserRank(ctx context.Context, userID string) (*models.LeaderboardEntry, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	users, err := uow.UserRepository().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	entries := make([]*models.LeaderboardEntry, 0, len(users))
	for _, user := range users {
		entries = append(entries, &models.LeaderboardEntry{
			UserID:     user.ID,
			Username:   user.Username,
			Wins:       user.Wins,
			Losses:     user.Losses,
			TotalPicks: user.TotalPicks(),
			WinRate:    user.WinRate(),
		})
	}

	sortEntries(entries, models.SortByWinRate)

	for i, entry := range entries {
		if entry.UserID == userID {
			entry.Rank = i + 1
			streak, err := s.streakFor(ctx, uow, userID)
			if err != nil {
				return nil, err
			}
			entry.Streak = streak
			return entry, nil
		}
	}

	return nil, &NotFoundError{Entity: "user", ID: userID}
}

// Streak returns the signed length of the user's current run: positive for
// consecutive wins, negative for consecutive losses, zero with no history.
func (s *leaderboardService) Streak(ctx context.Context, userID string) (int, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return s.streakFor(ctx, uow, userID)
}

// streakFor walks the user's decided results, newest first, across both
// standalone picks and custom-bet participations.
func (s *leaderboardService) streakFor(ctx context.Context, uow UnitOfWork, userID string) (int, error) {
	pickResults, err := uow.PickRepository().ResolvedResultsByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get pick results: %w", err)
	}
	betResults, err := uow.ParticipantRepository().ResolvedResultsByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get bet results: %w", err)
	}

	results := make([]*models.ResolvedResult, 0, len(pickResults)+len(betResults))
	results = append(results, pickResults...)
	results = append(results, betResults...)
	sort.Slice(results, func(i, j int) bool {
		return results[i].DecidedAt.After(results[j].DecidedAt)
	})

	if len(results) == 0 {
		return 0, nil
	}

	run := 0
	head := results[0].Outcome
	for _, r := range results {
		if r.Outcome != head {
			break
		}
		run++
	}

	if head == models.OutcomeLoss {
		return -run, nil
	}
	return run, nil
}

// sortEntries orders entries by the primary key descending. Win rate breaks
// ties for the other keys; raw wins break ties when win rate is the key
// itself, so a 10-2 record beats a 1-0 record at the same percentage band.
func sortEntries(entries []*models.LeaderboardEntry, sortBy models.LeaderboardSort) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		switch sortBy {
		case models.SortByStreak:
			if a.Streak != b.Streak {
				return a.Streak > b.Streak
			}
		case models.SortByTotalPicks:
			if a.TotalPicks != b.TotalPicks {
				return a.TotalPicks > b.TotalPicks
			}
		case models.SortByTotalWins:
			if a.Wins != b.Wins {
				return a.Wins > b.Wins
			}
		default:
			if a.WinRate != b.WinRate {
				return a.WinRate > b.WinRate
			}
			return a.Wins > b.Wins
		}
		return a.WinRate > b.WinRate
	})
}
