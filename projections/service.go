package projections

import (
	"context"
	"fmt"
	"sync"
	"time"

	"propbets/models"

	log "github.com/sirupsen/logrus"
)

// Fetcher retrieves the full projection board from upstream
type Fetcher interface {
	Fetch(ctx context.Context) ([]*models.Projection, error)
}

// Service serves pages of the projection board through an in-process
// read-through cache. On upstream failure it falls back to the stale payload
// rather than erroring, as long as one fetch has ever succeeded.
type Service struct {
	fetcher Fetcher
	ttl     time.Duration

	mu        sync.RWMutex
	cached    []*models.Projection
	fetchedAt time.Time
}

// NewService creates a projection board service with the given cache TTL
func NewService(fetcher Fetcher, ttl time.Duration) *Service {
	return &Service{
		fetcher: fetcher,
		ttl:     ttl,
	}
}

// Page returns one page of the board and the total projection count.
// Page numbers are 1-based.
func (s *Service) Page(ctx context.Context, page, limit int) ([]*models.Projection, int, error) {
	board, err := s.board(ctx)
	if err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	start := (page - 1) * limit
	if start >= len(board) {
		return []*models.Projection{}, len(board), nil
	}
	end := start + limit
	if end > len(board) {
		end = len(board)
	}

	// Copy the page so callers can annotate it without mutating the cache.
	out := make([]*models.Projection, end-start)
	for i, p := range board[start:end] {
		clone := *p
		out[i] = &clone
	}

	return out, len(board), nil
}

func (s *Service) board(ctx context.Context) ([]*models.Projection, error) {
	s.mu.RLock()
	fresh := s.cached != nil && time.Since(s.fetchedAt) < s.ttl
	cached := s.cached
	s.mu.RUnlock()

	if fresh {
		return cached, nil
	}

	board, err := s.fetcher.Fetch(ctx)
	if err != nil {
		if cached != nil {
			log.WithError(err).Warn("Projection fetch failed, serving stale board")
			return cached, nil
		}
		return nil, fmt.Errorf("failed to load projection board: %w", err)
	}

	s.mu.Lock()
	s.cached = board
	s.fetchedAt = time.Now()
	s.mu.Unlock()

	return board, nil
}
