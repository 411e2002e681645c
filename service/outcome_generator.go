package service

import (
	"math/rand"
	"sync"
	"time"

	"propbets/models"
)

// randomOutcomeGenerator rolls WIN, LOSS and TBD with probability 1/3 each.
// Custom-bet resolution and standalone pick resolution share one generator so
// both paths have identical distributions.
type randomOutcomeGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewOutcomeGenerator creates a generator seeded from the current time
func NewOutcomeGenerator() OutcomeGenerator {
	return NewSeededOutcomeGenerator(time.Now().UnixNano())
}

// NewSeededOutcomeGenerator creates a generator with a fixed seed for
// deterministic tests
func NewSeededOutcomeGenerator(seed int64) OutcomeGenerator {
	return &randomOutcomeGenerator{rng: rand.New(rand.NewSource(seed))}
}

func (g *randomOutcomeGenerator) Generate() models.Outcome {
	g.mu.Lock()
	r := g.rng.Float64()
	g.mu.Unlock()

	switch {
	case r < 1.0/3.0:
		return models.OutcomeWin
	case r < 2.0/3.0:
		return models.OutcomeLoss
	default:
		return models.OutcomeTBD
	}
}

// DerivePersonalOutcome maps a decided bet-level outcome onto one
// participant's personal result. A bet outcome of WIN means OVER was correct,
// LOSS means UNDER was correct; a participant wins iff their side matches.
// Shared by the join, resolve and retrofit paths.
func DerivePersonalOutcome(betOutcome models.Outcome, pick models.PickType) models.Outcome {
	winningSide := models.PickTypeOver
	if betOutcome == models.OutcomeLoss {
		winningSide = models.PickTypeUnder
	}

	if pick == winningSide {
		return models.OutcomeWin
	}
	return models.OutcomeLoss
}
