package models

import "fmt"

// Outcome represents the ternary result of a resolution event
type Outcome string

const (
	OutcomeWin  Outcome = "WIN"
	OutcomeLoss Outcome = "LOSS"
	OutcomeTBD  Outcome = "TBD"
)

// IsDecided reports whether the outcome counts toward win/loss records
func (o Outcome) IsDecided() bool {
	return o == OutcomeWin || o == OutcomeLoss
}

// PickType represents an OVER/UNDER side on a statistic line
type PickType string

const (
	PickTypeOver  PickType = "OVER"
	PickTypeUnder PickType = "UNDER"
)

// Opposite returns the other side of the line
func (p PickType) Opposite() PickType {
	if p == PickTypeOver {
		return PickTypeUnder
	}
	return PickTypeOver
}

// ParsePickType validates a raw pick type string
func ParsePickType(s string) (PickType, error) {
	switch PickType(s) {
	case PickTypeOver, PickTypeUnder:
		return PickType(s), nil
	default:
		return "", fmt.Errorf("pick type must be OVER or UNDER, got %q", s)
	}
}
