package metrics

import (
	"context"

	"propbets/events"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds the prometheus instruments fed by the event bus
type Collector struct {
	usersCreated  prometheus.Counter
	betsCreated   prometheus.Counter
	betsJoined    prometheus.Counter
	betOutcomes   *prometheus.CounterVec
	picksResolved *prometheus.CounterVec
}

// NewCollector registers the instruments on the default registry
func NewCollector() *Collector {
	return &Collector{
		usersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "propbets_users_created_total",
			Help: "Accounts created, guest accounts included.",
		}),
		betsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "propbets_custom_bets_created_total",
			Help: "Custom bets proposed.",
		}),
		betsJoined: promauto.NewCounter(prometheus.CounterOpts{
			Name: "propbets_custom_bets_joined_total",
			Help: "Custom bets joined by a second participant.",
		}),
		betOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "propbets_custom_bet_outcomes_total",
			Help: "Custom bet resolution rolls by outcome.",
		}, []string{"outcome"}),
		picksResolved: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "propbets_picks_resolved_total",
			Help: "Standalone picks resolved by outcome.",
		}, []string{"outcome"}),
	}
}

// Subscribe attaches the collector to the event bus
func (c *Collector) Subscribe(bus *events.Bus) {
	bus.Subscribe(events.EventTypeUserCreated, func(ctx context.Context, e events.Event) {
		c.usersCreated.Inc()
	})
	bus.Subscribe(events.EventTypeBetCreated, func(ctx context.Context, e events.Event) {
		c.betsCreated.Inc()
	})
	bus.Subscribe(events.EventTypeBetJoined, func(ctx context.Context, e events.Event) {
		c.betsJoined.Inc()
	})
	bus.Subscribe(events.EventTypeBetResolved, func(ctx context.Context, e events.Event) {
		if ev, ok := e.(events.BetResolvedEvent); ok {
			c.betOutcomes.WithLabelValues(string(ev.Outcome)).Inc()
		}
	})
	bus.Subscribe(events.EventTypePickResolved, func(ctx context.Context, e events.Event) {
		if ev, ok := e.(events.PickResolvedEvent); ok {
			c.picksResolved.WithLabelValues(string(ev.Outcome)).Inc()
		}
	})
}
