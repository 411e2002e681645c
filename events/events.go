package events

import (
	"context"
	"sync"

	"propbets/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeUserCreated  EventType = "user_created"
	EventTypeBetCreated   EventType = "bet_created"
	EventTypeBetJoined    EventType = "bet_joined"
	EventTypeBetResolved  EventType = "bet_resolved"
	EventTypePickResolved EventType = "pick_resolved"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// UserCreatedEvent represents a new account creation
type UserCreatedEvent struct {
	UserID   string
	Username string
	Guest    bool
}

func (e UserCreatedEvent) Type() EventType {
	return EventTypeUserCreated
}

// BetCreatedEvent represents a new PENDING custom bet
type BetCreatedEvent struct {
	BetID     string
	CreatorID string
	Player    string
	Stat      string
	Line      float64
}

func (e BetCreatedEvent) Type() EventType {
	return EventTypeBetCreated
}

// BetJoinedEvent represents a second participant joining a bet
type BetJoinedEvent struct {
	BetID      string
	JoinerID   string
	JoinerPick models.PickType
}

func (e BetJoinedEvent) Type() EventType {
	return EventTypeBetJoined
}

// BetResolvedEvent represents a resolution roll on a custom bet.
// Outcome may be TBD, in which case no counters changed.
type BetResolvedEvent struct {
	BetID   string
	Outcome models.Outcome
}

func (e BetResolvedEvent) Type() EventType {
	return EventTypeBetResolved
}

// PickResolvedEvent represents a decided standalone pick
type PickResolvedEvent struct {
	PickID  string
	UserID  string
	Outcome models.Outcome
}

func (e PickResolvedEvent) Type() EventType {
	return EventTypePickResolved
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Call handlers asynchronously to avoid blocking the request path
	for _, handler := range handlers {
		go func(h Handler) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType": event.Type(),
						"panic":     r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler)
	}
}

// TransactionalBus holds pending events coupled to a unit of work and
// flushes them to the underlying bus only after a successful commit.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

// NewTransactionalBus creates a transactional wrapper around a bus
func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

// Publish stashes an event until Flush
func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush emits all pending events; called after a successful DB commit.
// Events are emitted on a background context so they outlive the request.
func (b *TransactionalBus) Flush(ctx context.Context) {
	eventCtx := context.Background()
	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
}

// Discard drops pending events; called after rollback
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
