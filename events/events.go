package events

import (
	"context"
	"sync"

	"wagerbook/domain/entities"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeLedgerChange       EventType = "ledger_change"
	EventTypeWagerPlaced        EventType = "wager_placed"
	EventTypeWagerSettled       EventType = "wager_settled"
	EventTypeParlayLegSettled   EventType = "parlay_leg_settled"
	EventTypeSettlementPassDone EventType = "settlement_pass_done"
	EventTypeStaleRetry         EventType = "stale_retry"
	EventTypeOddsMoved          EventType = "odds_moved"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// LedgerChangeEvent represents a committed change to a ledger account
type LedgerChangeEvent struct {
	AccountID       uuid.UUID
	OldRemaining    decimal.Decimal
	NewRemaining    decimal.Decimal
	ChangeAmount    decimal.Decimal
	UnitsInvolved   decimal.Decimal
	TransactionType entities.TransactionType
}

func (e LedgerChangeEvent) Type() EventType {
	return EventTypeLedgerChange
}

// WagerPlacedEvent represents a slip that was accepted
type WagerPlacedEvent struct {
	AccountID  uuid.UUID
	Mode       string
	WagerIDs   []uuid.UUID
	Legs       int
	Commitment decimal.Decimal
}

func (e WagerPlacedEvent) Type() EventType {
	return EventTypeWagerPlaced
}

// WagerSettledEvent represents a straight wager or parlay reaching a terminal status
type WagerSettledEvent struct {
	WagerID   uuid.UUID
	AccountID uuid.UUID
	Parlay    bool
	Status    entities.WagerStatus
	Stake     decimal.Decimal
	Payout    decimal.Decimal
}

func (e WagerSettledEvent) Type() EventType {
	return EventTypeWagerSettled
}

// ParlayLegSettledEvent represents one parlay leg receiving a verdict
type ParlayLegSettledEvent struct {
	ParlayID uuid.UUID
	LegID    uuid.UUID
	Status   entities.WagerStatus
}

func (e ParlayLegSettledEvent) Type() EventType {
	return EventTypeParlayLegSettled
}

// SettlementPassDoneEvent summarises one settlement pass
type SettlementPassDoneEvent struct {
	Settled   int
	Deferred  int
	Conflicts int
	Failed    int
}

func (e SettlementPassDoneEvent) Type() EventType {
	return EventTypeSettlementPassDone
}

// StaleRetryEvent is emitted each time an optimistic ledger write lost a race and is retried
type StaleRetryEvent struct {
	Operation string
	Attempt   int
}

func (e StaleRetryEvent) Type() EventType {
	return EventTypeStaleRetry
}

// OddsMovedEvent represents an applied line or price change
type OddsMovedEvent struct {
	MarketKind entities.MarketKind
	MarketID   uuid.UUID
	Side       entities.Side
	OldValue   decimal.Decimal
	NewValue   decimal.Decimal
}

func (e OddsMovedEvent) Type() EventType {
	return EventTypeOddsMoved
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

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers asynchronously
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// Publish emits the event immediately. It lets the bus stand in wherever a
// publisher is expected outside of a unit of work.
func (b *Bus) Publish(event Event) error {
	b.Emit(context.Background(), event)
	return nil
}

// TransactionalBus holds events raised inside a unit of work until the
// transaction commits. Rolled back work never reaches subscribers.
type TransactionalBus struct {
	real    *Bus
	mu      sync.Mutex
	pending []Event
}

// NewTransactionalBus creates a transactional bus flushing into real
func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

// Publish stashes the event until Flush
func (b *TransactionalBus) Publish(e Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = append(b.pending, e)
	return nil
}

// Flush is called after a successful commit
func (b *TransactionalBus) Flush(ctx context.Context) {
	b.mu.Lock()
	pending := b.pending
	b.pending = nil
	b.mu.Unlock()

	log.WithField("pendingEventCount", len(pending)).Debug("Flushing committed events")

	// Handlers outlive the request, so do not hand them the transaction's context
	eventCtx := context.WithoutCancel(ctx)
	for _, ev := range pending {
		if b.real != nil {
			b.real.Emit(eventCtx, ev)
		}
	}
}

// Discard is called after a rollback
func (b *TransactionalBus) Discard() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = nil
}

// Pending returns the number of events waiting for commit
func (b *TransactionalBus) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}
