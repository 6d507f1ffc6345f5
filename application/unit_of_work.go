package application

import (
	"context"

	"wagerbook/domain/interfaces"
)

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes the events raised inside it
	Commit() error

	// Rollback rolls back the transaction and drops its events
	Rollback() error

	// Repository getters
	LedgerAccountRepository() interfaces.LedgerAccountRepository
	GameRepository() interfaces.GameRepository
	FutureRepository() interfaces.FutureRepository
	PropRepository() interfaces.PropRepository
	SlateRepository() interfaces.SlateRepository
	StraightWagerRepository() interfaces.StraightWagerRepository
	ParlayRepository() interfaces.ParlayRepository
	LedgerEntryRepository() interfaces.LedgerEntryRepository
	OddsHistoryRepository() interfaces.OddsHistoryRepository
	EventBus() interfaces.EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create returns a new UnitOfWork that has not begun yet
	Create() UnitOfWork
}
