package repository

import (
	"context"
	"errors"
	"fmt"

	"wagerbook/application"
	"wagerbook/database"
	"wagerbook/domain/interfaces"
	"wagerbook/events"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db               *database.DB
	tx               pgx.Tx
	ctx              context.Context
	transactionalBus *events.TransactionalBus
	accountRepo      interfaces.LedgerAccountRepository
	gameRepo         interfaces.GameRepository
	futureRepo       interfaces.FutureRepository
	propRepo         interfaces.PropRepository
	slateRepo        interfaces.SlateRepository
	wagerRepo        interfaces.StraightWagerRepository
	parlayRepo       interfaces.ParlayRepository
	ledgerEntryRepo  interfaces.LedgerEntryRepository
	oddsHistoryRepo  interfaces.OddsHistoryRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory. Events raised inside
// a unit of work reach eventBus only after its transaction commits.
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus) application.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
	}
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
}

// Create creates a new UnitOfWork instance
func (f *unitOfWorkFactory) Create() application.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	u.accountRepo = newLedgerAccountRepositoryWithTx(tx)
	u.gameRepo = newGameRepositoryWithTx(tx)
	u.futureRepo = newFutureRepositoryWithTx(tx)
	u.propRepo = newPropRepositoryWithTx(tx)
	u.slateRepo = newSlateRepositoryWithTx(tx)
	u.wagerRepo = newStraightWagerRepositoryWithTx(tx)
	u.parlayRepo = newParlayRepositoryWithTx(tx)
	u.ledgerEntryRepo = newLedgerEntryRepositoryWithTx(tx)
	u.oddsHistoryRepo = newOddsHistoryRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	if err != nil {
		u.tx = nil
		u.transactionalBus.Discard()
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// Flush pending events after successful commit
	u.transactionalBus.Flush(u.ctx)

	return nil
}

// Rollback rolls back the transaction. Safe to defer after a Commit.
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil
	u.transactionalBus.Discard()

	return nil
}

func (u *unitOfWork) mustBegin() {
	if u.tx == nil {
		panic("unit of work not started - call Begin() first")
	}
}

// LedgerAccountRepository returns the ledger account repository for this unit of work
func (u *unitOfWork) LedgerAccountRepository() interfaces.LedgerAccountRepository {
	u.mustBegin()
	return u.accountRepo
}

// GameRepository returns the game repository for this unit of work
func (u *unitOfWork) GameRepository() interfaces.GameRepository {
	u.mustBegin()
	return u.gameRepo
}

// FutureRepository returns the future repository for this unit of work
func (u *unitOfWork) FutureRepository() interfaces.FutureRepository {
	u.mustBegin()
	return u.futureRepo
}

// PropRepository returns the prop repository for this unit of work
func (u *unitOfWork) PropRepository() interfaces.PropRepository {
	u.mustBegin()
	return u.propRepo
}

// SlateRepository returns the slate repository for this unit of work
func (u *unitOfWork) SlateRepository() interfaces.SlateRepository {
	u.mustBegin()
	return u.slateRepo
}

// StraightWagerRepository returns the straight wager repository for this unit of work
func (u *unitOfWork) StraightWagerRepository() interfaces.StraightWagerRepository {
	u.mustBegin()
	return u.wagerRepo
}

// ParlayRepository returns the parlay repository for this unit of work
func (u *unitOfWork) ParlayRepository() interfaces.ParlayRepository {
	u.mustBegin()
	return u.parlayRepo
}

// LedgerEntryRepository returns the ledger entry repository for this unit of work
func (u *unitOfWork) LedgerEntryRepository() interfaces.LedgerEntryRepository {
	u.mustBegin()
	return u.ledgerEntryRepo
}

// OddsHistoryRepository returns the odds history repository for this unit of work
func (u *unitOfWork) OddsHistoryRepository() interfaces.OddsHistoryRepository {
	u.mustBegin()
	return u.oddsHistoryRepo
}

// EventBus returns the transactional event publisher for this unit of work
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	return u.transactionalBus
}
