package interfaces

import (
	"context"
	"time"

	"wagerbook/domain/entities"
	"wagerbook/events"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerAccountRepository defines the interface for ledger account data access.
// Single-row getters return nil, nil when the account does not exist.
type LedgerAccountRepository interface {
	// GetByID retrieves an account by ID, reading the committed row
	GetByID(ctx context.Context, id uuid.UUID) (*entities.LedgerAccount, error)

	// GetByDisplayName retrieves an account by its unique display name
	GetByDisplayName(ctx context.Context, displayName string) (*entities.LedgerAccount, error)

	// Create inserts a new account
	Create(ctx context.Context, account *entities.LedgerAccount) error

	// UpdateBalances writes remaining, wagered, won and lost if the stored
	// version still matches account.Version. On success account.Version is
	// incremented; a mismatch returns entities.ErrStaleBalance.
	UpdateBalances(ctx context.Context, account *entities.LedgerAccount) error

	// GetAll returns every account
	GetAll(ctx context.Context) ([]*entities.LedgerAccount, error)
}

// GameRepository defines the interface for game data access
type GameRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Game, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.Game, error)
	GetBySeasonWeek(ctx context.Context, season, week int) ([]*entities.Game, error)
	Create(ctx context.Context, game *entities.Game) error

	// UpdateLines writes the current lines and prices of a game
	UpdateLines(ctx context.Context, game *entities.Game) error

	// UpdateStatus writes status and scores together so the final-score invariant holds
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.GameStatus, homeScore, awayScore *int) error
}

// FutureRepository defines the interface for futures data access
type FutureRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Future, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.Future, error)
	Create(ctx context.Context, future *entities.Future) error
	UpdateOdds(ctx context.Context, id uuid.UUID, odds int) error

	// DeclareResult sets the result and deactivates the future
	DeclareResult(ctx context.Context, id uuid.UUID, result entities.FutureResult) error
}

// PropRepository defines the interface for prop data access
type PropRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Prop, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.Prop, error)
	Create(ctx context.Context, prop *entities.Prop) error
	DeclareResult(ctx context.Context, id uuid.UUID, result entities.PropResult) error
}

// SlateRepository defines the interface for weekly slate data access
type SlateRepository interface {
	// GetCurrent returns the most recent slate by season and week, or nil if none exist
	GetCurrent(ctx context.Context) (*entities.WeeklySlate, error)
	GetBySeasonWeek(ctx context.Context, season, week int) (*entities.WeeklySlate, error)
	GetByStatus(ctx context.Context, status entities.SlateStatus) ([]*entities.WeeklySlate, error)
	Create(ctx context.Context, slate *entities.WeeklySlate) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.SlateStatus) error
}

// StraightWagerRepository defines the interface for straight wager data access
type StraightWagerRepository interface {
	Create(ctx context.Context, wager *entities.StraightWager) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.StraightWager, error)
	GetByAccount(ctx context.Context, accountID uuid.UUID) ([]*entities.StraightWager, error)

	// GetPending returns all pending wagers, oldest first
	GetPending(ctx context.Context) ([]*entities.StraightWager, error)

	// TransitionStatus moves a wager from one status to another only if it is
	// still in the from status. Returns false when another writer got there first.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to entities.WagerStatus, settledAt time.Time) (bool, error)

	// GetSideActions aggregates units and bet counts per side for one market
	GetSideActions(ctx context.Context, kind entities.MarketKind, marketID uuid.UUID) ([]*entities.SideAction, error)

	// CountPendingForGames counts pending wagers referencing any of the games
	CountPendingForGames(ctx context.Context, gameIDs []uuid.UUID) (int, error)
}

// ParlayRepository defines the interface for parlay data access.
// Parlays are always loaded with their legs ordered by position.
type ParlayRepository interface {
	// Create inserts the parlay and all of its legs
	Create(ctx context.Context, parlay *entities.ParlayWager) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.ParlayWager, error)
	GetByAccount(ctx context.Context, accountID uuid.UUID) ([]*entities.ParlayWager, error)
	GetPending(ctx context.Context) ([]*entities.ParlayWager, error)

	// TransitionLegStatus is the compare-and-swap for one leg
	TransitionLegStatus(ctx context.Context, legID uuid.UUID, from, to entities.WagerStatus, settledAt time.Time) (bool, error)

	// TransitionStatus is the compare-and-swap for the parlay itself. The
	// effective payout is written with it since push legs reduce it.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to entities.WagerStatus, payout decimal.Decimal, settledAt time.Time) (bool, error)

	// CountPendingLegsForGames counts pending legs of pending parlays referencing any of the games
	CountPendingLegsForGames(ctx context.Context, gameIDs []uuid.UUID) (int, error)
}

// LedgerEntryRepository defines the interface for the ledger audit trail
type LedgerEntryRepository interface {
	Record(ctx context.Context, entry *entities.LedgerEntry) error
	GetByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]*entities.LedgerEntry, error)
}

// OddsHistoryRepository defines the interface for recorded line movements
type OddsHistoryRepository interface {
	Record(ctx context.Context, history *entities.OddsHistory) error
	GetByMarket(ctx context.Context, kind entities.MarketKind, marketID uuid.UUID) ([]*entities.OddsHistory, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event) error
}
