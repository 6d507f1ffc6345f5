package testhelpers

import (
	"context"
	"time"

	"wagerbook/domain/entities"
	"wagerbook/events"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockLedgerAccountRepository is a mock implementation of LedgerAccountRepository
type MockLedgerAccountRepository struct {
	mock.Mock
}

func (m *MockLedgerAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.LedgerAccount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LedgerAccount), args.Error(1)
}

func (m *MockLedgerAccountRepository) GetByDisplayName(ctx context.Context, displayName string) (*entities.LedgerAccount, error) {
	args := m.Called(ctx, displayName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LedgerAccount), args.Error(1)
}

func (m *MockLedgerAccountRepository) Create(ctx context.Context, account *entities.LedgerAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockLedgerAccountRepository) UpdateBalances(ctx context.Context, account *entities.LedgerAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockLedgerAccountRepository) GetAll(ctx context.Context) ([]*entities.LedgerAccount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.LedgerAccount), args.Error(1)
}

// MockGameRepository is a mock implementation of GameRepository
type MockGameRepository struct {
	mock.Mock
}

func (m *MockGameRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Game, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Game), args.Error(1)
}

func (m *MockGameRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.Game, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Game), args.Error(1)
}

func (m *MockGameRepository) GetBySeasonWeek(ctx context.Context, season, week int) ([]*entities.Game, error) {
	args := m.Called(ctx, season, week)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Game), args.Error(1)
}

func (m *MockGameRepository) Create(ctx context.Context, game *entities.Game) error {
	args := m.Called(ctx, game)
	return args.Error(0)
}

func (m *MockGameRepository) UpdateLines(ctx context.Context, game *entities.Game) error {
	args := m.Called(ctx, game)
	return args.Error(0)
}

func (m *MockGameRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.GameStatus, homeScore, awayScore *int) error {
	args := m.Called(ctx, id, status, homeScore, awayScore)
	return args.Error(0)
}

// MockFutureRepository is a mock implementation of FutureRepository
type MockFutureRepository struct {
	mock.Mock
}

func (m *MockFutureRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Future, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Future), args.Error(1)
}

func (m *MockFutureRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.Future, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Future), args.Error(1)
}

func (m *MockFutureRepository) Create(ctx context.Context, future *entities.Future) error {
	args := m.Called(ctx, future)
	return args.Error(0)
}

func (m *MockFutureRepository) UpdateOdds(ctx context.Context, id uuid.UUID, odds int) error {
	args := m.Called(ctx, id, odds)
	return args.Error(0)
}

func (m *MockFutureRepository) DeclareResult(ctx context.Context, id uuid.UUID, result entities.FutureResult) error {
	args := m.Called(ctx, id, result)
	return args.Error(0)
}

// MockPropRepository is a mock implementation of PropRepository
type MockPropRepository struct {
	mock.Mock
}

func (m *MockPropRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Prop, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Prop), args.Error(1)
}

func (m *MockPropRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.Prop, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Prop), args.Error(1)
}

func (m *MockPropRepository) Create(ctx context.Context, prop *entities.Prop) error {
	args := m.Called(ctx, prop)
	return args.Error(0)
}

func (m *MockPropRepository) DeclareResult(ctx context.Context, id uuid.UUID, result entities.PropResult) error {
	args := m.Called(ctx, id, result)
	return args.Error(0)
}

// MockSlateRepository is a mock implementation of SlateRepository
type MockSlateRepository struct {
	mock.Mock
}

func (m *MockSlateRepository) GetCurrent(ctx context.Context) (*entities.WeeklySlate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WeeklySlate), args.Error(1)
}

func (m *MockSlateRepository) GetBySeasonWeek(ctx context.Context, season, week int) (*entities.WeeklySlate, error) {
	args := m.Called(ctx, season, week)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WeeklySlate), args.Error(1)
}

func (m *MockSlateRepository) GetByStatus(ctx context.Context, status entities.SlateStatus) ([]*entities.WeeklySlate, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.WeeklySlate), args.Error(1)
}

func (m *MockSlateRepository) Create(ctx context.Context, slate *entities.WeeklySlate) error {
	args := m.Called(ctx, slate)
	return args.Error(0)
}

func (m *MockSlateRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.SlateStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockStraightWagerRepository is a mock implementation of StraightWagerRepository
type MockStraightWagerRepository struct {
	mock.Mock
}

func (m *MockStraightWagerRepository) Create(ctx context.Context, wager *entities.StraightWager) error {
	args := m.Called(ctx, wager)
	return args.Error(0)
}

func (m *MockStraightWagerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.StraightWager, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.StraightWager), args.Error(1)
}

func (m *MockStraightWagerRepository) GetByAccount(ctx context.Context, accountID uuid.UUID) ([]*entities.StraightWager, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.StraightWager), args.Error(1)
}

func (m *MockStraightWagerRepository) GetPending(ctx context.Context) ([]*entities.StraightWager, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.StraightWager), args.Error(1)
}

func (m *MockStraightWagerRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entities.WagerStatus, settledAt time.Time) (bool, error) {
	args := m.Called(ctx, id, from, to, settledAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockStraightWagerRepository) GetSideActions(ctx context.Context, kind entities.MarketKind, marketID uuid.UUID) ([]*entities.SideAction, error) {
	args := m.Called(ctx, kind, marketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.SideAction), args.Error(1)
}

func (m *MockStraightWagerRepository) CountPendingForGames(ctx context.Context, gameIDs []uuid.UUID) (int, error) {
	args := m.Called(ctx, gameIDs)
	return args.Int(0), args.Error(1)
}

// MockParlayRepository is a mock implementation of ParlayRepository
type MockParlayRepository struct {
	mock.Mock
}

func (m *MockParlayRepository) Create(ctx context.Context, parlay *entities.ParlayWager) error {
	args := m.Called(ctx, parlay)
	return args.Error(0)
}

func (m *MockParlayRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.ParlayWager, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ParlayWager), args.Error(1)
}

func (m *MockParlayRepository) GetByAccount(ctx context.Context, accountID uuid.UUID) ([]*entities.ParlayWager, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ParlayWager), args.Error(1)
}

func (m *MockParlayRepository) GetPending(ctx context.Context) ([]*entities.ParlayWager, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ParlayWager), args.Error(1)
}

func (m *MockParlayRepository) TransitionLegStatus(ctx context.Context, legID uuid.UUID, from, to entities.WagerStatus, settledAt time.Time) (bool, error) {
	args := m.Called(ctx, legID, from, to, settledAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockParlayRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entities.WagerStatus, payout decimal.Decimal, settledAt time.Time) (bool, error) {
	args := m.Called(ctx, id, from, to, payout, settledAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockParlayRepository) CountPendingLegsForGames(ctx context.Context, gameIDs []uuid.UUID) (int, error) {
	args := m.Called(ctx, gameIDs)
	return args.Int(0), args.Error(1)
}

// MockLedgerEntryRepository is a mock implementation of LedgerEntryRepository
type MockLedgerEntryRepository struct {
	mock.Mock
}

func (m *MockLedgerEntryRepository) Record(ctx context.Context, entry *entities.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerEntryRepository) GetByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]*entities.LedgerEntry, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.LedgerEntry), args.Error(1)
}

// MockOddsHistoryRepository is a mock implementation of OddsHistoryRepository
type MockOddsHistoryRepository struct {
	mock.Mock
}

func (m *MockOddsHistoryRepository) Record(ctx context.Context, history *entities.OddsHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockOddsHistoryRepository) GetByMarket(ctx context.Context, kind entities.MarketKind, marketID uuid.UUID) ([]*entities.OddsHistory, error) {
	args := m.Called(ctx, kind, marketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.OddsHistory), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}
