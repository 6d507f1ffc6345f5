package services

import (
	"testing"
	"time"

	"wagerbook/domain/entities"
	"wagerbook/domain/testhelpers"
	"wagerbook/events"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// TestMocks aggregates all repository mocks for testing
type TestMocks struct {
	AccountRepo     *testhelpers.MockLedgerAccountRepository
	GameRepo        *testhelpers.MockGameRepository
	FutureRepo      *testhelpers.MockFutureRepository
	PropRepo        *testhelpers.MockPropRepository
	SlateRepo       *testhelpers.MockSlateRepository
	WagerRepo       *testhelpers.MockStraightWagerRepository
	ParlayRepo      *testhelpers.MockParlayRepository
	LedgerEntryRepo *testhelpers.MockLedgerEntryRepository
	OddsHistoryRepo *testhelpers.MockOddsHistoryRepository
	EventPublisher  *testhelpers.MockEventPublisher
}

// NewTestMocks creates a new set of mocks
func NewTestMocks() *TestMocks {
	return &TestMocks{
		AccountRepo:     &testhelpers.MockLedgerAccountRepository{},
		GameRepo:        &testhelpers.MockGameRepository{},
		FutureRepo:      &testhelpers.MockFutureRepository{},
		PropRepo:        &testhelpers.MockPropRepository{},
		SlateRepo:       &testhelpers.MockSlateRepository{},
		WagerRepo:       &testhelpers.MockStraightWagerRepository{},
		ParlayRepo:      &testhelpers.MockParlayRepository{},
		LedgerEntryRepo: &testhelpers.MockLedgerEntryRepository{},
		OddsHistoryRepo: &testhelpers.MockOddsHistoryRepository{},
		EventPublisher:  &testhelpers.MockEventPublisher{},
	}
}

// AssertAllExpectations verifies all mock expectations were met
func (m *TestMocks) AssertAllExpectations(t *testing.T) {
	m.AccountRepo.AssertExpectations(t)
	m.GameRepo.AssertExpectations(t)
	m.FutureRepo.AssertExpectations(t)
	m.PropRepo.AssertExpectations(t)
	m.SlateRepo.AssertExpectations(t)
	m.WagerRepo.AssertExpectations(t)
	m.ParlayRepo.AssertExpectations(t)
	m.LedgerEntryRepo.AssertExpectations(t)
	m.OddsHistoryRepo.AssertExpectations(t)
	m.EventPublisher.AssertExpectations(t)
}

// ExpectAccountLookup returns a copy of account on every read so a test can
// compare the persisted result with the original
func (m *TestMocks) ExpectAccountLookup(account *entities.LedgerAccount) {
	m.AccountRepo.On("GetByID", mock.Anything, account.ID).Return(account.Clone(), nil)
}

// ExpectBalanceUpdate expects a versioned update leaving remaining at the given value
func (m *TestMocks) ExpectBalanceUpdate(accountID uuid.UUID, remaining string) *mock.Call {
	want := units(remaining)
	return m.AccountRepo.On("UpdateBalances", mock.Anything, mock.MatchedBy(func(a *entities.LedgerAccount) bool {
		return a.ID == accountID && a.Remaining.Equal(want)
	})).Return(nil)
}

// ExpectLedgerEntry expects one ledger entry of the given type and publishes its event
func (m *TestMocks) ExpectLedgerEntry(accountID uuid.UUID, txType entities.TransactionType) *mock.Call {
	m.ExpectEventPublish(events.EventTypeLedgerChange)
	return m.LedgerEntryRepo.On("Record", mock.Anything, mock.MatchedBy(func(e *entities.LedgerEntry) bool {
		return e.AccountID == accountID && e.TransactionType == txType
	})).Return(nil)
}

// ExpectEventPublish sets up event publisher mock expectations
func (m *TestMocks) ExpectEventPublish(eventType events.EventType) {
	m.EventPublisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		return e.Type() == eventType
	})).Return(nil).Maybe()
}

func units(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestAccount(remaining string) *entities.LedgerAccount {
	return &entities.LedgerAccount{
		ID:          uuid.New(),
		DisplayName: "tester",
		Remaining:   units(remaining),
		Wagered:     decimal.Zero,
		Won:         decimal.Zero,
		Lost:        decimal.Zero,
		Version:     1,
	}
}

func newTestSlate(status entities.SlateStatus) *entities.WeeklySlate {
	return &entities.WeeklySlate{ID: uuid.New(), Season: 2024, Week: 6, Status: status}
}

func newTestGame() *entities.Game {
	return &entities.Game{
		ID:                   uuid.New(),
		Season:               2024,
		Week:                 6,
		HomeTeam:             "Bears",
		AwayTeam:             "Lions",
		Status:               entities.GameStatusUpcoming,
		SpreadLine:           units("-3"),
		HomeSpreadOdds:       -110,
		AwaySpreadOdds:       -110,
		HomeMoneyline:        -150,
		AwayMoneyline:        130,
		TotalLine:            units("44.5"),
		OverOdds:             -110,
		UnderOdds:            -110,
		OpeningSpreadLine:    units("-3"),
		OpeningHomeMoneyline: -150,
		OpeningAwayMoneyline: 130,
		OpeningTotalLine:     units("44.5"),
		CreatedAt:            time.Now(),
	}
}

func newTestFuture(odds int) *entities.Future {
	return &entities.Future{
		ID:            uuid.New(),
		Category:      "Champion",
		SelectionName: "Bears",
		Odds:          odds,
		IsActive:      true,
	}
}

func newTestProp(team *string) *entities.Prop {
	counter := "No"
	counterOdds := -130
	return &entities.Prop{
		ID:               uuid.New(),
		Description:      "Longest touchdown over 50 yards",
		SelectionName:    "Yes",
		Odds:             110,
		CounterSelection: &counter,
		CounterOdds:      &counterOdds,
		Team:             team,
	}
}

// pendingStraight builds a pending straight wager on a game market
func pendingStraight(accountID uuid.UUID, sel entities.MarketSelection, stake, payout string) *entities.StraightWager {
	return &entities.StraightWager{
		ID:              uuid.New(),
		AccountID:       accountID,
		Selection:       sel,
		Stake:           units(stake),
		PotentialPayout: units(payout),
		Status:          entities.WagerStatusPending,
	}
}

// pendingParlay builds a pending parlay with one pending leg per selection
func pendingParlay(accountID uuid.UUID, stake string, totalOdds int, payout string, selections ...entities.MarketSelection) *entities.ParlayWager {
	parlay := &entities.ParlayWager{
		ID:              uuid.New(),
		AccountID:       accountID,
		Stake:           units(stake),
		TotalOdds:       totalOdds,
		PotentialPayout: units(payout),
		Status:          entities.WagerStatusPending,
	}
	for i, sel := range selections {
		parlay.Legs = append(parlay.Legs, &entities.ParlayLeg{
			ID:        uuid.New(),
			ParlayID:  parlay.ID,
			Position:  i + 1,
			Selection: sel,
			Status:    entities.WagerStatusPending,
		})
	}
	return parlay
}
