package testutil

import (
	"time"

	"wagerbook/domain/entities"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateTestAccount creates an account with 100 units remaining
func CreateTestAccount(displayName string) *entities.LedgerAccount {
	return CreateTestAccountWithUnits(displayName, "100")
}

// CreateTestAccountWithUnits creates an account with a specific remaining balance
func CreateTestAccountWithUnits(displayName, remaining string) *entities.LedgerAccount {
	return &entities.LedgerAccount{
		ID:          uuid.New(),
		DisplayName: displayName,
		Remaining:   decimal.RequireFromString(remaining),
		Wagered:     decimal.Zero,
		Won:         decimal.Zero,
		Lost:        decimal.Zero,
	}
}

// CreateTestSlate creates an open slate for a week
func CreateTestSlate(season, week int) *entities.WeeklySlate {
	return &entities.WeeklySlate{
		ID:     uuid.New(),
		Season: season,
		Week:   week,
		Status: entities.SlateStatusOpen,
	}
}

// CreateTestGame creates an upcoming game with standard prices.
// The home side is a 3 point favorite and the total is 44.5.
func CreateTestGame(season, week int, home, away string) *entities.Game {
	spread := decimal.RequireFromString("-3")
	total := decimal.RequireFromString("44.5")
	return &entities.Game{
		ID:                   uuid.New(),
		Season:               season,
		Week:                 week,
		HomeTeam:             home,
		AwayTeam:             away,
		Status:               entities.GameStatusUpcoming,
		SpreadLine:           spread,
		HomeSpreadOdds:       -110,
		AwaySpreadOdds:       -110,
		HomeMoneyline:        -150,
		AwayMoneyline:        130,
		TotalLine:            total,
		OverOdds:             -110,
		UnderOdds:            -110,
		OpeningSpreadLine:    spread,
		OpeningHomeMoneyline: -150,
		OpeningAwayMoneyline: 130,
		OpeningTotalLine:     total,
	}
}

// CreateTestFuture creates an active future
func CreateTestFuture(category, selection string, odds int) *entities.Future {
	return &entities.Future{
		ID:            uuid.New(),
		Category:      category,
		SelectionName: selection,
		Odds:          odds,
		IsActive:      true,
	}
}

// CreateTestProp creates a two sided prop, optionally tied to a game and a team
func CreateTestProp(description string, gameID *uuid.UUID, team *string) *entities.Prop {
	counter := "No"
	counterOdds := -130
	return &entities.Prop{
		ID:               uuid.New(),
		Description:      description,
		SelectionName:    "Yes",
		Odds:             110,
		CounterSelection: &counter,
		CounterOdds:      &counterOdds,
		GameID:           gameID,
		Team:             team,
	}
}

// CreateTestStraightWager creates a pending straight wager on the home moneyline of a game
func CreateTestStraightWager(accountID uuid.UUID, game *entities.Game, stake string) *entities.StraightWager {
	sel, _ := game.Quote(entities.MarketKindMoneyline, entities.SideHome)
	return &entities.StraightWager{
		ID:              uuid.New(),
		AccountID:       accountID,
		Selection:       sel,
		Stake:           decimal.RequireFromString(stake),
		PotentialPayout: decimal.RequireFromString(stake).Mul(decimal.RequireFromString("1.67")).Round(2),
		Status:          entities.WagerStatusPending,
		CreatedAt:       time.Now(),
	}
}

// CreateTestParlay creates a pending parlay with one pending leg per selection
func CreateTestParlay(accountID uuid.UUID, stake string, totalOdds int, payout string, selections ...entities.MarketSelection) *entities.ParlayWager {
	parlay := &entities.ParlayWager{
		ID:              uuid.New(),
		AccountID:       accountID,
		Stake:           decimal.RequireFromString(stake),
		TotalOdds:       totalOdds,
		PotentialPayout: decimal.RequireFromString(payout),
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
