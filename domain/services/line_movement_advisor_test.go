package services

import (
	"context"
	"testing"

	"wagerbook/domain/entities"
	"wagerbook/domain/interfaces"
	"wagerbook/events"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newLineMovementAdvisor(mocks *TestMocks) interfaces.LineMovementAdvisor {
	return NewLineMovementAdvisor(mocks.GameRepo, mocks.FutureRepo, mocks.WagerRepo, mocks.OddsHistoryRepo, mocks.EventPublisher)
}

func sideAction(side entities.Side, stake string, bets int) *entities.SideAction {
	return &entities.SideAction{Side: side, Units: units(stake), BetCount: bets}
}

func TestNewActionSplit(t *testing.T) {
	split := NewActionSplit(units("7"), units("3"), 4)
	assert.True(t, split.SideAPercent.Equal(units("70")))
	assert.True(t, split.SideBPercent.Equal(units("30")))
	assert.True(t, split.TotalUnits().Equal(units("10")))
	assert.True(t, split.SideAHeavy())

	split = NewActionSplit(units("2"), units("1"), 2)
	assert.Equal(t, "66.7", split.SideAPercent.String())
	assert.Equal(t, "33.3", split.SideBPercent.String())

	split = NewActionSplit(decimal.Zero, decimal.Zero, 0)
	assert.True(t, split.SideAPercent.Equal(units("50")))
	assert.False(t, split.SideAHeavy())
}

func TestSuggestSpreadMove(t *testing.T) {
	tests := []struct {
		name      string
		current   string
		opening   string
		home      string
		away      string
		expected  string
		suggested bool
	}{
		{"below threshold", "-3", "-3", "6", "4", "-3", false},
		{"heavy home lays more", "-3", "-3", "75", "25", "-3.5", true},
		{"lopsided home", "-3", "-3", "90", "10", "-4", true},
		{"lopsided away", "-3", "-3", "10", "90", "-2", true},
		{"clamped by ceiling", "-4.5", "-3", "90", "10", "-5", true},
		{"ceiling reached", "-5", "-3", "90", "10", "-5", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			split := NewActionSplit(units(tt.home), units(tt.away), 10)
			got, ok := SuggestSpreadMove(units(tt.current), units(tt.opening), split)
			assert.Equal(t, tt.suggested, ok)
			assert.True(t, got.Equal(units(tt.expected)), "got %s", got)
		})
	}
}

func TestSuggestTotalMove(t *testing.T) {
	split := NewActionSplit(units("72"), units("28"), 6)
	got, ok := SuggestTotalMove(units("44.5"), units("44.5"), split)
	require.True(t, ok)
	assert.True(t, got.Equal(units("45")))

	split = NewActionSplit(units("14"), units("86"), 6)
	got, ok = SuggestTotalMove(units("44.5"), units("44.5"), split)
	require.True(t, ok)
	assert.True(t, got.Equal(units("43.5")))
}

func TestSuggestMoneylineMove(t *testing.T) {
	tests := []struct {
		name      string
		current   int
		opening   int
		heavy     string
		expected  int
		suggested bool
	}{
		{"below threshold", -150, -150, "65", -150, false},
		{"heavy favorite", -150, -150, "75", -165, true},
		{"crosses even money", 110, 110, "90", -120, true},
		{"clamped by ceiling", -190, -150, "90", -200, true},
		{"ceiling reached", -200, -150, "90", -200, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SuggestMoneylineMove(tt.current, tt.opening, units(tt.heavy))
			assert.Equal(t, tt.suggested, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSuggestFuturesMove(t *testing.T) {
	tests := []struct {
		name      string
		current   int
		bets      int
		expected  int
		suggested bool
	}{
		{"too few bets", 500, 2, 500, false},
		{"some action", 500, 3, 440, true},
		{"heavy action", 500, 5, 390, true},
		{"floored at even money", 110, 5, 100, true},
		{"already even money", 100, 5, 100, false},
		{"favorite gets shorter", -200, 3, -224, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SuggestFuturesMove(tt.current, tt.bets)
			assert.Equal(t, tt.suggested, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLineMovementAdvisor_SuggestLineMove_Spread(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	advisor := newLineMovementAdvisor(mocks)

	game := newTestGame()
	mocks.WagerRepo.On("GetSideActions", ctx, entities.MarketKindSpread, game.ID).Return([]*entities.SideAction{
		sideAction(entities.SideHome, "8", 3),
		sideAction(entities.SideAway, "2", 1),
	}, nil)
	mocks.GameRepo.On("GetByID", ctx, game.ID).Return(game, nil)

	suggestion, err := advisor.SuggestLineMove(ctx, entities.MarketKindSpread, game.ID)
	require.NoError(t, err)
	require.NotNil(t, suggestion)
	assert.Equal(t, entities.SideHome, suggestion.Side)
	assert.True(t, suggestion.Current.Equal(units("-3")))
	assert.True(t, suggestion.Suggested.Equal(units("-3.5")))
	assert.Equal(t, "80% of units on home", suggestion.Reason)

	mocks.AssertAllExpectations(t)
}

func TestLineMovementAdvisor_SuggestLineMove_MoneylineAwayHeavy(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	advisor := newLineMovementAdvisor(mocks)

	game := newTestGame()
	mocks.WagerRepo.On("GetSideActions", ctx, entities.MarketKindMoneyline, game.ID).Return([]*entities.SideAction{
		sideAction(entities.SideHome, "1", 1),
		sideAction(entities.SideAway, "9", 4),
	}, nil)
	mocks.GameRepo.On("GetByID", ctx, game.ID).Return(game, nil)

	suggestion, err := advisor.SuggestLineMove(ctx, entities.MarketKindMoneyline, game.ID)
	require.NoError(t, err)
	require.NotNil(t, suggestion)
	assert.Equal(t, entities.SideAway, suggestion.Side)
	assert.True(t, suggestion.Current.Equal(units("130")))
	assert.True(t, suggestion.Suggested.Equal(units("100")))
}

func TestLineMovementAdvisor_SuggestLineMove_NoSuggestion(t *testing.T) {
	ctx := context.Background()

	t.Run("props are never moved", func(t *testing.T) {
		mocks := NewTestMocks()
		advisor := newLineMovementAdvisor(mocks)

		suggestion, err := advisor.SuggestLineMove(ctx, entities.MarketKindProp, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, suggestion)
		mocks.WagerRepo.AssertNotCalled(t, "GetSideActions", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("balanced action", func(t *testing.T) {
		mocks := NewTestMocks()
		advisor := newLineMovementAdvisor(mocks)

		game := newTestGame()
		mocks.WagerRepo.On("GetSideActions", ctx, entities.MarketKindTotal, game.ID).Return([]*entities.SideAction{
			sideAction(entities.SideOver, "6", 3),
			sideAction(entities.SideUnder, "4", 2),
		}, nil)
		mocks.GameRepo.On("GetByID", ctx, game.ID).Return(game, nil)

		suggestion, err := advisor.SuggestLineMove(ctx, entities.MarketKindTotal, game.ID)
		require.NoError(t, err)
		assert.Nil(t, suggestion)
	})

	t.Run("game already kicked off", func(t *testing.T) {
		mocks := NewTestMocks()
		advisor := newLineMovementAdvisor(mocks)

		game := newTestGame()
		game.Status = entities.GameStatusLive
		mocks.WagerRepo.On("GetSideActions", ctx, entities.MarketKindSpread, game.ID).Return([]*entities.SideAction{
			sideAction(entities.SideHome, "10", 5),
		}, nil)
		mocks.GameRepo.On("GetByID", ctx, game.ID).Return(game, nil)

		suggestion, err := advisor.SuggestLineMove(ctx, entities.MarketKindSpread, game.ID)
		require.NoError(t, err)
		assert.Nil(t, suggestion)
	})
}

func TestLineMovementAdvisor_SuggestLineMove_Future(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	advisor := newLineMovementAdvisor(mocks)

	future := newTestFuture(500)
	mocks.WagerRepo.On("GetSideActions", ctx, entities.MarketKindFuture, future.ID).Return([]*entities.SideAction{
		sideAction(entities.SideSelection, "6", 4),
	}, nil)
	mocks.FutureRepo.On("GetByID", ctx, future.ID).Return(future, nil)

	suggestion, err := advisor.SuggestLineMove(ctx, entities.MarketKindFuture, future.ID)
	require.NoError(t, err)
	require.NotNil(t, suggestion)
	assert.True(t, suggestion.Suggested.Equal(units("440")))
	assert.Equal(t, "4 bets placed", suggestion.Reason)
}

func TestLineMovementAdvisor_ApplySuggestion_Spread(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	advisor := newLineMovementAdvisor(mocks)

	game := newTestGame()
	suggestion := &interfaces.Suggestion{
		Kind:      entities.MarketKindSpread,
		MarketID:  game.ID,
		Side:      entities.SideHome,
		Current:   units("-3"),
		Suggested: units("-3.5"),
		Reason:    "80% of units on home",
	}

	mocks.GameRepo.On("GetByID", ctx, game.ID).Return(game, nil)
	mocks.GameRepo.On("UpdateLines", ctx, mock.MatchedBy(func(g *entities.Game) bool {
		return g.SpreadLine.Equal(units("-3.5")) && g.OpeningSpreadLine.Equal(units("-3"))
	})).Return(nil)
	mocks.OddsHistoryRepo.On("Record", ctx, mock.MatchedBy(func(h *entities.OddsHistory) bool {
		return h.MarketID == game.ID && h.OldValue.Equal(units("-3")) && h.NewValue.Equal(units("-3.5")) &&
			h.Reason == "sharp money"
	})).Return(nil)
	mocks.EventPublisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		moved, ok := e.(events.OddsMovedEvent)
		return ok && moved.NewValue.Sub(moved.OldValue).Equal(units("-0.5"))
	})).Return(nil)

	err := advisor.ApplySuggestion(ctx, suggestion, "sharp money")
	require.NoError(t, err)

	mocks.AssertAllExpectations(t)
}

func TestLineMovementAdvisor_ApplySuggestion_Future(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	advisor := newLineMovementAdvisor(mocks)

	future := newTestFuture(500)
	suggestion := &interfaces.Suggestion{
		Kind:      entities.MarketKindFuture,
		MarketID:  future.ID,
		Side:      entities.SideSelection,
		Current:   units("500"),
		Suggested: units("440"),
		Reason:    "4 bets placed",
	}

	mocks.FutureRepo.On("GetByID", ctx, future.ID).Return(future, nil)
	mocks.FutureRepo.On("UpdateOdds", ctx, future.ID, 440).Return(nil)
	mocks.OddsHistoryRepo.On("Record", ctx, mock.MatchedBy(func(h *entities.OddsHistory) bool {
		return h.Reason == "4 bets placed"
	})).Return(nil)
	mocks.ExpectEventPublish(events.EventTypeOddsMoved)

	err := advisor.ApplySuggestion(ctx, suggestion, "")
	require.NoError(t, err)

	mocks.AssertAllExpectations(t)
}

func TestLineMovementAdvisor_ApplySuggestion_Stale(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	advisor := newLineMovementAdvisor(mocks)

	game := newTestGame()
	game.TotalLine = units("45")
	suggestion := &interfaces.Suggestion{
		Kind:      entities.MarketKindTotal,
		MarketID:  game.ID,
		Side:      entities.SideOver,
		Current:   units("44.5"),
		Suggested: units("45"),
	}
	mocks.GameRepo.On("GetByID", ctx, game.ID).Return(game, nil)

	err := advisor.ApplySuggestion(ctx, suggestion, "")
	require.ErrorIs(t, err, entities.ErrInvalidInput)

	mocks.GameRepo.AssertNotCalled(t, "UpdateLines", mock.Anything, mock.Anything)
	mocks.OddsHistoryRepo.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestLineMovementAdvisor_ApplySuggestion_RejectsBadPrice(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	advisor := newLineMovementAdvisor(mocks)

	game := newTestGame()
	suggestion := &interfaces.Suggestion{
		Kind:      entities.MarketKindMoneyline,
		MarketID:  game.ID,
		Side:      entities.SideHome,
		Current:   units("-150"),
		Suggested: units("-99.5"),
	}
	mocks.GameRepo.On("GetByID", ctx, game.ID).Return(game, nil)

	err := advisor.ApplySuggestion(ctx, suggestion, "manual")
	require.ErrorIs(t, err, entities.ErrInvalidInput)
	mocks.GameRepo.AssertNotCalled(t, "UpdateLines", mock.Anything, mock.Anything)
}
