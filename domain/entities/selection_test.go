package entities

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSide_ValidFor(t *testing.T) {
	assert.True(t, SideHome.ValidFor(MarketKindSpread))
	assert.True(t, SideAway.ValidFor(MarketKindMoneyline))
	assert.True(t, SideOver.ValidFor(MarketKindTotal))
	assert.True(t, SideCounter.ValidFor(MarketKindProp))
	assert.True(t, SideSelection.ValidFor(MarketKindFuture))

	assert.False(t, SideOver.ValidFor(MarketKindSpread))
	assert.False(t, SideHome.ValidFor(MarketKindTotal))
	assert.False(t, SideCounter.ValidFor(MarketKindFuture))
}

func TestSelectionRequest_Validate(t *testing.T) {
	valid := SelectionRequest{Kind: MarketKindSpread, MarketID: uuid.New(), Side: SideHome}
	assert.NoError(t, valid.Validate())

	missingID := SelectionRequest{Kind: MarketKindSpread, Side: SideHome}
	assert.ErrorIs(t, missingID.Validate(), ErrInvalidInput)

	wrongSide := SelectionRequest{Kind: MarketKindTotal, MarketID: uuid.New(), Side: SideHome}
	assert.ErrorIs(t, wrongSide.Validate(), ErrInvalidInput)
}

func TestGame_Quote(t *testing.T) {
	game := &Game{
		ID:             uuid.New(),
		HomeTeam:       "Bears",
		AwayTeam:       "Packers",
		SpreadLine:     units("-3.5"),
		HomeSpreadOdds: -110,
		AwaySpreadOdds: -105,
		HomeMoneyline:  -170,
		AwayMoneyline:  150,
		TotalLine:      units("44.5"),
		OverOdds:       -110,
		UnderOdds:      -110,
	}

	t.Run("home spread freezes home perspective line", func(t *testing.T) {
		sel, err := game.Quote(MarketKindSpread, SideHome)
		require.NoError(t, err)
		assert.Equal(t, -110, sel.Odds)
		require.NotNil(t, sel.Line)
		assert.True(t, sel.Line.Equal(units("-3.5")))
		assert.Equal(t, "Bears -3.5", sel.Description)
		assert.NoError(t, sel.Validate())
	})

	t.Run("away spread keeps home line but shows negated", func(t *testing.T) {
		sel, err := game.Quote(MarketKindSpread, SideAway)
		require.NoError(t, err)
		assert.Equal(t, -105, sel.Odds)
		assert.True(t, sel.Line.Equal(units("-3.5")))
		assert.Equal(t, "Packers +3.5", sel.Description)
	})

	t.Run("moneyline has no line", func(t *testing.T) {
		sel, err := game.Quote(MarketKindMoneyline, SideAway)
		require.NoError(t, err)
		assert.Equal(t, 150, sel.Odds)
		assert.Nil(t, sel.Line)
	})

	t.Run("total", func(t *testing.T) {
		sel, err := game.Quote(MarketKindTotal, SideUnder)
		require.NoError(t, err)
		assert.True(t, sel.Line.Equal(units("44.5")))
		assert.Equal(t, SideUnder, sel.Side)
	})

	t.Run("invalid side", func(t *testing.T) {
		_, err := game.Quote(MarketKindTotal, SideHome)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestGame_Validate(t *testing.T) {
	score := 21
	game := &Game{Status: GameStatusFinal, HomeScore: &score, HomeSpreadOdds: -110, AwaySpreadOdds: -110, HomeMoneyline: -110, AwayMoneyline: -110, OverOdds: -110, UnderOdds: -110}
	assert.Error(t, game.Validate(), "final game needs both scores")

	game.AwayScore = &score
	assert.NoError(t, game.Validate())

	game.Status = GameStatusLive
	assert.Error(t, game.Validate(), "scores only allowed once final")
}

func TestProp_QuoteAndTeamTag(t *testing.T) {
	counter := "Under 1.5 TDs"
	counterOdds := 120
	team := "Bears"
	prop := &Prop{ID: uuid.New(), SelectionName: "Over 1.5 TDs", Odds: -140, CounterSelection: &counter, CounterOdds: &counterOdds, Team: &team}

	sel, err := prop.Quote(SideCounter)
	require.NoError(t, err)
	assert.Equal(t, 120, sel.Odds)
	assert.Equal(t, SideCounter, sel.Side)

	assert.True(t, prop.IsTaggedWithTeam("bears"))
	assert.False(t, prop.IsTaggedWithTeam("Packers"))

	oneSided := &Prop{ID: uuid.New(), SelectionName: "Anytime TD", Odds: 200}
	_, err = oneSided.Quote(SideCounter)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFuture_DeclareResult(t *testing.T) {
	future := &Future{ID: uuid.New(), IsActive: true, Odds: 500}
	assert.True(t, future.IsOpenForBetting())

	future.DeclareResult(FutureResultWon)
	assert.False(t, future.IsActive)
	assert.False(t, future.IsOpenForBetting())
	require.NotNil(t, future.Snapshot().Result)
}
