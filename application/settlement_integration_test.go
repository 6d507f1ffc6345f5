package application_test

import (
	"context"
	"sync"
	"testing"

	"wagerbook/application"
	"wagerbook/domain/entities"
	"wagerbook/domain/interfaces"
	"wagerbook/events"
	"wagerbook/repository"
	"wagerbook/repository/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type settlementFixture struct {
	uowFactory application.UnitOfWorkFactory
	bus        *events.Bus
	testDB     *testutil.TestDatabase
	slate      *entities.WeeklySlate
	games      []*entities.Game
}

func setupSettlementFixture(t *testing.T, games int) *settlementFixture {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	testDB := testutil.SetupTestDatabase(t)
	bus := events.NewBus()

	f := &settlementFixture{
		uowFactory: repository.NewUnitOfWorkFactory(testDB.DB, bus),
		bus:        bus,
		testDB:     testDB,
		slate:      testutil.CreateTestSlate(2024, 6),
	}
	require.NoError(t, repository.NewSlateRepository(testDB.DB).Create(ctx, f.slate))

	teams := [][2]string{{"Bears", "Lions"}, {"Packers", "Vikings"}, {"Chiefs", "Raiders"}}
	for i := 0; i < games; i++ {
		game := testutil.CreateTestGame(2024, 6, teams[i][0], teams[i][1])
		require.NoError(t, repository.NewGameRepository(testDB.DB).Create(ctx, game))
		f.games = append(f.games, game)
	}
	return f
}

func (f *settlementFixture) openAccount(t *testing.T, name, units string) *entities.LedgerAccount {
	t.Helper()
	account, err := application.NewAccountHandler(f.uowFactory).OpenAccount(context.Background(), name, nil, decimal.RequireFromString(units))
	require.NoError(t, err)
	return account
}

func (f *settlementFixture) account(t *testing.T, id uuid.UUID) *entities.LedgerAccount {
	t.Helper()
	account, err := repository.NewLedgerAccountRepository(f.testDB.DB).GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, account)
	return account
}

func homeMoneyline(game *entities.Game) entities.SelectionRequest {
	return entities.SelectionRequest{Kind: entities.MarketKindMoneyline, MarketID: game.ID, Side: entities.SideHome}
}

func TestSettlementEngine_Idempotent(t *testing.T) {
	f := setupSettlementFixture(t, 1)
	ctx := context.Background()

	account := f.openAccount(t, "bettor", "100")
	placer := application.NewWagerPlacementHandler(f.uowFactory, f.bus)
	markets := application.NewMarketHandler(f.uowFactory)
	engine := application.NewSettlementEngine(f.uowFactory, f.bus)

	placed, err := placer.PlaceWager(ctx, interfaces.PlacementRequest{
		AccountID:  account.ID,
		Selections: []entities.SelectionRequest{homeMoneyline(f.games[0])},
		Stake:      decimal.NewFromInt(3),
		Mode:       interfaces.SlipModeStraight,
	})
	require.NoError(t, err)
	require.Len(t, placed.StraightWagers, 1)
	assert.True(t, placed.Remaining.Equal(decimal.NewFromInt(97)))
	assert.True(t, placed.PotentialPayout.Equal(decimal.NewFromInt(5)))

	t.Run("pending game defers the wager", func(t *testing.T) {
		summary, err := engine.RunSettlementPass(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, summary.SettledCount)
		assert.Equal(t, 1, summary.Deferred)
	})

	require.NoError(t, markets.SetSlateStatus(ctx, 2024, 6, entities.SlateStatusLocked))
	require.NoError(t, markets.RecordFinalScore(ctx, f.games[0].ID, 24, 20))

	t.Run("first pass settles and credits once", func(t *testing.T) {
		summary, err := engine.RunSettlementPass(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.SettledCount)
		assert.Equal(t, 0, summary.Failed)
		assert.Equal(t, 1, summary.SlatesSettled)

		stored := f.account(t, account.ID)
		assert.True(t, stored.Remaining.Equal(decimal.NewFromInt(102)))
		assert.True(t, stored.Won.Equal(decimal.NewFromInt(2)))
		assert.True(t, stored.Wagered.Equal(decimal.NewFromInt(3)))
	})

	t.Run("second pass changes nothing", func(t *testing.T) {
		summary, err := engine.RunSettlementPass(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, summary.SettledCount)
		assert.Equal(t, 0, summary.Deferred)

		stored := f.account(t, account.ID)
		assert.True(t, stored.Remaining.Equal(decimal.NewFromInt(102)))

		wager, err := repository.NewStraightWagerRepository(f.testDB.DB).GetByID(ctx, placed.StraightWagers[0].ID)
		require.NoError(t, err)
		assert.Equal(t, entities.WagerStatusWon, wager.Status)

		entries, err := application.NewAccountHandler(f.uowFactory).GetLedgerHistory(ctx, account.ID, 0)
		require.NoError(t, err)
		// Opening deposit, stake and win
		assert.Len(t, entries, 3)

		slate, err := repository.NewSlateRepository(f.testDB.DB).GetBySeasonWeek(ctx, 2024, 6)
		require.NoError(t, err)
		assert.Equal(t, entities.SlateStatusSettled, slate.Status)
	})
}

func TestSettlementEngine_OverlappingPasses(t *testing.T) {
	f := setupSettlementFixture(t, 1)
	ctx := context.Background()

	account := f.openAccount(t, "racer", "100")
	placer := application.NewWagerPlacementHandler(f.uowFactory, f.bus)
	engine := application.NewSettlementEngine(f.uowFactory, f.bus)

	_, err := placer.PlaceWager(ctx, interfaces.PlacementRequest{
		AccountID:  account.ID,
		Selections: []entities.SelectionRequest{homeMoneyline(f.games[0])},
		Stake:      decimal.NewFromInt(3),
		Mode:       interfaces.SlipModeStraight,
	})
	require.NoError(t, err)
	require.NoError(t, application.NewMarketHandler(f.uowFactory).RecordFinalScore(ctx, f.games[0].ID, 10, 31))

	var wg sync.WaitGroup
	summaries := make([]*interfaces.SettlementSummary, 2)
	for i := range summaries {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			summary, err := engine.RunSettlementPass(ctx)
			assert.NoError(t, err)
			summaries[i] = summary
		}(i)
	}
	wg.Wait()

	require.NotNil(t, summaries[0])
	require.NotNil(t, summaries[1])
	assert.Equal(t, 1, summaries[0].SettledCount+summaries[1].SettledCount)
	assert.Equal(t, 0, summaries[0].Failed+summaries[1].Failed)

	stored := f.account(t, account.ID)
	assert.True(t, stored.Remaining.Equal(decimal.NewFromInt(97)))
	assert.True(t, stored.Lost.Equal(decimal.NewFromInt(3)))
}

func TestSettlementEngine_ParlayShortCircuit(t *testing.T) {
	f := setupSettlementFixture(t, 2)
	ctx := context.Background()

	account := f.openAccount(t, "parlayer", "50")
	placer := application.NewWagerPlacementHandler(f.uowFactory, f.bus)
	engine := application.NewSettlementEngine(f.uowFactory, f.bus)

	placed, err := placer.PlaceWager(ctx, interfaces.PlacementRequest{
		AccountID:  account.ID,
		Selections: []entities.SelectionRequest{homeMoneyline(f.games[0]), homeMoneyline(f.games[1])},
		Stake:      decimal.NewFromInt(2),
		Mode:       interfaces.SlipModeParlay,
	})
	require.NoError(t, err)
	require.NotNil(t, placed.Parlay)

	// The first home side loses while the second game has not kicked off
	require.NoError(t, application.NewMarketHandler(f.uowFactory).RecordFinalScore(ctx, f.games[0].ID, 10, 17))

	summary, err := engine.RunSettlementPass(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.SettledCount)
	assert.Equal(t, 1, summary.LegsSettled)

	parlay, err := repository.NewParlayRepository(f.testDB.DB).GetByID(ctx, placed.Parlay.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.WagerStatusLost, parlay.Status)
	assert.Equal(t, entities.WagerStatusLost, parlay.Legs[0].Status)
	assert.Equal(t, entities.WagerStatusPending, parlay.Legs[1].Status)

	stored := f.account(t, account.ID)
	assert.True(t, stored.Remaining.Equal(decimal.NewFromInt(48)))
	assert.True(t, stored.Lost.Equal(decimal.NewFromInt(2)))

	// The open leg is never revisited once the parlay is lost
	require.NoError(t, application.NewMarketHandler(f.uowFactory).RecordFinalScore(ctx, f.games[1].ID, 30, 3))
	summary, err = engine.RunSettlementPass(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.SettledCount)
	assert.True(t, f.account(t, account.ID).Remaining.Equal(decimal.NewFromInt(48)))
}

func TestSettlementEngine_VoidRefundsStake(t *testing.T) {
	f := setupSettlementFixture(t, 1)
	ctx := context.Background()

	account := f.openAccount(t, "voided", "20")
	placer := application.NewWagerPlacementHandler(f.uowFactory, f.bus)
	engine := application.NewSettlementEngine(f.uowFactory, f.bus)

	placed, err := placer.PlaceWager(ctx, interfaces.PlacementRequest{
		AccountID:  account.ID,
		Selections: []entities.SelectionRequest{homeMoneyline(f.games[0])},
		Stake:      decimal.NewFromInt(5),
		Mode:       interfaces.SlipModeStraight,
	})
	require.NoError(t, err)

	require.NoError(t, engine.VoidStraightWager(ctx, placed.StraightWagers[0].ID))
	assert.True(t, f.account(t, account.ID).Remaining.Equal(decimal.NewFromInt(20)))

	err = engine.VoidStraightWager(ctx, placed.StraightWagers[0].ID)
	assert.ErrorIs(t, err, entities.ErrInvalidInput)
}

func TestWagerPlacementHandler_ConcurrentPlacements(t *testing.T) {
	f := setupSettlementFixture(t, 2)
	ctx := context.Background()

	account := f.openAccount(t, "contended", "10")
	placer := application.NewWagerPlacementHandler(f.uowFactory, f.bus)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = placer.PlaceWager(ctx, interfaces.PlacementRequest{
				AccountID:  account.ID,
				Selections: []entities.SelectionRequest{homeMoneyline(f.games[i])},
				Stake:      decimal.NewFromInt(6),
				Mode:       interfaces.SlipModeStraight,
			})
		}(i)
	}
	wg.Wait()

	succeeded, rejected := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case assert.ErrorIs(t, err, entities.ErrInsufficientBalance):
			rejected++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, rejected)

	stored := f.account(t, account.ID)
	assert.True(t, stored.Remaining.Equal(decimal.NewFromInt(4)))
	assert.True(t, stored.Wagered.Equal(decimal.NewFromInt(6)))
}
