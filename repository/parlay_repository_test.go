package repository

import (
	"context"
	"testing"
	"time"

	"wagerbook/domain/entities"
	"wagerbook/repository/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParlayRepository_CreateWithLegs(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	f := seedWagerFixture(t, testDB)

	repo := NewParlayRepository(testDB.DB)
	ctx := context.Background()

	spread, err := f.game.Quote(entities.MarketKindSpread, entities.SideHome)
	require.NoError(t, err)
	over, err := f.game.Quote(entities.MarketKindTotal, entities.SideOver)
	require.NoError(t, err)

	parlay := testutil.CreateTestParlay(f.account.ID, "2", 264, "7.28", spread, over, f.future.Quote())
	require.NoError(t, repo.Create(ctx, parlay))

	stored, err := repo.GetByID(ctx, parlay.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)

	assert.Equal(t, 264, stored.TotalOdds)
	assert.True(t, stored.PotentialPayout.Equal(decimal.RequireFromString("7.28")))
	assert.Nil(t, stored.Payout)
	require.Len(t, stored.Legs, 3)
	for i, leg := range stored.Legs {
		assert.Equal(t, i+1, leg.Position)
		assert.Equal(t, parlay.ID, leg.ParlayID)
		assert.Equal(t, entities.WagerStatusPending, leg.Status)
	}
	assert.Equal(t, entities.MarketKindTotal, stored.Legs[1].Selection.Kind)
	require.NotNil(t, stored.Legs[1].Selection.Line)
	assert.True(t, stored.Legs[1].Selection.Line.Equal(decimal.RequireFromString("44.5")))
	assert.Equal(t, entities.MarketKindFuture, stored.Legs[2].Selection.Kind)
	assert.Nil(t, stored.Legs[2].Selection.Line)

	missing, err := repo.GetByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestParlayRepository_Transitions(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	f := seedWagerFixture(t, testDB)

	repo := NewParlayRepository(testDB.DB)
	ctx := context.Background()

	home, err := f.game.Quote(entities.MarketKindMoneyline, entities.SideHome)
	require.NoError(t, err)
	under, err := f.game.Quote(entities.MarketKindTotal, entities.SideUnder)
	require.NoError(t, err)

	settled := testutil.CreateTestParlay(f.account.ID, "1", 264, "3.64", home, under)
	open := testutil.CreateTestParlay(f.account.ID, "1", 264, "3.64", home, under)
	require.NoError(t, repo.Create(ctx, settled))
	require.NoError(t, repo.Create(ctx, open))

	now := time.Now().UTC()
	moved, err := repo.TransitionLegStatus(ctx, settled.Legs[0].ID, entities.WagerStatusPending, entities.WagerStatusWon, now)
	require.NoError(t, err)
	assert.True(t, moved)

	moved, err = repo.TransitionLegStatus(ctx, settled.Legs[0].ID, entities.WagerStatusPending, entities.WagerStatusLost, now)
	require.NoError(t, err)
	assert.False(t, moved)

	moved, err = repo.TransitionLegStatus(ctx, settled.Legs[1].ID, entities.WagerStatusPending, entities.WagerStatusPush, now)
	require.NoError(t, err)
	assert.True(t, moved)

	payout := decimal.RequireFromString("1.67")
	moved, err = repo.TransitionStatus(ctx, settled.ID, entities.WagerStatusPending, entities.WagerStatusWon, payout, now)
	require.NoError(t, err)
	assert.True(t, moved)

	moved, err = repo.TransitionStatus(ctx, settled.ID, entities.WagerStatusPending, entities.WagerStatusLost, decimal.Zero, now)
	require.NoError(t, err)
	assert.False(t, moved)

	stored, err := repo.GetByID(ctx, settled.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.WagerStatusWon, stored.Status)
	require.NotNil(t, stored.Payout)
	assert.True(t, stored.Payout.Equal(payout))
	assert.NotNil(t, stored.SettledAt)
	assert.Equal(t, entities.WagerStatusWon, stored.Legs[0].Status)
	assert.Equal(t, entities.WagerStatusPush, stored.Legs[1].Status)

	pending, err := repo.GetPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, open.ID, pending[0].ID)
	assert.Len(t, pending[0].Legs, 2)

	// Only legs of the still pending parlay count
	count, err := repo.CountPendingLegsForGames(ctx, []uuid.UUID{f.game.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	byAccount, err := repo.GetByAccount(ctx, f.account.ID)
	require.NoError(t, err)
	assert.Len(t, byAccount, 2)
}
