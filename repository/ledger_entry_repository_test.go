package repository

import (
	"context"
	"testing"

	"wagerbook/domain/entities"
	"wagerbook/repository/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func units(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestLedgerEntryRepository_RecordAndGetByAccount(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	ctx := context.Background()
	accountRepo := NewLedgerAccountRepository(testDB.DB)
	repo := NewLedgerEntryRepository(testDB.DB)

	account := testutil.CreateTestAccount("alice")
	require.NoError(t, accountRepo.Create(ctx, account))

	wagerID := uuid.New()
	relatedType := entities.RelatedTypeStraightWager

	placed := &entities.LedgerEntry{
		AccountID:       account.ID,
		TransactionType: entities.TransactionTypeWagerPlaced,
		RemainingBefore: units("100"),
		RemainingAfter:  units("97"),
		ChangeAmount:    units("-3"),
		UnitsInvolved:   units("3"),
		RelatedID:       &wagerID,
		RelatedType:     &relatedType,
	}
	require.NoError(t, repo.Record(ctx, placed))
	assert.NotZero(t, placed.ID)
	assert.False(t, placed.CreatedAt.IsZero())

	won := &entities.LedgerEntry{
		AccountID:       account.ID,
		TransactionType: entities.TransactionTypeWagerWon,
		RemainingBefore: units("97"),
		RemainingAfter:  units("102"),
		ChangeAmount:    units("5"),
		UnitsInvolved:   units("5"),
		RelatedID:       &wagerID,
		RelatedType:     &relatedType,
	}
	require.NoError(t, repo.Record(ctx, won))

	t.Run("newest first", func(t *testing.T) {
		entries, err := repo.GetByAccount(ctx, account.ID, 10)
		require.NoError(t, err)
		require.Len(t, entries, 2)

		assert.Equal(t, entities.TransactionTypeWagerWon, entries[0].TransactionType)
		assert.Equal(t, entities.TransactionTypeWagerPlaced, entries[1].TransactionType)
		assert.True(t, entries[1].ChangeAmount.Equal(units("-3")))
		require.NotNil(t, entries[0].RelatedID)
		assert.Equal(t, wagerID, *entries[0].RelatedID)
		require.NotNil(t, entries[0].RelatedType)
		assert.Equal(t, entities.RelatedTypeStraightWager, *entries[0].RelatedType)
		for _, entry := range entries {
			assert.NoError(t, entry.Validate())
		}
	})

	t.Run("limit", func(t *testing.T) {
		entries, err := repo.GetByAccount(ctx, account.ID, 1)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, won.ID, entries[0].ID)
	})

	t.Run("unknown account", func(t *testing.T) {
		entries, err := repo.GetByAccount(ctx, uuid.New(), 10)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("unknown related type rejected by schema", func(t *testing.T) {
		bogus := entities.RelatedType("transfer")
		err := repo.Record(ctx, &entities.LedgerEntry{
			AccountID:       account.ID,
			TransactionType: entities.TransactionTypeWagerVoid,
			RemainingBefore: units("102"),
			RemainingAfter:  units("102"),
			RelatedType:     &bogus,
		})
		assert.Error(t, err)
	})
}
