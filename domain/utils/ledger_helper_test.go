package utils

import (
	"context"
	"testing"

	"wagerbook/domain/entities"
	"wagerbook/domain/testhelpers"
	"wagerbook/events"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRecordLedgerChange(t *testing.T) {
	ctx := context.Background()

	mockLedgerEntryRepo := new(testhelpers.MockLedgerEntryRepository)
	mockEventPublisher := new(testhelpers.MockEventPublisher)

	accountID := uuid.New()
	wagerID := uuid.New()
	entry := NewLedgerEntry(accountID,
		decimal.RequireFromString("10"), decimal.RequireFromString("4"),
		entities.TransactionTypeWagerPlaced, decimal.RequireFromString("6"),
		wagerID, entities.RelatedTypeStraightWager)

	mockLedgerEntryRepo.On("Record", ctx, entry).Return(nil)
	mockEventPublisher.On("Publish", mock.MatchedBy(func(event events.Event) bool {
		e, ok := event.(events.LedgerChangeEvent)
		return ok &&
			e.AccountID == accountID &&
			e.ChangeAmount.Equal(decimal.RequireFromString("-6")) &&
			e.TransactionType == entities.TransactionTypeWagerPlaced
	})).Return(nil)

	err := RecordLedgerChange(ctx, mockLedgerEntryRepo, mockEventPublisher, entry)
	require.NoError(t, err)

	mockLedgerEntryRepo.AssertExpectations(t)
	mockEventPublisher.AssertExpectations(t)
}

func TestRecordLedgerChange_RejectsInconsistentEntry(t *testing.T) {
	ctx := context.Background()

	mockLedgerEntryRepo := new(testhelpers.MockLedgerEntryRepository)
	mockEventPublisher := new(testhelpers.MockEventPublisher)

	entry := &entities.LedgerEntry{
		AccountID:       uuid.New(),
		TransactionType: entities.TransactionTypeWagerWon,
		RemainingBefore: decimal.RequireFromString("10"),
		RemainingAfter:  decimal.RequireFromString("25"),
		ChangeAmount:    decimal.RequireFromString("20"),
	}

	err := RecordLedgerChange(ctx, mockLedgerEntryRepo, mockEventPublisher, entry)
	assert.Error(t, err)

	mockLedgerEntryRepo.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	mockEventPublisher.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestNewLedgerEntry_LostWagerKeepsUnitsInvolved(t *testing.T) {
	entry := NewLedgerEntry(uuid.New(),
		decimal.RequireFromString("4"), decimal.RequireFromString("4"),
		entities.TransactionTypeWagerLost, decimal.RequireFromString("6"),
		uuid.New(), entities.RelatedTypeParlayWager)

	assert.True(t, entry.ChangeAmount.IsZero())
	assert.True(t, entry.UnitsInvolved.Equal(decimal.RequireFromString("6")))
	require.NotNil(t, entry.RelatedType)
	assert.Equal(t, entities.RelatedTypeParlayWager, *entry.RelatedType)
	assert.NoError(t, entry.Validate())
}

func TestNewLedgerEntry_InitialHasNoRelatedWager(t *testing.T) {
	entry := NewLedgerEntry(uuid.New(),
		decimal.Zero, decimal.RequireFromString("100"),
		entities.TransactionTypeInitial, decimal.RequireFromString("100"),
		uuid.Nil, "")

	assert.Nil(t, entry.RelatedID)
	assert.Nil(t, entry.RelatedType)
}
