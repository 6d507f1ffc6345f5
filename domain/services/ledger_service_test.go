package services

import (
	"context"
	"errors"
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

func TestLedgerService_OpenAccount(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := NewLedgerService(mocks.AccountRepo, mocks.LedgerEntryRepo, mocks.EventPublisher)

	mocks.AccountRepo.On("GetByDisplayName", ctx, "sam").Return(nil, nil)
	mocks.AccountRepo.On("Create", ctx, mock.MatchedBy(func(a *entities.LedgerAccount) bool {
		return a.DisplayName == "sam" && a.Remaining.Equal(units("100"))
	})).Return(nil)
	mocks.ExpectEventPublish(events.EventTypeLedgerChange)
	mocks.LedgerEntryRepo.On("Record", ctx, mock.MatchedBy(func(e *entities.LedgerEntry) bool {
		return e.TransactionType == entities.TransactionTypeInitial && e.ChangeAmount.Equal(units("100"))
	})).Return(nil)

	account, err := service.OpenAccount(ctx, "  sam ", nil, units("100"))
	require.NoError(t, err)
	assert.Equal(t, "sam", account.DisplayName)
	assert.NotEqual(t, uuid.Nil, account.ID)

	mocks.AssertAllExpectations(t)
}

func TestLedgerService_OpenAccount_DuplicateName(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := NewLedgerService(mocks.AccountRepo, mocks.LedgerEntryRepo, mocks.EventPublisher)

	mocks.AccountRepo.On("GetByDisplayName", ctx, "sam").Return(newTestAccount("10"), nil)

	_, err := service.OpenAccount(ctx, "sam", nil, units("100"))
	assert.ErrorIs(t, err, entities.ErrInvalidInput)
	mocks.AccountRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLedgerService_CommitStake(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := NewLedgerService(mocks.AccountRepo, mocks.LedgerEntryRepo, mocks.EventPublisher)

	account := newTestAccount("10")
	mocks.ExpectAccountLookup(account)
	mocks.ExpectBalanceUpdate(account.ID, "7")
	mocks.ExpectEventPublish(events.EventTypeLedgerChange)

	var recorded []*entities.LedgerEntry
	mocks.LedgerEntryRepo.On("Record", ctx, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		recorded = append(recorded, args.Get(1).(*entities.LedgerEntry))
	})

	first, second := uuid.New(), uuid.New()
	updated, err := service.CommitStake(ctx, account.ID, []interfaces.StakeCommitment{
		{RelatedID: first, RelatedType: entities.RelatedTypeStraightWager, Amount: units("1.5")},
		{RelatedID: second, RelatedType: entities.RelatedTypeStraightWager, Amount: units("1.5")},
	})
	require.NoError(t, err)

	assert.True(t, updated.Remaining.Equal(units("7")))
	assert.True(t, updated.Wagered.Equal(units("3")))

	require.Len(t, recorded, 2)
	assert.True(t, recorded[0].RemainingBefore.Equal(units("10")))
	assert.True(t, recorded[0].RemainingAfter.Equal(units("8.5")))
	assert.Equal(t, first, *recorded[0].RelatedID)
	assert.True(t, recorded[1].RemainingAfter.Equal(units("7")))
	assert.Equal(t, second, *recorded[1].RelatedID)

	mocks.AssertAllExpectations(t)
}

func TestLedgerService_CommitStake_InsufficientBalance(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := NewLedgerService(mocks.AccountRepo, mocks.LedgerEntryRepo, mocks.EventPublisher)

	account := newTestAccount("4")
	mocks.ExpectAccountLookup(account)

	_, err := service.CommitStake(ctx, account.ID, []interfaces.StakeCommitment{
		{RelatedID: uuid.New(), RelatedType: entities.RelatedTypeParlayWager, Amount: units("6")},
	})
	assert.ErrorIs(t, err, entities.ErrInsufficientBalance)
	mocks.AccountRepo.AssertNotCalled(t, "UpdateBalances", mock.Anything, mock.Anything)
	mocks.LedgerEntryRepo.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestLedgerService_CommitStake_StaleVersion(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := NewLedgerService(mocks.AccountRepo, mocks.LedgerEntryRepo, mocks.EventPublisher)

	account := newTestAccount("10")
	mocks.ExpectAccountLookup(account)
	mocks.AccountRepo.On("UpdateBalances", ctx, mock.Anything).Return(entities.ErrStaleBalance)

	_, err := service.CommitStake(ctx, account.ID, []interfaces.StakeCommitment{
		{RelatedID: uuid.New(), RelatedType: entities.RelatedTypeStraightWager, Amount: units("6")},
	})
	assert.True(t, errors.Is(err, entities.ErrStaleBalance))
	mocks.LedgerEntryRepo.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestLedgerService_CommitStake_UnknownAccount(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := NewLedgerService(mocks.AccountRepo, mocks.LedgerEntryRepo, mocks.EventPublisher)

	id := uuid.New()
	mocks.AccountRepo.On("GetByID", ctx, id).Return(nil, nil)

	_, err := service.CommitStake(ctx, id, []interfaces.StakeCommitment{{Amount: units("1")}})
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestLedgerService_ApplySettlement(t *testing.T) {
	tests := []struct {
		name          string
		status        entities.WagerStatus
		stake, payout string
		wantRemaining string
		wantWon       string
		wantLost      string
		wantTxType    entities.TransactionType
	}{
		{"won credits payout", entities.WagerStatusWon, "10", "30", "34", "20", "0", entities.TransactionTypeWagerWon},
		{"lost leaves remaining", entities.WagerStatusLost, "10", "30", "4", "0", "10", entities.TransactionTypeWagerLost},
		{"push refunds stake", entities.WagerStatusPush, "10", "30", "14", "0", "0", entities.TransactionTypeWagerPush},
		{"void refunds stake", entities.WagerStatusVoid, "10", "30", "14", "0", "0", entities.TransactionTypeWagerVoid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			mocks := NewTestMocks()
			service := NewLedgerService(mocks.AccountRepo, mocks.LedgerEntryRepo, mocks.EventPublisher)

			account := newTestAccount("4")
			account.Wagered = units("10")
			mocks.ExpectAccountLookup(account)
			mocks.ExpectBalanceUpdate(account.ID, tt.wantRemaining)
			mocks.ExpectLedgerEntry(account.ID, tt.wantTxType)

			updated, err := service.ApplySettlement(ctx, account.ID, tt.status, units(tt.stake), units(tt.payout), uuid.New(), entities.RelatedTypeStraightWager)
			require.NoError(t, err)

			assert.True(t, updated.Remaining.Equal(units(tt.wantRemaining)), "remaining %s", updated.Remaining)
			assert.True(t, updated.Won.Equal(units(tt.wantWon)), "won %s", updated.Won)
			assert.True(t, updated.Lost.Equal(units(tt.wantLost)), "lost %s", updated.Lost)
			assert.True(t, updated.Wagered.Equal(units("10")), "wagered never moves on settlement")

			mocks.AssertAllExpectations(t)
		})
	}
}

func TestLedgerService_ApplySettlement_RejectsPending(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := NewLedgerService(mocks.AccountRepo, mocks.LedgerEntryRepo, mocks.EventPublisher)

	account := newTestAccount("4")
	mocks.ExpectAccountLookup(account)

	_, err := service.ApplySettlement(ctx, account.ID, entities.WagerStatusPending, units("1"), decimal.Zero, uuid.New(), entities.RelatedTypeStraightWager)
	assert.ErrorIs(t, err, entities.ErrInvalidInput)
}
