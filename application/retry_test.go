package application

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"wagerbook/config"
	"wagerbook/domain/entities"
	"wagerbook/domain/testhelpers"
	"wagerbook/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// stubUnitOfWork only tracks the transaction lifecycle
type stubUnitOfWork struct {
	UnitOfWork
	factory *stubUnitOfWorkFactory
}

func (u *stubUnitOfWork) Begin(ctx context.Context) error {
	u.factory.begins++
	return nil
}

func (u *stubUnitOfWork) Commit() error {
	u.factory.commits++
	return nil
}

func (u *stubUnitOfWork) Rollback() error {
	u.factory.rollbacks++
	return nil
}

type stubUnitOfWorkFactory struct {
	begins    int
	commits   int
	rollbacks int
}

func (f *stubUnitOfWorkFactory) Create() UnitOfWork {
	return &stubUnitOfWork{factory: f}
}

func withRetries(t *testing.T, retries int) {
	previous := config.Get()
	cfg := config.NewTestConfig()
	cfg.MaxConcurrencyRetries = retries
	config.SetTestConfig(cfg)
	t.Cleanup(func() { config.SetTestConfig(previous) })
}

func TestRunInUnitOfWork_CommitsOnSuccess(t *testing.T) {
	withRetries(t, 3)
	factory := &stubUnitOfWorkFactory{}
	publisher := &testhelpers.MockEventPublisher{}

	calls := 0
	err := runInUnitOfWork(context.Background(), factory, publisher, "test", func(uow UnitOfWork) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, factory.commits)
	publisher.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestRunInUnitOfWork_RetriesStaleBalance(t *testing.T) {
	withRetries(t, 3)
	factory := &stubUnitOfWorkFactory{}
	publisher := &testhelpers.MockEventPublisher{}
	publisher.On("Publish", mock.MatchedBy(func(e events.StaleRetryEvent) bool {
		return e.Operation == "place_wager" && e.Attempt == 1
	})).Return(nil).Once()

	calls := 0
	err := runInUnitOfWork(context.Background(), factory, publisher, "place_wager", func(uow UnitOfWork) error {
		calls++
		if calls == 1 {
			return fmt.Errorf("failed to update balances: %w", entities.ErrStaleBalance)
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, factory.begins)
	assert.Equal(t, 1, factory.commits)
	publisher.AssertExpectations(t)
}

func TestRunInUnitOfWork_GivesUp(t *testing.T) {
	withRetries(t, 3)
	factory := &stubUnitOfWorkFactory{}
	publisher := &testhelpers.MockEventPublisher{}
	publisher.On("Publish", mock.AnythingOfType("events.StaleRetryEvent")).Return(nil)

	calls := 0
	err := runInUnitOfWork(context.Background(), factory, publisher, "settle_wager", func(uow UnitOfWork) error {
		calls++
		return entities.ErrStaleBalance
	})

	require.ErrorIs(t, err, entities.ErrStaleBalance)
	// One first attempt plus three retries
	assert.Contains(t, err.Error(), "gave up after 4 attempts")
	assert.Equal(t, 4, calls)
	assert.Equal(t, 4, factory.rollbacks)
	assert.Equal(t, 0, factory.commits)
	publisher.AssertNumberOfCalls(t, "Publish", 3)
}

func TestRunInUnitOfWork_ZeroRetries(t *testing.T) {
	withRetries(t, 0)
	factory := &stubUnitOfWorkFactory{}
	publisher := &testhelpers.MockEventPublisher{}

	calls := 0
	err := runInUnitOfWork(context.Background(), factory, publisher, "settle_wager", func(uow UnitOfWork) error {
		calls++
		return entities.ErrStaleBalance
	})

	require.ErrorIs(t, err, entities.ErrStaleBalance)
	assert.Contains(t, err.Error(), "gave up after 1 attempts")
	assert.Equal(t, 1, calls)
	publisher.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestRunInUnitOfWork_OtherErrorsAreNotRetried(t *testing.T) {
	withRetries(t, 5)
	factory := &stubUnitOfWorkFactory{}

	calls := 0
	boom := errors.New("boom")
	err := runInUnitOfWork(context.Background(), factory, nil, "test", func(uow UnitOfWork) error {
		calls++
		return fmt.Errorf("%w: %w", entities.ErrInsufficientBalance, boom)
	})

	require.ErrorIs(t, err, entities.ErrInsufficientBalance)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, factory.commits)
	assert.Equal(t, 1, factory.rollbacks)
}
