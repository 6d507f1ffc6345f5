package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wagerbook/config"
	"wagerbook/domain/entities"
	"wagerbook/domain/interfaces"
	"wagerbook/events"

	log "github.com/sirupsen/logrus"
)

const staleRetryBackoff = 10 * time.Millisecond

// runInUnitOfWork runs fn inside a fresh unit of work and commits it. A lost
// race on a ledger account version rolls back and runs fn again in a new
// transaction, at most MaxConcurrencyRetries times after the first attempt.
func runInUnitOfWork(
	ctx context.Context,
	uowFactory UnitOfWorkFactory,
	publisher interfaces.EventPublisher,
	operation string,
	fn func(uow UnitOfWork) error,
) error {
	maxRetries := max(0, config.Get().MaxConcurrencyRetries)

	var lastErr error
	for retry := 0; ; retry++ {
		lastErr = runOnce(ctx, uowFactory, fn)
		if lastErr == nil || !errors.Is(lastErr, entities.ErrStaleBalance) {
			return lastErr
		}
		if retry == maxRetries {
			break
		}

		attempt := retry + 1
		log.WithFields(log.Fields{
			"operation":  operation,
			"attempt":    attempt,
			"maxRetries": maxRetries,
		}).Warn("Ledger account changed underneath, retrying")

		if publisher != nil {
			if err := publisher.Publish(events.StaleRetryEvent{Operation: operation, Attempt: attempt}); err != nil {
				log.WithError(err).Error("Failed to publish stale retry event")
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * staleRetryBackoff):
		}
	}

	return fmt.Errorf("%s gave up after %d attempts: %w", operation, maxRetries+1, lastErr)
}

func runOnce(ctx context.Context, uowFactory UnitOfWorkFactory, fn func(uow UnitOfWork) error) error {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := fn(uow); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
