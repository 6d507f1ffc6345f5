package utils

import (
	"context"
	"fmt"

	"wagerbook/domain/entities"
	"wagerbook/domain/interfaces"
	"wagerbook/events"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// RecordLedgerChange appends a ledger entry and publishes the matching event.
// Every balance mutation in the system goes through here after the versioned
// account update succeeds, inside the same unit of work.
func RecordLedgerChange(ctx context.Context, ledgerEntryRepo interfaces.LedgerEntryRepository, eventPublisher interfaces.EventPublisher, entry *entities.LedgerEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("invalid ledger entry: %w", err)
	}

	if err := ledgerEntryRepo.Record(ctx, entry); err != nil {
		return fmt.Errorf("failed to record ledger entry: %w", err)
	}

	event := events.LedgerChangeEvent{
		AccountID:       entry.AccountID,
		OldRemaining:    entry.RemainingBefore,
		NewRemaining:    entry.RemainingAfter,
		ChangeAmount:    entry.ChangeAmount,
		UnitsInvolved:   entry.UnitsInvolved,
		TransactionType: entry.TransactionType,
	}
	log.WithFields(log.Fields{
		"accountID":       event.AccountID,
		"oldRemaining":    event.OldRemaining.StringFixed(entities.UnitPrecision),
		"newRemaining":    event.NewRemaining.StringFixed(entities.UnitPrecision),
		"transactionType": event.TransactionType,
		"unitsInvolved":   event.UnitsInvolved.StringFixed(entities.UnitPrecision),
	}).Debug("Publishing LedgerChangeEvent")
	if err := eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish ledger change event")
	}

	return nil
}

// NewLedgerEntry builds the audit row for a mutation from the remaining balance before and after it
func NewLedgerEntry(accountID uuid.UUID, remainingBefore, remainingAfter decimal.Decimal, txType entities.TransactionType, unitsInvolved decimal.Decimal, relatedID uuid.UUID, relatedType entities.RelatedType) *entities.LedgerEntry {
	entry := &entities.LedgerEntry{
		AccountID:       accountID,
		TransactionType: txType,
		RemainingBefore: remainingBefore,
		RemainingAfter:  remainingAfter,
		ChangeAmount:    remainingAfter.Sub(remainingBefore),
		UnitsInvolved:   unitsInvolved,
	}
	if relatedID != uuid.Nil {
		entry.RelatedID = &relatedID
		entry.RelatedType = &relatedType
	}
	return entry
}
