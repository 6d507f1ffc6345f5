package entities

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RelatedType represents what kind of wager the related_id refers to
type RelatedType string

const (
	RelatedTypeStraightWager RelatedType = "straight_wager"
	RelatedTypeParlayWager   RelatedType = "parlay_wager"
)

// LedgerEntry is an append-only audit row for one ledger mutation.
// UnitsInvolved is the stake or payout the mutation was about, which is
// non-zero even when remaining does not move (a lost wager).
type LedgerEntry struct {
	ID              int64           `db:"id"`
	AccountID       uuid.UUID       `db:"account_id"`
	TransactionType TransactionType `db:"transaction_type"`
	RemainingBefore decimal.Decimal `db:"remaining_before"`
	RemainingAfter  decimal.Decimal `db:"remaining_after"`
	ChangeAmount    decimal.Decimal `db:"change_amount"`
	UnitsInvolved   decimal.Decimal `db:"units_involved"`
	RelatedID       *uuid.UUID      `db:"related_id"`
	RelatedType     *RelatedType    `db:"related_type"`
	CreatedAt       time.Time       `db:"created_at"`
}

// Description returns a human-readable description of the entry
func (e *LedgerEntry) Description() string {
	switch e.TransactionType {
	case TransactionTypeInitial:
		return "Initial units"
	case TransactionTypeWagerPlaced:
		return "Wager placed"
	case TransactionTypeWagerWon:
		return "Wager won"
	case TransactionTypeWagerLost:
		return "Wager lost"
	case TransactionTypeWagerPush:
		return "Wager pushed"
	case TransactionTypeWagerVoid:
		return "Wager voided"
	default:
		return string(e.TransactionType)
	}
}

// Validate performs basic consistency checks on the entry
func (e *LedgerEntry) Validate() error {
	if !e.RemainingAfter.Equal(e.RemainingBefore.Add(e.ChangeAmount)) {
		return errors.New("remaining calculation is inconsistent")
	}
	if e.RemainingAfter.IsNegative() {
		return errors.New("remaining cannot go negative")
	}
	if e.UnitsInvolved.IsNegative() {
		return errors.New("units involved cannot be negative")
	}
	return nil
}
