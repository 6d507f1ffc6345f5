package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StraightWager is a single-market wager owned by one ledger account
type StraightWager struct {
	ID              uuid.UUID       `db:"id"`
	AccountID       uuid.UUID       `db:"account_id"`
	Selection       MarketSelection `db:"-"`
	Stake           decimal.Decimal `db:"stake"`
	PotentialPayout decimal.Decimal `db:"potential_payout"`
	Status          WagerStatus     `db:"status"`
	CreatedAt       time.Time       `db:"created_at"`
	SettledAt       *time.Time      `db:"settled_at"`
}

// IsPending returns true if the wager has not been settled
func (w *StraightWager) IsPending() bool {
	return w.Status == WagerStatusPending
}

// Profit returns the amount won on top of the stake if the wager wins
func (w *StraightWager) Profit() decimal.Decimal {
	return w.PotentialPayout.Sub(w.Stake)
}
