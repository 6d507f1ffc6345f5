package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerAccount is a user's unit balance. Version is the optimistic
// concurrency token; every persisted mutation increments it.
type LedgerAccount struct {
	ID          uuid.UUID       `db:"id"`
	DisplayName string          `db:"display_name"`
	Team        *string         `db:"team"`
	Remaining   decimal.Decimal `db:"units_remaining"`
	Wagered     decimal.Decimal `db:"units_wagered"`
	Won         decimal.Decimal `db:"units_won"`
	Lost        decimal.Decimal `db:"units_lost"`
	Version     int64           `db:"version"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

// CanCover returns true if the remaining balance covers the commitment
func (a *LedgerAccount) CanCover(amount decimal.Decimal) bool {
	return a.Remaining.GreaterThanOrEqual(amount)
}

// CommitStake moves a placement's total commitment out of remaining and into wagered
func (a *LedgerAccount) CommitStake(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: commitment must be positive, got %s", ErrInvalidStake, amount)
	}
	if !a.CanCover(amount) {
		return fmt.Errorf("%w: need %s units, %s remaining", ErrInsufficientBalance, amount.StringFixed(UnitPrecision), a.Remaining.StringFixed(UnitPrecision))
	}
	a.Remaining = RoundUnits(a.Remaining.Sub(amount))
	a.Wagered = RoundUnits(a.Wagered.Add(amount))
	return nil
}

// ApplyWon credits the full payout and records the profit above the stake
func (a *LedgerAccount) ApplyWon(stake, payout decimal.Decimal) error {
	if payout.LessThan(stake) {
		return fmt.Errorf("%w: payout %s is below stake %s", ErrInvalidInput, payout, stake)
	}
	a.Remaining = RoundUnits(a.Remaining.Add(payout))
	a.Won = RoundUnits(a.Won.Add(payout.Sub(stake)))
	return nil
}

// ApplyLost records the stake as lost. Remaining is untouched since the
// stake left the balance at placement.
func (a *LedgerAccount) ApplyLost(stake decimal.Decimal) error {
	if stake.IsNegative() {
		return fmt.Errorf("%w: stake cannot be negative", ErrInvalidInput)
	}
	a.Lost = RoundUnits(a.Lost.Add(stake))
	return nil
}

// ApplyPush returns the stake without recording a win or a loss.
// Administrative voids use the same refund.
func (a *LedgerAccount) ApplyPush(stake decimal.Decimal) error {
	if stake.IsNegative() {
		return fmt.Errorf("%w: stake cannot be negative", ErrInvalidInput)
	}
	a.Remaining = RoundUnits(a.Remaining.Add(stake))
	return nil
}

// NetProfit returns units won minus units lost
func (a *LedgerAccount) NetProfit() decimal.Decimal {
	return a.Won.Sub(a.Lost)
}

// ROI returns net profit as a percentage of units wagered, zero when nothing was wagered
func (a *LedgerAccount) ROI() decimal.Decimal {
	if a.Wagered.IsZero() {
		return decimal.Zero
	}
	return a.NetProfit().Div(a.Wagered).Mul(decimal.NewFromInt(100)).Round(1)
}

// Validate checks the balance invariants
func (a *LedgerAccount) Validate() error {
	if a.Remaining.IsNegative() {
		return fmt.Errorf("%w: remaining cannot be negative", ErrInvalidInput)
	}
	if a.Wagered.IsNegative() || a.Won.IsNegative() || a.Lost.IsNegative() {
		return fmt.Errorf("%w: ledger totals cannot be negative", ErrInvalidInput)
	}
	return nil
}

// Clone returns a copy safe to mutate without touching the original
func (a *LedgerAccount) Clone() *LedgerAccount {
	c := *a
	return &c
}
