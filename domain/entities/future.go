package entities

import (
	"time"

	"github.com/google/uuid"
)

// FutureResult is the terminal outcome declared for a futures selection
type FutureResult string

const (
	FutureResultWon  FutureResult = "won"
	FutureResultLost FutureResult = "lost"
)

// Future is a standing-market selection such as a championship or award winner
type Future struct {
	ID            uuid.UUID     `db:"id"`
	Category      string        `db:"category"`
	SelectionName string        `db:"selection_name"`
	Odds          int           `db:"odds"`
	IsActive      bool          `db:"is_active"`
	Result        *FutureResult `db:"result"`
	CreatedAt     time.Time     `db:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at"`
}

// IsOpenForBetting returns true if the future still accepts wagers
func (f *Future) IsOpenForBetting() bool {
	return f.IsActive && f.Result == nil
}

// Quote freezes the current price of the future
func (f *Future) Quote() MarketSelection {
	id := f.ID
	return MarketSelection{
		Kind:        MarketKindFuture,
		FutureID:    &id,
		Side:        SideSelection,
		Description: f.Category + ": " + f.SelectionName,
		Odds:        f.Odds,
	}
}

// DeclareResult sets the terminal result, which also closes the market
func (f *Future) DeclareResult(result FutureResult) {
	f.Result = &result
	f.IsActive = false
}

// Snapshot flattens the future for settlement
func (f *Future) Snapshot() FutureSnapshot {
	return FutureSnapshot{FutureID: f.ID, Result: f.Result}
}

// FutureSnapshot is the flattened state of a future read once per settlement pass
type FutureSnapshot struct {
	FutureID uuid.UUID
	Result   *FutureResult
}
