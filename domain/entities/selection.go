package entities

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MarketKind identifies which market a selection is priced against
type MarketKind string

const (
	MarketKindSpread    MarketKind = "spread"
	MarketKindMoneyline MarketKind = "moneyline"
	MarketKindTotal     MarketKind = "total"
	MarketKindFuture    MarketKind = "future"
	MarketKindProp      MarketKind = "prop"
)

// IsGameMarket returns true for markets settled from a game's final score
func (k MarketKind) IsGameMarket() bool {
	return k == MarketKindSpread || k == MarketKindMoneyline || k == MarketKindTotal
}

// HasLine returns true for markets that freeze a line alongside the price
func (k MarketKind) HasLine() bool {
	return k == MarketKindSpread || k == MarketKindTotal
}

// IsValid reports whether k is a known market kind
func (k MarketKind) IsValid() bool {
	switch k {
	case MarketKindSpread, MarketKindMoneyline, MarketKindTotal, MarketKindFuture, MarketKindProp:
		return true
	}
	return false
}

// Side is the tag of the side picked within a market, frozen at placement
type Side string

const (
	SideHome      Side = "home"
	SideAway      Side = "away"
	SideOver      Side = "over"
	SideUnder     Side = "under"
	SideSelection Side = "selection"
	SideCounter   Side = "counter"
)

// ValidFor reports whether the side can be taken on the given market kind
func (s Side) ValidFor(kind MarketKind) bool {
	switch kind {
	case MarketKindSpread, MarketKindMoneyline:
		return s == SideHome || s == SideAway
	case MarketKindTotal:
		return s == SideOver || s == SideUnder
	case MarketKindFuture:
		return s == SideSelection
	case MarketKindProp:
		return s == SideSelection || s == SideCounter
	}
	return false
}

// SelectionRequest is one leg of a bet slip as submitted by a user.
// Prices and lines are not trusted from the caller and are read from the market.
type SelectionRequest struct {
	Kind     MarketKind
	MarketID uuid.UUID
	Side     Side
}

// Key identifies the market side so a slip cannot hold the same pick twice
func (r SelectionRequest) Key() string {
	return fmt.Sprintf("%s:%s:%s", r.Kind, r.MarketID, r.Side)
}

// Validate checks the request shape without touching the datastore
func (r SelectionRequest) Validate() error {
	if !r.Kind.IsValid() {
		return fmt.Errorf("%w: unknown market kind %q", ErrInvalidInput, r.Kind)
	}
	if r.MarketID == uuid.Nil {
		return fmt.Errorf("%w: missing market id", ErrInvalidInput)
	}
	if !r.Side.ValidFor(r.Kind) {
		return fmt.Errorf("%w: side %q is not valid for %s", ErrInvalidInput, r.Side, r.Kind)
	}
	return nil
}

// MarketSelection is a priced pick frozen onto a wager or parlay leg.
// Exactly one of GameID, FutureID and PropID is set.
type MarketSelection struct {
	Kind        MarketKind       `db:"market_kind"`
	GameID      *uuid.UUID       `db:"game_id"`
	FutureID    *uuid.UUID       `db:"future_id"`
	PropID      *uuid.UUID       `db:"prop_id"`
	Side        Side             `db:"side"`
	Description string           `db:"selection"`
	Odds        int              `db:"odds"`
	Line        *decimal.Decimal `db:"line"`
}

// MarketID returns the identifier of the referenced game, future or prop
func (s MarketSelection) MarketID() uuid.UUID {
	switch {
	case s.GameID != nil:
		return *s.GameID
	case s.FutureID != nil:
		return *s.FutureID
	case s.PropID != nil:
		return *s.PropID
	}
	return uuid.Nil
}

// Validate checks that the frozen selection is internally consistent
func (s MarketSelection) Validate() error {
	refs := 0
	for _, id := range []*uuid.UUID{s.GameID, s.FutureID, s.PropID} {
		if id != nil {
			refs++
		}
	}
	if refs != 1 {
		return fmt.Errorf("%w: selection must reference exactly one market, got %d", ErrInvalidInput, refs)
	}
	if s.Kind.IsGameMarket() && s.GameID == nil {
		return fmt.Errorf("%w: %s selection requires a game", ErrInvalidInput, s.Kind)
	}
	if s.Kind == MarketKindFuture && s.FutureID == nil {
		return fmt.Errorf("%w: future selection requires a future", ErrInvalidInput)
	}
	if s.Kind == MarketKindProp && s.PropID == nil {
		return fmt.Errorf("%w: prop selection requires a prop", ErrInvalidInput)
	}
	if !s.Side.ValidFor(s.Kind) {
		return fmt.Errorf("%w: side %q is not valid for %s", ErrInvalidInput, s.Side, s.Kind)
	}
	if s.Odds == 0 {
		return fmt.Errorf("%w: odds cannot be zero", ErrInvalidInput)
	}
	if s.Kind.HasLine() && s.Line == nil {
		return fmt.Errorf("%w: %s selection requires a line", ErrInvalidInput, s.Kind)
	}
	return nil
}
