package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PropResult is the terminal outcome declared for a proposition
type PropResult string

const (
	PropResultSelectionWon PropResult = "selection_won"
	PropResultCounterWon   PropResult = "counter_won"
)

// Prop is a one or two sided proposition, optionally tied to a game and a team
type Prop struct {
	ID               uuid.UUID   `db:"id"`
	Description      string      `db:"description"`
	SelectionName    string      `db:"selection_name"`
	Odds             int         `db:"odds"`
	CounterSelection *string     `db:"counter_selection"`
	CounterOdds      *int        `db:"counter_odds"`
	GameID           *uuid.UUID  `db:"game_id"`
	Team             *string     `db:"team"`
	Result           *PropResult `db:"result"`
	CreatedAt        time.Time   `db:"created_at"`
	UpdatedAt        time.Time   `db:"updated_at"`
}

// HasCounter returns true for two sided props
func (p *Prop) HasCounter() bool {
	return p.CounterSelection != nil && p.CounterOdds != nil
}

// IsResolved returns true once a result has been declared
func (p *Prop) IsResolved() bool {
	return p.Result != nil
}

// IsTaggedWithTeam reports whether the prop is tied to the given team.
// Team names compare case-insensitively.
func (p *Prop) IsTaggedWithTeam(team string) bool {
	if p.Team == nil || team == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(*p.Team), strings.TrimSpace(team))
}

// Quote freezes the price of one side of the prop
func (p *Prop) Quote(side Side) (MarketSelection, error) {
	id := p.ID
	sel := MarketSelection{Kind: MarketKindProp, PropID: &id, Side: side}

	switch side {
	case SideSelection:
		sel.Odds = p.Odds
		sel.Description = p.SelectionName
	case SideCounter:
		if !p.HasCounter() {
			return MarketSelection{}, fmt.Errorf("%w: prop %s has no counter side", ErrInvalidInput, p.ID)
		}
		sel.Odds = *p.CounterOdds
		sel.Description = *p.CounterSelection
	default:
		return MarketSelection{}, fmt.Errorf("%w: side %q on prop", ErrInvalidInput, side)
	}

	return sel, nil
}

// Snapshot flattens the prop for settlement
func (p *Prop) Snapshot() PropSnapshot {
	return PropSnapshot{PropID: p.ID, Result: p.Result}
}

// PropSnapshot is the flattened state of a prop read once per settlement pass
type PropSnapshot struct {
	PropID uuid.UUID
	Result *PropResult
}
