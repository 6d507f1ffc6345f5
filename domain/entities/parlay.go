package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ParlayWager combines two or more legs into one wager with a composite price
type ParlayWager struct {
	ID              uuid.UUID        `db:"id"`
	AccountID       uuid.UUID        `db:"account_id"`
	Stake           decimal.Decimal  `db:"stake"`
	TotalOdds       int              `db:"total_odds"`
	PotentialPayout decimal.Decimal  `db:"potential_payout"`
	Payout          *decimal.Decimal `db:"payout"` // credited back at settlement
	Status          WagerStatus      `db:"status"`
	CreatedAt       time.Time        `db:"created_at"`
	SettledAt       *time.Time       `db:"settled_at"`
	Legs            []*ParlayLeg     `db:"-"`
}

// ParlayLeg is one frozen selection inside a parlay
type ParlayLeg struct {
	ID        uuid.UUID       `db:"id"`
	ParlayID  uuid.UUID       `db:"parlay_id"`
	Position  int             `db:"position"`
	Selection MarketSelection `db:"-"`
	Status    WagerStatus     `db:"status"`
	SettledAt *time.Time      `db:"settled_at"`
}

// IsPending returns true if the parlay has not been settled
func (p *ParlayWager) IsPending() bool {
	return p.Status == WagerStatusPending
}

// LegOdds returns the frozen prices of the legs whose status satisfies keep
func (p *ParlayWager) LegOdds(keep func(WagerStatus) bool) []int {
	odds := make([]int, 0, len(p.Legs))
	for _, leg := range p.Legs {
		if keep(leg.Status) {
			odds = append(odds, leg.Selection.Odds)
		}
	}
	return odds
}

// PendingLegs returns the legs still awaiting a verdict
func (p *ParlayWager) PendingLegs() []*ParlayLeg {
	var pending []*ParlayLeg
	for _, leg := range p.Legs {
		if leg.Status == WagerStatusPending {
			pending = append(pending, leg)
		}
	}
	return pending
}
