package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OddsHistory records an applied change to a market's line or price
type OddsHistory struct {
	ID         int64           `db:"id"`
	MarketKind MarketKind      `db:"market_kind"`
	MarketID   uuid.UUID       `db:"market_id"`
	Side       Side            `db:"side"`
	OldValue   decimal.Decimal `db:"old_value"`
	NewValue   decimal.Decimal `db:"new_value"`
	Reason     string          `db:"reason"`
	CreatedAt  time.Time       `db:"created_at"`
}

// Movement returns how far the value moved
func (h *OddsHistory) Movement() decimal.Decimal {
	return h.NewValue.Sub(h.OldValue)
}
