package application

import (
	"context"

	"wagerbook/domain/entities"
	"wagerbook/events"

	log "github.com/sirupsen/logrus"
)

// RegisterAuditSubscriptions writes a structured audit line for every
// committed ledger change, settlement and applied line move
func RegisterAuditSubscriptions(bus *events.Bus) {
	bus.Subscribe(events.EventTypeLedgerChange, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.LedgerChangeEvent)
		if !ok {
			return
		}
		log.WithFields(log.Fields{
			"audit":           "ledger",
			"accountID":       e.AccountID,
			"transactionType": e.TransactionType,
			"change":          e.ChangeAmount.StringFixed(entities.UnitPrecision),
			"units":           e.UnitsInvolved.StringFixed(entities.UnitPrecision),
			"remaining":       e.NewRemaining.StringFixed(entities.UnitPrecision),
		}).Info("Ledger changed")
	})

	bus.Subscribe(events.EventTypeWagerPlaced, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.WagerPlacedEvent)
		if !ok {
			return
		}
		log.WithFields(log.Fields{
			"audit":      "placement",
			"accountID":  e.AccountID,
			"mode":       e.Mode,
			"legs":       e.Legs,
			"wagerIDs":   e.WagerIDs,
			"commitment": e.Commitment.StringFixed(entities.UnitPrecision),
		}).Info("Wager placed")
	})

	bus.Subscribe(events.EventTypeWagerSettled, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.WagerSettledEvent)
		if !ok {
			return
		}
		log.WithFields(log.Fields{
			"audit":     "settlement",
			"wagerID":   e.WagerID,
			"accountID": e.AccountID,
			"parlay":    e.Parlay,
			"status":    e.Status,
			"stake":     e.Stake.StringFixed(entities.UnitPrecision),
			"payout":    e.Payout.StringFixed(entities.UnitPrecision),
		}).Info("Wager settled")
	})

	bus.Subscribe(events.EventTypeOddsMoved, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.OddsMovedEvent)
		if !ok {
			return
		}
		log.WithFields(log.Fields{
			"audit":    "odds",
			"kind":     e.MarketKind,
			"marketID": e.MarketID,
			"side":     e.Side,
			"from":     e.OldValue.String(),
			"to":       e.NewValue.String(),
		}).Info("Line moved")
	})
}
