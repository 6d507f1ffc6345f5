package observability

import (
	"context"

	"wagerbook/events"
)

// RegisterMetricsSubscriptions feeds committed domain events into the metrics provider
func RegisterMetricsSubscriptions(bus *events.Bus, mp *MetricsProvider) {
	bus.Subscribe(events.EventTypeWagerPlaced, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.WagerPlacedEvent); ok {
			mp.RecordWagerPlaced(e.Mode, len(e.WagerIDs), e.Commitment.InexactFloat64())
		}
	})

	bus.Subscribe(events.EventTypeWagerSettled, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.WagerSettledEvent); ok {
			wagerType := WagerTypeStraight
			if e.Parlay {
				wagerType = WagerTypeParlay
			}
			mp.RecordWagerSettled(wagerType, string(e.Status))
		}
	})

	bus.Subscribe(events.EventTypeParlayLegSettled, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.ParlayLegSettledEvent); ok {
			mp.RecordParlayLegSettled(string(e.Status))
		}
	})

	bus.Subscribe(events.EventTypeLedgerChange, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.LedgerChangeEvent); ok {
			mp.RecordLedgerTransaction(e.TransactionType.String())
		}
	})

	bus.Subscribe(events.EventTypeStaleRetry, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.StaleRetryEvent); ok {
			mp.RecordStaleRetry(e.Operation)
		}
	})

	bus.Subscribe(events.EventTypeSettlementPassDone, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.SettlementPassDoneEvent); ok {
			mp.RecordSettlementPass(e.Settled, e.Deferred, e.Conflicts, e.Failed)
		}
	})

	bus.Subscribe(events.EventTypeOddsMoved, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.OddsMovedEvent); ok {
			mp.RecordOddsMove(string(e.MarketKind))
		}
	})
}
