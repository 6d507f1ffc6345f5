package observability

import (
	"context"
	"testing"
	"time"

	"wagerbook/config"
	"wagerbook/domain/entities"
	"wagerbook/events"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestProvider(t *testing.T) (*MetricsProvider, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := NewMetricsProvider(config.NewTestConfig())
	require.NoError(t, mp.InitializeWithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	return mp, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	found := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			found[m.Name] = m.Data
		}
	}
	return found
}

func int64Total(t *testing.T, data metricdata.Aggregation) int64 {
	t.Helper()
	sum, ok := data.(metricdata.Sum[int64])
	require.True(t, ok, "expected an int64 sum, got %T", data)

	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestMetricsProvider_DisabledIsNoop(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.OTelEnabled = false
	mp := NewMetricsProvider(cfg)
	require.NoError(t, mp.Initialize(context.Background()))

	assert.NotPanics(t, func() {
		mp.RecordWagerPlaced(WagerTypeStraight, 2, 4)
		mp.RecordSettlementPass(1, 0, 0, 0)
	})

	var nilProvider *MetricsProvider
	assert.NotPanics(t, func() { nilProvider.RecordOddsMove("spread") })
}

func TestMetricsProvider_RecordsWagerLifecycle(t *testing.T) {
	mp, reader := newTestProvider(t)

	mp.RecordWagerPlaced(WagerTypeStraight, 2, 6)
	mp.RecordWagerPlaced(WagerTypeParlay, 1, 2)
	mp.RecordWagerSettled(WagerTypeStraight, "won")

	found := collect(t, reader)
	assert.Equal(t, int64(3), int64Total(t, found[WagersPlacedTotal]))
	assert.Equal(t, int64(1), int64Total(t, found[WagersSettledTotal]))
	assert.Equal(t, int64(2), int64Total(t, found[WagersPending]))

	staked, ok := found[StakedUnitsTotal].(metricdata.Sum[float64])
	require.True(t, ok)
	var units float64
	for _, dp := range staked.DataPoints {
		units += dp.Value
	}
	assert.InDelta(t, 8.0, units, 0.001)
}

func TestMetricsProvider_RecordSettlementPass(t *testing.T) {
	mp, reader := newTestProvider(t)

	mp.RecordSettlementPass(3, 2, 0, 1)
	mp.RecordSettlementPass(0, 1, 1, 0)

	found := collect(t, reader)
	assert.Equal(t, int64(2), int64Total(t, found[SettlementPassesTotal]))
	assert.Equal(t, int64(9), int64Total(t, found[SettlementOutcomesTotal]))
}

func TestRegisterMetricsSubscriptions(t *testing.T) {
	mp, reader := newTestProvider(t)
	bus := events.NewBus()
	RegisterMetricsSubscriptions(bus, mp)

	ctx := context.Background()
	bus.Emit(ctx, events.StaleRetryEvent{Operation: "place_wager", Attempt: 1})
	bus.Emit(ctx, events.OddsMovedEvent{
		MarketKind: entities.MarketKindSpread,
		MarketID:   uuid.New(),
		Side:       entities.SideHome,
		OldValue:   decimal.NewFromInt(-3),
		NewValue:   decimal.RequireFromString("-3.5"),
	})
	bus.Emit(ctx, events.LedgerChangeEvent{TransactionType: entities.TransactionTypeWagerPlaced})

	// Handlers run asynchronously
	assert.Eventually(t, func() bool {
		found := collect(t, reader)
		return found[StaleRetriesTotal] != nil && found[OddsMovesTotal] != nil && found[LedgerTransactionsTotal] != nil
	}, 2*time.Second, 10*time.Millisecond)
}
