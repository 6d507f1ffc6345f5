package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"wagerbook/config"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
)

// MetricsProvider manages OpenTelemetry metrics for the wagering ledger
type MetricsProvider struct {
	config        *config.Config
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	initialized   bool
	enabled       bool
	mu            sync.RWMutex

	// Metric instruments
	wagersPlacedCounter       metric.Int64Counter
	wagersSettledCounter      metric.Int64Counter
	wagersPendingGauge        metric.Int64UpDownCounter
	stakedUnitsCounter        metric.Float64Counter
	parlayLegsSettledCounter  metric.Int64Counter
	ledgerTransactionsCounter metric.Int64Counter
	staleRetriesCounter       metric.Int64Counter
	settlementPassesCounter   metric.Int64Counter
	settlementOutcomesCounter metric.Int64Counter
	oddsMovesCounter          metric.Int64Counter
}

// NewMetricsProvider creates a new metrics provider
func NewMetricsProvider(cfg *config.Config) *MetricsProvider {
	return &MetricsProvider{
		config: cfg,
	}
}

// Initialize sets up the OpenTelemetry metrics provider
func (mp *MetricsProvider) Initialize(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.initialized {
		log.Debug("Metrics provider already initialized")
		return nil
	}

	if !mp.config.OTelEnabled {
		log.Info("OpenTelemetry metrics disabled")
		mp.initialized = true
		return nil
	}

	// Create appropriate exporter based on config
	var exporter sdkmetric.Exporter
	var err error
	switch mp.config.OTelExporterType {
	case "console":
		exporter, err = stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create console exporter: %w", err)
		}
		log.Info("Using console metric exporter")

	case "otlp":
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		exporter, err = otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(mp.config.OTelOTLPEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		log.WithField("endpoint", mp.config.OTelOTLPEndpoint).Info("Using OTLP metric exporter")

	case "none":
		log.Info("Metrics export disabled (exporter_type='none')")
		mp.initialized = true
		return nil

	default:
		return fmt.Errorf("unknown exporter type: %s", mp.config.OTelExporterType)
	}

	reader := sdkmetric.NewPeriodicReader(
		exporter,
		sdkmetric.WithInterval(time.Duration(mp.config.OTelExportIntervalMillis)*time.Millisecond),
	)
	if err := mp.initializeWithReader(reader); err != nil {
		return err
	}

	// Set as global meter provider
	otel.SetMeterProvider(mp.meterProvider)

	log.Info("Metrics provider initialized successfully")
	return nil
}

// InitializeWithReader sets up the provider on a caller-supplied reader,
// such as a manual reader collecting on demand
func (mp *MetricsProvider) InitializeWithReader(reader sdkmetric.Reader) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.initialized {
		return nil
	}
	return mp.initializeWithReader(reader)
}

func (mp *MetricsProvider) initializeWithReader(reader sdkmetric.Reader) error {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(mp.config.OTelServiceName),
			attribute.String("environment", mp.config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	mp.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	mp.meter = mp.meterProvider.Meter("wagerbook")

	if err := mp.createInstruments(); err != nil {
		return fmt.Errorf("failed to create instruments: %w", err)
	}

	mp.initialized = true
	mp.enabled = true
	return nil
}

// createInstruments creates all metric instruments
func (mp *MetricsProvider) createInstruments() error {
	var err error

	// Wager metrics
	mp.wagersPlacedCounter, err = mp.meter.Int64Counter(
		WagersPlacedTotal,
		metric.WithDescription("Total number of wagers placed"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create wagers placed counter: %w", err)
	}

	mp.wagersSettledCounter, err = mp.meter.Int64Counter(
		WagersSettledTotal,
		metric.WithDescription("Total number of wagers reaching a terminal status"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create wagers settled counter: %w", err)
	}

	// Using UpDownCounter for gauge-like behavior
	mp.wagersPendingGauge, err = mp.meter.Int64UpDownCounter(
		WagersPending,
		metric.WithDescription("Current number of pending wagers"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create wagers pending gauge: %w", err)
	}

	mp.stakedUnitsCounter, err = mp.meter.Float64Counter(
		StakedUnitsTotal,
		metric.WithDescription("Total units committed to wagers"),
		metric.WithUnit("{unit}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create staked units counter: %w", err)
	}

	mp.parlayLegsSettledCounter, err = mp.meter.Int64Counter(
		ParlayLegsSettled,
		metric.WithDescription("Total number of parlay legs receiving a verdict"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create parlay legs counter: %w", err)
	}

	// Ledger metrics
	mp.ledgerTransactionsCounter, err = mp.meter.Int64Counter(
		LedgerTransactionsTotal,
		metric.WithDescription("Total number of ledger transactions"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create ledger transactions counter: %w", err)
	}

	mp.staleRetriesCounter, err = mp.meter.Int64Counter(
		StaleRetriesTotal,
		metric.WithDescription("Total number of optimistic ledger writes retried after a version conflict"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create stale retries counter: %w", err)
	}

	// Settlement metrics
	mp.settlementPassesCounter, err = mp.meter.Int64Counter(
		SettlementPassesTotal,
		metric.WithDescription("Total number of settlement passes run"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create settlement passes counter: %w", err)
	}

	mp.settlementOutcomesCounter, err = mp.meter.Int64Counter(
		SettlementOutcomesTotal,
		metric.WithDescription("Wagers visited by settlement passes, by outcome"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create settlement outcomes counter: %w", err)
	}

	// Market metrics
	mp.oddsMovesCounter, err = mp.meter.Int64Counter(
		OddsMovesTotal,
		metric.WithDescription("Total number of applied line and price moves"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create odds moves counter: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the metrics provider
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.meterProvider != nil {
		return mp.meterProvider.Shutdown(ctx)
	}
	return nil
}

// RecordWagerPlaced records the wagers created by one accepted slip
func (mp *MetricsProvider) RecordWagerPlaced(mode string, wagers int, units float64) {
	if !mp.isEnabled() {
		return
	}

	ctx := context.Background()
	attrs := metric.WithAttributes(attribute.String(LabelMode, mode))
	mp.wagersPlacedCounter.Add(ctx, int64(wagers), attrs)
	mp.wagersPendingGauge.Add(ctx, int64(wagers), attrs)
	mp.stakedUnitsCounter.Add(ctx, units, attrs)
}

// RecordWagerSettled records a straight wager or parlay leaving pending
func (mp *MetricsProvider) RecordWagerSettled(wagerType, status string) {
	if !mp.isEnabled() {
		return
	}

	ctx := context.Background()
	mp.wagersSettledCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String(LabelType, wagerType),
			attribute.String(LabelStatus, status),
		),
	)
	mp.wagersPendingGauge.Add(ctx, -1,
		metric.WithAttributes(attribute.String(LabelMode, wagerType)),
	)
}

// RecordParlayLegSettled records a parlay leg verdict
func (mp *MetricsProvider) RecordParlayLegSettled(status string) {
	if !mp.isEnabled() {
		return
	}

	mp.parlayLegsSettledCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelStatus, status)),
	)
}

// RecordLedgerTransaction records a committed ledger entry
func (mp *MetricsProvider) RecordLedgerTransaction(transactionType string) {
	if !mp.isEnabled() {
		return
	}

	mp.ledgerTransactionsCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelType, transactionType)),
	)
}

// RecordStaleRetry records an optimistic write retried after losing a race
func (mp *MetricsProvider) RecordStaleRetry(operation string) {
	if !mp.isEnabled() {
		return
	}

	mp.staleRetriesCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelOperation, operation)),
	)
}

// RecordSettlementPass records the outcome counts of one pass
func (mp *MetricsProvider) RecordSettlementPass(settled, deferred, conflicts, failed int) {
	if !mp.isEnabled() {
		return
	}

	ctx := context.Background()
	mp.settlementPassesCounter.Add(ctx, 1)
	for outcome, count := range map[string]int{
		OutcomeSettled:  settled,
		OutcomeDeferred: deferred,
		OutcomeConflict: conflicts,
		OutcomeFailed:   failed,
	} {
		if count == 0 {
			continue
		}
		mp.settlementOutcomesCounter.Add(ctx, int64(count),
			metric.WithAttributes(attribute.String(LabelOutcome, outcome)),
		)
	}
}

// RecordOddsMove records an applied line move
func (mp *MetricsProvider) RecordOddsMove(kind string) {
	if !mp.isEnabled() {
		return
	}

	mp.oddsMovesCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelKind, kind)),
	)
}

// isEnabled checks if metrics are enabled and initialized
func (mp *MetricsProvider) isEnabled() bool {
	if mp == nil {
		return false
	}
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.initialized && mp.enabled
}

// Global metrics provider instance
var (
	globalMetrics *MetricsProvider
	metricsOnce   sync.Once
)

// InitializeGlobalMetrics initializes the global metrics provider
func InitializeGlobalMetrics(ctx context.Context, cfg *config.Config) error {
	var err error
	metricsOnce.Do(func() {
		globalMetrics = NewMetricsProvider(cfg)
		err = globalMetrics.Initialize(ctx)
	})
	return err
}

// GetMetrics returns the global metrics provider
func GetMetrics() *MetricsProvider {
	return globalMetrics
}

// ShutdownGlobalMetrics shuts down the global metrics provider
func ShutdownGlobalMetrics(ctx context.Context) error {
	if globalMetrics != nil {
		return globalMetrics.Shutdown(ctx)
	}
	return nil
}
