package observability

// Metric name prefixes
const (
	MetricPrefix = "wagerbook"
)

// Metric names
const (
	// Wager metrics
	WagersPlacedTotal  = MetricPrefix + ".wagers.placed_total"
	WagersSettledTotal = MetricPrefix + ".wagers.settled_total"
	WagersPending      = MetricPrefix + ".wagers.pending"
	StakedUnitsTotal   = MetricPrefix + ".wagers.staked_units_total"
	ParlayLegsSettled  = MetricPrefix + ".parlays.legs_settled_total"

	// Ledger metrics
	LedgerTransactionsTotal = MetricPrefix + ".ledger.transactions_total"
	StaleRetriesTotal       = MetricPrefix + ".ledger.stale_retries_total"

	// Settlement metrics
	SettlementPassesTotal   = MetricPrefix + ".settlement.passes_total"
	SettlementOutcomesTotal = MetricPrefix + ".settlement.outcomes_total"

	// Market metrics
	OddsMovesTotal = MetricPrefix + ".markets.odds_moves_total"
)

// Label keys
const (
	LabelType      = "type"
	LabelStatus    = "status"
	LabelMode      = "mode"
	LabelOperation = "operation"
	LabelOutcome   = "outcome"
	LabelKind      = "market_kind"
)

// Wager types
const (
	WagerTypeStraight = "straight"
	WagerTypeParlay   = "parlay"
)

// Settlement pass outcomes
const (
	OutcomeSettled  = "settled"
	OutcomeDeferred = "deferred"
	OutcomeConflict = "conflict"
	OutcomeFailed   = "failed"
)
