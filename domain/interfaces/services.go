package interfaces

import (
	"context"

	"wagerbook/domain/entities"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SlipMode selects how a multi-selection slip is turned into wagers
type SlipMode string

const (
	SlipModeStraight SlipMode = "straight"
	SlipModeParlay   SlipMode = "parlay"
)

// PlacementRequest is a bet slip submitted by one user
type PlacementRequest struct {
	AccountID  uuid.UUID
	Selections []entities.SelectionRequest
	Stake      decimal.Decimal
	Mode       SlipMode
}

// PlacementResult describes the wagers created for an accepted slip
type PlacementResult struct {
	Mode            SlipMode
	StraightWagers  []*entities.StraightWager
	Parlay          *entities.ParlayWager
	Commitment      decimal.Decimal
	PotentialPayout decimal.Decimal
	Remaining       decimal.Decimal
}

// WagerIDs returns the identifiers of every wager created by the placement
func (r *PlacementResult) WagerIDs() []uuid.UUID {
	if r.Parlay != nil {
		return []uuid.UUID{r.Parlay.ID}
	}
	ids := make([]uuid.UUID, 0, len(r.StraightWagers))
	for _, w := range r.StraightWagers {
		ids = append(ids, w.ID)
	}
	return ids
}

// SettlementSummary reports what one settlement pass did
type SettlementSummary struct {
	SettledCount  int // wagers and parlays moved out of pending
	LegsSettled   int // parlay legs that received a verdict
	Deferred      int // wagers left pending because a market is not final
	Conflicts     int // wagers already settled by an overlapping pass
	Failed        int // wagers whose settlement errored and will be retried next pass
	SlatesSettled int
}

// StakeCommitment is the stake taken for one wager created by a placement
type StakeCommitment struct {
	RelatedID   uuid.UUID
	RelatedType entities.RelatedType
	Amount      decimal.Decimal
}

// ParlaySettlement is the outcome of applying leg verdicts to a parlay
type ParlaySettlement struct {
	LegsSettled int
	Status      entities.WagerStatus
	Payout      decimal.Decimal
	Settled     bool // the parlay itself left pending in this call
	Conflict    bool // a leg or the parlay was already moved by another writer
}

// ActionSplit is the distribution of staked units across the two sides of a market
type ActionSplit struct {
	SideAUnits   decimal.Decimal
	SideBUnits   decimal.Decimal
	SideAPercent decimal.Decimal
	SideBPercent decimal.Decimal
	BetCount     int
}

// TotalUnits returns the units staked on both sides
func (s ActionSplit) TotalUnits() decimal.Decimal {
	return s.SideAUnits.Add(s.SideBUnits)
}

// HeavyPercent returns the larger of the two side percentages
func (s ActionSplit) HeavyPercent() decimal.Decimal {
	return decimal.Max(s.SideAPercent, s.SideBPercent)
}

// SideAHeavy reports whether side A holds more of the action
func (s ActionSplit) SideAHeavy() bool {
	return s.SideAPercent.GreaterThan(s.SideBPercent)
}

// Suggestion is an advisory change for an operator to apply to a future-facing line
type Suggestion struct {
	Kind         entities.MarketKind
	MarketID     uuid.UUID
	Side         entities.Side
	Current      decimal.Decimal
	Suggested    decimal.Decimal
	HeavyPercent decimal.Decimal
	Reason       string
}

// LeaderboardEntry is one ranked row of the leaderboard
type LeaderboardEntry struct {
	Rank        int
	AccountID   uuid.UUID
	DisplayName string
	NetProfit   decimal.Decimal
	ROI         decimal.Decimal
	Wagered     decimal.Decimal
	Remaining   decimal.Decimal
}

// LedgerService defines the only path through which ledger balances change
type LedgerService interface {
	// OpenAccount creates an account funded with the initial units
	OpenAccount(ctx context.Context, displayName string, team *string, initialUnits decimal.Decimal) (*entities.LedgerAccount, error)

	// CommitStake re-reads the account and removes the sum of the commitments
	// from remaining in one versioned update, with one ledger entry per wager
	CommitStake(ctx context.Context, accountID uuid.UUID, commitments []StakeCommitment) (*entities.LedgerAccount, error)

	// ApplySettlement re-reads the account and conditionally applies the delta for a terminal status
	ApplySettlement(ctx context.Context, accountID uuid.UUID, status entities.WagerStatus, stake, payout decimal.Decimal, relatedID uuid.UUID, relatedType entities.RelatedType) (*entities.LedgerAccount, error)
}

// WagerPlacementService defines the interface for turning a slip into wagers
type WagerPlacementService interface {
	// PlaceWager validates and prices the slip, commits the stake and persists
	// the wagers. Returns entities.ErrStaleBalance if the account changed
	// underneath; the caller retries in a new transaction.
	PlaceWager(ctx context.Context, req PlacementRequest) (*PlacementResult, error)
}

// SettlementService defines the per-wager settlement operations run inside one unit of work
type SettlementService interface {
	// SettleStraightWager applies a definite verdict. Returns false without
	// touching the ledger if the wager was no longer pending.
	SettleStraightWager(ctx context.Context, wager *entities.StraightWager, verdict entities.Verdict) (bool, error)

	// SettleParlay records new leg verdicts and settles the parlay once its legs allow it
	SettleParlay(ctx context.Context, parlay *entities.ParlayWager, verdicts map[uuid.UUID]entities.Verdict) (*ParlaySettlement, error)

	// VoidStraightWager is the administrative override refunding a pending wager
	VoidStraightWager(ctx context.Context, wagerID uuid.UUID) error

	// VoidParlay is the administrative override refunding a pending parlay
	VoidParlay(ctx context.Context, parlayID uuid.UUID) error
}

// LineMovementAdvisor defines the advisory line movement operations
type LineMovementAdvisor interface {
	// SuggestLineMove reads the action on a market and returns a suggestion, or nil below threshold
	SuggestLineMove(ctx context.Context, kind entities.MarketKind, marketID uuid.UUID) (*Suggestion, error)

	// ApplySuggestion writes the suggested value to the market and records it in odds history
	ApplySuggestion(ctx context.Context, suggestion *Suggestion, reason string) error
}

// MarketAdminService defines operator actions on markets and slates
type MarketAdminService interface {
	RecordFinalScore(ctx context.Context, gameID uuid.UUID, homeScore, awayScore int) error
	SetGameStatus(ctx context.Context, gameID uuid.UUID, status entities.GameStatus) error
	DeclareFutureResult(ctx context.Context, futureID uuid.UUID, result entities.FutureResult) error
	DeclarePropResult(ctx context.Context, propID uuid.UUID, result entities.PropResult) error
	SetSlateStatus(ctx context.Context, season, week int, status entities.SlateStatus) error
}

// LeaderboardService defines the interface for standings
type LeaderboardService interface {
	GetLeaderboard(ctx context.Context) ([]*LeaderboardEntry, error)
}

// SettlementRunner runs settlement passes across all pending wagers. Each
// wager is settled in its own unit of work.
type SettlementRunner interface {
	RunSettlementPass(ctx context.Context) (*SettlementSummary, error)
}
