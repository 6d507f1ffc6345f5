package services

import (
	"context"
	"fmt"
	"strings"

	"wagerbook/domain/entities"
	"wagerbook/domain/interfaces"
	"wagerbook/events"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var (
	heavyActionThreshold = decimal.NewFromInt(70)
	lopsidedThreshold    = decimal.NewFromInt(85)
	pointsMoveStep       = decimal.RequireFromString("0.5")
	pointsMoveLopsided   = decimal.RequireFromString("1.0")
	pointsMoveCeiling    = decimal.RequireFromString("2.0")
	futuresShortenSome   = decimal.RequireFromString("0.12")
	futuresShortenMany   = decimal.RequireFromString("0.22")
	fifty                = decimal.NewFromInt(50)
	oneHundred           = decimal.NewFromInt(100)
)

const (
	moneylineMoveStep     = 15
	moneylineMoveLopsided = 30
	moneylineMoveCeiling  = 50
	futuresBetsSome       = 3
	futuresBetsMany       = 5
)

// NewActionSplit computes each side's share of the staked units, 50/50 when there is no action
func NewActionSplit(sideAUnits, sideBUnits decimal.Decimal, betCount int) interfaces.ActionSplit {
	split := interfaces.ActionSplit{
		SideAUnits: sideAUnits,
		SideBUnits: sideBUnits,
		BetCount:   betCount,
	}
	total := sideAUnits.Add(sideBUnits)
	if !total.IsPositive() {
		split.SideAPercent = fifty
		split.SideBPercent = fifty
		return split
	}
	split.SideAPercent = sideAUnits.Div(total).Mul(oneHundred).Round(1)
	split.SideBPercent = oneHundred.Sub(split.SideAPercent)
	return split
}

// SuggestSpreadMove moves the home-perspective line away from the heavy side.
// Side A is home: heavy home action makes home lay more points.
func SuggestSpreadMove(current, opening decimal.Decimal, split interfaces.ActionSplit) (decimal.Decimal, bool) {
	move, ok := pointsMove(current, opening, split.HeavyPercent())
	if !ok {
		return current, false
	}
	if split.SideAHeavy() {
		return current.Sub(move), true
	}
	return current.Add(move), true
}

// SuggestTotalMove raises the total on heavy over action and lowers it on heavy under action.
// Side A is over.
func SuggestTotalMove(current, opening decimal.Decimal, split interfaces.ActionSplit) (decimal.Decimal, bool) {
	move, ok := pointsMove(current, opening, split.HeavyPercent())
	if !ok {
		return current, false
	}
	if split.SideAHeavy() {
		return current.Add(move), true
	}
	return current.Sub(move), true
}

func pointsMove(current, opening, heavyPercent decimal.Decimal) (decimal.Decimal, bool) {
	var move decimal.Decimal
	switch {
	case heavyPercent.GreaterThanOrEqual(lopsidedThreshold):
		move = pointsMoveLopsided
	case heavyPercent.GreaterThanOrEqual(heavyActionThreshold):
		move = pointsMoveStep
	default:
		return decimal.Zero, false
	}

	budget := pointsMoveCeiling.Sub(current.Sub(opening).Abs())
	if move.GreaterThan(budget) {
		move = decimal.Max(decimal.Zero, budget)
	}
	if move.IsZero() {
		return decimal.Zero, false
	}
	return move, true
}

// SuggestMoneylineMove shortens the heavy side's price by 15 or 30 ticks,
// never more than 50 ticks from its opening price. Ticks are counted across
// the even-money gap, so +110 shortened by 30 is -120.
func SuggestMoneylineMove(current, opening int, heavyPercent decimal.Decimal) (int, bool) {
	var move int
	switch {
	case heavyPercent.GreaterThanOrEqual(lopsidedThreshold):
		move = moneylineMoveLopsided
	case heavyPercent.GreaterThanOrEqual(heavyActionThreshold):
		move = moneylineMoveStep
	default:
		return current, false
	}

	currentTicks, openingTicks := priceTicks(current), priceTicks(opening)
	moved := currentTicks - openingTicks
	if moved < 0 {
		moved = -moved
	}
	if budget := moneylineMoveCeiling - moved; move > budget {
		move = max(0, budget)
	}
	if move == 0 {
		return current, false
	}
	return fromPriceTicks(currentTicks - move), true
}

// priceTicks maps an American price onto a continuous scale where +100 and
// -100 are the same point and shorter prices are lower
func priceTicks(american int) int {
	if american >= 100 {
		return american
	}
	return american + 200
}

func fromPriceTicks(ticks int) int {
	if ticks >= 100 {
		return ticks
	}
	return ticks - 200
}

// SuggestFuturesMove shortens a futures price by 12% at 3 bets and 22% at 5.
// Plus prices never shorten past even money.
func SuggestFuturesMove(current, betCount int) (int, bool) {
	var pct decimal.Decimal
	switch {
	case betCount >= futuresBetsMany:
		pct = futuresShortenMany
	case betCount >= futuresBetsSome:
		pct = futuresShortenSome
	default:
		return current, false
	}

	price := decimal.NewFromInt(int64(current))
	var suggested int
	if current > 0 {
		suggested = int(price.Mul(decimal.NewFromInt(1).Sub(pct)).Round(0).IntPart())
		suggested = max(100, suggested)
	} else {
		suggested = int(price.Mul(decimal.NewFromInt(1).Add(pct)).Round(0).IntPart())
	}
	if suggested == current {
		return current, false
	}
	return suggested, true
}

type lineMovementAdvisor struct {
	gameRepo        interfaces.GameRepository
	futureRepo      interfaces.FutureRepository
	wagerRepo       interfaces.StraightWagerRepository
	oddsHistoryRepo interfaces.OddsHistoryRepository
	eventPublisher  interfaces.EventPublisher
}

// NewLineMovementAdvisor creates a new line movement advisor
func NewLineMovementAdvisor(
	gameRepo interfaces.GameRepository,
	futureRepo interfaces.FutureRepository,
	wagerRepo interfaces.StraightWagerRepository,
	oddsHistoryRepo interfaces.OddsHistoryRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.LineMovementAdvisor {
	return &lineMovementAdvisor{
		gameRepo:        gameRepo,
		futureRepo:      futureRepo,
		wagerRepo:       wagerRepo,
		oddsHistoryRepo: oddsHistoryRepo,
		eventPublisher:  eventPublisher,
	}
}

func (a *lineMovementAdvisor) SuggestLineMove(ctx context.Context, kind entities.MarketKind, marketID uuid.UUID) (*interfaces.Suggestion, error) {
	if kind == entities.MarketKindProp {
		return nil, nil
	}
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown market kind %q", entities.ErrInvalidInput, kind)
	}

	actions, err := a.wagerRepo.GetSideActions(ctx, kind, marketID)
	if err != nil {
		return nil, fmt.Errorf("failed to get action for %s %s: %w", kind, marketID, err)
	}
	bySide := make(map[entities.Side]*entities.SideAction, len(actions))
	betCount := 0
	for _, action := range actions {
		bySide[action.Side] = action
		betCount += action.BetCount
	}
	unitsOn := func(side entities.Side) decimal.Decimal {
		if action, ok := bySide[side]; ok {
			return action.Units
		}
		return decimal.Zero
	}

	if kind == entities.MarketKindFuture {
		return a.suggestFuture(ctx, marketID, betCount)
	}

	game, err := a.gameRepo.GetByID(ctx, marketID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	if game == nil {
		return nil, fmt.Errorf("%w: game %s", entities.ErrNotFound, marketID)
	}
	if !game.IsOpenForBetting() {
		return nil, nil
	}

	suggestion := &interfaces.Suggestion{Kind: kind, MarketID: marketID}
	switch kind {
	case entities.MarketKindSpread:
		split := NewActionSplit(unitsOn(entities.SideHome), unitsOn(entities.SideAway), betCount)
		suggested, ok := SuggestSpreadMove(game.SpreadLine, game.OpeningSpreadLine, split)
		if !ok {
			return nil, nil
		}
		suggestion.Side = heavySide(split, entities.SideHome, entities.SideAway)
		suggestion.Current = game.SpreadLine
		suggestion.Suggested = suggested
		suggestion.HeavyPercent = split.HeavyPercent()

	case entities.MarketKindTotal:
		split := NewActionSplit(unitsOn(entities.SideOver), unitsOn(entities.SideUnder), betCount)
		suggested, ok := SuggestTotalMove(game.TotalLine, game.OpeningTotalLine, split)
		if !ok {
			return nil, nil
		}
		suggestion.Side = heavySide(split, entities.SideOver, entities.SideUnder)
		suggestion.Current = game.TotalLine
		suggestion.Suggested = suggested
		suggestion.HeavyPercent = split.HeavyPercent()

	case entities.MarketKindMoneyline:
		split := NewActionSplit(unitsOn(entities.SideHome), unitsOn(entities.SideAway), betCount)
		side := heavySide(split, entities.SideHome, entities.SideAway)
		current, opening := game.HomeMoneyline, game.OpeningHomeMoneyline
		if side == entities.SideAway {
			current, opening = game.AwayMoneyline, game.OpeningAwayMoneyline
		}
		suggested, ok := SuggestMoneylineMove(current, opening, split.HeavyPercent())
		if !ok {
			return nil, nil
		}
		suggestion.Side = side
		suggestion.Current = decimal.NewFromInt(int64(current))
		suggestion.Suggested = decimal.NewFromInt(int64(suggested))
		suggestion.HeavyPercent = split.HeavyPercent()
	}

	suggestion.Reason = fmt.Sprintf("%s%% of units on %s", suggestion.HeavyPercent.StringFixed(0), suggestion.Side)
	return suggestion, nil
}

func (a *lineMovementAdvisor) suggestFuture(ctx context.Context, futureID uuid.UUID, betCount int) (*interfaces.Suggestion, error) {
	future, err := a.futureRepo.GetByID(ctx, futureID)
	if err != nil {
		return nil, fmt.Errorf("failed to get future: %w", err)
	}
	if future == nil {
		return nil, fmt.Errorf("%w: future %s", entities.ErrNotFound, futureID)
	}
	if !future.IsOpenForBetting() {
		return nil, nil
	}

	suggested, ok := SuggestFuturesMove(future.Odds, betCount)
	if !ok {
		return nil, nil
	}
	return &interfaces.Suggestion{
		Kind:      entities.MarketKindFuture,
		MarketID:  futureID,
		Side:      entities.SideSelection,
		Current:   decimal.NewFromInt(int64(future.Odds)),
		Suggested: decimal.NewFromInt(int64(suggested)),
		Reason:    fmt.Sprintf("%d bets placed", betCount),
	}, nil
}

func (a *lineMovementAdvisor) ApplySuggestion(ctx context.Context, suggestion *interfaces.Suggestion, reason string) error {
	if suggestion == nil {
		return fmt.Errorf("%w: no suggestion to apply", entities.ErrInvalidInput)
	}
	if strings.TrimSpace(reason) == "" {
		reason = suggestion.Reason
	}

	var old decimal.Decimal
	switch suggestion.Kind {
	case entities.MarketKindSpread, entities.MarketKindTotal, entities.MarketKindMoneyline:
		game, err := a.gameRepo.GetByID(ctx, suggestion.MarketID)
		if err != nil {
			return fmt.Errorf("failed to get game: %w", err)
		}
		if game == nil {
			return fmt.Errorf("%w: game %s", entities.ErrNotFound, suggestion.MarketID)
		}
		if old, err = applyToGame(game, suggestion); err != nil {
			return err
		}
		if err := a.gameRepo.UpdateLines(ctx, game); err != nil {
			return fmt.Errorf("failed to update game lines: %w", err)
		}

	case entities.MarketKindFuture:
		future, err := a.futureRepo.GetByID(ctx, suggestion.MarketID)
		if err != nil {
			return fmt.Errorf("failed to get future: %w", err)
		}
		if future == nil {
			return fmt.Errorf("%w: future %s", entities.ErrNotFound, suggestion.MarketID)
		}
		old = decimal.NewFromInt(int64(future.Odds))
		if !old.Equal(suggestion.Current) {
			return fmt.Errorf("%w: future price moved since the suggestion", entities.ErrInvalidInput)
		}
		newOdds, err := americanFrom(suggestion.Suggested)
		if err != nil {
			return err
		}
		if err := a.futureRepo.UpdateOdds(ctx, future.ID, newOdds); err != nil {
			return fmt.Errorf("failed to update future odds: %w", err)
		}

	default:
		return fmt.Errorf("%w: cannot move %s markets", entities.ErrInvalidInput, suggestion.Kind)
	}

	history := &entities.OddsHistory{
		MarketKind: suggestion.Kind,
		MarketID:   suggestion.MarketID,
		Side:       suggestion.Side,
		OldValue:   old,
		NewValue:   suggestion.Suggested,
		Reason:     reason,
	}
	if err := a.oddsHistoryRepo.Record(ctx, history); err != nil {
		return fmt.Errorf("failed to record odds history: %w", err)
	}

	if err := a.eventPublisher.Publish(events.OddsMovedEvent{
		MarketKind: suggestion.Kind,
		MarketID:   suggestion.MarketID,
		Side:       suggestion.Side,
		OldValue:   old,
		NewValue:   suggestion.Suggested,
	}); err != nil {
		log.WithError(err).Error("Failed to publish odds moved event")
	}

	log.WithFields(log.Fields{
		"marketKind": suggestion.Kind,
		"marketID":   suggestion.MarketID,
		"side":       suggestion.Side,
		"old":        old.String(),
		"new":        suggestion.Suggested.String(),
		"movement":   history.Movement().String(),
		"reason":     reason,
	}).Info("Applied line move")
	return nil
}

// applyToGame writes the suggested value onto the game and returns the value it replaced
func applyToGame(game *entities.Game, suggestion *interfaces.Suggestion) (decimal.Decimal, error) {
	stale := fmt.Errorf("%w: %s line moved since the suggestion", entities.ErrInvalidInput, suggestion.Kind)

	switch suggestion.Kind {
	case entities.MarketKindSpread:
		old := game.SpreadLine
		if !old.Equal(suggestion.Current) {
			return old, stale
		}
		game.SpreadLine = suggestion.Suggested
		return old, nil

	case entities.MarketKindTotal:
		old := game.TotalLine
		if !old.Equal(suggestion.Current) {
			return old, stale
		}
		game.TotalLine = suggestion.Suggested
		return old, nil

	case entities.MarketKindMoneyline:
		newPrice, err := americanFrom(suggestion.Suggested)
		if err != nil {
			return decimal.Zero, err
		}
		price := &game.HomeMoneyline
		if suggestion.Side == entities.SideAway {
			price = &game.AwayMoneyline
		}
		old := decimal.NewFromInt(int64(*price))
		if !old.Equal(suggestion.Current) {
			return old, stale
		}
		*price = newPrice
		return old, nil
	}

	return decimal.Zero, fmt.Errorf("%w: %s is not a game market", entities.ErrInvalidInput, suggestion.Kind)
}

func americanFrom(d decimal.Decimal) (int, error) {
	if !d.IsInteger() || d.Abs().LessThan(oneHundred) {
		return 0, fmt.Errorf("%w: %s is not an American price", entities.ErrInvalidInput, d)
	}
	return int(d.IntPart()), nil
}

func heavySide(split interfaces.ActionSplit, sideA, sideB entities.Side) entities.Side {
	if split.SideAHeavy() {
		return sideA
	}
	return sideB
}
