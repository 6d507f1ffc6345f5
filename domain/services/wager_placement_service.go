package services

import (
	"context"
	"fmt"

	"wagerbook/config"
	"wagerbook/domain/entities"
	"wagerbook/domain/interfaces"
	"wagerbook/domain/odds"
	"wagerbook/events"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type wagerPlacementService struct {
	accountRepo    interfaces.LedgerAccountRepository
	gameRepo       interfaces.GameRepository
	futureRepo     interfaces.FutureRepository
	propRepo       interfaces.PropRepository
	slateRepo      interfaces.SlateRepository
	wagerRepo      interfaces.StraightWagerRepository
	parlayRepo     interfaces.ParlayRepository
	ledgerService  interfaces.LedgerService
	eventPublisher interfaces.EventPublisher
}

// NewWagerPlacementService creates a new wager placement service
func NewWagerPlacementService(
	accountRepo interfaces.LedgerAccountRepository,
	gameRepo interfaces.GameRepository,
	futureRepo interfaces.FutureRepository,
	propRepo interfaces.PropRepository,
	slateRepo interfaces.SlateRepository,
	wagerRepo interfaces.StraightWagerRepository,
	parlayRepo interfaces.ParlayRepository,
	ledgerEntryRepo interfaces.LedgerEntryRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.WagerPlacementService {
	return &wagerPlacementService{
		accountRepo:    accountRepo,
		gameRepo:       gameRepo,
		futureRepo:     futureRepo,
		propRepo:       propRepo,
		slateRepo:      slateRepo,
		wagerRepo:      wagerRepo,
		parlayRepo:     parlayRepo,
		ledgerService:  NewLedgerService(accountRepo, ledgerEntryRepo, eventPublisher),
		eventPublisher: eventPublisher,
	}
}

func (s *wagerPlacementService) PlaceWager(ctx context.Context, req interfaces.PlacementRequest) (*interfaces.PlacementResult, error) {
	if err := validateSlip(req); err != nil {
		return nil, err
	}

	slate, err := s.slateRepo.GetCurrent(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current slate: %w", err)
	}
	if slate == nil || !slate.IsOpen() {
		return nil, fmt.Errorf("%w: no open slate", entities.ErrMarketClosed)
	}

	account, err := s.accountRepo.GetByID(ctx, req.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: account %s", entities.ErrNotFound, req.AccountID)
	}

	quoter := &marketQuoter{service: s, account: account, slate: slate, games: make(map[uuid.UUID]*entities.Game)}
	selections := make([]entities.MarketSelection, 0, len(req.Selections))
	for _, sr := range req.Selections {
		sel, err := quoter.quote(ctx, sr)
		if err != nil {
			return nil, err
		}
		selections = append(selections, sel)
	}

	result := &interfaces.PlacementResult{Mode: req.Mode}
	var commitments []interfaces.StakeCommitment

	switch req.Mode {
	case interfaces.SlipModeStraight:
		for _, sel := range selections {
			payout, err := odds.PayoutFor(sel.Odds, req.Stake)
			if err != nil {
				return nil, err
			}
			wager := &entities.StraightWager{
				ID:              uuid.New(),
				AccountID:       account.ID,
				Selection:       sel,
				Stake:           req.Stake,
				PotentialPayout: payout.Total,
				Status:          entities.WagerStatusPending,
			}
			result.StraightWagers = append(result.StraightWagers, wager)
			result.PotentialPayout = result.PotentialPayout.Add(payout.Total)
			commitments = append(commitments, interfaces.StakeCommitment{
				RelatedID:   wager.ID,
				RelatedType: entities.RelatedTypeStraightWager,
				Amount:      req.Stake,
			})
		}

	case interfaces.SlipModeParlay:
		legOdds := make([]int, 0, len(selections))
		for _, sel := range selections {
			legOdds = append(legOdds, sel.Odds)
		}
		totalOdds, err := odds.ComposeParlay(legOdds)
		if err != nil {
			return nil, err
		}
		payout, err := odds.ParlayPayout(legOdds, req.Stake)
		if err != nil {
			return nil, err
		}

		parlay := &entities.ParlayWager{
			ID:              uuid.New(),
			AccountID:       account.ID,
			Stake:           req.Stake,
			TotalOdds:       totalOdds,
			PotentialPayout: payout.Total,
			Status:          entities.WagerStatusPending,
		}
		for i, sel := range selections {
			parlay.Legs = append(parlay.Legs, &entities.ParlayLeg{
				ID:        uuid.New(),
				ParlayID:  parlay.ID,
				Position:  i + 1,
				Selection: sel,
				Status:    entities.WagerStatusPending,
			})
		}
		result.Parlay = parlay
		result.PotentialPayout = payout.Total
		commitments = append(commitments, interfaces.StakeCommitment{
			RelatedID:   parlay.ID,
			RelatedType: entities.RelatedTypeParlayWager,
			Amount:      req.Stake,
		})
	}

	// The account is written before the wagers so a lost race fails fast
	// with ErrStaleBalance and nothing else in the transaction is wasted.
	updated, err := s.ledgerService.CommitStake(ctx, account.ID, commitments)
	if err != nil {
		return nil, err
	}

	for _, wager := range result.StraightWagers {
		if err := s.wagerRepo.Create(ctx, wager); err != nil {
			return nil, fmt.Errorf("failed to create straight wager: %w", err)
		}
	}
	if result.Parlay != nil {
		if err := s.parlayRepo.Create(ctx, result.Parlay); err != nil {
			return nil, fmt.Errorf("failed to create parlay: %w", err)
		}
	}

	for _, c := range commitments {
		result.Commitment = result.Commitment.Add(c.Amount)
	}
	result.Remaining = updated.Remaining

	if err := s.eventPublisher.Publish(events.WagerPlacedEvent{
		AccountID:  account.ID,
		Mode:       string(req.Mode),
		WagerIDs:   result.WagerIDs(),
		Legs:       len(selections),
		Commitment: result.Commitment,
	}); err != nil {
		log.WithError(err).Error("Failed to publish wager placed event")
	}

	log.WithFields(log.Fields{
		"accountID":       account.ID,
		"mode":            req.Mode,
		"selections":      len(selections),
		"commitment":      result.Commitment.StringFixed(entities.UnitPrecision),
		"potentialPayout": result.PotentialPayout.StringFixed(entities.UnitPrecision),
		"remaining":       result.Remaining.StringFixed(entities.UnitPrecision),
	}).Info("Wager placed")

	return result, nil
}

// validateSlip checks everything about the slip that does not need the datastore
func validateSlip(req interfaces.PlacementRequest) error {
	cfg := config.Get()

	if req.AccountID == uuid.Nil {
		return fmt.Errorf("%w: missing account", entities.ErrInvalidInput)
	}
	if req.Mode != interfaces.SlipModeStraight && req.Mode != interfaces.SlipModeParlay {
		return fmt.Errorf("%w: unknown slip mode %q", entities.ErrInvalidInput, req.Mode)
	}

	n := len(req.Selections)
	if n == 0 {
		return fmt.Errorf("%w: slip has no selections", entities.ErrInvalidInput)
	}
	if n > cfg.MaxSlipSize {
		return fmt.Errorf("%w: slip holds %d selections, maximum is %d", entities.ErrInvalidInput, n, cfg.MaxSlipSize)
	}
	if req.Mode == interfaces.SlipModeParlay && n < 2 {
		return fmt.Errorf("%w: a parlay needs at least 2 legs", entities.ErrInvalidInput)
	}

	seen := make(map[string]bool, n)
	for _, sr := range req.Selections {
		if err := sr.Validate(); err != nil {
			return err
		}
		if seen[sr.Key()] {
			return fmt.Errorf("%w: duplicate selection %s", entities.ErrInvalidInput, sr.Key())
		}
		seen[sr.Key()] = true
	}

	return validateStake(req.Stake, cfg.MinStake, cfg.StakeIncrement)
}

func validateStake(stake, minStake, increment decimal.Decimal) error {
	if !stake.IsPositive() {
		return fmt.Errorf("%w: stake must be positive, got %s", entities.ErrInvalidStake, stake)
	}
	if stake.LessThan(minStake) {
		return fmt.Errorf("%w: minimum stake is %s, got %s", entities.ErrInvalidStake, minStake, stake)
	}
	if !entities.IsMultipleOf(stake, increment) {
		return fmt.Errorf("%w: stake %s is not a multiple of %s", entities.ErrInvalidStake, stake, increment)
	}
	return nil
}

// marketQuoter reads each referenced market once and freezes its current price
type marketQuoter struct {
	service *wagerPlacementService
	account *entities.LedgerAccount
	slate   *entities.WeeklySlate
	games   map[uuid.UUID]*entities.Game
}

func (q *marketQuoter) quote(ctx context.Context, sr entities.SelectionRequest) (entities.MarketSelection, error) {
	switch {
	case sr.Kind.IsGameMarket():
		game, err := q.openGame(ctx, sr.MarketID)
		if err != nil {
			return entities.MarketSelection{}, err
		}
		return game.Quote(sr.Kind, sr.Side)

	case sr.Kind == entities.MarketKindFuture:
		future, err := q.service.futureRepo.GetByID(ctx, sr.MarketID)
		if err != nil {
			return entities.MarketSelection{}, fmt.Errorf("failed to get future: %w", err)
		}
		if future == nil {
			return entities.MarketSelection{}, fmt.Errorf("%w: future %s", entities.ErrNotFound, sr.MarketID)
		}
		if !future.IsOpenForBetting() {
			return entities.MarketSelection{}, fmt.Errorf("%w: future %q is no longer active", entities.ErrMarketClosed, future.SelectionName)
		}
		return future.Quote(), nil

	case sr.Kind == entities.MarketKindProp:
		prop, err := q.service.propRepo.GetByID(ctx, sr.MarketID)
		if err != nil {
			return entities.MarketSelection{}, fmt.Errorf("failed to get prop: %w", err)
		}
		if prop == nil {
			return entities.MarketSelection{}, fmt.Errorf("%w: prop %s", entities.ErrNotFound, sr.MarketID)
		}
		if prop.IsResolved() {
			return entities.MarketSelection{}, fmt.Errorf("%w: prop %q is already resolved", entities.ErrMarketClosed, prop.Description)
		}
		if prop.GameID != nil {
			if _, err := q.openGame(ctx, *prop.GameID); err != nil {
				return entities.MarketSelection{}, err
			}
		}
		if q.account.Team != nil && prop.IsTaggedWithTeam(*q.account.Team) {
			return entities.MarketSelection{}, fmt.Errorf("%w: cannot wager on a prop involving your own team", entities.ErrInvalidInput)
		}
		return prop.Quote(sr.Side)
	}

	return entities.MarketSelection{}, fmt.Errorf("%w: unknown market kind %q", entities.ErrInvalidInput, sr.Kind)
}

func (q *marketQuoter) openGame(ctx context.Context, id uuid.UUID) (*entities.Game, error) {
	game, ok := q.games[id]
	if !ok {
		var err error
		game, err = q.service.gameRepo.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to get game: %w", err)
		}
		if game == nil {
			return nil, fmt.Errorf("%w: game %s", entities.ErrNotFound, id)
		}
		q.games[id] = game
	}
	// Only the current week's games take action
	if game.Season != q.slate.Season || game.Week != q.slate.Week {
		return nil, fmt.Errorf("%w: %s @ %s is on season %d week %d, current slate is week %d",
			entities.ErrMarketClosed, game.AwayTeam, game.HomeTeam, game.Season, game.Week, q.slate.Week)
	}
	if !game.IsOpenForBetting() {
		return nil, fmt.Errorf("%w: %s @ %s has kicked off", entities.ErrMarketClosed, game.AwayTeam, game.HomeTeam)
	}
	return game, nil
}
