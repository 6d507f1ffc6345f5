package application

import (
	"context"
	"errors"
	"fmt"

	"wagerbook/domain/entities"
	"wagerbook/domain/interfaces"
	"wagerbook/domain/services"
	"wagerbook/events"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// errSettlementConflict rolls back a unit of work whose compare-and-swap lost
// to an overlapping pass
var errSettlementConflict = errors.New("settled by an overlapping pass")

// SettlementEngine resolves pending wagers against a snapshot of their markets
type SettlementEngine struct {
	uowFactory UnitOfWorkFactory
	publisher  interfaces.EventPublisher
}

// NewSettlementEngine creates a new settlement engine
func NewSettlementEngine(uowFactory UnitOfWorkFactory, publisher interfaces.EventPublisher) *SettlementEngine {
	return &SettlementEngine{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// pendingWork is everything one pass reads up front
type pendingWork struct {
	wagers   []*entities.StraightWager
	parlays  []*entities.ParlayWager
	snapshot *entities.MarketSnapshot
}

// RunSettlementPass settles every pending wager whose markets are resolved.
// Each wager commits in its own unit of work so one failure does not hold
// back the rest; failed wagers stay pending for the next pass.
func (e *SettlementEngine) RunSettlementPass(ctx context.Context) (*interfaces.SettlementSummary, error) {
	work, err := e.loadPendingWork(ctx)
	if err != nil {
		return nil, err
	}

	summary := &interfaces.SettlementSummary{}

	for _, wager := range work.wagers {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
		e.settleStraightWager(ctx, wager, work.snapshot, summary)
	}

	for _, parlay := range work.parlays {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
		e.settleParlay(ctx, parlay, work.snapshot, summary)
	}

	slates, err := e.SettleSlatesIfComplete(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to check slate completion")
	}
	summary.SlatesSettled = slates

	log.WithFields(log.Fields{
		"wagers":        len(work.wagers),
		"parlays":       len(work.parlays),
		"settled":       summary.SettledCount,
		"legsSettled":   summary.LegsSettled,
		"deferred":      summary.Deferred,
		"conflicts":     summary.Conflicts,
		"failed":        summary.Failed,
		"slatesSettled": summary.SlatesSettled,
	}).Info("Settlement pass complete")

	if e.publisher != nil {
		if err := e.publisher.Publish(events.SettlementPassDoneEvent{
			Settled:   summary.SettledCount,
			Deferred:  summary.Deferred,
			Conflicts: summary.Conflicts,
			Failed:    summary.Failed,
		}); err != nil {
			log.WithError(err).Error("Failed to publish settlement pass event")
		}
	}

	return summary, nil
}

// loadPendingWork reads pending wagers and every market they reference once
func (e *SettlementEngine) loadPendingWork(ctx context.Context) (*pendingWork, error) {
	uow := e.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	wagers, err := uow.StraightWagerRepository().GetPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending wagers: %w", err)
	}
	parlays, err := uow.ParlayRepository().GetPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending parlays: %w", err)
	}

	var selections []entities.MarketSelection
	for _, wager := range wagers {
		selections = append(selections, wager.Selection)
	}
	for _, parlay := range parlays {
		for _, leg := range parlay.PendingLegs() {
			selections = append(selections, leg.Selection)
		}
	}
	ids := entities.CollectMarketIDs(selections)

	snapshot := entities.NewMarketSnapshot()
	if len(ids.GameIDs) > 0 {
		games, err := uow.GameRepository().GetByIDs(ctx, ids.GameIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to get games: %w", err)
		}
		for _, game := range games {
			snapshot.AddGame(game)
		}
	}
	if len(ids.FutureIDs) > 0 {
		futures, err := uow.FutureRepository().GetByIDs(ctx, ids.FutureIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to get futures: %w", err)
		}
		for _, future := range futures {
			snapshot.AddFuture(future)
		}
	}
	if len(ids.PropIDs) > 0 {
		props, err := uow.PropRepository().GetByIDs(ctx, ids.PropIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to get props: %w", err)
		}
		for _, prop := range props {
			snapshot.AddProp(prop)
		}
	}

	return &pendingWork{wagers: wagers, parlays: parlays, snapshot: snapshot}, nil
}

func (e *SettlementEngine) settleStraightWager(ctx context.Context, wager *entities.StraightWager, snapshot *entities.MarketSnapshot, summary *interfaces.SettlementSummary) {
	verdict := services.Resolve(wager.Selection, snapshot)
	if !verdict.IsDefinite() {
		summary.Deferred++
		return
	}

	err := runInUnitOfWork(ctx, e.uowFactory, e.publisher, "settle_wager", func(uow UnitOfWork) error {
		settled, err := e.settlementService(uow).SettleStraightWager(ctx, wager, verdict)
		if err != nil {
			return err
		}
		if !settled {
			return errSettlementConflict
		}
		return nil
	})

	switch {
	case err == nil:
		summary.SettledCount++
	case errors.Is(err, errSettlementConflict):
		summary.Conflicts++
	default:
		summary.Failed++
		log.WithFields(log.Fields{
			"wagerID": wager.ID,
			"verdict": verdict,
			"error":   err,
		}).Error("Failed to settle wager")
	}
}

func (e *SettlementEngine) settleParlay(ctx context.Context, parlay *entities.ParlayWager, snapshot *entities.MarketSnapshot, summary *interfaces.SettlementSummary) {
	verdicts := make(map[uuid.UUID]entities.Verdict)
	for _, leg := range parlay.PendingLegs() {
		if verdict := services.Resolve(leg.Selection, snapshot); verdict.IsDefinite() {
			verdicts[leg.ID] = verdict
		}
	}
	if len(verdicts) == 0 {
		summary.Deferred++
		return
	}

	var result *interfaces.ParlaySettlement
	err := runInUnitOfWork(ctx, e.uowFactory, e.publisher, "settle_parlay", func(uow UnitOfWork) error {
		// Leg statuses are updated in memory as they move, so every attempt
		// starts from the stored parlay
		current, err := uow.ParlayRepository().GetByID(ctx, parlay.ID)
		if err != nil {
			return fmt.Errorf("failed to reload parlay: %w", err)
		}
		if current == nil || !current.IsPending() {
			return errSettlementConflict
		}

		result, err = e.settlementService(uow).SettleParlay(ctx, current, verdicts)
		if err != nil {
			return err
		}
		if result.Conflict {
			return errSettlementConflict
		}
		return nil
	})

	switch {
	case err == nil:
		summary.LegsSettled += result.LegsSettled
		if result.Settled {
			summary.SettledCount++
		} else {
			summary.Deferred++
		}
	case errors.Is(err, errSettlementConflict):
		summary.Conflicts++
	default:
		summary.Failed++
		log.WithFields(log.Fields{
			"parlayID": parlay.ID,
			"error":    err,
		}).Error("Failed to settle parlay")
	}
}

// SettleSlatesIfComplete marks locked slates settled once every game is final
// and nothing on those games is still pending. Returns how many were settled.
func (e *SettlementEngine) SettleSlatesIfComplete(ctx context.Context) (int, error) {
	uow := e.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	slates, err := uow.SlateRepository().GetByStatus(ctx, entities.SlateStatusLocked)
	if err != nil {
		return 0, fmt.Errorf("failed to get locked slates: %w", err)
	}

	settled := 0
	for _, slate := range slates {
		complete, err := slateComplete(ctx, uow, slate)
		if err != nil {
			return settled, err
		}
		if !complete {
			continue
		}

		if err := uow.SlateRepository().UpdateStatus(ctx, slate.ID, entities.SlateStatusSettled); err != nil {
			return settled, fmt.Errorf("failed to settle slate: %w", err)
		}
		settled++

		log.WithFields(log.Fields{
			"season": slate.Season,
			"week":   slate.Week,
		}).Info("Weekly slate settled")
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit slate settlement: %w", err)
	}
	return settled, nil
}

func slateComplete(ctx context.Context, uow UnitOfWork, slate *entities.WeeklySlate) (bool, error) {
	games, err := uow.GameRepository().GetBySeasonWeek(ctx, slate.Season, slate.Week)
	if err != nil {
		return false, fmt.Errorf("failed to get games for slate: %w", err)
	}
	if len(games) == 0 {
		return false, nil
	}

	gameIDs := make([]uuid.UUID, 0, len(games))
	for _, game := range games {
		if !game.IsFinal() {
			return false, nil
		}
		gameIDs = append(gameIDs, game.ID)
	}

	pendingWagers, err := uow.StraightWagerRepository().CountPendingForGames(ctx, gameIDs)
	if err != nil {
		return false, err
	}
	pendingLegs, err := uow.ParlayRepository().CountPendingLegsForGames(ctx, gameIDs)
	if err != nil {
		return false, err
	}

	return pendingWagers == 0 && pendingLegs == 0, nil
}

// VoidStraightWager refunds a pending straight wager
func (e *SettlementEngine) VoidStraightWager(ctx context.Context, wagerID uuid.UUID) error {
	return runInUnitOfWork(ctx, e.uowFactory, e.publisher, "void_wager", func(uow UnitOfWork) error {
		return e.settlementService(uow).VoidStraightWager(ctx, wagerID)
	})
}

// VoidParlay refunds a pending parlay
func (e *SettlementEngine) VoidParlay(ctx context.Context, parlayID uuid.UUID) error {
	return runInUnitOfWork(ctx, e.uowFactory, e.publisher, "void_parlay", func(uow UnitOfWork) error {
		return e.settlementService(uow).VoidParlay(ctx, parlayID)
	})
}

func (e *SettlementEngine) settlementService(uow UnitOfWork) interfaces.SettlementService {
	return services.NewSettlementService(
		uow.StraightWagerRepository(),
		uow.ParlayRepository(),
		uow.LedgerAccountRepository(),
		uow.LedgerEntryRepository(),
		uow.EventBus(),
	)
}
