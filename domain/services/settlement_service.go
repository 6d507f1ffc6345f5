package services

import (
	"context"
	"fmt"
	"time"

	"wagerbook/domain/entities"
	"wagerbook/domain/interfaces"
	"wagerbook/domain/odds"
	"wagerbook/events"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type settlementService struct {
	wagerRepo      interfaces.StraightWagerRepository
	parlayRepo     interfaces.ParlayRepository
	ledgerService  interfaces.LedgerService
	eventPublisher interfaces.EventPublisher
}

// NewSettlementService creates a new settlement service. Every method makes a
// single attempt inside the repositories' transaction; retrying a stale
// ledger write is up to the caller.
func NewSettlementService(
	wagerRepo interfaces.StraightWagerRepository,
	parlayRepo interfaces.ParlayRepository,
	accountRepo interfaces.LedgerAccountRepository,
	ledgerEntryRepo interfaces.LedgerEntryRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.SettlementService {
	return &settlementService{
		wagerRepo:      wagerRepo,
		parlayRepo:     parlayRepo,
		ledgerService:  NewLedgerService(accountRepo, ledgerEntryRepo, eventPublisher),
		eventPublisher: eventPublisher,
	}
}

func (s *settlementService) SettleStraightWager(ctx context.Context, wager *entities.StraightWager, verdict entities.Verdict) (bool, error) {
	if !verdict.IsDefinite() || !wager.IsPending() {
		return false, nil
	}

	status := verdict.Status()
	moved, err := s.wagerRepo.TransitionStatus(ctx, wager.ID, entities.WagerStatusPending, status, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("failed to transition wager %s: %w", wager.ID, err)
	}
	if !moved {
		log.WithField("wagerID", wager.ID).Debug("Wager already settled by another pass")
		return false, nil
	}

	if _, err := s.ledgerService.ApplySettlement(ctx, wager.AccountID, status, wager.Stake, wager.PotentialPayout, wager.ID, entities.RelatedTypeStraightWager); err != nil {
		return false, err
	}

	wager.Status = status
	s.publishSettled(wager.ID, wager.AccountID, false, status, wager.Stake, payoutFor(status, wager.Stake, wager.PotentialPayout))
	return true, nil
}

func (s *settlementService) SettleParlay(ctx context.Context, parlay *entities.ParlayWager, verdicts map[uuid.UUID]entities.Verdict) (*interfaces.ParlaySettlement, error) {
	result := &interfaces.ParlaySettlement{Status: entities.WagerStatusPending}
	now := time.Now().UTC()

	for _, leg := range parlay.PendingLegs() {
		verdict := verdicts[leg.ID]
		if !verdict.IsDefinite() {
			continue
		}

		status := verdict.Status()
		moved, err := s.parlayRepo.TransitionLegStatus(ctx, leg.ID, entities.WagerStatusPending, status, now)
		if err != nil {
			return nil, fmt.Errorf("failed to transition parlay leg %s: %w", leg.ID, err)
		}
		if !moved {
			result.Conflict = true
			return result, nil
		}

		leg.Status = status
		result.LegsSettled++
		if err := s.eventPublisher.Publish(events.ParlayLegSettledEvent{
			ParlayID: parlay.ID,
			LegID:    leg.ID,
			Status:   status,
		}); err != nil {
			log.WithError(err).Error("Failed to publish parlay leg settled event")
		}
	}

	status, payout, err := DetermineParlayOutcome(parlay)
	if err != nil {
		return nil, err
	}
	result.Status = status
	result.Payout = payout
	if status == entities.WagerStatusPending {
		return result, nil
	}

	moved, err := s.parlayRepo.TransitionStatus(ctx, parlay.ID, entities.WagerStatusPending, status, payout, now)
	if err != nil {
		return nil, fmt.Errorf("failed to transition parlay %s: %w", parlay.ID, err)
	}
	if !moved {
		result.Conflict = true
		return result, nil
	}

	if _, err := s.ledgerService.ApplySettlement(ctx, parlay.AccountID, status, parlay.Stake, payout, parlay.ID, entities.RelatedTypeParlayWager); err != nil {
		return nil, err
	}

	parlay.Status = status
	parlay.Payout = &payout
	result.Settled = true
	s.publishSettled(parlay.ID, parlay.AccountID, true, status, parlay.Stake, payoutFor(status, parlay.Stake, payout))

	log.WithFields(log.Fields{
		"parlayID": parlay.ID,
		"status":   status,
		"legs":     len(parlay.Legs),
		"payout":   payout.StringFixed(entities.UnitPrecision),
	}).Info("Parlay settled")

	return result, nil
}

// DetermineParlayOutcome derives the parlay status from its legs' statuses.
// Any lost leg loses the parlay even while other legs are pending. Push legs
// drop out of the price; the parlay pushes only if every leg pushed.
// The returned payout is what a won parlay credits, or the stake on a push.
func DetermineParlayOutcome(parlay *entities.ParlayWager) (entities.WagerStatus, decimal.Decimal, error) {
	pending, pushed := 0, 0
	for _, leg := range parlay.Legs {
		switch leg.Status {
		case entities.WagerStatusLost:
			return entities.WagerStatusLost, decimal.Zero, nil
		case entities.WagerStatusPending:
			pending++
		case entities.WagerStatusPush:
			pushed++
		}
	}

	switch {
	case pending > 0:
		return entities.WagerStatusPending, decimal.Zero, nil
	case pushed == len(parlay.Legs):
		return entities.WagerStatusPush, parlay.Stake, nil
	case pushed == 0:
		return entities.WagerStatusWon, parlay.PotentialPayout, nil
	}

	remaining := parlay.LegOdds(func(s entities.WagerStatus) bool { return s == entities.WagerStatusWon })
	payout, err := odds.ParlayPayout(remaining, parlay.Stake)
	if err != nil {
		return "", decimal.Zero, fmt.Errorf("failed to reprice parlay %s: %w", parlay.ID, err)
	}
	return entities.WagerStatusWon, payout.Total, nil
}

func (s *settlementService) VoidStraightWager(ctx context.Context, wagerID uuid.UUID) error {
	wager, err := s.wagerRepo.GetByID(ctx, wagerID)
	if err != nil {
		return fmt.Errorf("failed to get wager: %w", err)
	}
	if wager == nil {
		return fmt.Errorf("%w: wager %s", entities.ErrNotFound, wagerID)
	}
	if wager.Status.IsTerminal() {
		return fmt.Errorf("%w: wager %s is already %s", entities.ErrInvalidInput, wagerID, wager.Status)
	}

	moved, err := s.wagerRepo.TransitionStatus(ctx, wager.ID, entities.WagerStatusPending, entities.WagerStatusVoid, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to void wager %s: %w", wager.ID, err)
	}
	if !moved {
		return fmt.Errorf("%w: wager %s was settled concurrently", entities.ErrInvalidInput, wagerID)
	}

	if _, err := s.ledgerService.ApplySettlement(ctx, wager.AccountID, entities.WagerStatusVoid, wager.Stake, decimal.Zero, wager.ID, entities.RelatedTypeStraightWager); err != nil {
		return err
	}

	wager.Status = entities.WagerStatusVoid
	s.publishSettled(wager.ID, wager.AccountID, false, entities.WagerStatusVoid, wager.Stake, wager.Stake)
	log.WithFields(log.Fields{
		"wagerID":   wager.ID,
		"accountID": wager.AccountID,
		"stake":     wager.Stake.StringFixed(entities.UnitPrecision),
	}).Warn("Straight wager voided")
	return nil
}

func (s *settlementService) VoidParlay(ctx context.Context, parlayID uuid.UUID) error {
	parlay, err := s.parlayRepo.GetByID(ctx, parlayID)
	if err != nil {
		return fmt.Errorf("failed to get parlay: %w", err)
	}
	if parlay == nil {
		return fmt.Errorf("%w: parlay %s", entities.ErrNotFound, parlayID)
	}
	if parlay.Status.IsTerminal() {
		return fmt.Errorf("%w: parlay %s is already %s", entities.ErrInvalidInput, parlayID, parlay.Status)
	}

	moved, err := s.parlayRepo.TransitionStatus(ctx, parlay.ID, entities.WagerStatusPending, entities.WagerStatusVoid, parlay.Stake, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to void parlay %s: %w", parlay.ID, err)
	}
	if !moved {
		return fmt.Errorf("%w: parlay %s was settled concurrently", entities.ErrInvalidInput, parlayID)
	}

	if _, err := s.ledgerService.ApplySettlement(ctx, parlay.AccountID, entities.WagerStatusVoid, parlay.Stake, decimal.Zero, parlay.ID, entities.RelatedTypeParlayWager); err != nil {
		return err
	}

	parlay.Status = entities.WagerStatusVoid
	refund := parlay.Stake
	parlay.Payout = &refund
	s.publishSettled(parlay.ID, parlay.AccountID, true, entities.WagerStatusVoid, parlay.Stake, parlay.Stake)
	log.WithFields(log.Fields{
		"parlayID":  parlay.ID,
		"accountID": parlay.AccountID,
		"stake":     parlay.Stake.StringFixed(entities.UnitPrecision),
	}).Warn("Parlay voided")
	return nil
}

func (s *settlementService) publishSettled(wagerID, accountID uuid.UUID, parlay bool, status entities.WagerStatus, stake, payout decimal.Decimal) {
	if err := s.eventPublisher.Publish(events.WagerSettledEvent{
		WagerID:   wagerID,
		AccountID: accountID,
		Parlay:    parlay,
		Status:    status,
		Stake:     stake,
		Payout:    payout,
	}); err != nil {
		log.WithError(err).Error("Failed to publish wager settled event")
	}
}

// payoutFor returns what the account received back for a terminal status
func payoutFor(status entities.WagerStatus, stake, potential decimal.Decimal) decimal.Decimal {
	switch status {
	case entities.WagerStatusWon:
		return potential
	case entities.WagerStatusPush, entities.WagerStatusVoid:
		return stake
	}
	return decimal.Zero
}
