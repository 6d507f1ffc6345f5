package services

import (
	"context"
	"fmt"
	"strings"

	"wagerbook/domain/entities"
	"wagerbook/domain/interfaces"
	"wagerbook/domain/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type ledgerService struct {
	accountRepo     interfaces.LedgerAccountRepository
	ledgerEntryRepo interfaces.LedgerEntryRepository
	eventPublisher  interfaces.EventPublisher
}

// NewLedgerService creates a new ledger service
func NewLedgerService(accountRepo interfaces.LedgerAccountRepository, ledgerEntryRepo interfaces.LedgerEntryRepository, eventPublisher interfaces.EventPublisher) interfaces.LedgerService {
	return &ledgerService{
		accountRepo:     accountRepo,
		ledgerEntryRepo: ledgerEntryRepo,
		eventPublisher:  eventPublisher,
	}
}

func (s *ledgerService) OpenAccount(ctx context.Context, displayName string, team *string, initialUnits decimal.Decimal) (*entities.LedgerAccount, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, fmt.Errorf("%w: display name is required", entities.ErrInvalidInput)
	}
	if initialUnits.IsNegative() {
		return nil, fmt.Errorf("%w: initial units cannot be negative", entities.ErrInvalidInput)
	}

	existing, err := s.accountRepo.GetByDisplayName(ctx, displayName)
	if err != nil {
		return nil, fmt.Errorf("failed to check display name: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: display name %q is taken", entities.ErrInvalidInput, displayName)
	}

	account := &entities.LedgerAccount{
		ID:          uuid.New(),
		DisplayName: displayName,
		Team:        team,
		Remaining:   entities.RoundUnits(initialUnits),
		Wagered:     decimal.Zero,
		Won:         decimal.Zero,
		Lost:        decimal.Zero,
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	if account.Remaining.IsPositive() {
		entry := utils.NewLedgerEntry(account.ID, decimal.Zero, account.Remaining,
			entities.TransactionTypeInitial, account.Remaining, uuid.Nil, "")
		if err := utils.RecordLedgerChange(ctx, s.ledgerEntryRepo, s.eventPublisher, entry); err != nil {
			return nil, err
		}
	}

	log.WithFields(log.Fields{
		"accountID":    account.ID,
		"displayName":  account.DisplayName,
		"initialUnits": account.Remaining.StringFixed(entities.UnitPrecision),
	}).Info("Opened ledger account")

	return account, nil
}

func (s *ledgerService) CommitStake(ctx context.Context, accountID uuid.UUID, commitments []interfaces.StakeCommitment) (*entities.LedgerAccount, error) {
	if len(commitments) == 0 {
		return nil, fmt.Errorf("%w: nothing to commit", entities.ErrInvalidInput)
	}

	total := decimal.Zero
	for _, c := range commitments {
		total = total.Add(c.Amount)
	}

	// Always work from a fresh read; the versioned update rejects it if
	// anything else wrote the account in between.
	account, err := s.getAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	before := account.Remaining
	if err := account.CommitStake(total); err != nil {
		return nil, err
	}

	if err := s.accountRepo.UpdateBalances(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to commit stake: %w", err)
	}

	running := before
	for _, c := range commitments {
		after := running.Sub(c.Amount)
		entry := utils.NewLedgerEntry(account.ID, running, after,
			entities.TransactionTypeWagerPlaced, c.Amount, c.RelatedID, c.RelatedType)
		if err := utils.RecordLedgerChange(ctx, s.ledgerEntryRepo, s.eventPublisher, entry); err != nil {
			return nil, err
		}
		running = after
	}

	return account, nil
}

func (s *ledgerService) ApplySettlement(ctx context.Context, accountID uuid.UUID, status entities.WagerStatus, stake, payout decimal.Decimal, relatedID uuid.UUID, relatedType entities.RelatedType) (*entities.LedgerAccount, error) {
	account, err := s.getAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	before := account.Remaining
	unitsInvolved := stake
	txType := entities.TransactionTypeForStatus(status)
	switch {
	case txType == entities.TransactionTypeWagerWon:
		err = account.ApplyWon(stake, payout)
		unitsInvolved = payout
	case txType == entities.TransactionTypeWagerLost:
		err = account.ApplyLost(stake)
	case txType.IsRefund():
		err = account.ApplyPush(stake)
	default:
		return nil, fmt.Errorf("%w: cannot settle to status %q", entities.ErrInvalidInput, status)
	}
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.UpdateBalances(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to apply settlement: %w", err)
	}

	entry := utils.NewLedgerEntry(account.ID, before, account.Remaining,
		txType, unitsInvolved, relatedID, relatedType)
	if err := utils.RecordLedgerChange(ctx, s.ledgerEntryRepo, s.eventPublisher, entry); err != nil {
		return nil, err
	}

	return account, nil
}

func (s *ledgerService) getAccount(ctx context.Context, accountID uuid.UUID) (*entities.LedgerAccount, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: account %s", entities.ErrNotFound, accountID)
	}
	return account, nil
}
