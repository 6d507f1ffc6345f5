package application

import (
	"context"
	"fmt"

	"wagerbook/domain/entities"
	"wagerbook/domain/interfaces"
	"wagerbook/domain/services"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// defaultHistoryLimit caps ledger history reads when the caller passes no limit
const defaultHistoryLimit = 50

// AccountHandler serves account opening and the read-only account views
type AccountHandler struct {
	uowFactory UnitOfWorkFactory
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(uowFactory UnitOfWorkFactory) *AccountHandler {
	return &AccountHandler{uowFactory: uowFactory}
}

// OpenAccount creates a funded account with its opening ledger entry
func (h *AccountHandler) OpenAccount(ctx context.Context, displayName string, team *string, initialUnits decimal.Decimal) (*entities.LedgerAccount, error) {
	var account *entities.LedgerAccount

	err := runOnce(ctx, h.uowFactory, func(uow UnitOfWork) error {
		ledgerService := services.NewLedgerService(uow.LedgerAccountRepository(), uow.LedgerEntryRepository(), uow.EventBus())

		var err error
		account, err = ledgerService.OpenAccount(ctx, displayName, team, initialUnits)
		return err
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

// GetLeaderboard returns every account ranked by net profit
func (h *AccountHandler) GetLeaderboard(ctx context.Context) ([]*interfaces.LeaderboardEntry, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return services.NewLeaderboardService(uow.LedgerAccountRepository()).GetLeaderboard(ctx)
}

// GetLedgerHistory returns the most recent ledger entries of an account, newest first
func (h *AccountHandler) GetLedgerHistory(ctx context.Context, accountID uuid.UUID, limit int) ([]*entities.LedgerEntry, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.LedgerAccountRepository().GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: account %s", entities.ErrNotFound, accountID)
	}

	entries, err := uow.LedgerEntryRepository().GetByAccount(ctx, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger history: %w", err)
	}
	return entries, nil
}
