package application

import (
	"context"
	"fmt"

	"wagerbook/domain/entities"
	"wagerbook/domain/interfaces"
	"wagerbook/domain/services"

	"github.com/google/uuid"
)

// MarketHandler serves operator actions on markets: results, statuses and
// advisory line moves
type MarketHandler struct {
	uowFactory UnitOfWorkFactory
}

// NewMarketHandler creates a new market handler
func NewMarketHandler(uowFactory UnitOfWorkFactory) *MarketHandler {
	return &MarketHandler{uowFactory: uowFactory}
}

func (h *MarketHandler) withAdmin(ctx context.Context, fn func(admin interfaces.MarketAdminService) error) error {
	return runOnce(ctx, h.uowFactory, func(uow UnitOfWork) error {
		return fn(services.NewMarketAdminService(
			uow.GameRepository(),
			uow.FutureRepository(),
			uow.PropRepository(),
			uow.SlateRepository(),
		))
	})
}

// RecordFinalScore finishes a game so its wagers settle on the next pass
func (h *MarketHandler) RecordFinalScore(ctx context.Context, gameID uuid.UUID, homeScore, awayScore int) error {
	return h.withAdmin(ctx, func(admin interfaces.MarketAdminService) error {
		return admin.RecordFinalScore(ctx, gameID, homeScore, awayScore)
	})
}

// SetGameStatus moves a game to live, closing it for betting
func (h *MarketHandler) SetGameStatus(ctx context.Context, gameID uuid.UUID, status entities.GameStatus) error {
	return h.withAdmin(ctx, func(admin interfaces.MarketAdminService) error {
		return admin.SetGameStatus(ctx, gameID, status)
	})
}

func (h *MarketHandler) DeclareFutureResult(ctx context.Context, futureID uuid.UUID, result entities.FutureResult) error {
	return h.withAdmin(ctx, func(admin interfaces.MarketAdminService) error {
		return admin.DeclareFutureResult(ctx, futureID, result)
	})
}

func (h *MarketHandler) DeclarePropResult(ctx context.Context, propID uuid.UUID, result entities.PropResult) error {
	return h.withAdmin(ctx, func(admin interfaces.MarketAdminService) error {
		return admin.DeclarePropResult(ctx, propID, result)
	})
}

// SetSlateStatus opens or locks a week for placement
func (h *MarketHandler) SetSlateStatus(ctx context.Context, season, week int, status entities.SlateStatus) error {
	return h.withAdmin(ctx, func(admin interfaces.MarketAdminService) error {
		return admin.SetSlateStatus(ctx, season, week, status)
	})
}

// SuggestLineMove reads the current action on a market and returns the
// advisory move, or nil when no move is warranted
func (h *MarketHandler) SuggestLineMove(ctx context.Context, kind entities.MarketKind, marketID uuid.UUID) (*interfaces.Suggestion, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return h.advisor(uow).SuggestLineMove(ctx, kind, marketID)
}

// ApplySuggestion writes an operator-approved move to the market and its odds history
func (h *MarketHandler) ApplySuggestion(ctx context.Context, suggestion *interfaces.Suggestion, reason string) error {
	return runOnce(ctx, h.uowFactory, func(uow UnitOfWork) error {
		return h.advisor(uow).ApplySuggestion(ctx, suggestion, reason)
	})
}

// GetOddsHistory returns the recorded moves of a market, oldest first
func (h *MarketHandler) GetOddsHistory(ctx context.Context, kind entities.MarketKind, marketID uuid.UUID) ([]*entities.OddsHistory, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	history, err := uow.OddsHistoryRepository().GetByMarket(ctx, kind, marketID)
	if err != nil {
		return nil, fmt.Errorf("failed to get odds history: %w", err)
	}
	return history, nil
}

func (h *MarketHandler) advisor(uow UnitOfWork) interfaces.LineMovementAdvisor {
	return services.NewLineMovementAdvisor(
		uow.GameRepository(),
		uow.FutureRepository(),
		uow.StraightWagerRepository(),
		uow.OddsHistoryRepository(),
		uow.EventBus(),
	)
}
