package application

import (
	"context"

	"wagerbook/domain/interfaces"
	"wagerbook/domain/services"
)

// WagerPlacementHandler places bet slips, each attempt in its own transaction
type WagerPlacementHandler struct {
	uowFactory UnitOfWorkFactory
	publisher  interfaces.EventPublisher
}

// NewWagerPlacementHandler creates a new wager placement handler. publisher
// receives retry notifications that happen outside any unit of work.
func NewWagerPlacementHandler(uowFactory UnitOfWorkFactory, publisher interfaces.EventPublisher) *WagerPlacementHandler {
	return &WagerPlacementHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// PlaceWager validates, prices and persists the slip. The stake commitment is
// retried when another placement or settlement touched the account first.
func (h *WagerPlacementHandler) PlaceWager(ctx context.Context, req interfaces.PlacementRequest) (*interfaces.PlacementResult, error) {
	var result *interfaces.PlacementResult

	err := runInUnitOfWork(ctx, h.uowFactory, h.publisher, "place_wager", func(uow UnitOfWork) error {
		placementService := services.NewWagerPlacementService(
			uow.LedgerAccountRepository(),
			uow.GameRepository(),
			uow.FutureRepository(),
			uow.PropRepository(),
			uow.SlateRepository(),
			uow.StraightWagerRepository(),
			uow.ParlayRepository(),
			uow.LedgerEntryRepository(),
			uow.EventBus(),
		)

		var err error
		result, err = placementService.PlaceWager(ctx, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
