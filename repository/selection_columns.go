package repository

import (
	"wagerbook/domain/entities"

	"github.com/shopspring/decimal"
)

// selectionColumns are the frozen selection columns shared by straight_wagers and parlay_legs
const selectionColumns = `market_kind, game_id, future_id, prop_id, side, selection, odds, line`

func selectionArgs(sel entities.MarketSelection) []any {
	line := decimal.NullDecimal{}
	if sel.Line != nil {
		line = decimal.NewNullDecimal(*sel.Line)
	}
	return []any{sel.Kind, sel.GameID, sel.FutureID, sel.PropID, sel.Side, sel.Description, sel.Odds, line}
}

// selectionScan holds scan targets for the selection columns until the row is read
type selectionScan struct {
	sel  *entities.MarketSelection
	line decimal.NullDecimal
}

func newSelectionScan(sel *entities.MarketSelection) *selectionScan {
	return &selectionScan{sel: sel}
}

func (s *selectionScan) dest() []any {
	return []any{
		&s.sel.Kind,
		&s.sel.GameID,
		&s.sel.FutureID,
		&s.sel.PropID,
		&s.sel.Side,
		&s.sel.Description,
		&s.sel.Odds,
		&s.line,
	}
}

func (s *selectionScan) finish() {
	if s.line.Valid {
		line := s.line.Decimal
		s.sel.Line = &line
	}
}
