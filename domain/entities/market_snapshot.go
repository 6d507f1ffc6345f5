package entities

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MarketSnapshot holds the flattened market state read once at the start of a
// settlement pass. A score corrected mid-pass is only seen by the next pass.
type MarketSnapshot struct {
	Games   map[uuid.UUID]GameResult
	Futures map[uuid.UUID]FutureSnapshot
	Props   map[uuid.UUID]PropSnapshot
}

// NewMarketSnapshot creates an empty snapshot
func NewMarketSnapshot() *MarketSnapshot {
	return &MarketSnapshot{
		Games:   make(map[uuid.UUID]GameResult),
		Futures: make(map[uuid.UUID]FutureSnapshot),
		Props:   make(map[uuid.UUID]PropSnapshot),
	}
}

// AddGame caches a game's result
func (s *MarketSnapshot) AddGame(g *Game) {
	s.Games[g.ID] = g.Result()
}

// AddFuture caches a future's result
func (s *MarketSnapshot) AddFuture(f *Future) {
	s.Futures[f.ID] = f.Snapshot()
}

// AddProp caches a prop's result
func (s *MarketSnapshot) AddProp(p *Prop) {
	s.Props[p.ID] = p.Snapshot()
}

// MarketIDs collects the distinct market references of a set of selections
type MarketIDs struct {
	GameIDs   []uuid.UUID
	FutureIDs []uuid.UUID
	PropIDs   []uuid.UUID
}

// CollectMarketIDs returns the distinct games, futures and props referenced by the selections
func CollectMarketIDs(selections []MarketSelection) MarketIDs {
	var ids MarketIDs
	seen := make(map[uuid.UUID]bool)
	for _, sel := range selections {
		id := sel.MarketID()
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		switch {
		case sel.GameID != nil:
			ids.GameIDs = append(ids.GameIDs, id)
		case sel.FutureID != nil:
			ids.FutureIDs = append(ids.FutureIDs, id)
		case sel.PropID != nil:
			ids.PropIDs = append(ids.PropIDs, id)
		}
	}
	return ids
}

// SideAction is the amount staked on one side of a market
type SideAction struct {
	Side     Side
	Units    decimal.Decimal
	BetCount int
}
