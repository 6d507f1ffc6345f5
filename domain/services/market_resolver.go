package services

import (
	"wagerbook/domain/entities"

	"github.com/shopspring/decimal"
)

// SettleSpread decides a spread pick. The line is signed from the home
// team's perspective and is added to the home score before comparing.
func SettleSpread(game entities.GameResult, line decimal.Decimal, side entities.Side) entities.Verdict {
	if !game.Final {
		return entities.VerdictNotResolvable
	}

	adjustedHome := decimal.NewFromInt(int64(game.HomeScore)).Add(line)
	cmp := adjustedHome.Cmp(decimal.NewFromInt(int64(game.AwayScore)))
	if cmp == 0 {
		return entities.VerdictPush
	}

	homeCovers := cmp > 0
	switch side {
	case entities.SideHome:
		return wonIf(homeCovers)
	case entities.SideAway:
		return wonIf(!homeCovers)
	}
	return entities.VerdictLost
}

// SettleMoneyline decides a moneyline pick. A tie pushes for both sides.
func SettleMoneyline(game entities.GameResult, side entities.Side) entities.Verdict {
	if !game.Final {
		return entities.VerdictNotResolvable
	}
	if game.HomeScore == game.AwayScore {
		return entities.VerdictPush
	}

	switch side {
	case entities.SideHome:
		return wonIf(game.HomeScore > game.AwayScore)
	case entities.SideAway:
		return wonIf(game.AwayScore > game.HomeScore)
	}
	return entities.VerdictLost
}

// SettleTotal decides an over/under pick against the combined score
func SettleTotal(game entities.GameResult, line decimal.Decimal, side entities.Side) entities.Verdict {
	if !game.Final {
		return entities.VerdictNotResolvable
	}

	actual := decimal.NewFromInt(int64(game.HomeScore + game.AwayScore))
	cmp := actual.Cmp(line)
	if cmp == 0 {
		return entities.VerdictPush
	}

	switch side {
	case entities.SideOver:
		return wonIf(cmp > 0)
	case entities.SideUnder:
		return wonIf(cmp < 0)
	}
	return entities.VerdictLost
}

// SettleFuture decides a futures pick. Futures never push.
func SettleFuture(future entities.FutureSnapshot) entities.Verdict {
	if future.Result == nil {
		return entities.VerdictNotResolvable
	}
	return wonIf(*future.Result == entities.FutureResultWon)
}

// SettleProp decides a prop pick using the side tag frozen at placement
func SettleProp(prop entities.PropSnapshot, side entities.Side) entities.Verdict {
	if prop.Result == nil {
		return entities.VerdictNotResolvable
	}

	switch side {
	case entities.SideSelection:
		return wonIf(*prop.Result == entities.PropResultSelectionWon)
	case entities.SideCounter:
		return wonIf(*prop.Result == entities.PropResultCounterWon)
	}
	return entities.VerdictLost
}

// Resolve decides one frozen selection against the pass's market snapshot.
// A market missing from the snapshot is treated as not resolvable.
func Resolve(sel entities.MarketSelection, snapshot *entities.MarketSnapshot) entities.Verdict {
	switch sel.Kind {
	case entities.MarketKindSpread, entities.MarketKindMoneyline, entities.MarketKindTotal:
		if sel.GameID == nil {
			return entities.VerdictNotResolvable
		}
		game, ok := snapshot.Games[*sel.GameID]
		if !ok {
			return entities.VerdictNotResolvable
		}
		switch sel.Kind {
		case entities.MarketKindSpread:
			if sel.Line == nil {
				return entities.VerdictNotResolvable
			}
			return SettleSpread(game, *sel.Line, sel.Side)
		case entities.MarketKindTotal:
			if sel.Line == nil {
				return entities.VerdictNotResolvable
			}
			return SettleTotal(game, *sel.Line, sel.Side)
		default:
			return SettleMoneyline(game, sel.Side)
		}

	case entities.MarketKindFuture:
		if sel.FutureID == nil {
			return entities.VerdictNotResolvable
		}
		future, ok := snapshot.Futures[*sel.FutureID]
		if !ok {
			return entities.VerdictNotResolvable
		}
		return SettleFuture(future)

	case entities.MarketKindProp:
		if sel.PropID == nil {
			return entities.VerdictNotResolvable
		}
		prop, ok := snapshot.Props[*sel.PropID]
		if !ok {
			return entities.VerdictNotResolvable
		}
		return SettleProp(prop, sel.Side)
	}

	return entities.VerdictNotResolvable
}

func wonIf(won bool) entities.Verdict {
	if won {
		return entities.VerdictWon
	}
	return entities.VerdictLost
}
