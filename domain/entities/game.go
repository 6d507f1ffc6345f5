package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GameStatus represents where a game is in its lifecycle
type GameStatus string

const (
	GameStatusUpcoming GameStatus = "upcoming"
	GameStatusLive     GameStatus = "live"
	GameStatusFinal    GameStatus = "final"
)

// Game is a scheduled matchup offering spread, moneyline and total markets.
// The spread line is signed from the home team's perspective, negative favors home.
type Game struct {
	ID                   uuid.UUID       `db:"id"`
	Season               int             `db:"season"`
	Week                 int             `db:"week"`
	HomeTeam             string          `db:"home_team"`
	AwayTeam             string          `db:"away_team"`
	Status               GameStatus      `db:"status"`
	HomeScore            *int            `db:"home_score"`
	AwayScore            *int            `db:"away_score"`
	SpreadLine           decimal.Decimal `db:"spread_line"`
	HomeSpreadOdds       int             `db:"home_spread_odds"`
	AwaySpreadOdds       int             `db:"away_spread_odds"`
	HomeMoneyline        int             `db:"home_moneyline"`
	AwayMoneyline        int             `db:"away_moneyline"`
	TotalLine            decimal.Decimal `db:"total_line"`
	OverOdds             int             `db:"over_odds"`
	UnderOdds            int             `db:"under_odds"`
	OpeningSpreadLine    decimal.Decimal `db:"opening_spread_line"`
	OpeningHomeMoneyline int             `db:"opening_home_moneyline"`
	OpeningAwayMoneyline int             `db:"opening_away_moneyline"`
	OpeningTotalLine     decimal.Decimal `db:"opening_total_line"`
	CreatedAt            time.Time       `db:"created_at"`
	UpdatedAt            time.Time       `db:"updated_at"`
}

// IsFinal returns true if the game has a final score
func (g *Game) IsFinal() bool {
	return g.Status == GameStatusFinal && g.HomeScore != nil && g.AwayScore != nil
}

// IsOpenForBetting returns true if the game has not kicked off
func (g *Game) IsOpenForBetting() bool {
	return g.Status == GameStatusUpcoming
}

// Quote returns the current price, line and description for one side of a game market
func (g *Game) Quote(kind MarketKind, side Side) (MarketSelection, error) {
	id := g.ID
	sel := MarketSelection{Kind: kind, GameID: &id, Side: side}

	switch kind {
	case MarketKindSpread:
		line := g.SpreadLine
		switch side {
		case SideHome:
			sel.Odds = g.HomeSpreadOdds
			sel.Description = fmt.Sprintf("%s %s", g.HomeTeam, formatSigned(line))
		case SideAway:
			// The away line is the negation of the home line
			sel.Odds = g.AwaySpreadOdds
			sel.Description = fmt.Sprintf("%s %s", g.AwayTeam, formatSigned(line.Neg()))
		default:
			return MarketSelection{}, fmt.Errorf("%w: side %q on spread", ErrInvalidInput, side)
		}
		sel.Line = &line
	case MarketKindMoneyline:
		switch side {
		case SideHome:
			sel.Odds = g.HomeMoneyline
			sel.Description = fmt.Sprintf("%s ML", g.HomeTeam)
		case SideAway:
			sel.Odds = g.AwayMoneyline
			sel.Description = fmt.Sprintf("%s ML", g.AwayTeam)
		default:
			return MarketSelection{}, fmt.Errorf("%w: side %q on moneyline", ErrInvalidInput, side)
		}
	case MarketKindTotal:
		line := g.TotalLine
		switch side {
		case SideOver:
			sel.Odds = g.OverOdds
			sel.Description = fmt.Sprintf("O %s (%s @ %s)", line.String(), g.AwayTeam, g.HomeTeam)
		case SideUnder:
			sel.Odds = g.UnderOdds
			sel.Description = fmt.Sprintf("U %s (%s @ %s)", line.String(), g.AwayTeam, g.HomeTeam)
		default:
			return MarketSelection{}, fmt.Errorf("%w: side %q on total", ErrInvalidInput, side)
		}
		sel.Line = &line
	default:
		return MarketSelection{}, fmt.Errorf("%w: %s is not a game market", ErrInvalidInput, kind)
	}

	return sel, nil
}

// Result flattens the game into the snapshot used for settlement
func (g *Game) Result() GameResult {
	result := GameResult{GameID: g.ID, Final: g.IsFinal()}
	if result.Final {
		result.HomeScore = *g.HomeScore
		result.AwayScore = *g.AwayScore
	}
	return result
}

// Validate checks the score and price invariants of a game
func (g *Game) Validate() error {
	hasScores := g.HomeScore != nil && g.AwayScore != nil
	if (g.Status == GameStatusFinal) != hasScores {
		return fmt.Errorf("%w: scores must be present exactly when the game is final", ErrInvalidInput)
	}
	for _, odds := range []int{g.HomeSpreadOdds, g.AwaySpreadOdds, g.HomeMoneyline, g.AwayMoneyline, g.OverOdds, g.UnderOdds} {
		if odds == 0 {
			return fmt.Errorf("%w: game prices cannot be zero", ErrInvalidInput)
		}
	}
	return nil
}

// GameResult is the flattened state of a game read once per settlement pass
type GameResult struct {
	GameID    uuid.UUID
	Final     bool
	HomeScore int
	AwayScore int
}

func formatSigned(d decimal.Decimal) string {
	if d.IsPositive() {
		return "+" + d.String()
	}
	if d.IsZero() {
		return "PK"
	}
	return d.String()
}
