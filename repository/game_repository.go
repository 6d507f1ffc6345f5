package repository

import (
	"context"
	"errors"
	"fmt"

	"wagerbook/database"
	"wagerbook/domain/entities"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// GameRepository implements the GameRepository interface
type GameRepository struct {
	q Queryable
}

// NewGameRepository creates a new game repository
func NewGameRepository(db *database.DB) *GameRepository {
	return &GameRepository{q: db.Pool}
}

func newGameRepositoryWithTx(tx Queryable) *GameRepository {
	return &GameRepository{q: tx}
}

const gameColumns = `
	id, season, week, home_team, away_team, status, home_score, away_score,
	spread_line, home_spread_odds, away_spread_odds, home_moneyline, away_moneyline,
	total_line, over_odds, under_odds,
	opening_spread_line, opening_home_moneyline, opening_away_moneyline, opening_total_line,
	created_at, updated_at`

func scanGame(row pgx.Row) (*entities.Game, error) {
	var g entities.Game
	err := row.Scan(
		&g.ID,
		&g.Season,
		&g.Week,
		&g.HomeTeam,
		&g.AwayTeam,
		&g.Status,
		&g.HomeScore,
		&g.AwayScore,
		&g.SpreadLine,
		&g.HomeSpreadOdds,
		&g.AwaySpreadOdds,
		&g.HomeMoneyline,
		&g.AwayMoneyline,
		&g.TotalLine,
		&g.OverOdds,
		&g.UnderOdds,
		&g.OpeningSpreadLine,
		&g.OpeningHomeMoneyline,
		&g.OpeningAwayMoneyline,
		&g.OpeningTotalLine,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GameRepository) queryGames(ctx context.Context, query string, args ...any) ([]*entities.Game, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []*entities.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, game)
	}

	return games, rows.Err()
}

// GetByID retrieves a game by ID
func (r *GameRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Game, error) {
	query := `SELECT` + gameColumns + ` FROM games WHERE id = $1`

	game, err := scanGame(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game %s: %w", id, err)
	}

	return game, nil
}

// GetByIDs retrieves every listed game that exists
func (r *GameRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.Game, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT` + gameColumns + ` FROM games WHERE id = ANY($1)`

	games, err := r.queryGames(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get %d games: %w", len(ids), err)
	}

	return games, nil
}

// GetBySeasonWeek returns the games of one week
func (r *GameRepository) GetBySeasonWeek(ctx context.Context, season, week int) ([]*entities.Game, error) {
	query := `SELECT` + gameColumns + `
		FROM games
		WHERE season = $1 AND week = $2
		ORDER BY created_at, id
	`

	games, err := r.queryGames(ctx, query, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to get games for season %d week %d: %w", season, week, err)
	}

	return games, nil
}

// Create inserts a game
func (r *GameRepository) Create(ctx context.Context, game *entities.Game) error {
	query := `
		INSERT INTO games (
			id, season, week, home_team, away_team, status, home_score, away_score,
			spread_line, home_spread_odds, away_spread_odds, home_moneyline, away_moneyline,
			total_line, over_odds, under_odds,
			opening_spread_line, opening_home_moneyline, opening_away_moneyline, opening_total_line
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		game.ID,
		game.Season,
		game.Week,
		game.HomeTeam,
		game.AwayTeam,
		game.Status,
		game.HomeScore,
		game.AwayScore,
		game.SpreadLine,
		game.HomeSpreadOdds,
		game.AwaySpreadOdds,
		game.HomeMoneyline,
		game.AwayMoneyline,
		game.TotalLine,
		game.OverOdds,
		game.UnderOdds,
		game.OpeningSpreadLine,
		game.OpeningHomeMoneyline,
		game.OpeningAwayMoneyline,
		game.OpeningTotalLine,
	).Scan(&game.CreatedAt, &game.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create game %s @ %s: %w", game.AwayTeam, game.HomeTeam, err)
	}

	return nil
}

// UpdateLines writes the current lines and prices. Opening values never change.
func (r *GameRepository) UpdateLines(ctx context.Context, game *entities.Game) error {
	query := `
		UPDATE games
		SET spread_line = $1,
		    home_spread_odds = $2,
		    away_spread_odds = $3,
		    home_moneyline = $4,
		    away_moneyline = $5,
		    total_line = $6,
		    over_odds = $7,
		    under_odds = $8,
		    updated_at = NOW()
		WHERE id = $9
	`

	result, err := r.q.Exec(ctx, query,
		game.SpreadLine,
		game.HomeSpreadOdds,
		game.AwaySpreadOdds,
		game.HomeMoneyline,
		game.AwayMoneyline,
		game.TotalLine,
		game.OverOdds,
		game.UnderOdds,
		game.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update lines for game %s: %w", game.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("game %s not found", game.ID)
	}

	return nil
}

// UpdateStatus writes status and scores together
func (r *GameRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.GameStatus, homeScore, awayScore *int) error {
	query := `
		UPDATE games
		SET status = $1, home_score = $2, away_score = $3, updated_at = NOW()
		WHERE id = $4
	`

	result, err := r.q.Exec(ctx, query, status, homeScore, awayScore, id)
	if err != nil {
		return fmt.Errorf("failed to update status for game %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("game %s not found", id)
	}

	return nil
}
