package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wagerbook/database"
	"wagerbook/domain/entities"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ParlayRepository implements the ParlayRepository interface
type ParlayRepository struct {
	q Queryable
}

// NewParlayRepository creates a new parlay repository
func NewParlayRepository(db *database.DB) *ParlayRepository {
	return &ParlayRepository{q: db.Pool}
}

// newParlayRepositoryWithTx creates a new parlay repository with a transaction
func newParlayRepositoryWithTx(tx Queryable) *ParlayRepository {
	return &ParlayRepository{q: tx}
}

const parlayColumns = `id, account_id, stake, total_odds, potential_payout, payout, status, created_at, settled_at`

const parlayLegColumns = `id, parlay_id, position, ` + selectionColumns + `, status, settled_at`

func scanParlay(row pgx.Row) (*entities.ParlayWager, error) {
	var p entities.ParlayWager
	var payout decimal.NullDecimal
	err := row.Scan(
		&p.ID,
		&p.AccountID,
		&p.Stake,
		&p.TotalOdds,
		&p.PotentialPayout,
		&payout,
		&p.Status,
		&p.CreatedAt,
		&p.SettledAt,
	)
	if err != nil {
		return nil, err
	}
	if payout.Valid {
		p.Payout = &payout.Decimal
	}
	return &p, nil
}

func scanParlayLeg(row pgx.Row) (*entities.ParlayLeg, error) {
	var leg entities.ParlayLeg
	sel := newSelectionScan(&leg.Selection)

	dest := []any{&leg.ID, &leg.ParlayID, &leg.Position}
	dest = append(dest, sel.dest()...)
	dest = append(dest, &leg.Status, &leg.SettledAt)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	sel.finish()
	return &leg, nil
}

// Create inserts the parlay and then each of its legs
func (r *ParlayRepository) Create(ctx context.Context, parlay *entities.ParlayWager) error {
	query := `
		INSERT INTO parlay_wagers (id, account_id, stake, total_odds, potential_payout, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query,
		parlay.ID,
		parlay.AccountID,
		parlay.Stake,
		parlay.TotalOdds,
		parlay.PotentialPayout,
		parlay.Status,
	).Scan(&parlay.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create parlay: %w", err)
	}

	legQuery := `
		INSERT INTO parlay_legs (id, parlay_id, position, ` + selectionColumns + `, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	for _, leg := range parlay.Legs {
		args := []any{leg.ID, parlay.ID, leg.Position}
		args = append(args, selectionArgs(leg.Selection)...)
		args = append(args, leg.Status)

		if _, err := r.q.Exec(ctx, legQuery, args...); err != nil {
			return fmt.Errorf("failed to create leg %d of parlay %s: %w", leg.Position, parlay.ID, err)
		}
		leg.ParlayID = parlay.ID
	}

	return nil
}

// GetByID retrieves a parlay with its legs
func (r *ParlayRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.ParlayWager, error) {
	query := `SELECT ` + parlayColumns + ` FROM parlay_wagers WHERE id = $1`

	parlay, err := scanParlay(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get parlay %s: %w", id, err)
	}

	if err := r.loadLegs(ctx, []*entities.ParlayWager{parlay}); err != nil {
		return nil, err
	}

	return parlay, nil
}

// GetByAccount returns an account's parlays, newest first
func (r *ParlayRepository) GetByAccount(ctx context.Context, accountID uuid.UUID) ([]*entities.ParlayWager, error) {
	query := `SELECT ` + parlayColumns + `
		FROM parlay_wagers
		WHERE account_id = $1
		ORDER BY created_at DESC, id
	`

	parlays, err := r.queryParlays(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get parlays for account %s: %w", accountID, err)
	}

	return parlays, nil
}

// GetPending returns every pending parlay, oldest first
func (r *ParlayRepository) GetPending(ctx context.Context) ([]*entities.ParlayWager, error) {
	query := `SELECT ` + parlayColumns + `
		FROM parlay_wagers
		WHERE status = 'pending'
		ORDER BY created_at, id
	`

	parlays, err := r.queryParlays(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending parlays: %w", err)
	}

	return parlays, nil
}

func (r *ParlayRepository) queryParlays(ctx context.Context, query string, args ...any) ([]*entities.ParlayWager, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	var parlays []*entities.ParlayWager
	for rows.Next() {
		parlay, err := scanParlay(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan parlay: %w", err)
		}
		parlays = append(parlays, parlay)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Legs are read after the parlay rows are closed since a transaction
	// connection cannot run two queries at once
	if err := r.loadLegs(ctx, parlays); err != nil {
		return nil, err
	}

	return parlays, nil
}

// loadLegs fills in the legs of every parlay with one query
func (r *ParlayRepository) loadLegs(ctx context.Context, parlays []*entities.ParlayWager) error {
	if len(parlays) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*entities.ParlayWager, len(parlays))
	ids := make([]uuid.UUID, 0, len(parlays))
	for _, p := range parlays {
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}

	query := `SELECT ` + parlayLegColumns + `
		FROM parlay_legs
		WHERE parlay_id = ANY($1)
		ORDER BY parlay_id, position
	`

	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to get parlay legs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		leg, err := scanParlayLeg(rows)
		if err != nil {
			return fmt.Errorf("failed to scan parlay leg: %w", err)
		}
		if parlay, ok := byID[leg.ParlayID]; ok {
			parlay.Legs = append(parlay.Legs, leg)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating parlay legs: %w", err)
	}

	return nil
}

// TransitionLegStatus moves one leg only if it is still in the from status
func (r *ParlayRepository) TransitionLegStatus(ctx context.Context, legID uuid.UUID, from, to entities.WagerStatus, settledAt time.Time) (bool, error) {
	query := `
		UPDATE parlay_legs
		SET status = $1, settled_at = $2
		WHERE id = $3 AND status = $4
	`

	result, err := r.q.Exec(ctx, query, to, settledAt, legID, from)
	if err != nil {
		return false, fmt.Errorf("failed to transition parlay leg %s to %s: %w", legID, to, err)
	}

	return result.RowsAffected() == 1, nil
}

// TransitionStatus moves the parlay only if it is still in the from status and records the payout
func (r *ParlayRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entities.WagerStatus, payout decimal.Decimal, settledAt time.Time) (bool, error) {
	query := `
		UPDATE parlay_wagers
		SET status = $1, payout = $2, settled_at = $3
		WHERE id = $4 AND status = $5
	`

	result, err := r.q.Exec(ctx, query, to, payout, settledAt, id, from)
	if err != nil {
		return false, fmt.Errorf("failed to transition parlay %s to %s: %w", id, to, err)
	}

	return result.RowsAffected() == 1, nil
}

// CountPendingLegsForGames counts pending legs of pending parlays on the games or on props tied to them
func (r *ParlayRepository) CountPendingLegsForGames(ctx context.Context, gameIDs []uuid.UUID) (int, error) {
	if len(gameIDs) == 0 {
		return 0, nil
	}

	query := `
		SELECT COUNT(*)
		FROM parlay_legs l
		JOIN parlay_wagers p ON p.id = l.parlay_id
		WHERE p.status = 'pending'
		  AND l.status = 'pending'
		  AND (l.game_id = ANY($1)
		       OR l.prop_id IN (SELECT id FROM props WHERE game_id = ANY($1)))
	`

	var count int
	if err := r.q.QueryRow(ctx, query, gameIDs).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count pending parlay legs: %w", err)
	}

	return count, nil
}
