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
)

// StraightWagerRepository implements the StraightWagerRepository interface
type StraightWagerRepository struct {
	q Queryable
}

// NewStraightWagerRepository creates a new straight wager repository
func NewStraightWagerRepository(db *database.DB) *StraightWagerRepository {
	return &StraightWagerRepository{q: db.Pool}
}

// newStraightWagerRepositoryWithTx creates a new straight wager repository with a transaction
func newStraightWagerRepositoryWithTx(tx Queryable) *StraightWagerRepository {
	return &StraightWagerRepository{q: tx}
}

const straightWagerColumns = `id, account_id, ` + selectionColumns + `, stake, potential_payout, status, created_at, settled_at`

func scanStraightWager(row pgx.Row) (*entities.StraightWager, error) {
	var w entities.StraightWager
	sel := newSelectionScan(&w.Selection)

	dest := []any{&w.ID, &w.AccountID}
	dest = append(dest, sel.dest()...)
	dest = append(dest, &w.Stake, &w.PotentialPayout, &w.Status, &w.CreatedAt, &w.SettledAt)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	sel.finish()
	return &w, nil
}

func (r *StraightWagerRepository) queryWagers(ctx context.Context, query string, args ...any) ([]*entities.StraightWager, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var wagers []*entities.StraightWager
	for rows.Next() {
		wager, err := scanStraightWager(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan straight wager: %w", err)
		}
		wagers = append(wagers, wager)
	}

	return wagers, rows.Err()
}

// Create inserts a pending straight wager with its frozen selection
func (r *StraightWagerRepository) Create(ctx context.Context, wager *entities.StraightWager) error {
	query := `
		INSERT INTO straight_wagers (id, account_id, ` + selectionColumns + `, stake, potential_payout, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at
	`

	args := []any{wager.ID, wager.AccountID}
	args = append(args, selectionArgs(wager.Selection)...)
	args = append(args, wager.Stake, wager.PotentialPayout, wager.Status)

	if err := r.q.QueryRow(ctx, query, args...).Scan(&wager.CreatedAt); err != nil {
		return fmt.Errorf("failed to create straight wager: %w", err)
	}

	return nil
}

// GetByID retrieves a straight wager by ID
func (r *StraightWagerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.StraightWager, error) {
	query := `SELECT ` + straightWagerColumns + ` FROM straight_wagers WHERE id = $1`

	wager, err := scanStraightWager(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get straight wager %s: %w", id, err)
	}

	return wager, nil
}

// GetByAccount returns an account's straight wagers, newest first
func (r *StraightWagerRepository) GetByAccount(ctx context.Context, accountID uuid.UUID) ([]*entities.StraightWager, error) {
	query := `SELECT ` + straightWagerColumns + `
		FROM straight_wagers
		WHERE account_id = $1
		ORDER BY created_at DESC, id
	`

	wagers, err := r.queryWagers(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get straight wagers for account %s: %w", accountID, err)
	}

	return wagers, nil
}

// GetPending returns every pending straight wager, oldest first
func (r *StraightWagerRepository) GetPending(ctx context.Context) ([]*entities.StraightWager, error) {
	query := `SELECT ` + straightWagerColumns + `
		FROM straight_wagers
		WHERE status = 'pending'
		ORDER BY created_at, id
	`

	wagers, err := r.queryWagers(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending straight wagers: %w", err)
	}

	return wagers, nil
}

// TransitionStatus moves the wager only if it is still in the from status
func (r *StraightWagerRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entities.WagerStatus, settledAt time.Time) (bool, error) {
	query := `
		UPDATE straight_wagers
		SET status = $1, settled_at = $2
		WHERE id = $3 AND status = $4
	`

	result, err := r.q.Exec(ctx, query, to, settledAt, id, from)
	if err != nil {
		return false, fmt.Errorf("failed to transition straight wager %s to %s: %w", id, to, err)
	}

	return result.RowsAffected() == 1, nil
}

// GetSideActions sums the units staked on each side of one market. Voided
// wagers are excluded since their stake went back.
func (r *StraightWagerRepository) GetSideActions(ctx context.Context, kind entities.MarketKind, marketID uuid.UUID) ([]*entities.SideAction, error) {
	query := `
		SELECT side, COALESCE(SUM(stake), 0), COUNT(*)
		FROM straight_wagers
		WHERE market_kind = $1
		  AND COALESCE(game_id, future_id, prop_id) = $2
		  AND status <> 'void'
		GROUP BY side
		ORDER BY side
	`

	rows, err := r.q.Query(ctx, query, kind, marketID)
	if err != nil {
		return nil, fmt.Errorf("failed to get side actions for %s %s: %w", kind, marketID, err)
	}
	defer rows.Close()

	var actions []*entities.SideAction
	for rows.Next() {
		var action entities.SideAction
		if err := rows.Scan(&action.Side, &action.Units, &action.BetCount); err != nil {
			return nil, fmt.Errorf("failed to scan side action: %w", err)
		}
		actions = append(actions, &action)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating side actions: %w", err)
	}

	return actions, nil
}

// CountPendingForGames counts pending wagers on the games or on props tied to them
func (r *StraightWagerRepository) CountPendingForGames(ctx context.Context, gameIDs []uuid.UUID) (int, error) {
	if len(gameIDs) == 0 {
		return 0, nil
	}

	query := `
		SELECT COUNT(*)
		FROM straight_wagers
		WHERE status = 'pending'
		  AND (game_id = ANY($1)
		       OR prop_id IN (SELECT id FROM props WHERE game_id = ANY($1)))
	`

	var count int
	if err := r.q.QueryRow(ctx, query, gameIDs).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count pending straight wagers: %w", err)
	}

	return count, nil
}
