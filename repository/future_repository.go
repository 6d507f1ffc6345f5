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

// FutureRepository implements the FutureRepository interface
type FutureRepository struct {
	q Queryable
}

// NewFutureRepository creates a new future repository
func NewFutureRepository(db *database.DB) *FutureRepository {
	return &FutureRepository{q: db.Pool}
}

func newFutureRepositoryWithTx(tx Queryable) *FutureRepository {
	return &FutureRepository{q: tx}
}

const futureColumns = `id, category, selection_name, odds, is_active, result, created_at, updated_at`

func scanFuture(row pgx.Row) (*entities.Future, error) {
	var f entities.Future
	err := row.Scan(&f.ID, &f.Category, &f.SelectionName, &f.Odds, &f.IsActive, &f.Result, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// GetByID retrieves a future by ID
func (r *FutureRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Future, error) {
	query := `SELECT ` + futureColumns + ` FROM futures WHERE id = $1`

	future, err := scanFuture(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get future %s: %w", id, err)
	}

	return future, nil
}

// GetByIDs retrieves every listed future that exists
func (r *FutureRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.Future, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + futureColumns + ` FROM futures WHERE id = ANY($1)`

	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get %d futures: %w", len(ids), err)
	}
	defer rows.Close()

	var futures []*entities.Future
	for rows.Next() {
		future, err := scanFuture(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan future: %w", err)
		}
		futures = append(futures, future)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating futures: %w", err)
	}

	return futures, nil
}

// Create inserts a future
func (r *FutureRepository) Create(ctx context.Context, future *entities.Future) error {
	query := `
		INSERT INTO futures (id, category, selection_name, odds, is_active, result)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		future.ID,
		future.Category,
		future.SelectionName,
		future.Odds,
		future.IsActive,
		future.Result,
	).Scan(&future.CreatedAt, &future.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create future %q: %w", future.SelectionName, err)
	}

	return nil
}

// UpdateOdds sets the current price of a future
func (r *FutureRepository) UpdateOdds(ctx context.Context, id uuid.UUID, odds int) error {
	query := `
		UPDATE futures
		SET odds = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.q.Exec(ctx, query, odds, id)
	if err != nil {
		return fmt.Errorf("failed to update odds for future %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("future %s not found", id)
	}

	return nil
}

// DeclareResult sets the result and closes the market in one write
func (r *FutureRepository) DeclareResult(ctx context.Context, id uuid.UUID, result entities.FutureResult) error {
	query := `
		UPDATE futures
		SET result = $1, is_active = FALSE, updated_at = NOW()
		WHERE id = $2
	`

	tag, err := r.q.Exec(ctx, query, result, id)
	if err != nil {
		return fmt.Errorf("failed to declare result for future %s: %w", id, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("future %s not found", id)
	}

	return nil
}
