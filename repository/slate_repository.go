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

// SlateRepository implements the SlateRepository interface
type SlateRepository struct {
	q Queryable
}

// NewSlateRepository creates a new slate repository
func NewSlateRepository(db *database.DB) *SlateRepository {
	return &SlateRepository{q: db.Pool}
}

func newSlateRepositoryWithTx(tx Queryable) *SlateRepository {
	return &SlateRepository{q: tx}
}

func scanSlate(row pgx.Row) (*entities.WeeklySlate, error) {
	var slate entities.WeeklySlate
	if err := row.Scan(&slate.ID, &slate.Season, &slate.Week, &slate.Status, &slate.CreatedAt, &slate.UpdatedAt); err != nil {
		return nil, err
	}
	return &slate, nil
}

// GetCurrent returns the latest slate by season and week
func (r *SlateRepository) GetCurrent(ctx context.Context) (*entities.WeeklySlate, error) {
	query := `
		SELECT id, season, week, status, created_at, updated_at
		FROM weekly_slates
		ORDER BY season DESC, week DESC
		LIMIT 1
	`

	slate, err := scanSlate(r.q.QueryRow(ctx, query))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get current slate: %w", err)
	}

	return slate, nil
}

// GetBySeasonWeek retrieves the slate for one week
func (r *SlateRepository) GetBySeasonWeek(ctx context.Context, season, week int) (*entities.WeeklySlate, error) {
	query := `
		SELECT id, season, week, status, created_at, updated_at
		FROM weekly_slates
		WHERE season = $1 AND week = $2
	`

	slate, err := scanSlate(r.q.QueryRow(ctx, query, season, week))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get slate for season %d week %d: %w", season, week, err)
	}

	return slate, nil
}

// GetByStatus returns all slates in a status, oldest week first
func (r *SlateRepository) GetByStatus(ctx context.Context, status entities.SlateStatus) ([]*entities.WeeklySlate, error) {
	query := `
		SELECT id, season, week, status, created_at, updated_at
		FROM weekly_slates
		WHERE status = $1
		ORDER BY season, week
	`

	rows, err := r.q.Query(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s slates: %w", status, err)
	}
	defer rows.Close()

	var slates []*entities.WeeklySlate
	for rows.Next() {
		slate, err := scanSlate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan slate: %w", err)
		}
		slates = append(slates, slate)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating slates: %w", err)
	}

	return slates, nil
}

// Create inserts a new slate
func (r *SlateRepository) Create(ctx context.Context, slate *entities.WeeklySlate) error {
	query := `
		INSERT INTO weekly_slates (id, season, week, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query, slate.ID, slate.Season, slate.Week, slate.Status).Scan(&slate.CreatedAt, &slate.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create slate for season %d week %d: %w", slate.Season, slate.Week, err)
	}

	return nil
}

// UpdateStatus sets the status of a slate
func (r *SlateRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.SlateStatus) error {
	query := `
		UPDATE weekly_slates
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.q.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update slate %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("slate %s not found", id)
	}

	return nil
}
