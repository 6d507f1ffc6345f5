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

// PropRepository implements the PropRepository interface
type PropRepository struct {
	q Queryable
}

// NewPropRepository creates a new prop repository
func NewPropRepository(db *database.DB) *PropRepository {
	return &PropRepository{q: db.Pool}
}

func newPropRepositoryWithTx(tx Queryable) *PropRepository {
	return &PropRepository{q: tx}
}

const propColumns = `
	id, description, selection_name, odds, counter_selection, counter_odds,
	game_id, team, result, created_at, updated_at`

func scanProp(row pgx.Row) (*entities.Prop, error) {
	var p entities.Prop
	err := row.Scan(
		&p.ID,
		&p.Description,
		&p.SelectionName,
		&p.Odds,
		&p.CounterSelection,
		&p.CounterOdds,
		&p.GameID,
		&p.Team,
		&p.Result,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByID retrieves a prop by ID
func (r *PropRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Prop, error) {
	query := `SELECT` + propColumns + ` FROM props WHERE id = $1`

	prop, err := scanProp(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prop %s: %w", id, err)
	}

	return prop, nil
}

// GetByIDs retrieves every listed prop that exists
func (r *PropRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.Prop, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT` + propColumns + ` FROM props WHERE id = ANY($1)`

	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get %d props: %w", len(ids), err)
	}
	defer rows.Close()

	var props []*entities.Prop
	for rows.Next() {
		prop, err := scanProp(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prop: %w", err)
		}
		props = append(props, prop)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating props: %w", err)
	}

	return props, nil
}

// Create inserts a prop
func (r *PropRepository) Create(ctx context.Context, prop *entities.Prop) error {
	query := `
		INSERT INTO props (
			id, description, selection_name, odds, counter_selection, counter_odds, game_id, team, result
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		prop.ID,
		prop.Description,
		prop.SelectionName,
		prop.Odds,
		prop.CounterSelection,
		prop.CounterOdds,
		prop.GameID,
		prop.Team,
		prop.Result,
	).Scan(&prop.CreatedAt, &prop.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create prop %q: %w", prop.Description, err)
	}

	return nil
}

// DeclareResult sets the terminal result of a prop
func (r *PropRepository) DeclareResult(ctx context.Context, id uuid.UUID, result entities.PropResult) error {
	query := `
		UPDATE props
		SET result = $1, updated_at = NOW()
		WHERE id = $2
	`

	tag, err := r.q.Exec(ctx, query, result, id)
	if err != nil {
		return fmt.Errorf("failed to declare result for prop %s: %w", id, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("prop %s not found", id)
	}

	return nil
}
