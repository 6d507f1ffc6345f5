package repository

import (
	"context"
	"fmt"

	"wagerbook/database"
	"wagerbook/domain/entities"

	"github.com/google/uuid"
)

// OddsHistoryRepository implements the OddsHistoryRepository interface
type OddsHistoryRepository struct {
	q Queryable
}

// NewOddsHistoryRepository creates a new odds history repository
func NewOddsHistoryRepository(db *database.DB) *OddsHistoryRepository {
	return &OddsHistoryRepository{q: db.Pool}
}

func newOddsHistoryRepositoryWithTx(tx Queryable) *OddsHistoryRepository {
	return &OddsHistoryRepository{q: tx}
}

// Record stores one applied line movement
func (r *OddsHistoryRepository) Record(ctx context.Context, history *entities.OddsHistory) error {
	query := `
		INSERT INTO odds_history (market_kind, market_id, side, old_value, new_value, reason)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		history.MarketKind,
		history.MarketID,
		history.Side,
		history.OldValue,
		history.NewValue,
		history.Reason,
	).Scan(&history.ID, &history.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to record odds history for %s %s: %w", history.MarketKind, history.MarketID, err)
	}

	return nil
}

// GetByMarket returns the movements of one market, oldest first
func (r *OddsHistoryRepository) GetByMarket(ctx context.Context, kind entities.MarketKind, marketID uuid.UUID) ([]*entities.OddsHistory, error) {
	query := `
		SELECT id, market_kind, market_id, side, old_value, new_value, reason, created_at
		FROM odds_history
		WHERE market_kind = $1 AND market_id = $2
		ORDER BY created_at, id
	`

	rows, err := r.q.Query(ctx, query, kind, marketID)
	if err != nil {
		return nil, fmt.Errorf("failed to get odds history for %s %s: %w", kind, marketID, err)
	}
	defer rows.Close()

	var history []*entities.OddsHistory
	for rows.Next() {
		var h entities.OddsHistory
		if err := rows.Scan(&h.ID, &h.MarketKind, &h.MarketID, &h.Side, &h.OldValue, &h.NewValue, &h.Reason, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan odds history: %w", err)
		}
		history = append(history, &h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating odds history: %w", err)
	}

	return history, nil
}
