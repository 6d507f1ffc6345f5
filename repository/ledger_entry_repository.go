package repository

import (
	"context"
	"fmt"

	"wagerbook/database"
	"wagerbook/domain/entities"

	"github.com/google/uuid"
)

// LedgerEntryRepository implements the LedgerEntryRepository interface
type LedgerEntryRepository struct {
	q Queryable
}

// NewLedgerEntryRepository creates a new ledger entry repository
func NewLedgerEntryRepository(db *database.DB) *LedgerEntryRepository {
	return &LedgerEntryRepository{q: db.Pool}
}

// newLedgerEntryRepositoryWithTx creates a new ledger entry repository with a transaction
func newLedgerEntryRepositoryWithTx(tx Queryable) *LedgerEntryRepository {
	return &LedgerEntryRepository{q: tx}
}

// Record appends a ledger entry
func (r *LedgerEntryRepository) Record(ctx context.Context, entry *entities.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries
		(account_id, transaction_type, remaining_before, remaining_after, change_amount, units_involved, related_id, related_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		entry.AccountID,
		entry.TransactionType,
		entry.RemainingBefore,
		entry.RemainingAfter,
		entry.ChangeAmount,
		entry.UnitsInvolved,
		entry.RelatedID,
		entry.RelatedType,
	).Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to record ledger entry for account %s: %w", entry.AccountID, err)
	}

	return nil
}

// GetByAccount returns the most recent entries for an account, newest first
func (r *LedgerEntryRepository) GetByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]*entities.LedgerEntry, error) {
	query := `
		SELECT id, account_id, transaction_type, remaining_before, remaining_after,
		       change_amount, units_involved, related_id, related_type, created_at
		FROM ledger_entries
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entries for account %s: %w", accountID, err)
	}
	defer rows.Close()

	var entries []*entities.LedgerEntry
	for rows.Next() {
		var entry entities.LedgerEntry
		err := rows.Scan(
			&entry.ID,
			&entry.AccountID,
			&entry.TransactionType,
			&entry.RemainingBefore,
			&entry.RemainingAfter,
			&entry.ChangeAmount,
			&entry.UnitsInvolved,
			&entry.RelatedID,
			&entry.RelatedType,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger entries: %w", err)
	}

	return entries, nil
}
