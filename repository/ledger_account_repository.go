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

// LedgerAccountRepository implements the LedgerAccountRepository interface
type LedgerAccountRepository struct {
	q Queryable
}

// NewLedgerAccountRepository creates a new ledger account repository
func NewLedgerAccountRepository(db *database.DB) *LedgerAccountRepository {
	return &LedgerAccountRepository{q: db.Pool}
}

// newLedgerAccountRepositoryWithTx creates a new ledger account repository with a transaction
func newLedgerAccountRepositoryWithTx(tx Queryable) *LedgerAccountRepository {
	return &LedgerAccountRepository{q: tx}
}

const ledgerAccountColumns = `
	id, display_name, team, units_remaining, units_wagered, units_won, units_lost,
	version, created_at, updated_at`

func scanLedgerAccount(row pgx.Row) (*entities.LedgerAccount, error) {
	var account entities.LedgerAccount
	err := row.Scan(
		&account.ID,
		&account.DisplayName,
		&account.Team,
		&account.Remaining,
		&account.Wagered,
		&account.Won,
		&account.Lost,
		&account.Version,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetByID retrieves an account by ID
func (r *LedgerAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.LedgerAccount, error) {
	query := `SELECT` + ledgerAccountColumns + `
		FROM ledger_accounts
		WHERE id = $1
	`

	account, err := scanLedgerAccount(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger account %s: %w", id, err)
	}

	return account, nil
}

// GetByDisplayName retrieves an account by its display name
func (r *LedgerAccountRepository) GetByDisplayName(ctx context.Context, displayName string) (*entities.LedgerAccount, error) {
	query := `SELECT` + ledgerAccountColumns + `
		FROM ledger_accounts
		WHERE display_name = $1
	`

	account, err := scanLedgerAccount(r.q.QueryRow(ctx, query, displayName))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger account %q: %w", displayName, err)
	}

	return account, nil
}

// Create inserts a new account. The stored version starts at zero.
func (r *LedgerAccountRepository) Create(ctx context.Context, account *entities.LedgerAccount) error {
	query := `
		INSERT INTO ledger_accounts (
			id, display_name, team, units_remaining, units_wagered, units_won, units_lost
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING version, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		account.ID,
		account.DisplayName,
		account.Team,
		account.Remaining,
		account.Wagered,
		account.Won,
		account.Lost,
	).Scan(&account.Version, &account.CreatedAt, &account.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create ledger account %q: %w", account.DisplayName, err)
	}

	return nil
}

// UpdateBalances writes all four balances if the version read earlier is still current
func (r *LedgerAccountRepository) UpdateBalances(ctx context.Context, account *entities.LedgerAccount) error {
	query := `
		UPDATE ledger_accounts
		SET units_remaining = $1,
		    units_wagered = $2,
		    units_won = $3,
		    units_lost = $4,
		    version = version + 1,
		    updated_at = NOW()
		WHERE id = $5 AND version = $6
		RETURNING version, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		account.Remaining,
		account.Wagered,
		account.Won,
		account.Lost,
		account.ID,
		account.Version,
	).Scan(&account.Version, &account.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: account %s at version %d", entities.ErrStaleBalance, account.ID, account.Version)
	}
	if err != nil {
		return fmt.Errorf("failed to update balances for account %s: %w", account.ID, err)
	}

	return nil
}

// GetAll returns every account ordered by display name
func (r *LedgerAccountRepository) GetAll(ctx context.Context) ([]*entities.LedgerAccount, error) {
	query := `SELECT` + ledgerAccountColumns + `
		FROM ledger_accounts
		ORDER BY display_name
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*entities.LedgerAccount
	for rows.Next() {
		account, err := scanLedgerAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger account: %w", err)
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger accounts: %w", err)
	}

	return accounts, nil
}
