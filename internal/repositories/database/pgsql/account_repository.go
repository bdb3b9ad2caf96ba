package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/SscSPs/household_finance/internal/apperrors"
	"github.com/SscSPs/household_finance/internal/core/domain"
	portsrepo "github.com/SscSPs/household_finance/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, user_id, household_id, name, currency_code, balance, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

func scanAccount(row pgx.Row) (domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.AccountID,
		&a.UserID,
		&a.HouseholdID,
		&a.Name,
		&a.CurrencyCode,
		&a.Balance,
		&a.IsActive,
		&a.CreatedAt,
		&a.CreatedBy,
		&a.LastUpdatedAt,
		&a.LastUpdatedBy,
	)
	return a, err
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		account.AccountID,
		account.UserID,
		account.HouseholdID,
		account.Name,
		account.CurrencyCode,
		account.Balance,
		account.IsActive,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "account "+account.AccountID)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`

	account, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	return &account, nil
}

// ListAccountsByUserID retrieves every account the user owns, active or not.
func (r *PgxAccountRepository) ListAccountsByUserID(ctx context.Context, userID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 ORDER BY name;`

	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query accounts", err)
	}
	accounts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Account, error) {
		return scanAccount(row)
	})
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to collect account rows", err)
	}
	return accounts, nil
}

// ReconcileAccountBalance locks the account row, replays its ledger and
// stores the result in the same transaction, so postings that arrive while
// the replay runs wait for the lock instead of being overwritten.
func (r *PgxAccountRepository) ReconcileAccountBalance(ctx context.Context, accountID string, recompute portsrepo.BalanceFunc) (decimal.Decimal, decimal.Decimal, error) {
	var oldBalance, newBalance decimal.Decimal

	err := r.WithTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `SELECT balance FROM accounts WHERE account_id = $1 FOR UPDATE;`, accountID).Scan(&oldBalance)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrNotFound
			}
			return fmt.Errorf("failed to lock account %s: %w", accountID, err)
		}

		entries, err := queryTransactions(ctx, tx,
			`WHERE t.account_id = $1 ORDER BY t.date ASC, t.created_at ASC`, accountID)
		if err != nil {
			return err
		}
		incoming, err := queryTransactions(ctx, tx,
			`WHERE t.transfer_to_account_id = $1 AND t.account_id <> $1 AND t.type = 'transfer' ORDER BY t.date ASC, t.created_at ASC`, accountID)
		if err != nil {
			return err
		}

		newBalance = recompute(entries, incoming)

		_, err = tx.Exec(ctx, `UPDATE accounts SET balance = $2, last_updated_at = NOW() WHERE account_id = $1;`, accountID, newBalance)
		if err != nil {
			return fmt.Errorf("failed to store reconciled balance for %s: %w", accountID, err)
		}
		return nil
	})
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return oldBalance, newBalance, nil
}
