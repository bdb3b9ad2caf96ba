package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/SscSPs/household_finance/internal/apperrors"
	"github.com/SscSPs/household_finance/internal/core/domain"
	portsrepo "github.com/SscSPs/household_finance/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(pool *pgxpool.Pool) *PgxTransactionRepository {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

const transactionColumns = `t.transaction_id, t.user_id, t.account_id, t.category_id, t.type, t.amount,
	t.description, t.date, t.notes, t.recurring_income_id, t.recurring_transaction_id, t.recurring_period,
	t.transfer_to_account_id, t.goal_id, t.card_transaction_id, t.household_id, t.is_shared,
	t.created_at, t.created_by, t.last_updated_at, t.last_updated_by`

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func scanTransaction(row pgx.Row) (domain.Transaction, error) {
	var t domain.Transaction
	err := row.Scan(
		&t.TransactionID,
		&t.UserID,
		&t.AccountID,
		&t.CategoryID,
		&t.Type,
		&t.Amount,
		&t.Description,
		&t.Date,
		&t.Notes,
		&t.RecurringIncomeID,
		&t.RecurringTransactionID,
		&t.RecurringPeriod,
		&t.TransferToAccountID,
		&t.GoalID,
		&t.CardTransactionID,
		&t.HouseholdID,
		&t.IsShared,
		&t.CreatedAt,
		&t.CreatedBy,
		&t.LastUpdatedAt,
		&t.LastUpdatedBy,
	)
	return t, err
}

func queryTransactions(ctx context.Context, q querier, filter string, args ...any) ([]domain.Transaction, error) {
	rows, err := q.Query(ctx, `SELECT `+transactionColumns+` FROM transactions t `+filter, args...)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query transactions", err)
	}
	txns, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Transaction, error) {
		return scanTransaction(row)
	})
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to collect transaction rows", err)
	}
	return txns, nil
}

// lockAccounts takes row locks on every account a posting touches. IDs are
// locked in sorted order so concurrent postings cannot deadlock.
func lockAccounts(ctx context.Context, tx pgx.Tx, changes map[string]decimal.Decimal) error {
	ids := make([]string, 0, len(changes))
	for id := range changes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rows, err := tx.Query(ctx, `SELECT account_id FROM accounts WHERE account_id = ANY($1) ORDER BY account_id FOR UPDATE;`, ids)
	if err != nil {
		return fmt.Errorf("failed to lock accounts: %w", err)
	}
	locked, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return fmt.Errorf("failed to lock accounts: %w", err)
	}
	if len(locked) != len(ids) {
		return fmt.Errorf("%w: could not find or lock all accounts of the posting", apperrors.ErrNotFound)
	}
	return nil
}

// applyBalanceChanges increments account balances within a transaction.
func applyBalanceChanges(ctx context.Context, tx pgx.Tx, changes map[string]decimal.Decimal, actor string, now time.Time) error {
	query := `
		UPDATE accounts
		SET balance = COALESCE(balance, 0) + $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;
	`

	batch := &pgx.Batch{}
	accountIDs := make([]string, 0, len(changes))
	for accountID, delta := range changes {
		if !delta.IsZero() {
			batch.Queue(query, accountID, delta, now, actor)
			accountIDs = append(accountIDs, accountID)
		}
	}
	if batch.Len() == 0 {
		return nil
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		ct, err := br.Exec()
		if err != nil {
			if batchErr == nil {
				batchErr = fmt.Errorf("failed to update balance for account %s: %w", accountIDs[i], err)
			}
		} else if ct.RowsAffected() == 0 && batchErr == nil {
			batchErr = fmt.Errorf("%w: account %s not found during balance update", apperrors.ErrNotFound, accountIDs[i])
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close balance update batch: %w", err)
	}
	return batchErr
}

func insertTransaction(ctx context.Context, tx pgx.Tx, t domain.Transaction) error {
	query := `
		INSERT INTO transactions (
			transaction_id, user_id, account_id, category_id, type, amount,
			description, date, notes, recurring_income_id, recurring_transaction_id, recurring_period,
			transfer_to_account_id, goal_id, card_transaction_id, household_id, is_shared,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21);
	`
	_, err := tx.Exec(ctx, query,
		t.TransactionID, t.UserID, t.AccountID, t.CategoryID, t.Type, t.Amount,
		t.Description, t.Date, t.Notes, t.RecurringIncomeID, t.RecurringTransactionID, t.RecurringPeriod,
		t.TransferToAccountID, t.GoalID, t.CardTransactionID, t.HouseholdID, t.IsShared,
		t.CreatedAt, t.CreatedBy, t.LastUpdatedAt, t.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "transaction "+t.TransactionID)
	}
	return nil
}

// postInTx writes a ledger entry and its balance effects.
func postInTx(ctx context.Context, tx pgx.Tx, posting domain.Posting) error {
	if err := lockAccounts(ctx, tx, posting.BalanceChanges); err != nil {
		return err
	}
	if err := insertTransaction(ctx, tx, posting.Transaction); err != nil {
		return err
	}
	return applyBalanceChanges(ctx, tx, posting.BalanceChanges, posting.Transaction.CreatedBy, posting.Transaction.CreatedAt)
}

// FindTransactionByID retrieves a ledger entry by ID.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txn, err := scanTransaction(r.Pool.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions t WHERE t.transaction_id = $1;`, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	return &txn, nil
}

// ExistsForRecurringTransaction reports whether the definition already posted in [from, to).
func (r *PgxTransactionRepository) ExistsForRecurringTransaction(ctx context.Context, recurringTransactionID string, from, to time.Time) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM transactions
			WHERE recurring_transaction_id = $1 AND date >= $2 AND date < $3
		);`, recurringTransactionID, from, to).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check recurring postings for %s: %w", recurringTransactionID, err)
	}
	return exists, nil
}

// PostTransaction inserts a ledger entry and applies its balance changes atomically.
// An entry paying a card charge marks that charge paid in the same transaction.
func (r *PgxTransactionRepository) PostTransaction(ctx context.Context, posting domain.Posting) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		if err := postInTx(ctx, tx, posting); err != nil {
			return err
		}
		if posting.Transaction.CardTransactionID == nil {
			return nil
		}
		return markCardTransactionPaid(ctx, tx, *posting.Transaction.CardTransactionID)
	})
}

// DeleteTransaction removes a ledger entry and applies the reversing balance changes atomically.
func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, posting domain.Posting) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		if err := lockAccounts(ctx, tx, posting.BalanceChanges); err != nil {
			return err
		}
		ct, err := tx.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1;`, posting.Transaction.TransactionID)
		if err != nil {
			return apperrors.NewAppError(http.StatusInternalServerError, "failed to delete transaction", err)
		}
		if ct.RowsAffected() == 0 {
			return apperrors.ErrNotFound
		}
		return applyBalanceChanges(ctx, tx, posting.BalanceChanges, posting.Transaction.UserID, time.Now())
	})
}
