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
)

type PgxCreditCardRepository struct {
	BaseRepository
}

func newPgxCreditCardRepository(pool *pgxpool.Pool) *PgxCreditCardRepository {
	return &PgxCreditCardRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CreditCardRepository = (*PgxCreditCardRepository)(nil)

func (r *PgxCreditCardRepository) FindCardByID(ctx context.Context, cardID string) (*domain.CreditCard, error) {
	query := `
		SELECT card_id, user_id, name, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM credit_cards WHERE card_id = $1;
	`
	var c domain.CreditCard
	err := r.Pool.QueryRow(ctx, query, cardID).Scan(
		&c.CardID, &c.UserID, &c.Name, &c.IsActive,
		&c.CreatedAt, &c.CreatedBy, &c.LastUpdatedAt, &c.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find credit card %s: %w", cardID, err)
	}
	return &c, nil
}

func (r *PgxCreditCardRepository) FindCardTransactionByID(ctx context.Context, cardTransactionID string) (*domain.CreditCardTransaction, error) {
	query := `
		SELECT card_transaction_id, card_id, user_id, goal_id, amount, description, date, status, created_at
		FROM credit_card_transactions WHERE card_transaction_id = $1;
	`
	var ct domain.CreditCardTransaction
	err := r.Pool.QueryRow(ctx, query, cardTransactionID).Scan(
		&ct.CardTransactionID, &ct.CardID, &ct.UserID, &ct.GoalID,
		&ct.Amount, &ct.Description, &ct.Date, &ct.Status, &ct.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find card transaction %s: %w", cardTransactionID, err)
	}
	return &ct, nil
}

func insertCardTransaction(ctx context.Context, tx pgx.Tx, ct domain.CreditCardTransaction) error {
	query := `
		INSERT INTO credit_card_transactions (
			card_transaction_id, card_id, user_id, goal_id, amount, description, date, status, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := tx.Exec(ctx, query,
		ct.CardTransactionID, ct.CardID, ct.UserID, ct.GoalID,
		ct.Amount, ct.Description, ct.Date, ct.Status, ct.CreatedAt,
	)
	if err != nil {
		return mapPgError(err, "card transaction "+ct.CardTransactionID)
	}
	return nil
}

// markCardTransactionPaid settles a charge that is not yet paid.
func markCardTransactionPaid(ctx context.Context, tx pgx.Tx, cardTransactionID string) error {
	ct, err := tx.Exec(ctx,
		`UPDATE credit_card_transactions SET status = $2 WHERE card_transaction_id = $1 AND status <> $2;`,
		cardTransactionID, domain.CardPaid)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to settle card transaction", err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: card transaction %s is missing or already paid", apperrors.ErrConflict, cardTransactionID)
	}
	return nil
}
