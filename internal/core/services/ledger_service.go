package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/household_finance/internal/apperrors"
	"github.com/SscSPs/household_finance/internal/core/domain"
	portsrepo "github.com/SscSPs/household_finance/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/household_finance/internal/core/ports/services"
	"github.com/SscSPs/household_finance/internal/dto"
	"github.com/SscSPs/household_finance/internal/utils/accounting"
	"github.com/google/uuid"
)

// ledgerService posts and removes manual ledger entries, keeping cached
// balances in step with the same rules the reconciler replays.
type ledgerService struct {
	BaseService
	accountRepo     portsrepo.AccountReader
	transactionRepo portsrepo.TransactionRepositoryFacade
	cardRepo        portsrepo.CreditCardRepository
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(
	accountRepo portsrepo.AccountReader,
	transactionRepo portsrepo.TransactionRepositoryFacade,
	cardRepo portsrepo.CreditCardRepository,
	options ...ServiceOption,
) portssvc.LedgerSvcFacade {
	svc := &ledgerService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		cardRepo:        cardRepo,
	}
	svc.apply(options)
	return svc
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// loadAccessibleAccount fetches an active account the user may post to.
func (s *ledgerService) loadAccessibleAccount(ctx context.Context, userID, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", accountID, err)
	}
	if err := s.AuthorizeAccess(ctx, userID, account.UserID, account.HouseholdID); err != nil {
		return nil, err
	}
	if !account.IsActive {
		return nil, validationError(fmt.Errorf("account %s is inactive", accountID))
	}
	return account, nil
}

func (s *ledgerService) CreateTransaction(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	now := s.Now()
	date := now
	if req.Date != nil {
		date = *req.Date
	}

	txn := domain.Transaction{
		TransactionID:       uuid.NewString(),
		UserID:              userID,
		AccountID:           req.AccountID,
		CategoryID:          req.CategoryID,
		Type:                req.Type,
		Amount:              req.Amount,
		Description:         req.Description,
		Date:                date,
		Notes:               req.Notes,
		TransferToAccountID: req.TransferToAccountID,
		CardTransactionID:   req.CardTransactionID,
		HouseholdID:         req.HouseholdID,
		IsShared:            req.IsShared,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	changes, err := accounting.BalanceChanges(txn)
	if err != nil {
		return nil, validationError(err)
	}

	if _, err := s.loadAccessibleAccount(ctx, userID, txn.AccountID); err != nil {
		return nil, err
	}
	if txn.Type == domain.Transfer {
		if _, err := s.loadAccessibleAccount(ctx, userID, *txn.TransferToAccountID); err != nil {
			return nil, err
		}
	}
	if txn.HouseholdID != nil {
		if err := s.AuthorizeMember(ctx, userID, *txn.HouseholdID); err != nil {
			return nil, err
		}
	}
	if txn.CardTransactionID != nil {
		if err := s.checkCardPayment(ctx, userID, txn); err != nil {
			return nil, err
		}
	}

	if err := s.transactionRepo.PostTransaction(ctx, domain.Posting{Transaction: txn, BalanceChanges: changes}); err != nil {
		s.LogError(ctx, err, "Failed to post transaction",
			slog.String("transaction_id", txn.TransactionID),
			slog.String("account_id", txn.AccountID))
		return nil, fmt.Errorf("failed to post transaction: %w", err)
	}

	s.LogInfo(ctx, "Transaction posted",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("type", string(txn.Type)))
	s.publishPosted(ctx, txn)
	return &txn, nil
}

// checkCardPayment validates an expense that pays off a card charge.
func (s *ledgerService) checkCardPayment(ctx context.Context, userID string, txn domain.Transaction) error {
	if txn.Type != domain.Expense {
		return validationError(fmt.Errorf("only an expense can pay a card charge, got '%s'", txn.Type))
	}
	cardTxn, err := s.cardRepo.FindCardTransactionByID(ctx, *txn.CardTransactionID)
	if err != nil {
		return fmt.Errorf("card transaction %s: %w", *txn.CardTransactionID, err)
	}
	if cardTxn.UserID != userID {
		return apperrors.ErrForbidden
	}
	if cardTxn.Status == domain.CardPaid {
		return fmt.Errorf("%w: card transaction %s is already paid", apperrors.ErrConflict, cardTxn.CardTransactionID)
	}
	if !cardTxn.Amount.Equal(txn.Amount) {
		return validationError(fmt.Errorf("amount %s does not match card charge of %s", txn.Amount, cardTxn.Amount))
	}
	return nil
}

func (s *ledgerService) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	txn, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find transaction", slog.String("transaction_id", transactionID))
		}
		return err
	}

	if err := s.AuthorizeAccess(ctx, userID, txn.UserID, txn.HouseholdID); err != nil {
		return err
	}

	if txn.GoalID != nil {
		// The goal amount was raised by the contribution this entry paid for.
		return fmt.Errorf("%w: transaction %s funds a contribution to goal %s", apperrors.ErrConflict, txn.TransactionID, *txn.GoalID)
	}
	if txn.CardTransactionID != nil {
		cardTxn, err := s.cardRepo.FindCardTransactionByID(ctx, *txn.CardTransactionID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("failed to load card transaction: %w", err)
		}
		if cardTxn != nil && cardTxn.Settled() {
			return fmt.Errorf("%w: card transaction %s is already %s", apperrors.ErrConflict, cardTxn.CardTransactionID, cardTxn.Status)
		}
	}

	changes, err := accounting.BalanceChanges(*txn)
	if err != nil {
		return fmt.Errorf("stored transaction %s is invalid: %w", txn.TransactionID, err)
	}

	posting := domain.Posting{Transaction: *txn, BalanceChanges: accounting.ReverseChanges(changes)}
	if err := s.transactionRepo.DeleteTransaction(ctx, posting); err != nil {
		s.LogError(ctx, err, "Failed to delete transaction", slog.String("transaction_id", transactionID))
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	s.LogInfo(ctx, "Transaction deleted", slog.String("transaction_id", transactionID))
	s.Publish(ctx, domain.LedgerEvent{
		Type:        domain.EventTransactionDeleted,
		UserID:      userID,
		HouseholdID: txn.HouseholdID,
		EntityID:    txn.TransactionID,
		Data:        map[string]any{"accountId": txn.AccountID},
	})
	return nil
}
