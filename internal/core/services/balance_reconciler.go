package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/household_finance/internal/core/domain"
	portsrepo "github.com/SscSPs/household_finance/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/household_finance/internal/core/ports/services"
	"github.com/SscSPs/household_finance/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

type balanceReconciler struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewBalanceReconciler creates the service that rebuilds cached balances from the ledger.
func NewBalanceReconciler(accountRepo portsrepo.AccountRepositoryFacade, options ...ServiceOption) portssvc.BalanceReconcilerSvc {
	svc := &balanceReconciler{accountRepo: accountRepo}
	svc.apply(options)
	return svc
}

var _ portssvc.BalanceReconcilerSvc = (*balanceReconciler)(nil)

// ReconcileUserBalances replays the ledger of every account the user owns and
// overwrites the cached balance. Running it twice without new postings yields
// zero differences the second time.
func (s *balanceReconciler) ReconcileUserBalances(ctx context.Context, userID string) (*domain.ReconciliationReport, error) {
	accounts, err := s.accountRepo.ListAccountsByUserID(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts for reconciliation", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	report := &domain.ReconciliationReport{
		Results:  make([]domain.BalanceReconciliation, 0, len(accounts)),
		Failures: []domain.ReconciliationFailure{},
	}

	for _, account := range accounts {
		accountID := account.AccountID
		oldBalance, newBalance, err := s.accountRepo.ReconcileAccountBalance(ctx, accountID,
			func(entries, incoming []domain.Transaction) decimal.Decimal {
				return accounting.ReplayBalance(accountID, entries, incoming)
			})
		if err != nil {
			s.LogError(ctx, err, "Failed to reconcile account balance", slog.String("account_id", accountID))
			report.Failures = append(report.Failures, domain.ReconciliationFailure{
				AccountID: accountID,
				Error:     err.Error(),
			})
			continue
		}

		difference := newBalance.Sub(oldBalance)
		report.Results = append(report.Results, domain.BalanceReconciliation{
			AccountID:   accountID,
			AccountName: account.Name,
			OldBalance:  oldBalance,
			NewBalance:  newBalance,
			Difference:  difference,
		})

		if !difference.IsZero() {
			s.LogInfo(ctx, "Account balance corrected",
				slog.String("account_id", accountID),
				slog.String("old_balance", oldBalance.String()),
				slog.String("new_balance", newBalance.String()))
			s.Publish(ctx, domain.LedgerEvent{
				Type:        domain.EventBalanceReconciled,
				UserID:      userID,
				HouseholdID: account.HouseholdID,
				EntityID:    accountID,
				Data:        map[string]any{"oldBalance": oldBalance.String(), "newBalance": newBalance.String()},
			})
		}
	}

	s.LogInfo(ctx, "Balance reconciliation finished",
		slog.Int("reconciled", len(report.Results)),
		slog.Int("failed", len(report.Failures)))
	return report, nil
}
