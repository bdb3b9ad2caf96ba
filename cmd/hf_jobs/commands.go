package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	portssvc "github.com/SscSPs/household_finance/internal/core/ports/services"
	"github.com/SscSPs/household_finance/internal/dto"
	"github.com/SscSPs/household_finance/internal/middleware"
	"github.com/spf13/cobra"
)

type containerFactory func(ctx context.Context, logger *slog.Logger) (*portssvc.ServiceContainer, func(), error)

type app struct {
	logger       *slog.Logger
	out          io.Writer
	newContainer containerFactory

	container *portssvc.ServiceContainer
	cleanup   func()
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "hf_jobs",
		Short:         "Household finance batch jobs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			container, cleanup, err := a.newContainer(cmd.Context(), a.logger)
			if err != nil {
				return err
			}
			a.container, a.cleanup = container, cleanup
			return nil
		},
	}

	root.AddCommand(recurringIncomesCmd(a))
	root.AddCommand(recurringTransactionsCmd(a))
	root.AddCommand(reconcileCmd(a))
	return root
}

func recurringIncomesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "recurring-incomes",
		Short: "Post every due recurring income",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := a.container.RecurringIncome.ProcessDueRecurringIncomes(a.jobContext(cmd, "recurring-incomes"))
			if err != nil {
				return fmt.Errorf("recurring incomes: %w", err)
			}
			return a.print(dto.ToRunRecurringResponse(report))
		},
	}
}

func recurringTransactionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "recurring-transactions",
		Short: "Post, skip or deactivate every due recurring transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := a.container.RecurringTransaction.ProcessDueRecurringTransactions(a.jobContext(cmd, "recurring-transactions"))
			if err != nil {
				return fmt.Errorf("recurring transactions: %w", err)
			}
			return a.print(dto.ToRunRecurringResponse(report))
		},
	}
}

func reconcileCmd(a *app) *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Rebuild a user's account balances from the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := middleware.WithUserID(a.jobContext(cmd, "reconcile"), userID)
			report, err := a.container.BalanceReconciler.ReconcileUserBalances(ctx, userID)
			if err != nil {
				return fmt.Errorf("reconcile: %w", err)
			}
			return a.print(dto.ToReconcileBalancesResponse(report))
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "ID of the user whose accounts are reconciled")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

// close releases whatever the container factory opened.
func (a *app) close() {
	if a.cleanup != nil {
		a.cleanup()
		a.cleanup = nil
	}
}

// jobContext carries a job-scoped logger so service logs name the job.
func (a *app) jobContext(cmd *cobra.Command, job string) context.Context {
	return middleware.WithLogger(cmd.Context(), a.logger.With(slog.String("job", job)))
}

func (a *app) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
