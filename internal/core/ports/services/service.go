package services

// ServiceContainer holds all the application services.
type ServiceContainer struct {
	Account              AccountSvcFacade
	BalanceReconciler    BalanceReconcilerSvc
	Ledger               LedgerSvcFacade
	RecurringIncome      RecurringIncomeSvcFacade
	RecurringTransaction RecurringTransactionSvcFacade
	Goal                 GoalSvcFacade
	Household            HouseholdSvcFacade
}
