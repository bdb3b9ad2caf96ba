package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/SscSPs/household_finance/internal/core/domain"
	portssvc "github.com/SscSPs/household_finance/internal/core/ports/services"
	"github.com/SscSPs/household_finance/internal/dto"
	"github.com/SscSPs/household_finance/internal/middleware"
	"github.com/gin-gonic/gin"
)

// cronHandler exposes the batch jobs to an external scheduler.
type cronHandler struct {
	incomeService      portssvc.RecurringIncomeSvcFacade
	transactionService portssvc.RecurringTransactionSvcFacade
}

// registerCronRoutes mounts the batch triggers. They are guarded by the cron
// secret rather than a user token.
func registerCronRoutes(rg *gin.RouterGroup, incomeService portssvc.RecurringIncomeSvcFacade, transactionService portssvc.RecurringTransactionSvcFacade, guards ...gin.HandlerFunc) {
	h := &cronHandler{incomeService: incomeService, transactionService: transactionService}

	cron := rg.Group("/cron", guards...)
	{
		cron.POST("/recurring-incomes", h.runRecurringIncomes)
		cron.POST("/recurring-transactions", h.runRecurringTransactions)
	}
}

// runRecurringIncomes godoc
// @Summary Process due recurring incomes
// @Description Posts every active recurring income whose next run date has arrived. Per-item failures are reported in results.
// @Tags cron
// @Produce  json
// @Success 200 {object} dto.RunRecurringResponse
// @Failure 401 {object} map[string]string "Wrong cron secret"
// @Failure 429 {object} map[string]string "Too many requests"
// @Failure 500 {object} map[string]string "Failed to process recurring incomes"
// @Security CronSecret
// @Router /cron/recurring-incomes [post]
func (h *cronHandler) runRecurringIncomes(c *gin.Context) {
	h.run(c, "recurring incomes", h.incomeService.ProcessDueRecurringIncomes)
}

// runRecurringTransactions godoc
// @Summary Process due recurring transactions
// @Description Posts, skips or deactivates every active recurring transaction whose next run date has arrived.
// @Tags cron
// @Produce  json
// @Success 200 {object} dto.RunRecurringResponse
// @Failure 401 {object} map[string]string "Wrong cron secret"
// @Failure 429 {object} map[string]string "Too many requests"
// @Failure 500 {object} map[string]string "Failed to process recurring transactions"
// @Security CronSecret
// @Router /cron/recurring-transactions [post]
func (h *cronHandler) runRecurringTransactions(c *gin.Context) {
	h.run(c, "recurring transactions", h.transactionService.ProcessDueRecurringTransactions)
}

func (h *cronHandler) run(c *gin.Context, job string, process func(context.Context) (*domain.RunReport, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("job", job))
	logger.Info("Batch job triggered")

	report, err := process(c.Request.Context())
	if err != nil {
		respondWithError(c, logger, err, "Failed to process "+job)
		return
	}

	logger.Info("Batch job finished", slog.Int("processed", report.Processed))
	c.JSON(http.StatusOK, dto.ToRunRecurringResponse(report))
}
