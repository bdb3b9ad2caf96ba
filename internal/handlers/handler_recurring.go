package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/household_finance/internal/core/domain"
	portssvc "github.com/SscSPs/household_finance/internal/core/ports/services"
	"github.com/SscSPs/household_finance/internal/dto"
	"github.com/SscSPs/household_finance/internal/middleware"
	"github.com/gin-gonic/gin"
)

// recurringHandler manages recurring income and recurring transaction definitions.
type recurringHandler struct {
	incomeService      portssvc.RecurringIncomeSvcFacade
	transactionService portssvc.RecurringTransactionSvcFacade
}

func registerRecurringRoutes(rg *gin.RouterGroup, incomeService portssvc.RecurringIncomeSvcFacade, transactionService portssvc.RecurringTransactionSvcFacade) {
	h := &recurringHandler{incomeService: incomeService, transactionService: transactionService}

	incomes := rg.Group("/recurring-incomes")
	{
		incomes.POST("", h.createRecurringIncome)
		incomes.GET("", h.listRecurringIncomes)
		incomes.DELETE("/:id", h.deactivateRecurringIncome)
	}

	transactions := rg.Group("/recurring-transactions")
	{
		transactions.POST("", h.createRecurringTransaction)
		transactions.GET("", h.listRecurringTransactions)
		transactions.DELETE("/:id", h.deactivateRecurringTransaction)
	}
}

// createRecurringIncome godoc
// @Summary Create a recurring income
// @Description Creates a monthly income. If the day of month already passed this month, the current month is posted immediately.
// @Tags recurring
// @Accept  json
// @Produce  json
// @Param   income body dto.CreateRecurringIncomeRequest true "Recurring income"
// @Success 201 {object} dto.RecurringIncomeResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to create recurring income"
// @Security BearerAuth
// @Router /recurring-incomes [post]
func (h *recurringHandler) createRecurringIncome(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateRecurringIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateRecurringIncome", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	income, backfill, err := h.incomeService.CreateRecurringIncome(c.Request.Context(), userID, req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create recurring income")
		return
	}

	logger.Info("Recurring income created",
		slog.String("recurring_income_id", income.RecurringIncomeID),
		slog.Bool("backfilled", backfill != nil))
	c.JSON(http.StatusCreated, dto.RecurringIncomeResponse{RecurringIncome: *income, BackfillTransaction: backfill})
}

// listRecurringIncomes godoc
// @Summary List recurring incomes
// @Tags recurring
// @Produce  json
// @Success 200 {array} domain.RecurringIncome
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list recurring incomes"
// @Security BearerAuth
// @Router /recurring-incomes [get]
func (h *recurringHandler) listRecurringIncomes(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	incomes, err := h.incomeService.ListRecurringIncomes(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list recurring incomes")
		return
	}
	if incomes == nil {
		incomes = []domain.RecurringIncome{}
	}
	c.JSON(http.StatusOK, incomes)
}

// deactivateRecurringIncome godoc
// @Summary Deactivate a recurring income
// @Tags recurring
// @Param   id path string true "Recurring income ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 500 {object} map[string]string "Failed to deactivate recurring income"
// @Security BearerAuth
// @Router /recurring-incomes/{id} [delete]
func (h *recurringHandler) deactivateRecurringIncome(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	if err := h.incomeService.DeactivateRecurringIncome(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondWithError(c, logger, err, "Failed to deactivate recurring income")
		return
	}
	c.Status(http.StatusNoContent)
}

// createRecurringTransaction godoc
// @Summary Create a recurring transaction
// @Description Creates a monthly income or expense with an optional end date. If the day of month already passed this month, the current month is posted immediately.
// @Tags recurring
// @Accept  json
// @Produce  json
// @Param   transaction body dto.CreateRecurringTransactionRequest true "Recurring transaction"
// @Success 201 {object} dto.RecurringTransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to create recurring transaction"
// @Security BearerAuth
// @Router /recurring-transactions [post]
func (h *recurringHandler) createRecurringTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateRecurringTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateRecurringTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	rt, backfill, err := h.transactionService.CreateRecurringTransaction(c.Request.Context(), userID, req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create recurring transaction")
		return
	}

	logger.Info("Recurring transaction created",
		slog.String("recurring_transaction_id", rt.RecurringTransactionID),
		slog.Bool("backfilled", backfill != nil))
	c.JSON(http.StatusCreated, dto.RecurringTransactionResponse{RecurringTransaction: *rt, BackfillTransaction: backfill})
}

// listRecurringTransactions godoc
// @Summary List recurring transactions
// @Tags recurring
// @Produce  json
// @Success 200 {array} domain.RecurringTransaction
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list recurring transactions"
// @Security BearerAuth
// @Router /recurring-transactions [get]
func (h *recurringHandler) listRecurringTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	items, err := h.transactionService.ListRecurringTransactions(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list recurring transactions")
		return
	}
	if items == nil {
		items = []domain.RecurringTransaction{}
	}
	c.JSON(http.StatusOK, items)
}

// deactivateRecurringTransaction godoc
// @Summary Deactivate a recurring transaction
// @Tags recurring
// @Param   id path string true "Recurring transaction ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 500 {object} map[string]string "Failed to deactivate recurring transaction"
// @Security BearerAuth
// @Router /recurring-transactions/{id} [delete]
func (h *recurringHandler) deactivateRecurringTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	if err := h.transactionService.DeactivateRecurringTransaction(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondWithError(c, logger, err, "Failed to deactivate recurring transaction")
		return
	}
	c.Status(http.StatusNoContent)
}
