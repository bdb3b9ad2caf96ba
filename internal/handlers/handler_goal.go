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

// goalHandler handles savings goals and their contributions.
type goalHandler struct {
	goalService portssvc.GoalSvcFacade
}

func registerGoalRoutes(rg *gin.RouterGroup, goalService portssvc.GoalSvcFacade) {
	h := &goalHandler{goalService: goalService}

	goals := rg.Group("/goals")
	{
		goals.GET("", h.listGoals)
		goals.GET("/:goalID", h.getGoal)
		goals.POST("/:goalID/contributions", h.addContribution)
	}
}

// listGoals godoc
// @Summary List savings goals
// @Description Lists goals the user owns or shares through a household
// @Tags goals
// @Produce  json
// @Success 200 {array} domain.SavingsGoal
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list goals"
// @Security BearerAuth
// @Router /goals [get]
func (h *goalHandler) listGoals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	goals, err := h.goalService.ListGoals(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list goals")
		return
	}
	if goals == nil {
		goals = []domain.SavingsGoal{}
	}
	c.JSON(http.StatusOK, goals)
}

// getGoal godoc
// @Summary Get a savings goal
// @Tags goals
// @Produce  json
// @Param   goalID path string true "Goal ID"
// @Success 200 {object} domain.SavingsGoal
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Goal not found"
// @Failure 500 {object} map[string]string "Failed to retrieve goal"
// @Security BearerAuth
// @Router /goals/{goalID} [get]
func (h *goalHandler) getGoal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	goal, err := h.goalService.GetGoal(c.Request.Context(), userID, c.Param("goalID"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve goal")
		return
	}
	c.JSON(http.StatusOK, goal)
}

// addContribution godoc
// @Summary Contribute to a savings goal
// @Description Increments the goal. Paying from an account posts an expense on it; paying by credit card records a pending card charge; cash touches no ledger.
// @Tags goals
// @Accept  json
// @Produce  json
// @Param   goalID path string true "Goal ID"
// @Param   contribution body dto.CreateContributionRequest true "Contribution"
// @Success 201 {object} domain.GoalContribution
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Goal or payment source not found"
// @Failure 500 {object} map[string]string "Failed to add contribution"
// @Security BearerAuth
// @Router /goals/{goalID}/contributions [post]
func (h *goalHandler) addContribution(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	goalID := c.Param("goalID")

	var req dto.CreateContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddContribution", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("goal_id", goalID), slog.String("payment_method", string(req.PaymentMethod)))
	contribution, err := h.goalService.AddContribution(c.Request.Context(), userID, goalID, req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to add contribution")
		return
	}

	logger.Info("Contribution recorded", slog.String("contribution_id", contribution.ContributionID))
	c.JSON(http.StatusCreated, contribution)
}
