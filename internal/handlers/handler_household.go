package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/household_finance/internal/core/ports/services"
	"github.com/SscSPs/household_finance/internal/middleware"
	"github.com/gin-gonic/gin"
)

// householdHandler handles HTTP requests related to households.
type householdHandler struct {
	householdService portssvc.HouseholdSvcFacade
}

func registerHouseholdRoutes(rg *gin.RouterGroup, householdService portssvc.HouseholdSvcFacade) {
	h := &householdHandler{householdService: householdService}
	rg.GET("/households", h.listUserHouseholds)
}

// listUserHouseholds godoc
// @Summary List the user's households
// @Tags households
// @Produce  json
// @Success 200 {array} domain.Household
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list households"
// @Security BearerAuth
// @Router /households [get]
func (h *householdHandler) listUserHouseholds(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	households, err := h.householdService.ListUserHouseholds(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list households")
		return
	}
	c.JSON(http.StatusOK, households)
}
