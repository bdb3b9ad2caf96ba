package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/household_finance/internal/core/domain"
	portssvc "github.com/SscSPs/household_finance/internal/core/ports/services"
	"github.com/SscSPs/household_finance/internal/middleware"
	"github.com/gin-gonic/gin"
)

// WebSocketConnector upgrades a request into a session that receives ledger events.
type WebSocketConnector interface {
	Connect(w http.ResponseWriter, r *http.Request, userID string, householdIDs []string) error
}

type wsHandler struct {
	hub        WebSocketConnector
	households portssvc.HouseholdReaderSvc
}

func registerWebSocketRoutes(rg *gin.RouterGroup, hub WebSocketConnector, households portssvc.HouseholdReaderSvc) {
	h := &wsHandler{hub: hub, households: households}
	rg.GET("/ws", h.handleWS)
}

// handleWS upgrades to a WebSocket that streams the user's ledger events.
// The household list is fixed for the lifetime of the connection.
func (h *wsHandler) handleWS(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	households, err := h.households.ListUserHouseholds(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to open event stream")
		return
	}

	if err := h.hub.Connect(c.Writer, c.Request, userID, householdIDs(households)); err != nil {
		logger.Warn("Failed to upgrade websocket", slog.String("error", err.Error()))
	}
}

func householdIDs(households []domain.Household) []string {
	ids := make([]string, len(households))
	for i, h := range households {
		ids[i] = h.HouseholdID
	}
	return ids
}
