package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/SscSPs/household_finance/internal/core/domain"
	"github.com/olahol/melody"
)

const (
	sessionUserKey       = "user_id"
	sessionHouseholdsKey = "household_ids"
)

// WebSocketHub pushes ledger events to connected clients. A session receives
// events for its own user and for the households the user belonged to when
// the connection was opened.
type WebSocketHub struct {
	M      *melody.Melody
	logger *slog.Logger
}

// NewWebSocketHub configures a melody instance for long-lived client connections.
func NewWebSocketHub(logger *slog.Logger) *WebSocketHub {
	if logger == nil {
		logger = slog.Default()
	}
	m := melody.New()
	m.Config.MaxMessageSize = 1024
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	m.HandleDisconnect(func(s *melody.Session) {
		userID, _ := s.Get(sessionUserKey)
		logger.Debug("WebSocket client disconnected", slog.Any("user_id", userID))
	})
	m.HandleError(func(s *melody.Session, err error) {
		logger.Warn("WebSocket error", slog.String("error", err.Error()))
	})

	return &WebSocketHub{M: m, logger: logger}
}

// Connect upgrades the request and registers the session for the user.
func (h *WebSocketHub) Connect(w http.ResponseWriter, r *http.Request, userID string, householdIDs []string) error {
	return h.M.HandleRequestWithKeys(w, r, map[string]any{
		sessionUserKey:       userID,
		sessionHouseholdsKey: householdIDs,
	})
}

func (h *WebSocketHub) Name() string { return "websocket" }

// Handle broadcasts the event to every interested session.
func (h *WebSocketHub) Handle(_ context.Context, event domain.LedgerEvent) error {
	msg, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	return h.M.BroadcastFilter(msg, func(s *melody.Session) bool {
		return sessionWants(s, event)
	})
}

// Close disconnects all sessions.
func (h *WebSocketHub) Close() error {
	return h.M.Close()
}

func sessionWants(s *melody.Session, event domain.LedgerEvent) bool {
	userID, ok := s.Get(sessionUserKey)
	if ok && userID == event.UserID {
		return true
	}
	if event.HouseholdID == nil {
		return false
	}
	households, ok := s.Get(sessionHouseholdsKey)
	if !ok {
		return false
	}
	ids, _ := households.([]string)
	return slices.Contains(ids, *event.HouseholdID)
}
