package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/household_finance/internal/core/domain"
	"github.com/posthog/posthog-go"
)

// PosthogClient wraps posthog.Client so callers need not care whether
// analytics is configured. It serves both the HTTP middleware and the bus.
type PosthogClient struct {
	client posthog.Client
	logger *slog.Logger
}

// NewPosthogClient returns an uninitialized, no-op client when apiKey is empty.
func NewPosthogClient(apiKey string, logger *slog.Logger) *PosthogClient {
	if logger == nil {
		logger = slog.Default()
	}
	if apiKey == "" {
		logger.Warn("Posthog API key is empty, not initializing posthog client.")
		return &PosthogClient{logger: logger}
	}
	client, err := posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: "https://eu.i.posthog.com"})
	if err != nil {
		logger.Error("Failed to initialize posthog client", slog.String("error", err.Error()))
		return &PosthogClient{logger: logger}
	}
	logger.Info("Posthog client initialized")
	return &PosthogClient{client: client, logger: logger}
}

func (p *PosthogClient) IsInitialized() bool {
	return p.client != nil
}

func (p *PosthogClient) Enqueue(distinctID string, event string, properties map[string]any) {
	if p.client == nil {
		return
	}
	p.logger.Debug("Enqueueing event", slog.String("distinct_id", distinctID), slog.String("event", event))
	err := p.client.Enqueue(posthog.Capture{
		DistinctId: distinctID,
		Event:      event,
		Properties: properties,
	})
	if err != nil {
		p.logger.Warn("Failed to enqueue posthog event", slog.String("event", event), slog.String("error", err.Error()))
	}
}

func (p *PosthogClient) Name() string { return "posthog" }

// Handle records a ledger event as an analytics capture.
func (p *PosthogClient) Handle(_ context.Context, event domain.LedgerEvent) error {
	p.Enqueue(event.UserID, string(event.Type), eventProperties(event))
	return nil
}

func (p *PosthogClient) Close() {
	if p.client == nil {
		return
	}
	_ = p.client.Close()
}

func eventProperties(event domain.LedgerEvent) map[string]any {
	props := make(map[string]any, len(event.Data)+3)
	for k, v := range event.Data {
		props[k] = v
	}
	props["entity_id"] = event.EntityID
	props["occurred_at"] = event.OccurredAt.Format(time.RFC3339)
	if event.HouseholdID != nil {
		props["household_id"] = *event.HouseholdID
	}
	return props
}
