package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/household_finance/internal/apperrors"
	"github.com/SscSPs/household_finance/internal/core/domain"
	portssvc "github.com/SscSPs/household_finance/internal/core/ports/services"
	"github.com/SscSPs/household_finance/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	HouseholdAuthorizer portssvc.HouseholdAuthorizerSvc
	Events              portssvc.EventPublisher
	Clock               func() time.Time
}

// ServiceOption configures the shared dependencies of a service.
type ServiceOption func(*BaseService)

// WithHouseholdAuthorizer adds the household membership check.
func WithHouseholdAuthorizer(authorizer portssvc.HouseholdAuthorizerSvc) ServiceOption {
	return func(s *BaseService) {
		s.HouseholdAuthorizer = authorizer
	}
}

// WithEventPublisher adds the ledger event sink.
func WithEventPublisher(publisher portssvc.EventPublisher) ServiceOption {
	return func(s *BaseService) {
		s.Events = publisher
	}
}

// WithClock overrides time.Now, e.g. to pin the scheduler timezone.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *BaseService) {
		s.Clock = clock
	}
}

func (s *BaseService) apply(options []ServiceOption) {
	for _, option := range options {
		option(s)
	}
}

// Now returns the current time from the configured clock.
func (s *BaseService) Now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// Publish hands an event to the publisher, if one is configured.
func (s *BaseService) Publish(ctx context.Context, event domain.LedgerEvent) {
	if s.Events == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.Now()
	}
	s.Events.Publish(ctx, event)
}

// AuthorizeMember checks that the user belongs to the household.
func (s *BaseService) AuthorizeMember(ctx context.Context, userID, householdID string) error {
	if s.HouseholdAuthorizer != nil {
		return s.HouseholdAuthorizer.AuthorizeMember(ctx, userID, householdID)
	}
	// Without an authorizer nobody but the owner gets through.
	return fmt.Errorf("%w: no household authorizer configured", apperrors.ErrForbidden)
}

// AuthorizeAccess lets the owner through, and household members when the
// entity is shared with a household.
func (s *BaseService) AuthorizeAccess(ctx context.Context, userID, ownerID string, householdID *string) error {
	if userID == ownerID {
		return nil
	}
	if householdID == nil || *householdID == "" {
		return apperrors.ErrForbidden
	}
	return s.AuthorizeMember(ctx, userID, *householdID)
}

func validationError(err error) error {
	return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
}
