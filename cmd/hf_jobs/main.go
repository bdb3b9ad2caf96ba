// Command hf_jobs runs the batch jobs directly against the database, for
// schedulers that prefer invoking a binary over calling the HTTP triggers.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	portssvc "github.com/SscSPs/household_finance/internal/core/ports/services"
	"github.com/SscSPs/household_finance/internal/core/services"
	"github.com/SscSPs/household_finance/internal/platform/config"
	"github.com/SscSPs/household_finance/internal/platform/events"
	"github.com/SscSPs/household_finance/internal/repositories/database/pgsql"
	"github.com/SscSPs/household_finance/pkg/database"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{
		logger:       logger,
		out:          os.Stdout,
		newContainer: newPostgresContainer,
	}
	err := newRootCmd(a).ExecuteContext(ctx)
	a.close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newPostgresContainer wires the services against PostgreSQL. Events go to
// PostHog only; there are no WebSocket clients in a batch process.
func newPostgresContainer(ctx context.Context, logger *slog.Logger) (*portssvc.ServiceContainer, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, true)
	if err != nil {
		return nil, nil, err
	}

	posthogClient := events.NewPosthogClient(cfg.PosthogAPIKey, logger)
	bus := events.NewBus(cfg.EventBufferSize, logger, posthogClient)
	bus.Start()

	container := services.NewServiceContainer(
		pgsql.NewRepositoryProvider(pool),
		services.WithEventPublisher(bus),
		services.WithClock(func() time.Time { return time.Now().In(cfg.SchedulerLocation) }),
	)

	cleanup := func() {
		bus.Close()
		posthogClient.Close()
		database.ClosePgxPool(pool)
	}
	return container, cleanup, nil
}
