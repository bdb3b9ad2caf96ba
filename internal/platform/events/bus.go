// Package events delivers ledger events to notification sinks off the request path.
package events

import (
	"context"
	"log/slog"
	"sync"

	"github.com/SscSPs/household_finance/internal/core/domain"
	portssvc "github.com/SscSPs/household_finance/internal/core/ports/services"
)

// Sink consumes ledger events. Handle runs on the bus goroutine.
type Sink interface {
	Name() string
	Handle(ctx context.Context, event domain.LedgerEvent) error
}

// Bus is a buffered fan-out from services to sinks. Publish never blocks:
// when the buffer is full the event is dropped.
type Bus struct {
	events chan domain.LedgerEvent
	sinks  []Sink
	logger *slog.Logger

	mu      sync.RWMutex
	closed  bool
	started bool
	done    chan struct{}
}

var _ portssvc.EventPublisher = (*Bus)(nil)

// NewBus creates a bus with the given buffer size. Call Start before publishing.
func NewBus(bufferSize int, logger *slog.Logger, sinks ...Sink) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		events: make(chan domain.LedgerEvent, bufferSize),
		sinks:  sinks,
		logger: logger,
		done:   make(chan struct{}),
	}
}

// Start launches the delivery goroutine.
func (b *Bus) Start() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started || b.closed {
		return
	}
	b.started = true
	go b.run()
}

// Publish queues the event for delivery.
func (b *Bus) Publish(ctx context.Context, event domain.LedgerEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}

	select {
	case b.events <- event:
	default:
		b.logger.WarnContext(ctx, "Event buffer full, dropping event",
			slog.String("event_type", string(event.Type)),
			slog.String("entity_id", event.EntityID))
	}
}

// Close stops accepting events and waits until queued ones are delivered.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	close(b.events)
	started := b.started
	b.mu.Unlock()

	if started {
		<-b.done
	}
}

func (b *Bus) run() {
	defer close(b.done)
	ctx := context.Background()
	for event := range b.events {
		for _, sink := range b.sinks {
			if err := sink.Handle(ctx, event); err != nil {
				b.logger.Warn("Event sink failed",
					slog.String("sink", sink.Name()),
					slog.String("event_type", string(event.Type)),
					slog.String("error", err.Error()))
			}
		}
	}
}
