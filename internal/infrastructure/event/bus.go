package event

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"go.uber.org/zap"
)

const (
	defaultQueueSize = 256
	defaultWorkers   = 4
)

// InMemoryEventBus implements EventBus with in-memory pub/sub.
// Before Start, Publish dispatches on the caller's goroutine. After
// Start, events are queued and dispatched by a worker pool so slow
// handlers (outbound notifications) never block the request path.
type InMemoryEventBus struct {
	registry *HandlerRegistry
	logger   *zap.Logger
	queue    chan shared.DomainEvent
	quit     chan struct{}
	running  atomic.Bool
	wg       sync.WaitGroup
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{
		registry: NewHandlerRegistry(),
		logger:   logger,
		queue:    make(chan shared.DomainEvent, defaultQueueSize),
	}
}

// Publish publishes events to all registered handlers
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, event := range events {
		if b.running.Load() {
			select {
			case b.queue <- event:
				continue
			default:
				b.logger.Warn("event queue full, dispatching inline",
					zap.String("event_type", event.EventType()),
				)
			}
		}
		// Bus not started or queue full: dispatch on the caller
		b.dispatchEvent(ctx, event)
	}
	return nil
}

// Subscribe registers a handler for specific event types
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	// If handler specifies its own event types, use those
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("handler subscribed",
		zap.Strings("event_types", eventTypes),
	)
}

// Unsubscribe removes a handler
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
	b.logger.Debug("handler unsubscribed")
}

// Start spawns the dispatch workers
func (b *InMemoryEventBus) Start(ctx context.Context) error {
	if !b.running.CompareAndSwap(false, true) {
		return nil
	}

	b.quit = make(chan struct{})
	for i := 0; i < defaultWorkers; i++ {
		b.wg.Add(1)
		go b.worker()
	}

	b.logger.Info("event bus started", zap.Int("workers", defaultWorkers))
	return nil
}

// Stop stops the workers after draining queued events
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	if !b.running.CompareAndSwap(true, false) {
		return nil
	}

	close(b.quit)

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.logger.Info("event bus stopped")
		return nil
	case <-ctx.Done():
		b.logger.Warn("event bus stop timed out")
		return ctx.Err()
	}
}

// worker consumes queued events until the bus stops. Queued events use
// a background context because the publishing request has usually
// completed by the time they run.
func (b *InMemoryEventBus) worker() {
	defer b.wg.Done()
	for {
		select {
		case event := <-b.queue:
			b.dispatchEvent(context.Background(), event)
		case <-b.quit:
			// Drain whatever is still queued before exiting
			for {
				select {
				case event := <-b.queue:
					b.dispatchEvent(context.Background(), event)
				default:
					return
				}
			}
		}
	}
}

// dispatchEvent fans an event out to all handlers registered for its type
func (b *InMemoryEventBus) dispatchEvent(ctx context.Context, event shared.DomainEvent) {
	for _, handler := range b.registry.GetHandlers(event.EventType()) {
		if err := b.dispatchToHandler(ctx, handler, event); err != nil {
			// Log error but continue with other handlers
			b.logger.Error("handler failed to process event",
				zap.String("event_type", event.EventType()),
				zap.String("event_id", event.EventID().String()),
				zap.Error(err),
			)
		}
	}
}

// dispatchToHandler safely dispatches an event to a handler
func (b *InMemoryEventBus) dispatchToHandler(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panicked",
				zap.String("event_type", event.EventType()),
				zap.Any("panic", r),
			)
		}
	}()

	return handler.Handle(ctx, event)
}

// Ensure InMemoryEventBus implements EventBus
var _ shared.EventBus = (*InMemoryEventBus)(nil)
