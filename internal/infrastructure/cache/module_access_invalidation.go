package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/billing"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/identity"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Constants for invalidator configuration
const (
	defaultCloseTimeout = 5 * time.Second
)

// RedisModuleCacheInvalidator broadcasts module access invalidations over
// Redis Pub/Sub so every instance evicts its local tier
type RedisModuleCacheInvalidator struct {
	client     *redis.Client
	ownsClient bool // true if we created the client and should close it
	channel    string
	logger     *zap.Logger
	cancelFn   context.CancelFunc
	doneCh     chan struct{}
	doneOnce   sync.Once
	mu         sync.Mutex
	isRunning  bool
}

// RedisModuleCacheInvalidatorOption is a functional option for configuring the invalidator
type RedisModuleCacheInvalidatorOption func(*RedisModuleCacheInvalidator)

// WithInvalidatorChannel sets the Pub/Sub channel name
func WithInvalidatorChannel(channel string) RedisModuleCacheInvalidatorOption {
	return func(i *RedisModuleCacheInvalidator) {
		i.channel = channel
	}
}

// WithInvalidatorLogger sets the logger for the invalidator
func WithInvalidatorLogger(logger *zap.Logger) RedisModuleCacheInvalidatorOption {
	return func(i *RedisModuleCacheInvalidator) {
		i.logger = logger
	}
}

// NewRedisModuleCacheInvalidator creates a new Redis Pub/Sub cache invalidator
func NewRedisModuleCacheInvalidator(cfg RedisConfig, opts ...RedisModuleCacheInvalidatorOption) (*RedisModuleCacheInvalidator, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	invalidator := &RedisModuleCacheInvalidator{
		client:     client,
		ownsClient: true,
		channel:    identity.DefaultModuleCacheConfig().PubSubChannel,
		logger:     zap.NewNop(),
		doneCh:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(invalidator)
	}

	return invalidator, nil
}

// NewRedisModuleCacheInvalidatorWithClient creates an invalidator with an existing Redis client.
// The caller retains ownership of the client and is responsible for closing it.
func NewRedisModuleCacheInvalidatorWithClient(client *redis.Client, opts ...RedisModuleCacheInvalidatorOption) *RedisModuleCacheInvalidator {
	invalidator := &RedisModuleCacheInvalidator{
		client:     client,
		ownsClient: false,
		channel:    identity.DefaultModuleCacheConfig().PubSubChannel,
		logger:     zap.NewNop(),
		doneCh:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(invalidator)
	}

	return invalidator
}

// Publish sends an invalidation notification to all subscribers
func (i *RedisModuleCacheInvalidator) Publish(ctx context.Context, msg identity.ModuleCacheUpdateMessage) error {
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().UnixNano()
	}

	data, err := json.Marshal(msg)
	if err != nil {
		i.logger.Error("Failed to marshal cache update message",
			zap.String("action", msg.Action),
			zap.Error(err))
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := i.client.Publish(ctx, i.channel, data).Err(); err != nil {
		i.logger.Error("Failed to publish cache update message",
			zap.String("channel", i.channel),
			zap.Error(err))
		return fmt.Errorf("failed to publish message: %w", err)
	}

	i.logger.Debug("Published cache update message",
		zap.String("action", msg.Action),
		zap.String("tenant_id", msg.TenantID),
		zap.String("channel", i.channel))

	return nil
}

// Subscribe starts listening for invalidation notifications. The callback
// is invoked for each received message. This method blocks, so call it in
// a goroutine.
func (i *RedisModuleCacheInvalidator) Subscribe(ctx context.Context, callback func(msg identity.ModuleCacheUpdateMessage)) error {
	i.mu.Lock()
	if i.isRunning {
		i.mu.Unlock()
		return fmt.Errorf("subscription already running")
	}
	i.isRunning = true
	i.mu.Unlock()

	subCtx, cancel := context.WithCancel(ctx)
	i.mu.Lock()
	i.cancelFn = cancel
	i.mu.Unlock()

	pubsub := i.client.Subscribe(subCtx, i.channel)
	defer pubsub.Close()

	// Wait for subscription confirmation
	_, err := pubsub.Receive(subCtx)
	if err != nil {
		i.mu.Lock()
		i.isRunning = false
		i.mu.Unlock()
		return fmt.Errorf("failed to subscribe to channel: %w", err)
	}

	i.logger.Info("Subscribed to module cache invalidation channel",
		zap.String("channel", i.channel))

	ch := pubsub.Channel()

	for {
		select {
		case <-subCtx.Done():
			i.logger.Info("Module cache invalidation subscription stopped")
			i.mu.Lock()
			i.isRunning = false
			i.mu.Unlock()
			i.markDone()
			return subCtx.Err()
		case msg, ok := <-ch:
			if !ok {
				i.logger.Warn("Module cache invalidation channel closed")
				i.mu.Lock()
				i.isRunning = false
				i.mu.Unlock()
				i.markDone()
				return nil
			}

			var updateMsg identity.ModuleCacheUpdateMessage
			if err := json.Unmarshal([]byte(msg.Payload), &updateMsg); err != nil {
				i.logger.Error("Failed to unmarshal cache update message",
					zap.String("payload", msg.Payload),
					zap.Error(err))
				continue
			}

			i.logger.Debug("Received cache update message",
				zap.String("action", updateMsg.Action),
				zap.String("tenant_id", updateMsg.TenantID))

			// Call the callback in a separate goroutine to prevent blocking
			go func(m identity.ModuleCacheUpdateMessage) {
				defer func() {
					if r := recover(); r != nil {
						i.logger.Error("Panic in cache update callback",
							zap.Any("panic", r))
					}
				}()
				callback(m)
			}(updateMsg)
		}
	}
}

// markDone safely marks the invalidator as done
func (i *RedisModuleCacheInvalidator) markDone() {
	i.doneOnce.Do(func() {
		close(i.doneCh)
	})
}

// Close releases any resources held by the invalidator
func (i *RedisModuleCacheInvalidator) Close() error {
	i.mu.Lock()
	cancelFn := i.cancelFn
	i.mu.Unlock()

	if cancelFn != nil {
		cancelFn()
		// Wait for subscription to stop with timeout
		select {
		case <-i.doneCh:
		case <-time.After(defaultCloseTimeout):
			i.logger.Warn("Timeout waiting for subscription to stop")
		}
	}

	// Only close client if we own it
	if i.ownsClient {
		return i.client.Close()
	}
	return nil
}

// PublishTenantInvalidation notifies subscribers that one tenant's access changed
func (i *RedisModuleCacheInvalidator) PublishTenantInvalidation(ctx context.Context, tenantID string) error {
	return i.Publish(ctx, identity.ModuleCacheUpdateMessage{
		Action:   identity.ModuleCacheActionTenant,
		TenantID: tenantID,
	})
}

// PublishInvalidateAll notifies subscribers that the plan catalog changed
func (i *RedisModuleCacheInvalidator) PublishInvalidateAll(ctx context.Context) error {
	return i.Publish(ctx, identity.ModuleCacheUpdateMessage{
		Action: identity.ModuleCacheActionAll,
	})
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (i *RedisModuleCacheInvalidator) GetClient() *redis.Client {
	return i.client
}

// ModuleAccessEventHandler evicts cached module access when a tenant's
// plan or subscription changes. It subscribes to the event bus and
// handles the events whose outcome can change module availability.
type ModuleAccessEventHandler struct {
	cache  identity.ModuleAccessCache
	logger *zap.Logger
}

// NewModuleAccessEventHandler creates a handler bound to a cache
func NewModuleAccessEventHandler(cache identity.ModuleAccessCache, logger *zap.Logger) *ModuleAccessEventHandler {
	return &ModuleAccessEventHandler{
		cache:  cache,
		logger: logger,
	}
}

// Handle evicts the tenant's cached access
func (h *ModuleAccessEventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	tenantID := event.TenantID()

	if err := h.cache.Delete(ctx, tenantID); err != nil {
		h.logger.Warn("Failed to evict module access cache",
			zap.String("event_type", event.EventType()),
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err))
		return err
	}

	h.logger.Debug("Evicted module access cache",
		zap.String("event_type", event.EventType()),
		zap.String("tenant_id", tenantID.String()))
	return nil
}

// EventTypes lists the events that can change a tenant's module access
func (h *ModuleAccessEventHandler) EventTypes() []string {
	return []string{
		identity.EventTypeTenantPlanChanged,
		identity.EventTypeTenantStatusChanged,
		billing.EventTypeSubscriptionStarted,
		billing.EventTypeSubscriptionPlanChanged,
		billing.EventTypeSubscriptionStatusChanged,
		billing.EventTypeSubscriptionCanceled,
	}
}

// Ensure ModuleAccessEventHandler implements EventHandler
var _ shared.EventHandler = (*ModuleAccessEventHandler)(nil)
