package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/identity"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TieredModuleAccessCache layers a local in-memory cache over Redis.
// Local: fast, per instance, short TTL. Shared: one resolution serves
// every instance. Reads go local first, writes go to both, and Pub/Sub
// invalidation keeps local tiers coherent across instances.
type TieredModuleAccessCache struct {
	local       *InMemoryModuleAccessCache
	shared      *RedisModuleAccessCache
	invalidator *RedisModuleCacheInvalidator
	config      identity.ModuleCacheConfig
	logger      *zap.Logger

	// Stats for monitoring
	localHits    int64
	localMisses  int64
	sharedHits   int64
	sharedMisses int64
}

// TieredModuleAccessCacheOption is a functional option for configuring the cache
type TieredModuleAccessCacheOption func(*TieredModuleAccessCache)

// WithTieredConfig sets the cache configuration
func WithTieredConfig(config identity.ModuleCacheConfig) TieredModuleAccessCacheOption {
	return func(c *TieredModuleAccessCache) {
		c.config = config
	}
}

// WithTieredLogger sets the logger for the cache
func WithTieredLogger(logger *zap.Logger) TieredModuleAccessCacheOption {
	return func(c *TieredModuleAccessCache) {
		c.logger = logger
	}
}

// NewTieredModuleAccessCache creates a new tiered module access cache
func NewTieredModuleAccessCache(
	local *InMemoryModuleAccessCache,
	shared *RedisModuleAccessCache,
	invalidator *RedisModuleCacheInvalidator,
	opts ...TieredModuleAccessCacheOption,
) *TieredModuleAccessCache {
	cache := &TieredModuleAccessCache{
		local:       local,
		shared:      shared,
		invalidator: invalidator,
		config:      identity.DefaultModuleCacheConfig(),
		logger:      zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

// StartInvalidationSubscription starts listening for invalidation
// messages from other instances. Blocks, so call it in a goroutine.
func (c *TieredModuleAccessCache) StartInvalidationSubscription(ctx context.Context) error {
	if c.invalidator == nil {
		return nil
	}

	return c.invalidator.Subscribe(ctx, func(msg identity.ModuleCacheUpdateMessage) {
		c.handleInvalidationMessage(msg)
	})
}

// handleInvalidationMessage evicts the local tier per the message
func (c *TieredModuleAccessCache) handleInvalidationMessage(msg identity.ModuleCacheUpdateMessage) {
	ctx := context.Background()

	switch msg.Action {
	case identity.ModuleCacheActionTenant:
		tenantID, err := uuid.Parse(msg.TenantID)
		if err != nil {
			c.logger.Error("Failed to parse tenant ID in invalidation message",
				zap.String("tenant_id", msg.TenantID),
				zap.Error(err))
			return
		}
		if err := c.local.Delete(ctx, tenantID); err != nil {
			c.logger.Error("Failed to evict tenant from local cache",
				zap.String("tenant_id", msg.TenantID),
				zap.Error(err))
		}
		c.logger.Debug("Evicted tenant from local cache",
			zap.String("tenant_id", msg.TenantID))

	case identity.ModuleCacheActionAll:
		if err := c.local.InvalidateAll(ctx); err != nil {
			c.logger.Error("Failed to invalidate local cache", zap.Error(err))
		}
		c.logger.Info("Invalidated all local module access cache")
	}
}

// Get retrieves a tenant's module access, local tier first
func (c *TieredModuleAccessCache) Get(ctx context.Context, tenantID uuid.UUID) (*identity.ModuleAccess, error) {
	access, err := c.local.Get(ctx, tenantID)
	if err != nil {
		c.logger.Warn("Local cache error", zap.String("tenant_id", tenantID.String()), zap.Error(err))
	}
	if access != nil {
		atomic.AddInt64(&c.localHits, 1)
		return access, nil
	}
	atomic.AddInt64(&c.localMisses, 1)

	access, err = c.shared.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if access != nil {
		atomic.AddInt64(&c.sharedHits, 1)
		// Populate the local tier
		if err := c.local.Set(ctx, access, c.config.LocalTTL); err != nil {
			c.logger.Warn("Failed to populate local cache", zap.String("tenant_id", tenantID.String()), zap.Error(err))
		}
		return access, nil
	}
	atomic.AddInt64(&c.sharedMisses, 1)

	return nil, nil
}

// Set stores resolved access in both tiers and notifies other instances
func (c *TieredModuleAccessCache) Set(ctx context.Context, access *identity.ModuleAccess, ttl time.Duration) error {
	if err := c.shared.Set(ctx, access, ttl); err != nil {
		return err
	}

	if err := c.local.Set(ctx, access, c.config.LocalTTL); err != nil {
		c.logger.Warn("Failed to set local cache",
			zap.String("tenant_id", access.TenantID.String()),
			zap.Error(err))
	}

	if c.invalidator != nil {
		if err := c.invalidator.PublishTenantInvalidation(ctx, access.TenantID.String()); err != nil {
			c.logger.Warn("Failed to publish tenant invalidation",
				zap.String("tenant_id", access.TenantID.String()),
				zap.Error(err))
		}
	}

	return nil
}

// Delete evicts a tenant from both tiers and notifies other instances
func (c *TieredModuleAccessCache) Delete(ctx context.Context, tenantID uuid.UUID) error {
	if err := c.shared.Delete(ctx, tenantID); err != nil {
		return err
	}

	if err := c.local.Delete(ctx, tenantID); err != nil {
		c.logger.Warn("Failed to delete from local cache",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err))
	}

	if c.invalidator != nil {
		if err := c.invalidator.PublishTenantInvalidation(ctx, tenantID.String()); err != nil {
			c.logger.Warn("Failed to publish tenant invalidation",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err))
		}
	}

	return nil
}

// InvalidateAll clears both tiers and notifies other instances
func (c *TieredModuleAccessCache) InvalidateAll(ctx context.Context) error {
	if err := c.shared.InvalidateAll(ctx); err != nil {
		return err
	}

	if err := c.local.InvalidateAll(ctx); err != nil {
		c.logger.Warn("Failed to invalidate local cache", zap.Error(err))
	}

	if c.invalidator != nil {
		if err := c.invalidator.PublishInvalidateAll(ctx); err != nil {
			c.logger.Warn("Failed to publish invalidate all", zap.Error(err))
		}
	}

	return nil
}

// Close releases any resources held by the cache
func (c *TieredModuleAccessCache) Close() error {
	var lastErr error

	if c.invalidator != nil {
		if err := c.invalidator.Close(); err != nil {
			lastErr = err
		}
	}

	if err := c.shared.Close(); err != nil {
		lastErr = err
	}

	if err := c.local.Close(); err != nil {
		lastErr = err
	}

	return lastErr
}

// GetCacheStats returns hit and miss counts across the tiers
func (c *TieredModuleAccessCache) GetCacheStats() identity.ModuleCacheStats {
	localHits := atomic.LoadInt64(&c.localHits)
	localMisses := atomic.LoadInt64(&c.localMisses)
	sharedHits := atomic.LoadInt64(&c.sharedHits)
	sharedMisses := atomic.LoadInt64(&c.sharedMisses)

	totalHits := localHits + sharedHits
	totalRequests := totalHits + sharedMisses

	var hitRatio float64
	if totalRequests > 0 {
		hitRatio = float64(totalHits) / float64(totalRequests)
	}

	return identity.ModuleCacheStats{
		LocalHits:    localHits,
		LocalMisses:  localMisses,
		SharedHits:   sharedHits,
		SharedMisses: sharedMisses,
		HitRatio:     hitRatio,
		Entries:      int64(c.local.Count()),
	}
}

// ResetStats resets the cache statistics
func (c *TieredModuleAccessCache) ResetStats() {
	atomic.StoreInt64(&c.localHits, 0)
	atomic.StoreInt64(&c.localMisses, 0)
	atomic.StoreInt64(&c.sharedHits, 0)
	atomic.StoreInt64(&c.sharedMisses, 0)
	c.local.ResetStats()
}

// Ensure TieredModuleAccessCache implements ModuleAccessCache
var _ identity.ModuleAccessCache = (*TieredModuleAccessCache)(nil)
