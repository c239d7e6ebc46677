package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/identity"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Constants for in-memory cache configuration
const (
	defaultCleanupInterval = 30 * time.Second
)

// InMemoryModuleAccessCache implements ModuleAccessCache with local
// storage. It serves as the per-instance tier in front of Redis and as
// the only tier in development setups without Redis.
type InMemoryModuleAccessCache struct {
	entries sync.Map // map[uuid.UUID]*cacheEntry[identity.ModuleAccess]
	config  identity.ModuleCacheConfig
	logger  *zap.Logger
	stopCh  chan struct{}
	stopped int32

	// Stats for monitoring
	hits   int64
	misses int64
}

// cacheEntry wraps a cached value with expiration time
type cacheEntry[T any] struct {
	value     *T
	expiresAt time.Time
}

// isExpired checks if the cache entry has expired
func (e *cacheEntry[T]) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// InMemoryModuleAccessCacheOption is a functional option for configuring the cache
type InMemoryModuleAccessCacheOption func(*InMemoryModuleAccessCache)

// WithInMemoryConfig sets the cache configuration
func WithInMemoryConfig(config identity.ModuleCacheConfig) InMemoryModuleAccessCacheOption {
	return func(c *InMemoryModuleAccessCache) {
		c.config = config
	}
}

// WithInMemoryLogger sets the logger for the cache
func WithInMemoryLogger(logger *zap.Logger) InMemoryModuleAccessCacheOption {
	return func(c *InMemoryModuleAccessCache) {
		c.logger = logger
	}
}

// NewInMemoryModuleAccessCache creates a new in-memory module access cache
func NewInMemoryModuleAccessCache(opts ...InMemoryModuleAccessCacheOption) *InMemoryModuleAccessCache {
	cache := &InMemoryModuleAccessCache{
		config: identity.DefaultModuleCacheConfig(),
		logger: zap.NewNop(),
		stopCh: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(cache)
	}

	// Start background cleanup goroutine
	go cache.cleanupExpired()

	return cache
}

// Get retrieves a tenant's module access from cache
func (c *InMemoryModuleAccessCache) Get(ctx context.Context, tenantID uuid.UUID) (*identity.ModuleAccess, error) {
	if value, ok := c.entries.Load(tenantID); ok {
		entry := value.(*cacheEntry[identity.ModuleAccess])
		if !entry.isExpired() {
			atomic.AddInt64(&c.hits, 1)
			c.logger.Debug("Local cache hit for module access", zap.String("tenant_id", tenantID.String()))
			return entry.value, nil
		}
		// Expired, remove from cache
		c.entries.Delete(tenantID)
	}

	atomic.AddInt64(&c.misses, 1)
	c.logger.Debug("Local cache miss for module access", zap.String("tenant_id", tenantID.String()))
	return nil, nil
}

// Set stores a tenant's module access in cache
func (c *InMemoryModuleAccessCache) Set(ctx context.Context, access *identity.ModuleAccess, ttl time.Duration) error {
	if access == nil {
		return nil
	}

	if ttl == 0 {
		ttl = c.config.LocalTTL
	}

	entry := &cacheEntry[identity.ModuleAccess]{
		value:     access,
		expiresAt: time.Now().Add(ttl),
	}

	c.entries.Store(access.TenantID, entry)
	c.logger.Debug("Cached module access locally",
		zap.String("tenant_id", access.TenantID.String()),
		zap.Duration("ttl", ttl))
	return nil
}

// Delete removes a tenant's module access from cache
func (c *InMemoryModuleAccessCache) Delete(ctx context.Context, tenantID uuid.UUID) error {
	c.entries.Delete(tenantID)
	c.logger.Debug("Deleted module access from local cache", zap.String("tenant_id", tenantID.String()))
	return nil
}

// InvalidateAll removes every cached entry
func (c *InMemoryModuleAccessCache) InvalidateAll(ctx context.Context) error {
	c.entries.Range(func(key, _ any) bool {
		c.entries.Delete(key)
		return true
	})

	c.logger.Info("Invalidated all local module access cache")
	return nil
}

// Close releases any resources held by the cache
func (c *InMemoryModuleAccessCache) Close() error {
	// Only close once
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

// GetStats returns cache statistics
func (c *InMemoryModuleAccessCache) GetStats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// ResetStats resets the cache statistics
func (c *InMemoryModuleAccessCache) ResetStats() {
	atomic.StoreInt64(&c.hits, 0)
	atomic.StoreInt64(&c.misses, 0)
}

// Count returns the number of entries in the cache
func (c *InMemoryModuleAccessCache) Count() int {
	count := 0
	c.entries.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}

// cleanupExpired periodically removes expired entries from the cache
func (c *InMemoryModuleAccessCache) cleanupExpired() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						c.logger.Error("Panic in cache cleanup",
							zap.Any("panic", r))
					}
				}()
				c.doCleanup()
			}()
		}
	}
}

// doCleanup removes expired entries
func (c *InMemoryModuleAccessCache) doCleanup() {
	var removed int

	c.entries.Range(func(key, value any) bool {
		entry := value.(*cacheEntry[identity.ModuleAccess])
		if entry.isExpired() {
			c.entries.Delete(key)
			removed++
		}
		return true
	})

	if removed > 0 {
		c.logger.Debug("Cleaned up expired local cache entries",
			zap.Int("removed", removed))
	}
}

// Ensure InMemoryModuleAccessCache implements ModuleAccessCache
var _ identity.ModuleAccessCache = (*InMemoryModuleAccessCache)(nil)
