package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/identity"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Constants for Redis cache configuration
const (
	defaultScanBatchSize = 100

	moduleAccessKeyPrefix = "module_access:"
)

// RedisModuleAccessCache implements ModuleAccessCache using Redis. It is
// the shared tier: every instance sees the same resolved access.
type RedisModuleAccessCache struct {
	client     *redis.Client
	ownsClient bool // true if we created the client and should close it
	config     identity.ModuleCacheConfig
	logger     *zap.Logger
}

// RedisModuleAccessCacheOption is a functional option for configuring the cache
type RedisModuleAccessCacheOption func(*RedisModuleAccessCache)

// WithModuleCacheConfig sets the cache configuration
func WithModuleCacheConfig(config identity.ModuleCacheConfig) RedisModuleAccessCacheOption {
	return func(c *RedisModuleAccessCache) {
		c.config = config
	}
}

// WithModuleCacheLogger sets the logger for the cache
func WithModuleCacheLogger(logger *zap.Logger) RedisModuleAccessCacheOption {
	return func(c *RedisModuleAccessCache) {
		c.logger = logger
	}
}

// NewRedisModuleAccessCache creates a new Redis-based module access cache
func NewRedisModuleAccessCache(cfg RedisConfig, opts ...RedisModuleAccessCacheOption) (*RedisModuleAccessCache, error) {
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

	cache := &RedisModuleAccessCache{
		client:     client,
		ownsClient: true,
		config:     identity.DefaultModuleCacheConfig(),
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache, nil
}

// NewRedisModuleAccessCacheWithClient creates a cache with an existing Redis client.
// The caller retains ownership of the client and is responsible for closing it.
func NewRedisModuleAccessCacheWithClient(client *redis.Client, opts ...RedisModuleAccessCacheOption) *RedisModuleAccessCache {
	cache := &RedisModuleAccessCache{
		client:     client,
		ownsClient: false,
		config:     identity.DefaultModuleCacheConfig(),
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

// accessCacheKey generates the cache key for a tenant's module access
func (c *RedisModuleAccessCache) accessCacheKey(tenantID uuid.UUID) string {
	return moduleAccessKeyPrefix + tenantID.String()
}

// Get retrieves a tenant's module access from cache
func (c *RedisModuleAccessCache) Get(ctx context.Context, tenantID uuid.UUID) (*identity.ModuleAccess, error) {
	cacheKey := c.accessCacheKey(tenantID)

	data, err := c.client.Get(ctx, cacheKey).Bytes()
	if err == redis.Nil {
		c.logger.Debug("Cache miss for module access", zap.String("tenant_id", tenantID.String()))
		return nil, nil
	}
	if err != nil {
		c.logger.Error("Failed to get module access from cache",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get module access from cache: %w", err)
	}

	var access identity.ModuleAccess
	if err := json.Unmarshal(data, &access); err != nil {
		c.logger.Error("Failed to unmarshal module access",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err))
		// Delete corrupted cache entry
		_ = c.client.Del(ctx, cacheKey)
		return nil, fmt.Errorf("failed to unmarshal module access: %w", err)
	}

	c.logger.Debug("Cache hit for module access", zap.String("tenant_id", tenantID.String()))
	return &access, nil
}

// Set stores a tenant's module access in cache
func (c *RedisModuleAccessCache) Set(ctx context.Context, access *identity.ModuleAccess, ttl time.Duration) error {
	if access == nil {
		return nil
	}

	if ttl == 0 {
		ttl = c.config.EntryTTL
	}

	cacheKey := c.accessCacheKey(access.TenantID)

	data, err := json.Marshal(access)
	if err != nil {
		c.logger.Error("Failed to marshal module access",
			zap.String("tenant_id", access.TenantID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to marshal module access: %w", err)
	}

	if err := c.client.Set(ctx, cacheKey, data, ttl).Err(); err != nil {
		c.logger.Error("Failed to set module access in cache",
			zap.String("tenant_id", access.TenantID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to set module access in cache: %w", err)
	}

	c.logger.Debug("Cached module access",
		zap.String("tenant_id", access.TenantID.String()),
		zap.Duration("ttl", ttl))
	return nil
}

// Delete removes a tenant's module access from cache
func (c *RedisModuleAccessCache) Delete(ctx context.Context, tenantID uuid.UUID) error {
	cacheKey := c.accessCacheKey(tenantID)

	if err := c.client.Del(ctx, cacheKey).Err(); err != nil {
		c.logger.Error("Failed to delete module access from cache",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to delete module access from cache: %w", err)
	}

	c.logger.Debug("Deleted module access from cache", zap.String("tenant_id", tenantID.String()))
	return nil
}

// InvalidateAll removes every cached module access entry. Plan catalog
// changes affect an unknown set of tenants, so the whole keyspace goes.
func (c *RedisModuleAccessCache) InvalidateAll(ctx context.Context) error {
	// Use SCAN to avoid blocking Redis with the KEYS command
	var cursor uint64
	var deletedCount int64

	for {
		var keys []string
		var err error
		keys, cursor, err = c.client.Scan(ctx, cursor, moduleAccessKeyPrefix+"*", defaultScanBatchSize).Result()
		if err != nil {
			c.logger.Error("Failed to scan module access keys", zap.Error(err))
			return fmt.Errorf("failed to scan cache keys: %w", err)
		}

		if len(keys) > 0 {
			deleted, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				c.logger.Error("Failed to delete module access keys", zap.Error(err))
				return fmt.Errorf("failed to delete cache keys: %w", err)
			}
			deletedCount += deleted
		}

		if cursor == 0 {
			break
		}
	}

	c.logger.Info("Invalidated all module access cache",
		zap.Int64("deleted_count", deletedCount))
	return nil
}

// Close releases any resources held by the cache
func (c *RedisModuleAccessCache) Close() error {
	// Only close client if we own it
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (c *RedisModuleAccessCache) GetClient() *redis.Client {
	return c.client
}

// Ensure RedisModuleAccessCache implements ModuleAccessCache
var _ identity.ModuleAccessCache = (*RedisModuleAccessCache)(nil)
