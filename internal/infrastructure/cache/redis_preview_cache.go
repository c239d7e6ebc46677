package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	storefrontapp "github.com/Rokin-Inteligencia/roksell-sub000/internal/application/storefront"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	previewKeyPrefix = "preview:"

	// defaultPreviewTTL keeps previews short-lived so schedule and
	// campaign windows are never stale for long
	defaultPreviewTTL = 30 * time.Second
)

// RedisPreviewCache memoizes checkout previews in Redis. Entries are
// keyed by the fingerprint the checkout service computes over cart
// contents, destination and coupon. Failures degrade to a recompute,
// never to an error for the buyer.
type RedisPreviewCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisPreviewCache creates a preview cache over an existing Redis
// client. A non-positive ttl falls back to 30 seconds.
func NewRedisPreviewCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisPreviewCache {
	if ttl <= 0 {
		ttl = defaultPreviewTTL
	}
	return &RedisPreviewCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Get returns the cached preview, nil on a miss
func (c *RedisPreviewCache) Get(ctx context.Context, key string) (*storefrontapp.CheckoutPreviewResponse, error) {
	data, err := c.client.Get(ctx, previewKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		c.logger.Warn("Failed to get preview from cache", zap.Error(err))
		return nil, fmt.Errorf("failed to get preview: %w", err)
	}

	var preview storefrontapp.CheckoutPreviewResponse
	if err := json.Unmarshal(data, &preview); err != nil {
		c.logger.Warn("Failed to unmarshal cached preview", zap.Error(err))
		_ = c.client.Del(ctx, previewKeyPrefix+key)
		return nil, nil
	}

	return &preview, nil
}

// Set stores a preview under the key for the given TTL
func (c *RedisPreviewCache) Set(ctx context.Context, key string, preview *storefrontapp.CheckoutPreviewResponse, ttl time.Duration) error {
	if preview == nil {
		return nil
	}

	if ttl <= 0 {
		ttl = c.ttl
	}

	data, err := json.Marshal(preview)
	if err != nil {
		return fmt.Errorf("failed to marshal preview: %w", err)
	}

	if err := c.client.Set(ctx, previewKeyPrefix+key, data, ttl).Err(); err != nil {
		c.logger.Warn("Failed to cache preview", zap.Error(err))
		return fmt.Errorf("failed to cache preview: %w", err)
	}

	return nil
}

// Ensure RedisPreviewCache implements PreviewCache
var _ storefrontapp.PreviewCache = (*RedisPreviewCache)(nil)
