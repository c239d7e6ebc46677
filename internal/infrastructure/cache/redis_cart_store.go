package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/storefront"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	cartKeyPrefix = "cart:"

	// defaultCartTTL keeps abandoned carts for a day
	defaultCartTTL = 24 * time.Hour
)

// RedisCartStore persists session carts in Redis under a TTL. Every Save
// refreshes the TTL, so active sessions never lose their cart while
// abandoned ones expire on their own.
type RedisCartStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisCartStore creates a cart store over an existing Redis client.
// A non-positive ttl falls back to the default of 24 hours.
func NewRedisCartStore(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisCartStore {
	if ttl <= 0 {
		ttl = defaultCartTTL
	}
	return &RedisCartStore{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// cartKey scopes the cart to tenant, store and session
func cartKey(tenantID, storeID uuid.UUID, sessionID string) string {
	return cartKeyPrefix + tenantID.String() + ":" + storeID.String() + ":" + sessionID
}

// Get retrieves the cart of a session, nil when none exists
func (s *RedisCartStore) Get(ctx context.Context, tenantID, storeID uuid.UUID, sessionID string) (*storefront.Cart, error) {
	key := cartKey(tenantID, storeID, sessionID)

	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		s.logger.Error("Failed to get cart from Redis",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	var cart storefront.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		s.logger.Error("Failed to unmarshal cart",
			zap.String("session_id", sessionID),
			zap.Error(err))
		// Drop the corrupted entry so the session starts fresh
		_ = s.client.Del(ctx, key)
		return nil, nil
	}

	return &cart, nil
}

// Save stores the cart and refreshes its TTL
func (s *RedisCartStore) Save(ctx context.Context, cart *storefront.Cart) error {
	key := cartKey(cart.TenantID, cart.StoreID, cart.SessionID)

	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}

	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		s.logger.Error("Failed to save cart to Redis",
			zap.String("session_id", cart.SessionID),
			zap.Error(err))
		return fmt.Errorf("failed to save cart: %w", err)
	}

	return nil
}

// Delete drops the cart of a session
func (s *RedisCartStore) Delete(ctx context.Context, tenantID, storeID uuid.UUID, sessionID string) error {
	key := cartKey(tenantID, storeID, sessionID)

	if err := s.client.Del(ctx, key).Err(); err != nil {
		s.logger.Error("Failed to delete cart from Redis",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return fmt.Errorf("failed to delete cart: %w", err)
	}

	return nil
}

// Ensure RedisCartStore implements CartStore
var _ storefront.CartStore = (*RedisCartStore)(nil)

// InMemoryCartStore keeps session carts in process memory. Development
// fallback when Redis is unavailable; carts do not survive restarts and
// are not shared across instances.
type InMemoryCartStore struct {
	mu    sync.Mutex
	carts map[string]inMemoryCartEntry
	ttl   time.Duration
}

type inMemoryCartEntry struct {
	cart      *storefront.Cart
	expiresAt time.Time
}

// NewInMemoryCartStore creates an in-memory cart store
func NewInMemoryCartStore(ttl time.Duration) *InMemoryCartStore {
	if ttl <= 0 {
		ttl = defaultCartTTL
	}
	return &InMemoryCartStore{
		carts: make(map[string]inMemoryCartEntry),
		ttl:   ttl,
	}
}

// Get retrieves the cart of a session, nil when none exists
func (s *InMemoryCartStore) Get(ctx context.Context, tenantID, storeID uuid.UUID, sessionID string) (*storefront.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := cartKey(tenantID, storeID, sessionID)
	entry, ok := s.carts[key]
	if !ok {
		return nil, nil
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.carts, key)
		return nil, nil
	}
	return entry.cart, nil
}

// Save stores the cart and refreshes its TTL
func (s *InMemoryCartStore) Save(ctx context.Context, cart *storefront.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := cartKey(cart.TenantID, cart.StoreID, cart.SessionID)
	s.carts[key] = inMemoryCartEntry{
		cart:      cart,
		expiresAt: time.Now().Add(s.ttl),
	}
	return nil
}

// Delete drops the cart of a session
func (s *InMemoryCartStore) Delete(ctx context.Context, tenantID, storeID uuid.UUID, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, cartKey(tenantID, storeID, sessionID))
	return nil
}

// Ensure InMemoryCartStore implements CartStore
var _ storefront.CartStore = (*InMemoryCartStore)(nil)
