package cache

import (
	"context"
	"testing"
	"time"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/storefront"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCart(t *testing.T, sessionID string) *storefront.Cart {
	t.Helper()

	cart, err := storefront.NewCart(sessionID, uuid.New(), uuid.New())
	require.NoError(t, err)
	_, err = cart.AddItem(uuid.New(), 2, nil, "sem cebola")
	require.NoError(t, err)
	return cart
}

func TestInMemoryCartStore_SaveAndGet(t *testing.T) {
	store := NewInMemoryCartStore(1 * time.Minute)
	ctx := context.Background()

	cart := testCart(t, "session-abc")
	require.NoError(t, store.Save(ctx, cart))

	got, err := store.Get(ctx, cart.TenantID, cart.StoreID, "session-abc")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, cart.SessionID, got.SessionID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Items[0].Quantity)
}

func TestInMemoryCartStore_GetUnknownSessionReturnsNil(t *testing.T) {
	store := NewInMemoryCartStore(1 * time.Minute)

	got, err := store.Get(context.Background(), uuid.New(), uuid.New(), "no-such-session")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestInMemoryCartStore_SessionsAreIsolatedByStore(t *testing.T) {
	store := NewInMemoryCartStore(1 * time.Minute)
	ctx := context.Background()

	cart := testCart(t, "session-abc")
	require.NoError(t, store.Save(ctx, cart))

	// Same session ID under a different store misses
	got, err := store.Get(ctx, cart.TenantID, uuid.New(), "session-abc")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestInMemoryCartStore_Delete(t *testing.T) {
	store := NewInMemoryCartStore(1 * time.Minute)
	ctx := context.Background()

	cart := testCart(t, "session-abc")
	require.NoError(t, store.Save(ctx, cart))
	require.NoError(t, store.Delete(ctx, cart.TenantID, cart.StoreID, "session-abc"))

	got, err := store.Get(ctx, cart.TenantID, cart.StoreID, "session-abc")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestInMemoryCartStore_CartsExpire(t *testing.T) {
	store := NewInMemoryCartStore(10 * time.Millisecond)
	ctx := context.Background()

	cart := testCart(t, "session-abc")
	require.NoError(t, store.Save(ctx, cart))

	time.Sleep(20 * time.Millisecond)

	got, err := store.Get(ctx, cart.TenantID, cart.StoreID, "session-abc")
	require.NoError(t, err)
	assert.Nil(t, got, "expired cart should miss")
}
