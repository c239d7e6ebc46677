package catalog

import (
	"strings"
	"testing"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	tenantID := uuid.New()
	storeID := uuid.New()

	t.Run("creates product with valid inputs", func(t *testing.T) {
		product, err := NewProduct(tenantID, storeID, "Pizza Margherita", valueobject.NewMoneyBRLFromFloat(45.90))
		require.NoError(t, err)
		require.NotNil(t, product)

		assert.Equal(t, tenantID, product.TenantID)
		assert.Equal(t, storeID, product.StoreID)
		assert.Equal(t, "Pizza Margherita", product.Name)
		assert.True(t, product.Price.Equal(decimal.NewFromFloat(45.90)))
		assert.Nil(t, product.PromoPrice)
		assert.Equal(t, ProductStatusActive, product.Status)
		assert.False(t, product.TrackStock)
		assert.True(t, product.IsAvailable())
		assert.NotEmpty(t, product.ID)
	})

	t.Run("publishes ProductCreated event", func(t *testing.T) {
		product, err := NewProduct(tenantID, storeID, "Pizza Calabresa", valueobject.NewMoneyBRLFromFloat(42.00))
		require.NoError(t, err)

		events := product.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeProductCreated, events[0].EventType())
	})

	t.Run("fails with empty store id", func(t *testing.T) {
		_, err := NewProduct(tenantID, uuid.Nil, "Pizza", valueobject.NewMoneyBRLFromFloat(45.90))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Store ID cannot be empty")
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewProduct(tenantID, storeID, "  ", valueobject.NewMoneyBRLFromFloat(45.90))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name cannot be empty")
	})

	t.Run("fails with name too long", func(t *testing.T) {
		_, err := NewProduct(tenantID, storeID, strings.Repeat("a", 201), valueobject.NewMoneyBRLFromFloat(45.90))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed 200 characters")
	})

	t.Run("fails with zero price", func(t *testing.T) {
		_, err := NewProduct(tenantID, storeID, "Pizza", valueobject.ZeroBRL())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "greater than zero")
	})

	t.Run("fails with negative price", func(t *testing.T) {
		_, err := NewProduct(tenantID, storeID, "Pizza", valueobject.NewMoneyBRLFromFloat(-1.00))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "greater than zero")
	})
}

func TestProductPricing(t *testing.T) {
	tenantID := uuid.New()
	storeID := uuid.New()

	newProduct := func(t *testing.T) *Product {
		product, err := NewProduct(tenantID, storeID, "Pizza Margherita", valueobject.NewMoneyBRLFromFloat(45.90))
		require.NoError(t, err)
		product.ClearDomainEvents()
		return product
	}

	t.Run("changes list price", func(t *testing.T) {
		product := newProduct(t)

		err := product.SetPrice(valueobject.NewMoneyBRLFromFloat(49.90))
		require.NoError(t, err)
		assert.True(t, product.Price.Equal(decimal.NewFromFloat(49.90)))

		events := product.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeProductPriceChanged, events[0].EventType())
	})

	t.Run("sets promotional price below list price", func(t *testing.T) {
		product := newProduct(t)

		err := product.SetPromoPrice(valueobject.NewMoneyBRLFromFloat(39.90))
		require.NoError(t, err)
		require.NotNil(t, product.PromoPrice)
		assert.True(t, product.HasPromo())
		assert.True(t, product.EffectivePrice().Amount().Equal(decimal.NewFromFloat(39.90)))
		assert.True(t, product.ListPrice().Amount().Equal(decimal.NewFromFloat(45.90)))
	})

	t.Run("fails when promotional price equals list price", func(t *testing.T) {
		product := newProduct(t)

		err := product.SetPromoPrice(valueobject.NewMoneyBRLFromFloat(45.90))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be below the list price")
	})

	t.Run("fails when promotional price exceeds list price", func(t *testing.T) {
		product := newProduct(t)

		err := product.SetPromoPrice(valueobject.NewMoneyBRLFromFloat(50.00))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be below the list price")
	})

	t.Run("fails with zero promotional price", func(t *testing.T) {
		product := newProduct(t)

		err := product.SetPromoPrice(valueobject.ZeroBRL())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "greater than zero")
	})

	t.Run("fails to drop list price below active promo", func(t *testing.T) {
		product := newProduct(t)
		require.NoError(t, product.SetPromoPrice(valueobject.NewMoneyBRLFromFloat(39.90)))

		err := product.SetPrice(valueobject.NewMoneyBRLFromFloat(35.00))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must stay above the promotional price")
	})

	t.Run("clears promotional price", func(t *testing.T) {
		product := newProduct(t)
		require.NoError(t, product.SetPromoPrice(valueobject.NewMoneyBRLFromFloat(39.90)))

		product.ClearPromoPrice()
		assert.False(t, product.HasPromo())
		assert.True(t, product.EffectivePrice().Amount().Equal(decimal.NewFromFloat(45.90)))
	})

	t.Run("clearing promo without one is a no-op", func(t *testing.T) {
		product := newProduct(t)

		product.ClearPromoPrice()
		assert.Empty(t, product.GetDomainEvents())
	})
}

func TestProductStock(t *testing.T) {
	tenantID := uuid.New()
	storeID := uuid.New()

	newProduct := func(t *testing.T) *Product {
		product, err := NewProduct(tenantID, storeID, "Coca-Cola Lata", valueobject.NewMoneyBRLFromFloat(6.50))
		require.NoError(t, err)
		product.ClearDomainEvents()
		return product
	}

	t.Run("decrement on untracked product is a no-op", func(t *testing.T) {
		product := newProduct(t)

		err := product.DecrementStock(5)
		require.NoError(t, err)
		assert.Equal(t, 0, product.StockQuantity)
		assert.True(t, product.IsAvailable())
	})

	t.Run("enables stock tracking with initial quantity", func(t *testing.T) {
		product := newProduct(t)

		err := product.EnableStockTracking(10)
		require.NoError(t, err)
		assert.True(t, product.TrackStock)
		assert.Equal(t, 10, product.StockQuantity)

		events := product.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeProductStockChanged, events[0].EventType())
	})

	t.Run("fails to enable tracking with negative quantity", func(t *testing.T) {
		product := newProduct(t)

		err := product.EnableStockTracking(-1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be negative")
	})

	t.Run("decrements tracked stock", func(t *testing.T) {
		product := newProduct(t)
		require.NoError(t, product.EnableStockTracking(10))

		err := product.DecrementStock(3)
		require.NoError(t, err)
		assert.Equal(t, 7, product.StockQuantity)
	})

	t.Run("fails to decrement more than available", func(t *testing.T) {
		product := newProduct(t)
		require.NoError(t, product.EnableStockTracking(2))

		err := product.DecrementStock(3)
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Equal(t, 2, product.StockQuantity)
	})

	t.Run("fails to decrement zero quantity", func(t *testing.T) {
		product := newProduct(t)

		err := product.DecrementStock(0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "greater than zero")
	})

	t.Run("increments tracked stock", func(t *testing.T) {
		product := newProduct(t)
		require.NoError(t, product.EnableStockTracking(5))

		err := product.IncrementStock(2)
		require.NoError(t, err)
		assert.Equal(t, 7, product.StockQuantity)
	})

	t.Run("fails to set quantity when not tracking", func(t *testing.T) {
		product := newProduct(t)

		err := product.SetStockQuantity(10)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not track stock")
	})

	t.Run("sold out product is unavailable", func(t *testing.T) {
		product := newProduct(t)
		require.NoError(t, product.EnableStockTracking(1))
		require.NoError(t, product.DecrementStock(1))

		assert.False(t, product.IsAvailable())
	})

	t.Run("disabling tracking restores availability", func(t *testing.T) {
		product := newProduct(t)
		require.NoError(t, product.EnableStockTracking(0))
		assert.False(t, product.IsAvailable())

		product.DisableStockTracking()
		assert.False(t, product.TrackStock)
		assert.True(t, product.IsAvailable())
	})
}

func TestProductCategoryAndGroups(t *testing.T) {
	tenantID := uuid.New()
	storeID := uuid.New()
	product, err := NewProduct(tenantID, storeID, "Pizza Margherita", valueobject.NewMoneyBRLFromFloat(45.90))
	require.NoError(t, err)

	t.Run("assigns and removes category", func(t *testing.T) {
		categoryID := uuid.New()
		product.SetCategory(&categoryID)
		assert.True(t, product.HasCategory())
		assert.Equal(t, categoryID, *product.CategoryID)

		product.SetCategory(nil)
		assert.False(t, product.HasCategory())
	})

	t.Run("sets additional groups deduplicating ids", func(t *testing.T) {
		groupA := uuid.New()
		groupB := uuid.New()

		err := product.SetAdditionalGroups([]uuid.UUID{groupA, groupB, groupA})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{groupA, groupB}, product.AdditionalGroupIDs)
	})

	t.Run("fails with empty group id", func(t *testing.T) {
		err := product.SetAdditionalGroups([]uuid.UUID{uuid.Nil})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be empty")
	})
}

func TestProductStatusTransitions(t *testing.T) {
	tenantID := uuid.New()
	storeID := uuid.New()

	t.Run("deactivates active product", func(t *testing.T) {
		product, err := NewProduct(tenantID, storeID, "Pizza", valueobject.NewMoneyBRLFromFloat(45.90))
		require.NoError(t, err)
		product.ClearDomainEvents()

		err = product.Deactivate()
		require.NoError(t, err)
		assert.False(t, product.IsActive())
		assert.False(t, product.IsAvailable())

		events := product.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeProductStatusChanged, events[0].EventType())
	})

	t.Run("fails to deactivate inactive product", func(t *testing.T) {
		product, err := NewProduct(tenantID, storeID, "Pizza", valueobject.NewMoneyBRLFromFloat(45.90))
		require.NoError(t, err)
		require.NoError(t, product.Deactivate())

		err = product.Deactivate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already inactive")
	})

	t.Run("reactivates inactive product", func(t *testing.T) {
		product, err := NewProduct(tenantID, storeID, "Pizza", valueobject.NewMoneyBRLFromFloat(45.90))
		require.NoError(t, err)
		require.NoError(t, product.Deactivate())

		err = product.Activate()
		require.NoError(t, err)
		assert.True(t, product.IsActive())
	})
}
