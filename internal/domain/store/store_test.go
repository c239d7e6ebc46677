package store

import (
	"testing"
	"time"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore(t *testing.T) {
	t.Run("creates store with sane defaults", func(t *testing.T) {
		s, err := NewStore(uuid.New(), "Loja Centro")

		require.NoError(t, err)
		assert.Equal(t, "Loja Centro", s.Name)
		assert.Equal(t, StoreStatusActive, s.Status)
		assert.Equal(t, DefaultTimezone, s.Timezone)
		assert.True(t, s.DeliveryEnabled)
		assert.True(t, s.PickupEnabled)
		assert.False(t, s.IsDefault)

		ws, err := s.GetSchedule()
		require.NoError(t, err)
		assert.False(t, ws.HasAnyOpening())

		assert.Len(t, s.GetDomainEvents(), 2) // created + schedule set
	})

	t.Run("fails with empty name", func(t *testing.T) {
		s, err := NewStore(uuid.New(), "  ")

		assert.Error(t, err)
		assert.Nil(t, s)
	})
}

func TestStoreCheckoutOptions(t *testing.T) {
	t.Run("allows delivery only", func(t *testing.T) {
		s, _ := NewStore(uuid.New(), "Loja Centro")

		err := s.SetCheckoutOptions(true, false)

		require.NoError(t, err)
		assert.True(t, s.DeliveryEnabled)
		assert.False(t, s.PickupEnabled)
	})

	t.Run("rejects disabling both delivery and pickup", func(t *testing.T) {
		s, _ := NewStore(uuid.New(), "Loja Centro")

		err := s.SetCheckoutOptions(false, false)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "At least one")
	})
}

func TestStoreMinimumOrder(t *testing.T) {
	t.Run("zero minimum accepts any subtotal", func(t *testing.T) {
		s, _ := NewStore(uuid.New(), "Loja Centro")

		assert.True(t, s.MeetsMinimumOrder(valueobject.NewMoneyBRLFromFloat(0.01)))
	})

	t.Run("enforces configured minimum", func(t *testing.T) {
		s, _ := NewStore(uuid.New(), "Loja Centro")
		require.NoError(t, s.SetMinOrderAmount(valueobject.NewMoneyBRLFromFloat(30)))

		assert.False(t, s.MeetsMinimumOrder(valueobject.NewMoneyBRLFromFloat(29.99)))
		assert.True(t, s.MeetsMinimumOrder(valueobject.NewMoneyBRLFromFloat(30)))
		assert.True(t, s.MeetsMinimumOrder(valueobject.NewMoneyBRLFromFloat(45.50)))
	})

	t.Run("rejects negative minimum", func(t *testing.T) {
		s, _ := NewStore(uuid.New(), "Loja Centro")

		err := s.SetMinOrderAmount(valueobject.NewMoneyBRLFromFloat(-1))

		assert.Error(t, err)
	})
}

func TestStoreTimezone(t *testing.T) {
	t.Run("accepts known timezone", func(t *testing.T) {
		s, _ := NewStore(uuid.New(), "Loja Centro")

		err := s.SetTimezone("America/Manaus")

		require.NoError(t, err)
		assert.Equal(t, "America/Manaus", s.Timezone)
	})

	t.Run("rejects unknown timezone", func(t *testing.T) {
		s, _ := NewStore(uuid.New(), "Loja Centro")

		err := s.SetTimezone("America/Atlantida")

		assert.Error(t, err)
	})
}

func TestStoreOpeningHours(t *testing.T) {
	newStoreWithMondayLunch := func(t *testing.T) *Store {
		t.Helper()
		s, err := NewStore(uuid.New(), "Loja Centro")
		require.NoError(t, err)
		require.NoError(t, s.SetSchedule(scheduleWith(map[time.Weekday][]TimeInterval{
			time.Monday: {{Open: "11:00", Close: "14:00"}},
		})))
		return s
	}

	t.Run("evaluates instants in the store timezone", func(t *testing.T) {
		s := newStoreWithMondayLunch(t)

		// 14:30 UTC on Monday is 11:30 in São Paulo
		assert.True(t, s.IsOpenAt(time.Date(2026, 1, 5, 14, 30, 0, 0, time.UTC)))
		// 13:30 UTC is 10:30 local, before opening
		assert.False(t, s.IsOpenAt(time.Date(2026, 1, 5, 13, 30, 0, 0, time.UTC)))
	})

	t.Run("next valid order time lands on a local opening", func(t *testing.T) {
		s := newStoreWithMondayLunch(t)

		from := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC) // 07:00 local
		next, err := s.NextValidOrderTime(from)

		require.NoError(t, err)
		assert.Equal(t, 11, next.Hour())
		assert.Equal(t, "America/Sao_Paulo", next.Location().String())
	})

	t.Run("blocked dates close the store", func(t *testing.T) {
		s := newStoreWithMondayLunch(t)
		require.NoError(t, s.SetBlockedDates([]string{"2026-01-05"}))

		assert.False(t, s.IsOpenAt(time.Date(2026, 1, 5, 14, 30, 0, 0, time.UTC)))
	})

	t.Run("schedule survives JSON round trip", func(t *testing.T) {
		s := newStoreWithMondayLunch(t)

		reloaded := &Store{
			TenantAggregateRoot: s.TenantAggregateRoot,
			Name:                s.Name,
			Timezone:            s.Timezone,
			Schedule:            s.Schedule,
			BlockedDates:        s.BlockedDates,
		}

		assert.True(t, reloaded.IsOpenAt(time.Date(2026, 1, 5, 14, 30, 0, 0, time.UTC)))
	})

	t.Run("rejects invalid schedule", func(t *testing.T) {
		s, _ := NewStore(uuid.New(), "Loja Centro")

		var ws WeeklySchedule
		ws[int(time.Monday)] = DaySchedule{Enabled: true}

		assert.Error(t, s.SetSchedule(ws))
	})
}

func TestStoreDefaultFlag(t *testing.T) {
	t.Run("default store cannot be deactivated", func(t *testing.T) {
		s, _ := NewStore(uuid.New(), "Loja Centro")
		s.SetDefault(true)

		err := s.Deactivate()

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "default store")
	})

	t.Run("non-default store can be deactivated and reactivated", func(t *testing.T) {
		s, _ := NewStore(uuid.New(), "Loja Bairro")

		require.NoError(t, s.Deactivate())
		assert.False(t, s.IsActive())

		require.NoError(t, s.Activate())
		assert.True(t, s.IsActive())
	})
}
