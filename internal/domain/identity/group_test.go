package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGroup(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates group with all stores visible and no permissions", func(t *testing.T) {
		group, err := NewGroup(tenantID, "Atendentes")

		require.NoError(t, err)
		assert.Equal(t, "Atendentes", group.Name)
		assert.False(t, group.IsSystem)

		scope, err := group.GetStoreScope()
		require.NoError(t, err)
		assert.True(t, scope.AllStores)

		assert.Equal(t, AccessNone, group.AccessFor(string(ModuleOrders)))
		assert.Len(t, group.GetDomainEvents(), 1)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		group, err := NewGroup(tenantID, "")

		assert.Error(t, err)
		assert.Nil(t, group)
		assert.Contains(t, err.Error(), "name cannot be empty")
	})
}

func TestNewOwnerGroup(t *testing.T) {
	t.Run("grants write access to every module", func(t *testing.T) {
		group, err := NewOwnerGroup(uuid.New())

		require.NoError(t, err)
		assert.Equal(t, "Administradores", group.Name)
		assert.True(t, group.IsSystem)

		for _, key := range AllModuleKeys() {
			assert.True(t, group.CanWrite(key), "owner group should write module %s", key)
		}
	})
}

func TestGroupSetPermissions(t *testing.T) {
	t.Run("sets permissions for known modules", func(t *testing.T) {
		group, _ := NewGroup(uuid.New(), "Atendentes")

		err := group.SetPermissions(ModulePermissions{
			string(ModuleOrders):    AccessWrite,
			string(ModuleCatalog):   AccessRead,
			string(ModuleCustomers): AccessRead,
		})

		require.NoError(t, err)
		assert.True(t, group.CanWrite(string(ModuleOrders)))
		assert.True(t, group.CanRead(string(ModuleCatalog)))
		assert.False(t, group.CanWrite(string(ModuleCatalog)))
		assert.False(t, group.CanRead(string(ModuleCampaigns)))
	})

	t.Run("rejects unknown module key", func(t *testing.T) {
		group, _ := NewGroup(uuid.New(), "Atendentes")

		err := group.SetPermissions(ModulePermissions{"warehouse": AccessRead})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Unknown module key")
	})

	t.Run("rejects unknown access level", func(t *testing.T) {
		group, _ := NewGroup(uuid.New(), "Atendentes")

		err := group.SetPermissions(ModulePermissions{string(ModuleOrders): AccessLevel("admin")})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Unknown access level")
	})

	t.Run("permissions survive JSON round trip", func(t *testing.T) {
		group, _ := NewGroup(uuid.New(), "Atendentes")
		_ = group.SetPermissions(ModulePermissions{string(ModuleOrders): AccessWrite})

		// Simulate a reload from the database: raw JSON kept, cache dropped
		reloaded := &Group{
			TenantAggregateRoot: group.TenantAggregateRoot,
			Name:                group.Name,
			Permissions:         group.Permissions,
			Scope:               group.Scope,
		}

		assert.True(t, reloaded.CanWrite(string(ModuleOrders)))
		assert.False(t, reloaded.CanRead(string(ModuleCatalog)))
	})
}

func TestGroupStoreScope(t *testing.T) {
	t.Run("restricts visibility to listed stores", func(t *testing.T) {
		group, _ := NewGroup(uuid.New(), "Loja Centro")
		storeA := uuid.New()
		storeB := uuid.New()

		err := group.SetStoreScope(StoreScope{StoreIDs: []uuid.UUID{storeA}})

		require.NoError(t, err)
		scope, err := group.GetStoreScope()
		require.NoError(t, err)
		assert.True(t, scope.AllowsStore(storeA))
		assert.False(t, scope.AllowsStore(storeB))
	})

	t.Run("rejects empty scope without all stores flag", func(t *testing.T) {
		group, _ := NewGroup(uuid.New(), "Loja Centro")

		err := group.SetStoreScope(StoreScope{})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "at least one store")
	})

	t.Run("all stores scope allows any store", func(t *testing.T) {
		scope := StoreScope{AllStores: true}

		assert.True(t, scope.AllowsStore(uuid.New()))
	})
}

func TestGroupUpdate(t *testing.T) {
	t.Run("updates name and description", func(t *testing.T) {
		group, _ := NewGroup(uuid.New(), "Atendentes")
		group.ClearDomainEvents()

		err := group.Update("Equipe de Balcão", "Atendimento presencial")

		require.NoError(t, err)
		assert.Equal(t, "Equipe de Balcão", group.Name)
		assert.Equal(t, "Atendimento presencial", group.Description)
		assert.Len(t, group.GetDomainEvents(), 1)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		group, _ := NewGroup(uuid.New(), "Atendentes")

		err := group.Update("", "")

		assert.Error(t, err)
	})
}
