package identity

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AccessLevel represents the level of access a group grants over a module
type AccessLevel string

const (
	AccessNone  AccessLevel = "none"  // Module hidden
	AccessRead  AccessLevel = "read"  // List/detail only
	AccessWrite AccessLevel = "write" // Full access
)

// validAccessLevel reports whether the level is one of the known values
func validAccessLevel(level AccessLevel) bool {
	switch level {
	case AccessNone, AccessRead, AccessWrite:
		return true
	}
	return false
}

// ModulePermissions maps a module key (e.g. "catalog", "orders") to the
// access level the group grants over it. Modules absent from the map are
// treated as AccessNone.
type ModulePermissions map[string]AccessLevel

// StoreScope describes which stores a group's members can see.
// AllStores true means no restriction; otherwise StoreIDs is the allow-list.
type StoreScope struct {
	AllStores bool        `json:"all_stores"`
	StoreIDs  []uuid.UUID `json:"store_ids,omitempty"`
}

// AllowsStore reports whether the scope grants visibility of the given store
func (s StoreScope) AllowsStore(storeID uuid.UUID) bool {
	if s.AllStores {
		return true
	}
	for _, id := range s.StoreIDs {
		if id == storeID {
			return true
		}
	}
	return false
}

// Group is a named permission set assigned to admin users. It scopes both
// module access and store visibility.
type Group struct {
	shared.TenantAggregateRoot
	Name        string         `gorm:"type:varchar(100);not null"`
	Description string         `gorm:"type:varchar(500)"`
	IsSystem    bool           `gorm:"not null;default:false"` // System groups cannot be deleted
	Permissions datatypes.JSON `gorm:"type:jsonb"`             // ModulePermissions
	Scope       datatypes.JSON `gorm:"type:jsonb"`             // StoreScope

	permissions ModulePermissions `gorm:"-"`
	scope       *StoreScope       `gorm:"-"`
}

// TableName returns the table name for GORM
func (Group) TableName() string {
	return "groups"
}

// NewGroup creates a new group with required fields. A new group starts with
// no module permissions and visibility of all stores.
func NewGroup(tenantID uuid.UUID, name string) (*Group, error) {
	if err := validateGroupName(name); err != nil {
		return nil, err
	}

	group := &Group{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                strings.TrimSpace(name),
	}
	if err := group.SetPermissions(ModulePermissions{}); err != nil {
		return nil, err
	}
	if err := group.SetStoreScope(StoreScope{AllStores: true}); err != nil {
		return nil, err
	}

	group.AddDomainEvent(NewGroupCreatedEvent(group))

	return group, nil
}

// NewOwnerGroup creates the built-in "Administradores" group with write
// access to every module. It is created alongside the tenant.
func NewOwnerGroup(tenantID uuid.UUID) (*Group, error) {
	group, err := NewGroup(tenantID, "Administradores")
	if err != nil {
		return nil, err
	}
	group.IsSystem = true

	perms := ModulePermissions{}
	for _, key := range AllModuleKeys() {
		perms[key] = AccessWrite
	}
	if err := group.SetPermissions(perms); err != nil {
		return nil, err
	}

	return group, nil
}

// Update updates the group's basic information
func (g *Group) Update(name, description string) error {
	if err := validateGroupName(name); err != nil {
		return err
	}
	if len(description) > 500 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 500 characters")
	}

	g.Name = strings.TrimSpace(name)
	g.Description = strings.TrimSpace(description)
	g.UpdatedAt = time.Now()
	g.IncrementVersion()

	g.AddDomainEvent(NewGroupUpdatedEvent(g))

	return nil
}

// SetPermissions replaces the group's module permission map
func (g *Group) SetPermissions(perms ModulePermissions) error {
	for module, level := range perms {
		if !IsKnownModuleKey(module) {
			return shared.NewDomainError("INVALID_MODULE", "Unknown module key: "+module)
		}
		if !validAccessLevel(level) {
			return shared.NewDomainError("INVALID_ACCESS_LEVEL", "Unknown access level: "+string(level))
		}
	}

	data, err := json.Marshal(perms)
	if err != nil {
		return shared.NewDomainError("INVALID_PERMISSIONS", "Could not encode permissions")
	}

	g.Permissions = data
	g.permissions = perms
	g.UpdatedAt = time.Now()
	g.IncrementVersion()

	return nil
}

// SetStoreScope replaces the group's store visibility scope
func (g *Group) SetStoreScope(scope StoreScope) error {
	if !scope.AllStores && len(scope.StoreIDs) == 0 {
		return shared.NewDomainError("INVALID_SCOPE", "Store scope must allow all stores or list at least one store")
	}

	data, err := json.Marshal(scope)
	if err != nil {
		return shared.NewDomainError("INVALID_SCOPE", "Could not encode store scope")
	}

	g.Scope = data
	g.scope = &scope
	g.UpdatedAt = time.Now()
	g.IncrementVersion()

	return nil
}

// GetPermissions decodes and returns the module permission map
func (g *Group) GetPermissions() (ModulePermissions, error) {
	if g.permissions != nil {
		return g.permissions, nil
	}
	perms := ModulePermissions{}
	if len(g.Permissions) > 0 {
		if err := json.Unmarshal(g.Permissions, &perms); err != nil {
			return nil, shared.NewDomainError("INVALID_PERMISSIONS", "Could not decode permissions")
		}
	}
	g.permissions = perms
	return perms, nil
}

// GetStoreScope decodes and returns the store visibility scope
func (g *Group) GetStoreScope() (StoreScope, error) {
	if g.scope != nil {
		return *g.scope, nil
	}
	scope := StoreScope{AllStores: true}
	if len(g.Scope) > 0 {
		if err := json.Unmarshal(g.Scope, &scope); err != nil {
			return StoreScope{}, shared.NewDomainError("INVALID_SCOPE", "Could not decode store scope")
		}
	}
	g.scope = &scope
	return scope, nil
}

// AccessFor returns the access level the group grants over a module
func (g *Group) AccessFor(module string) AccessLevel {
	perms, err := g.GetPermissions()
	if err != nil {
		return AccessNone
	}
	if level, ok := perms[module]; ok {
		return level
	}
	return AccessNone
}

// CanRead reports whether the group grants at least read access to a module
func (g *Group) CanRead(module string) bool {
	level := g.AccessFor(module)
	return level == AccessRead || level == AccessWrite
}

// CanWrite reports whether the group grants write access to a module
func (g *Group) CanWrite(module string) bool {
	return g.AccessFor(module) == AccessWrite
}

func validateGroupName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Group name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Group name cannot exceed 100 characters")
	}
	return nil
}
