package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ModuleAccess is the resolved module availability of one tenant: which
// modules its plan enables and any usage limits attached. The gating
// middleware consults it on every admin request, so resolutions are
// cached per tenant.
type ModuleAccess struct {
	TenantID   uuid.UUID          `json:"tenant_id"`
	Plan       TenantPlan         `json:"plan"`
	Enabled    map[ModuleKey]bool `json:"enabled"`
	Limits     map[ModuleKey]*int `json:"limits,omitempty"`
	ResolvedAt time.Time          `json:"resolved_at"`
}

// NewModuleAccess resolves a module list into the per-tenant access view
func NewModuleAccess(tenantID uuid.UUID, plan TenantPlan, modules []PlanModule) *ModuleAccess {
	access := &ModuleAccess{
		TenantID:   tenantID,
		Plan:       plan,
		Enabled:    make(map[ModuleKey]bool, len(modules)),
		Limits:     make(map[ModuleKey]*int),
		ResolvedAt: time.Now(),
	}
	for i := range modules {
		access.Enabled[modules[i].Module] = modules[i].Enabled
		if modules[i].Enabled && modules[i].Limit != nil {
			limit := *modules[i].Limit
			access.Limits[modules[i].Module] = &limit
		}
	}
	return access
}

// Has reports whether the module is enabled for the tenant
func (a *ModuleAccess) Has(module ModuleKey) bool {
	return a.Enabled[module]
}

// Limit returns the usage limit of an enabled module. ok is false when
// the module is disabled; a nil limit with ok true means unlimited.
func (a *ModuleAccess) Limit(module ModuleKey) (limit *int, ok bool) {
	if !a.Enabled[module] {
		return nil, false
	}
	return a.Limits[module], true
}

// ModuleAccessCache caches resolved module access per tenant. Get returns
// nil on a miss; lookups are best-effort and never block resolution.
type ModuleAccessCache interface {
	// Get retrieves the cached access of a tenant, nil on a miss
	Get(ctx context.Context, tenantID uuid.UUID) (*ModuleAccess, error)

	// Set stores the resolved access under the given TTL
	Set(ctx context.Context, access *ModuleAccess, ttl time.Duration) error

	// Delete drops the cached access of one tenant
	Delete(ctx context.Context, tenantID uuid.UUID) error

	// InvalidateAll drops every cached access entry
	InvalidateAll(ctx context.Context) error

	// Close releases any resources held by the cache
	Close() error
}

// ModuleCacheConfig tunes the module access cache tiers
type ModuleCacheConfig struct {
	// EntryTTL is how long resolved access stays in the shared cache
	EntryTTL time.Duration

	// LocalTTL is how long entries stay in the per-instance tier
	LocalTTL time.Duration

	// PubSubChannel carries invalidation messages between instances
	PubSubChannel string
}

// DefaultModuleCacheConfig returns the default cache tuning
func DefaultModuleCacheConfig() ModuleCacheConfig {
	return ModuleCacheConfig{
		EntryTTL:      5 * time.Minute,
		LocalTTL:      30 * time.Second,
		PubSubChannel: "roksell:module_access:invalidate",
	}
}

// Module cache invalidation actions
const (
	ModuleCacheActionTenant = "tenant"
	ModuleCacheActionAll    = "all"
)

// ModuleCacheUpdateMessage is broadcast over Pub/Sub when cached access
// becomes stale, so other instances evict their local tier
type ModuleCacheUpdateMessage struct {
	Action    string `json:"action"`
	TenantID  string `json:"tenant_id,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// ModuleCacheStats reports hit and miss counts across the cache tiers
type ModuleCacheStats struct {
	LocalHits    int64   `json:"local_hits"`
	LocalMisses  int64   `json:"local_misses"`
	SharedHits   int64   `json:"shared_hits"`
	SharedMisses int64   `json:"shared_misses"`
	HitRatio     float64 `json:"hit_ratio"`
	Entries      int64   `json:"entries"`
}
