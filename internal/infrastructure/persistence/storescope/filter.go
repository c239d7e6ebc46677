// Package storescope provides store-level visibility filtering for GORM queries.
//
// Admin users belong to groups, and a group either sees every store of the
// tenant or an explicit allow-list. The middleware resolves the merged scope
// of the authenticated user's groups and stores it in the request context;
// repositories apply it to queries over store-scoped tables so a restricted
// user never sees another store's orders or products.
//
// Usage:
//
//	ctx = storescope.WithStoreScope(ctx, scope)
//	filter := storescope.FromContext(ctx)
//	scopedDB := filter.Apply(db)
//	scopedDB.Find(&orders) // WHERE store_id IN (...) is auto-added
package storescope

import (
	"context"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/identity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// contextKey is the context key type for store scopes
type contextKey string

// ScopeKey is the context key under which the merged store scope is stored
const ScopeKey contextKey = "store_scope"

// Filter applies store visibility filtering to GORM queries
type Filter struct {
	scope *identity.StoreScope
}

// WithStoreScope stores the merged store scope of the current user in the context
func WithStoreScope(ctx context.Context, scope identity.StoreScope) context.Context {
	return context.WithValue(ctx, ScopeKey, scope)
}

// FromContext builds a Filter from the scope stored in the context.
// A context without a scope yields an unrestricted filter, so system
// calls and the public storefront are never filtered by accident.
func FromContext(ctx context.Context) *Filter {
	if scope, ok := ctx.Value(ScopeKey).(identity.StoreScope); ok {
		return &Filter{scope: &scope}
	}
	return &Filter{}
}

// NewFilter builds a Filter for an explicit scope
func NewFilter(scope identity.StoreScope) *Filter {
	return &Filter{scope: &scope}
}

// MergeScopes merges the store scopes of several groups, widest wins.
// Any group with AllStores grants full visibility; otherwise the
// allow-lists are unioned.
func MergeScopes(scopes ...identity.StoreScope) identity.StoreScope {
	seen := make(map[uuid.UUID]struct{})
	merged := identity.StoreScope{}
	for _, s := range scopes {
		if s.AllStores {
			return identity.StoreScope{AllStores: true}
		}
		for _, id := range s.StoreIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			merged.StoreIDs = append(merged.StoreIDs, id)
		}
	}
	return merged
}

// Apply adds the store visibility condition to the query. Unrestricted
// filters leave the query untouched; a restricted scope with no stores
// yields an empty result rather than leaking rows.
func (f *Filter) Apply(db *gorm.DB) *gorm.DB {
	if f.scope == nil || f.scope.AllStores {
		return db
	}
	if len(f.scope.StoreIDs) == 0 {
		return db.Where("1 = 0")
	}
	return db.Where("store_id IN ?", f.scope.StoreIDs)
}

// ApplyToColumn is Apply with an explicit column, for queries whose
// store column carries a table prefix
func (f *Filter) ApplyToColumn(db *gorm.DB, column string) *gorm.DB {
	if f.scope == nil || f.scope.AllStores {
		return db
	}
	if len(f.scope.StoreIDs) == 0 {
		return db.Where("1 = 0")
	}
	return db.Where(column+" IN ?", f.scope.StoreIDs)
}

// Scope returns Apply as a GORM scope function
func (f *Filter) Scope() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return f.Apply(db)
	}
}

// Restricted reports whether the filter limits visibility at all
func (f *Filter) Restricted() bool {
	return f.scope != nil && !f.scope.AllStores
}

// AllowsStore reports whether the filter grants visibility of one store
func (f *Filter) AllowsStore(storeID uuid.UUID) bool {
	if f.scope == nil {
		return true
	}
	return f.scope.AllowsStore(storeID)
}

// AllowedStoreIDs returns the allow-list, nil when unrestricted
func (f *Filter) AllowedStoreIDs() []uuid.UUID {
	if f.scope == nil || f.scope.AllStores {
		return nil
	}
	return f.scope.StoreIDs
}
