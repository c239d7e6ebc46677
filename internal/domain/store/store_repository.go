package store

import (
	"context"

	"github.com/google/uuid"
)

// StoreFilter defines the filter criteria for store queries
type StoreFilter struct {
	Keyword string // Search in name and description
	Status  *StoreStatus
	// Pagination
	Page  int
	Limit int
}

// StoreRepository defines the interface for store persistence
type StoreRepository interface {
	// Create creates a new store
	Create(ctx context.Context, store *Store) error

	// Update updates an existing store
	Update(ctx context.Context, store *Store) error

	// Delete deletes a store by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a store by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Store, error)

	// FindByIDForTenant finds a store by ID scoped to a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Store, error)

	// FindAll finds all stores for a tenant with optional filtering
	FindAll(ctx context.Context, tenantID uuid.UUID, filter *StoreFilter) ([]*Store, error)

	// FindDefault finds the tenant's default store
	FindDefault(ctx context.Context, tenantID uuid.UUID) (*Store, error)

	// FindActive finds all active stores for a tenant
	FindActive(ctx context.Context, tenantID uuid.UUID) ([]*Store, error)

	// ClearDefault clears the default flag on every store of the tenant.
	// Used before promoting another store to default.
	ClearDefault(ctx context.Context, tenantID uuid.UUID) error

	// Count counts stores for a tenant
	Count(ctx context.Context, tenantID uuid.UUID) (int64, error)
}
