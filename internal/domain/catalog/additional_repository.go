package catalog

import (
	"context"

	"github.com/google/uuid"
)

// AdditionalGroupRepository defines the interface for additional group persistence
type AdditionalGroupRepository interface {
	// Create creates a new group with its items
	Create(ctx context.Context, group *AdditionalGroup) error

	// Update updates a group and replaces its items
	Update(ctx context.Context, group *AdditionalGroup) error

	// Delete deletes a group and its items
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a group by ID with its items
	FindByID(ctx context.Context, id uuid.UUID) (*AdditionalGroup, error)

	// FindByIDForStore finds a group by ID scoped to a store
	FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*AdditionalGroup, error)

	// FindByIDs finds multiple groups by IDs with their items
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*AdditionalGroup, error)

	// FindByStore finds all groups of a store ordered by SortOrder
	FindByStore(ctx context.Context, storeID uuid.UUID) ([]*AdditionalGroup, error)

	// FindByProduct finds the groups linked to a product, in link order
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]*AdditionalGroup, error)

	// CountProductLinks counts how many products reference a group
	CountProductLinks(ctx context.Context, groupID uuid.UUID) (int64, error)
}
