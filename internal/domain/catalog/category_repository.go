package catalog

import (
	"context"

	"github.com/google/uuid"
)

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// Create creates a new category
	Create(ctx context.Context, category *Category) error

	// Update updates an existing category
	Update(ctx context.Context, category *Category) error

	// Delete deletes a category by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a category by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// FindByIDForStore finds a category by ID scoped to a store
	FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*Category, error)

	// FindByStore finds all categories of a store ordered by SortOrder
	FindByStore(ctx context.Context, storeID uuid.UUID) ([]*Category, error)

	// FindActiveByStore finds the active categories of a store ordered by SortOrder
	FindActiveByStore(ctx context.Context, storeID uuid.UUID) ([]*Category, error)

	// ExistsByName checks if a category with the given name exists in a store
	ExistsByName(ctx context.Context, storeID uuid.UUID, name string) (bool, error)

	// CountProducts counts the products assigned to a category
	CountProducts(ctx context.Context, categoryID uuid.UUID) (int64, error)

	// Reorder applies the given ordered ID list as the new SortOrder sequence
	Reorder(ctx context.Context, storeID uuid.UUID, orderedIDs []uuid.UUID) error
}
