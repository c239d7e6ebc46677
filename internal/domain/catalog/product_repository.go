package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductFilter contains filter options for querying products
type ProductFilter struct {
	Keyword    string // Search in name and description
	CategoryID *uuid.UUID
	Status     *ProductStatus
	Featured   *bool
	// Pagination
	Page     int
	PageSize int
	// Sorting
	SortBy    string
	SortOrder string // "asc" or "desc"
}

// NewProductFilter creates a ProductFilter with default values
func NewProductFilter() ProductFilter {
	return ProductFilter{
		Page:      1,
		PageSize:  20,
		SortBy:    "sort_order",
		SortOrder: "asc",
	}
}

// Offset returns the offset for pagination
func (f ProductFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit returns the limit for pagination
func (f ProductFilter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// Create creates a new product
	Create(ctx context.Context, product *Product) error

	// Update updates an existing product
	Update(ctx context.Context, product *Product) error

	// Delete deletes a product by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a product by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDForStore finds a product by ID scoped to a store
	FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*Product, error)

	// FindByIDs finds multiple products by IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Product, error)

	// FindByStore finds products of a store with filtering and pagination
	FindByStore(ctx context.Context, storeID uuid.UUID, filter ProductFilter) ([]*Product, int64, error)

	// FindAvailableByStore finds the products the storefront can sell,
	// ordered for display, with additional group links loaded
	FindAvailableByStore(ctx context.Context, storeID uuid.UUID) ([]*Product, error)

	// FindFeaturedByStore finds the featured products of a store
	FindFeaturedByStore(ctx context.Context, storeID uuid.UUID) ([]*Product, error)

	// SaveAdditionalGroups saves the product's additional group links (replaces existing)
	SaveAdditionalGroups(ctx context.Context, product *Product) error

	// LoadAdditionalGroups loads the product's additional group links
	LoadAdditionalGroups(ctx context.Context, product *Product) error

	// CountForTenant counts all products of a tenant across stores
	CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)

	// CountByCategory counts products assigned to a category
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)
}
