package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductMediaRepository defines the interface for product media persistence
type ProductMediaRepository interface {
	// Create creates a new media entry
	Create(ctx context.Context, media *ProductMedia) error

	// Update updates an existing media entry
	Update(ctx context.Context, media *ProductMedia) error

	// FindByID finds a media entry by ID
	FindByID(ctx context.Context, id uuid.UUID) (*ProductMedia, error)

	// FindByIDForProduct finds a media entry scoped to a product
	FindByIDForProduct(ctx context.Context, productID, id uuid.UUID) (*ProductMedia, error)

	// FindByProduct finds all non-deleted media of a product ordered by sort order
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]*ProductMedia, error)

	// FindActiveByProduct finds confirmed media of a product ordered by sort order
	FindActiveByProduct(ctx context.Context, productID uuid.UUID) ([]*ProductMedia, error)

	// FindCover finds the cover image of a product, nil when none is set
	FindCover(ctx context.Context, productID uuid.UUID) (*ProductMedia, error)

	// FindCoversByProducts finds the cover image of each product, keyed by
	// product ID. Products without a cover are absent from the map.
	FindCoversByProducts(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]*ProductMedia, error)

	// FindStalePending finds pending entries older than the given age for cleanup
	FindStalePending(ctx context.Context, olderThanHours int, limit int) ([]*ProductMedia, error)

	// CountActiveByProduct counts confirmed media of a product by kind
	CountActiveByProduct(ctx context.Context, productID uuid.UUID, kind MediaKind) (int64, error)

	// ClearCover unsets the cover flag on all images of a product
	ClearCover(ctx context.Context, productID uuid.UUID) error
}
