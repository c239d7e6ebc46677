package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/catalog"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductMediaRepository implements ProductMediaRepository using GORM
type GormProductMediaRepository struct {
	db *gorm.DB
}

// NewGormProductMediaRepository creates a new GormProductMediaRepository
func NewGormProductMediaRepository(db *gorm.DB) *GormProductMediaRepository {
	return &GormProductMediaRepository{db: db}
}

// Create creates a new media entry
func (r *GormProductMediaRepository) Create(ctx context.Context, media *catalog.ProductMedia) error {
	return r.db.WithContext(ctx).Create(media).Error
}

// Update updates an existing media entry
func (r *GormProductMediaRepository) Update(ctx context.Context, media *catalog.ProductMedia) error {
	result := r.db.WithContext(ctx).Save(media)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a media entry by ID
func (r *GormProductMediaRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ProductMedia, error) {
	var media catalog.ProductMedia
	if err := r.db.WithContext(ctx).First(&media, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &media, nil
}

// FindByIDForProduct finds a media entry scoped to a product
func (r *GormProductMediaRepository) FindByIDForProduct(ctx context.Context, productID, id uuid.UUID) (*catalog.ProductMedia, error) {
	var media catalog.ProductMedia
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND id = ?", productID, id).
		First(&media).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &media, nil
}

// FindByProduct finds all non-deleted media of a product ordered by sort order
func (r *GormProductMediaRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]*catalog.ProductMedia, error) {
	var media []*catalog.ProductMedia
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND status <> ?", productID, catalog.MediaStatusDeleted).
		Order("sort_order ASC, created_at ASC").
		Find(&media).Error; err != nil {
		return nil, err
	}
	return media, nil
}

// FindActiveByProduct finds confirmed media of a product ordered by sort order
func (r *GormProductMediaRepository) FindActiveByProduct(ctx context.Context, productID uuid.UUID) ([]*catalog.ProductMedia, error) {
	var media []*catalog.ProductMedia
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND status = ?", productID, catalog.MediaStatusActive).
		Order("sort_order ASC, created_at ASC").
		Find(&media).Error; err != nil {
		return nil, err
	}
	return media, nil
}

// FindCover finds the cover image of a product, nil when none is set
func (r *GormProductMediaRepository) FindCover(ctx context.Context, productID uuid.UUID) (*catalog.ProductMedia, error) {
	var media catalog.ProductMedia
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND status = ? AND is_cover = ?", productID, catalog.MediaStatusActive, true).
		First(&media).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &media, nil
}

// FindCoversByProducts finds the cover image of each product, keyed by
// product ID. Products without a cover are absent from the map.
func (r *GormProductMediaRepository) FindCoversByProducts(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]*catalog.ProductMedia, error) {
	covers := make(map[uuid.UUID]*catalog.ProductMedia)
	if len(productIDs) == 0 {
		return covers, nil
	}
	var media []*catalog.ProductMedia
	if err := r.db.WithContext(ctx).
		Where("product_id IN ? AND status = ? AND is_cover = ?", productIDs, catalog.MediaStatusActive, true).
		Find(&media).Error; err != nil {
		return nil, err
	}
	for _, m := range media {
		covers[m.ProductID] = m
	}
	return covers, nil
}

// FindStalePending finds pending entries older than the given age for cleanup
func (r *GormProductMediaRepository) FindStalePending(ctx context.Context, olderThanHours int, limit int) ([]*catalog.ProductMedia, error) {
	if olderThanHours <= 0 {
		return nil, fmt.Errorf("olderThanHours must be positive, got %d", olderThanHours)
	}
	cutoff := time.Now().Add(-time.Duration(olderThanHours) * time.Hour)

	var media []*catalog.ProductMedia
	query := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", catalog.MediaStatusPending, cutoff).
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&media).Error; err != nil {
		return nil, err
	}
	return media, nil
}

// CountActiveByProduct counts confirmed media of a product by kind
func (r *GormProductMediaRepository) CountActiveByProduct(ctx context.Context, productID uuid.UUID, kind catalog.MediaKind) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.ProductMedia{}).
		Where("product_id = ? AND status = ? AND kind = ?", productID, catalog.MediaStatusActive, kind).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ClearCover unsets the cover flag on all images of a product
func (r *GormProductMediaRepository) ClearCover(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&catalog.ProductMedia{}).
		Where("product_id = ? AND is_cover = ?", productID, true).
		Update("is_cover", false).Error
}
