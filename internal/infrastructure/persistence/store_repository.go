package persistence

import (
	"context"
	"errors"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/store"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStoreRepository implements StoreRepository using GORM
type GormStoreRepository struct {
	db *gorm.DB
}

// NewGormStoreRepository creates a new GormStoreRepository
func NewGormStoreRepository(db *gorm.DB) *GormStoreRepository {
	return &GormStoreRepository{db: db}
}

// Create creates a new store
func (r *GormStoreRepository) Create(ctx context.Context, s *store.Store) error {
	return r.db.WithContext(ctx).Create(s).Error
}

// Update updates an existing store
func (r *GormStoreRepository) Update(ctx context.Context, s *store.Store) error {
	result := r.db.WithContext(ctx).Save(s)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a store by ID
func (r *GormStoreRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&store.Store{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a store by ID
func (r *GormStoreRepository) FindByID(ctx context.Context, id uuid.UUID) (*store.Store, error) {
	var s store.Store
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindByIDForTenant finds a store by ID scoped to a tenant
func (r *GormStoreRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*store.Store, error) {
	var s store.Store
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindAll finds all stores for a tenant with optional filtering
func (r *GormStoreRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter *store.StoreFilter) ([]*store.Store, error) {
	var stores []*store.Store
	query := r.db.WithContext(ctx).
		Model(&store.Store{}).
		Where("tenant_id = ?", tenantID)

	if filter != nil {
		if filter.Keyword != "" {
			searchPattern := "%" + filter.Keyword + "%"
			query = query.Where("name ILIKE ? OR description ILIKE ?", searchPattern, searchPattern)
		}
		if filter.Status != nil {
			query = query.Where("status = ?", *filter.Status)
		}
	}

	query = query.Order("is_default DESC, name ASC")

	if filter != nil {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		limit := filter.Limit
		if limit <= 0 {
			limit = 20
		}
		if limit > 100 {
			limit = 100
		}
		query = query.Offset((page - 1) * limit).Limit(limit)
	}

	if err := query.Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

// FindDefault finds the tenant's default store
func (r *GormStoreRepository) FindDefault(ctx context.Context, tenantID uuid.UUID) (*store.Store, error) {
	var s store.Store
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND is_default = ?", tenantID, true).
		First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindActive finds all active stores for a tenant
func (r *GormStoreRepository) FindActive(ctx context.Context, tenantID uuid.UUID) ([]*store.Store, error) {
	var stores []*store.Store
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status = ?", tenantID, store.StoreStatusActive).
		Order("is_default DESC, name ASC").
		Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

// ClearDefault clears the default flag on every store of the tenant
func (r *GormStoreRepository) ClearDefault(ctx context.Context, tenantID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&store.Store{}).
		Where("tenant_id = ? AND is_default = ?", tenantID, true).
		Update("is_default", false).Error
}

// Count counts stores for a tenant
func (r *GormStoreRepository) Count(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&store.Store{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormStoreRepository implements StoreRepository
var _ store.StoreRepository = (*GormStoreRepository)(nil)
