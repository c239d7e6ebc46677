package persistence

import (
	"context"
	"errors"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/catalog"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAdditionalGroupRepository implements AdditionalGroupRepository using GORM
type GormAdditionalGroupRepository struct {
	db *gorm.DB
}

// NewGormAdditionalGroupRepository creates a new GormAdditionalGroupRepository
func NewGormAdditionalGroupRepository(db *gorm.DB) *GormAdditionalGroupRepository {
	return &GormAdditionalGroupRepository{db: db}
}

// Create creates a new group with its items
func (r *GormAdditionalGroupRepository) Create(ctx context.Context, group *catalog.AdditionalGroup) error {
	return r.db.WithContext(ctx).Create(group).Error
}

// Update updates a group and replaces its items
func (r *GormAdditionalGroupRepository) Update(ctx context.Context, group *catalog.AdditionalGroup) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Omit("Items").Save(group)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		if err := tx.Delete(&catalog.AdditionalItem{}, "group_id = ?", group.ID).Error; err != nil {
			return err
		}
		if len(group.Items) == 0 {
			return nil
		}
		return tx.Create(&group.Items).Error
	})
}

// Delete deletes a group and its items
func (r *GormAdditionalGroupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&catalog.AdditionalItem{}, "group_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&catalog.ProductAdditionalGroup{}, "group_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&catalog.AdditionalGroup{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// FindByID finds a group by ID with its items
func (r *GormAdditionalGroupRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.AdditionalGroup, error) {
	var group catalog.AdditionalGroup
	if err := r.db.WithContext(ctx).
		Preload("Items", itemOrder).
		First(&group, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &group, nil
}

// FindByIDForStore finds a group by ID scoped to a store
func (r *GormAdditionalGroupRepository) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*catalog.AdditionalGroup, error) {
	var group catalog.AdditionalGroup
	if err := r.db.WithContext(ctx).
		Preload("Items", itemOrder).
		Where("store_id = ? AND id = ?", storeID, id).
		First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &group, nil
}

// FindByIDs finds multiple groups by IDs with their items
func (r *GormAdditionalGroupRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*catalog.AdditionalGroup, error) {
	if len(ids) == 0 {
		return []*catalog.AdditionalGroup{}, nil
	}
	var groups []*catalog.AdditionalGroup
	if err := r.db.WithContext(ctx).
		Preload("Items", itemOrder).
		Where("id IN ?", ids).
		Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// FindByStore finds all groups of a store ordered by SortOrder
func (r *GormAdditionalGroupRepository) FindByStore(ctx context.Context, storeID uuid.UUID) ([]*catalog.AdditionalGroup, error) {
	var groups []*catalog.AdditionalGroup
	if err := r.db.WithContext(ctx).
		Preload("Items", itemOrder).
		Where("store_id = ?", storeID).
		Order("sort_order ASC, name ASC").
		Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// FindByProduct finds the groups linked to a product, in link order
func (r *GormAdditionalGroupRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]*catalog.AdditionalGroup, error) {
	var groups []*catalog.AdditionalGroup
	if err := r.db.WithContext(ctx).
		Preload("Items", itemOrder).
		Joins("JOIN product_additional_groups pag ON pag.group_id = additional_groups.id").
		Where("pag.product_id = ?", productID).
		Order("pag.sort_order ASC").
		Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// CountProductLinks counts how many products reference a group
func (r *GormAdditionalGroupRepository) CountProductLinks(ctx context.Context, groupID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.ProductAdditionalGroup{}).
		Where("group_id = ?", groupID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// itemOrder orders preloaded items for display
func itemOrder(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC, name ASC")
}
