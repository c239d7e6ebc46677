package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/identity"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormGroupRepository implements GroupRepository using GORM
type GormGroupRepository struct {
	db *gorm.DB
}

// NewGormGroupRepository creates a new GormGroupRepository
func NewGormGroupRepository(db *gorm.DB) *GormGroupRepository {
	return &GormGroupRepository{db: db}
}

// Create creates a new group
func (r *GormGroupRepository) Create(ctx context.Context, group *identity.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

// Update updates an existing group
func (r *GormGroupRepository) Update(ctx context.Context, group *identity.Group) error {
	result := r.db.WithContext(ctx).Save(group)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a group by ID
func (r *GormGroupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// Delete user assignments first
	if err := r.db.WithContext(ctx).
		Where("group_id = ?", id).
		Delete(&identity.UserGroup{}).Error; err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&identity.Group{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a group by ID
func (r *GormGroupRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Group, error) {
	var group identity.Group
	if err := r.db.WithContext(ctx).First(&group, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &group, nil
}

// FindByName finds a group by name within a tenant
func (r *GormGroupRepository) FindByName(ctx context.Context, tenantID uuid.UUID, name string) (*identity.Group, error) {
	var group identity.Group
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND LOWER(name) = ?", tenantID, strings.ToLower(strings.TrimSpace(name))).
		First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &group, nil
}

// FindAll finds all groups for a tenant with optional filtering
func (r *GormGroupRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter *identity.GroupFilter) ([]*identity.Group, error) {
	var groups []*identity.Group
	query := r.db.WithContext(ctx).
		Model(&identity.Group{}).
		Where("tenant_id = ?", tenantID)

	query = r.applyFilter(query, filter)
	query = query.Order("is_system DESC, name ASC")

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

	if err := query.Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// FindByIDs finds multiple groups by IDs
func (r *GormGroupRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*identity.Group, error) {
	if len(ids) == 0 {
		return []*identity.Group{}, nil
	}
	var groups []*identity.Group
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// FindSystemGroups finds all system groups for a tenant
func (r *GormGroupRepository) FindSystemGroups(ctx context.Context, tenantID uuid.UUID) ([]*identity.Group, error) {
	var groups []*identity.Group
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND is_system = ?", tenantID, true).
		Order("name ASC").
		Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// Count counts groups matching the filter
func (r *GormGroupRepository) Count(ctx context.Context, tenantID uuid.UUID, filter *identity.GroupFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&identity.Group{}).
		Where("tenant_id = ?", tenantID)

	query = r.applyFilter(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByName checks if a group with the given name exists in a tenant
func (r *GormGroupRepository) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&identity.Group{}).
		Where("tenant_id = ? AND LOWER(name) = ?", tenantID, strings.ToLower(strings.TrimSpace(name))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountUsersInGroup counts how many users are assigned to a group
func (r *GormGroupRepository) CountUsersInGroup(ctx context.Context, groupID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&identity.UserGroup{}).
		Where("group_id = ?", groupID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormGroupRepository) applyFilter(query *gorm.DB, filter *identity.GroupFilter) *gorm.DB {
	if filter == nil {
		return query
	}

	if filter.Keyword != "" {
		searchPattern := "%" + filter.Keyword + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", searchPattern, searchPattern)
	}

	if filter.IsSystem != nil {
		query = query.Where("is_system = ?", *filter.IsSystem)
	}

	return query
}

// Ensure GormGroupRepository implements GroupRepository
var _ identity.GroupRepository = (*GormGroupRepository)(nil)
