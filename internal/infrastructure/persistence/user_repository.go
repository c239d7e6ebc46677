package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/identity"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormUserRepository implements UserRepository using GORM. The interface
// carries no tenant parameters; every query is scoped to the tenant in
// the request context through TenantDB.
type GormUserRepository struct {
	db *tenant.TenantDB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: tenant.NewTenantDB(db)}
}

// Create creates a new user
func (r *GormUserRepository) Create(ctx context.Context, user *identity.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// Update updates an existing user
func (r *GormUserRepository) Update(ctx context.Context, user *identity.User) error {
	result := r.db.WithContext(ctx).Save(user)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a user by ID
func (r *GormUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// Delete group assignments first
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", id).
		Delete(&identity.UserGroup{}).Error; err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&identity.User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var user identity.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email within the tenant
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	if email == "" {
		return nil, shared.ErrNotFound
	}
	var user identity.User
	if err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(email)).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByPhone finds a user by phone within the tenant
func (r *GormUserRepository) FindByPhone(ctx context.Context, phone string) (*identity.User, error) {
	if phone == "" {
		return nil, shared.ErrNotFound
	}
	var user identity.User
	if err := r.db.WithContext(ctx).
		Where("phone = ?", phone).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindAll returns all users for the current tenant with pagination
func (r *GormUserRepository) FindAll(ctx context.Context, filter identity.UserFilter) ([]*identity.User, int64, error) {
	var users []*identity.User
	var total int64

	query := r.db.WithContext(ctx).Model(&identity.User{})
	query = r.applyFilter(query, filter)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Apply sorting with whitelist validation to prevent SQL injection
	sortField := ValidateSortField(filter.SortBy, UserSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.SortOrder)
	query = query.Order(sortField + " " + sortOrder)

	query = query.Offset(filter.Offset()).Limit(filter.Limit())

	if err := query.Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// FindByGroupID finds all users assigned to a group. The membership
// lookup is a subquery so the tenant scope stays unambiguous.
func (r *GormUserRepository) FindByGroupID(ctx context.Context, groupID uuid.UUID) ([]*identity.User, error) {
	var users []*identity.User
	memberIDs := r.db.DB().Model(&identity.UserGroup{}).
		Select("user_id").
		Where("group_id = ?", groupID)

	if err := r.db.WithContext(ctx).
		Where("id IN (?)", memberIDs).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// FindOwner finds the tenant owner account
func (r *GormUserRepository) FindOwner(ctx context.Context) (*identity.User, error) {
	var user identity.User
	if err := r.db.WithContext(ctx).
		Where("is_owner = ?", true).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ExistsByEmail checks if an email already exists within the tenant
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&identity.User{}).
		Where("LOWER(email) = ?", strings.ToLower(email)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// SaveUserGroups saves the user's group assignments (replaces existing)
func (r *GormUserRepository) SaveUserGroups(ctx context.Context, user *identity.User) error {
	return r.db.Transaction(ctx, func(tx *gorm.DB) error {
		// Delete existing assignments
		if err := tx.Where("user_id = ?", user.ID).Delete(&identity.UserGroup{}).Error; err != nil {
			return err
		}

		// Insert new assignments
		if len(user.GroupIDs) > 0 {
			assignments := make([]identity.UserGroup, len(user.GroupIDs))
			for i, groupID := range user.GroupIDs {
				assignments[i] = identity.UserGroup{
					UserID:    user.ID,
					GroupID:   groupID,
					TenantID:  user.TenantID,
					CreatedAt: time.Now(),
				}
			}
			if err := tx.Create(&assignments).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// LoadUserGroups loads the user's group assignments from the database
func (r *GormUserRepository) LoadUserGroups(ctx context.Context, user *identity.User) error {
	var assignments []identity.UserGroup
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", user.ID).
		Find(&assignments).Error; err != nil {
		return err
	}

	groupIDs := make([]uuid.UUID, len(assignments))
	for i, assignment := range assignments {
		groupIDs[i] = assignment.GroupID
	}
	user.GroupIDs = groupIDs

	return nil
}

// Count returns the total number of users for the tenant
func (r *GormUserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&identity.User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormUserRepository) applyFilter(query *gorm.DB, filter identity.UserFilter) *gorm.DB {
	// Apply keyword search
	if filter.Keyword != "" {
		searchPattern := "%" + filter.Keyword + "%"
		query = query.Where(
			"name ILIKE ? OR email ILIKE ? OR phone ILIKE ?",
			searchPattern, searchPattern, searchPattern,
		)
	}

	// Apply status filter
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	// Apply group filter as a subquery to keep the tenant scope unambiguous
	if filter.GroupID != nil {
		memberIDs := r.db.DB().Model(&identity.UserGroup{}).
			Select("user_id").
			Where("group_id = ?", *filter.GroupID)
		query = query.Where("id IN (?)", memberIDs)
	}

	return query
}

// Ensure GormUserRepository implements UserRepository
var _ identity.UserRepository = (*GormUserRepository)(nil)
