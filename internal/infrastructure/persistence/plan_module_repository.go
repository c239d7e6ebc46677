package persistence

import (
	"context"
	"errors"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/identity"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPlanModuleRepository implements PlanModuleRepository using GORM.
// Plan modules are platform rows shared by every tenant.
type GormPlanModuleRepository struct {
	db *gorm.DB
}

// NewGormPlanModuleRepository creates a new GormPlanModuleRepository
func NewGormPlanModuleRepository(db *gorm.DB) *GormPlanModuleRepository {
	return &GormPlanModuleRepository{db: db}
}

// FindByID finds a plan module by its ID
func (r *GormPlanModuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.PlanModule, error) {
	var module identity.PlanModule
	if err := r.db.WithContext(ctx).First(&module, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &module, nil
}

// FindByPlan finds all module mappings for a plan
func (r *GormPlanModuleRepository) FindByPlan(ctx context.Context, plan identity.TenantPlan) ([]identity.PlanModule, error) {
	var modules []identity.PlanModule
	if err := r.db.WithContext(ctx).
		Where("plan = ?", plan).
		Order("module ASC").
		Find(&modules).Error; err != nil {
		return nil, err
	}
	return modules, nil
}

// FindByPlanAndModule finds a specific module mapping for a plan
func (r *GormPlanModuleRepository) FindByPlanAndModule(ctx context.Context, plan identity.TenantPlan, module identity.ModuleKey) (*identity.PlanModule, error) {
	var row identity.PlanModule
	if err := r.db.WithContext(ctx).
		Where("plan = ? AND module = ?", plan, module).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// FindEnabledByPlan finds all enabled modules for a plan
func (r *GormPlanModuleRepository) FindEnabledByPlan(ctx context.Context, plan identity.TenantPlan) ([]identity.PlanModule, error) {
	var modules []identity.PlanModule
	if err := r.db.WithContext(ctx).
		Where("plan = ? AND enabled = ?", plan, true).
		Order("module ASC").
		Find(&modules).Error; err != nil {
		return nil, err
	}
	return modules, nil
}

// HasModule checks if a plan has a module enabled
func (r *GormPlanModuleRepository) HasModule(ctx context.Context, plan identity.TenantPlan, module identity.ModuleKey) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&identity.PlanModule{}).
		Where("plan = ? AND module = ? AND enabled = ?", plan, module, true).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a plan module
func (r *GormPlanModuleRepository) Save(ctx context.Context, module *identity.PlanModule) error {
	return r.db.WithContext(ctx).Save(module).Error
}

// SaveBatch creates or updates multiple plan modules in a transaction
func (r *GormPlanModuleRepository) SaveBatch(ctx context.Context, modules []identity.PlanModule) error {
	if len(modules) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range modules {
			if err := tx.Save(&modules[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete deletes a plan module
func (r *GormPlanModuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&identity.PlanModule{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteByPlan deletes all module mappings for a plan
func (r *GormPlanModuleRepository) DeleteByPlan(ctx context.Context, plan identity.TenantPlan) error {
	return r.db.WithContext(ctx).
		Where("plan = ?", plan).
		Delete(&identity.PlanModule{}).Error
}

// Ensure GormPlanModuleRepository implements PlanModuleRepository
var _ identity.PlanModuleRepository = (*GormPlanModuleRepository)(nil)
