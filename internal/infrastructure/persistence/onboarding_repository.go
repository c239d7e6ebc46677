package persistence

import (
	"context"
	"errors"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/onboarding"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOnboardingRepository implements OnboardingRepository using GORM
type GormOnboardingRepository struct {
	db *gorm.DB
}

// NewGormOnboardingRepository creates a new GormOnboardingRepository
func NewGormOnboardingRepository(db *gorm.DB) *GormOnboardingRepository {
	return &GormOnboardingRepository{db: db}
}

// Save creates or updates the wizard state. One row per tenant.
func (r *GormOnboardingRepository) Save(ctx context.Context, state *onboarding.OnboardingState) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "tenant_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"current_step", "completed_steps", "skipped_steps", "completed_at",
				"version", "updated_at",
			}),
		}).
		Create(state).Error
}

// FindByTenant retrieves the wizard state of a tenant
func (r *GormOnboardingRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) (*onboarding.OnboardingState, error) {
	var state onboarding.OnboardingState
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&state).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &state, nil
}

// CountIncomplete counts tenants that have not finished the wizard
func (r *GormOnboardingRepository) CountIncomplete(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&onboarding.OnboardingState{}).
		Where("completed_at IS NULL").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
