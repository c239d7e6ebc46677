package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/campaign"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCampaignRepository implements CampaignRepository using GORM
type GormCampaignRepository struct {
	db *gorm.DB
}

// NewGormCampaignRepository creates a new GormCampaignRepository
func NewGormCampaignRepository(db *gorm.DB) *GormCampaignRepository {
	return &GormCampaignRepository{db: db}
}

// Create creates a new campaign
func (r *GormCampaignRepository) Create(ctx context.Context, c *campaign.Campaign) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// Update updates an existing campaign
func (r *GormCampaignRepository) Update(ctx context.Context, c *campaign.Campaign) error {
	result := r.db.WithContext(ctx).Save(c)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a campaign by ID
func (r *GormCampaignRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&campaign.Campaign{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a campaign by ID
func (r *GormCampaignRepository) FindByID(ctx context.Context, id uuid.UUID) (*campaign.Campaign, error) {
	var c campaign.Campaign
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindByIDForTenant finds a campaign scoped to a tenant
func (r *GormCampaignRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*campaign.Campaign, error) {
	var c campaign.Campaign
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindAll finds campaigns of a tenant with filtering and the total count
func (r *GormCampaignRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter campaign.CampaignFilter) ([]*campaign.Campaign, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&campaign.Campaign{}).
		Where("tenant_id = ?", tenantID)

	if filter.Keyword != "" {
		pattern := "%" + filter.Keyword + "%"
		query = query.Where("name ILIKE ? OR coupon_code ILIKE ?", pattern, pattern)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Kind != nil {
		query = query.Where("discount_kind = ?", *filter.Kind)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var campaigns []*campaign.Campaign
	if err := query.
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&campaigns).Error; err != nil {
		return nil, 0, err
	}
	return campaigns, total, nil
}

// FindRunningAt finds active campaigns whose window covers the instant
func (r *GormCampaignRepository) FindRunningAt(ctx context.Context, tenantID uuid.UUID, at time.Time) ([]*campaign.Campaign, error) {
	var campaigns []*campaign.Campaign
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status = ?", tenantID, campaign.CampaignStatusActive).
		Where("starts_at <= ?", at).
		Where("ends_at IS NULL OR ends_at > ?", at).
		Order("created_at ASC").
		Find(&campaigns).Error; err != nil {
		return nil, err
	}
	return campaigns, nil
}

// FindByCoupon finds a campaign by its coupon code, case-insensitive
func (r *GormCampaignRepository) FindByCoupon(ctx context.Context, tenantID uuid.UUID, code string) (*campaign.Campaign, error) {
	var c campaign.Campaign
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND coupon_code = ?", tenantID, strings.ToUpper(strings.TrimSpace(code))).
		First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ExistsByCoupon checks whether another campaign already uses the coupon
func (r *GormCampaignRepository) ExistsByCoupon(ctx context.Context, tenantID uuid.UUID, code string, excludeID uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&campaign.Campaign{}).
		Where("tenant_id = ? AND coupon_code = ?", tenantID, strings.ToUpper(strings.TrimSpace(code)))
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountActive counts active campaigns of a tenant, used for plan limits
func (r *GormCampaignRepository) CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&campaign.Campaign{}).
		Where("tenant_id = ? AND status = ?", tenantID, campaign.CampaignStatusActive).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExpireOverdue flips active or paused campaigns past their end to
// expired and returns how many rows changed
func (r *GormCampaignRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&campaign.Campaign{}).
		Where("status IN ?", []campaign.CampaignStatus{campaign.CampaignStatusActive, campaign.CampaignStatusPaused}).
		Where("ends_at IS NOT NULL AND ends_at <= ?", now).
		Updates(map[string]interface{}{
			"status":     campaign.CampaignStatusExpired,
			"updated_at": now,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
