package persistence

import (
	"context"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/campaign"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/catalog"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/identity"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/store"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormUsageCounters reports a tenant's current resource counts for
// plan-limit checks. Implements billing.UsageCounters.
type GormUsageCounters struct {
	db *gorm.DB
}

// NewGormUsageCounters creates a new GormUsageCounters
func NewGormUsageCounters(db *gorm.DB) *GormUsageCounters {
	return &GormUsageCounters{db: db}
}

// Products counts the tenant's products across all stores
func (c *GormUsageCounters) Products(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return c.count(ctx, &catalog.Product{}, tenantID)
}

// Stores counts the tenant's stores
func (c *GormUsageCounters) Stores(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return c.count(ctx, &store.Store{}, tenantID)
}

// Users counts the tenant's admin users
func (c *GormUsageCounters) Users(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return c.count(ctx, &identity.User{}, tenantID)
}

// ActiveCampaigns counts the tenant's active campaigns
func (c *GormUsageCounters) ActiveCampaigns(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := c.db.WithContext(ctx).
		Model(&campaign.Campaign{}).
		Where("tenant_id = ? AND status = ?", tenantID, campaign.CampaignStatusActive).
		Count(&count).Error
	return count, err
}

func (c *GormUsageCounters) count(ctx context.Context, model interface{}, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := c.db.WithContext(ctx).
		Model(model).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error
	return count, err
}
