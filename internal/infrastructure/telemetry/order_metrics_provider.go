// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderMetricsProvider implements OrderMetricsProvider using GORM.
// It queries the orders table directly for aggregated metrics.
type GormOrderMetricsProvider struct {
	db *gorm.DB
}

// NewGormOrderMetricsProvider creates a new GormOrderMetricsProvider.
func NewGormOrderMetricsProvider(db *gorm.DB) *GormOrderMetricsProvider {
	return &GormOrderMetricsProvider{db: db}
}

// GetActiveOrderCountByStore returns the number of non-terminal orders per store for a tenant.
func (p *GormOrderMetricsProvider) GetActiveOrderCountByStore(ctx context.Context, tenantID uuid.UUID) (map[uuid.UUID]int64, error) {
	type result struct {
		StoreID uuid.UUID `gorm:"column:store_id"`
		Total   int64     `gorm:"column:total"`
	}

	var results []result
	err := p.db.WithContext(ctx).
		Table("orders").
		Select("store_id, COUNT(*) as total").
		Where("tenant_id = ? AND deleted_at IS NULL", tenantID).
		Where("status NOT IN ?", []string{"DELIVERED", "CANCELLED"}).
		Group("store_id").
		Find(&results).Error

	if err != nil {
		return nil, err
	}

	m := make(map[uuid.UUID]int64, len(results))
	for _, r := range results {
		m[r.StoreID] = r.Total
	}

	return m, nil
}

// GormTenantProvider implements TenantProvider using GORM.
type GormTenantProvider struct {
	db *gorm.DB
}

// NewGormTenantProvider creates a new GormTenantProvider.
func NewGormTenantProvider(db *gorm.DB) *GormTenantProvider {
	return &GormTenantProvider{db: db}
}

// GetActiveTenantIDs returns all active and trial tenant IDs.
func (p *GormTenantProvider) GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := p.db.WithContext(ctx).
		Table("tenants").
		Select("id").
		Where("deleted_at IS NULL AND status IN ?", []string{"active", "trial"}).
		Find(&ids).Error

	if err != nil {
		return nil, err
	}

	return ids, nil
}
