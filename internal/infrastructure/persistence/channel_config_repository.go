package persistence

import (
	"context"
	"errors"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/messaging"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormChannelConfigRepository implements ChannelConfigRepository using GORM
type GormChannelConfigRepository struct {
	db *gorm.DB
}

// NewGormChannelConfigRepository creates a new GormChannelConfigRepository
func NewGormChannelConfigRepository(db *gorm.DB) *GormChannelConfigRepository {
	return &GormChannelConfigRepository{db: db}
}

// Save creates or updates a channel configuration. One row per tenant
// and channel.
func (r *GormChannelConfigRepository) Save(ctx context.Context, config *messaging.ChannelConfig) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "tenant_id"}, {Name: "channel"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"enabled", "credentials", "notify_on", "templates", "version", "updated_at",
			}),
		}).
		Create(config).Error
}

// FindByID retrieves a configuration by its ID
func (r *GormChannelConfigRepository) FindByID(ctx context.Context, id uuid.UUID) (*messaging.ChannelConfig, error) {
	var config messaging.ChannelConfig
	if err := r.db.WithContext(ctx).First(&config, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &config, nil
}

// FindByTenantAndChannel retrieves the configuration of one channel
// for a tenant
func (r *GormChannelConfigRepository) FindByTenantAndChannel(ctx context.Context, tenantID uuid.UUID, channel messaging.Channel) (*messaging.ChannelConfig, error) {
	var config messaging.ChannelConfig
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND channel = ?", tenantID, channel).
		First(&config).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &config, nil
}

// FindByTenant retrieves all channel configurations of a tenant
func (r *GormChannelConfigRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]*messaging.ChannelConfig, error) {
	var configs []*messaging.ChannelConfig
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("channel ASC").
		Find(&configs).Error; err != nil {
		return nil, err
	}
	return configs, nil
}

// FindEnabledByTenant retrieves the enabled channels of a tenant
func (r *GormChannelConfigRepository) FindEnabledByTenant(ctx context.Context, tenantID uuid.UUID) ([]*messaging.ChannelConfig, error) {
	var configs []*messaging.ChannelConfig
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND enabled = ?", tenantID, true).
		Order("channel ASC").
		Find(&configs).Error; err != nil {
		return nil, err
	}
	return configs, nil
}

// Delete removes a channel configuration
func (r *GormChannelConfigRepository) Delete(ctx context.Context, tenantID uuid.UUID, channel messaging.Channel) error {
	result := r.db.WithContext(ctx).
		Delete(&messaging.ChannelConfig{}, "tenant_id = ? AND channel = ?", tenantID, channel)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
