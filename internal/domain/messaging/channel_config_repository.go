package messaging

import (
	"context"

	"github.com/google/uuid"
)

// ChannelConfigRepository defines the persistence interface for
// channel configurations
type ChannelConfigRepository interface {
	// Save creates or updates a channel configuration
	Save(ctx context.Context, config *ChannelConfig) error

	// FindByID retrieves a configuration by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*ChannelConfig, error)

	// FindByTenantAndChannel retrieves the configuration of one channel
	// for a tenant
	FindByTenantAndChannel(ctx context.Context, tenantID uuid.UUID, channel Channel) (*ChannelConfig, error)

	// FindByTenant retrieves all channel configurations of a tenant
	FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]*ChannelConfig, error)

	// FindEnabledByTenant retrieves the enabled channels of a tenant
	FindEnabledByTenant(ctx context.Context, tenantID uuid.UUID) ([]*ChannelConfig, error)

	// Delete removes a channel configuration
	Delete(ctx context.Context, tenantID uuid.UUID, channel Channel) error
}

// Notifier sends messages through a configured channel. Implementations
// live in infrastructure, one per channel.
type Notifier interface {
	// Channel returns the channel this notifier serves
	Channel() Channel

	// Send delivers a rendered message. The recipient overrides the
	// configured destination where the channel supports it (WhatsApp
	// customer notifications); pass empty to use the configured one.
	Send(ctx context.Context, config *ChannelConfig, recipient, message string) error

	// Verify checks the stored credentials against the provider
	Verify(ctx context.Context, config *ChannelConfig) error
}
