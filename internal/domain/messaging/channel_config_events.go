package messaging

import (
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
)

// Aggregate type for channel config events
const AggregateTypeChannelConfig = "channel_config"

// Event types for channel config aggregate
const (
	EventTypeChannelConfigCreated       = "messaging.channel_config.created"
	EventTypeChannelConfigUpdated       = "messaging.channel_config.updated"
	EventTypeChannelConfigStatusChanged = "messaging.channel_config.status_changed"
)

// ChannelConfigCreatedEvent represents a channel configuration being created
type ChannelConfigCreatedEvent struct {
	shared.BaseDomainEvent
	Channel Channel `json:"channel"`
}

// NewChannelConfigCreatedEvent creates a new channel config created event
func NewChannelConfigCreatedEvent(config *ChannelConfig) *ChannelConfigCreatedEvent {
	return &ChannelConfigCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeChannelConfigCreated, AggregateTypeChannelConfig, config.ID, config.TenantID),
		Channel:         config.Channel,
	}
}

// ChannelConfigUpdatedEvent represents configuration changes
type ChannelConfigUpdatedEvent struct {
	shared.BaseDomainEvent
	Channel Channel `json:"channel"`
}

// NewChannelConfigUpdatedEvent creates a new channel config updated event
func NewChannelConfigUpdatedEvent(config *ChannelConfig) *ChannelConfigUpdatedEvent {
	return &ChannelConfigUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeChannelConfigUpdated, AggregateTypeChannelConfig, config.ID, config.TenantID),
		Channel:         config.Channel,
	}
}

// ChannelConfigStatusChangedEvent represents the channel being enabled
// or disabled
type ChannelConfigStatusChangedEvent struct {
	shared.BaseDomainEvent
	Channel Channel `json:"channel"`
	Enabled bool    `json:"enabled"`
}

// NewChannelConfigStatusChangedEvent creates a new status changed event
func NewChannelConfigStatusChangedEvent(config *ChannelConfig, enabled bool) *ChannelConfigStatusChangedEvent {
	return &ChannelConfigStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeChannelConfigStatusChanged, AggregateTypeChannelConfig, config.ID, config.TenantID),
		Channel:         config.Channel,
		Enabled:         enabled,
	}
}
