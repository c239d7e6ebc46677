package campaign

import (
	"time"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
)

// AggregateTypeCampaign is the aggregate type for campaigns
const AggregateTypeCampaign = "Campaign"

// Campaign event types
const (
	EventTypeCampaignCreated       = "campaign.created"
	EventTypeCampaignUpdated       = "campaign.updated"
	EventTypeCampaignStatusChanged = "campaign.status_changed"
	EventTypeCampaignDeleted       = "campaign.deleted"
)

// CampaignCreatedEvent is published when a campaign is created
type CampaignCreatedEvent struct {
	shared.BaseDomainEvent
	Name         string       `json:"name"`
	DiscountKind DiscountKind `json:"discount_kind"`
	StartsAt     time.Time    `json:"starts_at"`
}

// NewCampaignCreatedEvent creates a new campaign created event
func NewCampaignCreatedEvent(campaign *Campaign) *CampaignCreatedEvent {
	return &CampaignCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeCampaignCreated,
			AggregateTypeCampaign,
			campaign.ID,
			campaign.TenantID,
		),
		Name:         campaign.Name,
		DiscountKind: campaign.DiscountKind,
		StartsAt:     campaign.StartsAt,
	}
}

// CampaignUpdatedEvent is published when a campaign is updated
type CampaignUpdatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewCampaignUpdatedEvent creates a new campaign updated event
func NewCampaignUpdatedEvent(campaign *Campaign) *CampaignUpdatedEvent {
	return &CampaignUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeCampaignUpdated,
			AggregateTypeCampaign,
			campaign.ID,
			campaign.TenantID,
		),
		Name: campaign.Name,
	}
}

// CampaignStatusChangedEvent is published when a campaign's status changes
type CampaignStatusChangedEvent struct {
	shared.BaseDomainEvent
	OldStatus CampaignStatus `json:"old_status"`
	NewStatus CampaignStatus `json:"new_status"`
}

// NewCampaignStatusChangedEvent creates a new campaign status changed event
func NewCampaignStatusChangedEvent(campaign *Campaign, oldStatus, newStatus CampaignStatus) *CampaignStatusChangedEvent {
	return &CampaignStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeCampaignStatusChanged,
			AggregateTypeCampaign,
			campaign.ID,
			campaign.TenantID,
		),
		OldStatus: oldStatus,
		NewStatus: newStatus,
	}
}

// CampaignDeletedEvent is published when a campaign is deleted
type CampaignDeletedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewCampaignDeletedEvent creates a new campaign deleted event
func NewCampaignDeletedEvent(campaign *Campaign) *CampaignDeletedEvent {
	return &CampaignDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeCampaignDeleted,
			AggregateTypeCampaign,
			campaign.ID,
			campaign.TenantID,
		),
		Name: campaign.Name,
	}
}
