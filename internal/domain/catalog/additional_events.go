package catalog

import (
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant for AdditionalGroup
const AggregateTypeAdditionalGroup = "AdditionalGroup"

// Event type constants for AdditionalGroup
const (
	EventTypeAdditionalGroupCreated = "AdditionalGroupCreated"
	EventTypeAdditionalGroupUpdated = "AdditionalGroupUpdated"
	EventTypeAdditionalGroupDeleted = "AdditionalGroupDeleted"
)

// AdditionalGroupCreatedEvent is published when a new additional group is created
type AdditionalGroupCreatedEvent struct {
	shared.BaseDomainEvent
	GroupID uuid.UUID `json:"group_id"`
	StoreID uuid.UUID `json:"store_id"`
	Name    string    `json:"name"`
}

// NewAdditionalGroupCreatedEvent creates a new AdditionalGroupCreatedEvent
func NewAdditionalGroupCreatedEvent(group *AdditionalGroup) *AdditionalGroupCreatedEvent {
	return &AdditionalGroupCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAdditionalGroupCreated, AggregateTypeAdditionalGroup, group.ID, group.TenantID),
		GroupID:         group.ID,
		StoreID:         group.StoreID,
		Name:            group.Name,
	}
}

// AdditionalGroupUpdatedEvent is published when a group or its items change
type AdditionalGroupUpdatedEvent struct {
	shared.BaseDomainEvent
	GroupID   uuid.UUID `json:"group_id"`
	StoreID   uuid.UUID `json:"store_id"`
	Name      string    `json:"name"`
	ItemCount int       `json:"item_count"`
}

// NewAdditionalGroupUpdatedEvent creates a new AdditionalGroupUpdatedEvent
func NewAdditionalGroupUpdatedEvent(group *AdditionalGroup) *AdditionalGroupUpdatedEvent {
	return &AdditionalGroupUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAdditionalGroupUpdated, AggregateTypeAdditionalGroup, group.ID, group.TenantID),
		GroupID:         group.ID,
		StoreID:         group.StoreID,
		Name:            group.Name,
		ItemCount:       len(group.Items),
	}
}

// AdditionalGroupDeletedEvent is published when an additional group is deleted
type AdditionalGroupDeletedEvent struct {
	shared.BaseDomainEvent
	GroupID uuid.UUID `json:"group_id"`
	StoreID uuid.UUID `json:"store_id"`
	Name    string    `json:"name"`
}

// NewAdditionalGroupDeletedEvent creates a new AdditionalGroupDeletedEvent
func NewAdditionalGroupDeletedEvent(group *AdditionalGroup) *AdditionalGroupDeletedEvent {
	return &AdditionalGroupDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAdditionalGroupDeleted, AggregateTypeAdditionalGroup, group.ID, group.TenantID),
		GroupID:         group.ID,
		StoreID:         group.StoreID,
		Name:            group.Name,
	}
}
