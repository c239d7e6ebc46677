package identity

import (
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeGroup = "Group"

// Event type constants
const (
	EventTypeGroupCreated = "GroupCreated"
	EventTypeGroupUpdated = "GroupUpdated"
	EventTypeGroupDeleted = "GroupDeleted"
)

// GroupCreatedEvent is published when a new group is created
type GroupCreatedEvent struct {
	shared.BaseDomainEvent
	GroupID uuid.UUID `json:"group_id"`
	Name    string    `json:"name"`
}

// NewGroupCreatedEvent creates a new GroupCreatedEvent
func NewGroupCreatedEvent(group *Group) *GroupCreatedEvent {
	return &GroupCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGroupCreated, AggregateTypeGroup, group.ID, group.TenantID),
		GroupID:         group.ID,
		Name:            group.Name,
	}
}

// GroupUpdatedEvent is published when a group is updated
type GroupUpdatedEvent struct {
	shared.BaseDomainEvent
	GroupID uuid.UUID `json:"group_id"`
	Name    string    `json:"name"`
}

// NewGroupUpdatedEvent creates a new GroupUpdatedEvent
func NewGroupUpdatedEvent(group *Group) *GroupUpdatedEvent {
	return &GroupUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGroupUpdated, AggregateTypeGroup, group.ID, group.TenantID),
		GroupID:         group.ID,
		Name:            group.Name,
	}
}

// GroupDeletedEvent is published when a group is deleted
type GroupDeletedEvent struct {
	shared.BaseDomainEvent
	GroupID uuid.UUID `json:"group_id"`
	Name    string    `json:"name"`
}

// NewGroupDeletedEvent creates a new GroupDeletedEvent
func NewGroupDeletedEvent(group *Group) *GroupDeletedEvent {
	return &GroupDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGroupDeleted, AggregateTypeGroup, group.ID, group.TenantID),
		GroupID:         group.ID,
		Name:            group.Name,
	}
}
