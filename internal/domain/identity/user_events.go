package identity

import (
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeUser = "User"

// Event type constants
const (
	EventTypeUserCreated         = "UserCreated"
	EventTypeUserPasswordChanged = "UserPasswordChanged"
	EventTypeUserStatusChanged   = "UserStatusChanged"
	EventTypeUserGroupAssigned   = "UserGroupAssigned"
	EventTypeUserGroupRemoved    = "UserGroupRemoved"
)

// UserCreatedEvent is published when a new user is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Name   string    `json:"name"`
}

// NewUserCreatedEvent creates a new UserCreatedEvent
func NewUserCreatedEvent(user *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserCreated, AggregateTypeUser, user.ID, user.TenantID),
		UserID:          user.ID,
		Email:           user.Email,
		Name:            user.Name,
	}
}

// UserPasswordChangedEvent is published when a user's password changes
type UserPasswordChangedEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID `json:"user_id"`
}

// NewUserPasswordChangedEvent creates a new UserPasswordChangedEvent
func NewUserPasswordChangedEvent(user *User) *UserPasswordChangedEvent {
	return &UserPasswordChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserPasswordChanged, AggregateTypeUser, user.ID, user.TenantID),
		UserID:          user.ID,
	}
}

// UserStatusChangedEvent is published when a user's status changes
type UserStatusChangedEvent struct {
	shared.BaseDomainEvent
	UserID    uuid.UUID  `json:"user_id"`
	OldStatus UserStatus `json:"old_status"`
	NewStatus UserStatus `json:"new_status"`
}

// NewUserStatusChangedEvent creates a new UserStatusChangedEvent
func NewUserStatusChangedEvent(user *User, oldStatus, newStatus UserStatus) *UserStatusChangedEvent {
	return &UserStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserStatusChanged, AggregateTypeUser, user.ID, user.TenantID),
		UserID:          user.ID,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// UserGroupAssignedEvent is published when a user is added to a group
type UserGroupAssignedEvent struct {
	shared.BaseDomainEvent
	UserID  uuid.UUID `json:"user_id"`
	GroupID uuid.UUID `json:"group_id"`
}

// NewUserGroupAssignedEvent creates a new UserGroupAssignedEvent
func NewUserGroupAssignedEvent(user *User, groupID uuid.UUID) *UserGroupAssignedEvent {
	return &UserGroupAssignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserGroupAssigned, AggregateTypeUser, user.ID, user.TenantID),
		UserID:          user.ID,
		GroupID:         groupID,
	}
}

// UserGroupRemovedEvent is published when a user is removed from a group
type UserGroupRemovedEvent struct {
	shared.BaseDomainEvent
	UserID  uuid.UUID `json:"user_id"`
	GroupID uuid.UUID `json:"group_id"`
}

// NewUserGroupRemovedEvent creates a new UserGroupRemovedEvent
func NewUserGroupRemovedEvent(user *User, groupID uuid.UUID) *UserGroupRemovedEvent {
	return &UserGroupRemovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserGroupRemoved, AggregateTypeUser, user.ID, user.TenantID),
		UserID:          user.ID,
		GroupID:         groupID,
	}
}
