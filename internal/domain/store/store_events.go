package store

import (
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant for Store
const AggregateTypeStore = "Store"

// Event type constants for Store
const (
	EventTypeStoreCreated         = "StoreCreated"
	EventTypeStoreUpdated         = "StoreUpdated"
	EventTypeStoreStatusChanged   = "StoreStatusChanged"
	EventTypeStoreScheduleChanged = "StoreScheduleChanged"
	EventTypeStoreSetAsDefault    = "StoreSetAsDefault"
	EventTypeStoreDeleted         = "StoreDeleted"
)

// StoreCreatedEvent is published when a new store is created
type StoreCreatedEvent struct {
	shared.BaseDomainEvent
	StoreID uuid.UUID `json:"store_id"`
	Name    string    `json:"name"`
}

// NewStoreCreatedEvent creates a new StoreCreatedEvent
func NewStoreCreatedEvent(store *Store) *StoreCreatedEvent {
	return &StoreCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStoreCreated, AggregateTypeStore, store.ID, store.TenantID),
		StoreID:         store.ID,
		Name:            store.Name,
	}
}

// StoreUpdatedEvent is published when a store is updated
type StoreUpdatedEvent struct {
	shared.BaseDomainEvent
	StoreID uuid.UUID `json:"store_id"`
	Name    string    `json:"name"`
}

// NewStoreUpdatedEvent creates a new StoreUpdatedEvent
func NewStoreUpdatedEvent(store *Store) *StoreUpdatedEvent {
	return &StoreUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStoreUpdated, AggregateTypeStore, store.ID, store.TenantID),
		StoreID:         store.ID,
		Name:            store.Name,
	}
}

// StoreStatusChangedEvent is published when a store's status changes
type StoreStatusChangedEvent struct {
	shared.BaseDomainEvent
	StoreID   uuid.UUID   `json:"store_id"`
	Name      string      `json:"name"`
	OldStatus StoreStatus `json:"old_status"`
	NewStatus StoreStatus `json:"new_status"`
}

// NewStoreStatusChangedEvent creates a new StoreStatusChangedEvent
func NewStoreStatusChangedEvent(store *Store, oldStatus, newStatus StoreStatus) *StoreStatusChangedEvent {
	return &StoreStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStoreStatusChanged, AggregateTypeStore, store.ID, store.TenantID),
		StoreID:         store.ID,
		Name:            store.Name,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// StoreScheduleChangedEvent is published when a store's opening hours change.
// Cached storefront payloads listen for it to invalidate availability info.
type StoreScheduleChangedEvent struct {
	shared.BaseDomainEvent
	StoreID uuid.UUID `json:"store_id"`
}

// NewStoreScheduleChangedEvent creates a new StoreScheduleChangedEvent
func NewStoreScheduleChangedEvent(store *Store) *StoreScheduleChangedEvent {
	return &StoreScheduleChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStoreScheduleChanged, AggregateTypeStore, store.ID, store.TenantID),
		StoreID:         store.ID,
	}
}

// StoreSetAsDefaultEvent is published when a store becomes the tenant default
type StoreSetAsDefaultEvent struct {
	shared.BaseDomainEvent
	StoreID uuid.UUID `json:"store_id"`
	Name    string    `json:"name"`
}

// NewStoreSetAsDefaultEvent creates a new StoreSetAsDefaultEvent
func NewStoreSetAsDefaultEvent(store *Store) *StoreSetAsDefaultEvent {
	return &StoreSetAsDefaultEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStoreSetAsDefault, AggregateTypeStore, store.ID, store.TenantID),
		StoreID:         store.ID,
		Name:            store.Name,
	}
}

// StoreDeletedEvent is published when a store is deleted
type StoreDeletedEvent struct {
	shared.BaseDomainEvent
	StoreID uuid.UUID `json:"store_id"`
	Name    string    `json:"name"`
}

// NewStoreDeletedEvent creates a new StoreDeletedEvent
func NewStoreDeletedEvent(store *Store) *StoreDeletedEvent {
	return &StoreDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStoreDeleted, AggregateTypeStore, store.ID, store.TenantID),
		StoreID:         store.ID,
		Name:            store.Name,
	}
}
