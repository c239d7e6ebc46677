package catalog

import (
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// AggregateTypeProductMedia is the aggregate type for product media
const AggregateTypeProductMedia = "ProductMedia"

// Product media event types
const (
	EventTypeProductMediaCreated   = "catalog.product_media.created"
	EventTypeProductMediaConfirmed = "catalog.product_media.confirmed"
	EventTypeProductMediaDeleted   = "catalog.product_media.deleted"
)

// ProductMediaCreatedEvent is published when a media entry is created
type ProductMediaCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Kind      MediaKind `json:"kind"`
	FileName  string    `json:"file_name"`
}

// NewProductMediaCreatedEvent creates a new product media created event
func NewProductMediaCreatedEvent(media *ProductMedia) *ProductMediaCreatedEvent {
	return &ProductMediaCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeProductMediaCreated,
			AggregateTypeProductMedia,
			media.ID,
			media.TenantID,
		),
		ProductID: media.ProductID,
		Kind:      media.Kind,
		FileName:  media.FileName,
	}
}

// ProductMediaConfirmedEvent is published when an upload is confirmed
type ProductMediaConfirmedEvent struct {
	shared.BaseDomainEvent
	ProductID  uuid.UUID `json:"product_id"`
	Kind       MediaKind `json:"kind"`
	StorageKey string    `json:"storage_key"`
}

// NewProductMediaConfirmedEvent creates a new product media confirmed event
func NewProductMediaConfirmedEvent(media *ProductMedia) *ProductMediaConfirmedEvent {
	return &ProductMediaConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeProductMediaConfirmed,
			AggregateTypeProductMedia,
			media.ID,
			media.TenantID,
		),
		ProductID:  media.ProductID,
		Kind:       media.Kind,
		StorageKey: media.StorageKey,
	}
}

// ProductMediaDeletedEvent is published when media is deleted
type ProductMediaDeletedEvent struct {
	shared.BaseDomainEvent
	ProductID  uuid.UUID   `json:"product_id"`
	OldStatus  MediaStatus `json:"old_status"`
	StorageKey string      `json:"storage_key"`
}

// NewProductMediaDeletedEvent creates a new product media deleted event
func NewProductMediaDeletedEvent(media *ProductMedia, oldStatus MediaStatus) *ProductMediaDeletedEvent {
	return &ProductMediaDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeProductMediaDeleted,
			AggregateTypeProductMedia,
			media.ID,
			media.TenantID,
		),
		ProductID:  media.ProductID,
		OldStatus:  oldStatus,
		StorageKey: media.StorageKey,
	}
}
