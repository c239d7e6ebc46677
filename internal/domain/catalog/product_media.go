package catalog

import (
	"strings"
	"time"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// Media size limits
const (
	MaxImageFileSize = 10 * 1024 * 1024 // 10MB
	MaxVideoFileSize = 80 * 1024 * 1024 // 80MB
)

// MaxImagesPerProduct caps the image gallery size
const MaxImagesPerProduct = 8

// MediaKind represents the kind of product media
type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

// IsValid checks if the media kind is valid
func (k MediaKind) IsValid() bool {
	return k == MediaKindImage || k == MediaKindVideo
}

// MediaStatus represents the status of a product media entry
type MediaStatus string

const (
	MediaStatusPending MediaStatus = "pending" // Upload URL issued, object not confirmed yet
	MediaStatusActive  MediaStatus = "active"
	MediaStatusDeleted MediaStatus = "deleted"
)

// ProductMedia is an image or video attached to a product. The row is
// created in pending status when an upload URL is issued and confirmed
// after the client finishes the upload.
type ProductMedia struct {
	shared.TenantAggregateRoot
	ProductID   uuid.UUID   `gorm:"type:uuid;not null;index"`
	Kind        MediaKind   `gorm:"type:varchar(10);not null"`
	Status      MediaStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	FileName    string      `gorm:"type:varchar(255);not null"`
	FileSize    int64       `gorm:"not null"`
	ContentType string      `gorm:"type:varchar(100);not null"`
	StorageKey  string      `gorm:"type:varchar(500);not null"` // Object key in the media bucket
	IsCover     bool        `gorm:"not null;default:false"`     // Cover image shown in listings
	SortOrder   int         `gorm:"not null;default:0"`
	UploadedBy  *uuid.UUID  `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (ProductMedia) TableName() string {
	return "product_media"
}

// NewProductMedia creates a media entry in pending status
func NewProductMedia(
	tenantID uuid.UUID,
	productID uuid.UUID,
	kind MediaKind,
	fileName string,
	fileSize int64,
	contentType string,
	storageKey string,
	uploadedBy *uuid.UUID,
) (*ProductMedia, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT_ID", "Tenant ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT_ID", "Product ID cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_MEDIA_KIND", "Invalid media kind")
	}
	if err := validateMediaFileName(fileName); err != nil {
		return nil, err
	}
	if err := validateMediaFileSize(kind, fileSize); err != nil {
		return nil, err
	}
	if err := validateMediaContentType(kind, contentType); err != nil {
		return nil, err
	}
	if err := validateStorageKey(storageKey); err != nil {
		return nil, err
	}

	media := &ProductMedia{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProductID:           productID,
		Kind:                kind,
		Status:              MediaStatusPending,
		FileName:            fileName,
		FileSize:            fileSize,
		ContentType:         contentType,
		StorageKey:          storageKey,
		UploadedBy:          uploadedBy,
	}

	media.AddDomainEvent(NewProductMediaCreatedEvent(media))

	return media, nil
}

// Confirm activates the media after the object landed in storage
func (m *ProductMedia) Confirm() error {
	if m.Status == MediaStatusActive {
		return shared.NewDomainError("ALREADY_CONFIRMED", "Media is already confirmed")
	}
	if m.Status == MediaStatusDeleted {
		return shared.NewDomainError("CANNOT_CONFIRM_DELETED", "Cannot confirm deleted media")
	}

	m.Status = MediaStatusActive
	m.UpdatedAt = time.Now()
	m.IncrementVersion()

	m.AddDomainEvent(NewProductMediaConfirmedEvent(m))

	return nil
}

// Delete marks the media as deleted (soft delete); the object is removed
// from storage asynchronously
func (m *ProductMedia) Delete() error {
	if m.Status == MediaStatusDeleted {
		return shared.NewDomainError("ALREADY_DELETED", "Media is already deleted")
	}

	oldStatus := m.Status
	m.Status = MediaStatusDeleted
	m.IsCover = false
	m.UpdatedAt = time.Now()
	m.IncrementVersion()

	m.AddDomainEvent(NewProductMediaDeletedEvent(m, oldStatus))

	return nil
}

// SetAsCover marks an image as the product's cover
func (m *ProductMedia) SetAsCover() error {
	if m.Status == MediaStatusDeleted {
		return shared.NewDomainError("CANNOT_UPDATE_DELETED", "Cannot update deleted media")
	}
	if m.Kind != MediaKindImage {
		return shared.NewDomainError("NOT_AN_IMAGE", "Only images can be the product cover")
	}
	if m.IsCover {
		return shared.NewDomainError("ALREADY_COVER", "Media is already the cover image")
	}

	m.IsCover = true
	m.UpdatedAt = time.Now()
	m.IncrementVersion()

	return nil
}

// ClearCover unmarks the cover flag, used when another image is promoted
func (m *ProductMedia) ClearCover() {
	if !m.IsCover {
		return
	}

	m.IsCover = false
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
}

// SetSortOrder sets the gallery position of the media
func (m *ProductMedia) SetSortOrder(order int) error {
	if m.Status == MediaStatusDeleted {
		return shared.NewDomainError("CANNOT_UPDATE_DELETED", "Cannot update deleted media")
	}
	if order < 0 {
		return shared.NewDomainError("INVALID_SORT_ORDER", "Sort order cannot be negative")
	}

	m.SortOrder = order
	m.UpdatedAt = time.Now()
	m.IncrementVersion()

	return nil
}

// IsPending returns true if the upload has not been confirmed yet
func (m *ProductMedia) IsPending() bool {
	return m.Status == MediaStatusPending
}

// IsActive returns true if the media is active
func (m *ProductMedia) IsActive() bool {
	return m.Status == MediaStatusActive
}

// IsImage returns true if the media is an image
func (m *ProductMedia) IsImage() bool {
	return m.Kind == MediaKindImage
}

// validation functions

func validateMediaFileName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_FILE_NAME", "File name cannot be empty")
	}
	if len(name) > 255 {
		return shared.NewDomainError("INVALID_FILE_NAME", "File name cannot exceed 255 characters")
	}
	for _, r := range name {
		if r < 32 || r == 127 {
			return shared.NewDomainError("INVALID_FILE_NAME", "File name contains invalid characters")
		}
	}
	if strings.Contains(name, "/") || strings.Contains(name, "\\") {
		return shared.NewDomainError("INVALID_FILE_NAME", "File name cannot contain path separators")
	}
	return nil
}

func validateMediaFileSize(kind MediaKind, size int64) error {
	if size <= 0 {
		return shared.NewDomainError("INVALID_FILE_SIZE", "File size must be greater than 0")
	}
	limit := int64(MaxImageFileSize)
	if kind == MediaKindVideo {
		limit = MaxVideoFileSize
	}
	if size > limit {
		return shared.NewDomainError("FILE_TOO_LARGE", "File exceeds the size limit for this media kind")
	}
	return nil
}

func validateMediaContentType(kind MediaKind, contentType string) error {
	if contentType == "" {
		return shared.NewDomainError("INVALID_CONTENT_TYPE", "Content type cannot be empty")
	}
	switch kind {
	case MediaKindImage:
		if !strings.HasPrefix(contentType, "image/") {
			return shared.NewDomainError("INVALID_CONTENT_TYPE", "Images require an image/* content type")
		}
	case MediaKindVideo:
		if !strings.HasPrefix(contentType, "video/") {
			return shared.NewDomainError("INVALID_CONTENT_TYPE", "Videos require a video/* content type")
		}
	}
	if len(contentType) > 100 {
		return shared.NewDomainError("INVALID_CONTENT_TYPE", "Content type cannot exceed 100 characters")
	}
	return nil
}

func validateStorageKey(key string) error {
	if key == "" {
		return shared.NewDomainError("INVALID_STORAGE_KEY", "Storage key cannot be empty")
	}
	if len(key) > 500 {
		return shared.NewDomainError("INVALID_STORAGE_KEY", "Storage key cannot exceed 500 characters")
	}
	if strings.Contains(key, "..") {
		return shared.NewDomainError("INVALID_STORAGE_KEY", "Storage key cannot contain path traversal sequences")
	}
	if strings.HasPrefix(key, "/") {
		return shared.NewDomainError("INVALID_STORAGE_KEY", "Storage key must be a relative path")
	}
	return nil
}
