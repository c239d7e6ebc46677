package catalog

import (
	"time"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/catalog"
	"github.com/google/uuid"
)

// PresignUploadRequest represents a request for a presigned media upload URL
type PresignUploadRequest struct {
	ProductID   uuid.UUID `json:"product_id" binding:"required"`
	Kind        string    `json:"kind" binding:"required,oneof=image video"`
	FileName    string    `json:"file_name" binding:"required,min=1,max=255"`
	FileSize    int64     `json:"file_size" binding:"required,min=1"`
	ContentType string    `json:"content_type" binding:"required"`
}

// PresignUploadResponse carries the presigned URL the client uploads to
type PresignUploadResponse struct {
	MediaID   uuid.UUID `json:"media_id"`
	UploadURL string    `json:"upload_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ReorderMediaRequest carries the new gallery order of a product's media
type ReorderMediaRequest struct {
	MediaIDs []uuid.UUID `json:"media_ids" binding:"required,min=1"`
}

// MediaResponse represents a product media entry in API responses
type MediaResponse struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	Kind        string    `json:"kind"`
	Status      string    `json:"status"`
	FileName    string    `json:"file_name"`
	FileSize    int64     `json:"file_size"`
	ContentType string    `json:"content_type"`
	IsCover     bool      `json:"is_cover"`
	SortOrder   int       `json:"sort_order"`
	URL         string    `json:"url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToMediaResponse converts a domain ProductMedia to MediaResponse
func ToMediaResponse(m *catalog.ProductMedia) MediaResponse {
	return MediaResponse{
		ID:          m.ID,
		ProductID:   m.ProductID,
		Kind:        string(m.Kind),
		Status:      string(m.Status),
		FileName:    m.FileName,
		FileSize:    m.FileSize,
		ContentType: m.ContentType,
		IsCover:     m.IsCover,
		SortOrder:   m.SortOrder,
		CreatedAt:   m.CreatedAt,
	}
}

// ToMediaResponses converts a slice of domain ProductMedia to MediaResponses
func ToMediaResponses(media []*catalog.ProductMedia) []MediaResponse {
	responses := make([]MediaResponse, len(media))
	for i, m := range media {
		responses[i] = ToMediaResponse(m)
	}
	return responses
}
