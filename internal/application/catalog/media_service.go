package catalog

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/catalog"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AllowedImageContentTypes is the whitelist of image content types accepted
// for upload. SVG is excluded because it can embed scripts.
var AllowedImageContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// AllowedVideoContentTypes is the whitelist of video content types accepted
// for upload
var AllowedVideoContentTypes = map[string]bool{
	"video/mp4":       true,
	"video/webm":      true,
	"video/quicktime": true,
}

// ObjectStorageService defines the object storage operations the media flow
// needs. Implemented by the infrastructure layer (S3 compatible).
type ObjectStorageService interface {
	// GenerateUploadURL generates a presigned URL for uploading an object
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL generates a presigned URL for downloading an object
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists checks if an object exists in storage
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// MediaServiceConfig holds configuration for the media service
type MediaServiceConfig struct {
	UploadURLExpiry   time.Duration
	DownloadURLExpiry time.Duration
}

// DefaultMediaServiceConfig returns the default configuration
func DefaultMediaServiceConfig() MediaServiceConfig {
	return MediaServiceConfig{
		UploadURLExpiry:   15 * time.Minute,
		DownloadURLExpiry: 1 * time.Hour,
	}
}

// MediaService handles the product media upload flow: presign, confirm,
// gallery management
type MediaService struct {
	mediaRepo   catalog.ProductMediaRepository
	productRepo catalog.ProductRepository
	storage     ObjectStorageService
	config      MediaServiceConfig
	logger      *zap.Logger
}

// NewMediaService creates a new media service
func NewMediaService(
	mediaRepo catalog.ProductMediaRepository,
	productRepo catalog.ProductRepository,
	storage ObjectStorageService,
	logger *zap.Logger,
) *MediaService {
	return &MediaService{
		mediaRepo:   mediaRepo,
		productRepo: productRepo,
		storage:     storage,
		config:      DefaultMediaServiceConfig(),
		logger:      logger,
	}
}

// SetConfig sets the service configuration
func (s *MediaService) SetConfig(config MediaServiceConfig) {
	s.config = config
}

// PresignUpload creates a pending media entry and returns a presigned upload URL
func (s *MediaService) PresignUpload(ctx context.Context, tenantID uuid.UUID, req PresignUploadRequest, uploadedBy *uuid.UUID) (*PresignUploadResponse, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
		}
		return nil, err
	}
	if product.TenantID != tenantID {
		return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	}

	kind := catalog.MediaKind(req.Kind)
	if !isAllowedContentType(kind, req.ContentType) {
		return nil, shared.NewDomainError("DISALLOWED_CONTENT_TYPE",
			fmt.Sprintf("Content type '%s' is not allowed for %s uploads", req.ContentType, req.Kind))
	}

	if kind == catalog.MediaKindImage {
		count, err := s.mediaRepo.CountActiveByProduct(ctx, req.ProductID, catalog.MediaKindImage)
		if err != nil {
			return nil, err
		}
		if count >= catalog.MaxImagesPerProduct {
			return nil, shared.NewDomainError("MEDIA_LIMIT_REACHED",
				fmt.Sprintf("A product can have up to %d images", catalog.MaxImagesPerProduct))
		}
	}

	storageKey := s.generateStorageKey(tenantID, req.ProductID, req.FileName)

	media, err := catalog.NewProductMedia(
		tenantID,
		req.ProductID,
		kind,
		req.FileName,
		req.FileSize,
		req.ContentType,
		storageKey,
		uploadedBy,
	)
	if err != nil {
		return nil, err
	}

	if err := s.mediaRepo.Create(ctx, media); err != nil {
		return nil, err
	}

	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, storageKey, req.ContentType, s.config.UploadURLExpiry)
	if err != nil {
		s.logger.Error("Failed to generate upload URL",
			zap.String("media_id", media.ID.String()),
			zap.Error(err))
		return nil, shared.NewDomainError("UPLOAD_URL_FAILED", "Failed to generate upload URL")
	}

	return &PresignUploadResponse{
		MediaID:   media.ID,
		UploadURL: uploadURL,
		ExpiresAt: expiresAt,
	}, nil
}

// ConfirmUpload verifies the object landed in storage and activates the media.
// The first confirmed image of a product becomes its cover.
func (s *MediaService) ConfirmUpload(ctx context.Context, tenantID, mediaID uuid.UUID) (*MediaResponse, error) {
	media, err := s.findMedia(ctx, tenantID, mediaID)
	if err != nil {
		return nil, err
	}

	exists, err := s.storage.ObjectExists(ctx, media.StorageKey)
	if err != nil {
		return nil, shared.NewDomainError("STORAGE_CHECK_FAILED", "Failed to verify upload")
	}
	if !exists {
		return nil, shared.NewDomainError("UPLOAD_NOT_FOUND", "File not found in storage. Upload the file first.")
	}

	if err := media.Confirm(); err != nil {
		return nil, err
	}

	if media.IsImage() {
		cover, err := s.mediaRepo.FindCover(ctx, media.ProductID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if cover == nil {
			if err := media.SetAsCover(); err != nil {
				return nil, err
			}
		}
	}

	if err := s.mediaRepo.Update(ctx, media); err != nil {
		return nil, err
	}

	response := ToMediaResponse(media)
	s.enrichWithURL(ctx, &response, media)

	return &response, nil
}

// ListByProduct retrieves all non-deleted media of a product
func (s *MediaService) ListByProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]MediaResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
		}
		return nil, err
	}
	if product.TenantID != tenantID {
		return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	}

	media, err := s.mediaRepo.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	responses := ToMediaResponses(media)
	for i, m := range media {
		s.enrichWithURL(ctx, &responses[i], m)
	}

	return responses, nil
}

// SetCover promotes an image to the product's cover, demoting the current one
func (s *MediaService) SetCover(ctx context.Context, tenantID, mediaID uuid.UUID) (*MediaResponse, error) {
	media, err := s.findMedia(ctx, tenantID, mediaID)
	if err != nil {
		return nil, err
	}

	if err := s.mediaRepo.ClearCover(ctx, media.ProductID); err != nil {
		return nil, err
	}

	if err := media.SetAsCover(); err != nil {
		return nil, err
	}

	if err := s.mediaRepo.Update(ctx, media); err != nil {
		return nil, err
	}

	response := ToMediaResponse(media)
	s.enrichWithURL(ctx, &response, media)

	return &response, nil
}

// Reorder applies a new gallery order to a product's media
func (s *MediaService) Reorder(ctx context.Context, tenantID, productID uuid.UUID, req ReorderMediaRequest) ([]MediaResponse, error) {
	media, err := s.mediaRepo.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*catalog.ProductMedia, len(media))
	for _, m := range media {
		if m.TenantID != tenantID {
			return nil, shared.NewDomainError("MEDIA_NOT_FOUND", "Media not found")
		}
		byID[m.ID] = m
	}

	for position, id := range req.MediaIDs {
		m, ok := byID[id]
		if !ok {
			return nil, shared.NewDomainError("MEDIA_NOT_FOUND", "Media does not belong to this product")
		}
		if err := m.SetSortOrder(position); err != nil {
			return nil, err
		}
		if err := s.mediaRepo.Update(ctx, m); err != nil {
			return nil, err
		}
	}

	return s.ListByProduct(ctx, tenantID, productID)
}

// Delete soft-deletes a media entry and removes the object from storage
func (s *MediaService) Delete(ctx context.Context, tenantID, mediaID uuid.UUID) error {
	media, err := s.findMedia(ctx, tenantID, mediaID)
	if err != nil {
		return err
	}

	if err := media.Delete(); err != nil {
		return err
	}

	if err := s.mediaRepo.Update(ctx, media); err != nil {
		return err
	}

	// Storage removal is best-effort; the object may already be gone
	if err := s.storage.DeleteObject(ctx, media.StorageKey); err != nil {
		s.logger.Warn("Failed to delete media object from storage",
			zap.String("media_id", media.ID.String()),
			zap.String("storage_key", media.StorageKey),
			zap.Error(err))
	}

	return nil
}

// CleanupStalePending removes pending entries whose upload never completed
func (s *MediaService) CleanupStalePending(ctx context.Context, olderThanHours, limit int) (int, error) {
	stale, err := s.mediaRepo.FindStalePending(ctx, olderThanHours, limit)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, m := range stale {
		if err := m.Delete(); err != nil {
			continue
		}
		if err := s.mediaRepo.Update(ctx, m); err != nil {
			s.logger.Warn("Failed to clean up stale media",
				zap.String("media_id", m.ID.String()),
				zap.Error(err))
			continue
		}
		removed++
	}

	return removed, nil
}

func (s *MediaService) findMedia(ctx context.Context, tenantID, mediaID uuid.UUID) (*catalog.ProductMedia, error) {
	media, err := s.mediaRepo.FindByID(ctx, mediaID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("MEDIA_NOT_FOUND", "Media not found")
		}
		return nil, err
	}
	if media.TenantID != tenantID {
		return nil, shared.NewDomainError("MEDIA_NOT_FOUND", "Media not found")
	}
	return media, nil
}

func (s *MediaService) generateStorageKey(tenantID, productID uuid.UUID, fileName string) string {
	ext := filepath.Ext(fileName)
	return fmt.Sprintf("tenants/%s/products/%s/media/%s%s",
		tenantID.String(),
		productID.String(),
		uuid.New().String(),
		ext,
	)
}

func (s *MediaService) enrichWithURL(ctx context.Context, response *MediaResponse, media *catalog.ProductMedia) {
	if !media.IsActive() {
		return
	}

	url, _, err := s.storage.GenerateDownloadURL(ctx, media.StorageKey, s.config.DownloadURLExpiry)
	if err == nil {
		response.URL = url
	}
}

func isAllowedContentType(kind catalog.MediaKind, contentType string) bool {
	ct := strings.ToLower(contentType)
	switch kind {
	case catalog.MediaKindImage:
		return AllowedImageContentTypes[ct]
	case catalog.MediaKindVideo:
		return AllowedVideoContentTypes[ct]
	}
	return false
}
