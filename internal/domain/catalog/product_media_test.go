package catalog

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProductMedia(t *testing.T) {
	tenantID := uuid.New()
	productID := uuid.New()
	uploadedBy := uuid.New()

	t.Run("creates pending image media", func(t *testing.T) {
		media, err := NewProductMedia(tenantID, productID, MediaKindImage, "pizza.jpg", 2048, "image/jpeg", "tenants/t1/products/p1/pizza.jpg", &uploadedBy)
		require.NoError(t, err)
		require.NotNil(t, media)

		assert.Equal(t, tenantID, media.TenantID)
		assert.Equal(t, productID, media.ProductID)
		assert.Equal(t, MediaKindImage, media.Kind)
		assert.Equal(t, MediaStatusPending, media.Status)
		assert.True(t, media.IsPending())
		assert.False(t, media.IsActive())
		assert.True(t, media.IsImage())
		assert.False(t, media.IsCover)

		events := media.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeProductMediaCreated, events[0].EventType())
	})

	t.Run("creates video media", func(t *testing.T) {
		media, err := NewProductMedia(tenantID, productID, MediaKindVideo, "preparo.mp4", 30*1024*1024, "video/mp4", "tenants/t1/products/p1/preparo.mp4", nil)
		require.NoError(t, err)
		assert.Equal(t, MediaKindVideo, media.Kind)
		assert.False(t, media.IsImage())
	})

	t.Run("fails with empty product id", func(t *testing.T) {
		_, err := NewProductMedia(tenantID, uuid.Nil, MediaKindImage, "pizza.jpg", 2048, "image/jpeg", "k/pizza.jpg", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Product ID cannot be empty")
	})

	t.Run("fails with unknown media kind", func(t *testing.T) {
		_, err := NewProductMedia(tenantID, productID, MediaKind("audio"), "a.mp3", 2048, "audio/mpeg", "k/a.mp3", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid media kind")
	})

	t.Run("fails with empty file name", func(t *testing.T) {
		_, err := NewProductMedia(tenantID, productID, MediaKindImage, "", 2048, "image/jpeg", "k/pizza.jpg", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "File name cannot be empty")
	})

	t.Run("fails with path separator in file name", func(t *testing.T) {
		_, err := NewProductMedia(tenantID, productID, MediaKindImage, "../pizza.jpg", 2048, "image/jpeg", "k/pizza.jpg", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "path separators")
	})

	t.Run("fails with zero file size", func(t *testing.T) {
		_, err := NewProductMedia(tenantID, productID, MediaKindImage, "pizza.jpg", 0, "image/jpeg", "k/pizza.jpg", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "greater than 0")
	})

	t.Run("fails when image exceeds the image size cap", func(t *testing.T) {
		_, err := NewProductMedia(tenantID, productID, MediaKindImage, "pizza.jpg", MaxImageFileSize+1, "image/jpeg", "k/pizza.jpg", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exceeds the size limit")
	})

	t.Run("accepts video above the image cap", func(t *testing.T) {
		_, err := NewProductMedia(tenantID, productID, MediaKindVideo, "preparo.mp4", MaxImageFileSize+1, "video/mp4", "k/preparo.mp4", nil)
		require.NoError(t, err)
	})

	t.Run("fails when video exceeds the video size cap", func(t *testing.T) {
		_, err := NewProductMedia(tenantID, productID, MediaKindVideo, "preparo.mp4", MaxVideoFileSize+1, "video/mp4", "k/preparo.mp4", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exceeds the size limit")
	})

	t.Run("fails with mismatched content type", func(t *testing.T) {
		_, err := NewProductMedia(tenantID, productID, MediaKindImage, "pizza.jpg", 2048, "video/mp4", "k/pizza.jpg", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "image/* content type")

		_, err = NewProductMedia(tenantID, productID, MediaKindVideo, "preparo.mp4", 2048, "image/jpeg", "k/preparo.mp4", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "video/* content type")
	})

	t.Run("fails with path traversal in storage key", func(t *testing.T) {
		_, err := NewProductMedia(tenantID, productID, MediaKindImage, "pizza.jpg", 2048, "image/jpeg", "tenants/../secrets/pizza.jpg", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "path traversal")
	})

	t.Run("fails with absolute storage key", func(t *testing.T) {
		_, err := NewProductMedia(tenantID, productID, MediaKindImage, "pizza.jpg", 2048, "image/jpeg", "/etc/passwd", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "relative path")
	})

	t.Run("fails with storage key too long", func(t *testing.T) {
		_, err := NewProductMedia(tenantID, productID, MediaKindImage, "pizza.jpg", 2048, "image/jpeg", strings.Repeat("k", 501), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed 500 characters")
	})
}

func TestProductMediaLifecycle(t *testing.T) {
	tenantID := uuid.New()
	productID := uuid.New()

	newMedia := func(t *testing.T) *ProductMedia {
		media, err := NewProductMedia(tenantID, productID, MediaKindImage, "pizza.jpg", 2048, "image/jpeg", "k/pizza.jpg", nil)
		require.NoError(t, err)
		media.ClearDomainEvents()
		return media
	}

	t.Run("confirms pending media", func(t *testing.T) {
		media := newMedia(t)

		err := media.Confirm()
		require.NoError(t, err)
		assert.Equal(t, MediaStatusActive, media.Status)
		assert.True(t, media.IsActive())

		events := media.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeProductMediaConfirmed, events[0].EventType())
	})

	t.Run("fails to confirm twice", func(t *testing.T) {
		media := newMedia(t)
		require.NoError(t, media.Confirm())

		err := media.Confirm()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already confirmed")
	})

	t.Run("deletes media and clears cover flag", func(t *testing.T) {
		media := newMedia(t)
		require.NoError(t, media.Confirm())
		require.NoError(t, media.SetAsCover())
		media.ClearDomainEvents()

		err := media.Delete()
		require.NoError(t, err)
		assert.Equal(t, MediaStatusDeleted, media.Status)
		assert.False(t, media.IsCover)

		events := media.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeProductMediaDeleted, events[0].EventType())
	})

	t.Run("fails to delete twice", func(t *testing.T) {
		media := newMedia(t)
		require.NoError(t, media.Delete())

		err := media.Delete()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already deleted")
	})

	t.Run("fails to confirm deleted media", func(t *testing.T) {
		media := newMedia(t)
		require.NoError(t, media.Delete())

		err := media.Confirm()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Cannot confirm deleted media")
	})
}

func TestProductMediaCover(t *testing.T) {
	tenantID := uuid.New()
	productID := uuid.New()

	t.Run("marks image as cover", func(t *testing.T) {
		media, err := NewProductMedia(tenantID, productID, MediaKindImage, "pizza.jpg", 2048, "image/jpeg", "k/pizza.jpg", nil)
		require.NoError(t, err)

		require.NoError(t, media.SetAsCover())
		assert.True(t, media.IsCover)
	})

	t.Run("fails to mark cover twice", func(t *testing.T) {
		media, err := NewProductMedia(tenantID, productID, MediaKindImage, "pizza.jpg", 2048, "image/jpeg", "k/pizza.jpg", nil)
		require.NoError(t, err)
		require.NoError(t, media.SetAsCover())

		err = media.SetAsCover()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already the cover")
	})

	t.Run("fails to use video as cover", func(t *testing.T) {
		media, err := NewProductMedia(tenantID, productID, MediaKindVideo, "preparo.mp4", 2048, "video/mp4", "k/preparo.mp4", nil)
		require.NoError(t, err)

		err = media.SetAsCover()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Only images can be the product cover")
	})

	t.Run("clear cover is idempotent", func(t *testing.T) {
		media, err := NewProductMedia(tenantID, productID, MediaKindImage, "pizza.jpg", 2048, "image/jpeg", "k/pizza.jpg", nil)
		require.NoError(t, err)
		require.NoError(t, media.SetAsCover())

		version := media.Version
		media.ClearCover()
		assert.False(t, media.IsCover)
		assert.Equal(t, version+1, media.Version)

		media.ClearCover()
		assert.Equal(t, version+1, media.Version)
	})
}
