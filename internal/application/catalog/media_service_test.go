package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/catalog"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// ============================================================================
// Mocks
// ============================================================================

// MockProductMediaRepository is a mock implementation of catalog.ProductMediaRepository
type MockProductMediaRepository struct {
	mock.Mock
}

func (m *MockProductMediaRepository) Create(ctx context.Context, media *catalog.ProductMedia) error {
	args := m.Called(ctx, media)
	return args.Error(0)
}

func (m *MockProductMediaRepository) Update(ctx context.Context, media *catalog.ProductMedia) error {
	args := m.Called(ctx, media)
	return args.Error(0)
}

func (m *MockProductMediaRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ProductMedia, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProductMedia), args.Error(1)
}

func (m *MockProductMediaRepository) FindByIDForProduct(ctx context.Context, productID, id uuid.UUID) (*catalog.ProductMedia, error) {
	args := m.Called(ctx, productID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProductMedia), args.Error(1)
}

func (m *MockProductMediaRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]*catalog.ProductMedia, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.ProductMedia), args.Error(1)
}

func (m *MockProductMediaRepository) FindActiveByProduct(ctx context.Context, productID uuid.UUID) ([]*catalog.ProductMedia, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.ProductMedia), args.Error(1)
}

func (m *MockProductMediaRepository) FindCover(ctx context.Context, productID uuid.UUID) (*catalog.ProductMedia, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProductMedia), args.Error(1)
}

func (m *MockProductMediaRepository) FindCoversByProducts(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]*catalog.ProductMedia, error) {
	args := m.Called(ctx, productIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]*catalog.ProductMedia), args.Error(1)
}

func (m *MockProductMediaRepository) FindStalePending(ctx context.Context, olderThanHours int, limit int) ([]*catalog.ProductMedia, error) {
	args := m.Called(ctx, olderThanHours, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.ProductMedia), args.Error(1)
}

func (m *MockProductMediaRepository) CountActiveByProduct(ctx context.Context, productID uuid.UUID, kind catalog.MediaKind) (int64, error) {
	args := m.Called(ctx, productID, kind)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductMediaRepository) ClearCover(ctx context.Context, productID uuid.UUID) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

var _ catalog.ProductMediaRepository = (*MockProductMediaRepository)(nil)

// MockObjectStorageService is a mock implementation of ObjectStorageService
type MockObjectStorageService struct {
	mock.Mock
}

func (m *MockObjectStorageService) GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, contentType, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorageService) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorageService) DeleteObject(ctx context.Context, storageKey string) error {
	args := m.Called(ctx, storageKey)
	return args.Error(0)
}

func (m *MockObjectStorageService) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	args := m.Called(ctx, storageKey)
	return args.Bool(0), args.Error(1)
}

var _ ObjectStorageService = (*MockObjectStorageService)(nil)

// ============================================================================
// Test Helpers
// ============================================================================

func createTestMedia(tenantID, productID uuid.UUID) *catalog.ProductMedia {
	media, _ := catalog.NewProductMedia(
		tenantID,
		productID,
		catalog.MediaKindImage,
		"pizza.jpg",
		2048,
		"image/jpeg",
		"tenants/t/products/p/media/x.jpg",
		nil,
	)
	return media
}

func newTestMediaService() (*MediaService, *MockProductMediaRepository, *MockProductRepository, *MockObjectStorageService) {
	mockMediaRepo := new(MockProductMediaRepository)
	mockProductRepo := new(MockProductRepository)
	mockStorage := new(MockObjectStorageService)
	service := NewMediaService(mockMediaRepo, mockProductRepo, mockStorage, zap.NewNop())
	return service, mockMediaRepo, mockProductRepo, mockStorage
}

// ============================================================================
// Tests
// ============================================================================

func TestMediaService_PresignUpload_Success(t *testing.T) {
	service, mockMediaRepo, mockProductRepo, mockStorage := newTestMediaService()

	ctx := context.Background()
	tenantID := catalogTestTenantID()
	storeID := catalogTestStoreID()
	product := createTestProduct(tenantID, storeID)
	expiresAt := time.Now().Add(15 * time.Minute)

	req := PresignUploadRequest{
		ProductID:   product.ID,
		Kind:        "image",
		FileName:    "pizza.jpg",
		FileSize:    2048,
		ContentType: "image/jpeg",
	}

	mockProductRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	mockMediaRepo.On("CountActiveByProduct", ctx, product.ID, catalog.MediaKindImage).Return(int64(2), nil)
	mockMediaRepo.On("Create", ctx, mock.AnythingOfType("*catalog.ProductMedia")).Return(nil)
	mockStorage.On("GenerateUploadURL", ctx, mock.AnythingOfType("string"), "image/jpeg", mock.AnythingOfType("time.Duration")).
		Return("https://media.roksell.com/upload?sig=abc", expiresAt, nil)

	result, err := service.PresignUpload(ctx, tenantID, req, nil)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.NotEqual(t, uuid.Nil, result.MediaID)
	assert.Equal(t, "https://media.roksell.com/upload?sig=abc", result.UploadURL)
	mockProductRepo.AssertExpectations(t)
	mockMediaRepo.AssertExpectations(t)
	mockStorage.AssertExpectations(t)
}

func TestMediaService_PresignUpload_DisallowedContentType(t *testing.T) {
	service, mockMediaRepo, mockProductRepo, _ := newTestMediaService()

	ctx := context.Background()
	tenantID := catalogTestTenantID()
	storeID := catalogTestStoreID()
	product := createTestProduct(tenantID, storeID)

	req := PresignUploadRequest{
		ProductID:   product.ID,
		Kind:        "image",
		FileName:    "logo.svg",
		FileSize:    512,
		ContentType: "image/svg+xml",
	}

	mockProductRepo.On("FindByID", ctx, product.ID).Return(product, nil)

	result, err := service.PresignUpload(ctx, tenantID, req, nil)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "DISALLOWED_CONTENT_TYPE", domainErr.Code)
	mockMediaRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestMediaService_PresignUpload_ImageLimitReached(t *testing.T) {
	service, mockMediaRepo, mockProductRepo, _ := newTestMediaService()

	ctx := context.Background()
	tenantID := catalogTestTenantID()
	storeID := catalogTestStoreID()
	product := createTestProduct(tenantID, storeID)

	req := PresignUploadRequest{
		ProductID:   product.ID,
		Kind:        "image",
		FileName:    "pizza.jpg",
		FileSize:    2048,
		ContentType: "image/jpeg",
	}

	mockProductRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	mockMediaRepo.On("CountActiveByProduct", ctx, product.ID, catalog.MediaKindImage).
		Return(int64(catalog.MaxImagesPerProduct), nil)

	result, err := service.PresignUpload(ctx, tenantID, req, nil)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "MEDIA_LIMIT_REACHED", domainErr.Code)
}

func TestMediaService_PresignUpload_OtherTenantsProduct(t *testing.T) {
	service, _, mockProductRepo, _ := newTestMediaService()

	ctx := context.Background()
	tenantID := catalogTestTenantID()
	product := createTestProduct(uuid.New(), catalogTestStoreID())

	req := PresignUploadRequest{
		ProductID:   product.ID,
		Kind:        "image",
		FileName:    "pizza.jpg",
		FileSize:    2048,
		ContentType: "image/jpeg",
	}

	mockProductRepo.On("FindByID", ctx, product.ID).Return(product, nil)

	result, err := service.PresignUpload(ctx, tenantID, req, nil)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "PRODUCT_NOT_FOUND", domainErr.Code)
}

func TestMediaService_ConfirmUpload_FirstImageBecomesCover(t *testing.T) {
	service, mockMediaRepo, _, mockStorage := newTestMediaService()

	ctx := context.Background()
	tenantID := catalogTestTenantID()
	productID := uuid.New()
	media := createTestMedia(tenantID, productID)
	downloadExpiry := time.Now().Add(time.Hour)

	mockMediaRepo.On("FindByID", ctx, media.ID).Return(media, nil)
	mockStorage.On("ObjectExists", ctx, media.StorageKey).Return(true, nil)
	mockMediaRepo.On("FindCover", ctx, productID).Return(nil, shared.ErrNotFound)
	mockMediaRepo.On("Update", ctx, media).Return(nil)
	mockStorage.On("GenerateDownloadURL", ctx, media.StorageKey, mock.AnythingOfType("time.Duration")).
		Return("https://media.roksell.com/x.jpg?sig=def", downloadExpiry, nil)

	result, err := service.ConfirmUpload(ctx, tenantID, media.ID)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "active", result.Status)
	assert.True(t, result.IsCover)
	assert.Equal(t, "https://media.roksell.com/x.jpg?sig=def", result.URL)
	mockMediaRepo.AssertExpectations(t)
	mockStorage.AssertExpectations(t)
}

func TestMediaService_ConfirmUpload_KeepsExistingCover(t *testing.T) {
	service, mockMediaRepo, _, mockStorage := newTestMediaService()

	ctx := context.Background()
	tenantID := catalogTestTenantID()
	productID := uuid.New()
	existingCover := createTestMedia(tenantID, productID)
	_ = existingCover.Confirm()
	_ = existingCover.SetAsCover()
	media := createTestMedia(tenantID, productID)
	downloadExpiry := time.Now().Add(time.Hour)

	mockMediaRepo.On("FindByID", ctx, media.ID).Return(media, nil)
	mockStorage.On("ObjectExists", ctx, media.StorageKey).Return(true, nil)
	mockMediaRepo.On("FindCover", ctx, productID).Return(existingCover, nil)
	mockMediaRepo.On("Update", ctx, media).Return(nil)
	mockStorage.On("GenerateDownloadURL", ctx, media.StorageKey, mock.AnythingOfType("time.Duration")).
		Return("https://media.roksell.com/y.jpg?sig=ghi", downloadExpiry, nil)

	result, err := service.ConfirmUpload(ctx, tenantID, media.ID)

	assert.NoError(t, err)
	assert.False(t, result.IsCover)
}

func TestMediaService_ConfirmUpload_ObjectMissing(t *testing.T) {
	service, mockMediaRepo, _, mockStorage := newTestMediaService()

	ctx := context.Background()
	tenantID := catalogTestTenantID()
	media := createTestMedia(tenantID, uuid.New())

	mockMediaRepo.On("FindByID", ctx, media.ID).Return(media, nil)
	mockStorage.On("ObjectExists", ctx, media.StorageKey).Return(false, nil)

	result, err := service.ConfirmUpload(ctx, tenantID, media.ID)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UPLOAD_NOT_FOUND", domainErr.Code)
	mockMediaRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestMediaService_SetCover_ClearsPreviousCover(t *testing.T) {
	service, mockMediaRepo, _, mockStorage := newTestMediaService()

	ctx := context.Background()
	tenantID := catalogTestTenantID()
	productID := uuid.New()
	media := createTestMedia(tenantID, productID)
	_ = media.Confirm()
	downloadExpiry := time.Now().Add(time.Hour)

	mockMediaRepo.On("FindByID", ctx, media.ID).Return(media, nil)
	mockMediaRepo.On("ClearCover", ctx, productID).Return(nil)
	mockMediaRepo.On("Update", ctx, media).Return(nil)
	mockStorage.On("GenerateDownloadURL", ctx, media.StorageKey, mock.AnythingOfType("time.Duration")).
		Return("https://media.roksell.com/x.jpg", downloadExpiry, nil)

	result, err := service.SetCover(ctx, tenantID, media.ID)

	assert.NoError(t, err)
	assert.True(t, result.IsCover)
	mockMediaRepo.AssertExpectations(t)
}

func TestMediaService_Delete_StorageFailureIsNotFatal(t *testing.T) {
	service, mockMediaRepo, _, mockStorage := newTestMediaService()

	ctx := context.Background()
	tenantID := catalogTestTenantID()
	media := createTestMedia(tenantID, uuid.New())
	_ = media.Confirm()

	mockMediaRepo.On("FindByID", ctx, media.ID).Return(media, nil)
	mockMediaRepo.On("Update", ctx, media).Return(nil)
	mockStorage.On("DeleteObject", ctx, media.StorageKey).Return(assert.AnError)

	err := service.Delete(ctx, tenantID, media.ID)

	assert.NoError(t, err)
	assert.Equal(t, catalog.MediaStatusDeleted, media.Status)
	mockMediaRepo.AssertExpectations(t)
	mockStorage.AssertExpectations(t)
}
