package catalog

import (
	"context"
	"testing"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/catalog"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// ============================================================================
// Mocks
// ============================================================================

// MockStoreRepository is a mock implementation of store.StoreRepository
type MockStoreRepository struct {
	mock.Mock
}

func (m *MockStoreRepository) Create(ctx context.Context, st *store.Store) error {
	args := m.Called(ctx, st)
	return args.Error(0)
}

func (m *MockStoreRepository) Update(ctx context.Context, st *store.Store) error {
	args := m.Called(ctx, st)
	return args.Error(0)
}

func (m *MockStoreRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStoreRepository) FindByID(ctx context.Context, id uuid.UUID) (*store.Store, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Store), args.Error(1)
}

func (m *MockStoreRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*store.Store, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Store), args.Error(1)
}

func (m *MockStoreRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter *store.StoreFilter) ([]*store.Store, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*store.Store), args.Error(1)
}

func (m *MockStoreRepository) FindDefault(ctx context.Context, tenantID uuid.UUID) (*store.Store, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Store), args.Error(1)
}

func (m *MockStoreRepository) FindActive(ctx context.Context, tenantID uuid.UUID) ([]*store.Store, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*store.Store), args.Error(1)
}

func (m *MockStoreRepository) ClearDefault(ctx context.Context, tenantID uuid.UUID) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}

func (m *MockStoreRepository) Count(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

var _ store.StoreRepository = (*MockStoreRepository)(nil)

// MockCategoryRepository is a mock implementation of catalog.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *catalog.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *catalog.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*catalog.Category, error) {
	args := m.Called(ctx, storeID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindByStore(ctx context.Context, storeID uuid.UUID) ([]*catalog.Category, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindActiveByStore(ctx context.Context, storeID uuid.UUID) ([]*catalog.Category, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) ExistsByName(ctx context.Context, storeID uuid.UUID, name string) (bool, error) {
	args := m.Called(ctx, storeID, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) CountProducts(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCategoryRepository) Reorder(ctx context.Context, storeID uuid.UUID, orderedIDs []uuid.UUID) error {
	args := m.Called(ctx, storeID, orderedIDs)
	return args.Error(0)
}

var _ catalog.CategoryRepository = (*MockCategoryRepository)(nil)

// ============================================================================
// Test Helpers
// ============================================================================

func catalogTestTenantID() uuid.UUID {
	return uuid.MustParse("11111111-1111-1111-1111-111111111111")
}

func catalogTestStoreID() uuid.UUID {
	return uuid.MustParse("22222222-2222-2222-2222-222222222222")
}

func createTestStore(tenantID uuid.UUID) *store.Store {
	st, _ := store.NewStore(tenantID, "Pizzaria do Zé")
	st.ID = catalogTestStoreID()
	return st
}

func createTestCategory(tenantID, storeID uuid.UUID) *catalog.Category {
	category, _ := catalog.NewCategory(tenantID, storeID, "Pizzas")
	return category
}

func newTestCategoryService() (*CategoryService, *MockCategoryRepository, *MockStoreRepository) {
	mockCategoryRepo := new(MockCategoryRepository)
	mockStoreRepo := new(MockStoreRepository)
	service := NewCategoryService(mockCategoryRepo, mockStoreRepo)
	return service, mockCategoryRepo, mockStoreRepo
}

// ============================================================================
// Tests
// ============================================================================

func TestCategoryService_Create_Success(t *testing.T) {
	service, mockCategoryRepo, mockStoreRepo := newTestCategoryService()

	ctx := context.Background()
	tenantID := catalogTestTenantID()
	storeID := catalogTestStoreID()
	st := createTestStore(tenantID)

	req := CreateCategoryRequest{
		Name:        "Pizzas",
		Description: "Nossas pizzas artesanais",
	}

	mockStoreRepo.On("FindByIDForTenant", ctx, tenantID, storeID).Return(st, nil)
	mockCategoryRepo.On("ExistsByName", ctx, storeID, "Pizzas").Return(false, nil)
	mockCategoryRepo.On("Create", ctx, mock.AnythingOfType("*catalog.Category")).Return(nil)

	result, err := service.Create(ctx, tenantID, storeID, req)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "Pizzas", result.Name)
	assert.Equal(t, "Nossas pizzas artesanais", result.Description)
	assert.Equal(t, "active", result.Status)
	mockStoreRepo.AssertExpectations(t)
	mockCategoryRepo.AssertExpectations(t)
}

func TestCategoryService_Create_DuplicateName(t *testing.T) {
	service, mockCategoryRepo, mockStoreRepo := newTestCategoryService()

	ctx := context.Background()
	tenantID := catalogTestTenantID()
	storeID := catalogTestStoreID()
	st := createTestStore(tenantID)

	mockStoreRepo.On("FindByIDForTenant", ctx, tenantID, storeID).Return(st, nil)
	mockCategoryRepo.On("ExistsByName", ctx, storeID, "Pizzas").Return(true, nil)

	result, err := service.Create(ctx, tenantID, storeID, CreateCategoryRequest{Name: "Pizzas"})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	mockCategoryRepo.AssertExpectations(t)
}

func TestCategoryService_Create_StoreNotFound(t *testing.T) {
	service, _, mockStoreRepo := newTestCategoryService()

	ctx := context.Background()
	tenantID := catalogTestTenantID()
	storeID := catalogTestStoreID()

	mockStoreRepo.On("FindByIDForTenant", ctx, tenantID, storeID).Return(nil, shared.ErrNotFound)

	result, err := service.Create(ctx, tenantID, storeID, CreateCategoryRequest{Name: "Pizzas"})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "STORE_NOT_FOUND", domainErr.Code)
	mockStoreRepo.AssertExpectations(t)
}

func TestCategoryService_GetByID_WithProductCount(t *testing.T) {
	service, mockCategoryRepo, _ := newTestCategoryService()

	ctx := context.Background()
	tenantID := catalogTestTenantID()
	storeID := catalogTestStoreID()
	category := createTestCategory(tenantID, storeID)

	mockCategoryRepo.On("FindByIDForStore", ctx, storeID, category.ID).Return(category, nil)
	mockCategoryRepo.On("CountProducts", ctx, category.ID).Return(int64(12), nil)

	result, err := service.GetByID(ctx, storeID, category.ID)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, int64(12), result.ProductCount)
	mockCategoryRepo.AssertExpectations(t)
}

func TestCategoryService_GetByID_NotFound(t *testing.T) {
	service, mockCategoryRepo, _ := newTestCategoryService()

	ctx := context.Background()
	storeID := catalogTestStoreID()
	categoryID := uuid.New()

	mockCategoryRepo.On("FindByIDForStore", ctx, storeID, categoryID).Return(nil, shared.ErrNotFound)

	result, err := service.GetByID(ctx, storeID, categoryID)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CATEGORY_NOT_FOUND", domainErr.Code)
}

func TestCategoryService_Update_RenameChecksDuplicate(t *testing.T) {
	service, mockCategoryRepo, _ := newTestCategoryService()

	ctx := context.Background()
	tenantID := catalogTestTenantID()
	storeID := catalogTestStoreID()
	category := createTestCategory(tenantID, storeID)

	newName := "Bebidas"
	mockCategoryRepo.On("FindByIDForStore", ctx, storeID, category.ID).Return(category, nil)
	mockCategoryRepo.On("ExistsByName", ctx, storeID, "Bebidas").Return(true, nil)

	result, err := service.Update(ctx, storeID, category.ID, UpdateCategoryRequest{Name: &newName})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	mockCategoryRepo.AssertExpectations(t)
}

func TestCategoryService_Update_SameNameSkipsDuplicateCheck(t *testing.T) {
	service, mockCategoryRepo, _ := newTestCategoryService()

	ctx := context.Background()
	tenantID := catalogTestTenantID()
	storeID := catalogTestStoreID()
	category := createTestCategory(tenantID, storeID)

	description := "Atualizada"
	mockCategoryRepo.On("FindByIDForStore", ctx, storeID, category.ID).Return(category, nil)
	mockCategoryRepo.On("Update", ctx, category).Return(nil)

	result, err := service.Update(ctx, storeID, category.ID, UpdateCategoryRequest{Description: &description})

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "Atualizada", result.Description)
	mockCategoryRepo.AssertNotCalled(t, "ExistsByName", mock.Anything, mock.Anything, mock.Anything)
	mockCategoryRepo.AssertExpectations(t)
}

func TestCategoryService_Delete_BlockedWhenProductsAssigned(t *testing.T) {
	service, mockCategoryRepo, _ := newTestCategoryService()

	ctx := context.Background()
	tenantID := catalogTestTenantID()
	storeID := catalogTestStoreID()
	category := createTestCategory(tenantID, storeID)

	mockCategoryRepo.On("FindByIDForStore", ctx, storeID, category.ID).Return(category, nil)
	mockCategoryRepo.On("CountProducts", ctx, category.ID).Return(int64(3), nil)

	err := service.Delete(ctx, storeID, category.ID)

	assert.Error(t, err)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CATEGORY_HAS_PRODUCTS", domainErr.Code)
	mockCategoryRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCategoryService_Delete_Success(t *testing.T) {
	service, mockCategoryRepo, _ := newTestCategoryService()

	ctx := context.Background()
	tenantID := catalogTestTenantID()
	storeID := catalogTestStoreID()
	category := createTestCategory(tenantID, storeID)

	mockCategoryRepo.On("FindByIDForStore", ctx, storeID, category.ID).Return(category, nil)
	mockCategoryRepo.On("CountProducts", ctx, category.ID).Return(int64(0), nil)
	mockCategoryRepo.On("Delete", ctx, category.ID).Return(nil)

	err := service.Delete(ctx, storeID, category.ID)

	assert.NoError(t, err)
	mockCategoryRepo.AssertExpectations(t)
}

func TestCategoryService_Reorder_RejectsPartialList(t *testing.T) {
	service, mockCategoryRepo, _ := newTestCategoryService()

	ctx := context.Background()
	tenantID := catalogTestTenantID()
	storeID := catalogTestStoreID()
	first := createTestCategory(tenantID, storeID)
	second, _ := catalog.NewCategory(tenantID, storeID, "Bebidas")

	mockCategoryRepo.On("FindByStore", ctx, storeID).Return([]*catalog.Category{first, second}, nil)

	result, err := service.Reorder(ctx, storeID, ReorderCategoriesRequest{
		CategoryIDs: []uuid.UUID{first.ID},
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_REORDER", domainErr.Code)
	mockCategoryRepo.AssertNotCalled(t, "Reorder", mock.Anything, mock.Anything, mock.Anything)
}

func TestCategoryService_Reorder_RejectsUnknownID(t *testing.T) {
	service, mockCategoryRepo, _ := newTestCategoryService()

	ctx := context.Background()
	tenantID := catalogTestTenantID()
	storeID := catalogTestStoreID()
	first := createTestCategory(tenantID, storeID)
	second, _ := catalog.NewCategory(tenantID, storeID, "Bebidas")

	mockCategoryRepo.On("FindByStore", ctx, storeID).Return([]*catalog.Category{first, second}, nil)

	result, err := service.Reorder(ctx, storeID, ReorderCategoriesRequest{
		CategoryIDs: []uuid.UUID{first.ID, uuid.New()},
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CATEGORY_NOT_FOUND", domainErr.Code)
}

func TestCategoryService_Deactivate(t *testing.T) {
	service, mockCategoryRepo, _ := newTestCategoryService()

	ctx := context.Background()
	tenantID := catalogTestTenantID()
	storeID := catalogTestStoreID()
	category := createTestCategory(tenantID, storeID)

	mockCategoryRepo.On("FindByIDForStore", ctx, storeID, category.ID).Return(category, nil)
	mockCategoryRepo.On("Update", ctx, category).Return(nil)

	result, err := service.Deactivate(ctx, storeID, category.ID)

	assert.NoError(t, err)
	assert.Equal(t, "inactive", result.Status)
	mockCategoryRepo.AssertExpectations(t)
}
