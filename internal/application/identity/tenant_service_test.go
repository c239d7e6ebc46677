package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/identity"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func createTenantService(tenantRepo *MockTenantRepository, userRepo *MockUserRepository, groupRepo *MockGroupRepository) *TenantService {
	return NewTenantService(tenantRepo, userRepo, groupRepo, DefaultTenantServiceConfig(), zap.NewNop())
}

func TestTenantService_Register_Success(t *testing.T) {
	ctx := context.Background()
	tenantRepo := new(MockTenantRepository)
	userRepo := new(MockUserRepository)
	groupRepo := new(MockGroupRepository)

	tenantRepo.On("ExistsBySlug", ctx, "hamburgueria-brasa").Return(false, nil)
	tenantRepo.On("Save", ctx, mock.AnythingOfType("*identity.Tenant")).Return(nil)
	// Writes after the tenant is saved run on a tenant-scoped context
	groupRepo.On("Create", mock.Anything, mock.AnythingOfType("*identity.Group")).Return(nil)
	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)
	userRepo.On("SaveUserGroups", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)

	svc := createTenantService(tenantRepo, userRepo, groupRepo)

	result, err := svc.Register(ctx, RegisterTenantInput{
		Slug:          " Hamburgueria-Brasa ",
		Name:          "Hamburgueria Brasa",
		OwnerName:     "Carlos Mendes",
		OwnerEmail:    "carlos@brasa.com.br",
		OwnerPassword: "senha1234",
	})

	require.NoError(t, err)
	assert.Equal(t, "hamburgueria-brasa", result.Tenant.Slug)
	assert.Equal(t, "free", result.Tenant.Plan)
	assert.Equal(t, "active", result.Tenant.Status)
	assert.Nil(t, result.Tenant.TrialEndsAt)
	assert.Equal(t, "carlos@brasa.com.br", result.Owner.Email)
	assert.True(t, result.Owner.IsOwner)
	assert.Equal(t, "active", result.Owner.Status)
	assert.Len(t, result.Owner.GroupIDs, 1)

	tenantRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
	groupRepo.AssertExpectations(t)
}

func TestTenantService_Register_Trial(t *testing.T) {
	ctx := context.Background()
	tenantRepo := new(MockTenantRepository)
	userRepo := new(MockUserRepository)
	groupRepo := new(MockGroupRepository)

	tenantRepo.On("ExistsBySlug", ctx, "hamburgueria-brasa").Return(false, nil)
	tenantRepo.On("Save", ctx, mock.AnythingOfType("*identity.Tenant")).Return(nil)
	groupRepo.On("Create", mock.Anything, mock.AnythingOfType("*identity.Group")).Return(nil)
	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)
	userRepo.On("SaveUserGroups", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)

	svc := createTenantService(tenantRepo, userRepo, groupRepo)

	result, err := svc.Register(ctx, RegisterTenantInput{
		Slug:          "hamburgueria-brasa",
		Name:          "Hamburgueria Brasa",
		OwnerName:     "Carlos Mendes",
		OwnerEmail:    "carlos@brasa.com.br",
		OwnerPassword: "senha1234",
		Trial:         true,
	})

	require.NoError(t, err)
	assert.Equal(t, "trial", result.Tenant.Status)
	require.NotNil(t, result.Tenant.TrialEndsAt)
	expectedEnd := time.Now().AddDate(0, 0, 14)
	assert.WithinDuration(t, expectedEnd, *result.Tenant.TrialEndsAt, time.Minute)
}

func TestTenantService_Register_SlugTaken(t *testing.T) {
	ctx := context.Background()
	tenantRepo := new(MockTenantRepository)

	tenantRepo.On("ExistsBySlug", ctx, "hamburgueria-brasa").Return(true, nil)

	svc := createTenantService(tenantRepo, new(MockUserRepository), new(MockGroupRepository))

	_, err := svc.Register(ctx, RegisterTenantInput{
		Slug:          "hamburgueria-brasa",
		Name:          "Hamburgueria Brasa",
		OwnerName:     "Carlos Mendes",
		OwnerEmail:    "carlos@brasa.com.br",
		OwnerPassword: "senha1234",
	})

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "SLUG_TAKEN", domainErr.Code)
	tenantRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestTenantService_Register_RollsBackWhenOwnerGroupFails(t *testing.T) {
	ctx := context.Background()
	tenantRepo := new(MockTenantRepository)
	userRepo := new(MockUserRepository)
	groupRepo := new(MockGroupRepository)

	tenantRepo.On("ExistsBySlug", ctx, "hamburgueria-brasa").Return(false, nil)
	tenantRepo.On("Save", ctx, mock.AnythingOfType("*identity.Tenant")).Return(nil)
	groupRepo.On("Create", mock.Anything, mock.AnythingOfType("*identity.Group")).Return(errors.New("db error"))
	tenantRepo.On("Delete", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(nil)

	svc := createTenantService(tenantRepo, userRepo, groupRepo)

	_, err := svc.Register(ctx, RegisterTenantInput{
		Slug:          "hamburgueria-brasa",
		Name:          "Hamburgueria Brasa",
		OwnerName:     "Carlos Mendes",
		OwnerEmail:    "carlos@brasa.com.br",
		OwnerPassword: "senha1234",
	})

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INTERNAL_ERROR", domainErr.Code)
	tenantRepo.AssertCalled(t, "Delete", mock.Anything, mock.AnythingOfType("uuid.UUID"))
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTenantService_Register_WeakOwnerPassword(t *testing.T) {
	ctx := context.Background()
	tenantRepo := new(MockTenantRepository)
	groupRepo := new(MockGroupRepository)

	tenantRepo.On("ExistsBySlug", ctx, "hamburgueria-brasa").Return(false, nil)
	tenantRepo.On("Save", ctx, mock.AnythingOfType("*identity.Tenant")).Return(nil)
	groupRepo.On("Create", mock.Anything, mock.AnythingOfType("*identity.Group")).Return(nil)
	groupRepo.On("Delete", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(nil)
	tenantRepo.On("Delete", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(nil)

	svc := createTenantService(tenantRepo, new(MockUserRepository), groupRepo)

	_, err := svc.Register(ctx, RegisterTenantInput{
		Slug:          "hamburgueria-brasa",
		Name:          "Hamburgueria Brasa",
		OwnerName:     "Carlos Mendes",
		OwnerEmail:    "carlos@brasa.com.br",
		OwnerPassword: "abc",
	})

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_PASSWORD", domainErr.Code)
	groupRepo.AssertCalled(t, "Delete", mock.Anything, mock.AnythingOfType("uuid.UUID"))
	tenantRepo.AssertCalled(t, "Delete", mock.Anything, mock.AnythingOfType("uuid.UUID"))
}

func TestTenantService_GetBySlug_NormalizesInput(t *testing.T) {
	ctx := context.Background()
	tenantRepo := new(MockTenantRepository)

	tenant := createTestTenant(t)
	tenantRepo.On("FindBySlug", ctx, "pizzaria-do-ze").Return(tenant, nil)

	svc := createTenantService(tenantRepo, new(MockUserRepository), new(MockGroupRepository))

	dto, err := svc.GetBySlug(ctx, " Pizzaria-do-Ze ")

	require.NoError(t, err)
	assert.Equal(t, "pizzaria-do-ze", dto.Slug)
}

func TestTenantService_List_Success(t *testing.T) {
	ctx := context.Background()
	tenantRepo := new(MockTenantRepository)

	tenant1 := createTestTenant(t)
	tenant2, err := identity.NewTenant("hamburgueria-brasa", "Hamburgueria Brasa")
	require.NoError(t, err)

	filter := shared.Filter{Page: 1, PageSize: 20}
	tenantRepo.On("FindAll", ctx, filter).Return([]identity.Tenant{*tenant1, *tenant2}, nil)
	tenantRepo.On("Count", ctx, filter).Return(int64(2), nil)

	svc := createTenantService(tenantRepo, new(MockUserRepository), new(MockGroupRepository))

	result, err := svc.List(ctx, shared.Filter{})

	require.NoError(t, err)
	assert.Len(t, result.Tenants, 2)
	assert.Equal(t, int64(2), result.Total)
	assert.Equal(t, 1, result.TotalPages)
}

func TestTenantService_Update_Success(t *testing.T) {
	ctx := context.Background()
	tenantRepo := new(MockTenantRepository)

	tenant := createTestTenant(t)

	tenantRepo.On("FindByID", ctx, tenant.ID).Return(tenant, nil)
	tenantRepo.On("Save", ctx, tenant).Return(nil)

	svc := createTenantService(tenantRepo, new(MockUserRepository), new(MockGroupRepository))

	dto, err := svc.Update(ctx, UpdateTenantInput{
		ID:           tenant.ID,
		Name:         "Pizzaria do Zé",
		LegalName:    "Pizzaria do Zé Comércio de Alimentos Ltda",
		Document:     "11.222.333/0001-81",
		ContactName:  "José Almeida",
		ContactPhone: "+5511999990000",
		ContactEmail: "Contato@Pizzaria.com.br",
	})

	require.NoError(t, err)
	assert.Equal(t, "11222333000181", dto.Document)
	assert.Equal(t, "contato@pizzaria.com.br", dto.ContactEmail)
	tenantRepo.AssertExpectations(t)
}

func TestTenantService_Update_InvalidDocument(t *testing.T) {
	ctx := context.Background()
	tenantRepo := new(MockTenantRepository)

	tenant := createTestTenant(t)
	tenantRepo.On("FindByID", ctx, tenant.ID).Return(tenant, nil)

	svc := createTenantService(tenantRepo, new(MockUserRepository), new(MockGroupRepository))

	_, err := svc.Update(ctx, UpdateTenantInput{
		ID:       tenant.ID,
		Name:     "Pizzaria do Zé",
		Document: "123.456.789-00",
	})

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_DOCUMENT", domainErr.Code)
	tenantRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestTenantService_SetPlan_Success(t *testing.T) {
	ctx := context.Background()
	tenantRepo := new(MockTenantRepository)

	tenant := createTestTenant(t)

	tenantRepo.On("FindByID", ctx, tenant.ID).Return(tenant, nil)
	tenantRepo.On("Save", ctx, tenant).Return(nil)

	svc := createTenantService(tenantRepo, new(MockUserRepository), new(MockGroupRepository))

	dto, err := svc.SetPlan(ctx, tenant.ID, "pro")

	require.NoError(t, err)
	assert.Equal(t, "pro", dto.Plan)
	assert.Equal(t, 5000, dto.Limits.MaxProducts)
	assert.Equal(t, 25, dto.Limits.MaxUsers)
}

func TestTenantService_SetPlan_InvalidPlan(t *testing.T) {
	ctx := context.Background()
	tenantRepo := new(MockTenantRepository)

	tenant := createTestTenant(t)
	tenantRepo.On("FindByID", ctx, tenant.ID).Return(tenant, nil)

	svc := createTenantService(tenantRepo, new(MockUserRepository), new(MockGroupRepository))

	_, err := svc.SetPlan(ctx, tenant.ID, "platinum")

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_PLAN", domainErr.Code)
	tenantRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestTenantService_Suspend_Success(t *testing.T) {
	ctx := context.Background()
	tenantRepo := new(MockTenantRepository)

	tenant := createTestTenant(t)

	tenantRepo.On("FindByID", ctx, tenant.ID).Return(tenant, nil)
	tenantRepo.On("Save", ctx, tenant).Return(nil)

	svc := createTenantService(tenantRepo, new(MockUserRepository), new(MockGroupRepository))

	dto, err := svc.Suspend(ctx, tenant.ID)

	require.NoError(t, err)
	assert.Equal(t, "suspended", dto.Status)
}

func TestTenantService_Delete_ActiveTenant(t *testing.T) {
	ctx := context.Background()
	tenantRepo := new(MockTenantRepository)

	tenant := createTestTenant(t)
	tenantRepo.On("FindByID", ctx, tenant.ID).Return(tenant, nil)

	svc := createTenantService(tenantRepo, new(MockUserRepository), new(MockGroupRepository))

	err := svc.Delete(ctx, tenant.ID)

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "TENANT_ACTIVE", domainErr.Code)
	tenantRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestTenantService_Delete_Success(t *testing.T) {
	ctx := context.Background()
	tenantRepo := new(MockTenantRepository)

	tenant := createTestTenant(t)
	require.NoError(t, tenant.Deactivate())

	tenantRepo.On("FindByID", ctx, tenant.ID).Return(tenant, nil)
	tenantRepo.On("Delete", ctx, tenant.ID).Return(nil)

	svc := createTenantService(tenantRepo, new(MockUserRepository), new(MockGroupRepository))

	require.NoError(t, svc.Delete(ctx, tenant.ID))
	tenantRepo.AssertExpectations(t)
}
