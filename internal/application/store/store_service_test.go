package store

import (
	"context"
	"testing"
	"time"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

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

func storeTestTenantID() uuid.UUID {
	return uuid.MustParse("11111111-1111-1111-1111-111111111111")
}

func createTestStore(t *testing.T, name string) *store.Store {
	st, err := store.NewStore(storeTestTenantID(), name)
	assert.NoError(t, err)
	st.ClearDomainEvents()
	return st
}

func openAllWeekSchedule() []DayScheduleRequest {
	days := make([]DayScheduleRequest, 7)
	for i := range days {
		days[i] = DayScheduleRequest{
			Enabled:   true,
			Intervals: []TimeIntervalRequest{{Open: "18:00", Close: "23:00"}},
		}
	}
	return days
}

func newTestStoreService() (*StoreService, *MockStoreRepository) {
	storeRepo := new(MockStoreRepository)
	return NewStoreService(storeRepo), storeRepo
}

func TestStoreService_Create_FirstStoreBecomesDefault(t *testing.T) {
	service, storeRepo := newTestStoreService()
	tenantID := storeTestTenantID()

	storeRepo.On("Count", mock.Anything, tenantID).Return(int64(0), nil)
	storeRepo.On("Create", mock.Anything, mock.MatchedBy(func(st *store.Store) bool {
		return st.IsDefault && st.Name == "Pizzaria do Zé"
	})).Return(nil)

	resp, err := service.Create(context.Background(), tenantID, CreateStoreRequest{
		Name:        "Pizzaria do Zé",
		Description: "A melhor pizza do bairro",
	})

	assert.NoError(t, err)
	assert.True(t, resp.IsDefault)
	assert.Equal(t, "active", resp.Status)
	assert.Equal(t, store.DefaultTimezone, resp.Timezone)
	assert.True(t, resp.DeliveryEnabled)
	assert.True(t, resp.PickupEnabled)
	assert.False(t, resp.OpenNow)
	storeRepo.AssertExpectations(t)
}

func TestStoreService_Create_SecondStoreIsNotDefault(t *testing.T) {
	service, storeRepo := newTestStoreService()
	tenantID := storeTestTenantID()

	storeRepo.On("Count", mock.Anything, tenantID).Return(int64(1), nil)
	storeRepo.On("Create", mock.Anything, mock.MatchedBy(func(st *store.Store) bool {
		return !st.IsDefault
	})).Return(nil)

	resp, err := service.Create(context.Background(), tenantID, CreateStoreRequest{Name: "Filial Centro"})

	assert.NoError(t, err)
	assert.False(t, resp.IsDefault)
	storeRepo.AssertExpectations(t)
}

func TestStoreService_GetByID_NotFound(t *testing.T) {
	service, storeRepo := newTestStoreService()
	tenantID := storeTestTenantID()
	storeID := uuid.New()

	storeRepo.On("FindByIDForTenant", mock.Anything, tenantID, storeID).Return(nil, shared.ErrNotFound)

	resp, err := service.GetByID(context.Background(), tenantID, storeID)

	assert.Nil(t, resp)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "STORE_NOT_FOUND", domainErr.Code)
}

func TestStoreService_Update_MergesProfile(t *testing.T) {
	service, storeRepo := newTestStoreService()
	tenantID := storeTestTenantID()
	st := createTestStore(t, "Pizzaria do Zé")
	assert.NoError(t, st.Update("Pizzaria do Zé", "A melhor pizza do bairro"))
	assert.NoError(t, st.SetContact("1133334444", "11987654321", "ze@pizzaria.com"))

	storeRepo.On("FindByIDForTenant", mock.Anything, tenantID, st.ID).Return(st, nil)
	storeRepo.On("Update", mock.Anything, st).Return(nil)

	newName := "Pizzaria do Zé Matriz"
	newPhone := "1144445555"
	resp, err := service.Update(context.Background(), tenantID, st.ID, UpdateStoreRequest{
		Name:  &newName,
		Phone: &newPhone,
	})

	assert.NoError(t, err)
	assert.Equal(t, "Pizzaria do Zé Matriz", resp.Name)
	assert.Equal(t, "A melhor pizza do bairro", resp.Description)
	assert.Equal(t, "1144445555", resp.Phone)
	assert.Equal(t, "11987654321", resp.WhatsApp)
	assert.Equal(t, "ze@pizzaria.com", resp.Email)
	storeRepo.AssertExpectations(t)
}

func TestStoreService_Update_SetsAddress(t *testing.T) {
	service, storeRepo := newTestStoreService()
	tenantID := storeTestTenantID()
	st := createTestStore(t, "Pizzaria do Zé")

	storeRepo.On("FindByIDForTenant", mock.Anything, tenantID, st.ID).Return(st, nil)
	storeRepo.On("Update", mock.Anything, st).Return(nil)

	resp, err := service.Update(context.Background(), tenantID, st.ID, UpdateStoreRequest{
		Address: &AddressRequest{
			CEP:      "01310-100",
			Street:   "Avenida Paulista",
			Number:   "1000",
			District: "Bela Vista",
			City:     "São Paulo",
			State:    "SP",
		},
	})

	assert.NoError(t, err)
	assert.NotNil(t, resp.Address)
	assert.Equal(t, "01310100", resp.Address.CEP)
	assert.Equal(t, "São Paulo", resp.Address.City)
	storeRepo.AssertExpectations(t)
}

func TestStoreService_Update_InvalidTimezone(t *testing.T) {
	service, storeRepo := newTestStoreService()
	tenantID := storeTestTenantID()
	st := createTestStore(t, "Pizzaria do Zé")

	storeRepo.On("FindByIDForTenant", mock.Anything, tenantID, st.ID).Return(st, nil)

	badZone := "Mars/Olympus"
	resp, err := service.Update(context.Background(), tenantID, st.ID, UpdateStoreRequest{Timezone: &badZone})

	assert.Nil(t, resp)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_TIMEZONE", domainErr.Code)
	storeRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestStoreService_UpdateSettings_RejectsDisablingBothFulfillments(t *testing.T) {
	service, storeRepo := newTestStoreService()
	tenantID := storeTestTenantID()
	st := createTestStore(t, "Pizzaria do Zé")

	storeRepo.On("FindByIDForTenant", mock.Anything, tenantID, st.ID).Return(st, nil)

	disabled := false
	resp, err := service.UpdateSettings(context.Background(), tenantID, st.ID, UpdateStoreSettingsRequest{
		DeliveryEnabled: &disabled,
		PickupEnabled:   &disabled,
	})

	assert.Nil(t, resp)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CHECKOUT_OPTIONS", domainErr.Code)
	storeRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestStoreService_UpdateSettings_SetsMinimumAndFee(t *testing.T) {
	service, storeRepo := newTestStoreService()
	tenantID := storeTestTenantID()
	st := createTestStore(t, "Pizzaria do Zé")

	storeRepo.On("FindByIDForTenant", mock.Anything, tenantID, st.ID).Return(st, nil)
	storeRepo.On("Update", mock.Anything, st).Return(nil)

	minOrder := decimal.NewFromInt(30)
	fee := decimal.NewFromFloat(8.50)
	prepTime := 40
	resp, err := service.UpdateSettings(context.Background(), tenantID, st.ID, UpdateStoreSettingsRequest{
		MinOrderAmount:  &minOrder,
		FlatDeliveryFee: &fee,
		PrepTimeMinutes: &prepTime,
	})

	assert.NoError(t, err)
	assert.True(t, resp.MinOrderAmount.Equal(decimal.NewFromInt(30)))
	assert.True(t, resp.FlatDeliveryFee.Equal(decimal.NewFromFloat(8.50)))
	assert.Equal(t, 40, resp.PrepTimeMinutes)
	assert.True(t, resp.DeliveryEnabled)
	storeRepo.AssertExpectations(t)
}

func TestStoreService_PutSchedule_Success(t *testing.T) {
	service, storeRepo := newTestStoreService()
	tenantID := storeTestTenantID()
	st := createTestStore(t, "Pizzaria do Zé")

	storeRepo.On("FindByIDForTenant", mock.Anything, tenantID, st.ID).Return(st, nil)
	storeRepo.On("Update", mock.Anything, st).Return(nil)

	resp, err := service.PutSchedule(context.Background(), tenantID, st.ID, PutScheduleRequest{
		Days: openAllWeekSchedule(),
	})

	assert.NoError(t, err)
	assert.True(t, resp.Schedule[time.Monday].Enabled)
	assert.Equal(t, "18:00", resp.Schedule[time.Monday].Intervals[0].Open)
	assert.Equal(t, "23:00", resp.Schedule[time.Monday].Intervals[0].Close)
	storeRepo.AssertExpectations(t)
}

func TestStoreService_PutSchedule_RejectsOverlappingWindows(t *testing.T) {
	service, storeRepo := newTestStoreService()
	tenantID := storeTestTenantID()
	st := createTestStore(t, "Pizzaria do Zé")

	storeRepo.On("FindByIDForTenant", mock.Anything, tenantID, st.ID).Return(st, nil)

	days := make([]DayScheduleRequest, 7)
	days[time.Monday] = DayScheduleRequest{
		Enabled: true,
		Intervals: []TimeIntervalRequest{
			{Open: "11:00", Close: "15:00"},
			{Open: "14:00", Close: "22:00"},
		},
	}
	resp, err := service.PutSchedule(context.Background(), tenantID, st.ID, PutScheduleRequest{Days: days})

	assert.Nil(t, resp)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_SCHEDULE", domainErr.Code)
	storeRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestStoreService_PutBlockedDates_RejectsBadFormat(t *testing.T) {
	service, storeRepo := newTestStoreService()
	tenantID := storeTestTenantID()
	st := createTestStore(t, "Pizzaria do Zé")

	storeRepo.On("FindByIDForTenant", mock.Anything, tenantID, st.ID).Return(st, nil)

	resp, err := service.PutBlockedDates(context.Background(), tenantID, st.ID, PutBlockedDatesRequest{
		Dates: []string{"05/01/2026"},
	})

	assert.Nil(t, resp)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_BLOCKED_DATE", domainErr.Code)
	storeRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestStoreService_PutBlockedDates_Success(t *testing.T) {
	service, storeRepo := newTestStoreService()
	tenantID := storeTestTenantID()
	st := createTestStore(t, "Pizzaria do Zé")

	storeRepo.On("FindByIDForTenant", mock.Anything, tenantID, st.ID).Return(st, nil)
	storeRepo.On("Update", mock.Anything, st).Return(nil)

	resp, err := service.PutBlockedDates(context.Background(), tenantID, st.ID, PutBlockedDatesRequest{
		Dates: []string{"2026-12-25", "2026-01-01"},
	})

	assert.NoError(t, err)
	assert.Contains(t, resp.BlockedDates, "2026-12-25")
	assert.Contains(t, resp.BlockedDates, "2026-01-01")
	storeRepo.AssertExpectations(t)
}

func TestStoreService_SetDefault_PromotesStore(t *testing.T) {
	service, storeRepo := newTestStoreService()
	tenantID := storeTestTenantID()
	st := createTestStore(t, "Filial Centro")

	storeRepo.On("FindByIDForTenant", mock.Anything, tenantID, st.ID).Return(st, nil)
	storeRepo.On("ClearDefault", mock.Anything, tenantID).Return(nil)
	storeRepo.On("Update", mock.Anything, st).Return(nil)

	resp, err := service.SetDefault(context.Background(), tenantID, st.ID)

	assert.NoError(t, err)
	assert.True(t, resp.IsDefault)
	storeRepo.AssertExpectations(t)
}

func TestStoreService_SetDefault_AlreadyDefaultSkipsWrite(t *testing.T) {
	service, storeRepo := newTestStoreService()
	tenantID := storeTestTenantID()
	st := createTestStore(t, "Pizzaria do Zé")
	st.SetDefault(true)
	st.ClearDomainEvents()

	storeRepo.On("FindByIDForTenant", mock.Anything, tenantID, st.ID).Return(st, nil)

	resp, err := service.SetDefault(context.Background(), tenantID, st.ID)

	assert.NoError(t, err)
	assert.True(t, resp.IsDefault)
	storeRepo.AssertNotCalled(t, "ClearDefault", mock.Anything, mock.Anything)
	storeRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestStoreService_SetDefault_InactiveRejected(t *testing.T) {
	service, storeRepo := newTestStoreService()
	tenantID := storeTestTenantID()
	st := createTestStore(t, "Filial Centro")
	assert.NoError(t, st.Deactivate())

	storeRepo.On("FindByIDForTenant", mock.Anything, tenantID, st.ID).Return(st, nil)

	resp, err := service.SetDefault(context.Background(), tenantID, st.ID)

	assert.Nil(t, resp)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "STORE_INACTIVE", domainErr.Code)
	storeRepo.AssertNotCalled(t, "ClearDefault", mock.Anything, mock.Anything)
}

func TestStoreService_Deactivate_DefaultRejected(t *testing.T) {
	service, storeRepo := newTestStoreService()
	tenantID := storeTestTenantID()
	st := createTestStore(t, "Pizzaria do Zé")
	st.SetDefault(true)
	st.ClearDomainEvents()

	storeRepo.On("FindByIDForTenant", mock.Anything, tenantID, st.ID).Return(st, nil)

	resp, err := service.Deactivate(context.Background(), tenantID, st.ID)

	assert.Nil(t, resp)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CANNOT_DEACTIVATE_DEFAULT", domainErr.Code)
	storeRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestStoreService_Delete_DefaultRejected(t *testing.T) {
	service, storeRepo := newTestStoreService()
	tenantID := storeTestTenantID()
	st := createTestStore(t, "Pizzaria do Zé")
	st.SetDefault(true)
	st.ClearDomainEvents()

	storeRepo.On("FindByIDForTenant", mock.Anything, tenantID, st.ID).Return(st, nil)

	err := service.Delete(context.Background(), tenantID, st.ID)

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CANNOT_DELETE_DEFAULT", domainErr.Code)
	storeRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestStoreService_Delete_LastStoreRejected(t *testing.T) {
	service, storeRepo := newTestStoreService()
	tenantID := storeTestTenantID()
	st := createTestStore(t, "Filial Centro")

	storeRepo.On("FindByIDForTenant", mock.Anything, tenantID, st.ID).Return(st, nil)
	storeRepo.On("Count", mock.Anything, tenantID).Return(int64(1), nil)

	err := service.Delete(context.Background(), tenantID, st.ID)

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "LAST_STORE", domainErr.Code)
	storeRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestStoreService_Delete_Success(t *testing.T) {
	service, storeRepo := newTestStoreService()
	tenantID := storeTestTenantID()
	st := createTestStore(t, "Filial Centro")

	storeRepo.On("FindByIDForTenant", mock.Anything, tenantID, st.ID).Return(st, nil)
	storeRepo.On("Count", mock.Anything, tenantID).Return(int64(2), nil)
	storeRepo.On("Delete", mock.Anything, st.ID).Return(nil)

	err := service.Delete(context.Background(), tenantID, st.ID)

	assert.NoError(t, err)
	storeRepo.AssertExpectations(t)
}

func TestStoreService_List_AppliesFilter(t *testing.T) {
	service, storeRepo := newTestStoreService()
	tenantID := storeTestTenantID()
	st := createTestStore(t, "Pizzaria do Zé")

	storeRepo.On("FindAll", mock.Anything, tenantID, mock.MatchedBy(func(filter *store.StoreFilter) bool {
		return filter.Keyword == "pizzaria" &&
			filter.Status != nil && *filter.Status == store.StoreStatusActive &&
			filter.Page == 1 && filter.Limit == 20
	})).Return([]*store.Store{st}, nil)

	resp, err := service.List(context.Background(), tenantID, StoreListFilter{
		Search: "pizzaria",
		Status: "active",
		Page:   1,
	})

	assert.NoError(t, err)
	assert.Len(t, resp, 1)
	assert.Equal(t, "Pizzaria do Zé", resp[0].Name)
	storeRepo.AssertExpectations(t)
}
