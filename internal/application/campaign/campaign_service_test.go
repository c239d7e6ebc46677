package campaign

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/campaign"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockCampaignRepository is a mock implementation of campaign.CampaignRepository
type MockCampaignRepository struct {
	mock.Mock
}

func (m *MockCampaignRepository) Create(ctx context.Context, camp *campaign.Campaign) error {
	args := m.Called(ctx, camp)
	return args.Error(0)
}

func (m *MockCampaignRepository) Update(ctx context.Context, camp *campaign.Campaign) error {
	args := m.Called(ctx, camp)
	return args.Error(0)
}

func (m *MockCampaignRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCampaignRepository) FindByID(ctx context.Context, id uuid.UUID) (*campaign.Campaign, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*campaign.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*campaign.Campaign, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*campaign.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter campaign.CampaignFilter) ([]*campaign.Campaign, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*campaign.Campaign), args.Get(1).(int64), args.Error(2)
}

func (m *MockCampaignRepository) FindRunningAt(ctx context.Context, tenantID uuid.UUID, at time.Time) ([]*campaign.Campaign, error) {
	args := m.Called(ctx, tenantID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*campaign.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) FindByCoupon(ctx context.Context, tenantID uuid.UUID, code string) (*campaign.Campaign, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*campaign.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) ExistsByCoupon(ctx context.Context, tenantID uuid.UUID, code string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, code, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCampaignRepository) CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCampaignRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

var _ campaign.CampaignRepository = (*MockCampaignRepository)(nil)

// MockPlanLimits is a mock implementation of PlanLimits
type MockPlanLimits struct {
	mock.Mock
}

func (m *MockPlanLimits) MaxActiveCampaigns(ctx context.Context, tenantID uuid.UUID) (int, error) {
	args := m.Called(ctx, tenantID)
	return args.Int(0), args.Error(1)
}

var _ PlanLimits = (*MockPlanLimits)(nil)

func campaignTestTenantID() uuid.UUID {
	return uuid.MustParse("11111111-1111-1111-1111-111111111111")
}

func createTestCampaign(t *testing.T) *campaign.Campaign {
	t.Helper()
	starts := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	camp, err := campaign.NewCampaign(campaignTestTenantID(), "Semana da Pizza",
		campaign.DiscountPercentage, decimal.NewFromInt(10), starts, nil)
	assert.NoError(t, err)
	return camp
}

func newTestCampaignService() (*CampaignService, *MockCampaignRepository, *MockPlanLimits) {
	mockRepo := new(MockCampaignRepository)
	mockLimits := new(MockPlanLimits)
	return NewCampaignService(mockRepo, mockLimits), mockRepo, mockLimits
}

func TestCampaignService_Create_Success(t *testing.T) {
	service, mockRepo, _ := newTestCampaignService()
	tenantID := campaignTestTenantID()

	mockRepo.On("ExistsByCoupon", mock.Anything, tenantID, "PIZZA10", mock.AnythingOfType("uuid.UUID")).Return(false, nil)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*campaign.Campaign")).Return(nil)

	resp, err := service.Create(context.Background(), tenantID, CreateCampaignRequest{
		Name:          "Semana da Pizza",
		Description:   "10% em toda a loja",
		DiscountKind:  "percentage",
		DiscountValue: decimal.NewFromInt(10),
		CouponCode:    "pizza10",
		StartsAt:      time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
	})

	assert.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Equal(t, "draft", resp.Status)
	assert.Equal(t, "PIZZA10", resp.CouponCode)
	assert.Equal(t, "percentage", resp.DiscountKind)
	mockRepo.AssertExpectations(t)
}

func TestCampaignService_Create_CouponTaken(t *testing.T) {
	service, mockRepo, _ := newTestCampaignService()
	tenantID := campaignTestTenantID()

	mockRepo.On("ExistsByCoupon", mock.Anything, tenantID, "PIZZA10", mock.AnythingOfType("uuid.UUID")).Return(true, nil)

	resp, err := service.Create(context.Background(), tenantID, CreateCampaignRequest{
		Name:          "Semana da Pizza",
		DiscountKind:  "percentage",
		DiscountValue: decimal.NewFromInt(10),
		CouponCode:    "PIZZA10",
		StartsAt:      time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
	})

	assert.Error(t, err)
	assert.Nil(t, resp)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "COUPON_TAKEN", domainErr.Code)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestCampaignService_Create_WithRuleConfig(t *testing.T) {
	service, mockRepo, _ := newTestCampaignService()
	tenantID := campaignTestTenantID()

	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *campaign.Campaign) bool {
		rules, err := c.GetRuleConfig()
		return err == nil && rules != nil &&
			rules.MinOrderAmount != nil && rules.MinOrderAmount.Equal(decimal.NewFromInt(50))
	})).Return(nil)

	resp, err := service.Create(context.Background(), tenantID, CreateCampaignRequest{
		Name:          "Semana da Pizza",
		DiscountKind:  "percentage",
		DiscountValue: decimal.NewFromInt(10),
		StartsAt:      time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		RuleConfig:    json.RawMessage(`{"min_order_amount": 50, "weekdays": [1, 2, 3]}`),
	})

	assert.NoError(t, err)
	assert.NotNil(t, resp.RuleConfig)
	mockRepo.AssertExpectations(t)
}

func TestCampaignService_Create_RejectsUnknownRuleKey(t *testing.T) {
	service, mockRepo, _ := newTestCampaignService()
	tenantID := campaignTestTenantID()

	resp, err := service.Create(context.Background(), tenantID, CreateCampaignRequest{
		Name:          "Semana da Pizza",
		DiscountKind:  "percentage",
		DiscountValue: decimal.NewFromInt(10),
		StartsAt:      time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		RuleConfig:    json.RawMessage(`{"customer_tier": "gold"}`),
	})

	assert.Error(t, err)
	assert.Nil(t, resp)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_RULE_CONFIG", domainErr.Code)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestCampaignService_Update_EmptyRuleObjectClearsConditions(t *testing.T) {
	service, mockRepo, _ := newTestCampaignService()
	tenantID := campaignTestTenantID()
	camp := createTestCampaign(t)
	assert.NoError(t, camp.SetRuleConfig([]byte(`{"min_order_amount": 50}`)))

	mockRepo.On("FindByIDForTenant", mock.Anything, tenantID, camp.ID).Return(camp, nil)
	mockRepo.On("Update", mock.Anything, camp).Return(nil)

	resp, err := service.Update(context.Background(), tenantID, camp.ID, UpdateCampaignRequest{
		RuleConfig: json.RawMessage(`{}`),
	})

	assert.NoError(t, err)
	assert.Nil(t, resp.RuleConfig)
	mockRepo.AssertExpectations(t)
}

func TestCampaignService_Update_ClearCouponMakesAutomatic(t *testing.T) {
	service, mockRepo, _ := newTestCampaignService()
	tenantID := campaignTestTenantID()
	camp := createTestCampaign(t)
	assert.NoError(t, camp.SetCouponCode("PIZZA10"))

	mockRepo.On("FindByIDForTenant", mock.Anything, tenantID, camp.ID).Return(camp, nil)
	mockRepo.On("Update", mock.Anything, camp).Return(nil)

	empty := ""
	resp, err := service.Update(context.Background(), tenantID, camp.ID, UpdateCampaignRequest{
		CouponCode: &empty,
	})

	assert.NoError(t, err)
	assert.Empty(t, resp.CouponCode)
	mockRepo.AssertNotCalled(t, "ExistsByCoupon")
}

func TestCampaignService_Activate_Success(t *testing.T) {
	service, mockRepo, mockLimits := newTestCampaignService()
	tenantID := campaignTestTenantID()
	camp := createTestCampaign(t)

	mockRepo.On("FindByIDForTenant", mock.Anything, tenantID, camp.ID).Return(camp, nil)
	mockLimits.On("MaxActiveCampaigns", mock.Anything, tenantID).Return(3, nil)
	mockRepo.On("CountActive", mock.Anything, tenantID).Return(int64(1), nil)
	mockRepo.On("Update", mock.Anything, camp).Return(nil)

	resp, err := service.Activate(context.Background(), tenantID, camp.ID)

	assert.NoError(t, err)
	assert.Equal(t, "active", resp.Status)
	mockRepo.AssertExpectations(t)
}

func TestCampaignService_Activate_PlanLimitReached(t *testing.T) {
	service, mockRepo, mockLimits := newTestCampaignService()
	tenantID := campaignTestTenantID()
	camp := createTestCampaign(t)

	mockRepo.On("FindByIDForTenant", mock.Anything, tenantID, camp.ID).Return(camp, nil)
	mockLimits.On("MaxActiveCampaigns", mock.Anything, tenantID).Return(1, nil)
	mockRepo.On("CountActive", mock.Anything, tenantID).Return(int64(1), nil)

	resp, err := service.Activate(context.Background(), tenantID, camp.ID)

	assert.Error(t, err)
	assert.Nil(t, resp)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "PLAN_LIMIT_REACHED", domainErr.Code)
	assert.Equal(t, campaign.CampaignStatusDraft, camp.Status)
	mockRepo.AssertNotCalled(t, "Update")
}

func TestCampaignService_Activate_UnlimitedPlanSkipsCount(t *testing.T) {
	service, mockRepo, mockLimits := newTestCampaignService()
	tenantID := campaignTestTenantID()
	camp := createTestCampaign(t)

	mockRepo.On("FindByIDForTenant", mock.Anything, tenantID, camp.ID).Return(camp, nil)
	mockLimits.On("MaxActiveCampaigns", mock.Anything, tenantID).Return(-1, nil)
	mockRepo.On("Update", mock.Anything, camp).Return(nil)

	resp, err := service.Activate(context.Background(), tenantID, camp.ID)

	assert.NoError(t, err)
	assert.Equal(t, "active", resp.Status)
	mockRepo.AssertNotCalled(t, "CountActive")
}

func TestCampaignService_Delete_BlockedWhileActive(t *testing.T) {
	service, mockRepo, _ := newTestCampaignService()
	tenantID := campaignTestTenantID()
	camp := createTestCampaign(t)
	assert.NoError(t, camp.Activate())

	mockRepo.On("FindByIDForTenant", mock.Anything, tenantID, camp.ID).Return(camp, nil)

	err := service.Delete(context.Background(), tenantID, camp.ID)

	assert.Error(t, err)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CAMPAIGN_ACTIVE", domainErr.Code)
	mockRepo.AssertNotCalled(t, "Delete")
}

func TestCampaignService_Delete_PausedSucceeds(t *testing.T) {
	service, mockRepo, _ := newTestCampaignService()
	tenantID := campaignTestTenantID()
	camp := createTestCampaign(t)
	assert.NoError(t, camp.Activate())
	assert.NoError(t, camp.Pause())

	mockRepo.On("FindByIDForTenant", mock.Anything, tenantID, camp.ID).Return(camp, nil)
	mockRepo.On("Delete", mock.Anything, camp.ID).Return(nil)

	err := service.Delete(context.Background(), tenantID, camp.ID)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestCampaignService_List_AppliesFilter(t *testing.T) {
	service, mockRepo, _ := newTestCampaignService()
	tenantID := campaignTestTenantID()
	camp := createTestCampaign(t)

	mockRepo.On("FindAll", mock.Anything, tenantID, mock.MatchedBy(func(f campaign.CampaignFilter) bool {
		return f.Keyword == "pizza" && f.Status != nil && *f.Status == campaign.CampaignStatusActive &&
			f.Page == 1 && f.PageSize == 20
	})).Return([]*campaign.Campaign{camp}, int64(1), nil)

	items, total, err := service.List(context.Background(), tenantID, CampaignListFilter{
		Search: "pizza",
		Status: "active",
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, items, 1)
	assert.Equal(t, "Semana da Pizza", items[0].Name)
	mockRepo.AssertExpectations(t)
}

func TestCampaignService_ExpireOverdue(t *testing.T) {
	service, mockRepo, _ := newTestCampaignService()

	mockRepo.On("ExpireOverdue", mock.Anything, mock.AnythingOfType("time.Time")).Return(int64(2), nil)

	count, err := service.ExpireOverdue(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)
	mockRepo.AssertExpectations(t)
}
