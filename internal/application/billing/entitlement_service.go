package billing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/billing"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/identity"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
)

// UsageCounters reports current resource counts for a tenant.
// Implemented by the persistence layer.
type UsageCounters interface {
	Products(ctx context.Context, tenantID uuid.UUID) (int64, error)
	Stores(ctx context.Context, tenantID uuid.UUID) (int64, error)
	Users(ctx context.Context, tenantID uuid.UUID) (int64, error)
	ActiveCampaigns(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// EntitlementService resolves plan limits for other contexts and
// reports a tenant's consumption against them. Catalog and campaign
// services depend on its limit methods through their own interfaces.
// A limit below zero means unlimited.
type EntitlementService struct {
	tenantRepo     identity.TenantRepository
	planRepo       billing.PlanRepository
	planModuleRepo identity.PlanModuleRepository
	counters       UsageCounters
	logger         *zap.Logger
}

// NewEntitlementService creates a new EntitlementService
func NewEntitlementService(
	tenantRepo identity.TenantRepository,
	planRepo billing.PlanRepository,
	planModuleRepo identity.PlanModuleRepository,
	counters UsageCounters,
	logger *zap.Logger,
) *EntitlementService {
	return &EntitlementService{
		tenantRepo:     tenantRepo,
		planRepo:       planRepo,
		planModuleRepo: planModuleRepo,
		counters:       counters,
		logger:         logger,
	}
}

// MaxProducts returns the product cap of the tenant's plan
func (s *EntitlementService) MaxProducts(ctx context.Context, tenantID uuid.UUID) (int, error) {
	plan, err := s.planForTenant(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	return plan.MaxProducts, nil
}

// MaxStores returns the store cap of the tenant's plan
func (s *EntitlementService) MaxStores(ctx context.Context, tenantID uuid.UUID) (int, error) {
	plan, err := s.planForTenant(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	return plan.MaxStores, nil
}

// MaxUsers returns the user cap of the tenant's plan
func (s *EntitlementService) MaxUsers(ctx context.Context, tenantID uuid.UUID) (int, error) {
	plan, err := s.planForTenant(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	return plan.MaxUsers, nil
}

// MaxActiveCampaigns returns how many campaigns the tenant's plan
// allows to run at once. Zero when the campaigns module is disabled
// for the plan.
func (s *EntitlementService) MaxActiveCampaigns(ctx context.Context, tenantID uuid.UUID) (int, error) {
	tenant, err := s.findTenant(ctx, tenantID)
	if err != nil {
		return 0, err
	}

	mapping, err := s.planModuleRepo.FindByPlanAndModule(ctx, tenant.Plan, identity.ModuleCampaigns)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Error("failed to resolve campaigns module", zap.Error(err), zap.String("tenant_id", tenantID.String()))
			return 0, shared.NewDomainError("INTERNAL_ERROR", "Failed to resolve plan limits")
		}
		mapping = defaultModuleMapping(tenant.Plan, identity.ModuleCampaigns)
	}

	if mapping == nil || !mapping.Enabled {
		return 0, nil
	}
	if mapping.Limit == nil {
		return billing.Unlimited, nil
	}
	return *mapping.Limit, nil
}

// Usage reports the tenant's consumption against its plan limits
func (s *EntitlementService) Usage(ctx context.Context, tenantID uuid.UUID) (*UsageSummaryDTO, error) {
	tenant, err := s.findTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	plan, err := s.resolvePlan(ctx, string(tenant.Plan))
	if err != nil {
		return nil, err
	}

	campaignLimit, err := s.MaxActiveCampaigns(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	type counterFn func(context.Context, uuid.UUID) (int64, error)
	resources := []struct {
		name  string
		limit int
		count counterFn
	}{
		{"products", plan.MaxProducts, s.counters.Products},
		{"stores", plan.MaxStores, s.counters.Stores},
		{"users", plan.MaxUsers, s.counters.Users},
		{"active_campaigns", campaignLimit, s.counters.ActiveCampaigns},
	}

	items := make([]UsageItemDTO, 0, len(resources))
	for _, r := range resources {
		used, err := r.count(ctx, tenantID)
		if err != nil {
			s.logger.Error("failed to count usage", zap.Error(err), zap.String("resource", r.name), zap.String("tenant_id", tenantID.String()))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to report usage")
		}
		items = append(items, UsageItemDTO{
			Resource:  r.name,
			Used:      used,
			Limit:     r.limit,
			Remaining: remaining(r.limit, used),
		})
	}

	return &UsageSummaryDTO{
		TenantID: tenant.ID,
		PlanKey:  plan.Key,
		PlanName: plan.Name,
		Items:    items,
	}, nil
}

func (s *EntitlementService) findTenant(ctx context.Context, tenantID uuid.UUID) (*identity.Tenant, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("TENANT_NOT_FOUND", "Tenant not found")
		}
		s.logger.Error("failed to get tenant", zap.Error(err), zap.String("tenant_id", tenantID.String()))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to resolve plan limits")
	}
	return tenant, nil
}

func (s *EntitlementService) planForTenant(ctx context.Context, tenantID uuid.UUID) (*billing.Plan, error) {
	tenant, err := s.findTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return s.resolvePlan(ctx, string(tenant.Plan))
}

// resolvePlan reads the plan row, falling back to the built-in catalog
// for installations that have not seeded plans
func (s *EntitlementService) resolvePlan(ctx context.Context, key string) (*billing.Plan, error) {
	plan, err := s.planRepo.FindByKey(ctx, key)
	if err == nil {
		return plan, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("failed to get plan", zap.Error(err), zap.String("plan_key", key))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to resolve plan limits")
	}

	for _, p := range billing.DefaultPlans() {
		if p.Key == key {
			return p, nil
		}
	}

	return nil, shared.NewDomainError("INVALID_PLAN_KEY", "Unknown plan key")
}

func defaultModuleMapping(plan identity.TenantPlan, module identity.ModuleKey) *identity.PlanModule {
	for _, pm := range identity.DefaultPlanModules(plan) {
		if pm.Module == module {
			mapping := pm
			return &mapping
		}
	}
	return nil
}

func remaining(limit int, used int64) int64 {
	if limit < 0 {
		return -1
	}
	left := int64(limit) - used
	if left < 0 {
		return 0
	}
	return left
}
