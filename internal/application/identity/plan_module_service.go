package identity

import (
	"context"
	"errors"
	"time"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/identity"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PlanModuleService resolves which modules a tenant's plan unlocks and
// manages the plan/module catalog (platform scope)
type PlanModuleService struct {
	planModuleRepo identity.PlanModuleRepository
	tenantRepo     identity.TenantRepository
	accessCache    identity.ModuleAccessCache
	logger         *zap.Logger
}

// NewPlanModuleService creates a new plan module service
func NewPlanModuleService(
	planModuleRepo identity.PlanModuleRepository,
	tenantRepo identity.TenantRepository,
	logger *zap.Logger,
) *PlanModuleService {
	return &PlanModuleService{
		planModuleRepo: planModuleRepo,
		tenantRepo:     tenantRepo,
		logger:         logger,
	}
}

// SetAccessCache sets the cache for resolved module access. HasModule and
// ModuleLimit run on every gated request, so they read through it.
func (s *PlanModuleService) SetAccessCache(cache identity.ModuleAccessCache) {
	s.accessCache = cache
}

// UpsertPlanModuleInput contains input for creating or updating a mapping
type UpsertPlanModuleInput struct {
	Plan        string
	Module      string
	Enabled     bool
	Limit       *int
	Description string
}

// PlanModuleDTO represents a plan/module mapping
type PlanModuleDTO struct {
	ID          uuid.UUID `json:"id"`
	Plan        string    `json:"plan"`
	Module      string    `json:"module"`
	Enabled     bool      `json:"enabled"`
	Limit       *int      `json:"limit,omitempty"`
	Description string    `json:"description,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TenantModulesDTO carries the module availability resolved for a tenant
type TenantModulesDTO struct {
	TenantID uuid.UUID       `json:"tenant_id"`
	Plan     string          `json:"plan"`
	Modules  []PlanModuleDTO `json:"modules"`
}

// ResolveForTenant returns the module availability for a tenant's plan.
// When the catalog has no rows for the plan (fresh installs before seeding),
// the built-in defaults apply.
func (s *PlanModuleService) ResolveForTenant(ctx context.Context, tenantID uuid.UUID) (*TenantModulesDTO, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("TENANT_NOT_FOUND", "Tenant not found")
		}
		s.logger.Error("Failed to load tenant for module resolution", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to resolve modules")
	}

	modules, err := s.modulesForPlan(ctx, tenant.Plan)
	if err != nil {
		return nil, err
	}

	dtos := make([]PlanModuleDTO, len(modules))
	for i := range modules {
		dtos[i] = *toPlanModuleDTO(&modules[i])
	}

	return &TenantModulesDTO{
		TenantID: tenant.ID,
		Plan:     string(tenant.Plan),
		Modules:  dtos,
	}, nil
}

// HasModule reports whether a tenant's plan enables a module. Unknown module
// keys are always unavailable.
func (s *PlanModuleService) HasModule(ctx context.Context, tenantID uuid.UUID, module string) (bool, error) {
	if !identity.IsKnownModuleKey(module) {
		return false, nil
	}

	access, err := s.resolveAccess(ctx, tenantID)
	if err != nil {
		return false, err
	}

	return access.Has(identity.ModuleKey(module)), nil
}

// ModuleLimit returns the usage limit a tenant's plan attaches to a module.
// A nil limit means unlimited; ok is false when the module is not enabled.
func (s *PlanModuleService) ModuleLimit(ctx context.Context, tenantID uuid.UUID, module string) (limit *int, ok bool, err error) {
	access, err := s.resolveAccess(ctx, tenantID)
	if err != nil {
		return nil, false, err
	}

	limit, ok = access.Limit(identity.ModuleKey(module))
	return limit, ok, nil
}

// resolveAccess returns the tenant's module access, reading through the
// cache when one is wired. Cache errors fall back to the repository.
func (s *PlanModuleService) resolveAccess(ctx context.Context, tenantID uuid.UUID) (*identity.ModuleAccess, error) {
	if s.accessCache != nil {
		if access, err := s.accessCache.Get(ctx, tenantID); err == nil && access != nil {
			return access, nil
		}
	}

	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("TENANT_NOT_FOUND", "Tenant not found")
		}
		return nil, err
	}

	modules, err := s.modulesForPlan(ctx, tenant.Plan)
	if err != nil {
		return nil, err
	}

	access := identity.NewModuleAccess(tenant.ID, tenant.Plan, modules)

	if s.accessCache != nil {
		if err := s.accessCache.Set(ctx, access, 0); err != nil {
			s.logger.Warn("Failed to cache module access",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err))
		}
	}

	return access, nil
}

// invalidateAccess drops every cached access entry. Catalog mutations
// change availability for an unknown set of tenants on the plan.
func (s *PlanModuleService) invalidateAccess(ctx context.Context) {
	if s.accessCache == nil {
		return
	}
	if err := s.accessCache.InvalidateAll(ctx); err != nil {
		s.logger.Warn("Failed to invalidate module access cache", zap.Error(err))
	}
}

// ListByPlan returns the catalog entries for a plan (platform scope)
func (s *PlanModuleService) ListByPlan(ctx context.Context, plan string) ([]PlanModuleDTO, error) {
	modules, err := s.modulesForPlan(ctx, identity.TenantPlan(plan))
	if err != nil {
		return nil, err
	}

	dtos := make([]PlanModuleDTO, len(modules))
	for i := range modules {
		dtos[i] = *toPlanModuleDTO(&modules[i])
	}

	return dtos, nil
}

// Upsert creates or updates a plan/module mapping (platform scope)
func (s *PlanModuleService) Upsert(ctx context.Context, input UpsertPlanModuleInput) (*PlanModuleDTO, error) {
	if !identity.IsKnownModuleKey(input.Module) {
		return nil, shared.NewDomainError("UNKNOWN_MODULE", "Unknown module key: "+input.Module)
	}

	plan := identity.TenantPlan(input.Plan)
	module := identity.ModuleKey(input.Module)

	existing, err := s.planModuleRepo.FindByPlanAndModule(ctx, plan, module)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("Failed to load plan module", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update plan module")
	}

	var pm *identity.PlanModule
	if existing != nil {
		pm = existing
		if input.Enabled {
			pm.Enable()
		} else {
			pm.Disable()
		}
		if input.Limit != nil {
			pm.SetLimit(*input.Limit)
		} else {
			pm.ClearLimit()
		}
		pm.Description = input.Description
	} else {
		if input.Limit != nil {
			pm = identity.NewPlanModuleWithLimit(plan, module, input.Enabled, *input.Limit, input.Description)
		} else {
			pm = identity.NewPlanModule(plan, module, input.Enabled, input.Description)
		}
	}

	if err := s.planModuleRepo.Save(ctx, pm); err != nil {
		s.logger.Error("Failed to save plan module", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update plan module")
	}

	s.invalidateAccess(ctx)

	s.logger.Info("Plan module updated",
		zap.String("plan", input.Plan),
		zap.String("module", input.Module),
		zap.Bool("enabled", input.Enabled))

	return toPlanModuleDTO(pm), nil
}

// Delete removes a plan/module mapping (platform scope)
func (s *PlanModuleService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.planModuleRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("PLAN_MODULE_NOT_FOUND", "Plan module not found")
		}
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to find plan module")
	}

	if err := s.planModuleRepo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete plan module", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete plan module")
	}

	s.invalidateAccess(ctx)

	return nil
}

// SeedDefaults writes the built-in module catalog for a plan, replacing any
// existing rows. Used by migrations and fresh installs.
func (s *PlanModuleService) SeedDefaults(ctx context.Context, plan string) ([]PlanModuleDTO, error) {
	p := identity.TenantPlan(plan)

	if err := s.planModuleRepo.DeleteByPlan(ctx, p); err != nil {
		s.logger.Error("Failed to clear plan modules", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to seed plan modules")
	}

	defaults := identity.DefaultPlanModules(p)
	if err := s.planModuleRepo.SaveBatch(ctx, defaults); err != nil {
		s.logger.Error("Failed to seed plan modules", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to seed plan modules")
	}

	s.invalidateAccess(ctx)

	dtos := make([]PlanModuleDTO, len(defaults))
	for i := range defaults {
		dtos[i] = *toPlanModuleDTO(&defaults[i])
	}

	s.logger.Info("Plan modules seeded", zap.String("plan", plan), zap.Int("count", len(defaults)))

	return dtos, nil
}

// modulesForPlan loads the catalog rows for a plan, falling back to the
// built-in defaults when nothing has been seeded yet.
func (s *PlanModuleService) modulesForPlan(ctx context.Context, plan identity.TenantPlan) ([]identity.PlanModule, error) {
	modules, err := s.planModuleRepo.FindByPlan(ctx, plan)
	if err != nil {
		s.logger.Error("Failed to load plan modules", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to resolve modules")
	}

	if len(modules) == 0 {
		modules = identity.DefaultPlanModules(plan)
	}

	return modules, nil
}

func toPlanModuleDTO(pm *identity.PlanModule) *PlanModuleDTO {
	return &PlanModuleDTO{
		ID:          pm.ID,
		Plan:        string(pm.Plan),
		Module:      string(pm.Module),
		Enabled:     pm.Enabled,
		Limit:       pm.Limit,
		Description: pm.Description,
		UpdatedAt:   pm.UpdatedAt,
	}
}
