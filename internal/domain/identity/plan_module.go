package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ModuleKey identifies a platform module that plans can gate
type ModuleKey string

// Predefined module keys for the platform
const (
	ModuleCatalog   ModuleKey = "catalog"   // Products, categories, additionals
	ModuleOrders    ModuleKey = "orders"    // Order management
	ModuleCustomers ModuleKey = "customers" // Customer base
	ModuleCampaigns ModuleKey = "campaigns" // Promotions and coupons
	ModuleMessaging ModuleKey = "messaging" // WhatsApp/Telegram notifications
	ModuleReports   ModuleKey = "reports"   // Order summaries and exports
	ModuleUsers     ModuleKey = "users"     // Team and group management
	ModuleStores    ModuleKey = "stores"    // Multi-store management
)

// AllModuleKeys returns every known module key as a string slice
func AllModuleKeys() []string {
	return []string{
		string(ModuleCatalog),
		string(ModuleOrders),
		string(ModuleCustomers),
		string(ModuleCampaigns),
		string(ModuleMessaging),
		string(ModuleReports),
		string(ModuleUsers),
		string(ModuleStores),
	}
}

// IsKnownModuleKey reports whether the key names a platform module
func IsKnownModuleKey(key string) bool {
	switch ModuleKey(key) {
	case ModuleCatalog, ModuleOrders, ModuleCustomers, ModuleCampaigns,
		ModuleMessaging, ModuleReports, ModuleUsers, ModuleStores:
		return true
	}
	return false
}

// PlanModule maps a module to a subscription plan. It defines which modules
// each plan unlocks and any usage limit attached.
type PlanModule struct {
	ID          uuid.UUID
	Plan        TenantPlan // The subscription plan (free, basic, pro, enterprise)
	Module      ModuleKey  // The gated module
	Enabled     bool       // Whether the module is available on this plan
	Limit       *int       // Optional usage limit (nil = unlimited)
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for GORM
func (PlanModule) TableName() string {
	return "plan_modules"
}

// NewPlanModule creates a new PlanModule mapping
func NewPlanModule(plan TenantPlan, module ModuleKey, enabled bool, description string) *PlanModule {
	now := time.Now()
	return &PlanModule{
		ID:          uuid.New(),
		Plan:        plan,
		Module:      module,
		Enabled:     enabled,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewPlanModuleWithLimit creates a new PlanModule with a usage limit
func NewPlanModuleWithLimit(plan TenantPlan, module ModuleKey, enabled bool, limit int, description string) *PlanModule {
	pm := NewPlanModule(plan, module, enabled, description)
	pm.Limit = &limit
	return pm
}

// Enable enables this module for the plan
func (pm *PlanModule) Enable() {
	pm.Enabled = true
	pm.UpdatedAt = time.Now()
}

// Disable disables this module for the plan
func (pm *PlanModule) Disable() {
	pm.Enabled = false
	pm.UpdatedAt = time.Now()
}

// SetLimit sets the usage limit
func (pm *PlanModule) SetLimit(limit int) {
	pm.Limit = &limit
	pm.UpdatedAt = time.Now()
}

// ClearLimit removes the usage limit
func (pm *PlanModule) ClearLimit() {
	pm.Limit = nil
	pm.UpdatedAt = time.Now()
}

// IsUnlimited returns true if the module has no usage limit
func (pm *PlanModule) IsUnlimited() bool {
	return pm.Limit == nil
}

// PlanModuleRepository defines the interface for plan module persistence
type PlanModuleRepository interface {
	// FindByID finds a plan module by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*PlanModule, error)

	// FindByPlan finds all module mappings for a plan
	FindByPlan(ctx context.Context, plan TenantPlan) ([]PlanModule, error)

	// FindByPlanAndModule finds a specific module mapping for a plan
	FindByPlanAndModule(ctx context.Context, plan TenantPlan, module ModuleKey) (*PlanModule, error)

	// FindEnabledByPlan finds all enabled modules for a plan
	FindEnabledByPlan(ctx context.Context, plan TenantPlan) ([]PlanModule, error)

	// HasModule checks if a plan has a module enabled
	HasModule(ctx context.Context, plan TenantPlan, module ModuleKey) (bool, error)

	// Save creates or updates a plan module
	Save(ctx context.Context, module *PlanModule) error

	// SaveBatch creates or updates multiple plan modules
	SaveBatch(ctx context.Context, modules []PlanModule) error

	// Delete deletes a plan module
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByPlan deletes all module mappings for a plan
	DeleteByPlan(ctx context.Context, plan TenantPlan) error
}

// DefaultPlanModules returns the default module set for a given plan
func DefaultPlanModules(plan TenantPlan) []PlanModule {
	switch plan {
	case TenantPlanBasic:
		return []PlanModule{
			*NewPlanModule(plan, ModuleCatalog, true, "Catálogo de produtos"),
			*NewPlanModule(plan, ModuleOrders, true, "Gestão de pedidos"),
			*NewPlanModule(plan, ModuleCustomers, true, "Base de clientes"),
			*NewPlanModuleWithLimit(plan, ModuleCampaigns, true, 3, "Campanhas e cupons (até 3 ativas)"),
			*NewPlanModule(plan, ModuleMessaging, false, "Notificações WhatsApp/Telegram"),
			*NewPlanModule(plan, ModuleReports, false, "Relatórios de vendas"),
			*NewPlanModule(plan, ModuleUsers, true, "Equipe e grupos"),
			*NewPlanModule(plan, ModuleStores, false, "Múltiplas lojas"),
		}
	case TenantPlanPro:
		return []PlanModule{
			*NewPlanModule(plan, ModuleCatalog, true, "Catálogo de produtos"),
			*NewPlanModule(plan, ModuleOrders, true, "Gestão de pedidos"),
			*NewPlanModule(plan, ModuleCustomers, true, "Base de clientes"),
			*NewPlanModule(plan, ModuleCampaigns, true, "Campanhas e cupons"),
			*NewPlanModule(plan, ModuleMessaging, true, "Notificações WhatsApp/Telegram"),
			*NewPlanModule(plan, ModuleReports, true, "Relatórios de vendas"),
			*NewPlanModule(plan, ModuleUsers, true, "Equipe e grupos"),
			*NewPlanModule(plan, ModuleStores, true, "Múltiplas lojas"),
		}
	case TenantPlanEnterprise:
		return []PlanModule{
			*NewPlanModule(plan, ModuleCatalog, true, "Catálogo de produtos"),
			*NewPlanModule(plan, ModuleOrders, true, "Gestão de pedidos"),
			*NewPlanModule(plan, ModuleCustomers, true, "Base de clientes"),
			*NewPlanModule(plan, ModuleCampaigns, true, "Campanhas e cupons"),
			*NewPlanModule(plan, ModuleMessaging, true, "Notificações WhatsApp/Telegram"),
			*NewPlanModule(plan, ModuleReports, true, "Relatórios de vendas"),
			*NewPlanModule(plan, ModuleUsers, true, "Equipe e grupos"),
			*NewPlanModule(plan, ModuleStores, true, "Múltiplas lojas"),
		}
	default: // free
		return []PlanModule{
			*NewPlanModule(plan, ModuleCatalog, true, "Catálogo de produtos"),
			*NewPlanModule(plan, ModuleOrders, true, "Gestão de pedidos"),
			*NewPlanModule(plan, ModuleCustomers, true, "Base de clientes"),
			*NewPlanModule(plan, ModuleCampaigns, false, "Campanhas e cupons"),
			*NewPlanModule(plan, ModuleMessaging, false, "Notificações WhatsApp/Telegram"),
			*NewPlanModule(plan, ModuleReports, false, "Relatórios de vendas"),
			*NewPlanModule(plan, ModuleUsers, false, "Equipe e grupos"),
			*NewPlanModule(plan, ModuleStores, false, "Múltiplas lojas"),
		}
	}
}
