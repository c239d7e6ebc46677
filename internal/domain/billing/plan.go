package billing

import (
	"strings"
	"time"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Known plan keys. They match the tenant plan values in identity.
const (
	PlanKeyFree       = "free"
	PlanKeyBasic      = "basic"
	PlanKeyPro        = "pro"
	PlanKeyEnterprise = "enterprise"
)

// Unlimited marks a plan limit with no cap
const Unlimited = -1

// Plan is a platform-level subscription plan: price, limits and the
// Stripe price it bills against. Plans are seeded by the platform and
// listed to tenants; module gating per plan lives in identity.
type Plan struct {
	shared.BaseAggregateRoot
	Key           string          `gorm:"type:varchar(20);not null;uniqueIndex"`
	Name          string          `gorm:"type:varchar(60);not null"`
	Description   string          `gorm:"type:varchar(300)"`
	MonthlyPrice  decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	MaxStores     int             `gorm:"not null;default:1"`  // -1 = unlimited
	MaxProducts   int             `gorm:"not null;default:50"` // -1 = unlimited
	MaxUsers      int             `gorm:"not null;default:1"`  // -1 = unlimited
	TrialDays     int             `gorm:"not null;default:0"`
	StripePriceID string          `gorm:"type:varchar(100)"` // Empty for free
	IsActive      bool            `gorm:"not null;default:true"`
	SortOrder     int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Plan) TableName() string {
	return "plans"
}

// NewPlan creates a new subscription plan
func NewPlan(key, name string, monthlyPrice decimal.Decimal) (*Plan, error) {
	if !IsKnownPlanKey(key) {
		return nil, shared.NewDomainError("INVALID_PLAN_KEY", "Unknown plan key")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Plan name cannot be empty")
	}
	if monthlyPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Plan price cannot be negative")
	}

	return &Plan{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Key:               key,
		Name:              strings.TrimSpace(name),
		MonthlyPrice:      monthlyPrice,
		MaxStores:         1,
		MaxProducts:       50,
		MaxUsers:          1,
		IsActive:          true,
	}, nil
}

// IsKnownPlanKey reports whether the key names a platform plan
func IsKnownPlanKey(key string) bool {
	switch key {
	case PlanKeyFree, PlanKeyBasic, PlanKeyPro, PlanKeyEnterprise:
		return true
	}
	return false
}

// WithLimits sets the plan limits; -1 means unlimited
func (p *Plan) WithLimits(maxStores, maxProducts, maxUsers int) *Plan {
	if maxStores >= Unlimited {
		p.MaxStores = maxStores
	}
	if maxProducts >= Unlimited {
		p.MaxProducts = maxProducts
	}
	if maxUsers >= Unlimited {
		p.MaxUsers = maxUsers
	}
	return p
}

// WithDescription sets the plan description
func (p *Plan) WithDescription(description string) *Plan {
	p.Description = description
	return p
}

// WithTrial sets the trial length in days
func (p *Plan) WithTrial(days int) *Plan {
	if days >= 0 {
		p.TrialDays = days
	}
	return p
}

// WithStripePrice binds the plan to a Stripe price
func (p *Plan) WithStripePrice(priceID string) *Plan {
	p.StripePriceID = priceID
	return p
}

// WithSortOrder sets the listing position
func (p *Plan) WithSortOrder(order int) *Plan {
	p.SortOrder = order
	return p
}

// SetPrice updates the monthly price
func (p *Plan) SetPrice(monthlyPrice decimal.Decimal) error {
	if monthlyPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Plan price cannot be negative")
	}
	p.MonthlyPrice = monthlyPrice
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// Activate makes the plan available for new subscriptions
func (p *Plan) Activate() {
	p.IsActive = true
	p.UpdatedAt = time.Now()
}

// Deactivate hides the plan from new subscriptions; existing
// subscriptions keep running
func (p *Plan) Deactivate() {
	p.IsActive = false
	p.UpdatedAt = time.Now()
}

// IsFree returns true if the plan costs nothing
func (p *Plan) IsFree() bool {
	return p.MonthlyPrice.IsZero()
}

// HasTrial returns true if the plan starts with a trial period
func (p *Plan) HasTrial() bool {
	return p.TrialDays > 0
}

// MonthlyPriceMoney returns the monthly price as Money
func (p *Plan) MonthlyPriceMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(p.MonthlyPrice)
}

// CanAddStore checks the store limit against the current count
func (p *Plan) CanAddStore(current int) bool {
	return p.MaxStores == Unlimited || current < p.MaxStores
}

// CanAddProduct checks the product limit against the current count
func (p *Plan) CanAddProduct(current int) bool {
	return p.MaxProducts == Unlimited || current < p.MaxProducts
}

// CanAddUser checks the user limit against the current count
func (p *Plan) CanAddUser(current int) bool {
	return p.MaxUsers == Unlimited || current < p.MaxUsers
}

// DefaultPlans returns the seeded plan catalog
func DefaultPlans() []*Plan {
	free, _ := NewPlan(PlanKeyFree, "Grátis", decimal.Zero)
	free.WithDescription("Para começar a vender online").
		WithLimits(1, 30, 1).
		WithSortOrder(0)

	basic, _ := NewPlan(PlanKeyBasic, "Básico", decimal.NewFromFloat(49.90))
	basic.WithDescription("Catálogo completo e cupons").
		WithLimits(1, 200, 3).
		WithTrial(14).
		WithSortOrder(1)

	pro, _ := NewPlan(PlanKeyPro, "Profissional", decimal.NewFromFloat(99.90))
	pro.WithDescription("Múltiplas lojas, notificações e relatórios").
		WithLimits(3, 1000, 10).
		WithTrial(14).
		WithSortOrder(2)

	enterprise, _ := NewPlan(PlanKeyEnterprise, "Empresarial", decimal.NewFromFloat(249.90))
	enterprise.WithDescription("Sem limites, suporte dedicado").
		WithLimits(Unlimited, Unlimited, Unlimited).
		WithSortOrder(3)

	return []*Plan{free, basic, pro, enterprise}
}
