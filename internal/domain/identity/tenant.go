package identity

import (
	"strings"
	"time"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// TenantStatus represents the status of a tenant
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusInactive  TenantStatus = "inactive"
	TenantStatusSuspended TenantStatus = "suspended" // Suspended due to billing/violation issues
	TenantStatusTrial     TenantStatus = "trial"     // Trial period
)

// TenantPlan represents the subscription plan of a tenant
type TenantPlan string

const (
	TenantPlanFree       TenantPlan = "free"
	TenantPlanBasic      TenantPlan = "basic"
	TenantPlanPro        TenantPlan = "pro"
	TenantPlanEnterprise TenantPlan = "enterprise"
)

// TenantLimits holds plan-derived limits for a tenant
type TenantLimits struct {
	MaxStores   int `json:"max_stores"`
	MaxProducts int `json:"max_products"`
	MaxUsers    int `json:"max_users"`
}

// DefaultTenantLimits returns the limits for a new free tenant
func DefaultTenantLimits() TenantLimits {
	return TenantLimits{
		MaxStores:   1,
		MaxProducts: 50,
		MaxUsers:    2,
	}
}

// Tenant represents a merchant organization on the platform.
// It is the aggregate root for tenant-related operations and is addressed
// publicly by its slug.
type Tenant struct {
	shared.BaseAggregateRoot
	Slug         string       `gorm:"type:varchar(60);not null;uniqueIndex"`
	Name         string       `gorm:"type:varchar(200);not null"`
	LegalName    string       `gorm:"type:varchar(200)"`
	Document     string       `gorm:"type:varchar(14);index"` // CPF/CNPJ digits
	Status       TenantStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Plan         TenantPlan   `gorm:"type:varchar(20);not null;default:'free'"`
	ContactName  string       `gorm:"type:varchar(100)"`
	ContactPhone string       `gorm:"type:varchar(20)"`
	ContactEmail string       `gorm:"type:varchar(200)"`
	LogoURL      string       `gorm:"type:varchar(500)"`
	ExpiresAt    *time.Time   `gorm:"index"` // Subscription expiry date
	TrialEndsAt  *time.Time
	Limits       TenantLimits `gorm:"embedded;embeddedPrefix:limit_"`
	Notes        string       `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Tenant) TableName() string {
	return "tenants"
}

// NewTenant creates a new tenant with required fields
func NewTenant(slug, name string) (*Tenant, error) {
	if err := ValidateTenantSlug(slug); err != nil {
		return nil, err
	}
	if err := validateTenantName(name); err != nil {
		return nil, err
	}

	tenant := &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Slug:              strings.ToLower(strings.TrimSpace(slug)),
		Name:              strings.TrimSpace(name),
		Status:            TenantStatusActive,
		Plan:              TenantPlanFree,
		Limits:            DefaultTenantLimits(),
	}

	tenant.AddDomainEvent(NewTenantCreatedEvent(tenant))

	return tenant, nil
}

// NewTrialTenant creates a new tenant in trial status
func NewTrialTenant(slug, name string, trialDays int) (*Tenant, error) {
	if trialDays <= 0 {
		return nil, shared.NewDomainError("INVALID_TRIAL_DAYS", "Trial days must be positive")
	}

	tenant, err := NewTenant(slug, name)
	if err != nil {
		return nil, err
	}

	tenant.Status = TenantStatusTrial
	trialEnds := time.Now().AddDate(0, 0, trialDays)
	tenant.TrialEndsAt = &trialEnds

	return tenant, nil
}

// Update updates the tenant's basic information
func (t *Tenant) Update(name, legalName string) error {
	if err := validateTenantName(name); err != nil {
		return err
	}
	if legalName != "" && len(legalName) > 200 {
		return shared.NewDomainError("INVALID_LEGAL_NAME", "Legal name cannot exceed 200 characters")
	}

	t.Name = strings.TrimSpace(name)
	t.LegalName = strings.TrimSpace(legalName)
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	t.AddDomainEvent(NewTenantUpdatedEvent(t))

	return nil
}

// SetDocument sets the tenant's CPF/CNPJ (unmasked digits)
func (t *Tenant) SetDocument(digits string) error {
	if digits != "" && len(digits) != 11 && len(digits) != 14 {
		return shared.NewDomainError("INVALID_DOCUMENT", "Document must have 11 (CPF) or 14 (CNPJ) digits")
	}

	t.Document = digits
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// SetContact sets the tenant's contact information
func (t *Tenant) SetContact(contactName, phone, email string) error {
	if contactName != "" && len(contactName) > 100 {
		return shared.NewDomainError("INVALID_CONTACT_NAME", "Contact name cannot exceed 100 characters")
	}
	if phone != "" && len(phone) > 20 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 20 characters")
	}
	if email != "" && len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}

	t.ContactName = strings.TrimSpace(contactName)
	t.ContactPhone = strings.TrimSpace(phone)
	t.ContactEmail = strings.ToLower(strings.TrimSpace(email))
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// SetLogoURL sets the tenant's logo URL
func (t *Tenant) SetLogoURL(url string) error {
	if url != "" && len(url) > 500 {
		return shared.NewDomainError("INVALID_URL", "Logo URL cannot exceed 500 characters")
	}

	t.LogoURL = url
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// SetPlan sets the tenant's subscription plan and refreshes plan limits
func (t *Tenant) SetPlan(plan TenantPlan) error {
	if err := validateTenantPlan(plan); err != nil {
		return err
	}

	oldPlan := t.Plan
	t.Plan = plan
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	// Upgrading away from free ends the trial
	if t.Status == TenantStatusTrial && plan != TenantPlanFree {
		t.Status = TenantStatusActive
		t.TrialEndsAt = nil
	}

	t.applyPlanLimits(plan)

	t.AddDomainEvent(NewTenantPlanChangedEvent(t, oldPlan, plan))

	return nil
}

func (t *Tenant) applyPlanLimits(plan TenantPlan) {
	switch plan {
	case TenantPlanFree:
		t.Limits = TenantLimits{MaxStores: 1, MaxProducts: 50, MaxUsers: 2}
	case TenantPlanBasic:
		t.Limits = TenantLimits{MaxStores: 2, MaxProducts: 500, MaxUsers: 5}
	case TenantPlanPro:
		t.Limits = TenantLimits{MaxStores: 10, MaxProducts: 5000, MaxUsers: 25}
	case TenantPlanEnterprise:
		t.Limits = TenantLimits{MaxStores: 9999, MaxProducts: 999999, MaxUsers: 9999}
	}
}

// SetExpiration sets the subscription expiration date
func (t *Tenant) SetExpiration(expiresAt time.Time) {
	t.ExpiresAt = &expiresAt
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// ClearExpiration clears the expiration date
func (t *Tenant) ClearExpiration() {
	t.ExpiresAt = nil
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// SetNotes sets the tenant's notes
func (t *Tenant) SetNotes(notes string) {
	t.Notes = notes
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// Activate activates the tenant
func (t *Tenant) Activate() error {
	if t.Status == TenantStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Tenant is already active")
	}

	oldStatus := t.Status
	t.Status = TenantStatusActive
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	t.AddDomainEvent(NewTenantStatusChangedEvent(t, oldStatus, TenantStatusActive))

	return nil
}

// Deactivate deactivates the tenant
func (t *Tenant) Deactivate() error {
	if t.Status == TenantStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Tenant is already inactive")
	}

	oldStatus := t.Status
	t.Status = TenantStatusInactive
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	t.AddDomainEvent(NewTenantStatusChangedEvent(t, oldStatus, TenantStatusInactive))

	return nil
}

// Suspend suspends the tenant (e.g., past-due subscription)
func (t *Tenant) Suspend() error {
	if t.Status == TenantStatusSuspended {
		return shared.NewDomainError("ALREADY_SUSPENDED", "Tenant is already suspended")
	}

	oldStatus := t.Status
	t.Status = TenantStatusSuspended
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	t.AddDomainEvent(NewTenantStatusChangedEvent(t, oldStatus, TenantStatusSuspended))

	return nil
}

// IsActive returns true if the tenant is active
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}

// IsSuspended returns true if the tenant is suspended
func (t *Tenant) IsSuspended() bool {
	return t.Status == TenantStatusSuspended
}

// IsTrial returns true if the tenant is in trial period
func (t *Tenant) IsTrial() bool {
	return t.Status == TenantStatusTrial
}

// IsTrialExpired returns true if the trial has expired
func (t *Tenant) IsTrialExpired() bool {
	if t.Status != TenantStatusTrial {
		return false
	}
	if t.TrialEndsAt == nil {
		return false
	}
	return time.Now().After(*t.TrialEndsAt)
}

// IsSubscriptionExpired returns true if the subscription has expired
func (t *Tenant) IsSubscriptionExpired() bool {
	if t.ExpiresAt == nil {
		return false
	}
	return time.Now().After(*t.ExpiresAt)
}

// AcceptsStorefrontTraffic returns true if the public storefront should be served
func (t *Tenant) AcceptsStorefrontTraffic() bool {
	if t.Status == TenantStatusTrial {
		return !t.IsTrialExpired()
	}
	return t.Status == TenantStatusActive
}

// CanAddStore returns true if the tenant can add more stores
func (t *Tenant) CanAddStore(currentStoreCount int) bool {
	return currentStoreCount < t.Limits.MaxStores
}

// CanAddProduct returns true if the tenant can add more products
func (t *Tenant) CanAddProduct(currentProductCount int) bool {
	return currentProductCount < t.Limits.MaxProducts
}

// CanAddUser returns true if the tenant can add more users
func (t *Tenant) CanAddUser(currentUserCount int) bool {
	return currentUserCount < t.Limits.MaxUsers
}

// GetTenantID returns the tenant ID
func (t *Tenant) GetTenantID() uuid.UUID {
	return t.ID
}

// Validation functions

// ValidateTenantSlug checks slug shape: lowercase letters, digits and hyphens,
// 3 to 60 characters, no leading/trailing hyphen. Exported because the HTTP
// layer validates slugs from the URL path before hitting the repository.
func ValidateTenantSlug(slug string) error {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return shared.NewDomainError("INVALID_SLUG", "Tenant slug cannot be empty")
	}
	if len(slug) < 3 {
		return shared.NewDomainError("INVALID_SLUG", "Tenant slug must be at least 3 characters")
	}
	if len(slug) > 60 {
		return shared.NewDomainError("INVALID_SLUG", "Tenant slug cannot exceed 60 characters")
	}
	if strings.HasPrefix(slug, "-") || strings.HasSuffix(slug, "-") {
		return shared.NewDomainError("INVALID_SLUG", "Tenant slug cannot start or end with a hyphen")
	}
	for _, r := range slug {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
			return shared.NewDomainError("INVALID_SLUG", "Tenant slug can only contain lowercase letters, numbers, and hyphens")
		}
	}
	return nil
}

func validateTenantName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Tenant name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Tenant name cannot exceed 200 characters")
	}
	return nil
}

func validateTenantPlan(plan TenantPlan) error {
	switch plan {
	case TenantPlanFree, TenantPlanBasic, TenantPlanPro, TenantPlanEnterprise:
		return nil
	default:
		return shared.NewDomainError("INVALID_PLAN", "Invalid tenant plan")
	}
}
