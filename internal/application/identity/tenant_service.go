package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/identity"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared/valueobject"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TenantServiceConfig holds configuration for tenant registration
type TenantServiceConfig struct {
	// TrialDays is the length of the trial period for new signups
	TrialDays int
}

// DefaultTenantServiceConfig returns the default tenant service configuration
func DefaultTenantServiceConfig() TenantServiceConfig {
	return TenantServiceConfig{TrialDays: 14}
}

// TenantService handles tenant lifecycle operations (platform scope)
type TenantService struct {
	tenantRepo     identity.TenantRepository
	userRepo       identity.UserRepository
	groupRepo      identity.GroupRepository
	config         TenantServiceConfig
	logger         *zap.Logger
	eventPublisher shared.EventPublisher
}

// NewTenantService creates a new tenant service
func NewTenantService(
	tenantRepo identity.TenantRepository,
	userRepo identity.UserRepository,
	groupRepo identity.GroupRepository,
	config TenantServiceConfig,
	logger *zap.Logger,
) *TenantService {
	return &TenantService{
		tenantRepo: tenantRepo,
		userRepo:   userRepo,
		groupRepo:  groupRepo,
		config:     config,
		logger:     logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *TenantService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// RegisterTenantInput contains input for registering a new tenant
type RegisterTenantInput struct {
	Slug          string
	Name          string
	OwnerName     string
	OwnerEmail    string
	OwnerPassword string
	Trial         bool
}

// UpdateTenantInput contains input for updating a tenant
type UpdateTenantInput struct {
	ID           uuid.UUID
	Name         string
	LegalName    string
	Document     string
	ContactName  string
	ContactPhone string
	ContactEmail string
	LogoURL      string
	Notes        string
}

// TenantLimitsDTO carries the plan limits of a tenant
type TenantLimitsDTO struct {
	MaxStores   int `json:"max_stores"`
	MaxProducts int `json:"max_products"`
	MaxUsers    int `json:"max_users"`
}

// TenantDTO represents tenant data transfer object
type TenantDTO struct {
	ID           uuid.UUID       `json:"id"`
	Slug         string          `json:"slug"`
	Name         string          `json:"name"`
	LegalName    string          `json:"legal_name,omitempty"`
	Document     string          `json:"document,omitempty"`
	Status       string          `json:"status"`
	Plan         string          `json:"plan"`
	ContactName  string          `json:"contact_name,omitempty"`
	ContactPhone string          `json:"contact_phone,omitempty"`
	ContactEmail string          `json:"contact_email,omitempty"`
	LogoURL      string          `json:"logo_url,omitempty"`
	ExpiresAt    *time.Time      `json:"expires_at,omitempty"`
	TrialEndsAt  *time.Time      `json:"trial_ends_at,omitempty"`
	Limits       TenantLimitsDTO `json:"limits"`
	Notes        string          `json:"notes,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// RegisterTenantResult contains the newly created tenant and its owner
type RegisterTenantResult struct {
	Tenant TenantDTO `json:"tenant"`
	Owner  UserDTO   `json:"owner"`
}

// TenantListResult represents a tenant listing (platform scope)
type TenantListResult struct {
	Tenants    []TenantDTO `json:"tenants"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

// Register creates a new tenant together with its owner account and the
// built-in administrator group. Failures roll the partial signup back.
func (s *TenantService) Register(ctx context.Context, input RegisterTenantInput) (*RegisterTenantResult, error) {
	slug := strings.ToLower(strings.TrimSpace(input.Slug))

	s.logger.Info("Registering new tenant", zap.String("slug", slug))

	exists, err := s.tenantRepo.ExistsBySlug(ctx, slug)
	if err != nil {
		s.logger.Error("Failed to check slug availability", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check slug availability")
	}
	if exists {
		return nil, shared.NewDomainError("SLUG_TAKEN", "This slug is already in use")
	}

	var tenant *identity.Tenant
	if input.Trial {
		tenant, err = identity.NewTrialTenant(slug, input.Name, s.config.TrialDays)
	} else {
		tenant, err = identity.NewTenant(slug, input.Name)
	}
	if err != nil {
		return nil, err
	}

	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		s.logger.Error("Failed to save tenant", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to register tenant")
	}

	// All tenant-implicit writes below run scoped to the new tenant
	ctx, log := logger.WithTenantID(ctx, s.logger, tenant.ID.String())

	ownerGroup, err := identity.NewOwnerGroup(tenant.ID)
	if err != nil {
		_ = s.tenantRepo.Delete(ctx, tenant.ID)
		return nil, err
	}
	if err := s.groupRepo.Create(ctx, ownerGroup); err != nil {
		log.Error("Failed to create owner group", zap.Error(err))
		_ = s.tenantRepo.Delete(ctx, tenant.ID)
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to register tenant")
	}

	owner, err := identity.NewOwnerUser(tenant.ID, input.OwnerEmail, input.OwnerName, input.OwnerPassword)
	if err != nil {
		_ = s.groupRepo.Delete(ctx, ownerGroup.ID)
		_ = s.tenantRepo.Delete(ctx, tenant.ID)
		return nil, err
	}
	if err := owner.AssignGroup(ownerGroup.ID); err != nil {
		_ = s.groupRepo.Delete(ctx, ownerGroup.ID)
		_ = s.tenantRepo.Delete(ctx, tenant.ID)
		return nil, err
	}

	if err := s.userRepo.Create(ctx, owner); err != nil {
		log.Error("Failed to create owner user", zap.Error(err))
		_ = s.groupRepo.Delete(ctx, ownerGroup.ID)
		_ = s.tenantRepo.Delete(ctx, tenant.ID)
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to register tenant")
	}
	if err := s.userRepo.SaveUserGroups(ctx, owner); err != nil {
		log.Error("Failed to assign owner group", zap.Error(err))
		_ = s.userRepo.Delete(ctx, owner.ID)
		_ = s.groupRepo.Delete(ctx, ownerGroup.ID)
		_ = s.tenantRepo.Delete(ctx, tenant.ID)
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to register tenant")
	}

	s.publishDomainEvents(ctx, tenant)

	log.Info("Tenant registered",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("slug", tenant.Slug),
		zap.String("owner_id", owner.ID.String()))

	return &RegisterTenantResult{
		Tenant: *toTenantDTO(tenant),
		Owner:  *toUserDTO(owner),
	}, nil
}

// GetByID retrieves a tenant by ID
func (s *TenantService) GetByID(ctx context.Context, id uuid.UUID) (*TenantDTO, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("TENANT_NOT_FOUND", "Tenant not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find tenant")
	}

	return toTenantDTO(tenant), nil
}

// GetBySlug retrieves a tenant by its public slug
func (s *TenantService) GetBySlug(ctx context.Context, slug string) (*TenantDTO, error) {
	tenant, err := s.tenantRepo.FindBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("TENANT_NOT_FOUND", "Tenant not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find tenant")
	}

	return toTenantDTO(tenant), nil
}

// List retrieves tenants with pagination (platform scope)
func (s *TenantService) List(ctx context.Context, filter shared.Filter) (*TenantListResult, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	tenants, err := s.tenantRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list tenants", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list tenants")
	}

	total, err := s.tenantRepo.Count(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to count tenants", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list tenants")
	}

	totalPages := int(total) / filter.PageSize
	if int(total)%filter.PageSize > 0 {
		totalPages++
	}

	tenantDTOs := make([]TenantDTO, len(tenants))
	for i := range tenants {
		tenantDTOs[i] = *toTenantDTO(&tenants[i])
	}

	return &TenantListResult{
		Tenants:    tenantDTOs,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages,
	}, nil
}

// Update updates a tenant's profile and contact information
func (s *TenantService) Update(ctx context.Context, input UpdateTenantInput) (*TenantDTO, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, input.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("TENANT_NOT_FOUND", "Tenant not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find tenant")
	}

	if err := tenant.Update(input.Name, input.LegalName); err != nil {
		return nil, err
	}
	if err := tenant.SetContact(input.ContactName, input.ContactPhone, input.ContactEmail); err != nil {
		return nil, err
	}
	if input.Document != "" {
		doc, err := valueobject.NewDocument(input.Document)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_DOCUMENT", "Invalid CPF/CNPJ document")
		}
		if err := tenant.SetDocument(doc.Digits()); err != nil {
			return nil, err
		}
	}
	if err := tenant.SetLogoURL(input.LogoURL); err != nil {
		return nil, err
	}
	tenant.SetNotes(input.Notes)

	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		s.logger.Error("Failed to update tenant", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update tenant")
	}

	s.publishDomainEvents(ctx, tenant)

	return toTenantDTO(tenant), nil
}

// SetPlan changes a tenant's subscription plan and refreshes its limits
func (s *TenantService) SetPlan(ctx context.Context, id uuid.UUID, plan string) (*TenantDTO, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("TENANT_NOT_FOUND", "Tenant not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find tenant")
	}

	if err := tenant.SetPlan(identity.TenantPlan(plan)); err != nil {
		return nil, err
	}

	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		s.logger.Error("Failed to change tenant plan", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to change tenant plan")
	}

	s.publishDomainEvents(ctx, tenant)

	s.logger.Info("Tenant plan changed",
		zap.String("tenant_id", id.String()),
		zap.String("plan", plan))

	return toTenantDTO(tenant), nil
}

// Activate activates a tenant
func (s *TenantService) Activate(ctx context.Context, id uuid.UUID) (*TenantDTO, error) {
	return s.transition(ctx, id, func(t *identity.Tenant) error { return t.Activate() })
}

// Deactivate deactivates a tenant
func (s *TenantService) Deactivate(ctx context.Context, id uuid.UUID) (*TenantDTO, error) {
	return s.transition(ctx, id, func(t *identity.Tenant) error { return t.Deactivate() })
}

// Suspend suspends a tenant (billing failure, abuse)
func (s *TenantService) Suspend(ctx context.Context, id uuid.UUID) (*TenantDTO, error) {
	return s.transition(ctx, id, func(t *identity.Tenant) error { return t.Suspend() })
}

func (s *TenantService) transition(ctx context.Context, id uuid.UUID, change func(*identity.Tenant) error) (*TenantDTO, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("TENANT_NOT_FOUND", "Tenant not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find tenant")
	}

	if err := change(tenant); err != nil {
		return nil, err
	}

	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		s.logger.Error("Failed to change tenant status", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to change tenant status")
	}

	s.publishDomainEvents(ctx, tenant)

	return toTenantDTO(tenant), nil
}

// Delete removes a tenant. The tenant must be deactivated or suspended
// first so a stray platform call cannot take a live storefront down.
func (s *TenantService) Delete(ctx context.Context, id uuid.UUID) error {
	tenant, err := s.tenantRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("TENANT_NOT_FOUND", "Tenant not found")
		}
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to find tenant")
	}

	if tenant.IsActive() || tenant.IsTrial() {
		return shared.NewDomainError("TENANT_ACTIVE", "Deactivate the tenant before deleting it")
	}

	if err := s.tenantRepo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete tenant", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete tenant")
	}

	s.logger.Info("Tenant deleted", zap.String("tenant_id", id.String()))

	return nil
}

// Count returns the number of tenants matching the filter (platform scope)
func (s *TenantService) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return s.tenantRepo.Count(ctx, filter)
}

func (s *TenantService) publishDomainEvents(ctx context.Context, tenant *identity.Tenant) {
	if s.eventPublisher == nil {
		return
	}
	events := tenant.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	// Publish errors are logged by the event bus, not propagated
	_ = s.eventPublisher.Publish(ctx, events...)
	tenant.ClearDomainEvents()
}

func toTenantDTO(tenant *identity.Tenant) *TenantDTO {
	return &TenantDTO{
		ID:           tenant.ID,
		Slug:         tenant.Slug,
		Name:         tenant.Name,
		LegalName:    tenant.LegalName,
		Document:     tenant.Document,
		Status:       string(tenant.Status),
		Plan:         string(tenant.Plan),
		ContactName:  tenant.ContactName,
		ContactPhone: tenant.ContactPhone,
		ContactEmail: tenant.ContactEmail,
		LogoURL:      tenant.LogoURL,
		ExpiresAt:    tenant.ExpiresAt,
		TrialEndsAt:  tenant.TrialEndsAt,
		Limits: TenantLimitsDTO{
			MaxStores:   tenant.Limits.MaxStores,
			MaxProducts: tenant.Limits.MaxProducts,
			MaxUsers:    tenant.Limits.MaxUsers,
		},
		Notes:     tenant.Notes,
		CreatedAt: tenant.CreatedAt,
		UpdatedAt: tenant.UpdatedAt,
	}
}
