package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/billing"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/identity"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	infrabilling "github.com/Rokin-Inteligencia/roksell-sub000/internal/infrastructure/billing"
)

// StripeGateway abstracts the Stripe API calls used for subscription
// management. Implemented by infrastructure/billing.StripeGateway.
type StripeGateway interface {
	// CreateCustomer creates a Stripe customer and returns its ID
	CreateCustomer(ctx context.Context, input infrabilling.CreateCustomerInput) (string, error)

	// CreateCheckoutSession starts a Checkout session for a paid plan
	CreateCheckoutSession(ctx context.Context, input infrabilling.CheckoutSessionInput) (*infrabilling.CheckoutSessionOutput, error)

	// SetCancelAtPeriodEnd flips auto-renewal on a Stripe subscription
	SetCancelAtPeriodEnd(ctx context.Context, stripeSubscriptionID string, cancel bool) error

	// CreateBillingPortalSession opens a billing portal session and
	// returns its URL
	CreateBillingPortalSession(ctx context.Context, customerID string) (string, error)
}

// SubscriptionService handles plan listing and the subscription
// lifecycle driven by the tenant (checkout, cancel, resume). State
// changes driven by Stripe arrive through StripeWebhookService.
type SubscriptionService struct {
	subscriptionRepo billing.SubscriptionRepository
	planRepo         billing.PlanRepository
	tenantRepo       identity.TenantRepository
	gateway          StripeGateway
	eventPublisher   shared.EventPublisher
	logger           *zap.Logger
}

// NewSubscriptionService creates a new SubscriptionService
func NewSubscriptionService(
	subscriptionRepo billing.SubscriptionRepository,
	planRepo billing.PlanRepository,
	tenantRepo identity.TenantRepository,
	gateway StripeGateway,
	logger *zap.Logger,
) *SubscriptionService {
	return &SubscriptionService{
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
		tenantRepo:       tenantRepo,
		gateway:          gateway,
		logger:           logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *SubscriptionService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// ListPlans returns the plans open for new subscriptions, ordered for
// display. Falls back to the built-in catalog when none are seeded.
func (s *SubscriptionService) ListPlans(ctx context.Context) ([]*PlanDTO, error) {
	plans, err := s.planRepo.FindActive(ctx)
	if err != nil {
		s.logger.Error("failed to list plans", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list plans")
	}

	if len(plans) == 0 {
		plans = billing.DefaultPlans()
	}

	dtos := make([]*PlanDTO, 0, len(plans))
	for _, plan := range plans {
		dtos = append(dtos, toPlanDTO(plan))
	}

	return dtos, nil
}

// GetCurrent returns the tenant's subscription. Tenants without a
// subscription row (free plan, or a plan set by the platform) get a
// DTO derived from the tenant record itself.
func (s *SubscriptionService) GetCurrent(ctx context.Context, tenantID uuid.UUID) (*SubscriptionDTO, error) {
	sub, err := s.subscriptionRepo.FindByTenant(ctx, tenantID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Error("failed to get subscription", zap.Error(err), zap.String("tenant_id", tenantID.String()))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to get subscription")
		}
		return s.currentFromTenant(ctx, tenantID)
	}

	return toSubscriptionDTO(sub, s.lookupPlan(ctx, sub.PlanKey)), nil
}

// StartCheckout creates a Stripe Checkout session to subscribe the
// tenant to a paid plan. The local subscription row is created when the
// checkout.session.completed webhook arrives, not here.
func (s *SubscriptionService) StartCheckout(ctx context.Context, tenantID uuid.UUID, input StartCheckoutInput) (*CheckoutSessionDTO, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("TENANT_NOT_FOUND", "Tenant not found")
		}
		s.logger.Error("failed to get tenant", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to start checkout")
	}

	plan, err := s.planRepo.FindByKey(ctx, input.PlanKey)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PLAN_NOT_FOUND", "Plan not found")
		}
		s.logger.Error("failed to get plan", zap.Error(err), zap.String("plan_key", input.PlanKey))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to start checkout")
	}

	if !plan.IsActive {
		return nil, shared.NewDomainError("PLAN_NOT_AVAILABLE", "Plan is not open for new subscriptions")
	}
	if plan.IsFree() {
		return nil, shared.NewDomainError("FREE_PLAN_NO_CHECKOUT", "The free plan does not require checkout")
	}
	if plan.StripePriceID == "" {
		return nil, shared.NewDomainError("PLAN_NOT_PURCHASABLE", "Plan has no price configured")
	}

	existing, err := s.subscriptionRepo.FindByTenant(ctx, tenantID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("failed to get subscription", zap.Error(err), zap.String("tenant_id", tenantID.String()))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to start checkout")
	}

	if existing != nil && existing.IsActive() && existing.PlanKey == plan.Key && !existing.CancelAtPeriodEnd {
		return nil, shared.NewDomainError("ALREADY_SUBSCRIBED", "Tenant is already subscribed to this plan")
	}

	customerID := ""
	if existing != nil {
		customerID = existing.StripeCustomerID
	}
	if customerID == "" {
		customerID, err = s.gateway.CreateCustomer(ctx, infrabilling.CreateCustomerInput{
			TenantID: tenant.ID,
			Name:     tenant.Name,
			Email:    tenant.ContactEmail,
		})
		if err != nil {
			s.logger.Error("failed to create stripe customer", zap.Error(err), zap.String("tenant_id", tenantID.String()))
			return nil, shared.NewDomainError("CHECKOUT_FAILED", "Could not start checkout")
		}

		// Persist the customer so a retried checkout reuses it
		if existing != nil {
			if err := existing.AttachStripe(customerID, existing.StripeSubscriptionID); err == nil {
				if err := s.subscriptionRepo.Update(ctx, existing); err != nil {
					s.logger.Warn("failed to persist stripe customer", zap.Error(err), zap.String("tenant_id", tenantID.String()))
				}
			}
		}
	}

	// No second trial once the tenant has held any subscription
	trialDays := plan.TrialDays
	if existing != nil {
		trialDays = 0
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, infrabilling.CheckoutSessionInput{
		TenantID:   tenant.ID,
		CustomerID: customerID,
		PlanKey:    plan.Key,
		PriceID:    plan.StripePriceID,
		TrialDays:  trialDays,
	})
	if err != nil {
		s.logger.Error("failed to create checkout session", zap.Error(err), zap.String("tenant_id", tenantID.String()), zap.String("plan_key", plan.Key))
		return nil, shared.NewDomainError("CHECKOUT_FAILED", "Could not start checkout")
	}

	s.logger.Info("checkout session created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("plan_key", plan.Key),
		zap.String("session_id", session.SessionID))

	return &CheckoutSessionDTO{
		SessionID:   session.SessionID,
		CheckoutURL: session.URL,
	}, nil
}

// CancelAtPeriodEnd schedules the subscription to end when the current
// period closes. Access continues until then.
func (s *SubscriptionService) CancelAtPeriodEnd(ctx context.Context, tenantID uuid.UUID) (*SubscriptionDTO, error) {
	sub, err := s.findSubscription(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if err := sub.ScheduleCancel(); err != nil {
		return nil, err
	}

	// Flip Stripe first so a gateway failure leaves the local row
	// untouched
	if sub.StripeSubscriptionID != "" {
		if err := s.gateway.SetCancelAtPeriodEnd(ctx, sub.StripeSubscriptionID, true); err != nil {
			s.logger.Error("failed to schedule cancel on stripe", zap.Error(err), zap.String("tenant_id", tenantID.String()))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to cancel subscription")
		}
	}

	if err := s.subscriptionRepo.Update(ctx, sub); err != nil {
		s.logger.Error("failed to update subscription", zap.Error(err), zap.String("tenant_id", tenantID.String()))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to cancel subscription")
	}

	s.publishDomainEvents(ctx, sub)

	s.logger.Info("subscription cancel scheduled",
		zap.String("tenant_id", tenantID.String()),
		zap.String("plan_key", sub.PlanKey))

	return toSubscriptionDTO(sub, s.lookupPlan(ctx, sub.PlanKey)), nil
}

// ResumeAutoRenew reverts a scheduled cancellation
func (s *SubscriptionService) ResumeAutoRenew(ctx context.Context, tenantID uuid.UUID) (*SubscriptionDTO, error) {
	sub, err := s.findSubscription(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if err := sub.ResumeAutoRenew(); err != nil {
		return nil, err
	}

	if sub.StripeSubscriptionID != "" {
		if err := s.gateway.SetCancelAtPeriodEnd(ctx, sub.StripeSubscriptionID, false); err != nil {
			s.logger.Error("failed to resume auto renew on stripe", zap.Error(err), zap.String("tenant_id", tenantID.String()))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to resume subscription")
		}
	}

	if err := s.subscriptionRepo.Update(ctx, sub); err != nil {
		s.logger.Error("failed to update subscription", zap.Error(err), zap.String("tenant_id", tenantID.String()))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to resume subscription")
	}

	s.publishDomainEvents(ctx, sub)

	s.logger.Info("subscription auto renew resumed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("plan_key", sub.PlanKey))

	return toSubscriptionDTO(sub, s.lookupPlan(ctx, sub.PlanKey)), nil
}

// OpenBillingPortal returns a Stripe billing portal URL where the
// tenant manages payment methods and invoices
func (s *SubscriptionService) OpenBillingPortal(ctx context.Context, tenantID uuid.UUID) (*PortalSessionDTO, error) {
	sub, err := s.findSubscription(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if sub.StripeCustomerID == "" {
		return nil, shared.NewDomainError("NO_STRIPE_CUSTOMER", "Tenant has no billing account")
	}

	url, err := s.gateway.CreateBillingPortalSession(ctx, sub.StripeCustomerID)
	if err != nil {
		s.logger.Error("failed to create billing portal session", zap.Error(err), zap.String("tenant_id", tenantID.String()))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to open billing portal")
	}

	return &PortalSessionDTO{PortalURL: url}, nil
}

// SeedPlans inserts the default plan catalog for keys not yet present.
// Called by the migration command.
func (s *SubscriptionService) SeedPlans(ctx context.Context) error {
	if err := s.planRepo.SeedDefaults(ctx); err != nil {
		s.logger.Error("failed to seed plans", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to seed plans")
	}

	s.logger.Info("default plans seeded")
	return nil
}

func (s *SubscriptionService) findSubscription(ctx context.Context, tenantID uuid.UUID) (*billing.Subscription, error) {
	sub, err := s.subscriptionRepo.FindByTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NO_SUBSCRIPTION", "Tenant has no subscription")
		}
		s.logger.Error("failed to get subscription", zap.Error(err), zap.String("tenant_id", tenantID.String()))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to get subscription")
	}
	return sub, nil
}

// currentFromTenant synthesizes a subscription DTO for tenants without
// a subscription row. The plan on the tenant record is authoritative.
func (s *SubscriptionService) currentFromTenant(ctx context.Context, tenantID uuid.UUID) (*SubscriptionDTO, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("TENANT_NOT_FOUND", "Tenant not found")
		}
		s.logger.Error("failed to get tenant", zap.Error(err), zap.String("tenant_id", tenantID.String()))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to get subscription")
	}

	status := billing.SubscriptionActive
	var trialEndsAt *time.Time
	if tenant.IsTrial() {
		status = billing.SubscriptionTrialing
		trialEndsAt = tenant.TrialEndsAt
	}

	dto := &SubscriptionDTO{
		TenantID:    tenant.ID,
		PlanKey:     string(tenant.Plan),
		Status:      status.String(),
		TrialEndsAt: trialEndsAt,
	}

	if plan := s.lookupPlan(ctx, string(tenant.Plan)); plan != nil {
		dto.PlanName = plan.Name
		dto.MonthlyPrice = plan.MonthlyPrice
	}

	return dto, nil
}

// lookupPlan resolves a plan for display fields, falling back to the
// built-in catalog. Returns nil when the key is unknown.
func (s *SubscriptionService) lookupPlan(ctx context.Context, key string) *billing.Plan {
	plan, err := s.planRepo.FindByKey(ctx, key)
	if err == nil {
		return plan
	}
	if !errors.Is(err, shared.ErrNotFound) {
		s.logger.Warn("failed to look up plan", zap.Error(err), zap.String("plan_key", key))
	}

	for _, p := range billing.DefaultPlans() {
		if p.Key == key {
			return p
		}
	}
	return nil
}

func (s *SubscriptionService) publishDomainEvents(ctx context.Context, sub *billing.Subscription) {
	if s.eventPublisher == nil {
		return
	}

	events := sub.GetDomainEvents()
	if len(events) == 0 {
		return
	}

	// Publish errors are logged by the event bus, not propagated
	_ = s.eventPublisher.Publish(ctx, events...)
	sub.ClearDomainEvents()
}
