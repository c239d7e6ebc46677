package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/billing"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/identity"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	infrabilling "github.com/Rokin-Inteligencia/roksell-sub000/internal/infrastructure/billing"

	"github.com/google/uuid"
)

// StripeWebhookService processes Stripe webhook events and keeps the
// local subscription and tenant state in sync with Stripe. Lookups
// that miss are acknowledged rather than errored so Stripe does not
// retry events for tenants this installation does not know.
type StripeWebhookService struct {
	config           *infrabilling.StripeConfig
	subscriptionRepo billing.SubscriptionRepository
	planRepo         billing.PlanRepository
	tenantRepo       identity.TenantRepository
	eventPublisher   shared.EventPublisher
	logger           *zap.Logger
}

// StripeWebhookServiceConfig holds the dependencies for StripeWebhookService
type StripeWebhookServiceConfig struct {
	Config           *infrabilling.StripeConfig
	SubscriptionRepo billing.SubscriptionRepository
	PlanRepo         billing.PlanRepository
	TenantRepo       identity.TenantRepository
	EventPublisher   shared.EventPublisher
	Logger           *zap.Logger
}

// NewStripeWebhookService creates a new StripeWebhookService
func NewStripeWebhookService(cfg StripeWebhookServiceConfig) *StripeWebhookService {
	return &StripeWebhookService{
		config:           cfg.Config,
		subscriptionRepo: cfg.SubscriptionRepo,
		planRepo:         cfg.PlanRepo,
		tenantRepo:       cfg.TenantRepo,
		eventPublisher:   cfg.EventPublisher,
		logger:           cfg.Logger,
	}
}

// ProcessWebhook verifies and processes a Stripe webhook event
func (s *StripeWebhookService) ProcessWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	event, err := webhook.ConstructEvent(payload, signature, s.config.WebhookSecret)
	if err != nil {
		s.logger.Warn("stripe webhook signature verification failed", zap.Error(err))
		return nil, fmt.Errorf("webhook signature verification failed: %w", err)
	}

	s.logger.Info("processing stripe webhook",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)))

	result := &WebhookResult{
		EventID:   event.ID,
		EventType: string(event.Type),
		Processed: true,
	}

	switch string(event.Type) {
	case "checkout.session.completed":
		err = s.handleCheckoutCompleted(ctx, event)
	case "customer.subscription.created", "customer.subscription.updated":
		err = s.handleSubscriptionUpdated(ctx, event)
	case "customer.subscription.deleted":
		err = s.handleSubscriptionDeleted(ctx, event)
	case "invoice.paid":
		err = s.handleInvoicePaid(ctx, event)
	case "invoice.payment_failed":
		err = s.handleInvoicePaymentFailed(ctx, event)
	default:
		result.Processed = false
		result.Message = "event type not handled"
	}

	if err != nil {
		s.logger.Error("failed to process stripe webhook",
			zap.Error(err),
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)))
		return nil, err
	}

	return result, nil
}

// handleCheckoutCompleted creates or relinks the local subscription
// when a Checkout session finishes. Status and billing periods are
// synced by the subscription and invoice events that follow.
func (s *StripeWebhookService) handleCheckoutCompleted(ctx context.Context, event stripe.Event) error {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return fmt.Errorf("failed to parse checkout session: %w", err)
	}

	tenantID, ok := s.tenantIDFromSession(session)
	if !ok {
		s.logger.Warn("checkout session without tenant reference", zap.String("session_id", session.ID))
		return nil
	}

	planKey := session.Metadata["plan_key"]
	if !billing.IsKnownPlanKey(planKey) {
		s.logger.Warn("checkout session with unknown plan",
			zap.String("session_id", session.ID),
			zap.String("plan_key", planKey))
		return nil
	}

	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("checkout completed for unknown tenant", zap.String("tenant_id", tenantID.String()))
			return nil
		}
		return fmt.Errorf("failed to get tenant: %w", err)
	}

	customerID := ""
	if session.Customer != nil {
		customerID = session.Customer.ID
	}
	stripeSubID := ""
	if session.Subscription != nil {
		stripeSubID = session.Subscription.ID
	}

	sub, err := s.subscriptionRepo.FindByTenant(ctx, tenantID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return fmt.Errorf("failed to get subscription: %w", err)
	}

	if sub == nil {
		sub, err = s.newSubscriptionForPlan(ctx, tenantID, planKey)
		if err != nil {
			return err
		}
		if customerID != "" {
			if err := sub.AttachStripe(customerID, stripeSubID); err != nil {
				return err
			}
		}
		if err := s.subscriptionRepo.Create(ctx, sub); err != nil {
			return fmt.Errorf("failed to create subscription: %w", err)
		}
	} else {
		if sub.PlanKey != planKey {
			if err := sub.ChangePlan(planKey); err != nil {
				return err
			}
		}
		if customerID != "" {
			if err := sub.AttachStripe(customerID, stripeSubID); err != nil {
				return err
			}
		}
		if err := s.subscriptionRepo.Update(ctx, sub); err != nil {
			return fmt.Errorf("failed to update subscription: %w", err)
		}
	}

	if err := s.syncTenantPlan(ctx, tenant, planKey); err != nil {
		return err
	}

	s.publishDomainEvents(ctx, sub)

	s.logger.Info("checkout session completed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("plan_key", planKey),
		zap.String("stripe_subscription_id", stripeSubID))

	return nil
}

// handleSubscriptionUpdated syncs status, billing period, plan and the
// cancel-at-period-end flag from Stripe. Stripe is the source of truth
// here, so local transition errors are logged and skipped instead of
// failing the event.
func (s *StripeWebhookService) handleSubscriptionUpdated(ctx context.Context, event stripe.Event) error {
	var stripeSub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &stripeSub); err != nil {
		return fmt.Errorf("failed to parse subscription: %w", err)
	}

	customerID := ""
	if stripeSub.Customer != nil {
		customerID = stripeSub.Customer.ID
	}

	sub, err := s.findByStripeRefs(ctx, stripeSub.ID, customerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("subscription event for unknown subscription",
				zap.String("stripe_subscription_id", stripeSub.ID),
				zap.String("stripe_customer_id", customerID))
			return nil
		}
		return err
	}

	planChanged := false
	if planKey := stripeSub.Metadata["plan_key"]; billing.IsKnownPlanKey(planKey) && planKey != sub.PlanKey {
		if err := sub.ChangePlan(planKey); err != nil {
			s.logger.Warn("could not change plan from stripe event", zap.Error(err), zap.String("plan_key", planKey))
		} else {
			planChanged = true
		}
	}

	if stripeSub.CancelAtPeriodEnd != sub.CancelAtPeriodEnd {
		var err error
		if stripeSub.CancelAtPeriodEnd {
			err = sub.ScheduleCancel()
		} else {
			err = sub.ResumeAutoRenew()
		}
		if err != nil {
			s.logger.Warn("could not sync cancel flag from stripe event", zap.Error(err))
		}
	}

	switch stripeSub.Status {
	case stripe.SubscriptionStatusActive:
		start := time.Unix(stripeSub.CurrentPeriodStart, 0)
		end := time.Unix(stripeSub.CurrentPeriodEnd, 0)
		if err := sub.Activate(start, end); err != nil {
			s.logger.Warn("could not activate subscription from stripe event", zap.Error(err))
		}
	case stripe.SubscriptionStatusPastDue, stripe.SubscriptionStatusUnpaid:
		if sub.Status != billing.SubscriptionPastDue {
			if err := sub.MarkPastDue(); err != nil {
				s.logger.Warn("could not mark subscription past due", zap.Error(err))
			}
		}
	case stripe.SubscriptionStatusCanceled:
		if !sub.IsCanceled() {
			if err := sub.Cancel(); err != nil {
				s.logger.Warn("could not cancel subscription from stripe event", zap.Error(err))
			}
		}
	}

	if err := s.subscriptionRepo.Update(ctx, sub); err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}

	if planChanged {
		tenant, err := s.tenantRepo.FindByID(ctx, sub.TenantID)
		if err != nil {
			if !errors.Is(err, shared.ErrNotFound) {
				return fmt.Errorf("failed to get tenant: %w", err)
			}
		} else if err := s.syncTenantPlan(ctx, tenant, sub.PlanKey); err != nil {
			return err
		}
	}

	s.publishDomainEvents(ctx, sub)

	s.logger.Info("subscription synced from stripe",
		zap.String("tenant_id", sub.TenantID.String()),
		zap.String("status", sub.Status.String()),
		zap.Bool("cancel_at_period_end", sub.CancelAtPeriodEnd))

	return nil
}

// handleSubscriptionDeleted cancels the local subscription and drops
// the tenant back to the free plan
func (s *StripeWebhookService) handleSubscriptionDeleted(ctx context.Context, event stripe.Event) error {
	var stripeSub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &stripeSub); err != nil {
		return fmt.Errorf("failed to parse subscription: %w", err)
	}

	customerID := ""
	if stripeSub.Customer != nil {
		customerID = stripeSub.Customer.ID
	}

	sub, err := s.findByStripeRefs(ctx, stripeSub.ID, customerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("subscription deleted event for unknown subscription",
				zap.String("stripe_subscription_id", stripeSub.ID))
			return nil
		}
		return err
	}

	if !sub.IsCanceled() {
		if err := sub.Cancel(); err != nil {
			s.logger.Warn("could not cancel subscription from stripe event", zap.Error(err))
		}
	}

	if err := s.subscriptionRepo.Update(ctx, sub); err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}

	tenant, err := s.tenantRepo.FindByID(ctx, sub.TenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("subscription deleted for unknown tenant", zap.String("tenant_id", sub.TenantID.String()))
			return nil
		}
		return fmt.Errorf("failed to get tenant: %w", err)
	}

	tenant.ClearExpiration()
	if err := s.syncTenantPlan(ctx, tenant, billing.PlanKeyFree); err != nil {
		return err
	}

	s.publishDomainEvents(ctx, sub)

	s.logger.Info("subscription canceled from stripe",
		zap.String("tenant_id", sub.TenantID.String()))

	return nil
}

// handleInvoicePaid rolls the billing period forward and lifts a
// suspension. Zero-amount invoices (trial starts) change nothing.
func (s *StripeWebhookService) handleInvoicePaid(ctx context.Context, event stripe.Event) error {
	var invoice stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
		return fmt.Errorf("failed to parse invoice: %w", err)
	}

	if invoice.Subscription == nil {
		return nil
	}
	if invoice.AmountPaid == 0 {
		return nil
	}

	customerID := ""
	if invoice.Customer != nil {
		customerID = invoice.Customer.ID
	}

	sub, err := s.findByStripeRefs(ctx, invoice.Subscription.ID, customerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("invoice paid for unknown subscription",
				zap.String("stripe_subscription_id", invoice.Subscription.ID))
			return nil
		}
		return err
	}

	periodStart := time.Unix(invoice.PeriodStart, 0)
	periodEnd := time.Unix(invoice.PeriodEnd, 0)
	if err := sub.Activate(periodStart, periodEnd); err != nil {
		s.logger.Warn("could not activate subscription from invoice", zap.Error(err))
	}

	if err := s.subscriptionRepo.Update(ctx, sub); err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}

	tenant, err := s.tenantRepo.FindByID(ctx, sub.TenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("invoice paid for unknown tenant", zap.String("tenant_id", sub.TenantID.String()))
			return nil
		}
		return fmt.Errorf("failed to get tenant: %w", err)
	}

	if tenant.IsSuspended() {
		if err := tenant.Activate(); err != nil {
			s.logger.Warn("could not reactivate tenant", zap.Error(err))
		}
	}
	tenant.SetExpiration(periodEnd)
	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return fmt.Errorf("failed to save tenant: %w", err)
	}

	s.publishDomainEvents(ctx, sub)

	s.logger.Info("invoice paid",
		zap.String("tenant_id", sub.TenantID.String()),
		zap.Time("period_end", periodEnd))

	return nil
}

// handleInvoicePaymentFailed marks the subscription past due and
// suspends the tenant until payment succeeds
func (s *StripeWebhookService) handleInvoicePaymentFailed(ctx context.Context, event stripe.Event) error {
	var invoice stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
		return fmt.Errorf("failed to parse invoice: %w", err)
	}

	if invoice.Subscription == nil {
		return nil
	}

	customerID := ""
	if invoice.Customer != nil {
		customerID = invoice.Customer.ID
	}

	sub, err := s.findByStripeRefs(ctx, invoice.Subscription.ID, customerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("invoice payment failed for unknown subscription",
				zap.String("stripe_subscription_id", invoice.Subscription.ID))
			return nil
		}
		return err
	}

	if sub.Status != billing.SubscriptionPastDue {
		if err := sub.MarkPastDue(); err != nil {
			s.logger.Warn("could not mark subscription past due", zap.Error(err))
		}
	}

	if err := s.subscriptionRepo.Update(ctx, sub); err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}

	tenant, err := s.tenantRepo.FindByID(ctx, sub.TenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("invoice payment failed for unknown tenant", zap.String("tenant_id", sub.TenantID.String()))
			return nil
		}
		return fmt.Errorf("failed to get tenant: %w", err)
	}

	if !tenant.IsSuspended() {
		if err := tenant.Suspend(); err != nil {
			s.logger.Warn("could not suspend tenant", zap.Error(err))
		}
		if err := s.tenantRepo.Save(ctx, tenant); err != nil {
			return fmt.Errorf("failed to save tenant: %w", err)
		}
	}

	s.publishDomainEvents(ctx, sub)

	s.logger.Warn("invoice payment failed",
		zap.String("tenant_id", sub.TenantID.String()),
		zap.String("stripe_subscription_id", invoice.Subscription.ID))

	return nil
}

// newSubscriptionForPlan builds the local subscription created by a
// first checkout. Plans with a trial start trialing.
func (s *StripeWebhookService) newSubscriptionForPlan(ctx context.Context, tenantID uuid.UUID, planKey string) (*billing.Subscription, error) {
	plan, err := s.planRepo.FindByKey(ctx, planKey)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	if plan != nil && plan.HasTrial() {
		return billing.NewTrialSubscription(tenantID, planKey, plan.TrialDays)
	}
	return billing.NewSubscription(tenantID, planKey)
}

// findByStripeRefs locates the local subscription by Stripe
// subscription ID, falling back to the customer ID
func (s *StripeWebhookService) findByStripeRefs(ctx context.Context, subscriptionID, customerID string) (*billing.Subscription, error) {
	if subscriptionID != "" {
		sub, err := s.subscriptionRepo.FindByStripeSubscriptionID(ctx, subscriptionID)
		if err == nil {
			return sub, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("failed to get subscription: %w", err)
		}
	}

	if customerID != "" {
		sub, err := s.subscriptionRepo.FindByStripeCustomerID(ctx, customerID)
		if err == nil {
			return sub, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("failed to get subscription: %w", err)
		}
	}

	return nil, shared.ErrNotFound
}

// syncTenantPlan aligns the tenant record with the subscribed plan and
// lifts a suspension left from a past payment failure
func (s *StripeWebhookService) syncTenantPlan(ctx context.Context, tenant *identity.Tenant, planKey string) error {
	if string(tenant.Plan) != planKey {
		if err := tenant.SetPlan(identity.TenantPlan(planKey)); err != nil {
			s.logger.Warn("could not set tenant plan", zap.Error(err), zap.String("plan_key", planKey))
		}
	}

	if tenant.IsSuspended() {
		if err := tenant.Activate(); err != nil {
			s.logger.Warn("could not reactivate tenant", zap.Error(err))
		}
	}

	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return fmt.Errorf("failed to save tenant: %w", err)
	}

	return nil
}

func (s *StripeWebhookService) tenantIDFromSession(session stripe.CheckoutSession) (uuid.UUID, bool) {
	raw := session.Metadata["tenant_id"]
	if raw == "" {
		raw = session.ClientReferenceID
	}
	if raw == "" {
		return uuid.Nil, false
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func (s *StripeWebhookService) publishDomainEvents(ctx context.Context, sub *billing.Subscription) {
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
