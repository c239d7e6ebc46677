package billing

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v81"
	portalsession "github.com/stripe/stripe-go/v81/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v81/checkout/session"
	"github.com/stripe/stripe-go/v81/customer"
	"github.com/stripe/stripe-go/v81/subscription"
	"go.uber.org/zap"
)

// StripeGateway implements the Stripe calls behind subscription
// management: customers, Checkout sessions, auto-renewal flips and
// billing portal sessions. Subscription state flows back through
// webhooks, not through return values here.
type StripeGateway struct {
	config *StripeConfig
	logger *zap.Logger
}

// NewStripeGateway creates a new Stripe gateway
func NewStripeGateway(config *StripeConfig, logger *zap.Logger) (*StripeGateway, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.InitStripeClient()

	return &StripeGateway{
		config: config,
		logger: logger,
	}, nil
}

// CreateCustomer creates a Stripe customer for a tenant and returns
// its ID
func (g *StripeGateway) CreateCustomer(ctx context.Context, input CreateCustomerInput) (string, error) {
	g.logger.Debug("Creating Stripe customer",
		zap.String("tenant_id", input.TenantID.String()),
		zap.String("email", input.Email))

	params := &stripe.CustomerParams{
		Name: stripe.String(input.Name),
	}
	if input.Email != "" {
		params.Email = stripe.String(input.Email)
	}
	params.Metadata = map[string]string{
		"tenant_id": input.TenantID.String(),
	}

	cust, err := customer.New(params)
	if err != nil {
		g.logger.Error("Failed to create Stripe customer",
			zap.String("tenant_id", input.TenantID.String()),
			zap.Error(err))
		return "", fmt.Errorf("stripe: failed to create customer: %w", err)
	}

	g.logger.Info("Created Stripe customer",
		zap.String("tenant_id", input.TenantID.String()),
		zap.String("customer_id", cust.ID))

	return cust.ID, nil
}

// CreateCheckoutSession starts a subscription-mode Checkout session.
// Tenant and plan ride along as metadata on both the session and the
// subscription it creates, so webhook handlers can resolve them.
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, input CheckoutSessionInput) (*CheckoutSessionOutput, error) {
	g.logger.Debug("Creating Stripe checkout session",
		zap.String("tenant_id", input.TenantID.String()),
		zap.String("plan_key", input.PlanKey),
		zap.String("price_id", input.PriceID))

	metadata := map[string]string{
		"tenant_id": input.TenantID.String(),
		"plan_key":  input.PlanKey,
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(input.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(g.config.SuccessURL),
		CancelURL:         stripe.String(g.config.CancelURL),
		ClientReferenceID: stripe.String(input.TenantID.String()),
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: metadata,
		},
	}
	params.Metadata = metadata

	if input.CustomerID != "" {
		params.Customer = stripe.String(input.CustomerID)
	}
	if input.TrialDays > 0 {
		params.SubscriptionData.TrialPeriodDays = stripe.Int64(int64(input.TrialDays))
	}

	sess, err := checkoutsession.New(params)
	if err != nil {
		g.logger.Error("Failed to create Stripe checkout session",
			zap.String("tenant_id", input.TenantID.String()),
			zap.String("plan_key", input.PlanKey),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to create checkout session: %w", err)
	}

	g.logger.Info("Created Stripe checkout session",
		zap.String("tenant_id", input.TenantID.String()),
		zap.String("session_id", sess.ID))

	return &CheckoutSessionOutput{
		SessionID: sess.ID,
		URL:       sess.URL,
	}, nil
}

// SetCancelAtPeriodEnd flips auto-renewal on a Stripe subscription
func (g *StripeGateway) SetCancelAtPeriodEnd(ctx context.Context, stripeSubscriptionID string, cancel bool) error {
	g.logger.Debug("Updating Stripe subscription auto-renewal",
		zap.String("subscription_id", stripeSubscriptionID),
		zap.Bool("cancel_at_period_end", cancel))

	params := &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(cancel),
	}

	sub, err := subscription.Update(stripeSubscriptionID, params)
	if err != nil {
		g.logger.Error("Failed to update Stripe subscription",
			zap.String("subscription_id", stripeSubscriptionID),
			zap.Error(err))
		return fmt.Errorf("stripe: failed to update subscription: %w", err)
	}

	g.logger.Info("Updated Stripe subscription auto-renewal",
		zap.String("subscription_id", sub.ID),
		zap.Bool("cancel_at_period_end", sub.CancelAtPeriodEnd))

	return nil
}

// CreateBillingPortalSession opens a Stripe billing portal session for
// a customer and returns its URL
func (g *StripeGateway) CreateBillingPortalSession(ctx context.Context, customerID string) (string, error) {
	g.logger.Debug("Creating Stripe billing portal session",
		zap.String("customer_id", customerID))

	params := &stripe.BillingPortalSessionParams{
		Customer: stripe.String(customerID),
	}
	if g.config.BillingPortalReturnURL != "" {
		params.ReturnURL = stripe.String(g.config.BillingPortalReturnURL)
	}

	sess, err := portalsession.New(params)
	if err != nil {
		g.logger.Error("Failed to create Stripe billing portal session",
			zap.String("customer_id", customerID),
			zap.Error(err))
		return "", fmt.Errorf("stripe: failed to create billing portal session: %w", err)
	}

	return sess.URL, nil
}
