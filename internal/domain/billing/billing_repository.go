package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PlanRepository defines the persistence interface for the plan catalog
type PlanRepository interface {
	// Save creates or updates a plan by its key
	Save(ctx context.Context, plan *Plan) error

	// FindByKey retrieves a plan by its key
	FindByKey(ctx context.Context, key string) (*Plan, error)

	// FindAll retrieves every plan ordered by sort order
	FindAll(ctx context.Context) ([]*Plan, error)

	// FindActive retrieves plans open for new subscriptions
	FindActive(ctx context.Context) ([]*Plan, error)

	// SeedDefaults inserts the default plan catalog for keys not yet
	// present
	SeedDefaults(ctx context.Context) error
}

// SubscriptionRepository defines the persistence interface for
// subscriptions
type SubscriptionRepository interface {
	// Create persists a new subscription
	Create(ctx context.Context, sub *Subscription) error

	// Update persists changes to an existing subscription
	Update(ctx context.Context, sub *Subscription) error

	// FindByID retrieves a subscription by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Subscription, error)

	// FindByTenant retrieves the current subscription of a tenant,
	// ignoring canceled ones
	FindByTenant(ctx context.Context, tenantID uuid.UUID) (*Subscription, error)

	// FindByStripeSubscriptionID retrieves a subscription by its Stripe
	// subscription ID
	FindByStripeSubscriptionID(ctx context.Context, stripeID string) (*Subscription, error)

	// FindByStripeCustomerID retrieves a subscription by its Stripe
	// customer ID
	FindByStripeCustomerID(ctx context.Context, customerID string) (*Subscription, error)

	// FindTrialsEndingBefore retrieves trialing subscriptions whose
	// trial ends before the given time
	FindTrialsEndingBefore(ctx context.Context, deadline time.Time) ([]*Subscription, error)

	// CountByStatus counts subscriptions per status
	CountByStatus(ctx context.Context, status SubscriptionStatus) (int64, error)
}
