package billing

import (
	"github.com/google/uuid"
)

// CreateCustomerInput holds the tenant fields sent to Stripe when a
// customer is created
type CreateCustomerInput struct {
	TenantID uuid.UUID
	Name     string
	Email    string
}

// CheckoutSessionInput describes the Checkout session to create for a
// plan subscription
type CheckoutSessionInput struct {
	TenantID   uuid.UUID
	CustomerID string
	PlanKey    string
	PriceID    string
	TrialDays  int
}

// CheckoutSessionOutput carries the created Checkout session redirect
type CheckoutSessionOutput struct {
	SessionID string
	URL       string
}
