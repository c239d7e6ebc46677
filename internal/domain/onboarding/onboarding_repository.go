package onboarding

import (
	"context"

	"github.com/google/uuid"
)

// OnboardingRepository defines the persistence interface for wizard
// state. One state row per tenant.
type OnboardingRepository interface {
	// Save creates or updates the wizard state
	Save(ctx context.Context, state *OnboardingState) error

	// FindByTenant retrieves the wizard state of a tenant
	FindByTenant(ctx context.Context, tenantID uuid.UUID) (*OnboardingState, error)

	// CountIncomplete counts tenants that have not finished the wizard
	CountIncomplete(ctx context.Context) (int64, error)
}
