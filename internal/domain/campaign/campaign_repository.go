package campaign

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CampaignFilter defines filtering options for campaign queries
type CampaignFilter struct {
	Keyword  string
	Status   *CampaignStatus
	Kind     *DiscountKind
	Page     int
	PageSize int
}

// NewCampaignFilter creates a filter with default pagination
func NewCampaignFilter() CampaignFilter {
	return CampaignFilter{
		Page:     1,
		PageSize: 20,
	}
}

// WithKeyword filters by name or coupon code
func (f CampaignFilter) WithKeyword(keyword string) CampaignFilter {
	f.Keyword = keyword
	return f
}

// WithStatus filters by status
func (f CampaignFilter) WithStatus(status CampaignStatus) CampaignFilter {
	f.Status = &status
	return f
}

// WithKind filters by discount kind
func (f CampaignFilter) WithKind(kind DiscountKind) CampaignFilter {
	f.Kind = &kind
	return f
}

// WithPagination sets pagination parameters
func (f CampaignFilter) WithPagination(page, pageSize int) CampaignFilter {
	f.Page = page
	f.PageSize = pageSize
	return f
}

// Offset returns the query offset
func (f CampaignFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.Limit()
}

// Limit returns the query limit
func (f CampaignFilter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}

// CampaignRepository defines the interface for campaign persistence
type CampaignRepository interface {
	// Create creates a new campaign
	Create(ctx context.Context, campaign *Campaign) error

	// Update updates an existing campaign
	Update(ctx context.Context, campaign *Campaign) error

	// Delete deletes a campaign by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a campaign by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Campaign, error)

	// FindByIDForTenant finds a campaign scoped to a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Campaign, error)

	// FindAll finds campaigns of a tenant with filtering and the total count
	FindAll(ctx context.Context, tenantID uuid.UUID, filter CampaignFilter) ([]*Campaign, int64, error)

	// FindRunningAt finds active campaigns whose window covers the instant
	FindRunningAt(ctx context.Context, tenantID uuid.UUID, at time.Time) ([]*Campaign, error)

	// FindByCoupon finds a campaign by its coupon code, case-insensitive
	FindByCoupon(ctx context.Context, tenantID uuid.UUID, code string) (*Campaign, error)

	// ExistsByCoupon checks whether another campaign already uses the coupon
	ExistsByCoupon(ctx context.Context, tenantID uuid.UUID, code string, excludeID uuid.UUID) (bool, error)

	// CountActive counts active campaigns of a tenant, used for plan limits
	CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error)

	// ExpireOverdue flips active or paused campaigns past their end to
	// expired and returns how many rows changed
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}
