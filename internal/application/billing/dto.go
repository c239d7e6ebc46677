package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/billing"
)

// PlanDTO represents a subscription plan for API responses
type PlanDTO struct {
	Key          string          `json:"key"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	MonthlyPrice decimal.Decimal `json:"monthly_price"`
	MaxStores    int             `json:"max_stores"`
	MaxProducts  int             `json:"max_products"`
	MaxUsers     int             `json:"max_users"`
	TrialDays    int             `json:"trial_days"`
	IsFree       bool            `json:"is_free"`
}

// SubscriptionDTO represents the billing state of a tenant. ID is nil
// when the tenant has no subscription row and the DTO is derived from
// the tenant's plan alone.
type SubscriptionDTO struct {
	ID                 *uuid.UUID      `json:"id,omitempty"`
	TenantID           uuid.UUID       `json:"tenant_id"`
	PlanKey            string          `json:"plan_key"`
	PlanName           string          `json:"plan_name"`
	MonthlyPrice       decimal.Decimal `json:"monthly_price"`
	Status             string          `json:"status"`
	CurrentPeriodStart *time.Time      `json:"current_period_start,omitempty"`
	CurrentPeriodEnd   *time.Time      `json:"current_period_end,omitempty"`
	CancelAtPeriodEnd  bool            `json:"cancel_at_period_end"`
	TrialEndsAt        *time.Time      `json:"trial_ends_at,omitempty"`
	DaysLeftInPeriod   int             `json:"days_left_in_period"`
}

// CheckoutSessionDTO carries the Stripe Checkout redirect for a new
// paid subscription
type CheckoutSessionDTO struct {
	SessionID   string `json:"session_id"`
	CheckoutURL string `json:"checkout_url"`
}

// StartCheckoutInput requests a Stripe Checkout session for a plan
type StartCheckoutInput struct {
	PlanKey string `json:"plan_key" binding:"required"`
}

// PortalSessionDTO carries the Stripe billing portal redirect
type PortalSessionDTO struct {
	PortalURL string `json:"portal_url"`
}

// WebhookResult contains the result of processing a Stripe webhook
type WebhookResult struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Processed bool   `json:"processed"`
	Message   string `json:"message,omitempty"`
}

// UsageItemDTO reports consumption of one plan-limited resource.
// Limit -1 means unlimited; Remaining is -1 in that case.
type UsageItemDTO struct {
	Resource  string `json:"resource"`
	Used      int64  `json:"used"`
	Limit     int    `json:"limit"`
	Remaining int64  `json:"remaining"`
}

// UsageSummaryDTO reports a tenant's consumption against its plan
type UsageSummaryDTO struct {
	TenantID uuid.UUID      `json:"tenant_id"`
	PlanKey  string         `json:"plan_key"`
	PlanName string         `json:"plan_name"`
	Items    []UsageItemDTO `json:"items"`
}

func toPlanDTO(p *billing.Plan) *PlanDTO {
	return &PlanDTO{
		Key:          p.Key,
		Name:         p.Name,
		Description:  p.Description,
		MonthlyPrice: p.MonthlyPrice,
		MaxStores:    p.MaxStores,
		MaxProducts:  p.MaxProducts,
		MaxUsers:     p.MaxUsers,
		TrialDays:    p.TrialDays,
		IsFree:       p.IsFree(),
	}
}

func toSubscriptionDTO(sub *billing.Subscription, plan *billing.Plan) *SubscriptionDTO {
	id := sub.ID
	periodStart := sub.CurrentPeriodStart
	periodEnd := sub.CurrentPeriodEnd

	dto := &SubscriptionDTO{
		ID:                 &id,
		TenantID:           sub.TenantID,
		PlanKey:            sub.PlanKey,
		Status:             sub.Status.String(),
		CurrentPeriodStart: &periodStart,
		CurrentPeriodEnd:   &periodEnd,
		CancelAtPeriodEnd:  sub.CancelAtPeriodEnd,
		TrialEndsAt:        sub.TrialEndsAt,
		DaysLeftInPeriod:   sub.DaysLeftInPeriod(time.Now()),
	}

	if plan != nil {
		dto.PlanName = plan.Name
		dto.MonthlyPrice = plan.MonthlyPrice
	}

	return dto
}
