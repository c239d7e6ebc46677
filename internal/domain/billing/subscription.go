package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// SubscriptionStatus represents the billing state of a tenant
// subscription. The values mirror Stripe's subscription statuses.
type SubscriptionStatus string

const (
	SubscriptionTrialing SubscriptionStatus = "trialing"
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

// IsValid checks if the status is a valid SubscriptionStatus
func (s SubscriptionStatus) IsValid() bool {
	switch s {
	case SubscriptionTrialing, SubscriptionActive, SubscriptionPastDue, SubscriptionCanceled:
		return true
	}
	return false
}

// String returns the string representation of SubscriptionStatus
func (s SubscriptionStatus) String() string {
	return string(s)
}

// Subscription tracks a tenant's plan, billing period and Stripe
// linkage. One subscription per tenant; re-subscribing after a full
// cancellation creates a new aggregate.
type Subscription struct {
	shared.TenantAggregateRoot
	PlanKey              string             `gorm:"type:varchar(20);not null"`
	Status               SubscriptionStatus `gorm:"type:varchar(20);not null;default:'trialing'"`
	CurrentPeriodStart   time.Time          `gorm:"not null"`
	CurrentPeriodEnd     time.Time          `gorm:"not null"`
	CancelAtPeriodEnd    bool               `gorm:"not null;default:false"`
	TrialEndsAt          *time.Time
	StripeCustomerID     string `gorm:"type:varchar(100);index"`
	StripeSubscriptionID string `gorm:"type:varchar(100);index"`
	CanceledAt           *time.Time
}

// TableName returns the table name for GORM
func (Subscription) TableName() string {
	return "subscriptions"
}

// NewSubscription creates an active subscription, used for the free
// plan where no payment precedes activation
func NewSubscription(tenantID uuid.UUID, planKey string) (*Subscription, error) {
	if !IsKnownPlanKey(planKey) {
		return nil, shared.NewDomainError("INVALID_PLAN_KEY", "Unknown plan key")
	}

	now := time.Now()
	sub := &Subscription{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		PlanKey:             planKey,
		Status:              SubscriptionActive,
		CurrentPeriodStart:  now,
		CurrentPeriodEnd:    now.AddDate(0, 1, 0),
	}

	sub.AddDomainEvent(NewSubscriptionStartedEvent(sub))

	return sub, nil
}

// NewTrialSubscription creates a trialing subscription for a paid plan
func NewTrialSubscription(tenantID uuid.UUID, planKey string, trialDays int) (*Subscription, error) {
	if !IsKnownPlanKey(planKey) {
		return nil, shared.NewDomainError("INVALID_PLAN_KEY", "Unknown plan key")
	}
	if trialDays <= 0 {
		return nil, shared.NewDomainError("INVALID_TRIAL", "Trial length must be positive")
	}

	now := time.Now()
	trialEnd := now.AddDate(0, 0, trialDays)
	sub := &Subscription{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		PlanKey:             planKey,
		Status:              SubscriptionTrialing,
		CurrentPeriodStart:  now,
		CurrentPeriodEnd:    trialEnd,
		TrialEndsAt:         &trialEnd,
	}

	sub.AddDomainEvent(NewSubscriptionStartedEvent(sub))

	return sub, nil
}

// AttachStripe links the subscription to its Stripe counterpart
func (s *Subscription) AttachStripe(customerID, subscriptionID string) error {
	if strings.TrimSpace(customerID) == "" {
		return shared.NewDomainError("INVALID_STRIPE_ID", "Stripe customer ID cannot be empty")
	}

	s.StripeCustomerID = customerID
	s.StripeSubscriptionID = subscriptionID
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// Activate moves the subscription to active and refreshes the billing
// period. Called when Stripe reports a successful payment; safe to call
// on an already active subscription to roll the period forward.
func (s *Subscription) Activate(periodStart, periodEnd time.Time) error {
	if s.Status == SubscriptionCanceled {
		return shared.NewDomainError("SUBSCRIPTION_CANCELED", "Cannot activate a canceled subscription")
	}
	if !periodEnd.After(periodStart) {
		return shared.NewDomainError("INVALID_PERIOD", "Period end must be after period start")
	}

	oldStatus := s.Status
	s.Status = SubscriptionActive
	s.CurrentPeriodStart = periodStart
	s.CurrentPeriodEnd = periodEnd
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	if oldStatus != SubscriptionActive {
		s.AddDomainEvent(NewSubscriptionStatusChangedEvent(s, oldStatus, SubscriptionActive))
	} else {
		s.AddDomainEvent(NewSubscriptionRenewedEvent(s))
	}

	return nil
}

// MarkPastDue flags the subscription after a failed payment
func (s *Subscription) MarkPastDue() error {
	if s.Status == SubscriptionPastDue {
		return shared.NewDomainError("ALREADY_PAST_DUE", "Subscription is already past due")
	}
	if s.Status == SubscriptionCanceled {
		return shared.NewDomainError("SUBSCRIPTION_CANCELED", fmt.Sprintf("Cannot mark a %s subscription past due", s.Status))
	}

	oldStatus := s.Status
	s.Status = SubscriptionPastDue
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewSubscriptionStatusChangedEvent(s, oldStatus, SubscriptionPastDue))

	return nil
}

// ScheduleCancel marks the subscription to end when the paid period
// runs out
func (s *Subscription) ScheduleCancel() error {
	if s.Status == SubscriptionCanceled {
		return shared.NewDomainError("SUBSCRIPTION_CANCELED", "Subscription is already canceled")
	}
	if s.CancelAtPeriodEnd {
		return shared.NewDomainError("ALREADY_SCHEDULED", "Subscription is already set to cancel at period end")
	}

	s.CancelAtPeriodEnd = true
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewSubscriptionCancelScheduledEvent(s))

	return nil
}

// ResumeAutoRenew clears a scheduled cancellation
func (s *Subscription) ResumeAutoRenew() error {
	if s.Status == SubscriptionCanceled {
		return shared.NewDomainError("SUBSCRIPTION_CANCELED", "Subscription is already canceled")
	}
	if !s.CancelAtPeriodEnd {
		return shared.NewDomainError("NOT_SCHEDULED", "Subscription is not set to cancel")
	}

	s.CancelAtPeriodEnd = false
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// Cancel ends the subscription now. The tenant falls back to the free
// plan through the webhook flow.
func (s *Subscription) Cancel() error {
	if s.Status == SubscriptionCanceled {
		return shared.NewDomainError("SUBSCRIPTION_CANCELED", "Subscription is already canceled")
	}

	now := time.Now()
	oldStatus := s.Status
	s.Status = SubscriptionCanceled
	s.CanceledAt = &now
	s.CancelAtPeriodEnd = false
	s.UpdatedAt = now
	s.IncrementVersion()

	s.AddDomainEvent(NewSubscriptionCanceledEvent(s, oldStatus))

	return nil
}

// ChangePlan moves the subscription to another plan
func (s *Subscription) ChangePlan(planKey string) error {
	if !IsKnownPlanKey(planKey) {
		return shared.NewDomainError("INVALID_PLAN_KEY", "Unknown plan key")
	}
	if s.Status == SubscriptionCanceled {
		return shared.NewDomainError("SUBSCRIPTION_CANCELED", "Cannot change plan of a canceled subscription")
	}
	if s.PlanKey == planKey {
		return shared.NewDomainError("SAME_PLAN", "Subscription is already on this plan")
	}

	oldPlan := s.PlanKey
	s.PlanKey = planKey
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewSubscriptionPlanChangedEvent(s, oldPlan, planKey))

	return nil
}

// IsActive returns true while the tenant is entitled to the plan
func (s *Subscription) IsActive() bool {
	return s.Status == SubscriptionActive || s.Status == SubscriptionTrialing
}

// IsCanceled returns true if the subscription ended
func (s *Subscription) IsCanceled() bool {
	return s.Status == SubscriptionCanceled
}

// InTrial returns true if the subscription is trialing at the given time
func (s *Subscription) InTrial(at time.Time) bool {
	return s.Status == SubscriptionTrialing && s.TrialEndsAt != nil && at.Before(*s.TrialEndsAt)
}

// DaysLeftInPeriod returns whole days until the period ends, zero when
// the period is over
func (s *Subscription) DaysLeftInPeriod(at time.Time) int {
	if !s.CurrentPeriodEnd.After(at) {
		return 0
	}
	return int(s.CurrentPeriodEnd.Sub(at).Hours() / 24)
}
