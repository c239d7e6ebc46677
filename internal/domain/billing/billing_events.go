package billing

import (
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
)

// Aggregate type for subscription events
const AggregateTypeSubscription = "subscription"

// Event types for subscription aggregate
const (
	EventTypeSubscriptionStarted         = "subscription.started"
	EventTypeSubscriptionRenewed         = "subscription.renewed"
	EventTypeSubscriptionStatusChanged   = "subscription.status_changed"
	EventTypeSubscriptionPlanChanged     = "subscription.plan_changed"
	EventTypeSubscriptionCancelScheduled = "subscription.cancel_scheduled"
	EventTypeSubscriptionCanceled        = "subscription.canceled"
)

// SubscriptionStartedEvent represents a tenant starting a subscription
type SubscriptionStartedEvent struct {
	shared.BaseDomainEvent
	PlanKey string             `json:"plan_key"`
	Status  SubscriptionStatus `json:"status"`
}

// NewSubscriptionStartedEvent creates a new subscription started event
func NewSubscriptionStartedEvent(sub *Subscription) *SubscriptionStartedEvent {
	return &SubscriptionStartedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSubscriptionStarted, AggregateTypeSubscription, sub.ID, sub.TenantID),
		PlanKey:         sub.PlanKey,
		Status:          sub.Status,
	}
}

// SubscriptionRenewedEvent represents a billing period rolling forward
type SubscriptionRenewedEvent struct {
	shared.BaseDomainEvent
	PlanKey     string `json:"plan_key"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
}

// NewSubscriptionRenewedEvent creates a new subscription renewed event
func NewSubscriptionRenewedEvent(sub *Subscription) *SubscriptionRenewedEvent {
	return &SubscriptionRenewedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSubscriptionRenewed, AggregateTypeSubscription, sub.ID, sub.TenantID),
		PlanKey:         sub.PlanKey,
		PeriodStart:     sub.CurrentPeriodStart.Format("2006-01-02"),
		PeriodEnd:       sub.CurrentPeriodEnd.Format("2006-01-02"),
	}
}

// SubscriptionStatusChangedEvent represents a subscription status change
type SubscriptionStatusChangedEvent struct {
	shared.BaseDomainEvent
	PlanKey   string             `json:"plan_key"`
	OldStatus SubscriptionStatus `json:"old_status"`
	NewStatus SubscriptionStatus `json:"new_status"`
}

// NewSubscriptionStatusChangedEvent creates a new status changed event
func NewSubscriptionStatusChangedEvent(sub *Subscription, oldStatus, newStatus SubscriptionStatus) *SubscriptionStatusChangedEvent {
	return &SubscriptionStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSubscriptionStatusChanged, AggregateTypeSubscription, sub.ID, sub.TenantID),
		PlanKey:         sub.PlanKey,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// SubscriptionPlanChangedEvent represents a plan upgrade or downgrade
type SubscriptionPlanChangedEvent struct {
	shared.BaseDomainEvent
	OldPlanKey string `json:"old_plan_key"`
	NewPlanKey string `json:"new_plan_key"`
}

// NewSubscriptionPlanChangedEvent creates a new plan changed event
func NewSubscriptionPlanChangedEvent(sub *Subscription, oldPlan, newPlan string) *SubscriptionPlanChangedEvent {
	return &SubscriptionPlanChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSubscriptionPlanChanged, AggregateTypeSubscription, sub.ID, sub.TenantID),
		OldPlanKey:      oldPlan,
		NewPlanKey:      newPlan,
	}
}

// SubscriptionCancelScheduledEvent represents a cancellation scheduled
// for the period end
type SubscriptionCancelScheduledEvent struct {
	shared.BaseDomainEvent
	PlanKey   string `json:"plan_key"`
	PeriodEnd string `json:"period_end"`
}

// NewSubscriptionCancelScheduledEvent creates a new cancel scheduled event
func NewSubscriptionCancelScheduledEvent(sub *Subscription) *SubscriptionCancelScheduledEvent {
	return &SubscriptionCancelScheduledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSubscriptionCancelScheduled, AggregateTypeSubscription, sub.ID, sub.TenantID),
		PlanKey:         sub.PlanKey,
		PeriodEnd:       sub.CurrentPeriodEnd.Format("2006-01-02"),
	}
}

// SubscriptionCanceledEvent represents a subscription ending
type SubscriptionCanceledEvent struct {
	shared.BaseDomainEvent
	PlanKey   string             `json:"plan_key"`
	OldStatus SubscriptionStatus `json:"old_status"`
}

// NewSubscriptionCanceledEvent creates a new subscription canceled event
func NewSubscriptionCanceledEvent(sub *Subscription, oldStatus SubscriptionStatus) *SubscriptionCanceledEvent {
	return &SubscriptionCanceledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSubscriptionCanceled, AggregateTypeSubscription, sub.ID, sub.TenantID),
		PlanKey:         sub.PlanKey,
		OldStatus:       oldStatus,
	}
}
