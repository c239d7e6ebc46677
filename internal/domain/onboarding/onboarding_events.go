package onboarding

import (
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
)

// Aggregate type for onboarding events
const AggregateTypeOnboarding = "onboarding"

// Event types for onboarding aggregate
const (
	EventTypeOnboardingStarted       = "onboarding.started"
	EventTypeOnboardingStepCompleted = "onboarding.step_completed"
	EventTypeOnboardingCompleted     = "onboarding.completed"
)

// OnboardingStartedEvent represents a tenant entering the wizard
type OnboardingStartedEvent struct {
	shared.BaseDomainEvent
}

// NewOnboardingStartedEvent creates a new onboarding started event
func NewOnboardingStartedEvent(state *OnboardingState) *OnboardingStartedEvent {
	return &OnboardingStartedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOnboardingStarted, AggregateTypeOnboarding, state.ID, state.TenantID),
	}
}

// OnboardingStepCompletedEvent represents one wizard step finishing
type OnboardingStepCompletedEvent struct {
	shared.BaseDomainEvent
	Step WizardStep `json:"step"`
}

// NewOnboardingStepCompletedEvent creates a new step completed event
func NewOnboardingStepCompletedEvent(state *OnboardingState, step WizardStep) *OnboardingStepCompletedEvent {
	return &OnboardingStepCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOnboardingStepCompleted, AggregateTypeOnboarding, state.ID, state.TenantID),
		Step:            step,
	}
}

// OnboardingCompletedEvent represents the wizard closing
type OnboardingCompletedEvent struct {
	shared.BaseDomainEvent
}

// NewOnboardingCompletedEvent creates a new onboarding completed event
func NewOnboardingCompletedEvent(state *OnboardingState) *OnboardingCompletedEvent {
	return &OnboardingCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOnboardingCompleted, AggregateTypeOnboarding, state.ID, state.TenantID),
	}
}
