package onboarding

import (
	"encoding/json"
	"time"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// WizardStep names one step of the merchant setup wizard
type WizardStep string

const (
	StepProfile     WizardStep = "profile"      // Business name, contact, document
	StepStore       WizardStep = "store"        // First store created
	StepSchedule    WizardStep = "schedule"     // Opening hours saved
	StepCatalogSeed WizardStep = "catalog_seed" // First category and product
	StepPayment     WizardStep = "payment"      // Accepted payment methods
	StepDone        WizardStep = "done"         // Terminal marker
)

// StepOrder returns the wizard steps in completion order, the terminal
// marker excluded
func StepOrder() []WizardStep {
	return []WizardStep{StepProfile, StepStore, StepSchedule, StepCatalogSeed, StepPayment}
}

// IsValid checks if the step is a completable wizard step
func (s WizardStep) IsValid() bool {
	switch s {
	case StepProfile, StepStore, StepSchedule, StepCatalogSeed, StepPayment:
		return true
	}
	return false
}

// IsSkippable reports whether the merchant may skip the step. Profile,
// store and schedule are required for the storefront to work.
func (s WizardStep) IsSkippable() bool {
	return s == StepCatalogSeed || s == StepPayment
}

// String returns the string representation of WizardStep
func (s WizardStep) String() string {
	return string(s)
}

// OnboardingState tracks a tenant's progress through the setup wizard.
// Steps complete idempotently; once every step is completed or skipped
// the wizard closes itself.
type OnboardingState struct {
	shared.TenantAggregateRoot
	CurrentStep    WizardStep     `gorm:"type:varchar(20);not null;default:'profile'"`
	CompletedSteps datatypes.JSON `gorm:"type:jsonb"` // []WizardStep
	SkippedSteps   datatypes.JSON `gorm:"type:jsonb"` // []WizardStep
	CompletedAt    *time.Time

	completed []WizardStep `gorm:"-"`
	skipped   []WizardStep `gorm:"-"`
}

// TableName returns the table name for GORM
func (OnboardingState) TableName() string {
	return "onboarding_states"
}

// NewOnboardingState starts the wizard for a tenant
func NewOnboardingState(tenantID uuid.UUID) *OnboardingState {
	state := &OnboardingState{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CurrentStep:         StepProfile,
	}

	state.AddDomainEvent(NewOnboardingStartedEvent(state))

	return state
}

// CompleteStep marks a step as completed. Completing a step that is
// already completed is a no-op.
func (s *OnboardingState) CompleteStep(step WizardStep) error {
	if !step.IsValid() {
		return shared.NewDomainError("INVALID_STEP", "Unknown wizard step")
	}
	if s.IsComplete() {
		return shared.NewDomainError("ALREADY_DONE", "Onboarding is already complete")
	}

	completed, err := s.GetCompletedSteps()
	if err != nil {
		return err
	}
	if containsStep(completed, step) {
		return nil
	}

	if err := s.setCompleted(append(completed, step)); err != nil {
		return err
	}

	skipped, err := s.GetSkippedSteps()
	if err != nil {
		return err
	}
	if containsStep(skipped, step) {
		if err := s.setSkipped(removeStep(skipped, step)); err != nil {
			return err
		}
	}

	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	s.AddDomainEvent(NewOnboardingStepCompletedEvent(s, step))
	s.advance()

	return nil
}

// SkipStep marks an optional step as skipped
func (s *OnboardingState) SkipStep(step WizardStep) error {
	if !step.IsValid() {
		return shared.NewDomainError("INVALID_STEP", "Unknown wizard step")
	}
	if !step.IsSkippable() {
		return shared.NewDomainError("STEP_REQUIRED", "This step cannot be skipped")
	}
	if s.IsComplete() {
		return shared.NewDomainError("ALREADY_DONE", "Onboarding is already complete")
	}

	completed, err := s.GetCompletedSteps()
	if err != nil {
		return err
	}
	if containsStep(completed, step) {
		return shared.NewDomainError("STEP_COMPLETED", "Cannot skip a completed step")
	}

	skipped, err := s.GetSkippedSteps()
	if err != nil {
		return err
	}
	if containsStep(skipped, step) {
		return nil
	}

	if err := s.setSkipped(append(skipped, step)); err != nil {
		return err
	}

	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	s.advance()

	return nil
}

// advance recomputes the current step and closes the wizard when no
// step remains
func (s *OnboardingState) advance() {
	completed, _ := s.GetCompletedSteps()
	skipped, _ := s.GetSkippedSteps()

	for _, step := range StepOrder() {
		if !containsStep(completed, step) && !containsStep(skipped, step) {
			s.CurrentStep = step
			return
		}
	}

	now := time.Now()
	s.CurrentStep = StepDone
	s.CompletedAt = &now
	s.AddDomainEvent(NewOnboardingCompletedEvent(s))
}

// IsComplete returns true once the wizard closed
func (s *OnboardingState) IsComplete() bool {
	return s.CurrentStep == StepDone
}

// IsStepCompleted reports whether a step was completed
func (s *OnboardingState) IsStepCompleted(step WizardStep) bool {
	completed, err := s.GetCompletedSteps()
	if err != nil {
		return false
	}
	return containsStep(completed, step)
}

// IsStepSkipped reports whether a step was skipped
func (s *OnboardingState) IsStepSkipped(step WizardStep) bool {
	skipped, err := s.GetSkippedSteps()
	if err != nil {
		return false
	}
	return containsStep(skipped, step)
}

// Progress returns completed plus skipped steps over the step total
func (s *OnboardingState) Progress() float64 {
	completed, _ := s.GetCompletedSteps()
	skipped, _ := s.GetSkippedSteps()
	total := len(StepOrder())
	if total == 0 {
		return 0
	}
	return float64(len(completed)+len(skipped)) / float64(total)
}

// GetCompletedSteps decodes and returns the completed steps
func (s *OnboardingState) GetCompletedSteps() ([]WizardStep, error) {
	if s.completed != nil {
		return s.completed, nil
	}
	steps := make([]WizardStep, 0)
	if len(s.CompletedSteps) > 0 {
		if err := json.Unmarshal(s.CompletedSteps, &steps); err != nil {
			return nil, shared.NewDomainError("INVALID_STEP", "Could not decode completed steps")
		}
	}
	s.completed = steps
	return steps, nil
}

// GetSkippedSteps decodes and returns the skipped steps
func (s *OnboardingState) GetSkippedSteps() ([]WizardStep, error) {
	if s.skipped != nil {
		return s.skipped, nil
	}
	steps := make([]WizardStep, 0)
	if len(s.SkippedSteps) > 0 {
		if err := json.Unmarshal(s.SkippedSteps, &steps); err != nil {
			return nil, shared.NewDomainError("INVALID_STEP", "Could not decode skipped steps")
		}
	}
	s.skipped = steps
	return steps, nil
}

func (s *OnboardingState) setCompleted(steps []WizardStep) error {
	data, err := json.Marshal(steps)
	if err != nil {
		return shared.NewDomainError("INVALID_STEP", "Could not encode completed steps")
	}
	s.CompletedSteps = data
	s.completed = steps
	return nil
}

func (s *OnboardingState) setSkipped(steps []WizardStep) error {
	data, err := json.Marshal(steps)
	if err != nil {
		return shared.NewDomainError("INVALID_STEP", "Could not encode skipped steps")
	}
	s.SkippedSteps = data
	s.skipped = steps
	return nil
}

func containsStep(steps []WizardStep, step WizardStep) bool {
	for _, s := range steps {
		if s == step {
			return true
		}
	}
	return false
}

func removeStep(steps []WizardStep, step WizardStep) []WizardStep {
	out := make([]WizardStep, 0, len(steps))
	for _, s := range steps {
		if s != step {
			out = append(out, s)
		}
	}
	return out
}
