package onboarding

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOnboardingState(t *testing.T) {
	t.Run("starts at the profile step", func(t *testing.T) {
		tenantID := uuid.New()

		state := NewOnboardingState(tenantID)

		assert.Equal(t, tenantID, state.TenantID)
		assert.Equal(t, StepProfile, state.CurrentStep)
		assert.False(t, state.IsComplete())
		assert.Equal(t, 0.0, state.Progress())

		events := state.GetDomainEvents()
		require.Len(t, events, 1)
		_, ok := events[0].(*OnboardingStartedEvent)
		assert.True(t, ok)
	})
}

func TestOnboardingCompleteStep(t *testing.T) {
	t.Run("completes steps and advances", func(t *testing.T) {
		state := NewOnboardingState(uuid.New())
		state.ClearDomainEvents()

		require.NoError(t, state.CompleteStep(StepProfile))

		assert.True(t, state.IsStepCompleted(StepProfile))
		assert.Equal(t, StepStore, state.CurrentStep)
		assert.InDelta(t, 0.2, state.Progress(), 0.001)

		events := state.GetDomainEvents()
		require.Len(t, events, 1)
		completed, ok := events[0].(*OnboardingStepCompletedEvent)
		require.True(t, ok)
		assert.Equal(t, StepProfile, completed.Step)
	})

	t.Run("is idempotent", func(t *testing.T) {
		state := NewOnboardingState(uuid.New())
		require.NoError(t, state.CompleteStep(StepProfile))
		versionAfterFirst := state.Version
		state.ClearDomainEvents()

		require.NoError(t, state.CompleteStep(StepProfile))

		assert.Equal(t, versionAfterFirst, state.Version)
		assert.Empty(t, state.GetDomainEvents())
	})

	t.Run("completes out of order", func(t *testing.T) {
		state := NewOnboardingState(uuid.New())

		require.NoError(t, state.CompleteStep(StepSchedule))

		assert.True(t, state.IsStepCompleted(StepSchedule))
		assert.Equal(t, StepProfile, state.CurrentStep)
	})

	t.Run("fails with unknown step", func(t *testing.T) {
		state := NewOnboardingState(uuid.New())

		err := state.CompleteStep(WizardStep("billing"))

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Unknown wizard step")
	})

	t.Run("closes the wizard after the last step", func(t *testing.T) {
		state := NewOnboardingState(uuid.New())
		state.ClearDomainEvents()

		for _, step := range StepOrder() {
			require.NoError(t, state.CompleteStep(step))
		}

		assert.True(t, state.IsComplete())
		assert.Equal(t, StepDone, state.CurrentStep)
		assert.NotNil(t, state.CompletedAt)
		assert.Equal(t, 1.0, state.Progress())

		events := state.GetDomainEvents()
		require.Len(t, events, 6)
		_, ok := events[5].(*OnboardingCompletedEvent)
		assert.True(t, ok)

		err := state.CompleteStep(StepProfile)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Onboarding is already complete")
	})
}

func TestOnboardingSkipStep(t *testing.T) {
	t.Run("skips optional steps", func(t *testing.T) {
		state := NewOnboardingState(uuid.New())

		require.NoError(t, state.SkipStep(StepCatalogSeed))

		assert.True(t, state.IsStepSkipped(StepCatalogSeed))
		assert.False(t, state.IsStepCompleted(StepCatalogSeed))
	})

	t.Run("refuses to skip required steps", func(t *testing.T) {
		state := NewOnboardingState(uuid.New())

		for _, step := range []WizardStep{StepProfile, StepStore, StepSchedule} {
			err := state.SkipStep(step)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "This step cannot be skipped")
		}
	})

	t.Run("refuses to skip a completed step", func(t *testing.T) {
		state := NewOnboardingState(uuid.New())
		require.NoError(t, state.CompleteStep(StepPayment))

		err := state.SkipStep(StepPayment)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Cannot skip a completed step")
	})

	t.Run("completing a skipped step upgrades it", func(t *testing.T) {
		state := NewOnboardingState(uuid.New())
		require.NoError(t, state.SkipStep(StepCatalogSeed))

		require.NoError(t, state.CompleteStep(StepCatalogSeed))

		assert.True(t, state.IsStepCompleted(StepCatalogSeed))
		assert.False(t, state.IsStepSkipped(StepCatalogSeed))
	})

	t.Run("skipped steps count toward closing the wizard", func(t *testing.T) {
		state := NewOnboardingState(uuid.New())

		require.NoError(t, state.CompleteStep(StepProfile))
		require.NoError(t, state.CompleteStep(StepStore))
		require.NoError(t, state.CompleteStep(StepSchedule))
		require.NoError(t, state.SkipStep(StepCatalogSeed))
		require.NoError(t, state.SkipStep(StepPayment))

		assert.True(t, state.IsComplete())
		assert.Equal(t, 1.0, state.Progress())
	})
}

func TestOnboardingStateReload(t *testing.T) {
	t.Run("decodes steps from the stored columns", func(t *testing.T) {
		state := NewOnboardingState(uuid.New())
		require.NoError(t, state.CompleteStep(StepProfile))
		require.NoError(t, state.SkipStep(StepCatalogSeed))

		reloaded := OnboardingState{
			CurrentStep:    state.CurrentStep,
			CompletedSteps: state.CompletedSteps,
			SkippedSteps:   state.SkippedSteps,
		}

		assert.True(t, reloaded.IsStepCompleted(StepProfile))
		assert.True(t, reloaded.IsStepSkipped(StepCatalogSeed))
		assert.Equal(t, StepStore, reloaded.CurrentStep)
	})
}
