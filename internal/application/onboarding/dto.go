package onboarding

import (
	"time"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/onboarding"
)

// StepResponse represents one wizard step and its progress
type StepResponse struct {
	Step      string `json:"step"`
	Completed bool   `json:"completed"`
	Skipped   bool   `json:"skipped"`
	Skippable bool   `json:"skippable"`
}

// StateResponse represents the wizard state in API responses
type StateResponse struct {
	CurrentStep string         `json:"current_step"`
	Steps       []StepResponse `json:"steps"`
	Progress    float64        `json:"progress"`
	IsComplete  bool           `json:"is_complete"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
}

// ToStateResponse converts a domain OnboardingState to StateResponse
func ToStateResponse(state *onboarding.OnboardingState) StateResponse {
	steps := make([]StepResponse, 0, len(onboarding.StepOrder()))
	for _, step := range onboarding.StepOrder() {
		steps = append(steps, StepResponse{
			Step:      step.String(),
			Completed: state.IsStepCompleted(step),
			Skipped:   state.IsStepSkipped(step),
			Skippable: step.IsSkippable(),
		})
	}

	return StateResponse{
		CurrentStep: state.CurrentStep.String(),
		Steps:       steps,
		Progress:    state.Progress(),
		IsComplete:  state.IsComplete(),
		CompletedAt: state.CompletedAt,
	}
}
