package onboarding

import (
	"context"
	"errors"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/onboarding"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OnboardingService drives the merchant setup wizard. State is created
// lazily on first read; the store and schedule steps check that the
// merchant actually did the work before completing.
type OnboardingService struct {
	onboardingRepo onboarding.OnboardingRepository
	storeRepo      store.StoreRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewOnboardingService creates a new onboarding service
func NewOnboardingService(
	onboardingRepo onboarding.OnboardingRepository,
	storeRepo store.StoreRepository,
	logger *zap.Logger,
) *OnboardingService {
	return &OnboardingService{
		onboardingRepo: onboardingRepo,
		storeRepo:      storeRepo,
		logger:         logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *OnboardingService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// GetState retrieves the wizard state, starting the wizard on first read
func (s *OnboardingService) GetState(ctx context.Context, tenantID uuid.UUID) (*StateResponse, error) {
	state, err := s.findOrStart(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	response := ToStateResponse(state)
	return &response, nil
}

// CompleteStep marks a wizard step as completed. Completing an already
// completed step is a no-op. The store step requires a store to exist
// and the schedule step requires saved opening hours.
func (s *OnboardingService) CompleteStep(ctx context.Context, tenantID uuid.UUID, step onboarding.WizardStep) (*StateResponse, error) {
	state, err := s.findOrStart(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if err := s.checkPrerequisites(ctx, tenantID, step); err != nil {
		return nil, err
	}

	if err := state.CompleteStep(step); err != nil {
		return nil, err
	}

	if err := s.onboardingRepo.Save(ctx, state); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, state)

	s.logger.Info("Onboarding step completed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("step", step.String()),
		zap.String("current_step", state.CurrentStep.String()))

	response := ToStateResponse(state)
	return &response, nil
}

// SkipStep marks an optional wizard step as skipped
func (s *OnboardingService) SkipStep(ctx context.Context, tenantID uuid.UUID, step onboarding.WizardStep) (*StateResponse, error) {
	state, err := s.findOrStart(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if err := state.SkipStep(step); err != nil {
		return nil, err
	}

	if err := s.onboardingRepo.Save(ctx, state); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, state)

	s.logger.Info("Onboarding step skipped",
		zap.String("tenant_id", tenantID.String()),
		zap.String("step", step.String()))

	response := ToStateResponse(state)
	return &response, nil
}

// checkPrerequisites verifies the merchant did the work a step claims
func (s *OnboardingService) checkPrerequisites(ctx context.Context, tenantID uuid.UUID, step onboarding.WizardStep) error {
	switch step {
	case onboarding.StepStore:
		count, err := s.storeRepo.Count(ctx, tenantID)
		if err != nil {
			return err
		}
		if count == 0 {
			return shared.NewDomainError("STORE_REQUIRED", "Create a store before completing this step")
		}

	case onboarding.StepSchedule:
		stores, err := s.storeRepo.FindAll(ctx, tenantID, nil)
		if err != nil {
			return err
		}
		for _, st := range stores {
			schedule, err := st.GetSchedule()
			if err != nil {
				continue
			}
			if schedule.HasAnyOpening() {
				return nil
			}
		}
		return shared.NewDomainError("SCHEDULE_REQUIRED", "Save the opening hours before completing this step")
	}

	return nil
}

// findOrStart loads the wizard state, creating and persisting it on
// first access
func (s *OnboardingService) findOrStart(ctx context.Context, tenantID uuid.UUID) (*onboarding.OnboardingState, error) {
	state, err := s.onboardingRepo.FindByTenant(ctx, tenantID)
	if err == nil {
		return state, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	state = onboarding.NewOnboardingState(tenantID)
	if err := s.onboardingRepo.Save(ctx, state); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, state)

	s.logger.Info("Onboarding started",
		zap.String("tenant_id", tenantID.String()))

	return state, nil
}

// publishDomainEvents publishes all domain events from the aggregate
func (s *OnboardingService) publishDomainEvents(ctx context.Context, state *onboarding.OnboardingState) {
	if s.eventPublisher == nil {
		return
	}

	events := state.GetDomainEvents()
	if len(events) == 0 {
		return
	}

	// Publish errors are logged by the event bus, not propagated
	_ = s.eventPublisher.Publish(ctx, events...)
	state.ClearDomainEvents()
}
