package handler

import (
	"github.com/gin-gonic/gin"

	onboardingapp "github.com/Rokin-Inteligencia/roksell-sub000/internal/application/onboarding"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/onboarding"
)

// OnboardingHandler handles the merchant setup wizard endpoints
type OnboardingHandler struct {
	BaseHandler
	onboardingService *onboardingapp.OnboardingService
}

// NewOnboardingHandler creates a new OnboardingHandler
func NewOnboardingHandler(onboardingService *onboardingapp.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{onboardingService: onboardingService}
}

func (h *OnboardingHandler) stepFromPath(c *gin.Context) (onboarding.WizardStep, bool) {
	step := onboarding.WizardStep(c.Param("step"))
	if !step.IsValid() {
		h.BadRequest(c, "Etapa inválida")
		return "", false
	}
	return step, true
}

// GetState godoc
// @Summary      Wizard state
// @Description  Current step, completed and skipped steps of the setup wizard. Starts the wizard on first read.
// @Tags         onboarding
// @Produce      json
// @Success      200 {object} dto.Response{data=onboarding.StateResponse}
// @Security     BearerAuth
// @Router       /onboarding [get]
func (h *OnboardingHandler) GetState(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	state, err := h.onboardingService.GetState(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, state)
}

// CompleteStep godoc
// @Summary      Complete a wizard step
// @Description  Marks a step as completed. Completing an already-completed step is a no-op.
// @Tags         onboarding
// @Produce      json
// @Param        step path string true "Step (profile, store, schedule, catalog_seed, payment)"
// @Success      200 {object} dto.Response{data=onboarding.StateResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /onboarding/steps/{step}/complete [post]
func (h *OnboardingHandler) CompleteStep(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	step, ok := h.stepFromPath(c)
	if !ok {
		return
	}

	state, err := h.onboardingService.CompleteStep(c.Request.Context(), tenantID, step)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, state)
}

// SkipStep godoc
// @Summary      Skip a wizard step
// @Description  Skips an optional step. Only catalog_seed and payment can be skipped.
// @Tags         onboarding
// @Produce      json
// @Param        step path string true "Step (catalog_seed, payment)"
// @Success      200 {object} dto.Response{data=onboarding.StateResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /onboarding/steps/{step}/skip [post]
func (h *OnboardingHandler) SkipStep(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	step, ok := h.stepFromPath(c)
	if !ok {
		return
	}

	state, err := h.onboardingService.SkipStep(c.Request.Context(), tenantID, step)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, state)
}
