package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	billingapp "github.com/Rokin-Inteligencia/roksell-sub000/internal/application/billing"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/interfaces/http/middleware"
)

// maxWebhookBody bounds the Stripe webhook payload read.
const maxWebhookBody = 1 << 20

// BillingHandler handles subscription and plan endpoints
type BillingHandler struct {
	BaseHandler
	subscriptionService *billingapp.SubscriptionService
	entitlementService  *billingapp.EntitlementService
	webhookService      *billingapp.StripeWebhookService
}

// NewBillingHandler creates a new BillingHandler
func NewBillingHandler(
	subscriptionService *billingapp.SubscriptionService,
	entitlementService *billingapp.EntitlementService,
	webhookService *billingapp.StripeWebhookService,
) *BillingHandler {
	return &BillingHandler{
		subscriptionService: subscriptionService,
		entitlementService:  entitlementService,
		webhookService:      webhookService,
	}
}

// ListPlans godoc
// @Summary      List plans
// @Description  Platform plan catalog with prices, included modules and limits
// @Tags         billing
// @Produce      json
// @Success      200 {object} dto.Response{data=[]billing.PlanDTO}
// @Security     BearerAuth
// @Router       /billing/plans [get]
func (h *BillingHandler) ListPlans(c *gin.Context) {
	plans, err := h.subscriptionService.ListPlans(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, plans)
}

// GetSubscription godoc
// @Summary      Current subscription
// @Description  The tenant's subscription; free-plan tenants get a synthetic record
// @Tags         billing
// @Produce      json
// @Success      200 {object} dto.Response{data=billing.SubscriptionDTO}
// @Security     BearerAuth
// @Router       /billing/subscription [get]
func (h *BillingHandler) GetSubscription(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	subscription, err := h.subscriptionService.GetCurrent(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, subscription)
}

// GetUsage godoc
// @Summary      Plan usage
// @Description  Current usage against the plan limits (stores, products, users, campaigns)
// @Tags         billing
// @Produce      json
// @Success      200 {object} dto.Response{data=billing.UsageSummaryDTO}
// @Security     BearerAuth
// @Router       /billing/usage [get]
func (h *BillingHandler) GetUsage(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	usage, err := h.entitlementService.Usage(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, usage)
}

// StartCheckout godoc
// @Summary      Start plan checkout
// @Description  Create a Stripe Checkout session for upgrading to a paid plan
// @Tags         billing
// @Accept       json
// @Produce      json
// @Param        request body billing.StartCheckoutInput true "Target plan"
// @Success      201 {object} dto.Response{data=billing.CheckoutSessionDTO}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /billing/checkout [post]
func (h *BillingHandler) StartCheckout(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	var input billingapp.StartCheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	session, err := h.subscriptionService.StartCheckout(c.Request.Context(), tenantID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, session)
}

// CancelAtPeriodEnd godoc
// @Summary      Cancel subscription at period end
// @Description  Keep the paid plan until the current period closes, then fall back to free
// @Tags         billing
// @Produce      json
// @Success      200 {object} dto.Response{data=billing.SubscriptionDTO}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /billing/subscription/cancel [post]
func (h *BillingHandler) CancelAtPeriodEnd(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	subscription, err := h.subscriptionService.CancelAtPeriodEnd(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, subscription)
}

// ResumeAutoRenew godoc
// @Summary      Resume auto-renew
// @Description  Undo a pending cancellation before the period closes
// @Tags         billing
// @Produce      json
// @Success      200 {object} dto.Response{data=billing.SubscriptionDTO}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /billing/subscription/resume [post]
func (h *BillingHandler) ResumeAutoRenew(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	subscription, err := h.subscriptionService.ResumeAutoRenew(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, subscription)
}

// OpenPortal godoc
// @Summary      Open the billing portal
// @Description  Create a Stripe billing portal session for invoices and payment methods
// @Tags         billing
// @Produce      json
// @Success      201 {object} dto.Response{data=billing.PortalSessionDTO}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /billing/portal [post]
func (h *BillingHandler) OpenPortal(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	session, err := h.subscriptionService.OpenBillingPortal(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, session)
}

// Webhook godoc
// @Summary      Stripe webhook
// @Description  Receives subscription and invoice events. Authenticated by signature, not JWT.
// @Tags         billing
// @Accept       json
// @Produce      json
// @Param        Stripe-Signature header string true "Stripe signature"
// @Success      200 {object} dto.Response{data=billing.WebhookResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /billing/webhook [post]
func (h *BillingHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		h.BadRequest(c, "Corpo da requisição ilegível")
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		h.BadRequest(c, "Assinatura ausente")
		return
	}

	result, err := h.webhookService.ProcessWebhook(c.Request.Context(), payload, signature)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
