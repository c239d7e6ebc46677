package handler

import (
	campaignapp "github.com/Rokin-Inteligencia/roksell-sub000/internal/application/campaign"
	"github.com/gin-gonic/gin"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/interfaces/http/middleware"
)

// CampaignHandler handles promotional campaign endpoints
type CampaignHandler struct {
	BaseHandler
	campaignService *campaignapp.CampaignService
}

// NewCampaignHandler creates a new CampaignHandler
func NewCampaignHandler(campaignService *campaignapp.CampaignService) *CampaignHandler {
	return &CampaignHandler{campaignService: campaignService}
}

// Create godoc
// @Summary      Create a campaign
// @Description  Create a promotional campaign. The rule config is validated against the
// @Description  closed condition/action schema before persistence.
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Param        request body campaign.CreateCampaignRequest true "Campaign creation request"
// @Success      201 {object} dto.Response{data=campaign.CampaignResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /campaigns [post]
func (h *CampaignHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	var req campaignapp.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	campaign, err := h.campaignService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, campaign)
}

// GetByID godoc
// @Summary      Get campaign by ID
// @Tags         campaigns
// @Produce      json
// @Param        id path string true "Campaign ID" format(uuid)
// @Success      200 {object} dto.Response{data=campaign.CampaignResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /campaigns/{id} [get]
func (h *CampaignHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	campaignID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Identificador de campanha inválido")
		return
	}

	campaign, err := h.campaignService.GetByID(c.Request.Context(), tenantID, campaignID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, campaign)
}

// List godoc
// @Summary      List campaigns
// @Tags         campaigns
// @Produce      json
// @Param        status query string false "Status filter" Enums(draft, active, paused, expired)
// @Param        kind query string false "Kind filter" Enums(coupon, automatic)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} dto.Response{data=[]campaign.CampaignListResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /campaigns [get]
func (h *CampaignHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	var filter campaignapp.CampaignListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.PageSize == 0 {
		filter.PageSize = 20
	}

	campaigns, total, err := h.campaignService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, campaigns, total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary      Update a campaign
// @Description  Update campaign data. Active campaigns only accept pause and end-date changes.
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Param        id path string true "Campaign ID" format(uuid)
// @Param        request body campaign.UpdateCampaignRequest true "Campaign update request"
// @Success      200 {object} dto.Response{data=campaign.CampaignResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /campaigns/{id} [put]
func (h *CampaignHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	campaignID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Identificador de campanha inválido")
		return
	}

	var req campaignapp.UpdateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	campaign, err := h.campaignService.Update(c.Request.Context(), tenantID, campaignID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, campaign)
}

// Activate godoc
// @Summary      Activate a campaign
// @Description  Activate a draft or paused campaign. Enforces the plan's active campaign limit.
// @Tags         campaigns
// @Produce      json
// @Param        id path string true "Campaign ID" format(uuid)
// @Success      200 {object} dto.Response{data=campaign.CampaignResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /campaigns/{id}/activate [post]
func (h *CampaignHandler) Activate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	campaignID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Identificador de campanha inválido")
		return
	}

	campaign, err := h.campaignService.Activate(c.Request.Context(), tenantID, campaignID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, campaign)
}

// Pause godoc
// @Summary      Pause a campaign
// @Tags         campaigns
// @Produce      json
// @Param        id path string true "Campaign ID" format(uuid)
// @Success      200 {object} dto.Response{data=campaign.CampaignResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /campaigns/{id}/pause [post]
func (h *CampaignHandler) Pause(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	campaignID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Identificador de campanha inválido")
		return
	}

	campaign, err := h.campaignService.Pause(c.Request.Context(), tenantID, campaignID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, campaign)
}

// Delete godoc
// @Summary      Delete a campaign
// @Description  Delete a campaign that is not active
// @Tags         campaigns
// @Produce      json
// @Param        id path string true "Campaign ID" format(uuid)
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /campaigns/{id} [delete]
func (h *CampaignHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	campaignID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Identificador de campanha inválido")
		return
	}

	if err := h.campaignService.Delete(c.Request.Context(), tenantID, campaignID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
