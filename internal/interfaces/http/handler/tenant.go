package handler

import (
	"github.com/gin-gonic/gin"

	identityapp "github.com/Rokin-Inteligencia/roksell-sub000/internal/application/identity"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/interfaces/http/middleware"
)

// TenantHandler handles platform tenant administration and tenant
// self-service endpoints
type TenantHandler struct {
	BaseHandler
	tenantService *identityapp.TenantService
}

// NewTenantHandler creates a new TenantHandler
func NewTenantHandler(tenantService *identityapp.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

// RegisterTenantRequest represents a tenant signup request
// @Description Creates a workspace with its owner account
type RegisterTenantRequest struct {
	Slug          string `json:"slug" binding:"required,storeslug" example:"pizzaria-do-ze"`
	Name          string `json:"name" binding:"required,min=2,max=120" example:"Pizzaria do Zé"`
	OwnerName     string `json:"owner_name" binding:"required,min=2,max=120" example:"José Carlos"`
	OwnerEmail    string `json:"owner_email" binding:"required,email" example:"ze@pizzaria.com.br"`
	OwnerPassword string `json:"owner_password" binding:"required,min=6"`
	Trial         bool   `json:"trial"`
}

// UpdateTenantRequest represents the editable tenant profile fields
type UpdateTenantRequest struct {
	Name         string `json:"name" binding:"omitempty,min=2,max=120"`
	LegalName    string `json:"legal_name" binding:"max=200"`
	Document     string `json:"document" binding:"omitempty,cpfcnpj"`
	ContactName  string `json:"contact_name" binding:"max=120"`
	ContactPhone string `json:"contact_phone" binding:"max=20"`
	ContactEmail string `json:"contact_email" binding:"omitempty,email"`
	LogoURL      string `json:"logo_url" binding:"max=500"`
	Notes        string `json:"notes" binding:"max=2000"`
}

// SetPlanRequest changes a tenant's plan (platform scope)
type SetPlanRequest struct {
	Plan string `json:"plan" binding:"required,oneof=free basic pro enterprise"`
}

// tenantListQuery binds the platform tenant list filters
type tenantListQuery struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive suspended trial"`
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
}

// Register godoc
// @Summary      Register a tenant
// @Description  Public signup: creates the workspace, its owner user and system groups
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        request body RegisterTenantRequest true "Signup data"
// @Success      201 {object} dto.Response{data=identity.RegisterTenantResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tenants/register [post]
func (h *TenantHandler) Register(c *gin.Context) {
	var req RegisterTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.tenantService.Register(c.Request.Context(), identityapp.RegisterTenantInput{
		Slug:          req.Slug,
		Name:          req.Name,
		OwnerName:     req.OwnerName,
		OwnerEmail:    req.OwnerEmail,
		OwnerPassword: req.OwnerPassword,
		Trial:         req.Trial,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// List godoc
// @Summary      List tenants
// @Description  Platform-scope listing of all workspaces
// @Tags         tenants
// @Produce      json
// @Param        search query string false "Search by name or slug"
// @Param        status query string false "Status filter" Enums(active, inactive, suspended, trial)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} dto.Response{data=[]identity.TenantDTO,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /tenants [get]
func (h *TenantHandler) List(c *gin.Context) {
	var query tenantListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	filter := shared.DefaultFilter()
	filter.Search = query.Search
	if query.Page > 0 {
		filter.Page = query.Page
	}
	if query.PageSize > 0 {
		filter.PageSize = query.PageSize
	}
	if query.Status != "" {
		filter.Filters["status"] = query.Status
	}

	result, err := h.tenantService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Tenants, result.Total, result.Page, result.PageSize)
}

// GetByID godoc
// @Summary      Get tenant by ID
// @Tags         tenants
// @Produce      json
// @Param        id path string true "Tenant ID" format(uuid)
// @Success      200 {object} dto.Response{data=identity.TenantDTO}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tenants/{id} [get]
func (h *TenantHandler) GetByID(c *gin.Context) {
	tenantID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Identificador de conta inválido")
		return
	}

	tenant, err := h.tenantService.GetByID(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tenant)
}

// SetPlan godoc
// @Summary      Change a tenant's plan
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        id path string true "Tenant ID" format(uuid)
// @Param        request body SetPlanRequest true "Target plan"
// @Success      200 {object} dto.Response{data=identity.TenantDTO}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tenants/{id}/plan [put]
func (h *TenantHandler) SetPlan(c *gin.Context) {
	tenantID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Identificador de conta inválido")
		return
	}

	var req SetPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	tenant, err := h.tenantService.SetPlan(c.Request.Context(), tenantID, req.Plan)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tenant)
}

// Activate godoc
// @Summary      Activate a tenant
// @Tags         tenants
// @Produce      json
// @Param        id path string true "Tenant ID" format(uuid)
// @Success      200 {object} dto.Response{data=identity.TenantDTO}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tenants/{id}/activate [post]
func (h *TenantHandler) Activate(c *gin.Context) {
	tenantID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Identificador de conta inválido")
		return
	}

	tenant, err := h.tenantService.Activate(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tenant)
}

// Deactivate godoc
// @Summary      Deactivate a tenant
// @Tags         tenants
// @Produce      json
// @Param        id path string true "Tenant ID" format(uuid)
// @Success      200 {object} dto.Response{data=identity.TenantDTO}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tenants/{id}/deactivate [post]
func (h *TenantHandler) Deactivate(c *gin.Context) {
	tenantID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Identificador de conta inválido")
		return
	}

	tenant, err := h.tenantService.Deactivate(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tenant)
}

// Suspend godoc
// @Summary      Suspend a tenant
// @Description  Suspend a workspace for non-payment. All logins are refused while suspended.
// @Tags         tenants
// @Produce      json
// @Param        id path string true "Tenant ID" format(uuid)
// @Success      200 {object} dto.Response{data=identity.TenantDTO}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tenants/{id}/suspend [post]
func (h *TenantHandler) Suspend(c *gin.Context) {
	tenantID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Identificador de conta inválido")
		return
	}

	tenant, err := h.tenantService.Suspend(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tenant)
}

// GetSelf godoc
// @Summary      Get own workspace
// @Description  Return the caller's tenant profile
// @Tags         tenant
// @Produce      json
// @Success      200 {object} dto.Response{data=identity.TenantDTO}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tenant [get]
func (h *TenantHandler) GetSelf(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	tenant, err := h.tenantService.GetByID(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tenant)
}

// UpdateSelf godoc
// @Summary      Update own workspace
// @Description  Update the caller's tenant profile (name, document, contact, logo)
// @Tags         tenant
// @Accept       json
// @Produce      json
// @Param        request body UpdateTenantRequest true "Profile update"
// @Success      200 {object} dto.Response{data=identity.TenantDTO}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tenant [put]
func (h *TenantHandler) UpdateSelf(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	var req UpdateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	tenant, err := h.tenantService.Update(c.Request.Context(), identityapp.UpdateTenantInput{
		ID:           tenantID,
		Name:         req.Name,
		LegalName:    req.LegalName,
		Document:     req.Document,
		ContactName:  req.ContactName,
		ContactPhone: req.ContactPhone,
		ContactEmail: req.ContactEmail,
		LogoURL:      req.LogoURL,
		Notes:        req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tenant)
}
