package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/Rokin-Inteligencia/roksell-sub000/internal/application/identity"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/identity"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/interfaces/http/middleware"
)

// GroupHandler handles access group endpoints
type GroupHandler struct {
	BaseHandler
	groupService *identityapp.GroupService
}

// NewGroupHandler creates a new GroupHandler
func NewGroupHandler(groupService *identityapp.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

// CreateGroupRequest represents an access group creation request
type CreateGroupRequest struct {
	Name        string            `json:"name" binding:"required,min=2,max=80" example:"Atendimento"`
	Description string            `json:"description" binding:"max=300"`
	Permissions map[string]string `json:"permissions"`
	AllStores   *bool             `json:"all_stores"`
	StoreIDs    []uuid.UUID       `json:"store_ids"`
}

// UpdateGroupRequest represents the editable group fields
type UpdateGroupRequest struct {
	Name        string `json:"name" binding:"omitempty,min=2,max=80"`
	Description string `json:"description" binding:"max=300"`
}

// SetPermissionsRequest replaces the group's module permission map
// (module key -> none|read|write)
type SetPermissionsRequest struct {
	Permissions map[string]string `json:"permissions" binding:"required"`
}

// SetStoreScopeRequest replaces the group's store visibility
type SetStoreScopeRequest struct {
	AllStores bool        `json:"all_stores"`
	StoreIDs  []uuid.UUID `json:"store_ids"`
}

// groupListQuery binds the group list filters
type groupListQuery struct {
	Search   string `form:"search"`
	IsSystem *bool  `form:"is_system"`
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
}

// parsePermissions maps the wire permission map onto domain access levels;
// unknown modules and levels are rejected by the domain when applied.
func parsePermissions(raw map[string]string) identity.ModulePermissions {
	perms := make(identity.ModulePermissions, len(raw))
	for module, level := range raw {
		perms[module] = identity.AccessLevel(level)
	}
	return perms
}

// Create godoc
// @Summary      Create an access group
// @Description  Create a group with per-module permissions and store scope
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        request body CreateGroupRequest true "Group creation request"
// @Success      201 {object} dto.Response{data=identity.GroupDTO}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /groups [post]
func (h *GroupHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	input := identityapp.CreateGroupInput{
		TenantID:    tenantID,
		Name:        req.Name,
		Description: req.Description,
		Permissions: parsePermissions(req.Permissions),
	}
	if req.AllStores != nil || len(req.StoreIDs) > 0 {
		scope := identity.StoreScope{StoreIDs: req.StoreIDs}
		if req.AllStores != nil {
			scope.AllStores = *req.AllStores
		}
		input.Scope = &scope
	}

	group, err := h.groupService.Create(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, group)
}

// GetByID godoc
// @Summary      Get group by ID
// @Tags         groups
// @Produce      json
// @Param        id path string true "Group ID" format(uuid)
// @Success      200 {object} dto.Response{data=identity.GroupDTO}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /groups/{id} [get]
func (h *GroupHandler) GetByID(c *gin.Context) {
	groupID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Identificador de grupo inválido")
		return
	}

	group, err := h.groupService.GetByID(c.Request.Context(), groupID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, group)
}

// List godoc
// @Summary      List access groups
// @Tags         groups
// @Produce      json
// @Param        search query string false "Search by name"
// @Param        is_system query bool false "System groups only"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} dto.Response{data=[]identity.GroupDTO,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /groups [get]
func (h *GroupHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	var query groupListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	filter := &identity.GroupFilter{
		Keyword:  query.Search,
		IsSystem: query.IsSystem,
		Page:     query.Page,
		Limit:    query.PageSize,
	}
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.Limit == 0 {
		filter.Limit = 20
	}

	result, err := h.groupService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Groups, result.Total, result.Page, result.PageSize)
}

// Update godoc
// @Summary      Update a group
// @Description  Rename a group or change its description. System groups cannot be renamed.
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        id path string true "Group ID" format(uuid)
// @Param        request body UpdateGroupRequest true "Group update request"
// @Success      200 {object} dto.Response{data=identity.GroupDTO}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /groups/{id} [put]
func (h *GroupHandler) Update(c *gin.Context) {
	groupID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Identificador de grupo inválido")
		return
	}

	var req UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	group, err := h.groupService.Update(c.Request.Context(), identityapp.UpdateGroupInput{
		ID:          groupID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, group)
}

// SetPermissions godoc
// @Summary      Set group permissions
// @Description  Replace the group's module permission map. Sessions pick the change up on refresh.
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        id path string true "Group ID" format(uuid)
// @Param        request body SetPermissionsRequest true "module key -> none|read|write"
// @Success      200 {object} dto.Response{data=identity.GroupDTO}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /groups/{id}/permissions [put]
func (h *GroupHandler) SetPermissions(c *gin.Context) {
	groupID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Identificador de grupo inválido")
		return
	}

	var req SetPermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	group, err := h.groupService.SetPermissions(c.Request.Context(), groupID, parsePermissions(req.Permissions))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, group)
}

// SetStoreScope godoc
// @Summary      Set group store scope
// @Description  Restrict the group's members to specific stores or grant all-store access
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        id path string true "Group ID" format(uuid)
// @Param        request body SetStoreScopeRequest true "Store scope"
// @Success      200 {object} dto.Response{data=identity.GroupDTO}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /groups/{id}/store-scope [put]
func (h *GroupHandler) SetStoreScope(c *gin.Context) {
	groupID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Identificador de grupo inválido")
		return
	}

	var req SetStoreScopeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	group, err := h.groupService.SetStoreScope(c.Request.Context(), groupID, identity.StoreScope{
		AllStores: req.AllStores,
		StoreIDs:  req.StoreIDs,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, group)
}

// ListUsers godoc
// @Summary      List group members
// @Tags         groups
// @Produce      json
// @Param        id path string true "Group ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]identity.UserDTO}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /groups/{id}/users [get]
func (h *GroupHandler) ListUsers(c *gin.Context) {
	groupID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Identificador de grupo inválido")
		return
	}

	users, err := h.groupService.ListUsers(c.Request.Context(), groupID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, users)
}

// Delete godoc
// @Summary      Delete a group
// @Description  Delete a non-system group with no members
// @Tags         groups
// @Produce      json
// @Param        id path string true "Group ID" format(uuid)
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /groups/{id} [delete]
func (h *GroupHandler) Delete(c *gin.Context) {
	groupID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Identificador de grupo inválido")
		return
	}

	if err := h.groupService.Delete(c.Request.Context(), groupID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
