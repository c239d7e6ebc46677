package handler

import (
	"strconv"

	catalogapp "github.com/Rokin-Inteligencia/roksell-sub000/internal/application/catalog"
	"github.com/gin-gonic/gin"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/interfaces/http/middleware"
)

// AdditionalGroupHandler handles additional group (product options) endpoints
type AdditionalGroupHandler struct {
	BaseHandler
	groupService *catalogapp.AdditionalGroupService
}

// NewAdditionalGroupHandler creates a new AdditionalGroupHandler
func NewAdditionalGroupHandler(groupService *catalogapp.AdditionalGroupService) *AdditionalGroupHandler {
	return &AdditionalGroupHandler{groupService: groupService}
}

// Create godoc
// @Summary      Create an additional group
// @Description  Create a group of selectable additions with min/max selection rules
// @Tags         additional-groups
// @Accept       json
// @Produce      json
// @Param        store_id query string true "Store ID" format(uuid)
// @Param        request body catalog.CreateAdditionalGroupRequest true "Group creation request"
// @Success      201 {object} dto.Response{data=catalog.AdditionalGroupResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /additional-groups [post]
func (h *AdditionalGroupHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	storeID, ok := getStoreID(c)
	if !ok {
		return
	}

	var req catalogapp.CreateAdditionalGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	group, err := h.groupService.Create(c.Request.Context(), tenantID, storeID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, group)
}

// GetByID godoc
// @Summary      Get additional group by ID
// @Tags         additional-groups
// @Produce      json
// @Param        store_id query string true "Store ID" format(uuid)
// @Param        id path string true "Group ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalog.AdditionalGroupResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /additional-groups/{id} [get]
func (h *AdditionalGroupHandler) GetByID(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}

	groupID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Identificador de grupo inválido")
		return
	}

	group, err := h.groupService.GetByID(c.Request.Context(), storeID, groupID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, group)
}

// List godoc
// @Summary      List additional groups
// @Tags         additional-groups
// @Produce      json
// @Param        store_id query string true "Store ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]catalog.AdditionalGroupResponse}
// @Security     BearerAuth
// @Router       /additional-groups [get]
func (h *AdditionalGroupHandler) List(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}

	groups, err := h.groupService.List(c.Request.Context(), storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, groups)
}

// Update godoc
// @Summary      Update an additional group
// @Tags         additional-groups
// @Accept       json
// @Produce      json
// @Param        store_id query string true "Store ID" format(uuid)
// @Param        id path string true "Group ID" format(uuid)
// @Param        request body catalog.UpdateAdditionalGroupRequest true "Group update request"
// @Success      200 {object} dto.Response{data=catalog.AdditionalGroupResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /additional-groups/{id} [put]
func (h *AdditionalGroupHandler) Update(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}

	groupID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Identificador de grupo inválido")
		return
	}

	var req catalogapp.UpdateAdditionalGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	group, err := h.groupService.Update(c.Request.Context(), storeID, groupID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, group)
}

// AddItem godoc
// @Summary      Add an item to a group
// @Tags         additional-groups
// @Accept       json
// @Produce      json
// @Param        store_id query string true "Store ID" format(uuid)
// @Param        id path string true "Group ID" format(uuid)
// @Param        request body catalog.AdditionalItemRequest true "Item to add"
// @Success      200 {object} dto.Response{data=catalog.AdditionalGroupResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /additional-groups/{id}/items [post]
func (h *AdditionalGroupHandler) AddItem(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}

	groupID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Identificador de grupo inválido")
		return
	}

	var req catalogapp.AdditionalItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	group, err := h.groupService.AddItem(c.Request.Context(), storeID, groupID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, group)
}

// UpdateItem godoc
// @Summary      Update a group item
// @Tags         additional-groups
// @Accept       json
// @Produce      json
// @Param        store_id query string true "Store ID" format(uuid)
// @Param        id path string true "Group ID" format(uuid)
// @Param        item_id path string true "Item ID" format(uuid)
// @Param        request body catalog.AdditionalItemRequest true "Item data"
// @Success      200 {object} dto.Response{data=catalog.AdditionalGroupResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /additional-groups/{id}/items/{item_id} [put]
func (h *AdditionalGroupHandler) UpdateItem(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}

	groupID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Identificador de grupo inválido")
		return
	}

	itemID, err := pathUUID(c, "item_id")
	if err != nil {
		h.BadRequest(c, "Identificador de item inválido")
		return
	}

	var req catalogapp.AdditionalItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	group, err := h.groupService.UpdateItem(c.Request.Context(), storeID, groupID, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, group)
}

// SetItemActive godoc
// @Summary      Enable or disable a group item
// @Tags         additional-groups
// @Produce      json
// @Param        store_id query string true "Store ID" format(uuid)
// @Param        id path string true "Group ID" format(uuid)
// @Param        item_id path string true "Item ID" format(uuid)
// @Param        active query bool true "New active state"
// @Success      200 {object} dto.Response{data=catalog.AdditionalGroupResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /additional-groups/{id}/items/{item_id}/active [put]
func (h *AdditionalGroupHandler) SetItemActive(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}

	groupID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Identificador de grupo inválido")
		return
	}

	itemID, err := pathUUID(c, "item_id")
	if err != nil {
		h.BadRequest(c, "Identificador de item inválido")
		return
	}

	active, err := strconv.ParseBool(c.Query("active"))
	if err != nil {
		h.BadRequest(c, "Parâmetro active inválido")
		return
	}

	group, err := h.groupService.SetItemActive(c.Request.Context(), storeID, groupID, itemID, active)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, group)
}

// RemoveItem godoc
// @Summary      Remove a group item
// @Tags         additional-groups
// @Produce      json
// @Param        store_id query string true "Store ID" format(uuid)
// @Param        id path string true "Group ID" format(uuid)
// @Param        item_id path string true "Item ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalog.AdditionalGroupResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /additional-groups/{id}/items/{item_id} [delete]
func (h *AdditionalGroupHandler) RemoveItem(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}

	groupID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Identificador de grupo inválido")
		return
	}

	itemID, err := pathUUID(c, "item_id")
	if err != nil {
		h.BadRequest(c, "Identificador de item inválido")
		return
	}

	group, err := h.groupService.RemoveItem(c.Request.Context(), storeID, groupID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, group)
}

// Activate godoc
// @Summary      Activate an additional group
// @Tags         additional-groups
// @Produce      json
// @Param        store_id query string true "Store ID" format(uuid)
// @Param        id path string true "Group ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalog.AdditionalGroupResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /additional-groups/{id}/activate [post]
func (h *AdditionalGroupHandler) Activate(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}

	groupID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Identificador de grupo inválido")
		return
	}

	group, err := h.groupService.Activate(c.Request.Context(), storeID, groupID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, group)
}

// Deactivate godoc
// @Summary      Deactivate an additional group
// @Tags         additional-groups
// @Produce      json
// @Param        store_id query string true "Store ID" format(uuid)
// @Param        id path string true "Group ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalog.AdditionalGroupResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /additional-groups/{id}/deactivate [post]
func (h *AdditionalGroupHandler) Deactivate(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}

	groupID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Identificador de grupo inválido")
		return
	}

	group, err := h.groupService.Deactivate(c.Request.Context(), storeID, groupID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, group)
}

// Delete godoc
// @Summary      Delete an additional group
// @Description  Delete a group. Products referencing it keep working without the options.
// @Tags         additional-groups
// @Produce      json
// @Param        store_id query string true "Store ID" format(uuid)
// @Param        id path string true "Group ID" format(uuid)
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /additional-groups/{id} [delete]
func (h *AdditionalGroupHandler) Delete(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}

	groupID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Identificador de grupo inválido")
		return
	}

	if err := h.groupService.Delete(c.Request.Context(), storeID, groupID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
