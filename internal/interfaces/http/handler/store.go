package handler

import (
	storeapp "github.com/Rokin-Inteligencia/roksell-sub000/internal/application/store"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/interfaces/http/middleware"
)

// StoreHandler handles store management endpoints
type StoreHandler struct {
	BaseHandler
	storeService *storeapp.StoreService
}

// NewStoreHandler creates a new StoreHandler
func NewStoreHandler(storeService *storeapp.StoreService) *StoreHandler {
	return &StoreHandler{storeService: storeService}
}

// storeFromPath parses the id path param and checks store scope visibility.
func (h *StoreHandler) storeFromPath(c *gin.Context) (uuid.UUID, bool) {
	id, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Identificador de loja inválido")
		return uuid.Nil, false
	}
	if !middleware.RequireStoreVisible(c, id) {
		return uuid.Nil, false
	}
	return id, true
}

// Create godoc
// @Summary      Create a store
// @Description  Create a new store for the tenant. Enforces the plan's store limit.
// @Tags         stores
// @Accept       json
// @Produce      json
// @Param        request body store.CreateStoreRequest true "Store creation request"
// @Success      201 {object} dto.Response{data=store.StoreResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /stores [post]
func (h *StoreHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	var req storeapp.CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	store, err := h.storeService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, store)
}

// GetByID godoc
// @Summary      Get store by ID
// @Tags         stores
// @Produce      json
// @Param        id path string true "Store ID" format(uuid)
// @Success      200 {object} dto.Response{data=store.StoreResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /stores/{id} [get]
func (h *StoreHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	storeID, ok := h.storeFromPath(c)
	if !ok {
		return
	}

	store, err := h.storeService.GetByID(c.Request.Context(), tenantID, storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, store)
}

// GetDefault godoc
// @Summary      Get the default store
// @Tags         stores
// @Produce      json
// @Success      200 {object} dto.Response{data=store.StoreResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /stores/default [get]
func (h *StoreHandler) GetDefault(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	store, err := h.storeService.GetDefault(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, store)
}

// List godoc
// @Summary      List stores
// @Description  All stores of the tenant the caller's scope allows
// @Tags         stores
// @Produce      json
// @Param        status query string false "Status filter" Enums(active, inactive)
// @Success      200 {object} dto.Response{data=[]store.StoreListResponse}
// @Security     BearerAuth
// @Router       /stores [get]
func (h *StoreHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	var filter storeapp.StoreListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	stores, err := h.storeService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stores)
}

// Update godoc
// @Summary      Update a store
// @Tags         stores
// @Accept       json
// @Produce      json
// @Param        id path string true "Store ID" format(uuid)
// @Param        request body store.UpdateStoreRequest true "Store update request"
// @Success      200 {object} dto.Response{data=store.StoreResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /stores/{id} [put]
func (h *StoreHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	storeID, ok := h.storeFromPath(c)
	if !ok {
		return
	}

	var req storeapp.UpdateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	store, err := h.storeService.Update(c.Request.Context(), tenantID, storeID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, store)
}

// UpdateSettings godoc
// @Summary      Update store settings
// @Description  Delivery, pickup and minimum-order settings
// @Tags         stores
// @Accept       json
// @Produce      json
// @Param        id path string true "Store ID" format(uuid)
// @Param        request body store.UpdateStoreSettingsRequest true "Settings"
// @Success      200 {object} dto.Response{data=store.StoreResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /stores/{id}/settings [put]
func (h *StoreHandler) UpdateSettings(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	storeID, ok := h.storeFromPath(c)
	if !ok {
		return
	}

	var req storeapp.UpdateStoreSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	store, err := h.storeService.UpdateSettings(c.Request.Context(), tenantID, storeID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, store)
}

// GetSchedule godoc
// @Summary      Get opening schedule
// @Tags         stores
// @Produce      json
// @Param        id path string true "Store ID" format(uuid)
// @Success      200 {object} dto.Response{data=store.ScheduleResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /stores/{id}/schedule [get]
func (h *StoreHandler) GetSchedule(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	storeID, ok := h.storeFromPath(c)
	if !ok {
		return
	}

	schedule, err := h.storeService.GetSchedule(c.Request.Context(), tenantID, storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, schedule)
}

// PutSchedule godoc
// @Summary      Replace opening schedule
// @Description  Replace the weekly opening intervals. Intervals use HH:MM and must not overlap.
// @Tags         stores
// @Accept       json
// @Produce      json
// @Param        id path string true "Store ID" format(uuid)
// @Param        request body store.PutScheduleRequest true "Weekly schedule"
// @Success      200 {object} dto.Response{data=store.ScheduleResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /stores/{id}/schedule [put]
func (h *StoreHandler) PutSchedule(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	storeID, ok := h.storeFromPath(c)
	if !ok {
		return
	}

	var req storeapp.PutScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	schedule, err := h.storeService.PutSchedule(c.Request.Context(), tenantID, storeID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, schedule)
}

// PutBlockedDates godoc
// @Summary      Replace blocked dates
// @Description  Replace the list of dates the store will not take orders (holidays)
// @Tags         stores
// @Accept       json
// @Produce      json
// @Param        id path string true "Store ID" format(uuid)
// @Param        request body store.PutBlockedDatesRequest true "Blocked dates (YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=store.ScheduleResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /stores/{id}/blocked-dates [put]
func (h *StoreHandler) PutBlockedDates(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	storeID, ok := h.storeFromPath(c)
	if !ok {
		return
	}

	var req storeapp.PutBlockedDatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	schedule, err := h.storeService.PutBlockedDates(c.Request.Context(), tenantID, storeID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, schedule)
}

// SetDefault godoc
// @Summary      Set the default store
// @Tags         stores
// @Produce      json
// @Param        id path string true "Store ID" format(uuid)
// @Success      200 {object} dto.Response{data=store.StoreResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /stores/{id}/default [post]
func (h *StoreHandler) SetDefault(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	storeID, ok := h.storeFromPath(c)
	if !ok {
		return
	}

	store, err := h.storeService.SetDefault(c.Request.Context(), tenantID, storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, store)
}

// Activate godoc
// @Summary      Activate a store
// @Tags         stores
// @Produce      json
// @Param        id path string true "Store ID" format(uuid)
// @Success      200 {object} dto.Response{data=store.StoreResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /stores/{id}/activate [post]
func (h *StoreHandler) Activate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	storeID, ok := h.storeFromPath(c)
	if !ok {
		return
	}

	store, err := h.storeService.Activate(c.Request.Context(), tenantID, storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, store)
}

// Deactivate godoc
// @Summary      Deactivate a store
// @Description  Deactivate a store. The storefront stops accepting orders for it.
// @Tags         stores
// @Produce      json
// @Param        id path string true "Store ID" format(uuid)
// @Success      200 {object} dto.Response{data=store.StoreResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /stores/{id}/deactivate [post]
func (h *StoreHandler) Deactivate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	storeID, ok := h.storeFromPath(c)
	if !ok {
		return
	}

	store, err := h.storeService.Deactivate(c.Request.Context(), tenantID, storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, store)
}

// Delete godoc
// @Summary      Delete a store
// @Description  Delete a store with no orders. The default store cannot be deleted.
// @Tags         stores
// @Produce      json
// @Param        id path string true "Store ID" format(uuid)
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /stores/{id} [delete]
func (h *StoreHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	storeID, ok := h.storeFromPath(c)
	if !ok {
		return
	}

	if err := h.storeService.Delete(c.Request.Context(), tenantID, storeID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
