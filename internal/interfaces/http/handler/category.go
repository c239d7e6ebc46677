package handler

import (
	catalogapp "github.com/Rokin-Inteligencia/roksell-sub000/internal/application/catalog"
	"github.com/gin-gonic/gin"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/interfaces/http/middleware"
)

// CategoryHandler handles category API endpoints
type CategoryHandler struct {
	BaseHandler
	categoryService *catalogapp.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *catalogapp.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// Create godoc
// @Summary      Create a category
// @Description  Create a new menu category for a store
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        store_id query string true "Store ID" format(uuid)
// @Param        request body catalog.CreateCategoryRequest true "Category creation request"
// @Success      201 {object} dto.Response{data=catalog.CategoryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	storeID, ok := getStoreID(c)
	if !ok {
		return
	}

	var req catalogapp.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), tenantID, storeID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, category)
}

// GetByID godoc
// @Summary      Get category by ID
// @Tags         categories
// @Produce      json
// @Param        store_id query string true "Store ID" format(uuid)
// @Param        id path string true "Category ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalog.CategoryResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /categories/{id} [get]
func (h *CategoryHandler) GetByID(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}

	categoryID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Identificador de categoria inválido")
		return
	}

	category, err := h.categoryService.GetByID(c.Request.Context(), storeID, categoryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, category)
}

// List godoc
// @Summary      List categories
// @Description  Retrieve the store's categories ordered by sort order
// @Tags         categories
// @Produce      json
// @Param        store_id query string true "Store ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]catalog.CategoryResponse}
// @Security     BearerAuth
// @Router       /categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}

	categories, err := h.categoryService.List(c.Request.Context(), storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, categories)
}

// Update godoc
// @Summary      Update a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        store_id query string true "Store ID" format(uuid)
// @Param        id path string true "Category ID" format(uuid)
// @Param        request body catalog.UpdateCategoryRequest true "Category update request"
// @Success      200 {object} dto.Response{data=catalog.CategoryResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}

	categoryID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Identificador de categoria inválido")
		return
	}

	var req catalogapp.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	category, err := h.categoryService.Update(c.Request.Context(), storeID, categoryID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, category)
}

// Reorder godoc
// @Summary      Reorder categories
// @Description  Replace the display order of all categories of a store
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        store_id query string true "Store ID" format(uuid)
// @Param        request body catalog.ReorderCategoriesRequest true "Full ordered category id list"
// @Success      200 {object} dto.Response{data=[]catalog.CategoryResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /categories/reorder [post]
func (h *CategoryHandler) Reorder(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}

	var req catalogapp.ReorderCategoriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	categories, err := h.categoryService.Reorder(c.Request.Context(), storeID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, categories)
}

// Activate godoc
// @Summary      Activate a category
// @Tags         categories
// @Produce      json
// @Param        store_id query string true "Store ID" format(uuid)
// @Param        id path string true "Category ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalog.CategoryResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /categories/{id}/activate [post]
func (h *CategoryHandler) Activate(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}

	categoryID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Identificador de categoria inválido")
		return
	}

	category, err := h.categoryService.Activate(c.Request.Context(), storeID, categoryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, category)
}

// Deactivate godoc
// @Summary      Deactivate a category
// @Description  Hide the category and its products from the storefront
// @Tags         categories
// @Produce      json
// @Param        store_id query string true "Store ID" format(uuid)
// @Param        id path string true "Category ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalog.CategoryResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /categories/{id}/deactivate [post]
func (h *CategoryHandler) Deactivate(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}

	categoryID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Identificador de categoria inválido")
		return
	}

	category, err := h.categoryService.Deactivate(c.Request.Context(), storeID, categoryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, category)
}

// Delete godoc
// @Summary      Delete a category
// @Description  Delete a category. Products keep existing without a category.
// @Tags         categories
// @Produce      json
// @Param        store_id query string true "Store ID" format(uuid)
// @Param        id path string true "Category ID" format(uuid)
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}

	categoryID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Identificador de categoria inválido")
		return
	}

	if err := h.categoryService.Delete(c.Request.Context(), storeID, categoryID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
