package handler

import (
	catalogapp "github.com/Rokin-Inteligencia/roksell-sub000/internal/application/catalog"
	"github.com/gin-gonic/gin"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/interfaces/http/middleware"
)

// ProductHandler handles product API endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// Create godoc
// @Summary      Create a product
// @Description  Create a new product in a store's catalog
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        store_id query string true "Store ID" format(uuid)
// @Param        request body catalog.CreateProductRequest true "Product creation request"
// @Success      201 {object} dto.Response{data=catalog.ProductResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	storeID, ok := getStoreID(c)
	if !ok {
		return
	}

	var req catalogapp.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	product, err := h.productService.Create(c.Request.Context(), tenantID, storeID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, product)
}

// GetByID godoc
// @Summary      Get product by ID
// @Tags         products
// @Produce      json
// @Param        store_id query string true "Store ID" format(uuid)
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalog.ProductResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}

	productID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Identificador de produto inválido")
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), storeID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// List godoc
// @Summary      List products
// @Description  Retrieve a paginated product list with search and filters
// @Tags         products
// @Produce      json
// @Param        store_id query string true "Store ID" format(uuid)
// @Param        search query string false "Search by name"
// @Param        status query string false "Status filter" Enums(active, inactive)
// @Param        category_id query string false "Category filter" format(uuid)
// @Param        featured query bool false "Featured only"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} dto.Response{data=[]catalog.ProductListResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}

	var filter catalogapp.ProductListFilter
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

	products, total, err := h.productService.List(c.Request.Context(), storeID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, products, total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary      Update a product
// @Description  Update product data. Sending promo_price zero clears the promotion.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        store_id query string true "Store ID" format(uuid)
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalog.UpdateProductRequest true "Product update request"
// @Success      200 {object} dto.Response{data=catalog.ProductResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}

	productID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Identificador de produto inválido")
		return
	}

	var req catalogapp.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	product, err := h.productService.Update(c.Request.Context(), storeID, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// SetStock godoc
// @Summary      Set stock tracking
// @Description  Enable or disable stock tracking and set the quantity on hand
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        store_id query string true "Store ID" format(uuid)
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalog.SetProductStockRequest true "Stock settings"
// @Success      200 {object} dto.Response{data=catalog.ProductResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{id}/stock [put]
func (h *ProductHandler) SetStock(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}

	productID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Identificador de produto inválido")
		return
	}

	var req catalogapp.SetProductStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	product, err := h.productService.SetStock(c.Request.Context(), storeID, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// SetGroups godoc
// @Summary      Set additional groups
// @Description  Replace the additional groups offered with a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        store_id query string true "Store ID" format(uuid)
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalog.SetProductGroupsRequest true "Group id list"
// @Success      200 {object} dto.Response{data=catalog.ProductResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{id}/additional-groups [put]
func (h *ProductHandler) SetGroups(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}

	productID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Identificador de produto inválido")
		return
	}

	var req catalogapp.SetProductGroupsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	product, err := h.productService.SetAdditionalGroups(c.Request.Context(), storeID, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Activate godoc
// @Summary      Activate a product
// @Tags         products
// @Produce      json
// @Param        store_id query string true "Store ID" format(uuid)
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalog.ProductResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{id}/activate [post]
func (h *ProductHandler) Activate(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}

	productID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Identificador de produto inválido")
		return
	}

	product, err := h.productService.Activate(c.Request.Context(), storeID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Deactivate godoc
// @Summary      Deactivate a product
// @Tags         products
// @Produce      json
// @Param        store_id query string true "Store ID" format(uuid)
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalog.ProductResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{id}/deactivate [post]
func (h *ProductHandler) Deactivate(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}

	productID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Identificador de produto inválido")
		return
	}

	product, err := h.productService.Deactivate(c.Request.Context(), storeID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Delete godoc
// @Summary      Delete a product
// @Description  Delete a product and its media references
// @Tags         products
// @Produce      json
// @Param        store_id query string true "Store ID" format(uuid)
// @Param        id path string true "Product ID" format(uuid)
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	storeID, ok := getStoreID(c)
	if !ok {
		return
	}

	productID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Identificador de produto inválido")
		return
	}

	if err := h.productService.Delete(c.Request.Context(), storeID, productID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
