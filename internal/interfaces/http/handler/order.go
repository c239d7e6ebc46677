package handler

import (
	orderapp "github.com/Rokin-Inteligencia/roksell-sub000/internal/application/order"
	"github.com/gin-gonic/gin"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/interfaces/http/middleware"
)

// OrderHandler handles admin order management endpoints
type OrderHandler struct {
	BaseHandler
	orderService *orderapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// GetByID godoc
// @Summary      Get order by ID
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=order.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	orderID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Identificador de pedido inválido")
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// List godoc
// @Summary      List orders
// @Description  Paginated order list. Search matches order number and customer name/phone.
// @Tags         orders
// @Produce      json
// @Param        store_id query string false "Store filter" format(uuid)
// @Param        customer_id query string false "Customer filter" format(uuid)
// @Param        status query string false "Status filter" Enums(PENDING, CONFIRMED, PREPARING, OUT_FOR_DELIVERY, READY_FOR_PICKUP, DELIVERED, CANCELLED)
// @Param        from query string false "Period start (RFC3339)"
// @Param        to query string false "Period end (RFC3339)"
// @Param        search query string false "Search keyword"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} dto.Response{data=[]order.OrderListResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	var filter orderapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	if filter.StoreID != nil && !middleware.RequireStoreVisible(c, *filter.StoreID) {
		return
	}

	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.PageSize == 0 {
		filter.PageSize = 20
	}

	orders, total, err := h.orderService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// ActiveBoard godoc
// @Summary      Active orders board
// @Description  All non-final orders of a store, oldest first, for the kitchen/ops screen
// @Tags         orders
// @Produce      json
// @Param        store_id query string true "Store ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]order.OrderListResponse}
// @Security     BearerAuth
// @Router       /orders/board [get]
func (h *OrderHandler) ActiveBoard(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	storeID, ok := getStoreID(c)
	if !ok {
		return
	}

	orders, err := h.orderService.ActiveBoard(c.Request.Context(), tenantID, storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, orders)
}

// Summary godoc
// @Summary      Order summary
// @Description  Aggregated totals (count, revenue, average ticket, by-status breakdown) for a period
// @Tags         orders
// @Produce      json
// @Param        store_id query string false "Store filter" format(uuid)
// @Param        from query string false "Period start (RFC3339)"
// @Param        to query string false "Period end (RFC3339)"
// @Success      200 {object} dto.Response{data=order.OrderSummaryResponse}
// @Security     BearerAuth
// @Router       /orders/summary [get]
func (h *OrderHandler) Summary(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	var filter orderapp.SummaryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	if filter.StoreID != nil && !middleware.RequireStoreVisible(c, *filter.StoreID) {
		return
	}

	summary, err := h.orderService.Summary(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// UpdateStatus godoc
// @Summary      Update order status
// @Description  Move an order through the fulfillment flow. Invalid transitions are rejected.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body order.UpdateOrderStatusRequest true "Target status"
// @Success      200 {object} dto.Response{data=order.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	orderID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Identificador de pedido inválido")
		return
	}

	var req orderapp.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), tenantID, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Cancel godoc
// @Summary      Cancel an order
// @Description  Cancel a non-final order with a reason. Restores tracked stock.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body order.CancelOrderRequest true "Cancellation reason"
// @Success      200 {object} dto.Response{data=order.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Sessão inválida")
		return
	}

	orderID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Identificador de pedido inválido")
		return
	}

	var req orderapp.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	order, err := h.orderService.Cancel(c.Request.Context(), tenantID, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}
