package handler

import (
	"github.com/gin-gonic/gin"

	receiptapp "github.com/Rokin-Inteligencia/roksell-sub000/internal/application/receipt"
)

// ReceiptHandler handles order receipt PDF endpoints
type ReceiptHandler struct {
	BaseHandler
	receiptService *receiptapp.Service
}

// NewReceiptHandler creates a new ReceiptHandler
func NewReceiptHandler(receiptService *receiptapp.Service) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// GetReceipt godoc
// @Summary      Order receipt PDF
// @Description  Renders the order receipt (kitchen slip or customer slip) and returns a time-limited download link
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        kind query string false "Receipt layout (kitchen, customer)" default(customer)
// @Success      200 {object} dto.Response{data=receipt.ReceiptLinkDTO}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id}/receipt [get]
func (h *ReceiptHandler) GetReceipt(c *gin.Context) {
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

	kind := receiptapp.ReceiptKind(c.DefaultQuery("kind", string(receiptapp.KindCustomer)))
	if !kind.IsValid() {
		h.BadRequest(c, "Tipo de recibo inválido")
		return
	}

	link, err := h.receiptService.ReceiptURL(c.Request.Context(), tenantID, orderID, kind)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, link)
}
