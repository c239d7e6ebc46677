package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	storefrontapp "github.com/Rokin-Inteligencia/roksell-sub000/internal/application/storefront"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/identity"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/store"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/interfaces/http/middleware"
)

// CartSessionHeader carries the opaque cart session id between the
// storefront client and the API. The service mints one on first use;
// responses echo it back so the client can persist it.
const CartSessionHeader = "X-Cart-Session"

// StorefrontHandler handles the public per-store API. Routes resolve
// the merchant from the slug path segment; no authentication beyond
// the cart session id and, for tracking, the phone suffix.
type StorefrontHandler struct {
	BaseHandler
	tenantRepo      identity.TenantRepository
	storeRepo       store.StoreRepository
	catalogView     *storefrontapp.CatalogViewService
	cartService     *storefrontapp.CartService
	checkoutService *storefrontapp.CheckoutService
}

// NewStorefrontHandler creates a new StorefrontHandler
func NewStorefrontHandler(
	tenantRepo identity.TenantRepository,
	storeRepo store.StoreRepository,
	catalogView *storefrontapp.CatalogViewService,
	cartService *storefrontapp.CartService,
	checkoutService *storefrontapp.CheckoutService,
) *StorefrontHandler {
	return &StorefrontHandler{
		tenantRepo:      tenantRepo,
		storeRepo:       storeRepo,
		catalogView:     catalogView,
		cartService:     cartService,
		checkoutService: checkoutService,
	}
}

// resolveStore maps the request slug to the tenant and its default
// store. Suspended tenants and inactive stores are indistinguishable
// from unknown slugs.
func (h *StorefrontHandler) resolveStore(c *gin.Context) (tenantID, storeID uuid.UUID, ok bool) {
	slug := middleware.GetStoreSlug(c)
	if slug == "" {
		h.NotFound(c, "Loja não encontrada.")
		return uuid.Nil, uuid.Nil, false
	}

	tenant, err := h.tenantRepo.FindBySlug(c.Request.Context(), slug)
	if err != nil || tenant == nil || tenant.IsSuspended() {
		h.NotFound(c, "Loja não encontrada.")
		return uuid.Nil, uuid.Nil, false
	}

	st, err := h.storeRepo.FindDefault(c.Request.Context(), tenant.ID)
	if err != nil || st == nil || !st.IsActive() {
		h.NotFound(c, "Loja não encontrada.")
		return uuid.Nil, uuid.Nil, false
	}

	return tenant.ID, st.ID, true
}

func (h *StorefrontHandler) cartSession(c *gin.Context) string {
	return c.GetHeader(CartSessionHeader)
}

func (h *StorefrontHandler) respondCart(c *gin.Context, cart *storefrontapp.CartResponse) {
	c.Header(CartSessionHeader, cart.SessionID)
	h.Success(c, cart)
}

// GetProfile godoc
// @Summary      Public store profile
// @Description  Store identity, fulfillment options, schedule and whether it is open now
// @Tags         storefront
// @Produce      json
// @Param        slug path string true "Store slug"
// @Success      200 {object} dto.Response{data=storefront.StoreProfileResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /store/{slug}/profile [get]
func (h *StorefrontHandler) GetProfile(c *gin.Context) {
	tenantID, storeID, ok := h.resolveStore(c)
	if !ok {
		return
	}

	profile, err := h.catalogView.GetProfile(c.Request.Context(), tenantID, storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, profile)
}

// GetCatalog godoc
// @Summary      Public catalog
// @Description  Active categories with their active, in-stock products, option groups and media
// @Tags         storefront
// @Produce      json
// @Param        slug path string true "Store slug"
// @Success      200 {object} dto.Response{data=storefront.CatalogResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /store/{slug}/catalog [get]
func (h *StorefrontHandler) GetCatalog(c *gin.Context) {
	tenantID, storeID, ok := h.resolveStore(c)
	if !ok {
		return
	}

	catalog, err := h.catalogView.GetCatalog(c.Request.Context(), tenantID, storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, catalog)
}

// GetCart godoc
// @Summary      Session cart
// @Description  The cart for the X-Cart-Session header; a new session is minted when absent
// @Tags         storefront
// @Produce      json
// @Param        slug path string true "Store slug"
// @Param        X-Cart-Session header string false "Cart session id"
// @Success      200 {object} dto.Response{data=storefront.CartResponse}
// @Router       /store/{slug}/cart [get]
func (h *StorefrontHandler) GetCart(c *gin.Context) {
	tenantID, storeID, ok := h.resolveStore(c)
	if !ok {
		return
	}

	cart, err := h.cartService.GetCart(c.Request.Context(), tenantID, storeID, h.cartSession(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.respondCart(c, cart)
}

// AddCartItem godoc
// @Summary      Add to cart
// @Description  Adds a product with its additional selections; equal lines are merged
// @Tags         storefront
// @Accept       json
// @Produce      json
// @Param        slug path string true "Store slug"
// @Param        X-Cart-Session header string false "Cart session id"
// @Param        request body storefront.AddCartItemRequest true "Line to add"
// @Success      200 {object} dto.Response{data=storefront.CartResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /store/{slug}/cart/items [post]
func (h *StorefrontHandler) AddCartItem(c *gin.Context) {
	tenantID, storeID, ok := h.resolveStore(c)
	if !ok {
		return
	}

	var req storefrontapp.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), tenantID, storeID, h.cartSession(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.respondCart(c, cart)
}

// UpdateCartItem godoc
// @Summary      Change cart line quantity
// @Tags         storefront
// @Accept       json
// @Produce      json
// @Param        slug path string true "Store slug"
// @Param        X-Cart-Session header string true "Cart session id"
// @Param        item_id path string true "Cart line ID"
// @Param        request body storefront.UpdateCartItemRequest true "New quantity"
// @Success      200 {object} dto.Response{data=storefront.CartResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /store/{slug}/cart/items/{item_id} [put]
func (h *StorefrontHandler) UpdateCartItem(c *gin.Context) {
	tenantID, storeID, ok := h.resolveStore(c)
	if !ok {
		return
	}

	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		h.BadRequest(c, "Identificador de item inválido")
		return
	}

	var req storefrontapp.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	cart, err := h.cartService.UpdateItem(c.Request.Context(), tenantID, storeID, h.cartSession(c), itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.respondCart(c, cart)
}

// RemoveCartItem godoc
// @Summary      Remove a cart line
// @Tags         storefront
// @Produce      json
// @Param        slug path string true "Store slug"
// @Param        X-Cart-Session header string true "Cart session id"
// @Param        item_id path string true "Cart line ID"
// @Success      200 {object} dto.Response{data=storefront.CartResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /store/{slug}/cart/items/{item_id} [delete]
func (h *StorefrontHandler) RemoveCartItem(c *gin.Context) {
	tenantID, storeID, ok := h.resolveStore(c)
	if !ok {
		return
	}

	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		h.BadRequest(c, "Identificador de item inválido")
		return
	}

	cart, err := h.cartService.RemoveItem(c.Request.Context(), tenantID, storeID, h.cartSession(c), itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.respondCart(c, cart)
}

// ClearCart godoc
// @Summary      Empty the cart
// @Tags         storefront
// @Produce      json
// @Param        slug path string true "Store slug"
// @Param        X-Cart-Session header string true "Cart session id"
// @Success      200 {object} dto.Response{data=storefront.CartResponse}
// @Router       /store/{slug}/cart [delete]
func (h *StorefrontHandler) ClearCart(c *gin.Context) {
	tenantID, storeID, ok := h.resolveStore(c)
	if !ok {
		return
	}

	cart, err := h.cartService.Clear(c.Request.Context(), tenantID, storeID, h.cartSession(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.respondCart(c, cart)
}

// PreviewCheckout godoc
// @Summary      Checkout preview
// @Description  Totals breakdown with delivery fee, campaign discount and warnings; never fails for fixable conditions
// @Tags         storefront
// @Accept       json
// @Produce      json
// @Param        slug path string true "Store slug"
// @Param        X-Cart-Session header string true "Cart session id"
// @Param        request body storefront.CheckoutPreviewRequest true "Fulfillment, CEP and coupon"
// @Success      200 {object} dto.Response{data=storefront.CheckoutPreviewResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /store/{slug}/checkout/preview [post]
func (h *StorefrontHandler) PreviewCheckout(c *gin.Context) {
	tenantID, storeID, ok := h.resolveStore(c)
	if !ok {
		return
	}

	var req storefrontapp.CheckoutPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	preview, err := h.checkoutService.Preview(c.Request.Context(), tenantID, storeID, h.cartSession(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, preview)
}

// PlaceOrder godoc
// @Summary      Place the order
// @Description  Converts the session cart into a PENDING order and clears the cart
// @Tags         storefront
// @Accept       json
// @Produce      json
// @Param        slug path string true "Store slug"
// @Param        X-Cart-Session header string true "Cart session id"
// @Param        request body storefront.PlaceOrderRequest true "Customer, fulfillment and payment"
// @Success      201 {object} dto.Response{data=storefront.PlacedOrderResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /store/{slug}/checkout [post]
func (h *StorefrontHandler) PlaceOrder(c *gin.Context) {
	tenantID, storeID, ok := h.resolveStore(c)
	if !ok {
		return
	}

	var req storefrontapp.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	placed, err := h.checkoutService.PlaceOrder(c.Request.Context(), tenantID, storeID, h.cartSession(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, placed)
}

// TrackOrder godoc
// @Summary      Track an order
// @Description  Public order status by number; requires at least four trailing digits of the customer's phone
// @Tags         storefront
// @Produce      json
// @Param        slug path string true "Store slug"
// @Param        number path int true "Order number"
// @Param        phone query string true "Trailing digits of the customer phone"
// @Success      200 {object} dto.Response{data=storefront.OrderTrackingResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /store/{slug}/orders/{number}/track [get]
func (h *StorefrontHandler) TrackOrder(c *gin.Context) {
	tenantID, storeID, ok := h.resolveStore(c)
	if !ok {
		return
	}

	number, err := strconv.ParseInt(c.Param("number"), 10, 64)
	if err != nil || number <= 0 {
		h.BadRequest(c, "Número de pedido inválido")
		return
	}

	tracking, err := h.checkoutService.Track(c.Request.Context(), tenantID, storeID, number, c.Query("phone"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tracking)
}
