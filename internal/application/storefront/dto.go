package storefront

import (
	"time"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared/valueobject"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/store"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/storefront"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StoreProfileResponse is the public profile of a store
type StoreProfileResponse struct {
	ID              uuid.UUID            `json:"id"`
	Name            string               `json:"name"`
	Description     string               `json:"description,omitempty"`
	Phone           string               `json:"phone,omitempty"`
	WhatsApp        string               `json:"whatsapp,omitempty"`
	Address         string               `json:"address,omitempty"`
	LogoURL         string               `json:"logo_url,omitempty"`
	BannerURL       string               `json:"banner_url,omitempty"`
	Timezone        string               `json:"timezone"`
	DeliveryEnabled bool                 `json:"delivery_enabled"`
	PickupEnabled   bool                 `json:"pickup_enabled"`
	MinOrderAmount  decimal.Decimal      `json:"min_order_amount"`
	FlatDeliveryFee decimal.Decimal      `json:"flat_delivery_fee"`
	PrepTimeMinutes int                  `json:"prep_time_minutes"`
	OpenNow         bool                 `json:"open_now"`
	NextOrderAt     *time.Time           `json:"next_order_at,omitempty"`
	Schedule        store.WeeklySchedule `json:"schedule"`
	BlockedDates    []string             `json:"blocked_dates"`
}

// ToStoreProfileResponse converts a domain Store to its public profile
func ToStoreProfileResponse(s *store.Store) StoreProfileResponse {
	now := time.Now()
	schedule, _ := s.GetSchedule()
	blocked, _ := s.GetBlockedDates()

	openNow := s.IsOpenAt(now)
	var nextOrderAt *time.Time
	if !openNow {
		if next, err := s.NextValidOrderTime(now); err == nil {
			nextOrderAt = &next
		}
	}

	return StoreProfileResponse{
		ID:              s.ID,
		Name:            s.Name,
		Description:     s.Description,
		Phone:           s.Phone,
		WhatsApp:        s.WhatsApp,
		Address:         s.Address.OneLine(),
		LogoURL:         s.LogoURL,
		BannerURL:       s.BannerURL,
		Timezone:        s.Timezone,
		DeliveryEnabled: s.DeliveryEnabled,
		PickupEnabled:   s.PickupEnabled,
		MinOrderAmount:  s.MinOrderAmount.Amount(),
		FlatDeliveryFee: s.FlatDeliveryFee.Amount(),
		PrepTimeMinutes: s.PrepTimeMinutes,
		OpenNow:         openNow,
		NextOrderAt:     nextOrderAt,
		Schedule:        schedule,
		BlockedDates:    blocked,
	}
}

// CatalogAdditionalItemResponse is one selectable option in the public catalog
type CatalogAdditionalItemResponse struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	PriceDelta decimal.Decimal `json:"price_delta"`
}

// CatalogAdditionalGroupResponse is an option group in the public catalog
type CatalogAdditionalGroupResponse struct {
	ID          uuid.UUID                       `json:"id"`
	Name        string                          `json:"name"`
	Description string                          `json:"description,omitempty"`
	MinSelect   int                             `json:"min_select"`
	MaxSelect   int                             `json:"max_select"`
	Items       []CatalogAdditionalItemResponse `json:"items"`
}

// CatalogProductResponse is a product as the storefront displays it
type CatalogProductResponse struct {
	ID               uuid.UUID                        `json:"id"`
	Name             string                           `json:"name"`
	Description      string                           `json:"description,omitempty"`
	Price            decimal.Decimal                  `json:"price"`
	PromoPrice       *decimal.Decimal                 `json:"promo_price,omitempty"`
	EffectivePrice   decimal.Decimal                  `json:"effective_price"`
	ImageURL         string                           `json:"image_url,omitempty"`
	VideoURL         string                           `json:"video_url,omitempty"`
	Featured         bool                             `json:"featured"`
	AdditionalGroups []CatalogAdditionalGroupResponse `json:"additional_groups,omitempty"`
}

// CatalogCategoryResponse is a menu section with its products
type CatalogCategoryResponse struct {
	ID       uuid.UUID                `json:"id"`
	Name     string                   `json:"name"`
	ImageURL string                   `json:"image_url,omitempty"`
	Products []CatalogProductResponse `json:"products"`
}

// CatalogResponse is the public catalog of a store. Products without a
// category land in Other.
type CatalogResponse struct {
	Categories []CatalogCategoryResponse `json:"categories"`
	Other      []CatalogProductResponse  `json:"other,omitempty"`
	Featured   []CatalogProductResponse  `json:"featured,omitempty"`
}

// CartSelectionRequest is the buyer's picks from one additional group
type CartSelectionRequest struct {
	GroupID uuid.UUID   `json:"group_id" binding:"required"`
	ItemIDs []uuid.UUID `json:"item_ids" binding:"omitempty,max=20"`
}

// AddCartItemRequest represents a request to add a line to the cart
type AddCartItemRequest struct {
	ProductID  uuid.UUID              `json:"product_id" binding:"required"`
	Quantity   int                    `json:"quantity" binding:"required,min=1,max=50"`
	Selections []CartSelectionRequest `json:"selections" binding:"omitempty,dive"`
	Note       string                 `json:"note" binding:"max=300"`
}

// UpdateCartItemRequest represents a request to change a line's quantity
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1,max=50"`
}

// CartSelectionItemResponse is one picked additional with its price delta
type CartSelectionItemResponse struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	PriceDelta decimal.Decimal `json:"price_delta"`
}

// CartSelectionResponse is the picks of one group on a cart line
type CartSelectionResponse struct {
	GroupID   uuid.UUID                   `json:"group_id"`
	GroupName string                      `json:"group_name"`
	Items     []CartSelectionItemResponse `json:"items"`
}

// CartItemResponse is a priced cart line. Unavailable lines keep their
// place in the cart but are excluded from the subtotal.
type CartItemResponse struct {
	ID          uuid.UUID               `json:"id"`
	ProductID   uuid.UUID               `json:"product_id"`
	ProductName string                  `json:"product_name"`
	Available   bool                    `json:"available"`
	Quantity    int                     `json:"quantity"`
	UnitPrice   decimal.Decimal         `json:"unit_price"`
	AddonsPrice decimal.Decimal         `json:"addons_price"`
	LineTotal   decimal.Decimal         `json:"line_total"`
	Selections  []CartSelectionResponse `json:"selections,omitempty"`
	Note        string                  `json:"note,omitempty"`
}

// CartResponse is the session cart with current prices
type CartResponse struct {
	SessionID     string             `json:"session_id"`
	StoreID       uuid.UUID          `json:"store_id"`
	Items         []CartItemResponse `json:"items"`
	TotalQuantity int                `json:"total_quantity"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
}

// CheckoutPreviewRequest asks for a totals breakdown before placing the
// order. CEP is required for delivery; phone improves first-order
// campaign checks.
type CheckoutPreviewRequest struct {
	Fulfillment   string `json:"fulfillment" binding:"required,oneof=delivery pickup"`
	CEP           string `json:"cep" binding:"omitempty,cep"`
	CouponCode    string `json:"coupon_code" binding:"omitempty,max=30"`
	PaymentMethod string `json:"payment_method" binding:"omitempty,oneof=cash credit_card debit_card pix"`
	CustomerPhone string `json:"customer_phone" binding:"omitempty,max=20"`
}

// Preview warning codes
const (
	WarnStoreClosed     = "STORE_CLOSED"
	WarnMinimumNotMet   = "MINIMUM_NOT_MET"
	WarnFeeEstimated    = "FEE_ESTIMATED"
	WarnCouponInvalid   = "COUPON_INVALID"
	WarnCouponRejected  = "COUPON_NOT_APPLICABLE"
	WarnItemUnavailable = "ITEM_UNAVAILABLE"
)

// PreviewWarning flags a condition the buyer should resolve before
// checkout; the preview still returns totals
type PreviewWarning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// AppliedCampaignResponse identifies the campaign behind a discount
type AppliedCampaignResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	DiscountKind string    `json:"discount_kind"`
	CouponCode   string    `json:"coupon_code,omitempty"`
}

// CheckoutPreviewResponse is the totals breakdown for the current cart
type CheckoutPreviewResponse struct {
	Items        []CartItemResponse       `json:"items"`
	Subtotal     decimal.Decimal          `json:"subtotal"`
	DeliveryFee  decimal.Decimal          `json:"delivery_fee"`
	FeeEstimated bool                     `json:"fee_estimated"`
	Discount     decimal.Decimal          `json:"discount"`
	Total        decimal.Decimal          `json:"total"`
	Campaign     *AppliedCampaignResponse `json:"campaign,omitempty"`
	StoreOpen    bool                     `json:"store_open"`
	NextOrderAt  *time.Time               `json:"next_order_at,omitempty"`
	Warnings     []PreviewWarning         `json:"warnings,omitempty"`
}

// CheckoutAddressRequest is the delivery address of a placed order
type CheckoutAddressRequest struct {
	CEP        string `json:"cep" binding:"required,cep"`
	Street     string `json:"street" binding:"required,min=1,max=200"`
	Number     string `json:"number" binding:"required,min=1,max=20"`
	Complement string `json:"complement" binding:"max=100"`
	District   string `json:"district" binding:"required,min=1,max=100"`
	City       string `json:"city" binding:"required,min=1,max=100"`
	State      string `json:"state" binding:"required,len=2"`
	Reference  string `json:"reference" binding:"max=200"`
}

// ToAddress converts the request to the Address value object
func (r CheckoutAddressRequest) ToAddress() (valueobject.Address, error) {
	return valueobject.NewAddress("", r.CEP, r.Street, r.Number, r.Complement,
		r.District, r.City, r.State, r.Reference)
}

// PlaceOrderRequest places the session cart as an order
type PlaceOrderRequest struct {
	CustomerName     string                  `json:"customer_name" binding:"required,min=1,max=150"`
	CustomerPhone    string                  `json:"customer_phone" binding:"required,min=8,max=20"`
	CustomerDocument string                  `json:"customer_document" binding:"omitempty,cpfcnpj"`
	Fulfillment      string                  `json:"fulfillment" binding:"required,oneof=delivery pickup"`
	Address          *CheckoutAddressRequest `json:"address"`
	PaymentMethod    string                  `json:"payment_method" binding:"required,oneof=cash credit_card debit_card pix"`
	ChangeFor        *decimal.Decimal        `json:"change_for"`
	CouponCode       string                  `json:"coupon_code" binding:"omitempty,max=30"`
	Note             string                  `json:"note" binding:"max=500"`
}

// PlacedOrderResponse confirms a placed order to the buyer
type PlacedOrderResponse struct {
	OrderID          uuid.UUID       `json:"order_id"`
	Number           int64           `json:"number"`
	NumberFormatted  string          `json:"number_formatted"`
	Status           string          `json:"status"`
	Fulfillment      string          `json:"fulfillment"`
	PaymentMethod    string          `json:"payment_method"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	DeliveryFee      decimal.Decimal `json:"delivery_fee"`
	Discount         decimal.Decimal `json:"discount"`
	Total            decimal.Decimal `json:"total"`
	ChangeDue        decimal.Decimal `json:"change_due"`
	EstimatedReadyAt *time.Time      `json:"estimated_ready_at,omitempty"`
	PlacedAt         time.Time       `json:"placed_at"`
}

// TrackingItemResponse is an order line in the public tracking view
type TrackingItemResponse struct {
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// OrderTrackingResponse is the public view of an order's progress
type OrderTrackingResponse struct {
	Number          int64                  `json:"number"`
	NumberFormatted string                 `json:"number_formatted"`
	Status          string                 `json:"status"`
	Fulfillment     string                 `json:"fulfillment"`
	PaymentMethod   string                 `json:"payment_method"`
	DeliveryAddress string                 `json:"delivery_address,omitempty"`
	Items           []TrackingItemResponse `json:"items"`
	Subtotal        decimal.Decimal        `json:"subtotal"`
	DeliveryFee     decimal.Decimal        `json:"delivery_fee"`
	Discount        decimal.Decimal        `json:"discount"`
	Total           decimal.Decimal        `json:"total"`
	PlacedAt        time.Time              `json:"placed_at"`
	ConfirmedAt     *time.Time             `json:"confirmed_at,omitempty"`
	DispatchedAt    *time.Time             `json:"dispatched_at,omitempty"`
	DeliveredAt     *time.Time             `json:"delivered_at,omitempty"`
	CancelledAt     *time.Time             `json:"cancelled_at,omitempty"`
	CancelReason    string                 `json:"cancel_reason,omitempty"`
}

// ToCartResponse builds the priced cart view
func ToCartResponse(cart *storefront.Cart, priced *pricedCart) CartResponse {
	items := make([]CartItemResponse, len(priced.lines))
	for i, line := range priced.lines {
		items[i] = line.toResponse()
	}
	return CartResponse{
		SessionID:     cart.SessionID,
		StoreID:       cart.StoreID,
		Items:         items,
		TotalQuantity: cart.TotalQuantity(),
		Subtotal:      priced.subtotal.Amount(),
	}
}
