package order

import (
	"time"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/order"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UpdateOrderStatusRequest represents a request to move an order through
// the fulfillment flow
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=CONFIRMED PREPARING OUT_FOR_DELIVERY READY_FOR_PICKUP DELIVERED CANCELLED"`
	Reason string `json:"reason" binding:"required_if=Status CANCELLED,max=300"`
}

// CancelOrderRequest represents a request to cancel an order
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=300"`
}

// OrderListFilter represents filter options for the order list
type OrderListFilter struct {
	StoreID    *uuid.UUID `form:"store_id"`
	CustomerID *uuid.UUID `form:"customer_id"`
	Status     string     `form:"status" binding:"omitempty,oneof=PENDING CONFIRMED PREPARING OUT_FOR_DELIVERY READY_FOR_PICKUP DELIVERED CANCELLED"`
	From       *time.Time `form:"from"`
	To         *time.Time `form:"to"`
	Search     string     `form:"search"`
	Page       int        `form:"page" binding:"min=0"`
	PageSize   int        `form:"page_size" binding:"min=0,max=100"`
}

// SummaryFilter represents the period and scope of the order summary
type SummaryFilter struct {
	StoreID *uuid.UUID `form:"store_id"`
	From    *time.Time `form:"from"`
	To      *time.Time `form:"to"`
}

// OrderItemAdditionalResponse represents a picked additional on an order line
type OrderItemAdditionalResponse struct {
	GroupID    uuid.UUID       `json:"group_id"`
	GroupName  string          `json:"group_name"`
	ItemID     uuid.UUID       `json:"item_id"`
	Name       string          `json:"name"`
	PriceDelta decimal.Decimal `json:"price_delta"`
}

// OrderItemResponse represents an order line in API responses
type OrderItemResponse struct {
	ID          uuid.UUID                     `json:"id"`
	ProductID   uuid.UUID                     `json:"product_id"`
	ProductName string                        `json:"product_name"`
	Quantity    int                           `json:"quantity"`
	UnitPrice   decimal.Decimal               `json:"unit_price"`
	AddonsPrice decimal.Decimal               `json:"addons_price"`
	LineTotal   decimal.Decimal               `json:"line_total"`
	Note        string                        `json:"note,omitempty"`
	Additionals []OrderItemAdditionalResponse `json:"additionals,omitempty"`
}

// DeliveryAddressResponse represents the delivery address of an order
type DeliveryAddressResponse struct {
	Label      string `json:"label,omitempty"`
	CEP        string `json:"cep"`
	Street     string `json:"street"`
	Number     string `json:"number"`
	Complement string `json:"complement,omitempty"`
	District   string `json:"district"`
	City       string `json:"city"`
	State      string `json:"state"`
	Reference  string `json:"reference,omitempty"`
	Display    string `json:"display"`
}

// OrderResponse represents a full order in API responses
type OrderResponse struct {
	ID               uuid.UUID                `json:"id"`
	TenantID         uuid.UUID                `json:"tenant_id"`
	StoreID          uuid.UUID                `json:"store_id"`
	Number           int64                    `json:"number"`
	NumberFormatted  string                   `json:"number_formatted"`
	CustomerID       uuid.UUID                `json:"customer_id"`
	CustomerName     string                   `json:"customer_name"`
	CustomerPhone    string                   `json:"customer_phone"`
	CustomerDocument string                   `json:"customer_document,omitempty"`
	Fulfillment      string                   `json:"fulfillment"`
	DeliveryAddress  *DeliveryAddressResponse `json:"delivery_address,omitempty"`
	PaymentMethod    string                   `json:"payment_method"`
	ChangeFor        *decimal.Decimal         `json:"change_for,omitempty"`
	ChangeDue        decimal.Decimal          `json:"change_due"`
	Items            []OrderItemResponse      `json:"items"`
	Subtotal         decimal.Decimal          `json:"subtotal"`
	DeliveryFee      decimal.Decimal          `json:"delivery_fee"`
	Discount         decimal.Decimal          `json:"discount"`
	Total            decimal.Decimal          `json:"total"`
	CampaignID       *uuid.UUID               `json:"campaign_id,omitempty"`
	CouponCode       string                   `json:"coupon_code,omitempty"`
	Status           string                   `json:"status"`
	Note             string                   `json:"note,omitempty"`
	ConfirmedAt      *time.Time               `json:"confirmed_at,omitempty"`
	PreparingAt      *time.Time               `json:"preparing_at,omitempty"`
	DispatchedAt     *time.Time               `json:"dispatched_at,omitempty"`
	DeliveredAt      *time.Time               `json:"delivered_at,omitempty"`
	CancelledAt      *time.Time               `json:"cancelled_at,omitempty"`
	CancelReason     string                   `json:"cancel_reason,omitempty"`
	CreatedAt        time.Time                `json:"created_at"`
	UpdatedAt        time.Time                `json:"updated_at"`
	Version          int                      `json:"version"`
}

// OrderListResponse represents an order in list and board views
type OrderListResponse struct {
	ID              uuid.UUID       `json:"id"`
	StoreID         uuid.UUID       `json:"store_id"`
	Number          int64           `json:"number"`
	NumberFormatted string          `json:"number_formatted"`
	CustomerName    string          `json:"customer_name"`
	CustomerPhone   string          `json:"customer_phone"`
	Fulfillment     string          `json:"fulfillment"`
	PaymentMethod   string          `json:"payment_method"`
	Status          string          `json:"status"`
	ItemCount       int             `json:"item_count"`
	TotalQuantity   int             `json:"total_quantity"`
	Total           decimal.Decimal `json:"total"`
	CreatedAt       time.Time       `json:"created_at"`
}

// OrderSummaryResponse represents aggregated order figures for a period
type OrderSummaryResponse struct {
	From          time.Time        `json:"from"`
	To            time.Time        `json:"to"`
	OrderCount    int64            `json:"order_count"`
	Revenue       decimal.Decimal  `json:"revenue"`
	AverageTicket decimal.Decimal  `json:"average_ticket"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i := range o.Items {
		items[i] = toOrderItemResponse(&o.Items[i])
	}

	var address *DeliveryAddressResponse
	if o.Fulfillment == order.FulfillmentDelivery && !o.DeliveryAddress.IsZero() {
		address = toDeliveryAddressResponse(o.DeliveryAddress)
	}

	return OrderResponse{
		ID:               o.ID,
		TenantID:         o.TenantID,
		StoreID:          o.StoreID,
		Number:           o.Number,
		NumberFormatted:  o.NumberFormatted(),
		CustomerID:       o.CustomerID,
		CustomerName:     o.CustomerName,
		CustomerPhone:    o.CustomerPhone,
		CustomerDocument: o.CustomerDocument,
		Fulfillment:      string(o.Fulfillment),
		DeliveryAddress:  address,
		PaymentMethod:    string(o.PaymentMethod),
		ChangeFor:        o.ChangeFor,
		ChangeDue:        o.ChangeDue().Amount(),
		Items:            items,
		Subtotal:         o.Subtotal,
		DeliveryFee:      o.DeliveryFee,
		Discount:         o.Discount,
		Total:            o.Total,
		CampaignID:       o.CampaignID,
		CouponCode:       o.CouponCode,
		Status:           string(o.Status),
		Note:             o.Note,
		ConfirmedAt:      o.ConfirmedAt,
		PreparingAt:      o.PreparingAt,
		DispatchedAt:     o.DispatchedAt,
		DeliveredAt:      o.DeliveredAt,
		CancelledAt:      o.CancelledAt,
		CancelReason:     o.CancelReason,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
		Version:          o.Version,
	}
}

// ToOrderListResponse converts a domain Order to its list form
func ToOrderListResponse(o *order.Order) OrderListResponse {
	return OrderListResponse{
		ID:              o.ID,
		StoreID:         o.StoreID,
		Number:          o.Number,
		NumberFormatted: o.NumberFormatted(),
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		Fulfillment:     string(o.Fulfillment),
		PaymentMethod:   string(o.PaymentMethod),
		Status:          string(o.Status),
		ItemCount:       o.ItemCount(),
		TotalQuantity:   o.TotalQuantity(),
		Total:           o.Total,
		CreatedAt:       o.CreatedAt,
	}
}

// ToOrderListResponses converts a slice of domain Orders to list responses
func ToOrderListResponses(orders []*order.Order) []OrderListResponse {
	responses := make([]OrderListResponse, len(orders))
	for i, o := range orders {
		responses[i] = ToOrderListResponse(o)
	}
	return responses
}

func toOrderItemResponse(item *order.OrderItem) OrderItemResponse {
	additionals, _ := item.GetAdditionals()
	additionalResponses := make([]OrderItemAdditionalResponse, len(additionals))
	for i, a := range additionals {
		additionalResponses[i] = OrderItemAdditionalResponse{
			GroupID:    a.GroupID,
			GroupName:  a.GroupName,
			ItemID:     a.ItemID,
			Name:       a.Name,
			PriceDelta: a.PriceDelta,
		}
	}

	return OrderItemResponse{
		ID:          item.ID,
		ProductID:   item.ProductID,
		ProductName: item.ProductName,
		Quantity:    item.Quantity,
		UnitPrice:   item.UnitPrice,
		AddonsPrice: item.AddonsPrice,
		LineTotal:   item.LineTotal,
		Note:        item.Note,
		Additionals: additionalResponses,
	}
}

func toDeliveryAddressResponse(a valueobject.Address) *DeliveryAddressResponse {
	return &DeliveryAddressResponse{
		Label:      a.Label,
		CEP:        a.CEP,
		Street:     a.Street,
		Number:     a.Number,
		Complement: a.Complement,
		District:   a.District,
		City:       a.City,
		State:      a.State,
		Reference:  a.Reference,
		Display:    a.OneLine(),
	}
}
