package order

import (
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type for order events
const AggregateTypeOrder = "order"

// Event types for order aggregate
const (
	EventTypeOrderPlaced        = "order.placed"
	EventTypeOrderConfirmed     = "order.confirmed"
	EventTypeOrderStatusChanged = "order.status_changed"
	EventTypeOrderDelivered     = "order.delivered"
	EventTypeOrderCancelled     = "order.cancelled"
)

// OrderPlacedEvent represents an order placed through the storefront
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	StoreID       uuid.UUID       `json:"store_id"`
	Number        int64           `json:"number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	Total         decimal.Decimal `json:"total"`
}

// NewOrderPlacedEvent creates a new order placed event
func NewOrderPlacedEvent(order *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, order.ID, order.TenantID),
		StoreID:         order.StoreID,
		Number:          order.Number,
		CustomerID:      order.CustomerID,
		CustomerName:    order.CustomerName,
		CustomerPhone:   order.CustomerPhone,
		Total:           order.Total,
	}
}

// OrderConfirmedEvent represents a merchant accepting an order
type OrderConfirmedEvent struct {
	shared.BaseDomainEvent
	StoreID       uuid.UUID       `json:"store_id"`
	Number        int64           `json:"number"`
	CustomerPhone string          `json:"customer_phone"`
	Total         decimal.Decimal `json:"total"`
}

// NewOrderConfirmedEvent creates a new order confirmed event
func NewOrderConfirmedEvent(order *Order) *OrderConfirmedEvent {
	return &OrderConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderConfirmed, AggregateTypeOrder, order.ID, order.TenantID),
		StoreID:         order.StoreID,
		Number:          order.Number,
		CustomerPhone:   order.CustomerPhone,
		Total:           order.Total,
	}
}

// OrderStatusChangedEvent represents an order moving through the flow
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	StoreID       uuid.UUID   `json:"store_id"`
	Number        int64       `json:"number"`
	CustomerPhone string      `json:"customer_phone"`
	OldStatus     OrderStatus `json:"old_status"`
	NewStatus     OrderStatus `json:"new_status"`
}

// NewOrderStatusChangedEvent creates a new order status changed event
func NewOrderStatusChangedEvent(order *Order, oldStatus, newStatus OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, order.ID, order.TenantID),
		StoreID:         order.StoreID,
		Number:          order.Number,
		CustomerPhone:   order.CustomerPhone,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// OrderDeliveredEvent represents an order reaching the customer
type OrderDeliveredEvent struct {
	shared.BaseDomainEvent
	StoreID       uuid.UUID       `json:"store_id"`
	Number        int64           `json:"number"`
	CustomerPhone string          `json:"customer_phone"`
	OldStatus     OrderStatus     `json:"old_status"`
	Total         decimal.Decimal `json:"total"`
}

// NewOrderDeliveredEvent creates a new order delivered event
func NewOrderDeliveredEvent(order *Order, oldStatus OrderStatus) *OrderDeliveredEvent {
	return &OrderDeliveredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderDelivered, AggregateTypeOrder, order.ID, order.TenantID),
		StoreID:         order.StoreID,
		Number:          order.Number,
		CustomerPhone:   order.CustomerPhone,
		OldStatus:       oldStatus,
		Total:           order.Total,
	}
}

// OrderCancelledEvent represents an order being cancelled. WasConfirmed
// tells stock handling whether decremented quantities must be restored.
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	StoreID       uuid.UUID   `json:"store_id"`
	Number        int64       `json:"number"`
	CustomerPhone string      `json:"customer_phone"`
	OldStatus     OrderStatus `json:"old_status"`
	Reason        string      `json:"reason"`
	WasConfirmed  bool        `json:"was_confirmed"`
}

// NewOrderCancelledEvent creates a new order cancelled event
func NewOrderCancelledEvent(order *Order, oldStatus OrderStatus, wasConfirmed bool) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, AggregateTypeOrder, order.ID, order.TenantID),
		StoreID:         order.StoreID,
		Number:          order.Number,
		CustomerPhone:   order.CustomerPhone,
		OldStatus:       oldStatus,
		Reason:          order.CancelReason,
		WasConfirmed:    wasConfirmed,
	}
}
