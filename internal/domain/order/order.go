package order

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OrderStatus represents the status of a storefront order
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "PENDING"
	OrderStatusConfirmed      OrderStatus = "CONFIRMED"
	OrderStatusPreparing      OrderStatus = "PREPARING"
	OrderStatusOutForDelivery OrderStatus = "OUT_FOR_DELIVERY"
	OrderStatusReadyForPickup OrderStatus = "READY_FOR_PICKUP"
	OrderStatusDelivered      OrderStatus = "DELIVERED"
	OrderStatusCancelled      OrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusOutForDelivery, OrderStatusReadyForPickup,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal returns true for states no transition leaves
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo checks if the status can transition to the target.
// The dispatch step depends on fulfillment: delivery orders go out for
// delivery, pickup orders become ready for pickup.
func (s OrderStatus) CanTransitionTo(target OrderStatus, fulfillment FulfillmentKind) bool {
	if target == OrderStatusCancelled {
		return !s.IsTerminal()
	}
	switch s {
	case OrderStatusPending:
		return target == OrderStatusConfirmed
	case OrderStatusConfirmed:
		return target == OrderStatusPreparing
	case OrderStatusPreparing:
		if fulfillment == FulfillmentPickup {
			return target == OrderStatusReadyForPickup
		}
		return target == OrderStatusOutForDelivery
	case OrderStatusOutForDelivery, OrderStatusReadyForPickup:
		return target == OrderStatusDelivered
	}
	return false
}

// FulfillmentKind represents how the order reaches the customer
type FulfillmentKind string

const (
	FulfillmentDelivery FulfillmentKind = "delivery"
	FulfillmentPickup   FulfillmentKind = "pickup"
)

// IsValid checks if the fulfillment kind is valid
func (k FulfillmentKind) IsValid() bool {
	return k == FulfillmentDelivery || k == FulfillmentPickup
}

// PaymentMethod represents how the customer pays on delivery or pickup
type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "cash"
	PaymentCreditCard PaymentMethod = "credit_card"
	PaymentDebitCard  PaymentMethod = "debit_card"
	PaymentPix        PaymentMethod = "pix"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentPix:
		return true
	}
	return false
}

// OrderItemAdditional is the snapshot of one picked additional, stored
// as JSON on the order item
type OrderItemAdditional struct {
	ItemID     uuid.UUID       `json:"item_id"`
	GroupID    uuid.UUID       `json:"group_id"`
	GroupName  string          `json:"group_name"`
	Name       string          `json:"name"`
	PriceDelta decimal.Decimal `json:"price_delta"`
}

// OrderItem is a line of the order. Product name and prices are
// snapshots taken at order time; later catalog edits do not touch
// placed orders.
type OrderItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	TenantID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	CategoryID  *uuid.UUID      `gorm:"type:uuid"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(15,2);not null"` // Product price per unit at order time
	AddonsPrice decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"` // Additionals per unit
	LineTotal   decimal.Decimal `gorm:"type:decimal(15,2);not null"` // (UnitPrice + AddonsPrice) * Quantity
	Note        string          `gorm:"type:varchar(300)"`
	Additionals datatypes.JSON  `gorm:"type:jsonb"` // []OrderItemAdditional
	CreatedAt   time.Time
	UpdatedAt   time.Time

	additionals []OrderItemAdditional `gorm:"-"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrderItem creates an order line from catalog snapshots
func NewOrderItem(orderID, tenantID, productID uuid.UUID, productName string, categoryID *uuid.UUID, quantity int, unitPrice valueobject.Money, additionals []OrderItemAdditional, note string) (*OrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if strings.TrimSpace(productName) == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if len(note) > 300 {
		return nil, shared.NewDomainError("INVALID_NOTE", "Item note cannot exceed 300 characters")
	}

	addonsPrice := decimal.Zero
	for _, add := range additionals {
		if add.PriceDelta.IsNegative() {
			return nil, shared.NewDomainError("INVALID_PRICE", "Additional price cannot be negative")
		}
		addonsPrice = addonsPrice.Add(add.PriceDelta)
	}

	var raw datatypes.JSON
	if len(additionals) > 0 {
		data, err := json.Marshal(additionals)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_ADDITIONALS", "Could not encode additionals")
		}
		raw = data
	}

	now := time.Now()
	lineTotal := unitPrice.Amount().Add(addonsPrice).Mul(decimal.NewFromInt(int64(quantity)))

	return &OrderItem{
		ID:          uuid.New(),
		OrderID:     orderID,
		TenantID:    tenantID,
		ProductID:   productID,
		ProductName: strings.TrimSpace(productName),
		CategoryID:  categoryID,
		Quantity:    quantity,
		UnitPrice:   unitPrice.Amount(),
		AddonsPrice: addonsPrice,
		LineTotal:   lineTotal,
		Note:        strings.TrimSpace(note),
		Additionals: raw,
		additionals: additionals,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// GetAdditionals decodes and returns the additional snapshots
func (i *OrderItem) GetAdditionals() ([]OrderItemAdditional, error) {
	if i.additionals != nil {
		return i.additionals, nil
	}
	additionals := make([]OrderItemAdditional, 0)
	if len(i.Additionals) > 0 {
		if err := json.Unmarshal(i.Additionals, &additionals); err != nil {
			return nil, shared.NewDomainError("INVALID_ADDITIONALS", "Could not decode additionals")
		}
	}
	i.additionals = additionals
	return additionals, nil
}

// LineTotalMoney returns the line total as Money
func (i *OrderItem) LineTotalMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(i.LineTotal)
}

// UnitPriceMoney returns the unit price as Money
func (i *OrderItem) UnitPriceMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(i.UnitPrice)
}

// Order is a storefront order. It is assembled in PENDING status by the
// checkout and moves through the kitchen flow from there; totals obey
// Total = Subtotal + DeliveryFee - Discount, never negative.
type Order struct {
	shared.StoreAggregateRoot
	Number int64 `gorm:"not null;uniqueIndex:idx_orders_store_number,priority:2"` // Sequential per store

	CustomerID       uuid.UUID `gorm:"type:uuid;not null;index"`
	CustomerName     string    `gorm:"type:varchar(150);not null"`
	CustomerPhone    string    `gorm:"type:varchar(11);not null"` // National digit form
	CustomerDocument string    `gorm:"type:varchar(14)"`

	Fulfillment     FulfillmentKind     `gorm:"type:varchar(10);not null"`
	DeliveryAddress valueobject.Address `gorm:"embedded;embeddedPrefix:delivery_"`

	PaymentMethod PaymentMethod    `gorm:"type:varchar(20);not null"`
	ChangeFor     *decimal.Decimal `gorm:"type:decimal(15,2)"` // Cash orders: note the customer pays with

	Items []OrderItem `gorm:"foreignKey:OrderID"`

	Subtotal    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	DeliveryFee decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Discount    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Total       decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`

	CampaignID *uuid.UUID `gorm:"type:uuid"`
	CouponCode string     `gorm:"type:varchar(30)"`

	Status OrderStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`
	Note   string      `gorm:"type:varchar(500)"`

	ConfirmedAt  *time.Time
	PreparingAt  *time.Time
	DispatchedAt *time.Time // Out for delivery or ready for pickup
	DeliveredAt  *time.Time
	CancelledAt  *time.Time
	CancelReason string `gorm:"type:varchar(300)"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates an order in PENDING status. The checkout appends
// items and sets fulfillment and payment before handing it to the
// merchant flow.
func NewOrder(tenantID, storeID uuid.UUID, number int64, customerID uuid.UUID, customerName, customerPhone string) (*Order, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE_ID", "Store ID cannot be empty")
	}
	if number <= 0 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number must be positive")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if strings.TrimSpace(customerName) == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	phone, err := valueobject.NewPhone(customerPhone)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PHONE", "Invalid customer phone")
	}

	order := &Order{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(tenantID, storeID),
		Number:             number,
		CustomerID:         customerID,
		CustomerName:       strings.TrimSpace(customerName),
		CustomerPhone:      phone.Digits(),
		Fulfillment:        FulfillmentPickup,
		PaymentMethod:      PaymentPix,
		Items:              make([]OrderItem, 0),
		Subtotal:           decimal.Zero,
		DeliveryFee:        decimal.Zero,
		Discount:           decimal.Zero,
		Total:              decimal.Zero,
		Status:             OrderStatusPending,
	}

	order.AddDomainEvent(NewOrderPlacedEvent(order))

	return order, nil
}

// NumberFormatted returns the display form of the order number
func (o *Order) NumberFormatted() string {
	return fmt.Sprintf("#%06d", o.Number)
}

// SetCustomerDocument records the customer's CPF/CNPJ on the order
func (o *Order) SetCustomerDocument(input string) error {
	if strings.TrimSpace(input) == "" {
		o.CustomerDocument = ""
		return nil
	}
	doc, err := valueobject.NewDocument(input)
	if err != nil {
		return shared.NewDomainError("INVALID_DOCUMENT", err.Error())
	}
	o.CustomerDocument = doc.Digits()
	o.UpdatedAt = time.Now()
	return nil
}

// AddItem appends a line to the order. Only allowed while PENDING.
func (o *Order) AddItem(productID uuid.UUID, productName string, categoryID *uuid.UUID, quantity int, unitPrice valueobject.Money, additionals []OrderItemAdditional, note string) (*OrderItem, error) {
	if o.Status != OrderStatusPending {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-pending order")
	}

	item, err := NewOrderItem(o.ID, o.TenantID, productID, productName, categoryID, quantity, unitPrice, additionals, note)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *item)
	o.recalculateTotals()
	o.UpdatedAt = time.Now()

	return &o.Items[len(o.Items)-1], nil
}

// RemoveItem removes a line from the order. Only allowed while PENDING.
func (o *Order) RemoveItem(itemID uuid.UUID) error {
	if o.Status != OrderStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove items from a non-pending order")
	}

	for idx, item := range o.Items {
		if item.ID == itemID {
			o.Items = append(o.Items[:idx], o.Items[idx+1:]...)
			o.recalculateTotals()
			o.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// SetDelivery marks the order for delivery to the given address
func (o *Order) SetDelivery(address valueobject.Address, fee valueobject.Money) error {
	if o.Status != OrderStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Cannot change fulfillment of a non-pending order")
	}
	if address.IsZero() {
		return shared.NewDomainError("INVALID_ADDRESS", "Delivery address is required")
	}
	if fee.IsNegative() {
		return shared.NewDomainError("INVALID_DELIVERY_FEE", "Delivery fee cannot be negative")
	}

	o.Fulfillment = FulfillmentDelivery
	o.DeliveryAddress = address
	o.DeliveryFee = fee.Amount()
	o.recalculateTotals()
	o.UpdatedAt = time.Now()

	return nil
}

// SetPickup marks the order for pickup at the store
func (o *Order) SetPickup() error {
	if o.Status != OrderStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Cannot change fulfillment of a non-pending order")
	}

	o.Fulfillment = FulfillmentPickup
	o.DeliveryAddress = valueobject.Address{}
	o.DeliveryFee = decimal.Zero
	o.recalculateTotals()
	o.UpdatedAt = time.Now()

	return nil
}

// SetPayment sets the payment method. Cash orders may carry a change-for
// amount; it must cover the current total, so set payment after items,
// fulfillment and discount.
func (o *Order) SetPayment(method PaymentMethod, changeFor *decimal.Decimal) error {
	if o.Status != OrderStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Cannot change payment of a non-pending order")
	}
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", "Invalid payment method")
	}
	if changeFor != nil {
		if method != PaymentCash {
			return shared.NewDomainError("INVALID_CHANGE", "Change-for only applies to cash payments")
		}
		if changeFor.LessThan(o.Total) {
			return shared.NewDomainError("INVALID_CHANGE", "Change-for amount must cover the order total")
		}
	}

	o.PaymentMethod = method
	o.ChangeFor = changeFor
	o.UpdatedAt = time.Now()

	return nil
}

// ChangeDue returns the cash change owed to the customer
func (o *Order) ChangeDue() valueobject.Money {
	if o.PaymentMethod != PaymentCash || o.ChangeFor == nil {
		return valueobject.ZeroBRL()
	}
	due := o.ChangeFor.Sub(o.Total)
	if due.IsNegative() {
		return valueobject.ZeroBRL()
	}
	return valueobject.NewMoneyBRL(due)
}

// ApplyDiscount registers the campaign discount on the order
func (o *Order) ApplyDiscount(campaignID uuid.UUID, couponCode string, discount valueobject.Money) error {
	if o.Status != OrderStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Cannot apply discount to a non-pending order")
	}
	if discount.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	if discount.Amount().GreaterThan(o.Subtotal.Add(o.DeliveryFee)) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed subtotal plus delivery fee")
	}

	o.CampaignID = &campaignID
	o.CouponCode = strings.ToUpper(strings.TrimSpace(couponCode))
	o.Discount = discount.Amount()
	o.recalculateTotals()
	o.UpdatedAt = time.Now()

	return nil
}

// SetNote sets the order-level note
func (o *Order) SetNote(note string) error {
	if len(note) > 500 {
		return shared.NewDomainError("INVALID_NOTE", "Order note cannot exceed 500 characters")
	}
	o.Note = strings.TrimSpace(note)
	o.UpdatedAt = time.Now()
	return nil
}

// Confirm moves the order from PENDING to CONFIRMED. The merchant
// accepts the order here; stock is decremented by the application
// service reacting to the event.
func (o *Order) Confirm() error {
	if !o.Status.CanTransitionTo(OrderStatusConfirmed, o.Fulfillment) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot confirm order in %s status", o.Status))
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot confirm order without items")
	}
	if o.Fulfillment == FulfillmentDelivery && o.DeliveryAddress.IsZero() {
		return shared.NewDomainError("INVALID_ADDRESS", "Delivery orders need an address")
	}

	now := time.Now()
	o.Status = OrderStatusConfirmed
	o.ConfirmedAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderConfirmedEvent(o))

	return nil
}

// StartPreparing moves the order to PREPARING
func (o *Order) StartPreparing() error {
	if !o.Status.CanTransitionTo(OrderStatusPreparing, o.Fulfillment) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot start preparing order in %s status", o.Status))
	}

	now := time.Now()
	old := o.Status
	o.Status = OrderStatusPreparing
	o.PreparingAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, old, OrderStatusPreparing))

	return nil
}

// Dispatch moves a delivery order to OUT_FOR_DELIVERY or a pickup order
// to READY_FOR_PICKUP
func (o *Order) Dispatch() error {
	target := OrderStatusOutForDelivery
	if o.Fulfillment == FulfillmentPickup {
		target = OrderStatusReadyForPickup
	}
	if !o.Status.CanTransitionTo(target, o.Fulfillment) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot dispatch order in %s status", o.Status))
	}

	now := time.Now()
	old := o.Status
	o.Status = target
	o.DispatchedAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, old, target))

	return nil
}

// MarkDelivered completes the order
func (o *Order) MarkDelivered() error {
	if !o.Status.CanTransitionTo(OrderStatusDelivered, o.Fulfillment) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot deliver order in %s status", o.Status))
	}

	now := time.Now()
	old := o.Status
	o.Status = OrderStatusDelivered
	o.DeliveredAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderDeliveredEvent(o, old))

	return nil
}

// Cancel cancels the order from any non-terminal state. Confirmed
// orders get their stock restored by the application service.
func (o *Order) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled, o.Fulfillment) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}
	if strings.TrimSpace(reason) == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	wasConfirmed := o.Status != OrderStatusPending
	now := time.Now()
	old := o.Status
	o.Status = OrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = strings.TrimSpace(reason)
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderCancelledEvent(o, old, wasConfirmed))

	return nil
}

// TransitionTo dispatches a status-update request to the matching
// transition; used by the admin status endpoint
func (o *Order) TransitionTo(target OrderStatus, reason string) error {
	switch target {
	case OrderStatusConfirmed:
		return o.Confirm()
	case OrderStatusPreparing:
		return o.StartPreparing()
	case OrderStatusOutForDelivery, OrderStatusReadyForPickup:
		if !o.Status.CanTransitionTo(target, o.Fulfillment) {
			return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot move order to %s from %s", target, o.Status))
		}
		return o.Dispatch()
	case OrderStatusDelivered:
		return o.MarkDelivered()
	case OrderStatusCancelled:
		return o.Cancel(reason)
	}
	return shared.NewDomainError("INVALID_STATE", "Unknown target status")
}

// recalculateTotals keeps Total = Subtotal + DeliveryFee - Discount,
// clamping the discount so the total never goes negative
func (o *Order) recalculateTotals() {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.LineTotal)
	}
	o.Subtotal = subtotal

	gross := o.Subtotal.Add(o.DeliveryFee)
	if o.Discount.GreaterThan(gross) {
		o.Discount = gross
	}
	o.Total = gross.Sub(o.Discount)
}

// SubtotalMoney returns the item subtotal as Money
func (o *Order) SubtotalMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(o.Subtotal)
}

// DeliveryFeeMoney returns the delivery fee as Money
func (o *Order) DeliveryFeeMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(o.DeliveryFee)
}

// DiscountMoney returns the discount as Money
func (o *Order) DiscountMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(o.Discount)
}

// TotalMoney returns the order total as Money
func (o *Order) TotalMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(o.Total)
}

// ItemCount returns the number of lines in the order
func (o *Order) ItemCount() int {
	return len(o.Items)
}

// TotalQuantity returns the summed quantity across lines
func (o *Order) TotalQuantity() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// GetItem returns an item by its ID
func (o *Order) GetItem(itemID uuid.UUID) *OrderItem {
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			return &o.Items[idx]
		}
	}
	return nil
}

// IsPending returns true if the order awaits merchant confirmation
func (o *Order) IsPending() bool {
	return o.Status == OrderStatusPending
}

// IsCancelled returns true if the order is cancelled
func (o *Order) IsCancelled() bool {
	return o.Status == OrderStatusCancelled
}

// IsTerminal returns true if the order reached a final state
func (o *Order) IsTerminal() bool {
	return o.Status.IsTerminal()
}

// MatchesPhoneSuffix checks the public tracking credential: at least
// four trailing digits of the customer's phone
func (o *Order) MatchesPhoneSuffix(suffix string) bool {
	if len(suffix) < 4 {
		return false
	}
	return strings.HasSuffix(o.CustomerPhone, suffix)
}

// CategoryIDs returns the distinct category IDs across items, used for
// campaign condition checks
func (o *Order) CategoryIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]bool)
	ids := make([]uuid.UUID, 0)
	for _, item := range o.Items {
		if item.CategoryID != nil && !seen[*item.CategoryID] {
			seen[*item.CategoryID] = true
			ids = append(ids, *item.CategoryID)
		}
	}
	return ids
}
