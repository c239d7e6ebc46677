package receipt

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceiptKind selects the receipt layout
type ReceiptKind string

const (
	// KindKitchen is the preparation slip: items and notes, no prices
	KindKitchen ReceiptKind = "kitchen"
	// KindCustomer is the full slip with prices and payment
	KindCustomer ReceiptKind = "customer"
)

// IsValid checks if the receipt kind is supported
func (k ReceiptKind) IsValid() bool {
	return k == KindKitchen || k == KindCustomer
}

// ReceiptLinkDTO is a time-limited link to a rendered receipt PDF
type ReceiptLinkDTO struct {
	OrderID   uuid.UUID   `json:"order_id"`
	Kind      ReceiptKind `json:"kind"`
	URL       string      `json:"url"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// receiptData feeds the receipt HTML template
type receiptData struct {
	Kind            ReceiptKind
	StoreName       string
	StorePhone      string
	StoreAddress    string
	Number          string
	PlacedAt        time.Time
	Status          string
	Fulfillment     string
	DeliveryAddress string
	CustomerName    string
	CustomerPhone   string
	PaymentMethod   string
	ChangeFor       *decimal.Decimal
	ChangeDue       decimal.Decimal
	Items           []receiptItem
	Subtotal        decimal.Decimal
	DeliveryFee     decimal.Decimal
	Discount        decimal.Decimal
	Total           decimal.Decimal
	CouponCode      string
	Note            string
	CancelReason    string
}

type receiptItem struct {
	Quantity    int
	Name        string
	Additionals []string
	Note        string
	LineTotal   decimal.Decimal
}
