package storefront

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	// MaxCartLines bounds the number of lines in one cart
	MaxCartLines = 50

	// MaxLineQuantity bounds the quantity of one cart line
	MaxLineQuantity = 50
)

// CartSelection is the chosen additionals of one group for a cart line
type CartSelection struct {
	GroupID uuid.UUID   `json:"group_id"`
	ItemIDs []uuid.UUID `json:"item_ids"`
}

// CartItem is one line of a session cart. It references catalog IDs
// only; prices are resolved at preview and checkout time.
type CartItem struct {
	ID         uuid.UUID       `json:"id"`
	ProductID  uuid.UUID       `json:"product_id"`
	Quantity   int             `json:"quantity"`
	Selections []CartSelection `json:"selections,omitempty"`
	Note       string          `json:"note,omitempty"`
}

// Cart is the session-scoped shopping cart of a storefront visitor.
// It lives in the cart store under a TTL, not in the database.
type Cart struct {
	SessionID string     `json:"session_id"`
	TenantID  uuid.UUID  `json:"tenant_id"`
	StoreID   uuid.UUID  `json:"store_id"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewCart creates an empty cart for a storefront session
func NewCart(sessionID string, tenantID, storeID uuid.UUID) (*Cart, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, shared.NewDomainError("INVALID_SESSION", "Session ID cannot be empty")
	}
	if tenantID == uuid.Nil || storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE", "Cart needs a tenant and a store")
	}

	return &Cart{
		SessionID: sessionID,
		TenantID:  tenantID,
		StoreID:   storeID,
		Items:     make([]CartItem, 0),
		UpdatedAt: time.Now(),
	}, nil
}

// AddItem appends a line to the cart. Lines are kept separate even for
// the same product, since notes and additionals may differ.
func (c *Cart) AddItem(productID uuid.UUID, quantity int, selections []CartSelection, note string) (*CartItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity < 1 || quantity > MaxLineQuantity {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be between 1 and 50")
	}
	if len(c.Items) >= MaxCartLines {
		return nil, shared.NewDomainError("CART_FULL", "Cart cannot have more than 50 lines")
	}
	if len(note) > 300 {
		return nil, shared.NewDomainError("INVALID_NOTE", "Item note cannot exceed 300 characters")
	}

	item := CartItem{
		ID:         uuid.New(),
		ProductID:  productID,
		Quantity:   quantity,
		Selections: selections,
		Note:       strings.TrimSpace(note),
	}

	c.Items = append(c.Items, item)
	c.UpdatedAt = time.Now()

	return &c.Items[len(c.Items)-1], nil
}

// UpdateItemQuantity changes the quantity of a line
func (c *Cart) UpdateItemQuantity(itemID uuid.UUID, quantity int) error {
	if quantity < 1 || quantity > MaxLineQuantity {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be between 1 and 50")
	}

	for idx := range c.Items {
		if c.Items[idx].ID == itemID {
			c.Items[idx].Quantity = quantity
			c.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Cart item not found")
}

// RemoveItem removes a line from the cart
func (c *Cart) RemoveItem(itemID uuid.UUID) error {
	for idx := range c.Items {
		if c.Items[idx].ID == itemID {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
			c.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Cart item not found")
}

// Clear removes every line
func (c *Cart) Clear() {
	c.Items = make([]CartItem, 0)
	c.UpdatedAt = time.Now()
}

// IsEmpty returns true if the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// TotalQuantity returns the summed quantity across lines
func (c *Cart) TotalQuantity() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// GetItem returns a line by its ID
func (c *Cart) GetItem(itemID uuid.UUID) *CartItem {
	for idx := range c.Items {
		if c.Items[idx].ID == itemID {
			return &c.Items[idx]
		}
	}
	return nil
}

// Fingerprint returns a stable string over the cart contents, used to
// key preview caches. Line IDs are excluded so replayed carts with the
// same contents hit the same cache entry.
func (c *Cart) Fingerprint() string {
	var b strings.Builder
	b.WriteString(c.StoreID.String())
	for _, item := range c.Items {
		b.WriteString("|")
		b.WriteString(item.ProductID.String())
		b.WriteString(":")
		b.WriteString(strconv.Itoa(item.Quantity))
		for _, sel := range item.Selections {
			b.WriteString("+")
			b.WriteString(sel.GroupID.String())
			for _, id := range sel.ItemIDs {
				b.WriteString(",")
				b.WriteString(id.String())
			}
		}
	}
	return b.String()
}

// CartStore persists session carts. Implementations set the TTL; the
// Redis store is primary with an in-memory fallback for development.
type CartStore interface {
	// Get retrieves the cart of a session, nil when none exists
	Get(ctx context.Context, tenantID, storeID uuid.UUID, sessionID string) (*Cart, error)

	// Save stores the cart and refreshes its TTL
	Save(ctx context.Context, cart *Cart) error

	// Delete drops the cart of a session
	Delete(ctx context.Context, tenantID, storeID uuid.UUID, sessionID string) error
}
