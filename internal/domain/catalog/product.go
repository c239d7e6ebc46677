package catalog

import (
	"strings"
	"time"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// Product is an item sold on a store's storefront. Prices are in BRL.
// When a promotional price is set it must stay strictly below the list
// price; the storefront charges the promotional price while it is present.
type Product struct {
	shared.StoreAggregateRoot
	Name        string           `gorm:"type:varchar(200);not null"`
	Description string           `gorm:"type:text"`
	CategoryID  *uuid.UUID       `gorm:"type:uuid;index"`
	Price       decimal.Decimal  `gorm:"type:decimal(15,2);not null;default:0"`
	PromoPrice  *decimal.Decimal `gorm:"type:decimal(15,2)"`
	Status      ProductStatus    `gorm:"type:varchar(20);not null;default:'active'"`
	VideoURL    string           `gorm:"type:varchar(500)"`
	Featured    bool             `gorm:"not null;default:false"`
	SortOrder   int              `gorm:"not null;default:0"`

	// Stock control is optional; untracked products never sell out
	TrackStock    bool `gorm:"not null;default:false"`
	StockQuantity int  `gorm:"not null;default:0"`

	AdditionalGroupIDs []uuid.UUID `gorm:"-"` // Stored in product_additional_groups, loaded by repository
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// ProductAdditionalGroup links a product to an additional group
type ProductAdditionalGroup struct {
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey"`
	GroupID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index"`
	SortOrder int       `gorm:"not null;default:0"`
	CreatedAt time.Time
}

// TableName returns the table name for GORM
func (ProductAdditionalGroup) TableName() string {
	return "product_additional_groups"
}

// NewProduct creates a new product with its list price
func NewProduct(tenantID, storeID uuid.UUID, name string, price valueobject.Money) (*Product, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE_ID", "Store ID cannot be empty")
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if !price.IsPositive() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price must be greater than zero")
	}

	product := &Product{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(tenantID, storeID),
		Name:               strings.TrimSpace(name),
		Price:              price.Amount(),
		Status:             ProductStatusActive,
		AdditionalGroupIDs: make([]uuid.UUID, 0),
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = strings.TrimSpace(name)
	p.Description = description
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// SetCategory assigns the product to a category (nil removes it)
func (p *Product) SetCategory(categoryID *uuid.UUID) {
	p.CategoryID = categoryID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))
}

// SetPrice sets the product's list price. If a promotional price is set it
// must remain below the new list price.
func (p *Product) SetPrice(price valueobject.Money) error {
	if !price.IsPositive() {
		return shared.NewDomainError("INVALID_PRICE", "Price must be greater than zero")
	}
	if p.PromoPrice != nil && p.PromoPrice.GreaterThanOrEqual(price.Amount()) {
		return shared.NewDomainError("INVALID_PRICE", "Price must stay above the promotional price")
	}

	oldPrice := p.Price
	p.Price = price.Amount()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductPriceChangedEvent(p, oldPrice, p.PromoPrice))

	return nil
}

// SetPromoPrice sets a promotional price below the list price
func (p *Product) SetPromoPrice(promo valueobject.Money) error {
	if !promo.IsPositive() {
		return shared.NewDomainError("INVALID_PROMO_PRICE", "Promotional price must be greater than zero")
	}
	if promo.Amount().GreaterThanOrEqual(p.Price) {
		return shared.NewDomainError("INVALID_PROMO_PRICE", "Promotional price must be below the list price")
	}

	oldPromo := p.PromoPrice
	amount := promo.Amount()
	p.PromoPrice = &amount
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductPriceChangedEvent(p, p.Price, oldPromo))

	return nil
}

// ClearPromoPrice removes the promotional price
func (p *Product) ClearPromoPrice() {
	if p.PromoPrice == nil {
		return
	}

	oldPromo := p.PromoPrice
	p.PromoPrice = nil
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductPriceChangedEvent(p, p.Price, oldPromo))
}

// HasPromo returns true if a promotional price is set
func (p *Product) HasPromo() bool {
	return p.PromoPrice != nil
}

// EffectivePrice returns the price the storefront charges: the promotional
// price when present, the list price otherwise
func (p *Product) EffectivePrice() valueobject.Money {
	if p.PromoPrice != nil {
		return valueobject.NewMoneyBRL(*p.PromoPrice)
	}
	return valueobject.NewMoneyBRL(p.Price)
}

// ListPrice returns the list price as Money
func (p *Product) ListPrice() valueobject.Money {
	return valueobject.NewMoneyBRL(p.Price)
}

// SetVideoURL sets the product's presentation video
func (p *Product) SetVideoURL(url string) error {
	if url != "" && len(url) > 500 {
		return shared.NewDomainError("INVALID_URL", "Video URL cannot exceed 500 characters")
	}

	p.VideoURL = url
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetFeatured toggles the storefront highlight flag
func (p *Product) SetFeatured(featured bool) {
	p.Featured = featured
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// SetSortOrder sets the display order of the product within its category
func (p *Product) SetSortOrder(order int) {
	p.SortOrder = order
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// SetAdditionalGroups sets the additional groups offered with this product
func (p *Product) SetAdditionalGroups(groupIDs []uuid.UUID) error {
	for _, gid := range groupIDs {
		if gid == uuid.Nil {
			return shared.NewDomainError("INVALID_GROUP_ID", "Additional group ID cannot be empty")
		}
	}

	seen := make(map[uuid.UUID]bool)
	unique := make([]uuid.UUID, 0, len(groupIDs))
	for _, gid := range groupIDs {
		if !seen[gid] {
			seen[gid] = true
			unique = append(unique, gid)
		}
	}

	p.AdditionalGroupIDs = unique
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// EnableStockTracking turns on stock control with an initial quantity
func (p *Product) EnableStockTracking(quantity int) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock quantity cannot be negative")
	}

	p.TrackStock = true
	p.StockQuantity = quantity
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStockChangedEvent(p, quantity))

	return nil
}

// DisableStockTracking turns off stock control
func (p *Product) DisableStockTracking() {
	p.TrackStock = false
	p.StockQuantity = 0
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// SetStockQuantity replaces the current stock quantity
func (p *Product) SetStockQuantity(quantity int) error {
	if !p.TrackStock {
		return shared.NewDomainError("STOCK_NOT_TRACKED", "Product does not track stock")
	}
	if quantity < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock quantity cannot be negative")
	}

	p.StockQuantity = quantity
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStockChangedEvent(p, quantity))

	return nil
}

// DecrementStock reduces stock when an order is confirmed. Untracked
// products are a no-op.
func (p *Product) DecrementStock(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be greater than zero")
	}
	if !p.TrackStock {
		return nil
	}
	if p.StockQuantity < quantity {
		return shared.ErrInsufficientStock
	}

	p.StockQuantity -= quantity
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStockChangedEvent(p, p.StockQuantity))

	return nil
}

// IncrementStock restores stock, e.g. when an order is cancelled
func (p *Product) IncrementStock(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be greater than zero")
	}
	if !p.TrackStock {
		return nil
	}

	p.StockQuantity += quantity
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStockChangedEvent(p, p.StockQuantity))

	return nil
}

// Activate activates the product
func (p *Product) Activate() error {
	if p.Status == ProductStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Product is already active")
	}

	oldStatus := p.Status
	p.Status = ProductStatusActive
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStatusChangedEvent(p, oldStatus, ProductStatusActive))

	return nil
}

// Deactivate deactivates the product
func (p *Product) Deactivate() error {
	if p.Status == ProductStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Product is already inactive")
	}

	oldStatus := p.Status
	p.Status = ProductStatusInactive
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStatusChangedEvent(p, oldStatus, ProductStatusInactive))

	return nil
}

// IsActive returns true if the product is active
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// IsAvailable reports whether the storefront can sell the product right now
func (p *Product) IsAvailable() bool {
	if p.Status != ProductStatusActive {
		return false
	}
	if p.TrackStock && p.StockQuantity <= 0 {
		return false
	}
	return true
}

// HasCategory returns true if the product has a category assigned
func (p *Product) HasCategory() bool {
	return p.CategoryID != nil
}

// validateProductName validates the product name
func validateProductName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
