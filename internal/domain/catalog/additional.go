package catalog

import (
	"strings"
	"time"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AdditionalGroupStatus represents the status of an additional group
type AdditionalGroupStatus string

const (
	AdditionalGroupStatusActive   AdditionalGroupStatus = "active"
	AdditionalGroupStatusInactive AdditionalGroupStatus = "inactive"
)

// AdditionalGroup is a set of options offered with a product, like
// "Escolha a borda" or "Adicionais". MinSelect and MaxSelect bound how
// many items a buyer picks; MaxSelect zero means unbounded.
type AdditionalGroup struct {
	shared.StoreAggregateRoot
	Name        string                `gorm:"type:varchar(100);not null"`
	Description string                `gorm:"type:varchar(500)"`
	MinSelect   int                   `gorm:"not null;default:0"`
	MaxSelect   int                   `gorm:"not null;default:0"`
	SortOrder   int                   `gorm:"not null;default:0"`
	Status      AdditionalGroupStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Items       []AdditionalItem      `gorm:"foreignKey:GroupID"`
}

// TableName returns the table name for GORM
func (AdditionalGroup) TableName() string {
	return "additional_groups"
}

// AdditionalItem is one selectable option inside an additional group.
// PriceDelta is added to the product's price when the item is picked.
type AdditionalItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	GroupID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	TenantID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name       string          `gorm:"type:varchar(100);not null"`
	PriceDelta decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Active     bool            `gorm:"not null;default:true"`
	SortOrder  int             `gorm:"not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName returns the table name for GORM
func (AdditionalItem) TableName() string {
	return "additional_items"
}

// PriceDeltaMoney returns the item's price delta as Money
func (i AdditionalItem) PriceDeltaMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(i.PriceDelta)
}

// NewAdditionalGroup creates a new additional group for a store
func NewAdditionalGroup(tenantID, storeID uuid.UUID, name string, minSelect, maxSelect int) (*AdditionalGroup, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE_ID", "Store ID cannot be empty")
	}
	if err := validateAdditionalGroupName(name); err != nil {
		return nil, err
	}
	if err := validateSelectionBounds(minSelect, maxSelect); err != nil {
		return nil, err
	}

	group := &AdditionalGroup{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(tenantID, storeID),
		Name:               strings.TrimSpace(name),
		MinSelect:          minSelect,
		MaxSelect:          maxSelect,
		Status:             AdditionalGroupStatusActive,
		Items:              make([]AdditionalItem, 0),
	}

	group.AddDomainEvent(NewAdditionalGroupCreatedEvent(group))

	return group, nil
}

// Update updates the group's basic information
func (g *AdditionalGroup) Update(name, description string) error {
	if err := validateAdditionalGroupName(name); err != nil {
		return err
	}
	if len(description) > 500 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 500 characters")
	}

	g.Name = strings.TrimSpace(name)
	g.Description = strings.TrimSpace(description)
	g.UpdatedAt = time.Now()
	g.IncrementVersion()

	g.AddDomainEvent(NewAdditionalGroupUpdatedEvent(g))

	return nil
}

// SetSelectionBounds sets how many items a buyer must and may pick
func (g *AdditionalGroup) SetSelectionBounds(minSelect, maxSelect int) error {
	if err := validateSelectionBounds(minSelect, maxSelect); err != nil {
		return err
	}

	g.MinSelect = minSelect
	g.MaxSelect = maxSelect
	g.UpdatedAt = time.Now()
	g.IncrementVersion()

	return nil
}

// IsRequired reports whether the buyer must pick at least one item
func (g *AdditionalGroup) IsRequired() bool {
	return g.MinSelect > 0
}

// SetSortOrder sets the display order of the group
func (g *AdditionalGroup) SetSortOrder(order int) {
	g.SortOrder = order
	g.UpdatedAt = time.Now()
	g.IncrementVersion()
}

// AddItem adds a selectable item to the group
func (g *AdditionalGroup) AddItem(name string, priceDelta valueobject.Money) (*AdditionalItem, error) {
	if err := validateAdditionalItemName(name); err != nil {
		return nil, err
	}
	if priceDelta.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE_DELTA", "Price delta cannot be negative")
	}

	now := time.Now()
	item := AdditionalItem{
		ID:         uuid.New(),
		GroupID:    g.ID,
		TenantID:   g.TenantID,
		Name:       strings.TrimSpace(name),
		PriceDelta: priceDelta.Amount(),
		Active:     true,
		SortOrder:  len(g.Items),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	g.Items = append(g.Items, item)
	g.UpdatedAt = now
	g.IncrementVersion()

	g.AddDomainEvent(NewAdditionalGroupUpdatedEvent(g))

	return &g.Items[len(g.Items)-1], nil
}

// UpdateItem updates an item's name and price delta
func (g *AdditionalGroup) UpdateItem(itemID uuid.UUID, name string, priceDelta valueobject.Money) error {
	if err := validateAdditionalItemName(name); err != nil {
		return err
	}
	if priceDelta.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE_DELTA", "Price delta cannot be negative")
	}

	for i := range g.Items {
		if g.Items[i].ID == itemID {
			g.Items[i].Name = strings.TrimSpace(name)
			g.Items[i].PriceDelta = priceDelta.Amount()
			g.Items[i].UpdatedAt = time.Now()
			g.UpdatedAt = time.Now()
			g.IncrementVersion()

			g.AddDomainEvent(NewAdditionalGroupUpdatedEvent(g))

			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Additional item not found in this group")
}

// SetItemActive toggles an item's availability
func (g *AdditionalGroup) SetItemActive(itemID uuid.UUID, active bool) error {
	for i := range g.Items {
		if g.Items[i].ID == itemID {
			g.Items[i].Active = active
			g.Items[i].UpdatedAt = time.Now()
			g.UpdatedAt = time.Now()
			g.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Additional item not found in this group")
}

// RemoveItem removes an item from the group
func (g *AdditionalGroup) RemoveItem(itemID uuid.UUID) error {
	for i := range g.Items {
		if g.Items[i].ID == itemID {
			g.Items = append(g.Items[:i], g.Items[i+1:]...)
			g.UpdatedAt = time.Now()
			g.IncrementVersion()

			g.AddDomainEvent(NewAdditionalGroupUpdatedEvent(g))

			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Additional item not found in this group")
}

// ItemByID returns the item with the given ID, or nil
func (g *AdditionalGroup) ItemByID(itemID uuid.UUID) *AdditionalItem {
	for i := range g.Items {
		if g.Items[i].ID == itemID {
			return &g.Items[i]
		}
	}
	return nil
}

// ActiveItems returns the items a buyer can currently pick
func (g *AdditionalGroup) ActiveItems() []AdditionalItem {
	active := make([]AdditionalItem, 0, len(g.Items))
	for _, item := range g.Items {
		if item.Active {
			active = append(active, item)
		}
	}
	return active
}

// ValidateSelection checks a buyer's picks against the group's rules:
// every ID must identify an active item of this group, picked at most once,
// and the pick count must honor MinSelect/MaxSelect.
func (g *AdditionalGroup) ValidateSelection(itemIDs []uuid.UUID) error {
	if g.Status != AdditionalGroupStatusActive {
		return shared.NewDomainError("GROUP_INACTIVE", "Additional group is not available")
	}

	seen := make(map[uuid.UUID]bool, len(itemIDs))
	for _, id := range itemIDs {
		if seen[id] {
			return shared.NewDomainError("DUPLICATE_SELECTION", "Each additional can be picked at most once")
		}
		seen[id] = true

		item := g.ItemByID(id)
		if item == nil {
			return shared.NewDomainError("ITEM_NOT_FOUND", "Selected additional does not belong to this group")
		}
		if !item.Active {
			return shared.NewDomainError("ITEM_UNAVAILABLE", "Selected additional is not available")
		}
	}

	if len(itemIDs) < g.MinSelect {
		return shared.NewDomainError("SELECTION_BELOW_MIN", "Selection does not meet the group's minimum")
	}
	if g.MaxSelect > 0 && len(itemIDs) > g.MaxSelect {
		return shared.NewDomainError("SELECTION_ABOVE_MAX", "Selection exceeds the group's maximum")
	}

	return nil
}

// SelectionPrice sums the price deltas of the picked items
func (g *AdditionalGroup) SelectionPrice(itemIDs []uuid.UUID) (valueobject.Money, error) {
	total := valueobject.ZeroBRL()
	for _, id := range itemIDs {
		item := g.ItemByID(id)
		if item == nil {
			return valueobject.ZeroBRL(), shared.NewDomainError("ITEM_NOT_FOUND", "Selected additional does not belong to this group")
		}
		total = total.MustAdd(item.PriceDeltaMoney())
	}
	return total, nil
}

// Activate activates the group
func (g *AdditionalGroup) Activate() error {
	if g.Status == AdditionalGroupStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Additional group is already active")
	}

	g.Status = AdditionalGroupStatusActive
	g.UpdatedAt = time.Now()
	g.IncrementVersion()

	return nil
}

// Deactivate deactivates the group
func (g *AdditionalGroup) Deactivate() error {
	if g.Status == AdditionalGroupStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Additional group is already inactive")
	}

	g.Status = AdditionalGroupStatusInactive
	g.UpdatedAt = time.Now()
	g.IncrementVersion()

	return nil
}

// IsActive returns true if the group is active
func (g *AdditionalGroup) IsActive() bool {
	return g.Status == AdditionalGroupStatusActive
}

// Validation functions

func validateAdditionalGroupName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Additional group name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Additional group name cannot exceed 100 characters")
	}
	return nil
}

func validateAdditionalItemName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Additional item name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Additional item name cannot exceed 100 characters")
	}
	return nil
}

func validateSelectionBounds(minSelect, maxSelect int) error {
	if minSelect < 0 {
		return shared.NewDomainError("INVALID_SELECTION_BOUNDS", "Minimum selection cannot be negative")
	}
	if maxSelect < 0 {
		return shared.NewDomainError("INVALID_SELECTION_BOUNDS", "Maximum selection cannot be negative")
	}
	if maxSelect > 0 && maxSelect < minSelect {
		return shared.NewDomainError("INVALID_SELECTION_BOUNDS", "Maximum selection cannot be below the minimum")
	}
	return nil
}
