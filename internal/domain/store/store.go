package store

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// StoreStatus represents the status of a store
type StoreStatus string

const (
	StoreStatusActive   StoreStatus = "active"
	StoreStatusInactive StoreStatus = "inactive"
)

// DefaultTimezone is the timezone assigned to new stores
const DefaultTimezone = "America/Sao_Paulo"

// Store represents a point of sale of a tenant. A tenant has at least one
// store; the default store serves the public storefront unless the buyer
// picks another one.
type Store struct {
	shared.TenantAggregateRoot
	Name         string              `gorm:"type:varchar(200);not null"`
	Description  string              `gorm:"type:varchar(500)"`
	Status       StoreStatus         `gorm:"type:varchar(20);not null;default:'active'"`
	Phone        string              `gorm:"type:varchar(20)"`
	WhatsApp     string              `gorm:"type:varchar(20)"` // Number buyers are handed off to
	Email        string              `gorm:"type:varchar(200)"`
	Address      valueobject.Address `gorm:"embedded;embeddedPrefix:addr_"`
	Timezone     string              `gorm:"type:varchar(50);not null;default:'America/Sao_Paulo'"`
	LogoURL      string              `gorm:"type:varchar(500)"`
	BannerURL    string              `gorm:"type:varchar(500)"`
	IsDefault    bool                `gorm:"not null;default:false"`
	Schedule     datatypes.JSON      `gorm:"type:jsonb"` // WeeklySchedule
	BlockedDates datatypes.JSON      `gorm:"type:jsonb"` // []string "2006-01-02"

	// Checkout options
	DeliveryEnabled bool              `gorm:"not null;default:true"`
	PickupEnabled   bool              `gorm:"not null;default:true"`
	MinOrderAmount  valueobject.Money `gorm:"type:decimal(15,2)"` // Zero means no minimum
	FlatDeliveryFee valueobject.Money `gorm:"type:decimal(15,2)"` // Fallback when no carrier quote
	PrepTimeMinutes int               `gorm:"not null;default:0"` // Estimated preparation time

	schedule     *WeeklySchedule `gorm:"-"`
	blockedDates []string        `gorm:"-"`
}

// TableName returns the table name for GORM
func (Store) TableName() string {
	return "stores"
}

// NewStore creates a new store. It starts active with delivery and pickup
// enabled and every day closed; opening hours are set afterwards.
func NewStore(tenantID uuid.UUID, name string) (*Store, error) {
	if err := validateStoreName(name); err != nil {
		return nil, err
	}

	store := &Store{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                strings.TrimSpace(name),
		Status:              StoreStatusActive,
		Timezone:            DefaultTimezone,
		DeliveryEnabled:     true,
		PickupEnabled:       true,
		MinOrderAmount:      valueobject.ZeroBRL(),
		FlatDeliveryFee:     valueobject.ZeroBRL(),
	}
	if err := store.SetSchedule(EmptyWeeklySchedule()); err != nil {
		return nil, err
	}
	if err := store.SetBlockedDates(nil); err != nil {
		return nil, err
	}

	store.AddDomainEvent(NewStoreCreatedEvent(store))

	return store, nil
}

// Update updates the store's basic information
func (s *Store) Update(name, description string) error {
	if err := validateStoreName(name); err != nil {
		return err
	}
	if len(description) > 500 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 500 characters")
	}

	s.Name = strings.TrimSpace(name)
	s.Description = strings.TrimSpace(description)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewStoreUpdatedEvent(s))

	return nil
}

// SetContact sets the store's contact information
func (s *Store) SetContact(phone, whatsapp, email string) error {
	if phone != "" && len(phone) > 20 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 20 characters")
	}
	if whatsapp != "" && len(whatsapp) > 20 {
		return shared.NewDomainError("INVALID_PHONE", "WhatsApp number cannot exceed 20 characters")
	}
	if email != "" && len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}

	s.Phone = strings.TrimSpace(phone)
	s.WhatsApp = strings.TrimSpace(whatsapp)
	s.Email = strings.ToLower(strings.TrimSpace(email))
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// SetAddress sets the store's address
func (s *Store) SetAddress(address valueobject.Address) {
	s.Address = address
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// SetImages sets the store's logo and banner URLs
func (s *Store) SetImages(logoURL, bannerURL string) error {
	if len(logoURL) > 500 || len(bannerURL) > 500 {
		return shared.NewDomainError("INVALID_URL", "Image URL cannot exceed 500 characters")
	}

	s.LogoURL = logoURL
	s.BannerURL = bannerURL
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// SetTimezone sets the store's IANA timezone
func (s *Store) SetTimezone(tz string) error {
	if _, err := time.LoadLocation(tz); err != nil {
		return shared.NewDomainError("INVALID_TIMEZONE", "Unknown timezone: "+tz)
	}

	s.Timezone = tz
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// SetSchedule replaces the store's weekly opening hours
func (s *Store) SetSchedule(ws WeeklySchedule) error {
	if err := ValidateWeeklySchedule(ws); err != nil {
		return err
	}

	data, err := json.Marshal(ws)
	if err != nil {
		return shared.NewDomainError("INVALID_SCHEDULE", "Could not encode schedule")
	}

	s.Schedule = data
	cached := ws
	s.schedule = &cached
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewStoreScheduleChangedEvent(s))

	return nil
}

// SetBlockedDates replaces the store's blocked dates list
func (s *Store) SetBlockedDates(dates []string) error {
	if err := ValidateBlockedDates(dates); err != nil {
		return err
	}
	if dates == nil {
		dates = []string{}
	}

	data, err := json.Marshal(dates)
	if err != nil {
		return shared.NewDomainError("INVALID_BLOCKED_DATE", "Could not encode blocked dates")
	}

	s.BlockedDates = data
	s.blockedDates = dates
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// GetSchedule decodes and returns the weekly schedule
func (s *Store) GetSchedule() (WeeklySchedule, error) {
	if s.schedule != nil {
		return *s.schedule, nil
	}
	ws := EmptyWeeklySchedule()
	if len(s.Schedule) > 0 {
		if err := json.Unmarshal(s.Schedule, &ws); err != nil {
			return WeeklySchedule{}, shared.NewDomainError("INVALID_SCHEDULE", "Could not decode schedule")
		}
	}
	s.schedule = &ws
	return ws, nil
}

// GetBlockedDates decodes and returns the blocked dates list
func (s *Store) GetBlockedDates() ([]string, error) {
	if s.blockedDates != nil {
		return s.blockedDates, nil
	}
	dates := []string{}
	if len(s.BlockedDates) > 0 {
		if err := json.Unmarshal(s.BlockedDates, &dates); err != nil {
			return nil, shared.NewDomainError("INVALID_BLOCKED_DATE", "Could not decode blocked dates")
		}
	}
	s.blockedDates = dates
	return dates, nil
}

// SetCheckoutOptions configures how buyers can receive orders. At least one
// of delivery and pickup must stay enabled.
func (s *Store) SetCheckoutOptions(deliveryEnabled, pickupEnabled bool) error {
	if !deliveryEnabled && !pickupEnabled {
		return shared.NewDomainError("INVALID_CHECKOUT_OPTIONS", "At least one of delivery and pickup must be enabled")
	}

	s.DeliveryEnabled = deliveryEnabled
	s.PickupEnabled = pickupEnabled
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// SetMinOrderAmount sets the minimum order subtotal. Zero disables the check.
func (s *Store) SetMinOrderAmount(amount valueobject.Money) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_MIN_ORDER", "Minimum order amount cannot be negative")
	}

	s.MinOrderAmount = amount
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// SetFlatDeliveryFee sets the delivery fee charged when no carrier quote
// is available
func (s *Store) SetFlatDeliveryFee(fee valueobject.Money) error {
	if fee.IsNegative() {
		return shared.NewDomainError("INVALID_DELIVERY_FEE", "Delivery fee cannot be negative")
	}

	s.FlatDeliveryFee = fee
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// SetPrepTime sets the estimated preparation time in minutes
func (s *Store) SetPrepTime(minutes int) error {
	if minutes < 0 {
		return shared.NewDomainError("INVALID_PREP_TIME", "Preparation time cannot be negative")
	}

	s.PrepTimeMinutes = minutes
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// SetDefault marks this store as the tenant's default store
func (s *Store) SetDefault(isDefault bool) {
	s.IsDefault = isDefault
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	if isDefault {
		s.AddDomainEvent(NewStoreSetAsDefaultEvent(s))
	}
}

// Activate activates the store
func (s *Store) Activate() error {
	if s.Status == StoreStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Store is already active")
	}

	oldStatus := s.Status
	s.Status = StoreStatusActive
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewStoreStatusChangedEvent(s, oldStatus, StoreStatusActive))

	return nil
}

// Deactivate deactivates the store. The default store cannot be deactivated.
func (s *Store) Deactivate() error {
	if s.Status == StoreStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Store is already inactive")
	}
	if s.IsDefault {
		return shared.NewDomainError("CANNOT_DEACTIVATE_DEFAULT", "Cannot deactivate the default store")
	}

	oldStatus := s.Status
	s.Status = StoreStatusInactive
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewStoreStatusChangedEvent(s, oldStatus, StoreStatusInactive))

	return nil
}

// IsActive returns true if the store is active
func (s *Store) IsActive() bool {
	return s.Status == StoreStatusActive
}

// Location returns the store's timezone, falling back to UTC when the
// configured zone cannot be loaded
func (s *Store) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IsOpenAt reports whether the store accepts orders at the given instant,
// evaluated in the store's timezone
func (s *Store) IsOpenAt(at time.Time) bool {
	ws, err := s.GetSchedule()
	if err != nil {
		return false
	}
	blocked, err := s.GetBlockedDates()
	if err != nil {
		return false
	}
	return IsOpen(ws, blocked, at.In(s.Location()))
}

// NextValidOrderTime returns the earliest instant at or after from when an
// order can be placed, in the store's timezone
func (s *Store) NextValidOrderTime(from time.Time) (time.Time, error) {
	ws, err := s.GetSchedule()
	if err != nil {
		return time.Time{}, err
	}
	blocked, err := s.GetBlockedDates()
	if err != nil {
		return time.Time{}, err
	}
	return NextValidOrderTime(ws, blocked, from.In(s.Location()))
}

// MeetsMinimumOrder reports whether a subtotal satisfies the store's
// minimum order amount
func (s *Store) MeetsMinimumOrder(subtotal valueobject.Money) bool {
	if s.MinOrderAmount.IsZero() {
		return true
	}
	ok, err := subtotal.GreaterThanOrEqual(s.MinOrderAmount)
	return err == nil && ok
}

func validateStoreName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Store name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Store name cannot exceed 200 characters")
	}
	return nil
}
