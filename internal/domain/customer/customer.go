package customer

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// MaxCustomerAddresses caps the address book size
const MaxCustomerAddresses = 10

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Customer is a storefront buyer of a tenant. Customers are keyed by
// phone: checkout upserts by phone so a returning buyer keeps their
// address book and order stats without creating an account.
type Customer struct {
	shared.TenantAggregateRoot
	Name         string         `gorm:"type:varchar(150);not null"`
	Phone        string         `gorm:"type:varchar(11);not null;index"` // National digit form, no country code
	Email        string         `gorm:"type:varchar(255)"`
	Document     string         `gorm:"type:varchar(14);index"` // Unmasked CPF/CNPJ digits
	DocumentKind string         `gorm:"type:varchar(4)"`
	Notes        string         `gorm:"type:varchar(1000)"`
	Addresses    datatypes.JSON `gorm:"type:jsonb"` // []valueobject.Address

	OrderCount  int             `gorm:"not null;default:0"`
	TotalSpent  decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	LastOrderAt *time.Time

	addresses []valueobject.Address `gorm:"-"` // Decoded address book cache
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer
func NewCustomer(tenantID uuid.UUID, name, phone string) (*Customer, error) {
	if err := validateCustomerName(name); err != nil {
		return nil, err
	}
	parsed, err := valueobject.NewPhone(phone)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PHONE", "Invalid phone number")
	}

	customer := &Customer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                strings.TrimSpace(name),
		Phone:               parsed.Digits(),
		TotalSpent:          decimal.Zero,
	}

	customer.AddDomainEvent(NewCustomerCreatedEvent(customer))

	return customer, nil
}

// Update updates the customer's basic information
func (c *Customer) Update(name, notes string) error {
	if err := validateCustomerName(name); err != nil {
		return err
	}
	if len(notes) > 1000 {
		return shared.NewDomainError("INVALID_NOTES", "Notes cannot exceed 1000 characters")
	}

	c.Name = strings.TrimSpace(name)
	c.Notes = strings.TrimSpace(notes)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerUpdatedEvent(c))

	return nil
}

// SetPhone changes the customer's phone number
func (c *Customer) SetPhone(phone string) error {
	parsed, err := valueobject.NewPhone(phone)
	if err != nil {
		return shared.NewDomainError("INVALID_PHONE", "Invalid phone number")
	}

	c.Phone = parsed.Digits()
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// PhoneValue returns the phone as its value object
func (c *Customer) PhoneValue() valueobject.Phone {
	phone, err := valueobject.NewPhone(c.Phone)
	if err != nil {
		return valueobject.Phone{}
	}
	return phone
}

// SetEmail sets the customer's email, empty clears it
func (c *Customer) SetEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email != "" && !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}

	c.Email = email
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetDocument sets the customer's CPF or CNPJ from masked or plain input
func (c *Customer) SetDocument(input string) error {
	doc, err := valueobject.NewDocument(input)
	if err != nil {
		return shared.NewDomainError("INVALID_DOCUMENT", err.Error())
	}

	c.Document = doc.Digits()
	c.DocumentKind = string(doc.Kind())
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// ClearDocument removes the stored document
func (c *Customer) ClearDocument() {
	if c.Document == "" {
		return
	}

	c.Document = ""
	c.DocumentKind = ""
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// HasDocument returns true if a document is stored
func (c *Customer) HasDocument() bool {
	return c.Document != ""
}

// GetAddresses decodes and returns the address book
func (c *Customer) GetAddresses() ([]valueobject.Address, error) {
	if c.addresses != nil {
		return c.addresses, nil
	}
	addresses := make([]valueobject.Address, 0)
	if len(c.Addresses) > 0 {
		if err := json.Unmarshal(c.Addresses, &addresses); err != nil {
			return nil, shared.NewDomainError("INVALID_ADDRESSES", "Could not decode address book")
		}
	}
	c.addresses = addresses
	return addresses, nil
}

// AddAddress appends an address to the book
func (c *Customer) AddAddress(address valueobject.Address) error {
	addresses, err := c.GetAddresses()
	if err != nil {
		return err
	}
	if len(addresses) >= MaxCustomerAddresses {
		return shared.NewDomainError("ADDRESS_LIMIT", "Customer cannot have more than 10 addresses")
	}

	return c.setAddresses(append(addresses, address))
}

// UpdateAddress replaces the address at the given position
func (c *Customer) UpdateAddress(index int, address valueobject.Address) error {
	addresses, err := c.GetAddresses()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(addresses) {
		return shared.NewDomainError("ADDRESS_NOT_FOUND", "Address index out of range")
	}

	addresses[index] = address
	return c.setAddresses(addresses)
}

// RemoveAddress removes the address at the given position
func (c *Customer) RemoveAddress(index int) error {
	addresses, err := c.GetAddresses()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(addresses) {
		return shared.NewDomainError("ADDRESS_NOT_FOUND", "Address index out of range")
	}

	return c.setAddresses(append(addresses[:index], addresses[index+1:]...))
}

// PrimaryAddress returns the first address of the book, nil when empty
func (c *Customer) PrimaryAddress() *valueobject.Address {
	addresses, err := c.GetAddresses()
	if err != nil || len(addresses) == 0 {
		return nil
	}
	return &addresses[0]
}

func (c *Customer) setAddresses(addresses []valueobject.Address) error {
	data, err := json.Marshal(addresses)
	if err != nil {
		return shared.NewDomainError("INVALID_ADDRESSES", "Could not encode address book")
	}

	c.Addresses = data
	c.addresses = addresses
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// RecordOrder folds a placed order into the customer's stats
func (c *Customer) RecordOrder(total valueobject.Money, at time.Time) {
	c.OrderCount++
	c.TotalSpent = c.TotalSpent.Add(total.Amount())
	c.LastOrderAt = &at
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerOrderRecordedEvent(c))
}

// TotalSpentMoney returns the lifetime spend as Money
func (c *Customer) TotalSpentMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(c.TotalSpent)
}

// IsFirstOrder reports whether the customer has never ordered, used by
// first-order campaign conditions
func (c *Customer) IsFirstOrder() bool {
	return c.OrderCount == 0
}

// validateCustomerName validates the customer name
func validateCustomerName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(name) > 150 {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 150 characters")
	}
	return nil
}
