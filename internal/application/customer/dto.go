package customer

import (
	"time"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/customer"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddressRequest represents one address in create/update payloads
type AddressRequest struct {
	Label      string `json:"label" binding:"max=50"`
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
func (r AddressRequest) ToAddress() (valueobject.Address, error) {
	return valueobject.NewAddress(r.Label, r.CEP, r.Street, r.Number, r.Complement,
		r.District, r.City, r.State, r.Reference)
}

// CreateCustomerRequest represents a request to create a customer
type CreateCustomerRequest struct {
	Name     string          `json:"name" binding:"required,min=1,max=150"`
	Phone    string          `json:"phone" binding:"required"`
	Email    string          `json:"email" binding:"omitempty,email"`
	Document string          `json:"document" binding:"omitempty,cpfcnpj"`
	Notes    string          `json:"notes" binding:"max=1000"`
	Address  *AddressRequest `json:"address"`
}

// UpdateCustomerRequest represents a request to update a customer.
// An empty document string clears the stored document.
type UpdateCustomerRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=150"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Document *string `json:"document"`
	Notes    *string `json:"notes" binding:"omitempty,max=1000"`
}

// AddressResponse represents an address in API responses
type AddressResponse struct {
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

// ToAddressResponse converts an Address value object to its response form
func ToAddressResponse(a valueobject.Address) AddressResponse {
	return AddressResponse{
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

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID           uuid.UUID         `json:"id"`
	TenantID     uuid.UUID         `json:"tenant_id"`
	Name         string            `json:"name"`
	Phone        string            `json:"phone"`
	PhoneMasked  string            `json:"phone_masked"`
	Email        string            `json:"email,omitempty"`
	Document     string            `json:"document,omitempty"`
	DocumentKind string            `json:"document_kind,omitempty"`
	Notes        string            `json:"notes,omitempty"`
	Addresses    []AddressResponse `json:"addresses"`
	OrderCount   int               `json:"order_count"`
	TotalSpent   decimal.Decimal   `json:"total_spent"`
	LastOrderAt  *time.Time        `json:"last_order_at,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	Version      int               `json:"version"`
}

// CustomerListResponse represents a list item for customers
type CustomerListResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Phone       string          `json:"phone"`
	PhoneMasked string          `json:"phone_masked"`
	Email       string          `json:"email,omitempty"`
	OrderCount  int             `json:"order_count"`
	TotalSpent  decimal.Decimal `json:"total_spent"`
	LastOrderAt *time.Time      `json:"last_order_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CustomerListFilter represents filter options for customer list
type CustomerListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=name created_at order_count total_spent last_order_at"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToCustomerResponse converts a domain Customer to CustomerResponse
func ToCustomerResponse(c *customer.Customer) CustomerResponse {
	addresses, _ := c.GetAddresses()
	addressResponses := make([]AddressResponse, len(addresses))
	for i, a := range addresses {
		addressResponses[i] = ToAddressResponse(a)
	}

	return CustomerResponse{
		ID:           c.ID,
		TenantID:     c.TenantID,
		Name:         c.Name,
		Phone:        c.Phone,
		PhoneMasked:  c.PhoneValue().Masked(),
		Email:        c.Email,
		Document:     c.Document,
		DocumentKind: c.DocumentKind,
		Notes:        c.Notes,
		Addresses:    addressResponses,
		OrderCount:   c.OrderCount,
		TotalSpent:   c.TotalSpent,
		LastOrderAt:  c.LastOrderAt,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
		Version:      c.Version,
	}
}

// ToCustomerListResponse converts a domain Customer to CustomerListResponse
func ToCustomerListResponse(c *customer.Customer) CustomerListResponse {
	return CustomerListResponse{
		ID:          c.ID,
		Name:        c.Name,
		Phone:       c.Phone,
		PhoneMasked: c.PhoneValue().Masked(),
		Email:       c.Email,
		OrderCount:  c.OrderCount,
		TotalSpent:  c.TotalSpent,
		LastOrderAt: c.LastOrderAt,
		CreatedAt:   c.CreatedAt,
	}
}

// ToCustomerListResponses converts a slice of domain Customers to list responses
func ToCustomerListResponses(customers []*customer.Customer) []CustomerListResponse {
	responses := make([]CustomerListResponse, len(customers))
	for i, c := range customers {
		responses[i] = ToCustomerListResponse(c)
	}
	return responses
}
