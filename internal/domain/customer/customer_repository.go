package customer

import (
	"context"

	"github.com/google/uuid"
)

// CustomerFilter defines filtering options for customer queries
type CustomerFilter struct {
	// Keyword matches name, phone or document prefix
	Keyword   string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// NewCustomerFilter creates a filter with default pagination
func NewCustomerFilter() CustomerFilter {
	return CustomerFilter{
		Page:      1,
		PageSize:  20,
		SortBy:    "created_at",
		SortOrder: "desc",
	}
}

// WithKeyword sets the search keyword
func (f CustomerFilter) WithKeyword(keyword string) CustomerFilter {
	f.Keyword = keyword
	return f
}

// WithPagination sets pagination parameters
func (f CustomerFilter) WithPagination(page, pageSize int) CustomerFilter {
	f.Page = page
	f.PageSize = pageSize
	return f
}

// Offset returns the query offset
func (f CustomerFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.Limit()
}

// Limit returns the query limit
func (f CustomerFilter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// Create creates a new customer
	Create(ctx context.Context, customer *Customer) error

	// Update updates an existing customer
	Update(ctx context.Context, customer *Customer) error

	// Delete deletes a customer by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a customer by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindByIDForTenant finds a customer scoped to a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Customer, error)

	// FindByPhone finds a customer by phone in national digit form,
	// used by the checkout merge-by-phone upsert
	FindByPhone(ctx context.Context, tenantID uuid.UUID, phone string) (*Customer, error)

	// FindByDocument finds a customer by unmasked CPF/CNPJ digits
	FindByDocument(ctx context.Context, tenantID uuid.UUID, document string) (*Customer, error)

	// FindAll finds customers of a tenant with filtering and the total count
	FindAll(ctx context.Context, tenantID uuid.UUID, filter CustomerFilter) ([]*Customer, int64, error)

	// ExistsByPhone checks whether a customer with the phone exists
	ExistsByPhone(ctx context.Context, tenantID uuid.UUID, phone string) (bool, error)

	// Count counts customers of a tenant
	Count(ctx context.Context, tenantID uuid.UUID) (int64, error)
}
