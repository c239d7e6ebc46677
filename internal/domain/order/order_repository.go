package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderFilter represents filtering options for order queries
type OrderFilter struct {
	StoreID    *uuid.UUID
	CustomerID *uuid.UUID
	Status     *OrderStatus
	From       *time.Time
	To         *time.Time
	Keyword    string // Matches order number, customer name or phone
	Page       int
	PageSize   int
}

// NewOrderFilter creates a filter with default pagination
func NewOrderFilter() OrderFilter {
	return OrderFilter{
		Page:     1,
		PageSize: 20,
	}
}

// WithStore filters by store
func (f OrderFilter) WithStore(storeID uuid.UUID) OrderFilter {
	f.StoreID = &storeID
	return f
}

// WithCustomer filters by customer
func (f OrderFilter) WithCustomer(customerID uuid.UUID) OrderFilter {
	f.CustomerID = &customerID
	return f
}

// WithStatus filters by order status
func (f OrderFilter) WithStatus(status OrderStatus) OrderFilter {
	f.Status = &status
	return f
}

// WithPeriod filters by creation time range
func (f OrderFilter) WithPeriod(from, to time.Time) OrderFilter {
	f.From = &from
	f.To = &to
	return f
}

// WithKeyword filters by order number, customer name or phone
func (f OrderFilter) WithKeyword(keyword string) OrderFilter {
	f.Keyword = keyword
	return f
}

// WithPagination sets the page and page size
func (f OrderFilter) WithPagination(page, pageSize int) OrderFilter {
	f.Page = page
	f.PageSize = pageSize
	return f
}

// Offset calculates the query offset
func (f OrderFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit()
}

// Limit returns the page size bounded to sane values
func (f OrderFilter) Limit() int {
	if f.PageSize < 1 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}

// OrderSummary aggregates order figures for a period
type OrderSummary struct {
	OrderCount    int64                 `json:"order_count"`
	Revenue       decimal.Decimal       `json:"revenue"`        // Sum of delivered order totals
	AverageTicket decimal.Decimal       `json:"average_ticket"` // Revenue / delivered count
	ByStatus      map[OrderStatus]int64 `json:"by_status"`
}

// OrderRepository defines the persistence interface for orders.
// Orders are never deleted; cancellation is a status.
type OrderRepository interface {
	// Create persists a new order with its items
	Create(ctx context.Context, order *Order) error

	// Update persists changes to an existing order
	Update(ctx context.Context, order *Order) error

	// FindByID retrieves an order by its ID, items included
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByIDForTenant retrieves an order scoped to a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Order, error)

	// FindByNumber retrieves an order by its per-store sequential number
	FindByNumber(ctx context.Context, tenantID, storeID uuid.UUID, number int64) (*Order, error)

	// FindAll retrieves orders for a tenant matching the filter,
	// newest first, with the total count
	FindAll(ctx context.Context, tenantID uuid.UUID, filter OrderFilter) ([]*Order, int64, error)

	// FindActiveByStore retrieves non-terminal orders for the store
	// board, oldest first
	FindActiveByStore(ctx context.Context, tenantID, storeID uuid.UUID) ([]*Order, error)

	// NextNumber reserves the next sequential order number for a store
	NextNumber(ctx context.Context, tenantID, storeID uuid.UUID) (int64, error)

	// Summary aggregates count, revenue, average ticket and per-status
	// counts for the period
	Summary(ctx context.Context, tenantID uuid.UUID, storeID *uuid.UUID, from, to time.Time) (*OrderSummary, error)

	// CountByCustomer counts orders placed by a customer
	CountByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (int64, error)
}
