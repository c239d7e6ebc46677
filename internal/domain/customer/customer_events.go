package customer

import (
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
)

// AggregateTypeCustomer is the aggregate type for customers
const AggregateTypeCustomer = "Customer"

// Customer event types
const (
	EventTypeCustomerCreated       = "customer.created"
	EventTypeCustomerUpdated       = "customer.updated"
	EventTypeCustomerDeleted       = "customer.deleted"
	EventTypeCustomerOrderRecorded = "customer.order_recorded"
)

// CustomerCreatedEvent is published when a customer is created
type CustomerCreatedEvent struct {
	shared.BaseDomainEvent
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// NewCustomerCreatedEvent creates a new customer created event
func NewCustomerCreatedEvent(customer *Customer) *CustomerCreatedEvent {
	return &CustomerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeCustomerCreated,
			AggregateTypeCustomer,
			customer.ID,
			customer.TenantID,
		),
		Name:  customer.Name,
		Phone: customer.Phone,
	}
}

// CustomerUpdatedEvent is published when a customer is updated
type CustomerUpdatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewCustomerUpdatedEvent creates a new customer updated event
func NewCustomerUpdatedEvent(customer *Customer) *CustomerUpdatedEvent {
	return &CustomerUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeCustomerUpdated,
			AggregateTypeCustomer,
			customer.ID,
			customer.TenantID,
		),
		Name: customer.Name,
	}
}

// CustomerDeletedEvent is published when a customer is deleted
type CustomerDeletedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewCustomerDeletedEvent creates a new customer deleted event
func NewCustomerDeletedEvent(customer *Customer) *CustomerDeletedEvent {
	return &CustomerDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeCustomerDeleted,
			AggregateTypeCustomer,
			customer.ID,
			customer.TenantID,
		),
		Name: customer.Name,
	}
}

// CustomerOrderRecordedEvent is published when an order is folded into
// the customer's stats
type CustomerOrderRecordedEvent struct {
	shared.BaseDomainEvent
	OrderCount int `json:"order_count"`
}

// NewCustomerOrderRecordedEvent creates a new customer order recorded event
func NewCustomerOrderRecordedEvent(customer *Customer) *CustomerOrderRecordedEvent {
	return &CustomerOrderRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeCustomerOrderRecorded,
			AggregateTypeCustomer,
			customer.ID,
			customer.TenantID,
		),
		OrderCount: customer.OrderCount,
	}
}
