package customer

import (
	"context"
	"errors"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/customer"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// CustomerService handles customer business logic
type CustomerService struct {
	customerRepo customer.CustomerRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo customer.CustomerRepository) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
	}
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, tenantID uuid.UUID, req CreateCustomerRequest) (*CustomerResponse, error) {
	parsed, err := valueobject.NewPhone(req.Phone)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PHONE", "Invalid phone number")
	}

	exists, err := s.customerRepo.ExistsByPhone(ctx, tenantID, parsed.Digits())
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A customer with this phone already exists")
	}

	cust, err := customer.NewCustomer(tenantID, req.Name, req.Phone)
	if err != nil {
		return nil, err
	}

	if req.Email != "" {
		if err := cust.SetEmail(req.Email); err != nil {
			return nil, err
		}
	}
	if req.Document != "" {
		if err := cust.SetDocument(req.Document); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		if err := cust.Update(req.Name, req.Notes); err != nil {
			return nil, err
		}
	}
	if req.Address != nil {
		address, err := req.Address.ToAddress()
		if err != nil {
			return nil, shared.NewDomainError("INVALID_ADDRESS", err.Error())
		}
		if err := cust.AddAddress(address); err != nil {
			return nil, err
		}
	}

	if err := s.customerRepo.Create(ctx, cust); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(cust)
	return &response, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, tenantID, customerID uuid.UUID) (*CustomerResponse, error) {
	cust, err := s.findCustomer(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}

	response := ToCustomerResponse(cust)
	return &response, nil
}

// List retrieves customers with search and pagination. The search keyword
// matches name, phone or document prefixes.
func (s *CustomerService) List(ctx context.Context, tenantID uuid.UUID, filter CustomerListFilter) ([]CustomerListResponse, int64, error) {
	domainFilter := customer.NewCustomerFilter()
	if filter.Search != "" {
		domainFilter = domainFilter.WithKeyword(filter.Search)
	}
	if filter.Page > 0 || filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		pageSize := filter.PageSize
		if pageSize <= 0 {
			pageSize = 20
		}
		domainFilter = domainFilter.WithPagination(page, pageSize)
	}
	if filter.OrderBy != "" {
		domainFilter.SortBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.SortOrder = filter.OrderDir
	}

	customers, total, err := s.customerRepo.FindAll(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToCustomerListResponses(customers), total, nil
}

// Update updates a customer's fields. An empty document string clears the
// stored document.
func (s *CustomerService) Update(ctx context.Context, tenantID, customerID uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	cust, err := s.findCustomer(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Notes != nil {
		name := cust.Name
		if req.Name != nil {
			name = *req.Name
		}
		notes := cust.Notes
		if req.Notes != nil {
			notes = *req.Notes
		}
		if err := cust.Update(name, notes); err != nil {
			return nil, err
		}
	}

	if req.Phone != nil {
		parsed, err := valueobject.NewPhone(*req.Phone)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_PHONE", "Invalid phone number")
		}
		if parsed.Digits() != cust.Phone {
			exists, err := s.customerRepo.ExistsByPhone(ctx, tenantID, parsed.Digits())
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, shared.NewDomainError("ALREADY_EXISTS", "A customer with this phone already exists")
			}
			if err := cust.SetPhone(*req.Phone); err != nil {
				return nil, err
			}
		}
	}

	if req.Email != nil {
		if err := cust.SetEmail(*req.Email); err != nil {
			return nil, err
		}
	}
	if req.Document != nil {
		if *req.Document == "" {
			cust.ClearDocument()
		} else if err := cust.SetDocument(*req.Document); err != nil {
			return nil, err
		}
	}

	if err := s.customerRepo.Update(ctx, cust); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(cust)
	return &response, nil
}

// AddAddress appends an address to the customer's address book
func (s *CustomerService) AddAddress(ctx context.Context, tenantID, customerID uuid.UUID, req AddressRequest) (*CustomerResponse, error) {
	cust, err := s.findCustomer(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}

	address, err := req.ToAddress()
	if err != nil {
		return nil, shared.NewDomainError("INVALID_ADDRESS", err.Error())
	}

	if err := cust.AddAddress(address); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Update(ctx, cust); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(cust)
	return &response, nil
}

// UpdateAddress replaces the address at the given position
func (s *CustomerService) UpdateAddress(ctx context.Context, tenantID, customerID uuid.UUID, index int, req AddressRequest) (*CustomerResponse, error) {
	cust, err := s.findCustomer(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}

	address, err := req.ToAddress()
	if err != nil {
		return nil, shared.NewDomainError("INVALID_ADDRESS", err.Error())
	}

	if err := cust.UpdateAddress(index, address); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Update(ctx, cust); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(cust)
	return &response, nil
}

// RemoveAddress removes the address at the given position
func (s *CustomerService) RemoveAddress(ctx context.Context, tenantID, customerID uuid.UUID, index int) (*CustomerResponse, error) {
	cust, err := s.findCustomer(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}

	if err := cust.RemoveAddress(index); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Update(ctx, cust); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(cust)
	return &response, nil
}

// Delete deletes a customer. Order history keeps its customer snapshot, so
// past orders are unaffected.
func (s *CustomerService) Delete(ctx context.Context, tenantID, customerID uuid.UUID) error {
	cust, err := s.findCustomer(ctx, tenantID, customerID)
	if err != nil {
		return err
	}

	return s.customerRepo.Delete(ctx, cust.ID)
}

// UpsertByPhone finds the customer with the given phone or creates one.
// Existing customers get their name refreshed; checkout uses this so a
// returning buyer keeps their history under one record.
func (s *CustomerService) UpsertByPhone(ctx context.Context, tenantID uuid.UUID, name, phone string) (*customer.Customer, error) {
	parsed, err := valueobject.NewPhone(phone)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PHONE", "Invalid phone number")
	}

	cust, err := s.customerRepo.FindByPhone(ctx, tenantID, parsed.Digits())
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}

		cust, err = customer.NewCustomer(tenantID, name, phone)
		if err != nil {
			return nil, err
		}
		if err := s.customerRepo.Create(ctx, cust); err != nil {
			return nil, err
		}
		return cust, nil
	}

	if name != "" && name != cust.Name {
		if err := cust.Update(name, cust.Notes); err != nil {
			return nil, err
		}
		if err := s.customerRepo.Update(ctx, cust); err != nil {
			return nil, err
		}
	}

	return cust, nil
}

func (s *CustomerService) findCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (*customer.Customer, error) {
	cust, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CUSTOMER_NOT_FOUND", "Customer not found")
		}
		return nil, err
	}
	return cust, nil
}
