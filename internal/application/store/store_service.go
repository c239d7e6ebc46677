package store

import (
	"context"
	"errors"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared/valueobject"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/store"
	"github.com/google/uuid"
)

// StoreService handles store application logic
type StoreService struct {
	storeRepo store.StoreRepository
}

// NewStoreService creates a new store service
func NewStoreService(storeRepo store.StoreRepository) *StoreService {
	return &StoreService{
		storeRepo: storeRepo,
	}
}

// Create creates a new store. The tenant's first store becomes the default.
func (s *StoreService) Create(ctx context.Context, tenantID uuid.UUID, req CreateStoreRequest) (*StoreResponse, error) {
	st, err := store.NewStore(tenantID, req.Name)
	if err != nil {
		return nil, err
	}
	if req.Description != "" {
		if err := st.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}

	count, err := s.storeRepo.Count(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		st.SetDefault(true)
	}

	if err := s.storeRepo.Create(ctx, st); err != nil {
		return nil, err
	}

	response := ToStoreResponse(st)
	return &response, nil
}

// GetByID retrieves a store by ID
func (s *StoreService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*StoreResponse, error) {
	st, err := s.findStore(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	response := ToStoreResponse(st)
	return &response, nil
}

// GetDefault retrieves the tenant's default store
func (s *StoreService) GetDefault(ctx context.Context, tenantID uuid.UUID) (*StoreResponse, error) {
	st, err := s.storeRepo.FindDefault(ctx, tenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("STORE_NOT_FOUND", "Store not found")
		}
		return nil, err
	}

	response := ToStoreResponse(st)
	return &response, nil
}

// List retrieves stores with optional filtering
func (s *StoreService) List(ctx context.Context, tenantID uuid.UUID, filter StoreListFilter) ([]StoreListResponse, error) {
	domainFilter := &store.StoreFilter{
		Keyword: filter.Search,
	}
	if filter.Status != "" {
		status := store.StoreStatus(filter.Status)
		domainFilter.Status = &status
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
		domainFilter.Page = page
		domainFilter.Limit = pageSize
	}

	stores, err := s.storeRepo.FindAll(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, err
	}

	return ToStoreListResponses(stores), nil
}

// Update updates a store's profile
func (s *StoreService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateStoreRequest) (*StoreResponse, error) {
	st, err := s.findStore(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Description != nil {
		name := st.Name
		if req.Name != nil {
			name = *req.Name
		}
		description := st.Description
		if req.Description != nil {
			description = *req.Description
		}
		if err := st.Update(name, description); err != nil {
			return nil, err
		}
	}

	if req.Phone != nil || req.WhatsApp != nil || req.Email != nil {
		phone := st.Phone
		if req.Phone != nil {
			phone = *req.Phone
		}
		whatsapp := st.WhatsApp
		if req.WhatsApp != nil {
			whatsapp = *req.WhatsApp
		}
		email := st.Email
		if req.Email != nil {
			email = *req.Email
		}
		if err := st.SetContact(phone, whatsapp, email); err != nil {
			return nil, err
		}
	}

	if req.Timezone != nil {
		if err := st.SetTimezone(*req.Timezone); err != nil {
			return nil, err
		}
	}

	if req.LogoURL != nil || req.BannerURL != nil {
		logoURL := st.LogoURL
		if req.LogoURL != nil {
			logoURL = *req.LogoURL
		}
		bannerURL := st.BannerURL
		if req.BannerURL != nil {
			bannerURL = *req.BannerURL
		}
		if err := st.SetImages(logoURL, bannerURL); err != nil {
			return nil, err
		}
	}

	if req.Address != nil {
		address, err := req.Address.ToAddress()
		if err != nil {
			return nil, shared.NewDomainError("INVALID_ADDRESS", err.Error())
		}
		st.SetAddress(address)
	}

	if err := s.storeRepo.Update(ctx, st); err != nil {
		return nil, err
	}

	response := ToStoreResponse(st)
	return &response, nil
}

// UpdateSettings updates how the store takes orders
func (s *StoreService) UpdateSettings(ctx context.Context, tenantID, id uuid.UUID, req UpdateStoreSettingsRequest) (*StoreResponse, error) {
	st, err := s.findStore(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.DeliveryEnabled != nil || req.PickupEnabled != nil {
		delivery := st.DeliveryEnabled
		if req.DeliveryEnabled != nil {
			delivery = *req.DeliveryEnabled
		}
		pickup := st.PickupEnabled
		if req.PickupEnabled != nil {
			pickup = *req.PickupEnabled
		}
		if err := st.SetCheckoutOptions(delivery, pickup); err != nil {
			return nil, err
		}
	}

	if req.MinOrderAmount != nil {
		if err := st.SetMinOrderAmount(valueobject.NewMoneyBRL(*req.MinOrderAmount)); err != nil {
			return nil, err
		}
	}

	if req.FlatDeliveryFee != nil {
		if err := st.SetFlatDeliveryFee(valueobject.NewMoneyBRL(*req.FlatDeliveryFee)); err != nil {
			return nil, err
		}
	}

	if req.PrepTimeMinutes != nil {
		if err := st.SetPrepTime(*req.PrepTimeMinutes); err != nil {
			return nil, err
		}
	}

	if err := s.storeRepo.Update(ctx, st); err != nil {
		return nil, err
	}

	response := ToStoreResponse(st)
	return &response, nil
}

// GetSchedule retrieves a store's opening hours and blocked dates
func (s *StoreService) GetSchedule(ctx context.Context, tenantID, id uuid.UUID) (*ScheduleResponse, error) {
	st, err := s.findStore(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	return s.scheduleResponse(st)
}

// PutSchedule replaces a store's weekly opening hours
func (s *StoreService) PutSchedule(ctx context.Context, tenantID, id uuid.UUID, req PutScheduleRequest) (*ScheduleResponse, error) {
	st, err := s.findStore(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := st.SetSchedule(req.ToWeeklySchedule()); err != nil {
		return nil, err
	}

	if err := s.storeRepo.Update(ctx, st); err != nil {
		return nil, err
	}

	return s.scheduleResponse(st)
}

// PutBlockedDates replaces a store's blocked dates
func (s *StoreService) PutBlockedDates(ctx context.Context, tenantID, id uuid.UUID, req PutBlockedDatesRequest) (*ScheduleResponse, error) {
	st, err := s.findStore(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := st.SetBlockedDates(req.Dates); err != nil {
		return nil, err
	}

	if err := s.storeRepo.Update(ctx, st); err != nil {
		return nil, err
	}

	return s.scheduleResponse(st)
}

// SetDefault promotes a store to be the tenant's default
func (s *StoreService) SetDefault(ctx context.Context, tenantID, id uuid.UUID) (*StoreResponse, error) {
	st, err := s.findStore(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if !st.IsDefault {
		if !st.IsActive() {
			return nil, shared.NewDomainError("STORE_INACTIVE", "Activate the store before making it the default")
		}
		if err := s.storeRepo.ClearDefault(ctx, tenantID); err != nil {
			return nil, err
		}
		st.SetDefault(true)
		if err := s.storeRepo.Update(ctx, st); err != nil {
			return nil, err
		}
	}

	response := ToStoreResponse(st)
	return &response, nil
}

// Activate activates a store
func (s *StoreService) Activate(ctx context.Context, tenantID, id uuid.UUID) (*StoreResponse, error) {
	st, err := s.findStore(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := st.Activate(); err != nil {
		return nil, err
	}

	if err := s.storeRepo.Update(ctx, st); err != nil {
		return nil, err
	}

	response := ToStoreResponse(st)
	return &response, nil
}

// Deactivate deactivates a store. The default store cannot be deactivated.
func (s *StoreService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) (*StoreResponse, error) {
	st, err := s.findStore(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := st.Deactivate(); err != nil {
		return nil, err
	}

	if err := s.storeRepo.Update(ctx, st); err != nil {
		return nil, err
	}

	response := ToStoreResponse(st)
	return &response, nil
}

// Delete deletes a store. The default store and the tenant's last store
// cannot be deleted.
func (s *StoreService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	st, err := s.findStore(ctx, tenantID, id)
	if err != nil {
		return err
	}

	if st.IsDefault {
		return shared.NewDomainError("CANNOT_DELETE_DEFAULT", "Promote another store to default before deleting this one")
	}

	count, err := s.storeRepo.Count(ctx, tenantID)
	if err != nil {
		return err
	}
	if count <= 1 {
		return shared.NewDomainError("LAST_STORE", "A tenant needs at least one store")
	}

	return s.storeRepo.Delete(ctx, st.ID)
}

func (s *StoreService) findStore(ctx context.Context, tenantID, id uuid.UUID) (*store.Store, error) {
	st, err := s.storeRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("STORE_NOT_FOUND", "Store not found")
		}
		return nil, err
	}
	return st, nil
}

func (s *StoreService) scheduleResponse(st *store.Store) (*ScheduleResponse, error) {
	schedule, err := st.GetSchedule()
	if err != nil {
		return nil, err
	}
	blocked, err := st.GetBlockedDates()
	if err != nil {
		return nil, err
	}

	return &ScheduleResponse{
		Schedule:     schedule,
		BlockedDates: blocked,
	}, nil
}
