package store

import (
	"time"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared/valueobject"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateStoreRequest represents a request to create a store
type CreateStoreRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"max=500"`
}

// AddressRequest represents a store address in requests
type AddressRequest struct {
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
	return valueobject.NewAddress("", r.CEP, r.Street, r.Number, r.Complement,
		r.District, r.City, r.State, r.Reference)
}

// UpdateStoreRequest represents a request to update a store's profile
type UpdateStoreRequest struct {
	Name        *string         `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string         `json:"description" binding:"omitempty,max=500"`
	Phone       *string         `json:"phone" binding:"omitempty,max=20"`
	WhatsApp    *string         `json:"whatsapp" binding:"omitempty,max=20"`
	Email       *string         `json:"email" binding:"omitempty,email"`
	Timezone    *string         `json:"timezone" binding:"omitempty,max=50"`
	LogoURL     *string         `json:"logo_url" binding:"omitempty,max=500"`
	BannerURL   *string         `json:"banner_url" binding:"omitempty,max=500"`
	Address     *AddressRequest `json:"address"`
}

// UpdateStoreSettingsRequest represents a request to change how the
// store takes orders
type UpdateStoreSettingsRequest struct {
	DeliveryEnabled *bool            `json:"delivery_enabled"`
	PickupEnabled   *bool            `json:"pickup_enabled"`
	MinOrderAmount  *decimal.Decimal `json:"min_order_amount"`
	FlatDeliveryFee *decimal.Decimal `json:"flat_delivery_fee"`
	PrepTimeMinutes *int             `json:"prep_time_minutes" binding:"omitempty,min=0,max=480"`
}

// TimeIntervalRequest represents one opening window
type TimeIntervalRequest struct {
	Open  string `json:"open" binding:"required,hhmm"`
	Close string `json:"close" binding:"required,hhmm"`
}

// DayScheduleRequest represents the opening hours of one weekday
type DayScheduleRequest struct {
	Enabled   bool                  `json:"enabled"`
	Intervals []TimeIntervalRequest `json:"intervals" binding:"omitempty,max=2,dive"`
}

// PutScheduleRequest replaces the weekly opening hours. Days are indexed
// like time.Weekday, Sunday first.
type PutScheduleRequest struct {
	Days []DayScheduleRequest `json:"days" binding:"required,len=7,dive"`
}

// ToWeeklySchedule converts the request to the domain schedule
func (r PutScheduleRequest) ToWeeklySchedule() store.WeeklySchedule {
	var ws store.WeeklySchedule
	for i, day := range r.Days {
		intervals := make([]store.TimeInterval, len(day.Intervals))
		for j, iv := range day.Intervals {
			intervals[j] = store.TimeInterval{Open: iv.Open, Close: iv.Close}
		}
		ws[i] = store.DaySchedule{Enabled: day.Enabled, Intervals: intervals}
	}
	return ws
}

// PutBlockedDatesRequest replaces the store's blocked dates
type PutBlockedDatesRequest struct {
	Dates []string `json:"dates" binding:"required,max=366,dive,datetime=2006-01-02"`
}

// StoreListFilter represents filter options for the store list
type StoreListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive"`
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
}

// AddressResponse represents a store address in responses
type AddressResponse struct {
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

// ScheduleResponse represents the opening hours configuration
type ScheduleResponse struct {
	Schedule     store.WeeklySchedule `json:"schedule"`
	BlockedDates []string             `json:"blocked_dates"`
}

// StoreResponse represents a store in API responses
type StoreResponse struct {
	ID              uuid.UUID            `json:"id"`
	TenantID        uuid.UUID            `json:"tenant_id"`
	Name            string               `json:"name"`
	Description     string               `json:"description,omitempty"`
	Status          string               `json:"status"`
	Phone           string               `json:"phone,omitempty"`
	WhatsApp        string               `json:"whatsapp,omitempty"`
	Email           string               `json:"email,omitempty"`
	Address         *AddressResponse     `json:"address,omitempty"`
	Timezone        string               `json:"timezone"`
	LogoURL         string               `json:"logo_url,omitempty"`
	BannerURL       string               `json:"banner_url,omitempty"`
	IsDefault       bool                 `json:"is_default"`
	DeliveryEnabled bool                 `json:"delivery_enabled"`
	PickupEnabled   bool                 `json:"pickup_enabled"`
	MinOrderAmount  decimal.Decimal      `json:"min_order_amount"`
	FlatDeliveryFee decimal.Decimal      `json:"flat_delivery_fee"`
	PrepTimeMinutes int                  `json:"prep_time_minutes"`
	Schedule        store.WeeklySchedule `json:"schedule"`
	BlockedDates    []string             `json:"blocked_dates"`
	OpenNow         bool                 `json:"open_now"`
	NextOrderAt     *time.Time           `json:"next_order_at,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
	Version         int                  `json:"version"`
}

// StoreListResponse represents a store in list views
type StoreListResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	IsDefault bool      `json:"is_default"`
	City      string    `json:"city,omitempty"`
	State     string    `json:"state,omitempty"`
	OpenNow   bool      `json:"open_now"`
	CreatedAt time.Time `json:"created_at"`
}

// ToStoreResponse converts a domain Store to StoreResponse
func ToStoreResponse(s *store.Store) StoreResponse {
	now := time.Now()
	schedule, _ := s.GetSchedule()
	blocked, _ := s.GetBlockedDates()

	var address *AddressResponse
	if !s.Address.IsZero() {
		address = &AddressResponse{
			CEP:        s.Address.CEP,
			Street:     s.Address.Street,
			Number:     s.Address.Number,
			Complement: s.Address.Complement,
			District:   s.Address.District,
			City:       s.Address.City,
			State:      s.Address.State,
			Reference:  s.Address.Reference,
			Display:    s.Address.OneLine(),
		}
	}

	openNow := s.IsOpenAt(now)
	var nextOrderAt *time.Time
	if !openNow {
		if next, err := s.NextValidOrderTime(now); err == nil {
			nextOrderAt = &next
		}
	}

	return StoreResponse{
		ID:              s.ID,
		TenantID:        s.TenantID,
		Name:            s.Name,
		Description:     s.Description,
		Status:          string(s.Status),
		Phone:           s.Phone,
		WhatsApp:        s.WhatsApp,
		Email:           s.Email,
		Address:         address,
		Timezone:        s.Timezone,
		LogoURL:         s.LogoURL,
		BannerURL:       s.BannerURL,
		IsDefault:       s.IsDefault,
		DeliveryEnabled: s.DeliveryEnabled,
		PickupEnabled:   s.PickupEnabled,
		MinOrderAmount:  s.MinOrderAmount.Amount(),
		FlatDeliveryFee: s.FlatDeliveryFee.Amount(),
		PrepTimeMinutes: s.PrepTimeMinutes,
		Schedule:        schedule,
		BlockedDates:    blocked,
		OpenNow:         openNow,
		NextOrderAt:     nextOrderAt,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
		Version:         s.Version,
	}
}

// ToStoreListResponse converts a domain Store to its list form
func ToStoreListResponse(s *store.Store) StoreListResponse {
	return StoreListResponse{
		ID:        s.ID,
		Name:      s.Name,
		Status:    string(s.Status),
		IsDefault: s.IsDefault,
		City:      s.Address.City,
		State:     s.Address.State,
		OpenNow:   s.IsOpenAt(time.Now()),
		CreatedAt: s.CreatedAt,
	}
}

// ToStoreListResponses converts a slice of domain Stores to list responses
func ToStoreListResponses(stores []*store.Store) []StoreListResponse {
	responses := make([]StoreListResponse, len(stores))
	for i, s := range stores {
		responses[i] = ToStoreListResponse(s)
	}
	return responses
}
