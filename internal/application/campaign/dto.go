package campaign

import (
	"encoding/json"
	"time"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/campaign"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateCampaignRequest represents a request to create a campaign
type CreateCampaignRequest struct {
	Name          string          `json:"name" binding:"required,min=1,max=120"`
	Description   string          `json:"description" binding:"max=500"`
	DiscountKind  string          `json:"discount_kind" binding:"required,oneof=percentage fixed_amount free_shipping"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	CouponCode    string          `json:"coupon_code" binding:"omitempty,min=3,max=30"`
	BannerURL     string          `json:"banner_url" binding:"omitempty,url,max=500"`
	StartsAt      time.Time       `json:"starts_at" binding:"required"`
	EndsAt        *time.Time      `json:"ends_at"`
	RuleConfig    json.RawMessage `json:"rule_config"`
}

// UpdateCampaignRequest represents a request to update a campaign.
// Providing starts_at replaces the whole window; a missing ends_at then
// makes it open-ended. An empty coupon code makes the campaign
// automatic, and an empty rule_config object clears the conditions.
type UpdateCampaignRequest struct {
	Name          *string          `json:"name" binding:"omitempty,min=1,max=120"`
	Description   *string          `json:"description" binding:"omitempty,max=500"`
	DiscountKind  *string          `json:"discount_kind" binding:"omitempty,oneof=percentage fixed_amount free_shipping"`
	DiscountValue *decimal.Decimal `json:"discount_value"`
	CouponCode    *string          `json:"coupon_code"`
	BannerURL     *string          `json:"banner_url" binding:"omitempty,max=500"`
	StartsAt      *time.Time       `json:"starts_at"`
	EndsAt        *time.Time       `json:"ends_at"`
	RuleConfig    json.RawMessage  `json:"rule_config"`
}

// CampaignListFilter represents filter options for the campaign list
type CampaignListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=draft active paused expired"`
	Kind     string `form:"kind" binding:"omitempty,oneof=percentage fixed_amount free_shipping"`
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
}

// CampaignResponse represents a campaign in API responses
type CampaignResponse struct {
	ID            uuid.UUID       `json:"id"`
	TenantID      uuid.UUID       `json:"tenant_id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	BannerURL     string          `json:"banner_url,omitempty"`
	Status        string          `json:"status"`
	DiscountKind  string          `json:"discount_kind"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	CouponCode    string          `json:"coupon_code,omitempty"`
	StartsAt      time.Time       `json:"starts_at"`
	EndsAt        *time.Time      `json:"ends_at,omitempty"`
	RuleConfig    json.RawMessage `json:"rule_config,omitempty"`
	Running       bool            `json:"running"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Version       int             `json:"version"`
}

// CampaignListResponse represents a campaign in list views
type CampaignListResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Status        string          `json:"status"`
	DiscountKind  string          `json:"discount_kind"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	CouponCode    string          `json:"coupon_code,omitempty"`
	StartsAt      time.Time       `json:"starts_at"`
	EndsAt        *time.Time      `json:"ends_at,omitempty"`
	Running       bool            `json:"running"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToCampaignResponse converts a domain Campaign to CampaignResponse
func ToCampaignResponse(c *campaign.Campaign) CampaignResponse {
	var rules json.RawMessage
	if len(c.RuleConfig) > 0 {
		rules = json.RawMessage(c.RuleConfig)
	}

	return CampaignResponse{
		ID:            c.ID,
		TenantID:      c.TenantID,
		Name:          c.Name,
		Description:   c.Description,
		BannerURL:     c.BannerURL,
		Status:        string(c.Status),
		DiscountKind:  string(c.DiscountKind),
		DiscountValue: c.DiscountValue,
		CouponCode:    c.CouponCode,
		StartsAt:      c.StartsAt,
		EndsAt:        c.EndsAt,
		RuleConfig:    rules,
		Running:       c.IsRunningAt(time.Now()),
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
		Version:       c.Version,
	}
}

// ToCampaignListResponse converts a domain Campaign to its list form
func ToCampaignListResponse(c *campaign.Campaign) CampaignListResponse {
	return CampaignListResponse{
		ID:            c.ID,
		Name:          c.Name,
		Status:        string(c.Status),
		DiscountKind:  string(c.DiscountKind),
		DiscountValue: c.DiscountValue,
		CouponCode:    c.CouponCode,
		StartsAt:      c.StartsAt,
		EndsAt:        c.EndsAt,
		Running:       c.IsRunningAt(time.Now()),
		CreatedAt:     c.CreatedAt,
	}
}

// ToCampaignListResponses converts a slice of domain Campaigns to list responses
func ToCampaignListResponses(campaigns []*campaign.Campaign) []CampaignListResponse {
	responses := make([]CampaignListResponse, len(campaigns))
	for i, c := range campaigns {
		responses[i] = ToCampaignListResponse(c)
	}
	return responses
}
