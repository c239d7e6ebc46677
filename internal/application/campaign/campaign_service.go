package campaign

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/campaign"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// PlanLimits exposes the campaign allowance of the tenant's plan.
// Implemented by the billing application service; a negative limit
// means unlimited.
type PlanLimits interface {
	MaxActiveCampaigns(ctx context.Context, tenantID uuid.UUID) (int, error)
}

// CampaignService handles campaign business logic
type CampaignService struct {
	campaignRepo campaign.CampaignRepository
	planLimits   PlanLimits
}

// NewCampaignService creates a new campaign service
func NewCampaignService(campaignRepo campaign.CampaignRepository, planLimits PlanLimits) *CampaignService {
	return &CampaignService{
		campaignRepo: campaignRepo,
		planLimits:   planLimits,
	}
}

// Create creates a new campaign in draft status
func (s *CampaignService) Create(ctx context.Context, tenantID uuid.UUID, req CreateCampaignRequest) (*CampaignResponse, error) {
	camp, err := campaign.NewCampaign(tenantID, req.Name,
		campaign.DiscountKind(req.DiscountKind), req.DiscountValue, req.StartsAt, req.EndsAt)
	if err != nil {
		return nil, err
	}

	if req.CouponCode != "" {
		if err := s.setCoupon(ctx, tenantID, camp, req.CouponCode); err != nil {
			return nil, err
		}
	}
	if req.Description != "" {
		if err := camp.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}
	if req.BannerURL != "" {
		if err := camp.SetBannerURL(req.BannerURL); err != nil {
			return nil, err
		}
	}
	if len(req.RuleConfig) > 0 {
		if err := s.setRuleConfig(camp, req.RuleConfig); err != nil {
			return nil, err
		}
	}

	if err := s.campaignRepo.Create(ctx, camp); err != nil {
		return nil, err
	}

	response := ToCampaignResponse(camp)
	return &response, nil
}

// GetByID retrieves a campaign by ID
func (s *CampaignService) GetByID(ctx context.Context, tenantID, campaignID uuid.UUID) (*CampaignResponse, error) {
	camp, err := s.findCampaign(ctx, tenantID, campaignID)
	if err != nil {
		return nil, err
	}

	response := ToCampaignResponse(camp)
	return &response, nil
}

// List retrieves campaigns with filtering and pagination
func (s *CampaignService) List(ctx context.Context, tenantID uuid.UUID, filter CampaignListFilter) ([]CampaignListResponse, int64, error) {
	domainFilter := campaign.NewCampaignFilter()
	if filter.Search != "" {
		domainFilter = domainFilter.WithKeyword(filter.Search)
	}
	if filter.Status != "" {
		domainFilter = domainFilter.WithStatus(campaign.CampaignStatus(filter.Status))
	}
	if filter.Kind != "" {
		domainFilter = domainFilter.WithKind(campaign.DiscountKind(filter.Kind))
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

	campaigns, total, err := s.campaignRepo.FindAll(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToCampaignListResponses(campaigns), total, nil
}

// Update updates a campaign's fields
func (s *CampaignService) Update(ctx context.Context, tenantID, campaignID uuid.UUID, req UpdateCampaignRequest) (*CampaignResponse, error) {
	camp, err := s.findCampaign(ctx, tenantID, campaignID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Description != nil {
		name := camp.Name
		if req.Name != nil {
			name = *req.Name
		}
		description := camp.Description
		if req.Description != nil {
			description = *req.Description
		}
		if err := camp.Update(name, description); err != nil {
			return nil, err
		}
	}

	if req.DiscountKind != nil || req.DiscountValue != nil {
		kind := camp.DiscountKind
		if req.DiscountKind != nil {
			kind = campaign.DiscountKind(*req.DiscountKind)
		}
		value := camp.DiscountValue
		if req.DiscountValue != nil {
			value = *req.DiscountValue
		}
		if err := camp.SetDiscount(kind, value); err != nil {
			return nil, err
		}
	}

	if req.StartsAt != nil {
		if err := camp.SetWindow(*req.StartsAt, req.EndsAt); err != nil {
			return nil, err
		}
	} else if req.EndsAt != nil {
		if err := camp.SetWindow(camp.StartsAt, req.EndsAt); err != nil {
			return nil, err
		}
	}

	if req.CouponCode != nil {
		if *req.CouponCode == "" {
			if err := camp.SetCouponCode(""); err != nil {
				return nil, err
			}
		} else if err := s.setCoupon(ctx, tenantID, camp, *req.CouponCode); err != nil {
			return nil, err
		}
	}

	if req.BannerURL != nil {
		if err := camp.SetBannerURL(*req.BannerURL); err != nil {
			return nil, err
		}
	}

	if len(req.RuleConfig) > 0 {
		if err := s.setRuleConfig(camp, req.RuleConfig); err != nil {
			return nil, err
		}
	}

	if err := s.campaignRepo.Update(ctx, camp); err != nil {
		return nil, err
	}

	response := ToCampaignResponse(camp)
	return &response, nil
}

// Activate puts a campaign live, subject to the plan's active campaign
// allowance
func (s *CampaignService) Activate(ctx context.Context, tenantID, campaignID uuid.UUID) (*CampaignResponse, error) {
	camp, err := s.findCampaign(ctx, tenantID, campaignID)
	if err != nil {
		return nil, err
	}

	if err := s.checkActiveLimit(ctx, tenantID); err != nil {
		return nil, err
	}

	if err := camp.Activate(); err != nil {
		return nil, err
	}

	if err := s.campaignRepo.Update(ctx, camp); err != nil {
		return nil, err
	}

	response := ToCampaignResponse(camp)
	return &response, nil
}

// Pause suspends an active campaign
func (s *CampaignService) Pause(ctx context.Context, tenantID, campaignID uuid.UUID) (*CampaignResponse, error) {
	camp, err := s.findCampaign(ctx, tenantID, campaignID)
	if err != nil {
		return nil, err
	}

	if err := camp.Pause(); err != nil {
		return nil, err
	}

	if err := s.campaignRepo.Update(ctx, camp); err != nil {
		return nil, err
	}

	response := ToCampaignResponse(camp)
	return &response, nil
}

// Delete deletes a campaign. Active campaigns must be paused first so a
// running promotion is never removed by accident.
func (s *CampaignService) Delete(ctx context.Context, tenantID, campaignID uuid.UUID) error {
	camp, err := s.findCampaign(ctx, tenantID, campaignID)
	if err != nil {
		return err
	}

	if camp.Status == campaign.CampaignStatusActive {
		return shared.NewDomainError("CAMPAIGN_ACTIVE", "Pause the campaign before deleting it")
	}

	return s.campaignRepo.Delete(ctx, camp.ID)
}

// ExpireOverdue flips campaigns past their window to expired, returning
// how many changed. Called periodically and before storefront lookups.
func (s *CampaignService) ExpireOverdue(ctx context.Context) (int64, error) {
	return s.campaignRepo.ExpireOverdue(ctx, time.Now())
}

func (s *CampaignService) setCoupon(ctx context.Context, tenantID uuid.UUID, camp *campaign.Campaign, code string) error {
	if err := camp.SetCouponCode(code); err != nil {
		return err
	}

	taken, err := s.campaignRepo.ExistsByCoupon(ctx, tenantID, camp.CouponCode, camp.ID)
	if err != nil {
		return err
	}
	if taken {
		return shared.NewDomainError("COUPON_TAKEN", "Another campaign already uses this coupon code")
	}
	return nil
}

func (s *CampaignService) setRuleConfig(camp *campaign.Campaign, raw []byte) error {
	rules, err := campaign.ParseRuleConfig(raw)
	if err != nil {
		return err
	}
	if rules.IsEmpty() {
		return camp.SetRuleConfig(nil)
	}
	return camp.SetRuleConfig(raw)
}

func (s *CampaignService) checkActiveLimit(ctx context.Context, tenantID uuid.UUID) error {
	limit, err := s.planLimits.MaxActiveCampaigns(ctx, tenantID)
	if err != nil {
		return err
	}
	if limit < 0 {
		return nil
	}

	count, err := s.campaignRepo.CountActive(ctx, tenantID)
	if err != nil {
		return err
	}
	if count >= int64(limit) {
		return shared.NewDomainError("PLAN_LIMIT_REACHED",
			fmt.Sprintf("Your plan allows up to %d active campaigns. Upgrade to run more.", limit))
	}
	return nil
}

func (s *CampaignService) findCampaign(ctx context.Context, tenantID, campaignID uuid.UUID) (*campaign.Campaign, error) {
	camp, err := s.campaignRepo.FindByIDForTenant(ctx, tenantID, campaignID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CAMPAIGN_NOT_FOUND", "Campaign not found")
		}
		return nil, err
	}
	return camp, nil
}
