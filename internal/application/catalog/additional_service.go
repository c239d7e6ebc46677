package catalog

import (
	"context"
	"errors"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/catalog"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared/valueobject"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/store"
	"github.com/google/uuid"
)

// AdditionalGroupService handles additional group business logic
type AdditionalGroupService struct {
	groupRepo catalog.AdditionalGroupRepository
	storeRepo store.StoreRepository
}

// NewAdditionalGroupService creates a new additional group service
func NewAdditionalGroupService(groupRepo catalog.AdditionalGroupRepository, storeRepo store.StoreRepository) *AdditionalGroupService {
	return &AdditionalGroupService{
		groupRepo: groupRepo,
		storeRepo: storeRepo,
	}
}

// Create creates a new additional group with its initial items
func (s *AdditionalGroupService) Create(ctx context.Context, tenantID, storeID uuid.UUID, req CreateAdditionalGroupRequest) (*AdditionalGroupResponse, error) {
	if _, err := s.storeRepo.FindByIDForTenant(ctx, tenantID, storeID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("STORE_NOT_FOUND", "Store not found")
		}
		return nil, err
	}

	group, err := catalog.NewAdditionalGroup(tenantID, storeID, req.Name, req.MinSelect, req.MaxSelect)
	if err != nil {
		return nil, err
	}

	if req.Description != "" {
		if err := group.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}

	for _, item := range req.Items {
		if _, err := group.AddItem(item.Name, valueobject.NewMoneyBRL(item.PriceDelta)); err != nil {
			return nil, err
		}
	}

	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, err
	}

	response := ToAdditionalGroupResponse(group)
	return &response, nil
}

// GetByID retrieves an additional group by ID with its items
func (s *AdditionalGroupService) GetByID(ctx context.Context, storeID, groupID uuid.UUID) (*AdditionalGroupResponse, error) {
	group, err := s.findGroup(ctx, storeID, groupID)
	if err != nil {
		return nil, err
	}

	response := ToAdditionalGroupResponse(group)
	return &response, nil
}

// List retrieves all additional groups of a store
func (s *AdditionalGroupService) List(ctx context.Context, storeID uuid.UUID) ([]AdditionalGroupResponse, error) {
	groups, err := s.groupRepo.FindByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}

	return ToAdditionalGroupResponses(groups), nil
}

// Update updates a group's name, description and selection bounds
func (s *AdditionalGroupService) Update(ctx context.Context, storeID, groupID uuid.UUID, req UpdateAdditionalGroupRequest) (*AdditionalGroupResponse, error) {
	group, err := s.findGroup(ctx, storeID, groupID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Description != nil {
		name := group.Name
		if req.Name != nil {
			name = *req.Name
		}
		description := group.Description
		if req.Description != nil {
			description = *req.Description
		}
		if err := group.Update(name, description); err != nil {
			return nil, err
		}
	}

	if req.MinSelect != nil || req.MaxSelect != nil {
		minSelect := group.MinSelect
		if req.MinSelect != nil {
			minSelect = *req.MinSelect
		}
		maxSelect := group.MaxSelect
		if req.MaxSelect != nil {
			maxSelect = *req.MaxSelect
		}
		if err := group.SetSelectionBounds(minSelect, maxSelect); err != nil {
			return nil, err
		}
	}

	if err := s.groupRepo.Update(ctx, group); err != nil {
		return nil, err
	}

	response := ToAdditionalGroupResponse(group)
	return &response, nil
}

// AddItem adds a selectable item to a group
func (s *AdditionalGroupService) AddItem(ctx context.Context, storeID, groupID uuid.UUID, req AdditionalItemRequest) (*AdditionalGroupResponse, error) {
	group, err := s.findGroup(ctx, storeID, groupID)
	if err != nil {
		return nil, err
	}

	if _, err := group.AddItem(req.Name, valueobject.NewMoneyBRL(req.PriceDelta)); err != nil {
		return nil, err
	}

	if err := s.groupRepo.Update(ctx, group); err != nil {
		return nil, err
	}

	response := ToAdditionalGroupResponse(group)
	return &response, nil
}

// UpdateItem updates an item's name and price delta
func (s *AdditionalGroupService) UpdateItem(ctx context.Context, storeID, groupID, itemID uuid.UUID, req AdditionalItemRequest) (*AdditionalGroupResponse, error) {
	group, err := s.findGroup(ctx, storeID, groupID)
	if err != nil {
		return nil, err
	}

	if err := group.UpdateItem(itemID, req.Name, valueobject.NewMoneyBRL(req.PriceDelta)); err != nil {
		return nil, err
	}

	if err := s.groupRepo.Update(ctx, group); err != nil {
		return nil, err
	}

	response := ToAdditionalGroupResponse(group)
	return &response, nil
}

// SetItemActive toggles an item's availability
func (s *AdditionalGroupService) SetItemActive(ctx context.Context, storeID, groupID, itemID uuid.UUID, active bool) (*AdditionalGroupResponse, error) {
	group, err := s.findGroup(ctx, storeID, groupID)
	if err != nil {
		return nil, err
	}

	if err := group.SetItemActive(itemID, active); err != nil {
		return nil, err
	}

	if err := s.groupRepo.Update(ctx, group); err != nil {
		return nil, err
	}

	response := ToAdditionalGroupResponse(group)
	return &response, nil
}

// RemoveItem removes an item from a group
func (s *AdditionalGroupService) RemoveItem(ctx context.Context, storeID, groupID, itemID uuid.UUID) (*AdditionalGroupResponse, error) {
	group, err := s.findGroup(ctx, storeID, groupID)
	if err != nil {
		return nil, err
	}

	if err := group.RemoveItem(itemID); err != nil {
		return nil, err
	}

	if err := s.groupRepo.Update(ctx, group); err != nil {
		return nil, err
	}

	response := ToAdditionalGroupResponse(group)
	return &response, nil
}

// Activate activates a group
func (s *AdditionalGroupService) Activate(ctx context.Context, storeID, groupID uuid.UUID) (*AdditionalGroupResponse, error) {
	group, err := s.findGroup(ctx, storeID, groupID)
	if err != nil {
		return nil, err
	}

	if err := group.Activate(); err != nil {
		return nil, err
	}

	if err := s.groupRepo.Update(ctx, group); err != nil {
		return nil, err
	}

	response := ToAdditionalGroupResponse(group)
	return &response, nil
}

// Deactivate deactivates a group; products keep the link but the storefront
// stops offering the group
func (s *AdditionalGroupService) Deactivate(ctx context.Context, storeID, groupID uuid.UUID) (*AdditionalGroupResponse, error) {
	group, err := s.findGroup(ctx, storeID, groupID)
	if err != nil {
		return nil, err
	}

	if err := group.Deactivate(); err != nil {
		return nil, err
	}

	if err := s.groupRepo.Update(ctx, group); err != nil {
		return nil, err
	}

	response := ToAdditionalGroupResponse(group)
	return &response, nil
}

// Delete deletes a group. Groups still offered with products cannot be deleted.
func (s *AdditionalGroupService) Delete(ctx context.Context, storeID, groupID uuid.UUID) error {
	group, err := s.findGroup(ctx, storeID, groupID)
	if err != nil {
		return err
	}

	links, err := s.groupRepo.CountProductLinks(ctx, groupID)
	if err != nil {
		return err
	}
	if links > 0 {
		return shared.NewDomainError("GROUP_IN_USE", "Cannot delete an additional group that is offered with products")
	}

	return s.groupRepo.Delete(ctx, group.ID)
}

func (s *AdditionalGroupService) findGroup(ctx context.Context, storeID, groupID uuid.UUID) (*catalog.AdditionalGroup, error) {
	group, err := s.groupRepo.FindByIDForStore(ctx, storeID, groupID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("GROUP_NOT_FOUND", "Additional group not found")
		}
		return nil, err
	}
	return group, nil
}
