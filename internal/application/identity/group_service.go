package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/identity"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GroupService handles access group management operations
type GroupService struct {
	groupRepo identity.GroupRepository
	userRepo  identity.UserRepository
	logger    *zap.Logger
}

// NewGroupService creates a new group service
func NewGroupService(
	groupRepo identity.GroupRepository,
	userRepo identity.UserRepository,
	logger *zap.Logger,
) *GroupService {
	return &GroupService{
		groupRepo: groupRepo,
		userRepo:  userRepo,
		logger:    logger,
	}
}

// CreateGroupInput contains input for creating a group
type CreateGroupInput struct {
	TenantID    uuid.UUID
	Name        string
	Description string
	Permissions identity.ModulePermissions
	Scope       *identity.StoreScope
}

// UpdateGroupInput contains input for updating a group
type UpdateGroupInput struct {
	ID          uuid.UUID
	Name        string
	Description string
}

// GroupDTO represents group data transfer object
type GroupDTO struct {
	ID          uuid.UUID         `json:"id"`
	TenantID    uuid.UUID         `json:"tenant_id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	IsSystem    bool              `json:"is_system"`
	Permissions map[string]string `json:"permissions"`
	AllStores   bool              `json:"all_stores"`
	StoreIDs    []uuid.UUID       `json:"store_ids,omitempty"`
	UserCount   int64             `json:"user_count"`
}

// GroupListResult represents a group listing
type GroupListResult struct {
	Groups     []GroupDTO `json:"groups"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}

// Create creates a new access group
func (s *GroupService) Create(ctx context.Context, input CreateGroupInput) (*GroupDTO, error) {
	s.logger.Info("Creating new group",
		zap.String("name", input.Name),
		zap.String("tenant_id", input.TenantID.String()))

	exists, err := s.groupRepo.ExistsByName(ctx, input.TenantID, strings.TrimSpace(input.Name))
	if err != nil {
		s.logger.Error("Failed to check group name", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check group name availability")
	}
	if exists {
		return nil, shared.NewDomainError("GROUP_EXISTS", "A group with this name already exists")
	}

	group, err := identity.NewGroup(input.TenantID, input.Name)
	if err != nil {
		return nil, err
	}

	if input.Description != "" {
		if err := group.Update(group.Name, input.Description); err != nil {
			return nil, err
		}
	}
	if input.Permissions != nil {
		if err := group.SetPermissions(input.Permissions); err != nil {
			return nil, err
		}
	}
	if input.Scope != nil {
		if err := group.SetStoreScope(*input.Scope); err != nil {
			return nil, err
		}
	}

	if err := s.groupRepo.Create(ctx, group); err != nil {
		s.logger.Error("Failed to create group", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create group")
	}

	s.logger.Info("Group created successfully",
		zap.String("group_id", group.ID.String()),
		zap.String("name", group.Name))

	return s.toGroupDTO(ctx, group), nil
}

// GetByID retrieves a group by ID
func (s *GroupService) GetByID(ctx context.Context, id uuid.UUID) (*GroupDTO, error) {
	group, err := s.groupRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("GROUP_NOT_FOUND", "Group not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find group")
	}

	return s.toGroupDTO(ctx, group), nil
}

// List retrieves groups for a tenant
func (s *GroupService) List(ctx context.Context, tenantID uuid.UUID, filter *identity.GroupFilter) (*GroupListResult, error) {
	if filter == nil {
		filter = &identity.GroupFilter{}
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	groups, err := s.groupRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		s.logger.Error("Failed to list groups", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list groups")
	}

	total, err := s.groupRepo.Count(ctx, tenantID, filter)
	if err != nil {
		s.logger.Error("Failed to count groups", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list groups")
	}

	totalPages := int(total) / filter.Limit
	if int(total)%filter.Limit > 0 {
		totalPages++
	}

	groupDTOs := make([]GroupDTO, len(groups))
	for i, group := range groups {
		groupDTOs[i] = *s.toGroupDTO(ctx, group)
	}

	return &GroupListResult{
		Groups:     groupDTOs,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// Update updates a group's basic information. System groups keep their name.
func (s *GroupService) Update(ctx context.Context, input UpdateGroupInput) (*GroupDTO, error) {
	group, err := s.groupRepo.FindByID(ctx, input.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("GROUP_NOT_FOUND", "Group not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find group")
	}

	name := strings.TrimSpace(input.Name)
	if group.IsSystem && name != group.Name {
		return nil, shared.NewDomainError("CANNOT_RENAME_SYSTEM_GROUP", "System groups cannot be renamed")
	}

	if name != group.Name {
		exists, err := s.groupRepo.ExistsByName(ctx, group.TenantID, name)
		if err != nil {
			s.logger.Error("Failed to check group name", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check group name availability")
		}
		if exists {
			return nil, shared.NewDomainError("GROUP_EXISTS", "A group with this name already exists")
		}
	}

	if err := group.Update(name, input.Description); err != nil {
		return nil, err
	}

	if err := s.groupRepo.Update(ctx, group); err != nil {
		s.logger.Error("Failed to update group", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update group")
	}

	return s.toGroupDTO(ctx, group), nil
}

// Delete deletes a group. System groups and groups still assigned to users
// cannot be removed.
func (s *GroupService) Delete(ctx context.Context, id uuid.UUID) error {
	group, err := s.groupRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("GROUP_NOT_FOUND", "Group not found")
		}
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to find group")
	}

	if group.IsSystem {
		return shared.NewDomainError("CANNOT_DELETE_SYSTEM_GROUP", "System groups cannot be deleted")
	}

	userCount, err := s.groupRepo.CountUsersInGroup(ctx, id)
	if err != nil {
		s.logger.Error("Failed to count users in group", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to check group usage")
	}
	if userCount > 0 {
		return shared.NewDomainError("GROUP_IN_USE", "Cannot delete a group that is assigned to users")
	}

	if err := s.groupRepo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete group", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete group")
	}

	s.logger.Info("Group deleted", zap.String("group_id", id.String()))

	return nil
}

// SetPermissions replaces the module permissions of a group
func (s *GroupService) SetPermissions(ctx context.Context, groupID uuid.UUID, perms identity.ModulePermissions) (*GroupDTO, error) {
	group, err := s.groupRepo.FindByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("GROUP_NOT_FOUND", "Group not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find group")
	}

	if group.IsSystem {
		return nil, shared.NewDomainError("CANNOT_MODIFY_SYSTEM_GROUP", "System group permissions cannot be changed")
	}

	if err := group.SetPermissions(perms); err != nil {
		return nil, err
	}

	if err := s.groupRepo.Update(ctx, group); err != nil {
		s.logger.Error("Failed to update group permissions", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update group permissions")
	}

	return s.toGroupDTO(ctx, group), nil
}

// SetStoreScope replaces the store visibility of a group
func (s *GroupService) SetStoreScope(ctx context.Context, groupID uuid.UUID, scope identity.StoreScope) (*GroupDTO, error) {
	group, err := s.groupRepo.FindByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("GROUP_NOT_FOUND", "Group not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find group")
	}

	if group.IsSystem {
		return nil, shared.NewDomainError("CANNOT_MODIFY_SYSTEM_GROUP", "System group visibility cannot be changed")
	}

	if err := group.SetStoreScope(scope); err != nil {
		return nil, err
	}

	if err := s.groupRepo.Update(ctx, group); err != nil {
		s.logger.Error("Failed to update group scope", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update group scope")
	}

	return s.toGroupDTO(ctx, group), nil
}

// ListUsers returns the users assigned to a group
func (s *GroupService) ListUsers(ctx context.Context, groupID uuid.UUID) ([]UserDTO, error) {
	if _, err := s.groupRepo.FindByID(ctx, groupID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("GROUP_NOT_FOUND", "Group not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find group")
	}

	users, err := s.userRepo.FindByGroupID(ctx, groupID)
	if err != nil {
		s.logger.Error("Failed to list users in group", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list users in group")
	}

	userDTOs := make([]UserDTO, len(users))
	for i, user := range users {
		userDTOs[i] = *toUserDTO(user)
	}

	return userDTOs, nil
}

// SystemGroups returns the built-in groups of a tenant
func (s *GroupService) SystemGroups(ctx context.Context, tenantID uuid.UUID) ([]GroupDTO, error) {
	groups, err := s.groupRepo.FindSystemGroups(ctx, tenantID)
	if err != nil {
		s.logger.Error("Failed to list system groups", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list system groups")
	}

	groupDTOs := make([]GroupDTO, len(groups))
	for i, group := range groups {
		groupDTOs[i] = *s.toGroupDTO(ctx, group)
	}

	return groupDTOs, nil
}

// toGroupDTO maps a group aggregate to its DTO, including the member count
func (s *GroupService) toGroupDTO(ctx context.Context, group *identity.Group) *GroupDTO {
	perms := map[string]string{}
	if p, err := group.GetPermissions(); err == nil {
		for module, level := range p {
			perms[module] = string(level)
		}
	}

	scope := identity.StoreScope{AllStores: true}
	if sc, err := group.GetStoreScope(); err == nil {
		scope = sc
	}

	userCount, err := s.groupRepo.CountUsersInGroup(ctx, group.ID)
	if err != nil {
		s.logger.Error("Failed to count users in group",
			zap.String("group_id", group.ID.String()),
			zap.Error(err))
	}

	return &GroupDTO{
		ID:          group.ID,
		TenantID:    group.TenantID,
		Name:        group.Name,
		Description: group.Description,
		IsSystem:    group.IsSystem,
		Permissions: perms,
		AllStores:   scope.AllStores,
		StoreIDs:    scope.StoreIDs,
		UserCount:   userCount,
	}
}
