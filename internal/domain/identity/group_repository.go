package identity

import (
	"context"

	"github.com/google/uuid"
)

// GroupFilter defines the filter criteria for group queries
type GroupFilter struct {
	Keyword  string // Search in name and description
	IsSystem *bool  // Filter by system group flag
	// Pagination
	Page  int
	Limit int
}

// GroupRepository defines the interface for access group persistence
type GroupRepository interface {
	// Create creates a new group
	Create(ctx context.Context, group *Group) error

	// Update updates an existing group
	Update(ctx context.Context, group *Group) error

	// Delete deletes a group by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a group by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Group, error)

	// FindByName finds a group by name within a tenant
	FindByName(ctx context.Context, tenantID uuid.UUID, name string) (*Group, error)

	// FindAll finds all groups for a tenant with optional filtering
	FindAll(ctx context.Context, tenantID uuid.UUID, filter *GroupFilter) ([]*Group, error)

	// FindByIDs finds multiple groups by IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Group, error)

	// FindSystemGroups finds all system groups for a tenant
	FindSystemGroups(ctx context.Context, tenantID uuid.UUID) ([]*Group, error)

	// Count counts groups matching the filter
	Count(ctx context.Context, tenantID uuid.UUID, filter *GroupFilter) (int64, error)

	// ExistsByName checks if a group with the given name exists in a tenant
	ExistsByName(ctx context.Context, tenantID uuid.UUID, name string) (bool, error)

	// CountUsersInGroup counts how many users are assigned to a group
	CountUsersInGroup(ctx context.Context, groupID uuid.UUID) (int64, error)
}
