package catalog

import (
	"context"
	"errors"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/catalog"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/store"
	"github.com/google/uuid"
)

// CategoryService handles category business logic
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
	storeRepo    store.StoreRepository
}

// NewCategoryService creates a new category service
func NewCategoryService(categoryRepo catalog.CategoryRepository, storeRepo store.StoreRepository) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		storeRepo:    storeRepo,
	}
}

// Create creates a new category for a store
func (s *CategoryService) Create(ctx context.Context, tenantID, storeID uuid.UUID, req CreateCategoryRequest) (*CategoryResponse, error) {
	if _, err := s.storeRepo.FindByIDForTenant(ctx, tenantID, storeID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("STORE_NOT_FOUND", "Store not found")
		}
		return nil, err
	}

	exists, err := s.categoryRepo.ExistsByName(ctx, storeID, req.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A category with this name already exists")
	}

	category, err := catalog.NewCategory(tenantID, storeID, req.Name)
	if err != nil {
		return nil, err
	}

	if req.Description != "" || req.ImageURL != "" {
		if err := category.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
		if err := category.SetImageURL(req.ImageURL); err != nil {
			return nil, err
		}
	}
	if req.SortOrder != nil {
		category.SetSortOrder(*req.SortOrder)
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	response := ToCategoryResponse(category)
	return &response, nil
}

// GetByID retrieves a category by ID
func (s *CategoryService) GetByID(ctx context.Context, storeID, categoryID uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByIDForStore(ctx, storeID, categoryID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CATEGORY_NOT_FOUND", "Category not found")
		}
		return nil, err
	}

	response := ToCategoryResponse(category)

	count, err := s.categoryRepo.CountProducts(ctx, categoryID)
	if err == nil {
		response.ProductCount = count
	}

	return &response, nil
}

// List retrieves all categories of a store ordered for display
func (s *CategoryService) List(ctx context.Context, storeID uuid.UUID) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}

	responses := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		responses[i] = ToCategoryResponse(c)

		count, err := s.categoryRepo.CountProducts(ctx, c.ID)
		if err == nil {
			responses[i].ProductCount = count
		}
	}

	return responses, nil
}

// Update updates a category's fields
func (s *CategoryService) Update(ctx context.Context, storeID, categoryID uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByIDForStore(ctx, storeID, categoryID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CATEGORY_NOT_FOUND", "Category not found")
		}
		return nil, err
	}

	name := category.Name
	if req.Name != nil {
		name = *req.Name
	}
	description := category.Description
	if req.Description != nil {
		description = *req.Description
	}

	if name != category.Name {
		exists, err := s.categoryRepo.ExistsByName(ctx, storeID, name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "A category with this name already exists")
		}
	}

	if err := category.Update(name, description); err != nil {
		return nil, err
	}
	if req.ImageURL != nil {
		if err := category.SetImageURL(*req.ImageURL); err != nil {
			return nil, err
		}
	}
	if req.SortOrder != nil {
		category.SetSortOrder(*req.SortOrder)
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	response := ToCategoryResponse(category)
	return &response, nil
}

// Activate activates a category
func (s *CategoryService) Activate(ctx context.Context, storeID, categoryID uuid.UUID) (*CategoryResponse, error) {
	return s.changeStatus(ctx, storeID, categoryID, func(c *catalog.Category) error {
		return c.Activate()
	})
}

// Deactivate deactivates a category, hiding its products from the storefront
func (s *CategoryService) Deactivate(ctx context.Context, storeID, categoryID uuid.UUID) (*CategoryResponse, error) {
	return s.changeStatus(ctx, storeID, categoryID, func(c *catalog.Category) error {
		return c.Deactivate()
	})
}

// Reorder applies a new display order to the store's categories.
// The request must list every category of the store exactly once.
func (s *CategoryService) Reorder(ctx context.Context, storeID uuid.UUID, req ReorderCategoriesRequest) ([]CategoryResponse, error) {
	existing, err := s.categoryRepo.FindByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}

	if len(req.CategoryIDs) != len(existing) {
		return nil, shared.NewDomainError("INVALID_REORDER", "Reorder must include every category of the store")
	}

	known := make(map[uuid.UUID]bool, len(existing))
	for _, c := range existing {
		known[c.ID] = true
	}
	for _, id := range req.CategoryIDs {
		if !known[id] {
			return nil, shared.NewDomainError("CATEGORY_NOT_FOUND", "Category not found")
		}
		delete(known, id)
	}

	if err := s.categoryRepo.Reorder(ctx, storeID, req.CategoryIDs); err != nil {
		return nil, err
	}

	return s.List(ctx, storeID)
}

// Delete deletes a category. Categories with products assigned cannot be
// deleted; products must be moved or the category deactivated instead.
func (s *CategoryService) Delete(ctx context.Context, storeID, categoryID uuid.UUID) error {
	category, err := s.categoryRepo.FindByIDForStore(ctx, storeID, categoryID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("CATEGORY_NOT_FOUND", "Category not found")
		}
		return err
	}

	count, err := s.categoryRepo.CountProducts(ctx, categoryID)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("CATEGORY_HAS_PRODUCTS", "Cannot delete a category that has products")
	}

	return s.categoryRepo.Delete(ctx, category.ID)
}

func (s *CategoryService) changeStatus(ctx context.Context, storeID, categoryID uuid.UUID, change func(*catalog.Category) error) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByIDForStore(ctx, storeID, categoryID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CATEGORY_NOT_FOUND", "Category not found")
		}
		return nil, err
	}

	if err := change(category); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	response := ToCategoryResponse(category)
	return &response, nil
}
