package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/catalog"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared/valueobject"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/store"
	"github.com/google/uuid"
)

// PlanLimits resolves the tenant's current plan limits. Implemented by the
// billing application service; a negative limit means unlimited.
type PlanLimits interface {
	MaxProducts(ctx context.Context, tenantID uuid.UUID) (int, error)
}

// ProductService handles product business logic
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	groupRepo    catalog.AdditionalGroupRepository
	storeRepo    store.StoreRepository
	planLimits   PlanLimits
}

// NewProductService creates a new product service
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	groupRepo catalog.AdditionalGroupRepository,
	storeRepo store.StoreRepository,
	planLimits PlanLimits,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		groupRepo:    groupRepo,
		storeRepo:    storeRepo,
		planLimits:   planLimits,
	}
}

// Create creates a new product for a store
func (s *ProductService) Create(ctx context.Context, tenantID, storeID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	if _, err := s.storeRepo.FindByIDForTenant(ctx, tenantID, storeID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("STORE_NOT_FOUND", "Store not found")
		}
		return nil, err
	}

	if err := s.checkProductLimit(ctx, tenantID); err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		if err := s.checkCategory(ctx, storeID, *req.CategoryID); err != nil {
			return nil, err
		}
	}

	product, err := catalog.NewProduct(tenantID, storeID, req.Name, valueobject.NewMoneyBRL(req.Price))
	if err != nil {
		return nil, err
	}

	if req.Description != "" {
		if err := product.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}
	if req.CategoryID != nil {
		product.SetCategory(req.CategoryID)
	}
	if req.PromoPrice != nil && req.PromoPrice.IsPositive() {
		if err := product.SetPromoPrice(valueobject.NewMoneyBRL(*req.PromoPrice)); err != nil {
			return nil, err
		}
	}
	if req.VideoURL != "" {
		if err := product.SetVideoURL(req.VideoURL); err != nil {
			return nil, err
		}
	}
	if req.Featured {
		product.SetFeatured(true)
	}
	if req.SortOrder != nil {
		product.SetSortOrder(*req.SortOrder)
	}
	if req.TrackStock {
		if err := product.EnableStockTracking(req.StockQuantity); err != nil {
			return nil, err
		}
	}
	if len(req.AdditionalGroupIDs) > 0 {
		if err := s.checkGroups(ctx, storeID, req.AdditionalGroupIDs); err != nil {
			return nil, err
		}
		if err := product.SetAdditionalGroups(req.AdditionalGroupIDs); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	if len(product.AdditionalGroupIDs) > 0 {
		if err := s.productRepo.SaveAdditionalGroups(ctx, product); err != nil {
			return nil, err
		}
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID with its additional group links
func (s *ProductService) GetByID(ctx context.Context, storeID, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.findProduct(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.LoadAdditionalGroups(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products of a store with filtering and pagination
func (s *ProductService) List(ctx context.Context, storeID uuid.UUID, filter ProductListFilter) ([]ProductListResponse, int64, error) {
	domainFilter := catalog.NewProductFilter()
	domainFilter.Keyword = filter.Search
	domainFilter.CategoryID = filter.CategoryID
	domainFilter.Featured = filter.Featured
	if filter.Status != "" {
		status := catalog.ProductStatus(filter.Status)
		domainFilter.Status = &status
	}
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.SortBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.SortOrder = filter.OrderDir
	}

	products, total, err := s.productRepo.FindByStore(ctx, storeID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToProductListResponses(products), total, nil
}

// Update updates a product's fields. A zero promo price clears the promotion.
func (s *ProductService) Update(ctx context.Context, storeID, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.findProduct(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Description != nil {
		name := product.Name
		if req.Name != nil {
			name = *req.Name
		}
		description := product.Description
		if req.Description != nil {
			description = *req.Description
		}
		if err := product.Update(name, description); err != nil {
			return nil, err
		}
	}

	if req.CategoryID != nil {
		if err := s.checkCategory(ctx, storeID, *req.CategoryID); err != nil {
			return nil, err
		}
		product.SetCategory(req.CategoryID)
	}

	// Clear the promotion before raising the list price so a price drop
	// below the old promo does not get rejected
	if req.PromoPrice != nil && req.PromoPrice.IsZero() {
		product.ClearPromoPrice()
	}
	if req.Price != nil {
		if err := product.SetPrice(valueobject.NewMoneyBRL(*req.Price)); err != nil {
			return nil, err
		}
	}
	if req.PromoPrice != nil && req.PromoPrice.IsPositive() {
		if err := product.SetPromoPrice(valueobject.NewMoneyBRL(*req.PromoPrice)); err != nil {
			return nil, err
		}
	}

	if req.VideoURL != nil {
		if err := product.SetVideoURL(*req.VideoURL); err != nil {
			return nil, err
		}
	}
	if req.Featured != nil {
		product.SetFeatured(*req.Featured)
	}
	if req.SortOrder != nil {
		product.SetSortOrder(*req.SortOrder)
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// SetStock changes the product's stock settings
func (s *ProductService) SetStock(ctx context.Context, storeID, productID uuid.UUID, req SetProductStockRequest) (*ProductResponse, error) {
	product, err := s.findProduct(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}

	if req.TrackStock {
		if err := product.EnableStockTracking(req.Quantity); err != nil {
			return nil, err
		}
	} else {
		product.DisableStockTracking()
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// SetAdditionalGroups replaces the additional groups offered with the product
func (s *ProductService) SetAdditionalGroups(ctx context.Context, storeID, productID uuid.UUID, req SetProductGroupsRequest) (*ProductResponse, error) {
	product, err := s.findProduct(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}

	if len(req.GroupIDs) > 0 {
		if err := s.checkGroups(ctx, storeID, req.GroupIDs); err != nil {
			return nil, err
		}
	}

	if err := product.SetAdditionalGroups(req.GroupIDs); err != nil {
		return nil, err
	}

	if err := s.productRepo.SaveAdditionalGroups(ctx, product); err != nil {
		return nil, err
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Activate activates a product
func (s *ProductService) Activate(ctx context.Context, storeID, productID uuid.UUID) (*ProductResponse, error) {
	return s.changeStatus(ctx, storeID, productID, func(p *catalog.Product) error {
		return p.Activate()
	})
}

// Deactivate deactivates a product
func (s *ProductService) Deactivate(ctx context.Context, storeID, productID uuid.UUID) (*ProductResponse, error) {
	return s.changeStatus(ctx, storeID, productID, func(p *catalog.Product) error {
		return p.Deactivate()
	})
}

// Delete deletes a product
func (s *ProductService) Delete(ctx context.Context, storeID, productID uuid.UUID) error {
	product, err := s.findProduct(ctx, storeID, productID)
	if err != nil {
		return err
	}

	return s.productRepo.Delete(ctx, product.ID)
}

func (s *ProductService) findProduct(ctx context.Context, storeID, productID uuid.UUID) (*catalog.Product, error) {
	product, err := s.productRepo.FindByIDForStore(ctx, storeID, productID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
		}
		return nil, err
	}
	return product, nil
}

func (s *ProductService) checkProductLimit(ctx context.Context, tenantID uuid.UUID) error {
	limit, err := s.planLimits.MaxProducts(ctx, tenantID)
	if err != nil {
		return err
	}
	if limit < 0 {
		return nil
	}

	count, err := s.productRepo.CountForTenant(ctx, tenantID)
	if err != nil {
		return err
	}
	if count >= int64(limit) {
		return shared.NewDomainError("PLAN_LIMIT_REACHED",
			fmt.Sprintf("Your plan allows up to %d products. Upgrade to add more.", limit))
	}

	return nil
}

func (s *ProductService) checkCategory(ctx context.Context, storeID, categoryID uuid.UUID) error {
	if _, err := s.categoryRepo.FindByIDForStore(ctx, storeID, categoryID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("CATEGORY_NOT_FOUND", "Category not found")
		}
		return err
	}
	return nil
}

func (s *ProductService) checkGroups(ctx context.Context, storeID uuid.UUID, groupIDs []uuid.UUID) error {
	groups, err := s.groupRepo.FindByIDs(ctx, groupIDs)
	if err != nil {
		return err
	}

	found := make(map[uuid.UUID]bool, len(groups))
	for _, g := range groups {
		if g.StoreID != storeID {
			return shared.NewDomainError("GROUP_NOT_FOUND", "Additional group does not belong to this store")
		}
		found[g.ID] = true
	}
	for _, id := range groupIDs {
		if !found[id] {
			return shared.NewDomainError("GROUP_NOT_FOUND", "Additional group not found")
		}
	}

	return nil
}

func (s *ProductService) changeStatus(ctx context.Context, storeID, productID uuid.UUID, change func(*catalog.Product) error) (*ProductResponse, error) {
	product, err := s.findProduct(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}

	if err := change(product); err != nil {
		return nil, err
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}
