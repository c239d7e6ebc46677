package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/catalog"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// Create creates a new product
func (r *GormProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// Update updates an existing product
func (r *GormProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	result := r.db.WithContext(ctx).Save(product)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a product and its additional group links
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&catalog.ProductAdditionalGroup{}, "product_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&catalog.Product{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// FindByID finds a product by ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByIDForStore finds a product by ID scoped to a store
func (r *GormProductRepository) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND id = ?", storeID, id).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByIDs finds multiple products by IDs
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*catalog.Product, error) {
	if len(ids) == 0 {
		return []*catalog.Product{}, nil
	}
	var products []*catalog.Product
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindByStore finds products of a store with filtering and pagination
func (r *GormProductRepository) FindByStore(ctx context.Context, storeID uuid.UUID, filter catalog.ProductFilter) ([]*catalog.Product, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Where("store_id = ?", storeID)

	if filter.Keyword != "" {
		pattern := "%" + filter.Keyword + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Featured != nil {
		query = query.Where("featured = ?", *filter.Featured)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := ValidateSortField(filter.SortBy, ProductSortFields, "sort_order")
	direction := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") || filter.SortOrder == "" {
		direction = "ASC"
	}

	var products []*catalog.Product
	if err := query.
		Order(sortBy + " " + direction).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// FindAvailableByStore finds the products the storefront can sell,
// ordered for display, with additional group links loaded
func (r *GormProductRepository) FindAvailableByStore(ctx context.Context, storeID uuid.UUID) ([]*catalog.Product, error) {
	var products []*catalog.Product
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND status = ?", storeID, catalog.ProductStatusActive).
		Order("sort_order ASC, name ASC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	if err := r.loadGroupLinks(ctx, products); err != nil {
		return nil, err
	}
	return products, nil
}

// FindFeaturedByStore finds the featured products of a store
func (r *GormProductRepository) FindFeaturedByStore(ctx context.Context, storeID uuid.UUID) ([]*catalog.Product, error) {
	var products []*catalog.Product
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND status = ? AND featured = ?", storeID, catalog.ProductStatusActive, true).
		Order("sort_order ASC, name ASC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// SaveAdditionalGroups saves the product's additional group links (replaces existing)
func (r *GormProductRepository) SaveAdditionalGroups(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&catalog.ProductAdditionalGroup{}, "product_id = ?", product.ID).Error; err != nil {
			return err
		}
		if len(product.AdditionalGroupIDs) == 0 {
			return nil
		}
		links := make([]catalog.ProductAdditionalGroup, 0, len(product.AdditionalGroupIDs))
		for i, groupID := range product.AdditionalGroupIDs {
			links = append(links, catalog.ProductAdditionalGroup{
				ProductID: product.ID,
				GroupID:   groupID,
				TenantID:  product.TenantID,
				SortOrder: i,
			})
		}
		return tx.Create(&links).Error
	})
}

// LoadAdditionalGroups loads the product's additional group links
func (r *GormProductRepository) LoadAdditionalGroups(ctx context.Context, product *catalog.Product) error {
	return r.loadGroupLinks(ctx, []*catalog.Product{product})
}

// CountForTenant counts all products of a tenant across stores
func (r *GormProductRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByCategory counts products assigned to a category
func (r *GormProductRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// loadGroupLinks fills AdditionalGroupIDs for each product in one query
func (r *GormProductRepository) loadGroupLinks(ctx context.Context, products []*catalog.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}

	var links []catalog.ProductAdditionalGroup
	if err := r.db.WithContext(ctx).
		Where("product_id IN ?", ids).
		Order("product_id, sort_order ASC").
		Find(&links).Error; err != nil {
		return err
	}

	byProduct := make(map[uuid.UUID][]uuid.UUID, len(products))
	for _, link := range links {
		byProduct[link.ProductID] = append(byProduct[link.ProductID], link.GroupID)
	}
	for _, p := range products {
		groupIDs := byProduct[p.ID]
		if groupIDs == nil {
			groupIDs = []uuid.UUID{}
		}
		p.AdditionalGroupIDs = groupIDs
	}
	return nil
}
