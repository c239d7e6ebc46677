package storefront

import (
	"context"
	"errors"
	"time"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/catalog"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// coverURLExpiry is how long catalog image URLs stay valid
const coverURLExpiry = 1 * time.Hour

// MediaURLResolver turns storage keys into browser-usable URLs. The S3
// storage service implements it.
type MediaURLResolver interface {
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
}

// CatalogViewService serves the public store profile and catalog
type CatalogViewService struct {
	storeRepo    store.StoreRepository
	categoryRepo catalog.CategoryRepository
	productRepo  catalog.ProductRepository
	groupRepo    catalog.AdditionalGroupRepository
	mediaRepo    catalog.ProductMediaRepository
	urls         MediaURLResolver
	logger       *zap.Logger
}

// NewCatalogViewService creates a new catalog view service. urls may be
// nil; the catalog then renders without product images.
func NewCatalogViewService(
	storeRepo store.StoreRepository,
	categoryRepo catalog.CategoryRepository,
	productRepo catalog.ProductRepository,
	groupRepo catalog.AdditionalGroupRepository,
	mediaRepo catalog.ProductMediaRepository,
	urls MediaURLResolver,
	logger *zap.Logger,
) *CatalogViewService {
	return &CatalogViewService{
		storeRepo:    storeRepo,
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		groupRepo:    groupRepo,
		mediaRepo:    mediaRepo,
		urls:         urls,
		logger:       logger,
	}
}

// GetProfile retrieves the public profile of a store
func (s *CatalogViewService) GetProfile(ctx context.Context, tenantID, storeID uuid.UUID) (*StoreProfileResponse, error) {
	st, err := findActiveStore(ctx, s.storeRepo, tenantID, storeID)
	if err != nil {
		return nil, err
	}

	response := ToStoreProfileResponse(st)
	return &response, nil
}

// GetCatalog retrieves the sellable products of a store grouped by
// category, with the featured selection up front
func (s *CatalogViewService) GetCatalog(ctx context.Context, tenantID, storeID uuid.UUID) (*CatalogResponse, error) {
	st, err := findActiveStore(ctx, s.storeRepo, tenantID, storeID)
	if err != nil {
		return nil, err
	}

	categories, err := s.categoryRepo.FindActiveByStore(ctx, st.ID)
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.FindAvailableByStore(ctx, st.ID)
	if err != nil {
		return nil, err
	}

	groups, err := s.loadGroupResponses(ctx, products)
	if err != nil {
		return nil, err
	}
	covers := s.loadCoverURLs(ctx, products)

	byCategory := make(map[uuid.UUID][]CatalogProductResponse)
	other := make([]CatalogProductResponse, 0)
	featured := make([]CatalogProductResponse, 0)

	for _, product := range products {
		resp := s.toProductResponse(product, groups, covers)
		if resp.Featured {
			featured = append(featured, resp)
		}
		if product.CategoryID != nil {
			byCategory[*product.CategoryID] = append(byCategory[*product.CategoryID], resp)
		} else {
			other = append(other, resp)
		}
	}

	categoryResponses := make([]CatalogCategoryResponse, 0, len(categories))
	for _, category := range categories {
		items, ok := byCategory[category.ID]
		if !ok {
			continue
		}
		categoryResponses = append(categoryResponses, CatalogCategoryResponse{
			ID:       category.ID,
			Name:     category.Name,
			ImageURL: category.ImageURL,
			Products: items,
		})
		delete(byCategory, category.ID)
	}

	// Products whose category went inactive sell on like uncategorized ones
	for _, product := range products {
		if product.CategoryID == nil {
			continue
		}
		if items, ok := byCategory[*product.CategoryID]; ok {
			other = append(other, items...)
			delete(byCategory, *product.CategoryID)
		}
	}

	return &CatalogResponse{
		Categories: categoryResponses,
		Other:      other,
		Featured:   featured,
	}, nil
}

func (s *CatalogViewService) toProductResponse(product *catalog.Product, groups map[uuid.UUID]CatalogAdditionalGroupResponse, covers map[uuid.UUID]string) CatalogProductResponse {
	attachedGroups := make([]CatalogAdditionalGroupResponse, 0, len(product.AdditionalGroupIDs))
	for _, groupID := range product.AdditionalGroupIDs {
		if group, ok := groups[groupID]; ok {
			attachedGroups = append(attachedGroups, group)
		}
	}

	return CatalogProductResponse{
		ID:               product.ID,
		Name:             product.Name,
		Description:      product.Description,
		Price:            product.Price,
		PromoPrice:       product.PromoPrice,
		EffectivePrice:   product.EffectivePrice().Amount(),
		ImageURL:         covers[product.ID],
		VideoURL:         product.VideoURL,
		Featured:         product.Featured,
		AdditionalGroups: attachedGroups,
	}
}

// loadGroupResponses loads the active additional groups referenced by
// the products, with their active items
func (s *CatalogViewService) loadGroupResponses(ctx context.Context, products []*catalog.Product) (map[uuid.UUID]CatalogAdditionalGroupResponse, error) {
	ids := make([]uuid.UUID, 0)
	seen := make(map[uuid.UUID]bool)
	for _, product := range products {
		for _, groupID := range product.AdditionalGroupIDs {
			if !seen[groupID] {
				seen[groupID] = true
				ids = append(ids, groupID)
			}
		}
	}
	if len(ids) == 0 {
		return map[uuid.UUID]CatalogAdditionalGroupResponse{}, nil
	}

	groups, err := s.groupRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	responses := make(map[uuid.UUID]CatalogAdditionalGroupResponse, len(groups))
	for _, group := range groups {
		if !group.IsActive() {
			continue
		}
		activeItems := group.ActiveItems()
		items := make([]CatalogAdditionalItemResponse, len(activeItems))
		for i, item := range activeItems {
			items[i] = CatalogAdditionalItemResponse{
				ID:         item.ID,
				Name:       item.Name,
				PriceDelta: item.PriceDelta,
			}
		}
		responses[group.ID] = CatalogAdditionalGroupResponse{
			ID:          group.ID,
			Name:        group.Name,
			Description: group.Description,
			MinSelect:   group.MinSelect,
			MaxSelect:   group.MaxSelect,
			Items:       items,
		}
	}
	return responses, nil
}

// loadCoverURLs resolves each product's cover image to a download URL.
// Failures leave the catalog without images rather than failing it.
func (s *CatalogViewService) loadCoverURLs(ctx context.Context, products []*catalog.Product) map[uuid.UUID]string {
	if s.urls == nil || len(products) == 0 {
		return map[uuid.UUID]string{}
	}

	ids := make([]uuid.UUID, len(products))
	for i, product := range products {
		ids[i] = product.ID
	}

	covers, err := s.mediaRepo.FindCoversByProducts(ctx, ids)
	if err != nil {
		s.logger.Warn("failed to load product covers", zap.Error(err))
		return map[uuid.UUID]string{}
	}

	urls := make(map[uuid.UUID]string, len(covers))
	for productID, media := range covers {
		url, _, err := s.urls.GenerateDownloadURL(ctx, media.StorageKey, coverURLExpiry)
		if err != nil {
			s.logger.Warn("failed to sign cover URL",
				zap.String("product_id", productID.String()),
				zap.Error(err))
			continue
		}
		urls[productID] = url
	}
	return urls
}

// findActiveStore loads a store for public access. Inactive stores are
// indistinguishable from missing ones.
func findActiveStore(ctx context.Context, storeRepo store.StoreRepository, tenantID, storeID uuid.UUID) (*store.Store, error) {
	st, err := storeRepo.FindByIDForTenant(ctx, tenantID, storeID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("STORE_NOT_FOUND", "Store not found")
		}
		return nil, err
	}
	if !st.IsActive() {
		return nil, shared.NewDomainError("STORE_NOT_FOUND", "Store not found")
	}
	return st, nil
}
