package catalog

import (
	"time"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateCategoryRequest represents a request to create a new category
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=500"`
	ImageURL    string `json:"image_url" binding:"max=500"`
	SortOrder   *int   `json:"sort_order"`
}

// UpdateCategoryRequest represents a request to update a category
type UpdateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	ImageURL    *string `json:"image_url" binding:"omitempty,max=500"`
	SortOrder   *int    `json:"sort_order"`
}

// ReorderCategoriesRequest carries the full ordered ID list of a store's categories
type ReorderCategoriesRequest struct {
	CategoryIDs []uuid.UUID `json:"category_ids" binding:"required,min=1"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID           uuid.UUID `json:"id"`
	TenantID     uuid.UUID `json:"tenant_id"`
	StoreID      uuid.UUID `json:"store_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	ImageURL     string    `json:"image_url"`
	SortOrder    int       `json:"sort_order"`
	Status       string    `json:"status"`
	ProductCount int64     `json:"product_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Version      int       `json:"version"`
}

// ToCategoryResponse converts a domain Category to CategoryResponse
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		TenantID:    c.TenantID,
		StoreID:     c.StoreID,
		Name:        c.Name,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		SortOrder:   c.SortOrder,
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		Version:     c.Version,
	}
}

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Name               string           `json:"name" binding:"required,min=1,max=200"`
	Description        string           `json:"description" binding:"max=2000"`
	CategoryID         *uuid.UUID       `json:"category_id"`
	Price              decimal.Decimal  `json:"price" binding:"required"`
	PromoPrice         *decimal.Decimal `json:"promo_price"`
	VideoURL           string           `json:"video_url" binding:"max=500"`
	Featured           bool             `json:"featured"`
	SortOrder          *int             `json:"sort_order"`
	TrackStock         bool             `json:"track_stock"`
	StockQuantity      int              `json:"stock_quantity" binding:"min=0"`
	AdditionalGroupIDs []uuid.UUID      `json:"additional_group_ids"`
}

// UpdateProductRequest represents a request to update a product.
// PromoPrice zero clears the promotional price.
type UpdateProductRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string          `json:"description" binding:"omitempty,max=2000"`
	CategoryID  *uuid.UUID       `json:"category_id"`
	Price       *decimal.Decimal `json:"price"`
	PromoPrice  *decimal.Decimal `json:"promo_price"`
	VideoURL    *string          `json:"video_url" binding:"omitempty,max=500"`
	Featured    *bool            `json:"featured"`
	SortOrder   *int             `json:"sort_order"`
}

// SetProductStockRequest represents a request to change stock settings
type SetProductStockRequest struct {
	TrackStock bool `json:"track_stock"`
	Quantity   int  `json:"quantity" binding:"min=0"`
}

// SetProductGroupsRequest replaces the additional groups offered with a product
type SetProductGroupsRequest struct {
	GroupIDs []uuid.UUID `json:"group_ids"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID                 uuid.UUID        `json:"id"`
	TenantID           uuid.UUID        `json:"tenant_id"`
	StoreID            uuid.UUID        `json:"store_id"`
	Name               string           `json:"name"`
	Description        string           `json:"description"`
	CategoryID         *uuid.UUID       `json:"category_id"`
	Price              decimal.Decimal  `json:"price"`
	PromoPrice         *decimal.Decimal `json:"promo_price"`
	EffectivePrice     decimal.Decimal  `json:"effective_price"`
	Status             string           `json:"status"`
	VideoURL           string           `json:"video_url"`
	Featured           bool             `json:"featured"`
	SortOrder          int              `json:"sort_order"`
	TrackStock         bool             `json:"track_stock"`
	StockQuantity      int              `json:"stock_quantity"`
	Available          bool             `json:"available"`
	AdditionalGroupIDs []uuid.UUID      `json:"additional_group_ids"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
	Version            int              `json:"version"`
}

// ProductListResponse represents a list item for products
type ProductListResponse struct {
	ID            uuid.UUID        `json:"id"`
	Name          string           `json:"name"`
	CategoryID    *uuid.UUID       `json:"category_id"`
	Price         decimal.Decimal  `json:"price"`
	PromoPrice    *decimal.Decimal `json:"promo_price"`
	Status        string           `json:"status"`
	Featured      bool             `json:"featured"`
	SortOrder     int              `json:"sort_order"`
	TrackStock    bool             `json:"track_stock"`
	StockQuantity int              `json:"stock_quantity"`
	CreatedAt     time.Time        `json:"created_at"`
}

// ProductListFilter represents filter options for product list
type ProductListFilter struct {
	Search     string     `form:"search"`
	Status     string     `form:"status" binding:"omitempty,oneof=active inactive"`
	CategoryID *uuid.UUID `form:"category_id"`
	Featured   *bool      `form:"featured"`
	Page       int        `form:"page" binding:"min=0"`
	PageSize   int        `form:"page_size" binding:"min=0,max=100"`
	OrderBy    string     `form:"order_by" binding:"omitempty,oneof=name price sort_order created_at"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:                 p.ID,
		TenantID:           p.TenantID,
		StoreID:            p.StoreID,
		Name:               p.Name,
		Description:        p.Description,
		CategoryID:         p.CategoryID,
		Price:              p.Price,
		PromoPrice:         p.PromoPrice,
		EffectivePrice:     p.EffectivePrice().Amount(),
		Status:             string(p.Status),
		VideoURL:           p.VideoURL,
		Featured:           p.Featured,
		SortOrder:          p.SortOrder,
		TrackStock:         p.TrackStock,
		StockQuantity:      p.StockQuantity,
		Available:          p.IsAvailable(),
		AdditionalGroupIDs: p.AdditionalGroupIDs,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
		Version:            p.Version,
	}
}

// ToProductListResponse converts a domain Product to ProductListResponse
func ToProductListResponse(p *catalog.Product) ProductListResponse {
	return ProductListResponse{
		ID:            p.ID,
		Name:          p.Name,
		CategoryID:    p.CategoryID,
		Price:         p.Price,
		PromoPrice:    p.PromoPrice,
		Status:        string(p.Status),
		Featured:      p.Featured,
		SortOrder:     p.SortOrder,
		TrackStock:    p.TrackStock,
		StockQuantity: p.StockQuantity,
		CreatedAt:     p.CreatedAt,
	}
}

// ToProductListResponses converts a slice of domain Products to ProductListResponses
func ToProductListResponses(products []*catalog.Product) []ProductListResponse {
	responses := make([]ProductListResponse, len(products))
	for i, p := range products {
		responses[i] = ToProductListResponse(p)
	}
	return responses
}

// AdditionalItemRequest represents one option inside a group create/update payload
type AdditionalItemRequest struct {
	Name       string          `json:"name" binding:"required,min=1,max=100"`
	PriceDelta decimal.Decimal `json:"price_delta"`
}

// CreateAdditionalGroupRequest represents a request to create an additional group
type CreateAdditionalGroupRequest struct {
	Name        string                  `json:"name" binding:"required,min=1,max=100"`
	Description string                  `json:"description" binding:"max=500"`
	MinSelect   int                     `json:"min_select" binding:"min=0"`
	MaxSelect   int                     `json:"max_select" binding:"min=0"`
	Items       []AdditionalItemRequest `json:"items"`
}

// UpdateAdditionalGroupRequest represents a request to update an additional group
type UpdateAdditionalGroupRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	MinSelect   *int    `json:"min_select" binding:"omitempty,min=0"`
	MaxSelect   *int    `json:"max_select" binding:"omitempty,min=0"`
}

// AdditionalItemResponse represents an additional item in API responses
type AdditionalItemResponse struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	PriceDelta decimal.Decimal `json:"price_delta"`
	Active     bool            `json:"active"`
	SortOrder  int             `json:"sort_order"`
}

// AdditionalGroupResponse represents an additional group in API responses
type AdditionalGroupResponse struct {
	ID          uuid.UUID                `json:"id"`
	TenantID    uuid.UUID                `json:"tenant_id"`
	StoreID     uuid.UUID                `json:"store_id"`
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	MinSelect   int                      `json:"min_select"`
	MaxSelect   int                      `json:"max_select"`
	SortOrder   int                      `json:"sort_order"`
	Status      string                   `json:"status"`
	Items       []AdditionalItemResponse `json:"items"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
	Version     int                      `json:"version"`
}

// ToAdditionalGroupResponse converts a domain AdditionalGroup to AdditionalGroupResponse
func ToAdditionalGroupResponse(g *catalog.AdditionalGroup) AdditionalGroupResponse {
	items := make([]AdditionalItemResponse, len(g.Items))
	for i, item := range g.Items {
		items[i] = AdditionalItemResponse{
			ID:         item.ID,
			Name:       item.Name,
			PriceDelta: item.PriceDelta,
			Active:     item.Active,
			SortOrder:  item.SortOrder,
		}
	}

	return AdditionalGroupResponse{
		ID:          g.ID,
		TenantID:    g.TenantID,
		StoreID:     g.StoreID,
		Name:        g.Name,
		Description: g.Description,
		MinSelect:   g.MinSelect,
		MaxSelect:   g.MaxSelect,
		SortOrder:   g.SortOrder,
		Status:      string(g.Status),
		Items:       items,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
		Version:     g.Version,
	}
}

// ToAdditionalGroupResponses converts a slice of groups to responses
func ToAdditionalGroupResponses(groups []*catalog.AdditionalGroup) []AdditionalGroupResponse {
	responses := make([]AdditionalGroupResponse, len(groups))
	for i, g := range groups {
		responses[i] = ToAdditionalGroupResponse(g)
	}
	return responses
}
