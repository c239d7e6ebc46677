package storefront

import (
	"context"
	"errors"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/catalog"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/store"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/storefront"
	"github.com/google/uuid"
)

// CartService handles the session cart of a storefront visitor. The
// session ID travels in a header; an empty one makes the service mint a
// fresh session.
type CartService struct {
	cartStore storefront.CartStore
	storeRepo store.StoreRepository
	pricer    cartPricer
}

// NewCartService creates a new cart service
func NewCartService(
	cartStore storefront.CartStore,
	storeRepo store.StoreRepository,
	productRepo catalog.ProductRepository,
	groupRepo catalog.AdditionalGroupRepository,
) *CartService {
	return &CartService{
		cartStore: cartStore,
		storeRepo: storeRepo,
		pricer:    cartPricer{productRepo: productRepo, groupRepo: groupRepo},
	}
}

// GetCart retrieves the session cart, creating an empty one when the
// session is new
func (s *CartService) GetCart(ctx context.Context, tenantID, storeID uuid.UUID, sessionID string) (*CartResponse, error) {
	st, err := findActiveStore(ctx, s.storeRepo, tenantID, storeID)
	if err != nil {
		return nil, err
	}

	cart, err := s.loadOrCreate(ctx, tenantID, st.ID, sessionID)
	if err != nil {
		return nil, err
	}

	return s.respond(ctx, cart)
}

// AddItem adds a line to the session cart. Selections are checked
// against the product's attached groups so required picks cannot be
// skipped.
func (s *CartService) AddItem(ctx context.Context, tenantID, storeID uuid.UUID, sessionID string, req AddCartItemRequest) (*CartResponse, error) {
	st, err := findActiveStore(ctx, s.storeRepo, tenantID, storeID)
	if err != nil {
		return nil, err
	}

	product, err := s.findProduct(ctx, st.ID, req.ProductID)
	if err != nil {
		return nil, err
	}
	selections, err := s.validateSelections(ctx, product, req.Selections)
	if err != nil {
		return nil, err
	}

	cart, err := s.loadOrCreate(ctx, tenantID, st.ID, sessionID)
	if err != nil {
		return nil, err
	}

	if _, err := cart.AddItem(req.ProductID, req.Quantity, selections, req.Note); err != nil {
		return nil, err
	}
	if err := s.cartStore.Save(ctx, cart); err != nil {
		return nil, err
	}

	return s.respond(ctx, cart)
}

// UpdateItem changes the quantity of a cart line
func (s *CartService) UpdateItem(ctx context.Context, tenantID, storeID uuid.UUID, sessionID string, itemID uuid.UUID, req UpdateCartItemRequest) (*CartResponse, error) {
	st, err := findActiveStore(ctx, s.storeRepo, tenantID, storeID)
	if err != nil {
		return nil, err
	}

	cart, err := s.findCart(ctx, tenantID, st.ID, sessionID)
	if err != nil {
		return nil, err
	}

	if err := cart.UpdateItemQuantity(itemID, req.Quantity); err != nil {
		return nil, err
	}
	if err := s.cartStore.Save(ctx, cart); err != nil {
		return nil, err
	}

	return s.respond(ctx, cart)
}

// RemoveItem removes a line from the cart
func (s *CartService) RemoveItem(ctx context.Context, tenantID, storeID uuid.UUID, sessionID string, itemID uuid.UUID) (*CartResponse, error) {
	st, err := findActiveStore(ctx, s.storeRepo, tenantID, storeID)
	if err != nil {
		return nil, err
	}

	cart, err := s.findCart(ctx, tenantID, st.ID, sessionID)
	if err != nil {
		return nil, err
	}

	if err := cart.RemoveItem(itemID); err != nil {
		return nil, err
	}
	if err := s.cartStore.Save(ctx, cart); err != nil {
		return nil, err
	}

	return s.respond(ctx, cart)
}

// Clear drops the session cart
func (s *CartService) Clear(ctx context.Context, tenantID, storeID uuid.UUID, sessionID string) (*CartResponse, error) {
	st, err := findActiveStore(ctx, s.storeRepo, tenantID, storeID)
	if err != nil {
		return nil, err
	}

	if sessionID != "" {
		if err := s.cartStore.Delete(ctx, tenantID, st.ID, sessionID); err != nil {
			return nil, err
		}
	}

	cart, err := storefront.NewCart(s.ensureSession(sessionID), tenantID, st.ID)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, cart)
}

func (s *CartService) findProduct(ctx context.Context, storeID, productID uuid.UUID) (*catalog.Product, error) {
	product, err := s.pricer.productRepo.FindByIDForStore(ctx, storeID, productID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
		}
		return nil, err
	}
	if !product.IsAvailable() {
		return nil, shared.NewDomainError("PRODUCT_UNAVAILABLE", product.Name+" is not available right now")
	}
	if err := s.pricer.productRepo.LoadAdditionalGroups(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// validateSelections checks the request picks against every group
// attached to the product. Groups absent from the request count as zero
// picks, which trips the minimum of required groups.
func (s *CartService) validateSelections(ctx context.Context, product *catalog.Product, reqs []CartSelectionRequest) ([]storefront.CartSelection, error) {
	attached := make(map[uuid.UUID]bool, len(product.AdditionalGroupIDs))
	for _, groupID := range product.AdditionalGroupIDs {
		attached[groupID] = true
	}

	picks := make(map[uuid.UUID][]uuid.UUID, len(reqs))
	for _, req := range reqs {
		if !attached[req.GroupID] {
			return nil, shared.NewDomainError("SELECTION_INVALID", "Selected group is not offered with this product")
		}
		if _, dup := picks[req.GroupID]; dup {
			return nil, shared.NewDomainError("SELECTION_INVALID", "Each group can appear at most once")
		}
		picks[req.GroupID] = req.ItemIDs
	}

	if len(product.AdditionalGroupIDs) == 0 {
		return nil, nil
	}

	groups, err := s.pricer.groupRepo.FindByIDs(ctx, product.AdditionalGroupIDs)
	if err != nil {
		return nil, err
	}

	selections := make([]storefront.CartSelection, 0, len(reqs))
	for _, group := range groups {
		if !group.IsActive() {
			continue
		}
		itemIDs := picks[group.ID]
		if err := group.ValidateSelection(itemIDs); err != nil {
			return nil, err
		}
		if len(itemIDs) > 0 {
			selections = append(selections, storefront.CartSelection{
				GroupID: group.ID,
				ItemIDs: itemIDs,
			})
		}
	}
	return selections, nil
}

func (s *CartService) loadOrCreate(ctx context.Context, tenantID, storeID uuid.UUID, sessionID string) (*storefront.Cart, error) {
	if sessionID != "" {
		cart, err := s.cartStore.Get(ctx, tenantID, storeID, sessionID)
		if err != nil {
			return nil, err
		}
		if cart != nil {
			return cart, nil
		}
	}

	cart, err := storefront.NewCart(s.ensureSession(sessionID), tenantID, storeID)
	if err != nil {
		return nil, err
	}
	if err := s.cartStore.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) findCart(ctx context.Context, tenantID, storeID uuid.UUID, sessionID string) (*storefront.Cart, error) {
	if sessionID == "" {
		return nil, shared.NewDomainError("CART_NOT_FOUND", "Cart session not found")
	}
	cart, err := s.cartStore.Get(ctx, tenantID, storeID, sessionID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, shared.NewDomainError("CART_NOT_FOUND", "Cart session not found")
	}
	return cart, nil
}

func (s *CartService) ensureSession(sessionID string) string {
	if sessionID != "" {
		return sessionID
	}
	return uuid.NewString()
}

func (s *CartService) respond(ctx context.Context, cart *storefront.Cart) (*CartResponse, error) {
	priced, err := s.pricer.price(ctx, cart, false)
	if err != nil {
		return nil, err
	}
	response := ToCartResponse(cart, priced)
	return &response, nil
}
