package storefront

import (
	"context"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/catalog"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/order"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared/valueobject"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/storefront"
	"github.com/google/uuid"
)

// cartPricer resolves cart lines against the current catalog. Carts
// reference catalog IDs only, so prices, names and availability are
// looked up fresh on every view, preview and placement.
type cartPricer struct {
	productRepo catalog.ProductRepository
	groupRepo   catalog.AdditionalGroupRepository
}

// pricedLine is one cart line with resolved prices
type pricedLine struct {
	item        storefront.CartItem
	product     *catalog.Product
	productName string
	categoryID  *uuid.UUID
	unitPrice   valueobject.Money
	addonsPrice valueobject.Money // Per unit
	lineTotal   valueobject.Money
	selections  []CartSelectionResponse
	available   bool
	reason      string
}

func (l pricedLine) toResponse() CartItemResponse {
	return CartItemResponse{
		ID:          l.item.ID,
		ProductID:   l.item.ProductID,
		ProductName: l.productName,
		Available:   l.available,
		Quantity:    l.item.Quantity,
		UnitPrice:   l.unitPrice.Amount(),
		AddonsPrice: l.addonsPrice.Amount(),
		LineTotal:   l.lineTotal.Amount(),
		Selections:  l.selections,
		Note:        l.item.Note,
	}
}

// orderAdditionals rebuilds the snapshot list for an order item
func (l pricedLine) orderAdditionals() []order.OrderItemAdditional {
	additionals := make([]order.OrderItemAdditional, 0)
	for _, sel := range l.selections {
		for _, item := range sel.Items {
			additionals = append(additionals, order.OrderItemAdditional{
				ItemID:     item.ID,
				GroupID:    sel.GroupID,
				GroupName:  sel.GroupName,
				Name:       item.Name,
				PriceDelta: item.PriceDelta,
			})
		}
	}
	return additionals
}

// pricedCart is the cart after pricing. Unavailable lines stay in the
// list but contribute nothing to the subtotal.
type pricedCart struct {
	lines       []pricedLine
	subtotal    valueobject.Money
	categoryIDs []uuid.UUID
}

func (p *pricedCart) allAvailable() bool {
	for _, line := range p.lines {
		if !line.available {
			return false
		}
	}
	return true
}

// price resolves every cart line. In strict mode the first problem
// aborts with a domain error; otherwise problem lines are marked
// unavailable and skipped from the subtotal.
func (p cartPricer) price(ctx context.Context, cart *storefront.Cart, strict bool) (*pricedCart, error) {
	products, err := p.loadProducts(ctx, cart)
	if err != nil {
		return nil, err
	}
	groups, err := p.loadGroups(ctx, cart)
	if err != nil {
		return nil, err
	}

	// Tracked products are checked against the summed quantity across
	// lines, consumed in cart order
	remaining := make(map[uuid.UUID]int)
	for _, product := range products {
		if product.TrackStock {
			remaining[product.ID] = product.StockQuantity
		}
	}

	priced := &pricedCart{
		lines:       make([]pricedLine, 0, len(cart.Items)),
		subtotal:    valueobject.ZeroBRL(),
		categoryIDs: make([]uuid.UUID, 0),
	}
	seenCategories := make(map[uuid.UUID]bool)

	for _, item := range cart.Items {
		line, err := p.priceLine(item, products, groups, remaining)
		if err != nil {
			if strict {
				return nil, err
			}
			line.available = false
			line.reason = err.Error()
		}

		if line.available {
			priced.subtotal = priced.subtotal.MustAdd(line.lineTotal)
			if line.categoryID != nil && !seenCategories[*line.categoryID] {
				seenCategories[*line.categoryID] = true
				priced.categoryIDs = append(priced.categoryIDs, *line.categoryID)
			}
		}
		priced.lines = append(priced.lines, line)
	}

	return priced, nil
}

func (p cartPricer) priceLine(item storefront.CartItem, products map[uuid.UUID]*catalog.Product, groups map[uuid.UUID]*catalog.AdditionalGroup, remaining map[uuid.UUID]int) (pricedLine, error) {
	line := pricedLine{
		item:        item,
		productName: "Produto indisponível",
		unitPrice:   valueobject.ZeroBRL(),
		addonsPrice: valueobject.ZeroBRL(),
		lineTotal:   valueobject.ZeroBRL(),
	}

	product, ok := products[item.ProductID]
	if !ok {
		return line, shared.NewDomainError("PRODUCT_UNAVAILABLE", "Product is no longer available")
	}
	line.product = product
	line.productName = product.Name
	line.categoryID = product.CategoryID

	if !product.IsAvailable() {
		return line, shared.NewDomainError("PRODUCT_UNAVAILABLE", product.Name+" is no longer available")
	}
	if product.TrackStock {
		left := remaining[product.ID]
		if left < item.Quantity {
			return line, shared.NewDomainError("INSUFFICIENT_STOCK", "Not enough stock for "+product.Name)
		}
		remaining[product.ID] = left - item.Quantity
	}

	addonsPrice := valueobject.ZeroBRL()
	selections := make([]CartSelectionResponse, 0, len(item.Selections))
	for _, sel := range item.Selections {
		group, ok := groups[sel.GroupID]
		if !ok {
			return line, shared.NewDomainError("SELECTION_INVALID", "Selected additionals are no longer offered")
		}
		if err := group.ValidateSelection(sel.ItemIDs); err != nil {
			return line, err
		}

		selItems := make([]CartSelectionItemResponse, 0, len(sel.ItemIDs))
		for _, itemID := range sel.ItemIDs {
			groupItem := group.ItemByID(itemID)
			selItems = append(selItems, CartSelectionItemResponse{
				ID:         groupItem.ID,
				Name:       groupItem.Name,
				PriceDelta: groupItem.PriceDelta,
			})
			addonsPrice = addonsPrice.MustAdd(groupItem.PriceDeltaMoney())
		}
		selections = append(selections, CartSelectionResponse{
			GroupID:   group.ID,
			GroupName: group.Name,
			Items:     selItems,
		})
	}

	line.unitPrice = product.EffectivePrice()
	line.addonsPrice = addonsPrice
	line.lineTotal = line.unitPrice.MustAdd(addonsPrice).MultiplyByInt(int64(item.Quantity))
	line.selections = selections
	line.available = true

	return line, nil
}

func (p cartPricer) loadProducts(ctx context.Context, cart *storefront.Cart) (map[uuid.UUID]*catalog.Product, error) {
	ids := make([]uuid.UUID, 0, len(cart.Items))
	seen := make(map[uuid.UUID]bool, len(cart.Items))
	for _, item := range cart.Items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}
	if len(ids) == 0 {
		return map[uuid.UUID]*catalog.Product{}, nil
	}

	products, err := p.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for _, product := range products {
		if product.StoreID == cart.StoreID {
			byID[product.ID] = product
		}
	}
	return byID, nil
}

func (p cartPricer) loadGroups(ctx context.Context, cart *storefront.Cart) (map[uuid.UUID]*catalog.AdditionalGroup, error) {
	ids := make([]uuid.UUID, 0)
	seen := make(map[uuid.UUID]bool)
	for _, item := range cart.Items {
		for _, sel := range item.Selections {
			if !seen[sel.GroupID] {
				seen[sel.GroupID] = true
				ids = append(ids, sel.GroupID)
			}
		}
	}
	if len(ids) == 0 {
		return map[uuid.UUID]*catalog.AdditionalGroup{}, nil
	}

	groups, err := p.groupRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*catalog.AdditionalGroup, len(groups))
	for _, group := range groups {
		if group.StoreID == cart.StoreID {
			byID[group.ID] = group
		}
	}
	return byID, nil
}
