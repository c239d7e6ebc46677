package order

import (
	"context"
	"errors"
	"time"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/catalog"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/order"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService handles the merchant side of the order flow: listing,
// the kitchen board, status transitions and period summaries. Orders
// are placed by the storefront checkout, never here.
type OrderService struct {
	orderRepo      order.OrderRepository
	productRepo    catalog.ProductRepository
	storeRepo      store.StoreRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo order.OrderRepository,
	productRepo catalog.ProductRepository,
	storeRepo store.StoreRepository,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		storeRepo:   storeRepo,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// GetByID retrieves an order with its items
func (s *OrderService) GetByID(ctx context.Context, tenantID, orderID uuid.UUID) (*OrderResponse, error) {
	ord, err := s.findOrder(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	response := ToOrderResponse(ord)
	return &response, nil
}

// List retrieves orders matching the filter, newest first
func (s *OrderService) List(ctx context.Context, tenantID uuid.UUID, filter OrderListFilter) ([]OrderListResponse, int64, error) {
	domainFilter := order.NewOrderFilter()
	if filter.StoreID != nil {
		domainFilter = domainFilter.WithStore(*filter.StoreID)
	}
	if filter.CustomerID != nil {
		domainFilter = domainFilter.WithCustomer(*filter.CustomerID)
	}
	if filter.Status != "" {
		domainFilter = domainFilter.WithStatus(order.OrderStatus(filter.Status))
	}
	if filter.From != nil {
		domainFilter.From = filter.From
	}
	if filter.To != nil {
		domainFilter.To = filter.To
	}
	if filter.Search != "" {
		domainFilter = domainFilter.WithKeyword(filter.Search)
	}
	if filter.Page > 0 || filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		pageSize := filter.PageSize
		if pageSize <= 0 {
			pageSize = 20
		}
		domainFilter = domainFilter.WithPagination(page, pageSize)
	}

	orders, total, err := s.orderRepo.FindAll(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToOrderListResponses(orders), total, nil
}

// ActiveBoard retrieves the non-terminal orders of a store, oldest
// first, for the live order board
func (s *OrderService) ActiveBoard(ctx context.Context, tenantID, storeID uuid.UUID) ([]OrderListResponse, error) {
	if _, err := s.storeRepo.FindByIDForTenant(ctx, tenantID, storeID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("STORE_NOT_FOUND", "Store not found")
		}
		return nil, err
	}

	orders, err := s.orderRepo.FindActiveByStore(ctx, tenantID, storeID)
	if err != nil {
		return nil, err
	}

	return ToOrderListResponses(orders), nil
}

// UpdateStatus moves an order to the requested status. Confirming
// decrements tracked stock and fails when stock is short; cancelling a
// confirmed order restores it.
func (s *OrderService) UpdateStatus(ctx context.Context, tenantID, orderID uuid.UUID, req UpdateOrderStatusRequest) (*OrderResponse, error) {
	ord, err := s.findOrder(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	target := order.OrderStatus(req.Status)
	wasConfirmed := ord.Status != order.OrderStatusPending

	if err := ord.TransitionTo(target, req.Reason); err != nil {
		return nil, err
	}

	if target == order.OrderStatusConfirmed {
		if err := s.decrementStock(ctx, ord); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.Update(ctx, ord); err != nil {
		return nil, err
	}

	if target == order.OrderStatusCancelled && wasConfirmed {
		s.restoreStock(ctx, ord)
	}

	s.publishDomainEvents(ctx, ord)

	response := ToOrderResponse(ord)
	return &response, nil
}

// Cancel cancels an order with a reason
func (s *OrderService) Cancel(ctx context.Context, tenantID, orderID uuid.UUID, req CancelOrderRequest) (*OrderResponse, error) {
	return s.UpdateStatus(ctx, tenantID, orderID, UpdateOrderStatusRequest{
		Status: string(order.OrderStatusCancelled),
		Reason: req.Reason,
	})
}

// Summary aggregates order count, revenue, average ticket and per-status
// counts for the period. The period defaults to the last 30 days.
func (s *OrderService) Summary(ctx context.Context, tenantID uuid.UUID, filter SummaryFilter) (*OrderSummaryResponse, error) {
	to := time.Now()
	if filter.To != nil {
		to = *filter.To
	}
	from := to.AddDate(0, 0, -30)
	if filter.From != nil {
		from = *filter.From
	}
	if from.After(to) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period start must be before its end")
	}

	summary, err := s.orderRepo.Summary(ctx, tenantID, filter.StoreID, from, to)
	if err != nil {
		return nil, err
	}

	byStatus := make(map[string]int64, len(summary.ByStatus))
	for status, count := range summary.ByStatus {
		byStatus[string(status)] = count
	}

	return &OrderSummaryResponse{
		From:          from,
		To:            to,
		OrderCount:    summary.OrderCount,
		Revenue:       summary.Revenue,
		AverageTicket: summary.AverageTicket,
		ByStatus:      byStatus,
	}, nil
}

// decrementStock loads the products behind tracked order lines and takes
// the ordered quantities. All lines are checked before anything is
// persisted, so a short line rejects the confirmation as a whole.
func (s *OrderService) decrementStock(ctx context.Context, ord *order.Order) error {
	products, err := s.loadOrderProducts(ctx, ord)
	if err != nil {
		return err
	}

	for _, item := range ord.Items {
		product, ok := products[item.ProductID]
		if !ok {
			continue // Product deleted since order placement; nothing to decrement
		}
		if err := product.DecrementStock(item.Quantity); err != nil {
			if errors.Is(err, shared.ErrInsufficientStock) {
				return shared.NewDomainError("INSUFFICIENT_STOCK", "Not enough stock for "+item.ProductName)
			}
			return err
		}
	}

	for _, product := range products {
		if err := s.productRepo.Update(ctx, product); err != nil {
			s.logger.Warn("failed to persist stock decrement",
				zap.String("order_id", ord.ID.String()),
				zap.String("product_id", product.ID.String()),
				zap.Error(err))
		}
	}

	return nil
}

// restoreStock puts the ordered quantities back after a confirmed order
// is cancelled. Failures are logged, not propagated; the cancellation
// itself already happened.
func (s *OrderService) restoreStock(ctx context.Context, ord *order.Order) {
	products, err := s.loadOrderProducts(ctx, ord)
	if err != nil {
		s.logger.Warn("failed to load products for stock restore",
			zap.String("order_id", ord.ID.String()),
			zap.Error(err))
		return
	}

	for _, item := range ord.Items {
		product, ok := products[item.ProductID]
		if !ok {
			continue
		}
		if err := product.IncrementStock(item.Quantity); err != nil {
			s.logger.Warn("failed to restore stock",
				zap.String("order_id", ord.ID.String()),
				zap.String("product_id", product.ID.String()),
				zap.Error(err))
		}
	}

	for _, product := range products {
		if err := s.productRepo.Update(ctx, product); err != nil {
			s.logger.Warn("failed to persist stock restore",
				zap.String("order_id", ord.ID.String()),
				zap.String("product_id", product.ID.String()),
				zap.Error(err))
		}
	}
}

// loadOrderProducts fetches the distinct tracked products referenced by
// the order lines
func (s *OrderService) loadOrderProducts(ctx context.Context, ord *order.Order) (map[uuid.UUID]*catalog.Product, error) {
	ids := make([]uuid.UUID, 0, len(ord.Items))
	seen := make(map[uuid.UUID]bool, len(ord.Items))
	for _, item := range ord.Items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}
	if len(ids) == 0 {
		return map[uuid.UUID]*catalog.Product{}, nil
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for _, product := range products {
		if product.TrackStock {
			byID[product.ID] = product
		}
	}
	return byID, nil
}

func (s *OrderService) findOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*order.Order, error) {
	ord, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
		}
		return nil, err
	}
	return ord, nil
}

// publishDomainEvents publishes the order's accumulated domain events
func (s *OrderService) publishDomainEvents(ctx context.Context, ord *order.Order) {
	if s.eventPublisher == nil {
		return
	}
	events := ord.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	// Publish errors are logged by the event bus, not propagated
	_ = s.eventPublisher.Publish(ctx, events...)
	ord.ClearDomainEvents()
}
