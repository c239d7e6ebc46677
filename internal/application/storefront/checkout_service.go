package storefront

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/campaign"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/catalog"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/customer"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/order"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared/valueobject"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/store"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/storefront"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// previewCacheTTL keeps previews short-lived so schedule and campaign
// windows are never stale for long
const previewCacheTTL = 30 * time.Second

// PreviewCache memoizes checkout previews keyed by cart contents. The
// Redis cache implements it; lookups are best-effort.
type PreviewCache interface {
	// Get returns the cached preview, nil on a miss
	Get(ctx context.Context, key string) (*CheckoutPreviewResponse, error)

	// Set stores a preview under the key for the given TTL
	Set(ctx context.Context, key string, preview *CheckoutPreviewResponse, ttl time.Duration) error
}

// CustomerDirectory resolves the buyer identity behind an order. The
// customer application service implements it.
type CustomerDirectory interface {
	UpsertByPhone(ctx context.Context, tenantID uuid.UUID, name, phone string) (*customer.Customer, error)
}

// CheckoutService turns a session cart into totals and, finally, into a
// placed order
type CheckoutService struct {
	storeRepo      store.StoreRepository
	cartStore      storefront.CartStore
	campaignRepo   campaign.CampaignRepository
	orderRepo      order.OrderRepository
	customerRepo   customer.CustomerRepository
	customers      CustomerDirectory
	quoter         storefront.ShippingQuoter
	previewCache   PreviewCache
	pricer         cartPricer
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewCheckoutService creates a new checkout service. quoter and
// previewCache may be nil; delivery then costs the store's flat fee and
// every preview is computed fresh.
func NewCheckoutService(
	storeRepo store.StoreRepository,
	cartStore storefront.CartStore,
	productRepo catalog.ProductRepository,
	groupRepo catalog.AdditionalGroupRepository,
	campaignRepo campaign.CampaignRepository,
	orderRepo order.OrderRepository,
	customerRepo customer.CustomerRepository,
	customers CustomerDirectory,
	quoter storefront.ShippingQuoter,
	previewCache PreviewCache,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		storeRepo:    storeRepo,
		cartStore:    cartStore,
		campaignRepo: campaignRepo,
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		customers:    customers,
		quoter:       quoter,
		previewCache: previewCache,
		pricer:       cartPricer{productRepo: productRepo, groupRepo: groupRepo},
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *CheckoutService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Preview computes the totals breakdown for the session cart. Problems
// that would block placement come back as warnings, never as errors, so
// the buyer always sees numbers.
func (s *CheckoutService) Preview(ctx context.Context, tenantID, storeID uuid.UUID, sessionID string, req CheckoutPreviewRequest) (*CheckoutPreviewResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "checkout.preview",
		telemetry.WithAttribute(telemetry.SpanAttrStoreID, storeID.String()))
	defer span.End()

	preview, err := s.preview(ctx, tenantID, storeID, sessionID, req)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttribute(span, telemetry.SpanAttrAmount, preview.Total.StringFixed(2))
	return preview, nil
}

func (s *CheckoutService) preview(ctx context.Context, tenantID, storeID uuid.UUID, sessionID string, req CheckoutPreviewRequest) (*CheckoutPreviewResponse, error) {
	st, err := findActiveStore(ctx, s.storeRepo, tenantID, storeID)
	if err != nil {
		return nil, err
	}

	cart, err := s.findCart(ctx, tenantID, st.ID, sessionID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, shared.NewDomainError("EMPTY_CART", "Cart is empty")
	}

	fulfillment := order.FulfillmentKind(req.Fulfillment)
	if err := s.checkFulfillment(st, fulfillment); err != nil {
		return nil, err
	}

	key := s.previewKey(cart, req)
	if cached := s.cachedPreview(ctx, key); cached != nil {
		telemetry.AddEvent(telemetry.SpanFromContext(ctx), "preview_cache_hit")
		return cached, nil
	}

	now := time.Now()
	warnings := make([]PreviewWarning, 0)

	priced, err := s.pricer.price(ctx, cart, false)
	if err != nil {
		return nil, err
	}
	items := make([]CartItemResponse, 0, len(priced.lines))
	for _, line := range priced.lines {
		items = append(items, line.toResponse())
		if !line.available {
			warnings = append(warnings, PreviewWarning{Code: WarnItemUnavailable, Message: line.reason})
		}
	}

	fee := valueobject.ZeroBRL()
	feeEstimated := false
	if fulfillment == order.FulfillmentDelivery {
		fee, feeEstimated = s.resolveDeliveryFee(ctx, st, req.CEP, priced.subtotal)
		if feeEstimated {
			warnings = append(warnings, PreviewWarning{
				Code:    WarnFeeEstimated,
				Message: "Delivery fee is an estimate and may change",
			})
		}
	}

	storeOpen := st.IsOpenAt(now)
	var nextOrderAt *time.Time
	if !storeOpen {
		if next, err := st.NextValidOrderTime(now); err == nil {
			nextOrderAt = &next
		}
		warnings = append(warnings, PreviewWarning{
			Code:    WarnStoreClosed,
			Message: shared.ErrStoreClosed.Message,
		})
	}

	if !st.MeetsMinimumOrder(priced.subtotal) {
		warnings = append(warnings, PreviewWarning{
			Code:    WarnMinimumNotMet,
			Message: fmt.Sprintf("Store minimum is R$ %s", st.MinOrderAmount.StringFixed(2)),
		})
	}

	facts := campaign.OrderFacts{
		Subtotal:      priced.subtotal,
		PaymentMethod: req.PaymentMethod,
		CategoryIDs:   priced.categoryIDs,
		FirstOrder:    s.firstOrder(ctx, tenantID, req.CustomerPhone),
		At:            now.In(st.Location()),
	}
	camp, discount, err := s.resolveCampaign(ctx, tenantID, req.CouponCode, facts, fee)
	if err != nil {
		var domainErr *shared.DomainError
		if !errors.As(err, &domainErr) {
			return nil, err
		}
		warning := PreviewWarning{Code: WarnCouponRejected, Message: domainErr.Message}
		if domainErr.Code == "COUPON_INVALID" {
			warning.Code = WarnCouponInvalid
		}
		warnings = append(warnings, warning)
		camp, discount = nil, valueobject.ZeroBRL()
	}

	preview := &CheckoutPreviewResponse{
		Items:        items,
		Subtotal:     priced.subtotal.Amount(),
		DeliveryFee:  fee.Amount(),
		FeeEstimated: feeEstimated,
		Discount:     discount.Amount(),
		Total:        priced.subtotal.MustAdd(fee).MustSubtract(discount).Amount(),
		Campaign:     toAppliedCampaign(camp, req.CouponCode),
		StoreOpen:    storeOpen,
		NextOrderAt:  nextOrderAt,
		Warnings:     warnings,
	}
	s.storePreview(ctx, key, preview)

	return preview, nil
}

// PlaceOrder places the session cart as an order. Every warning the
// preview tolerates is a hard error here.
func (s *CheckoutService) PlaceOrder(ctx context.Context, tenantID, storeID uuid.UUID, sessionID string, req PlaceOrderRequest) (*PlacedOrderResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "checkout.place_order",
		telemetry.WithAttribute(telemetry.SpanAttrStoreID, storeID.String()))
	defer span.End()

	placed, err := s.placeOrder(ctx, tenantID, storeID, sessionID, req)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderID, placed.OrderID.String(),
		telemetry.SpanAttrOrderNumber, placed.Number,
		telemetry.SpanAttrAmount, placed.Total.StringFixed(2),
	)
	return placed, nil
}

func (s *CheckoutService) placeOrder(ctx context.Context, tenantID, storeID uuid.UUID, sessionID string, req PlaceOrderRequest) (*PlacedOrderResponse, error) {
	st, err := findActiveStore(ctx, s.storeRepo, tenantID, storeID)
	if err != nil {
		return nil, err
	}

	cart, err := s.findCart(ctx, tenantID, st.ID, sessionID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, shared.NewDomainError("EMPTY_CART", "Cart is empty")
	}

	fulfillment := order.FulfillmentKind(req.Fulfillment)
	if err := s.checkFulfillment(st, fulfillment); err != nil {
		return nil, err
	}
	if fulfillment == order.FulfillmentDelivery && req.Address == nil {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Delivery orders need an address")
	}

	now := time.Now()
	if !st.IsOpenAt(now) {
		return nil, shared.ErrStoreClosed
	}

	priced, err := s.pricer.price(ctx, cart, true)
	if err != nil {
		return nil, err
	}
	if !st.MeetsMinimumOrder(priced.subtotal) {
		return nil, shared.NewDomainError("BELOW_MINIMUM_ORDER",
			fmt.Sprintf("Store minimum is R$ %s", st.MinOrderAmount.StringFixed(2)))
	}

	fee := valueobject.ZeroBRL()
	if fulfillment == order.FulfillmentDelivery {
		fee, _ = s.resolveDeliveryFee(ctx, st, req.Address.CEP, priced.subtotal)
	}

	cust, err := s.customers.UpsertByPhone(ctx, tenantID, req.CustomerName, req.CustomerPhone)
	if err != nil {
		return nil, err
	}
	telemetry.SetAttribute(telemetry.SpanFromContext(ctx), telemetry.SpanAttrCustomerID, cust.ID.String())

	facts := campaign.OrderFacts{
		Subtotal:      priced.subtotal,
		PaymentMethod: req.PaymentMethod,
		CategoryIDs:   priced.categoryIDs,
		FirstOrder:    cust.IsFirstOrder(),
		At:            now.In(st.Location()),
	}
	camp, discount, err := s.resolveCampaign(ctx, tenantID, req.CouponCode, facts, fee)
	if err != nil {
		return nil, err
	}

	number, err := s.orderRepo.NextNumber(ctx, tenantID, st.ID)
	if err != nil {
		return nil, err
	}

	ord, err := s.assembleOrder(st, priced, cust, number, fee, camp, discount, req)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.Create(ctx, ord); err != nil {
		return nil, err
	}

	cust.RecordOrder(valueobject.NewMoneyBRL(ord.Total), now)
	if err := s.customerRepo.Update(ctx, cust); err != nil {
		s.logger.Warn("failed to record order on customer",
			zap.String("customer_id", cust.ID.String()),
			zap.Error(err))
	}

	if err := s.cartStore.Delete(ctx, tenantID, st.ID, sessionID); err != nil {
		s.logger.Warn("failed to drop cart after checkout",
			zap.String("session_id", sessionID),
			zap.Error(err))
	}

	s.publishDomainEvents(ctx, ord)

	return toPlacedOrderResponse(ord, st), nil
}

// Track returns the public view of an order. The caller authenticates
// with the order number plus at least four trailing digits of the
// customer's phone; a wrong suffix is indistinguishable from a missing
// order.
func (s *CheckoutService) Track(ctx context.Context, tenantID, storeID uuid.UUID, number int64, phoneSuffix string) (*OrderTrackingResponse, error) {
	ord, err := s.orderRepo.FindByNumber(ctx, tenantID, storeID, number)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
		}
		return nil, err
	}
	if !ord.MatchesPhoneSuffix(phoneSuffix) {
		return nil, shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
	}

	return toOrderTrackingResponse(ord), nil
}

// assembleOrder builds the PENDING order from the priced cart. Payment
// goes last so a cash change-for amount is checked against the final
// total.
func (s *CheckoutService) assembleOrder(
	st *store.Store,
	priced *pricedCart,
	cust *customer.Customer,
	number int64,
	fee valueobject.Money,
	camp *campaign.Campaign,
	discount valueobject.Money,
	req PlaceOrderRequest,
) (*order.Order, error) {
	ord, err := order.NewOrder(st.TenantID, st.ID, number, cust.ID, req.CustomerName, req.CustomerPhone)
	if err != nil {
		return nil, err
	}
	if err := ord.SetCustomerDocument(req.CustomerDocument); err != nil {
		return nil, err
	}

	for _, line := range priced.lines {
		_, err := ord.AddItem(line.item.ProductID, line.productName, line.categoryID,
			line.item.Quantity, line.unitPrice, line.orderAdditionals(), line.item.Note)
		if err != nil {
			return nil, err
		}
	}

	if order.FulfillmentKind(req.Fulfillment) == order.FulfillmentDelivery {
		address, err := req.Address.ToAddress()
		if err != nil {
			return nil, shared.NewDomainError("INVALID_ADDRESS", err.Error())
		}
		if err := ord.SetDelivery(address, fee); err != nil {
			return nil, err
		}
	} else {
		if err := ord.SetPickup(); err != nil {
			return nil, err
		}
	}

	if camp != nil && discount.IsPositive() {
		coupon := ""
		if camp.HasCoupon() {
			coupon = req.CouponCode
		}
		if err := ord.ApplyDiscount(camp.ID, coupon, discount); err != nil {
			return nil, err
		}
	}

	if err := ord.SetNote(req.Note); err != nil {
		return nil, err
	}
	if err := ord.SetPayment(order.PaymentMethod(req.PaymentMethod), req.ChangeFor); err != nil {
		return nil, err
	}

	return ord, nil
}

// resolveDeliveryFee prices the delivery. The carrier quote wins when it
// can be obtained; otherwise the store's flat fee applies, flagged as an
// estimate when a quote should have existed.
func (s *CheckoutService) resolveDeliveryFee(ctx context.Context, st *store.Store, destination string, subtotal valueobject.Money) (valueobject.Money, bool) {
	if s.quoter == nil {
		return st.FlatDeliveryFee, false
	}
	if destination == "" {
		return st.FlatDeliveryFee, true
	}

	destCEP, err := valueobject.NewCEP(destination)
	if err != nil {
		return st.FlatDeliveryFee, true
	}
	originCEP, err := valueobject.NewCEP(st.Address.CEP)
	if err != nil {
		return st.FlatDeliveryFee, true
	}

	quote, err := s.quoter.Quote(ctx, originCEP, destCEP, subtotal)
	if err != nil {
		s.logger.Warn("shipping quote failed, falling back to flat fee",
			zap.String("store_id", st.ID.String()),
			zap.String("destination", destCEP.Digits()),
			zap.Error(err))
		return st.FlatDeliveryFee, true
	}
	return quote.Fee, quote.Estimated
}

// resolveCampaign picks the discount for an order: the typed coupon when
// present, otherwise the automatic campaign yielding the largest
// discount. Coupon problems come back as domain errors with COUPON_*
// codes.
func (s *CheckoutService) resolveCampaign(ctx context.Context, tenantID uuid.UUID, couponCode string, facts campaign.OrderFacts, deliveryFee valueobject.Money) (*campaign.Campaign, valueobject.Money, error) {
	if strings.TrimSpace(couponCode) != "" {
		camp, err := s.campaignRepo.FindByCoupon(ctx, tenantID, couponCode)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, valueobject.ZeroBRL(), shared.NewDomainError("COUPON_INVALID", "Coupon not found")
			}
			return nil, valueobject.ZeroBRL(), err
		}
		if !camp.IsRunningAt(facts.At) {
			return nil, valueobject.ZeroBRL(), shared.NewDomainError("COUPON_NOT_APPLICABLE", "Coupon is not active right now")
		}
		if err := camp.CheckConditions(facts); err != nil {
			var domainErr *shared.DomainError
			if errors.As(err, &domainErr) {
				return nil, valueobject.ZeroBRL(), shared.NewDomainError("COUPON_NOT_APPLICABLE", domainErr.Message)
			}
			return nil, valueobject.ZeroBRL(), err
		}
		return camp, camp.DiscountFor(facts.Subtotal, deliveryFee), nil
	}

	candidates, err := s.campaignRepo.FindRunningAt(ctx, tenantID, facts.At)
	if err != nil {
		return nil, valueobject.ZeroBRL(), err
	}

	var best *campaign.Campaign
	bestDiscount := valueobject.ZeroBRL()
	for _, camp := range candidates {
		if camp.HasCoupon() {
			continue
		}
		if err := camp.CheckConditions(facts); err != nil {
			continue
		}
		discount := camp.DiscountFor(facts.Subtotal, deliveryFee)
		if ok, err := discount.GreaterThan(bestDiscount); err == nil && ok {
			best = camp
			bestDiscount = discount
		}
	}
	return best, bestDiscount, nil
}

// firstOrder reports whether the phone belongs to a customer with no
// orders yet. Unknown phones count as first orders.
func (s *CheckoutService) firstOrder(ctx context.Context, tenantID uuid.UUID, phone string) bool {
	if phone == "" {
		return false
	}
	parsed, err := valueobject.NewPhone(phone)
	if err != nil {
		return false
	}

	cust, err := s.customerRepo.FindByPhone(ctx, tenantID, parsed.Digits())
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return true
		}
		return false
	}
	return cust.IsFirstOrder()
}

func (s *CheckoutService) checkFulfillment(st *store.Store, fulfillment order.FulfillmentKind) error {
	switch fulfillment {
	case order.FulfillmentDelivery:
		if !st.DeliveryEnabled {
			return shared.NewDomainError("DELIVERY_DISABLED", "Store does not deliver")
		}
	case order.FulfillmentPickup:
		if !st.PickupEnabled {
			return shared.NewDomainError("PICKUP_DISABLED", "Store does not offer pickup")
		}
	default:
		return shared.NewDomainError("INVALID_FULFILLMENT", "Invalid fulfillment kind")
	}
	return nil
}

func (s *CheckoutService) findCart(ctx context.Context, tenantID, storeID uuid.UUID, sessionID string) (*storefront.Cart, error) {
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

// previewKey hashes everything the preview depends on, so any cart or
// request change lands on a fresh cache entry
func (s *CheckoutService) previewKey(cart *storefront.Cart, req CheckoutPreviewRequest) string {
	sum := sha256.Sum256([]byte(strings.Join([]string{
		cart.Fingerprint(),
		req.Fulfillment,
		req.CEP,
		strings.ToUpper(strings.TrimSpace(req.CouponCode)),
		req.PaymentMethod,
		req.CustomerPhone,
	}, "|")))
	return hex.EncodeToString(sum[:])
}

func (s *CheckoutService) cachedPreview(ctx context.Context, key string) *CheckoutPreviewResponse {
	if s.previewCache == nil {
		return nil
	}
	preview, err := s.previewCache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("preview cache lookup failed", zap.Error(err))
		return nil
	}
	return preview
}

func (s *CheckoutService) storePreview(ctx context.Context, key string, preview *CheckoutPreviewResponse) {
	if s.previewCache == nil {
		return
	}
	if err := s.previewCache.Set(ctx, key, preview, previewCacheTTL); err != nil {
		s.logger.Warn("preview cache store failed", zap.Error(err))
	}
}

// publishDomainEvents publishes the order's accumulated domain events
func (s *CheckoutService) publishDomainEvents(ctx context.Context, ord *order.Order) {
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

func toAppliedCampaign(camp *campaign.Campaign, couponCode string) *AppliedCampaignResponse {
	if camp == nil {
		return nil
	}
	applied := &AppliedCampaignResponse{
		ID:           camp.ID,
		Name:         camp.Name,
		DiscountKind: string(camp.DiscountKind),
	}
	if camp.HasCoupon() {
		applied.CouponCode = strings.ToUpper(strings.TrimSpace(couponCode))
	}
	return applied
}

func toPlacedOrderResponse(ord *order.Order, st *store.Store) *PlacedOrderResponse {
	var estimatedReadyAt *time.Time
	if st.PrepTimeMinutes > 0 {
		ready := ord.CreatedAt.Add(time.Duration(st.PrepTimeMinutes) * time.Minute)
		estimatedReadyAt = &ready
	}

	return &PlacedOrderResponse{
		OrderID:          ord.ID,
		Number:           ord.Number,
		NumberFormatted:  ord.NumberFormatted(),
		Status:           string(ord.Status),
		Fulfillment:      string(ord.Fulfillment),
		PaymentMethod:    string(ord.PaymentMethod),
		Subtotal:         ord.Subtotal,
		DeliveryFee:      ord.DeliveryFee,
		Discount:         ord.Discount,
		Total:            ord.Total,
		ChangeDue:        ord.ChangeDue().Amount(),
		EstimatedReadyAt: estimatedReadyAt,
		PlacedAt:         ord.CreatedAt,
	}
}

func toOrderTrackingResponse(ord *order.Order) *OrderTrackingResponse {
	items := make([]TrackingItemResponse, 0, len(ord.Items))
	for _, item := range ord.Items {
		items = append(items, TrackingItemResponse{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			LineTotal:   item.LineTotal,
		})
	}

	deliveryAddress := ""
	if ord.Fulfillment == order.FulfillmentDelivery {
		deliveryAddress = ord.DeliveryAddress.OneLine()
	}

	return &OrderTrackingResponse{
		Number:          ord.Number,
		NumberFormatted: ord.NumberFormatted(),
		Status:          string(ord.Status),
		Fulfillment:     string(ord.Fulfillment),
		PaymentMethod:   string(ord.PaymentMethod),
		DeliveryAddress: deliveryAddress,
		Items:           items,
		Subtotal:        ord.Subtotal,
		DeliveryFee:     ord.DeliveryFee,
		Discount:        ord.Discount,
		Total:           ord.Total,
		PlacedAt:        ord.CreatedAt,
		ConfirmedAt:     ord.ConfirmedAt,
		DispatchedAt:    ord.DispatchedAt,
		DeliveredAt:     ord.DeliveredAt,
		CancelledAt:     ord.CancelledAt,
		CancelReason:    ord.CancelReason,
	}
}
