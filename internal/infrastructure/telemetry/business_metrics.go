// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics provides business metrics for the commerce platform.
// It tracks order flow, checkout outcomes, notifications, and the size of
// each store's active order queue.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	orderCreatedTotal  *Counter
	orderRevenueTotal  *Counter
	checkoutTotal      *Counter
	couponAppliedTotal *Counter
	notificationTotal  *Counter

	// Gauge metrics (point-in-time values)
	activeOrdersGauge *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	// Data provider for periodic collection
	orderProvider OrderMetricsProvider
}

// OrderMetricsProvider provides order data for periodic metrics collection.
// This interface allows the telemetry layer to query order state without
// depending on the order domain directly.
type OrderMetricsProvider interface {
	// GetActiveOrderCountByStore returns the number of non-terminal orders per store for a tenant
	GetActiveOrderCountByStore(ctx context.Context, tenantID uuid.UUID) (map[uuid.UUID]int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration // Default: 5 minutes
	OrderProvider   OrderMetricsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:         cfg.Meter,
		logger:        logger,
		stopChan:      make(chan struct{}),
		orderProvider: cfg.OrderProvider,
	}

	var err error

	// Order metrics
	bm.orderCreatedTotal, err = NewCounter(
		cfg.Meter,
		"roksell_order_created_total",
		"Total number of orders created",
		"{orders}",
	)
	if err != nil {
		return nil, err
	}

	bm.orderRevenueTotal, err = NewCounter(
		cfg.Meter,
		"roksell_order_revenue_total",
		"Total delivered order revenue in centavos",
		"{centavos}",
	)
	if err != nil {
		return nil, err
	}

	// Checkout metrics
	bm.checkoutTotal, err = NewCounter(
		cfg.Meter,
		"roksell_checkout_total",
		"Total number of storefront checkout attempts",
		"{checkouts}",
	)
	if err != nil {
		return nil, err
	}

	bm.couponAppliedTotal, err = NewCounter(
		cfg.Meter,
		"roksell_coupon_applied_total",
		"Total number of coupons applied at checkout",
		"{coupons}",
	)
	if err != nil {
		return nil, err
	}

	// Messaging metrics
	bm.notificationTotal, err = NewCounter(
		cfg.Meter,
		"roksell_notification_total",
		"Total number of order notifications dispatched",
		"{notifications}",
	)
	if err != nil {
		return nil, err
	}

	// Order queue gauge
	bm.activeOrdersGauge, err = NewGauge(
		cfg.Meter,
		"roksell_active_orders",
		"Number of orders not yet delivered or cancelled",
		"{orders}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// =============================================================================
// Order Metrics
// =============================================================================

// OrderOrigin labels where an order entered the platform.
type OrderOrigin string

const (
	OrderOriginStorefront OrderOrigin = "storefront"
	OrderOriginAdmin      OrderOrigin = "admin"
)

// RecordOrderCreated records an order creation event.
// This should be called from the application layer when an order is created.
func (bm *BusinessMetrics) RecordOrderCreated(ctx context.Context, tenantID, storeID uuid.UUID, origin OrderOrigin) {
	bm.orderCreatedTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrStoreID.String(storeID.String()),
		AttrOrderOrigin.String(string(origin)),
	)
}

// RecordOrderDelivered records the revenue of an order that reached DELIVERED.
// Amount is converted to centavos before recording.
func (bm *BusinessMetrics) RecordOrderDelivered(ctx context.Context, tenantID, storeID uuid.UUID, total decimal.Decimal) {
	centavos := total.Mul(decimal.NewFromInt(100)).IntPart()
	bm.orderRevenueTotal.Add(ctx, centavos,
		AttrTenantID.String(tenantID.String()),
		AttrStoreID.String(storeID.String()),
	)
}

// =============================================================================
// Checkout Metrics
// =============================================================================

// CheckoutOutcome labels the result of a storefront checkout attempt.
type CheckoutOutcome string

const (
	CheckoutOutcomeSuccess  CheckoutOutcome = "success"
	CheckoutOutcomeRejected CheckoutOutcome = "rejected"
	CheckoutOutcomeError    CheckoutOutcome = "error"
)

// RecordCheckout records a storefront checkout attempt and its outcome.
func (bm *BusinessMetrics) RecordCheckout(ctx context.Context, tenantID, storeID uuid.UUID, outcome CheckoutOutcome) {
	bm.checkoutTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrStoreID.String(storeID.String()),
		AttrCheckoutOutcome.String(string(outcome)),
	)
}

// RecordCouponApplied records a coupon successfully applied at checkout.
func (bm *BusinessMetrics) RecordCouponApplied(ctx context.Context, tenantID, campaignID uuid.UUID) {
	bm.couponAppliedTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrCampaignID.String(campaignID.String()),
	)
}

// =============================================================================
// Messaging Metrics
// =============================================================================

// NotificationStatus labels the outcome of a notification dispatch.
type NotificationStatus string

const (
	NotificationStatusSent   NotificationStatus = "sent"
	NotificationStatusFailed NotificationStatus = "failed"
)

// RecordNotification records an order notification dispatch.
func (bm *BusinessMetrics) RecordNotification(ctx context.Context, tenantID uuid.UUID, channel string, status NotificationStatus) {
	bm.notificationTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrChannel.String(channel),
		AttrNotificationStatus.String(string(status)),
	)
}

// RecordActiveOrders records the size of a store's active order queue.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordActiveOrders(ctx context.Context, tenantID, storeID uuid.UUID, count int64) {
	bm.activeOrdersGauge.Record(ctx, count,
		AttrTenantID.String(tenantID.String()),
		AttrStoreID.String(storeID.String()),
	)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// TenantProvider provides tenant IDs for periodic metrics collection.
type TenantProvider interface {
	GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

// StartPeriodicCollection starts periodic collection of gauge metrics.
// It collects order queue metrics every interval (default: 5 minutes).
// This is non-blocking - use Stop() to stop collection.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, tenantProvider TenantProvider, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go bm.runPeriodicCollection(ctx, tenantProvider, interval)
	})
}

// runPeriodicCollection runs the periodic collection loop.
func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, tenantProvider TenantProvider, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	bm.collectOrderMetrics(ctx, tenantProvider)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectOrderMetrics(ctx, tenantProvider)
		}
	}
}

// collectOrderMetrics collects order gauge metrics for all tenants.
func (bm *BusinessMetrics) collectOrderMetrics(ctx context.Context, tenantProvider TenantProvider) {
	if bm.orderProvider == nil {
		bm.logger.Debug("No order provider configured, skipping order metrics collection")
		return
	}

	tenantIDs, err := tenantProvider.GetActiveTenantIDs(ctx)
	if err != nil {
		bm.logger.Error("Failed to get tenant IDs for metrics collection", zap.Error(err))
		return
	}

	for _, tenantID := range tenantIDs {
		bm.collectTenantOrderMetrics(ctx, tenantID)
	}
}

// collectTenantOrderMetrics collects order metrics for a single tenant.
func (bm *BusinessMetrics) collectTenantOrderMetrics(ctx context.Context, tenantID uuid.UUID) {
	activeByStore, err := bm.orderProvider.GetActiveOrderCountByStore(ctx, tenantID)
	if err != nil {
		bm.logger.Warn("Failed to get active order counts for tenant",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
		return
	}

	for storeID, count := range activeByStore {
		bm.RecordActiveOrders(ctx, tenantID, storeID, count)
	}
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
