package messaging

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/messaging"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/order"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// statusLabels maps order statuses to the labels rendered into
// customer-facing messages
var statusLabels = map[order.OrderStatus]string{
	order.OrderStatusPending:        "aguardando confirmação",
	order.OrderStatusConfirmed:      "confirmado",
	order.OrderStatusPreparing:      "em preparo",
	order.OrderStatusOutForDelivery: "saiu para entrega",
	order.OrderStatusReadyForPickup: "pronto para retirada",
	order.OrderStatusDelivered:      "entregue",
	order.OrderStatusCancelled:      "cancelado",
}

// NotificationDispatcher turns order events into channel messages. It
// subscribes to the event bus and fans each event out to the tenant's
// enabled channels. Send failures are logged and never retried; a
// missed notification must not block the order flow or another channel.
type NotificationDispatcher struct {
	configRepo messaging.ChannelConfigRepository
	storeRepo  store.StoreRepository
	notifiers  map[messaging.Channel]messaging.Notifier
	logger     *zap.Logger
}

// NewNotificationDispatcher creates a new notification dispatcher
func NewNotificationDispatcher(
	configRepo messaging.ChannelConfigRepository,
	storeRepo store.StoreRepository,
	notifiers []messaging.Notifier,
	logger *zap.Logger,
) *NotificationDispatcher {
	return &NotificationDispatcher{
		configRepo: configRepo,
		storeRepo:  storeRepo,
		notifiers:  notifierIndex(notifiers),
		logger:     logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (d *NotificationDispatcher) EventTypes() []string {
	return []string{
		order.EventTypeOrderPlaced,
		order.EventTypeOrderConfirmed,
		order.EventTypeOrderStatusChanged,
		order.EventTypeOrderDelivered,
		order.EventTypeOrderCancelled,
	}
}

// Handle dispatches one order event to the tenant's enabled channels
func (d *NotificationDispatcher) Handle(ctx context.Context, event shared.DomainEvent) error {
	notification, ok := d.buildNotification(event)
	if !ok {
		return nil
	}

	configs, err := d.configRepo.FindEnabledByTenant(ctx, event.TenantID())
	if err != nil {
		return fmt.Errorf("load channel configs: %w", err)
	}
	if len(configs) == 0 {
		return nil
	}

	notification.data.StoreName = d.storeName(ctx, event.TenantID(), notification.storeID)

	for _, config := range configs {
		if !config.ShouldNotify(notification.event) {
			continue
		}

		notifier, ok := d.notifiers[config.Channel]
		if !ok {
			d.logger.Warn("No notifier for enabled channel",
				zap.String("tenant_id", event.TenantID().String()),
				zap.String("channel", config.Channel.String()))
			continue
		}

		message, err := renderTemplate(config.Template(notification.event), notification.data)
		if err != nil {
			d.logger.Error("Failed to render notification template",
				zap.String("tenant_id", event.TenantID().String()),
				zap.String("channel", config.Channel.String()),
				zap.String("notify_event", string(notification.event)),
				zap.Error(err))
			continue
		}

		if err := notifier.Send(ctx, config, notification.recipient, message); err != nil {
			d.logger.Error("Failed to send notification",
				zap.String("tenant_id", event.TenantID().String()),
				zap.String("channel", config.Channel.String()),
				zap.String("event_type", event.EventType()),
				zap.Error(err))
			continue
		}

		d.logger.Debug("Notification sent",
			zap.String("tenant_id", event.TenantID().String()),
			zap.String("channel", config.Channel.String()),
			zap.String("event_type", event.EventType()))
	}

	return nil
}

// notification carries everything needed to render and route one message
type notification struct {
	event     messaging.NotifyEvent
	storeID   uuid.UUID
	recipient string
	data      messaging.NotificationData
}

// buildNotification maps an order event to its notify event and template
// data. The recipient is the customer's phone; notifiers that post to a
// fixed merchant destination ignore it.
func (d *NotificationDispatcher) buildNotification(event shared.DomainEvent) (notification, bool) {
	switch e := event.(type) {
	case *order.OrderPlacedEvent:
		return notification{
			event:     messaging.NotifyOrderPlaced,
			storeID:   e.StoreID,
			recipient: e.CustomerPhone,
			data: messaging.NotificationData{
				Number:       formatNumber(e.Number),
				CustomerName: e.CustomerName,
				Total:        e.Total.StringFixed(2),
				Status:       string(order.OrderStatusPending),
				StatusLabel:  statusLabels[order.OrderStatusPending],
			},
		}, true

	case *order.OrderConfirmedEvent:
		return notification{
			event:     messaging.NotifyOrderStatusChanged,
			storeID:   e.StoreID,
			recipient: e.CustomerPhone,
			data: messaging.NotificationData{
				Number:      formatNumber(e.Number),
				Total:       e.Total.StringFixed(2),
				Status:      string(order.OrderStatusConfirmed),
				StatusLabel: statusLabels[order.OrderStatusConfirmed],
			},
		}, true

	case *order.OrderStatusChangedEvent:
		return notification{
			event:     messaging.NotifyOrderStatusChanged,
			storeID:   e.StoreID,
			recipient: e.CustomerPhone,
			data: messaging.NotificationData{
				Number:      formatNumber(e.Number),
				Status:      string(e.NewStatus),
				StatusLabel: statusLabels[e.NewStatus],
			},
		}, true

	case *order.OrderDeliveredEvent:
		return notification{
			event:     messaging.NotifyOrderStatusChanged,
			storeID:   e.StoreID,
			recipient: e.CustomerPhone,
			data: messaging.NotificationData{
				Number:      formatNumber(e.Number),
				Total:       e.Total.StringFixed(2),
				Status:      string(order.OrderStatusDelivered),
				StatusLabel: statusLabels[order.OrderStatusDelivered],
			},
		}, true

	case *order.OrderCancelledEvent:
		return notification{
			event:     messaging.NotifyOrderStatusChanged,
			storeID:   e.StoreID,
			recipient: e.CustomerPhone,
			data: messaging.NotificationData{
				Number:      formatNumber(e.Number),
				Status:      string(order.OrderStatusCancelled),
				StatusLabel: statusLabels[order.OrderStatusCancelled],
			},
		}, true
	}

	return notification{}, false
}

// storeName resolves the store's display name. Lookup failures degrade
// to an empty name rather than dropping the notification.
func (d *NotificationDispatcher) storeName(ctx context.Context, tenantID, storeID uuid.UUID) string {
	st, err := d.storeRepo.FindByIDForTenant(ctx, tenantID, storeID)
	if err != nil {
		d.logger.Debug("Could not resolve store name for notification",
			zap.String("tenant_id", tenantID.String()),
			zap.String("store_id", storeID.String()),
			zap.Error(err))
		return ""
	}
	return st.Name
}

func formatNumber(number int64) string {
	return fmt.Sprintf("#%d", number)
}

func renderTemplate(tmpl string, data messaging.NotificationData) (string, error) {
	parsed, err := template.New("notification").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := parsed.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}

	return buf.String(), nil
}

// Ensure NotificationDispatcher implements EventHandler
var _ shared.EventHandler = (*NotificationDispatcher)(nil)
