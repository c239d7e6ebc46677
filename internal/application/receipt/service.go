package receipt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/order"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/store"
)

// defaultURLExpiry is how long a generated receipt link stays valid.
const defaultURLExpiry = 1 * time.Hour

// PDFRenderer turns a standalone HTML document into PDF bytes.
// Implemented by the infrastructure layer (headless Chrome).
type PDFRenderer interface {
	Render(ctx context.Context, html string) ([]byte, error)
}

// ObjectStorage defines the storage operations the receipt flow needs.
type ObjectStorage interface {
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// Service renders order receipts to PDF and hands out presigned links.
// Rendered PDFs are keyed by the order's update time, so a status change
// produces a fresh receipt while repeat requests reuse the stored one.
type Service struct {
	orderRepo order.OrderRepository
	storeRepo store.StoreRepository
	renderer  PDFRenderer
	storage   ObjectStorage
	urlExpiry time.Duration
	logger    *zap.Logger
}

// NewService creates a new receipt service
func NewService(
	orderRepo order.OrderRepository,
	storeRepo store.StoreRepository,
	renderer PDFRenderer,
	storage ObjectStorage,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		orderRepo: orderRepo,
		storeRepo: storeRepo,
		renderer:  renderer,
		storage:   storage,
		urlExpiry: defaultURLExpiry,
		logger:    logger,
	}
}

// SetURLExpiry overrides the presigned link lifetime
func (s *Service) SetURLExpiry(d time.Duration) {
	if d > 0 {
		s.urlExpiry = d
	}
}

// ReceiptURL returns a presigned link to the order's receipt PDF,
// rendering and storing it first when no current copy exists.
func (s *Service) ReceiptURL(ctx context.Context, tenantID, orderID uuid.UUID, kind ReceiptKind) (*ReceiptLinkDTO, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_RECEIPT_KIND", "Unknown receipt kind")
	}

	ord, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
		}
		return nil, fmt.Errorf("find order: %w", err)
	}

	st, err := s.storeRepo.FindByIDForTenant(ctx, tenantID, ord.StoreID)
	if err != nil {
		return nil, fmt.Errorf("find store: %w", err)
	}

	key := s.storageKey(ord, kind)
	exists, err := s.storage.ObjectExists(ctx, key)
	if err != nil {
		s.logger.Warn("receipt existence check failed, re-rendering",
			zap.String("key", key), zap.Error(err))
		exists = false
	}

	if !exists {
		if err := s.renderAndStore(ctx, ord, st, kind, key); err != nil {
			return nil, err
		}
	}

	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, key, s.urlExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign receipt: %w", err)
	}

	return &ReceiptLinkDTO{
		OrderID:   ord.ID,
		Kind:      kind,
		URL:       url,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *Service) renderAndStore(ctx context.Context, ord *order.Order, st *store.Store, kind ReceiptKind, key string) error {
	html, err := s.buildHTML(ord, st, kind)
	if err != nil {
		return fmt.Errorf("build receipt html: %w", err)
	}

	pdf, err := s.renderer.Render(ctx, html)
	if err != nil {
		return fmt.Errorf("render receipt pdf: %w", err)
	}

	if err := s.storage.Upload(ctx, key, pdf, "application/pdf"); err != nil {
		return fmt.Errorf("store receipt pdf: %w", err)
	}

	s.logger.Info("receipt rendered",
		zap.String("order_id", ord.ID.String()),
		zap.String("kind", string(kind)),
		zap.Int("bytes", len(pdf)))

	return nil
}

func (s *Service) buildHTML(ord *order.Order, st *store.Store, kind ReceiptKind) (string, error) {
	placedAt := ord.CreatedAt
	if loc, err := time.LoadLocation(st.Timezone); err == nil {
		placedAt = placedAt.In(loc)
	}

	data := receiptData{
		Kind:          kind,
		StoreName:     st.Name,
		StorePhone:    st.Phone,
		StoreAddress:  st.Address.OneLine(),
		Number:        ord.NumberFormatted(),
		PlacedAt:      placedAt,
		Status:        string(ord.Status),
		Fulfillment:   string(ord.Fulfillment),
		CustomerName:  ord.CustomerName,
		CustomerPhone: ord.CustomerPhone,
		PaymentMethod: string(ord.PaymentMethod),
		ChangeFor:     ord.ChangeFor,
		ChangeDue:     ord.ChangeDue().Amount(),
		Subtotal:      ord.Subtotal,
		DeliveryFee:   ord.DeliveryFee,
		Discount:      ord.Discount,
		Total:         ord.Total,
		CouponCode:    ord.CouponCode,
		Note:          ord.Note,
		CancelReason:  ord.CancelReason,
	}
	if ord.Fulfillment == order.FulfillmentDelivery {
		data.DeliveryAddress = ord.DeliveryAddress.OneLine()
	}

	for i := range ord.Items {
		item := &ord.Items[i]
		ri := receiptItem{
			Quantity:  item.Quantity,
			Name:      item.ProductName,
			Note:      item.Note,
			LineTotal: item.LineTotal,
		}
		additionals, err := item.GetAdditionals()
		if err != nil {
			return "", fmt.Errorf("decode item additionals: %w", err)
		}
		for _, add := range additionals {
			ri.Additionals = append(ri.Additionals, add.Name)
		}
		data.Items = append(data.Items, ri)
	}

	var buf bytes.Buffer
	if err := receiptTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// storageKey embeds the order's update time so stale copies are never
// served after a status change.
func (s *Service) storageKey(ord *order.Order, kind ReceiptKind) string {
	return fmt.Sprintf("receipts/%s/%s-%s-%s.pdf",
		ord.TenantID, ord.ID, kind, ord.UpdatedAt.UTC().Format("20060102T150405"))
}
