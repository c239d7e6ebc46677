package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/order"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// orderCounter is the per-store sequence row behind NextNumber.
// Managed entirely by this repository.
type orderCounter struct {
	TenantID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	StoreID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	LastNumber int64     `gorm:"not null;default:0"`
	UpdatedAt  time.Time
}

// TableName returns the table name for GORM
func (orderCounter) TableName() string {
	return "order_counters"
}

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Create persists a new order with its items
func (r *GormOrderRepository) Create(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

// Update persists changes to an existing order. Items are snapshots
// and never change after placement, so only the order row is written.
func (r *GormOrderRepository) Update(ctx context.Context, o *order.Order) error {
	result := r.db.WithContext(ctx).Omit("Items").Save(o)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID retrieves an order by its ID, items included
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByIDForTenant retrieves an order scoped to a tenant
func (r *GormOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByNumber retrieves an order by its per-store sequential number
func (r *GormOrderRepository) FindByNumber(ctx context.Context, tenantID, storeID uuid.UUID, number int64) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND store_id = ? AND number = ?", tenantID, storeID, number).
		First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindAll retrieves orders for a tenant matching the filter, newest
// first, with the total count
func (r *GormOrderRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter order.OrderFilter) ([]*order.Order, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&order.Order{}).
		Where("tenant_id = ?", tenantID)

	if filter.StoreID != nil {
		query = query.Where("store_id = ?", *filter.StoreID)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		if digits := digitsOnly(keyword); digits != "" && strings.Trim(keyword, "#+()-. 0123456789") == "" {
			query = query.Where("CAST(number AS TEXT) LIKE ? OR customer_phone LIKE ?", digits+"%", digits+"%")
		} else {
			query = query.Where("customer_name ILIKE ?", "%"+keyword+"%")
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []*order.Order
	if err := query.
		Preload("Items").
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// FindActiveByStore retrieves non-terminal orders for the store board,
// oldest first
func (r *GormOrderRepository) FindActiveByStore(ctx context.Context, tenantID, storeID uuid.UUID) ([]*order.Order, error) {
	var orders []*order.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND store_id = ?", tenantID, storeID).
		Where("status NOT IN ?", []order.OrderStatus{order.OrderStatusDelivered, order.OrderStatusCancelled}).
		Order("created_at ASC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// NextNumber reserves the next sequential order number for a store.
// The counter row is locked FOR UPDATE so concurrent placements never
// share a number.
func (r *GormOrderRepository) NextNumber(ctx context.Context, tenantID, storeID uuid.UUID) (int64, error) {
	var next int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&orderCounter{TenantID: tenantID, StoreID: storeID}).Error; err != nil {
			return err
		}

		var counter orderCounter
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("tenant_id = ? AND store_id = ?", tenantID, storeID).
			First(&counter).Error; err != nil {
			return err
		}

		next = counter.LastNumber + 1
		return tx.Model(&orderCounter{}).
			Where("tenant_id = ? AND store_id = ?", tenantID, storeID).
			Updates(map[string]interface{}{
				"last_number": next,
				"updated_at":  time.Now(),
			}).Error
	})
	if err != nil {
		return 0, err
	}
	return next, nil
}

// Summary aggregates count, revenue, average ticket and per-status
// counts for the period. Revenue counts delivered orders only.
func (r *GormOrderRepository) Summary(ctx context.Context, tenantID uuid.UUID, storeID *uuid.UUID, from, to time.Time) (*order.OrderSummary, error) {
	base := r.db.WithContext(ctx).
		Model(&order.Order{}).
		Where("tenant_id = ?", tenantID).
		Where("created_at >= ? AND created_at <= ?", from, to)
	if storeID != nil {
		base = base.Where("store_id = ?", *storeID)
	}

	type statusRow struct {
		Status order.OrderStatus
		Count  int64
	}
	var rows []statusRow
	if err := base.Session(&gorm.Session{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	summary := &order.OrderSummary{
		Revenue:       decimal.Zero,
		AverageTicket: decimal.Zero,
		ByStatus:      make(map[order.OrderStatus]int64, len(rows)),
	}
	for _, row := range rows {
		summary.ByStatus[row.Status] = row.Count
		summary.OrderCount += row.Count
	}

	type revenueRow struct {
		Revenue decimal.Decimal
		Count   int64
	}
	var rev revenueRow
	if err := base.Session(&gorm.Session{}).
		Where("status = ?", order.OrderStatusDelivered).
		Select("COALESCE(SUM(total), 0) AS revenue, COUNT(*) AS count").
		Scan(&rev).Error; err != nil {
		return nil, err
	}
	summary.Revenue = rev.Revenue
	if rev.Count > 0 {
		summary.AverageTicket = rev.Revenue.DivRound(decimal.NewFromInt(rev.Count), 2)
	}
	return summary, nil
}

// CountByCustomer counts orders placed by a customer
func (r *GormOrderRepository) CountByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&order.Order{}).
		Where("tenant_id = ? AND customer_id = ?", tenantID, customerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
