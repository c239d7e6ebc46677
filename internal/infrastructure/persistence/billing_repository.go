package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/billing"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPlanRepository implements PlanRepository using GORM
type GormPlanRepository struct {
	db *gorm.DB
}

// NewGormPlanRepository creates a new GormPlanRepository
func NewGormPlanRepository(db *gorm.DB) *GormPlanRepository {
	return &GormPlanRepository{db: db}
}

// Save creates or updates a plan by its key
func (r *GormPlanRepository) Save(ctx context.Context, plan *billing.Plan) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "description", "monthly_price", "max_stores", "max_products",
				"max_users", "trial_days", "stripe_price_id", "is_active", "sort_order",
				"updated_at",
			}),
		}).
		Create(plan).Error
}

// FindByKey retrieves a plan by its key
func (r *GormPlanRepository) FindByKey(ctx context.Context, key string) (*billing.Plan, error) {
	var plan billing.Plan
	if err := r.db.WithContext(ctx).First(&plan, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// FindAll retrieves every plan ordered by sort order
func (r *GormPlanRepository) FindAll(ctx context.Context) ([]*billing.Plan, error) {
	var plans []*billing.Plan
	if err := r.db.WithContext(ctx).
		Order("sort_order ASC, key ASC").
		Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

// FindActive retrieves plans open for new subscriptions
func (r *GormPlanRepository) FindActive(ctx context.Context) ([]*billing.Plan, error) {
	var plans []*billing.Plan
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC, key ASC").
		Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

// SeedDefaults inserts the default plan catalog for keys not yet present
func (r *GormPlanRepository) SeedDefaults(ctx context.Context) error {
	defaults := billing.DefaultPlans()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, plan := range defaults {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoNothing: true,
			}).Create(plan).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GormSubscriptionRepository implements SubscriptionRepository using GORM
type GormSubscriptionRepository struct {
	db *gorm.DB
}

// NewGormSubscriptionRepository creates a new GormSubscriptionRepository
func NewGormSubscriptionRepository(db *gorm.DB) *GormSubscriptionRepository {
	return &GormSubscriptionRepository{db: db}
}

// Create persists a new subscription
func (r *GormSubscriptionRepository) Create(ctx context.Context, sub *billing.Subscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

// Update persists changes to an existing subscription
func (r *GormSubscriptionRepository) Update(ctx context.Context, sub *billing.Subscription) error {
	result := r.db.WithContext(ctx).Save(sub)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID retrieves a subscription by its ID
func (r *GormSubscriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Subscription, error) {
	var sub billing.Subscription
	if err := r.db.WithContext(ctx).First(&sub, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// FindByTenant retrieves the current subscription of a tenant,
// ignoring canceled ones
func (r *GormSubscriptionRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) (*billing.Subscription, error) {
	var sub billing.Subscription
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status <> ?", tenantID, billing.SubscriptionCanceled).
		Order("created_at DESC").
		First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// FindByStripeSubscriptionID retrieves a subscription by its Stripe
// subscription ID
func (r *GormSubscriptionRepository) FindByStripeSubscriptionID(ctx context.Context, stripeID string) (*billing.Subscription, error) {
	var sub billing.Subscription
	if err := r.db.WithContext(ctx).
		First(&sub, "stripe_subscription_id = ?", stripeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// FindByStripeCustomerID retrieves a subscription by its Stripe
// customer ID
func (r *GormSubscriptionRepository) FindByStripeCustomerID(ctx context.Context, customerID string) (*billing.Subscription, error) {
	var sub billing.Subscription
	if err := r.db.WithContext(ctx).
		Where("stripe_customer_id = ?", customerID).
		Order("created_at DESC").
		First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// FindTrialsEndingBefore retrieves trialing subscriptions whose trial
// ends before the given time
func (r *GormSubscriptionRepository) FindTrialsEndingBefore(ctx context.Context, deadline time.Time) ([]*billing.Subscription, error) {
	var subs []*billing.Subscription
	if err := r.db.WithContext(ctx).
		Where("status = ? AND trial_ends_at IS NOT NULL AND trial_ends_at < ?", billing.SubscriptionTrialing, deadline).
		Order("trial_ends_at ASC").
		Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// CountByStatus counts subscriptions per status
func (r *GormSubscriptionRepository) CountByStatus(ctx context.Context, status billing.SubscriptionStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&billing.Subscription{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
