package campaign

import (
	"regexp"
	"strings"
	"time"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// couponCodeRegex validates coupon codes: uppercase letters, digits and
// hyphens, 3 to 30 characters, starting with a letter or digit
var couponCodeRegex = regexp.MustCompile(`^[A-Z0-9][A-Z0-9-]{2,29}$`)

// CampaignStatus represents the status of a campaign
type CampaignStatus string

const (
	CampaignStatusDraft   CampaignStatus = "draft"
	CampaignStatusActive  CampaignStatus = "active"
	CampaignStatusPaused  CampaignStatus = "paused"
	CampaignStatusExpired CampaignStatus = "expired"
)

// DiscountKind represents how a campaign discounts an order
type DiscountKind string

const (
	DiscountPercentage   DiscountKind = "percentage"
	DiscountFixedAmount  DiscountKind = "fixed_amount"
	DiscountFreeShipping DiscountKind = "free_shipping"
)

// IsValid checks if the discount kind is valid
func (k DiscountKind) IsValid() bool {
	switch k {
	case DiscountPercentage, DiscountFixedAmount, DiscountFreeShipping:
		return true
	}
	return false
}

// Campaign is a promotion a tenant runs on its storefront. A campaign
// either applies automatically or is unlocked by a coupon code, discounts
// an order by percentage, fixed amount or free shipping, and is limited
// to its active window plus the conditions in RuleConfig.
type Campaign struct {
	shared.TenantAggregateRoot
	Name          string          `gorm:"type:varchar(120);not null"`
	Description   string          `gorm:"type:varchar(500)"`
	BannerURL     string          `gorm:"type:varchar(500)"`
	Status        CampaignStatus  `gorm:"type:varchar(20);not null;default:'draft'"`
	DiscountKind  DiscountKind    `gorm:"type:varchar(20);not null"`
	DiscountValue decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	CouponCode    string          `gorm:"type:varchar(30);index"` // Empty means the campaign applies automatically
	StartsAt      time.Time       `gorm:"not null"`
	EndsAt        *time.Time
	RuleConfig    datatypes.JSON  `gorm:"type:jsonb"`

	rules *RuleConfig `gorm:"-"` // Decoded RuleConfig cache
}

// TableName returns the table name for GORM
func (Campaign) TableName() string {
	return "campaigns"
}

// NewCampaign creates a new campaign in draft status
func NewCampaign(
	tenantID uuid.UUID,
	name string,
	kind DiscountKind,
	value decimal.Decimal,
	startsAt time.Time,
	endsAt *time.Time,
) (*Campaign, error) {
	if err := validateCampaignName(name); err != nil {
		return nil, err
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT_KIND", "Invalid discount kind")
	}
	normalized, err := normalizeDiscountValue(kind, value)
	if err != nil {
		return nil, err
	}
	if err := validateWindow(startsAt, endsAt); err != nil {
		return nil, err
	}

	campaign := &Campaign{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                strings.TrimSpace(name),
		Status:              CampaignStatusDraft,
		DiscountKind:        kind,
		DiscountValue:       normalized,
		StartsAt:            startsAt,
		EndsAt:              endsAt,
	}

	campaign.AddDomainEvent(NewCampaignCreatedEvent(campaign))

	return campaign, nil
}

// Update updates the campaign's presentation fields
func (c *Campaign) Update(name, description string) error {
	if err := validateCampaignName(name); err != nil {
		return err
	}
	if len(description) > 500 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 500 characters")
	}

	c.Name = strings.TrimSpace(name)
	c.Description = strings.TrimSpace(description)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCampaignUpdatedEvent(c))

	return nil
}

// SetDiscount changes the discount kind and value
func (c *Campaign) SetDiscount(kind DiscountKind, value decimal.Decimal) error {
	if !kind.IsValid() {
		return shared.NewDomainError("INVALID_DISCOUNT_KIND", "Invalid discount kind")
	}
	normalized, err := normalizeDiscountValue(kind, value)
	if err != nil {
		return err
	}

	c.DiscountKind = kind
	c.DiscountValue = normalized
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCampaignUpdatedEvent(c))

	return nil
}

// SetWindow changes the active window
func (c *Campaign) SetWindow(startsAt time.Time, endsAt *time.Time) error {
	if err := validateWindow(startsAt, endsAt); err != nil {
		return err
	}

	c.StartsAt = startsAt
	c.EndsAt = endsAt
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCampaignUpdatedEvent(c))

	return nil
}

// SetBannerURL sets the storefront banner image
func (c *Campaign) SetBannerURL(url string) error {
	if url != "" && len(url) > 500 {
		return shared.NewDomainError("INVALID_URL", "Banner URL cannot exceed 500 characters")
	}

	c.BannerURL = url
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetCouponCode sets the coupon that unlocks the campaign. Codes are
// normalized to uppercase; an empty code makes the campaign automatic.
// Uniqueness per tenant is enforced by the repository.
func (c *Campaign) SetCouponCode(code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code != "" && !couponCodeRegex.MatchString(code) {
		return shared.NewDomainError("INVALID_COUPON_CODE", "Coupon code must be 3-30 characters of letters, numbers and hyphens")
	}

	c.CouponCode = code
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// HasCoupon returns true if the campaign requires a coupon code
func (c *Campaign) HasCoupon() bool {
	return c.CouponCode != ""
}

// MatchesCoupon checks a buyer-typed code against the campaign's coupon
func (c *Campaign) MatchesCoupon(code string) bool {
	if !c.HasCoupon() {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(code), c.CouponCode)
}

// SetRuleConfig replaces the campaign's conditions. The raw JSON is
// validated against the closed rule schema; nil or empty clears it.
func (c *Campaign) SetRuleConfig(raw []byte) error {
	if len(raw) == 0 {
		c.RuleConfig = nil
		c.rules = nil
		c.UpdatedAt = time.Now()
		c.IncrementVersion()
		return nil
	}

	rules, err := ParseRuleConfig(raw)
	if err != nil {
		return err
	}

	c.RuleConfig = datatypes.JSON(raw)
	c.rules = rules
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCampaignUpdatedEvent(c))

	return nil
}

// GetRuleConfig returns the decoded conditions, nil when none are set
func (c *Campaign) GetRuleConfig() (*RuleConfig, error) {
	if c.rules != nil {
		return c.rules, nil
	}
	if len(c.RuleConfig) == 0 {
		return nil, nil
	}

	rules, err := ParseRuleConfig([]byte(c.RuleConfig))
	if err != nil {
		return nil, err
	}
	c.rules = rules
	return rules, nil
}

// Activate puts the campaign live
func (c *Campaign) Activate() error {
	if c.Status == CampaignStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Campaign is already active")
	}
	if c.Status == CampaignStatusExpired {
		return shared.NewDomainError("CAMPAIGN_EXPIRED", "Cannot activate an expired campaign")
	}
	if c.EndsAt != nil && time.Now().After(*c.EndsAt) {
		return shared.NewDomainError("CAMPAIGN_EXPIRED", "Cannot activate a campaign past its end")
	}

	oldStatus := c.Status
	c.Status = CampaignStatusActive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCampaignStatusChangedEvent(c, oldStatus, CampaignStatusActive))

	return nil
}

// Pause suspends an active campaign
func (c *Campaign) Pause() error {
	if c.Status != CampaignStatusActive {
		return shared.NewDomainError("CAMPAIGN_NOT_ACTIVE", "Only active campaigns can be paused")
	}

	c.Status = CampaignStatusPaused
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCampaignStatusChangedEvent(c, CampaignStatusActive, CampaignStatusPaused))

	return nil
}

// MarkExpired flips the campaign to expired once its window has passed
func (c *Campaign) MarkExpired() error {
	if c.Status == CampaignStatusExpired {
		return shared.NewDomainError("ALREADY_EXPIRED", "Campaign is already expired")
	}

	oldStatus := c.Status
	c.Status = CampaignStatusExpired
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCampaignStatusChangedEvent(c, oldStatus, CampaignStatusExpired))

	return nil
}

// IsRunningAt reports whether the campaign applies at the given instant:
// status active and instant inside the window
func (c *Campaign) IsRunningAt(at time.Time) bool {
	if c.Status != CampaignStatusActive {
		return false
	}
	if at.Before(c.StartsAt) {
		return false
	}
	if c.EndsAt != nil && !at.Before(*c.EndsAt) {
		return false
	}
	return true
}

// IsPastWindow reports whether the window has closed
func (c *Campaign) IsPastWindow(at time.Time) bool {
	return c.EndsAt != nil && !at.Before(*c.EndsAt)
}

// OrderFacts carries the order attributes the campaign conditions check
type OrderFacts struct {
	Subtotal      valueobject.Money
	PaymentMethod string
	CategoryIDs   []uuid.UUID
	FirstOrder    bool
	At            time.Time // Store-local time
}

// CheckConditions verifies the campaign's RuleConfig against an order.
// A nil config means no conditions.
func (c *Campaign) CheckConditions(facts OrderFacts) error {
	rules, err := c.GetRuleConfig()
	if err != nil {
		return err
	}
	if rules == nil {
		return nil
	}

	if rules.MinOrderAmount != nil {
		minimum := valueobject.NewMoneyBRL(*rules.MinOrderAmount)
		ok, err := facts.Subtotal.GreaterThanOrEqual(minimum)
		if err != nil || !ok {
			return shared.NewDomainError("CAMPAIGN_MIN_ORDER", "Order does not reach the campaign minimum")
		}
	}

	if rules.FirstOrderOnly != nil && *rules.FirstOrderOnly && !facts.FirstOrder {
		return shared.NewDomainError("CAMPAIGN_FIRST_ORDER_ONLY", "Campaign is restricted to first orders")
	}

	if len(rules.Weekdays) > 0 {
		weekday := int(facts.At.Weekday())
		found := false
		for _, d := range rules.Weekdays {
			if d == weekday {
				found = true
				break
			}
		}
		if !found {
			return shared.NewDomainError("CAMPAIGN_WEEKDAY", "Campaign does not run on this day")
		}
	}

	if len(rules.PaymentMethods) > 0 {
		found := false
		for _, m := range rules.PaymentMethods {
			if m == facts.PaymentMethod {
				found = true
				break
			}
		}
		if !found {
			return shared.NewDomainError("CAMPAIGN_PAYMENT_METHOD", "Campaign does not cover this payment method")
		}
	}

	if len(rules.CategoryIDs) > 0 {
		allowed := make(map[uuid.UUID]bool, len(rules.CategoryIDs))
		for _, id := range rules.CategoryIDs {
			allowed[id] = true
		}
		found := false
		for _, id := range facts.CategoryIDs {
			if allowed[id] {
				found = true
				break
			}
		}
		if !found {
			return shared.NewDomainError("CAMPAIGN_CATEGORY", "Campaign does not cover the selected products")
		}
	}

	return nil
}

// DiscountFor computes the discount for an order. Fixed discounts are
// clamped to the subtotal and free shipping discounts the delivery fee,
// so the order total never goes negative.
func (c *Campaign) DiscountFor(subtotal, deliveryFee valueobject.Money) valueobject.Money {
	switch c.DiscountKind {
	case DiscountPercentage:
		return subtotal.CalculatePercentage(c.DiscountValue).Round(2)
	case DiscountFixedAmount:
		discount := valueobject.NewMoneyBRL(c.DiscountValue)
		if ok, err := discount.GreaterThan(subtotal); err == nil && ok {
			return subtotal
		}
		return discount
	case DiscountFreeShipping:
		return deliveryFee
	}
	return valueobject.ZeroBRL()
}

// validation functions

func validateCampaignName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Campaign name cannot be empty")
	}
	if len(name) > 120 {
		return shared.NewDomainError("INVALID_NAME", "Campaign name cannot exceed 120 characters")
	}
	return nil
}

func normalizeDiscountValue(kind DiscountKind, value decimal.Decimal) (decimal.Decimal, error) {
	switch kind {
	case DiscountPercentage:
		if !value.IsPositive() || value.GreaterThan(decimal.NewFromInt(100)) {
			return decimal.Zero, shared.NewDomainError("INVALID_DISCOUNT_VALUE", "Percentage discount must be between 0 and 100")
		}
		return value, nil
	case DiscountFixedAmount:
		if !value.IsPositive() {
			return decimal.Zero, shared.NewDomainError("INVALID_DISCOUNT_VALUE", "Fixed discount must be greater than zero")
		}
		return value, nil
	case DiscountFreeShipping:
		return decimal.Zero, nil
	}
	return decimal.Zero, shared.NewDomainError("INVALID_DISCOUNT_KIND", "Invalid discount kind")
}

func validateWindow(startsAt time.Time, endsAt *time.Time) error {
	if startsAt.IsZero() {
		return shared.NewDomainError("INVALID_WINDOW", "Campaign start is required")
	}
	if endsAt != nil && !endsAt.After(startsAt) {
		return shared.NewDomainError("INVALID_WINDOW", "Campaign end must be after its start")
	}
	return nil
}
