package campaign

import (
	"strings"
	"testing"
	"time"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func campaignWindow() (time.Time, *time.Time) {
	startsAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	endsAt := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	return startsAt, &endsAt
}

func TestNewCampaign(t *testing.T) {
	tenantID := uuid.New()
	startsAt, endsAt := campaignWindow()

	t.Run("creates percentage campaign in draft", func(t *testing.T) {
		campaign, err := NewCampaign(tenantID, "Semana da Pizza", DiscountPercentage, decimal.NewFromInt(10), startsAt, endsAt)
		require.NoError(t, err)
		require.NotNil(t, campaign)

		assert.Equal(t, tenantID, campaign.TenantID)
		assert.Equal(t, "Semana da Pizza", campaign.Name)
		assert.Equal(t, CampaignStatusDraft, campaign.Status)
		assert.Equal(t, DiscountPercentage, campaign.DiscountKind)
		assert.True(t, campaign.DiscountValue.Equal(decimal.NewFromInt(10)))
		assert.False(t, campaign.HasCoupon())

		events := campaign.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeCampaignCreated, events[0].EventType())
	})

	t.Run("creates open ended campaign", func(t *testing.T) {
		campaign, err := NewCampaign(tenantID, "Frete Grátis", DiscountFreeShipping, decimal.Zero, startsAt, nil)
		require.NoError(t, err)
		assert.Nil(t, campaign.EndsAt)
	})

	t.Run("free shipping ignores the discount value", func(t *testing.T) {
		campaign, err := NewCampaign(tenantID, "Frete Grátis", DiscountFreeShipping, decimal.NewFromInt(99), startsAt, endsAt)
		require.NoError(t, err)
		assert.True(t, campaign.DiscountValue.IsZero())
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewCampaign(tenantID, " ", DiscountPercentage, decimal.NewFromInt(10), startsAt, endsAt)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name cannot be empty")
	})

	t.Run("fails with name too long", func(t *testing.T) {
		_, err := NewCampaign(tenantID, strings.Repeat("a", 121), DiscountPercentage, decimal.NewFromInt(10), startsAt, endsAt)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed 120 characters")
	})

	t.Run("fails with unknown discount kind", func(t *testing.T) {
		_, err := NewCampaign(tenantID, "Promo", DiscountKind("bogof"), decimal.NewFromInt(10), startsAt, endsAt)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid discount kind")
	})

	t.Run("fails with percentage above 100", func(t *testing.T) {
		_, err := NewCampaign(tenantID, "Promo", DiscountPercentage, decimal.NewFromInt(101), startsAt, endsAt)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "between 0 and 100")
	})

	t.Run("fails with zero percentage", func(t *testing.T) {
		_, err := NewCampaign(tenantID, "Promo", DiscountPercentage, decimal.Zero, startsAt, endsAt)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "between 0 and 100")
	})

	t.Run("fails with zero fixed discount", func(t *testing.T) {
		_, err := NewCampaign(tenantID, "Promo", DiscountFixedAmount, decimal.Zero, startsAt, endsAt)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "greater than zero")
	})

	t.Run("fails when end precedes start", func(t *testing.T) {
		badEnd := startsAt.Add(-time.Hour)
		_, err := NewCampaign(tenantID, "Promo", DiscountPercentage, decimal.NewFromInt(10), startsAt, &badEnd)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "end must be after its start")
	})

	t.Run("fails with zero start", func(t *testing.T) {
		_, err := NewCampaign(tenantID, "Promo", DiscountPercentage, decimal.NewFromInt(10), time.Time{}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "start is required")
	})
}

func TestCampaignCoupon(t *testing.T) {
	tenantID := uuid.New()
	startsAt, endsAt := campaignWindow()
	campaign, err := NewCampaign(tenantID, "Promo", DiscountPercentage, decimal.NewFromInt(10), startsAt, endsAt)
	require.NoError(t, err)

	t.Run("normalizes coupon to uppercase", func(t *testing.T) {
		err := campaign.SetCouponCode("  pizza10 ")
		require.NoError(t, err)
		assert.Equal(t, "PIZZA10", campaign.CouponCode)
		assert.True(t, campaign.HasCoupon())
	})

	t.Run("matches coupon case-insensitively", func(t *testing.T) {
		assert.True(t, campaign.MatchesCoupon("pizza10"))
		assert.True(t, campaign.MatchesCoupon(" PIZZA10 "))
		assert.False(t, campaign.MatchesCoupon("PIZZA20"))
	})

	t.Run("clearing the coupon makes the campaign automatic", func(t *testing.T) {
		require.NoError(t, campaign.SetCouponCode(""))
		assert.False(t, campaign.HasCoupon())
		assert.False(t, campaign.MatchesCoupon(""))
	})

	t.Run("rejects malformed codes", func(t *testing.T) {
		for _, code := range []string{"AB", "-PIZZA", "PIZZA 10", "PROMOÇÃO", strings.Repeat("A", 31)} {
			err := campaign.SetCouponCode(code)
			require.Error(t, err, "code %q should be rejected", code)
			assert.Contains(t, err.Error(), "3-30 characters")
		}
	})
}

func TestCampaignStatusTransitions(t *testing.T) {
	tenantID := uuid.New()
	startsAt, endsAt := campaignWindow()

	newCampaign := func(t *testing.T) *Campaign {
		campaign, err := NewCampaign(tenantID, "Promo", DiscountPercentage, decimal.NewFromInt(10), startsAt, endsAt)
		require.NoError(t, err)
		campaign.ClearDomainEvents()
		return campaign
	}

	t.Run("activates draft campaign", func(t *testing.T) {
		campaign, err := NewCampaign(tenantID, "Promo", DiscountPercentage, decimal.NewFromInt(10), startsAt, nil)
		require.NoError(t, err)
		campaign.ClearDomainEvents()

		err = campaign.Activate()
		require.NoError(t, err)
		assert.Equal(t, CampaignStatusActive, campaign.Status)

		events := campaign.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeCampaignStatusChanged, events[0].EventType())
	})

	t.Run("fails to activate twice", func(t *testing.T) {
		campaign, err := NewCampaign(tenantID, "Promo", DiscountPercentage, decimal.NewFromInt(10), startsAt, nil)
		require.NoError(t, err)
		require.NoError(t, campaign.Activate())

		err = campaign.Activate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already active")
	})

	t.Run("fails to activate past the end", func(t *testing.T) {
		campaign := newCampaign(t)

		err := campaign.Activate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "past its end")
	})

	t.Run("pauses and resumes an active campaign", func(t *testing.T) {
		campaign, err := NewCampaign(tenantID, "Promo", DiscountPercentage, decimal.NewFromInt(10), startsAt, nil)
		require.NoError(t, err)
		require.NoError(t, campaign.Activate())

		require.NoError(t, campaign.Pause())
		assert.Equal(t, CampaignStatusPaused, campaign.Status)

		require.NoError(t, campaign.Activate())
		assert.Equal(t, CampaignStatusActive, campaign.Status)
	})

	t.Run("fails to pause a draft campaign", func(t *testing.T) {
		campaign := newCampaign(t)

		err := campaign.Pause()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Only active campaigns can be paused")
	})

	t.Run("marks campaign expired", func(t *testing.T) {
		campaign := newCampaign(t)

		require.NoError(t, campaign.MarkExpired())
		assert.Equal(t, CampaignStatusExpired, campaign.Status)

		err := campaign.Activate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expired campaign")

		err = campaign.MarkExpired()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already expired")
	})
}

func TestCampaignIsRunningAt(t *testing.T) {
	tenantID := uuid.New()
	startsAt, endsAt := campaignWindow()
	campaign, err := NewCampaign(tenantID, "Promo", DiscountPercentage, decimal.NewFromInt(10), startsAt, endsAt)
	require.NoError(t, err)
	campaign.Status = CampaignStatusActive

	t.Run("runs inside the window", func(t *testing.T) {
		assert.True(t, campaign.IsRunningAt(time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)))
		assert.True(t, campaign.IsRunningAt(startsAt))
	})

	t.Run("does not run before the start", func(t *testing.T) {
		assert.False(t, campaign.IsRunningAt(startsAt.Add(-time.Second)))
	})

	t.Run("does not run at or after the end", func(t *testing.T) {
		assert.False(t, campaign.IsRunningAt(*endsAt))
		assert.True(t, campaign.IsPastWindow(*endsAt))
	})

	t.Run("does not run while paused", func(t *testing.T) {
		campaign.Status = CampaignStatusPaused
		defer func() { campaign.Status = CampaignStatusActive }()
		assert.False(t, campaign.IsRunningAt(time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)))
	})
}

func TestCampaignDiscountFor(t *testing.T) {
	tenantID := uuid.New()
	startsAt, endsAt := campaignWindow()
	subtotal := valueobject.NewMoneyBRLFromFloat(50.00)
	deliveryFee := valueobject.NewMoneyBRLFromFloat(8.00)

	t.Run("percentage discounts the subtotal", func(t *testing.T) {
		campaign, err := NewCampaign(tenantID, "Promo", DiscountPercentage, decimal.NewFromInt(10), startsAt, endsAt)
		require.NoError(t, err)

		discount := campaign.DiscountFor(subtotal, deliveryFee)
		assert.True(t, discount.Amount().Equal(decimal.NewFromFloat(5.00)), "got %s", discount)
	})

	t.Run("percentage rounds to cents", func(t *testing.T) {
		campaign, err := NewCampaign(tenantID, "Promo", DiscountPercentage, decimal.NewFromInt(15), startsAt, endsAt)
		require.NoError(t, err)

		discount := campaign.DiscountFor(valueobject.NewMoneyBRLFromFloat(33.33), deliveryFee)
		assert.True(t, discount.Amount().Equal(decimal.NewFromFloat(5.00)), "got %s", discount)
	})

	t.Run("fixed discount below subtotal applies in full", func(t *testing.T) {
		campaign, err := NewCampaign(tenantID, "Promo", DiscountFixedAmount, decimal.NewFromInt(15), startsAt, endsAt)
		require.NoError(t, err)

		discount := campaign.DiscountFor(subtotal, deliveryFee)
		assert.True(t, discount.Amount().Equal(decimal.NewFromInt(15)))
	})

	t.Run("fixed discount is clamped to the subtotal", func(t *testing.T) {
		campaign, err := NewCampaign(tenantID, "Promo", DiscountFixedAmount, decimal.NewFromInt(80), startsAt, endsAt)
		require.NoError(t, err)

		discount := campaign.DiscountFor(subtotal, deliveryFee)
		assert.True(t, discount.Amount().Equal(decimal.NewFromFloat(50.00)))
	})

	t.Run("free shipping discounts the delivery fee", func(t *testing.T) {
		campaign, err := NewCampaign(tenantID, "Frete Grátis", DiscountFreeShipping, decimal.Zero, startsAt, endsAt)
		require.NoError(t, err)

		discount := campaign.DiscountFor(subtotal, deliveryFee)
		assert.True(t, discount.Amount().Equal(decimal.NewFromFloat(8.00)))
	})
}

func TestCampaignCheckConditions(t *testing.T) {
	tenantID := uuid.New()
	startsAt, endsAt := campaignWindow()
	// 2026-01-05 is a Monday
	monday := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)

	newCampaign := func(t *testing.T, config string) *Campaign {
		campaign, err := NewCampaign(tenantID, "Promo", DiscountPercentage, decimal.NewFromInt(10), startsAt, endsAt)
		require.NoError(t, err)
		if config != "" {
			require.NoError(t, campaign.SetRuleConfig([]byte(config)))
		}
		return campaign
	}

	baseFacts := func() OrderFacts {
		return OrderFacts{
			Subtotal:      valueobject.NewMoneyBRLFromFloat(50.00),
			PaymentMethod: "pix",
			FirstOrder:    false,
			At:            monday,
		}
	}

	t.Run("no config imposes no conditions", func(t *testing.T) {
		campaign := newCampaign(t, "")
		require.NoError(t, campaign.CheckConditions(baseFacts()))
	})

	t.Run("empty config imposes no conditions", func(t *testing.T) {
		campaign := newCampaign(t, `{}`)
		require.NoError(t, campaign.CheckConditions(baseFacts()))
	})

	t.Run("minimum order amount", func(t *testing.T) {
		campaign := newCampaign(t, `{"min_order_amount": 40}`)
		require.NoError(t, campaign.CheckConditions(baseFacts()))

		facts := baseFacts()
		facts.Subtotal = valueobject.NewMoneyBRLFromFloat(39.99)
		err := campaign.CheckConditions(facts)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not reach the campaign minimum")
	})

	t.Run("first order only", func(t *testing.T) {
		campaign := newCampaign(t, `{"first_order_only": true}`)

		facts := baseFacts()
		facts.FirstOrder = true
		require.NoError(t, campaign.CheckConditions(facts))

		err := campaign.CheckConditions(baseFacts())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "restricted to first orders")
	})

	t.Run("weekdays", func(t *testing.T) {
		campaign := newCampaign(t, `{"weekdays": [1, 2]}`)
		require.NoError(t, campaign.CheckConditions(baseFacts()))

		facts := baseFacts()
		facts.At = monday.AddDate(0, 0, 2)
		err := campaign.CheckConditions(facts)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not run on this day")
	})

	t.Run("payment methods", func(t *testing.T) {
		campaign := newCampaign(t, `{"payment_method": ["pix", "cash"]}`)
		require.NoError(t, campaign.CheckConditions(baseFacts()))

		facts := baseFacts()
		facts.PaymentMethod = "credit_card"
		err := campaign.CheckConditions(facts)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not cover this payment method")
	})

	t.Run("category ids", func(t *testing.T) {
		pizzas := uuid.New()
		drinks := uuid.New()
		campaign := newCampaign(t, `{"category_ids": ["`+pizzas.String()+`"]}`)

		facts := baseFacts()
		facts.CategoryIDs = []uuid.UUID{pizzas, drinks}
		require.NoError(t, campaign.CheckConditions(facts))

		facts.CategoryIDs = []uuid.UUID{drinks}
		err := campaign.CheckConditions(facts)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not cover the selected products")
	})

	t.Run("conditions combine", func(t *testing.T) {
		campaign := newCampaign(t, `{"min_order_amount": 30, "payment_method": ["pix"], "weekdays": [1]}`)
		require.NoError(t, campaign.CheckConditions(baseFacts()))

		facts := baseFacts()
		facts.PaymentMethod = "cash"
		require.Error(t, campaign.CheckConditions(facts))
	})
}
