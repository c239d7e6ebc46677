package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with amount and currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(49.90), BRL)
		require.NoError(t, err)
		assert.Equal(t, BRL, m.Currency())
		assert.Equal(t, "49.90", m.StringFixed(2))
	})

	t.Run("rejects empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(10), "")
		require.Error(t, err)
	})

	t.Run("BRL helpers default the currency", func(t *testing.T) {
		assert.Equal(t, BRL, NewMoneyBRLFromFloat(10).Currency())
		assert.Equal(t, BRL, ZeroBRL().Currency())

		m, err := NewMoneyBRLFromString("12.34")
		require.NoError(t, err)
		assert.Equal(t, "12.34", m.StringFixed(2))
	})

	t.Run("creates from centavos", func(t *testing.T) {
		m := NewMoneyBRLFromCents(1990)
		assert.Equal(t, "19.90", m.StringFixed(2))
		assert.Equal(t, int64(1990), m.Cents())
	})
}

func TestMoneyArithmetic(t *testing.T) {
	a := NewMoneyBRLFromFloat(30.00)
	b := NewMoneyBRLFromFloat(12.50)

	t.Run("add", func(t *testing.T) {
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.Equal(t, "42.50", sum.StringFixed(2))
	})

	t.Run("subtract", func(t *testing.T) {
		diff, err := a.Subtract(b)
		require.NoError(t, err)
		assert.Equal(t, "17.50", diff.StringFixed(2))
	})

	t.Run("multiply by quantity", func(t *testing.T) {
		assert.Equal(t, "37.50", b.MultiplyByInt(3).StringFixed(2))
	})

	t.Run("currency mismatch errors", func(t *testing.T) {
		usd, err := NewMoney(decimal.NewFromInt(10), USD)
		require.NoError(t, err)

		_, err = a.Add(usd)
		require.Error(t, err)
		_, err = a.Subtract(usd)
		require.Error(t, err)
		_, err = a.LessThan(usd)
		require.Error(t, err)
	})

	t.Run("percentage discount", func(t *testing.T) {
		discounted := NewMoneyBRLFromFloat(100).ApplyDiscount(decimal.NewFromInt(15))
		assert.Equal(t, "85.00", discounted.StringFixed(2))
	})
}

func TestMoneyComparisons(t *testing.T) {
	small := NewMoneyBRLFromFloat(5)
	big := NewMoneyBRLFromFloat(50)

	lt, err := small.LessThan(big)
	require.NoError(t, err)
	assert.True(t, lt)

	gte, err := big.GreaterThanOrEqual(small)
	require.NoError(t, err)
	assert.True(t, gte)

	assert.True(t, small.Equals(NewMoneyBRLFromFloat(5)))
	assert.False(t, small.Equals(big))
	assert.True(t, ZeroBRL().IsZero())
	assert.True(t, big.IsPositive())
	assert.True(t, big.Negate().IsNegative())
}

func TestMoneyJSON(t *testing.T) {
	t.Run("round trips through JSON", func(t *testing.T) {
		m := NewMoneyBRLFromFloat(19.9)
		data, err := json.Marshal(m)
		require.NoError(t, err)

		var decoded Money
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.True(t, m.Equals(decoded))
	})

	t.Run("empty currency falls back to BRL", func(t *testing.T) {
		var decoded Money
		require.NoError(t, json.Unmarshal([]byte(`{"amount":"9.90"}`), &decoded))
		assert.Equal(t, BRL, decoded.Currency())
	})

	t.Run("rejects malformed amount", func(t *testing.T) {
		var decoded Money
		require.Error(t, json.Unmarshal([]byte(`{"amount":"abc"}`), &decoded))
	})
}

func TestMoneyScan(t *testing.T) {
	t.Run("scans string value", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan("12.34"))
		assert.Equal(t, "12.34", m.StringFixed(2))
		assert.Equal(t, BRL, m.Currency())
	})

	t.Run("scans bytes", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan([]byte("56.78")))
		assert.Equal(t, "56.78", m.StringFixed(2))
	})

	t.Run("nil scans to zero", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan(nil))
		assert.True(t, m.IsZero())
	})

	t.Run("rejects unsupported type", func(t *testing.T) {
		var m Money
		require.Error(t, m.Scan(struct{}{}))
	})
}
