package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid amount and currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(100.50), USD)
		require.NoError(t, err)
		assert.Equal(t, USD, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(100.50)))
	})

	t.Run("returns error for empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromFloat(100), "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "currency cannot be empty")
	})
}

func TestNewMoneyFromString(t *testing.T) {
	t.Run("valid string", func(t *testing.T) {
		m, err := NewMoneyFromString("123.45", USD)
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(123.45)))
	})

	t.Run("invalid string", func(t *testing.T) {
		_, err := NewMoneyFromString("not-a-number", USD)
		assert.Error(t, err)
	})
}

func TestNewMoneyUSD(t *testing.T) {
	m := NewMoneyUSD(decimal.NewFromFloat(50.00))
	assert.Equal(t, USD, m.Currency())
	assert.True(t, m.Amount().Equal(decimal.NewFromFloat(50.00)))
}

func TestZeroUSD(t *testing.T) {
	m := ZeroUSD()
	assert.True(t, m.IsZero())
	assert.Equal(t, USD, m.Currency())
}

func TestMoneySignPredicates(t *testing.T) {
	positive := NewMoneyUSDFromFloat(100)
	negative := NewMoneyUSDFromFloat(-100)
	zero := ZeroUSD()

	assert.True(t, positive.IsPositive())
	assert.False(t, positive.IsNegative())
	assert.True(t, negative.IsNegative())
	assert.False(t, negative.IsPositive())
	assert.True(t, zero.IsZero())
}

func TestMoneyArithmetic(t *testing.T) {
	a := NewMoneyUSDFromFloat(50)
	b := NewMoneyUSDFromFloat(47.20)

	t.Run("add", func(t *testing.T) {
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.Equal(t, "97.20", sum.StringFixed(2))
	})

	t.Run("subtract", func(t *testing.T) {
		diff, err := a.Subtract(b)
		require.NoError(t, err)
		assert.Equal(t, "2.80", diff.StringFixed(2))
	})

	t.Run("multiply by int", func(t *testing.T) {
		m := NewMoneyUSDFromFloat(12.50).MultiplyByInt(3)
		assert.Equal(t, "37.50", m.StringFixed(2))
	})

	t.Run("currency mismatch rejected", func(t *testing.T) {
		eur := Zero(EUR)
		_, err := a.Add(eur)
		assert.Error(t, err)
		_, err = a.Subtract(eur)
		assert.Error(t, err)
	})
}

func TestMoneyComparisons(t *testing.T) {
	small := NewMoneyUSDFromFloat(10)
	big := NewMoneyUSDFromFloat(20)

	lt, err := small.LessThan(big)
	require.NoError(t, err)
	assert.True(t, lt)

	gt, err := big.GreaterThan(small)
	require.NoError(t, err)
	assert.True(t, gt)

	lte, err := small.LessThanOrEqual(small)
	require.NoError(t, err)
	assert.True(t, lte)

	_, err = small.LessThan(Zero(GBP))
	assert.Error(t, err)
}

func TestMoneyNegateAbsRound(t *testing.T) {
	m := NewMoneyUSDFromFloat(19.995)
	assert.Equal(t, "-19.995", m.Negate().Amount().String())
	assert.Equal(t, "19.995", m.Negate().Abs().Amount().String())
	assert.Equal(t, "20.00", m.Round(2).StringFixed(2))
}

func TestMoneyPercentage(t *testing.T) {
	subtotal := NewMoneyUSDFromFloat(100)

	t.Run("calculate percentage", func(t *testing.T) {
		ten := subtotal.CalculatePercentage(decimal.NewFromInt(10))
		assert.Equal(t, "10.00", ten.StringFixed(2))
	})

	t.Run("apply discount", func(t *testing.T) {
		discounted := subtotal.ApplyDiscount(decimal.NewFromInt(10))
		assert.Equal(t, "90.00", discounted.StringFixed(2))
	})
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	m := NewMoneyUSDFromFloat(97.20)

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, m.Equals(decoded))
}

func TestMoneyScan(t *testing.T) {
	t.Run("scans string amount with default currency", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan("54.00"))
		assert.Equal(t, DefaultCurrency, m.Currency())
		assert.Equal(t, "54.00", m.StringFixed(2))
	})

	t.Run("nil scans to zero", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan(nil))
		assert.True(t, m.IsZero())
	})

	t.Run("rejects unsupported type", func(t *testing.T) {
		var m Money
		assert.Error(t, m.Scan(42))
	})
}
