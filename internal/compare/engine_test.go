package compare

import (
	"context"
	"testing"

	"github.com/rgehrsitz/taxgo/internal/calculation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine() *CompareEngine {
	return NewCompareEngine(calculation.NewCalculationEngine())
}

func TestCompareEngine_AllJurisdictions(t *testing.T) {
	engine := newTestEngine()

	set, err := engine.Compare(context.Background(), CompareOptions{Income: decimal.NewFromInt(50000)})
	require.NoError(t, err)
	require.NotNil(t, set)

	assert.Equal(t, "USD", set.Currency)
	require.Len(t, set.Results, 5)
	assert.Equal(t, "Australia", set.Results[0].Jurisdiction)
	assert.Equal(t, "United States", set.Results[4].Jurisdiction)

	us, ok := set.Find("United States")
	require.True(t, ok)
	assert.True(t, us.Tax.Equal(decimal.RequireFromString("6307.5")))
	assert.True(t, us.EffectiveRate.Equal(decimal.RequireFromString("12.615")))

	// 50000 USD is 4162500 INR, almost entirely in the top Indian bracket
	india, ok := set.Find("India")
	require.True(t, ok)
	assert.Equal(t, "INR", india.Result.Currency)
	assert.True(t, india.Result.Income.Equal(decimal.NewFromInt(4162500)))

	assert.Equal(t, "United States", set.Lowest)
	assert.NotEmpty(t, set.Recommendations)

	lowest, _ := set.Find(set.Lowest)
	for _, r := range set.Results {
		assert.True(t, r.EffectiveRate.GreaterThanOrEqual(lowest.EffectiveRate))
		assert.False(t, r.RateDiffFromLowest.IsNegative())
	}
}

func TestCompareEngine_SingleMatchesCalculation(t *testing.T) {
	calc := calculation.NewCalculationEngine()
	engine := NewCompareEngine(calc)

	set, err := engine.Compare(context.Background(), CompareOptions{
		Income:        decimal.NewFromInt(120000),
		Currency:      "USD",
		Jurisdictions: []string{"Canada"},
	})
	require.NoError(t, err)
	require.Len(t, set.Results, 1)

	entry, err := calc.Registry.Get("Canada")
	require.NoError(t, err)
	direct, err := calculation.ComputeTax(decimal.NewFromInt(120000), entry.Table)
	require.NoError(t, err)

	assert.True(t, set.Results[0].Tax.Equal(direct.TotalTax))
	assert.True(t, set.Results[0].NetIncome.Equal(direct.NetIncome))
}

func TestCompareEngine_OrderIndependent(t *testing.T) {
	engine := newTestEngine()
	income := decimal.NewFromInt(75000)

	ab, err := engine.Compare(context.Background(), CompareOptions{
		Income:        income,
		Jurisdictions: []string{"United Kingdom", "Australia"},
	})
	require.NoError(t, err)

	ba, err := engine.Compare(context.Background(), CompareOptions{
		Income:        income,
		Jurisdictions: []string{"australia", "United Kingdom", "Australia"},
	})
	require.NoError(t, err)

	require.Len(t, ab.Results, 2)
	require.Len(t, ba.Results, 2)
	for i := range ab.Results {
		assert.Equal(t, ab.Results[i].Jurisdiction, ba.Results[i].Jurisdiction)
		assert.True(t, ab.Results[i].Tax.Equal(ba.Results[i].Tax))
		assert.True(t, ab.Results[i].EffectiveRate.Equal(ba.Results[i].EffectiveRate))
	}
	assert.Equal(t, ab.Lowest, ba.Lowest)
	assert.Equal(t, ab.Recommendations, ba.Recommendations)
}

func TestCompareEngine_DisplayCurrency(t *testing.T) {
	engine := newTestEngine()

	set, err := engine.Compare(context.Background(), CompareOptions{
		Income:        decimal.NewFromInt(8325000),
		Currency:      "INR",
		Jurisdictions: []string{"United States"},
	})
	require.NoError(t, err)

	// 8325000 INR is 100000 USD; tax comes back in rupees
	us := set.Results[0]
	assert.True(t, us.Result.Income.Equal(decimal.NewFromInt(100000)))
	expected := us.Result.TotalTax.Mul(decimal.RequireFromString("83.25"))
	assert.True(t, us.Tax.Equal(expected), "tax %s want %s", us.Tax, expected)
}

func TestCompareEngine_NoIncome(t *testing.T) {
	engine := newTestEngine()

	set, err := engine.Compare(context.Background(), CompareOptions{Income: decimal.Zero})
	assert.NoError(t, err)
	assert.Nil(t, set)
}

func TestCompareEngine_IncomeLostInConversion(t *testing.T) {
	engine := newTestEngine()
	tiny := decimal.RequireFromString("0.0000000000000001")

	// In dollars the amount rounds to zero; only India keeps it
	set, err := engine.Compare(context.Background(), CompareOptions{Income: tiny, Currency: "INR"})
	require.NoError(t, err)
	require.NotNil(t, set)
	require.Len(t, set.Results, 1)
	assert.Equal(t, "India", set.Results[0].Jurisdiction)
	assert.Equal(t, "India", set.Lowest)
	assert.Equal(t, "India", set.Highest)

	set, err = engine.Compare(context.Background(), CompareOptions{
		Income:        tiny,
		Currency:      "INR",
		Jurisdictions: []string{"United States", "Canada"},
	})
	assert.NoError(t, err)
	assert.Nil(t, set)
}

func TestMetricsCalculator_NilResult(t *testing.T) {
	mc := NewMetricsCalculator(calculation.NewDefaultCurrencyConverter())
	entry, err := calculation.NewDefaultRegistry().Get("Canada")
	require.NoError(t, err)

	_, err = mc.CalculateMetrics(entry, nil, "USD")
	assert.Error(t, err)
}

func TestCompareEngine_Errors(t *testing.T) {
	engine := newTestEngine()

	_, err := engine.Compare(context.Background(), CompareOptions{
		Income:        decimal.NewFromInt(1000),
		Jurisdictions: []string{"Atlantis"},
	})
	assert.ErrorIs(t, err, calculation.ErrUnknownJurisdiction)

	_, err = engine.Compare(context.Background(), CompareOptions{
		Income:   decimal.NewFromInt(1000),
		Currency: "EUR",
	})
	assert.ErrorIs(t, err, calculation.ErrUnknownCurrency)
}
