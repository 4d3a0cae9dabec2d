package calculation

import (
	"math"
	"testing"

	"github.com/rgehrsitz/taxgo/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func usTable(t *testing.T) BracketTable {
	t.Helper()
	entry, err := NewDefaultRegistry().Get("United States")
	require.NoError(t, err)
	return entry.Table
}

func TestComputeTax_SingleBracket(t *testing.T) {
	table, err := NewBracketTable([]domain.Bracket{{Threshold: d("0"), Rate: d("0.20")}})
	require.NoError(t, err)

	result, err := ComputeTax(d("50000"), table)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, result.TotalTax.Equal(d("10000")), "total tax: %s", result.TotalTax)
	assert.True(t, result.EffectiveRate.Equal(d("20")), "effective rate: %s", result.EffectiveRate)
	assert.True(t, result.NetIncome.Equal(d("40000")), "net income: %s", result.NetIncome)

	require.Len(t, result.TaxSlabs, 1)
	slab := result.TaxSlabs[0]
	assert.True(t, slab.TaxableAmount.Equal(d("50000")))
	assert.True(t, slab.TaxAmount.Equal(d("10000")))
	assert.True(t, slab.Rate.Equal(d("20")))
	assert.True(t, slab.IsOpenEnded())
}

func TestComputeTax_UnitedStates50000(t *testing.T) {
	result, err := ComputeTax(d("50000"), usTable(t))
	require.NoError(t, err)
	require.NotNil(t, result)

	require.Len(t, result.TaxSlabs, 3)
	expected := []struct {
		threshold, next, rate, taxable, tax string
	}{
		{"0", "11000", "10", "11000", "1100"},
		{"11000", "44725", "12", "33725", "4047"},
		{"44725", "95375", "22", "5275", "1160.5"},
	}
	for i, exp := range expected {
		slab := result.TaxSlabs[i]
		assert.True(t, slab.Threshold.Equal(d(exp.threshold)), "slab %d threshold %s", i, slab.Threshold)
		require.True(t, slab.NextThreshold.Valid, "slab %d should be bounded", i)
		assert.True(t, slab.NextThreshold.Decimal.Equal(d(exp.next)), "slab %d next %s", i, slab.NextThreshold.Decimal)
		assert.True(t, slab.Rate.Equal(d(exp.rate)), "slab %d rate %s", i, slab.Rate)
		assert.True(t, slab.TaxableAmount.Equal(d(exp.taxable)), "slab %d taxable %s", i, slab.TaxableAmount)
		assert.True(t, slab.TaxAmount.Equal(d(exp.tax)), "slab %d tax %s", i, slab.TaxAmount)
	}

	assert.True(t, result.TotalTax.Equal(d("6307.5")), "total tax: %s", result.TotalTax)
	assert.True(t, result.EffectiveRate.Equal(d("12.615")), "effective rate: %s", result.EffectiveRate)
	assert.True(t, result.NetIncome.Equal(d("43692.5")), "net income: %s", result.NetIncome)
}

func TestComputeTax_TopBracketIsOpenEnded(t *testing.T) {
	result, err := ComputeTax(d("1000000"), usTable(t))
	require.NoError(t, err)
	require.Len(t, result.TaxSlabs, 7)

	top := result.TaxSlabs[6]
	assert.False(t, top.NextThreshold.Valid)
	assert.True(t, top.TaxableAmount.Equal(d("421875")))
	assert.True(t, top.Rate.Equal(d("37")))
}

func TestComputeTax_IncomeOnThresholdSkipsNextBracket(t *testing.T) {
	result, err := ComputeTax(d("11000"), usTable(t))
	require.NoError(t, err)
	require.Len(t, result.TaxSlabs, 1)
	assert.True(t, result.TotalTax.Equal(d("1100")))
}

func TestComputeTax_NonPositiveIncome(t *testing.T) {
	table := usTable(t)
	for _, income := range []string{"0", "-100", "-0.01"} {
		t.Run(income, func(t *testing.T) {
			result, err := ComputeTax(d(income), table)
			assert.NoError(t, err)
			assert.Nil(t, result)
		})
	}
}

func TestComputeTaxFloat_NonFinite(t *testing.T) {
	table := usTable(t)
	for _, income := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), 0, -5} {
		result, err := ComputeTaxFloat(income, table)
		assert.NoError(t, err)
		assert.Nil(t, result)
	}

	result, err := ComputeTaxFloat(50000, table)
	require.NoError(t, err)
	assert.True(t, result.TotalTax.Equal(d("6307.5")))
}

func TestComputeTax_ZeroValueTable(t *testing.T) {
	_, err := ComputeTax(d("1000"), BracketTable{})
	assert.ErrorIs(t, err, ErrInvalidBracketTable)

	_, err = ComputeTaxFloat(math.NaN(), BracketTable{})
	assert.ErrorIs(t, err, ErrInvalidBracketTable)
}

func TestComputeTax_Invariants(t *testing.T) {
	tables := map[string]BracketTable{}
	for _, entry := range NewDefaultRegistry().All() {
		tables[entry.Name] = entry.Table
	}

	incomes := []string{"0.01", "1", "999.99", "11000", "37700.5", "50000", "123456.78", "300001", "2500000"}
	for name, table := range tables {
		for _, raw := range incomes {
			income := d(raw)
			result, err := ComputeTax(income, table)
			require.NoError(t, err, "%s at %s", name, raw)
			require.NotNil(t, result)

			sum := decimal.Zero
			for _, slab := range result.TaxSlabs {
				sum = sum.Add(slab.TaxAmount)
				assert.False(t, slab.TaxableAmount.IsNegative())
				assert.False(t, slab.TaxAmount.IsNegative())
				if slab.NextThreshold.Valid {
					assert.True(t, slab.TaxableAmount.LessThanOrEqual(slab.NextThreshold.Decimal.Sub(slab.Threshold)))
				}
			}
			assert.True(t, sum.Equal(result.TotalTax), "%s at %s: slabs %s total %s", name, raw, sum, result.TotalTax)
			assert.True(t, result.NetIncome.Equal(income.Sub(result.TotalTax)))
			assert.False(t, result.NetIncome.IsNegative())
			assert.True(t, result.EffectiveRate.LessThan(d("100")))
		}
	}
}

func TestComputeTax_Monotonic(t *testing.T) {
	for _, entry := range NewDefaultRegistry().All() {
		prev := decimal.Zero
		for income := int64(1000); income <= 2000000; income += 7919 {
			result, err := ComputeTax(decimal.NewFromInt(income), entry.Table)
			require.NoError(t, err)
			assert.True(t, result.TotalTax.GreaterThanOrEqual(prev), "%s: tax dropped at %d", entry.Name, income)
			prev = result.TotalTax
		}
	}
}

func TestComputeTax_IndiaZeroBracket(t *testing.T) {
	entry, err := NewDefaultRegistry().Get("India")
	require.NoError(t, err)

	result, err := ComputeTax(d("250000"), entry.Table)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.TotalTax.IsZero())
	assert.True(t, result.EffectiveRate.IsZero())
	assert.Len(t, result.TaxSlabs, 1)

	// 300000*0.05 + 300000*0.10 + 100000*0.15
	result, err = ComputeTax(d("1000000"), entry.Table)
	require.NoError(t, err)
	assert.True(t, result.TotalTax.Equal(d("60000")), "total tax: %s", result.TotalTax)
}

func TestNewBracketTable_Validation(t *testing.T) {
	tests := []struct {
		name     string
		brackets []domain.Bracket
	}{
		{"empty", nil},
		{"first threshold not zero", []domain.Bracket{{Threshold: d("100"), Rate: d("0.1")}}},
		{"duplicate threshold", []domain.Bracket{
			{Threshold: d("0"), Rate: d("0.1")},
			{Threshold: d("0"), Rate: d("0.2")},
		}},
		{"descending threshold", []domain.Bracket{
			{Threshold: d("0"), Rate: d("0.1")},
			{Threshold: d("500"), Rate: d("0.2")},
			{Threshold: d("400"), Rate: d("0.3")},
		}},
		{"negative rate", []domain.Bracket{{Threshold: d("0"), Rate: d("-0.1")}}},
		{"rate of one", []domain.Bracket{{Threshold: d("0"), Rate: d("1")}}},
		{"decreasing rate", []domain.Bracket{
			{Threshold: d("0"), Rate: d("0.3")},
			{Threshold: d("100"), Rate: d("0.2")},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBracketTable(tt.brackets)
			assert.ErrorIs(t, err, ErrInvalidBracketTable)
		})
	}
}

func TestBracketTable_IsImmutable(t *testing.T) {
	input := []domain.Bracket{{Threshold: d("0"), Rate: d("0.1")}, {Threshold: d("100"), Rate: d("0.2")}}
	table := MustBracketTable(input)

	input[1].Rate = d("0.9")
	got := table.Brackets()
	got[0].Rate = d("0.5")

	assert.True(t, table.Brackets()[0].Rate.Equal(d("0.1")))
	assert.True(t, table.Brackets()[1].Rate.Equal(d("0.2")))
	assert.True(t, table.TopRate().Equal(d("0.2")))
	assert.Equal(t, 2, table.Len())
}

func TestParseIncome(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"50000", "50000", true},
		{" 1,200.50 ", "1200.5", true},
		{"", "0", false},
		{"abc", "0", false},
		{"0", "0", false},
		{"-100", "0", false},
	}
	for _, tt := range tests {
		got, ok := ParseIncome(tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		assert.True(t, got.Equal(d(tt.want)), "input %q: got %s", tt.input, got)
	}
}
