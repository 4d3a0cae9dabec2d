package calculation

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/rgehrsitz/taxgo/internal/domain"
	"github.com/shopspring/decimal"
)

// BRACKET ENGINE ASSUMPTIONS:
//
// 1. Each bracket taxes income between its own threshold and the next
//    bracket's threshold; the last bracket is open-ended.
// 2. Thresholds are absolute amounts in the table's currency. The amount
//    taxed in a bracket is min(income, next) - threshold.
// 3. No rounding is applied anywhere in the engine. Rounding is a display
//    concern.

// ErrInvalidBracketTable is returned when a bracket table breaks one of its
// structural invariants.
var ErrInvalidBracketTable = errors.New("invalid bracket table")

var hundred = decimal.NewFromInt(100)

// BracketTable is a validated, immutable list of brackets ordered by threshold.
// The zero value is not usable; build tables with NewBracketTable.
type BracketTable struct {
	brackets []domain.Bracket
}

// NewBracketTable validates brackets and returns a table that can be shared
// freely between goroutines.
func NewBracketTable(brackets []domain.Bracket) (BracketTable, error) {
	if len(brackets) == 0 {
		return BracketTable{}, fmt.Errorf("%w: no brackets", ErrInvalidBracketTable)
	}
	if !brackets[0].Threshold.IsZero() {
		return BracketTable{}, fmt.Errorf("%w: first threshold must be 0, got %s",
			ErrInvalidBracketTable, brackets[0].Threshold)
	}

	one := decimal.NewFromInt(1)
	for i, b := range brackets {
		if b.Rate.IsNegative() || b.Rate.GreaterThanOrEqual(one) {
			return BracketTable{}, fmt.Errorf("%w: bracket %d rate %s outside [0, 1)",
				ErrInvalidBracketTable, i, b.Rate)
		}
		if i == 0 {
			continue
		}
		prev := brackets[i-1]
		if !b.Threshold.GreaterThan(prev.Threshold) {
			return BracketTable{}, fmt.Errorf("%w: threshold %s at bracket %d does not exceed %s",
				ErrInvalidBracketTable, b.Threshold, i, prev.Threshold)
		}
		if b.Rate.LessThan(prev.Rate) {
			return BracketTable{}, fmt.Errorf("%w: rate %s at bracket %d is lower than %s",
				ErrInvalidBracketTable, b.Rate, i, prev.Rate)
		}
	}

	owned := make([]domain.Bracket, len(brackets))
	copy(owned, brackets)
	return BracketTable{brackets: owned}, nil
}

// MustBracketTable is NewBracketTable for tables known to be valid at compile time
func MustBracketTable(brackets []domain.Bracket) BracketTable {
	t, err := NewBracketTable(brackets)
	if err != nil {
		panic(err)
	}
	return t
}

// Brackets returns a copy of the table's brackets
func (t BracketTable) Brackets() []domain.Bracket {
	out := make([]domain.Bracket, len(t.brackets))
	copy(out, t.brackets)
	return out
}

// Len returns the number of brackets
func (t BracketTable) Len() int {
	return len(t.brackets)
}

// TopRate returns the rate of the open-ended bracket
func (t BracketTable) TopRate() decimal.Decimal {
	if len(t.brackets) == 0 {
		return decimal.Zero
	}
	return t.brackets[len(t.brackets)-1].Rate
}

// ComputeTax applies table to income and returns the bracket breakdown.
//
// Income must already be expressed in the table's currency. A non-positive
// income means there is nothing to compute: the result is nil with a nil
// error. A table that was not built by NewBracketTable yields
// ErrInvalidBracketTable.
func ComputeTax(income decimal.Decimal, table BracketTable) (*domain.TaxResult, error) {
	if len(table.brackets) == 0 {
		return nil, fmt.Errorf("%w: no brackets", ErrInvalidBracketTable)
	}
	if !income.IsPositive() {
		return nil, nil
	}

	result := &domain.TaxResult{
		Income:   income,
		TaxSlabs: make([]domain.TaxSlabResult, 0, len(table.brackets)),
	}

	totalTax := decimal.Zero
	for i, bracket := range table.brackets {
		if !income.GreaterThan(bracket.Threshold) {
			break
		}

		upper := income
		next := decimal.NullDecimal{}
		if i+1 < len(table.brackets) {
			next = decimal.NullDecimal{Decimal: table.brackets[i+1].Threshold, Valid: true}
			upper = decimal.Min(income, next.Decimal)
		}

		taxable := upper.Sub(bracket.Threshold)
		tax := taxable.Mul(bracket.Rate)
		totalTax = totalTax.Add(tax)

		result.TaxSlabs = append(result.TaxSlabs, domain.TaxSlabResult{
			Threshold:     bracket.Threshold,
			NextThreshold: next,
			Rate:          bracket.Rate.Mul(hundred),
			TaxableAmount: taxable,
			TaxAmount:     tax,
		})
	}

	result.TotalTax = totalTax
	result.NetIncome = income.Sub(totalTax)
	result.EffectiveRate = totalTax.Div(income).Mul(hundred)
	return result, nil
}

// ComputeTaxFloat is ComputeTax for callers holding a float64. NaN and
// infinities are treated like a non-positive income.
func ComputeTaxFloat(income float64, table BracketTable) (*domain.TaxResult, error) {
	if math.IsNaN(income) || math.IsInf(income, 0) {
		if len(table.brackets) == 0 {
			return nil, fmt.Errorf("%w: no brackets", ErrInvalidBracketTable)
		}
		return nil, nil
	}
	return ComputeTax(decimal.NewFromFloat(income), table)
}

// ParseIncome reads a user-entered income such as "50,000" or " 1200.50 ".
// The boolean is false when the text is empty, not numeric, or not positive.
func ParseIncome(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsPositive() {
		return decimal.Zero, false
	}
	return d, true
}
