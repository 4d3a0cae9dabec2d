package compare

import (
	"context"
	"fmt"
	"sort"

	"github.com/rgehrsitz/taxgo/internal/calculation"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// CompareEngine orchestrates multi-jurisdiction comparison. Every
// jurisdiction receives the same nominal income converted into its own
// currency before its table is applied.
type CompareEngine struct {
	CalcEngine        *calculation.CalculationEngine
	MetricsCalculator *MetricsCalculator
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(calcEngine *calculation.CalculationEngine) *CompareEngine {
	return &CompareEngine{
		CalcEngine:        calcEngine,
		MetricsCalculator: NewMetricsCalculator(calcEngine.Converter),
	}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	Income        decimal.Decimal
	Currency      string   // display currency; empty means the converter's base
	Jurisdictions []string // empty compares every registered jurisdiction
}

// Compare runs one bracket computation per jurisdiction. A non-positive
// income yields a nil set and a nil error. A jurisdiction where the income
// converts to nothing (too small to survive conversion into its currency) is
// left out of the set; when every jurisdiction is left out the result is a
// nil set and a nil error.
func (ce *CompareEngine) Compare(ctx context.Context, options CompareOptions) (*ComparisonSet, error) {
	currency := options.Currency
	if currency == "" {
		currency = ce.CalcEngine.Converter.Base()
	}
	if !ce.CalcEngine.Converter.Supports(currency) {
		return nil, fmt.Errorf("%w: %s", calculation.ErrUnknownCurrency, currency)
	}
	if !options.Income.IsPositive() {
		return nil, nil
	}

	entries, err := ce.selectJurisdictions(options.Jurisdictions)
	if err != nil {
		return nil, err
	}

	results := make([]ComparisonResult, len(entries))
	computed := make([]bool, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	for i, entry := range entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			native, err := ce.CalcEngine.ComputeIn(options.Income, currency, entry)
			if err != nil {
				return err
			}
			if native == nil {
				return nil
			}
			metrics, err := ce.MetricsCalculator.CalculateMetrics(entry, native, currency)
			if err != nil {
				return err
			}
			results[i] = metrics
			computed[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("comparison failed: %w", err)
	}

	results = lo.Filter(results, func(_ ComparisonResult, i int) bool { return computed[i] })
	if len(results) == 0 {
		return nil, nil
	}

	lowest := lo.MinBy(results, func(a, b ComparisonResult) bool { return a.EffectiveRate.LessThan(b.EffectiveRate) })
	highest := lo.MaxBy(results, func(a, b ComparisonResult) bool { return a.EffectiveRate.GreaterThan(b.EffectiveRate) })
	for i := range results {
		results[i] = ce.MetricsCalculator.CalculateComparison(results[i], lowest)
	}

	compSet := &ComparisonSet{
		Income:   options.Income,
		Currency: currency,
		Results:  results,
		Lowest:   lowest.Jurisdiction,
		Highest:  highest.Jurisdiction,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)

	ce.CalcEngine.Logger.Debugf("compared %s %s across %d jurisdictions", options.Income, currency, len(results))
	return compSet, nil
}

// selectJurisdictions resolves names against the registry, dropping duplicates
// and ordering by name so the outcome does not depend on request order.
func (ce *CompareEngine) selectJurisdictions(names []string) ([]calculation.JurisdictionEntry, error) {
	if len(names) == 0 {
		return ce.CalcEngine.Registry.All(), nil
	}

	entries := make([]calculation.JurisdictionEntry, 0, len(names))
	for _, name := range names {
		entry, err := ce.CalcEngine.Registry.Get(name)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	entries = lo.UniqBy(entries, func(e calculation.JurisdictionEntry) string { return e.Name })
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}
