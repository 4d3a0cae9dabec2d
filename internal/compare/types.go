package compare

import (
	"fmt"

	"github.com/rgehrsitz/taxgo/internal/calculation"
	"github.com/rgehrsitz/taxgo/internal/domain"
	"github.com/shopspring/decimal"
)

// ComparisonResult is one jurisdiction's outcome for the compared income
type ComparisonResult struct {
	Jurisdiction   string            `json:"jurisdiction"`
	NativeCurrency string            `json:"nativeCurrency"`
	Result         *domain.TaxResult `json:"result"`

	// Key metrics, expressed in the comparison's display currency
	Tax           decimal.Decimal `json:"tax"`
	NetIncome     decimal.Decimal `json:"netIncome"`
	EffectiveRate decimal.Decimal `json:"effectiveRate"`
	MarginalRate  decimal.Decimal `json:"marginalRate"`

	// Comparison to the lowest effective rate in the set
	RateDiffFromLowest decimal.Decimal `json:"rateDiffFromLowest"`
	TaxDiffFromLowest  decimal.Decimal `json:"taxDiffFromLowest"`
}

// ComparisonSet is the outcome of comparing one income across jurisdictions
type ComparisonSet struct {
	Income          decimal.Decimal    `json:"income"`
	Currency        string             `json:"currency"`
	Results         []ComparisonResult `json:"results"`
	Lowest          string             `json:"lowest"`
	Highest         string             `json:"highest"`
	Recommendations []string           `json:"recommendations"`
}

// Find returns the result for a jurisdiction, if present
func (cs *ComparisonSet) Find(jurisdiction string) (*ComparisonResult, bool) {
	for i := range cs.Results {
		if cs.Results[i].Jurisdiction == jurisdiction {
			return &cs.Results[i], true
		}
	}
	return nil, false
}

// MetricsCalculator derives display metrics from native-currency results
type MetricsCalculator struct {
	Converter *calculation.CurrencyConverter
}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator(converter *calculation.CurrencyConverter) *MetricsCalculator {
	return &MetricsCalculator{Converter: converter}
}

// CalculateMetrics converts a jurisdiction's native result into the display currency
func (mc *MetricsCalculator) CalculateMetrics(entry calculation.JurisdictionEntry, result *domain.TaxResult, displayCurrency string) (ComparisonResult, error) {
	if result == nil {
		return ComparisonResult{}, fmt.Errorf("no result for %s", entry.Name)
	}
	tax, err := mc.Converter.Convert(result.TotalTax, entry.Currency, displayCurrency)
	if err != nil {
		return ComparisonResult{}, fmt.Errorf("convert tax for %s: %w", entry.Name, err)
	}
	net, err := mc.Converter.Convert(result.NetIncome, entry.Currency, displayCurrency)
	if err != nil {
		return ComparisonResult{}, fmt.Errorf("convert net income for %s: %w", entry.Name, err)
	}

	return ComparisonResult{
		Jurisdiction:   entry.Name,
		NativeCurrency: entry.Currency,
		Result:         result,
		Tax:            tax,
		NetIncome:      net,
		EffectiveRate:  result.EffectiveRate,
		MarginalRate:   result.MarginalRate(),
	}, nil
}

// CalculateComparison fills in deltas against the lowest-rate result
func (mc *MetricsCalculator) CalculateComparison(result, lowest ComparisonResult) ComparisonResult {
	result.RateDiffFromLowest = result.EffectiveRate.Sub(lowest.EffectiveRate)
	result.TaxDiffFromLowest = result.Tax.Sub(lowest.Tax)
	return result
}

// GenerateRecommendations creates recommendations based on comparison results
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if len(compSet.Results) < 2 {
		return recommendations
	}

	lowest, _ := compSet.Find(compSet.Lowest)
	highest, _ := compSet.Find(compSet.Highest)
	if lowest == nil || highest == nil {
		return recommendations
	}

	recommendations = append(recommendations,
		fmt.Sprintf("Lowest Burden: %s at %s%% effective, keeping %s %s of %s %s",
			lowest.Jurisdiction,
			lowest.EffectiveRate.StringFixed(2),
			compSet.Currency, lowest.NetIncome.StringFixed(0),
			compSet.Currency, compSet.Income.StringFixed(0)))

	if highest.Jurisdiction != lowest.Jurisdiction {
		recommendations = append(recommendations,
			fmt.Sprintf("Highest Burden: %s at %s%% effective, %s %s more tax than %s",
				highest.Jurisdiction,
				highest.EffectiveRate.StringFixed(2),
				compSet.Currency, highest.TaxDiffFromLowest.StringFixed(0),
				lowest.Jurisdiction))
	}

	spread := highest.EffectiveRate.Sub(lowest.EffectiveRate)
	if spread.GreaterThanOrEqual(decimal.NewFromInt(10)) {
		recommendations = append(recommendations,
			fmt.Sprintf("Wide Spread: effective rates differ by %s percentage points at this income",
				spread.StringFixed(2)))
	}

	return recommendations
}
