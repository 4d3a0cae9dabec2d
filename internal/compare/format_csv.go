package compare

import (
	"encoding/csv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Jurisdiction",
		"Native Currency",
		"Display Currency",
		"Income",
		"Tax",
		"Net Income",
		"Effective Rate %",
		"Marginal Rate %",
		"Rate Diff from Lowest",
		"Tax Diff from Lowest",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	for _, result := range compSet.Results {
		if err := writer.Write(cf.formatRow(&result, compSet)); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a comparison result as a CSV row
func (cf *CSVFormatter) formatRow(result *ComparisonResult, compSet *ComparisonSet) []string {
	return []string{
		result.Jurisdiction,
		result.NativeCurrency,
		compSet.Currency,
		compSet.Income.StringFixed(2),
		result.Tax.StringFixed(2),
		result.NetIncome.StringFixed(2),
		result.EffectiveRate.StringFixed(4),
		result.MarginalRate.StringFixed(2),
		result.RateDiffFromLowest.StringFixed(4),
		result.TaxDiffFromLowest.StringFixed(2),
	}
}
