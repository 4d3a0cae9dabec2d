package compare

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing jurisdictions
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString("TAX JURISDICTION COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Income: %s %s\n", compSet.Currency, compSet.Income.StringFixed(2)))
	sb.WriteString("\n")

	nameWidth := 20
	numWidth := 14

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, "Jurisdiction",
		numWidth, "Tax",
		numWidth, "Net Income",
		numWidth, "Effective",
		numWidth, "Marginal"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	for _, result := range compSet.Results {
		sb.WriteString(tf.formatRow(&result, compSet, nameWidth, numWidth))
	}

	sb.WriteString(strings.Repeat("=", 80) + "\n")

	if len(compSet.Results) > 1 {
		sb.WriteString("\nCOMPARISON TO LOWEST\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, result := range compSet.Results {
			if result.Jurisdiction == compSet.Lowest {
				continue
			}
			sb.WriteString(fmt.Sprintf("  %-*s %s%s pts  %s%s\n",
				nameWidth, result.Jurisdiction+":",
				tf.deltaSymbol(result.RateDiffFromLowest),
				result.RateDiffFromLowest.StringFixed(2),
				tf.deltaSymbol(result.TaxDiffFromLowest),
				tf.formatDecimal(result.TaxDiffFromLowest)))
		}
		sb.WriteString("\n")
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatRow formats a single jurisdiction row
func (tf *TableFormatter) formatRow(result *ComparisonResult, compSet *ComparisonSet, nameWidth, numWidth int) string {
	name := result.Jurisdiction
	if result.Jurisdiction == compSet.Lowest && len(compSet.Results) > 1 {
		name += " *"
	}

	return fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		numWidth, tf.formatDecimal(result.Tax),
		numWidth, tf.formatDecimal(result.NetIncome),
		numWidth, result.EffectiveRate.StringFixed(2)+"%",
		numWidth, result.MarginalRate.StringFixed(1)+"%")
}

// formatDecimal formats a decimal for display (in thousands)
func (tf *TableFormatter) formatDecimal(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		millions := d.Div(decimal.NewFromInt(1000000))
		return millions.StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		thousands := d.Div(decimal.NewFromInt(1000))
		return thousands.StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

// deltaSymbol returns a + for positive deltas; negative values carry their own sign
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	}
	return ""
}

// truncate truncates a string to maxLen
func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact creates a compact single-line summary of every jurisdiction
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	parts := make([]string, 0, len(compSet.Results))
	for _, result := range compSet.Results {
		parts = append(parts, fmt.Sprintf("%s: %s%%", result.Jurisdiction, result.EffectiveRate.StringFixed(2)))
	}
	return fmt.Sprintf("%s %s | ", compSet.Currency, compSet.Income.StringFixed(0)) + strings.Join(parts, " | ")
}
