package output

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rgehrsitz/taxgo/internal/compare"
	"github.com/rgehrsitz/taxgo/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrUnsupportedFormat is returned for an unknown output format name
var ErrUnsupportedFormat = errors.New("unsupported format")

// Report bundles everything an exporter renders. Comparison is optional.
type Report struct {
	Calculation *domain.Calculation
	Comparison  *compare.ComparisonSet
	GeneratedAt time.Time
}

// NewReport creates a report stamped with the current time
func NewReport(calc *domain.Calculation, comparison *compare.ComparisonSet) *Report {
	return &Report{
		Calculation: calc,
		Comparison:  comparison,
		GeneratedAt: time.Now(),
	}
}

func (r *Report) validate() error {
	if r == nil || r.Calculation == nil {
		return fmt.Errorf("report has no calculation")
	}
	return nil
}

// Display grouping is fixed to English digit grouping
var printer = message.NewPrinter(language.English)

var currencySymbols = map[string]string{
	"USD": "$",
	"INR": "₹",
}

// FormatCurrency formats an amount with its currency symbol and digit
// grouping, e.g. $43,692.50. Unknown currencies are prefixed with their code.
func FormatCurrency(amount decimal.Decimal, currency string) string {
	symbol, ok := currencySymbols[strings.ToUpper(currency)]
	if !ok {
		symbol = strings.ToUpper(currency) + " "
	}
	return formatWithPrefix(amount, symbol)
}

// FormatAmount formats an amount prefixed with its ISO code, e.g. INR 1,250.00.
// Used where the renderer cannot draw currency symbols.
func FormatAmount(amount decimal.Decimal, currency string) string {
	return formatWithPrefix(amount, strings.ToUpper(currency)+" ")
}

func formatWithPrefix(amount decimal.Decimal, prefix string) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}
	return sign + prefix + groupDigits(amount.StringFixed(2))
}

// groupDigits inserts thousands separators into a fixed-point string.
// Whole parts beyond int64 are grouped by hand.
func groupDigits(fixed string) string {
	whole, frac, _ := strings.Cut(fixed, ".")
	var grouped string
	if n, err := strconv.ParseInt(whole, 10, 64); err == nil {
		grouped = printer.Sprintf("%d", n)
	} else if whole != "" && strings.Trim(whole, "0123456789") == "" {
		grouped = groupLarge(whole)
	} else {
		return fixed
	}
	if frac == "" {
		return grouped
	}
	return grouped + "." + frac
}

func groupLarge(digits string) string {
	var b strings.Builder
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte(',')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatPercentage formats a decimal as percentage
func FormatPercentage(amount decimal.Decimal) string {
	return amount.StringFixed(2) + "%"
}

// FormatRange renders a slab's bounds, "Above X" for the open-ended bracket
func FormatRange(slab domain.TaxSlabResult, currency string) string {
	if slab.IsOpenEnded() {
		return "Above " + FormatCurrency(slab.Threshold, currency)
	}
	return FormatCurrency(slab.Threshold, currency) + " - " + FormatCurrency(slab.NextThreshold.Decimal, currency)
}

// formatRangeCode is FormatRange using ISO codes instead of symbols
func formatRangeCode(slab domain.TaxSlabResult, currency string) string {
	if slab.IsOpenEnded() {
		return "Above " + FormatAmount(slab.Threshold, currency)
	}
	return FormatAmount(slab.Threshold, currency) + " - " + FormatAmount(slab.NextThreshold.Decimal, currency)
}

// DefaultAssumptions lists the modeling assumptions rendered in detailed outputs
var DefaultAssumptions = []string{
	"Bracket tables are fixed reference tables; deductions and credits are not modeled",
	"Each jurisdiction taxes the income converted into its own currency at fixed rates",
	"Amounts are computed exactly and rounded only for display",
}
