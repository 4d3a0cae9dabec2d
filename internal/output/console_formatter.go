package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rgehrsitz/taxgo/internal/compare"
)

// ConsoleFormatter renders a human-readable text report
type ConsoleFormatter struct{}

func (ConsoleFormatter) Name() string { return "console" }

func (ConsoleFormatter) Format(report *Report) ([]byte, error) {
	if err := report.validate(); err != nil {
		return nil, err
	}
	calc := report.Calculation
	res := calc.Result
	cur := res.Currency

	var buf bytes.Buffer
	fmt.Fprintln(&buf, "=================================================================")
	fmt.Fprintf(&buf, "INCOME TAX CALCULATION: %s\n", strings.ToUpper(calc.Jurisdiction))
	fmt.Fprintln(&buf, "=================================================================")
	fmt.Fprintf(&buf, "Income Entered:   %s\n", FormatCurrency(calc.OriginalAmount, calc.OriginalCurrency))
	if calc.OriginalCurrency != cur {
		fmt.Fprintf(&buf, "Taxed As:         %s\n", FormatCurrency(res.Income, cur))
	}
	fmt.Fprintf(&buf, "Total Tax:        %s\n", FormatCurrency(res.TotalTax, cur))
	fmt.Fprintf(&buf, "Net Income:       %s\n", FormatCurrency(res.NetIncome, cur))
	fmt.Fprintf(&buf, "Monthly Net:      %s\n", FormatCurrency(res.MonthlyNetIncome(), cur))
	fmt.Fprintf(&buf, "Effective Rate:   %s\n", FormatPercentage(res.EffectiveRate))
	fmt.Fprintf(&buf, "Marginal Rate:    %s\n", FormatPercentage(res.MarginalRate()))
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "TAX BREAKDOWN BY BRACKET")
	fmt.Fprintln(&buf, strings.Repeat("-", 65))
	fmt.Fprintf(&buf, "%-30s %6s %13s %13s\n", "Income Range", "Rate", "Taxable", "Tax")
	for _, slab := range res.TaxSlabs {
		fmt.Fprintf(&buf, "%-30s %6s %13s %13s\n",
			FormatRange(slab, cur),
			slab.Rate.StringFixed(1)+"%",
			FormatCurrency(slab.TaxableAmount, cur),
			FormatCurrency(slab.TaxAmount, cur))
	}
	fmt.Fprintln(&buf, strings.Repeat("-", 65))

	if report.Comparison != nil {
		fmt.Fprintln(&buf)
		tf := &compare.TableFormatter{}
		buf.WriteString(tf.Format(report.Comparison))
	}

	return buf.Bytes(), nil
}
