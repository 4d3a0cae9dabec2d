package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSXFormatter produces a workbook with a summary sheet, the slab breakdown
// and, when present, the jurisdiction comparison.
type XLSXFormatter struct{}

func (XLSXFormatter) Name() string { return "xlsx" }

const (
	sheetSummary    = "Summary"
	sheetBreakdown  = "Tax Breakdown"
	sheetComparison = "Comparison"
)

func (XLSXFormatter) Format(report *Report) ([]byte, error) {
	if err := report.validate(); err != nil {
		return nil, err
	}
	calc := report.Calculation
	res := calc.Result

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}

	summary := [][]interface{}{
		{"Tax Calculation Summary"},
		{"Jurisdiction", calc.Jurisdiction},
		{"Generated", report.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Income Entered", calc.OriginalAmount.InexactFloat64(), calc.OriginalCurrency},
		{"Taxable Income", res.Income.InexactFloat64(), res.Currency},
		{"Total Tax", res.TotalTax.InexactFloat64(), res.Currency},
		{"Net Income", res.NetIncome.InexactFloat64(), res.Currency},
		{"Effective Rate %", res.EffectiveRate.Round(4).InexactFloat64()},
	}
	if err := writeRows(f, sheetSummary, 1, summary); err != nil {
		return nil, err
	}
	_ = f.SetCellStyle(sheetSummary, "A1", "A8", bold)
	_ = f.SetColWidth(sheetSummary, "A", "A", 20)

	if _, err := f.NewSheet(sheetBreakdown); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	breakdown := [][]interface{}{{"Income Range", "Rate %", "Taxable Amount", "Tax Amount"}}
	for _, slab := range res.TaxSlabs {
		breakdown = append(breakdown, []interface{}{
			formatRangeCode(slab, res.Currency),
			slab.Rate.InexactFloat64(),
			slab.TaxableAmount.InexactFloat64(),
			slab.TaxAmount.InexactFloat64(),
		})
	}
	breakdown = append(breakdown, []interface{}{"Total", "", res.Income.InexactFloat64(), res.TotalTax.InexactFloat64()})
	if err := writeRows(f, sheetBreakdown, 1, breakdown); err != nil {
		return nil, err
	}
	_ = f.SetCellStyle(sheetBreakdown, "A1", "D1", bold)
	_ = f.SetColWidth(sheetBreakdown, "A", "A", 36)

	if cs := report.Comparison; cs != nil {
		if _, err := f.NewSheet(sheetComparison); err != nil {
			return nil, fmt.Errorf("create sheet: %w", err)
		}
		rows := [][]interface{}{{"Jurisdiction", "Tax (" + cs.Currency + ")", "Net Income (" + cs.Currency + ")", "Effective Rate %"}}
		for _, r := range cs.Results {
			rows = append(rows, []interface{}{
				r.Jurisdiction,
				r.Tax.InexactFloat64(),
				r.NetIncome.InexactFloat64(),
				r.EffectiveRate.Round(4).InexactFloat64(),
			})
		}
		if err := writeRows(f, sheetComparison, 1, rows); err != nil {
			return nil, err
		}
		_ = f.SetCellStyle(sheetComparison, "A1", "D1", bold)
		_ = f.SetColWidth(sheetComparison, "A", "A", 20)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, startRow int, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, startRow+i)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}
