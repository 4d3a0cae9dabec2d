package output

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// PDFFormatter produces a one-document PDF report. Core PDF fonts cannot
// draw every currency symbol, so amounts carry ISO codes.
type PDFFormatter struct{}

func (PDFFormatter) Name() string { return "pdf" }

func (PDFFormatter) Format(report *Report) ([]byte, error) {
	if err := report.validate(); err != nil {
		return nil, err
	}
	calc := report.Calculation
	res := calc.Result
	cur := res.Currency

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Income Tax Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Income Tax Report")
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("%s - generated %s", calc.Jurisdiction, report.GeneratedAt.Format("2006-01-02 15:04")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Summary")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	summary := [][2]string{
		{"Income Entered", FormatAmount(calc.OriginalAmount, calc.OriginalCurrency)},
		{"Taxable Income", FormatAmount(res.Income, cur)},
		{"Total Tax", FormatAmount(res.TotalTax, cur)},
		{"Net Income", FormatAmount(res.NetIncome, cur)},
		{"Effective Rate", FormatPercentage(res.EffectiveRate)},
	}
	for _, line := range summary {
		pdf.CellFormat(50, 7, line[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(60, 7, line[1], "", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Tax Breakdown")
	pdf.Ln(8)
	widths := []float64{75, 20, 45, 45}
	tableHeader(pdf, widths, []string{"Income Range", "Rate", "Taxable Amount", "Tax"})
	pdf.SetFont("Helvetica", "", 9)
	for _, slab := range res.TaxSlabs {
		pdf.CellFormat(widths[0], 7, formatRangeCode(slab, cur), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, FormatPercentage(slab.Rate), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 7, FormatAmount(slab.TaxableAmount, cur), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 7, FormatAmount(slab.TaxAmount, cur), "1", 1, "R", false, 0, "")
	}

	if cs := report.Comparison; cs != nil {
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 8, "Jurisdiction Comparison")
		pdf.Ln(8)
		widths := []float64{55, 45, 45, 40}
		tableHeader(pdf, widths, []string{"Jurisdiction", "Tax", "Net Income", "Effective Rate"})
		pdf.SetFont("Helvetica", "", 9)
		for _, r := range cs.Results {
			fill := r.Jurisdiction == cs.Lowest
			pdf.SetFillColor(220, 252, 231)
			pdf.CellFormat(widths[0], 7, r.Jurisdiction, "1", 0, "L", fill, 0, "")
			pdf.CellFormat(widths[1], 7, FormatAmount(r.Tax, cs.Currency), "1", 0, "R", fill, 0, "")
			pdf.CellFormat(widths[2], 7, FormatAmount(r.NetIncome, cs.Currency), "1", 0, "R", fill, 0, "")
			pdf.CellFormat(widths[3], 7, FormatPercentage(r.EffectiveRate), "1", 1, "R", fill, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func tableHeader(pdf *fpdf.Fpdf, widths []float64, titles []string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(243, 244, 246)
	for i, title := range titles {
		pdf.CellFormat(widths[i], 8, title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
}
