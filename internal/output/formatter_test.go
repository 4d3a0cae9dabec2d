package output

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rgehrsitz/taxgo/internal/calculation"
	"github.com/rgehrsitz/taxgo/internal/compare"
	"github.com/rgehrsitz/taxgo/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildTestReport(t *testing.T, withComparison bool) *Report {
	t.Helper()
	engine := calculation.NewCalculationEngine()
	calc, err := engine.Calculate(context.Background(), domain.CalculationRequest{
		Income:       decimal.NewFromInt(50000),
		Currency:     "USD",
		Jurisdiction: "United States",
	})
	require.NoError(t, err)
	require.NotNil(t, calc)

	var cs *compare.ComparisonSet
	if withComparison {
		cs, err = compare.NewCompareEngine(engine).Compare(context.Background(), compare.CompareOptions{
			Income:   decimal.NewFromInt(50000),
			Currency: "USD",
		})
		require.NoError(t, err)
	}

	return &Report{
		Calculation: calc,
		Comparison:  cs,
		GeneratedAt: time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestFormatterFunc(t *testing.T) {
	var received *Report
	formatter := FormatterFunc{
		ID: "test-formatter",
		F: func(r *Report) ([]byte, error) {
			received = r
			return []byte("test output"), nil
		},
	}

	report := buildTestReport(t, false)
	out, err := formatter.Format(report)

	require.NoError(t, err)
	assert.Equal(t, "test-formatter", formatter.Name())
	assert.Same(t, report, received)
	assert.Equal(t, []byte("test output"), out)
}

func TestWriteFormatted(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	report := buildTestReport(t, false)
	formatter := FormatterFunc{ID: "txt", F: func(*Report) ([]byte, error) { return []byte("content"), nil }}

	path, err := WriteFormatted(formatter, report, dir, "txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "tax_report_20250314_093000.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}

func TestWriteFormatted_FormatError(t *testing.T) {
	boom := errors.New("boom")
	formatter := FormatterFunc{ID: "bad", F: func(*Report) ([]byte, error) { return nil, boom }}

	_, err := WriteFormatted(formatter, buildTestReport(t, false), t.TempDir(), "txt")
	assert.ErrorIs(t, err, boom)
}

func TestGetFormatterByName(t *testing.T) {
	for _, name := range []string{"console", "json", "csv", "html", "xlsx", "pdf"} {
		f := GetFormatterByName(name)
		require.NotNil(t, f, name)
		assert.Equal(t, name, f.Name())
	}
	assert.NotNil(t, GetFormatterByName("JSON"))
	assert.Nil(t, GetFormatterByName("yaml"))
	assert.Equal(t, []string{"console", "csv", "html", "json", "pdf", "xlsx"}, FormatterNames())
}

func TestRender_UnsupportedFormat(t *testing.T) {
	_, err := Render(buildTestReport(t, false), "yaml")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestIsBinary(t *testing.T) {
	assert.True(t, IsBinary("pdf"))
	assert.True(t, IsBinary("XLSX"))
	assert.False(t, IsBinary("csv"))
}

func TestFormatters_RejectEmptyReport(t *testing.T) {
	for _, name := range FormatterNames() {
		_, err := GetFormatterByName(name).Format(&Report{})
		assert.Error(t, err, name)
	}
}

func TestConsoleFormatter(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(buildTestReport(t, true))
	require.NoError(t, err)
	text := string(out)

	for _, want := range []string{
		"INCOME TAX CALCULATION: UNITED STATES",
		"Total Tax:        $6,307.50",
		"Net Income:       $43,692.50",
		"Effective Rate:   12.62%",
		"TAX BREAKDOWN BY BRACKET",
		"TAX JURISDICTION COMPARISON",
	} {
		assert.Contains(t, text, want)
	}
}

func TestJSONFormatter(t *testing.T) {
	out, err := JSONFormatter{Pretty: true}.Format(buildTestReport(t, false))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Contains(t, decoded, "calculation")
	assert.Contains(t, decoded, "assumptions")
	assert.NotContains(t, decoded, "comparison")
}

func TestCSVFormatter(t *testing.T) {
	out, err := CSVFormatter{}.Format(buildTestReport(t, true))
	require.NoError(t, err)

	r := csv.NewReader(bytes.NewReader(out))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)

	// header + 3 slabs + total
	assert.Equal(t, "Jurisdiction", records[0][0])
	assert.Equal(t, []string{"United States", "USD", "TOTAL", "", "12.6150", "50000.00", "6307.50"}, records[4])

	var comparisonRows int
	for _, rec := range records[5:] {
		if len(rec) == 5 && rec[0] != "Jurisdiction" {
			comparisonRows++
		}
	}
	assert.Equal(t, 5, comparisonRows)
}

func TestHTMLFormatter(t *testing.T) {
	out, err := HTMLFormatter{}.Format(buildTestReport(t, true))
	require.NoError(t, err)
	html := string(out)

	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, "$43,692.50")
	assert.Contains(t, html, "Jurisdiction Comparison")
	assert.Contains(t, html, `class="lowest"`)
	assert.Contains(t, html, DefaultAssumptions[0])
}

func TestXLSXFormatter(t *testing.T) {
	out, err := XLSXFormatter{}.Format(buildTestReport(t, true))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "Tax Breakdown", "Comparison"}, f.GetSheetList())

	name, err := f.GetCellValue("Summary", "B2")
	require.NoError(t, err)
	assert.Equal(t, "United States", name)

	rows, err := f.GetRows("Comparison")
	require.NoError(t, err)
	assert.Len(t, rows, 6)
}

func TestXLSXFormatter_NoComparisonSheet(t *testing.T) {
	out, err := XLSXFormatter{}.Format(buildTestReport(t, false))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()
	assert.NotContains(t, f.GetSheetList(), "Comparison")
}

func TestPDFFormatter(t *testing.T) {
	out, err := PDFFormatter{}.Format(buildTestReport(t, true))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		amount   string
		currency string
		want     string
	}{
		{"43692.5", "USD", "$43,692.50"},
		{"1234567.891", "INR", "₹1,234,567.89"},
		{"999", "usd", "$999.00"},
		{"-5", "USD", "-$5.00"},
		{"10", "EUR", "EUR 10.00"},
		{"12345678901234567890.5", "USD", "$12,345,678,901,234,567,890.50"},
		{"-9223372036854775808", "INR", "-₹9,223,372,036,854,775,808.00"},
		{"9223372036854775807", "USD", "$9,223,372,036,854,775,807.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCurrency(decimal.RequireFromString(tt.amount), tt.currency))
	}
	assert.Equal(t, "INR 1,250.00", FormatAmount(decimal.NewFromInt(1250), "INR"))
	assert.Equal(t, "INR 100,000,000,000,000,000,000.00", FormatAmount(decimal.RequireFromString("1e20"), "INR"))
}

func TestFormatPercentage(t *testing.T) {
	assert.Equal(t, "12.62%", FormatPercentage(decimal.RequireFromString("12.615")))
	assert.Equal(t, "0.00%", FormatPercentage(decimal.Zero))
}

func TestFormatRange(t *testing.T) {
	closed := domain.TaxSlabResult{
		Threshold:     decimal.NewFromInt(11000),
		NextThreshold: decimal.NullDecimal{Decimal: decimal.NewFromInt(44725), Valid: true},
	}
	open := domain.TaxSlabResult{Threshold: decimal.NewFromInt(578125)}

	assert.Equal(t, "$11,000.00 - $44,725.00", FormatRange(closed, "USD"))
	assert.Equal(t, "Above $578,125.00", FormatRange(open, "USD"))
	assert.Equal(t, "Above USD 578,125.00", formatRangeCode(open, "USD"))
}
