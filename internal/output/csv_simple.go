package output

import (
	"bytes"
	"encoding/csv"
)

// CSVFormatter writes the slab breakdown, one row per bracket, followed by
// the comparison rows when the report has them.
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(report *Report) ([]byte, error) {
	if err := report.validate(); err != nil {
		return nil, err
	}
	res := report.Calculation.Result

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Jurisdiction", "Currency", "Threshold", "NextThreshold", "RatePercent", "TaxableAmount", "TaxAmount"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, slab := range res.TaxSlabs {
		next := ""
		if slab.NextThreshold.Valid {
			next = slab.NextThreshold.Decimal.StringFixed(2)
		}
		row := []string{
			report.Calculation.Jurisdiction,
			res.Currency,
			slab.Threshold.StringFixed(2),
			next,
			slab.Rate.StringFixed(2),
			slab.TaxableAmount.StringFixed(2),
			slab.TaxAmount.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	total := []string{report.Calculation.Jurisdiction, res.Currency, "TOTAL", "", res.EffectiveRate.StringFixed(4), res.Income.StringFixed(2), res.TotalTax.StringFixed(2)}
	if err := w.Write(total); err != nil {
		return nil, err
	}

	if cs := report.Comparison; cs != nil {
		if err := w.Write([]string{}); err != nil {
			return nil, err
		}
		if err := w.Write([]string{"Jurisdiction", "DisplayCurrency", "Tax", "NetIncome", "EffectiveRate"}); err != nil {
			return nil, err
		}
		for _, r := range cs.Results {
			row := []string{r.Jurisdiction, cs.Currency, r.Tax.StringFixed(2), r.NetIncome.StringFixed(2), r.EffectiveRate.StringFixed(4)}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
