package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bracket is one marginal rate band: Rate applies to income above Threshold
// up to the next bracket's threshold.
type Bracket struct {
	Threshold decimal.Decimal `yaml:"threshold" json:"threshold"`
	Rate      decimal.Decimal `yaml:"rate" json:"rate"`
}

// TaxSlabResult is the portion of income taxed inside a single bracket
type TaxSlabResult struct {
	Threshold decimal.Decimal `json:"threshold"`
	// NextThreshold is invalid for the open-ended top bracket.
	NextThreshold decimal.NullDecimal `json:"nextThreshold"`
	Rate          decimal.Decimal     `json:"rate"` // percentage, 0-100
	TaxableAmount decimal.Decimal     `json:"taxableAmount"`
	TaxAmount     decimal.Decimal     `json:"taxAmount"`
}

// IsOpenEnded reports whether the slab belongs to the top bracket
func (s TaxSlabResult) IsOpenEnded() bool {
	return !s.NextThreshold.Valid
}

// TaxResult is the full breakdown of a single bracket computation
type TaxResult struct {
	Income        decimal.Decimal `json:"income"`
	TotalTax      decimal.Decimal `json:"totalTax"`
	EffectiveRate decimal.Decimal `json:"effectiveRate"` // percentage, 0-100
	NetIncome     decimal.Decimal `json:"netIncome"`
	Currency      string          `json:"currency"`
	TaxSlabs      []TaxSlabResult `json:"taxSlabs"`
}

// MonthlyNetIncome returns net income spread over twelve months
func (r *TaxResult) MonthlyNetIncome() decimal.Decimal {
	return r.NetIncome.Div(decimal.NewFromInt(12))
}

// MarginalRate returns the rate of the highest bracket that received income
func (r *TaxResult) MarginalRate() decimal.Decimal {
	if len(r.TaxSlabs) == 0 {
		return decimal.Zero
	}
	return r.TaxSlabs[len(r.TaxSlabs)-1].Rate
}

// CalculationRequest is the user-facing input to a calculation
type CalculationRequest struct {
	Income       decimal.Decimal `json:"income"`
	Currency     string          `json:"currency"` // empty selects the jurisdiction's currency
	Jurisdiction string          `json:"jurisdiction"`
}

// Calculation is an immutable snapshot of one completed calculation, handed
// to exporters, the comparison view and the notification scheduler.
type Calculation struct {
	Jurisdiction     string          `json:"jurisdiction"`
	OriginalAmount   decimal.Decimal `json:"originalAmount"`
	OriginalCurrency string          `json:"originalCurrency"`
	Result           TaxResult       `json:"result"`
	CalculatedAt     time.Time       `json:"calculatedAt"`
}
