package calculation

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrUnknownCurrency is returned for a currency code with no configured rate
var ErrUnknownCurrency = errors.New("unknown currency")

// DefaultCurrencyRates returns the reference rates: units of each currency
// per one US dollar. Each call returns a fresh map.
func DefaultCurrencyRates() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"USD": decimal.NewFromInt(1),
		"INR": decimal.NewFromFloat(83.25),
	}
}

// DefaultBaseCurrency is the currency all rates are quoted against
const DefaultBaseCurrency = "USD"

// CurrencyConverter converts amounts between currencies using fixed rates
// quoted against a single base currency. It is read-only after construction.
type CurrencyConverter struct {
	base  string
	rates map[string]decimal.Decimal
}

// NewCurrencyConverter builds a converter. rates[c] is the number of units of
// c worth one unit of base; the base itself must be present with rate 1.
func NewCurrencyConverter(base string, rates map[string]decimal.Decimal) (*CurrencyConverter, error) {
	base = normalizeCode(base)
	if base == "" {
		return nil, fmt.Errorf("base currency is required")
	}

	normalized := make(map[string]decimal.Decimal, len(rates))
	for code, rate := range rates {
		code = normalizeCode(code)
		if code == "" {
			return nil, fmt.Errorf("empty currency code")
		}
		if !rate.IsPositive() {
			return nil, fmt.Errorf("rate for %s must be positive, got %s", code, rate)
		}
		normalized[code] = rate
	}

	baseRate, ok := normalized[base]
	if !ok {
		normalized[base] = decimal.NewFromInt(1)
	} else if !baseRate.Equal(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("base currency %s must have rate 1, got %s", base, baseRate)
	}

	return &CurrencyConverter{base: base, rates: normalized}, nil
}

// NewDefaultCurrencyConverter returns a converter over the reference rates
func NewDefaultCurrencyConverter() *CurrencyConverter {
	cc, err := NewCurrencyConverter(DefaultBaseCurrency, DefaultCurrencyRates())
	if err != nil {
		panic(err)
	}
	return cc
}

// Base returns the base currency code
func (cc *CurrencyConverter) Base() string {
	return cc.base
}

// Supports reports whether code has a configured rate
func (cc *CurrencyConverter) Supports(code string) bool {
	_, ok := cc.rates[normalizeCode(code)]
	return ok
}

// Currencies returns all configured codes in sorted order
func (cc *CurrencyConverter) Currencies() []string {
	codes := make([]string, 0, len(cc.rates))
	for code := range cc.rates {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Rate returns units of code per one unit of the base currency
func (cc *CurrencyConverter) Rate(code string) (decimal.Decimal, error) {
	rate, ok := cc.rates[normalizeCode(code)]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrUnknownCurrency, code)
	}
	return rate, nil
}

// ToBase converts amount in code into the base currency
func (cc *CurrencyConverter) ToBase(amount decimal.Decimal, code string) (decimal.Decimal, error) {
	rate, err := cc.Rate(code)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Div(rate), nil
}

// FromBase converts an amount in the base currency into code
func (cc *CurrencyConverter) FromBase(amount decimal.Decimal, code string) (decimal.Decimal, error) {
	rate, err := cc.Rate(code)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(rate), nil
}

// Convert moves amount from one currency to another. Converting a currency
// to itself returns the amount unchanged.
func (cc *CurrencyConverter) Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	fromRate, err := cc.Rate(from)
	if err != nil {
		return decimal.Zero, err
	}
	toRate, err := cc.Rate(to)
	if err != nil {
		return decimal.Zero, err
	}
	if normalizeCode(from) == normalizeCode(to) {
		return amount, nil
	}
	return amount.Mul(toRate).Div(fromRate), nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
