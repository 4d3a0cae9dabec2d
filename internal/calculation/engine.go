package calculation

import (
	"context"
	"fmt"
	"time"

	"github.com/rgehrsitz/taxgo/internal/domain"
	"github.com/shopspring/decimal"
)

// CalculationEngine orchestrates a single-jurisdiction tax calculation:
// normalize the income into the jurisdiction's currency, then run the
// bracket engine.
type CalculationEngine struct {
	Registry  *JurisdictionRegistry
	Converter *CurrencyConverter
	Logger    Logger
	Debug     bool // Enable debug output for detailed calculations

	now func() time.Time
}

// NewCalculationEngine creates an engine over the built-in tables and rates
func NewCalculationEngine() *CalculationEngine {
	return NewCalculationEngineWithConfig(NewDefaultRegistry(), NewDefaultCurrencyConverter())
}

// NewCalculationEngineWithConfig creates an engine over a caller-supplied
// registry and converter.
func NewCalculationEngineWithConfig(registry *JurisdictionRegistry, converter *CurrencyConverter) *CalculationEngine {
	return &CalculationEngine{
		Registry:  registry,
		Converter: converter,
		Logger:    NopLogger{},
		now:       time.Now,
	}
}

// SetLogger sets the logger; nil restores the no-op logger
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

// DefaultCurrency returns the currency a jurisdiction's income is entered in
// when the caller does not choose one.
func (ce *CalculationEngine) DefaultCurrency(jurisdiction string) string {
	entry, err := ce.Registry.Get(jurisdiction)
	if err != nil {
		return ce.Converter.Base()
	}
	return entry.Currency
}

// Calculate runs one calculation. A non-positive income yields a nil
// calculation and a nil error.
func (ce *CalculationEngine) Calculate(ctx context.Context, req domain.CalculationRequest) (*domain.Calculation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entry, err := ce.Registry.Get(req.Jurisdiction)
	if err != nil {
		return nil, err
	}

	currency := normalizeCode(req.Currency)
	if currency == "" {
		currency = entry.Currency
	}

	result, err := ce.ComputeIn(req.Income, currency, entry)
	if err != nil {
		return nil, err
	}
	if result == nil {
		ce.Logger.Debugf("no income to calculate for %s (income %s)", entry.Name, req.Income)
		return nil, nil
	}

	if ce.Debug {
		ce.Logger.Debugf("%s: income %s %s -> tax %s %s across %d slabs",
			entry.Name, req.Income, currency, result.TotalTax, result.Currency, len(result.TaxSlabs))
	}

	return &domain.Calculation{
		Jurisdiction:     entry.Name,
		OriginalAmount:   req.Income,
		OriginalCurrency: currency,
		Result:           *result,
		CalculatedAt:     ce.now(),
	}, nil
}

// ComputeIn converts income from currency into the entry's native currency
// and applies the entry's table. The result is expressed in the native
// currency.
func (ce *CalculationEngine) ComputeIn(income decimal.Decimal, currency string, entry JurisdictionEntry) (*domain.TaxResult, error) {
	native, err := ce.Converter.Convert(income, currency, entry.Currency)
	if err != nil {
		return nil, fmt.Errorf("convert income for %s: %w", entry.Name, err)
	}

	result, err := ComputeTax(native, entry.Table)
	if err != nil {
		return nil, fmt.Errorf("compute tax for %s: %w", entry.Name, err)
	}
	if result != nil {
		result.Currency = entry.Currency
	}
	return result, nil
}
