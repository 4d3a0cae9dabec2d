package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/rgehrsitz/taxgo/internal/calculation"
	"github.com/rgehrsitz/taxgo/internal/domain"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of jurisdiction registry files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a registry file from YAML (JSON is accepted as a YAML subset)
func (ip *InputParser) LoadFromFile(filename string) (*domain.RegistryFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes and validates registry file contents
func (ip *InputParser) Parse(data []byte) (*domain.RegistryFile, error) {
	var file domain.RegistryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateRegistryFile(&file); err != nil {
		return nil, fmt.Errorf("registry validation failed: %w", err)
	}

	return &file, nil
}

// LoadJurisdictions loads a registry file and builds the registry and the
// currency converter it needs.
func (ip *InputParser) LoadJurisdictions(filename string) (*calculation.JurisdictionRegistry, *calculation.CurrencyConverter, error) {
	file, err := ip.LoadFromFile(filename)
	if err != nil {
		return nil, nil, err
	}
	return ip.Build(file)
}

// Build turns a validated registry file into runtime objects
func (ip *InputParser) Build(file *domain.RegistryFile) (*calculation.JurisdictionRegistry, *calculation.CurrencyConverter, error) {
	base := file.BaseCurrency
	if base == "" {
		base = calculation.DefaultBaseCurrency
	}
	rates := file.Currencies
	if len(rates) == 0 {
		rates = calculation.DefaultCurrencyRates()
	}

	converter, err := calculation.NewCurrencyConverter(base, rates)
	if err != nil {
		return nil, nil, fmt.Errorf("currency rates: %w", err)
	}

	registry, err := calculation.NewJurisdictionRegistry(file.Jurisdictions)
	if err != nil {
		return nil, nil, fmt.Errorf("jurisdictions: %w", err)
	}

	for _, entry := range registry.All() {
		if !converter.Supports(entry.Currency) {
			return nil, nil, fmt.Errorf("jurisdiction %q uses currency %s which has no rate", entry.Name, entry.Currency)
		}
	}

	return registry, converter, nil
}

// ValidateRegistryFile validates the loaded registry file
func (ip *InputParser) ValidateRegistryFile(file *domain.RegistryFile) error {
	if len(file.Jurisdictions) == 0 {
		return fmt.Errorf("no jurisdictions provided")
	}

	if err := ip.validateCurrencies(file); err != nil {
		return fmt.Errorf("currencies validation failed: %w", err)
	}

	for i, j := range file.Jurisdictions {
		if err := ip.validateJurisdiction(&j); err != nil {
			return fmt.Errorf("jurisdiction %d (%s) validation failed: %w", i, j.Name, err)
		}
	}

	return nil
}

// validateCurrencies checks the rate table is usable
func (ip *InputParser) validateCurrencies(file *domain.RegistryFile) error {
	for code, rate := range file.Currencies {
		if strings.TrimSpace(code) == "" {
			return fmt.Errorf("empty currency code")
		}
		if rate.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("rate for %s must be positive", code)
		}
	}
	if file.BaseCurrency != "" && len(file.Currencies) > 0 {
		base := strings.ToUpper(strings.TrimSpace(file.BaseCurrency))
		_, ok := lo.FindKeyBy(file.Currencies, func(code string, _ decimal.Decimal) bool {
			return strings.ToUpper(strings.TrimSpace(code)) == base
		})
		if !ok {
			return fmt.Errorf("base currency %s has no rate", file.BaseCurrency)
		}
	}
	return nil
}

// validateJurisdiction validates a single jurisdiction
func (ip *InputParser) validateJurisdiction(j *domain.Jurisdiction) error {
	if strings.TrimSpace(j.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.TrimSpace(j.Currency) == "" {
		return fmt.Errorf("currency is required")
	}
	if len(j.Brackets) == 0 {
		return fmt.Errorf("at least one bracket is required")
	}
	if _, err := calculation.NewBracketTable(j.Brackets); err != nil {
		return err
	}
	return nil
}

// ExportDefaults renders the built-in tables in registry file form, as a
// starting point for a custom file.
func (ip *InputParser) ExportDefaults() ([]byte, error) {
	file := domain.RegistryFile{
		BaseCurrency:  calculation.DefaultBaseCurrency,
		Currencies:    calculation.DefaultCurrencyRates(),
		Jurisdictions: calculation.DefaultJurisdictions(),
	}
	data, err := yaml.Marshal(&file)
	if err != nil {
		return nil, fmt.Errorf("failed to encode defaults: %w", err)
	}
	return data, nil
}
