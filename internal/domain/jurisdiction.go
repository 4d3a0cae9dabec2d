package domain

import "github.com/shopspring/decimal"

// Jurisdiction describes a taxing authority as it appears in a registry file
type Jurisdiction struct {
	Name     string    `yaml:"name" json:"name"`
	Currency string    `yaml:"currency" json:"currency"`
	Brackets []Bracket `yaml:"brackets" json:"brackets"`
}

// RegistryFile is the on-disk layout of a jurisdiction registry
type RegistryFile struct {
	BaseCurrency  string                     `yaml:"base_currency"`
	Currencies    map[string]decimal.Decimal `yaml:"currencies"`
	Jurisdictions []Jurisdiction             `yaml:"jurisdictions"`
}
