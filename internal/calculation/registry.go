package calculation

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/taxgo/internal/domain"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// ErrUnknownJurisdiction is returned when a lookup names no registered jurisdiction
var ErrUnknownJurisdiction = errors.New("unknown jurisdiction")

// JurisdictionEntry is a validated registry entry
type JurisdictionEntry struct {
	Name     string
	Currency string
	Table    BracketTable
}

// JurisdictionRegistry maps jurisdiction names to their bracket tables. Every
// table is validated when the registry is built; lookups never revalidate.
type JurisdictionRegistry struct {
	entries map[string]JurisdictionEntry // keyed by lower-cased name
	names   []string
}

// NewJurisdictionRegistry validates jurisdictions and builds a registry
func NewJurisdictionRegistry(jurisdictions []domain.Jurisdiction) (*JurisdictionRegistry, error) {
	if len(jurisdictions) == 0 {
		return nil, fmt.Errorf("no jurisdictions provided")
	}

	reg := &JurisdictionRegistry{entries: make(map[string]JurisdictionEntry, len(jurisdictions))}
	for i, j := range jurisdictions {
		name := strings.TrimSpace(j.Name)
		if name == "" {
			return nil, fmt.Errorf("jurisdiction %d: name is required", i)
		}
		key := strings.ToLower(name)
		if _, dup := reg.entries[key]; dup {
			return nil, fmt.Errorf("jurisdiction %q is defined more than once", name)
		}
		currency := normalizeCode(j.Currency)
		if currency == "" {
			return nil, fmt.Errorf("jurisdiction %q: currency is required", name)
		}
		table, err := NewBracketTable(j.Brackets)
		if err != nil {
			return nil, fmt.Errorf("jurisdiction %q: %w", name, err)
		}
		reg.entries[key] = JurisdictionEntry{Name: name, Currency: currency, Table: table}
	}

	reg.names = lo.Map(lo.Values(reg.entries), func(e JurisdictionEntry, _ int) string { return e.Name })
	sort.Strings(reg.names)
	return reg, nil
}

// NewDefaultRegistry returns the registry of built-in reference tables
func NewDefaultRegistry() *JurisdictionRegistry {
	reg, err := NewJurisdictionRegistry(DefaultJurisdictions())
	if err != nil {
		panic(err)
	}
	return reg
}

// Get looks up a jurisdiction by name, ignoring case and surrounding space
func (r *JurisdictionRegistry) Get(name string) (JurisdictionEntry, error) {
	entry, ok := r.entries[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return JurisdictionEntry{}, fmt.Errorf("%w: %q", ErrUnknownJurisdiction, name)
	}
	return entry, nil
}

// Has reports whether name is registered
func (r *JurisdictionRegistry) Has(name string) bool {
	_, err := r.Get(name)
	return err == nil
}

// Names returns registered names in sorted order
func (r *JurisdictionRegistry) Names() []string {
	return append([]string(nil), r.names...)
}

// All returns every entry ordered by name
func (r *JurisdictionRegistry) All() []JurisdictionEntry {
	return lo.Map(r.names, func(name string, _ int) JurisdictionEntry {
		return r.entries[strings.ToLower(name)]
	})
}

// Currencies returns the distinct currencies tables are denominated in
func (r *JurisdictionRegistry) Currencies() []string {
	codes := lo.Uniq(lo.Map(r.All(), func(e JurisdictionEntry, _ int) string { return e.Currency }))
	sort.Strings(codes)
	return codes
}

func brackets(pairs ...float64) []domain.Bracket {
	out := make([]domain.Bracket, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, domain.Bracket{
			Threshold: decimal.NewFromFloat(pairs[i]),
			Rate:      decimal.NewFromFloat(pairs[i+1]),
		})
	}
	return out
}

// DefaultJurisdictions returns the reference bracket tables. India is
// denominated in rupees; the other tables carry dollar-denominated thresholds.
func DefaultJurisdictions() []domain.Jurisdiction {
	return []domain.Jurisdiction{
		{
			Name:     "United States",
			Currency: "USD",
			Brackets: brackets(
				0, 0.10,
				11000, 0.12,
				44725, 0.22,
				95375, 0.24,
				182100, 0.32,
				231250, 0.35,
				578125, 0.37,
			),
		},
		{
			Name:     "United Kingdom",
			Currency: "USD",
			Brackets: brackets(
				0, 0.20,
				37700, 0.40,
				125140, 0.45,
			),
		},
		{
			Name:     "Canada",
			Currency: "USD",
			Brackets: brackets(
				0, 0.15,
				53359, 0.205,
				106717, 0.26,
				165430, 0.29,
				235675, 0.33,
			),
		},
		{
			Name:     "Australia",
			Currency: "USD",
			Brackets: brackets(
				0, 0.19,
				18201, 0.325,
				45000, 0.37,
				120000, 0.45,
			),
		},
		{
			Name:     "India",
			Currency: "INR",
			Brackets: brackets(
				0, 0,
				300000, 0.05,
				600000, 0.10,
				900000, 0.15,
				1200000, 0.20,
				1500000, 0.30,
			),
		},
	}
}
