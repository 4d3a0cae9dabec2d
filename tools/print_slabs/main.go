package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/rgehrsitz/taxgo/internal/calculation"
	"github.com/rgehrsitz/taxgo/internal/config"
	"github.com/rgehrsitz/taxgo/internal/output"
	"github.com/shopspring/decimal"
)

// Prints the slab-by-slab breakdown of one income in every jurisdiction.
// Handy when checking a new registry file against published tables.
func main() {
	income := flag.String("income", "50000", "annual income")
	currency := flag.String("currency", "USD", "currency the income is in")
	file := flag.String("jurisdictions", "", "jurisdictions YAML file (defaults when empty)")
	flag.Parse()

	ce := calculation.NewCalculationEngine()
	if *file != "" {
		registry, converter, err := config.NewInputParser().LoadJurisdictions(*file)
		if err != nil {
			log.Fatal(err)
		}
		ce = calculation.NewCalculationEngineWithConfig(registry, converter)
	}

	amount, ok := calculation.ParseIncome(*income)
	if !ok {
		log.Fatalf("income must be positive: %q", *income)
	}

	for _, entry := range ce.Registry.All() {
		res, err := ce.ComputeIn(amount, *currency, entry)
		if err != nil {
			log.Fatalf("%s: %v", entry.Name, err)
		}
		fmt.Printf("%s (%d brackets, top rate %s)\n", entry.Name, entry.Table.Len(), output.FormatPercentage(entry.Table.TopRate().Mul(decimal.NewFromInt(100))))
		for _, slab := range res.TaxSlabs {
			fmt.Printf("  %-40s %7s %16s\n",
				output.FormatRange(slab, res.Currency),
				output.FormatPercentage(slab.Rate),
				output.FormatCurrency(slab.TaxAmount, res.Currency))
		}
		fmt.Printf("  total %s, effective %s\n\n",
			output.FormatCurrency(res.TotalTax, res.Currency),
			output.FormatPercentage(res.EffectiveRate))
	}
}
