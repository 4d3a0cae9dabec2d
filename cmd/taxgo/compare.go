package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/rgehrsitz/taxgo/internal/compare"
	"github.com/rgehrsitz/taxgo/internal/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare income tax across jurisdictions",
	Long: `Compare the tax owed on one income in every jurisdiction. Each jurisdiction
taxes the income converted into its own currency; results are shown in the
display currency.

Examples:
  taxgo compare --income 75000
  taxgo compare --income 75000 --only "United States,Canada" --format csv
  taxgo compare --income 6000000 --currency INR --format json`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a := setup(cmd)
		defer a.close()

		currency, _ := cmd.Flags().GetString("currency")
		if currency == "" {
			currency = a.settings.DisplayCurrency
		}
		only, _ := cmd.Flags().GetStringSlice("only")
		format, _ := cmd.Flags().GetString("format")

		compSet, err := compare.NewCompareEngine(a.engine).Compare(cmd.Context(), compare.CompareOptions{
			Income:        incomeFlag(cmd),
			Currency:      currency,
			Jurisdictions: only,
		})
		if err != nil {
			a.logger.Fatal("comparison failed", zap.String("op", "compare"), zap.Error(err))
		}
		if compSet == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No income to calculate")
			return
		}

		var out string
		switch strings.ToLower(format) {
		case "table":
			out = (&compare.TableFormatter{}).Format(compSet)
		case "compact":
			out = (&compare.TableFormatter{}).FormatCompact(compSet)
		case "csv":
			out, err = (&compare.CSVFormatter{}).Format(compSet)
		case "json":
			out, err = (&compare.JSONFormatter{Pretty: true}).Format(compSet)
		default:
			log.Fatalf("unsupported format: %s (use table, compact, csv or json)", format)
		}
		if err != nil {
			a.logger.Fatal("render failed", zap.String("format", format), zap.Error(err))
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a tax report file",
	Long: `Write a timestamped report file for one calculation, optionally with a
comparison across all jurisdictions.

Examples:
  taxgo export --income 50000 --country "United States" --format xlsx
  taxgo export --income 900000 --country India --currency INR --format pdf --with-comparison --out reports`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a := setup(cmd)
		defer a.close()

		format, _ := cmd.Flags().GetString("format")
		outDir, _ := cmd.Flags().GetString("out")
		withComparison, _ := cmd.Flags().GetBool("with-comparison")

		formatter := output.GetFormatterByName(format)
		if formatter == nil {
			log.Fatalf("%v: %s (available: %s)", output.ErrUnsupportedFormat, format, strings.Join(output.FormatterNames(), ", "))
		}

		calc := a.calculate(cmd)
		if calc == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No income to calculate")
			return
		}

		var compSet *compare.ComparisonSet
		if withComparison {
			var err error
			compSet, err = compare.NewCompareEngine(a.engine).Compare(cmd.Context(), compare.CompareOptions{
				Income:   calc.OriginalAmount,
				Currency: calc.OriginalCurrency,
			})
			if err != nil {
				a.logger.Fatal("comparison failed", zap.String("op", "export"), zap.Error(err))
			}
		}

		ext := strings.ToLower(format)
		if ext == "console" {
			ext = "txt"
		}
		path, err := output.WriteFormatted(formatter, output.NewReport(calc, compSet), outDir, ext)
		if err != nil {
			a.logger.Fatal("export failed", zap.String("format", format), zap.Error(err))
		}
		a.logger.Info("report written", zap.String("path", path), zap.String("format", format))
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
	},
}

func init() {
	compareCmd.Flags().String("income", "", "Annual income")
	compareCmd.Flags().String("currency", "", "Currency of the income and results (default: display_currency setting)")
	compareCmd.Flags().StringSlice("only", nil, "Comma-separated jurisdictions to compare (default: all)")
	compareCmd.Flags().StringP("format", "f", "table", "Output format (table, compact, csv, json)")
	_ = compareCmd.MarkFlagRequired("income")

	exportCmd.Flags().String("income", "", "Annual income")
	exportCmd.Flags().String("country", "United States", "Jurisdiction name")
	exportCmd.Flags().String("currency", "", "Currency of the income (default: the jurisdiction's currency)")
	exportCmd.Flags().StringP("format", "f", "xlsx", "Report format ("+strings.Join(output.FormatterNames(), ", ")+")")
	exportCmd.Flags().StringP("out", "o", ".", "Output directory")
	exportCmd.Flags().Bool("with-comparison", false, "Include a comparison across all jurisdictions")
	_ = exportCmd.MarkFlagRequired("income")
}
