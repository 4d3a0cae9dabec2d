package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rgehrsitz/taxgo/internal/calculation"
	"github.com/rgehrsitz/taxgo/internal/config"
	"github.com/rgehrsitz/taxgo/internal/domain"
	"github.com/rgehrsitz/taxgo/internal/logging"
	"github.com/rgehrsitz/taxgo/internal/output"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "taxgo %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

// fileExists checks if a file exists
func fileExists(filename string) bool {
	_, err := os.Stat(filename)
	return !os.IsNotExist(err)
}

// app is the per-invocation wiring shared by every command
type app struct {
	settings *config.Settings
	logger   *zap.Logger
	engine   *calculation.CalculationEngine
}

func (a *app) close() {
	_ = a.logger.Sync()
}

// setup loads settings, builds the logger and the calculation engine from the
// persistent flags. Failures are fatal.
func setup(cmd *cobra.Command) *app {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" && fileExists("taxgo.yaml") {
		configPath = "taxgo.yaml"
	}
	settings, err := config.LoadSettings(configPath)
	if err != nil {
		log.Fatal(err)
	}

	if format, _ := cmd.Flags().GetString("log-format"); format != "" {
		settings.Logging.Format = format
	}
	level, _ := cmd.Flags().GetString("log-level")
	logger, err := logging.New(settings.Logging, level)
	if err != nil {
		log.Fatal(err)
	}

	jurisdictionsFile, _ := cmd.Flags().GetString("jurisdictions")
	if jurisdictionsFile == "" {
		jurisdictionsFile = settings.Jurisdictions
	}

	engine := calculation.NewCalculationEngine()
	if jurisdictionsFile != "" {
		registry, converter, err := config.NewInputParser().LoadJurisdictions(jurisdictionsFile)
		if err != nil {
			logger.Fatal("failed to load jurisdictions", zap.String("file", jurisdictionsFile), zap.Error(err))
		}
		engine = calculation.NewCalculationEngineWithConfig(registry, converter)
		logger.Debug("loaded jurisdictions", zap.String("file", jurisdictionsFile), zap.Strings("names", registry.Names()))
	}

	debugMode, _ := cmd.Flags().GetBool("debug")
	engine.SetLogger(logger.Sugar())
	engine.Debug = debugMode

	return &app{settings: settings, logger: logger, engine: engine}
}

// incomeFlag parses --income, accepting digit grouping such as 1,250,000.
// Zero and negative amounts pass through; the engines treat them as no income.
func incomeFlag(cmd *cobra.Command) decimal.Decimal {
	raw, _ := cmd.Flags().GetString("income")
	if income, ok := calculation.ParseIncome(raw); ok {
		return income
	}
	income, err := decimal.NewFromString(strings.TrimSpace(strings.ReplaceAll(raw, ",", "")))
	if err != nil {
		log.Fatalf("invalid income %q", raw)
	}
	return income
}

// calculate runs the single-jurisdiction calculation behind calculate,
// export and notify. A nil result means there was no income to tax.
func (a *app) calculate(cmd *cobra.Command) *domain.Calculation {
	country, _ := cmd.Flags().GetString("country")
	currency, _ := cmd.Flags().GetString("currency")

	calc, err := a.engine.Calculate(cmd.Context(), domain.CalculationRequest{
		Income:       incomeFlag(cmd),
		Currency:     currency,
		Jurisdiction: country,
	})
	if err != nil {
		a.logger.Fatal("calculation failed", zap.String("op", "calculate"), zap.String("country", country), zap.Error(err))
	}
	return calc
}

var rootCmd = &cobra.Command{
	Use:   "taxgo",
	Short: "Progressive income tax calculator",
	Long: `Calculate progressive income tax across jurisdictions, compare take-home pay,
export reports and schedule tax reminders.`,
}

var calculateCmd = &cobra.Command{
	Use:   "calculate",
	Short: "Calculate income tax for one jurisdiction",
	Long: `Calculate income tax for one jurisdiction. The income is converted into the
jurisdiction's own currency before its brackets are applied.

Examples:
  taxgo calculate --income 50000 --country "United States"
  taxgo calculate --income 1,250,000 --country India --currency INR --format json`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a := setup(cmd)
		defer a.close()

		format, _ := cmd.Flags().GetString("format")
		if output.IsBinary(format) {
			log.Fatalf("format %s is binary; use the export command", format)
		}

		calc := a.calculate(cmd)
		if calc == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No income to calculate")
			return
		}

		data, err := output.Render(output.NewReport(calc, nil), format)
		if err != nil {
			a.logger.Fatal("render failed", zap.String("format", format), zap.Error(err))
		}
		cmd.OutOrStdout().Write(data)
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [jurisdictions-file]",
	Short: "Validate a jurisdictions file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		inputFile := args[0]

		registry, _, err := config.NewInputParser().LoadJurisdictions(inputFile)
		if err != nil {
			log.Fatal(err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Jurisdictions file %s is valid (%s)\n", inputFile, strings.Join(registry.Names(), ", "))
	},
}

var jurisdictionsCmd = &cobra.Command{
	Use:   "jurisdictions",
	Short: "List the configured jurisdictions",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()

		if export, _ := cmd.Flags().GetBool("export"); export {
			data, err := config.NewInputParser().ExportDefaults()
			if err != nil {
				log.Fatal(err)
			}
			out.Write(data)
			return
		}

		a := setup(cmd)
		defer a.close()

		fmt.Fprintf(out, "%-20s %-8s %8s %9s\n", "Jurisdiction", "Currency", "Brackets", "Top Rate")
		fmt.Fprintln(out, strings.Repeat("-", 48))
		for _, entry := range a.engine.Registry.All() {
			fmt.Fprintf(out, "%-20s %-8s %8d %9s\n",
				entry.Name,
				entry.Currency,
				entry.Table.Len(),
				output.FormatPercentage(entry.Table.TopRate().Mul(decimal.NewFromInt(100))))
		}
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Settings file (default: taxgo.yaml if it exists)")
	rootCmd.PersistentFlags().String("jurisdictions", "", "Jurisdictions file replacing the built-in tables")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (console, json)")
	rootCmd.PersistentFlags().Bool("debug", false, "Log each calculation in detail")

	calculateCmd.Flags().String("income", "", "Annual income")
	calculateCmd.Flags().String("country", "United States", "Jurisdiction name")
	calculateCmd.Flags().String("currency", "", "Currency of the income (default: the jurisdiction's currency)")
	calculateCmd.Flags().StringP("format", "f", "console", "Output format (console, json, csv, html)")
	_ = calculateCmd.MarkFlagRequired("income")

	jurisdictionsCmd.Flags().Bool("export", false, "Print the built-in tables as a jurisdictions file")

	rootCmd.AddCommand(calculateCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(jurisdictionsCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(newsCmd)
	rootCmd.AddCommand(notifyCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
