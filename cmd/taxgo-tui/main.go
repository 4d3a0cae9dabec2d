package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/rgehrsitz/taxgo/internal/calculation"
	"github.com/rgehrsitz/taxgo/internal/config"
	"github.com/rgehrsitz/taxgo/internal/domain"
	"github.com/rgehrsitz/taxgo/internal/logging"
	"github.com/rgehrsitz/taxgo/internal/notify"
	"github.com/rgehrsitz/taxgo/internal/tui"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "", "settings file (default taxgo.yaml if present)")
	jurisdictions := flag.String("jurisdictions", "", "jurisdictions YAML file")
	flag.Parse()

	if *configPath == "" {
		if _, err := os.Stat("taxgo.yaml"); err == nil {
			*configPath = "taxgo.yaml"
		}
	}
	settings, err := config.LoadSettings(*configPath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	// The alternate screen owns stdout; only log when a file is configured.
	logger := zap.NewNop()
	if settings.Logging.OutputFile != "" {
		if logger, err = logging.New(settings.Logging, ""); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	}
	defer func() { _ = logger.Sync() }()

	if *jurisdictions == "" {
		*jurisdictions = settings.Jurisdictions
	}
	engine := calculation.NewCalculationEngine()
	if *jurisdictions != "" {
		registry, converter, err := config.NewInputParser().LoadJurisdictions(*jurisdictions)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		engine = calculation.NewCalculationEngineWithConfig(registry, converter)
	}
	engine.SetLogger(logger.Sugar())

	var p *tea.Program
	scheduler := notify.NewScheduler(notify.NotifierFunc(func(_ context.Context, n domain.Notification) error {
		logger.Info(n.Title, zap.String("type", string(n.Type)), zap.String("message", n.Message))
		p.Send(tui.NotificationMsg{Notification: n})
		return nil
	}), logger)
	scheduler.Interval = settings.Notifications.Interval

	p = tea.NewProgram(
		tui.NewModel(engine).WithScheduler(scheduler),
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Enable mouse support
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := scheduler.Start(ctx); err != nil {
		fmt.Printf("Error starting reminders: %v\n", err)
		os.Exit(1)
	}
	defer scheduler.Stop()

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
