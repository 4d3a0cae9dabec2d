package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/taxgo/internal/calculation"
	"github.com/rgehrsitz/taxgo/internal/compare"
	"github.com/rgehrsitz/taxgo/internal/domain"
	"github.com/rgehrsitz/taxgo/internal/notify"
	"github.com/rgehrsitz/taxgo/internal/tui/scenes"
	"github.com/rgehrsitz/taxgo/internal/tui/tuimsg"
)

// Model represents the entire application state
type Model struct {
	// Navigation
	currentScene  Scene
	previousScene Scene

	// Terminal dimensions
	width  int
	height int

	engine        *calculation.CalculationEngine
	compareEngine *compare.CompareEngine
	scheduler     *notify.Scheduler

	calculatorModel *scenes.CalculatorModel
	resultsModel    *scenes.ResultsModel
	compareModel    *scenes.CompareModel

	// Outstanding calculation and comparison commands
	pending int

	err error

	loading        bool
	loadingMessage string
}

// NewModel creates a new application model around engine
func NewModel(engine *calculation.CalculationEngine) Model {
	return Model{
		currentScene:  SceneCalculator,
		engine:        engine,
		compareEngine: compare.NewCompareEngine(engine),
		calculatorModel: scenes.NewCalculatorModel(
			engine.Registry.Names(),
			engine.Converter.Currencies(),
			engine.DefaultCurrency,
		),
		resultsModel: scenes.NewResultsModel(),
		compareModel: scenes.NewCompareModel(),
		width:        80,
		height:       24,
	}
}

// WithScheduler hands each completed calculation to s
func (m Model) WithScheduler(s *notify.Scheduler) Model {
	m.scheduler = s
	return m
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// calculateCmd returns a command that runs one calculation
func calculateCmd(engine *calculation.CalculationEngine, req tuimsg.CalculateRequestMsg) tea.Cmd {
	return func() tea.Msg {
		calc, err := engine.Calculate(context.Background(), domain.CalculationRequest{
			Income:       req.Income,
			Currency:     req.Currency,
			Jurisdiction: req.Jurisdiction,
		})
		return CalculationCompleteMsg{Calculation: calc, Err: err}
	}
}

// compareCmd returns a command that compares the income across every
// jurisdiction, in the income's currency
func compareCmd(ce *compare.CompareEngine, req tuimsg.CalculateRequestMsg) tea.Cmd {
	return func() tea.Msg {
		set, err := ce.Compare(context.Background(), compare.CompareOptions{
			Income:   req.Income,
			Currency: req.Currency,
		})
		return ComparisonCompleteMsg{Comparison: set, Err: err}
	}
}

// updateSchedulerCmd feeds a calculation to the reminder scheduler
func updateSchedulerCmd(s *notify.Scheduler, calc domain.Calculation) tea.Cmd {
	return func() tea.Msg {
		s.Update(context.Background(), calc)
		return nil
	}
}
