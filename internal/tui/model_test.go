package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rgehrsitz/taxgo/internal/calculation"
	"github.com/rgehrsitz/taxgo/internal/domain"
	"github.com/rgehrsitz/taxgo/internal/notify"
	"github.com/rgehrsitz/taxgo/internal/tui/tuimsg"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// drain runs cmd and feeds every resulting message back into m
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			m = drain(t, m, c)
		}
		return m
	}
	if msg == nil {
		return m
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestNewModel_StartsOnCalculator(t *testing.T) {
	m := NewModel(calculation.NewCalculationEngine())

	assert.Equal(t, SceneCalculator, m.currentScene)
	view := m.View()
	assert.Contains(t, view, "TAXGO - Income Tax Calculator")
	assert.Contains(t, view, "United States")
	assert.Contains(t, view, "India")
	assert.NotNil(t, m.Init())
}

func TestScene_String(t *testing.T) {
	assert.Equal(t, "Calculator", SceneCalculator.String())
	assert.Equal(t, "Results", SceneResults.String())
	assert.Equal(t, "Compare", SceneCompare.String())
	assert.Equal(t, "Help", SceneHelp.String())
	assert.Equal(t, "Unknown", Scene(42).String())
}

func TestModel_CalculateRequestRunsCalculationAndComparison(t *testing.T) {
	m := NewModel(calculation.NewCalculationEngine())

	next, cmd := m.Update(tuimsg.CalculateRequestMsg{
		Income:       decimal.NewFromInt(50000),
		Currency:     "USD",
		Jurisdiction: "United States",
	})
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.True(t, m.loading)
	assert.Contains(t, m.View(), "Calculating United States...")

	m = drain(t, m, cmd)

	assert.False(t, m.loading)
	assert.Equal(t, SceneResults, m.currentScene)
	calc := m.resultsModel.Calculation()
	require.NotNil(t, calc)
	assert.True(t, decimal.RequireFromString("6307.5").Equal(calc.Result.TotalTax))

	set := m.compareModel.Results()
	require.NotNil(t, set)
	assert.Len(t, set.Results, 5)
	assert.Contains(t, m.View(), "Results / United States")
}

func TestModel_NoIncomeKeepsCalculator(t *testing.T) {
	m := NewModel(calculation.NewCalculationEngine())

	next, cmd := m.Update(CalculationCompleteMsg{})
	m = next.(Model)

	assert.Nil(t, cmd)
	assert.Equal(t, SceneCalculator, m.currentScene)
	assert.Contains(t, m.View(), "No income to calculate")
}

func TestModel_EnterWithEmptyIncome(t *testing.T) {
	m := NewModel(calculation.NewCalculationEngine())

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	require.NotNil(t, cmd)
	assert.IsType(t, tuimsg.NoIncomeMsg{}, cmd())
	assert.Contains(t, m.View(), "No income to calculate")
}

func TestModel_GlobalKeys(t *testing.T) {
	tests := []struct {
		key  tea.KeyMsg
		want Scene
	}{
		{keyRunes("c"), SceneCompare},
		{keyRunes("r"), SceneResults},
		{keyRunes("?"), SceneHelp},
		{keyRunes("i"), SceneCalculator},
		{tea.KeyMsg{Type: tea.KeyTab}, SceneResults},
	}

	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			m := NewModel(calculation.NewCalculationEngine())
			_, cmd := m.Update(tt.key)
			require.NotNil(t, cmd)
			assert.Equal(t, NavigateMsg{Scene: tt.want}, cmd())
		})
	}
}

func TestModel_QuitAndBack(t *testing.T) {
	m := NewModel(calculation.NewCalculationEngine())

	_, cmd := m.Update(keyRunes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	next, _ := m.Update(NavigateMsg{Scene: SceneHelp})
	m = next.(Model)
	assert.Contains(t, m.View(), "KEYBOARD SHORTCUTS")

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, NavigateMsg{Scene: SceneCalculator}, cmd())
}

func TestModel_ErrorDismissedByAnyKey(t *testing.T) {
	m := NewModel(calculation.NewCalculationEngine())

	next, _ := m.Update(ErrorMsg{Err: errors.New("boom")})
	m = next.(Model)
	assert.Contains(t, m.View(), "Error: boom")

	next, cmd := m.Update(keyRunes("q"))
	m = next.(Model)
	assert.Nil(t, cmd, "the first key only dismisses the error")
	assert.NotContains(t, m.View(), "Error: boom")
}

func TestModel_UnknownJurisdictionShowsError(t *testing.T) {
	m := NewModel(calculation.NewCalculationEngine())

	next, _ := m.Update(CalculationCompleteMsg{Err: errors.New("unknown jurisdiction: Atlantis")})
	m = next.(Model)

	assert.Contains(t, m.View(), "unknown jurisdiction: Atlantis")
}

func TestModel_NotificationsAppearOnResults(t *testing.T) {
	m := NewModel(calculation.NewCalculationEngine())
	calc := &domain.Calculation{
		Jurisdiction:     "India",
		OriginalAmount:   decimal.NewFromInt(750000),
		OriginalCurrency: "INR",
		Result: domain.TaxResult{
			Income:   decimal.NewFromInt(750000),
			TotalTax: decimal.NewFromInt(37500),
			Currency: "INR",
		},
	}

	next, _ := m.Update(CalculationCompleteMsg{Calculation: calc})
	m = next.(Model)
	n := notify.NewPolicyUpdate("Budget 2026", "New regime slabs announced", time.Now())
	next, _ = m.Update(NotificationMsg{Notification: n})
	m = next.(Model)

	assert.Contains(t, m.View(), "Budget 2026")
}

func TestModel_CalculationFeedsScheduler(t *testing.T) {
	engine := calculation.NewCalculationEngine()
	scheduler := notify.NewScheduler(notify.NotifierFunc(func(context.Context, domain.Notification) error {
		return nil
	}), zap.NewNop())
	m := NewModel(engine).WithScheduler(scheduler)

	calc, err := engine.Calculate(context.Background(), domain.CalculationRequest{
		Income:       decimal.NewFromInt(50000),
		Jurisdiction: "United States",
	})
	require.NoError(t, err)

	_, cmd := m.Update(CalculationCompleteMsg{Calculation: calc})
	require.NotNil(t, cmd)
	assert.Nil(t, cmd())

	last := scheduler.LastCalculation()
	require.NotNil(t, last)
	assert.Equal(t, "United States", last.Jurisdiction)
}

func TestModel_WindowResize(t *testing.T) {
	m := NewModel(calculation.NewCalculationEngine())

	next, cmd := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)

	assert.Nil(t, cmd)
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 40, m.height)
}
