package tui

import (
	"github.com/rgehrsitz/taxgo/internal/compare"
	"github.com/rgehrsitz/taxgo/internal/domain"
)

// Scene represents different screens in the TUI
type Scene int

const (
	SceneCalculator Scene = iota
	SceneResults
	SceneCompare
	SceneHelp
)

// String returns a human-readable name for a scene
func (s Scene) String() string {
	switch s {
	case SceneCalculator:
		return "Calculator"
	case SceneResults:
		return "Results"
	case SceneCompare:
		return "Compare"
	case SceneHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// NavigateMsg switches to a different scene
type NavigateMsg struct {
	Scene Scene
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}

// CalculationCompleteMsg carries a finished calculation. A nil Calculation
// with a nil Err means there was no income to tax.
type CalculationCompleteMsg struct {
	Calculation *domain.Calculation
	Err         error
}

// ComparisonCompleteMsg carries a finished comparison
type ComparisonCompleteMsg struct {
	Comparison *compare.ComparisonSet
	Err        error
}

// NotificationMsg delivers a reminder from the scheduler
type NotificationMsg struct {
	Notification domain.Notification
}
