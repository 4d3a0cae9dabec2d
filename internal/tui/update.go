package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/taxgo/internal/tui/tuimsg"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.calculatorModel.SetSize(msg.Width, msg.Height)
		m.resultsModel.SetSize(msg.Width, msg.Height)
		m.compareModel.SetSize(msg.Width, msg.Height)
		return m, nil

	case NavigateMsg:
		if msg.Scene != m.currentScene {
			m.previousScene = m.currentScene
			m.currentScene = msg.Scene
		}
		return m, nil

	case ErrorMsg:
		m.err = msg.Err
		return m, nil

	case tuimsg.CalculateRequestMsg:
		m.pending = 2
		m.loading = true
		m.loadingMessage = "Calculating " + msg.Jurisdiction + "..."
		return m, tea.Batch(calculateCmd(m.engine, msg), compareCmd(m.compareEngine, msg))

	case tuimsg.NoIncomeMsg:
		return m, nil

	case CalculationCompleteMsg:
		m.finishPending()
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		if msg.Calculation == nil {
			m.calculatorModel.SetMessage("No income to calculate")
			return m, nil
		}
		m.resultsModel.SetResults(msg.Calculation)
		m.previousScene = SceneCalculator
		m.currentScene = SceneResults
		if m.scheduler != nil {
			return m, updateSchedulerCmd(m.scheduler, *msg.Calculation)
		}
		return m, nil

	case ComparisonCompleteMsg:
		m.finishPending()
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.compareModel.SetResults(msg.Comparison)
		return m, nil

	case NotificationMsg:
		m.resultsModel.AddNotification(msg.Notification)
		return m, nil
	}

	return m.updateCurrentScene(msg)
}

func (m *Model) finishPending() {
	if m.pending > 0 {
		m.pending--
	}
	m.loading = m.pending > 0
}

func navigate(s Scene) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Scene: s} }
}

// handleKeyPress processes keyboard input. Letters are global shortcuts; the
// income field only needs digits and separators.
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.err != nil {
		m.err = nil
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "?":
		return m, navigate(SceneHelp)

	case "esc":
		if m.currentScene != SceneCalculator {
			back := m.previousScene
			if back == m.currentScene {
				back = SceneCalculator
			}
			return m, navigate(back)
		}
		return m, nil

	case "tab":
		return m, navigate((m.currentScene + 1) % (SceneHelp + 1))

	case "i":
		return m, navigate(SceneCalculator)

	case "r":
		return m, navigate(SceneResults)

	case "c":
		return m, navigate(SceneCompare)
	}

	return m.updateCurrentScene(msg)
}

// updateCurrentScene delegates updates to the current scene's model
func (m Model) updateCurrentScene(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentScene {
	case SceneCalculator:
		m.calculatorModel, cmd = m.calculatorModel.Update(msg)
	case SceneResults:
		m.resultsModel, cmd = m.resultsModel.Update(msg)
	case SceneCompare:
		m.compareModel, cmd = m.compareModel.Update(msg)
	}
	return m, cmd
}
