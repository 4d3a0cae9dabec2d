package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the current state of the application
func (m Model) View() string {
	if m.loading {
		return m.renderApp(BorderStyle.Render("⠋ " + m.loadingMessage))
	}

	if m.err != nil {
		return m.renderApp(ErrorStyle.Render(
			fmt.Sprintf("Error: %s\n\nPress any key to continue...", m.err.Error()),
		))
	}

	var content string
	switch m.currentScene {
	case SceneCalculator:
		content = m.calculatorModel.View()
	case SceneResults:
		content = m.resultsModel.View()
	case SceneCompare:
		content = m.compareModel.View()
	case SceneHelp:
		content = renderHelp()
	default:
		content = "Unknown scene"
	}

	return m.renderApp(content)
}

// renderApp wraps content with title bar and status bar
func (m Model) renderApp(content string) string {
	contentHeight := m.height - 4
	if contentHeight < 0 {
		contentHeight = 0
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleBar(),
		lipgloss.NewStyle().Height(contentHeight).Render(content),
		m.renderStatusBar(),
	)
}

func (m Model) renderTitleBar() string {
	breadcrumb := m.currentScene.String()
	if calc := m.resultsModel.Calculation(); calc != nil {
		breadcrumb = fmt.Sprintf("%s / %s", breadcrumb, calc.Jurisdiction)
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		TitleStyle.Render("TAXGO - Income Tax Calculator"),
		SubtitleStyle.Render(breadcrumb),
	)
}

func (m Model) renderStatusBar() string {
	shortcuts := []string{
		formatShortcut("i", "income"),
		formatShortcut("r", "results"),
		formatShortcut("c", "compare"),
		formatShortcut("tab", "next"),
		formatShortcut("?", "help"),
		formatShortcut("q", "quit"),
	}
	return StatusBarStyle.Width(m.width).Render(strings.Join(shortcuts, " • "))
}

func formatShortcut(key, desc string) string {
	return StatusKeyStyle.Render(key) + " " + desc
}

func renderHelp() string {
	rows := [][2]string{
		{"i", "Income calculator"},
		{"r", "Results for the last calculation"},
		{"c", "Compare jurisdictions"},
		{"tab", "Next screen"},
		{"esc", "Go back"},
		{"?", "Show this help"},
		{"q/ctrl+c", "Quit"},
		{"", ""},
		{"↑/↓", "Choose country (calculator)"},
		{"ctrl+←/→", "Choose income currency (calculator)"},
		{"enter", "Calculate"},
	}

	var b strings.Builder
	b.WriteString("KEYBOARD SHORTCUTS\n\n")
	for _, r := range rows {
		if r[0] == "" {
			b.WriteString("\n")
			continue
		}
		b.WriteString(HelpKeyStyle.Render(fmt.Sprintf("%-10s", r[0])))
		b.WriteString(HelpDescStyle.Render(r[1]))
		b.WriteString("\n")
	}
	b.WriteString("\nIncome is converted into each country's currency before its brackets apply.")
	return BorderStyle.Render(b.String())
}
