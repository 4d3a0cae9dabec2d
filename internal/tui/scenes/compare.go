package scenes

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/taxgo/internal/compare"
	"github.com/rgehrsitz/taxgo/internal/output"
	"github.com/rgehrsitz/taxgo/internal/tui/components"
	"github.com/rgehrsitz/taxgo/internal/tui/tuistyles"
)

// CompareModel shows the effective rate of every jurisdiction for the last
// entered income
type CompareModel struct {
	set    *compare.ComparisonSet
	width  int
	height int
}

// NewCompareModel creates a new compare scene model
func NewCompareModel() *CompareModel {
	return &CompareModel{}
}

// SetResults stores comparison results
func (m *CompareModel) SetResults(set *compare.ComparisonSet) {
	m.set = set
}

// Results returns the displayed comparison
func (m *CompareModel) Results() *compare.ComparisonSet { return m.set }

// SetSize updates the model dimensions
func (m *CompareModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the compare scene
func (m *CompareModel) Update(msg tea.Msg) (*CompareModel, tea.Cmd) {
	return m, nil
}

// View renders the compare scene
func (m *CompareModel) View() string {
	if m.set == nil {
		return `No comparison yet.

Calculate an income first; every jurisdiction is compared automatically.`
	}

	barWidth := 30
	if m.width > 0 && m.width < 90 {
		barWidth = 16
	}

	var rows []string
	for _, r := range m.set.Results {
		suffix := fmt.Sprintf("tax %s", output.FormatCurrency(r.Tax, m.set.Currency))
		if r.Jurisdiction == m.set.Lowest {
			suffix += " ★ lowest"
		}
		rows = append(rows, components.NewRateBar(r.Jurisdiction, r.EffectiveRate.InexactFloat64()).
			WithWidth(barWidth).
			WithSuffix(suffix).
			Render())
	}

	header := lipgloss.JoinVertical(lipgloss.Left,
		tuistyles.TitleStyle.Render("Effective Rate by Jurisdiction"),
		tuistyles.SubtitleStyle.Render("Income "+output.FormatCurrency(m.set.Income, m.set.Currency)),
	)

	var recs strings.Builder
	for _, rec := range m.set.Recommendations {
		recs.WriteString("• " + rec + "\n")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		strings.Join(rows, "\n"),
		"",
		tuistyles.InfoStyle.Render(strings.TrimRight(recs.String(), "\n")),
	)
}
