package scenes

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/taxgo/internal/domain"
	"github.com/rgehrsitz/taxgo/internal/output"
	"github.com/rgehrsitz/taxgo/internal/tui/components"
	"github.com/rgehrsitz/taxgo/internal/tui/tuistyles"
)

// ResultsModel represents the results display scene
type ResultsModel struct {
	calc          *domain.Calculation
	notifications []domain.Notification
	width         int
	height        int
}

// NewResultsModel creates a new results scene model
func NewResultsModel() *ResultsModel {
	return &ResultsModel{}
}

// SetResults updates the calculation to display
func (m *ResultsModel) SetResults(calc *domain.Calculation) {
	m.calc = calc
}

// Calculation returns the displayed calculation
func (m *ResultsModel) Calculation() *domain.Calculation { return m.calc }

// AddNotification keeps the most recent reminders for display
func (m *ResultsModel) AddNotification(n domain.Notification) {
	m.notifications = append(m.notifications, n)
	if len(m.notifications) > 5 {
		m.notifications = m.notifications[len(m.notifications)-5:]
	}
}

// SetSize updates the scene dimensions
func (m *ResultsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the results scene
func (m *ResultsModel) Update(msg tea.Msg) (*ResultsModel, tea.Cmd) {
	return m, nil
}

// View renders the results scene
func (m *ResultsModel) View() string {
	if m.calc == nil {
		return `No results to display.

Enter an income on the Calculator screen and press enter.

Press ESC to go back.`
	}

	sections := []string{
		renderResultsHeader(m.calc),
		"",
		renderKeyMetrics(m.calc, m.width),
		"",
		renderSlabTable(m.calc.Result),
	}
	if len(m.notifications) > 0 {
		sections = append(sections, "", renderNotifications(m.notifications))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func renderResultsHeader(calc *domain.Calculation) string {
	title := tuistyles.TitleStyle.Render("Tax Calculation: " + calc.Jurisdiction)
	sub := fmt.Sprintf("Income %s", output.FormatCurrency(calc.OriginalAmount, calc.OriginalCurrency))
	if calc.OriginalCurrency != calc.Result.Currency {
		sub += fmt.Sprintf(" (taxed as %s)", output.FormatCurrency(calc.Result.Income, calc.Result.Currency))
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, tuistyles.SubtitleStyle.Render(sub))
}

func renderKeyMetrics(calc *domain.Calculation, width int) string {
	res := calc.Result
	cur := res.Currency
	cards := []*components.MetricCard{
		components.NewMetricCard("Total Tax", output.FormatCurrency(res.TotalTax, cur)),
		components.NewMetricCard("Net Income", output.FormatCurrency(res.NetIncome, cur)).
			WithNote(output.FormatCurrency(res.MonthlyNetIncome(), cur) + " / month").
			WithHighlight(),
		components.NewMetricCard("Effective Rate", output.FormatPercentage(res.EffectiveRate)),
		components.NewMetricCard("Marginal Rate", output.FormatPercentage(res.MarginalRate())),
	}

	columns := 4
	if width > 0 && width < 110 {
		columns = 2
	}
	return components.MetricGrid(cards, columns)
}

func renderSlabTable(res domain.TaxResult) string {
	var b strings.Builder
	b.WriteString(tuistyles.TableHeaderStyle.Render(fmt.Sprintf("%-36s %7s %16s %14s", "Income Range", "Rate", "Taxable", "Tax")))
	b.WriteString("\n")
	for _, slab := range res.TaxSlabs {
		row := fmt.Sprintf("%-36s %7s %16s %14s",
			output.FormatRange(slab, res.Currency),
			output.FormatPercentage(slab.Rate),
			output.FormatCurrency(slab.TaxableAmount, res.Currency),
			output.FormatCurrency(slab.TaxAmount, res.Currency))
		b.WriteString(tuistyles.TableCellStyle.Render(row))
		b.WriteString("\n")
	}
	return b.String()
}

func renderNotifications(notes []domain.Notification) string {
	var b strings.Builder
	b.WriteString(tuistyles.TableHeaderStyle.Render("Reminders"))
	for _, n := range notes {
		style := tuistyles.InfoStyle
		if n.Priority == domain.PriorityHigh {
			style = tuistyles.ErrorStyle
		}
		b.WriteString("\n")
		b.WriteString(style.Render("• " + n.Title + ": "))
		b.WriteString(n.Message)
	}
	return b.String()
}
