package scenes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/taxgo/internal/calculation"
	"github.com/rgehrsitz/taxgo/internal/tui/tuimsg"
	"github.com/rgehrsitz/taxgo/internal/tui/tuistyles"
)

// CalculatorModel is the income entry scene
type CalculatorModel struct {
	incomeInput     textinput.Model
	countries       []string
	countryIndex    int
	currencies      []string
	currency        string
	defaultCurrency func(country string) string
	message         string
	width           int
	height          int
}

// NewCalculatorModel creates the calculator scene. defaultCurrency maps a
// country to the currency selected when that country is chosen.
func NewCalculatorModel(countries, currencies []string, defaultCurrency func(string) string) *CalculatorModel {
	ti := textinput.New()
	ti.Placeholder = "e.g., 75,000"
	ti.CharLimit = 16
	ti.Width = 20
	ti.Focus()

	m := &CalculatorModel{
		incomeInput:     ti,
		countries:       countries,
		currencies:      currencies,
		defaultCurrency: defaultCurrency,
	}
	m.selectCountry(0)
	return m
}

// SetSize updates the scene dimensions
func (m *CalculatorModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Country returns the selected jurisdiction
func (m *CalculatorModel) Country() string {
	if len(m.countries) == 0 {
		return ""
	}
	return m.countries[m.countryIndex]
}

// Currency returns the selected income currency
func (m *CalculatorModel) Currency() string { return m.currency }

// SetIncome replaces the income field's text
func (m *CalculatorModel) SetIncome(s string) { m.incomeInput.SetValue(s) }

// SetMessage shows a one-line notice under the form
func (m *CalculatorModel) SetMessage(s string) { m.message = s }

func (m *CalculatorModel) selectCountry(i int) {
	if len(m.countries) == 0 {
		return
	}
	m.countryIndex = (i + len(m.countries)) % len(m.countries)
	if m.defaultCurrency != nil {
		m.currency = m.defaultCurrency(m.Country())
	}
}

func (m *CalculatorModel) cycleCurrency(step int) {
	if len(m.currencies) == 0 {
		return
	}
	idx := 0
	for i, c := range m.currencies {
		if c == m.currency {
			idx = i
			break
		}
	}
	m.currency = m.currencies[(idx+step+len(m.currencies))%len(m.currencies)]
}

// Update handles messages for the calculator scene
func (m *CalculatorModel) Update(msg tea.Msg) (*CalculatorModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("up"))):
			m.selectCountry(m.countryIndex - 1)
			return m, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("down"))):
			m.selectCountry(m.countryIndex + 1)
			return m, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("ctrl+left"))):
			m.cycleCurrency(-1)
			return m, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("ctrl+right"))):
			m.cycleCurrency(1)
			return m, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
			income, ok := calculation.ParseIncome(m.incomeInput.Value())
			if !ok {
				m.message = "No income to calculate"
				return m, func() tea.Msg { return tuimsg.NoIncomeMsg{} }
			}
			m.message = ""
			req := tuimsg.CalculateRequestMsg{
				Income:       income,
				Currency:     m.currency,
				Jurisdiction: m.Country(),
			}
			return m, func() tea.Msg { return req }
		}
	}

	var cmd tea.Cmd
	m.incomeInput, cmd = m.incomeInput.Update(msg)
	return m, cmd
}

// View renders the calculator scene
func (m *CalculatorModel) View() string {
	var b strings.Builder

	b.WriteString(tuistyles.TableHeaderStyle.Render("Annual Income"))
	b.WriteString("\n")
	b.WriteString(m.incomeInput.View())
	b.WriteString("  ")
	b.WriteString(tuistyles.InfoStyle.Render(m.currency))
	b.WriteString("\n\n")

	b.WriteString(tuistyles.TableHeaderStyle.Render("Country"))
	b.WriteString("\n")
	for i, country := range m.countries {
		if i == m.countryIndex {
			b.WriteString(tuistyles.SelectedItemStyle.Render("▸ " + country))
		} else {
			b.WriteString(tuistyles.UnselectedItemStyle.Render("  " + country))
		}
		b.WriteString("\n")
	}

	if m.message != "" {
		b.WriteString("\n")
		b.WriteString(tuistyles.ErrorStyle.Render(m.message))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(tuistyles.HelpDescStyle.Render(fmt.Sprintf(
		"%s country  %s currency  %s calculate",
		tuistyles.HelpKeyStyle.Render("↑/↓"),
		tuistyles.HelpKeyStyle.Render("ctrl+←/→"),
		tuistyles.HelpKeyStyle.Render("enter"))))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
