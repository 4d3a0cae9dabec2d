package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/taxgo/internal/tui/tuistyles"
)

// RateBar draws a percentage (0-100) as a horizontal bar, used for effective
// and bracket rates
type RateBar struct {
	Label      string
	Percent    float64
	Width      int
	LabelWidth int
	Suffix     string
}

// NewRateBar creates a rate bar
func NewRateBar(label string, percent float64) *RateBar {
	return &RateBar{
		Label:      label,
		Percent:    percent,
		Width:      30,
		LabelWidth: 16,
	}
}

// WithWidth sets the bar width
func (r *RateBar) WithWidth(width int) *RateBar {
	r.Width = width
	return r
}

// WithSuffix appends text after the percentage
func (r *RateBar) WithSuffix(suffix string) *RateBar {
	r.Suffix = suffix
	return r
}

// Filled returns how many cells of the bar are filled
func (r *RateBar) Filled() int {
	pct := r.Percent
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return int(float64(r.Width) * pct / 100)
}

// Render returns the styled bar
func (r *RateBar) Render() string {
	filled := r.Filled()
	barStyle := lipgloss.NewStyle().Foreground(tuistyles.RateColor(r.Percent))
	emptyStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorBorder)

	var b strings.Builder
	label := r.Label
	if len(label) > r.LabelWidth {
		label = label[:r.LabelWidth-1] + "…"
	}
	b.WriteString(fmt.Sprintf("%-*s ", r.LabelWidth, label))
	b.WriteString(barStyle.Render(strings.Repeat("█", filled)))
	b.WriteString(emptyStyle.Render(strings.Repeat("░", r.Width-filled)))
	b.WriteString(fmt.Sprintf(" %6.2f%%", r.Percent))
	if r.Suffix != "" {
		b.WriteString("  " + tuistyles.SubtitleStyle.Render(r.Suffix))
	}
	return b.String()
}
