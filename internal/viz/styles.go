package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/burnsim/internal/ballistics"
)

func panel() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(CurrentTheme.Border).
		Padding(0, 1)
}

func titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Primary)
}

func labelStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Muted)
}

func valueStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Accent)
}

func warnStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Warning)
}

// sig formats v with six significant digits, the precision results are
// reported at.
func sig(v float64) string {
	return fmt.Sprintf("%.6g", v)
}

// SummaryTable renders the end-of-run figures as a titled panel.
func SummaryTable(title string, s ballistics.Summary) string {
	designation := s.Designation
	if designation == "" {
		designation = "-"
	}

	rows := [][2]string{
		{"designation", designation},
		{"total impulse", sig(s.TotalImpulse) + " lbf·s (" + sig(s.TotalImpulseNs) + " N·s)"},
		{"average thrust", sig(s.AverageThrust) + " lbf"},
		{"peak thrust", sig(s.PeakThrust) + " lbf"},
		{"peak pressure", sig(s.PeakPressure) + " psi"},
		{"burn time", fmt.Sprintf("%.3f s", s.BurnTime)},
		{"isp", sig(s.ISP) + " s"},
		{"propellant mass", sig(s.PropellantMass) + " lbm"},
		{"mass fraction", sig(s.MassFraction)},
	}

	width := 0
	for _, r := range rows {
		if len(r[0]) > width {
			width = len(r[0])
		}
	}

	var b strings.Builder
	b.WriteString(titleStyle().Render(title))
	for _, r := range rows {
		b.WriteString("\n")
		b.WriteString(labelStyle().Render(fmt.Sprintf("%-*s", width, r[0])))
		b.WriteString("  ")
		b.WriteString(valueStyle().Render(r[1]))
	}
	if s.NonPhysicalSteps > 0 {
		b.WriteString("\n")
		b.WriteString(warnStyle().Render(fmt.Sprintf("%d steps outside the correlation's Kn range", s.NonPhysicalSteps)))
	}
	return panel().Render(b.String())
}

// Sparkline renders values as one row of block characters, resampled to width.
func Sparkline(values []float64, width int) string {
	if width <= 0 {
		return ""
	}
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	step := len(values) / width
	if step < 1 {
		step = 1
	}

	var b strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		idx := int((values[i*step] - lo) / rng * float64(len(chars)-1))
		idx = max(0, min(idx, len(chars)-1))
		b.WriteRune(chars[idx])
	}
	return lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Render(b.String())
}
