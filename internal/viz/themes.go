package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// Theme colors the summary panel and the plots.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Warning lipgloss.Color
	Border  lipgloss.Color

	// Line is the plot series color, Axis the frame and labels.
	Line asciigraph.AnsiColor
	Axis asciigraph.AnsiColor
}

var (
	ThemeExhaust = Theme{
		Name:    "exhaust",
		Primary: lipgloss.Color("#ff8800"),
		Accent:  lipgloss.Color("#ffcc00"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888899"),
		Warning: lipgloss.Color("#ff4444"),
		Border:  lipgloss.Color("#444466"),
		Line:    asciigraph.Orange,
		Axis:    asciigraph.Gray,
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Primary: lipgloss.Color("#00ff00"),
		Accent:  lipgloss.Color("#88ff88"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#008800"),
		Warning: lipgloss.Color("#ffff00"),
		Border:  lipgloss.Color("#005500"),
		Line:    asciigraph.Green,
		Axis:    asciigraph.DarkGreen,
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Primary: lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#0088ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Warning: lipgloss.Color("#ffaa00"),
		Border:  lipgloss.Color("#555555"),
		Line:    asciigraph.Default,
		Axis:    asciigraph.Default,
	}

	CurrentTheme = ThemeExhaust

	Themes = []Theme{
		ThemeExhaust,
		ThemeRetroGreen,
		ThemeMinimal,
	}
)

// GetTheme returns a theme by name, falling back to the default.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeExhaust
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
