// Package viz renders finished runs for the terminal.
//
//   - [Series]: named per-step channels pulled out of a trace
//   - [Plot]: asciigraph line chart of one channel
//   - [SummaryTable]: lipgloss panel with the end-of-run figures
//   - [Sparkline]: one-line trend of a channel
//
// The active [Theme] colors every panel. Set NO_COLOR to get plain output.
package viz
