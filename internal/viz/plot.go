package viz

import (
	"fmt"
	"sort"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/burnsim/internal/ballistics"
)

type channel struct {
	caption string
	extract func(ballistics.Snapshot) float64
}

var channels = map[string]channel{
	"pressure":    {"chamber pressure (psi)", func(s ballistics.Snapshot) float64 { return s.ChamberPressure }},
	"thrust":      {"thrust (lbf)", func(s ballistics.Snapshot) float64 { return s.Thrust }},
	"kn":          {"Kn", func(s ballistics.Snapshot) float64 { return s.Kn }},
	"burn_area":   {"burn area (in²)", func(s ballistics.Snapshot) float64 { return s.BurnArea }},
	"burn_rate":   {"burn rate (in/s)", func(s ballistics.Snapshot) float64 { return s.BurnRate }},
	"mass":        {"system mass (lbm)", func(s ballistics.Snapshot) float64 { return s.SystemMass }},
	"cg":          {"center of gravity (in)", func(s ballistics.Snapshot) float64 { return s.CenterOfGravity }},
	"lstar":       {"L* (in)", func(s ballistics.Snapshot) float64 { return s.LStar }},
	"throat_flux": {"throat mass flux (lbm/in²·s)", func(s ballistics.Snapshot) float64 { return s.ThroatMassFlux }},
}

// DefaultSeries are the channels `plot` draws when none are named.
var DefaultSeries = []string{"pressure", "thrust", "kn"}

// SeriesNames lists every channel Series accepts.
func SeriesNames() []string {
	names := make([]string, 0, len(channels))
	for name := range channels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Series pulls one named channel out of a trace.
func Series(name string, snapshots []ballistics.Snapshot) ([]float64, error) {
	ch, ok := channels[name]
	if !ok {
		return nil, fmt.Errorf("unknown series: %s (available: %v)", name, SeriesNames())
	}
	data := make([]float64, len(snapshots))
	for i, s := range snapshots {
		data[i] = ch.extract(s)
	}
	return data, nil
}

// Plot draws one channel of the trace against step index.
func Plot(name string, snapshots []ballistics.Snapshot, width, height int) (string, error) {
	if len(snapshots) == 0 {
		return "", fmt.Errorf("no data to plot")
	}
	data, err := Series(name, snapshots)
	if err != nil {
		return "", err
	}

	caption := fmt.Sprintf("%s, %.3f s", channels[name].caption, snapshots[len(snapshots)-1].Time)
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(CurrentTheme.Line),
		asciigraph.AxisColor(CurrentTheme.Axis),
		asciigraph.LabelColor(CurrentTheme.Axis),
	), nil
}
