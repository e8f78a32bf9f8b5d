// Package optim sweeps motor design parameters over a grid and picks the
// best run.
package optim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/burnsim/internal/ballistics"
	"github.com/san-kum/burnsim/internal/config"
	"github.com/san-kum/burnsim/internal/experiment"
)

var ErrNoFeasible = errors.New("burnsim: no feasible design in sweep")

// setters apply one swept value to a config.
var setters = map[string]func(*config.Config, float64){
	"throat":  func(c *config.Config, v float64) { c.Nozzle.Throat = v },
	"cf":      func(c *config.Config, v float64) { c.Nozzle.Cf = v },
	"density": func(c *config.Config, v float64) { c.Propellant.Density = v },
	"dt":      func(c *config.Config, v float64) { c.Run.Dt = v },
	"core": func(c *config.Config, v float64) {
		for i := range c.Grains {
			c.Grains[i].InnerDiameter = v
		}
	},
	"length": func(c *config.Config, v float64) {
		for i := range c.Grains {
			c.Grains[i].Length = v
		}
	},
}

func Parameters() []string {
	names := make([]string, 0, len(setters))
	for name := range setters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// Objective names the figure to optimize: a summary field (total_impulse,
// isp, average_thrust, peak_thrust, peak_pressure, burn_time) or a metric.
// Designs whose peak pressure exceeds MaxPressure are rejected when it is
// set. Designs with any step outside the correlation's Kn range are rejected
// unless AllowNonPhysical is set.
type Objective struct {
	Name             string
	Maximize         bool
	MaxPressure      float64
	AllowNonPhysical bool
}

func (o Objective) value(result *ballistics.Result, s ballistics.Summary) (float64, bool) {
	switch o.Name {
	case "total_impulse":
		return s.TotalImpulse, true
	case "isp":
		return s.ISP, true
	case "average_thrust":
		return s.AverageThrust, true
	case "peak_thrust":
		return s.PeakThrust, true
	case "peak_pressure":
		return s.PeakPressure, true
	case "burn_time":
		return s.BurnTime, true
	}
	v, ok := result.Metrics[o.Name]
	return v, ok
}

func (o Objective) better(a, b float64) bool {
	if o.Maximize {
		return a > b
	}
	return a < b
}

// Trial is one grid point.
type Trial struct {
	Params   map[string]float64
	Value    float64
	Summary  ballistics.Summary
	Feasible bool
	Err      error
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	registry   *experiment.Registry
	logger     *log.Logger
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) == 0 || len(params) != len(ranges) {
		return nil, fmt.Errorf("need one range per parameter, got %d parameters and %d ranges", len(params), len(ranges))
	}
	for i, name := range params {
		if _, ok := setters[name]; !ok {
			return nil, fmt.Errorf("unknown sweep parameter: %s (available: %v)", name, Parameters())
		}
		if len(ranges[i]) == 0 {
			return nil, fmt.Errorf("empty range for %s", name)
		}
	}
	return &GridSearch{
		paramNames: params,
		ranges:     ranges,
		registry:   experiment.NewRegistry(),
		logger:     log.New(io.Discard),
	}, nil
}

func (g *GridSearch) SetLogger(logger *log.Logger) { g.logger = logger }

// Search runs base with every combination of the grid. Trials that fail to
// build or run are kept with their error and never win.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, obj Objective) (Trial, []Trial, error) {
	var trials []Trial
	if err := g.searchRecursive(ctx, 0, make(map[string]float64), base, obj, &trials); err != nil {
		return Trial{}, trials, err
	}

	bestIdx := -1
	for i, t := range trials {
		if !t.Feasible {
			continue
		}
		if bestIdx < 0 || obj.better(t.Value, trials[bestIdx].Value) {
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return Trial{}, trials, ErrNoFeasible
	}
	return trials[bestIdx], trials, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base *config.Config,
	obj Objective,
	trials *[]Trial,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		*trials = append(*trials, g.trial(ctx, current, base, obj))
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, base, obj, trials); err != nil {
			return err
		}
	}
	return nil
}

func (g *GridSearch) trial(ctx context.Context, params map[string]float64, base *config.Config, obj Objective) Trial {
	t := Trial{Params: params, Value: math.NaN()}

	cfg := base.Clone()
	for name, v := range params {
		setters[name](cfg, v)
	}

	result, err := experiment.New(cfg, g.registry).Run(ctx)
	if err != nil {
		t.Err = err
		g.logger.Debug("trial failed", "params", params, "err", err)
		return t
	}

	t.Summary = ballistics.Summarize(result)
	v, ok := obj.value(result, t.Summary)
	if !ok {
		t.Err = fmt.Errorf("unknown objective: %s", obj.Name)
		return t
	}
	t.Value = v
	t.Feasible = (obj.MaxPressure <= 0 || t.Summary.PeakPressure <= obj.MaxPressure) &&
		(obj.AllowNonPhysical || t.Summary.NonPhysicalSteps == 0)
	g.logger.Debug("trial", "params", params, obj.Name, v, "feasible", t.Feasible)
	return t
}
