package experiment

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/san-kum/burnsim/internal/ballistics"
	"github.com/san-kum/burnsim/internal/config"
	"github.com/san-kum/burnsim/internal/motor"
)

// Experiment turns a motor config into simulator runs. Every run gets
// freshly built grains, so one Experiment can be run any number of times.
type Experiment struct {
	cfg       *config.Config
	registry  *Registry
	logger    *log.Logger
	observers []ballistics.Observer
}

func New(cfg *config.Config, registry *Registry) *Experiment {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Experiment{
		cfg:      cfg,
		registry: registry,
		logger:   log.New(io.Discard),
	}
}

func (e *Experiment) SetLogger(logger *log.Logger) { e.logger = logger }

func (e *Experiment) AddObserver(o ballistics.Observer) { e.observers = append(e.observers, o) }

// Build validates the config and returns a simulator over new hardware.
func (e *Experiment) Build() (*ballistics.Simulator, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}

	grains := make([]motor.Geometry, 0, len(e.cfg.Grains))
	for i, spec := range e.cfg.Grains {
		g, err := e.registry.GetGeometry(spec)
		if err != nil {
			return nil, fmt.Errorf("grain %d: %w", i, err)
		}
		grains = append(grains, g)
	}

	n := e.cfg.Nozzle
	nozzle, err := motor.NewNozzle(n.Throat, n.Entrance, n.Exit, n.Cf, len(grains))
	if err != nil {
		return nil, err
	}

	c := e.cfg.Case
	casing, err := motor.NewCase(c.Mass, c.Diameter, c.Length)
	if err != nil {
		return nil, err
	}

	correlation, err := e.registry.GetCorrelation(e.cfg.Propellant.Correlation, e.cfg.GetCorrelationParams())
	if err != nil {
		return nil, err
	}

	sim := ballistics.New(grains, nozzle, casing, correlation)
	sim.SetLogger(e.logger)

	metrics, err := e.metrics()
	if err != nil {
		return nil, err
	}
	for _, m := range metrics {
		sim.AddMetric(m)
	}
	for _, o := range e.observers {
		sim.AddObserver(o)
	}
	return sim, nil
}

func (e *Experiment) metrics() ([]ballistics.Metric, error) {
	if len(e.cfg.Metrics) == 0 {
		return e.registry.DefaultMetrics(), nil
	}
	out := make([]ballistics.Metric, 0, len(e.cfg.Metrics))
	for _, name := range e.cfg.Metrics {
		m, err := e.registry.GetMetric(name)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (e *Experiment) Run(ctx context.Context) (*ballistics.Result, error) {
	sim, err := e.Build()
	if err != nil {
		return nil, err
	}
	return sim.Run(ctx, e.cfg.SimConfig())
}

func (e *Experiment) RunWithCallback(ctx context.Context, fn func(ballistics.Snapshot) bool) error {
	sim, err := e.Build()
	if err != nil {
		return err
	}
	return sim.RunWithCallback(ctx, e.cfg.SimConfig(), fn)
}

func (e *Experiment) Config() *config.Config {
	return e.cfg
}
