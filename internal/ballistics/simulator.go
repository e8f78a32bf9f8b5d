package ballistics

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"
	"github.com/san-kum/burnsim/internal/motor"
)

// Simulator steps one set of grains through the nozzle until burnout.
type Simulator struct {
	grains      []motor.Geometry
	nozzle      *motor.Nozzle
	casing      *motor.Case
	correlation Correlation
	metrics     []Metric
	observers   []Observer
	logger      *log.Logger
	ran         bool
}

// New takes ownership of grains for the duration of one run. Grain order is
// head end first, nozzle last. A nil correlation means StockFit.
func New(grains []motor.Geometry, nozzle *motor.Nozzle, casing *motor.Case, correlation Correlation) *Simulator {
	if correlation == nil {
		correlation = StockFit()
	}
	return &Simulator{
		grains:      grains,
		nozzle:      nozzle,
		casing:      casing,
		correlation: correlation,
		metrics:     make([]Metric, 0),
		observers:   make([]Observer, 0),
		logger:      log.New(io.Discard),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// SetLogger routes run progress to logger. The default discards.
func (s *Simulator) SetLogger(logger *log.Logger) {
	s.logger = logger
}

// Run steps the motor to burnout and returns the full trace. On a fatal
// error or cancellation the partial trace is returned with the error.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	return s.run(ctx, cfg, true, nil)
}

// RunWithCallback streams each snapshot to fn without retaining the trace.
// The run stops cleanly when fn returns false.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, fn func(Snapshot) bool) error {
	_, err := s.run(ctx, cfg, false, fn)
	return err
}

func (s *Simulator) validateConfig(cfg Config) error {
	if !(cfg.Dt > 0) || math.IsInf(cfg.Dt, 0) {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidConfig, cfg.Dt)
	}
	if cfg.MaxSteps < 0 {
		return fmt.Errorf("%w: max steps must not be negative, got %d", ErrInvalidConfig, cfg.MaxSteps)
	}
	if !(cfg.Density > 0) || math.IsInf(cfg.Density, 0) {
		return &motor.GeometryError{Part: "propellant", Field: "density", Value: cfg.Density, Reason: "must be positive"}
	}
	if s.nozzle == nil || s.casing == nil {
		return fmt.Errorf("%w: nozzle and case are required", ErrInvalidConfig)
	}
	if len(s.grains) == 0 {
		return ErrNoGrains
	}
	return nil
}

func (s *Simulator) run(ctx context.Context, cfg Config, keep bool, emit func(Snapshot) bool) (*Result, error) {
	if s.ran {
		return nil, ErrAlreadyRun
	}
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}
	s.ran = true

	maxSteps := cfg.MaxSteps
	if maxSteps == 0 {
		maxSteps = DefaultMaxSteps
	}

	n := len(s.grains)
	st := newStepState(s.grains, cfg)

	result := &Result{
		Metrics:               make(map[string]float64),
		BurnoutTimes:          make([]float64, n),
		Dt:                    cfg.Dt,
		Density:               cfg.Density,
		InitialPropellantMass: st.propellantMass(),
	}
	result.InitialSystemMass = s.casing.Mass() + result.InitialPropellantMass

	for _, m := range s.metrics {
		m.Reset()
	}

	s.logger.Info("simulation started",
		"grains", n, "dt", cfg.Dt, "kn0", st.initialBurnArea()/s.nozzle.ThroatArea(),
		"propellant_mass", result.InitialPropellantMass)

	t := 0.0
	warned := false
	for step := 1; anyBurning(s.grains); step++ {
		select {
		case <-ctx.Done():
			s.finish(result)
			return result, ctx.Err()
		default:
		}

		t += cfg.Dt
		if step > maxSteps {
			s.finish(result)
			return result, &SimulationError{Step: step, Time: t, Grain: -1, Wrapped: ErrStepLimit}
		}

		snap, err := s.step(st, step, t)
		if err != nil {
			s.finish(result)
			return result, err
		}
		result.StepsTaken++

		if snap.NonPhysical {
			result.Warnings = append(result.Warnings, &SimulationError{
				Step:    step,
				Time:    t,
				Grain:   -1,
				Wrapped: fmt.Errorf("%w: Kn %.2f gives %.2f psi", ErrNonPhysicalResult, snap.Kn, snap.ChamberPressure),
			})
			if !warned {
				s.logger.Warn("Kn outside calibration range", "step", step, "t", t, "kn", snap.Kn, "pressure", snap.ChamberPressure)
				warned = true
			}
		}

		if keep {
			result.Snapshots = append(result.Snapshots, snap)
		}
		for _, m := range s.metrics {
			m.Observe(snap)
		}
		for _, obs := range s.observers {
			obs.OnStep(snap)
		}

		if emit != nil && !emit(snap) {
			break
		}
	}

	s.finish(result)
	s.logger.Info("simulation finished", "steps", result.StepsTaken, "t", t, "warnings", len(result.Warnings))
	return result, nil
}

func (s *Simulator) finish(result *Result) {
	for i, g := range s.grains {
		result.BurnoutTimes[i] = g.BurnoutTime()
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

// step runs the per-timestep pipeline: burn area, Kn, pressure and burn
// rate, regression, mass generation, mass flux, L*, mass and CG, thrust.
func (s *Simulator) step(st *stepState, step int, t float64) (Snapshot, error) {
	n := len(s.grains)
	throatArea := s.nozzle.ThroatArea()

	st.each(func(i int, g motor.Geometry) {
		st.area[i] = 0
		st.wasBurning[i] = g.Burning()
		if st.wasBurning[i] {
			st.area[i] = g.BurnArea()
		}
	})

	burnArea := st.totalBurnArea()
	kn := burnArea / throatArea
	pressure := s.correlation.Pressure(kn)
	burnRate := s.correlation.BurnRate(kn)

	st.each(func(i int, g motor.Geometry) {
		st.consumed[i], st.errs[i] = 0, nil
		if st.wasBurning[i] {
			st.consumed[i], st.errs[i] = g.Regress(burnRate, st.dt)
		}
	})
	for i, err := range st.errs {
		if err != nil {
			return Snapshot{}, &SimulationError{Step: step, Time: t, Grain: i, Wrapped: err}
		}
	}

	snap := Snapshot{
		Step:            step,
		Time:            t,
		ChamberPressure: pressure,
		BurnArea:        burnArea,
		BurnRate:        burnRate,
		Kn:              kn,
		MassGenerated:   make([]float64, n),
		PortToThroat:    make([]float64, n),
		MassFlux:        make([]float64, n),
		Burning:         make([]bool, n),
		NonPhysical:     !s.correlation.InRange(kn) || pressure < 0,
	}

	// flow accumulates from the head end toward the nozzle
	flow := 0.0
	freeVolume := 0.0
	for i, g := range s.grains {
		mass := st.consumed[i] * st.density
		snap.MassGenerated[i] = mass
		snap.MassGeneratedOverall += mass

		flow += mass / st.dt
		port := g.InnerFlowArea()
		snap.PortToThroat[i] = port / throatArea
		if port > 0 {
			snap.MassFlux[i] = flow / port
		}

		ro := g.OuterDiameter() / 2
		freeVolume += g.InnerFlowVolume() + math.Pi*ro*ro*g.LengthRegression()

		snap.Burning[i] = g.Burning()
		if st.wasBurning[i] && !snap.Burning[i] {
			s.logger.Debug("grain burnout", "grain", i, "t", g.BurnoutTime())
		}
	}
	snap.EntranceMassFlux = flow / s.nozzle.EntranceArea()
	snap.ThroatMassFlux = flow / throatArea
	snap.LStar = freeVolume / throatArea

	snap.SystemMass, snap.CenterOfGravity = st.massProperties(s.casing)
	snap.Thrust = pressure * throatArea * s.nozzle.Cf()

	return snap, nil
}

func anyBurning(grains []motor.Geometry) bool {
	for _, g := range grains {
		if g.Burning() {
			return true
		}
	}
	return false
}
