package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/burnsim/internal/ballistics"
	"github.com/san-kum/burnsim/internal/metrics"
	"github.com/san-kum/burnsim/internal/motor"
)

type Registry struct {
	geometries   map[motor.Kind]func(motor.Spec) (motor.Geometry, error)
	correlations map[string]func(map[string]float64) ballistics.Correlation
	metrics      map[string]func() ballistics.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		geometries:   make(map[motor.Kind]func(motor.Spec) (motor.Geometry, error)),
		correlations: make(map[string]func(map[string]float64) ballistics.Correlation),
		metrics:      make(map[string]func() ballistics.Metric),
	}

	r.geometries[motor.KindCylindrical] = motor.NewGeometry

	r.correlations["stock"] = func(params map[string]float64) ballistics.Correlation {
		return applyParams(ballistics.StockFit(), params)
	}
	r.correlations["linear"] = func(params map[string]float64) ballistics.Correlation {
		return applyParams(ballistics.LinearFit{}, params)
	}

	r.metrics["peak_pressure"] = func() ballistics.Metric { return metrics.NewPeakPressure() }
	r.metrics["peak_thrust"] = func() ballistics.Metric { return metrics.NewPeakThrust() }
	r.metrics["peak_mass_flux"] = func() ballistics.Metric { return metrics.NewPeakMassFlux() }
	r.metrics["min_port_to_throat"] = func() ballistics.Metric { return metrics.NewMinPortToThroat() }
	r.metrics["non_physical_fraction"] = func() ballistics.Metric { return metrics.NewNonPhysicalFraction() }

	return r
}

// applyParams overrides the coefficients of fit that appear in params.
func applyParams(fit ballistics.LinearFit, params map[string]float64) ballistics.LinearFit {
	fields := map[string]*float64{
		"pressure_slope":     &fit.PressureSlope,
		"pressure_intercept": &fit.PressureIntercept,
		"rate_slope":         &fit.RateSlope,
		"rate_intercept":     &fit.RateIntercept,
		"min_kn":             &fit.MinKn,
		"max_kn":             &fit.MaxKn,
	}
	for k, v := range params {
		if p, ok := fields[k]; ok {
			*p = v
		}
	}
	return fit
}

// GetGeometry builds one grain. An empty kind means cylindrical.
func (r *Registry) GetGeometry(spec motor.Spec) (motor.Geometry, error) {
	kind := spec.Kind
	if kind == "" {
		kind = motor.KindCylindrical
	}
	fn, ok := r.geometries[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", motor.ErrUnsupportedGeometry, kind)
	}
	return fn(spec)
}

func (r *Registry) GetCorrelation(name string, params map[string]float64) (ballistics.Correlation, error) {
	fn, ok := r.correlations[name]
	if !ok {
		return nil, fmt.Errorf("unknown correlation: %s", name)
	}
	return fn(params), nil
}

func (r *Registry) GetMetric(name string) (ballistics.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListCorrelations() []string {
	return sortedKeys(r.correlations)
}

func (r *Registry) ListMetrics() []string {
	return sortedKeys(r.metrics)
}

// DefaultMetrics returns a fresh instance of every registered metric.
func (r *Registry) DefaultMetrics() []ballistics.Metric {
	names := r.ListMetrics()
	out := make([]ballistics.Metric, 0, len(names))
	for _, name := range names {
		out = append(out, r.metrics[name]())
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
