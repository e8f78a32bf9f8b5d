package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/burnsim/internal/ballistics"
	"github.com/san-kum/burnsim/internal/config"
	"github.com/san-kum/burnsim/internal/motor"
)

func TestRegistryGeometry(t *testing.T) {
	r := NewRegistry()

	g, err := r.GetGeometry(motor.Spec{Length: 4, OuterDiameter: 1.5, InnerDiameter: 0.5, BurningEnds: 2})
	if err != nil {
		t.Fatalf("cylindrical: %v", err)
	}
	if g.Kind() != motor.KindCylindrical {
		t.Errorf("Kind() = %s", g.Kind())
	}

	_, err = r.GetGeometry(motor.Spec{Kind: motor.KindStar, Length: 4, OuterDiameter: 1.5, InnerDiameter: 0.5})
	if !errors.Is(err, motor.ErrUnsupportedGeometry) {
		t.Errorf("expected ErrUnsupportedGeometry, got %v", err)
	}
}

func TestRegistryCorrelation(t *testing.T) {
	r := NewRegistry()

	c, err := r.GetCorrelation("stock", map[string]float64{"max_kn": 300, "unknown": 1})
	if err != nil {
		t.Fatalf("stock: %v", err)
	}
	fit := c.(ballistics.LinearFit)
	if fit.PressureSlope != ballistics.StockFit().PressureSlope || fit.MaxKn != 300 {
		t.Errorf("unexpected fit %+v", fit)
	}
	if c.InRange(301) {
		t.Error("Kn above max_kn should be out of range")
	}

	if _, err := r.GetCorrelation("nope", nil); err == nil {
		t.Error("expected error for unknown correlation")
	}
	if got := r.ListCorrelations(); len(got) != 2 || got[0] != "linear" {
		t.Errorf("ListCorrelations() = %v", got)
	}
}

func TestRegistryMetrics(t *testing.T) {
	r := NewRegistry()
	if len(r.DefaultMetrics()) != len(r.ListMetrics()) {
		t.Error("default metrics should cover every registered metric")
	}
	if _, err := r.GetMetric("peak_pressure"); err != nil {
		t.Errorf("peak_pressure: %v", err)
	}
	if _, err := r.GetMetric("nope"); err == nil {
		t.Error("expected error for unknown metric")
	}
}

func TestExperimentRunsRepeatably(t *testing.T) {
	exp := New(config.GetPreset("bates", "triple"), nil)

	first, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if first.StepsTaken != second.StepsTaken {
		t.Fatalf("step counts differ: %d vs %d", first.StepsTaken, second.StepsTaken)
	}
	a, _ := first.Final()
	b, _ := second.Final()
	if a.CenterOfGravity != b.CenterOfGravity || a.ChamberPressure != b.ChamberPressure {
		t.Error("repeated runs diverged")
	}
	if _, ok := first.Metrics["peak_pressure"]; !ok {
		t.Error("default metrics missing from result")
	}
}

func TestExperimentSelectedMetrics(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Metrics = []string{"peak_thrust"}

	result, err := New(cfg, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.Metrics) != 1 || result.Metrics["peak_thrust"] <= 0 {
		t.Errorf("Metrics = %v", result.Metrics)
	}

	cfg.Metrics = []string{"nope"}
	if _, err := New(cfg, nil).Run(context.Background()); err == nil {
		t.Error("expected error for unknown metric")
	}
}

func TestExperimentBuildErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   error
	}{
		{"invalid config", func(c *config.Config) { c.Run.Dt = 0 }, config.ErrInvalid},
		{"bad grain", func(c *config.Config) { c.Grains[0].InnerDiameter = 3 }, motor.ErrInvalidGeometry},
		{"star grain", func(c *config.Config) { c.Grains[0].Kind = motor.KindStar }, motor.ErrUnsupportedGeometry},
		{"bad nozzle", func(c *config.Config) { c.Nozzle.Throat = 0 }, motor.ErrInvalidGeometry},
		{"bad case", func(c *config.Config) { c.Case.Length = 0 }, motor.ErrInvalidGeometry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.mutate(cfg)
			if _, err := New(cfg, nil).Build(); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

type counter struct{ n int }

func (c *counter) OnStep(ballistics.Snapshot) { c.n++ }

func TestExperimentCallbackAndObserver(t *testing.T) {
	exp := New(config.DefaultConfig(), nil)
	obs := &counter{}
	exp.AddObserver(obs)

	seen := 0
	err := exp.RunWithCallback(context.Background(), func(ballistics.Snapshot) bool {
		seen++
		return seen < 10
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if seen != 10 || obs.n != 10 {
		t.Errorf("callback saw %d, observer saw %d, want 10", seen, obs.n)
	}
}
