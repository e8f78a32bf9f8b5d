package storage

import (
	"context"
	"math"

	"github.com/san-kum/burnsim/internal/ballistics"
	"github.com/san-kum/burnsim/internal/motor"
)

// fataler is satisfied by *testing.T and GinkgoT().
type fataler interface {
	Helper()
	Fatalf(format string, args ...any)
}

func runMotor(t fataler, grains int) *ballistics.Result {
	t.Helper()
	gs := make([]motor.Geometry, grains)
	for i := range gs {
		g, err := motor.NewCylindrical(3, 1.5, 0.625, 2)
		if err != nil {
			t.Fatalf("grain: %v", err)
		}
		gs[i] = g
	}
	nozzle, err := motor.NewNozzle(0.3*math.Sqrt(float64(grains)), 1.0, 0.8, 1.4, grains)
	if err != nil {
		t.Fatalf("nozzle: %v", err)
	}
	casing, err := motor.NewCase(0.7, 1.75, 3*float64(grains))
	if err != nil {
		t.Fatalf("case: %v", err)
	}

	result, err := ballistics.New(gs, nozzle, casing, nil).Run(context.Background(), ballistics.DefaultConfig())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return result
}
