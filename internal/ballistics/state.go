package ballistics

import "github.com/san-kum/burnsim/internal/motor"

// stepState holds the per-grain scratch slots reused by every step. Each slot
// is written only by the goroutine that owns its index; aggregates are summed
// afterwards in grain order.
type stepState struct {
	grains   []motor.Geometry
	dt       float64
	density  float64
	parallel bool

	area       []float64
	consumed   []float64
	errs       []error
	wasBurning []bool

	// start is each grain's head-end position along the motor axis.
	start []float64
}

func newStepState(grains []motor.Geometry, cfg Config) *stepState {
	n := len(grains)
	st := &stepState{
		grains:     grains,
		dt:         cfg.Dt,
		density:    cfg.Density,
		parallel:   cfg.Parallel,
		area:       make([]float64, n),
		consumed:   make([]float64, n),
		errs:       make([]error, n),
		wasBurning: make([]bool, n),
		start:      make([]float64, n),
	}

	pos := 0.0
	for i, g := range grains {
		st.start[i] = pos
		pos += g.InitialLength()
	}
	return st
}

func (st *stepState) each(fn func(i int, g motor.Geometry)) {
	body := func(start, end int) {
		for i := start; i < end; i++ {
			fn(i, st.grains[i])
		}
	}
	if st.parallel {
		ParallelFor(len(st.grains), 1, body)
		return
	}
	body(0, len(st.grains))
}

func (st *stepState) totalBurnArea() float64 {
	total := 0.0
	for _, a := range st.area {
		total += a
	}
	return total
}

func (st *stepState) initialBurnArea() float64 {
	total := 0.0
	for _, g := range st.grains {
		if g.Burning() {
			total += g.BurnArea()
		}
	}
	return total
}

func (st *stepState) propellantMass() float64 {
	total := 0.0
	for _, g := range st.grains {
		total += g.Volume() * st.density
	}
	return total
}

// massProperties returns system mass and center of gravity measured from the
// head end. A grain with one burning end loses length from its aft face, two
// ends regress symmetrically.
func (st *stepState) massProperties(casing *motor.Case) (mass, cg float64) {
	mass = casing.Mass()
	moment := casing.Mass() * casing.Centroid()

	for i, g := range st.grains {
		m := g.Volume() * st.density

		headLoss := 0.0
		if g.BurningEnds() == 2 {
			headLoss = g.LengthRegression() / 2
		}
		centroid := st.start[i] + headLoss + g.Length()/2

		mass += m
		moment += m * centroid
	}

	if mass == 0 {
		return 0, casing.Centroid()
	}
	return mass, moment / mass
}
