package ballistics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// NewtonSecondsPerPoundSecond converts total impulse to the unit of the
// motor class table.
const NewtonSecondsPerPoundSecond = 4.4482216152605

// Summary is the end-of-run reduction of a trace. Impulse, thrust and
// pressure are in lbf·s, lbf and psi.
type Summary struct {
	Classification   string  `json:"classification"`
	Designation      string  `json:"designation"`
	ISP              float64 `json:"isp"`
	MassFraction     float64 `json:"mass_fraction"`
	TotalImpulse     float64 `json:"total_impulse"`
	TotalImpulseNs   float64 `json:"total_impulse_ns"`
	AverageThrust    float64 `json:"average_thrust"`
	PeakThrust       float64 `json:"peak_thrust"`
	PeakPressure     float64 `json:"peak_pressure"`
	BurnTime         float64 `json:"burn_time"`
	PropellantMass   float64 `json:"propellant_mass"`
	NonPhysicalSteps int     `json:"non_physical_steps"`
}

// Summarize integrates the trace with the rectangular rule. An empty trace
// gives the zero Summary.
func Summarize(r *Result) Summary {
	if r == nil || len(r.Snapshots) == 0 {
		return Summary{}
	}

	n := len(r.Snapshots)
	thrust := make([]float64, n)
	pressure := make([]float64, n)
	generated := make([]float64, n)
	var s Summary
	for i, snap := range r.Snapshots {
		thrust[i] = snap.Thrust
		pressure[i] = snap.ChamberPressure
		generated[i] = snap.MassGeneratedOverall
		if snap.NonPhysical {
			s.NonPhysicalSteps++
		}
	}

	s.TotalImpulse = r.Dt * floats.Sum(thrust)
	s.TotalImpulseNs = s.TotalImpulse * NewtonSecondsPerPoundSecond
	s.PeakThrust = floats.Max(thrust)
	s.PeakPressure = floats.Max(pressure)
	s.BurnTime = r.Snapshots[n-1].Time
	s.PropellantMass = floats.Sum(generated)

	if s.BurnTime > 0 {
		s.AverageThrust = s.TotalImpulse / s.BurnTime
	}
	if s.PropellantMass > 0 {
		s.ISP = s.TotalImpulse / (s.PropellantMass * StandardGravity)
	}
	if r.InitialSystemMass > 0 {
		s.MassFraction = r.InitialPropellantMass / r.InitialSystemMass
	}

	s.Classification = Classify(s.TotalImpulseNs)
	if s.Classification != "" {
		s.Designation = fmt.Sprintf("%s%d", s.Classification, int(math.Round(s.AverageThrust*NewtonSecondsPerPoundSecond)))
	}
	return s
}

type impulseClass struct {
	letter string
	upper  float64 // N·s, inclusive
}

var impulseClasses = buildImpulseClasses()

// buildImpulseClasses lays out the standard motor letter table: 1/4A and 1/2A
// below A, then each letter doubles the total impulse of the one before,
// starting at 2.5 N·s for A.
func buildImpulseClasses() []impulseClass {
	classes := []impulseClass{
		{"1/4A", 0.625},
		{"1/2A", 1.25},
	}
	upper := 2.5
	for c := 'A'; c <= 'Z'; c++ {
		classes = append(classes, impulseClass{letter: string(c), upper: upper})
		upper *= 2
	}
	return classes
}

// Classify returns the motor class for a total impulse in N·s. Impulse at
// or below zero has no class; anything past the top of the table is Z.
func Classify(impulseNs float64) string {
	if !(impulseNs > 0) {
		return ""
	}
	for _, c := range impulseClasses {
		if impulseNs <= c.upper {
			return c.letter
		}
	}
	return impulseClasses[len(impulseClasses)-1].letter
}
