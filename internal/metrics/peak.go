package metrics

import (
	"math"

	"github.com/san-kum/burnsim/internal/ballistics"
)

// Peak tracks the largest value of one snapshot field.
type Peak struct {
	name    string
	extract func(s ballistics.Snapshot) float64
	max     float64
	samples int
}

func NewPeakPressure() *Peak {
	return &Peak{
		name:    "peak_pressure",
		extract: func(s ballistics.Snapshot) float64 { return s.ChamberPressure },
	}
}

func NewPeakThrust() *Peak {
	return &Peak{
		name:    "peak_thrust",
		extract: func(s ballistics.Snapshot) float64 { return s.Thrust },
	}
}

// NewPeakMassFlux watches the highest port mass flux of any grain, which
// for a head-to-aft chain is usually the aft grain.
func NewPeakMassFlux() *Peak {
	return &Peak{
		name: "peak_mass_flux",
		extract: func(s ballistics.Snapshot) float64 {
			peak := 0.0
			for _, f := range s.MassFlux {
				peak = math.Max(peak, f)
			}
			return peak
		},
	}
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) Observe(s ballistics.Snapshot) {
	v := p.extract(s)
	if p.samples == 0 || v > p.max {
		p.max = v
	}
	p.samples++
}

func (p *Peak) Value() float64 {
	if p.samples == 0 {
		return 0
	}
	return p.max
}

func (p *Peak) Reset() {
	p.max = 0
	p.samples = 0
}
