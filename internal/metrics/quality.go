package metrics

import "github.com/san-kum/burnsim/internal/ballistics"

// NonPhysicalFraction is the share of steps whose Kn fell outside the
// correlation's calibration window.
type NonPhysicalFraction struct {
	name    string
	flagged int
	samples int
}

func NewNonPhysicalFraction() *NonPhysicalFraction {
	return &NonPhysicalFraction{
		name: "non_physical_fraction",
	}
}

func (n *NonPhysicalFraction) Name() string {
	return n.name
}

func (n *NonPhysicalFraction) Observe(s ballistics.Snapshot) {
	n.samples++
	if s.NonPhysical {
		n.flagged++
	}
}

func (n *NonPhysicalFraction) Value() float64 {
	if n.samples == 0 {
		return 0
	}
	return float64(n.flagged) / float64(n.samples)
}

func (n *NonPhysicalFraction) Reset() {
	n.flagged = 0
	n.samples = 0
}
