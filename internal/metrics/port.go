package metrics

import (
	"math"

	"github.com/san-kum/burnsim/internal/ballistics"
)

// MinPortToThroat is the smallest port-to-throat ratio seen on any grain.
// Values near 1 mean the port chokes before the nozzle does.
type MinPortToThroat struct {
	name string
	min  float64
}

func NewMinPortToThroat() *MinPortToThroat {
	return &MinPortToThroat{
		name: "min_port_to_throat",
		min:  math.Inf(1),
	}
}

func (m *MinPortToThroat) Name() string {
	return m.name
}

func (m *MinPortToThroat) Observe(s ballistics.Snapshot) {
	for _, r := range s.PortToThroat {
		m.min = math.Min(m.min, r)
	}
}

func (m *MinPortToThroat) Value() float64 {
	if math.IsInf(m.min, 1) {
		return 0
	}
	return m.min
}

func (m *MinPortToThroat) Reset() {
	m.min = math.Inf(1)
}
