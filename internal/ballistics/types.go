package ballistics

// StandardGravity is the weight of one pound-mass, in lbf, at standard
// gravity. It turns propellant mass into the weight used for ISP.
const StandardGravity = 1.0

// Snapshot is the immutable record of one timestep.
type Snapshot struct {
	Step int     `json:"step"`
	Time float64 `json:"time"`

	ChamberPressure float64 `json:"chamber_pressure"`
	BurnArea        float64 `json:"burn_area"`
	BurnRate        float64 `json:"burn_rate"`
	Kn              float64 `json:"kn"`

	MassGeneratedOverall float64   `json:"mass_generated_overall"`
	MassGenerated        []float64 `json:"mass_generated"`
	PortToThroat         []float64 `json:"port_to_throat"`
	MassFlux             []float64 `json:"mass_flux"`
	EntranceMassFlux     float64   `json:"entrance_mass_flux"`
	ThroatMassFlux       float64   `json:"throat_mass_flux"`

	LStar           float64 `json:"l_star"`
	SystemMass      float64 `json:"system_mass"`
	CenterOfGravity float64 `json:"center_of_gravity"`
	Thrust          float64 `json:"thrust"`

	Burning     []bool `json:"burning"`
	NonPhysical bool   `json:"non_physical,omitempty"`
}

// Config holds the per-run inputs that are not hardware.
type Config struct {
	Dt       float64
	Density  float64
	MaxSteps int
	Parallel bool
}

const DefaultMaxSteps = 10_000_000

func DefaultConfig() Config {
	return Config{
		Dt:       0.01,
		Density:  0.0614,
		MaxSteps: DefaultMaxSteps,
	}
}

// Result is the trace of a run. Snapshots is append-only during the run and
// indexed by step-1.
type Result struct {
	Snapshots    []Snapshot         `json:"snapshots"`
	Warnings     []error            `json:"-"`
	Metrics      map[string]float64 `json:"metrics"`
	BurnoutTimes []float64          `json:"burnout_times"`
	StepsTaken   int                `json:"steps_taken"`

	Dt                    float64 `json:"dt"`
	Density               float64 `json:"density"`
	InitialPropellantMass float64 `json:"initial_propellant_mass"`
	InitialSystemMass     float64 `json:"initial_system_mass"`
}

// Final returns the last snapshot, or false for an empty trace.
func (r *Result) Final() (Snapshot, bool) {
	if len(r.Snapshots) == 0 {
		return Snapshot{}, false
	}
	return r.Snapshots[len(r.Snapshots)-1], true
}

// Metric reduces the snapshot stream to one number.
type Metric interface {
	Name() string
	Observe(s Snapshot)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s Snapshot)
}
