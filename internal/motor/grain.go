package motor

import (
	"fmt"
	"math"
)

// Kind names a grain profile.
type Kind string

const (
	KindCylindrical Kind = "cylindrical"
	KindStar        Kind = "star"
)

// Geometry is the capability the stepper needs from a grain. New profiles
// implement it without any change to the stepper.
type Geometry interface {
	Kind() Kind

	Volume() float64
	BurnArea() float64

	// Regress consumes propellant for dt seconds at burnRate and returns the
	// volume burnt. The grain's burn clock advances by dt.
	Regress(burnRate, dt float64) (float64, error)

	InnerFlowArea() float64
	InnerFlowVolume() float64
	LengthRegression() float64

	Length() float64
	InitialLength() float64
	OuterDiameter() float64
	InnerDiameter() float64
	BurningEnds() int

	Burning() bool
	// BurnoutTime is NaN until the grain burns out.
	BurnoutTime() float64

	// Clone returns a fresh, unburnt copy of the grain's initial geometry.
	Clone() Geometry
}

// Spec holds the construction inputs shared by every grain profile.
type Spec struct {
	Kind          Kind    `json:"kind" yaml:"kind"`
	Length        float64 `json:"length" yaml:"length"`
	OuterDiameter float64 `json:"outer_diameter" yaml:"outer_diameter"`
	InnerDiameter float64 `json:"inner_diameter" yaml:"inner_diameter"`
	BurningEnds   int     `json:"burning_ends" yaml:"burning_ends"`
}

// NewGeometry builds a grain of the requested profile. An empty kind means
// cylindrical.
func NewGeometry(s Spec) (Geometry, error) {
	switch s.Kind {
	case KindCylindrical, "":
		return NewCylindrical(s.Length, s.OuterDiameter, s.InnerDiameter, s.BurningEnds)
	case KindStar:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedGeometry, s.Kind)
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrUnsupportedGeometry, s.Kind)
	}
}

// Cylindrical is a hollow cylinder burning on its bore and on zero, one or
// two end faces.
type Cylindrical struct {
	length        float64
	outerDiameter float64
	innerDiameter float64
	initialLength float64
	initialInner  float64
	burningEnds   int

	burning     bool
	clock       float64
	burnoutTime float64
}

func NewCylindrical(length, outerDiameter, innerDiameter float64, burningEnds int) (*Cylindrical, error) {
	const part = "grain"
	switch {
	case !(outerDiameter > 0):
		return nil, invalid(part, "outer diameter", outerDiameter, "must be positive")
	case !(innerDiameter > 0):
		return nil, invalid(part, "inner diameter", innerDiameter, "must be positive")
	case innerDiameter >= outerDiameter:
		return nil, invalid(part, "inner diameter", innerDiameter, "must be less than outer diameter")
	case !(length >= 0) || math.IsInf(length, 0):
		return nil, invalid(part, "length", length, "must be finite and not negative")
	case burningEnds < 0 || burningEnds > 2:
		return nil, invalid(part, "burning ends", float64(burningEnds), "must be 0, 1 or 2")
	}

	return &Cylindrical{
		length:        length,
		outerDiameter: outerDiameter,
		innerDiameter: innerDiameter,
		initialLength: length,
		initialInner:  innerDiameter,
		burningEnds:   burningEnds,
		burning:       true,
		burnoutTime:   math.NaN(),
	}, nil
}

func (g *Cylindrical) Kind() Kind { return KindCylindrical }

func (g *Cylindrical) Volume() float64 {
	ro := g.outerDiameter / 2
	ri := g.innerDiameter / 2
	return math.Pi * g.length * (ro*ro - ri*ri)
}

func (g *Cylindrical) BurnArea() float64 {
	ro := g.outerDiameter / 2
	ri := g.innerDiameter / 2

	face := math.Pi * float64(g.burningEnds) * (ro*ro - ri*ri)
	bore := 2 * math.Pi * ri * g.length

	return math.Max(face+bore, 0)
}

func (g *Cylindrical) Regress(burnRate, dt float64) (float64, error) {
	initialVolume := g.Volume()
	prevLength, prevInner := g.length, g.innerDiameter

	g.length = math.Max(0, g.length-float64(g.burningEnds)*burnRate*dt)
	g.innerDiameter = math.Min(g.outerDiameter, g.innerDiameter+2*burnRate*dt)

	newVolume := g.Volume()
	if newVolume > initialVolume || math.IsNaN(newVolume) {
		g.length, g.innerDiameter = prevLength, prevInner
		return 0, fmt.Errorf("%w: volume %g -> %g (burn rate %g, dt %g)",
			ErrNumericalInconsistency, initialVolume, newVolume, burnRate, dt)
	}

	g.clock += dt
	if g.innerDiameter == g.outerDiameter && g.burning {
		g.burning = false
		if math.IsNaN(g.burnoutTime) {
			g.burnoutTime = g.clock
		}
	}

	return initialVolume - newVolume, nil
}

func (g *Cylindrical) InnerFlowArea() float64 {
	ri := g.innerDiameter / 2
	return math.Pi * ri * ri
}

func (g *Cylindrical) InnerFlowVolume() float64 {
	return g.InnerFlowArea() * g.length
}

func (g *Cylindrical) LengthRegression() float64 {
	return g.initialLength - g.length
}

func (g *Cylindrical) Length() float64        { return g.length }
func (g *Cylindrical) InitialLength() float64 { return g.initialLength }
func (g *Cylindrical) OuterDiameter() float64 { return g.outerDiameter }
func (g *Cylindrical) InnerDiameter() float64 { return g.innerDiameter }
func (g *Cylindrical) BurningEnds() int       { return g.burningEnds }
func (g *Cylindrical) Burning() bool          { return g.burning }
func (g *Cylindrical) BurnoutTime() float64   { return g.burnoutTime }

func (g *Cylindrical) Clone() Geometry {
	return &Cylindrical{
		length:        g.initialLength,
		outerDiameter: g.outerDiameter,
		innerDiameter: g.initialInner,
		initialLength: g.initialLength,
		initialInner:  g.initialInner,
		burningEnds:   g.burningEnds,
		burning:       true,
		burnoutTime:   math.NaN(),
	}
}
