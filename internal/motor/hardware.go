package motor

import "math"

// Nozzle is the immutable nozzle geometry. Areas are derived once at
// construction.
type Nozzle struct {
	throatDiameter   float64
	entranceDiameter float64
	exitDiameter     float64
	cf               float64

	throatArea   float64
	entranceArea float64
	exitArea     float64

	entranceID int
	throatID   int
}

// NewNozzle validates the nozzle dimensions. numGrains places the nozzle
// entrance and throat after the grain ports in the flow path.
func NewNozzle(throatDiameter, entranceDiameter, exitDiameter, cf float64, numGrains int) (*Nozzle, error) {
	const part = "nozzle"
	switch {
	case !(throatDiameter > 0):
		return nil, invalid(part, "throat diameter", throatDiameter, "must be positive")
	case !(entranceDiameter > 0):
		return nil, invalid(part, "entrance diameter", entranceDiameter, "must be positive")
	case !(exitDiameter > 0):
		return nil, invalid(part, "exit diameter", exitDiameter, "must be positive")
	case !(cf > 0):
		return nil, invalid(part, "cf", cf, "must be positive")
	case numGrains < 0:
		return nil, invalid(part, "grain count", float64(numGrains), "must not be negative")
	}

	return &Nozzle{
		throatDiameter:   throatDiameter,
		entranceDiameter: entranceDiameter,
		exitDiameter:     exitDiameter,
		cf:               cf,
		throatArea:       circleArea(throatDiameter),
		entranceArea:     circleArea(entranceDiameter),
		exitArea:         circleArea(exitDiameter),
		entranceID:       numGrains + 1,
		throatID:         numGrains + 2,
	}, nil
}

func (n *Nozzle) ThroatDiameter() float64   { return n.throatDiameter }
func (n *Nozzle) EntranceDiameter() float64 { return n.entranceDiameter }
func (n *Nozzle) ExitDiameter() float64     { return n.exitDiameter }
func (n *Nozzle) Cf() float64               { return n.cf }
func (n *Nozzle) ThroatArea() float64       { return n.throatArea }
func (n *Nozzle) EntranceArea() float64     { return n.entranceArea }
func (n *Nozzle) ExitArea() float64         { return n.exitArea }
func (n *Nozzle) EntranceID() int           { return n.entranceID }
func (n *Nozzle) ThroatID() int             { return n.throatID }

// ExpansionRatio is exit area over throat area.
func (n *Nozzle) ExpansionRatio() float64 {
	return n.exitArea / n.throatArea
}

// Case is the immutable motor casing.
type Case struct {
	mass     float64
	diameter float64
	length   float64
}

func NewCase(mass, diameter, length float64) (*Case, error) {
	const part = "case"
	switch {
	case !(mass >= 0) || math.IsInf(mass, 0):
		return nil, invalid(part, "mass", mass, "must be finite and not negative")
	case !(diameter > 0):
		return nil, invalid(part, "diameter", diameter, "must be positive")
	case !(length > 0):
		return nil, invalid(part, "length", length, "must be positive")
	}
	return &Case{mass: mass, diameter: diameter, length: length}, nil
}

func (c *Case) Mass() float64     { return c.mass }
func (c *Case) Diameter() float64 { return c.diameter }
func (c *Case) Length() float64   { return c.length }

// Centroid is the case's own center of gravity, measured from the head end.
func (c *Case) Centroid() float64 { return c.length / 2 }

func circleArea(d float64) float64 {
	r := d / 2
	return math.Pi * r * r
}
