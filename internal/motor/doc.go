// Package motor describes the hardware of a solid rocket motor: propellant
// grains, the nozzle and the case.
//
// Grains are mutable. Each one implements [Geometry] and owns its own
// dimensions, which shrink as the ballistics stepper calls [Geometry.Regress].
// Nozzle and Case are immutable value types validated at construction.
//
//   - [Cylindrical]: hollow cylindrical (BATES) grain
//   - [Nozzle]: throat, entrance and exit geometry plus thrust coefficient
//   - [Case]: case mass and envelope
//
// All lengths are inches, areas in², volumes in³ and masses lbm.
package motor
