package ballistics

import (
	"errors"
	"fmt"
)

var (
	// ErrNonPhysicalResult flags a Kn outside the correlation's calibration
	// window. It is a warning: the run continues.
	ErrNonPhysicalResult = errors.New("burnsim: non-physical result (Kn outside calibration range)")

	// ErrStepLimit indicates the run hit Config.MaxSteps before burnout.
	ErrStepLimit = errors.New("burnsim: step limit reached before burnout")

	// ErrNoGrains indicates a run with an empty grain list.
	ErrNoGrains = errors.New("burnsim: no grains to simulate")

	// ErrAlreadyRun indicates a Simulator was run twice; grains are consumed by a run.
	ErrAlreadyRun = errors.New("burnsim: simulator already run")

	// ErrInvalidConfig indicates a bad timestep or step limit.
	ErrInvalidConfig = errors.New("burnsim: invalid run configuration")
)

// SimulationError wraps an error with the step, time and grain it occurred at.
// Grain is -1 when the error is not tied to one grain.
type SimulationError struct {
	Step    int
	Time    float64
	Grain   int
	Wrapped error
}

func (e *SimulationError) Error() string {
	if e.Grain >= 0 {
		return fmt.Sprintf("step %d (t=%.4f) grain %d: %v", e.Step, e.Time, e.Grain, e.Wrapped)
	}
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
