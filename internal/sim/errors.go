package sim

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors for simulation construction and runs.
var (
	// ErrNotImplemented indicates a simulation without a data generator.
	ErrNotImplemented = errors.New("sim: no data generator provided")

	// ErrKinematicLimit indicates a pointing faster than the mount allows.
	ErrKinematicLimit = errors.New("sim: kinematic limit exceeded")

	// ErrInvalidParameter indicates a keyword that matches no namespace.
	ErrInvalidParameter = errors.New("sim: invalid simulation parameter")

	// ErrNotConstructed indicates Run was called before Construct.
	ErrNotConstructed = errors.New("sim: simulation not constructed")
)

// KinematicLimitError describes one exceeded limit. Values are rad/s or
// rad/s^2.
type KinematicLimitError struct {
	Quantity string // "velocity" or "acceleration"
	Value    float64
	Limit    float64
}

func (e *KinematicLimitError) Error() string {
	return fmt.Sprintf("pointing %s %.4g exceeds instrument limit %.4g", e.Quantity, e.Value, e.Limit)
}

func (e *KinematicLimitError) Unwrap() error { return ErrKinematicLimit }

type InvalidSimulationParameterError struct {
	Key        string
	Namespaces []string
}

func (e *InvalidSimulationParameterError) Error() string {
	return fmt.Sprintf("parameter '%s' is not valid for any of %s", e.Key, strings.Join(e.Namespaces, ", "))
}

func (e *InvalidSimulationParameterError) Unwrap() error { return ErrInvalidParameter }
