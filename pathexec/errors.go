package pathexec

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrPartialPath reports that planning covered only part of the requested
// weld path while full coverage was required.
var ErrPartialPath = errors.New("planner did not reach every waypoint")

var (
	errNoWaypoints = errors.New("no waypoints to interpolate")
	errNoPlan      = errors.New("no plan to execute")
)

// NewStartLengthError returns an error for a start configuration whose
// length does not match the model's degrees of freedom.
func NewStartLengthError(got, want int) error {
	return fmt.Errorf("start configuration has %d inputs but the arm has %d degrees of freedom", got, want)
}
