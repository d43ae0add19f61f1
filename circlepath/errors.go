package circlepath

import (
	"errors"
	"fmt"
)

// NewInvalidRadiusError returns an error for a circle radius outside (0, ∞).
func NewInvalidRadiusError(radius float64) error {
	return fmt.Errorf("circle radius must be positive, got %v", radius)
}

// NewInvalidAngularStepError returns an error for an angular step outside
// (0, 2π].
func NewInvalidAngularStepError(step float64) error {
	return fmt.Errorf("angular step must be in (0, 2π] radians, got %v", step)
}

// NewZeroAxisError returns an error for an axis vector that cannot be
// normalized.
func NewZeroAxisError(name string) error {
	return fmt.Errorf("%s axis is zero length and cannot be normalized", name)
}

// NewZeroNormalError returns an error for a zero-length waypoint normal.
func NewZeroNormalError(index int) error {
	return fmt.Errorf("normal for waypoint %d is zero length and cannot be normalized", index)
}

// NewNormalCountError returns an error for a normal source holding fewer
// normals than the path has waypoints.
func NewNormalCountError(count, index int) error {
	return fmt.Errorf("normal source holds %d normals but waypoint %d was requested", count, index)
}

// NewNonUnitQuaternionError returns an error for an orientation quaternion
// whose norm is not 1.
func NewNonUnitQuaternionError(norm float64) error {
	return fmt.Errorf("orientation quaternion has norm %v, must be unit", norm)
}

// NewNilPoseError returns an error for a nil pose at a conversion boundary.
func NewNilPoseError() error {
	return errors.New("pose is nil")
}
