// Package circlepath generates circular Cartesian waypoint sequences for an
// arm end effector, with each waypoint's orientation aligned to a surface
// normal. The circle lies in a plane perpendicular to the z axis of the
// planning frame.
package circlepath

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/rdk/spatialmath"
)

// singularEps bounds the cross-product norm below which two axes are treated
// as parallel or anti-parallel.
const singularEps = 1e-6

// Spec configures a circular path traced about a center point. All fields are
// read once per Generate call; a Spec carries no state between calls.
type Spec struct {
	// Center is the circle center in the planning frame.
	Center r3.Vector `json:"center"`
	// Radius sets the circle size. Must be positive.
	Radius float64 `json:"radius"`
	// AngularStep is the angle in radians between consecutive waypoints,
	// controlling point density. Must be in (0, 2π].
	AngularStep float64 `json:"angular_step"`
	// ForwardAxis is the direction from Center toward the first waypoint,
	// before any rotation about z. Normalized internally; must be nonzero.
	ForwardAxis r3.Vector `json:"forward_axis"`
	// FacingAxis is the end effector body axis that each waypoint's
	// orientation rotates onto the waypoint normal. Normalized internally;
	// must be nonzero.
	FacingAxis r3.Vector `json:"facing_axis"`
}

// Validate checks every field before any waypoint computation happens.
func (s Spec) Validate() error {
	if s.Radius <= 0 {
		return NewInvalidRadiusError(s.Radius)
	}
	if s.AngularStep <= 0 || s.AngularStep > 2*math.Pi {
		return NewInvalidAngularStepError(s.AngularStep)
	}
	if s.ForwardAxis.Norm() == 0 {
		return NewZeroAxisError("forward")
	}
	if s.FacingAxis.Norm() == 0 {
		return NewZeroAxisError("facing")
	}
	return nil
}

// WaypointCount returns the number of waypoints Generate emits for this
// spec, ceil(2π/AngularStep). The closing waypoint at θ=2π is never emitted:
// when AngularStep divides 2π evenly the sequence stops one step short, so
// regenerating the path or appending it to itself never duplicates a pose.
func (s Spec) WaypointCount() int {
	return int(math.Ceil(2 * math.Pi / s.AngularStep))
}

// Generate produces the waypoint poses for spec using the analytic circular
// normal rule. Identical specs produce identical sequences; the computation
// is pure and callers may invoke it concurrently.
func Generate(spec Spec) ([]spatialmath.Pose, error) {
	return GenerateWithNormals(spec, nil)
}

// GenerateWithNormals produces the waypoint poses for spec, taking each
// waypoint's normal from the given source. A nil source falls back to
// AnalyticCircular over the spec's forward axis.
//
// Waypoint i sits at Center + Rz(i·AngularStep)·(ForwardAxis·Radius), with an
// orientation carrying FacingAxis onto the normal by the shortest arc.
func GenerateWithNormals(spec Spec, normals NormalSource) ([]spatialmath.Pose, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if normals == nil {
		normals = AnalyticCircular(spec.ForwardAxis)
	}

	forward := spec.ForwardAxis.Normalize()
	facing := spec.FacingAxis.Normalize()
	n := spec.WaypointCount()
	poses := make([]spatialmath.Pose, 0, n)
	for i := 0; i < n; i++ {
		// θ by multiplication, not accumulation, so the sequence is
		// bit-for-bit reproducible and free of drift at large counts.
		theta := float64(i) * spec.AngularStep
		pt := spec.Center.Add(rotateZ(forward.Mul(spec.Radius), theta))

		normal, err := normals.Normal(i, theta)
		if err != nil {
			return nil, err
		}
		norm := normal.Norm()
		if norm == 0 {
			return nil, NewZeroNormalError(i)
		}

		poses = append(poses, spatialmath.NewPose(pt, orientationTo(facing, normal.Mul(1/norm))))
	}
	return poses, nil
}

// rotateZ rotates v about the +z axis by theta radians.
func rotateZ(v r3.Vector, theta float64) r3.Vector {
	sin, cos := math.Sincos(theta)
	return r3.Vector{X: v.X*cos - v.Y*sin, Y: v.X*sin + v.Y*cos, Z: v.Z}
}

// orientationTo returns the minimal rotation carrying the unit vector from
// onto the unit vector to. Parallel inputs yield the identity. Anti-parallel
// inputs are singular (the cross product vanishes) and resolve to a π
// rotation about a stable perpendicular of from: (y,−x,0) when x or y is
// nonzero, otherwise (0,z,−y).
func orientationTo(from, to r3.Vector) spatialmath.Orientation {
	cross := from.Cross(to)
	sin := cross.Norm()
	cos := from.Dot(to)
	if sin <= singularEps {
		if cos >= 0 {
			return spatialmath.NewZeroOrientation()
		}
		perp := stablePerpendicular(from)
		return &spatialmath.R4AA{Theta: math.Pi, RX: perp.X, RY: perp.Y, RZ: perp.Z}
	}
	axis := cross.Mul(1 / sin)
	return &spatialmath.R4AA{Theta: math.Atan2(sin, cos), RX: axis.X, RY: axis.Y, RZ: axis.Z}
}

// stablePerpendicular picks a deterministic unit vector perpendicular to v.
func stablePerpendicular(v r3.Vector) r3.Vector {
	if v.X != 0 || v.Y != 0 {
		return r3.Vector{X: v.Y, Y: -v.X}.Normalize()
	}
	return r3.Vector{Y: v.Z, Z: -v.Y}.Normalize()
}
