package circlepath

import (
	"math"

	"github.com/golang/geo/r3"
)

// NormalSource yields the surface normal each waypoint's facing axis is
// aligned to. index is the waypoint ordinal and theta its angle about the
// circle; implementations may use either. Returned normals must be nonzero
// but need not be unit length.
type NormalSource interface {
	Normal(index int, theta float64) (r3.Vector, error)
}

// AnalyticCircular is a stand-in for a real surface-normal source: the
// forward axis rotated about z by π−θ. At θ=0 and θ=π this points from the
// waypoint toward the circle center; at other angles it mirrors the true
// center direction across the plane of the forward axis. A production
// application would supply normals sampled from scan or CAD data instead,
// via SuppliedNormals.
func AnalyticCircular(forward r3.Vector) NormalSource {
	return &analyticCircular{forward: forward}
}

type analyticCircular struct {
	forward r3.Vector
}

func (s *analyticCircular) Normal(_ int, theta float64) (r3.Vector, error) {
	if s.forward.Norm() == 0 {
		return r3.Vector{}, NewZeroAxisError("forward")
	}
	return rotateZ(s.forward.Normalize(), math.Pi-theta), nil
}

// SuppliedNormals serves externally computed per-waypoint normals, one per
// waypoint in order.
func SuppliedNormals(normals []r3.Vector) NormalSource {
	return &suppliedNormals{normals: normals}
}

type suppliedNormals struct {
	normals []r3.Vector
}

func (s *suppliedNormals) Normal(index int, _ float64) (r3.Vector, error) {
	if index < 0 || index >= len(s.normals) {
		return r3.Vector{}, NewNormalCountError(len(s.normals), index)
	}
	if s.normals[index].Norm() == 0 {
		return r3.Vector{}, NewZeroNormalError(index)
	}
	return s.normals[index], nil
}
