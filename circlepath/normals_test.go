package circlepath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestAnalyticCircular(t *testing.T) {
	source := AnalyticCircular(r3.Vector{X: 1})

	// π−θ rule: center-facing at θ=0 and θ=π, mirrored in between.
	cases := []struct {
		theta  float64
		normal r3.Vector
	}{
		{0, r3.Vector{X: -1}},
		{math.Pi / 2, r3.Vector{Y: 1}},
		{math.Pi, r3.Vector{X: 1}},
		{3 * math.Pi / 2, r3.Vector{Y: -1}},
	}
	for _, c := range cases {
		normal, err := source.Normal(0, c.theta)
		test.That(t, err, test.ShouldBeNil)
		vectorsAlmostEqual(t, normal, c.normal, 1e-9)
	}

	_, err := AnalyticCircular(r3.Vector{}).Normal(0, 0)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSuppliedNormals(t *testing.T) {
	spec := demoSpec()
	spec.AngularStep = math.Pi / 2

	normals := []r3.Vector{{Z: 1}, {Z: 1}, {Z: 1}, {Z: 1}}
	poses, err := GenerateWithNormals(spec, SuppliedNormals(normals))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(poses), test.ShouldEqual, 4)
	for _, p := range poses {
		// Facing +x onto +z is a quarter turn about −y.
		vectorsAlmostEqual(t, rotate(p.Orientation(), r3.Vector{X: 1}), r3.Vector{Z: 1}, 1e-6)
	}

	t.Run("too few normals", func(t *testing.T) {
		_, err := GenerateWithNormals(spec, SuppliedNormals(normals[:2]))
		test.That(t, err, test.ShouldNotBeNil)
	})

	t.Run("zero-length normal", func(t *testing.T) {
		bad := []r3.Vector{{Z: 1}, {}, {Z: 1}, {Z: 1}}
		_, err := GenerateWithNormals(spec, SuppliedNormals(bad))
		test.That(t, err, test.ShouldNotBeNil)
	})

	t.Run("scaling does not change direction", func(t *testing.T) {
		scaled := []r3.Vector{{Z: 2.5}, {Z: 2.5}, {Z: 2.5}, {Z: 2.5}}
		scaledPoses, err := GenerateWithNormals(spec, SuppliedNormals(scaled))
		test.That(t, err, test.ShouldBeNil)
		test.That(t, scaledPoses, test.ShouldResemble, poses)
	})
}
