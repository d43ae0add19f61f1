package circlepath

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/rdk/spatialmath"
)

// nonUnitOrientation reports a quaternion off the unit sphere while
// delegating every other representation to the identity.
type nonUnitOrientation struct {
	spatialmath.Orientation
	q quat.Number
}

func (o *nonUnitOrientation) Quaternion() quat.Number { return o.q }

// orientationPose swaps a pose's orientation without touching its point.
type orientationPose struct {
	spatialmath.Pose
	o spatialmath.Orientation
}

func (p *orientationPose) Orientation() spatialmath.Orientation { return p.o }

func TestPoseProtoRoundTrip(t *testing.T) {
	poses, err := Generate(demoSpec())
	test.That(t, err, test.ShouldBeNil)

	protos, err := PosesToProto(poses)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(protos), test.ShouldEqual, len(poses))
	test.That(t, protos[0].X, test.ShouldAlmostEqual, 0.4, 1e-9)
	test.That(t, protos[0].Y, test.ShouldAlmostEqual, 0, 1e-9)
	test.That(t, protos[0].Z, test.ShouldAlmostEqual, 0.8, 1e-9)

	// Compare by action on probe vectors: the protobuf form goes through an
	// orientation-vector representation, which may hand back the flipped
	// quaternion of the same rotation.
	probes := []r3.Vector{{X: 1}, {Z: 1}}
	for i, pb := range protos {
		back, err := PoseFromProto(pb)
		test.That(t, err, test.ShouldBeNil)
		vectorsAlmostEqual(t, back.Point(), poses[i].Point(), 1e-9)
		for _, probe := range probes {
			vectorsAlmostEqual(t, rotate(back.Orientation(), probe), rotate(poses[i].Orientation(), probe), 1e-5)
		}
	}
}

func TestPoseToProtoRejects(t *testing.T) {
	_, err := PoseToProto(nil)
	test.That(t, err, test.ShouldNotBeNil)

	_, err = PoseFromProto(nil)
	test.That(t, err, test.ShouldNotBeNil)

	base := spatialmath.NewZeroPose()

	t.Run("zero quaternion", func(t *testing.T) {
		p := &orientationPose{base, &nonUnitOrientation{spatialmath.NewZeroOrientation(), quat.Number{}}}
		_, err := PoseToProto(p)
		test.That(t, err, test.ShouldNotBeNil)
	})

	t.Run("non-unit quaternion", func(t *testing.T) {
		p := &orientationPose{base, &nonUnitOrientation{spatialmath.NewZeroOrientation(), quat.Number{Real: 2}}}
		_, err := PoseToProto(p)
		test.That(t, err, test.ShouldNotBeNil)
	})

	t.Run("error carries through sequences", func(t *testing.T) {
		bad := &orientationPose{base, &nonUnitOrientation{spatialmath.NewZeroOrientation(), quat.Number{Real: 0.5}}}
		_, err := PosesToProto([]spatialmath.Pose{spatialmath.NewPoseFromPoint(r3.Vector{X: 1}), bad})
		test.That(t, err, test.ShouldNotBeNil)
	})
}
