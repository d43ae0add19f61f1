package circlepath

import (
	"math"

	commonpb "go.viam.com/api/common/v1"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/rdk/spatialmath"
)

// quatNormTol is the accepted deviation from unit norm for orientation
// quaternions crossing a conversion boundary.
const quatNormTol = 1e-6

// PoseToProto converts a pose to its protobuf form for consumption by
// planning and visualization services. Poses whose orientation quaternion is
// zero or not unit norm are rejected rather than silently renormalized.
func PoseToProto(p spatialmath.Pose) (*commonpb.Pose, error) {
	if p == nil {
		return nil, NewNilPoseError()
	}
	if err := checkQuaternion(p.Orientation().Quaternion()); err != nil {
		return nil, err
	}
	return spatialmath.PoseToProtobuf(p), nil
}

// PosesToProto converts a waypoint sequence to protobuf poses, in order.
func PosesToProto(poses []spatialmath.Pose) ([]*commonpb.Pose, error) {
	converted := make([]*commonpb.Pose, 0, len(poses))
	for _, p := range poses {
		pb, err := PoseToProto(p)
		if err != nil {
			return nil, err
		}
		converted = append(converted, pb)
	}
	return converted, nil
}

// PoseFromProto converts a protobuf pose back to a spatialmath pose.
func PoseFromProto(p *commonpb.Pose) (spatialmath.Pose, error) {
	if p == nil {
		return nil, NewNilPoseError()
	}
	return spatialmath.NewPoseFromProtobuf(p), nil
}

func checkQuaternion(q quat.Number) error {
	norm := quat.Abs(q)
	if math.Abs(norm-1) > quatNormTol {
		return NewNonUnitQuaternionError(norm)
	}
	return nil
}
