// Package viz renders weld paths and planned trajectories on a motion-tools
// visualization server. Display is best effort and feeds nothing back into
// planning; callers treat every error here as advisory.
package viz

import (
	"context"
	"time"

	"github.com/pkg/errors"
	motiontools "github.com/viam-labs/motion-tools/client/client"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"

	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/motionplan"
	"go.viam.com/rdk/referenceframe"
	"go.viam.com/rdk/spatialmath"
)

// Sink receives poses and trajectories for display only.
type Sink interface {
	// Clear removes everything previously drawn.
	Clear() error
	// DrawWaypoints displays a generated waypoint sequence.
	DrawWaypoints(poses []spatialmath.Pose) error
	// DrawTrajectory animates a planned trajectory by stepping the frame
	// system through each configuration, drawing the world state alongside
	// when one is present.
	DrawTrajectory(ctx context.Context, fs *referenceframe.FrameSystem, ws *referenceframe.WorldState, traj motionplan.Trajectory) error
}

// frameRenderPeriod paces trajectory animation frames.
const frameRenderPeriod = 50 * time.Millisecond

// MotionToolsSink draws on a local motion-tools server.
type MotionToolsSink struct {
	logger logging.Logger

	// WaypointColor names the marker color for waypoint arrows.
	WaypointColor string
}

// NewMotionToolsSink returns a sink drawing on the local motion-tools server.
func NewMotionToolsSink(logger logging.Logger) *MotionToolsSink {
	return &MotionToolsSink{logger: logger, WaypointColor: "blue"}
}

// Clear removes all spatial objects from the server.
func (s *MotionToolsSink) Clear() error {
	return motiontools.RemoveAllSpatialObjects()
}

// DrawWaypoints draws one arrow per waypoint, head at the pose.
func (s *MotionToolsSink) DrawWaypoints(poses []spatialmath.Pose) error {
	if len(poses) == 0 {
		return nil
	}
	for i, p := range poses {
		s.logger.Debugf("pt%d at %v", i, p.Point())
	}
	arrowHeadAtPose := true
	return motiontools.DrawPoses(poses, []string{s.WaypointColor}, arrowHeadAtPose)
}

// DrawTrajectory animates the trajectory at frameRenderPeriod per step,
// interpolating two midpoints into each segment so the motion reads smoothly.
func (s *MotionToolsSink) DrawTrajectory(
	ctx context.Context,
	fs *referenceframe.FrameSystem,
	ws *referenceframe.WorldState,
	traj motionplan.Trajectory,
) error {
	if len(traj) == 0 {
		return nil
	}
	s.logger.Infof("rendering trajectory: %d steps, approx %v",
		len(traj), time.Duration(len(traj))*frameRenderPeriod)
	for idx, step := range traj {
		if idx > 0 {
			mids, err := motionplan.InterpolateSegmentFS(&motionplan.SegmentFS{
				StartConfiguration: traj[idx-1],
				EndConfiguration:   step,
				FS:                 fs,
			}, 2)
			if err != nil {
				return err
			}
			for _, mid := range mids {
				if err := s.drawStep(fs, ws, mid); err != nil {
					return errors.Wrapf(err, "trajectory step %d", idx)
				}
			}
			if !goutils.SelectContextOrWait(ctx, frameRenderPeriod) {
				return ctx.Err()
			}
		}
		if err := s.drawStep(fs, ws, step); err != nil {
			return errors.Wrapf(err, "trajectory step %d", idx)
		}
		if !goutils.SelectContextOrWait(ctx, frameRenderPeriod) {
			return ctx.Err()
		}
	}
	return nil
}

func (s *MotionToolsSink) drawStep(
	fs *referenceframe.FrameSystem,
	ws *referenceframe.WorldState,
	inputs referenceframe.FrameSystemInputs,
) error {
	if ws == nil {
		return motiontools.DrawFrameSystem(fs, inputs)
	}
	// Obstacles can live in frames within the frame system, so the world
	// state draw needs the configuration too.
	return multierr.Combine(
		motiontools.DrawWorldState(ws, fs, inputs),
		motiontools.DrawFrameSystem(fs, inputs),
	)
}

// Nop discards everything, for headless runs.
type Nop struct{}

// Clear does nothing.
func (Nop) Clear() error { return nil }

// DrawWaypoints does nothing.
func (Nop) DrawWaypoints([]spatialmath.Pose) error { return nil }

// DrawTrajectory does nothing.
func (Nop) DrawTrajectory(context.Context, *referenceframe.FrameSystem, *referenceframe.WorldState, motionplan.Trajectory) error {
	return nil
}
