package pathexec

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/referenceframe"

	"github.com/viam-labs/welding-demo/circlepath"
	"github.com/viam-labs/welding-demo/viz"
)

// Driver owns one weld cycle: generate the circular waypoints, plan a
// trajectory through them, show both, and move the arm. Visualization
// failures are logged and never stop the cycle.
type Driver struct {
	Path    circlepath.Spec
	Normals circlepath.NormalSource
	Interp  Interpolator
	Exec    Executor
	Sink    viz.Sink
	Logger  logging.Logger

	Start      []referenceframe.Input
	WorldState *referenceframe.WorldState
	Options    Options

	// RequireFullPath refuses to execute plans covering less than the
	// whole path. A partial weld seam is worse than no weld at all.
	RequireFullPath bool
}

// Plan generates the waypoints and plans a trajectory through them. The
// waypoints are drawn before planning so a failed plan still leaves the
// target path visible.
func (d *Driver) Plan(ctx context.Context) (*Result, error) {
	poses, err := circlepath.GenerateWithNormals(d.Path, d.Normals)
	if err != nil {
		return nil, err
	}
	sink := d.sink()
	if err := multierr.Combine(sink.Clear(), sink.DrawWaypoints(poses)); err != nil {
		d.logger().Warnw("waypoint visualization failed", "error", err)
	}
	res, err := d.Interp.Interpolate(ctx, &Request{
		Waypoints:  poses,
		Start:      d.Start,
		WorldState: d.WorldState,
		Options:    d.Options,
	})
	if err != nil {
		return nil, err
	}
	if res.Fraction < 1 {
		d.logger().Warnf("planned %.1f%% of weld path", res.Fraction*100)
	} else {
		d.logger().Infof("planned full weld path, %d trajectory steps", len(res.Plan.Trajectory()))
	}
	return res, nil
}

// Execute animates and runs a planned trajectory. With RequireFullPath set,
// partial plans return ErrPartialPath instead of moving the arm.
func (d *Driver) Execute(ctx context.Context, res *Result) error {
	if d.RequireFullPath && res.Fraction < 1 {
		return errors.Wrapf(ErrPartialPath, "%.1f%% planned", res.Fraction*100)
	}
	if err := d.sink().DrawTrajectory(ctx, res.FrameSystem, d.WorldState, res.Plan.Trajectory()); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		d.logger().Warnw("trajectory visualization failed", "error", err)
	}
	if d.Exec == nil {
		return nil
	}
	return d.Exec.Execute(ctx, res)
}

// Run plans and executes one weld cycle.
func (d *Driver) Run(ctx context.Context) error {
	res, err := d.Plan(ctx)
	if err != nil {
		return err
	}
	return d.Execute(ctx, res)
}

func (d *Driver) logger() logging.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return logging.Global()
}

func (d *Driver) sink() viz.Sink {
	if d.Sink != nil {
		return d.Sink
	}
	return viz.Nop{}
}
