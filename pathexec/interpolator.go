// Package pathexec turns Cartesian waypoint sequences into joint-space
// trajectories and runs them on an arm. All waypoints are planned as one
// multi-goal problem; callers receive the fraction of the path actually
// covered and decide what a partial result is worth.
package pathexec

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/motionplan"
	"go.viam.com/rdk/motionplan/armplanning"
	"go.viam.com/rdk/referenceframe"
	"go.viam.com/rdk/spatialmath"
)

// Options tune interpolation. Zero values fall back to the defaults below.
type Options struct {
	// MaxStepMM bounds the Cartesian distance between consecutive
	// trajectory steps, in mm.
	MaxStepMM float64 `json:"max_step_mm"`
	// JumpThreshold guards against joint-space jumps: a step whose L2
	// distance exceeds JumpThreshold times the mean step distance
	// truncates the trajectory there. Zero disables the check.
	JumpThreshold float64 `json:"jump_threshold"`
	// LineToleranceMM is the allowed deviation from the straight line
	// between waypoints, in mm.
	LineToleranceMM float64 `json:"line_tolerance_mm"`
	// OrientToleranceDegs is the allowed orientation drift between
	// waypoints, in degrees.
	OrientToleranceDegs float64 `json:"orient_tolerance_degs"`
	// Timeout bounds the planner run.
	Timeout time.Duration `json:"-"`
	// Seed fixes the planner's random seed so runs are repeatable.
	Seed int `json:"seed"`
}

const (
	defaultMaxStepMM      = 10.
	defaultLineTolMM      = 0.1
	defaultOrientTolDegs  = 2.0
	defaultPlannerTimeout = 90 * time.Second
)

func (o Options) withDefaults() Options {
	if o.MaxStepMM <= 0 {
		o.MaxStepMM = defaultMaxStepMM
	}
	if o.LineToleranceMM <= 0 {
		o.LineToleranceMM = defaultLineTolMM
	}
	if o.OrientToleranceDegs <= 0 {
		o.OrientToleranceDegs = defaultOrientTolDegs
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultPlannerTimeout
	}
	return o
}

// Request is one interpolation problem: reach every waypoint in order,
// starting from the given configuration.
type Request struct {
	Waypoints  []spatialmath.Pose
	Start      []referenceframe.Input
	WorldState *referenceframe.WorldState
	Options    Options
}

// Result carries a planned trajectory and how much of the requested path it
// covers. Fraction 1 means every waypoint was reached.
type Result struct {
	Plan     motionplan.Plan
	Fraction float64

	// FrameSystem and FrameName identify the planned arm so the same
	// frame system can be reused for display and execution.
	FrameSystem *referenceframe.FrameSystem
	FrameName   string
}

// Interpolator converts waypoint sequences into joint trajectories.
type Interpolator interface {
	Interpolate(ctx context.Context, req *Request) (*Result, error)
}

type planFunc func(
	ctx context.Context,
	logger logging.Logger,
	req *armplanning.PlanRequest,
) (motionplan.Plan, *armplanning.PlanMeta, error)

// PlannerInterpolator plans every waypoint as one multi-goal constrained
// motion problem, holding the tool on the straight line between waypoints.
type PlannerInterpolator struct {
	model  referenceframe.Model
	logger logging.Logger
	plan   planFunc
}

// NewPlannerInterpolator returns an interpolator planning against the given
// kinematic model.
func NewPlannerInterpolator(model referenceframe.Model, logger logging.Logger) *PlannerInterpolator {
	return &PlannerInterpolator{model: model, logger: logger, plan: armplanning.PlanMotion}
}

// Interpolate plans a trajectory through every waypoint in order. A partial
// plan is still returned with its fraction; only hard planner failures
// produce an error.
func (pi *PlannerInterpolator) Interpolate(ctx context.Context, req *Request) (*Result, error) {
	if len(req.Waypoints) == 0 {
		return nil, errNoWaypoints
	}
	if len(req.Start) != len(pi.model.DoF()) {
		return nil, NewStartLengthError(len(req.Start), len(pi.model.DoF()))
	}
	opts := req.Options.withDefaults()

	fs := referenceframe.NewEmptyFrameSystem("welding")
	if err := fs.AddFrame(pi.model, fs.World()); err != nil {
		return nil, err
	}
	name := pi.model.Name()

	goals := make([]*armplanning.PlanState, 0, len(req.Waypoints))
	for _, wp := range req.Waypoints {
		goals = append(goals, armplanning.NewPlanState(
			referenceframe.FrameSystemPoses{name: referenceframe.NewPoseInFrame(referenceframe.World, wp)},
			nil,
		))
	}

	plannerOpts, err := armplanning.NewPlannerOptionsFromExtra(map[string]interface{}{
		"rseed":               opts.Seed,
		"timeout":             opts.Timeout.Seconds(),
		"return_partial_plan": true,
		"path_step_size":      opts.MaxStepMM,
	})
	if err != nil {
		return nil, err
	}

	planReq := &armplanning.PlanRequest{
		FrameSystem: fs,
		StartState:  armplanning.NewPlanState(nil, referenceframe.FrameSystemInputs{name: req.Start}),
		Goals:       goals,
		WorldState:  req.WorldState,
		Constraints: &motionplan.Constraints{
			LinearConstraint: []motionplan.LinearConstraint{{
				LineToleranceMm:          opts.LineToleranceMM,
				OrientationToleranceDegs: opts.OrientToleranceDegs,
			}},
		},
		PlannerOptions: plannerOpts,
	}

	plan, meta, err := pi.plan(ctx, pi.logger, planReq)
	if err != nil {
		return nil, errors.Wrap(err, "planning weld path")
	}

	fraction := 1.0
	if meta != nil && meta.Partial {
		fraction = clamp01(float64(meta.GoalsProcessed) / float64(len(goals)))
		pi.logger.Warnf("planner reached %d of %d waypoints", meta.GoalsProcessed, len(goals))
	}

	plan, fraction, err = applyJumpThreshold(pi.logger, plan, fraction, name, opts.JumpThreshold)
	if err != nil {
		return nil, err
	}

	return &Result{Plan: plan, Fraction: fraction, FrameSystem: fs, FrameName: name}, nil
}

// applyJumpThreshold truncates the trajectory at the first joint-space step
// larger than factor times the mean step distance, scaling the fraction down
// to match. A planner respecting its constraints rarely trips this; it is a
// final gate before anything moves.
func applyJumpThreshold(
	logger logging.Logger,
	plan motionplan.Plan,
	fraction float64,
	frame string,
	factor float64,
) (motionplan.Plan, float64, error) {
	if factor <= 0 {
		return plan, fraction, nil
	}
	traj := plan.Trajectory()
	if len(traj) < 2 {
		return plan, fraction, nil
	}
	steps, err := traj.GetFrameInputs(frame)
	if err != nil {
		return nil, 0, err
	}

	dists := make([]float64, 0, len(steps)-1)
	total := 0.
	for i := 1; i < len(steps); i++ {
		d := referenceframe.InputsL2Distance(steps[i-1], steps[i])
		dists = append(dists, d)
		total += d
	}
	if total == 0 {
		return plan, fraction, nil
	}
	limit := factor * total / float64(len(dists))

	for i, d := range dists {
		if d <= limit {
			continue
		}
		kept := i + 1
		logger.Warnf("joint jump of %.3f at step %d exceeds limit %.3f, truncating trajectory to %d of %d steps",
			d, kept, limit, kept, len(traj))
		path := plan.Path()
		if len(path) >= kept {
			path = path[:kept]
		}
		return motionplan.NewSimplePlan(path, traj[:kept]), fraction * float64(i) / float64(len(dists)), nil
	}
	return plan, fraction, nil
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
