package pathexec

import (
	"context"

	"go.viam.com/rdk/components/arm"
	"go.viam.com/rdk/logging"
)

// Executor runs a planned trajectory to completion.
type Executor interface {
	Execute(ctx context.Context, res *Result) error
}

// ArmExecutor drives a single arm through planned trajectories.
type ArmExecutor struct {
	arm    arm.Arm
	logger logging.Logger
}

// NewArmExecutor returns an executor moving the given arm.
func NewArmExecutor(a arm.Arm, logger logging.Logger) *ArmExecutor {
	return &ArmExecutor{arm: a, logger: logger}
}

// Execute blocks until the arm has moved through every trajectory step.
func (e *ArmExecutor) Execute(ctx context.Context, res *Result) error {
	if res == nil || res.Plan == nil {
		return errNoPlan
	}
	steps, err := res.Plan.Trajectory().GetFrameInputs(res.FrameName)
	if err != nil {
		return err
	}
	if len(steps) == 0 {
		e.logger.Debug("empty trajectory, nothing to execute")
		return nil
	}
	e.logger.Infof("moving through %d trajectory steps", len(steps))
	return e.arm.MoveThroughJointPositions(ctx, steps, nil, nil)
}
