package pathexec

import (
	"context"
	"testing"

	"go.viam.com/test"

	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/motionplan"
	"go.viam.com/rdk/referenceframe"
)

func TestArmExecutor(t *testing.T) {
	ctx := context.Background()
	logger := logging.NewTestLogger(t)
	a := testArm(t)
	exec := NewArmExecutor(a, logger)

	t.Run("moves through every step", func(t *testing.T) {
		res := &Result{
			Plan:      simplePlan("arm1", 0.2, 0.4, 0.6),
			Fraction:  1,
			FrameName: "arm1",
		}
		test.That(t, exec.Execute(ctx, res), test.ShouldBeNil)

		inputs, err := a.CurrentInputs(ctx)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, inputs, test.ShouldResemble, referenceframe.FloatsToInputs([]float64{0.6}))
	})

	t.Run("empty trajectory is a no-op", func(t *testing.T) {
		res := &Result{
			Plan:      motionplan.NewSimplePlan(nil, nil),
			Fraction:  1,
			FrameName: "arm1",
		}
		test.That(t, exec.Execute(ctx, res), test.ShouldBeNil)
	})

	t.Run("unknown frame", func(t *testing.T) {
		res := &Result{
			Plan:      simplePlan("arm1", 0.2),
			Fraction:  1,
			FrameName: "other",
		}
		test.That(t, exec.Execute(ctx, res), test.ShouldNotBeNil)
	})

	t.Run("nil plan", func(t *testing.T) {
		test.That(t, exec.Execute(ctx, nil), test.ShouldNotBeNil)
		test.That(t, exec.Execute(ctx, &Result{}), test.ShouldNotBeNil)
	})
}
