// Package main runs a circular weld-path demo: it generates Cartesian
// waypoints around a circle, plans a constrained trajectory through them,
// renders both on a motion-tools server when one is running, and moves a
// simulated arm through the result.
package main

import (
	"bufio"
	"context"
	_ "embed"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"go.viam.com/rdk/components/arm"
	"go.viam.com/rdk/components/arm/fake"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/referenceframe"
	"go.viam.com/rdk/resource"
	"go.viam.com/rdk/spatialmath"

	"github.com/viam-labs/welding-demo/circlepath"
	"github.com/viam-labs/welding-demo/pathexec"
	"github.com/viam-labs/welding-demo/viz"
)

//go:embed weldarm.json
var weldarmJSON []byte

func main() {
	goutils.ContextualMain(mainWithArgs, logging.NewLogger("welddemo"))
}

type demoConfig struct {
	Path    circlepath.Spec  `json:"path"`
	Planner pathexec.Options `json:"planner"`

	ModelPath   string `json:"model_path,omitempty"`
	Obstacle    bool   `json:"obstacle,omitempty"`
	RequireFull bool   `json:"require_full,omitempty"`
}

// defaultConfig is a circle the built-in welder reaches comfortably, all
// distances in mm.
func defaultConfig() demoConfig {
	return demoConfig{
		Path: circlepath.Spec{
			Center:      r3.Vector{X: 450, Z: 560},
			Radius:      120,
			AngularStep: 0.5,
			ForwardAxis: r3.Vector{X: 1},
			FacingAxis:  r3.Vector{Z: 1},
		},
		Planner: pathexec.Options{
			MaxStepMM: 10,
			Timeout:   90 * time.Second,
		},
	}
}

func mainWithArgs(ctx context.Context, args []string, logger logging.Logger) error {
	fs := flag.NewFlagSet("welddemo", flag.ExitOnError)

	configPath := fs.String("config", "", "JSON config file, overridden by any explicit flags")
	center := fs.String("center", "450,0,560", "circle center in mm")
	radius := fs.Float64("radius", 120, "circle radius in mm")
	step := fs.Float64("step", 0.5, "angular step between waypoints in radians")
	forward := fs.String("forward", "1,0,0", "axis from the center to the first waypoint")
	facing := fs.String("facing", "0,0,1", "torch axis to align with the weld normal")

	maxStep := fs.Float64("max-step", 10, "max Cartesian distance between trajectory steps in mm")
	jump := fs.Float64("jump-threshold", 0, "truncate at joint jumps above this multiple of the mean step, 0 disables")
	lineTol := fs.Float64("line-tol", 0.1, "linear deviation tolerance in mm")
	orientTol := fs.Float64("orient-tol", 2, "orientation tolerance in degrees")
	timeout := fs.Duration("timeout", 90*time.Second, "planner timeout")
	seed := fs.Int("seed", 0, "planner random seed")

	modelPath := fs.String("model-path", "", "kinematics JSON, defaults to the built-in welder")
	obstacle := fs.Bool("obstacle", false, "add a workpiece table under the weld circle")
	requireFull := fs.Bool("require-full", false, "refuse to execute partial plans")
	loop := fs.Int("loop", 1, "number of weld cycles")
	delay := fs.Duration("delay", 2*time.Second, "pause between cycles")
	confirm := fs.Bool("confirm", false, "wait for enter before each cycle")
	headless := fs.Bool("headless", false, "skip visualization entirely")
	verbose := fs.Bool("v", false, "verbose")

	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	if *verbose {
		logger.SetLevel(logging.DEBUG)
	}

	cfg := defaultConfig()
	if *configPath != "" {
		content, err := os.ReadFile(*configPath)
		if err != nil {
			return errors.Wrap(err, "reading config")
		}
		if err := json.Unmarshal(content, &cfg); err != nil {
			return errors.Wrap(err, "parsing config")
		}
	}

	// Explicit flags win over the config file.
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	var err error
	if set["center"] {
		if cfg.Path.Center, err = parseVector(*center); err != nil {
			return err
		}
	}
	if set["forward"] {
		if cfg.Path.ForwardAxis, err = parseVector(*forward); err != nil {
			return err
		}
	}
	if set["facing"] {
		if cfg.Path.FacingAxis, err = parseVector(*facing); err != nil {
			return err
		}
	}
	if set["radius"] {
		cfg.Path.Radius = *radius
	}
	if set["step"] {
		cfg.Path.AngularStep = *step
	}
	if set["max-step"] {
		cfg.Planner.MaxStepMM = *maxStep
	}
	if set["jump-threshold"] {
		cfg.Planner.JumpThreshold = *jump
	}
	if set["line-tol"] {
		cfg.Planner.LineToleranceMM = *lineTol
	}
	if set["orient-tol"] {
		cfg.Planner.OrientToleranceDegs = *orientTol
	}
	if set["seed"] {
		cfg.Planner.Seed = *seed
	}
	if set["model-path"] {
		cfg.ModelPath = *modelPath
	}
	if set["obstacle"] {
		cfg.Obstacle = *obstacle
	}
	if set["require-full"] {
		cfg.RequireFull = *requireFull
	}
	cfg.Planner.Timeout = *timeout

	if err := cfg.Path.Validate(); err != nil {
		return err
	}

	modelFile := cfg.ModelPath
	if modelFile == "" {
		tmp, err := writeTempModel()
		if err != nil {
			return err
		}
		defer func() { goutils.UncheckedError(os.Remove(tmp)) }()
		modelFile = tmp
	}

	weldArm, err := fake.NewArm(ctx, nil, resource.Config{
		Name:                "weldarm",
		API:                 arm.API,
		Model:               fake.Model,
		ConvertedAttributes: &fake.Config{ModelFilePath: modelFile},
	}, logger)
	if err != nil {
		return errors.Wrap(err, "building arm")
	}
	defer goutils.UncheckedErrorFunc(func() error { return weldArm.Close(ctx) })

	model, err := weldArm.Kinematics(ctx)
	if err != nil {
		return err
	}

	var worldState *referenceframe.WorldState
	if cfg.Obstacle {
		if worldState, err = buildWorkpiece(cfg.Path); err != nil {
			return err
		}
	}

	var sink viz.Sink = viz.Nop{}
	if !*headless {
		sink = viz.NewMotionToolsSink(logger)
	}

	driver := &pathexec.Driver{
		Path:            cfg.Path,
		Interp:          pathexec.NewPlannerInterpolator(model, logger),
		Exec:            pathexec.NewArmExecutor(weldArm, logger),
		Sink:            sink,
		Logger:          logger,
		WorldState:      worldState,
		Options:         cfg.Planner,
		RequireFullPath: cfg.RequireFull,
	}

	mylog := log.New(os.Stdout, "", 0)
	mylog.Printf("weld circle: center (%.0f, %.0f, %.0f)mm radius %.0fmm step %.2frad, %d waypoints",
		cfg.Path.Center.X, cfg.Path.Center.Y, cfg.Path.Center.Z,
		cfg.Path.Radius, cfg.Path.AngularStep, cfg.Path.WaypointCount())

	stdin := bufio.NewReader(os.Stdin)
	for cycle := 0; cycle < *loop; cycle++ {
		if cycle > 0 {
			if !goutils.SelectContextOrWait(ctx, *delay) {
				break
			}
		}
		// Each cycle plans from wherever the previous one left the arm.
		if driver.Start, err = weldArm.CurrentInputs(ctx); err != nil {
			return err
		}
		if *confirm {
			mylog.Printf("cycle %d/%d: press enter to weld", cycle+1, *loop)
			if _, err := stdin.ReadString('\n'); err != nil {
				return err
			}
		} else {
			mylog.Printf("cycle %d/%d", cycle+1, *loop)
		}
		cycleStart := time.Now()
		if err := driver.Run(ctx); err != nil {
			return err
		}
		mylog.Printf("cycle %d done in %v", cycle+1, time.Since(cycleStart))
	}

	if pose, err := weldArm.EndPosition(ctx, nil); err == nil {
		logger.Infof("torch resting at %v", pose.Point())
	}
	return ctx.Err()
}

// buildWorkpiece puts a table surface under the weld circle so the planner
// has something to keep the arm clear of.
func buildWorkpiece(path circlepath.Spec) (*referenceframe.WorldState, error) {
	table, err := spatialmath.NewBox(
		spatialmath.NewPoseFromPoint(r3.Vector{X: path.Center.X, Y: path.Center.Y, Z: path.Center.Z - 80}),
		r3.Vector{X: 400, Y: 400, Z: 40},
		"workpiece",
	)
	if err != nil {
		return nil, err
	}
	gif := referenceframe.NewGeometriesInFrame(referenceframe.World, []spatialmath.Geometry{table})
	return referenceframe.NewWorldState([]*referenceframe.GeometriesInFrame{gif}, nil)
}

func writeTempModel() (string, error) {
	f, err := os.CreateTemp("", "weldarm-*.json")
	if err != nil {
		return "", err
	}
	if _, err := f.Write(weldarmJSON); err != nil {
		goutils.UncheckedError(f.Close())
		return "", err
	}
	return f.Name(), f.Close()
}

func parseVector(s string) (r3.Vector, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return r3.Vector{}, fmt.Errorf("expected x,y,z but got %q", s)
	}
	vals := make([]float64, 3)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return r3.Vector{}, fmt.Errorf("bad coordinate %q in %q", p, s)
		}
		vals[i] = v
	}
	return r3.Vector{X: vals[0], Y: vals[1], Z: vals[2]}, nil
}
