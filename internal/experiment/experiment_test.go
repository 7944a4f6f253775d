package experiment

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/balancesim/internal/config"
	"github.com/san-kum/balancesim/internal/control"
	"github.com/san-kum/balancesim/internal/dynamo"
)

func TestRegistryControllers(t *testing.T) {
	r := NewRegistry()

	names := r.ListControllers()
	if len(names) != 3 {
		t.Errorf("expected 3 controllers, got %v", names)
	}

	cfg := config.DefaultConfig()
	ctrl, err := r.GetController(cfg.Controller, 0.02)
	if err != nil {
		t.Fatalf("pid: %v", err)
	}
	pid, ok := ctrl.(*control.PID)
	if !ok {
		t.Fatalf("expected *control.PID, got %T", ctrl)
	}
	if pid.Period() != 0.02 {
		t.Errorf("pid period should follow dt, got %f", pid.Period())
	}
	if pid.P() != cfg.Controller.Kp {
		t.Errorf("expected kp %f, got %f", cfg.Controller.Kp, pid.P())
	}

	if _, err := r.GetController(config.ControllerConfig{Type: "lqr"}, 0.01); err == nil {
		t.Error("expected error for unknown controller")
	}
}

func TestRegistryRejectsInvalidGains(t *testing.T) {
	r := NewRegistry()

	cc := config.DefaultConfig().Controller
	cc.Kd = -1
	if _, err := r.GetController(cc, 0.01); !errors.Is(err, dynamo.ErrInvalidGain) {
		t.Errorf("expected ErrInvalidGain, got %v", err)
	}

	cc = config.DefaultConfig().Controller
	cc.Integral = &config.IntegralLimits{Upper: -1, Lower: 1}
	if _, err := r.GetController(cc, 0.01); !errors.Is(err, dynamo.ErrInvalidIntegralBounds) {
		t.Errorf("expected ErrInvalidIntegralBounds, got %v", err)
	}
}

func TestExperimentRun(t *testing.T) {
	cfg := config.GetPreset("original")
	exp, err := New(cfg, NewRegistry(), nil)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.Frames) != 1001 {
		t.Errorf("expected 1001 frames, got %d", len(result.Frames))
	}
	for _, name := range []string{"angle_rms", "settle_time", "control_effort", "max_travel", "stability"} {
		if _, ok := result.Metrics[name]; !ok {
			t.Errorf("missing metric %s", name)
		}
	}
	if math.Abs(result.Metrics["control_effort"]-0.02) > 1e-12 {
		t.Errorf("constant controller effort should be 0.02, got %f", result.Metrics["control_effort"])
	}
}

func TestExperimentInvalidRobot(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Robot.Wheels = 0
	if _, err := New(cfg, NewRegistry(), nil); !errors.Is(err, dynamo.ErrInvalidRobot) {
		t.Errorf("expected ErrInvalidRobot, got %v", err)
	}

	cfg = config.DefaultConfig()
	cfg.Robot.MaxVelocity = -2
	if _, err := New(cfg, NewRegistry(), nil); !errors.Is(err, dynamo.ErrInvalidRobot) {
		t.Errorf("expected ErrInvalidRobot, got %v", err)
	}
}

func TestExperimentJob(t *testing.T) {
	exp, err := New(config.DefaultConfig(), NewRegistry(), nil)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	job := exp.Job()
	if job.Plant != exp.Robot() || len(job.Metrics) == 0 {
		t.Errorf("job does not expose the experiment's robot and metrics: %+v", job)
	}
	if job.Config == nil || *job.Config != exp.Config().SimConfig() {
		t.Errorf("job config %+v does not match the experiment", job.Config)
	}
}

func TestExperimentRejectsZeroLimits(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   error
	}{
		{"pid relief", func(c *config.Config) { c.Controller.Relief = 0 }, dynamo.ErrInvalidRelief},
		{"constant relief", func(c *config.Config) {
			c.Controller.Type = config.ControllerConstant
			c.Controller.Relief = 0
		}, dynamo.ErrInvalidRelief},
		{"max acceleration", func(c *config.Config) { c.Robot.MaxAcceleration = 0 }, dynamo.ErrInvalidRobot},
		{"max velocity", func(c *config.Config) { c.Robot.MaxVelocity = 0 }, dynamo.ErrInvalidRobot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.mutate(cfg)
			if _, err := New(cfg, NewRegistry(), nil); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestExperimentAppliesLimits(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Controller.Relief = 0.02
	cfg.Robot.MaxAcceleration = 1.5
	cfg.Robot.MaxVelocity = 4

	exp, err := New(cfg, NewRegistry(), nil)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if got := exp.Controller().(*control.PID).Relief(); got != 0.02 {
		t.Errorf("relief = %f, want 0.02", got)
	}
	if exp.Robot().MaxAcceleration() != 1.5 || exp.Robot().MaxVelocity() != 4 {
		t.Errorf("robot limits = %f, %f", exp.Robot().MaxAcceleration(), exp.Robot().MaxVelocity())
	}
}
