package experiment

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/balancesim/internal/config"
	"github.com/san-kum/balancesim/internal/dynamo"
	"github.com/san-kum/balancesim/internal/physics"
)

// Experiment is one configured robot/controller pair ready to run.
type Experiment struct {
	cfg        *config.Config
	robot      *physics.Robot
	controller dynamo.Controller
	metrics    []dynamo.Metric
	simulator  *dynamo.Simulator
}

// New builds the robot, controller and default metrics described by cfg.
func New(cfg *config.Config, registry *Registry, log *zap.Logger) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	robot, err := NewRobot(cfg.Robot)
	if err != nil {
		return nil, fmt.Errorf("robot: %w", err)
	}

	ctrl, err := registry.GetController(cfg.Controller, cfg.Dt)
	if err != nil {
		return nil, fmt.Errorf("controller: %w", err)
	}

	metrics, err := registry.DefaultMetrics(cfg)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}

	if log == nil {
		log = zap.NewNop()
	}

	e := &Experiment{
		cfg:        cfg,
		robot:      robot,
		controller: ctrl,
		metrics:    metrics,
	}
	e.simulator = dynamo.New(robot, ctrl, dynamo.WithLogger(log.With(zap.String("run", cfg.Name))))
	for _, m := range e.metrics {
		e.simulator.AddMetric(m)
	}
	return e, nil
}

// NewRobot builds a robot and applies its drive limits.
func NewRobot(rc config.RobotConfig) (*physics.Robot, error) {
	robot, err := physics.NewRobot(rc.Mass, rc.Length, rc.Wheels)
	if err != nil {
		return nil, err
	}
	if err := robot.SetMaxAcceleration(rc.MaxAcceleration); err != nil {
		return nil, err
	}
	if err := robot.SetMaxVelocity(rc.MaxVelocity); err != nil {
		return nil, err
	}
	return robot, nil
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	return e.simulator.Run(ctx, e.cfg.SimConfig())
}

// Job returns the experiment as an ensemble job carrying its own driver
// settings.
func (e *Experiment) Job() dynamo.Job {
	simCfg := e.cfg.SimConfig()
	return dynamo.Job{
		Name:       e.cfg.Name,
		Plant:      e.robot,
		Controller: e.controller,
		Metrics:    e.metrics,
		Config:     &simCfg,
	}
}

func (e *Experiment) Config() *config.Config        { return e.cfg }
func (e *Experiment) Robot() *physics.Robot         { return e.robot }
func (e *Experiment) Controller() dynamo.Controller { return e.controller }

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *dynamo.Simulator {
	return e.simulator
}
