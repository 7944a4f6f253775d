package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/balancesim/internal/dynamo"
)

const (
	DefaultDt       = 0.01
	DefaultDuration = 10.0
	DefaultMass     = 45.0
	DefaultLength   = 0.5
	DefaultWheels   = 4
	DefaultMaxAccel = 3.0
	DefaultMaxVel   = 10.0
	DefaultKp       = 2.0
	DefaultKi       = 0.05
	DefaultKd       = 0.1
	DefaultRelief   = 0.05
)

// Controller types understood by the experiment registry.
const (
	ControllerPID      = "pid"
	ControllerConstant = "constant"
	ControllerManual   = "manual"
)

type Config struct {
	Name       string           `yaml:"name" json:"name"`
	Dt         float64          `yaml:"dt" json:"dt"`
	Duration   float64          `yaml:"duration" json:"duration"`
	ResetEvery int              `yaml:"reset_every" json:"reset_every"`
	Saturate   bool             `yaml:"saturate" json:"saturate"`
	Robot      RobotConfig      `yaml:"robot" json:"robot"`
	Controller ControllerConfig `yaml:"controller" json:"controller"`
}

type RobotConfig struct {
	Mass            float64 `yaml:"mass" json:"mass"`
	Length          float64 `yaml:"length" json:"length"`
	Wheels          int     `yaml:"wheels" json:"wheels"`
	MaxAcceleration float64 `yaml:"max_acceleration" json:"max_acceleration"`
	MaxVelocity     float64 `yaml:"max_velocity" json:"max_velocity"`
}

type ControllerConfig struct {
	Type     string          `yaml:"type" json:"type"`
	Kp       float64         `yaml:"kp" json:"kp"`
	Ki       float64         `yaml:"ki" json:"ki"`
	Kd       float64         `yaml:"kd" json:"kd"`
	Setpoint float64         `yaml:"setpoint" json:"setpoint"`
	Relief   float64         `yaml:"relief" json:"relief"`
	Integral *IntegralLimits `yaml:"integral_limits,omitempty" json:"integral_limits,omitempty"`
	// Power is the fixed output of the constant controller.
	Power float64 `yaml:"power" json:"power"`
}

// IntegralLimits bounds the PID integral. A nil value leaves it unbounded.
type IntegralLimits struct {
	Upper float64 `yaml:"upper" json:"upper"`
	Lower float64 `yaml:"lower" json:"lower"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:     "balance",
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		Saturate: true,
		Robot: RobotConfig{
			Mass:            DefaultMass,
			Length:          DefaultLength,
			Wheels:          DefaultWheels,
			MaxAcceleration: DefaultMaxAccel,
			MaxVelocity:     DefaultMaxVel,
		},
		Controller: ControllerConfig{
			Type:   ControllerPID,
			Kp:     DefaultKp,
			Ki:     DefaultKi,
			Kd:     DefaultKd,
			Relief: DefaultRelief,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the driver settings. Robot and controller values are
// checked by their constructors.
func (c *Config) Validate() error {
	if !(c.Dt > 0) {
		return fmt.Errorf("%w: dt must be positive, got %f", dynamo.ErrInvalidConfig, c.Dt)
	}
	if !(c.Duration > 0) {
		return fmt.Errorf("%w: duration must be positive, got %f", dynamo.ErrInvalidConfig, c.Duration)
	}
	if c.ResetEvery < 0 {
		return fmt.Errorf("%w: reset_every must not be negative, got %d", dynamo.ErrInvalidConfig, c.ResetEvery)
	}
	switch c.Controller.Type {
	case ControllerPID, ControllerConstant, ControllerManual:
	default:
		return fmt.Errorf("%w: unknown controller %q", dynamo.ErrInvalidConfig, c.Controller.Type)
	}
	return nil
}

// SimConfig returns the driver settings.
func (c *Config) SimConfig() dynamo.Config {
	return dynamo.Config{
		Dt:            c.Dt,
		Duration:      c.Duration,
		ResetEvery:    c.ResetEvery,
		Saturate:      c.Saturate,
		ValidateState: true,
	}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	if c.Controller.Integral != nil {
		limits := *c.Controller.Integral
		out.Controller.Integral = &limits
	}
	return &out
}

// SetParam sets a numeric field by its yaml name. Used by the gain tuner.
func (c *Config) SetParam(name string, v float64) error {
	switch name {
	case "kp":
		c.Controller.Kp = v
	case "ki":
		c.Controller.Ki = v
	case "kd":
		c.Controller.Kd = v
	case "setpoint":
		c.Controller.Setpoint = v
	case "relief":
		c.Controller.Relief = v
	case "power":
		c.Controller.Power = v
	case "mass":
		c.Robot.Mass = v
	case "length":
		c.Robot.Length = v
	case "max_acceleration":
		c.Robot.MaxAcceleration = v
	case "max_velocity":
		c.Robot.MaxVelocity = v
	case "reset_every":
		c.ResetEvery = int(v)
	default:
		return fmt.Errorf("%w: %s", dynamo.ErrUnknownParam, name)
	}
	return nil
}

// Param reads a numeric field by its yaml name.
func (c *Config) Param(name string) (float64, error) {
	switch name {
	case "kp":
		return c.Controller.Kp, nil
	case "ki":
		return c.Controller.Ki, nil
	case "kd":
		return c.Controller.Kd, nil
	case "setpoint":
		return c.Controller.Setpoint, nil
	case "relief":
		return c.Controller.Relief, nil
	case "power":
		return c.Controller.Power, nil
	case "mass":
		return c.Robot.Mass, nil
	case "length":
		return c.Robot.Length, nil
	case "max_acceleration":
		return c.Robot.MaxAcceleration, nil
	case "max_velocity":
		return c.Robot.MaxVelocity, nil
	case "reset_every":
		return float64(c.ResetEvery), nil
	}
	return 0, fmt.Errorf("%w: %s", dynamo.ErrUnknownParam, name)
}
