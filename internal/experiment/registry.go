package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/balancesim/internal/config"
	"github.com/san-kum/balancesim/internal/control"
	"github.com/san-kum/balancesim/internal/dynamo"
	"github.com/san-kum/balancesim/internal/metrics"
)

// ControllerFactory builds a controller whose period matches dt.
type ControllerFactory func(cfg config.ControllerConfig, dt float64) (dynamo.Controller, error)

type Registry struct {
	controllers map[string]ControllerFactory
}

func NewRegistry() *Registry {
	r := &Registry{
		controllers: make(map[string]ControllerFactory),
	}

	r.controllers[config.ControllerPID] = newPID
	r.controllers[config.ControllerConstant] = func(cfg config.ControllerConfig, dt float64) (dynamo.Controller, error) {
		return control.NewConstant(cfg.Power)
	}
	r.controllers[config.ControllerManual] = func(cfg config.ControllerConfig, dt float64) (dynamo.Controller, error) {
		m := control.NewManual()
		if err := m.SetPower(cfg.Power); err != nil {
			return nil, err
		}
		return m, nil
	}

	return r
}

func newPID(cfg config.ControllerConfig, dt float64) (dynamo.Controller, error) {
	pid, err := control.NewPIDWithGains(cfg.Kp, cfg.Ki, cfg.Kd, dt)
	if err != nil {
		return nil, err
	}
	pid.SetSetpoint(cfg.Setpoint)
	if err := pid.SetRelief(cfg.Relief); err != nil {
		return nil, err
	}
	if cfg.Integral != nil {
		if err := pid.SetIntegralLimits(cfg.Integral.Upper, cfg.Integral.Lower); err != nil {
			return nil, err
		}
	}
	return pid, nil
}

func (r *Registry) Register(name string, fn ControllerFactory) {
	r.controllers[name] = fn
}

func (r *Registry) GetController(cfg config.ControllerConfig, dt float64) (dynamo.Controller, error) {
	fn, ok := r.controllers[cfg.Type]
	if !ok {
		return nil, fmt.Errorf("unknown controller: %s", cfg.Type)
	}
	return fn(cfg, dt)
}

func (r *Registry) ListControllers() []string {
	names := make([]string, 0, len(r.controllers))
	for name := range r.controllers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics builds the standard metrics. The relief band must be
// positive.
func (r *Registry) DefaultMetrics(cfg *config.Config) ([]dynamo.Metric, error) {
	relief := cfg.Controller.Relief
	if !(relief > 0) {
		return nil, &dynamo.ParamError{Param: "relief", Value: relief, Err: dynamo.ErrInvalidRelief}
	}
	return metrics.Default(cfg.Controller.Setpoint, relief), nil
}
