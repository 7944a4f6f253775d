package dynamo

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"
)

type Simulator struct {
	plant      Plant
	controller Controller
	metrics    []Metric
	observers  []Observer
	log        *zap.Logger
}

type Option func(*Simulator)

// WithLogger sets the logger used for run summaries and controller resets.
func WithLogger(l *zap.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.log = l
		}
	}
}

func New(plant Plant, controller Controller, opts ...Option) *Simulator {
	s := &Simulator{
		plant:      plant,
		controller: controller,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run drives the plant for cfg.Duration seconds. Each step feeds the plant
// angle to the controller, applies the output as power, advances the plant
// by cfg.Dt and saves a frame stamped with the step time.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := cfg.Steps()
	result := &Result{
		Outputs: make([]float64, 0, steps+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	for i := 0; i <= steps; i++ {
		select {
		case <-ctx.Done():
			result.Frames = s.plant.Frames()
			return result, ctx.Err()
		default:
		}

		f, u, reset, err := s.step(i, cfg)
		if reset {
			result.Resets++
		}
		if err != nil {
			result.Frames = s.plant.Frames()
			return result, err
		}

		for _, m := range s.metrics {
			m.Observe(f, u)
		}
		for _, obs := range s.observers {
			obs.OnStep(f, u)
		}

		result.Outputs = append(result.Outputs, u)
		result.StepsTaken++
	}

	result.Frames = s.plant.Frames()
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	final := result.Final()
	s.log.Info("simulation complete",
		zap.Int("steps", result.StepsTaken),
		zap.Int("resets", result.Resets),
		zap.Float64("final_angle", final.Angle),
		zap.Float64("final_position", final.Position),
	)

	return result, nil
}

// Step performs step i of a run with cfg and returns the saved frame and
// the power applied. It is used by callers that pace the run themselves.
func (s *Simulator) Step(i int, cfg Config) (Frame, float64, error) {
	f, u, _, err := s.step(i, cfg)
	return f, u, err
}

func (s *Simulator) step(i int, cfg Config) (Frame, float64, bool, error) {
	t := cfg.Dt * float64(i)

	reset := cfg.ResetEvery > 0 && i > 0 && i%cfg.ResetEvery == 0
	if reset {
		s.controller.Reset()
		s.log.Debug("controller reset", zap.Int("step", i), zap.Float64("t", t))
	}

	u := s.controller.Calculate(s.plant.Angle())
	if cfg.Saturate {
		u = math.Max(-1, math.Min(1, u))
	}
	if err := s.plant.SetPower(u); err != nil {
		return s.current(t), u, reset, &SimulationError{Step: i, Time: t, Frame: s.current(t), Wrapped: err}
	}

	s.plant.AdvanceTime(cfg.Dt)
	s.plant.SaveFrame(t)

	f := s.current(t)
	if cfg.ValidateState && !f.IsValid() {
		return f, u, reset, &SimulationError{Step: i, Time: t, Frame: f, Wrapped: ErrInvalidState}
	}
	return f, u, reset, nil
}

func (s *Simulator) current(t float64) Frame {
	return Frame{Time: t, Position: s.plant.Position(), Angle: s.plant.Angle()}
}

func validateConfig(cfg Config) error {
	if !(cfg.Dt > 0) {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, cfg.Dt)
	}
	if !(cfg.Duration > 0) {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidConfig, cfg.Duration)
	}
	if cfg.ResetEvery < 0 {
		return fmt.Errorf("%w: reset interval must not be negative, got %d", ErrInvalidConfig, cfg.ResetEvery)
	}
	return nil
}
