package dynamo

import "math"

// Frame is one recorded sample of the simulation.
type Frame struct {
	Time     float64 `json:"time"`
	Position float64 `json:"position"`
	Angle    float64 `json:"angle"`
}

func (f Frame) IsValid() bool {
	for _, v := range [...]float64{f.Time, f.Position, f.Angle} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Plant is a body that is advanced in fixed steps under a commanded power
// and keeps its own log of recorded frames.
type Plant interface {
	Angle() float64
	Position() float64
	SetPower(p float64) error
	AdvanceTime(dt float64)
	SaveFrame(t float64)
	Frames() []Frame
}

// Controller turns a measurement into a power command. Reset clears any
// accumulated history.
type Controller interface {
	Calculate(measurement float64) float64
	Reset()
}

type Metric interface {
	Name() string
	Observe(f Frame, u float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(f Frame, u float64)
}

// Configurable is implemented by components that support live tuning.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

type Config struct {
	Dt       float64
	Duration float64
	// ResetEvery clears controller history every n steps; 0 disables it.
	ResetEvery    int
	Saturate      bool
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		Duration:      10.0,
		ResetEvery:    0,
		Saturate:      true,
		ValidateState: true,
	}
}

// Steps returns the number of steps after the initial one, so a run
// records Steps()+1 frames at t = 0, dt, ..., Steps()*dt.
func (c Config) Steps() int {
	return int(math.Floor(c.Duration/c.Dt + 1e-9))
}

type Result struct {
	Frames     []Frame
	Outputs    []float64
	Metrics    map[string]float64
	StepsTaken int
	Resets     int
}

// Final returns the last recorded frame, or the zero frame for an empty result.
func (r *Result) Final() Frame {
	if len(r.Frames) == 0 {
		return Frame{}
	}
	return r.Frames[len(r.Frames)-1]
}
