package metrics

import (
	"math"

	"github.com/san-kum/balancesim/internal/dynamo"
)

// AngleRMS is the root mean square deviation of the platform angle from
// the setpoint.
type AngleRMS struct {
	name     string
	setpoint float64
	sumSq    float64
	samples  int
}

func NewAngleRMS(setpoint float64) *AngleRMS {
	return &AngleRMS{name: "angle_rms", setpoint: setpoint}
}

func (a *AngleRMS) Name() string { return a.name }

func (a *AngleRMS) Observe(f dynamo.Frame, u float64) {
	d := f.Angle - a.setpoint
	a.sumSq += d * d
	a.samples++
}

func (a *AngleRMS) Value() float64 {
	if a.samples == 0 {
		return 0
	}
	return math.Sqrt(a.sumSq / float64(a.samples))
}

func (a *AngleRMS) Reset() {
	a.sumSq = 0
	a.samples = 0
}

// MaxTravel is the largest distance the robot reached from its start.
type MaxTravel struct {
	name  string
	start float64
	max   float64
	seen  bool
}

func NewMaxTravel() *MaxTravel {
	return &MaxTravel{name: "max_travel"}
}

func (m *MaxTravel) Name() string { return m.name }

func (m *MaxTravel) Observe(f dynamo.Frame, u float64) {
	if !m.seen {
		m.start = f.Position
		m.seen = true
	}
	m.max = math.Max(m.max, math.Abs(f.Position-m.start))
}

func (m *MaxTravel) Value() float64 { return m.max }

func (m *MaxTravel) Reset() {
	m.start = 0
	m.max = 0
	m.seen = false
}

// Default returns the metrics recorded for every run.
func Default(setpoint, relief float64) []dynamo.Metric {
	return []dynamo.Metric{
		NewAngleRMS(setpoint),
		NewSettleTime(setpoint, relief),
		NewStability(setpoint, relief),
		NewControlEffort(),
		NewMaxTravel(),
	}
}
