package metrics

import (
	"math"

	"github.com/san-kum/balancesim/internal/dynamo"
)

// Stability is the fraction of frames whose angle lies within relief of
// the setpoint.
type Stability struct {
	name     string
	setpoint float64
	relief   float64
	inside   int
	samples  int
}

func NewStability(setpoint, relief float64) *Stability {
	return &Stability{
		name:     "stability",
		setpoint: setpoint,
		relief:   relief,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(f dynamo.Frame, u float64) {
	s.samples++
	if math.Abs(f.Angle-s.setpoint) <= s.relief {
		s.inside++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return float64(s.inside) / float64(s.samples)
}

func (s *Stability) Reset() {
	s.inside = 0
	s.samples = 0
}

// SettleTime is the time of the first frame after which the angle never
// again leaves the relief band around the setpoint. A run that ends
// outside the band reports +Inf.
type SettleTime struct {
	name     string
	setpoint float64
	relief   float64
	settled  bool
	since    float64
}

func NewSettleTime(setpoint, relief float64) *SettleTime {
	return &SettleTime{
		name:     "settle_time",
		setpoint: setpoint,
		relief:   relief,
	}
}

func (s *SettleTime) Name() string { return s.name }

func (s *SettleTime) Observe(f dynamo.Frame, u float64) {
	inside := math.Abs(f.Angle-s.setpoint) <= s.relief
	switch {
	case inside && !s.settled:
		s.settled = true
		s.since = f.Time
	case !inside:
		s.settled = false
	}
}

func (s *SettleTime) Value() float64 {
	if !s.settled {
		return math.Inf(1)
	}
	return s.since
}

func (s *SettleTime) Reset() {
	s.settled = false
	s.since = 0
}
