package control

import (
	"math"

	"github.com/san-kum/balancesim/internal/dynamo"
)

// Manual passes a power set by hand to the robot.
// Used by the live view so the user can drive the robot from the keyboard.
type Manual struct {
	power float64
}

func NewManual() *Manual {
	return &Manual{}
}

// Nudge changes the commanded power by delta, saturating at ±1.
func (m *Manual) Nudge(delta float64) {
	m.power = math.Max(-1, math.Min(1, m.power+delta))
}

func (m *Manual) SetPower(p float64) error {
	if !(p >= -1 && p <= 1) {
		return &dynamo.ParamError{Param: "power", Value: p, Err: dynamo.ErrInvalidPower}
	}
	m.power = p
	return nil
}

func (m *Manual) Power() float64 { return m.power }

// Calculate returns the stored power.
func (m *Manual) Calculate(measurement float64) float64 {
	return m.power
}

// Reset stops the robot.
func (m *Manual) Reset() {
	m.power = 0
}
