package control

import (
	"fmt"
	"math"

	"github.com/san-kum/balancesim/internal/dynamo"
)

const (
	DefaultPeriod = 0.01
	DefaultRelief = 0.05
)

// PID is a discrete PID controller modeled on the WPILib class of the same
// name. The integral is a Riemann sum over the period and is clamped to
// [minIntegral, maxIntegral] after every update to limit windup.
type PID struct {
	kp, ki, kd  float64
	period      float64
	setpoint    float64
	relief      float64
	err         float64
	lastErr     float64
	cumErr      float64
	maxIntegral float64
	minIntegral float64
}

// NewPID returns a controller with zero gains, a 0.01 s period and an
// unbounded integral.
func NewPID() *PID {
	return &PID{
		period:      DefaultPeriod,
		relief:      DefaultRelief,
		maxIntegral: math.Inf(1),
		minIntegral: math.Inf(-1),
	}
}

func NewPIDWithGains(kp, ki, kd, period float64) (*PID, error) {
	p := NewPID()
	if err := p.SetPID(kp, ki, kd); err != nil {
		return nil, err
	}
	if err := p.SetPeriod(period); err != nil {
		return nil, err
	}
	return p, nil
}

// Calculate returns the next output for measurement.
func (p *PID) Calculate(measurement float64) float64 {
	p.lastErr = p.err
	p.err = measurement - p.setpoint

	p.cumErr = p.cumErr + p.err*p.period
	if p.cumErr > p.maxIntegral {
		p.cumErr = p.maxIntegral
	}
	if p.cumErr < p.minIntegral {
		p.cumErr = p.minIntegral
	}

	return p.kp*p.err +
		p.ki*p.cumErr +
		p.kd*(p.err-p.lastErr)/p.period
}

// Reset clears the integral and the previous error. The current error,
// gains and setpoint are kept.
func (p *PID) Reset() {
	p.cumErr = 0
	p.lastErr = 0
}

// AtSetpoint reports whether the last error is within the relief band.
func (p *PID) AtSetpoint() bool {
	return math.Abs(p.err) <= p.relief
}

func (p *PID) P() float64                         { return p.kp }
func (p *PID) I() float64                         { return p.ki }
func (p *PID) D() float64                         { return p.kd }
func (p *PID) Period() float64                    { return p.period }
func (p *PID) Setpoint() float64                  { return p.setpoint }
func (p *PID) Relief() float64                    { return p.relief }
func (p *PID) CurrentError() float64              { return p.err }
func (p *PID) PreviousError() float64             { return p.lastErr }
func (p *PID) AccumulatedError() float64          { return p.cumErr }
func (p *PID) IntegralLimits() (float64, float64) { return p.maxIntegral, p.minIntegral }

func (p *PID) SetP(kp float64) error {
	if err := checkGain("kp", kp); err != nil {
		return err
	}
	p.kp = kp
	return nil
}

func (p *PID) SetI(ki float64) error {
	if err := checkGain("ki", ki); err != nil {
		return err
	}
	p.ki = ki
	return nil
}

func (p *PID) SetD(kd float64) error {
	if err := checkGain("kd", kd); err != nil {
		return err
	}
	p.kd = kd
	return nil
}

// SetPID sets all three gains. No gain changes unless all are valid.
func (p *PID) SetPID(kp, ki, kd float64) error {
	for _, g := range []struct {
		name string
		v    float64
	}{{"kp", kp}, {"ki", ki}, {"kd", kd}} {
		if err := checkGain(g.name, g.v); err != nil {
			return err
		}
	}
	p.kp, p.ki, p.kd = kp, ki, kd
	return nil
}

// SetPeriod changes the step used for the integral and derivative terms.
// The new scaling applies from the next Calculate call.
func (p *PID) SetPeriod(period float64) error {
	if !(period > 0) || math.IsInf(period, 0) {
		return &dynamo.ParamError{Param: "period", Value: period, Err: dynamo.ErrInvalidPeriod}
	}
	p.period = period
	return nil
}

func (p *PID) SetSetpoint(setpoint float64) {
	p.setpoint = setpoint
}

// SetRelief sets how far the measurement may be from the setpoint and
// still count as at the setpoint.
func (p *PID) SetRelief(relief float64) error {
	if !(relief > 0) {
		return &dynamo.ParamError{Param: "relief", Value: relief, Err: dynamo.ErrInvalidRelief}
	}
	p.relief = relief
	return nil
}

func (p *PID) SetIntegralLimits(upper, lower float64) error {
	if !(upper > lower) {
		return fmt.Errorf("%w: upper %g, lower %g", dynamo.ErrInvalidIntegralBounds, upper, lower)
	}
	p.maxIntegral = upper
	p.minIntegral = lower
	return nil
}

// GetParams returns tunable parameters for live adjustment
func (p *PID) GetParams() map[string]float64 {
	return map[string]float64{
		"kp":       p.kp,
		"ki":       p.ki,
		"kd":       p.kd,
		"setpoint": p.setpoint,
		"relief":   p.relief,
		"period":   p.period,
	}
}

// SetParam adjusts a PID parameter
func (p *PID) SetParam(name string, value float64) error {
	switch name {
	case "kp":
		return p.SetP(value)
	case "ki":
		return p.SetI(value)
	case "kd":
		return p.SetD(value)
	case "setpoint":
		p.SetSetpoint(value)
		return nil
	case "relief":
		return p.SetRelief(value)
	case "period":
		return p.SetPeriod(value)
	}
	return fmt.Errorf("%w: %s", dynamo.ErrUnknownParam, name)
}

func checkGain(name string, v float64) error {
	if !(v >= 0) || math.IsInf(v, 0) {
		return &dynamo.ParamError{Param: name, Value: v, Err: dynamo.ErrInvalidGain}
	}
	return nil
}
