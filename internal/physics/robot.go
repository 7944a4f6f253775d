package physics

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/balancesim/internal/dynamo"
)

const (
	Gravity = 9.81

	// ChargeStationLength is the platform length from the game manual.
	ChargeStationLength = 1.93

	// MaxAngle is the platform tilt at which it rests on its stop.
	MaxAngle = 0.234

	DefaultMaxAcceleration = 3.0
	DefaultMaxVelocity     = 10.0

	// DefaultEpsilon is the half width of the velocity dead band that keeps
	// the drive from jerking back and forth around its target.
	DefaultEpsilon = 0.05
)

// Robot is the balancing robot and the platform it drives on. Position is
// measured from the left end of the charge station to the leftmost wheel;
// angle is the platform's tilt relative to the floor.
type Robot struct {
	mass       float64
	length     float64
	numWheels  int
	maxAccel   float64
	maxVel     float64
	epsilon    float64
	frames     []dynamo.Frame
	power      float64
	angle      float64
	angularVel float64
	torque     float64
	position   float64
	velocity   float64
	accel      float64
}

// Snapshot is a copy of the robot's full kinematic state.
type Snapshot struct {
	Power           float64 `json:"power"`
	Angle           float64 `json:"angle"`
	AngularVelocity float64 `json:"angular_velocity"`
	Torque          float64 `json:"torque"`
	Position        float64 `json:"position"`
	Velocity        float64 `json:"velocity"`
	Acceleration    float64 `json:"acceleration"`
}

// NewRobot returns a robot resting on the left stop of the platform.
func NewRobot(mass, length float64, numWheels int) (*Robot, error) {
	if !(mass > 0) || math.IsInf(mass, 0) {
		return nil, &dynamo.ParamError{Param: "mass", Value: mass, Err: dynamo.ErrInvalidRobot}
	}
	if !(length > 0) || math.IsInf(length, 0) {
		return nil, &dynamo.ParamError{Param: "length", Value: length, Err: dynamo.ErrInvalidRobot}
	}
	if numWheels < 1 {
		return nil, &dynamo.ParamError{Param: "wheels", Value: float64(numWheels), Err: dynamo.ErrInvalidRobot}
	}

	r := &Robot{
		mass:      mass,
		length:    length,
		numWheels: numWheels,
		maxAccel:  DefaultMaxAcceleration,
		maxVel:    DefaultMaxVelocity,
		epsilon:   DefaultEpsilon,
	}
	r.Reset()
	return r, nil
}

func (r *Robot) Mass() float64   { return r.mass }
func (r *Robot) Length() float64 { return r.length }
func (r *Robot) Wheels() int     { return r.numWheels }

func (r *Robot) MaxAcceleration() float64 { return r.maxAccel }
func (r *Robot) MaxVelocity() float64     { return r.maxVel }

func (r *Robot) SetMaxAcceleration(a float64) error {
	if !(a > 0) || math.IsInf(a, 0) {
		return &dynamo.ParamError{Param: "max_acceleration", Value: a, Err: dynamo.ErrInvalidRobot}
	}
	r.maxAccel = a
	return nil
}

func (r *Robot) SetMaxVelocity(v float64) error {
	if !(v > 0) || math.IsInf(v, 0) {
		return &dynamo.ParamError{Param: "max_velocity", Value: v, Err: dynamo.ErrInvalidRobot}
	}
	r.maxVel = v
	return nil
}

// Reset restores the initial kinematic state and discards recorded frames.
// Physical parameters and drive limits are kept.
func (r *Robot) Reset() {
	r.power = 0
	r.angle = MaxAngle
	r.angularVel = 0
	r.torque = 0
	r.position = 0
	r.velocity = 0
	r.accel = 0
	r.frames = nil
}

func (r *Robot) Angle() float64           { return r.angle }
func (r *Robot) AngularVelocity() float64 { return r.angularVel }
func (r *Robot) Torque() float64          { return r.torque }
func (r *Robot) Position() float64        { return r.position }
func (r *Robot) Velocity() float64        { return r.velocity }
func (r *Robot) Acceleration() float64    { return r.accel }
func (r *Robot) Power() float64           { return r.power }

// SetPower sets the simulated motor controller output. Values outside
// [-1, 1] are rejected and leave the current power unchanged.
func (r *Robot) SetPower(p float64) error {
	if !(p >= -1 && p <= 1) {
		return &dynamo.ParamError{Param: "power", Value: p, Err: dynamo.ErrInvalidPower}
	}
	r.power = p
	return nil
}

// AdvanceTime applies one explicit Euler step of dt seconds, first to the
// platform angle and then to the robot's position.
func (r *Robot) AdvanceTime(dt float64) {
	r.updateTorque()
	r.angularVel += r.torque * dt
	r.angle = r.angle + r.angularVel*dt + 0.5*r.torque*dt*dt

	// the platform stops dead against the floor
	if math.Abs(r.angle) > MaxAngle {
		r.angularVel = 0
		r.angle = math.Copysign(MaxAngle, r.angle)
	}

	r.updateAcceleration()
	r.velocity += r.accel * dt
	r.position = r.position + r.velocity*dt + 0.5*r.accel*dt*dt
}

// updateTorque sums the moment arm of every wheel about the platform
// center. The leftmost wheel contributes L/2 - x; the loop then adds
// L/2 - x - length/i for i = n down to 1. The weight per wheel is the same
// for every term, so the sum is scaled once at the end.
func (r *Robot) updateTorque() {
	half := ChargeStationLength / 2

	sum := half - r.position
	for i := r.numWheels; i > 0; i-- {
		sum += half - r.position - r.length/float64(i)
	}

	r.torque = sum * (r.mass * Gravity * math.Cos(r.angle) / float64(r.numWheels))
}

// updateAcceleration models an ideal motor controller: full acceleration
// towards power*maxVelocity until the velocity is within epsilon of it.
func (r *Robot) updateAcceleration() {
	target := r.power * r.maxVel
	switch {
	case r.velocity < target-r.epsilon:
		r.accel = r.maxAccel
	case r.velocity > target+r.epsilon:
		r.accel = -r.maxAccel
	default:
		r.accel = 0
	}
}

// SaveFrame records the current position and angle stamped with t.
func (r *Robot) SaveFrame(t float64) {
	r.frames = append(r.frames, dynamo.Frame{Time: t, Position: r.position, Angle: r.angle})
}

// Frames returns a copy of the recorded frames in the order they were saved.
func (r *Robot) Frames() []dynamo.Frame {
	out := make([]dynamo.Frame, len(r.frames))
	copy(out, r.frames)
	return out
}

func (r *Robot) Snapshot() Snapshot {
	return Snapshot{
		Power:           r.power,
		Angle:           r.angle,
		AngularVelocity: r.angularVel,
		Torque:          r.torque,
		Position:        r.position,
		Velocity:        r.velocity,
		Acceleration:    r.accel,
	}
}

func (r *Robot) String() string {
	s := r.Snapshot()
	var b strings.Builder
	fmt.Fprintf(&b, "Power:            %g\n", s.Power)
	fmt.Fprintf(&b, "Angle:            %g\n", s.Angle)
	fmt.Fprintf(&b, "Angular velocity: %g\n", s.AngularVelocity)
	fmt.Fprintf(&b, "Torque:           %g\n", s.Torque)
	fmt.Fprintf(&b, "Position:         %g\n", s.Position)
	fmt.Fprintf(&b, "Velocity:         %g\n", s.Velocity)
	fmt.Fprintf(&b, "Acceleration:     %g\n", s.Acceleration)
	return b.String()
}

// GetParams returns the drive limits for live adjustment.
func (r *Robot) GetParams() map[string]float64 {
	return map[string]float64{
		"max_acceleration": r.maxAccel,
		"max_velocity":     r.maxVel,
	}
}

func (r *Robot) SetParam(name string, value float64) error {
	switch name {
	case "max_acceleration":
		return r.SetMaxAcceleration(value)
	case "max_velocity":
		return r.SetMaxVelocity(value)
	}
	return fmt.Errorf("%w: %s", dynamo.ErrUnknownParam, name)
}
