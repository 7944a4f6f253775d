// Package control provides feedback controllers for the balancing robot.
//
// Controllers implement the [dynamo.Controller] interface, turning the
// measured platform angle into a power command:
//
//   - [PID]: Proportional-Integral-Derivative controller with a clamped integral
//   - [Constant]: open-loop controller that always commands the same power
//
// # Usage
//
//	pid, err := control.NewPIDWithGains(1.0, 0.1, 0.01, 0.01) // Kp, Ki, Kd, period
//	if err != nil {
//	    return err
//	}
//	out := pid.Calculate(angle)
//
// The period must match the simulation step. [PID] implements
// [dynamo.Configurable] for live tuning.
package control
