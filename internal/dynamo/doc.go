// Package dynamo provides the simulation primitives shared by the charge
// station model and its controllers.
//
// The package defines the interfaces that connect the two leaf components
// and the driver loop that wires them together:
//
//   - [Plant]: body advanced by fixed time steps under a commanded power
//   - [Controller]: feedback law turning a measurement into a power command
//   - [Simulator]: runs one plant/controller pair and records its frames
//   - [Ensemble]: runs independent pairs concurrently
//
// # Example
//
//	bot, _ := physics.NewRobot(45, 0.5, 4)
//	pid, _ := control.NewPIDWithGains(1.2, 0, 0.05, 0.01)
//	sim := dynamo.New(bot, pid)
//	result, _ := sim.Run(ctx, dynamo.DefaultConfig())
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. For parallel simulations,
// use the [Ensemble] type which gives every job its own simulator.
package dynamo
