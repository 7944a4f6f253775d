// Package viz draws a running simulation in the terminal with Bubble Tea.
//
//   - [App]: preset menu, parameter editor and live view
//   - [Model]: live view of one robot and controller
//   - [Canvas]: Braille-based pixel canvas for the charge station drawing
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	.     - Single step while paused
//	R     - Reset robot, controller and parameters
//	Tab   - Select a controller or robot parameter
//	Up/Dn - Scale the selected parameter by 5%
//	Lt/Rt - Change power of a manual controller
//	T     - Cycle color themes
package viz
