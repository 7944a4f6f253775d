// Package physics provides the charge station balancing model.
//
// [Robot] is a two-dimensional rigid body driving across a pivoting
// platform. It implements [dynamo.Plant]: a commanded power in [-1, 1]
// selects a target velocity, and each call to [Robot.AdvanceTime] applies
// one explicit Euler step to both the platform angle and the robot's
// position.
//
// The model assumes a 2D robot with uniform weight distribution, infinite
// traction and infinite jerk. The platform tilt is bounded by its
// mechanical stops at ±[MaxAngle] radians.
//
//	bot, err := physics.NewRobot(45.0, 0.5, 4)
//	if err != nil {
//	    return err
//	}
//	_ = bot.SetPower(0.02)
//	bot.AdvanceTime(0.01)
//	bot.SaveFrame(0)
package physics
