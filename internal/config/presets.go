package config

import "sort"

func limits(upper, lower float64) *IntegralLimits {
	return &IntegralLimits{Upper: upper, Lower: lower}
}

var Presets = map[string]*Config{
	// the example driver: no feedback, creep forward at 2% power
	"original": {
		Name: "original", Dt: 0.01, Duration: 10.0, Saturate: true,
		Robot:      RobotConfig{Mass: 45.0, Length: 0.5, Wheels: 4, MaxAcceleration: 3.0, MaxVelocity: 10.0},
		Controller: ControllerConfig{Type: ControllerConstant, Power: 0.02, Relief: DefaultRelief},
	},
	"balance": {
		Name: "balance", Dt: 0.01, Duration: 15.0, Saturate: true,
		Robot:      RobotConfig{Mass: 45.0, Length: 0.5, Wheels: 4, MaxAcceleration: 3.0, MaxVelocity: 10.0},
		Controller: ControllerConfig{Type: ControllerPID, Kp: 2.0, Ki: 0.05, Kd: 0.1, Relief: DefaultRelief},
	},
	"recenter": {
		Name: "recenter", Dt: 0.01, Duration: 15.0, ResetEvery: 100, Saturate: true,
		Robot:      RobotConfig{Mass: 45.0, Length: 0.5, Wheels: 4, MaxAcceleration: 3.0, MaxVelocity: 10.0},
		Controller: ControllerConfig{Type: ControllerPID, Kp: 2.0, Ki: 0.5, Kd: 0.1, Relief: DefaultRelief},
	},
	"windup": {
		Name: "windup", Dt: 0.01, Duration: 20.0, Saturate: true,
		Robot:      RobotConfig{Mass: 45.0, Length: 0.5, Wheels: 4, MaxAcceleration: 3.0, MaxVelocity: 10.0},
		Controller: ControllerConfig{Type: ControllerPID, Kp: 1.5, Ki: 1.0, Kd: 0.1, Relief: DefaultRelief, Integral: limits(0.1, -0.1)},
	},
	"light": {
		Name: "light", Dt: 0.01, Duration: 15.0, Saturate: true,
		Robot:      RobotConfig{Mass: 30.0, Length: 0.8, Wheels: 6, MaxAcceleration: 4.0, MaxVelocity: 4.5},
		Controller: ControllerConfig{Type: ControllerPID, Kp: 1.2, Ki: 0.0, Kd: 0.05, Relief: DefaultRelief},
	},
	"fine": {
		Name: "fine", Dt: 0.001, Duration: 10.0, Saturate: true,
		Robot:      RobotConfig{Mass: 45.0, Length: 0.5, Wheels: 4, MaxAcceleration: 3.0, MaxVelocity: 10.0},
		Controller: ControllerConfig{Type: ControllerPID, Kp: 2.0, Ki: 0.05, Kd: 0.1, Relief: DefaultRelief},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
