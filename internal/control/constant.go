package control

import "github.com/san-kum/balancesim/internal/dynamo"

// Constant ignores the measurement and always commands the same power.
type Constant struct {
	power float64
}

func NewConstant(power float64) (*Constant, error) {
	if !(power >= -1 && power <= 1) {
		return nil, &dynamo.ParamError{Param: "power", Value: power, Err: dynamo.ErrInvalidPower}
	}
	return &Constant{power: power}, nil
}

func (c *Constant) Calculate(measurement float64) float64 {
	return c.power
}

func (c *Constant) Reset() {}
