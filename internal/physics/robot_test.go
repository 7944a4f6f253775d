package physics

import (
	"errors"
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/balancesim/internal/dynamo"
)

// handTorque recomputes the wheel sum term by term.
func handTorque(mass, length float64, wheels int, position, angle float64) float64 {
	half := ChargeStationLength / 2
	sum := half - position
	for i := wheels; i > 0; i-- {
		sum += half - position - length/float64(i)
	}
	return sum * (mass * Gravity * math.Cos(angle) / float64(wheels))
}

var _ = Describe("Robot", func() {
	var bot *Robot

	BeforeEach(func() {
		var err error
		bot, err = NewRobot(45.0, 0.5, 4)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("construction", func() {
		It("starts resting on the left stop", func() {
			Expect(bot.Angle()).To(Equal(MaxAngle))
			Expect(bot.Position()).To(BeZero())
			Expect(bot.Power()).To(BeZero())
			Expect(bot.MaxAcceleration()).To(Equal(DefaultMaxAcceleration))
			Expect(bot.MaxVelocity()).To(Equal(DefaultMaxVelocity))
		})

		DescribeTable("rejects non-physical parameters",
			func(mass, length float64, wheels int, param string) {
				_, err := NewRobot(mass, length, wheels)
				Expect(errors.Is(err, dynamo.ErrInvalidRobot)).To(BeTrue())

				var pe *dynamo.ParamError
				Expect(errors.As(err, &pe)).To(BeTrue())
				Expect(pe.Param).To(Equal(param))
			},
			Entry("zero mass", 0.0, 0.5, 4, "mass"),
			Entry("negative length", 45.0, -0.5, 4, "length"),
			Entry("NaN mass", math.NaN(), 0.5, 4, "mass"),
			Entry("no wheels", 45.0, 0.5, 0, "wheels"),
		)
	})

	Describe("SetPower", func() {
		It("accepts the closed range [-1, 1]", func() {
			Expect(bot.SetPower(-1)).To(Succeed())
			Expect(bot.SetPower(1)).To(Succeed())
			Expect(bot.Power()).To(Equal(1.0))
		})

		It("rejects out of range values even after a valid one", func() {
			Expect(bot.SetPower(0.5)).To(Succeed())

			err := bot.SetPower(1.5)
			Expect(errors.Is(err, dynamo.ErrInvalidPower)).To(BeTrue())
			Expect(bot.Power()).To(Equal(0.5))

			Expect(errors.Is(bot.SetPower(-1.01), dynamo.ErrInvalidPower)).To(BeTrue())
			Expect(errors.Is(bot.SetPower(math.NaN()), dynamo.ErrInvalidPower)).To(BeTrue())
			Expect(bot.Power()).To(Equal(0.5))
		})
	})

	Describe("torque", func() {
		BeforeEach(func() {
			bot.angle = 0
		})

		It("matches the hand computed wheel sum", func() {
			for _, x := range []float64{0, 0.3, 0.7567, 0.965, 1.5, 1.93} {
				bot.position = x
				bot.updateTorque()
				Expect(bot.Torque()).To(BeNumerically("~", handTorque(45, 0.5, 4, x, 0), 1e-12))
			}
		})

		It("is positive near the left end and negative near the right end", func() {
			bot.position = 0
			bot.updateTorque()
			Expect(bot.Torque()).To(BeNumerically(">", 0))

			bot.position = ChargeStationLength
			bot.updateTorque()
			Expect(bot.Torque()).To(BeNumerically("<", 0))
		})

		It("changes sign where the wheel sum balances", func() {
			// 5*(L/2 - x) = 0.5*(1 + 1/2 + 1/3 + 1/4)
			balance := ChargeStationLength/2 - 0.5*(25.0/12.0)/5

			bot.position = balance
			bot.updateTorque()
			Expect(bot.Torque()).To(BeNumerically("~", 0, 1e-9))

			bot.position = balance - 0.01
			bot.updateTorque()
			Expect(bot.Torque()).To(BeNumerically(">", 0))

			bot.position = balance + 0.01
			bot.updateTorque()
			Expect(bot.Torque()).To(BeNumerically("<", 0))
		})

		It("shrinks with the cosine of the tilt", func() {
			bot.updateTorque()
			flat := bot.Torque()

			bot.angle = MaxAngle
			bot.updateTorque()
			Expect(bot.Torque()).To(BeNumerically("~", flat*math.Cos(MaxAngle), 1e-9))
		})
	})

	Describe("acceleration dead band", func() {
		BeforeEach(func() {
			Expect(bot.SetPower(0.02)).To(Succeed())
		})

		DescribeTable("compares velocity to power*maxVelocity",
			func(velocity, expected float64) {
				bot.velocity = velocity
				bot.updateAcceleration()
				Expect(bot.Acceleration()).To(Equal(expected))
			},
			Entry("below the band", 0.1, 3.0),
			Entry("inside the band", 0.2, 0.0),
			Entry("above the band", 0.3, -3.0),
		)

		It("follows the configured limits", func() {
			Expect(bot.SetMaxAcceleration(5)).To(Succeed())
			Expect(bot.SetMaxVelocity(20)).To(Succeed())
			bot.velocity = 0
			bot.updateAcceleration()
			Expect(bot.Acceleration()).To(Equal(5.0))

			Expect(errors.Is(bot.SetMaxVelocity(0), dynamo.ErrInvalidRobot)).To(BeTrue())
			Expect(bot.MaxVelocity()).To(Equal(20.0))
		})
	})

	Describe("AdvanceTime", func() {
		It("holds the platform on its stop while the robot is on the left", func() {
			bot.AdvanceTime(0.01)
			Expect(bot.Angle()).To(Equal(MaxAngle))
			Expect(bot.AngularVelocity()).To(BeZero())
		})

		It("snaps to the opposite stop and stops rotating", func() {
			bot.angle = 0
			bot.position = ChargeStationLength
			for i := 0; i < 1000 && bot.Angle() > -MaxAngle; i++ {
				bot.AdvanceTime(0.01)
			}
			Expect(bot.Angle()).To(Equal(-MaxAngle))
			Expect(bot.AngularVelocity()).To(BeZero())
		})

		It("never leaves the angle bounds", func() {
			rng := rand.New(rand.NewSource(7))
			for i := 0; i < 5000; i++ {
				Expect(bot.SetPower(rng.Float64()*2 - 1)).To(Succeed())
				bot.AdvanceTime(0.01)

				Expect(math.Abs(bot.Angle())).To(BeNumerically("<=", MaxAngle))
				if math.Abs(bot.Angle()) == MaxAngle {
					Expect(bot.AngularVelocity()).To(BeZero())
				}
			}
		})

		It("integrates position with the kinematic update", func() {
			Expect(bot.SetPower(1)).To(Succeed())
			bot.AdvanceTime(0.1)

			Expect(bot.Acceleration()).To(Equal(3.0))
			Expect(bot.Velocity()).To(BeNumerically("~", 0.3, 1e-12))
			Expect(bot.Position()).To(BeNumerically("~", 0.3*0.1+0.5*3*0.01, 1e-12))
		})
	})

	Describe("frames", func() {
		It("enumerates frames in the order they were saved", func() {
			Expect(bot.SetPower(0.02)).To(Succeed())
			for i := 0; i < 5; i++ {
				bot.AdvanceTime(0.01)
				bot.SaveFrame(0.01 * float64(i))
			}

			frames := bot.Frames()
			Expect(frames).To(HaveLen(5))
			for i := 1; i < len(frames); i++ {
				Expect(frames[i].Time).To(BeNumerically(">", frames[i-1].Time))
			}
			Expect(frames[4].Position).To(Equal(bot.Position()))
			Expect(frames[4].Angle).To(Equal(bot.Angle()))
		})

		It("returns a copy", func() {
			bot.SaveFrame(0)
			frames := bot.Frames()
			frames[0].Angle = 99
			Expect(bot.Frames()[0].Angle).To(Equal(MaxAngle))
		})

		It("clears them on Reset", func() {
			Expect(bot.SetPower(1)).To(Succeed())
			bot.AdvanceTime(0.1)
			bot.SaveFrame(0)
			bot.Reset()

			Expect(bot.Frames()).To(BeEmpty())
			Expect(bot.Snapshot()).To(Equal(Snapshot{Angle: MaxAngle}))
		})
	})

	Describe("parameters", func() {
		It("routes SetParam through the validating setters", func() {
			Expect(bot.SetParam("max_velocity", 4)).To(Succeed())
			Expect(bot.GetParams()).To(HaveKeyWithValue("max_velocity", 4.0))
			Expect(errors.Is(bot.SetParam("max_acceleration", -1), dynamo.ErrInvalidRobot)).To(BeTrue())
			Expect(errors.Is(bot.SetParam("mass", 1), dynamo.ErrUnknownParam)).To(BeTrue())
		})

		It("prints a readable state dump", func() {
			Expect(bot.String()).To(ContainSubstring("Angle:            0.234"))
		})
	})
})
