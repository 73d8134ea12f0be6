package kinematics

import (
	"math"

	"github.com/cxd309/trainspeedsim/internal/trackerr"
)

// ConstantModelName is the JSON discriminator string for the Constant model.
const ConstantModelName = "constant"

// ConstantAcceleration implements MotionModel using fixed acceleration and
// deceleration rates. This is the default and simplest kinematics model.
//
// JSON discriminator: "model": "constant"
type ConstantAcceleration struct {
	AAcc float64 `json:"a_acc" yaml:"a_acc"` // traction acceleration
	ADcc float64 `json:"a_dcc" yaml:"a_dcc"` // service braking deceleration (positive); 0 means AAcc
}

// Constant returns a model that accelerates and brakes at the same rate.
func Constant(a float64) ConstantAcceleration {
	return ConstantAcceleration{AAcc: a}
}

func (c ConstantAcceleration) Name() string { return ConstantModelName }

func (c ConstantAcceleration) Validate() error {
	const op = "constant acceleration"
	if !(c.AAcc > 0) || math.IsInf(c.AAcc, 0) {
		return trackerr.New(trackerr.KindValue, op, "acceleration must be positive, got %v", c.AAcc)
	}
	if !(c.ADcc >= 0) || math.IsInf(c.ADcc, 0) {
		return trackerr.New(trackerr.KindValue, op, "deceleration must not be negative, got %v", c.ADcc)
	}
	return nil
}

func (c ConstantAcceleration) Accelerate(v, dist float64) (float64, error) {
	return finalSpeed("accelerate", c.AAcc, v, dist)
}

func (c ConstantAcceleration) Decelerate(v, dist float64) (float64, error) {
	a := c.ADcc
	if a == 0 {
		a = c.AAcc
	}
	return finalSpeed("decelerate", a, v, dist)
}

// finalSpeed solves d = v·t + ½·a·t² for the positive root t and returns
// a·t + v.
func finalSpeed(op string, a, v, d float64) (float64, error) {
	if !(a > 0) {
		return 0, trackerr.New(trackerr.KindValue, op, "rate must be positive, got %v", a)
	}
	if v < 0 || d < 0 {
		return 0, trackerr.New(trackerr.KindValue, op, "speed %v and distance %v must not be negative", v, d)
	}
	disc := v*v + 2*a*d
	if disc < 0 || math.IsNaN(disc) {
		return 0, trackerr.New(trackerr.KindValue, op, "negative discriminant %v", disc)
	}
	t := (-v + math.Sqrt(disc)) / a
	return a*t + v, nil
}
