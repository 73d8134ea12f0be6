// Package kinematics defines the MotionModel interface for train traction and
// braking physics, along with built-in implementations.
//
// Adding a new physics model requires only implementing MotionModel and
// registering it in the JSON discriminator in the train package; the
// simulator itself never needs to change.
package kinematics

// MotionModel is the physics contract every kinematics implementation must
// satisfy. Distances, speeds and rates share the track's small units
// (feet or metres, per second).
type MotionModel interface {
	// Name returns the JSON discriminator of the model.
	Name() string

	// Validate reports a model whose parameters cannot drive a simulation.
	Validate() error

	// Accelerate returns the speed reached after covering dist from speed v
	// under full traction.
	Accelerate(v, dist float64) (float64, error)

	// Decelerate returns the highest speed from which the train can brake
	// down to v over dist. The backward pass of the simulator uses it to
	// find where braking for a lower limit has to begin.
	Decelerate(v, dist float64) (float64, error)
}
