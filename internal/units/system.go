package units

import (
	"math"

	"github.com/cxd309/trainspeedsim/internal/trackerr"
)

// System fixes the concrete units a track works in.
type System string

const (
	Imperial System = "imperial"
	Metric   System = "metric"
)

// ParseSystem accepts "imperial" or "metric".
func ParseSystem(s string) (System, error) {
	switch System(s) {
	case Imperial, Metric:
		return System(s), nil
	}
	return "", trackerr.New(trackerr.KindValue, "units.ParseSystem", "unit system must be %q or %q, got %q", Imperial, Metric, s)
}

// Distance is the small distance unit (f or m); engine positions use it.
func (s System) Distance() Unit {
	if s == Metric {
		return Meter
	}
	return Foot
}

// BigDistance is the milepost unit (mi or km).
func (s System) BigDistance() Unit {
	if s == Metric {
		return Kilometer
	}
	return Mile
}

// Speed is the small speed unit (f/s or m/s).
func (s System) Speed() Unit {
	if s == Metric {
		return MetersPerSecond
	}
	return FeetPerSecond
}

// BigSpeed is the display speed unit (mi/h or km/h).
func (s System) BigSpeed() Unit {
	if s == Metric {
		return KilometersPerHour
	}
	return MilesPerHour
}

// Acceleration is the acceleration unit (f/s^2 or m/s^2).
func (s System) Acceleration() Unit {
	if s == Metric {
		return MetersPerSecondSquared
	}
	return FeetPerSecondSquared
}

// scale is the number of steps per small unit kept from values entered in
// big units.
const scale = 1e6

// Milepost converts a big-unit position into the system's small unit,
// rounded to a millionth of that unit.
func (s System) Milepost(v float64) (Scalar, error) {
	return fromBig(v, s.BigDistance())
}

// SpeedLimit converts a big-unit speed into the system's small unit,
// rounded like Milepost.
func (s System) SpeedLimit(v float64) (Scalar, error) {
	return fromBig(v, s.BigSpeed())
}

func fromBig(v float64, big Unit) (Scalar, error) {
	sc, err := New(v, big)
	if err != nil {
		return Scalar{}, err
	}
	small, err := sc.ToSmaller()
	if err != nil {
		return Scalar{}, err
	}
	return Scalar{v: math.Round(small.v*scale) / scale, u: small.u}, nil
}

// Display converts s to its bigger unit for presentation, rounded to a
// millionth of that unit so values entered through Milepost or SpeedLimit
// read back as typed.
func (s Scalar) Display() (Scalar, error) {
	b, err := s.ToBigger()
	if err != nil {
		return Scalar{}, err
	}
	return Scalar{v: math.Round(b.v*scale) / scale, u: b.u}, nil
}
