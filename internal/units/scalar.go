// Package units implements immutable magnitudes tagged with a unit.
//
// Arithmetic and comparison are only defined between scalars of the same
// unit (or against bare numbers). Conversion walks the unit family's
// conversion graph and multiplies exact rational ratios, rounding to
// float64 once at the end.
package units

import (
	"math"
	"math/big"
	"strconv"

	"github.com/cxd309/trainspeedsim/internal/trackerr"
)

// Scalar is a magnitude with a unit. The zero value has no unit and is
// only useful as a placeholder.
type Scalar struct {
	v float64
	u Unit
}

// New returns a scalar, failing for an unknown unit or a non-finite value.
func New(v float64, u Unit) (Scalar, error) {
	if !u.Known() {
		return Scalar{}, trackerr.New(trackerr.KindValue, "units.New", "unknown unit %q", u)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Scalar{}, trackerr.New(trackerr.KindValue, "units.New", "magnitude %v is not finite", v)
	}
	return Scalar{v: v, u: u}, nil
}

// MustNew is New for constants known to be valid. It panics otherwise.
func MustNew(v float64, u Unit) Scalar {
	s, err := New(v, u)
	if err != nil {
		panic(err)
	}
	return s
}

// Zero returns a zero magnitude in u.
func Zero(u Unit) Scalar { return Scalar{u: u} }

func (s Scalar) Value() float64 { return s.v }
func (s Scalar) Unit() Unit     { return s.u }
func (s Scalar) IsZero() bool   { return s.v == 0 }

// Sign returns -1, 0 or +1.
func (s Scalar) Sign() int {
	switch {
	case s.v < 0:
		return -1
	case s.v > 0:
		return 1
	}
	return 0
}

func (s Scalar) Neg() Scalar { return Scalar{v: -s.v, u: s.u} }
func (s Scalar) Abs() Scalar { return Scalar{v: math.Abs(s.v), u: s.u} }

func (s Scalar) String() string {
	return strconv.FormatFloat(s.v, 'g', -1, 64) + " " + string(s.u)
}

// Format renders the magnitude with prec decimals followed by the unit.
func (s Scalar) Format(prec int) string {
	return strconv.FormatFloat(s.v, 'f', prec, 64) + " " + string(s.u)
}

func (s Scalar) sameUnit(op string, o Scalar) error {
	if s.u != o.u {
		return trackerr.New(trackerr.KindType, op, "unit mismatch: %q vs %q", s.u, o.u)
	}
	return nil
}

// Cmp compares s with o, which must carry the same unit.
func (s Scalar) Cmp(o Scalar) (int, error) {
	if err := s.sameUnit("compare", o); err != nil {
		return 0, err
	}
	return s.CmpValue(o.v), nil
}

// CmpValue compares s's magnitude with a bare number.
func (s Scalar) CmpValue(x float64) int {
	switch {
	case s.v < x:
		return -1
	case s.v > x:
		return 1
	}
	return 0
}

// Add returns s+o in s's unit.
func (s Scalar) Add(o Scalar) (Scalar, error) {
	if err := s.sameUnit("add", o); err != nil {
		return Scalar{}, err
	}
	return s.AddValue(o.v), nil
}

// Sub returns s-o in s's unit.
func (s Scalar) Sub(o Scalar) (Scalar, error) {
	if err := s.sameUnit("subtract", o); err != nil {
		return Scalar{}, err
	}
	return s.SubValue(o.v), nil
}

// Mod returns the floating-point remainder of s/o in s's unit.
func (s Scalar) Mod(o Scalar) (Scalar, error) {
	if err := s.sameUnit("modulo", o); err != nil {
		return Scalar{}, err
	}
	return s.ModValue(o.v)
}

func (s Scalar) AddValue(x float64) Scalar { return Scalar{v: s.v + x, u: s.u} }
func (s Scalar) SubValue(x float64) Scalar { return Scalar{v: s.v - x, u: s.u} }

// ModValue returns the remainder of s/x; a zero divisor is a value error.
func (s Scalar) ModValue(x float64) (Scalar, error) {
	if x == 0 {
		return Scalar{}, trackerr.New(trackerr.KindValue, "modulo", "%v by zero", s)
	}
	return Scalar{v: math.Mod(s.v, x), u: s.u}, nil
}

// ToBigger converts to the coarser unit of s's family (f→mi, m→km, ...).
func (s Scalar) ToBigger() (Scalar, error) {
	b, ok := s.u.Bigger()
	if !ok {
		return Scalar{}, trackerr.New(trackerr.KindConversion, "to bigger unit", "no bigger unit than %q", s.u)
	}
	return s.ConvertTo(b)
}

// ToSmaller converts to the finer unit of s's family (mi→f, km→m, ...).
func (s Scalar) ToSmaller() (Scalar, error) {
	sm, ok := s.u.Smaller()
	if !ok {
		return Scalar{}, trackerr.New(trackerr.KindConversion, "to smaller unit", "no smaller unit than %q", s.u)
	}
	return s.ConvertTo(sm)
}

// ConvertTo converts s to target along the fewest-hop path in the family's
// conversion graph.
func (s Scalar) ConvertTo(target Unit) (Scalar, error) {
	if target == s.u {
		return s, nil
	}
	f, ok := familyOf[s.u]
	if !ok || familyOf[target] != f {
		return Scalar{}, trackerr.New(trackerr.KindConversion, "convert", "no path from %q to %q", s.u, target)
	}
	path, err := f.graph.GetShortestPath(string(s.u), string(target))
	if err != nil {
		return Scalar{}, trackerr.Wrap(trackerr.KindConversion, "convert", err, "no path from %q to %q", s.u, target)
	}
	exact := new(big.Rat).SetFloat64(s.v)
	if exact == nil {
		return Scalar{}, trackerr.New(trackerr.KindValue, "convert", "magnitude %v is not finite", s.v)
	}
	v, _ := exact.Mul(exact, path.Ratio).Float64()
	return Scalar{v: v, u: target}, nil
}
