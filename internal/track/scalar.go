package track

import (
	"github.com/cxd309/trainspeedsim/internal/trackerr"
	"github.com/cxd309/trainspeedsim/internal/units"
)

// The helpers below operate on scalars whose units were checked when they
// entered the package; a mismatch here means an invariant is broken.

func cmp(op string, a, b units.Scalar) int {
	c, err := a.Cmp(b)
	if err != nil {
		trackerr.Fatalf(op, "%v", err)
	}
	return c
}

func add(op string, a, b units.Scalar) units.Scalar {
	s, err := a.Add(b)
	if err != nil {
		trackerr.Fatalf(op, "%v", err)
	}
	return s
}

func sub(op string, a, b units.Scalar) units.Scalar {
	s, err := a.Sub(b)
	if err != nil {
		trackerr.Fatalf(op, "%v", err)
	}
	return s
}

func checkUnit(op, what string, s units.Scalar, want units.Unit) error {
	if s.Unit() != want {
		return trackerr.New(trackerr.KindType, op, "%s must be in %q, got %q", what, want, s.Unit())
	}
	return nil
}

func toBig(s units.Scalar) units.Scalar {
	b, err := s.Display()
	if err != nil {
		trackerr.Fatalf("to bigger unit", "%v", err)
	}
	return b
}
