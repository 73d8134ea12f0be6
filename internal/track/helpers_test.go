package track

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cxd309/trainspeedsim/internal/units"
)

func ft(v float64) units.Scalar  { return units.MustNew(v, units.Foot) }
func fps(v float64) units.Scalar { return units.MustNew(v, units.FeetPerSecond) }

func mi(t *testing.T, v float64) units.Scalar {
	t.Helper()
	s, err := units.Imperial.Milepost(v)
	require.NoError(t, err)
	return s
}

func mph(t *testing.T, v float64) units.Scalar {
	t.Helper()
	s, err := units.Imperial.SpeedLimit(v)
	require.NoError(t, err)
	return s
}

// editable builds an imperial track from (milepost, mph) control points.
func editable(t *testing.T, points ...ControlPoint) *EditableTrack {
	t.Helper()
	tr, err := FromControlPoints(points, units.Imperial)
	require.NoError(t, err)
	require.NoError(t, tr.Check())
	return Editable(tr)
}

// feetTrack builds an imperial track directly from (length ft, speed f/s)
// pairs, starting at 0.
func feetTrack(t *testing.T, segs ...[2]float64) *EditableTrack {
	t.Helper()
	e, err := NewEditable(units.Imperial)
	require.NoError(t, err)
	for _, s := range segs {
		_, err := e.AppendSeg(fps(s[1]), ft(s[0]))
		require.NoError(t, err)
	}
	require.NoError(t, e.Check())
	return e
}

type span struct{ start, end, speed float64 }

func spans(e *EditableTrack) []span {
	out := make([]span, 0, e.Len())
	for _, s := range e.Segments() {
		out = append(out, span{s.Start().Value(), s.End().Value(), s.Speed().Value()})
	}
	return out
}
