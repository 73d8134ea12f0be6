package track

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cxd309/trainspeedsim/internal/trackerr"
	"github.com/cxd309/trainspeedsim/internal/units"
)

func TestNewSegmentValidation(t *testing.T) {
	tests := []struct {
		name              string
		index             int
		start, end, speed units.Scalar
		kind              trackerr.Kind
	}{
		{"negative index", -1, ft(0), ft(1), fps(1), trackerr.KindIndex},
		{"start after end", 0, ft(2), ft(1), fps(1), trackerr.KindRange},
		{"negative speed", 0, ft(0), ft(1), fps(-1), trackerr.KindRange},
		{"zero speed with length", 0, ft(0), ft(1), fps(0), trackerr.KindZeroSpeedNonzeroLength},
		{"mixed distance units", 0, ft(0), units.MustNew(1, units.Meter), fps(1), trackerr.KindType},
		{"speed not a speed", 0, ft(0), ft(1), ft(1), trackerr.KindType},
		{"start not a distance", 0, fps(0), fps(1), fps(1), trackerr.KindType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSegment(tt.index, tt.start, tt.end, tt.speed)
			assert.Equal(t, tt.kind, trackerr.KindOf(err))
		})
	}
}

func TestZeroLengthSegmentMayHaveSpeed(t *testing.T) {
	s, err := NewSegment(0, ft(5), ft(5), fps(30))
	require.NoError(t, err)
	assert.True(t, s.IsZeroLength())
	assert.Equal(t, ft(0), s.Length())

	z, err := NewSegment(1, ft(5), ft(5), fps(0))
	require.NoError(t, err)
	assert.True(t, z.IsZeroLength())
}

func TestSegmentSetters(t *testing.T) {
	s, err := NewSegment(0, ft(0), ft(100), fps(10))
	require.NoError(t, err)

	assert.Equal(t, trackerr.KindIndex, trackerr.KindOf(s.setIndex(-2)))
	require.NoError(t, s.setIndex(4))
	assert.Equal(t, 4, s.Index())

	assert.Equal(t, trackerr.KindRange, trackerr.KindOf(s.setStart(ft(101))))
	assert.Equal(t, trackerr.KindRange, trackerr.KindOf(s.setEnd(ft(-1))))
	assert.Equal(t, trackerr.KindType, trackerr.KindOf(s.setEnd(units.MustNew(1, units.Mile))))
	require.NoError(t, s.setStart(ft(100)))
	assert.True(t, s.IsZeroLength())
	require.NoError(t, s.setEnd(ft(300)))
	assert.Equal(t, ft(200), s.Length())

	assert.Equal(t, trackerr.KindRange, trackerr.KindOf(s.setSpeed(fps(-3))))
	assert.Equal(t, trackerr.KindZeroSpeedNonzeroLength, trackerr.KindOf(s.setSpeed(fps(0))))
	assert.Equal(t, fps(10), s.Speed())
}

func TestZeroSpeedSegmentCannotGrow(t *testing.T) {
	s, err := NewSegment(0, ft(50), ft(50), fps(0))
	require.NoError(t, err)
	assert.Equal(t, trackerr.KindZeroSpeedNonzeroLength, trackerr.KindOf(s.setEnd(ft(60))))
	assert.Equal(t, trackerr.KindZeroSpeedNonzeroLength, trackerr.KindOf(s.setStart(ft(40))))
	require.NoError(t, s.setStartEnd(ft(70), ft(70)))
	assert.Equal(t, ft(70), s.Start())
}

func TestSetStartEndIsAtomic(t *testing.T) {
	s, err := NewSegment(0, ft(0), ft(100), fps(10))
	require.NoError(t, err)

	err = s.setStartEnd(ft(200), ft(150))
	assert.Equal(t, trackerr.KindRange, trackerr.KindOf(err))
	assert.Equal(t, ft(0), s.Start())
	assert.Equal(t, ft(100), s.End())

	require.NoError(t, s.setStartEnd(ft(200), ft(250)))
	assert.Equal(t, ft(200), s.Start())
	assert.Equal(t, ft(250), s.End())
}

func TestSegmentString(t *testing.T) {
	s, err := NewSegment(2, ft(5280), ft(10560), fps(44))
	require.NoError(t, err)
	assert.Equal(t, "id: 2, 1.000 mi - 2.000 mi @ 30.0 mi/h", s.String())
}
