// Package track models a linear rail track as an ordered, contiguous
// sequence of speed-limited segments, and provides EditableTrack, the
// engine that reshapes segment boundaries and speeds while keeping the
// track's invariants.
//
// All positions and speeds inside a track are expressed in the small units
// of its unit system (feet and f/s, or metres and m/s).
package track

import (
	"strings"

	"github.com/samber/lo"

	"github.com/cxd309/trainspeedsim/internal/trackerr"
	"github.com/cxd309/trainspeedsim/internal/units"
)

// Direction of travel along the track.
type Direction int

const (
	Forward  Direction = 1
	Backward Direction = -1
)

func (d Direction) String() string {
	if d == Backward {
		return "-"
	}
	return "+"
}

// Track is an ordered sequence of segments whose indices equal their
// positions and whose boundaries are shared: segs[i].end == segs[i+1].start.
type Track struct {
	system units.System
	segs   []*Segment
}

// Limit is one speed-limit change point in big units. Speed is nil for the
// final entry, which marks the end of the track.
type Limit struct {
	Milepost units.Scalar
	Speed    *units.Scalar
}

func (t *Track) System() units.System { return t.system }
func (t *Track) Len() int             { return len(t.segs) }

// Segments returns copies of the segments in index order.
func (t *Track) Segments() []Segment {
	return lo.Map(t.segs, func(s *Segment, _ int) Segment { return *s })
}

// FirstSeg returns the segment at the start of the track.
func (t *Track) FirstSeg() (*Segment, error) {
	if len(t.segs) == 0 {
		return nil, errNoSegments("first segment")
	}
	return t.segs[0], nil
}

// LastSeg returns the segment at the end of the track.
func (t *Track) LastSeg() (*Segment, error) {
	if len(t.segs) == 0 {
		return nil, errNoSegments("last segment")
	}
	return t.segs[len(t.segs)-1], nil
}

// NextSeg returns the neighbour of segment index in direction d. Running
// off either end of the track is an out-of-bounds error, which travellers
// use to detect the end of the track.
func (t *Track) NextSeg(index int, d Direction) (*Segment, error) {
	next := index + int(d)
	if next < 0 || next >= len(t.segs) {
		return nil, trackerr.New(trackerr.KindOutOfBounds, "next segment", "segment index %d out of bounds", next)
	}
	return t.segs[next], nil
}

// Limits lists every segment's start and speed in big units, followed by a
// speed-less entry at the end of the track.
func (t *Track) Limits() []Limit {
	if len(t.segs) == 0 {
		return nil
	}
	limits := lo.Map(t.segs, func(s *Segment, _ int) Limit {
		speed := toBig(s.speed)
		return Limit{Milepost: toBig(s.start), Speed: &speed}
	})
	return append(limits, Limit{Milepost: toBig(t.segs[len(t.segs)-1].end)})
}

func (t *Track) String() string {
	var b strings.Builder
	b.WriteString("[\n")
	for _, s := range t.segs {
		b.WriteString(s.String())
		b.WriteString("\n")
	}
	b.WriteString("]")
	return b.String()
}

// Check verifies every track invariant and reports the first violation as a
// programming error.
func (t *Track) Check() error {
	const op = "check"
	for i, s := range t.segs {
		if s.index != i {
			return trackerr.New(trackerr.KindProgramming, op, "segment at position %d has index %d", i, s.index)
		}
		if cmp(op, s.start, s.end) > 0 {
			return trackerr.New(trackerr.KindProgramming, op, "segment %d starts after it ends", i)
		}
		if s.speed.Sign() < 0 {
			return trackerr.New(trackerr.KindProgramming, op, "segment %d has negative speed", i)
		}
		if s.speed.IsZero() && !s.IsZeroLength() {
			return trackerr.New(trackerr.KindProgramming, op, "segment %d has zero speed and nonzero length", i)
		}
		if i == 0 {
			continue
		}
		prev := t.segs[i-1]
		if cmp(op, prev.end, s.start) != 0 {
			return trackerr.New(trackerr.KindProgramming, op, "gap between segments %d and %d", i-1, i)
		}
		if prev.IsZeroLength() && s.IsZeroLength() {
			return trackerr.New(trackerr.KindProgramming, op, "segments %d and %d are both zero-length", i-1, i)
		}
	}
	return nil
}

func errNoSegments(op string) error {
	return trackerr.New(trackerr.KindStructural, op, "no track segments exist")
}
