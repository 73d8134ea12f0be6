package track

import (
	"github.com/samber/lo"

	"github.com/cxd309/trainspeedsim/internal/trackerr"
	"github.com/cxd309/trainspeedsim/internal/units"
)

// ShiftBoundary moves the boundary at mp by the signed distance dist.
//
// At the outer ends of the track only one segment edge moves. At an
// internal boundary one segment shrinks and its neighbour grows. When mp is
// a zero-length segment between two others, the pair on the side dist
// points toward is shifted. A zero dist is a no-op once mp is known to be a
// boundary.
func (e *EditableTrack) ShiftBoundary(mp, dist units.Scalar) (Result, error) {
	const op = "shift boundary"
	if err := checkUnit(op, "milepost", mp, e.system.Distance()); err != nil {
		return Unchanged, err
	}
	if err := checkUnit(op, "distance", dist, e.system.Distance()); err != nil {
		return Unchanged, err
	}
	i, j, err := e.intersecting(op, mp)
	if err != nil {
		return Unchanged, err
	}

	switch j - i {
	case 1:
		seg := e.segs[i]
		atStart := i == 0 && cmp(op, mp, seg.start) == 0
		atEnd := i == len(e.segs)-1 && cmp(op, mp, seg.end) == 0
		if !atStart && !atEnd {
			return Unchanged, trackerr.New(trackerr.KindRange, op, "%v is not on a boundary", mp)
		}
		if dist.IsZero() {
			return Unchanged, nil
		}
		// A lone zero-length segment is both ends at once; dist picks the edge.
		moveStart := atStart && !(atEnd && dist.Sign() > 0)
		return e.shiftOuterEdge(op, i, moveStart, dist)
	case 2:
		if dist.IsZero() {
			return Unchanged, nil
		}
		return e.shiftPair(op, i, dist)
	case 3:
		if e.segs[i].IsZeroLength() || !e.segs[i+1].IsZeroLength() || e.segs[i+2].IsZeroLength() {
			trackerr.Fatalf(op, "unexpected segment pattern around %v", mp)
		}
		if dist.IsZero() {
			return Unchanged, nil
		}
		if dist.Sign() > 0 {
			return e.shiftPair(op, i+1, dist)
		}
		return e.shiftPair(op, i, dist)
	}
	trackerr.Fatalf(op, "%d segments touch %v", j-i, mp)
	return Unchanged, nil
}

// shiftOuterEdge moves the start (or end) of the first (or last) segment.
func (e *EditableTrack) shiftOuterEdge(op string, i int, moveStart bool, dist units.Scalar) (Result, error) {
	seg := e.segs[i]
	neighbor := i - 1
	old := seg.end
	set := seg.setEnd
	if moveStart {
		neighbor = i + 1
		old = seg.start
		set = seg.setStart
	}
	if err := set(add(op, old, dist)); err != nil {
		return Unchanged, err
	}
	if seg.IsZeroLength() && neighbor >= 0 && neighbor < len(e.segs) && e.segs[neighbor].IsZeroLength() {
		e.undo(op, set(old))
		return Unchanged, trackerr.New(trackerr.KindAdjacency, op, "shifting by %v would make segment %d zero-length next to zero-length segment %d", dist, i, neighbor)
	}
	e.log.WithField("op", op).Debugf("moved outer edge of segment %d by %v", i, dist)
	return Changed, nil
}

// shiftPair moves the boundary between segments i and i+1 by dist.
func (e *EditableTrack) shiftPair(op string, i int, dist units.Scalar) (Result, error) {
	left, right := e.segs[i], e.segs[i+1]
	old := left.end
	b := add(op, old, dist)
	if cmp(op, b, left.start) < 0 || cmp(op, b, right.end) > 0 {
		return Unchanged, trackerr.New(trackerr.KindRange, op, "shifting %v by %v would move it past the far end of segment %d or %d", old, dist, i, i+1)
	}
	if cmp(op, b, left.start) == 0 && i > 0 && e.segs[i-1].IsZeroLength() {
		return Unchanged, trackerr.New(trackerr.KindAdjacency, op, "segment %d would become zero-length next to zero-length segment %d", i, i-1)
	}
	if cmp(op, b, right.end) == 0 && i+2 < len(e.segs) && e.segs[i+2].IsZeroLength() {
		return Unchanged, trackerr.New(trackerr.KindAdjacency, op, "segment %d would become zero-length next to zero-length segment %d", i+1, i+2)
	}

	// Shrink first so the grown side never overlaps its neighbour.
	shrink, grow := left.setEnd, right.setStart
	if dist.Sign() > 0 {
		shrink, grow = right.setStart, left.setEnd
	}
	if err := shrink(b); err != nil {
		return Unchanged, err
	}
	if err := grow(b); err != nil {
		e.undo(op, shrink(old))
		return Unchanged, err
	}
	e.log.WithField("op", op).Debugf("moved boundary %v between segments %d and %d by %v", old, i, i+1, dist)
	return Changed, nil
}

// ShiftSpeedLimit changes the speed of the segment identified by mp by
// delta. If mp touches several segments, exactly one of them must be
// zero-length, and that one is changed.
func (e *EditableTrack) ShiftSpeedLimit(mp, delta units.Scalar) (Result, error) {
	const op = "shift speed limit"
	if err := checkUnit(op, "milepost", mp, e.system.Distance()); err != nil {
		return Unchanged, err
	}
	if err := checkUnit(op, "speed change", delta, e.system.Speed()); err != nil {
		return Unchanged, err
	}
	i, j, err := e.intersecting(op, mp)
	if err != nil {
		return Unchanged, err
	}

	seg := e.segs[i]
	if j-i > 1 {
		empty := lo.Filter(e.segs[i:j], func(s *Segment, _ int) bool { return s.IsZeroLength() })
		if len(empty) != 1 {
			return Unchanged, trackerr.New(trackerr.KindAmbiguousSegment, op, "%v touches %d segments; cannot tell which speed limit to change", mp, j-i)
		}
		seg = empty[0]
	}
	if delta.IsZero() {
		return Unchanged, nil
	}

	speed := add(op, seg.speed, delta)
	if speed.Sign() < 0 {
		return Unchanged, trackerr.New(trackerr.KindNegativeSpeed, op, "segment %d: speed %v would become negative", seg.index, speed)
	}
	if speed.IsZero() && !seg.IsZeroLength() {
		return Unchanged, trackerr.New(trackerr.KindZeroSpeedNonzeroLength, op, "segment %d: speed cannot drop to zero on a nonzero length", seg.index)
	}
	if err := seg.setSpeed(speed); err != nil {
		return Unchanged, err
	}
	e.log.WithField("op", op).Debugf("segment %d speed now %v", seg.index, speed)
	return Changed, nil
}
