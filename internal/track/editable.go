package track

import (
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/cxd309/trainspeedsim/internal/trackerr"
	"github.com/cxd309/trainspeedsim/internal/units"
)

// Result tells the caller whether a successful edit changed the track.
type Result int

const (
	Unchanged Result = iota
	Changed
)

func (r Result) String() string {
	if r == Changed {
		return "changed"
	}
	return "unchanged"
}

// EditableTrack is a Track plus the boundary engine that mutates it.
//
// Every operation is a single transaction: it either applies completely
// and returns (Changed|Unchanged, nil), or returns an error and leaves the
// segment list exactly as it found it. Arguments are in the track's small
// units. An EditableTrack is not safe for concurrent use.
type EditableTrack struct {
	*Track
	id  uuid.UUID
	log *logrus.Entry
}

// NewEditable returns an empty editable track.
func NewEditable(system units.System) (*EditableTrack, error) {
	if _, err := units.ParseSystem(string(system)); err != nil {
		return nil, err
	}
	return Editable(&Track{system: system}), nil
}

// Editable wraps an existing track. The track must not be used elsewhere
// afterwards.
func Editable(t *Track) *EditableTrack {
	id := uuid.New()
	return &EditableTrack{
		Track: t,
		id:    id,
		log:   log.WithField("track", id.String()),
	}
}

// LoadEditable loads a track file for editing.
func LoadEditable(path string, system units.System) (*EditableTrack, error) {
	t, err := Load(path, system)
	if err != nil {
		return nil, err
	}
	return Editable(t), nil
}

// ID identifies this editing session in logs.
func (e *EditableTrack) ID() uuid.UUID { return e.id }

// AppendSeg adds a segment of the given speed and length after the last
// one, or at position 0 on an empty track.
func (e *EditableTrack) AppendSeg(speed, length units.Scalar) (Result, error) {
	const op = "append segment"
	if err := checkUnit(op, "speed", speed, e.system.Speed()); err != nil {
		return Unchanged, err
	}
	if err := checkUnit(op, "length", length, e.system.Distance()); err != nil {
		return Unchanged, err
	}
	if length.Sign() < 0 {
		return Unchanged, trackerr.New(trackerr.KindRange, op, "length %v is negative", length)
	}

	start := units.Zero(e.system.Distance())
	var prev *Segment
	if n := len(e.segs); n > 0 {
		prev = e.segs[n-1]
		start = prev.end
	}
	seg, err := NewSegment(len(e.segs), start, add(op, start, length), speed)
	if err != nil {
		return Unchanged, err
	}
	if prev != nil && prev.IsZeroLength() && seg.IsZeroLength() {
		return Unchanged, trackerr.New(trackerr.KindAdjacency, op, "zero-length segments cannot be adjacent")
	}
	e.segs = append(e.segs, seg)
	e.log.WithField("op", op).Debugf("appended %v", seg)
	return Changed, nil
}

// SplitSeg splits the segment strictly containing mp in two. Both halves
// keep the original speed; every later segment's index grows by one.
func (e *EditableTrack) SplitSeg(mp units.Scalar) (Result, error) {
	const op = "split segment"
	if err := checkUnit(op, "milepost", mp, e.system.Distance()); err != nil {
		return Unchanged, err
	}
	if len(e.segs) == 0 {
		return Unchanged, errNoSegments(op)
	}
	i, j, err := e.intersecting(op, mp)
	if err != nil {
		return Unchanged, trackerr.Wrap(trackerr.KindRange, op, err, "cannot split at %v", mp)
	}
	seg := e.segs[i]
	if j-i != 1 || cmp(op, mp, seg.start) == 0 || cmp(op, mp, seg.end) == 0 {
		return Unchanged, trackerr.New(trackerr.KindRange, op, "%v lies on a segment boundary", mp)
	}

	second, err := NewSegment(seg.index+1, mp, seg.end, seg.speed)
	if err != nil {
		return Unchanged, err
	}
	if err := seg.setEnd(mp); err != nil {
		return Unchanged, err
	}
	e.segs = append(e.segs, nil)
	copy(e.segs[i+2:], e.segs[i+1:])
	e.segs[i+1] = second
	e.reindex(i + 1)
	e.log.WithField("op", op).Debugf("split segment %d at %v", i, mp)
	return Changed, nil
}

// JoinSegs merges every segment touching the boundary at mp into the
// lowest-indexed one, which takes the highest speed among them. Later
// indices shrink by the number of segments removed.
func (e *EditableTrack) JoinSegs(mp units.Scalar) (Result, error) {
	const op = "join segments"
	if err := checkUnit(op, "milepost", mp, e.system.Distance()); err != nil {
		return Unchanged, err
	}
	if len(e.segs) < 2 {
		return Unchanged, trackerr.New(trackerr.KindStructural, op, "need at least 2 segments to join, have %d", len(e.segs))
	}
	i, j, err := e.intersecting(op, mp)
	if err != nil {
		return Unchanged, err
	}
	if j-i < 2 {
		return Unchanged, trackerr.New(trackerr.KindRange, op, "%v is not on a boundary between segments", mp)
	}

	touched := e.segs[i:j]
	fastest := maxSpeed(touched)
	first := touched[0]
	oldSpeed := first.speed
	if err := first.setSpeed(fastest); err != nil {
		return Unchanged, err
	}
	if err := first.setEnd(touched[len(touched)-1].end); err != nil {
		e.undo(op, first.setSpeed(oldSpeed))
		return Unchanged, err
	}
	removed := j - i - 1
	n := len(e.segs)
	e.segs = append(e.segs[:i+1], e.segs[j:]...)
	clear(e.segs[len(e.segs):n])
	e.reindex(i + 1)
	e.log.WithField("op", op).Debugf("joined %d segments at %v into %v", removed+1, mp, first)
	return Changed, nil
}

func maxSpeed(segs []*Segment) units.Scalar {
	return lo.MaxBy(segs, func(a, b *Segment) bool {
		return cmp("max speed", a.speed, b.speed) > 0
	}).speed
}

// reindex renumbers every segment from position `from` onwards.
func (e *EditableTrack) reindex(from int) {
	for i := from; i < len(e.segs); i++ {
		if err := e.segs[i].setIndex(i); err != nil {
			trackerr.Fatalf("reindex", "%v", err)
		}
	}
}

// undo asserts that reverting a completed sub-step succeeded.
func (e *EditableTrack) undo(op string, err error) {
	if err != nil {
		trackerr.Fatalf(op, "undo failed: %v", err)
	}
}
