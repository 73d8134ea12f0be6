// Package train moves a simulated train along a track one resolution step at
// a time, in either direction.
package train

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/cxd309/trainspeedsim/internal/kinematics"
	"github.com/cxd309/trainspeedsim/internal/track"
	"github.com/cxd309/trainspeedsim/internal/trackerr"
)

var log = logrus.WithField("module", "train")

// Tolerances for deciding that a segment length is a whole number of steps.
const (
	absTol = 1e-9
	relTol = 1e-12
)

// Route is the read-only view of a track that a train travels over.
type Route interface {
	FirstSeg() (*track.Segment, error)
	LastSeg() (*track.Segment, error)
	NextSeg(index int, d track.Direction) (*track.Segment, error)
}

// Train is the traversal state of one train. Position and speed are
// magnitudes in the track's small units.
type Train struct {
	route Route
	model kinematics.MotionModel
	res   float64

	seg      *track.Segment
	dir      track.Direction
	pos      float64
	speed    float64
	step     int
	finished bool
}

// New places a stationary train at the start of route, facing forward.
func New(route Route, model kinematics.MotionModel, resolution float64) (*Train, error) {
	if err := model.Validate(); err != nil {
		return nil, err
	}
	if !(resolution > 0) || resolution != math.Trunc(resolution) || math.IsInf(resolution, 0) {
		return nil, trackerr.New(trackerr.KindValue, "new train", "resolution must be a positive integer, got %v", resolution)
	}
	t := &Train{route: route, model: model, res: resolution}
	if err := t.SetDir(track.Forward); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Train) Pos() float64                  { return t.pos }
func (t *Train) Speed() float64                { return t.speed }
func (t *Train) Dir() track.Direction          { return t.dir }
func (t *Train) Segment() *track.Segment       { return t.seg }
func (t *Train) FinishedSeg() bool             { return t.finished }
func (t *Train) Model() kinematics.MotionModel { return t.model }

// SetDir turns the train to d and puts it at rest at the end of the track
// it departs from.
func (t *Train) SetDir(d track.Direction) error {
	var (
		seg *track.Segment
		err error
	)
	switch d {
	case track.Forward:
		seg, err = t.route.FirstSeg()
	case track.Backward:
		seg, err = t.route.LastSeg()
	default:
		trackerr.Fatalf("set direction", "invalid direction %d", d)
	}
	if err != nil {
		return err
	}
	t.dir = d
	t.enter(seg)
	t.pos = t.entryEdge()
	t.speed = 0
	log.Debugf("set direction %v at %v", d, t.pos)
	return nil
}

// AtEndOfTrack reports whether the train stands on the far edge of the last
// segment in its direction of travel.
func (t *Train) AtEndOfTrack() bool {
	if _, err := t.route.NextSeg(t.seg.Index(), t.dir); err == nil {
		return false
	}
	return t.pos == t.exitEdge()
}

// TravelSeg advances the train by one event: the next resolution step on a
// segment with length, or the whole of a zero-length segment. Once the
// current segment is finished the next call moves on to the following one.
// It returns whether the current segment is now finished, and false when
// there is no segment left to move on to.
func (t *Train) TravelSeg() bool {
	if t.finished {
		next, err := t.route.NextSeg(t.seg.Index(), t.dir)
		if err != nil {
			return false
		}
		t.enter(next)
	}
	if t.seg.IsZeroLength() {
		t.speed = math.Min(t.seg.Speed().Value(), t.speed)
		t.finished = true
		return true
	}
	t.travelStep()
	return t.finished
}

func (t *Train) travelStep() {
	const op = "travel segment"
	length := t.seg.Length().Value()
	steps := math.Round(length / t.res)
	if !scalar.EqualWithinAbsOrRel(steps*t.res, length, absTol, relTol) {
		trackerr.Fatalf(op, "segment %d length %v is not a multiple of resolution %v", t.seg.Index(), length, t.res)
	}

	reach := t.model.Accelerate
	if t.dir == track.Backward {
		reach = t.model.Decelerate
	}
	v, err := reach(t.speed, t.res)
	if err != nil {
		trackerr.Fatalf(op, "%v", err)
	}
	t.speed = math.Min(t.seg.Speed().Value(), v)

	t.step++
	if float64(t.step) >= steps {
		t.pos = t.exitEdge()
		t.finished = true
		return
	}
	t.pos = t.entryEdge() + float64(t.dir)*float64(t.step)*t.res
}

func (t *Train) enter(seg *track.Segment) {
	t.seg = seg
	t.step = 0
	t.finished = false
}

func (t *Train) entryEdge() float64 {
	if t.dir == track.Backward {
		return t.seg.End().Value()
	}
	return t.seg.Start().Value()
}

func (t *Train) exitEdge() float64 {
	if t.dir == track.Backward {
		return t.seg.Start().Value()
	}
	return t.seg.End().Value()
}

func (t *Train) String() string {
	return fmt.Sprintf("pos: %.1f, speed %.2f, dir: %v, seg: (%v), finished %v", t.pos, t.speed, t.dir, t.seg, t.finished)
}
