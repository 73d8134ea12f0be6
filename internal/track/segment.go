package track

import (
	"fmt"

	"github.com/cxd309/trainspeedsim/internal/trackerr"
	"github.com/cxd309/trainspeedsim/internal/units"
)

// Segment is one interval of track sharing a single speed limit.
//
// Invariants: index >= 0, start <= end, speed >= 0, and a zero speed
// implies zero length. A zero-length segment may carry any speed.
// Only the editing engine mutates a segment, through the validated setters.
type Segment struct {
	index int
	start units.Scalar
	end   units.Scalar
	speed units.Scalar
}

// NewSegment validates and returns a segment. start and end must share a
// distance unit; speed must be in a speed unit.
func NewSegment(index int, start, end, speed units.Scalar) (*Segment, error) {
	const op = "new segment"
	if index < 0 {
		return nil, trackerr.New(trackerr.KindIndex, op, "index %d is negative", index)
	}
	if start.Unit().Quantity() != units.Distance {
		return nil, trackerr.New(trackerr.KindType, op, "start %v is not a distance", start)
	}
	if start.Unit() != end.Unit() {
		return nil, trackerr.New(trackerr.KindType, op, "start %v and end %v differ in unit", start, end)
	}
	if speed.Unit().Quantity() != units.Speed {
		return nil, trackerr.New(trackerr.KindType, op, "speed %v is not a speed", speed)
	}
	if cmp(op, start, end) > 0 {
		return nil, trackerr.New(trackerr.KindRange, op, "start %v is after end %v", start, end)
	}
	if speed.Sign() < 0 {
		return nil, trackerr.New(trackerr.KindRange, op, "speed %v is negative", speed)
	}
	if speed.IsZero() && cmp(op, start, end) != 0 {
		return nil, trackerr.New(trackerr.KindZeroSpeedNonzeroLength, op, "zero-speed segment %v - %v must have zero length", start, end)
	}
	return &Segment{index: index, start: start, end: end, speed: speed}, nil
}

func (s *Segment) Index() int          { return s.index }
func (s *Segment) Start() units.Scalar { return s.start }
func (s *Segment) End() units.Scalar   { return s.end }
func (s *Segment) Speed() units.Scalar { return s.speed }

// Length is end - start, never negative.
func (s *Segment) Length() units.Scalar { return sub("length", s.end, s.start) }

// IsZeroLength reports whether start == end.
func (s *Segment) IsZeroLength() bool { return cmp("length", s.start, s.end) == 0 }

// Contains reports whether mp lies in the closed interval [start, end].
func (s *Segment) Contains(mp units.Scalar) bool {
	return cmp("contains", s.start, mp) <= 0 && cmp("contains", mp, s.end) <= 0
}

// String renders the segment in big units.
func (s *Segment) String() string {
	return fmt.Sprintf("id: %d, %s - %s @ %s",
		s.index, toBig(s.start).Format(3), toBig(s.end).Format(3), toBig(s.speed).Format(1))
}

func (s *Segment) setIndex(index int) error {
	if index < 0 {
		return trackerr.New(trackerr.KindIndex, "set index", "index %d is negative", index)
	}
	s.index = index
	return nil
}

// checkBounds validates a prospective start/end pair against the current speed.
func (s *Segment) checkBounds(op string, start, end units.Scalar) error {
	if err := checkUnit(op, "start", start, s.start.Unit()); err != nil {
		return err
	}
	if err := checkUnit(op, "end", end, s.end.Unit()); err != nil {
		return err
	}
	c := cmp(op, start, end)
	if c > 0 {
		return trackerr.New(trackerr.KindRange, op, "segment %d: start %v would be after end %v", s.index, start, end)
	}
	if s.speed.IsZero() && c != 0 {
		return trackerr.New(trackerr.KindZeroSpeedNonzeroLength, op, "segment %d has zero speed and cannot span %v - %v", s.index, start, end)
	}
	return nil
}

func (s *Segment) setStart(start units.Scalar) error {
	if err := s.checkBounds("set start", start, s.end); err != nil {
		return err
	}
	s.start = start
	return nil
}

func (s *Segment) setEnd(end units.Scalar) error {
	if err := s.checkBounds("set end", s.start, end); err != nil {
		return err
	}
	s.end = end
	return nil
}

// setStartEnd applies both bounds or neither.
func (s *Segment) setStartEnd(start, end units.Scalar) error {
	if err := s.checkBounds("set start end", start, end); err != nil {
		return err
	}
	s.start, s.end = start, end
	return nil
}

func (s *Segment) setSpeed(speed units.Scalar) error {
	const op = "set speed"
	if err := checkUnit(op, "speed", speed, s.speed.Unit()); err != nil {
		return err
	}
	if speed.Sign() < 0 {
		return trackerr.New(trackerr.KindRange, op, "segment %d: speed %v is negative", s.index, speed)
	}
	if speed.IsZero() && !s.IsZeroLength() {
		return trackerr.New(trackerr.KindZeroSpeedNonzeroLength, op, "segment %d: length must be zero to set speed to zero", s.index)
	}
	s.speed = speed
	return nil
}
