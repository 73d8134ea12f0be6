package track

import (
	"github.com/samber/lo"

	"github.com/cxd309/trainspeedsim/internal/trackerr"
	"github.com/cxd309/trainspeedsim/internal/units"
)

// Intersecting returns, in index order, copies of every segment whose
// closed interval contains mp: one for an interior point, two for an
// ordinary boundary, three for a zero-length segment between two others.
func (t *Track) Intersecting(mp units.Scalar) ([]Segment, error) {
	const op = "intersecting segments"
	if err := checkUnit(op, "milepost", mp, t.system.Distance()); err != nil {
		return nil, err
	}
	i, j, err := t.intersecting(op, mp)
	if err != nil {
		return nil, err
	}
	return lo.Map(t.segs[i:j], func(s *Segment, _ int) Segment { return *s }), nil
}

// intersecting returns the half-open index range [lo, hi) of segments
// containing mp. It binary-searches for one containing segment, then widens
// the range while the neighbours share the boundary at mp.
func (t *Track) intersecting(op string, mp units.Scalar) (int, int, error) {
	n := len(t.segs)
	if n == 0 {
		return 0, 0, errNoSegments(op)
	}
	if cmp(op, mp, t.segs[0].start) < 0 || cmp(op, mp, t.segs[n-1].end) > 0 {
		return 0, 0, trackerr.New(trackerr.KindOutOfBounds, op, "%v is outside the track (%v - %v)", mp, t.segs[0].start, t.segs[n-1].end)
	}

	found := -1
	for l, h := 0, n-1; l <= h; {
		mid := int(uint(l+h) >> 1)
		s := t.segs[mid]
		if cmp(op, mp, s.start) < 0 {
			h = mid - 1
		} else if cmp(op, mp, s.end) > 0 {
			l = mid + 1
		} else {
			found = mid
			break
		}
	}
	if found < 0 {
		trackerr.Fatalf(op, "no segment contains %v inside the track extent", mp)
	}

	l, h := found, found
	for l > 0 && cmp(op, t.segs[l-1].end, mp) == 0 {
		l--
	}
	for h < n-1 && cmp(op, t.segs[h+1].start, mp) == 0 {
		h++
	}
	for i := l; i < h; i++ {
		if t.segs[i].IsZeroLength() && t.segs[i+1].IsZeroLength() {
			trackerr.Fatalf(op, "segments %d and %d at %v are both zero-length", i, i+1, mp)
		}
	}
	if h-l+1 > 3 {
		trackerr.Fatalf(op, "%d segments touch %v", h-l+1, mp)
	}
	return l, h + 1, nil
}
