package track

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cxd309/trainspeedsim/internal/trackerr"
	"github.com/cxd309/trainspeedsim/internal/units"
)

// ControlPoint is a raw speed-limit change point in big units: the limit
// Speed applies from Milepost onwards.
type ControlPoint struct {
	Milepost float64 `json:"milepost"`
	Speed    float64 `json:"speed"`
}

// Load reads a tab-delimited file of (milepost, speed) rows in big units.
func Load(path string, system units.System) (*Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening track file: %w", err)
	}
	defer f.Close()

	t, err := LoadReader(f, system)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return t, nil
}

// LoadReader parses control points from r and builds the track.
func LoadReader(r io.Reader, system units.System) (*Track, error) {
	points, err := ReadControlPoints(r)
	if err != nil {
		return nil, err
	}
	return FromControlPoints(points, system)
}

// ReadControlPoints parses tab-delimited (milepost, speed) rows. Lines
// starting with '#' are ignored.
func ReadControlPoints(r io.Reader) ([]ControlPoint, error) {
	const op = "read control points"
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.Comment = '#'
	cr.FieldsPerRecord = 2
	cr.TrimLeadingSpace = true

	var points []ControlPoint
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, trackerr.Wrap(trackerr.KindValue, op, err, "malformed row")
		}
		line, _ := cr.FieldPos(0)
		mp, err := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
		if err != nil {
			return nil, trackerr.Wrap(trackerr.KindValue, op, err, "line %d: bad milepost %q", line, rec[0])
		}
		speed, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if err != nil {
			return nil, trackerr.Wrap(trackerr.KindValue, op, err, "line %d: bad speed %q", line, rec[1])
		}
		points = append(points, ControlPoint{Milepost: mp, Speed: speed})
	}
	return points, nil
}

// FromControlPoints builds n-1 contiguous segments from n points. Segment i
// spans point i to point i+1 at point i's speed, except the last segment,
// which takes the final point's speed.
func FromControlPoints(points []ControlPoint, system units.System) (*Track, error) {
	const op = "build track"
	if _, err := units.ParseSystem(string(system)); err != nil {
		return nil, err
	}
	if len(points) < 2 {
		return nil, trackerr.New(trackerr.KindStructural, op, "need at least 2 control points, got %d", len(points))
	}

	t := &Track{system: system}
	last := len(points) - 2
	for i := 0; i <= last; i++ {
		start, err := system.Milepost(points[i].Milepost)
		if err != nil {
			return nil, err
		}
		end, err := system.Milepost(points[i+1].Milepost)
		if err != nil {
			return nil, err
		}
		limit := points[i].Speed
		if i == last {
			limit = points[i+1].Speed
		}
		speed, err := system.SpeedLimit(limit)
		if err != nil {
			return nil, err
		}
		seg, err := NewSegment(i, start, end, speed)
		if err != nil {
			return nil, fmt.Errorf("control point %d: %w", i+1, err)
		}
		if i > 0 && seg.IsZeroLength() && t.segs[i-1].IsZeroLength() {
			return nil, trackerr.New(trackerr.KindAdjacency, op, "control points %d and %d: zero-length segments cannot be adjacent", i, i+1)
		}
		t.segs = append(t.segs, seg)
	}
	if len(t.segs) == 0 {
		return nil, errNoSegments(op)
	}
	log.Debugf("built track of %d segments from %d control points", len(t.segs), len(points))
	return t, nil
}
