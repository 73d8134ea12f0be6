// Package report writes simulation profiles and speed-limit tables.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/samber/lo"
	"github.com/vmihailenco/msgpack/v5"
	"gonum.org/v1/gonum/floats"

	"github.com/cxd309/trainspeedsim/internal/engine"
	"github.com/cxd309/trainspeedsim/internal/track"
	"github.com/cxd309/trainspeedsim/internal/trackerr"
)

// Format selects the output encoding.
type Format string

const (
	Table   Format = "table"
	JSON    Format = "json"
	MsgPack Format = "msgpack"
)

// ParseFormat accepts "table", "json" or "msgpack".
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case Table, JSON, MsgPack:
		return f, nil
	}
	return "", trackerr.New(trackerr.KindValue, "report.ParseFormat", "output format must be one of %q, %q, %q; got %q", Table, JSON, MsgPack, s)
}

// Write encodes log to w. The table format prints one "milepost, speed"
// line per profile point in big units.
func Write(w io.Writer, f Format, log engine.SimulationLog) error {
	switch f {
	case Table:
		for _, p := range log.Output {
			if _, err := fmt.Fprintf(w, "%.1f, %v\n", p.Milepost, p.Speed); err != nil {
				return err
			}
		}
		return nil
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(log)
	case MsgPack:
		return msgpack.NewEncoder(w).Encode(log)
	}
	return trackerr.New(trackerr.KindValue, "report.Write", "unknown output format %q", f)
}

// Summary condenses a profile.
type Summary struct {
	Points    int     `json:"points"`
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
	MaxSpeed  float64 `json:"max_speed"`
	MeanSpeed float64 `json:"mean_speed"` // distance-weighted
}

// Summarize computes a Summary of log. An empty profile yields the zero
// Summary.
func Summarize(log engine.SimulationLog) Summary {
	out := log.Output
	if len(out) == 0 {
		return Summary{}
	}
	speeds := lo.Map(out, func(p engine.ProfilePoint, _ int) float64 { return p.Speed })
	s := Summary{
		Points:   len(out),
		Start:    out[0].Milepost,
		End:      out[len(out)-1].Milepost,
		MaxSpeed: floats.Max(speeds),
	}
	// Trapezoidal mean over distance.
	var area float64
	for i := 1; i < len(out); i++ {
		area += (out[i].Milepost - out[i-1].Milepost) * (out[i].Speed + out[i-1].Speed) / 2
	}
	if length := s.End - s.Start; length > 0 {
		s.MeanSpeed = area / length
	}
	return s
}

// WriteSummary prints s as one human-readable line.
func WriteSummary(w io.Writer, s Summary, log engine.SimulationLog) error {
	_, err := fmt.Fprintf(w, "%d points, %.1f - %.1f %s, max %.1f %s, mean %.1f %s\n",
		s.Points, s.Start, s.End, log.DistanceUnit, s.MaxSpeed, log.SpeedUnit, s.MeanSpeed, log.SpeedUnit)
	return err
}

// WriteLimits prints one "milepost, speed" line per limit change, with
// "end" in place of the speed for the final entry.
func WriteLimits(w io.Writer, limits []track.Limit) error {
	for _, l := range limits {
		speed := "end"
		if l.Speed != nil {
			speed = l.Speed.Format(1)
		}
		if _, err := fmt.Fprintf(w, "%s, %s\n", l.Milepost.Format(3), speed); err != nil {
			return err
		}
	}
	return nil
}
